package api

import (
	"bytes"
	"context"
	"encoding/json"
	"io"
	"net/http"
	"strings"

	. "github.com/onsi/ginkgo/v2"
	. "github.com/onsi/gomega"

	"github.com/papercomputeco/veil/pkg/chat"
	"github.com/papercomputeco/veil/pkg/history"
	"github.com/papercomputeco/veil/pkg/logger"
)

type fakeChatter struct {
	reply string

	message  string
	override string
	calls    int
}

func (f *fakeChatter) Respond(_ context.Context, message, modelOverride string) string {
	f.calls++
	f.message = message
	f.override = modelOverride
	return f.reply
}

type fakeAnonymizer struct {
	status string
	detail string
}

func (f *fakeAnonymizer) Status() (string, string) { return f.status, f.detail }

type fakeBackend struct {
	status string
	detail string
}

func (f *fakeBackend) Probe(_ context.Context) (string, string) { return f.status, f.detail }

var _ = Describe("Server", func() {
	var (
		chatter *fakeChatter
		server  *Server
	)

	BeforeEach(func() {
		chatter = &fakeChatter{reply: "model says hi"}
		server = NewServer(
			Config{ListenAddr: ":0"},
			chatter,
			&fakeAnonymizer{status: "ready", detail: "Tor proxy reachable."},
			&fakeBackend{status: "online", detail: "status code 200"},
			logger.Nop(),
		)
	})

	postChat := func(body string) *http.Response {
		req, err := http.NewRequest(http.MethodPost, "/api/chat", bytes.NewBufferString(body))
		Expect(err).NotTo(HaveOccurred())
		req.Header.Set("Content-Type", "application/json")

		resp, err := server.App().Test(req, -1)
		Expect(err).NotTo(HaveOccurred())
		return resp
	}

	decodeChat := func(resp *http.Response) ChatResponse {
		defer resp.Body.Close()
		var out ChatResponse
		Expect(json.NewDecoder(resp.Body).Decode(&out)).To(Succeed())
		return out
	}

	Describe("POST /api/chat", func() {
		It("returns the pipeline reply for a valid message", func() {
			resp := postChat(`{"message": "hello", "model": "custom/model"}`)

			Expect(resp.StatusCode).To(Equal(http.StatusOK))
			Expect(decodeChat(resp).Response).To(Equal("model says hi"))
			Expect(chatter.message).To(Equal("hello"))
			Expect(chatter.override).To(Equal("custom/model"))
		})

		It("short-circuits an empty message", func() {
			resp := postChat(`{"message": "   "}`)

			Expect(decodeChat(resp).Response).To(Equal(chat.ReplyNoMessage))
			Expect(chatter.calls).To(BeZero())
		})

		It("short-circuits a missing body", func() {
			resp := postChat(`not json`)

			Expect(decodeChat(resp).Response).To(Equal(chat.ReplyNoMessage))
			Expect(chatter.calls).To(BeZero())
		})

		It("accepts a message whose padding trims below the limit", func() {
			body, err := json.Marshal(ChatRequest{
				Message: strings.Repeat("a", history.MaxContentLen-1) + strings.Repeat(" ", 50),
			})
			Expect(err).NotTo(HaveOccurred())

			resp := postChat(string(body))

			Expect(decodeChat(resp).Response).To(Equal("model says hi"))
			Expect(chatter.calls).To(Equal(1))
			Expect(chatter.message).To(HaveLen(history.MaxContentLen - 1))
		})

		It("short-circuits an over-limit message", func() {
			body, err := json.Marshal(ChatRequest{
				Message: strings.Repeat("a", history.MaxContentLen),
			})
			Expect(err).NotTo(HaveOccurred())

			resp := postChat(string(body))

			Expect(decodeChat(resp).Response).To(Equal(chat.ReplyTooLong))
			Expect(chatter.calls).To(BeZero())
		})
	})

	Describe("GET /health", func() {
		It("reports anonymizer and backend health", func() {
			req, err := http.NewRequest(http.MethodGet, "/health", nil)
			Expect(err).NotTo(HaveOccurred())

			resp, err := server.App().Test(req, -1)
			Expect(err).NotTo(HaveOccurred())
			defer resp.Body.Close()

			Expect(resp.StatusCode).To(Equal(http.StatusOK))

			var out HealthResponse
			Expect(json.NewDecoder(resp.Body).Decode(&out)).To(Succeed())
			Expect(out.Tor.Status).To(Equal("ready"))
			Expect(out.Backend.Status).To(Equal("online"))
			Expect(out.Backend.Detail).To(Equal("status code 200"))
		})
	})

	Describe("GET /ping", func() {
		It("returns pong", func() {
			req, err := http.NewRequest(http.MethodGet, "/ping", nil)
			Expect(err).NotTo(HaveOccurred())

			resp, err := server.App().Test(req, -1)
			Expect(err).NotTo(HaveOccurred())
			defer resp.Body.Close()

			body, err := io.ReadAll(resp.Body)
			Expect(err).NotTo(HaveOccurred())
			Expect(string(body)).To(ContainSubstring("pong"))
		})
	})
})
