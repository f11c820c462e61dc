package local

import (
	"encoding/json"

	. "github.com/onsi/ginkgo/v2"
	. "github.com/onsi/gomega"

	"github.com/papercomputeco/veil/pkg/llm"
)

var _ = Describe("Provider", func() {
	Describe("Endpoint", func() {
		It("appends the chat path to the configured base", func() {
			Expect(New().Endpoint("http://127.0.0.1:8000", "m")).
				To(Equal("http://127.0.0.1:8000/api/chat"))
		})

		It("does not double-append the chat path", func() {
			Expect(New().Endpoint("http://127.0.0.1:8000/api/chat", "m")).
				To(Equal("http://127.0.0.1:8000/api/chat"))
		})

		It("defaults to the local daemon address", func() {
			Expect(New().Endpoint("", "m")).To(Equal("http://localhost:11434/api/chat"))
		})
	})

	Describe("BuildBody", func() {
		It("folds context into the latest user turn", func() {
			req := &llm.ChatRequest{
				Model:       "local-model",
				System:      "persona",
				Context:     "background info",
				History:     []llm.Message{{Role: "assistant", Content: "prior"}},
				UserMessage: "question",
				Temperature: 0.2,
				MaxTokens:   800,
				TopP:        0.9,
			}

			body, err := New().BuildBody(req)
			Expect(err).NotTo(HaveOccurred())

			var decoded request
			Expect(json.Unmarshal(body, &decoded)).To(Succeed())
			Expect(decoded.Model).To(Equal("local-model"))
			Expect(decoded.Stream).To(BeFalse())
			Expect(decoded.Messages).To(HaveLen(3))
			Expect(decoded.Messages[0].Role).To(Equal("system"))
			last := decoded.Messages[len(decoded.Messages)-1]
			Expect(last.Role).To(Equal("user"))
			Expect(last.Content).To(Equal("Context: background info\n\nquestion"))
			Expect(decoded.Options.NumPredict).To(Equal(800))
		})
	})
})
