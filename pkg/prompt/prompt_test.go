package prompt_test

import (
	"fmt"
	"strings"

	. "github.com/onsi/ginkgo/v2"
	. "github.com/onsi/gomega"

	"github.com/papercomputeco/veil/pkg/history"
	"github.com/papercomputeco/veil/pkg/prompt"
)

var _ = Describe("Assemble", func() {
	It("carries the persona and fixed generation parameters", func() {
		req := prompt.Assemble(nil, "hello", "")

		Expect(req.System).To(Equal(prompt.Persona))
		Expect(req.Temperature).To(Equal(prompt.Temperature))
		Expect(req.MaxTokens).To(Equal(prompt.MaxTokens))
		Expect(req.TopP).To(Equal(prompt.TopP))
		Expect(req.UserMessage).To(Equal("hello"))
	})

	It("trims history to the prompt window, keeping the most recent turns", func() {
		turns := make([]history.Turn, 0, history.PromptLimit+5)
		for i := 0; i < history.PromptLimit+5; i++ {
			turns = append(turns, history.Turn{
				Role:    "user",
				Content: fmt.Sprintf("turn %d", i),
			})
		}

		req := prompt.Assemble(turns, "latest", "")

		Expect(req.History).To(HaveLen(history.PromptLimit))
		Expect(req.History[0].Content).To(Equal("turn 5"))
		Expect(req.History[len(req.History)-1].Content).
			To(Equal(fmt.Sprintf("turn %d", history.PromptLimit+4)))
	})

	It("drops turns that sanitize to empty", func() {
		turns := []history.Turn{
			{Role: "user", Content: "keep"},
			{Role: "", Content: "no role"},
			{Role: "assistant", Content: "   "},
		}

		req := prompt.Assemble(turns, "msg", "")

		Expect(req.History).To(HaveLen(1))
		Expect(req.History[0].Content).To(Equal("keep"))
	})

	It("omits the context segment when research context is empty", func() {
		req := prompt.Assemble(nil, "msg", "")

		Expect(req.Context).To(BeEmpty())
		Expect(req.FlatPrompt()).NotTo(ContainSubstring("Context:"))
	})

	It("includes the context segment when research context is present", func() {
		req := prompt.Assemble(nil, "msg", "Top results: a; b.")

		flat := req.FlatPrompt()
		Expect(flat).To(ContainSubstring("Context: Top results: a; b."))
		Expect(strings.HasSuffix(flat, "Assistant:")).To(BeTrue())
	})
})
