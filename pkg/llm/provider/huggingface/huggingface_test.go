package huggingface

import (
	"encoding/json"

	. "github.com/onsi/ginkgo/v2"
	. "github.com/onsi/gomega"

	"github.com/papercomputeco/veil/pkg/llm"
)

var _ = Describe("Provider", func() {
	Describe("Endpoint", func() {
		It("prefers an explicit URL", func() {
			p := New()
			Expect(p.Endpoint("https://example.com/custom", "m")).
				To(Equal("https://example.com/custom"))
		})

		It("templates the default URL from the model name", func() {
			p := New()
			Expect(p.Endpoint("", "org/model")).
				To(Equal("https://router.huggingface.co/hf-inference/models/org/model"))
		})
	})

	Describe("BuildBody", func() {
		It("renders a flat prompt with fixed generation parameters", func() {
			req := &llm.ChatRequest{
				System:      "You are a careful assistant.",
				Context:     "recent findings",
				History:     []llm.Message{{Role: "user", Content: "earlier"}},
				UserMessage: "now",
				Temperature: 0.2,
				MaxTokens:   800,
				TopP:        0.9,
			}

			body, err := New().BuildBody(req)
			Expect(err).NotTo(HaveOccurred())

			var decoded request
			Expect(json.Unmarshal(body, &decoded)).To(Succeed())
			Expect(decoded.Inputs).To(HavePrefix("System: You are a careful assistant."))
			Expect(decoded.Inputs).To(ContainSubstring("Context: recent findings"))
			Expect(decoded.Inputs).To(HaveSuffix("Assistant:"))
			Expect(decoded.Parameters.Temperature).To(Equal(0.2))
			Expect(decoded.Parameters.MaxNewTokens).To(Equal(800))
			Expect(decoded.Parameters.ReturnFullText).To(BeFalse())
			Expect(decoded.Options.WaitForModel).To(BeTrue())
		})
	})
})
