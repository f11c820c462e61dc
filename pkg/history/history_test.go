package history_test

import (
	"fmt"
	"strings"

	. "github.com/onsi/ginkgo/v2"
	. "github.com/onsi/gomega"

	"github.com/papercomputeco/veil/pkg/history"
)

var _ = Describe("Memory", func() {
	Describe("Append", func() {
		It("sanitizes role and content", func() {
			mem := history.NewMemory()
			mem.Append("  user\x00 ", " hello\x1f world ")

			Expect(mem.History).To(HaveLen(1))
			Expect(mem.History[0].Role).To(Equal("user"))
			Expect(mem.History[0].Content).To(Equal("hello world"))
		})

		It("is a no-op when the role sanitizes to empty", func() {
			mem := history.NewMemory()
			mem.Append("\x00\x01", "content")
			Expect(mem.History).To(BeEmpty())
		})

		It("is a no-op when the content sanitizes to empty", func() {
			mem := history.NewMemory()
			mem.Append("user", "   ")
			Expect(mem.History).To(BeEmpty())
		})

		It("caps the role at 32 characters", func() {
			mem := history.NewMemory()
			mem.Append(strings.Repeat("r", 100), "content")
			Expect(mem.History[0].Role).To(HaveLen(history.MaxRoleLen))
		})

		It("caps the content at 4000 characters", func() {
			mem := history.NewMemory()
			mem.Append("user", strings.Repeat("c", 10000))
			Expect(mem.History[0].Content).To(HaveLen(history.MaxContentLen))
		})

		It("holds the length invariant after every call", func() {
			mem := history.NewMemory()
			for i := 0; i < 200; i++ {
				mem.Append("user", fmt.Sprintf("message %d", i))
				Expect(len(mem.History)).To(BeNumerically("<=", history.MaxEntries))
			}
		})

		It("keeps exactly the most recent entries in order", func() {
			mem := history.NewMemory()
			for i := 0; i < 60; i++ {
				mem.History = append(mem.History, history.Turn{
					Role:    "user",
					Content: fmt.Sprintf("turn %d", i),
				})
			}

			mem.Append("user", "turn 60")

			Expect(mem.History).To(HaveLen(history.MaxEntries))
			Expect(mem.History[0].Content).To(Equal("turn 11"))
			Expect(mem.History[len(mem.History)-1].Content).To(Equal("turn 60"))
		})
	})

	Describe("TrimForPrompt", func() {
		It("returns only the most recent limit entries", func() {
			mem := history.NewMemory()
			for i := 0; i < 30; i++ {
				mem.Append("user", fmt.Sprintf("turn %d", i))
			}

			trimmed := mem.TrimForPrompt(12)
			Expect(trimmed).To(HaveLen(12))
			Expect(trimmed[0].Content).To(Equal("turn 18"))
			Expect(trimmed[11].Content).To(Equal("turn 29"))
		})

		It("falls back to the default prompt limit", func() {
			mem := history.NewMemory()
			for i := 0; i < 30; i++ {
				mem.Append("user", fmt.Sprintf("turn %d", i))
			}
			Expect(mem.TrimForPrompt(0)).To(HaveLen(history.PromptLimit))
		})

		It("returns everything when the history is short", func() {
			mem := history.NewMemory()
			mem.Append("user", "only one")
			Expect(mem.TrimForPrompt(12)).To(HaveLen(1))
		})
	})

	Describe("Truncate", func() {
		It("drops invalid turns without placeholders", func() {
			turns := []history.Turn{
				{Role: "user", Content: "first"},
				{Role: "", Content: "no role"},
				{Role: "assistant", Content: ""},
				{Role: "user", Content: "last"},
			}

			out := history.Truncate(turns, 50)
			Expect(out).To(HaveLen(2))
			Expect(out[0].Content).To(Equal("first"))
			Expect(out[1].Content).To(Equal("last"))
		})
	})
})
