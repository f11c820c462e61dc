package sanitize_test

import (
	"strings"
	"unicode/utf8"

	. "github.com/onsi/ginkgo/v2"
	. "github.com/onsi/gomega"

	"github.com/papercomputeco/veil/pkg/sanitize"
)

var _ = Describe("Clean", func() {
	It("strips ASCII control characters", func() {
		Expect(sanitize.Clean("a\x00b\x08c\x0bd\x0ce\x1ff\x7fg", 0)).To(Equal("abcdefg"))
	})

	It("trims surrounding whitespace", func() {
		Expect(sanitize.Clean("  hello world \n", 0)).To(Equal("hello world"))
	})

	It("preserves interior newlines and tabs", func() {
		Expect(sanitize.Clean("line one\nline\ttwo", 0)).To(Equal("line one\nline\ttwo"))
	})

	It("truncates to the given limit", func() {
		Expect(sanitize.Clean(strings.Repeat("x", 100), 10)).To(HaveLen(10))
	})

	It("backs off to a rune boundary instead of splitting a character", func() {
		// "é" is two bytes; a limit of 3 falls mid-rune.
		out := sanitize.Clean("aéé", 3)
		Expect(out).To(Equal("aé"))
		Expect(utf8.ValidString(out)).To(BeTrue())
	})

	It("keeps every truncated result valid UTF-8", func() {
		in := strings.Repeat("日本語", 40)
		for limit := 1; limit <= 12; limit++ {
			out := sanitize.Clean(in, limit)
			Expect(utf8.ValidString(out)).To(BeTrue(), "limit %d split a rune", limit)
			Expect(len(out)).To(BeNumerically("<=", limit))
		}
	})

	It("ignores a zero or negative limit", func() {
		long := strings.Repeat("y", 64)
		Expect(sanitize.Clean(long, 0)).To(Equal(long))
		Expect(sanitize.Clean(long, -1)).To(Equal(long))
	})

	It("returns empty for whitespace-only input", func() {
		Expect(sanitize.Clean(" \t \n ", 100)).To(BeEmpty())
	})

	It("never emits control characters regardless of input", func() {
		inputs := []string{
			"\x01\x02\x03",
			"mixed\x1fcontent\x7f",
			strings.Repeat("\x0b", 500),
		}
		for _, in := range inputs {
			out := sanitize.Clean(in, 50)
			for _, r := range out {
				stripped := r <= 0x08 || r == 0x0b || r == 0x0c ||
					(r >= 0x0e && r < 0x20) || r == 0x7f
				Expect(stripped).To(BeFalse(), "control char %q leaked through", r)
			}
			Expect(len(out)).To(BeNumerically("<=", 50))
		}
	})
})
