// Package research decides when a chat message warrants web research and
// synthesizes bounded context from search results, article bodies, and
// onion links pasted directly into the message.
//
// Every failure on the research path degrades to less context, never to a
// failed chat turn.
package research

import (
	"context"
	"fmt"
	"log/slog"
	"regexp"
	"strings"
)

const (
	// MaxResults caps how many search results are considered.
	MaxResults = 5

	// MaxArticles caps how many result bodies are fetched.
	MaxArticles = 3

	// MaxOnionFetches caps onion-derived fetches so adversarial input
	// cannot amplify latency without bound.
	MaxOnionFetches = 3

	// MaxContextLen caps the article body and final context size.
	MaxContextLen = 2000
)

// researchKeywords trigger the research path when present as substrings of
// the lower-cased message. No tokenization, no stemming.
var researchKeywords = []string{
	"search",
	"find",
	"lookup",
	"web",
	"research",
	"investigate",
	"deep dive",
	"tor",
	"dark web",
}

var onionPattern = regexp.MustCompile(`(?i)https?://[\w.-]+\.onion[\w/?=&%-]*`)

// PageFetcher fetches a URL and returns its body. Satisfied by fetch.Fetcher.
type PageFetcher interface {
	Fetch(ctx context.Context, url string) (string, error)
}

// Result is one search hit in document order.
type Result struct {
	Title string
	URL   string
}

// Synthesizer builds research context for the prompt assembler.
type Synthesizer struct {
	fetcher PageFetcher
	logger  *slog.Logger
}

// New creates a Synthesizer using the given fetcher for all network I/O.
func New(fetcher PageFetcher, logger *slog.Logger) *Synthesizer {
	return &Synthesizer{fetcher: fetcher, logger: logger}
}

// NeedsResearch reports whether the message contains any research keyword.
// Pure and stateless; case-insensitive substring test.
func NeedsResearch(message string) bool {
	normalized := strings.ToLower(message)
	for _, keyword := range researchKeywords {
		if strings.Contains(normalized, keyword) {
			return true
		}
	}
	return false
}

// ExtractOnionLinks returns onion service URLs embedded in text, letting a
// user paste a dark-web address directly for research.
func ExtractOnionLinks(text string) []string {
	return onionPattern.FindAllString(text, -1)
}

// BuildContext assembles the research context for a message. When research
// is not warranted it returns an empty string and performs zero network I/O.
// The caller sanitizes and truncates the result to MaxContextLen.
func (s *Synthesizer) BuildContext(ctx context.Context, message string) string {
	if !NeedsResearch(message) {
		return ""
	}

	var parts []string

	results := s.SearchWeb(ctx, message)
	if len(results) > 0 {
		titles := make([]string, len(results))
		for i, r := range results {
			titles[i] = r.Title
		}
		parts = append(parts, fmt.Sprintf("Top results: %s.", strings.Join(titles, "; ")))

		for i, r := range results {
			if i >= MaxArticles {
				break
			}
			if article := s.FetchArticle(ctx, r.URL); article != "" {
				parts = append(parts, fmt.Sprintf("%s: %s", r.Title, article))
			}
		}
	}

	onions := ExtractOnionLinks(message)
	if len(onions) > MaxOnionFetches {
		s.logger.Warn("onion link count exceeds fetch cap",
			"found", len(onions), "cap", MaxOnionFetches)
		onions = onions[:MaxOnionFetches]
	}
	for _, onionURL := range onions {
		if article := s.FetchArticle(ctx, onionURL); article != "" {
			parts = append(parts, fmt.Sprintf("Onion source %s: %s", onionURL, article))
		}
	}

	return strings.Join(parts, "\n\n")
}
