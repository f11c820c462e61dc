package research

import (
	"context"
	"strings"

	"golang.org/x/net/html"

	"github.com/papercomputeco/veil/pkg/sanitize"
)

// FetchArticle retrieves a page and distills it to bare text: script, style
// and noscript content is dropped, whitespace-only lines are collapsed, and
// the result is capped at MaxContextLen characters. Any fetch failure
// yields an empty string; article retrieval is never fatal.
func (s *Synthesizer) FetchArticle(ctx context.Context, pageURL string) string {
	page, err := s.fetcher.Fetch(ctx, pageURL)
	if err != nil {
		s.logger.Warn("failed to fetch article", "url", pageURL, "error", err)
		return ""
	}

	text := extractText(page)
	if len(text) > MaxContextLen {
		text = text[:sanitize.Boundary(text, MaxContextLen)]
	}
	return text
}

// extractText strips markup and non-content elements, then joins the
// surviving lines with single spaces.
func extractText(page string) string {
	doc, err := html.Parse(strings.NewReader(page))
	if err != nil {
		return ""
	}

	var sb strings.Builder
	var walk func(*html.Node)
	walk = func(n *html.Node) {
		if n.Type == html.ElementNode {
			switch n.Data {
			case "script", "style", "noscript":
				return
			}
		}
		if n.Type == html.TextNode {
			sb.WriteString(n.Data)
			sb.WriteString("\n")
		}
		for c := n.FirstChild; c != nil; c = c.NextSibling {
			walk(c)
		}
	}
	walk(doc)

	var chunks []string
	for _, line := range strings.Split(sb.String(), "\n") {
		if trimmed := strings.TrimSpace(line); trimmed != "" {
			chunks = append(chunks, trimmed)
		}
	}
	return strings.Join(chunks, " ")
}
