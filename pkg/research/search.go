package research

import (
	"context"
	"net/url"
	"strings"

	"golang.org/x/net/html"
)

const searchBaseURL = "https://html.duckduckgo.com/html/?q="

// SearchWeb issues one fetch against the search engine's HTML results page
// and returns at most MaxResults {title, url} pairs in document order. Any
// failure yields an empty slice; search is never fatal.
func (s *Synthesizer) SearchWeb(ctx context.Context, query string) []Result {
	page, err := s.fetcher.Fetch(ctx, searchBaseURL+url.QueryEscape(query))
	if err != nil {
		s.logger.Warn("web search failed", "error", err)
		return nil
	}

	results, err := parseSearchResults(page, MaxResults)
	if err != nil {
		s.logger.Warn("could not parse search results", "error", err)
		return nil
	}

	return results
}

// parseSearchResults extracts anchors carrying the result__a class from the
// results page, in document order.
func parseSearchResults(page string, limit int) ([]Result, error) {
	doc, err := html.Parse(strings.NewReader(page))
	if err != nil {
		return nil, err
	}

	var results []Result
	var walk func(*html.Node)
	walk = func(n *html.Node) {
		if len(results) >= limit {
			return
		}

		if n.Type == html.ElementNode && n.Data == "a" && hasClass(n, "result__a") {
			href := attrValue(n, "href")
			title := strings.TrimSpace(textContent(n))
			if href != "" && title != "" {
				results = append(results, Result{Title: title, URL: cleanResultURL(href)})
			}
			return
		}

		for c := n.FirstChild; c != nil; c = c.NextSibling {
			walk(c)
		}
	}
	walk(doc)

	return results, nil
}

// cleanResultURL unwraps the engine's redirect indirection when present.
func cleanResultURL(href string) string {
	const redirectPrefix = "//duckduckgo.com/l/?uddg="
	if !strings.HasPrefix(href, redirectPrefix) {
		return href
	}
	decoded, err := url.QueryUnescape(strings.TrimPrefix(href, redirectPrefix))
	if err != nil {
		return href
	}
	if idx := strings.Index(decoded, "&"); idx > 0 {
		decoded = decoded[:idx]
	}
	return decoded
}

func hasClass(n *html.Node, class string) bool {
	for _, attr := range n.Attr {
		if attr.Key == "class" {
			for _, c := range strings.Fields(attr.Val) {
				if c == class {
					return true
				}
			}
		}
	}
	return false
}

func attrValue(n *html.Node, key string) string {
	for _, attr := range n.Attr {
		if attr.Key == key {
			return attr.Val
		}
	}
	return ""
}

func textContent(n *html.Node) string {
	var sb strings.Builder
	var walk func(*html.Node)
	walk = func(n *html.Node) {
		if n.Type == html.TextNode {
			sb.WriteString(n.Data)
		}
		for c := n.FirstChild; c != nil; c = c.NextSibling {
			walk(c)
		}
	}
	walk(n)
	return sb.String()
}
