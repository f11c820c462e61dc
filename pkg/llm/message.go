// Package llm provides the provider-agnostic model payload types, response
// text extraction, and the invoker that turns an assembled prompt into a
// display-ready reply string.
package llm

// Message is a single role-tagged message in a chat-style payload.
type Message struct {
	Role    string `json:"role"`
	Content string `json:"content"`
}
