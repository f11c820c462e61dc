package llm

import (
	"fmt"
	"strings"
)

// ChatRequest is the backend-agnostic model payload. It is derived
// deterministically from the trimmed history, the new user message, and the
// research context; providers render it into their wire format.
type ChatRequest struct {
	// Model is the resolved model identifier.
	Model string

	// System is the persona instruction naming the assistant's behavior
	// contract.
	System string

	// Context is the optional research context. Empty means the prompt
	// carries no context segment at all.
	Context string

	// History is the trimmed conversation history, oldest first.
	History []Message

	// UserMessage is the new user turn.
	UserMessage string

	// Generation parameters, fixed by the prompt assembler.
	Temperature float64
	MaxTokens   int
	TopP        float64
}

// FlatPrompt renders the request as a single free-text prompt for
// text-generation backends: system instruction, optional context, labeled
// history turns, the new user turn, and a trailing continuation cue.
func (r *ChatRequest) FlatPrompt() string {
	segments := make([]string, 0, len(r.History)+4)

	if r.System != "" {
		segments = append(segments, "System: "+r.System)
	}
	if r.Context != "" {
		segments = append(segments, "Context: "+r.Context)
	}

	for _, m := range r.History {
		prefix := "User"
		if strings.EqualFold(m.Role, "assistant") {
			prefix = "Assistant"
		}
		segments = append(segments, fmt.Sprintf("%s: %s", prefix, m.Content))
	}

	segments = append(segments, "User: "+r.UserMessage)
	segments = append(segments, "Assistant:")

	return strings.Join(segments, "\n\n")
}

// ChatMessages renders the request as an ordered role/content list for
// chat-style backends, folding the research context into the latest user
// turn.
func (r *ChatRequest) ChatMessages() []Message {
	messages := make([]Message, 0, len(r.History)+2)

	if r.System != "" {
		messages = append(messages, Message{Role: "system", Content: r.System})
	}
	messages = append(messages, r.History...)

	user := r.UserMessage
	if r.Context != "" {
		user = "Context: " + r.Context + "\n\n" + user
	}
	messages = append(messages, Message{Role: "user", Content: user})

	return messages
}
