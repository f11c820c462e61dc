package llm

import (
	"encoding/json"
	"strings"
)

// envelope is the tagged decode of a heterogeneous model response. Fields
// are kept raw so a non-string shape in one field never poisons the rest.
type envelope struct {
	GeneratedText json.RawMessage   `json:"generated_text"`
	Text          json.RawMessage   `json:"text"`
	Content       json.RawMessage   `json:"content"`
	Message       json.RawMessage   `json:"message"`
	Choices       []json.RawMessage `json:"choices"`
	Data          []json.RawMessage `json:"data"`
}

// ExtractText normalizes a model response to plain text using an explicit
// priority order: direct string fields (generated_text, text, content), a
// nested message object, then recursive extraction over choices and data
// lists. A bare JSON string or an array of any of the above also resolves.
// Anything else yields the empty string.
func ExtractText(raw json.RawMessage) string {
	raw = json.RawMessage(strings.TrimSpace(string(raw)))
	if len(raw) == 0 {
		return ""
	}

	switch raw[0] {
	case '"':
		var s string
		if err := json.Unmarshal(raw, &s); err != nil {
			return ""
		}
		return s

	case '[':
		var items []json.RawMessage
		if err := json.Unmarshal(raw, &items); err != nil {
			return ""
		}
		return joinExtracted(items)

	case '{':
		var env envelope
		if err := json.Unmarshal(raw, &env); err != nil {
			return ""
		}
		for _, field := range []json.RawMessage{env.GeneratedText, env.Text, env.Content} {
			if s, ok := asString(field); ok && strings.TrimSpace(s) != "" {
				return s
			}
		}
		if len(env.Message) > 0 {
			if s := ExtractText(env.Message); s != "" {
				return s
			}
		}
		if len(env.Choices) > 0 {
			if s := joinExtracted(env.Choices); s != "" {
				return s
			}
		}
		if len(env.Data) > 0 {
			if s := joinExtracted(env.Data); s != "" {
				return s
			}
		}
	}

	return ""
}

func joinExtracted(items []json.RawMessage) string {
	parts := make([]string, 0, len(items))
	for _, item := range items {
		if s := ExtractText(item); s != "" {
			parts = append(parts, s)
		}
	}
	return strings.Join(parts, "\n")
}

func asString(raw json.RawMessage) (string, bool) {
	if len(raw) == 0 {
		return "", false
	}
	var s string
	if err := json.Unmarshal(raw, &s); err != nil {
		return "", false
	}
	return s, true
}
