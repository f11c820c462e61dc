// Package history provides the bounded, sanitized conversation log shared by
// every chat request.
//
// A Memory is loaded from a Driver at request start, mutated in memory across
// the pipeline, and persisted at request end. All mutation goes through
// Append, which keeps the invariant that the log never exceeds MaxEntries and
// that every retained turn survived sanitization.
package history

import (
	"github.com/papercomputeco/veil/pkg/sanitize"
)

const (
	// MaxEntries is the hard cap on persisted conversation turns.
	MaxEntries = 50

	// PromptLimit is the default number of recent turns included in a
	// prompt. Kept well below MaxEntries to bound token usage.
	PromptLimit = 12

	// MaxRoleLen bounds the role field of a turn.
	MaxRoleLen = 32

	// MaxContentLen bounds the content field of a turn, matching the
	// maximum accepted user message length.
	MaxContentLen = 4000
)

// Turn is a single conversation entry. Turns are immutable once created and
// owned exclusively by the history store.
type Turn struct {
	Role    string `json:"role"`
	Content string `json:"content"`
}

// Memory is the ordered conversation log, oldest turn first.
type Memory struct {
	History []Turn `json:"history"`
}

// NewMemory returns an empty Memory.
func NewMemory() *Memory {
	return &Memory{History: []Turn{}}
}

// Truncate sanitizes every turn, drops turns whose role or content sanitize
// to empty, and keeps the most recent limit survivors in original order.
// Invalid turns are dropped, never replaced with placeholders.
func Truncate(turns []Turn, limit int) []Turn {
	cleaned := make([]Turn, 0, len(turns))
	for _, t := range turns {
		role := sanitize.Clean(t.Role, MaxRoleLen)
		content := sanitize.Clean(t.Content, MaxContentLen)
		if role == "" || content == "" {
			continue
		}
		cleaned = append(cleaned, Turn{Role: role, Content: content})
	}
	if limit > 0 && len(cleaned) > limit {
		cleaned = cleaned[len(cleaned)-limit:]
	}
	return cleaned
}

// Append sanitizes and appends a turn, then re-truncates to MaxEntries.
// The append is a no-op when role or content sanitize to empty.
func (m *Memory) Append(role, content string) {
	role = sanitize.Clean(role, MaxRoleLen)
	content = sanitize.Clean(content, MaxContentLen)
	if role == "" || content == "" {
		return
	}
	m.History = append(m.History, Turn{Role: role, Content: content})
	m.History = Truncate(m.History, MaxEntries)
}

// TrimForPrompt returns the most recent limit sanitized turns for prompt
// construction. A non-positive limit falls back to PromptLimit.
func (m *Memory) TrimForPrompt(limit int) []Turn {
	if limit <= 0 {
		limit = PromptLimit
	}
	return Truncate(m.History, limit)
}
