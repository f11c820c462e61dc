// Package prompt assembles the backend-agnostic chat request from the
// trimmed history, new user message, and optional research context.
package prompt

import (
	"github.com/papercomputeco/veil/pkg/history"
	"github.com/papercomputeco/veil/pkg/llm"
)

// Persona is the fixed system instruction given to every model invocation.
const Persona = "You are a helpful, precise assistant. Answer directly and " +
	"concisely. When research context is provided, ground your answer in it " +
	"and say so when it is insufficient."

// Generation parameters are fixed per invocation rather than caller-tunable.
const (
	Temperature = 0.2
	MaxTokens   = 800
	TopP        = 0.9
)

// Assemble builds a chat request from the conversation state. History is
// trimmed to the prompt window before inclusion; an empty research context
// yields a request with no context segment.
func Assemble(turns []history.Turn, userMessage, researchContext string) *llm.ChatRequest {
	trimmed := history.Truncate(turns, history.PromptLimit)

	messages := make([]llm.Message, 0, len(trimmed))
	for _, t := range trimmed {
		messages = append(messages, llm.Message{Role: t.Role, Content: t.Content})
	}

	return &llm.ChatRequest{
		System:      Persona,
		Context:     researchContext,
		History:     messages,
		UserMessage: userMessage,
		Temperature: Temperature,
		MaxTokens:   MaxTokens,
		TopP:        TopP,
	}
}
