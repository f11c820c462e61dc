// Package provider defines the inference backend interface and registry.
// Each implementation knows how to resolve its endpoint and render the
// internal ChatRequest into its wire format.
package provider

import (
	"github.com/papercomputeco/veil/pkg/llm"
)

// Provider adapts the internal request representation to one inference
// backend's HTTP contract.
type Provider interface {
	// Name returns the canonical provider name (e.g. "huggingface", "local").
	Name() string

	// Endpoint resolves the POST target: an explicitly configured URL
	// wins, else a default templated from the model name.
	Endpoint(configuredURL, model string) string

	// BuildBody renders the request into the provider's JSON wire format.
	BuildBody(req *llm.ChatRequest) ([]byte, error)

	// RequiresToken reports whether the backend needs a bearer token.
	// Absence of a required token is not fatal; the invoker degrades to
	// a "not configured" reply.
	RequiresToken() bool
}
