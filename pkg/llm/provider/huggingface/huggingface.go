// Package huggingface implements the provider interface for the remote
// token-authenticated text-generation inference API.
package huggingface

import (
	"encoding/json"
	"strings"

	"github.com/papercomputeco/veil/pkg/llm"
)

const urlTemplate = "https://router.huggingface.co/hf-inference/models/"

// provider implements the Provider interface for the Hugging Face API.
type provider struct{}

func New() *provider { return &provider{} }

func (p *provider) Name() string { return "huggingface" }

func (p *provider) RequiresToken() bool { return true }

// Endpoint prefers an explicit URL from configuration, else templates the
// default inference router URL from the model name.
func (p *provider) Endpoint(configuredURL, model string) string {
	if u := strings.TrimSpace(configuredURL); u != "" {
		return u
	}
	return urlTemplate + strings.TrimSpace(model)
}

type request struct {
	Inputs     string     `json:"inputs"`
	Parameters parameters `json:"parameters"`
	Options    options    `json:"options"`
}

type parameters struct {
	Temperature    float64 `json:"temperature"`
	MaxNewTokens   int     `json:"max_new_tokens"`
	TopP           float64 `json:"top_p"`
	ReturnFullText bool    `json:"return_full_text"`
}

type options struct {
	WaitForModel bool `json:"wait_for_model"`
}

// BuildBody renders the request as a flat text-generation payload. The
// echoed prompt is suppressed so only new text comes back.
func (p *provider) BuildBody(req *llm.ChatRequest) ([]byte, error) {
	return json.Marshal(request{
		Inputs: req.FlatPrompt(),
		Parameters: parameters{
			Temperature:    req.Temperature,
			MaxNewTokens:   req.MaxTokens,
			TopP:           req.TopP,
			ReturnFullText: false,
		},
		Options: options{WaitForModel: true},
	})
}
