// Package local implements the provider interface for an unauthenticated
// local inference daemon speaking the ollama-style chat API.
package local

import (
	"encoding/json"
	"strings"

	"github.com/papercomputeco/veil/pkg/llm"
)

const (
	defaultBaseURL = "http://localhost:11434"
	chatPath       = "/api/chat"
)

// provider implements the Provider interface for a local chat daemon.
type provider struct{}

func New() *provider { return &provider{} }

func (p *provider) Name() string { return "local" }

func (p *provider) RequiresToken() bool { return false }

// Endpoint appends the chat path to the configured base URL, defaulting to
// the conventional local daemon address.
func (p *provider) Endpoint(configuredURL, _ string) string {
	base := strings.TrimSpace(configuredURL)
	if base == "" {
		base = defaultBaseURL
	}
	base = strings.TrimSuffix(base, "/")
	if strings.HasSuffix(base, chatPath) {
		return base
	}
	return base + chatPath
}

type request struct {
	Model    string        `json:"model"`
	Messages []llm.Message `json:"messages"`
	Stream   bool          `json:"stream"`
	Options  options       `json:"options"`
}

type options struct {
	Temperature float64 `json:"temperature"`
	NumPredict  int     `json:"num_predict"`
	TopP        float64 `json:"top_p"`
}

// BuildBody renders the request as a structured chat payload with the
// research context folded into the latest user turn.
func (p *provider) BuildBody(req *llm.ChatRequest) ([]byte, error) {
	return json.Marshal(request{
		Model:    req.Model,
		Messages: req.ChatMessages(),
		Stream:   false,
		Options: options{
			Temperature: req.Temperature,
			NumPredict:  req.MaxTokens,
			TopP:        req.TopP,
		},
	})
}
