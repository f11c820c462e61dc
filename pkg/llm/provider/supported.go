package provider

import (
	"fmt"

	"github.com/papercomputeco/veil/pkg/llm/provider/huggingface"
	"github.com/papercomputeco/veil/pkg/llm/provider/local"
)

// Supported provider type constants
const (
	HuggingFace = "huggingface"
	Local       = "local"
)

// SupportedProviders returns the list of all supported provider type names.
func SupportedProviders() []string {
	return []string{HuggingFace, Local}
}

// New creates a new Provider instance for the given provider type.
// Returns an error if the provider type is not recognized.
func New(providerType string) (Provider, error) {
	switch providerType {
	case HuggingFace:
		return huggingface.New(), nil
	case Local:
		return local.New(), nil
	default:
		return nil, fmt.Errorf("unknown provider type: %q (supported: %v)", providerType, SupportedProviders())
	}
}
