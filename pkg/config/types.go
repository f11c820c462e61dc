package config

// Config represents the persistent veil configuration stored as config.json.
// The JSON layout uses sections for logical grouping; every field has a
// default so a missing or partial file always yields a usable config.
type Config struct {
	Model      ModelConfig      `json:"model" mapstructure:"model"`
	Backend    BackendConfig    `json:"backend" mapstructure:"backend"`
	Server     ServerConfig     `json:"server" mapstructure:"server"`
	History    HistoryConfig    `json:"history" mapstructure:"history"`
	Anonymizer AnonymizerConfig `json:"anonymizer" mapstructure:"anonymizer"`
	Research   ResearchConfig   `json:"research" mapstructure:"research"`
}

// ModelConfig names the model used for every invocation unless a request
// carries an override.
type ModelConfig struct {
	Name    string `json:"name,omitempty" mapstructure:"name"`
	Default string `json:"default,omitempty" mapstructure:"default"`
}

// BackendConfig holds model backend settings.
type BackendConfig struct {
	Provider       string `json:"provider,omitempty" mapstructure:"provider"`
	URL            string `json:"url,omitempty" mapstructure:"url"`
	Token          string `json:"token,omitempty" mapstructure:"token"`
	TimeoutSeconds int    `json:"timeout_seconds,omitempty" mapstructure:"timeout_seconds"`
}

// ServerConfig holds HTTP server settings.
type ServerConfig struct {
	Listen string `json:"listen,omitempty" mapstructure:"listen"`
}

// HistoryConfig holds conversation history persistence settings.
type HistoryConfig struct {
	Provider string `json:"provider,omitempty" mapstructure:"provider"`
	Path     string `json:"path,omitempty" mapstructure:"path"`
}

// AnonymizerConfig holds settings for the anonymizing fetch path.
type AnonymizerConfig struct {
	Enabled               bool   `json:"enabled" mapstructure:"enabled"`
	BinaryPath            string `json:"binary_path,omitempty" mapstructure:"binary_path"`
	SocksAddr             string `json:"socks_addr,omitempty" mapstructure:"socks_addr"`
	AllowClearnetFallback bool   `json:"allow_clearnet_fallback" mapstructure:"allow_clearnet_fallback"`
}

// ResearchConfig holds settings for the research synthesizer.
type ResearchConfig struct {
	Enabled bool `json:"enabled" mapstructure:"enabled"`
}

// configKeys is the authoritative set of all supported dotted config keys.
// Load uses it to warn about unrecognized keys in a config file.
var configKeys = map[string]struct{}{
	"model.name":                         {},
	"model.default":                      {},
	"backend.provider":                   {},
	"backend.url":                        {},
	"backend.token":                      {},
	"backend.timeout_seconds":            {},
	"server.listen":                      {},
	"history.provider":                   {},
	"history.path":                       {},
	"anonymizer.enabled":                 {},
	"anonymizer.binary_path":             {},
	"anonymizer.socks_addr":              {},
	"anonymizer.allow_clearnet_fallback": {},
	"research.enabled":                   {},
}

// IsValidConfigKey returns true if the given dotted key is a supported
// configuration key.
func IsValidConfigKey(key string) bool {
	_, ok := configKeys[key]
	return ok
}
