package config

const (
	defaultModelName = "mistralai/Mistral-7B-Instruct-v0.3"

	defaultBackendProvider = "huggingface"
	defaultBackendTimeout  = 120

	defaultServerListen = ":4891"

	defaultHistoryProvider = "file"
	defaultHistoryPath     = "chat_memory.json"

	defaultSocksAddr = "127.0.0.1:9050"
)

// NewDefaultConfig returns a Config with sane defaults for all fields.
// This is the single source of truth for default values.
func NewDefaultConfig() *Config {
	return &Config{
		Model: ModelConfig{
			Name: defaultModelName,
		},
		Backend: BackendConfig{
			Provider:       defaultBackendProvider,
			TimeoutSeconds: defaultBackendTimeout,
		},
		Server: ServerConfig{
			Listen: defaultServerListen,
		},
		History: HistoryConfig{
			Provider: defaultHistoryProvider,
			Path:     defaultHistoryPath,
		},
		Anonymizer: AnonymizerConfig{
			Enabled:               true,
			SocksAddr:             defaultSocksAddr,
			AllowClearnetFallback: false,
		},
		Research: ResearchConfig{
			Enabled: true,
		},
	}
}
