package config

import (
	"strings"

	"github.com/spf13/viper"
)

const configFile = "config.json"

// InitViper creates and returns a configured *viper.Viper.
// It sets defaults from NewDefaultConfig(), reads config.json (from the
// explicit path when given, otherwise the working directory), and binds
// environment variables with the VEIL_ prefix.
//
// Config precedence (highest to lowest):
//  1. CLI flags (once bound via BindRegisteredFlags)
//  2. Environment variables (VEIL_SERVER_LISTEN, VEIL_BACKEND_PROVIDER, etc.)
//  3. config.json file values
//  4. Defaults from NewDefaultConfig()
func InitViper(configPath string) *viper.Viper {
	v := viper.New()

	// 1. Register all defaults from NewDefaultConfig().
	setViperDefaults(v)

	// 2. Config file discovery.
	if configPath != "" {
		v.SetConfigFile(configPath)
		v.SetConfigType("json")
	} else {
		v.SetConfigName("config")
		v.SetConfigType("json")
		v.AddConfigPath(".")
	}

	// A missing or unparseable config file is never fatal: defaults apply
	// and Load reports what was wrong with the file.
	_ = v.ReadInConfig()

	// 3. Environment variables: VEIL_MODEL_NAME, VEIL_ANONYMIZER_ENABLED, etc.
	v.SetEnvPrefix("VEIL")
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	v.AutomaticEnv()

	return v
}

// setViperDefaults registers defaults from NewDefaultConfig() into viper
// using dotted-key notation. This keeps defaults.go as the single source of truth.
func setViperDefaults(v *viper.Viper) {
	d := NewDefaultConfig()

	// Model
	v.SetDefault("model.name", d.Model.Name)
	v.SetDefault("model.default", d.Model.Default)

	// Backend
	v.SetDefault("backend.provider", d.Backend.Provider)
	v.SetDefault("backend.url", d.Backend.URL)
	v.SetDefault("backend.token", d.Backend.Token)
	v.SetDefault("backend.timeout_seconds", d.Backend.TimeoutSeconds)

	// Server
	v.SetDefault("server.listen", d.Server.Listen)

	// History
	v.SetDefault("history.provider", d.History.Provider)
	v.SetDefault("history.path", d.History.Path)

	// Anonymizer
	v.SetDefault("anonymizer.enabled", d.Anonymizer.Enabled)
	v.SetDefault("anonymizer.binary_path", d.Anonymizer.BinaryPath)
	v.SetDefault("anonymizer.socks_addr", d.Anonymizer.SocksAddr)
	v.SetDefault("anonymizer.allow_clearnet_fallback", d.Anonymizer.AllowClearnetFallback)

	// Research
	v.SetDefault("research.enabled", d.Research.Enabled)
}
