package config

import (
	"github.com/spf13/cobra"
	"github.com/spf13/viper"
)

// Flag is the single source of truth for a CLI flag.
// Commands reference flags by registry key rather than hard-coding names,
// shorthands, defaults, and descriptions inline, so the same logical flag
// cannot drift between commands.
type Flag struct {
	// Name is the long flag name (e.g. "listen").
	Name string

	// Shorthand is the one-letter short flag. Empty for no shorthand.
	Shorthand string

	// ViperKey is the dotted config key this flag maps to (e.g. "server.listen").
	ViperKey string

	// Description is the help text shown in --help output.
	Description string
}

// FlagSet is a mapping of registry keys to Flag definitions.
type FlagSet map[string]Flag

// Flag registry keys.
const (
	FlagListen           = "listen"
	FlagModel            = "model"
	FlagBackendProvider  = "backend-provider"
	FlagBackendURL       = "backend-url"
	FlagHistoryProvider  = "history-provider"
	FlagHistoryPath      = "history-path"
	FlagAnonymizer       = "anonymizer"
	FlagClearnetFallback = "allow-clearnet-fallback"
)

// ServeFlags defines the flags exposed by the serve command.
var ServeFlags = FlagSet{
	FlagListen: {
		Name:        "listen",
		Shorthand:   "l",
		ViperKey:    "server.listen",
		Description: "address the HTTP server listens on",
	},
	FlagModel: {
		Name:        "model",
		Shorthand:   "m",
		ViperKey:    "model.name",
		Description: "model identifier sent to the backend",
	},
	FlagBackendProvider: {
		Name:        "backend-provider",
		ViperKey:    "backend.provider",
		Description: "model backend provider (huggingface, local)",
	},
	FlagBackendURL: {
		Name:        "backend-url",
		ViperKey:    "backend.url",
		Description: "explicit backend endpoint URL",
	},
	FlagHistoryProvider: {
		Name:        "history-provider",
		ViperKey:    "history.provider",
		Description: "history store provider (file, sqlite)",
	},
	FlagHistoryPath: {
		Name:        "history-path",
		ViperKey:    "history.path",
		Description: "path to the conversation history store",
	},
	FlagAnonymizer: {
		Name:        "anonymizer",
		ViperKey:    "anonymizer.enabled",
		Description: "route research fetches through the SOCKS anonymizer",
	},
	FlagClearnetFallback: {
		Name:        "allow-clearnet-fallback",
		ViperKey:    "anonymizer.allow_clearnet_fallback",
		Description: "retry failed anonymized fetches over the clearnet",
	},
}

// AddStringFlag registers a string flag on cmd from the given FlagSet.
// The flag's name, shorthand, default, and description all come from the
// FlagSet entry so they cannot drift across commands.
func AddStringFlag(cmd *cobra.Command, fs FlagSet, key string, target *string) {
	def, ok := fs[key]
	if !ok {
		return
	}

	defaultVal := defaultString(def.ViperKey)
	if def.Shorthand != "" {
		cmd.Flags().StringVarP(target, def.Name, def.Shorthand, defaultVal, def.Description)
	} else {
		cmd.Flags().StringVar(target, def.Name, defaultVal, def.Description)
	}
}

// AddBoolFlag registers a bool flag on cmd from the given FlagSet.
func AddBoolFlag(cmd *cobra.Command, fs FlagSet, key string, target *bool) {
	def, ok := fs[key]
	if !ok {
		return
	}

	defaultVal := defaultBool(def.ViperKey)
	if def.Shorthand != "" {
		cmd.Flags().BoolVarP(target, def.Name, def.Shorthand, defaultVal, def.Description)
	} else {
		cmd.Flags().BoolVar(target, def.Name, defaultVal, def.Description)
	}
}

// BindRegisteredFlags binds already-registered flags to viper using definitions
// from the given FlagSet. Call this in PreRunE after InitViper to connect flags
// to the viper precedence chain (flag > env > config file > default).
func BindRegisteredFlags(v *viper.Viper, cmd *cobra.Command, fs FlagSet, registryKeys []string) {
	for _, registryKey := range registryKeys {
		def, ok := fs[registryKey]
		if !ok {
			continue
		}

		f := cmd.Flags().Lookup(def.Name)
		if f == nil {
			continue
		}

		_ = v.BindPFlag(def.ViperKey, f)
	}
}

// defaultString returns the default string value for a viper key from NewDefaultConfig.
func defaultString(viperKey string) string {
	v := viper.New()
	setViperDefaults(v)
	return v.GetString(viperKey)
}

// defaultBool returns the default bool value for a viper key from NewDefaultConfig.
func defaultBool(viperKey string) bool {
	v := viper.New()
	setViperDefaults(v)
	return v.GetBool(viperKey)
}
