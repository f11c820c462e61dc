// Package servecmder provides the serve command wiring every component of the
// chat service together.
package servecmder

import (
	"fmt"
	"log/slog"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/spf13/cobra"

	"github.com/papercomputeco/veil/api"
	"github.com/papercomputeco/veil/pkg/chat"
	"github.com/papercomputeco/veil/pkg/config"
	"github.com/papercomputeco/veil/pkg/fetch"
	"github.com/papercomputeco/veil/pkg/history"
	historyfile "github.com/papercomputeco/veil/pkg/history/file"
	historysqlite "github.com/papercomputeco/veil/pkg/history/sqlite"
	"github.com/papercomputeco/veil/pkg/llm"
	"github.com/papercomputeco/veil/pkg/llm/provider"
	"github.com/papercomputeco/veil/pkg/logger"
	"github.com/papercomputeco/veil/pkg/research"
	"github.com/papercomputeco/veil/pkg/tor"
)

type ServeCommander struct {
	listen           string
	model            string
	backendProvider  string
	backendURL       string
	historyProvider  string
	historyPath      string
	anonymizer       bool
	clearnetFallback bool

	debug    bool
	jsonLogs bool
	cfgPath  string

	config *config.Config
	logger *slog.Logger
}

const serveLongDesc string = `Run the veil chat server.

Configuration precedence is flags, then VEIL_ environment variables, then
config.json, then built-in defaults.`

const serveShortDesc string = "Run the veil chat server"

var serveFlagKeys = []string{
	config.FlagListen,
	config.FlagModel,
	config.FlagBackendProvider,
	config.FlagBackendURL,
	config.FlagHistoryProvider,
	config.FlagHistoryPath,
	config.FlagAnonymizer,
	config.FlagClearnetFallback,
}

func NewServeCmd() *cobra.Command {
	cmder := &ServeCommander{}

	cmd := &cobra.Command{
		Use:   "serve",
		Short: serveShortDesc,
		Long:  serveLongDesc,
		RunE: func(cmd *cobra.Command, _ []string) error {
			var err error
			cmder.debug, err = cmd.Flags().GetBool("debug")
			if err != nil {
				return fmt.Errorf("could not get debug flag: %v", err)
			}
			cmder.jsonLogs, err = cmd.Flags().GetBool("json-logs")
			if err != nil {
				return fmt.Errorf("could not get json-logs flag: %v", err)
			}
			cmder.cfgPath, err = cmd.Flags().GetString("config")
			if err != nil {
				return fmt.Errorf("could not get config flag: %v", err)
			}

			if err := cmder.loadConfig(cmd); err != nil {
				return err
			}
			return cmder.run()
		},
	}

	config.AddStringFlag(cmd, config.ServeFlags, config.FlagListen, &cmder.listen)
	config.AddStringFlag(cmd, config.ServeFlags, config.FlagModel, &cmder.model)
	config.AddStringFlag(cmd, config.ServeFlags, config.FlagBackendProvider, &cmder.backendProvider)
	config.AddStringFlag(cmd, config.ServeFlags, config.FlagBackendURL, &cmder.backendURL)
	config.AddStringFlag(cmd, config.ServeFlags, config.FlagHistoryProvider, &cmder.historyProvider)
	config.AddStringFlag(cmd, config.ServeFlags, config.FlagHistoryPath, &cmder.historyPath)
	config.AddBoolFlag(cmd, config.ServeFlags, config.FlagAnonymizer, &cmder.anonymizer)
	config.AddBoolFlag(cmd, config.ServeFlags, config.FlagClearnetFallback, &cmder.clearnetFallback)

	return cmd
}

// loadConfig resolves the effective configuration with the precedence
// flag > env > file > default, then builds the logger.
func (c *ServeCommander) loadConfig(cmd *cobra.Command) error {
	c.logger = logger.New(
		logger.WithDebug(c.debug),
		logger.WithJSON(c.jsonLogs),
		logger.WithPretty(!c.jsonLogs),
	)

	v := config.InitViper(c.cfgPath)
	config.BindRegisteredFlags(v, cmd, config.ServeFlags, serveFlagKeys)

	cfg, err := config.Load(v, c.logger)
	if err != nil {
		return fmt.Errorf("loading config: %w", err)
	}
	c.config = cfg

	return nil
}

func (c *ServeCommander) run() error {
	cfg := c.config

	// History store
	store, err := c.createStore()
	if err != nil {
		return err
	}
	defer store.Close()

	// Anonymizing proxy supervisor; launch is fire-and-forget.
	supervisor := tor.New(tor.Config{
		Enabled:    cfg.Anonymizer.Enabled,
		BinaryPath: cfg.Anonymizer.BinaryPath,
		SocksAddr:  cfg.Anonymizer.SocksAddr,
	}, c.logger)
	supervisor.Launch()

	// Research path
	fetcher, err := fetch.New(fetch.Config{
		Enabled:               cfg.Anonymizer.Enabled,
		SocksAddr:             cfg.Anonymizer.SocksAddr,
		AllowClearnetFallback: cfg.Anonymizer.AllowClearnetFallback,
		ReadyWait:             supervisor,
	}, c.logger)
	if err != nil {
		return fmt.Errorf("creating fetcher: %w", err)
	}
	synthesizer := research.New(fetcher, c.logger)

	// Model backend
	backend, err := provider.New(cfg.Backend.Provider)
	if err != nil {
		return fmt.Errorf("creating backend provider: %w", err)
	}
	invoker := llm.NewInvoker(llm.InvokerConfig{
		URL:          cfg.Backend.URL,
		Model:        cfg.Model.Name,
		DefaultModel: cfg.Model.Default,
		Token:        cfg.Backend.Token,
		Timeout:      time.Duration(cfg.Backend.TimeoutSeconds) * time.Second,
	}, backend, c.logger)

	// Pipeline
	service := chat.NewService(chat.Config{
		ResearchEnabled: cfg.Research.Enabled,
	}, store, synthesizer, invoker, c.logger)

	// HTTP surface
	server := api.NewServer(api.Config{
		ListenAddr: cfg.Server.Listen,
	}, service, supervisor, invoker, c.logger)

	c.logger.Info("starting veil",
		"listen", cfg.Server.Listen,
		"backend", cfg.Backend.Provider,
		"model", cfg.Model.Name,
		"anonymizer", cfg.Anonymizer.Enabled,
		"research", cfg.Research.Enabled,
	)

	errChan := make(chan error, 1)
	go func() {
		if err := server.Run(); err != nil {
			errChan <- fmt.Errorf("server error: %w", err)
		}
	}()

	sigChan := make(chan os.Signal, 1)
	signal.Notify(sigChan, syscall.SIGINT, syscall.SIGTERM)

	select {
	case err := <-errChan:
		return err
	case sig := <-sigChan:
		c.logger.Info("received signal, shutting down", "signal", sig.String())
		return server.Shutdown()
	}
}

func (c *ServeCommander) createStore() (history.Driver, error) {
	cfg := c.config

	switch cfg.History.Provider {
	case "sqlite":
		store, err := historysqlite.NewDriver(cfg.History.Path)
		if err != nil {
			return nil, fmt.Errorf("creating sqlite history store: %w", err)
		}
		c.logger.Info("using sqlite history store", "path", cfg.History.Path)
		return store, nil

	case "file", "":
		store, err := historyfile.NewDriver(cfg.History.Path)
		if err != nil {
			return nil, fmt.Errorf("creating file history store: %w", err)
		}
		c.logger.Info("using file history store", "path", cfg.History.Path)
		return store, nil

	default:
		return nil, fmt.Errorf("unknown history provider: %q", cfg.History.Provider)
	}
}
