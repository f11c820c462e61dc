package api

import (
	"context"
	"log/slog"

	"github.com/gofiber/fiber/v2"
	"github.com/gofiber/fiber/v2/middleware/compress"
)

// Chatter runs one conversation turn and returns a display-ready reply.
type Chatter interface {
	Respond(ctx context.Context, message, modelOverride string) string
}

// AnonymizerReporter reports the anonymizing proxy's health.
type AnonymizerReporter interface {
	Status() (status, detail string)
}

// BackendProber reports the model backend's reachability.
type BackendProber interface {
	Probe(ctx context.Context) (status, detail string)
}

// Server is the HTTP server fronting the chat service.
type Server struct {
	config     Config
	chatter    Chatter
	anonymizer AnonymizerReporter
	backend    BackendProber
	logger     *slog.Logger
	app        *fiber.App
}

// NewServer creates a new API server. The chat service and health reporters
// are injected so the server owns no domain state of its own.
func NewServer(config Config, chatter Chatter, anonymizer AnonymizerReporter, backend BackendProber, logger *slog.Logger) *Server {
	app := fiber.New(fiber.Config{
		DisableStartupMessage: true,
	})
	app.Use(compress.New())

	s := &Server{
		config:     config,
		chatter:    chatter,
		anonymizer: anonymizer,
		backend:    backend,
		logger:     logger,
		app:        app,
	}

	app.Get("/ping", s.handlePing)
	app.Get("/health", s.handleHealth)
	app.Post("/api/chat", s.handleChat)

	return s
}

// Run starts the API server on the configured address.
func (s *Server) Run() error {
	s.logger.Info("starting API server", "listen", s.config.ListenAddr)
	return s.app.Listen(s.config.ListenAddr)
}

// Shutdown gracefully shuts down the API server.
func (s *Server) Shutdown() error {
	return s.app.Shutdown()
}

// App exposes the underlying fiber app for tests.
func (s *Server) App() *fiber.App {
	return s.app
}
