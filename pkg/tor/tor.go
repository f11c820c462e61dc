// Package tor supervises a local tor process and reports SOCKS readiness.
//
// The supervisor is fire-and-forget: Launch starts the binary detached and
// returns immediately; the pipeline only ever waits through the bounded
// WaitReady poll. A missing binary or a failed launch degrades the service
// to direct requests, it never prevents startup.
package tor

import (
	"context"
	"log/slog"
	"net"
	"os"
	"os/exec"
	"time"
)

const (
	// DefaultSocksAddr is where tor conventionally exposes SOCKS5.
	DefaultSocksAddr = "127.0.0.1:9050"

	// DefaultReadyTimeout bounds WaitReady.
	DefaultReadyTimeout = 45 * time.Second

	readyProbeTimeout = time.Second
	readyPollInterval = time.Second
)

// Config configures the Supervisor.
type Config struct {
	// Enabled gates all supervisor behavior. Disabled, Launch and
	// WaitReady are no-ops and Status reports "disabled".
	Enabled bool

	// BinaryPath is an explicit tor binary location. When empty, the
	// TOR_PATH environment variable and then well-known names are tried.
	BinaryPath string

	// SocksAddr is the SOCKS endpoint to probe for readiness.
	SocksAddr string

	// ReadyTimeout bounds WaitReady. Zero means 45s.
	ReadyTimeout time.Duration
}

// Supervisor launches tor and answers readiness questions.
type Supervisor struct {
	config Config
	logger *slog.Logger
}

// New creates a Supervisor.
func New(config Config, logger *slog.Logger) *Supervisor {
	if config.SocksAddr == "" {
		config.SocksAddr = DefaultSocksAddr
	}
	if config.ReadyTimeout <= 0 {
		config.ReadyTimeout = DefaultReadyTimeout
	}
	return &Supervisor{config: config, logger: logger}
}

// Ready reports whether the SOCKS port currently accepts connections.
func (s *Supervisor) Ready() bool {
	conn, err := net.DialTimeout("tcp", s.config.SocksAddr, readyProbeTimeout)
	if err != nil {
		return false
	}
	_ = conn.Close()
	return true
}

// Launch starts tor detached when enabled and not already running. It
// returns immediately; callers poll readiness via WaitReady.
func (s *Supervisor) Launch() {
	if !s.config.Enabled {
		return
	}

	if s.Ready() {
		s.logger.Info("tor already running on the configured SOCKS port",
			"addr", s.config.SocksAddr)
		return
	}

	binary := s.resolveBinary()
	if binary == "" {
		s.logger.Warn("tor binary could not be located; set anonymizer.binary_path or TOR_PATH")
		return
	}

	go func() {
		s.logger.Info("starting tor", "binary", binary)
		cmd := exec.Command(binary)
		cmd.Stdout = nil
		cmd.Stderr = nil
		if err := cmd.Start(); err != nil {
			s.logger.Error("failed to launch tor", "binary", binary, "error", err)
			return
		}
		// Reap the process when it exits so it never zombies.
		_ = cmd.Wait()
	}()
}

// WaitReady polls the SOCKS port once a second until it accepts connections,
// the configured timeout expires, or ctx is canceled. It returns the final
// readiness state.
func (s *Supervisor) WaitReady(ctx context.Context) bool {
	if !s.config.Enabled {
		return false
	}

	deadline := time.Now().Add(s.config.ReadyTimeout)
	for {
		if s.Ready() {
			return true
		}
		if time.Now().After(deadline) {
			s.logger.Warn("tor did not become ready before timeout expired",
				"timeout", s.config.ReadyTimeout)
			return false
		}
		select {
		case <-ctx.Done():
			return false
		case <-time.After(readyPollInterval):
		}
	}
}

// Status returns a label and detail for the health endpoint.
func (s *Supervisor) Status() (string, string) {
	if !s.config.Enabled {
		return "disabled", "anonymizer disabled in configuration"
	}
	if s.Ready() {
		return "ready", "SOCKS proxy reachable"
	}
	return "unavailable", "SOCKS proxy not reachable"
}

// resolveBinary locates a tor executable from config, environment, then
// well-known locations.
func (s *Supervisor) resolveBinary() string {
	candidates := []string{
		s.config.BinaryPath,
		os.Getenv("TOR_PATH"),
		"tor",
		"/usr/bin/tor",
		"/usr/local/bin/tor",
	}

	for _, candidate := range candidates {
		if candidate == "" {
			continue
		}
		if resolved, err := exec.LookPath(candidate); err == nil {
			return resolved
		}
	}
	return ""
}
