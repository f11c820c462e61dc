// Package api provides the HTTP surface for the chat service: the chat
// endpoint, a health report, and a ping.
package api

// Config is the API server configuration.
type Config struct {
	// ListenAddr is the address to listen on (e.g., ":4891")
	ListenAddr string
}
