package api

import (
	"github.com/gofiber/fiber/v2"

	"github.com/papercomputeco/veil/pkg/chat"
	"github.com/papercomputeco/veil/pkg/history"
	"github.com/papercomputeco/veil/pkg/sanitize"
)

// ChatRequest is the body accepted by the chat endpoint.
type ChatRequest struct {
	Message string `json:"message"`
	Model   string `json:"model,omitempty"`
}

// ChatResponse is the reply envelope returned by the chat endpoint.
type ChatResponse struct {
	Response string `json:"response"`
}

// ComponentHealth is one component's entry in the health report.
type ComponentHealth struct {
	Status string `json:"status"`
	Detail string `json:"detail"`
}

// HealthResponse is the body returned by the health endpoint.
type HealthResponse struct {
	Tor     ComponentHealth `json:"tor"`
	Backend ComponentHealth `json:"backend"`
}

// handlePing returns a simple liveness response.
func (s *Server) handlePing(c *fiber.Ctx) error {
	return c.JSON("pong")
}

// handleHealth reports anonymizer and backend health.
func (s *Server) handleHealth(c *fiber.Ctx) error {
	torStatus, torDetail := s.anonymizer.Status()
	backendStatus, backendDetail := s.backend.Probe(c.Context())

	return c.JSON(HealthResponse{
		Tor:     ComponentHealth{Status: torStatus, Detail: torDetail},
		Backend: ComponentHealth{Status: backendStatus, Detail: backendDetail},
	})
}

// handleChat runs one conversation turn. Empty and over-limit messages
// short-circuit with a fixed reply before the pipeline runs; the length
// check applies to the sanitized message, so padding that trims away does
// not reject an otherwise acceptable request.
func (s *Server) handleChat(c *fiber.Ctx) error {
	var req ChatRequest
	if err := c.BodyParser(&req); err != nil {
		return c.JSON(ChatResponse{Response: chat.ReplyNoMessage})
	}

	message := sanitize.Clean(req.Message, history.MaxContentLen)
	if message == "" {
		return c.JSON(ChatResponse{Response: chat.ReplyNoMessage})
	}
	if len(message) >= history.MaxContentLen {
		return c.JSON(ChatResponse{Response: chat.ReplyTooLong})
	}

	reply := s.chatter.Respond(c.Context(), message, req.Model)
	return c.JSON(ChatResponse{Response: reply})
}
