// Package chat orchestrates a single conversation turn: validate, recall
// history, research, assemble, invoke, persist. Failures in the research and
// persistence paths degrade to safe defaults; the caller always receives a
// display-ready reply.
package chat

import (
	"context"
	"log/slog"
	"sync"

	"github.com/google/uuid"

	"github.com/papercomputeco/veil/pkg/history"
	"github.com/papercomputeco/veil/pkg/llm"
	"github.com/papercomputeco/veil/pkg/prompt"
	"github.com/papercomputeco/veil/pkg/research"
	"github.com/papercomputeco/veil/pkg/sanitize"
)

// Display-ready replies for requests rejected before the pipeline runs.
const (
	ReplyNoMessage = "No message provided."
	ReplyTooLong   = "Message too long. Please shorten your request."
)

// MaxModelOverrideLen bounds the per-request model override field.
const MaxModelOverrideLen = 128

// Researcher builds the optional research context for a message.
type Researcher interface {
	BuildContext(ctx context.Context, message string) string
}

// Invoker dispatches an assembled request to the model backend.
type Invoker interface {
	Invoke(ctx context.Context, req *llm.ChatRequest, modelOverride string) string
}

// Config holds the service toggles not owned by a collaborator.
type Config struct {
	// ResearchEnabled gates the research path; when false no network
	// research happens regardless of message content.
	ResearchEnabled bool
}

// Service runs the chat pipeline over one shared conversation memory.
// Requests are serialized: the load-mutate-save window over the history
// store must not interleave.
type Service struct {
	config     Config
	store      history.Driver
	researcher Researcher
	invoker    Invoker
	logger     *slog.Logger

	mu sync.Mutex
}

// NewService creates a chat Service.
func NewService(config Config, store history.Driver, researcher Researcher, invoker Invoker, logger *slog.Logger) *Service {
	return &Service{
		config:     config,
		store:      store,
		researcher: researcher,
		invoker:    invoker,
		logger:     logger,
	}
}

// Respond runs one conversation turn and returns a display-ready reply.
// It never returns an error: validation failures map to fixed replies, and
// research or persistence failures degrade without aborting the turn.
func (s *Service) Respond(ctx context.Context, message, modelOverride string) string {
	log := s.logger.With("request_id", uuid.NewString())

	message = sanitize.Clean(message, history.MaxContentLen)
	if message == "" {
		return ReplyNoMessage
	}
	if len(message) >= history.MaxContentLen {
		return ReplyTooLong
	}

	modelOverride = sanitize.Clean(modelOverride, MaxModelOverrideLen)

	s.mu.Lock()
	defer s.mu.Unlock()

	mem, err := s.store.Load(ctx)
	if err != nil {
		log.Warn("history load failed, starting from empty memory", "error", err)
		mem = history.NewMemory()
	}
	// Snapshot the prior turns before appending: the assembler adds the
	// new user turn itself.
	prior := mem.TrimForPrompt(history.PromptLimit)
	mem.Append("user", message)

	researchCtx := ""
	if s.config.ResearchEnabled && research.NeedsResearch(message) {
		researchCtx = sanitize.Clean(
			s.researcher.BuildContext(ctx, message),
			research.MaxContextLen,
		)
	}

	req := prompt.Assemble(prior, message, researchCtx)
	reply := s.invoker.Invoke(ctx, req, modelOverride)

	mem.Append("assistant", reply)
	if err := s.store.Save(ctx, mem); err != nil {
		log.Warn("history save failed, conversation not persisted", "error", err)
	}

	log.Info("chat turn complete",
		"message_len", len(message),
		"research", researchCtx != "",
		"reply_len", len(reply))

	return reply
}
