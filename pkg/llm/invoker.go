package llm

import (
	"bytes"
	"context"
	"io"
	"log/slog"
	"net/http"
	"os"
	"strings"
	"sync"
	"time"

	"github.com/papercomputeco/veil/pkg/utils"
)

const (
	// minTimeout is the floor applied to the configured request timeout.
	minTimeout = 30 * time.Second

	// defaultTimeout applies when no timeout is configured.
	defaultTimeout = 120 * time.Second

	// bodyPreviewLen bounds how much of an unexpected response body is logged.
	bodyPreviewLen = 500

	// maxResponseBytes caps how much of a model response is read.
	maxResponseBytes = 4 << 20
)

// TokenEnvVars are the environment variables consulted for the backend
// token, in precedence order, before the configured token.
var TokenEnvVars = []string{"VEIL_BACKEND_TOKEN", "HF_API_TOKEN"}

// Display-ready replies for each failure class. The invoker never returns
// errors; every branch yields one of these or the extracted model text.
const (
	replyTokenMissing  = "Model not available: configure a backend API token for remote inference."
	replyUnreachable   = "Error: unable to contact the inference endpoint."
	replyUnauthorized  = "Error: backend authorization failed. Set a valid API token."
	replyModelLoading  = "The model is still loading. Please retry in a few seconds."
	replyUnexpected    = "Error: the model endpoint returned an unexpected response."
	replyEmptyResponse = "Error: received an empty response from the model."
	replyBadPayload    = "Error: could not encode the model request."
)

// Backend describes one inference backend endpoint. The concrete wire
// format is delegated to a provider implementation.
type Backend interface {
	Name() string
	Endpoint(configuredURL, model string) string
	BuildBody(req *ChatRequest) ([]byte, error)
	RequiresToken() bool
}

// InvokerConfig configures an Invoker.
type InvokerConfig struct {
	// URL is an explicit endpoint override. Empty defers to the
	// provider's default resolution.
	URL string

	// Model is the configured model identifier.
	Model string

	// DefaultModel, when set, wins over Model unless the request
	// carries an explicit override.
	DefaultModel string

	// Token is the configured auth token, consulted after the
	// environment.
	Token string

	// Timeout is the per-request cap in effect after the floor.
	Timeout time.Duration
}

// Invoker dispatches an assembled request to one backend and classifies
// the response into a display-ready string. It never returns an error to
// its caller; the pipeline's outer layer is exception-free by construction.
type Invoker struct {
	config  InvokerConfig
	backend Backend
	client  *http.Client
	logger  *slog.Logger

	warnOnce sync.Once
}

// NewInvoker creates an Invoker for the given backend.
func NewInvoker(config InvokerConfig, backend Backend, logger *slog.Logger) *Invoker {
	timeout := config.Timeout
	if timeout <= 0 {
		timeout = defaultTimeout
	}
	if timeout < minTimeout {
		timeout = minTimeout
	}
	config.Timeout = timeout

	return &Invoker{
		config:  config,
		backend: backend,
		client:  &http.Client{Timeout: timeout},
		logger:  logger,
	}
}

// ResolveModel picks the model name: explicit override, configured default
// model, then the configured model.
func (i *Invoker) ResolveModel(override string) string {
	if m := strings.TrimSpace(override); m != "" {
		return m
	}
	if m := strings.TrimSpace(i.config.DefaultModel); m != "" {
		return m
	}
	return strings.TrimSpace(i.config.Model)
}

// Invoke sends the request and returns a display-ready reply. modelOverride
// optionally substitutes the model for this single request.
func (i *Invoker) Invoke(ctx context.Context, req *ChatRequest, modelOverride string) string {
	req.Model = i.ResolveModel(modelOverride)
	endpoint := i.backend.Endpoint(i.config.URL, req.Model)

	token := i.resolveToken()
	if token == "" && i.backend.RequiresToken() {
		i.warnOnce.Do(func() {
			i.logger.Warn("backend token missing, operating without remote inference",
				"provider", i.backend.Name())
		})
		return replyTokenMissing
	}

	body, err := i.backend.BuildBody(req)
	if err != nil {
		i.logger.Error("could not build model payload", "error", err)
		return replyBadPayload
	}

	httpReq, err := http.NewRequestWithContext(ctx, http.MethodPost, endpoint, bytes.NewReader(body))
	if err != nil {
		i.logger.Error("could not create model request", "url", endpoint, "error", err)
		return replyUnreachable
	}
	httpReq.Header.Set("Content-Type", "application/json")
	httpReq.Header.Set("Accept", "application/json")
	if token != "" {
		httpReq.Header.Set("Authorization", "Bearer "+token)
	}

	resp, err := i.client.Do(httpReq)
	if err != nil {
		i.logger.Error("model request failed", "url", endpoint, "error", err)
		return replyUnreachable
	}
	defer resp.Body.Close()

	respBody, err := io.ReadAll(io.LimitReader(resp.Body, maxResponseBytes))
	if err != nil {
		i.logger.Error("could not read model response", "url", endpoint, "error", err)
		return replyUnreachable
	}

	switch {
	case resp.StatusCode == http.StatusUnauthorized:
		i.logger.Warn("model request unauthorized", "url", endpoint)
		return replyUnauthorized

	case resp.StatusCode == http.StatusServiceUnavailable:
		i.logger.Info("model still loading upstream", "url", endpoint)
		return replyModelLoading

	case resp.StatusCode < 200 || resp.StatusCode > 299:
		i.logger.Error("unexpected model response",
			"url", endpoint,
			"status", resp.StatusCode,
			"body", preview(respBody))
		return replyUnexpected
	}

	text := strings.TrimSpace(ExtractText(respBody))
	if text == "" {
		i.logger.Warn("empty model response", "url", endpoint, "body", preview(respBody))
		return replyEmptyResponse
	}

	return text
}

// resolveToken checks the environment first, then configuration.
func (i *Invoker) resolveToken() string {
	for _, name := range TokenEnvVars {
		if v := strings.TrimSpace(os.Getenv(name)); v != "" {
			return v
		}
	}
	return strings.TrimSpace(i.config.Token)
}

func preview(body []byte) string {
	return utils.Truncate(string(body), bodyPreviewLen)
}
