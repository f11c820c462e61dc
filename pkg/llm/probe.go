package llm

import (
	"context"
	"fmt"
	"net/http"
	"time"
)

const probeTimeout = 5 * time.Second

// Probe checks backend reachability for the health endpoint with a HEAD
// request against the resolved endpoint. It returns a status label and a
// human-readable detail, never an error.
func (i *Invoker) Probe(ctx context.Context) (status, detail string) {
	token := i.resolveToken()
	if token == "" && i.backend.RequiresToken() {
		return "token-missing", "backend API token not configured"
	}

	endpoint := i.backend.Endpoint(i.config.URL, i.ResolveModel(""))

	ctx, cancel := context.WithTimeout(ctx, probeTimeout)
	defer cancel()

	req, err := http.NewRequestWithContext(ctx, http.MethodHead, endpoint, nil)
	if err != nil {
		return "offline", err.Error()
	}
	if token != "" {
		req.Header.Set("Authorization", "Bearer "+token)
	}

	resp, err := i.client.Do(req)
	if err != nil {
		i.logger.Warn("backend health probe failed", "url", endpoint, "error", err)
		return "offline", err.Error()
	}
	resp.Body.Close()

	switch resp.StatusCode {
	case http.StatusOK:
		return "online", "status code 200"
	case http.StatusUnauthorized:
		return "unauthorized", "status code 401"
	case http.StatusMethodNotAllowed, http.StatusServiceUnavailable:
		return "reachable", fmt.Sprintf("status code %d", resp.StatusCode)
	default:
		return "error", fmt.Sprintf("unexpected status %d", resp.StatusCode)
	}
}
