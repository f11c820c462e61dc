package fetch

import (
	"errors"
	"fmt"
)

// ErrProxyUnavailable is returned when anonymization is required but
// the SOCKS proxy never became reachable.
var ErrProxyUnavailable = errors.New("anonymizing proxy unavailable")

// TransportError wraps DNS, connect, and TLS failures.
type TransportError struct {
	URL string
	Err error
}

func (e *TransportError) Error() string {
	return fmt.Sprintf("request to %s failed: %v", e.URL, e.Err)
}

func (e *TransportError) Unwrap() error { return e.Err }

// HTTPStatusError reports a non-2xx response.
type HTTPStatusError struct {
	URL        string
	StatusCode int
}

func (e *HTTPStatusError) Error() string {
	return fmt.Sprintf("request to %s returned status %d", e.URL, e.StatusCode)
}
