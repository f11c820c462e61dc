// Package fetch performs HTTP GETs through an anonymizing SOCKS proxy with
// graceful degradation.
//
// When anonymization is enabled every request goes through the proxy; the
// only path back to a direct request is the explicit clearnet-fallback
// opt-in, which trades source-address privacy for availability and is
// therefore off by default and logged loudly when taken.
package fetch

import (
	"context"
	"errors"
	"io"
	"log/slog"
	"net"
	"net/http"
	neturl "net/url"
	"strings"
	"time"

	"golang.org/x/net/proxy"
)

const (
	// DefaultSocksAddr is the conventional local SOCKS5 endpoint.
	DefaultSocksAddr = "127.0.0.1:9050"

	// readyProbeTimeout bounds the TCP connect used to test proxy readiness.
	readyProbeTimeout = time.Second

	// maxBodyBytes caps how much of a fetched page is read.
	maxBodyBytes = 2 << 20

	defaultTimeout = 20 * time.Second

	userAgent = "Mozilla/5.0 (compatible; veil/1.0)"
)

// ReadyWaiter blocks until the anonymizing proxy accepts connections or a
// bounded wait expires. Implemented by the tor supervisor.
type ReadyWaiter interface {
	WaitReady(ctx context.Context) bool
}

// Config configures a Fetcher.
type Config struct {
	// Enabled routes all fetches through the SOCKS proxy.
	Enabled bool

	// SocksAddr is the host:port of the SOCKS5 endpoint.
	SocksAddr string

	// AllowClearnetFallback permits one direct retry when a proxied
	// request fails at the transport layer. This leaks the source
	// address and must be an explicit opt-in.
	AllowClearnetFallback bool

	// Timeout is the per-request cap. Zero means 20s.
	Timeout time.Duration

	// ReadyWait, when set, is invoked once if the proxy is not ready.
	ReadyWait ReadyWaiter
}

// Fetcher issues GET requests, anonymized when configured.
type Fetcher struct {
	config  Config
	logger  *slog.Logger
	direct  *http.Client
	proxied *http.Client
}

// New creates a Fetcher. The SOCKS dialer is constructed eagerly so a bad
// proxy address surfaces at startup rather than on the first research fetch.
func New(config Config, logger *slog.Logger) (*Fetcher, error) {
	if config.SocksAddr == "" {
		config.SocksAddr = DefaultSocksAddr
	}
	if config.Timeout <= 0 {
		config.Timeout = defaultTimeout
	}

	f := &Fetcher{
		config: config,
		logger: logger,
		direct: &http.Client{Timeout: config.Timeout},
	}

	dialer, err := proxy.SOCKS5("tcp", config.SocksAddr, nil, proxy.Direct)
	if err != nil {
		return nil, err
	}

	transport := &http.Transport{}
	if cd, ok := dialer.(proxy.ContextDialer); ok {
		transport.DialContext = cd.DialContext
	} else {
		transport.DialContext = func(_ context.Context, network, addr string) (net.Conn, error) {
			return dialer.Dial(network, addr)
		}
	}

	f.proxied = &http.Client{
		Timeout:   config.Timeout,
		Transport: transport,
	}

	return f, nil
}

// Anonymized reports whether fetches are routed through the proxy.
func (f *Fetcher) Anonymized() bool { return f.config.Enabled }

// Ready reports whether the SOCKS endpoint currently accepts connections.
func (f *Fetcher) Ready() bool {
	conn, err := net.DialTimeout("tcp", f.config.SocksAddr, readyProbeTimeout)
	if err != nil {
		return false
	}
	_ = conn.Close()
	return true
}

// IsOnion reports whether the URL targets an onion host, which is only
// resolvable through the anonymizing overlay.
func IsOnion(rawURL string) bool {
	u, err := neturl.Parse(rawURL)
	if err != nil {
		return false
	}
	return strings.HasSuffix(strings.ToLower(u.Hostname()), ".onion")
}

// Fetch performs a GET and returns the response body as a string.
//
// With anonymization disabled the request goes out directly. Enabled, the
// proxy readiness is probed first; a single bounded wait is attempted before
// giving up with ErrProxyUnavailable. Transport failures on the proxied path
// degrade to a direct request only under the clearnet-fallback opt-in.
//
// Onion URLs always take the proxied path, even with anonymization
// disabled: they cannot resolve off the overlay, and attempting them
// directly would leak the source address along with the lookup. The
// clearnet fallback never applies to them for the same reason.
func (f *Fetcher) Fetch(ctx context.Context, url string) (string, error) {
	onion := IsOnion(url)
	if !f.config.Enabled && !onion {
		return f.get(ctx, f.direct, url)
	}

	if !f.Ready() && f.config.ReadyWait != nil {
		f.config.ReadyWait.WaitReady(ctx)
	}
	if !f.Ready() {
		f.logger.Warn("proxy not reachable on SOCKS port", "addr", f.config.SocksAddr)
		return "", ErrProxyUnavailable
	}

	body, err := f.get(ctx, f.proxied, url)
	if err == nil {
		return body, nil
	}

	var te *TransportError
	if f.config.AllowClearnetFallback && !onion && errors.As(err, &te) {
		f.logger.Warn("proxied request failed, falling back to clearnet",
			"url", url, "error", te.Err)
		return f.get(ctx, f.direct, url)
	}

	return "", err
}

func (f *Fetcher) get(ctx context.Context, client *http.Client, url string) (string, error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, url, nil)
	if err != nil {
		return "", &TransportError{URL: url, Err: err}
	}
	req.Header.Set("User-Agent", userAgent)
	req.Header.Set("Accept", "text/html,application/xhtml+xml,*/*;q=0.8")

	resp, err := client.Do(req)
	if err != nil {
		return "", &TransportError{URL: url, Err: err}
	}
	defer resp.Body.Close()

	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		_, _ = io.Copy(io.Discard, io.LimitReader(resp.Body, maxBodyBytes))
		return "", &HTTPStatusError{URL: url, StatusCode: resp.StatusCode}
	}

	body, err := io.ReadAll(io.LimitReader(resp.Body, maxBodyBytes))
	if err != nil {
		return "", &TransportError{URL: url, Err: err}
	}

	return string(body), nil
}
