package readiness

import (
	"context"
	"fmt"
	"io"
	"net"
	"net/http"
	"net/url"
	"strings"
	"time"
)

// DefaultProbeTimeout bounds a single probe attempt.
const DefaultProbeTimeout = 5 * time.Second

// maxDrainBytes limits how much of a response body is read before closing.
const maxDrainBytes = 64 << 10

// ProbeResult is the outcome of a single probe attempt.
type ProbeResult struct {
	OK bool
	// Status is the HTTP status code, or 0 for TCP probes and transport errors.
	Status int
	// Err explains why the attempt was not OK.
	Err error
}

// Probe performs a single readiness attempt.
type Probe interface {
	Probe(ctx context.Context) ProbeResult
	// Target describes what is being probed, for logs and messages.
	Target() string
}

// HTTPProbe issues a GET and is ready when the status is exactly 200.
type HTTPProbe struct {
	URL     string
	Timeout time.Duration
	Client  *http.Client
}

// NewHTTPProbe creates an HTTP probe with a per-attempt timeout.
func NewHTTPProbe(rawURL string, timeout time.Duration) *HTTPProbe {
	if timeout <= 0 {
		timeout = DefaultProbeTimeout
	}
	return &HTTPProbe{
		URL:     rawURL,
		Timeout: timeout,
		Client:  &http.Client{},
	}
}

// Target returns the probed URL.
func (p *HTTPProbe) Target() string {
	return p.URL
}

// Probe performs one GET request.
func (p *HTTPProbe) Probe(ctx context.Context) ProbeResult {
	ctx, cancel := context.WithTimeout(ctx, p.Timeout)
	defer cancel()

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, p.URL, nil)
	if err != nil {
		return ProbeResult{Err: fmt.Errorf("build request: %w", err)}
	}

	resp, err := p.Client.Do(req)
	if err != nil {
		return ProbeResult{Err: err}
	}
	defer resp.Body.Close()
	_, _ = io.Copy(io.Discard, io.LimitReader(resp.Body, maxDrainBytes))

	if resp.StatusCode != http.StatusOK {
		return ProbeResult{Status: resp.StatusCode, Err: fmt.Errorf("unexpected status %d", resp.StatusCode)}
	}
	return ProbeResult{OK: true, Status: resp.StatusCode}
}

// TCPProbe is ready when a TCP connection to Address succeeds.
type TCPProbe struct {
	Address string
	Timeout time.Duration
}

// NewTCPProbe creates a TCP connect probe with a per-attempt timeout.
func NewTCPProbe(address string, timeout time.Duration) *TCPProbe {
	if timeout <= 0 {
		timeout = DefaultProbeTimeout
	}
	return &TCPProbe{Address: address, Timeout: timeout}
}

// Target returns the probed address.
func (p *TCPProbe) Target() string {
	return p.Address
}

// Probe attempts one connection and closes it immediately.
func (p *TCPProbe) Probe(ctx context.Context) ProbeResult {
	d := net.Dialer{Timeout: p.Timeout}
	conn, err := d.DialContext(ctx, "tcp", p.Address)
	if err != nil {
		return ProbeResult{Err: err}
	}
	_ = conn.Close()
	return ProbeResult{OK: true}
}

// ProbeFunc adapts a function to the Probe interface.
type ProbeFunc struct {
	Name string
	Fn   func(ctx context.Context) ProbeResult
}

// Target returns the configured name.
func (p ProbeFunc) Target() string {
	return p.Name
}

// Probe calls Fn.
func (p ProbeFunc) Probe(ctx context.Context) ProbeResult {
	return p.Fn(ctx)
}

// ParseTarget builds a probe for target. Targets with a scheme must be
// http or https URLs; anything else must be a host:port pair.
func ParseTarget(target string, probeTimeout time.Duration) (Probe, error) {
	target = strings.TrimSpace(target)
	if target == "" {
		return nil, fmt.Errorf("empty readiness target")
	}

	if strings.Contains(target, "://") {
		u, err := url.Parse(target)
		if err != nil {
			return nil, fmt.Errorf("invalid readiness URL %q: %w", target, err)
		}
		if u.Scheme != "http" && u.Scheme != "https" {
			return nil, fmt.Errorf("unsupported readiness URL scheme %q (must be http or https)", u.Scheme)
		}
		if u.Host == "" {
			return nil, fmt.Errorf("readiness URL %q has no host", target)
		}
		return NewHTTPProbe(target, probeTimeout), nil
	}

	host, port, err := net.SplitHostPort(target)
	if err != nil {
		return nil, fmt.Errorf("invalid readiness target %q: expected URL or host:port", target)
	}
	if port == "" {
		return nil, fmt.Errorf("readiness target %q has no port", target)
	}
	if host == "" {
		target = net.JoinHostPort("localhost", port)
	}
	return NewTCPProbe(target, probeTimeout), nil
}
