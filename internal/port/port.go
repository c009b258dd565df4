package port

import (
	"context"
	"fmt"
	"net"
	"net/url"
	"strings"
	"time"
)

// DefaultDialTimeout bounds a single in-use check.
const DefaultDialTimeout = 500 * time.Millisecond

// Address returns the host:port a readiness target listens on. URLs
// without an explicit port use the scheme default.
func Address(target string) (string, error) {
	target = strings.TrimSpace(target)
	if target == "" {
		return "", fmt.Errorf("empty target")
	}

	if strings.Contains(target, "://") {
		u, err := url.Parse(target)
		if err != nil {
			return "", fmt.Errorf("invalid target URL %q: %w", target, err)
		}
		if u.Hostname() == "" {
			return "", fmt.Errorf("target URL %q has no host", target)
		}
		p := u.Port()
		if p == "" {
			switch u.Scheme {
			case "http":
				p = "80"
			case "https":
				p = "443"
			default:
				return "", fmt.Errorf("no default port for scheme %q", u.Scheme)
			}
		}
		return net.JoinHostPort(u.Hostname(), p), nil
	}

	host, p, err := net.SplitHostPort(target)
	if err != nil {
		return "", fmt.Errorf("invalid target %q: %w", target, err)
	}
	if p == "" {
		return "", fmt.Errorf("target %q has no port", target)
	}
	if host == "" {
		host = "localhost"
	}
	return net.JoinHostPort(host, p), nil
}

// InUse reports whether something already accepts connections on addr.
func InUse(ctx context.Context, addr string, timeout time.Duration) bool {
	if timeout <= 0 {
		timeout = DefaultDialTimeout
	}
	ctx, cancel := context.WithTimeout(ctx, timeout)
	defer cancel()

	var d net.Dialer
	conn, err := d.DialContext(ctx, "tcp", addr)
	if err != nil {
		return false
	}
	conn.Close()
	return true
}

// Check resolves target and reports whether its port is already taken.
// Targets that cannot be resolved are reported as free.
func Check(ctx context.Context, target string) (string, bool) {
	addr, err := Address(target)
	if err != nil {
		return "", false
	}
	return addr, InUse(ctx, addr, DefaultDialTimeout)
}
