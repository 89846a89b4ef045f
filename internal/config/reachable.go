package config

import (
	"context"
	"fmt"
	"net"
	"net/http"
	"net/url"
	"time"
)

var probePaths = []string{"/login", "/"}

// Reachable reports whether the application answers HTTP at base. It dials
// the host first so an absent dev server fails fast.
func Reachable(ctx context.Context, base string) error {
	u, err := url.Parse(base)
	if err != nil {
		return fmt.Errorf("parsing %s: %w", base, err)
	}
	host := u.Host
	if u.Port() == "" {
		if u.Scheme == "https" {
			host = net.JoinHostPort(u.Hostname(), "443")
		} else {
			host = net.JoinHostPort(u.Hostname(), "80")
		}
	}

	d := net.Dialer{Timeout: 500 * time.Millisecond}
	conn, err := d.DialContext(ctx, "tcp", host)
	if err != nil {
		return fmt.Errorf("dialing %s: %w", host, err)
	}
	_ = conn.Close()

	client := &http.Client{Timeout: 2 * time.Second}
	var lastErr error
	for _, path := range probePaths {
		req, err := http.NewRequestWithContext(ctx, http.MethodGet, base+path, nil)
		if err != nil {
			return fmt.Errorf("building probe request: %w", err)
		}
		resp, err := client.Do(req)
		if err != nil {
			lastErr = err
			continue
		}
		_ = resp.Body.Close()
		if resp.StatusCode < http.StatusInternalServerError {
			return nil
		}
		lastErr = fmt.Errorf("GET %s: status %d", path, resp.StatusCode)
	}
	return fmt.Errorf("probing %s: %w", base, lastErr)
}
