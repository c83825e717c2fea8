// Package fetch retrieves pages statically (plain HTTP) or dynamically
// (headless browser render with network capture).
package fetch

import (
	"context"
	"io"
	"net"
	"net/http"
	"strings"
	"time"

	"github.com/rotisserie/eris"

	"github.com/sells-group/leadscout/internal/config"
)

// Per-call clamps for the static fetcher. The remaining target budget is
// clamped into this window so one slow page cannot eat the whole run.
const (
	staticMinTimeout = 3 * time.Second
	staticMaxTimeout = 12 * time.Second
)

// ErrNotFound marks a 404: the page genuinely does not exist, as opposed to
// being blocked or temporarily unreachable. Callers use the distinction to
// decide whether a browser render could still succeed.
var ErrNotFound = eris.New("fetch: status 404")

// Static performs bounded single-shot HTTP GETs with a realistic browser
// user agent. All failures are returned as errors; callers treat any error
// as "no data from this page".
type Static struct {
	client    *http.Client
	userAgent string
	maxBody   int64
}

// NewStatic creates a Static fetcher from config.
func NewStatic(cfg config.FetchConfig) *Static {
	maxBody := int64(cfg.MaxBodyBytes)
	if maxBody <= 0 {
		maxBody = 900_000
	}
	return &Static{
		client: &http.Client{
			Transport: &http.Transport{
				DialContext: (&net.Dialer{
					Timeout: 10 * time.Second,
				}).DialContext,
				TLSHandshakeTimeout: 10 * time.Second,
			},
		},
		userAgent: cfg.UserAgent,
		maxBody:   maxBody,
	}
}

// Fetch GETs a URL with a timeout clamped from the remaining budget,
// following redirects. Returns an error for network failures, status >= 400,
// and non-HTML content types.
func (s *Static) Fetch(ctx context.Context, targetURL string, remaining time.Duration) (string, error) {
	ctx, cancel := context.WithTimeout(ctx, ClampTimeout(remaining, staticMinTimeout, staticMaxTimeout))
	defer cancel()

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, targetURL, nil)
	if err != nil {
		return "", eris.Wrap(err, "fetch: create request")
	}
	req.Header.Set("User-Agent", s.userAgent)
	req.Header.Set("Accept", "text/html,application/xhtml+xml,application/xml;q=0.9,*/*;q=0.8")
	req.Header.Set("Accept-Language", "en-US,en;q=0.9")

	resp, err := s.client.Do(req)
	if err != nil {
		return "", eris.Wrap(err, "fetch: get")
	}
	defer func() { _ = resp.Body.Close() }()

	if resp.StatusCode == http.StatusNotFound {
		return "", ErrNotFound
	}
	if resp.StatusCode >= 400 {
		return "", eris.Errorf("fetch: status %d", resp.StatusCode)
	}

	ct := strings.ToLower(resp.Header.Get("Content-Type"))
	if ct != "" && !strings.Contains(ct, "text/html") && !strings.Contains(ct, "application/xhtml+xml") {
		return "", eris.Errorf("fetch: non-html content type %q", ct)
	}

	body, err := io.ReadAll(io.LimitReader(resp.Body, s.maxBody))
	if err != nil {
		return "", eris.Wrap(err, "fetch: read body")
	}

	return string(body), nil
}

// ClampTimeout bounds a remaining budget into [min, max]. A non-positive
// budget still yields min so an in-flight call can complete; the caller is
// responsible for not starting new work once the deadline is gone.
func ClampTimeout(remaining, min, max time.Duration) time.Duration {
	if remaining < min {
		return min
	}
	if remaining > max {
		return max
	}
	return remaining
}
