package fetch

import (
	"context"
	"strings"
	"sync"
	"time"

	"github.com/chromedp/cdproto/cdp"
	"github.com/chromedp/cdproto/network"
	"github.com/chromedp/chromedp"
	"github.com/rotisserie/eris"
	"go.uber.org/zap"

	"github.com/sells-group/leadscout/internal/config"
)

// Per-call clamps for dynamic rendering.
const (
	dynamicMinTimeout = 5 * time.Second
	dynamicMaxTimeout = 16 * time.Second
)

// ErrBrowserUnavailable marks a missing or broken Chrome/Chromium runtime.
// The orchestrator latches dynamic rendering off for the process when it
// sees this.
var ErrBrowserUnavailable = eris.New("fetch: browser runtime unavailable")

// Dynamic renders pages in an isolated headless browser context per call and
// intercepts same-page network responses that carry JSON bodies.
type Dynamic struct {
	cfg       config.RenderConfig
	userAgent string
}

// NewDynamic creates a Dynamic fetcher from config.
func NewDynamic(render config.RenderConfig, fetchCfg config.FetchConfig) *Dynamic {
	if render.MaxJSONHits <= 0 {
		render.MaxJSONHits = 10
	}
	if render.MaxJSONBytes <= 0 {
		render.MaxJSONBytes = 1_200_000
	}
	if render.NavTimeoutMs <= 0 {
		render.NavTimeoutMs = int(dynamicMaxTimeout / time.Millisecond)
	}
	if render.ScrollPassMs <= 0 {
		render.ScrollPassMs = 700
	}
	if render.SettleDelayMs <= 0 {
		render.SettleDelayMs = 900
	}
	return &Dynamic{cfg: render, userAgent: fetchCfg.UserAgent}
}

// jsonCapture accumulates intercepted JSON bodies under per-hit size and
// total count caps. The listener must never block the page's own
// navigation timeline, so bodies are pulled in goroutines.
type jsonCapture struct {
	mu       sync.Mutex
	wg       sync.WaitGroup
	pending  map[network.RequestID]struct{}
	bodies   []string
	maxHits  int
	maxBytes int
}

func (c *jsonCapture) markPending(id network.RequestID) {
	c.mu.Lock()
	defer c.mu.Unlock()
	if len(c.bodies)+len(c.pending) >= c.maxHits {
		return
	}
	c.pending[id] = struct{}{}
}

func (c *jsonCapture) takePending(id network.RequestID) bool {
	c.mu.Lock()
	defer c.mu.Unlock()
	if _, ok := c.pending[id]; !ok {
		return false
	}
	delete(c.pending, id)
	return true
}

func (c *jsonCapture) store(body string) {
	trimmed := strings.TrimSpace(body)
	if trimmed == "" || len(body) > c.maxBytes {
		return
	}
	// Quick filter: must look like a JSON object or array.
	if trimmed[0] != '{' && trimmed[0] != '[' {
		return
	}
	c.mu.Lock()
	defer c.mu.Unlock()
	if len(c.bodies) >= c.maxHits {
		return
	}
	c.bodies = append(c.bodies, body)
}

func (c *jsonCapture) results() []string {
	c.mu.Lock()
	defer c.mu.Unlock()
	out := make([]string, len(c.bodies))
	copy(out, c.bodies)
	return out
}

// jsonLikeContentType reports whether a response content type may carry a
// JSON body. Some APIs serve JSON as text/plain or octet-stream; those pass
// here and are filtered by the `{`/`[` prefix check in store.
func jsonLikeContentType(mimeType string) bool {
	mt := strings.ToLower(mimeType)
	switch {
	case strings.Contains(mt, "application/json"),
		strings.Contains(mt, "text/json"),
		strings.Contains(mt, "ld+json"),
		strings.Contains(mt, "text/plain"),
		strings.Contains(mt, "application/octet-stream"):
		return true
	}
	return false
}

// Fetch navigates to a URL in a fresh browser context, waits for client-side
// rendering plus a short scroll-triggered lazy-load pause, and returns the
// final DOM HTML along with any intercepted JSON payloads. Browser and
// context teardown is guaranteed on every exit path by the deferred cancels.
func (d *Dynamic) Fetch(ctx context.Context, targetURL string, remaining time.Duration) (string, []string, error) {
	navTimeout := ClampTimeout(remaining, dynamicMinTimeout, dynamicMaxTimeout)
	if cfgMax := time.Duration(d.cfg.NavTimeoutMs) * time.Millisecond; navTimeout > cfgMax {
		navTimeout = cfgMax
	}

	ctx, cancel := context.WithTimeout(ctx, navTimeout)
	defer cancel()

	execOpts := append(chromedp.DefaultExecAllocatorOptions[:],
		chromedp.Flag("headless", d.cfg.Headless),
		chromedp.Flag("disable-gpu", true),
		chromedp.Flag("no-sandbox", true),
		chromedp.Flag("disable-dev-shm-usage", true),
		chromedp.Flag("disable-blink-features", "AutomationControlled"),
	)
	if ua := strings.TrimSpace(d.userAgent); ua != "" {
		execOpts = append(execOpts, chromedp.UserAgent(ua))
	}

	allocCtx, allocCancel := chromedp.NewExecAllocator(ctx, execOpts...)
	defer allocCancel()

	browserCtx, browserCancel := chromedp.NewContext(allocCtx)
	defer browserCancel()

	capture := &jsonCapture{
		pending:  make(map[network.RequestID]struct{}),
		maxHits:  d.cfg.MaxJSONHits,
		maxBytes: d.cfg.MaxJSONBytes,
	}

	chromedp.ListenTarget(browserCtx, func(ev any) {
		switch e := ev.(type) {
		case *network.EventResponseReceived:
			if e.Response == nil || !jsonLikeContentType(e.Response.MimeType) {
				return
			}
			capture.markPending(e.RequestID)
		case *network.EventLoadingFinished:
			if !capture.takePending(e.RequestID) {
				return
			}
			reqID := e.RequestID
			capture.wg.Add(1)
			go func() {
				defer capture.wg.Done()
				c := chromedp.FromContext(browserCtx)
				if c == nil || c.Target == nil {
					return
				}
				body, err := network.GetResponseBody(reqID).Do(cdp.WithExecutor(browserCtx, c.Target))
				if err != nil {
					return
				}
				capture.store(string(body))
			}()
		}
	})

	scrollPause := time.Duration(d.cfg.ScrollPassMs) * time.Millisecond
	settle := time.Duration(d.cfg.SettleDelayMs) * time.Millisecond

	var html string
	err := chromedp.Run(browserCtx,
		network.Enable(),
		// Basic fingerprint softening only; this is not an anti-bot bypass.
		chromedp.ActionFunc(func(ctx context.Context) error {
			return chromedp.Evaluate(`Object.defineProperty(navigator, 'webdriver', {get: () => undefined}); true`, nil).Do(ctx)
		}),
		chromedp.Navigate(targetURL),
		chromedp.WaitReady("body", chromedp.ByQuery),
		chromedp.Sleep(settle),
		// Two light scroll passes to trigger lazy-loaded sections.
		chromedp.Evaluate(`window.scrollBy(0, 2000); true`, nil),
		chromedp.Sleep(scrollPause),
		chromedp.Evaluate(`window.scrollBy(0, 2000); true`, nil),
		chromedp.Sleep(scrollPause),
		chromedp.OuterHTML("html", &html, chromedp.ByQuery),
	)
	if err != nil {
		if isBrowserUnavailable(err) {
			return "", capture.results(), ErrBrowserUnavailable
		}
		zap.L().Debug("fetch: dynamic render failed",
			zap.String("url", targetURL),
			zap.Error(err),
		)
		// Payloads captured before the failure are still usable.
		return "", capture.results(), eris.Wrap(err, "fetch: dynamic render")
	}

	// Give in-flight body pulls a moment; they are bounded by the context.
	done := make(chan struct{})
	go func() {
		capture.wg.Wait()
		close(done)
	}()
	select {
	case <-done:
	case <-time.After(500 * time.Millisecond):
	case <-ctx.Done():
	}

	return html, capture.results(), nil
}

// isBrowserUnavailable distinguishes a missing Chrome binary from an
// ordinary navigation failure.
func isBrowserUnavailable(err error) bool {
	if err == nil {
		return false
	}
	msg := err.Error()
	return strings.Contains(msg, "executable file not found") ||
		strings.Contains(msg, "exec: no command") ||
		strings.Contains(msg, "chrome failed to start")
}
