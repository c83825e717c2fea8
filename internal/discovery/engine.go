// Package discovery runs the leadership discovery pipeline: bounded internal
// crawl, tiered extraction, confidence gating, bucket classification, and an
// optional LLM last resort behind a process-wide circuit breaker.
package discovery

import (
	"context"
	"sync/atomic"
	"time"

	"github.com/rotisserie/eris"
	"go.uber.org/zap"

	"github.com/sells-group/leadscout/internal/classify"
	"github.com/sells-group/leadscout/internal/config"
	"github.com/sells-group/leadscout/internal/crawl"
	"github.com/sells-group/leadscout/internal/extract"
	"github.com/sells-group/leadscout/internal/fetch"
	"github.com/sells-group/leadscout/internal/model"
	"github.com/sells-group/leadscout/internal/resilience"
	"github.com/sells-group/leadscout/pkg/anthropic"
)

// State names one stage of the per-target pipeline. Transitions are logged
// so a run's escalation path can be reconstructed from logs.
type State string

const (
	StateDiscovering      State = "discovering"
	StateExtractingStatic State = "extracting_static"
	StateRenderingDynamic State = "rendering_dynamic"
	StateLLMFallback      State = "llm_fallback"
	StateDone             State = "done"
)

// Budget floors: below these, the corresponding escalation is not started.
const (
	minPageBudget    = 800 * time.Millisecond
	minDynamicBudget = 4 * time.Second
)

// timeoutFor converts the configured per-target budget to a duration,
// defaulting when unset.
func timeoutFor(secs int) time.Duration {
	if secs <= 0 {
		secs = 25
	}
	return time.Duration(secs) * time.Second
}

// Engine orchestrates discovery for one target at a time. Safe for
// concurrent use across targets: per-target state lives on the stack, and
// the only shared mutable state is the fallback breaker and the dynamic
// availability latch.
type Engine struct {
	cfg        config.DiscoveryConfig
	static     *fetch.Static
	dynamic    *fetch.Dynamic
	discoverer *crawl.Discoverer
	scorer     *extract.Scorer
	breaker    *resilience.FallbackBreaker
	llm        anthropic.Client
	llmModel   string
	llmTokens  int64

	// dynamicDown latches when the browser runtime turns out to be missing;
	// static-only mode continues for the rest of the process.
	dynamicDown atomic.Bool
}

// NewEngine wires the discovery pipeline. dynamic and llm may be nil to
// disable those stages outright.
func NewEngine(cfg *config.Config, static *fetch.Static, dynamic *fetch.Dynamic, llm anthropic.Client, breaker *resilience.FallbackBreaker) (*Engine, error) {
	if cfg == nil {
		return nil, eris.New("discovery: nil config")
	}
	if breaker == nil {
		breaker = resilience.NewFallbackBreaker()
	}
	matcher := crawl.NewPathMatcher(cfg.Discovery.Blocklist)
	e := &Engine{
		cfg:        cfg.Discovery,
		static:     static,
		discoverer: crawl.NewDiscoverer(static, matcher, cfg.Discovery),
		scorer:     extract.NewScorer(cfg.Discovery.MinConfidence),
		breaker:    breaker,
		llmModel:   cfg.Anthropic.Model,
		llmTokens:  int64(cfg.Anthropic.MaxTokens),
	}
	if cfg.Discovery.EnableDynamic {
		e.dynamic = dynamic
	}
	if cfg.Discovery.EnableFallback {
		e.llm = llm
	}
	return e, nil
}

// DiscoverLeadership finds up to maxLeaders named leaders for a company
// website and buckets them into the five reporting categories. Absence of
// confident evidence is a valid outcome: the result is then empty with
// LeadershipFound false. Never returns an error for enrichment failures.
func (e *Engine) DiscoverLeadership(ctx context.Context, website, companyName string, maxLeaders int) model.DiscoveryResult {
	target := model.NewTarget(website, companyName, maxLeaders, timeoutFor(e.cfg.TimeoutSecs))
	if target.Website == "" {
		return model.EmptyDiscoveryResult()
	}
	if target.Remaining() == 0 || ctx.Err() != nil {
		return model.EmptyDiscoveryResult()
	}

	log := zap.L().With(
		zap.String("website", target.Website),
		zap.String("company", target.CompanyName),
	)

	state := StateDiscovering
	log.Debug("discovery state", zap.String("state", string(state)))
	pages := e.discoverer.Discover(ctx, target, crawl.KindLeadership)

	var candidates []model.LeaderCandidate
	if len(pages) > 0 {
		state = StateExtractingStatic
		log.Debug("discovery state", zap.String("state", string(state)), zap.Int("pages", len(pages)))
		candidates = e.extractFromPages(ctx, target, pages, log)
	} else {
		// Discovery resolved no pages at all (everything 404'd); the home
		// page may still exist for a browser behind client-side routing.
		candidates = e.renderHome(ctx, target, log)
	}

	ranked := extract.Dedupe(candidates, target.MaxLeaders)
	if len(ranked) == 0 && e.fallbackEligible(target) {
		state = StateLLMFallback
		log.Debug("discovery state", zap.String("state", string(state)))
		ranked = extract.Dedupe(e.fallbackLeaders(ctx, target), target.MaxLeaders)
	}

	state = StateDone
	log.Debug("discovery state", zap.String("state", string(state)), zap.Int("leaders", len(ranked)))

	leaders := make([]model.LeaderRef, 0, len(ranked))
	for _, c := range ranked {
		leaders = append(leaders, model.LeaderRef{Name: extract.Normalize(c.Name), Role: extract.Normalize(c.Role)})
	}
	mgmt := classify.Leaders(leaders)
	return model.DiscoveryResult{
		Management:      mgmt,
		LeadershipFound: mgmt.LeadershipFound(),
		Leaders:         leaders,
	}
}

// extractFromPages walks discovered pages in order, escalating a page to
// dynamic rendering when its static fetch failed (empty HTML) or returned a
// JS shell, and exits early once enough threshold-passing candidates exist.
func (e *Engine) extractFromPages(ctx context.Context, target model.Target, pages []model.FetchResult, log *zap.Logger) []model.LeaderCandidate {
	var candidates []model.LeaderCandidate

	strongCount := func() int {
		return len(extract.Dedupe(candidates, target.MaxLeaders))
	}

	for _, page := range pages {
		if target.Remaining() < minPageBudget {
			break
		}

		if page.HTML != "" {
			candidates = append(candidates, e.extractHTML(page.HTML, page.Page.URL)...)
		}
		if strongCount() >= target.MaxLeaders {
			break
		}

		// Dynamic escalation: only when the static fetch failed or the
		// result is a JS shell, and enough budget remains to be worth a
		// render. An empty-HTML page always reads as a shell.
		if !fetch.LooksLikeShell(page.HTML) {
			continue
		}
		candidates = append(candidates, e.renderPage(ctx, target, page.Page.URL, log)...)
		if strongCount() >= target.MaxLeaders {
			break
		}
	}

	return candidates
}

// renderPage runs the headless browser against one URL and extracts from the
// rendered DOM plus any captured JSON responses. Returns nothing when the
// browser is disabled, latched off, or out of budget.
func (e *Engine) renderPage(ctx context.Context, target model.Target, pageURL string, log *zap.Logger) []model.LeaderCandidate {
	if e.dynamic == nil || e.dynamicDown.Load() || target.Remaining() < minDynamicBudget {
		return nil
	}

	log.Debug("discovery state",
		zap.String("state", string(StateRenderingDynamic)),
		zap.String("url", pageURL),
	)
	dynHTML, payloads, err := e.dynamic.Fetch(ctx, pageURL, target.Remaining())
	if err != nil {
		if eris.Is(err, fetch.ErrBrowserUnavailable) {
			e.dynamicDown.Store(true)
			log.Warn("browser runtime unavailable, continuing static-only for process lifetime")
		} else {
			log.Debug("dynamic fetch failed", zap.String("url", pageURL), zap.Error(err))
		}
	}

	var candidates []model.LeaderCandidate
	if dynHTML != "" {
		candidates = append(candidates, e.extractHTML(dynHTML, pageURL)...)
	}
	if len(payloads) > 0 {
		candidates = append(candidates, extract.APIPayloads(payloads, pageURL, e.scorer)...)
	}
	return candidates
}

// renderHome is the last-ditch escalation when the crawl produced no usable
// static pages.
func (e *Engine) renderHome(ctx context.Context, target model.Target, log *zap.Logger) []model.LeaderCandidate {
	return e.renderPage(ctx, target, target.Website, log)
}

// extractHTML runs the structured-data extractor first and only falls back
// to the DOM heuristic when it yields nothing; embedded person records are
// the higher-precision source.
func (e *Engine) extractHTML(html, pageURL string) []model.LeaderCandidate {
	if out := extract.StructuredData(html, pageURL, e.scorer); len(out) > 0 {
		return out
	}
	return extract.DOMHeuristic(html, pageURL, e.scorer)
}

// fallbackEligible gates the LLM last resort: it runs only when the feature
// is enabled, the breaker is closed, and the deadline still has margin.
func (e *Engine) fallbackEligible(target model.Target) bool {
	if e.llm == nil {
		return false
	}
	if !e.breaker.Allow() {
		return false
	}
	return target.Remaining() >= minDynamicBudget
}
