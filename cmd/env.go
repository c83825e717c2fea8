package main

import (
	"context"
	"time"

	"github.com/rotisserie/eris"
	"go.uber.org/zap"

	"github.com/sells-group/leadscout/internal/discovery"
	"github.com/sells-group/leadscout/internal/fetch"
	"github.com/sells-group/leadscout/internal/model"
	"github.com/sells-group/leadscout/internal/resilience"
	"github.com/sells-group/leadscout/internal/store"
	"github.com/sells-group/leadscout/pkg/anthropic"
)

// env bundles the long-lived pipeline dependencies shared by commands.
type env struct {
	engine *discovery.Engine
	cache  store.Store
}

// initEnv wires the discovery engine and, when configured, the result cache.
// A cache that fails to open is logged and skipped, not fatal.
func initEnv(ctx context.Context) (*env, error) {
	static := fetch.NewStatic(cfg.Fetch)
	dynamic := fetch.NewDynamic(cfg.Render, cfg.Fetch)
	breaker := resilience.NewFallbackBreaker()

	var llm anthropic.Client
	if cfg.Anthropic.Key != "" {
		llm = anthropic.NewClient(cfg.Anthropic.Key)
	}

	engine, err := discovery.NewEngine(cfg, static, dynamic, llm, breaker)
	if err != nil {
		return nil, eris.Wrap(err, "init discovery engine")
	}

	e := &env{engine: engine}

	if cfg.Cache.DSN != "" {
		cache, err := store.Open(ctx, cfg.Cache.Driver, cfg.Cache.DSN)
		if err != nil {
			zap.L().Warn("cache unavailable, continuing without it", zap.Error(err))
		} else if err := cache.Migrate(ctx); err != nil {
			zap.L().Warn("cache migration failed, continuing without it", zap.Error(err))
			_ = cache.Close()
		} else {
			e.cache = cache
		}
	}

	return e, nil
}

func (e *env) Close() {
	if e.cache != nil {
		_ = e.cache.Close()
	}
}

// cacheTTL returns the configured freshness window.
func (e *env) cacheTTL() time.Duration {
	hours := cfg.Cache.TTLHours
	if hours <= 0 {
		hours = 72
	}
	return time.Duration(hours) * time.Hour
}

// discover runs leadership and contact email discovery for one listing,
// consulting the cache first. Cache failures are best-effort on both sides.
func (e *env) discover(ctx context.Context, website, companyName string, maxLeaders int) model.DiscoveryResult {
	host := model.CanonicalHost(model.NormalizeURL(website))

	if e.cache != nil && host != "" {
		cached, err := e.cache.Get(ctx, host)
		if err != nil {
			zap.L().Debug("cache get failed", zap.String("host", host), zap.Error(err))
		} else if cached != nil {
			zap.L().Debug("cache hit", zap.String("host", host))
			return cached.Result
		}
	}

	result := e.engine.DiscoverLeadership(ctx, website, companyName, maxLeaders)
	result.Email = e.engine.DiscoverContactEmail(ctx, website, companyName)

	if e.cache != nil && host != "" {
		if err := e.cache.Set(ctx, host, result, e.cacheTTL()); err != nil {
			zap.L().Debug("cache set failed", zap.String("host", host), zap.Error(err))
		}
	}

	return result
}
