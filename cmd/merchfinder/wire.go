package main

import (
	"fmt"

	"go.uber.org/zap"

	"merchfinder/internal/ai"
	"merchfinder/internal/cache"
	"merchfinder/internal/config"
	"merchfinder/internal/fetch"
	"merchfinder/internal/monitoring"
	"merchfinder/internal/scrape"
	"merchfinder/internal/search"
	"merchfinder/internal/targets"
)

// app holds the assembled pipeline plus the resources that need an explicit
// teardown.
type app struct {
	cfg         *config.Config
	logger      *zap.Logger
	registry    *targets.Registry
	coordinator *search.Coordinator
	browser     *fetch.BrowserManager
	redisCache  *cache.RedisCache // nil when the in-process cache is in use
}

// buildApp wires every component from configuration. The browser is not
// started here; it launches lazily on the first rendered fetch.
func buildApp() (*app, error) {
	logger, err := zap.NewProduction()
	if err != nil {
		return nil, fmt.Errorf("init logger: %w", err)
	}

	cfg, err := config.Load()
	if err != nil {
		return nil, fmt.Errorf("load config: %w", err)
	}

	metrics := monitoring.NewMetrics()
	registry := targets.NewRegistry()

	var collaborator ai.Client
	if httpClient := ai.NewHTTPClient(cfg.AIAPIURL, cfg.AIAPIKey, cfg.AIModel); httpClient != nil {
		collaborator = httpClient
	} else {
		logger.Warn("no AI API key configured; intent extraction, extraction fallback, and summaries use deterministic fallbacks")
	}

	browser := fetch.NewBrowserManager(cfg.BrowserHeadless, logger)

	staticFetcher := fetch.NewStatic(logger)
	renderedFetcher := fetch.NewRendered(browser, logger)
	if collaborator != nil {
		fallback := &ai.Extractor{Client: ai.Instrument(collaborator, metrics.AIObserver("extract"))}
		staticFetcher.Fallback = fallback
		renderedFetcher.Fallback = fallback
	}

	orchestrator := scrape.NewOrchestrator(staticFetcher, renderedFetcher, metrics, logger, cfg.MaxRetries, cfg.RetryBaseDelay)

	var resultCache cache.Cache
	var redisCache *cache.RedisCache
	if cfg.RedisAddr != "" {
		redisCache = cache.NewRedisCache(cfg.RedisAddr, logger)
		resultCache = redisCache
	} else {
		memCache, err := cache.NewMemoryCache(cfg.CacheSize)
		if err != nil {
			return nil, fmt.Errorf("init memory cache: %w", err)
		}
		resultCache = memCache
	}

	coordinator := search.NewCoordinator(registry, orchestrator, collaborator, resultCache, metrics, logger, cfg.CacheTTL, cfg.MaxResults)

	return &app{
		cfg:         cfg,
		logger:      logger,
		registry:    registry,
		coordinator: coordinator,
		browser:     browser,
		redisCache:  redisCache,
	}, nil
}

// close releases the shared browser and flushes logs.
func (a *app) close() {
	a.browser.Shutdown()
	_ = a.logger.Sync()
}
