// Package search sequences one request through the whole pipeline: intent,
// orchestration, consolidation, summary, caching.
package search

import (
	"context"
	"errors"
	"sort"
	"strings"
	"time"

	"go.uber.org/zap"

	"merchfinder/internal/ai"
	"merchfinder/internal/cache"
	"merchfinder/internal/consolidate"
	"merchfinder/internal/domain"
	"merchfinder/internal/monitoring"
	"merchfinder/internal/scrape"
	"merchfinder/internal/targets"
)

// ErrEmptyQuery rejects requests with nothing to search for.
var ErrEmptyQuery = errors.New("query must not be empty")

// Coordinator is the thin driver tying the scrape core to its external
// collaborators. Everything inside it degrades gracefully: a search only
// fails on invalid input.
type Coordinator struct {
	registry     *targets.Registry
	orchestrator *scrape.Orchestrator
	collaborator ai.Client
	cache        cache.Cache
	metrics      *monitoring.Metrics
	logger       *zap.Logger

	cacheTTL          time.Duration
	defaultMaxResults int
}

// NewCoordinator wires the pipeline. collaborator and resultCache may be
// nil; the corresponding stages then use their deterministic fallbacks.
func NewCoordinator(
	registry *targets.Registry,
	orchestrator *scrape.Orchestrator,
	collaborator ai.Client,
	resultCache cache.Cache,
	metrics *monitoring.Metrics,
	logger *zap.Logger,
	cacheTTL time.Duration,
	defaultMaxResults int,
) *Coordinator {
	return &Coordinator{
		registry:          registry,
		orchestrator:      orchestrator,
		collaborator:      collaborator,
		cache:             resultCache,
		metrics:           metrics,
		logger:            logger,
		cacheTTL:          cacheTTL,
		defaultMaxResults: defaultMaxResults,
	}
}

// Search runs one full request. Zero successful targets is not an error:
// the result then carries zero products and a nothing-found summary.
func (c *Coordinator) Search(ctx context.Context, query string, maxResults int) (*domain.SearchResult, error) {
	query = strings.TrimSpace(query)
	if query == "" {
		return nil, ErrEmptyQuery
	}
	if maxResults <= 0 {
		maxResults = c.defaultMaxResults
	}

	start := time.Now()
	if c.metrics != nil {
		c.metrics.SearchesTotal.Inc()
		defer func() {
			c.metrics.SearchDuration.Observe(time.Since(start).Seconds())
		}()
	}

	key := cache.Key(query, maxResults)
	if c.cache != nil {
		if cached, ok := c.cache.Get(ctx, key); ok {
			if c.metrics != nil {
				c.metrics.IncCacheEvent("hit")
			}
			c.logger.Info("cache hit", zap.String("query", query))
			return cached, nil
		}
		if c.metrics != nil {
			c.metrics.IncCacheEvent("miss")
		}
	}

	intent := ai.ExtractIntent(ctx, c.instrumented("intent"), query)
	searchQuery := ai.BuildSearchQuery(intent, query)

	enabled := c.registry.ListEnabled()
	c.logger.Info("starting scrape run",
		zap.String("query", query),
		zap.String("search_query", searchQuery),
		zap.Int("targets", len(enabled)),
	)

	outcomes := c.orchestrator.RunAll(ctx, enabled, searchQuery)

	products, totalFound := consolidate.Consolidate(outcomes, consolidate.Options{
		Query:       searchQuery,
		Intent:      intent,
		ApplyFilter: !intent.IsZero(),
		MaxResults:  maxResults,
	})

	sources := contributingSources(outcomes)
	summary := ai.GenerateSummary(ctx, c.instrumented("summary"), query, products, sources)

	result := &domain.SearchResult{
		Products:   products,
		Query:      searchQuery,
		Intent:     intent,
		Summary:    summary,
		Sources:    sources,
		TotalFound: totalFound,
		Elapsed:    time.Since(start),
	}

	if c.cache != nil {
		c.cache.Set(ctx, key, result, c.cacheTTL)
	}

	c.logger.Info("search complete",
		zap.String("query", query),
		zap.Int("products", len(products)),
		zap.Int("total_found", totalFound),
		zap.Duration("elapsed", result.Elapsed),
	)
	return result, nil
}

// instrumented returns the collaborator with its call outcomes counted
// under kind.
func (c *Coordinator) instrumented(kind string) ai.Client {
	if c.metrics == nil {
		return c.collaborator
	}
	return ai.Instrument(c.collaborator, c.metrics.AIObserver(kind))
}

// contributingSources lists targets that returned at least one product,
// alphabetically for stable output.
func contributingSources(outcomes []domain.ScrapeOutcome) []string {
	sources := make([]string, 0, len(outcomes))
	for _, oc := range outcomes {
		if oc.Success && len(oc.Products) > 0 {
			sources = append(sources, oc.Target)
		}
	}
	sort.Strings(sources)
	return sources
}
