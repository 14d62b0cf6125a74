// Package scrape fans a search query out to every enabled target and
// collects per-target outcomes without letting one failure touch another.
package scrape

import (
	"context"
	"time"

	"go.uber.org/zap"

	"merchfinder/internal/domain"
	"merchfinder/internal/fetch"
	"merchfinder/internal/monitoring"
	"merchfinder/internal/normalize"
	"merchfinder/internal/retry"
)

// Orchestrator runs one concurrent fetch per target. Concurrency is bounded
// by the number of enabled targets, which stays small.
type Orchestrator struct {
	static   fetch.Fetcher
	rendered fetch.Fetcher
	metrics  *monitoring.Metrics
	logger   *zap.Logger

	maxRetries int
	baseDelay  time.Duration
}

// NewOrchestrator wires the two fetch strategies and the retry policy.
func NewOrchestrator(static, rendered fetch.Fetcher, m *monitoring.Metrics, logger *zap.Logger, maxRetries int, baseDelay time.Duration) *Orchestrator {
	return &Orchestrator{
		static:     static,
		rendered:   rendered,
		metrics:    m,
		logger:     logger,
		maxRetries: maxRetries,
		baseDelay:  baseDelay,
	}
}

// RunAll scrapes every target concurrently and returns exactly one outcome
// per target. Order is not guaranteed; cardinality is. The call returns only
// once every target has settled — no early return on first failure or first
// success.
func (o *Orchestrator) RunAll(ctx context.Context, targets []domain.Target, query string) []domain.ScrapeOutcome {
	results := make(chan domain.ScrapeOutcome, len(targets))

	for _, target := range targets {
		go func(t domain.Target) {
			results <- o.scrapeTarget(ctx, t, query)
		}(target)
	}

	outcomes := make([]domain.ScrapeOutcome, 0, len(targets))
	for range targets {
		outcomes = append(outcomes, <-results)
	}
	return outcomes
}

// scrapeTarget runs one target's retry-wrapped fetch+normalize, converting
// any terminal error into a failed outcome rather than propagating it.
func (o *Orchestrator) scrapeTarget(ctx context.Context, target domain.Target, query string) domain.ScrapeOutcome {
	start := time.Now()

	products, err := retry.Do(ctx, o.maxRetries, o.baseDelay, func(ctx context.Context) ([]domain.Product, error) {
		if target.Delay > 0 {
			select {
			case <-ctx.Done():
				return nil, ctx.Err()
			case <-time.After(target.Delay):
			}
		}

		raw, err := o.fetcherFor(target).Fetch(ctx, target, query)
		if err != nil {
			return nil, err
		}
		return normalize.Products(raw, target), nil
	})

	elapsed := time.Since(start)

	if err != nil {
		o.logger.Warn("target scrape failed",
			zap.String("target", target.ID),
			zap.Duration("elapsed", elapsed),
			zap.Error(err),
		)
		if o.metrics != nil {
			o.metrics.ObserveScrape(target.ID, elapsed, false)
		}
		return domain.ScrapeOutcome{
			Target:   target.Name,
			Priority: target.Priority,
			Success:  false,
			Products: []domain.Product{},
			Error:    err.Error(),
			Elapsed:  elapsed,
		}
	}

	o.logger.Info("target scraped",
		zap.String("target", target.ID),
		zap.Int("products", len(products)),
		zap.Duration("elapsed", elapsed),
	)
	if o.metrics != nil {
		o.metrics.ObserveScrape(target.ID, elapsed, true)
		o.metrics.AddProducts(target.ID, len(products))
	}
	return domain.ScrapeOutcome{
		Target:   target.Name,
		Priority: target.Priority,
		Success:  true,
		Products: products,
		Elapsed:  elapsed,
	}
}

func (o *Orchestrator) fetcherFor(target domain.Target) fetch.Fetcher {
	if target.Render {
		return o.rendered
	}
	return o.static
}
