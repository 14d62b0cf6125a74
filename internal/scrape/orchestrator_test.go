package scrape

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"

	"merchfinder/internal/domain"
	"merchfinder/internal/monitoring"
)

// stubFetcher fails for target IDs listed in fail, otherwise returns one
// listing named after the target.
type stubFetcher struct {
	fail map[string]bool
}

func (f *stubFetcher) Fetch(ctx context.Context, target domain.Target, query string) ([]domain.RawListing, error) {
	if f.fail[target.ID] {
		return nil, &domain.FetchError{Target: target.ID, Err: errors.New("connection refused")}
	}
	return []domain.RawListing{
		{Name: "Item from " + target.ID, LinkURL: "/p/" + target.ID, PriceText: "$10"},
	}, nil
}

func testOrchestrator(fail map[string]bool) *Orchestrator {
	f := &stubFetcher{fail: fail}
	m := monitoring.NewMetricsWith(prometheus.NewRegistry())
	return NewOrchestrator(f, f, m, zap.NewNop(), 2, time.Millisecond)
}

func testTargets() []domain.Target {
	mk := func(id string, prio int, render bool) domain.Target {
		return domain.Target{
			ID: id, Name: id, BaseURL: "https://" + id + ".test",
			Priority: prio, Enabled: true, Render: render,
			Timeout: time.Second,
		}
	}
	return []domain.Target{
		mk("a", 10, false), mk("b", 8, true), mk("c", 5, false), mk("d", 2, true),
	}
}

func TestRunAllPartialFailureIsolation(t *testing.T) {
	o := testOrchestrator(map[string]bool{"b": true, "d": true})

	outcomes := o.RunAll(context.Background(), testTargets(), "cap")
	require.Len(t, outcomes, 4)

	byTarget := map[string]domain.ScrapeOutcome{}
	for _, oc := range outcomes {
		byTarget[oc.Target] = oc
	}

	for _, id := range []string{"a", "c"} {
		oc := byTarget[id]
		assert.True(t, oc.Success, "target %s", id)
		assert.NotEmpty(t, oc.Products, "target %s", id)
		assert.Empty(t, oc.Error, "target %s", id)
	}
	for _, id := range []string{"b", "d"} {
		oc := byTarget[id]
		assert.False(t, oc.Success, "target %s", id)
		assert.Empty(t, oc.Products, "target %s", id)
		assert.Contains(t, oc.Error, "connection refused", "target %s", id)
	}
}

func TestRunAllAllFailuresStillReturnsAllOutcomes(t *testing.T) {
	o := testOrchestrator(map[string]bool{"a": true, "b": true, "c": true, "d": true})

	outcomes := o.RunAll(context.Background(), testTargets(), "cap")
	require.Len(t, outcomes, 4)
	for _, oc := range outcomes {
		assert.False(t, oc.Success)
	}
}

func TestRunAllCarriesTargetPriority(t *testing.T) {
	o := testOrchestrator(nil)

	outcomes := o.RunAll(context.Background(), testTargets(), "cap")
	prios := map[string]int{}
	for _, oc := range outcomes {
		prios[oc.Target] = oc.Priority
	}
	assert.Equal(t, 10, prios["a"])
	assert.Equal(t, 2, prios["d"])
}

// countingFetcher fails every attempt and counts invocations.
type countingFetcher struct {
	calls int
}

func (f *countingFetcher) Fetch(ctx context.Context, target domain.Target, query string) ([]domain.RawListing, error) {
	f.calls++
	return nil, errors.New("always down")
}

func TestScrapeTargetRetriesBeforeFailing(t *testing.T) {
	f := &countingFetcher{}
	m := monitoring.NewMetricsWith(prometheus.NewRegistry())
	o := NewOrchestrator(f, f, m, zap.NewNop(), 3, time.Millisecond)

	outcome := o.scrapeTarget(context.Background(), domain.Target{ID: "x", Name: "x", BaseURL: "https://x.test"}, "cap")
	assert.False(t, outcome.Success)
	assert.Equal(t, 3, f.calls)
	assert.GreaterOrEqual(t, outcome.Elapsed, time.Duration(0))
}

func TestRunAllEmptyTargets(t *testing.T) {
	o := testOrchestrator(nil)
	outcomes := o.RunAll(context.Background(), nil, "cap")
	assert.Empty(t, outcomes)
}
