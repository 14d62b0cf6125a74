package fetch

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"merchfinder/internal/domain"
)

// fakePager scripts the presence of the load-more control per attempt.
type fakePager struct {
	present    []bool
	clickCalls int
	count      int
	countErr   error
}

func (p *fakePager) ClickLoadMore(ctx context.Context) (bool, error) {
	idx := p.clickCalls
	p.clickCalls++
	if idx >= len(p.present) {
		return false, nil
	}
	return p.present[idx], nil
}

func (p *fakePager) ProductCount(ctx context.Context) (int, error) {
	return p.count, p.countErr
}

func TestTraverseStopsWhenControlDisappears(t *testing.T) {
	// Control present on attempts 1-3, absent on attempt 4.
	p := &fakePager{present: []bool{true, true, true, false}}

	clicks, err := TraverseLoadMore(context.Background(), p, 5, 100, time.Millisecond)
	require.NoError(t, err)
	assert.Equal(t, 3, clicks)
	assert.Equal(t, 4, p.clickCalls)
}

func TestTraverseHonorsAttemptCeiling(t *testing.T) {
	p := &fakePager{present: []bool{true, true, true, true, true, true, true}}

	clicks, err := TraverseLoadMore(context.Background(), p, 5, 100, time.Millisecond)
	require.NoError(t, err)
	assert.Equal(t, 5, clicks)
}

func TestTraverseHonorsProductCeiling(t *testing.T) {
	p := &fakePager{present: []bool{true, true, true}, count: 42}

	clicks, err := TraverseLoadMore(context.Background(), p, 5, 42, time.Millisecond)
	require.NoError(t, err)
	assert.Equal(t, 0, clicks)
	assert.Equal(t, 0, p.clickCalls)
}

func TestTraversePropagatesPagerErrors(t *testing.T) {
	boom := errors.New("tab crashed")
	p := &fakePager{countErr: boom}

	_, err := TraverseLoadMore(context.Background(), p, 5, 42, time.Millisecond)
	assert.ErrorIs(t, err, boom)
}

func TestTraverseStopsOnContextCancel(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())
	cancel()
	p := &fakePager{present: []bool{true, true}}

	clicks, err := TraverseLoadMore(ctx, p, 5, 100, time.Hour)
	assert.ErrorIs(t, err, context.Canceled)
	assert.Equal(t, 1, clicks)
}

func TestLoadMoreLocatorOrder(t *testing.T) {
	rules := domain.ExtractionRules{LoadMore: "button.load-more"}

	require.Len(t, loadMoreLocators, 3)
	assert.Contains(t, loadMoreLocators[0].expr(rules), "button.load-more")
	assert.Contains(t, loadMoreLocators[1].expr(rules), `class*=`)
	assert.Contains(t, loadMoreLocators[2].expr(rules), "load more|show more")

	// Without a configured selector the exact strategy is a no-op.
	assert.Equal(t, "false", loadMoreLocators[0].expr(domain.ExtractionRules{}))
}
