package consolidate

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"merchfinder/internal/domain"
)

func product(name, source string, amount float64) domain.Product {
	return domain.Product{
		Name:         name,
		Source:       source,
		Price:        domain.Price{Amount: amount, Formatted: "x", Currency: "USD"},
		Availability: domain.InStock,
	}
}

func TestNormalizeKey(t *testing.T) {
	assert.Equal(t, "redbullcap", NormalizeKey("Red Bull Cap"))
	assert.Equal(t, "redbullcap", NormalizeKey("red bull cap!!"))
	assert.Equal(t, "f1tee2024", NormalizeKey("F1 Tee (2024)"))
	assert.Equal(t, "", NormalizeKey("!!!"))
}

func TestDeduplicateKeepsFirstPerKey(t *testing.T) {
	in := []domain.Product{
		product("Red Bull Cap", "A", 20),
		product("Ferrari Polo", "A", 55),
		product("red bull cap!!", "B", 18),
		product("Ferrari POLO", "C", 60),
	}

	out := Deduplicate(in)
	require.Len(t, out, 2)
	assert.Equal(t, "A", out[0].Source)
	assert.Equal(t, "A", out[1].Source)
}

func TestRankOrdersByScore(t *testing.T) {
	in := []domain.Product{
		product("Team Keyring", "A", 5),
		product("Red Bull Racing Cap", "A", 25),
		product("Red Bull Mug", "A", 12),
	}

	out := Rank(in, "red bull cap")
	assert.Equal(t, "Red Bull Racing Cap", out[0].Name)
	assert.Equal(t, "Red Bull Mug", out[1].Name)
	assert.Equal(t, "Team Keyring", out[2].Name)
}

func TestRankStableOnTies(t *testing.T) {
	in := []domain.Product{
		product("Alpha Poster", "A", 10),
		product("Bravo Poster", "A", 10),
		product("Charlie Poster", "A", 10),
	}

	out := Rank(in, "poster")
	assert.Equal(t, "Alpha Poster", out[0].Name)
	assert.Equal(t, "Bravo Poster", out[1].Name)
	assert.Equal(t, "Charlie Poster", out[2].Name)
}

func TestScoreIgnoresShortTokens(t *testing.T) {
	p := product("X Cap", "A", 10)
	// "x" is below the 2-char token floor; only "cap" counts: 3 (name)
	// + 1 (all fields) + 0.5 (in stock).
	assert.Equal(t, 4.5, Score(p, "x cap"))
}

func TestScoreAvailabilityBonus(t *testing.T) {
	inStock := product("Cap", "A", 10)
	outOfStock := product("Cap", "A", 10)
	outOfStock.Availability = domain.OutOfStock

	assert.Equal(t, Score(inStock, "cap")-0.5, Score(outOfStock, "cap"))
}

// End-to-end scenario: the higher-priority duplicate survives, the budget
// filter drops the jacket, the duplicate from B is gone.
func TestConsolidateScenario(t *testing.T) {
	outcomes := []domain.ScrapeOutcome{
		{
			Target: "B", Priority: 5, Success: true,
			Products: []domain.Product{product("red bull cap!!", "B", 18)},
		},
		{
			Target: "A", Priority: 10, Success: true,
			Products: []domain.Product{
				product("Red Bull Cap", "A", 20),
				product("Red Bull Jacket", "A", 80),
			},
		},
	}

	got, total := Consolidate(outcomes, Options{
		Query:       "red bull cap",
		Intent:      domain.Intent{Team: "Red Bull", Budget: 50},
		ApplyFilter: true,
		MaxResults:  10,
	})

	require.Len(t, got, 1)
	assert.Equal(t, 1, total)
	assert.Equal(t, "Red Bull Cap", got[0].Name)
	assert.Equal(t, "A", got[0].Source)
}

func TestConsolidateBypassedFilterStillDedupesAndRanks(t *testing.T) {
	outcomes := []domain.ScrapeOutcome{
		{Target: "B", Priority: 1, Success: true, Products: []domain.Product{
			product("Red Bull Cap", "B", 18),
			product("Unrelated Umbrella", "B", 5),
		}},
		{Target: "A", Priority: 9, Success: true, Products: []domain.Product{
			product("RED BULL CAP", "A", 20),
		}},
	}

	got, total := Consolidate(outcomes, Options{Query: "red bull cap", MaxResults: 10})
	require.Len(t, got, 2)
	assert.Equal(t, 2, total)
	// Higher-priority A wins the duplicate, relevance puts it first.
	assert.Equal(t, "A", got[0].Source)
	assert.Equal(t, "Unrelated Umbrella", got[1].Name)
}

func TestConsolidateSkipsFailedOutcomes(t *testing.T) {
	outcomes := []domain.ScrapeOutcome{
		{Target: "A", Priority: 9, Success: false, Error: "timeout"},
		{Target: "B", Priority: 1, Success: true, Products: []domain.Product{product("Cap", "B", 10)}},
	}

	got, total := Consolidate(outcomes, Options{Query: "cap"})
	require.Len(t, got, 1)
	assert.Equal(t, 1, total)
	assert.Equal(t, "B", got[0].Source)
}

func TestConsolidateTruncationReportsTotal(t *testing.T) {
	var products []domain.Product
	names := []string{"Cap One", "Cap Two", "Cap Three", "Cap Four", "Cap Five"}
	for _, n := range names {
		products = append(products, product(n, "A", 10))
	}
	outcomes := []domain.ScrapeOutcome{{Target: "A", Priority: 1, Success: true, Products: products}}

	got, total := Consolidate(outcomes, Options{Query: "cap", MaxResults: 2})
	assert.Len(t, got, 2)
	assert.Equal(t, 5, total)
}

func TestFilterBudgetAllowsUnparsedPrice(t *testing.T) {
	unpriced := product("Red Bull Cap Special", "A", 0)
	outcomes := []domain.ScrapeOutcome{{Target: "A", Priority: 1, Success: true,
		Products: []domain.Product{unpriced}}}

	got, _ := Consolidate(outcomes, Options{
		Query:       "red bull cap",
		Intent:      domain.Intent{Budget: 10},
		ApplyFilter: true,
	})
	assert.Len(t, got, 1)
}

func TestItemSynonymMatching(t *testing.T) {
	assert.True(t, itemMatches("red bull team jacket", "clothing"))
	assert.True(t, itemMatches("verstappen polo 2024", "clothing"))
	assert.True(t, itemMatches("mclaren beanie", "headwear"))
	assert.False(t, itemMatches("red bull mug", "clothing"))
}
