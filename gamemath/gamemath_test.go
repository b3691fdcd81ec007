package gamemath

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/Ashenafi-pixel/gamecrafter-lotto/errs"
)

func TestGradeForHits(t *testing.T) {
	want := map[int]int{6: 1, 5: 2, 4: 3, 3: 4}
	for hits, grade := range want {
		got, ok := GradeForHits(hits)
		require.True(t, ok, "hits %d", hits)
		assert.Equal(t, grade, got, "hits %d", hits)
	}
	for _, hits := range []int{-1, 0, 1, 2, 7} {
		_, ok := GradeForHits(hits)
		assert.False(t, ok, "hits %d", hits)
	}
	for _, g := range PrizeTable {
		got, ok := GradeForHits(g.Hits)
		require.True(t, ok)
		assert.Equal(t, g.Grade, got)
	}
}

func TestDefaultRules_Valid(t *testing.T) {
	require.NoError(t, DefaultRules().Validate())
}

func TestRules_ValidateRejects(t *testing.T) {
	tests := []struct {
		name   string
		mutate func(*Rules)
	}{
		{"zero unit price", func(r *Rules) { r.UnitPrice = 0 }},
		{"negative grade 4 prize", func(r *Rules) { r.Grade4Prize = -1 }},
		{"zero threshold", func(r *Rules) { r.TaxThreshold = 0 }},
		{"sales tax over 100", func(r *Rules) { r.SalesTaxPct = 101 }},
		{"negative share", func(r *Rules) { r.PrizeSharePct = -5 }},
		{"grade shares over 100", func(r *Rules) { r.Grade1Pct, r.Grade2Pct = 90, 20 }},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			r := DefaultRules()
			tt.mutate(&r)
			assert.ErrorIs(t, r.Validate(), errs.ErrInvalidInput)
		})
	}
}

func TestRules_SplitSale(t *testing.T) {
	r := DefaultRules()
	net, tax := r.SplitSale(1000 * 8 * 3 * 300)
	assert.Equal(t, int64(5_760_000), net)
	assert.Equal(t, int64(1_440_000), tax)

	net, tax = r.SplitSale(7)
	assert.Equal(t, int64(5), net)
	assert.Equal(t, int64(1), tax)

	net, tax = r.SplitSale(301)
	assert.Equal(t, int64(240), net)
	assert.Equal(t, int64(60), tax)
}

func TestRules_Pools(t *testing.T) {
	r := DefaultRules()
	budget := int64(1_000_000_000_00)
	winners := Winners{1, 10, 100, 1000}

	pools := r.Pools(budget, winners, 500)
	assert.Equal(t, budget*44/100+500, pools[0])
	assert.Equal(t, budget*8/100, pools[1])
	assert.Equal(t, int64(24_00*1000), pools[3])
	assert.Equal(t, budget-budget*44/100-budget*8/100-24_00*1000, pools[2])
}

func TestRules_PoolsMinimums(t *testing.T) {
	r := DefaultRules()
	// A small budget: grade 1 is floored, grade 3 is floored per winner.
	budget := int64(10_000_00)
	winners := Winners{0, 0, 5, 2}
	pools := r.Pools(budget, winners, 7_00)

	assert.Equal(t, r.MinGrade1Pool+7_00, pools[0])
	assert.Equal(t, budget*8/100, pools[1])
	assert.Equal(t, 2*r.Grade4Prize, pools[3])
	// The remainder uses the unfloored grade 1 share.
	remainder := budget - budget*44/100 - budget*8/100 - 2*r.Grade4Prize
	assert.Equal(t, max(remainder, 5*r.MinGrade3Prize), pools[2])
}

func TestRules_PoolsGrade3UsesUnclampedShare(t *testing.T) {
	r := DefaultRules()
	budget := int64(100_000_00)
	pools := r.Pools(budget, Winners{}, 0)
	// Grade 1 is clamped up to the minimum, yet grade 3 still gets 48% of the budget.
	assert.Equal(t, r.MinGrade1Pool, pools[0])
	assert.Equal(t, budget-budget*44/100-budget*8/100, pools[2])
}

func TestPrizes(t *testing.T) {
	pools := Vector{1_000, 800, 300, 240}

	prizes, rollover := Prizes(pools, Winners{0, 3, 0, 7})
	assert.Equal(t, int64(1_000), rollover)
	assert.Equal(t, Vector{0, 266, 0, 34}, prizes)

	prizes, rollover = Prizes(pools, Winners{3, 0, 2, 0})
	assert.Zero(t, rollover)
	assert.Equal(t, Vector{333, 0, 150, 0}, prizes)
}

func TestRules_TaxPrize(t *testing.T) {
	r := DefaultRules()

	net, tax := r.TaxPrize(r.TaxThreshold)
	assert.Equal(t, r.TaxThreshold*9/10, net)
	assert.Equal(t, r.TaxThreshold/10, tax)

	net, tax = r.TaxPrize(r.TaxThreshold - 1)
	assert.Equal(t, r.TaxThreshold-1, net)
	assert.Zero(t, tax)

	net, tax = r.TaxPrize(2_280_05)
	assert.Equal(t, int64(2_052_04), net)
	assert.Equal(t, int64(228_00), tax)

	net, tax = r.TaxPrize(0)
	assert.Zero(t, net)
	assert.Zero(t, tax)
}
