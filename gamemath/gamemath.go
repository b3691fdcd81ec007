// Package gamemath holds the lottery's money rules: how revenue becomes a prize
// budget, how the budget is split into grade pools, how pools become per-winner
// prizes, and how sales and prizes are taxed. All amounts are integer cents and
// every division floors.
package gamemath

import (
	"fmt"

	"github.com/Ashenafi-pixel/gamecrafter-lotto/errs"
)

// Grades is the number of prize grades. Grade 1 is six hits, grade 4 three hits.
const Grades = 4

// MinHits is the fewest hits that win anything.
const MinHits = 3

// Vector holds one value per grade; index 0 is grade 1.
type Vector [Grades]int64

// Winners holds the winner count per grade; index 0 is grade 1.
type Winners [Grades]int

// Grade describes one prize tier for reports.
type Grade struct {
	Grade int    `json:"grade" yaml:"grade"`
	Name  string `json:"name" yaml:"name"`
	Hits  int    `json:"hits" yaml:"hits"`
}

// PrizeTable lists the grades from best to worst.
var PrizeTable = [Grades]Grade{
	{Grade: 1, Name: "I", Hits: 6},
	{Grade: 2, Name: "II", Hits: 5},
	{Grade: 3, Name: "III", Hits: 4},
	{Grade: 4, Name: "IV", Hits: 3},
}

// GradeForHits maps a hit count to its grade (6→1, 5→2, 4→3, 3→4).
// ok is false for fewer than MinHits hits or more than six.
func GradeForHits(hits int) (grade int, ok bool) {
	if hits < MinHits || hits > 6 {
		return 0, false
	}
	return 7 - hits, true
}

// Rules are the monetary parameters of the game.
type Rules struct {
	UnitPrice      int64 `json:"unit_price" yaml:"unit_price"`             // price of one bet for one draw
	SalesTaxPct    int64 `json:"sales_tax_pct" yaml:"sales_tax_pct"`       // remitted to the treasury on every sale
	PrizeSharePct  int64 `json:"prize_share_pct" yaml:"prize_share_pct"`   // share of a draw's revenue paid out
	Grade1Pct      int64 `json:"grade1_pct" yaml:"grade1_pct"`             // share of the budget for grade 1
	Grade2Pct      int64 `json:"grade2_pct" yaml:"grade2_pct"`             // share of the budget for grade 2
	MinGrade1Pool  int64 `json:"min_grade1_pool" yaml:"min_grade1_pool"`   // floor of the grade 1 pool before rollover
	Grade4Prize    int64 `json:"grade4_prize" yaml:"grade4_prize"`         // fixed prize per grade 4 winner
	MinGrade3Prize int64 `json:"min_grade3_prize" yaml:"min_grade3_prize"` // floor of the grade 3 prize per winner
	TaxThreshold   int64 `json:"tax_threshold" yaml:"tax_threshold"`       // prizes at or above this are taxed
	PrizeTaxPct    int64 `json:"prize_tax_pct" yaml:"prize_tax_pct"`
}

// DefaultRules are the reference rules of the national draw.
func DefaultRules() Rules {
	return Rules{
		UnitPrice:      3_00,
		SalesTaxPct:    20,
		PrizeSharePct:  51,
		Grade1Pct:      44,
		Grade2Pct:      8,
		MinGrade1Pool:  2_000_000_00,
		Grade4Prize:    24_00,
		MinGrade3Prize: 36_00,
		TaxThreshold:   2_280_00,
		PrizeTaxPct:    10,
	}
}

// Validate rejects non-positive amounts and percentages outside [0, 100].
func (r Rules) Validate() error {
	positive := []struct {
		name string
		v    int64
	}{
		{"unit_price", r.UnitPrice},
		{"min_grade1_pool", r.MinGrade1Pool},
		{"grade4_prize", r.Grade4Prize},
		{"min_grade3_prize", r.MinGrade3Prize},
		{"tax_threshold", r.TaxThreshold},
	}
	for _, p := range positive {
		if p.v <= 0 {
			return fmt.Errorf("%w: %s must be > 0, got %d", errs.ErrInvalidInput, p.name, p.v)
		}
	}
	pcts := []struct {
		name string
		v    int64
	}{
		{"sales_tax_pct", r.SalesTaxPct},
		{"prize_share_pct", r.PrizeSharePct},
		{"grade1_pct", r.Grade1Pct},
		{"grade2_pct", r.Grade2Pct},
		{"prize_tax_pct", r.PrizeTaxPct},
	}
	for _, p := range pcts {
		if p.v < 0 || p.v > 100 {
			return fmt.Errorf("%w: %s must be within [0, 100], got %d", errs.ErrInvalidInput, p.name, p.v)
		}
	}
	if r.Grade1Pct+r.Grade2Pct > 100 {
		return fmt.Errorf("%w: grade1_pct + grade2_pct exceeds 100", errs.ErrInvalidInput)
	}
	return nil
}

// SplitSale divides a ticket price into the operator's net revenue and the
// sales tax owed to the treasury. Both shares are floored independently, so a
// cent may belong to neither.
func (r Rules) SplitSale(price int64) (net, tax int64) {
	return price * (100 - r.SalesTaxPct) / 100, price * r.SalesTaxPct / 100
}

// Budget is the prize money drawn from one draw's revenue.
func (r Rules) Budget(revenue int64) int64 {
	return revenue * r.PrizeSharePct / 100
}

// Pools splits a budget into grade pools. The grade 1 pool is floored at
// MinGrade1Pool and then topped up with the rollover. Grade 3 receives what
// remains after the unfloored grade 1 share, grade 2 and grade 4, but never less
// than MinGrade3Prize per grade 3 winner.
func (r Rules) Pools(budget int64, winners Winners, rollover int64) Vector {
	var pools Vector
	grade1Share := budget * r.Grade1Pct / 100
	pools[0] = max(grade1Share, r.MinGrade1Pool) + rollover
	pools[1] = budget * r.Grade2Pct / 100
	pools[3] = r.Grade4Prize * int64(winners[3])
	remainder := budget - grade1Share - pools[1] - pools[3]
	pools[2] = max(remainder, r.MinGrade3Prize*int64(winners[2]))
	return pools
}

// Prizes divides each pool among its winners. With no grade 1 winner the whole
// grade 1 pool is returned as the next rollover; otherwise rollover is zero.
// Pools of other grades without winners are not paid and not carried.
func Prizes(pools Vector, winners Winners) (prizes Vector, rollover int64) {
	if winners[0] == 0 {
		rollover = pools[0]
	} else {
		prizes[0] = pools[0] / int64(winners[0])
	}
	for i := 1; i < Grades; i++ {
		if winners[i] != 0 {
			prizes[i] = pools[i] / int64(winners[i])
		}
	}
	return prizes, rollover
}

// TaxPrize splits a gross prize into what the player receives and the tax owed.
// Prizes below TaxThreshold are paid in full. Above it both shares are floored
// independently, like SplitSale.
func (r Rules) TaxPrize(gross int64) (net, tax int64) {
	if gross < r.TaxThreshold {
		return gross, 0
	}
	return gross * (100 - r.PrizeTaxPct) / 100, gross * r.PrizeTaxPct / 100
}
