package wager

import (
	"fmt"

	"github.com/Ashenafi-pixel/gamecrafter-lotto/errs"
)

// Slip limits and the reference price of one bet for one draw, in cents.
const (
	MaxBets  = 8
	MaxDraws = 10
	BetPrice = 3_00
)

// Slip is an immutable bundle of valid wagers played over a number of
// consecutive draws.
type Slip struct {
	bets  []Wager
	draws int
}

// NewSlip keeps the valid candidates, in order, and drops the rest. It fails
// when no valid wager remains, when more than MaxBets remain, or when draws is
// outside [1, MaxDraws].
func NewSlip(candidates []Wager, draws int) (Slip, error) {
	bets := make([]Wager, 0, len(candidates))
	for _, w := range candidates {
		if w.Valid() {
			bets = append(bets, w)
		}
	}
	if len(bets) == 0 {
		return Slip{}, fmt.Errorf("%w: slip has no valid bet", errs.ErrInvalidInput)
	}
	if len(bets) > MaxBets {
		return Slip{}, fmt.Errorf("%w: slip has %d bets, limit is %d", errs.ErrInvalidInput, len(bets), MaxBets)
	}
	if draws < 1 || draws > MaxDraws {
		return Slip{}, fmt.Errorf("%w: draw count %d outside [1, %d]", errs.ErrInvalidInput, draws, MaxDraws)
	}
	return Slip{bets: bets, draws: draws}, nil
}

// Bets returns a copy of the slip's wagers in insertion order.
func (s Slip) Bets() []Wager {
	out := make([]Wager, len(s.bets))
	copy(out, s.bets)
	return out
}

// Draws is the number of consecutive draws the slip covers.
func (s Slip) Draws() int { return s.draws }

// Price at the reference bet price.
func (s Slip) Price() int64 { return s.PriceAt(BetPrice) }

// PriceAt is bets × draws × unit.
func (s Slip) PriceAt(unit int64) int64 {
	return int64(len(s.bets)) * int64(s.draws) * unit
}

func (s Slip) String() string {
	return fmt.Sprintf("%d bets x %d draws", len(s.bets), s.draws)
}
