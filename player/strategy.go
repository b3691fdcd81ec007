package player

import (
	"fmt"
	"math/rand/v2"

	"github.com/Ashenafi-pixel/gamecrafter-lotto/errs"
	"github.com/Ashenafi-pixel/gamecrafter-lotto/settlement"
	"github.com/Ashenafi-pixel/gamecrafter-lotto/wager"
)

// MaxTicketsPerStep bounds the random strategy's purchases per time step.
const MaxTicketsPerStep = 100

// Random buys 1 to MaxTicketsPerStep quick picks of random shape at a random outlet.
type Random struct {
	rng *rand.Rand
}

func NewRandom(rng *rand.Rand) *Random { return &Random{rng: rng} }

func (*Random) Name() string { return "random" }

func (s *Random) Buy(p *Player, m Market) error {
	outlets := m.Outlets()
	if len(outlets) == 0 {
		return nil
	}
	o := outlets[s.rng.IntN(len(outlets))]
	n := s.rng.IntN(MaxTicketsPerStep) + 1
	for i := 0; i < n; i++ {
		bets := s.rng.IntN(wager.MaxBets) + 1
		draws := s.rng.IntN(wager.MaxDraws) + 1
		if _, _, err := o.SellQuickPick(p, bets, draws); err != nil {
			return err
		}
	}
	return nil
}

// Minimalist buys one single-bet, single-draw quick pick at its favourite outlet.
type Minimalist struct {
	favourite *settlement.Outlet
}

func NewMinimalist(favourite *settlement.Outlet) (*Minimalist, error) {
	if favourite == nil {
		return nil, fmt.Errorf("%w: minimalist needs a favourite outlet", errs.ErrInvalidInput)
	}
	return &Minimalist{favourite: favourite}, nil
}

func (*Minimalist) Name() string { return "minimalist" }

func (s *Minimalist) Buy(p *Player, _ Market) error {
	_, _, err := s.favourite.SellQuickPick(p, 1, 1)
	return err
}

// rotation cycles through a player's favourite outlets.
type rotation struct {
	outlets []*settlement.Outlet
	next    int
}

func newRotation(outlets []*settlement.Outlet) (rotation, error) {
	if len(outlets) == 0 {
		return rotation{}, fmt.Errorf("%w: at least one favourite outlet is required", errs.ErrInvalidInput)
	}
	return rotation{outlets: append([]*settlement.Outlet(nil), outlets...)}, nil
}

func (r *rotation) outlet() *settlement.Outlet {
	o := r.outlets[r.next%len(r.outlets)]
	r.next = (r.next + 1) % len(r.outlets)
	return o
}

// SameNumbers plays one favourite wager on a ten-draw slip, buying again only
// once every ticket it holds has finished.
type SameNumbers struct {
	slip wager.Slip
	rotation
}

func NewSameNumbers(favourite wager.Wager, outlets []*settlement.Outlet) (*SameNumbers, error) {
	slip, err := wager.NewSlip([]wager.Wager{favourite}, wager.MaxDraws)
	if err != nil {
		return nil, err
	}
	r, err := newRotation(outlets)
	if err != nil {
		return nil, err
	}
	return &SameNumbers{slip: slip, rotation: r}, nil
}

func (*SameNumbers) Name() string { return "same-numbers" }

func (s *SameNumbers) Buy(p *Player, m Market) error {
	if !p.allDone(m.LastDraw()) {
		return nil
	}
	s.outlet().Sell(p, s.slip)
	return nil
}

// SameSlip buys the same slip every delay draws, rotating outlets.
type SameSlip struct {
	slip    wager.Slip
	delay   int
	last    int
	started bool
	rotation
}

func NewSameSlip(slip wager.Slip, outlets []*settlement.Outlet, delay int) (*SameSlip, error) {
	if delay < 1 {
		return nil, fmt.Errorf("%w: purchase delay must be at least 1, got %d", errs.ErrInvalidInput, delay)
	}
	if len(slip.Bets()) == 0 {
		return nil, fmt.Errorf("%w: empty slip", errs.ErrInvalidInput)
	}
	r, err := newRotation(outlets)
	if err != nil {
		return nil, err
	}
	return &SameSlip{slip: slip, delay: delay, rotation: r}, nil
}

func (*SameSlip) Name() string { return "same-slip" }

func (s *SameSlip) Buy(p *Player, m Market) error {
	current := m.LastDraw()
	if s.started && current-s.last < s.delay {
		return nil
	}
	s.started = true
	s.last = current
	s.outlet().Sell(p, s.slip)
	return nil
}
