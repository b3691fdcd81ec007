// Package ticket holds issued lottery tickets: a purchased slip bound to the
// outlet that sold it and to the first draw it covers.
package ticket

import (
	"sync"

	"github.com/Ashenafi-pixel/gamecrafter-lotto/gamemath"
	"github.com/Ashenafi-pixel/gamecrafter-lotto/round"
	"github.com/Ashenafi-pixel/gamecrafter-lotto/wager"
)

// Ticket is immutable apart from its tally watermark. Its ID identifies it.
type Ticket struct {
	id        ID
	firstDraw int
	drawCount int
	price     int64
	bets      []wager.Wager

	mu      sync.Mutex
	counted int // highest draw number already tallied
}

// New issues a ticket for slip starting at firstDraw. The bets are copied.
func New(id ID, firstDraw int, slip wager.Slip, price int64) *Ticket {
	return &Ticket{
		id:        id,
		firstDraw: firstDraw,
		drawCount: slip.Draws(),
		price:     price,
		bets:      slip.Bets(),
		counted:   firstDraw - 1,
	}
}

func (t *Ticket) ID() ID { return t.id }

func (t *Ticket) FirstDraw() int { return t.firstDraw }

func (t *Ticket) DrawCount() int { return t.drawCount }

// LastDraw is the number of the last draw the ticket covers.
func (t *Ticket) LastDraw() int { return t.firstDraw + t.drawCount - 1 }

// Price paid for the ticket, in cents.
func (t *Ticket) Price() int64 { return t.price }

// Bets returns a copy of the ticket's wagers.
func (t *Ticket) Bets() []wager.Wager {
	out := make([]wager.Wager, len(t.bets))
	copy(out, t.bets)
	return out
}

// Covers reports whether draw number n is one of the ticket's draws.
func (t *Ticket) Covers(n int) bool {
	return n >= t.firstDraw && n <= t.LastDraw()
}

// CountHits registers every winning bet of the ticket in d. Draws outside the
// covered range are ignored, and a draw is counted at most once per ticket.
func (t *Ticket) CountHits(d *round.Draw) error {
	n := d.Number()
	if !t.Covers(n) {
		return nil
	}
	t.mu.Lock()
	defer t.mu.Unlock()
	if n <= t.counted {
		return nil
	}
	winning := d.Winning()
	for _, bet := range t.bets {
		grade, ok := gamemath.GradeForHits(bet.HitCount(winning))
		if !ok {
			continue
		}
		if err := d.RegisterHit(grade); err != nil {
			return err
		}
	}
	t.counted = n
	return nil
}

// AllDrawsDone reports whether every covered draw has executed, given the
// number of the last executed draw.
func (t *Ticket) AllDrawsDone(lastExecuted int) bool {
	return t.LastDraw() <= lastExecuted
}
