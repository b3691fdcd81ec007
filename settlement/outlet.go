package settlement

import (
	"cmp"
	"fmt"
	"slices"
	"sync"

	"github.com/sirupsen/logrus"

	"github.com/Ashenafi-pixel/gamecrafter-lotto/errs"
	"github.com/Ashenafi-pixel/gamecrafter-lotto/round"
	"github.com/Ashenafi-pixel/gamecrafter-lotto/ticket"
	"github.com/Ashenafi-pixel/gamecrafter-lotto/wager"
)

// Buyer pays for tickets and keeps the ones it bought.
type Buyer interface {
	// Pay debits amount and reports whether the buyer could afford it.
	Pay(amount int64) bool
	Keep(t *ticket.Ticket)
}

// Holder receives prize money and gives up a claimed ticket.
type Holder interface {
	Receive(amount int64)
	Forget(t *ticket.Ticket)
}

// Outlet sells tickets and pays their prizes. It is the only place that holds
// the record of a ticket it sold.
type Outlet struct {
	number int
	engine *Engine

	mu          sync.Mutex
	outstanding map[ticket.ID]*ticket.Ticket
	claimed     map[ticket.ID]*ticket.Ticket
}

func (o *Outlet) Number() int { return o.number }

func (o *Outlet) log() *logrus.Entry {
	return o.engine.log.WithField("outlet", o.number)
}

// Sell issues a ticket for slip if the buyer pays its price. When the buyer
// cannot pay nothing is issued and ok is false.
func (o *Outlet) Sell(buyer Buyer, slip wager.Slip) (t *ticket.Ticket, ok bool) {
	if slip.Draws() < 1 || len(slip.Bets()) == 0 {
		return nil, false
	}
	e := o.engine
	e.barrier.RLock()
	defer e.barrier.RUnlock()

	price := slip.PriceAt(e.rules.UnitPrice)
	if !buyer.Pay(price) {
		return nil, false
	}
	t = e.book(o.number, slip, price)

	o.mu.Lock()
	o.outstanding[t.ID()] = t
	o.mu.Unlock()

	buyer.Keep(t)
	o.log().WithFields(logrus.Fields{
		"ticket_id":  t.ID().String(),
		"first_draw": t.FirstDraw(),
		"price":      price,
	}).Debug("ticket sold")
	return t, true
}

// SellQuickPick sells a ticket of bets random wagers covering draws draws.
func (o *Outlet) SellQuickPick(buyer Buyer, bets, draws int) (*ticket.Ticket, bool, error) {
	picks, err := wager.RandomList(bets)
	if err != nil {
		return nil, false, err
	}
	slip, err := wager.NewSlip(picks, draws)
	if err != nil {
		return nil, false, err
	}
	t, ok := o.Sell(buyer, slip)
	return t, ok, nil
}

// Claim pays the holder every prize t has won in the draws executed so far and
// retires the ticket. Draws the ticket covers that have not run yet are
// forfeited. The ticket must carry a valid identity, have been sold here and
// not have been claimed before.
func (o *Outlet) Claim(holder Holder, t *ticket.Ticket) error {
	if t == nil {
		return fmt.Errorf("%w: no ticket presented", errs.ErrInvalidInput)
	}
	id := t.ID()
	if !id.Valid() {
		return fmt.Errorf("%w: ticket %s fails its checksum", errs.ErrUnauthorized, id)
	}
	e := o.engine
	e.barrier.RLock()
	defer e.barrier.RUnlock()

	o.mu.Lock()
	held, sold := o.outstanding[id]
	_, claimed := o.claimed[id]
	if id.Outlet != o.number || (!sold && !claimed) {
		o.mu.Unlock()
		return fmt.Errorf("%w: ticket %s at outlet %d", errs.ErrUnauthorized, id, o.number)
	}
	if claimed {
		o.mu.Unlock()
		return fmt.Errorf("%w: ticket %s", errs.ErrAlreadyClaimed, id)
	}

	last := min(held.LastDraw(), e.LastDraw())
	var total int64
	for n := held.FirstDraw(); n <= last; n++ {
		for _, bet := range held.Bets() {
			p, err := e.resolvePrize(bet, n)
			if err != nil {
				o.mu.Unlock()
				return fmt.Errorf("claim ticket %s: %w", id, err)
			}
			total += p.Net
		}
	}
	delete(o.outstanding, id)
	o.claimed[id] = held
	o.mu.Unlock()

	if total > 0 {
		holder.Receive(total)
	}
	holder.Forget(held)
	o.log().WithFields(logrus.Fields{"ticket_id": id.String(), "amount": total}).Debug("ticket claimed")
	return nil
}

// Lookup finds a ticket sold here by its full identity and reports whether it
// has been claimed.
func (o *Outlet) Lookup(id ticket.ID) (t *ticket.Ticket, claimed, ok bool) {
	o.mu.Lock()
	defer o.mu.Unlock()
	if t, ok = o.outstanding[id]; ok {
		return t, false, true
	}
	t, ok = o.claimed[id]
	return t, ok, ok
}

// Outstanding lists the sold, unclaimed tickets ordered by sequence number.
func (o *Outlet) Outstanding() []*ticket.Ticket {
	o.mu.Lock()
	defer o.mu.Unlock()
	return sortedTickets(o.outstanding)
}

// Claimed lists the claimed tickets ordered by sequence number.
func (o *Outlet) Claimed() []*ticket.Ticket {
	o.mu.Lock()
	defer o.mu.Unlock()
	return sortedTickets(o.claimed)
}

// tally counts every outstanding ticket's hits in d. Claimed tickets are
// retired and no longer count as winners. Only the engine calls it, while
// holding the barrier.
func (o *Outlet) tally(d *round.Draw) error {
	o.mu.Lock()
	defer o.mu.Unlock()
	for id, t := range o.outstanding {
		if err := t.CountHits(d); err != nil {
			return fmt.Errorf("outlet %d ticket %s: %w", o.number, id, err)
		}
	}
	return nil
}

func sortedTickets(m map[ticket.ID]*ticket.Ticket) []*ticket.Ticket {
	out := make([]*ticket.Ticket, 0, len(m))
	for _, t := range m {
		out = append(out, t)
	}
	slices.SortFunc(out, func(a, b *ticket.Ticket) int {
		return cmp.Compare(a.ID().Seq, b.ID().Seq)
	})
	return out
}
