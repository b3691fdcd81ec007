// Package player simulates lottery customers: a wallet, the tickets they hold
// and the strategy that decides what they buy each time step.
package player

import (
	"cmp"
	"errors"
	"fmt"
	"slices"
	"sync"

	"github.com/Ashenafi-pixel/gamecrafter-lotto/errs"
	"github.com/Ashenafi-pixel/gamecrafter-lotto/settlement"
	"github.com/Ashenafi-pixel/gamecrafter-lotto/ticket"
)

// Market is the part of the engine a player deals with.
type Market interface {
	Outlets() []*settlement.Outlet
	Outlet(number int) (*settlement.Outlet, bool)
	LastDraw() int
}

// Strategy decides what a player buys in one time step.
type Strategy interface {
	Name() string
	Buy(p *Player, m Market) error
}

// Player is a settlement.Buyer and settlement.Holder.
type Player struct {
	Persona  Persona
	strategy Strategy

	mu      sync.Mutex
	balance int64
	held    map[ticket.ID]*ticket.Ticket
}

// New returns a player with a starting balance in cents.
func New(persona Persona, balance int64, strategy Strategy) (*Player, error) {
	if balance < 0 {
		return nil, fmt.Errorf("%w: negative starting balance %d", errs.ErrInvalidInput, balance)
	}
	if strategy == nil {
		return nil, fmt.Errorf("%w: player needs a strategy", errs.ErrInvalidInput)
	}
	return &Player{
		Persona:  persona,
		strategy: strategy,
		balance:  balance,
		held:     make(map[ticket.ID]*ticket.Ticket),
	}, nil
}

func (p *Player) Strategy() string { return p.strategy.Name() }

func (p *Player) Balance() int64 {
	p.mu.Lock()
	defer p.mu.Unlock()
	return p.balance
}

// Pay debits amount if the player can afford it. Non-positive amounts are refused.
func (p *Player) Pay(amount int64) bool {
	if amount <= 0 {
		return false
	}
	p.mu.Lock()
	defer p.mu.Unlock()
	if amount > p.balance {
		return false
	}
	p.balance -= amount
	return true
}

func (p *Player) Receive(amount int64) {
	if amount <= 0 {
		return
	}
	p.mu.Lock()
	p.balance += amount
	p.mu.Unlock()
}

func (p *Player) Keep(t *ticket.Ticket) {
	p.mu.Lock()
	p.held[t.ID()] = t
	p.mu.Unlock()
}

func (p *Player) Forget(t *ticket.Ticket) {
	p.mu.Lock()
	delete(p.held, t.ID())
	p.mu.Unlock()
}

// Tickets lists the held tickets ordered by sequence number.
func (p *Player) Tickets() []*ticket.Ticket {
	p.mu.Lock()
	defer p.mu.Unlock()
	out := make([]*ticket.Ticket, 0, len(p.held))
	for _, t := range p.held {
		out = append(out, t)
	}
	slices.SortFunc(out, func(a, b *ticket.Ticket) int {
		return cmp.Compare(a.ID().Seq, b.ID().Seq)
	})
	return out
}

// Buy lets the player's strategy shop once.
func (p *Player) Buy(m Market) error {
	return p.strategy.Buy(p, m)
}

// CollectAll claims every held ticket, finished or not.
func (p *Player) CollectAll(m Market) error {
	return p.collect(m, p.Tickets())
}

// CollectFinished claims the held tickets whose draws have all executed.
func (p *Player) CollectFinished(m Market) error {
	last := m.LastDraw()
	var done []*ticket.Ticket
	for _, t := range p.Tickets() {
		if t.AllDrawsDone(last) {
			done = append(done, t)
		}
	}
	return p.collect(m, done)
}

func (p *Player) collect(m Market, tickets []*ticket.Ticket) error {
	var errList []error
	for _, t := range tickets {
		o, ok := m.Outlet(t.ID().Outlet)
		if !ok {
			errList = append(errList, fmt.Errorf("%w: ticket %s names unknown outlet", errs.ErrUnauthorized, t.ID()))
			continue
		}
		if err := o.Claim(p, t); err != nil {
			errList = append(errList, err)
		}
	}
	return errors.Join(errList...)
}

// allDone reports whether every held ticket has finished.
func (p *Player) allDone(lastDraw int) bool {
	p.mu.Lock()
	defer p.mu.Unlock()
	for _, t := range p.held {
		if !t.AllDrawsDone(lastDraw) {
			return false
		}
	}
	return true
}

func (p *Player) String() string {
	return fmt.Sprintf("%s [%s]", p.Persona, p.strategy.Name())
}
