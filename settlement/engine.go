// Package settlement is the lottery's headquarters: it books ticket sales,
// executes draws, allocates prize pools and pays prizes through the outlets.
//
// Draw execution is a barrier. Sales and claims hold the engine's barrier for
// reading while a draw holds it for writing, so no ticket is sold, claimed or
// tallied half-way through a draw. Locks are always taken in the order
// barrier, outlet, ledger, treasury.
package settlement

import (
	"context"
	"fmt"
	"slices"
	"sync"
	"time"

	"github.com/google/uuid"
	"github.com/sirupsen/logrus"
	"golang.org/x/sync/errgroup"

	"github.com/Ashenafi-pixel/gamecrafter-lotto/errs"
	"github.com/Ashenafi-pixel/gamecrafter-lotto/gamemath"
	"github.com/Ashenafi-pixel/gamecrafter-lotto/metrics"
	"github.com/Ashenafi-pixel/gamecrafter-lotto/round"
	"github.com/Ashenafi-pixel/gamecrafter-lotto/ticket"
	"github.com/Ashenafi-pixel/gamecrafter-lotto/treasury"
	"github.com/Ashenafi-pixel/gamecrafter-lotto/wager"
)

// Horizon is how many future draws the revenue buffer tracks. A ticket never
// covers more draws than this.
const Horizon = wager.MaxDraws

// Payout is the outcome of resolving one bet against one draw.
type Payout struct {
	Draw    int   `json:"draw"`
	Grade   int   `json:"grade"`   // 0 when the bet did not win
	Gross   int64 `json:"gross"`   // prize before tax
	Tax     int64 `json:"tax"`     // remitted to the treasury
	Net     int64 `json:"net"`     // paid to the holder
	Subsidy int64 `json:"subsidy"` // treasury money needed to cover the prize
}

// Option configures an Engine.
type Option func(*Engine)

// WithSource replaces the random draw machine.
func WithSource(source func() wager.Wager) Option {
	return func(e *Engine) { e.source = source }
}

func WithLogger(log *logrus.Entry) Option {
	return func(e *Engine) { e.log = log }
}

func WithMetrics(m *metrics.Metrics) Option {
	return func(e *Engine) { e.metrics = m }
}

// WithArchive sends every finalized draw to a.
func WithArchive(a round.Archive) Option {
	return func(e *Engine) { e.archive = a }
}

// WithRunID overrides the generated run identifier stamped on archived draws.
func WithRunID(id string) Option {
	return func(e *Engine) { e.runID = id }
}

func WithClock(now func() time.Time) Option {
	return func(e *Engine) { e.now = now }
}

// Engine owns the draw history and the operator's ledger.
type Engine struct {
	rules    gamemath.Rules
	treasury *treasury.Treasury
	source   func() wager.Wager
	log      *logrus.Entry
	metrics  *metrics.Metrics
	archive  round.Archive
	runID    string
	now      func() time.Time

	barrier sync.RWMutex

	mu         sync.Mutex
	balance    int64
	rollover   int64
	pending    [Horizon]int64 // net revenue per future draw, keyed by draw number mod Horizon
	lastDraw   int
	lastTicket int
	lastOutlet int
	history    []*round.Draw
	results    []round.Result
	outlets    []*Outlet
}

// New builds an engine that settles with rules and remits taxes to tr.
func New(rules gamemath.Rules, tr *treasury.Treasury, opts ...Option) (*Engine, error) {
	if err := rules.Validate(); err != nil {
		return nil, err
	}
	if tr == nil {
		return nil, fmt.Errorf("%w: treasury is required", errs.ErrInvalidInput)
	}
	e := &Engine{
		rules:    rules,
		treasury: tr,
		source:   wager.Random,
		now:      time.Now,
	}
	for _, opt := range opts {
		opt(e)
	}
	if e.log == nil {
		e.log = logrus.NewEntry(logrus.StandardLogger())
	}
	if e.runID == "" {
		e.runID = uuid.New().String()
	}
	e.log = e.log.WithFields(logrus.Fields{"component": "settlement", "run_id": e.runID})
	return e, nil
}

func (e *Engine) Rules() gamemath.Rules { return e.rules }

func (e *Engine) Treasury() *treasury.Treasury { return e.treasury }

func (e *Engine) RunID() string { return e.runID }

// NewOutlet opens the next numbered outlet.
func (e *Engine) NewOutlet() *Outlet {
	e.mu.Lock()
	defer e.mu.Unlock()
	e.lastOutlet++
	o := &Outlet{
		number:      e.lastOutlet,
		engine:      e,
		outstanding: make(map[ticket.ID]*ticket.Ticket),
		claimed:     make(map[ticket.ID]*ticket.Ticket),
	}
	e.outlets = append(e.outlets, o)
	return o
}

// Outlets lists the outlets in opening order.
func (e *Engine) Outlets() []*Outlet {
	e.mu.Lock()
	defer e.mu.Unlock()
	return slices.Clone(e.outlets)
}

// Outlet finds an outlet by number.
func (e *Engine) Outlet(number int) (*Outlet, bool) {
	e.mu.Lock()
	defer e.mu.Unlock()
	if number < 1 || number > len(e.outlets) {
		return nil, false
	}
	return e.outlets[number-1], true
}

// Balance is the operator's balance in cents. It never drops below zero.
func (e *Engine) Balance() int64 {
	e.mu.Lock()
	defer e.mu.Unlock()
	return e.balance
}

// Rollover is the amount added to the next draw's grade 1 pool.
func (e *Engine) Rollover() int64 {
	e.mu.Lock()
	defer e.mu.Unlock()
	return e.rollover
}

// LastDraw is the number of the last executed draw, 0 before the first.
func (e *Engine) LastDraw() int {
	e.mu.Lock()
	defer e.mu.Unlock()
	return e.lastDraw
}

// PendingRevenue is the net revenue booked so far for the future draw n.
// Executed draws and draws beyond the horizon report zero.
func (e *Engine) PendingRevenue(n int) int64 {
	e.mu.Lock()
	defer e.mu.Unlock()
	if n <= e.lastDraw || n > e.lastDraw+Horizon {
		return 0
	}
	return e.pending[n%Horizon]
}

// Draws returns every finalized draw in order.
func (e *Engine) Draws() []round.Result {
	e.mu.Lock()
	defer e.mu.Unlock()
	out := make([]round.Result, len(e.results))
	for i, r := range e.results {
		out[i] = cloneResult(r)
	}
	return out
}

// Draw returns the finalized draw numbered n.
func (e *Engine) Draw(n int) (round.Result, error) {
	e.mu.Lock()
	defer e.mu.Unlock()
	if n < 1 || n > len(e.results) {
		return round.Result{}, fmt.Errorf("%w: draw %d has not been executed", errs.ErrInvalidInput, n)
	}
	return cloneResult(e.results[n-1]), nil
}

// book records a sale: the sales tax goes to the treasury, the net revenue is
// spread over the draws the ticket covers and credited to the operator.
// Callers hold the barrier for reading.
func (e *Engine) book(outlet int, slip wager.Slip, price int64) *ticket.Ticket {
	net, tax := e.rules.SplitSale(price)
	share := net / int64(slip.Draws())

	e.mu.Lock()
	e.lastTicket++
	first := e.lastDraw + 1
	for i := 0; i < slip.Draws(); i++ {
		e.pending[(first+i)%Horizon] += share
	}
	e.balance += net
	t := ticket.New(ticket.NewID(e.lastTicket, outlet), first, slip, price)
	e.mu.Unlock()

	e.treasury.ReceiveTax(tax)
	e.metrics.TicketSold(price, tax)
	return t
}

// ExecuteDraw opens the next draw, tallies every outstanding ticket, allocates
// the pools and finalizes the draw. Sales and claims wait until it returns.
func (e *Engine) ExecuteDraw(ctx context.Context) (round.Result, error) {
	if err := ctx.Err(); err != nil {
		return round.Result{}, err
	}
	started := time.Now()

	e.barrier.Lock()
	defer e.barrier.Unlock()

	e.mu.Lock()
	n := e.lastDraw + 1
	revenue := e.pending[n%Horizon]
	rollover := e.rollover
	outlets := slices.Clone(e.outlets)
	e.mu.Unlock()

	d := round.NewDraw(n, e.source())
	budget := e.rules.Budget(revenue)

	var g errgroup.Group
	for _, o := range outlets {
		g.Go(func() error { return o.tally(d) })
	}
	if err := g.Wait(); err != nil {
		return round.Result{}, fmt.Errorf("tally draw %d: %w", n, err)
	}

	winners := d.Winners()
	pools := e.rules.Pools(budget, winners, rollover)
	prizes, next := gamemath.Prizes(pools, winners)
	if err := d.Finalize(pools, prizes, e.now()); err != nil {
		return round.Result{}, fmt.Errorf("finalize draw %d: %w", n, err)
	}
	res := *d.Result()
	res.RunID = e.runID
	res.Revenue = revenue
	res.Budget = budget
	res.Rollover = next

	e.mu.Lock()
	e.lastDraw = n
	e.pending[n%Horizon] = 0
	e.rollover = next
	e.history = append(e.history, d)
	e.results = append(e.results, res)
	balance := e.balance
	e.mu.Unlock()

	e.metrics.DrawExecuted(winners, time.Since(started))
	e.metrics.Ledger(balance, next)
	e.log.WithFields(logrus.Fields{
		"draw_number": n,
		"winning":     d.Winning().String(),
		"revenue":     revenue,
		"winners":     winners,
		"rollover":    next,
	}).Info("draw executed")

	if e.archive != nil {
		if err := e.archive.Append(ctx, &res); err != nil {
			e.log.WithError(err).WithField("draw_number", n).Warn("archive draw failed")
		}
	}
	return cloneResult(res), nil
}

// ResolvePrize pays one bet's prize for an executed draw out of the operator's
// balance. A bet with fewer than three hits resolves to an empty payout.
func (e *Engine) ResolvePrize(bet wager.Wager, drawNumber int) (Payout, error) {
	e.barrier.RLock()
	defer e.barrier.RUnlock()
	return e.resolvePrize(bet, drawNumber)
}

// resolvePrize is ResolvePrize for callers already holding the barrier.
func (e *Engine) resolvePrize(bet wager.Wager, drawNumber int) (Payout, error) {
	p := Payout{Draw: drawNumber}
	if !bet.Valid() {
		return p, fmt.Errorf("%w: bet %s is not a valid wager", errs.ErrInvalidInput, bet)
	}

	e.mu.Lock()
	if drawNumber < 1 || drawNumber > len(e.history) {
		e.mu.Unlock()
		return p, fmt.Errorf("%w: draw %d has not been executed", errs.ErrInvalidInput, drawNumber)
	}
	d := e.history[drawNumber-1]
	grade, ok := gamemath.GradeForHits(bet.HitCount(d.Winning()))
	if !ok {
		e.mu.Unlock()
		return p, nil
	}
	p.Grade = grade
	p.Gross = d.Prize(grade)
	e.balance -= p.Gross
	if e.balance < 0 {
		p.Subsidy = -e.balance
		e.balance = 0
	}
	balance, rollover := e.balance, e.rollover
	e.mu.Unlock()

	if p.Subsidy > 0 {
		e.treasury.GrantSubsidy(p.Subsidy)
		e.metrics.Subsidy(p.Subsidy)
	}
	p.Net, p.Tax = e.rules.TaxPrize(p.Gross)
	e.treasury.ReceiveTax(p.Tax)
	e.metrics.PrizePaid(grade, p.Gross, p.Tax)
	e.metrics.Ledger(balance, rollover)
	e.log.WithFields(logrus.Fields{
		"draw_number": drawNumber,
		"grade":       grade,
		"amount":      p.Gross,
		"tax":         p.Tax,
		"subsidy":     p.Subsidy,
	}).Debug("prize paid")
	return p, nil
}

// Reset returns the engine and its treasury to the state of a fresh process.
// Outlets opened before the reset are forgotten.
func (e *Engine) Reset() {
	e.barrier.Lock()
	defer e.barrier.Unlock()
	e.mu.Lock()
	e.balance = 0
	e.rollover = 0
	e.pending = [Horizon]int64{}
	e.lastDraw = 0
	e.lastTicket = 0
	e.lastOutlet = 0
	e.history = nil
	e.results = nil
	e.outlets = nil
	e.mu.Unlock()
	e.treasury.Reset()
	e.metrics.Ledger(0, 0)
}

func cloneResult(r round.Result) round.Result {
	r.Winning = slices.Clone(r.Winning)
	return r
}
