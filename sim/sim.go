// Package sim drives a closed lottery simulation: every time step the players
// shop, the engine executes one draw and the players collect finished tickets.
package sim

import (
	"context"
	"fmt"
	"math/rand/v2"
	"slices"

	"github.com/sirupsen/logrus"

	"github.com/Ashenafi-pixel/gamecrafter-lotto/errs"
	"github.com/Ashenafi-pixel/gamecrafter-lotto/player"
	"github.com/Ashenafi-pixel/gamecrafter-lotto/round"
	"github.com/Ashenafi-pixel/gamecrafter-lotto/settlement"
	"github.com/Ashenafi-pixel/gamecrafter-lotto/wager"
)

// Millionaire is the balance a player must exceed to be listed as one.
const Millionaire = 1_000_000_00

// Config shapes the simulated population.
type Config struct {
	Outlets            int
	PlayersPerStrategy int
	BalanceCap         int64 // starting balances are drawn from [0, BalanceCap)
	MaxDelay           int   // same-slip players wait 1 to MaxDelay draws between purchases
}

// DefaultConfig mirrors the reference simulation: 10 outlets, 200 players of
// each kind, balances below $1,000,000.
func DefaultConfig() Config {
	return Config{Outlets: 10, PlayersPerStrategy: 200, BalanceCap: 1_000_000_00, MaxDelay: 5}
}

func (c Config) Validate() error {
	switch {
	case c.Outlets < 1:
		return fmt.Errorf("%w: outlets must be > 0, got %d", errs.ErrInvalidInput, c.Outlets)
	case c.PlayersPerStrategy < 0:
		return fmt.Errorf("%w: players per strategy must be >= 0, got %d", errs.ErrInvalidInput, c.PlayersPerStrategy)
	case c.BalanceCap < 1:
		return fmt.Errorf("%w: balance cap must be > 0, got %d", errs.ErrInvalidInput, c.BalanceCap)
	case c.MaxDelay < 1:
		return fmt.Errorf("%w: max delay must be > 0, got %d", errs.ErrInvalidInput, c.MaxDelay)
	}
	return nil
}

// World is one engine with its outlets and players.
type World struct {
	engine  *settlement.Engine
	players []*player.Player
	rng     *rand.Rand
	log     *logrus.Entry
}

// NewWorld opens cfg.Outlets outlets on e and creates cfg.PlayersPerStrategy
// players of each strategy. rng drives every choice the population makes.
func NewWorld(e *settlement.Engine, cfg Config, rng *rand.Rand, log *logrus.Entry) (*World, error) {
	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	if log == nil {
		log = logrus.NewEntry(logrus.StandardLogger())
	}
	w := &World{engine: e, rng: rng, log: log.WithField("component", "sim")}
	outlets := make([]*settlement.Outlet, cfg.Outlets)
	for i := range outlets {
		outlets[i] = e.NewOutlet()
	}
	for i := 0; i < cfg.PlayersPerStrategy; i++ {
		strategies, err := w.strategies(cfg, outlets)
		if err != nil {
			return nil, err
		}
		for _, s := range strategies {
			p, err := player.New(player.NewPersona(rng), rng.Int64N(cfg.BalanceCap), s)
			if err != nil {
				return nil, err
			}
			w.players = append(w.players, p)
		}
	}
	w.log.WithFields(logrus.Fields{"outlets": cfg.Outlets, "players": len(w.players)}).Info("world created")
	return w, nil
}

// strategies builds one player strategy of each kind.
func (w *World) strategies(cfg Config, outlets []*settlement.Outlet) ([]player.Strategy, error) {
	minimalist, err := player.NewMinimalist(outlets[w.rng.IntN(len(outlets))])
	if err != nil {
		return nil, err
	}
	sameNumbers, err := player.NewSameNumbers(wager.RandomWith(w.rng.IntN), w.favourites(outlets))
	if err != nil {
		return nil, err
	}
	bets, err := wager.RandomListWith(w.rng.IntN(wager.MaxBets)+1, w.rng.IntN)
	if err != nil {
		return nil, err
	}
	slip, err := wager.NewSlip(bets, w.rng.IntN(wager.MaxDraws)+1)
	if err != nil {
		return nil, err
	}
	sameSlip, err := player.NewSameSlip(slip, w.favourites(outlets), w.rng.IntN(cfg.MaxDelay)+1)
	if err != nil {
		return nil, err
	}
	return []player.Strategy{player.NewRandom(w.rng), minimalist, sameNumbers, sameSlip}, nil
}

// favourites picks a random non-empty subset of outlets in random order.
func (w *World) favourites(outlets []*settlement.Outlet) []*settlement.Outlet {
	shuffled := slices.Clone(outlets)
	w.rng.Shuffle(len(shuffled), func(i, j int) { shuffled[i], shuffled[j] = shuffled[j], shuffled[i] })
	return shuffled[:w.rng.IntN(len(shuffled))+1]
}

func (w *World) Engine() *settlement.Engine { return w.engine }

// Players returns the population in creation order.
func (w *World) Players() []*player.Player { return slices.Clone(w.players) }

// Step runs one time step and returns the draw it executed.
func (w *World) Step(ctx context.Context) (round.Result, error) {
	for _, p := range w.players {
		if err := p.Buy(w.engine); err != nil {
			return round.Result{}, fmt.Errorf("player %s: %w", p.Persona.ID, err)
		}
	}
	res, err := w.engine.ExecuteDraw(ctx)
	if err != nil {
		return round.Result{}, err
	}
	for _, p := range w.players {
		if err := p.CollectFinished(w.engine); err != nil {
			return round.Result{}, fmt.Errorf("player %s: %w", p.Persona.ID, err)
		}
	}
	return res, nil
}

// Run executes draws time steps, stopping early when ctx is done.
func (w *World) Run(ctx context.Context, draws int) error {
	for i := 0; i < draws; i++ {
		if err := ctx.Err(); err != nil {
			return err
		}
		if _, err := w.Step(ctx); err != nil {
			return err
		}
	}
	return nil
}

// Millionaires lists the players holding more than Millionaire cents.
func (w *World) Millionaires() []*player.Player {
	var out []*player.Player
	for _, p := range w.players {
		if p.Balance() > Millionaire {
			out = append(out, p)
		}
	}
	return out
}
