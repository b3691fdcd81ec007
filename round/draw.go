// Package round holds lottery draws and the archive of finalized draw results.
package round

import (
	"errors"
	"fmt"
	"sync"
	"time"

	"github.com/Ashenafi-pixel/gamecrafter-lotto/gamemath"
	"github.com/Ashenafi-pixel/gamecrafter-lotto/wager"
)

var (
	ErrFinalized = errors.New("draw already finalized")
	ErrBadGrade  = errors.New("grade out of range")
)

// Draw is one drawing of the national lottery. The winning numbers are fixed at
// creation; winner counts accumulate while outlets tally and freeze once pools
// and prizes are written by Finalize.
type Draw struct {
	mu         sync.Mutex
	number     int
	winning    wager.Wager
	winners    gamemath.Winners
	pools      gamemath.Vector
	prizes     gamemath.Vector
	finalized  bool
	executedAt time.Time
}

func NewDraw(number int, winning wager.Wager) *Draw {
	return &Draw{number: number, winning: winning}
}

func (d *Draw) Number() int { return d.number }

func (d *Draw) Winning() wager.Wager { return d.winning }

// RegisterHit counts one winner in grade (1..4). It is safe for concurrent use
// by outlets tallying in parallel.
func (d *Draw) RegisterHit(grade int) error {
	if grade < 1 || grade > gamemath.Grades {
		return fmt.Errorf("%w: %d", ErrBadGrade, grade)
	}
	d.mu.Lock()
	defer d.mu.Unlock()
	if d.finalized {
		return ErrFinalized
	}
	d.winners[grade-1]++
	return nil
}

// Winners returns the winner counts per grade.
func (d *Draw) Winners() gamemath.Winners {
	d.mu.Lock()
	defer d.mu.Unlock()
	return d.winners
}

// Finalize writes pools and prizes once; the draw is read-only afterwards.
func (d *Draw) Finalize(pools, prizes gamemath.Vector, at time.Time) error {
	d.mu.Lock()
	defer d.mu.Unlock()
	if d.finalized {
		return ErrFinalized
	}
	d.pools = pools
	d.prizes = prizes
	d.executedAt = at
	d.finalized = true
	return nil
}

// Prize is the per-winner prize of grade (1..4), zero when nobody won it or the
// grade is out of range.
func (d *Draw) Prize(grade int) int64 {
	if grade < 1 || grade > gamemath.Grades {
		return 0
	}
	d.mu.Lock()
	defer d.mu.Unlock()
	return d.prizes[grade-1]
}

// Result snapshots the draw for reporting and archiving.
func (d *Draw) Result() *Result {
	d.mu.Lock()
	defer d.mu.Unlock()
	return &Result{
		Number:     d.number,
		Winning:    d.winning.Numbers(),
		Winners:    d.winners,
		Pools:      d.pools,
		Prizes:     d.prizes,
		ExecutedAt: d.executedAt,
	}
}
