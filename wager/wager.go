// Package wager defines the six-number bet and the slip that bundles bets for sale.
package wager

import (
	"math/bits"
	"sort"
	"strconv"
	"strings"
)

// Game shape of the national draw.
const (
	Picks     = 6  // numbers per wager
	MaxNumber = 49 // numbers are drawn from [1, MaxNumber]
)

// Wager is an unordered set of numbers. Construction never fails; use Valid
// before treating a Wager as a legal bet. Wagers are comparable with == and
// usable as map keys: two wagers with the same number set are equal.
type Wager struct {
	mask  uint64 // members in [0, 63]
	stray string // sorted members outside [0, 63], comma separated
}

// New builds a wager from numbers, dropping duplicates.
func New(numbers ...int) Wager {
	var w Wager
	var stray []int
	for _, n := range numbers {
		if n >= 0 && n < 64 {
			w.mask |= 1 << uint(n)
			continue
		}
		stray = append(stray, n)
	}
	if len(stray) > 0 {
		sort.Ints(stray)
		parts := make([]string, 0, len(stray))
		for i, n := range stray {
			if i > 0 && stray[i-1] == n {
				continue
			}
			parts = append(parts, strconv.Itoa(n))
		}
		w.stray = strings.Join(parts, ",")
	}
	return w
}

// Numbers returns the members in ascending order.
func (w Wager) Numbers() []int {
	out := make([]int, 0, Picks)
	var low, high []int
	for _, n := range w.strays() {
		if n < 0 {
			low = append(low, n)
		} else {
			high = append(high, n)
		}
	}
	out = append(out, low...)
	for m := w.mask; m != 0; m &= m - 1 {
		out = append(out, bits.TrailingZeros64(m))
	}
	return append(out, high...)
}

// Len is the number of distinct members.
func (w Wager) Len() int {
	return bits.OnesCount64(w.mask) + len(w.strays())
}

// Valid reports whether w holds exactly Picks distinct numbers in [1, MaxNumber].
func (w Wager) Valid() bool {
	const inRange = (uint64(1)<<(MaxNumber+1) - 1) &^ 1
	return w.stray == "" && w.mask&^inRange == 0 && bits.OnesCount64(w.mask) == Picks
}

// HitCount is the size of the intersection of the two number sets.
func (w Wager) HitCount(other Wager) int {
	hits := bits.OnesCount64(w.mask & other.mask)
	if w.stray == "" || other.stray == "" {
		return hits
	}
	theirs := make(map[int]struct{})
	for _, n := range other.strays() {
		theirs[n] = struct{}{}
	}
	for _, n := range w.strays() {
		if _, ok := theirs[n]; ok {
			hits++
		}
	}
	return hits
}

func (w Wager) String() string {
	var sb strings.Builder
	for i, n := range w.Numbers() {
		if i > 0 {
			sb.WriteByte(' ')
		}
		if n >= 0 && n < 10 {
			sb.WriteByte(' ')
		}
		sb.WriteString(strconv.Itoa(n))
	}
	return sb.String()
}

func (w Wager) strays() []int {
	if w.stray == "" {
		return nil
	}
	parts := strings.Split(w.stray, ",")
	out := make([]int, 0, len(parts))
	for _, p := range parts {
		n, err := strconv.Atoi(p)
		if err != nil {
			continue
		}
		out = append(out, n)
	}
	return out
}
