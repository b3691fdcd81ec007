package wager

import (
	"crypto/rand"
	"fmt"
	"io"
	"math/big"

	"github.com/Ashenafi-pixel/gamecrafter-lotto/errs"
)

// Combinations is C(MaxNumber, Picks), the number of distinct valid wagers.
const Combinations = 13_983_816

var entropy io.Reader = rand.Reader

// secureIntn returns a uniform random int in [0, n) using crypto/rand (CSPRNG).
// A failing entropy source panics.
func secureIntn(n int) int {
	if n <= 0 {
		return 0
	}
	v, err := rand.Int(entropy, big.NewInt(int64(n)))
	if err != nil {
		panic(fmt.Sprintf("wager: read entropy: %v", err))
	}
	return int(v.Int64())
}

// Random returns a valid wager drawn with the CSPRNG. It is the source of
// winning numbers.
func Random() Wager {
	return RandomWith(secureIntn)
}

// RandomWith returns a valid wager using intn, which must return a value in [0, n).
func RandomWith(intn func(n int) int) Wager {
	var w Wager
	for picked := 0; picked < Picks; {
		n := intn(MaxNumber) + 1
		if w.mask&(1<<uint(n)) != 0 {
			continue
		}
		w.mask |= 1 << uint(n)
		picked++
	}
	return w
}

// RandomList returns count distinct valid wagers drawn with the CSPRNG.
func RandomList(count int) ([]Wager, error) {
	return RandomListWith(count, secureIntn)
}

// RandomListWith returns count distinct valid wagers using intn.
func RandomListWith(count int, intn func(n int) int) ([]Wager, error) {
	if count < 1 {
		return nil, fmt.Errorf("%w: wager count %d must be positive", errs.ErrInvalidInput, count)
	}
	if count > Combinations {
		return nil, fmt.Errorf("%w: only %d distinct wagers exist", errs.ErrInvalidInput, Combinations)
	}
	seen := make(map[Wager]struct{}, count)
	out := make([]Wager, 0, count)
	for len(out) < count {
		w := RandomWith(intn)
		if _, ok := seen[w]; ok {
			continue
		}
		seen[w] = struct{}{}
		out = append(out, w)
	}
	return out, nil
}
