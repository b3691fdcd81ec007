package wager

import (
	"errors"
	"testing"
	"testing/iotest"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"pgregory.net/rapid"

	"github.com/Ashenafi-pixel/gamecrafter-lotto/errs"
)

func genValid() *rapid.Generator[Wager] {
	return rapid.Custom(func(t *rapid.T) Wager {
		nums := rapid.SliceOfNDistinct(rapid.IntRange(1, MaxNumber), Picks, Picks, rapid.ID[int]).Draw(t, "numbers")
		return New(nums...)
	})
}

func TestWager_Valid(t *testing.T) {
	tests := []struct {
		name    string
		numbers []int
		want    bool
	}{
		{"six in range", []int{1, 2, 3, 4, 5, 49}, true},
		{"unordered", []int{49, 7, 3, 22, 18, 1}, true},
		{"five numbers", []int{1, 2, 3, 4, 5}, false},
		{"seven numbers", []int{1, 2, 3, 4, 5, 6, 7}, false},
		{"duplicate collapses to five", []int{1, 1, 2, 3, 4, 5}, false},
		{"zero", []int{0, 2, 3, 4, 5, 6}, false},
		{"fifty", []int{1, 2, 3, 4, 5, 50}, false},
		{"negative", []int{-1, 2, 3, 4, 5, 6}, false},
		{"far out of range", []int{1, 2, 3, 4, 5, 1000}, false},
		{"empty", nil, false},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, New(tt.numbers...).Valid())
		})
	}
}

func TestWager_EqualityIgnoresOrderAndDuplicates(t *testing.T) {
	a := New(5, 10, 15, 20, 25, 30)
	b := New(30, 25, 20, 15, 10, 5, 5)
	assert.Equal(t, a, b)

	set := map[Wager]int{a: 1}
	set[b]++
	assert.Len(t, set, 1)
	assert.Equal(t, 2, set[a])

	assert.Equal(t, New(1000, -4, 7), New(7, -4, 1000, 1000))
	assert.NotEqual(t, New(1, 2, 3, 4, 5, 6), New(1, 2, 3, 4, 5, 7))
}

func TestWager_Numbers(t *testing.T) {
	assert.Equal(t, []int{3, 8, 21, 33, 40, 49}, New(49, 3, 40, 21, 8, 33).Numbers())
	assert.Equal(t, []int{-2, 0, 63, 64, 100}, New(100, 64, 63, 0, -2).Numbers())
	assert.Equal(t, 5, New(100, 64, 63, 0, -2).Len())
}

func TestWager_HitCount(t *testing.T) {
	w := New(1, 2, 3, 4, 5, 6)
	assert.Equal(t, 6, w.HitCount(w))
	assert.Equal(t, 3, w.HitCount(New(1, 2, 3, 40, 41, 42)))
	assert.Equal(t, 0, w.HitCount(New(7, 8, 9, 10, 11, 12)))
	assert.Equal(t, 2, New(1, 200, 300).HitCount(New(200, 300, 5)))
}

func TestWager_String(t *testing.T) {
	assert.Equal(t, " 1  7 12 25 33 49", New(49, 33, 25, 12, 7, 1).String())
}

func TestWager_HitCountProperties(t *testing.T) {
	rapid.Check(t, func(t *rapid.T) {
		a := genValid().Draw(t, "a")
		b := genValid().Draw(t, "b")
		if a.HitCount(b) != b.HitCount(a) {
			t.Fatalf("hit count not symmetric for %v and %v", a, b)
		}
		if a.HitCount(a) != Picks {
			t.Fatalf("self hit count %d, want %d", a.HitCount(a), Picks)
		}
		if !a.Valid() {
			t.Fatalf("generated wager %v not valid", a)
		}
	})
}

func TestRandom(t *testing.T) {
	for i := 0; i < 500; i++ {
		w := Random()
		require.True(t, w.Valid(), "random wager %v", w)
	}
}

func TestRandomList(t *testing.T) {
	list, err := RandomList(50)
	require.NoError(t, err)
	require.Len(t, list, 50)
	seen := map[Wager]bool{}
	for _, w := range list {
		assert.True(t, w.Valid())
		assert.False(t, seen[w], "duplicate wager %v", w)
		seen[w] = true
	}

	_, err = RandomList(0)
	assert.ErrorIs(t, err, errs.ErrInvalidInput)
	_, err = RandomList(Combinations + 1)
	assert.ErrorIs(t, err, errs.ErrInvalidInput)
}

func TestRandom_PanicsWithoutEntropy(t *testing.T) {
	saved := entropy
	entropy = iotest.ErrReader(errors.New("entropy exhausted"))
	t.Cleanup(func() { entropy = saved })

	assert.PanicsWithValue(t, "wager: read entropy: entropy exhausted", func() { Random() })
}
