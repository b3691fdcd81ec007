package ticket

import (
	"crypto/rand"
	"fmt"
	"io"
	"math/big"
	"strconv"
	"strings"

	"github.com/Ashenafi-pixel/gamecrafter-lotto/errs"
)

// markerSpace bounds the random marker to nine digits.
const markerSpace = 1_000_000_000

// ID identifies a ticket across the whole lottery. Its text form is
// "seq-outlet-marker-checksum", e.g. "17-3-004281937-51".
type ID struct {
	Seq      int
	Outlet   int
	Marker   int
	Checksum int
}

// NewID stamps a fresh random marker and computes the checksum.
func NewID(seq, outlet int) ID {
	id := ID{Seq: seq, Outlet: outlet, Marker: randomMarker()}
	id.Checksum = id.checksum()
	return id
}

// ParseID reads the text form produced by String.
func ParseID(s string) (ID, error) {
	parts := strings.Split(s, "-")
	if len(parts) != 4 {
		return ID{}, fmt.Errorf("%w: ticket id %q", errs.ErrInvalidInput, s)
	}
	var v [4]int
	for i, p := range parts {
		n, err := strconv.Atoi(p)
		if err != nil || n < 0 {
			return ID{}, fmt.Errorf("%w: ticket id %q", errs.ErrInvalidInput, s)
		}
		v[i] = n
	}
	id := ID{Seq: v[0], Outlet: v[1], Marker: v[2], Checksum: v[3]}
	if !id.Valid() {
		return ID{}, fmt.Errorf("%w: ticket id %q fails its checksum", errs.ErrInvalidInput, s)
	}
	return id, nil
}

// Valid reports whether the checksum matches the other three fields.
func (id ID) Valid() bool {
	return id.Marker >= 0 && id.Marker < markerSpace && id.Checksum == id.checksum()
}

func (id ID) String() string {
	return fmt.Sprintf("%d-%d-%09d-%02d", id.Seq, id.Outlet, id.Marker, id.Checksum)
}

func (id ID) checksum() int {
	return (digitSum(id.Seq) + digitSum(id.Outlet) + digitSum(id.Marker)) % 100
}

func digitSum(n int) int {
	sum := 0
	for n > 0 {
		sum += n % 10
		n /= 10
	}
	return sum
}

var entropy io.Reader = rand.Reader

// randomMarker panics when the entropy source fails.
func randomMarker() int {
	v, err := rand.Int(entropy, big.NewInt(markerSpace))
	if err != nil {
		panic(fmt.Sprintf("ticket: read entropy: %v", err))
	}
	return int(v.Int64())
}
