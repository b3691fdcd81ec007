package ticket

import (
	"errors"
	"testing"
	"testing/iotest"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/Ashenafi-pixel/gamecrafter-lotto/errs"
)

func TestNewID_Checksum(t *testing.T) {
	id := ID{Seq: 17, Outlet: 3, Marker: 4_281_937}
	// 1+7 + 3 + 4+2+8+1+9+3+7 = 45
	id.Checksum = id.checksum()
	assert.Equal(t, 45, id.Checksum)
	assert.Equal(t, "17-3-004281937-45", id.String())
	assert.True(t, id.Valid())
}

func TestNewID_RandomMarker(t *testing.T) {
	seen := map[int]bool{}
	for i := 0; i < 50; i++ {
		id := NewID(i+1, 2)
		require.True(t, id.Valid(), "id %s", id)
		assert.GreaterOrEqual(t, id.Marker, 0)
		assert.Less(t, id.Marker, markerSpace)
		seen[id.Marker] = true
	}
	assert.Greater(t, len(seen), 40, "markers should vary")
}

func TestParseID(t *testing.T) {
	id := NewID(1234, 9)
	got, err := ParseID(id.String())
	require.NoError(t, err)
	assert.Equal(t, id, got)

	for _, bad := range []string{"", "1-2-3", "a-b-c-d", "1-2-000000003-99", "-1-2-3-4", "1-2-3-4-5"} {
		_, err := ParseID(bad)
		assert.ErrorIs(t, err, errs.ErrInvalidInput, "input %q", bad)
	}
}

func TestNewID_PanicsWithoutEntropy(t *testing.T) {
	saved := entropy
	entropy = iotest.ErrReader(errors.New("entropy exhausted"))
	t.Cleanup(func() { entropy = saved })

	assert.PanicsWithValue(t, "ticket: read entropy: entropy exhausted", func() { NewID(1, 1) })
}
