package round

import (
	"context"
	"errors"
	"regexp"
	"testing"
	"time"

	"github.com/DATA-DOG/go-sqlmock"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/Ashenafi-pixel/gamecrafter-lotto/gamemath"
)

func TestSQLStore_EnsureSchema(t *testing.T) {
	db, mock, err := sqlmock.New()
	require.NoError(t, err)
	defer db.Close()

	mock.ExpectExec(regexp.QuoteMeta("CREATE TABLE IF NOT EXISTS lotto_draws")).
		WillReturnResult(sqlmock.NewResult(0, 0))

	require.NoError(t, NewSQLStore(db).EnsureSchema(context.Background()))
	require.NoError(t, mock.ExpectationsWereMet())
}

func TestSQLStore_Append(t *testing.T) {
	db, mock, err := sqlmock.New()
	require.NoError(t, err)
	defer db.Close()

	at := time.Date(2026, 5, 2, 20, 0, 0, 0, time.UTC)
	r := &Result{
		RunID:      "run-1",
		Number:     4,
		Winning:    []int{3, 9, 14, 27, 38, 45},
		Winners:    gamemath.Winners{0, 1, 12, 140},
		Pools:      gamemath.Vector{200_000_000, 8_000, 40_000, 336_000},
		Prizes:     gamemath.Vector{0, 8_000, 3_333, 2_400},
		Revenue:    100_000,
		Budget:     51_000,
		Rollover:   200_000_000,
		ExecutedAt: at,
	}
	mock.ExpectExec(regexp.QuoteMeta("INSERT INTO lotto_draws")).
		WithArgs("run-1", 4, "[3,9,14,27,38,45]", "[0,1,12,140]",
			"[200000000,8000,40000,336000]", "[0,8000,3333,2400]",
			int64(100_000), int64(51_000), int64(200_000_000), at).
		WillReturnResult(sqlmock.NewResult(1, 1))

	require.NoError(t, NewSQLStore(db).Append(context.Background(), r))
	require.NoError(t, mock.ExpectationsWereMet())
}

func TestSQLStore_AppendError(t *testing.T) {
	db, mock, err := sqlmock.New()
	require.NoError(t, err)
	defer db.Close()

	mock.ExpectExec(regexp.QuoteMeta("INSERT INTO lotto_draws")).
		WillReturnError(errors.New("connection reset"))

	err = NewSQLStore(db).Append(context.Background(), &Result{RunID: "r", Number: 1})
	assert.ErrorContains(t, err, "upsert draw 1")
}

func TestSQLStore_ListRun(t *testing.T) {
	db, mock, err := sqlmock.New()
	require.NoError(t, err)
	defer db.Close()

	at := time.Date(2026, 5, 2, 20, 0, 0, 0, time.UTC)
	rows := sqlmock.NewRows([]string{"draw_number", "winning_numbers", "winners", "pools", "prizes", "revenue", "budget", "rollover", "executed_at"}).
		AddRow(1, "[1,2,3,4,5,6]", "[0,0,1,2]", "[10,20,30,40]", "[0,0,30,20]", 100, 51, 10, at).
		AddRow(2, "[7,8,9,10,11,12]", "[1,0,0,0]", "[50,0,0,0]", "[50,0,0,0]", 200, 102, 0, at)
	mock.ExpectQuery(regexp.QuoteMeta("SELECT draw_number")).WithArgs("run-9").WillReturnRows(rows)

	list, err := NewSQLStore(db).ListRun(context.Background(), "run-9")
	require.NoError(t, err)
	require.Len(t, list, 2)
	assert.Equal(t, "run-9", list[0].RunID)
	assert.Equal(t, []int{1, 2, 3, 4, 5, 6}, list[0].Winning)
	assert.Equal(t, gamemath.Winners{0, 0, 1, 2}, list[0].Winners)
	assert.Equal(t, gamemath.Vector{50, 0, 0, 0}, list[1].Prizes)
	assert.Equal(t, int64(102), list[1].Budget)
	require.NoError(t, mock.ExpectationsWereMet())
}

func TestSQLStore_ListRunEmpty(t *testing.T) {
	db, mock, err := sqlmock.New()
	require.NoError(t, err)
	defer db.Close()

	rows := sqlmock.NewRows([]string{"draw_number", "winning_numbers", "winners", "pools", "prizes", "revenue", "budget", "rollover", "executed_at"})
	mock.ExpectQuery(regexp.QuoteMeta("SELECT draw_number")).WithArgs("gone").WillReturnRows(rows)

	list, err := NewSQLStore(db).ListRun(context.Background(), "gone")
	require.NoError(t, err)
	assert.NotNil(t, list)
	assert.Empty(t, list)
	require.NoError(t, mock.ExpectationsWereMet())
}
