package server

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/sirupsen/logrus"
	"github.com/sirupsen/logrus/hooks/test"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/Ashenafi-pixel/gamecrafter-lotto/gamemath"
	"github.com/Ashenafi-pixel/gamecrafter-lotto/metrics"
	"github.com/Ashenafi-pixel/gamecrafter-lotto/report"
	"github.com/Ashenafi-pixel/gamecrafter-lotto/round"
	"github.com/Ashenafi-pixel/gamecrafter-lotto/settlement"
	"github.com/Ashenafi-pixel/gamecrafter-lotto/ticket"
	"github.com/Ashenafi-pixel/gamecrafter-lotto/treasury"
	"github.com/Ashenafi-pixel/gamecrafter-lotto/wager"
)

type buyer struct{ balance int64 }

func (b *buyer) Pay(amount int64) bool {
	if amount > b.balance {
		return false
	}
	b.balance -= amount
	return true
}

func (b *buyer) Keep(*ticket.Ticket) {}

func newTestServer(t *testing.T, m *metrics.Metrics, opts ...Option) (*settlement.Engine, *httptest.Server) {
	t.Helper()
	logger, _ := test.NewNullLogger()
	entry := logrus.NewEntry(logger)
	e, err := settlement.New(gamemath.DefaultRules(), treasury.New(entry),
		settlement.WithLogger(entry),
		settlement.WithMetrics(m),
		settlement.WithSource(func() wager.Wager { return wager.New(1, 2, 3, 4, 5, 6) }))
	require.NoError(t, err)
	ts := httptest.NewServer(New(e, m, entry, opts...).Handler())
	t.Cleanup(ts.Close)
	return e, ts
}

func get(t *testing.T, url string, v any) *http.Response {
	t.Helper()
	resp, err := http.Get(url)
	require.NoError(t, err)
	defer resp.Body.Close()
	if v != nil {
		require.NoError(t, json.NewDecoder(resp.Body).Decode(v))
	}
	return resp
}

func TestHealth(t *testing.T) {
	_, ts := newTestServer(t, nil)
	var body map[string]string
	resp := get(t, ts.URL+"/health", &body)
	assert.Equal(t, http.StatusOK, resp.StatusCode)
	assert.Equal(t, "ok", body["status"])
	assert.Equal(t, "*", resp.Header.Get("Access-Control-Allow-Origin"))
}

func TestDraws(t *testing.T) {
	e, ts := newTestServer(t, nil)
	slip, err := wager.NewSlip([]wager.Wager{wager.New(10, 20, 30, 40, 41, 42)}, 2)
	require.NoError(t, err)
	_, ok := e.NewOutlet().Sell(&buyer{balance: 600}, slip)
	require.True(t, ok)
	for i := 0; i < 2; i++ {
		_, err := e.ExecuteDraw(context.Background())
		require.NoError(t, err)
	}

	var draws []round.Result
	resp := get(t, ts.URL+"/draws", &draws)
	assert.Equal(t, http.StatusOK, resp.StatusCode)
	require.Len(t, draws, 2)
	assert.Equal(t, int64(240), draws[1].Revenue)

	var one round.Result
	resp = get(t, ts.URL+"/draws/2", &one)
	assert.Equal(t, http.StatusOK, resp.StatusCode)
	assert.Equal(t, 2, one.Number)
	assert.Equal(t, []int{1, 2, 3, 4, 5, 6}, one.Winning)
	assert.Equal(t, draws[0].Rollover+gamemath.DefaultRules().MinGrade1Pool, one.Pools[0])
}

func TestDraw_Errors(t *testing.T) {
	_, ts := newTestServer(t, nil)

	var apiErr APIError
	resp := get(t, ts.URL+"/draws/3", &apiErr)
	assert.Equal(t, http.StatusNotFound, resp.StatusCode)
	assert.Equal(t, "DRAW_NOT_FOUND", apiErr.Code)

	resp = get(t, ts.URL+"/draws/abc", &apiErr)
	assert.Equal(t, http.StatusBadRequest, resp.StatusCode)
	assert.Equal(t, "INVALID_DRAW_NUMBER", apiErr.Code)

	resp = get(t, ts.URL+"/nowhere", &apiErr)
	assert.Equal(t, http.StatusNotFound, resp.StatusCode)
	assert.Equal(t, "NOT_FOUND", apiErr.Code)

	r, err := http.Post(ts.URL+"/draws", "application/json", strings.NewReader("{}"))
	require.NoError(t, err)
	r.Body.Close()
	assert.Equal(t, http.StatusMethodNotAllowed, r.StatusCode)
}

func TestLedgerAndOutlets(t *testing.T) {
	e, ts := newTestServer(t, nil)
	o := e.NewOutlet()
	e.NewOutlet()
	slip, err := wager.NewSlip([]wager.Wager{wager.New(10, 20, 30, 40, 41, 42)}, 1)
	require.NoError(t, err)
	_, ok := o.Sell(&buyer{balance: 300}, slip)
	require.True(t, ok)

	var ledger report.Ledger
	get(t, ts.URL+"/ledger", &ledger)
	assert.Equal(t, report.Ledger{OperatorBalance: 240, TreasuryIncome: 60}, ledger)

	var outlets []OutletSummary
	get(t, ts.URL+"/outlets", &outlets)
	assert.Equal(t, []OutletSummary{{Number: 1, Outstanding: 1}, {Number: 2}}, outlets)
}

func TestMetricsRoute(t *testing.T) {
	_, ts := newTestServer(t, metrics.New())
	resp, err := http.Get(ts.URL + "/metrics")
	require.NoError(t, err)
	defer resp.Body.Close()
	assert.Equal(t, http.StatusOK, resp.StatusCode)

	_, plain := newTestServer(t, nil)
	var apiErr APIError
	r := get(t, plain.URL+"/metrics", &apiErr)
	assert.Equal(t, http.StatusNotFound, r.StatusCode)
}

func TestTicket(t *testing.T) {
	e, ts := newTestServer(t, nil)
	slip, err := wager.NewSlip([]wager.Wager{wager.New(10, 20, 30, 40, 41, 42)}, 2)
	require.NoError(t, err)
	o := e.NewOutlet()
	tk, ok := o.Sell(&buyer{balance: 600}, slip)
	require.True(t, ok)

	var status report.TicketStatus
	resp := get(t, ts.URL+"/tickets/"+tk.ID().String(), &status)
	assert.Equal(t, http.StatusOK, resp.StatusCode)
	assert.Equal(t, report.TicketStatus{ID: tk.ID().String(), Outlet: 1, FirstDraw: 1, LastDraw: 2, Draws: 2, Bets: 1, Price: 600}, status)

	var apiErr APIError
	resp = get(t, ts.URL+"/tickets/not-a-ticket", &apiErr)
	assert.Equal(t, http.StatusBadRequest, resp.StatusCode)
	assert.Equal(t, "INVALID_TICKET_ID", apiErr.Code)

	elsewhere := ticket.NewID(1, 7)
	resp = get(t, ts.URL+"/tickets/"+elsewhere.String(), &apiErr)
	assert.Equal(t, http.StatusNotFound, resp.StatusCode)
	assert.Equal(t, "TICKET_NOT_FOUND", apiErr.Code)
}

func TestRunHistory(t *testing.T) {
	store := round.NewResultsStore(t.TempDir())
	ctx := context.Background()
	require.NoError(t, store.Append(ctx, &round.Result{RunID: "old", Number: 1, Rollover: 5}))
	require.NoError(t, store.Append(ctx, &round.Result{RunID: "old", Number: 2}))
	require.NoError(t, store.Append(ctx, &round.Result{RunID: "new", Number: 1}))
	_, ts := newTestServer(t, nil, WithHistory(store))

	var list []round.Result
	resp := get(t, ts.URL+"/runs/old/draws", &list)
	assert.Equal(t, http.StatusOK, resp.StatusCode)
	require.Len(t, list, 2)
	assert.Equal(t, int64(5), list[0].Rollover)

	resp = get(t, ts.URL+"/runs/unknown/draws", &list)
	assert.Equal(t, http.StatusOK, resp.StatusCode)
	assert.Empty(t, list)

	_, plain := newTestServer(t, nil)
	var apiErr APIError
	resp = get(t, plain.URL+"/runs/old/draws", &apiErr)
	assert.Equal(t, http.StatusNotFound, resp.StatusCode)
}

type brokenHistory struct{}

func (brokenHistory) ListRun(context.Context, string) ([]*round.Result, error) {
	return nil, errors.New("connection refused")
}

func TestRunHistory_Unavailable(t *testing.T) {
	_, ts := newTestServer(t, nil, WithHistory(brokenHistory{}))
	var apiErr APIError
	resp := get(t, ts.URL+"/runs/any/draws", &apiErr)
	assert.Equal(t, http.StatusInternalServerError, resp.StatusCode)
	assert.Equal(t, "ARCHIVE_UNAVAILABLE", apiErr.Code)
}
