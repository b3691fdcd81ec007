// Package server exposes the lottery's books over a read-only HTTP API.
package server

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"strconv"
	"time"

	"github.com/gorilla/mux"
	"github.com/sirupsen/logrus"

	"github.com/Ashenafi-pixel/gamecrafter-lotto/metrics"
	"github.com/Ashenafi-pixel/gamecrafter-lotto/report"
	"github.com/Ashenafi-pixel/gamecrafter-lotto/round"
	"github.com/Ashenafi-pixel/gamecrafter-lotto/settlement"
	"github.com/Ashenafi-pixel/gamecrafter-lotto/ticket"
)

type Server struct {
	engine  *settlement.Engine
	metrics *metrics.Metrics
	history round.History
	log     *logrus.Entry
	router  *mux.Router
}

type Option func(*Server)

// WithHistory serves archived runs from h under /runs/{run}/draws.
func WithHistory(h round.History) Option {
	return func(s *Server) { s.history = h }
}

// OutletSummary counts an outlet's tickets.
type OutletSummary struct {
	Number      int `json:"number"`
	Outstanding int `json:"outstanding"`
	Claimed     int `json:"claimed"`
}

// New routes the API for e. m may be nil, in which case /metrics is not served.
func New(e *settlement.Engine, m *metrics.Metrics, log *logrus.Entry, opts ...Option) *Server {
	if log == nil {
		log = logrus.NewEntry(logrus.StandardLogger())
	}
	s := &Server{
		engine:  e,
		metrics: m,
		log:     log.WithField("component", "server"),
		router:  mux.NewRouter(),
	}
	for _, opt := range opts {
		opt(s)
	}
	s.router.HandleFunc("/health", s.health).Methods(http.MethodGet)
	s.router.HandleFunc("/draws", s.listDraws).Methods(http.MethodGet)
	s.router.HandleFunc("/draws/{number}", s.getDraw).Methods(http.MethodGet)
	s.router.HandleFunc("/ledger", s.getLedger).Methods(http.MethodGet)
	s.router.HandleFunc("/outlets", s.listOutlets).Methods(http.MethodGet)
	s.router.HandleFunc("/tickets/{id}", s.getTicket).Methods(http.MethodGet)
	if s.history != nil {
		s.router.HandleFunc("/runs/{run}/draws", s.listRun).Methods(http.MethodGet)
	}
	if m != nil {
		s.router.Handle("/metrics", m.Handler()).Methods(http.MethodGet)
	}
	s.router.NotFoundHandler = http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		writeError(w, http.StatusNotFound, "no such route", "NOT_FOUND")
	})
	s.router.MethodNotAllowedHandler = http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		writeError(w, http.StatusMethodNotAllowed, "method not allowed", "METHOD_NOT_ALLOWED")
	})
	return s
}

// Handler is the routed API wrapped in CORS and request logging.
func (s *Server) Handler() http.Handler {
	return cors(s.requestLogger(s.router))
}

// Run serves on addr until ctx is done, then shuts down gracefully.
func (s *Server) Run(ctx context.Context, addr string) error {
	srv := &http.Server{
		Addr:              addr,
		Handler:           s.Handler(),
		ReadHeaderTimeout: 10 * time.Second,
	}
	errCh := make(chan error, 1)
	go func() {
		s.log.WithField("addr", addr).Info("reporting API listening")
		errCh <- srv.ListenAndServe()
	}()
	select {
	case err := <-errCh:
		return err
	case <-ctx.Done():
		shutdownCtx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
		defer cancel()
		if err := srv.Shutdown(shutdownCtx); err != nil {
			return fmt.Errorf("shutdown: %w", err)
		}
		if err := <-errCh; !errors.Is(err, http.ErrServerClosed) {
			return err
		}
		return nil
	}
}

func cors(h http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Access-Control-Allow-Origin", "*")
		w.Header().Set("Access-Control-Allow-Methods", "GET, OPTIONS")
		w.Header().Set("Access-Control-Allow-Headers", "Content-Type")
		if r.Method == http.MethodOptions {
			w.WriteHeader(http.StatusNoContent)
			return
		}
		h.ServeHTTP(w, r)
	})
}

// requestLogger logs method and path for each request.
func (s *Server) requestLogger(h http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		s.log.WithFields(logrus.Fields{"method": r.Method, "path": r.URL.Path}).Debug("request")
		h.ServeHTTP(w, r)
	})
}

func (s *Server) health(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, http.StatusOK, map[string]string{"status": "ok", "service": "lotto"})
}

func (s *Server) listDraws(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, http.StatusOK, s.engine.Draws())
}

func (s *Server) getDraw(w http.ResponseWriter, r *http.Request) {
	n, err := strconv.Atoi(mux.Vars(r)["number"])
	if err != nil || n < 1 {
		writeError(w, http.StatusBadRequest, "draw number must be a positive integer", "INVALID_DRAW_NUMBER")
		return
	}
	res, err := s.engine.Draw(n)
	if err != nil {
		writeError(w, http.StatusNotFound, err.Error(), "DRAW_NOT_FOUND")
		return
	}
	writeJSON(w, http.StatusOK, res)
}

func (s *Server) getLedger(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, http.StatusOK, report.LedgerOf(s.engine))
}

func (s *Server) listOutlets(w http.ResponseWriter, r *http.Request) {
	outlets := s.engine.Outlets()
	out := make([]OutletSummary, len(outlets))
	for i, o := range outlets {
		out[i] = OutletSummary{
			Number:      o.Number(),
			Outstanding: len(o.Outstanding()),
			Claimed:     len(o.Claimed()),
		}
	}
	writeJSON(w, http.StatusOK, out)
}

func (s *Server) getTicket(w http.ResponseWriter, r *http.Request) {
	id, err := ticket.ParseID(mux.Vars(r)["id"])
	if err != nil {
		writeError(w, http.StatusBadRequest, err.Error(), "INVALID_TICKET_ID")
		return
	}
	o, ok := s.engine.Outlet(id.Outlet)
	if !ok {
		writeError(w, http.StatusNotFound, "ticket not found", "TICKET_NOT_FOUND")
		return
	}
	t, claimed, ok := o.Lookup(id)
	if !ok {
		writeError(w, http.StatusNotFound, "ticket not found", "TICKET_NOT_FOUND")
		return
	}
	writeJSON(w, http.StatusOK, report.TicketStatusOf(t, claimed, s.engine.LastDraw()))
}

func (s *Server) listRun(w http.ResponseWriter, r *http.Request) {
	run := mux.Vars(r)["run"]
	list, err := s.history.ListRun(r.Context(), run)
	if err != nil {
		s.log.WithError(err).WithField("run_id", run).Error("read draw archive")
		writeError(w, http.StatusInternalServerError, "draw archive unavailable", "ARCHIVE_UNAVAILABLE")
		return
	}
	writeJSON(w, http.StatusOK, list)
}
