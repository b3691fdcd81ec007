// Package metrics exposes the lottery ledger as Prometheus collectors.
//
// Every method is safe on a nil *Metrics, so components can run without it.
package metrics

import (
	"net/http"
	"strconv"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"

	"github.com/Ashenafi-pixel/gamecrafter-lotto/gamemath"
)

const namespace = "lotto"

// Metrics holds the collectors and the registry they are registered with.
type Metrics struct {
	Registry *prometheus.Registry

	ticketsSold   prometheus.Counter
	salesCents    prometheus.Counter
	salesTaxCents prometheus.Counter
	drawsExecuted prometheus.Counter
	drawDuration  prometheus.Histogram
	winners       *prometheus.CounterVec
	prizesCents   *prometheus.CounterVec
	prizeTaxCents prometheus.Counter
	subsidyCents  prometheus.Counter
	balanceCents  prometheus.Gauge
	rolloverCents prometheus.Gauge
}

// New builds the collectors on a fresh registry.
func New() *Metrics {
	m := &Metrics{
		Registry: prometheus.NewRegistry(),
		ticketsSold: prometheus.NewCounter(prometheus.CounterOpts{
			Namespace: namespace, Subsystem: "sales", Name: "tickets_total",
			Help: "Tickets issued by all outlets.",
		}),
		salesCents: prometheus.NewCounter(prometheus.CounterOpts{
			Namespace: namespace, Subsystem: "sales", Name: "revenue_cents_total",
			Help: "Gross ticket revenue in cents.",
		}),
		salesTaxCents: prometheus.NewCounter(prometheus.CounterOpts{
			Namespace: namespace, Subsystem: "sales", Name: "tax_cents_total",
			Help: "Sales tax remitted to the treasury in cents.",
		}),
		drawsExecuted: prometheus.NewCounter(prometheus.CounterOpts{
			Namespace: namespace, Subsystem: "draws", Name: "executed_total",
			Help: "Draws finalized.",
		}),
		drawDuration: prometheus.NewHistogram(prometheus.HistogramOpts{
			Namespace: namespace, Subsystem: "draws", Name: "duration_seconds",
			Help:    "Time from opening a draw to finalizing it.",
			Buckets: prometheus.ExponentialBuckets(0.0005, 2, 12), // 0.5ms to ~1s
		}),
		winners: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace, Subsystem: "draws", Name: "winners_total",
			Help: "Winning bets per grade.",
		}, []string{"grade"}),
		prizesCents: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace, Subsystem: "prizes", Name: "paid_cents_total",
			Help: "Gross prizes paid per grade in cents.",
		}, []string{"grade"}),
		prizeTaxCents: prometheus.NewCounter(prometheus.CounterOpts{
			Namespace: namespace, Subsystem: "prizes", Name: "tax_cents_total",
			Help: "Prize tax remitted to the treasury in cents.",
		}),
		subsidyCents: prometheus.NewCounter(prometheus.CounterOpts{
			Namespace: namespace, Subsystem: "ledger", Name: "subsidy_cents_total",
			Help: "Subsidies the treasury paid to the operator in cents.",
		}),
		balanceCents: prometheus.NewGauge(prometheus.GaugeOpts{
			Namespace: namespace, Subsystem: "ledger", Name: "balance_cents",
			Help: "Operator balance in cents.",
		}),
		rolloverCents: prometheus.NewGauge(prometheus.GaugeOpts{
			Namespace: namespace, Subsystem: "ledger", Name: "rollover_cents",
			Help: "Grade 1 rollover carried into the next draw in cents.",
		}),
	}
	m.Registry.MustRegister(
		m.ticketsSold, m.salesCents, m.salesTaxCents,
		m.drawsExecuted, m.drawDuration, m.winners,
		m.prizesCents, m.prizeTaxCents, m.subsidyCents,
		m.balanceCents, m.rolloverCents,
	)
	return m
}

// Handler serves the registry in the Prometheus exposition format.
func (m *Metrics) Handler() http.Handler {
	return promhttp.HandlerFor(m.Registry, promhttp.HandlerOpts{})
}

func (m *Metrics) TicketSold(price, tax int64) {
	if m == nil {
		return
	}
	m.ticketsSold.Inc()
	m.salesCents.Add(float64(price))
	m.salesTaxCents.Add(float64(tax))
}

func (m *Metrics) DrawExecuted(winners gamemath.Winners, took time.Duration) {
	if m == nil {
		return
	}
	m.drawsExecuted.Inc()
	m.drawDuration.Observe(took.Seconds())
	for i, n := range winners {
		m.winners.WithLabelValues(strconv.Itoa(i + 1)).Add(float64(n))
	}
}

func (m *Metrics) PrizePaid(grade int, gross, tax int64) {
	if m == nil {
		return
	}
	m.prizesCents.WithLabelValues(strconv.Itoa(grade)).Add(float64(gross))
	m.prizeTaxCents.Add(float64(tax))
}

func (m *Metrics) Subsidy(amount int64) {
	if m == nil {
		return
	}
	m.subsidyCents.Add(float64(amount))
}

// Ledger sets the balance and rollover gauges.
func (m *Metrics) Ledger(balance, rollover int64) {
	if m == nil {
		return
	}
	m.balanceCents.Set(float64(balance))
	m.rolloverCents.Set(float64(rollover))
}
