// Package treasury is the state's side of the lottery ledger: it collects sales
// and prize taxes and covers the operator's shortfalls with subsidies.
package treasury

import (
	"sync"

	"github.com/sirupsen/logrus"
)

// Treasury accumulates income and subsidies. Both totals only grow.
type Treasury struct {
	mu        sync.Mutex
	income    int64
	subsidies int64
	log       *logrus.Entry
}

func New(log *logrus.Entry) *Treasury {
	if log == nil {
		log = logrus.NewEntry(logrus.StandardLogger())
	}
	return &Treasury{log: log.WithField("component", "treasury")}
}

// ReceiveTax books tax income. Non-positive amounts are ignored.
func (t *Treasury) ReceiveTax(amount int64) {
	if amount <= 0 {
		return
	}
	t.mu.Lock()
	t.income += amount
	t.mu.Unlock()
}

// GrantSubsidy books money paid to the operator. Non-positive amounts are ignored.
func (t *Treasury) GrantSubsidy(amount int64) {
	if amount <= 0 {
		return
	}
	t.mu.Lock()
	t.subsidies += amount
	t.mu.Unlock()
	t.log.WithField("amount", amount).Info("subsidy granted")
}

func (t *Treasury) Income() int64 {
	t.mu.Lock()
	defer t.mu.Unlock()
	return t.income
}

func (t *Treasury) Subsidies() int64 {
	t.mu.Lock()
	defer t.mu.Unlock()
	return t.subsidies
}

// Reset zeroes both totals.
func (t *Treasury) Reset() {
	t.mu.Lock()
	defer t.mu.Unlock()
	t.income = 0
	t.subsidies = 0
}
