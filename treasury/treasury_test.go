package treasury

import (
	"sync"
	"testing"

	"github.com/sirupsen/logrus"
	"github.com/sirupsen/logrus/hooks/test"
	"github.com/stretchr/testify/assert"
)

func TestTreasury_Accumulates(t *testing.T) {
	tr := New(nil)
	tr.ReceiveTax(100)
	tr.ReceiveTax(50)
	tr.GrantSubsidy(30)
	tr.ReceiveTax(0)
	tr.ReceiveTax(-10)
	tr.GrantSubsidy(-5)

	assert.Equal(t, int64(150), tr.Income())
	assert.Equal(t, int64(30), tr.Subsidies())

	tr.Reset()
	assert.Zero(t, tr.Income())
	assert.Zero(t, tr.Subsidies())
}

func TestTreasury_Concurrent(t *testing.T) {
	tr := New(nil)
	var wg sync.WaitGroup
	for i := 0; i < 10; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			for j := 0; j < 100; j++ {
				tr.ReceiveTax(1)
			}
		}()
	}
	wg.Wait()
	assert.Equal(t, int64(1000), tr.Income())
}

func TestTreasury_LogsSubsidy(t *testing.T) {
	logger, hook := test.NewNullLogger()
	tr := New(logrus.NewEntry(logger))
	tr.GrantSubsidy(1234)

	entry := hook.LastEntry()
	if assert.NotNil(t, entry) {
		assert.Equal(t, "subsidy granted", entry.Message)
		assert.Equal(t, int64(1234), entry.Data["amount"])
		assert.Equal(t, "treasury", entry.Data["component"])
	}
}
