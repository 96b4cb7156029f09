package metrics

import (
	"errors"
	"testing"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/testutil"
	"github.com/stretchr/testify/assert"
)

func TestObserveCycle(t *testing.T) {
	m := New(prometheus.NewRegistry())

	m.ObserveCycle(nil, 0.1)
	m.ObserveCycle(errors.New("x"), 0.1)
	m.ObserveCycle(errors.New("y"), 0.1)

	assert.Equal(t, 1.0, testutil.ToFloat64(m.Cycles.WithLabelValues("ok")))
	assert.Equal(t, 2.0, testutil.ToFloat64(m.Cycles.WithLabelValues("error")))
}

func TestNilMetricsIsNoop(t *testing.T) {
	var m *Metrics
	assert.NotPanics(t, func() {
		m.ObserveItem(OutcomeSeen)
		m.ObserveCycle(nil, 1)
	})
}
