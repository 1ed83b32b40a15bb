package metrics

import (
	"testing"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/testutil"
	"github.com/stretchr/testify/assert"
)

func TestMetrics(t *testing.T) {
	m := New(prometheus.NewRegistry())

	m.ReservationCreated("checkout")
	m.ReservationCreated("checkout")
	assert.Equal(t, 2.0, testutil.ToFloat64(m.ReservationsCreated.WithLabelValues("checkout")))

	m.SetReservationStates(map[string]int64{"ongoing": 3, "delayed": 1})
	assert.Equal(t, 3.0, testutil.ToFloat64(m.ReservationsByState.WithLabelValues("ongoing")))

	m.SetReservationStates(map[string]int64{"returned": 2})
	assert.Equal(t, 1, testutil.CollectAndCount(m.ReservationsByState))
}
