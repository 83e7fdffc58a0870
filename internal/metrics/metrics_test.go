package metrics

import (
	"testing"

	"github.com/prometheus/client_golang/prometheus"
	dto "github.com/prometheus/client_model/go"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func value(t *testing.T, m prometheus.Metric) *dto.Metric {
	t.Helper()
	var out dto.Metric
	require.NoError(t, m.Write(&out))
	return &out
}

func TestCounters(t *testing.T) {
	Register()
	Register()

	created := reservationCreated.WithLabelValues("sports")
	before := value(t, created).GetCounter().GetValue()
	IncCreated("sports")
	assert.Equal(t, before+1, value(t, created).GetCounter().GetValue())

	rejected := reservationRejected.WithLabelValues("cafeteria", "conflict")
	before = value(t, rejected).GetCounter().GetValue()
	IncRejected("cafeteria", "conflict")
	assert.Equal(t, before+1, value(t, rejected).GetCounter().GetValue())

	ObserveRequest("GET", "/v1/sports-facilities", "200", 0.01)
	h := requestDuration.WithLabelValues("GET", "/v1/sports-facilities", "200").(prometheus.Histogram)
	assert.EqualValues(t, 1, value(t, h).GetHistogram().GetSampleCount())
}
