package metrics

import (
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/testutil"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestService(t *testing.T) {
	reg := prometheus.NewRegistry()
	s := NewService(reg)

	s.IncEventsRecorded()
	s.IncEventsRecorded()
	s.IncEventsUndone()
	s.IncEventsRejected(ReasonValidation)
	s.IncEventsRejected(ReasonState)
	s.IncEventsRejected(ReasonState)
	s.ObserveMutationDuration(0.004)
	s.IncSelectionsRun()
	s.IncEventsPublished()
	s.SetStartupTime(1.5)

	assert.Equal(t, 2.0, testutil.ToFloat64(s.EventsRecorded))
	assert.Equal(t, 1.0, testutil.ToFloat64(s.EventsUndone))
	assert.Equal(t, 1.0, testutil.ToFloat64(s.EventsRejected.WithLabelValues(ReasonValidation)))
	assert.Equal(t, 2.0, testutil.ToFloat64(s.EventsRejected.WithLabelValues(ReasonState)))
	assert.Equal(t, 1.0, testutil.ToFloat64(s.SelectionsRun))
	assert.Equal(t, 1.5, testutil.ToFloat64(s.StartupTimeSeconds))
	assert.Equal(t, 1, testutil.CollectAndCount(s.MutationDuration))

	rec := httptest.NewRecorder()
	NewMetricsHandler(reg).ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/metrics", nil))
	require.Equal(t, http.StatusOK, rec.Code)
	assert.Contains(t, rec.Body.String(), "crease_ball_events_recorded_total 2")
	assert.Contains(t, rec.Body.String(), `crease_ball_events_rejected_total{reason="state"} 2`)
}

func TestMock(t *testing.T) {
	m := NewMock()
	var _ Metrics = m

	m.IncEventsRecorded()
	m.IncEventsRejected(ReasonNotFound)
	m.ObserveMutationDuration(0.1)
	m.IncSlackNotifFailed()

	assert.Equal(t, 1, m.EventsRecorded())
	assert.Equal(t, 1, m.EventsRejected(ReasonNotFound))
	assert.Equal(t, 0, m.EventsRejected(ReasonState))
	assert.Equal(t, []float64{0.1}, m.MutationDurations())
	assert.Equal(t, 1, m.SlackNotifFailed())
}
