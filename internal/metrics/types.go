package metrics

import "github.com/prometheus/client_golang/prometheus"

// Service holds all the Prometheus metrics for the application.
type Service struct {
	EventsRecorded     prometheus.Counter
	EventsUndone       prometheus.Counter
	EventsRejected     *prometheus.CounterVec
	MutationDuration   prometheus.Histogram
	SelectionsRun      prometheus.Counter
	SlackNotifSent     prometheus.Counter
	SlackNotifFailed   prometheus.Counter
	EventsPublished    prometheus.Counter
	StartupTimeSeconds prometheus.Gauge
}
