package metrics

import (
	"net/http"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

var _ Metrics = (*Service)(nil)

// NewMetricsHandler returns an http.Handler for the given Gatherer.
// If no gatherer is provided, it uses the default one.
func NewMetricsHandler(gatherer ...prometheus.Gatherer) http.Handler {
	gath := prometheus.DefaultGatherer
	if len(gatherer) > 0 {
		gath = gatherer[0]
	}
	return promhttp.HandlerFor(gath, promhttp.HandlerOpts{})
}

// NewService creates and registers the Prometheus metrics.
// If no registerer is provided, it uses the default Prometheus registerer.
func NewService(registerer ...prometheus.Registerer) *Service {
	reg := prometheus.DefaultRegisterer
	if len(registerer) > 0 {
		reg = registerer[0]
	}

	s := &Service{
		EventsRecorded: prometheus.NewCounter(prometheus.CounterOpts{
			Name: "crease_ball_events_recorded_total",
			Help: "The total number of ball events appended to the ledger.",
		}),
		EventsUndone: prometheus.NewCounter(prometheus.CounterOpts{
			Name: "crease_ball_events_undone_total",
			Help: "The total number of ball events removed by undo.",
		}),
		EventsRejected: prometheus.NewCounterVec(prometheus.CounterOpts{
			Name: "crease_ball_events_rejected_total",
			Help: "The total number of ball events the ledger refused, by reason.",
		}, []string{"reason"}),
		MutationDuration: prometheus.NewHistogram(prometheus.HistogramOpts{
			Name:    "crease_ledger_mutation_duration_seconds",
			Help:    "The duration of a ledger mutation including the recompute of its match.",
			Buckets: []float64{0.001, 0.0025, 0.005, 0.01, 0.025, 0.05, 0.1, 0.25, 0.5, 1},
		}),
		SelectionsRun: prometheus.NewCounter(prometheus.CounterOpts{
			Name: "crease_selections_run_total",
			Help: "The total number of team selections computed.",
		}),
		SlackNotifSent: prometheus.NewCounter(prometheus.CounterOpts{
			Name: "crease_slack_notifications_sent_total",
			Help: "The total number of Slack notifications successfully sent.",
		}),
		SlackNotifFailed: prometheus.NewCounter(prometheus.CounterOpts{
			Name: "crease_slack_notifications_failed_total",
			Help: "The total number of Slack notifications that failed to send.",
		}),
		EventsPublished: prometheus.NewCounter(prometheus.CounterOpts{
			Name: "crease_pubsub_events_published_total",
			Help: "The total number of scoring events published to Pub/Sub.",
		}),
		StartupTimeSeconds: prometheus.NewGauge(prometheus.GaugeOpts{
			Name: "crease_startup_duration_seconds",
			Help: "The duration of the application startup in seconds.",
		}),
	}

	reg.MustRegister(
		s.EventsRecorded,
		s.EventsUndone,
		s.EventsRejected,
		s.MutationDuration,
		s.SelectionsRun,
		s.SlackNotifSent,
		s.SlackNotifFailed,
		s.EventsPublished,
		s.StartupTimeSeconds,
	)

	return s
}

func (s *Service) IncEventsRecorded() {
	s.EventsRecorded.Inc()
}

func (s *Service) IncEventsUndone() {
	s.EventsUndone.Inc()
}

func (s *Service) IncEventsRejected(reason string) {
	s.EventsRejected.WithLabelValues(reason).Inc()
}

func (s *Service) ObserveMutationDuration(duration float64) {
	s.MutationDuration.Observe(duration)
}

func (s *Service) IncSelectionsRun() {
	s.SelectionsRun.Inc()
}

func (s *Service) IncSlackNotifSent() {
	s.SlackNotifSent.Inc()
}

func (s *Service) IncSlackNotifFailed() {
	s.SlackNotifFailed.Inc()
}

func (s *Service) IncEventsPublished() {
	s.EventsPublished.Inc()
}

func (s *Service) SetStartupTime(duration float64) {
	s.StartupTimeSeconds.Set(duration)
}
