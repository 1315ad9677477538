package http

import (
	"net/http"

	"github.com/mauv0809/crease/internal/config"
	"github.com/mauv0809/crease/internal/console"
	"github.com/mauv0809/crease/internal/ledger"
	"github.com/mauv0809/crease/internal/metrics"
	"github.com/mauv0809/crease/internal/notifier"
	"github.com/mauv0809/crease/internal/pubsub"
)

func NewServer(l ledger.Ledger, c *console.Console, sel config.Selection, metricsSvc metrics.Metrics, metricsHandler http.Handler, notifier notifier.Notifier, pubsub pubsub.PubSubClient) *Server {
	server := &Server{
		Ledger:         l,
		Console:        c,
		Selection:      sel,
		Metrics:        metricsSvc,
		MetricsHandler: metricsHandler,
		Notifier:       notifier,
		Router:         http.NewServeMux(),
		pubsub:         pubsub,
	}

	server.routes()
	return server
}

func (s *Server) routes() {
	// All handlers are wrapped with middleware using the Chain helper.
	// e.g. Chain(s.MyHandler(), requestIDMiddleware, paramsMiddleware, authMiddleware)
	handle := func(pattern string, h http.Handler) {
		s.Router.Handle(pattern, Chain(h, requestIDMiddleware, paramsMiddleware))
	}

	s.Router.Handle("GET /metrics", s.MetricsHandler)
	handle("GET /health", s.HealthCheckHandler())

	handle("POST /matches", s.CreateMatchHandler())
	handle("GET /matches", s.ListMatchesHandler())
	handle("GET /matches/{id}", s.GetMatchHandler())
	handle("GET /matches/{id}/squads", s.GetSquadsHandler())
	handle("GET /matches/{id}/innings", s.ListInningsHandler())
	handle("POST /matches/{id}/innings", s.CreateInningsHandler())
	handle("GET /matches/{id}/batting", s.BattingStatsHandler())
	handle("GET /matches/{id}/bowling", s.BowlingStatsHandler())
	handle("POST /matches/{id}/recompute", s.RecomputeHandler())

	handle("GET /innings/{id}", s.GetInningsHandler())
	handle("GET /innings/{id}/events", s.ListEventsHandler())
	handle("POST /innings/{id}/events", s.AppendEventHandler())
	handle("POST /innings/{id}/undo", s.UndoHandler())
	handle("GET /innings/{id}/console", s.GetConsoleHandler())
	handle("PUT /innings/{id}/console", s.UpdateConsoleHandler())
	handle("DELETE /innings/{id}/console", s.ResetConsoleHandler())
	handle("POST /innings/{id}/console/swap", s.SwapStrikeHandler())
	handle("POST /innings/{id}/console/ball", s.ConsoleBallHandler())

	handle("GET /ratings", s.RatingsHandler())
	handle("GET /selection", s.SelectionHandler())
	handle("GET /players/stats", s.PlayerStatsHandler())
	handle("POST /players/{name}/deactivate", s.DeactivatePlayerHandler())

	handle("POST /pubsub/innings-completed", s.InningsCompletedHandler())
}

func (s *Server) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	s.Router.ServeHTTP(w, r)
}
