package http

import (
	"net/http"

	"github.com/mauv0809/crease/internal/config"
	"github.com/mauv0809/crease/internal/console"
	"github.com/mauv0809/crease/internal/ledger"
	"github.com/mauv0809/crease/internal/metrics"
	"github.com/mauv0809/crease/internal/notifier"
	"github.com/mauv0809/crease/internal/pubsub"
	"github.com/mauv0809/crease/internal/selection"
)

type Server struct {
	Ledger         ledger.Ledger
	Console        *console.Console
	Selection      config.Selection
	Metrics        metrics.Metrics
	MetricsHandler http.Handler
	Notifier       notifier.Notifier
	Router         *http.ServeMux
	pubsub         pubsub.PubSubClient
}

type createInningsRequest struct {
	InningsNo     int   `json:"innings_no"`
	BattingTeamID int64 `json:"batting_team_id"`
	BowlingTeamID int64 `json:"bowling_team_id"`
}

// appendEventResponse is returned by every endpoint that records a delivery.
type appendEventResponse struct {
	EventID int64          `json:"event_id"`
	Innings ledger.Innings `json:"innings"`
	Console *console.State `json:"console,omitempty"`
}

type undoResponse struct {
	Removed bool           `json:"removed"`
	Innings ledger.Innings `json:"innings"`
}

// consoleBallRequest is either a quick score code or a full delivery.
type consoleBallRequest struct {
	Code string `json:"code"`
	console.Ball
}

// selectionResponse carries the selection together with the slot-by-slot lineup built from it.
type selectionResponse struct {
	selection.Result
	Lineup []selection.Entry `json:"lineup"`
}

type pushResponse struct {
	Status string `json:"status"`
}
