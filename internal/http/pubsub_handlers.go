package http

import (
	"net/http"

	"github.com/charmbracelet/log"
	"github.com/mauv0809/crease/internal/notifier"
	"github.com/mauv0809/crease/internal/pubsub"
)

// InningsCompletedHandler receives innings-completed pushes and posts the innings scorecard.
func (s *Server) InningsCompletedHandler() http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		data, err := pubsub.ReadPush(r.Body)
		if err != nil {
			log.Error("Failed to read push message", "error", err)
			http.Error(w, err.Error(), http.StatusBadRequest)
			return
		}
		var event pubsub.InningsCompleted
		if err := s.pubsub.ProcessMessage(data, &event); err != nil {
			http.Error(w, err.Error(), http.StatusBadRequest)
			return
		}
		log.Info("Processing innings completed event", "matchID", event.MatchID, "inningsID", event.InningsID)

		ctx := r.Context()
		innings, err := s.Ledger.GetInnings(ctx, event.InningsID)
		if err != nil {
			writeError(w, err)
			return
		}
		match, err := s.Ledger.GetMatch(ctx, innings.MatchID)
		if err != nil {
			writeError(w, err)
			return
		}
		batting, err := s.Ledger.GetMatchBattingStats(ctx, match.ID)
		if err != nil {
			writeError(w, err)
			return
		}
		bowling, err := s.Ledger.GetMatchBowlingStats(ctx, match.ID)
		if err != nil {
			writeError(w, err)
			return
		}

		summary := notifier.InningsSummary{Match: *match, Innings: *innings, Batting: batting, Bowling: bowling}
		if err := s.Notifier.SendInningsSummary(ctx, summary, isDryRunFromContext(r)); err != nil {
			log.Error("Failed to send innings summary", "error", err, "inningsID", innings.ID)
			http.Error(w, "failed to send innings summary", http.StatusInternalServerError)
			return
		}
		writeJSON(w, http.StatusOK, pushResponse{Status: "ok"})
	}
}
