package http

import (
	"net/http"
	"strconv"

	"github.com/charmbracelet/log"
	"github.com/mauv0809/crease/internal/ledger"
	"github.com/mauv0809/crease/internal/rating"
	"github.com/mauv0809/crease/internal/selection"
)

// RatingsHandler rates every player from their career statistics.
// format=csv returns a spreadsheet and notify=true posts the leaders to Slack.
func (s *Server) RatingsHandler() http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		stats, err := s.Ledger.LoadPlayerStats(r.Context())
		if err != nil {
			writeError(w, err)
			return
		}
		profiles := rating.RatePlayers(stats, s.Selection.Weights())
		log.Info("Rated players", "count", len(profiles))

		if r.URL.Query().Get("notify") == "true" {
			if err := s.Notifier.SendRatings(r.Context(), profiles, isDryRunFromContext(r)); err != nil {
				log.Error("Failed to send ratings notification", "error", err)
			}
		}

		if r.URL.Query().Get("format") == "csv" {
			w.Header().Set("Content-Type", "text/csv")
			w.Header().Set("Content-Disposition", `attachment; filename="ratings.csv"`)
			if err := rating.WriteCSV(w, profiles); err != nil {
				log.Error("Failed to write ratings CSV", "error", err)
			}
			return
		}
		writeJSON(w, http.StatusOK, profiles)
	}
}

// PlayerStatsHandler lists every active player's aggregated statistics with their team.
// format=csv returns a spreadsheet.
func (s *Server) PlayerStatsHandler() http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		stats, err := s.Ledger.LoadPlayerStats(r.Context())
		if err != nil {
			writeError(w, err)
			return
		}
		teams, err := s.Ledger.GetPlayerTeamMap(r.Context())
		if err != nil {
			writeError(w, err)
			return
		}
		rows := ledger.WithTeams(stats, teams)
		log.Info("Loaded player history", "count", len(rows))

		if r.URL.Query().Get("format") == "csv" {
			w.Header().Set("Content-Type", "text/csv")
			w.Header().Set("Content-Disposition", `attachment; filename="player_history.csv"`)
			if err := ledger.WriteHistoryCSV(w, rows); err != nil {
				log.Error("Failed to write player history CSV", "error", err)
			}
			return
		}
		writeJSON(w, http.StatusOK, rows)
	}
}

// SelectionHandler picks a playing XI from the available players.
// filter=true|false overrides the configured desired rating filter.
func (s *Server) SelectionHandler() http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		opts, err := s.Selection.Options()
		if err != nil {
			log.Error("Invalid team structure configuration", "error", err)
			http.Error(w, "invalid team structure configuration", http.StatusInternalServerError)
			return
		}
		if raw := r.URL.Query().Get("filter"); raw != "" {
			filter, err := strconv.ParseBool(raw)
			if err != nil {
				http.Error(w, "invalid 'filter' parameter", http.StatusBadRequest)
				return
			}
			opts.FilterByThreshold = filter
		}

		stats, err := s.Ledger.LoadPlayerStats(r.Context())
		if err != nil {
			writeError(w, err)
			return
		}
		result, err := selection.Pick(stats, s.Selection.Weights(), opts)
		if err != nil {
			writeError(w, err)
			return
		}
		s.Metrics.IncSelectionsRun()
		log.Info("Team selected", "selected", len(result.Selected), "wanted", opts.Quotas.Total(), "filter", opts.FilterByThreshold)

		if r.URL.Query().Get("notify") == "true" {
			if err := s.Notifier.SendPlayingXI(r.Context(), result, opts.Quotas, isDryRunFromContext(r)); err != nil {
				log.Error("Failed to send playing XI notification", "error", err)
			}
		}

		if r.URL.Query().Get("format") == "csv" {
			w.Header().Set("Content-Type", "text/csv")
			w.Header().Set("Content-Disposition", `attachment; filename="playing_xi.csv"`)
			if err := selection.WriteCSV(w, result, opts.Quotas); err != nil {
				log.Error("Failed to write selection CSV", "error", err)
			}
			return
		}
		writeJSON(w, http.StatusOK, selectionResponse{Result: result, Lineup: selection.BuildLineup(result, opts.Quotas)})
	}
}
