package http

import (
	"fmt"
	"net/http"
	"strings"

	"github.com/charmbracelet/log"
	"github.com/mauv0809/crease/internal/ledger"
)

func (s *Server) HealthCheckHandler() http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		log.Debug("Received health check request")
		w.WriteHeader(http.StatusOK)
		fmt.Fprintf(w, "OK!")
	}
}

func (s *Server) CreateMatchHandler() http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		var setup ledger.MatchSetup
		if err := decodeJSON(r, &setup); err != nil {
			http.Error(w, err.Error(), http.StatusBadRequest)
			return
		}
		log.Info("Creating match", "home", setup.HomeTeam, "away", setup.AwayTeam, "overs", setup.TotalOvers)

		matchID, err := s.Ledger.CreateMatchWithSquads(r.Context(), setup)
		if err != nil {
			writeError(w, err)
			return
		}
		match, err := s.Ledger.GetMatch(r.Context(), matchID)
		if err != nil {
			writeError(w, err)
			return
		}
		log.Info("Match created", "matchID", matchID)
		writeJSON(w, http.StatusCreated, match)
	}
}

func (s *Server) ListMatchesHandler() http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		matches, err := s.Ledger.ListMatches(r.Context())
		if err != nil {
			writeError(w, err)
			return
		}
		writeJSON(w, http.StatusOK, matches)
	}
}

func (s *Server) GetMatchHandler() http.HandlerFunc {
	return s.matchRead(func(r *http.Request, matchID int64) (any, error) {
		return s.Ledger.GetMatch(r.Context(), matchID)
	})
}

func (s *Server) GetSquadsHandler() http.HandlerFunc {
	return s.matchRead(func(r *http.Request, matchID int64) (any, error) {
		if _, err := s.Ledger.GetMatch(r.Context(), matchID); err != nil {
			return nil, err
		}
		return s.Ledger.GetMatchSquads(r.Context(), matchID)
	})
}

func (s *Server) ListInningsHandler() http.HandlerFunc {
	return s.matchRead(func(r *http.Request, matchID int64) (any, error) {
		return s.Ledger.ListInningsForMatch(r.Context(), matchID)
	})
}

func (s *Server) BattingStatsHandler() http.HandlerFunc {
	return s.matchRead(func(r *http.Request, matchID int64) (any, error) {
		return s.Ledger.GetMatchBattingStats(r.Context(), matchID)
	})
}

func (s *Server) BowlingStatsHandler() http.HandlerFunc {
	return s.matchRead(func(r *http.Request, matchID int64) (any, error) {
		return s.Ledger.GetMatchBowlingStats(r.Context(), matchID)
	})
}

// matchRead serves a read-only view of the match named by the path.
func (s *Server) matchRead(read func(r *http.Request, matchID int64) (any, error)) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		matchID, err := pathID(r)
		if err != nil {
			writeError(w, err)
			return
		}
		v, err := read(r, matchID)
		if err != nil {
			writeError(w, err)
			return
		}
		writeJSON(w, http.StatusOK, v)
	}
}

func (s *Server) CreateInningsHandler() http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		matchID, err := pathID(r)
		if err != nil {
			writeError(w, err)
			return
		}
		var req createInningsRequest
		if err := decodeJSON(r, &req); err != nil {
			http.Error(w, err.Error(), http.StatusBadRequest)
			return
		}

		inningsID, err := s.Ledger.GetOrCreateInnings(r.Context(), matchID, req.InningsNo, req.BattingTeamID, req.BowlingTeamID)
		if err != nil {
			writeError(w, err)
			return
		}
		innings, err := s.Ledger.GetInnings(r.Context(), inningsID)
		if err != nil {
			writeError(w, err)
			return
		}
		log.Info("Innings ready", "matchID", matchID, "inningsID", inningsID, "inningsNo", innings.InningsNo)
		writeJSON(w, http.StatusOK, innings)
	}
}

func (s *Server) RecomputeHandler() http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		matchID, err := pathID(r)
		if err != nil {
			writeError(w, err)
			return
		}
		if err := s.Ledger.Recompute(r.Context(), matchID); err != nil {
			writeError(w, err)
			return
		}
		match, err := s.Ledger.GetMatch(r.Context(), matchID)
		if err != nil {
			writeError(w, err)
			return
		}
		log.Info("Match recomputed", "matchID", matchID, "status", match.Status)
		writeJSON(w, http.StatusOK, match)
	}
}

func (s *Server) DeactivatePlayerHandler() http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		name := strings.TrimSpace(r.PathValue("name"))
		if name == "" {
			http.Error(w, ledger.ErrPlayerNameRequired.Error(), http.StatusBadRequest)
			return
		}
		if err := s.Ledger.DeactivatePlayer(r.Context(), name); err != nil {
			writeError(w, err)
			return
		}
		log.Info("Player deactivated", "player", name)
		w.WriteHeader(http.StatusNoContent)
	}
}
