package http

import (
	"context"
	"fmt"
	"net/http"
	"strconv"
	"time"

	"github.com/charmbracelet/log"
	"github.com/mauv0809/crease/internal/console"
	"github.com/mauv0809/crease/internal/cricket"
	"github.com/mauv0809/crease/internal/ledger"
	"github.com/mauv0809/crease/internal/metrics"
	"github.com/mauv0809/crease/internal/pubsub"
)

func (s *Server) GetInningsHandler() http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		inningsID, err := pathID(r)
		if err != nil {
			writeError(w, err)
			return
		}
		innings, err := s.Ledger.GetInnings(r.Context(), inningsID)
		if err != nil {
			writeError(w, err)
			return
		}
		writeJSON(w, http.StatusOK, innings)
	}
}

func (s *Server) ListEventsHandler() http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		inningsID, err := pathID(r)
		if err != nil {
			writeError(w, err)
			return
		}
		limit := 0
		if raw := r.URL.Query().Get("limit"); raw != "" {
			parsed, err := strconv.Atoi(raw)
			if err != nil || parsed <= 0 {
				log.Warn("Invalid 'limit' parameter provided. Using the default.", "limit_param", raw)
			} else {
				limit = parsed
			}
		}
		if _, err := s.Ledger.GetInnings(r.Context(), inningsID); err != nil {
			writeError(w, err)
			return
		}
		events, err := s.Ledger.GetBallEvents(r.Context(), inningsID, limit)
		if err != nil {
			writeError(w, err)
			return
		}
		writeJSON(w, http.StatusOK, events)
	}
}

func (s *Server) AppendEventHandler() http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		inningsID, err := pathID(r)
		if err != nil {
			writeError(w, err)
			return
		}
		var in ledger.EventInput
		if err := decodeJSON(r, &in); err != nil {
			s.Metrics.IncEventsRejected(metrics.ReasonValidation)
			http.Error(w, err.Error(), http.StatusBadRequest)
			return
		}
		in.InningsID = inningsID

		before, err := s.Ledger.GetInnings(r.Context(), inningsID)
		if err != nil {
			s.writeRejection(w, err)
			return
		}
		if in.MatchID == 0 {
			in.MatchID = before.MatchID
		}

		start := time.Now()
		eventID, err := s.Ledger.AppendEvent(r.Context(), in)
		s.Metrics.ObserveMutationDuration(time.Since(start).Seconds())
		if err != nil {
			s.writeRejection(w, err)
			return
		}
		s.Metrics.IncEventsRecorded()

		after, err := s.Ledger.GetInnings(r.Context(), inningsID)
		if err != nil {
			writeError(w, err)
			return
		}
		log.Info("Ball recorded", "inningsID", inningsID, "eventID", eventID, "score", score(after))
		s.publishRecorded(r.Context(), before, after, eventID, in.RunsOffBat+in.Extras, in.IsWicket)
		writeJSON(w, http.StatusCreated, appendEventResponse{EventID: eventID, Innings: *after})
	}
}

func (s *Server) UndoHandler() http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		inningsID, err := pathID(r)
		if err != nil {
			writeError(w, err)
			return
		}

		start := time.Now()
		removed, err := s.Ledger.UndoLastEvent(r.Context(), inningsID)
		s.Metrics.ObserveMutationDuration(time.Since(start).Seconds())
		if err != nil {
			writeError(w, err)
			return
		}

		innings, err := s.Ledger.GetInnings(r.Context(), inningsID)
		if err != nil {
			writeError(w, err)
			return
		}
		if removed {
			s.Metrics.IncEventsUndone()
			log.Info("Ball undone", "inningsID", inningsID, "score", score(innings))
			s.publish(r.Context(), pubsub.EventBallUndone, pubsub.BallUndone{
				MatchID:    innings.MatchID,
				InningsID:  innings.ID,
				TotalRuns:  innings.TotalRuns,
				Wickets:    innings.Wickets,
				LegalBalls: innings.LegalBalls,
			})
		} else {
			log.Info("Nothing to undo", "inningsID", inningsID)
		}
		writeJSON(w, http.StatusOK, undoResponse{Removed: removed, Innings: *innings})
	}
}

func (s *Server) GetConsoleHandler() http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		inningsID, err := pathID(r)
		if err != nil {
			writeError(w, err)
			return
		}
		st, err := s.Console.State(r.Context(), inningsID)
		if err != nil {
			writeError(w, err)
			return
		}
		writeJSON(w, http.StatusOK, st)
	}
}

func (s *Server) UpdateConsoleHandler() http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		inningsID, err := pathID(r)
		if err != nil {
			writeError(w, err)
			return
		}
		var next console.State
		if err := decodeJSON(r, &next); err != nil {
			http.Error(w, err.Error(), http.StatusBadRequest)
			return
		}
		st, err := s.Console.Update(r.Context(), inningsID, next)
		if err != nil {
			writeError(w, err)
			return
		}
		log.Info("Console updated", "inningsID", inningsID, "striker", st.StrikerID, "nonStriker", st.NonStrikerID, "bowler", st.BowlerID)
		writeJSON(w, http.StatusOK, st)
	}
}

// ResetConsoleHandler drops the live state of an innings so the next read starts from the
// default openers and bowler.
func (s *Server) ResetConsoleHandler() http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		inningsID, err := pathID(r)
		if err != nil {
			writeError(w, err)
			return
		}
		if _, err := s.Ledger.GetInnings(r.Context(), inningsID); err != nil {
			writeError(w, err)
			return
		}
		s.Console.Forget(inningsID)
		log.Info("Console reset", "inningsID", inningsID)
		w.WriteHeader(http.StatusNoContent)
	}
}

func (s *Server) SwapStrikeHandler() http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		inningsID, err := pathID(r)
		if err != nil {
			writeError(w, err)
			return
		}
		st, err := s.Console.Swap(r.Context(), inningsID)
		if err != nil {
			writeError(w, err)
			return
		}
		writeJSON(w, http.StatusOK, st)
	}
}

// ConsoleBallHandler scores a delivery for the players currently held by the console.
// The body is either {"code": "wd2"} or a full delivery.
func (s *Server) ConsoleBallHandler() http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		inningsID, err := pathID(r)
		if err != nil {
			writeError(w, err)
			return
		}
		var req consoleBallRequest
		if err := decodeJSON(r, &req); err != nil {
			s.Metrics.IncEventsRejected(metrics.ReasonValidation)
			http.Error(w, err.Error(), http.StatusBadRequest)
			return
		}
		ball := req.Ball
		if req.Code != "" {
			if ball, err = console.ParseQuick(req.Code); err != nil {
				s.writeRejection(w, err)
				return
			}
		}

		before, err := s.Ledger.GetInnings(r.Context(), inningsID)
		if err != nil {
			s.writeRejection(w, err)
			return
		}

		start := time.Now()
		eventID, st, err := s.Console.Record(r.Context(), inningsID, ball)
		s.Metrics.ObserveMutationDuration(time.Since(start).Seconds())
		if err != nil {
			s.writeRejection(w, err)
			return
		}
		s.Metrics.IncEventsRecorded()

		after, err := s.Ledger.GetInnings(r.Context(), inningsID)
		if err != nil {
			writeError(w, err)
			return
		}
		log.Info("Ball recorded from console", "inningsID", inningsID, "eventID", eventID, "score", score(after))
		s.publishRecorded(r.Context(), before, after, eventID, ball.RunsOffBat+ball.Extras, ball.IsWicket)
		writeJSON(w, http.StatusCreated, appendEventResponse{EventID: eventID, Innings: *after, Console: &st})
	}
}

// publishRecorded announces a recorded delivery, and the end of the innings when the delivery closed it.
func (s *Server) publishRecorded(ctx context.Context, before, after *ledger.Innings, eventID int64, runs int, isWicket bool) {
	s.publish(ctx, pubsub.EventBallRecorded, pubsub.BallRecorded{
		MatchID:    after.MatchID,
		InningsID:  after.ID,
		EventID:    eventID,
		Runs:       runs,
		IsWicket:   isWicket,
		TotalRuns:  after.TotalRuns,
		Wickets:    after.Wickets,
		LegalBalls: after.LegalBalls,
		Status:     after.Status,
	})
	if before.Status != cricket.InningsCompleted && after.Status == cricket.InningsCompleted {
		log.Info("Innings completed", "inningsID", after.ID, "score", score(after))
		s.publish(ctx, pubsub.EventInningsCompleted, pubsub.InningsCompleted{MatchID: after.MatchID, InningsID: after.ID})
	}
}

// publish sends an event. A failure is logged and otherwise ignored.
func (s *Server) publish(ctx context.Context, topic pubsub.EventType, data any) {
	if err := s.pubsub.SendMessage(ctx, topic, data); err != nil {
		log.Error("Failed to publish event", "topic", topic, "error", err)
		return
	}
	s.Metrics.IncEventsPublished()
}

func score(innings *ledger.Innings) string {
	return fmt.Sprintf("%d/%d (%s)", innings.TotalRuns, innings.Wickets, cricket.FormatOvers(innings.LegalBalls))
}
