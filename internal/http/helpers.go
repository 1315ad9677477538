package http

import (
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
	"strconv"

	"github.com/charmbracelet/log"
	"github.com/mauv0809/crease/internal/console"
	"github.com/mauv0809/crease/internal/ledger"
	"github.com/mauv0809/crease/internal/metrics"
	"github.com/mauv0809/crease/internal/selection"
)

var errInvalidID = errors.New("invalid id")

func writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	if err := json.NewEncoder(w).Encode(v); err != nil {
		log.Error("Failed to encode response", "error", err)
	}
}

func decodeJSON(r *http.Request, v any) error {
	if err := json.NewDecoder(r.Body).Decode(v); err != nil {
		return fmt.Errorf("invalid request body: %w", err)
	}
	return nil
}

// pathID reads the positive integer path parameter "id".
func pathID(r *http.Request) (int64, error) {
	raw := r.PathValue("id")
	id, err := strconv.ParseInt(raw, 10, 64)
	if err != nil || id <= 0 {
		return 0, fmt.Errorf("%w: %q", errInvalidID, raw)
	}
	return id, nil
}

// classify maps an error to its HTTP status and the reason recorded for rejected events.
func classify(err error) (int, string) {
	switch {
	case ledger.IsValidation(err),
		errors.Is(err, errInvalidID),
		errors.Is(err, console.ErrNotInSquad),
		errors.Is(err, console.ErrSameBatters),
		errors.Is(err, console.ErrUnknownCode),
		errors.Is(err, selection.ErrInvalidStructure),
		errors.Is(err, selection.ErrNoPositiveQuota):
		return http.StatusBadRequest, metrics.ReasonValidation
	case ledger.IsState(err),
		errors.Is(err, console.ErrNeedsNewBatter),
		errors.Is(err, console.ErrNoBatters),
		errors.Is(err, console.ErrNoBowlers):
		return http.StatusConflict, metrics.ReasonState
	case ledger.IsNotFound(err), errors.Is(err, selection.ErrNoPlayers):
		return http.StatusNotFound, metrics.ReasonNotFound
	default:
		return http.StatusInternalServerError, metrics.ReasonInternal
	}
}

func writeError(w http.ResponseWriter, err error) {
	status, _ := classify(err)
	if status == http.StatusInternalServerError {
		log.Error("Request failed", "error", err)
		http.Error(w, "internal error", status)
		return
	}
	log.Warn("Request rejected", "status", status, "error", err)
	http.Error(w, err.Error(), status)
}

// writeRejection reports a failed ledger mutation and counts it.
func (s *Server) writeRejection(w http.ResponseWriter, err error) {
	_, reason := classify(err)
	s.Metrics.IncEventsRejected(reason)
	writeError(w, err)
}
