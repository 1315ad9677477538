package ledger

import (
	"errors"

	"github.com/mauv0809/crease/internal/cricket"
)

// Errors returned by the ledger. Callers match them with errors.Is.
var (
	ErrInvalidOvers           = errors.New("total overs must be greater than zero")
	ErrEmptySquad             = errors.New("squad cannot be empty")
	ErrTeamNameRequired       = errors.New("team name is required")
	ErrPlayerNameRequired     = errors.New("player name is required")
	ErrSameTeams              = errors.New("teams must be different")
	ErrInvalidInningsNo       = errors.New("innings number must be 1 or 2")
	ErrTeamNotInMatch         = errors.New("team is not playing in this match")
	ErrMatchNotFound          = errors.New("match not found")
	ErrInningsNotFound        = errors.New("innings not found")
	ErrPlayerNotFound         = errors.New("player not found")
	ErrInvalidRole            = cricket.ErrInvalidRole
	ErrInvalidExtraType       = cricket.ErrInvalidExtraType
	ErrNegativeRuns           = errors.New("runs and extras cannot be negative")
	ErrInningsMismatch        = errors.New("innings does not belong to match")
	ErrInningsCompleted       = errors.New("innings already completed")
	ErrAllOut                 = errors.New("innings already all out")
	ErrOversComplete          = errors.New("innings already reached max overs")
	ErrSameBatters            = errors.New("striker and non-striker must be different players")
	ErrNotInSquad             = errors.New("player is not in the squad")
	ErrExtrasWithoutType      = errors.New("extras must be 0 when extra type is none")
	ErrRunsOffBatNotAllowed   = errors.New("runs off bat must be 0 for wides, byes and leg byes")
	ErrDismissalWithoutWicket = errors.New("dismissal given without a wicket")
)

// IsValidation reports whether err rejects malformed input.
func IsValidation(err error) bool {
	for _, target := range []error{
		ErrInvalidOvers, ErrEmptySquad, ErrTeamNameRequired, ErrPlayerNameRequired, ErrSameTeams,
		ErrInvalidInningsNo, ErrTeamNotInMatch, ErrInvalidRole, ErrInvalidExtraType, ErrNegativeRuns,
		ErrSameBatters, ErrNotInSquad, ErrExtrasWithoutType, ErrRunsOffBatNotAllowed,
		ErrDismissalWithoutWicket,
	} {
		if errors.Is(err, target) {
			return true
		}
	}
	return false
}

// IsState reports whether err rejects a mutation because of the innings' current state.
func IsState(err error) bool {
	return errors.Is(err, ErrInningsMismatch) || errors.Is(err, ErrInningsCompleted) ||
		errors.Is(err, ErrAllOut) || errors.Is(err, ErrOversComplete)
}

// IsNotFound reports whether err is a missing match, innings or player.
func IsNotFound(err error) bool {
	return errors.Is(err, ErrMatchNotFound) || errors.Is(err, ErrInningsNotFound) ||
		errors.Is(err, ErrPlayerNotFound)
}
