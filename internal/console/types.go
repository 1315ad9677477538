package console

import (
	"errors"
	"sync"

	"github.com/mauv0809/crease/internal/cricket"
	"github.com/mauv0809/crease/internal/ledger"
)

var (
	ErrNoBatters      = errors.New("batting squad is empty")
	ErrNoBowlers      = errors.New("bowling squad is empty")
	ErrNotInSquad     = errors.New("player is not in the squad")
	ErrSameBatters    = errors.New("striker and non-striker must be different")
	ErrNeedsNewBatter = errors.New("a new batter must replace the dismissed player first")
	ErrUnknownCode    = errors.New("unknown quick score code")
)

// State is who is on strike, at the other end and bowling in one innings.
type State struct {
	StrikerID       int64  `json:"striker_id"`
	NonStrikerID    int64  `json:"non_striker_id"`
	BowlerID        int64  `json:"bowler_id"`
	NeedsNewBatter  bool   `json:"needs_new_batter"`
	LastOutPlayerID *int64 `json:"last_out_player_id,omitempty"`
}

// Ball is a delivery scored through the console. The players come from the State.
type Ball struct {
	RunsOffBat        int               `json:"runs_off_bat"`
	Extras            int               `json:"extras"`
	ExtraType         cricket.ExtraType `json:"extra_type"`
	IsWicket          bool              `json:"is_wicket"`
	DismissalType     string            `json:"dismissal_type,omitempty"`
	DismissedPlayerID *int64            `json:"dismissed_player_id,omitempty"`
	Notes             string            `json:"notes,omitempty"`
}

// Console keeps the live state of every innings being scored in this process.
type Console struct {
	ledger ledger.Ledger
	mu     sync.Mutex
	states map[int64]State
}
