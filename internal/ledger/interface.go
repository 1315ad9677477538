package ledger

import (
	"context"

	"github.com/mauv0809/crease/internal/cricket"
)

// Ledger owns the ball-by-ball record of every match and the statistics derived from it.
// Every mutation recomputes the derived state of its match in the same transaction.
type Ledger interface {
	CreateMatchWithSquads(ctx context.Context, setup MatchSetup) (int64, error)
	GetOrCreateInnings(ctx context.Context, matchID int64, inningsNo int, battingTeamID, bowlingTeamID int64) (int64, error)
	AppendEvent(ctx context.Context, in EventInput) (int64, error)
	UndoLastEvent(ctx context.Context, inningsID int64) (bool, error)
	Recompute(ctx context.Context, matchID int64) error
	DeactivatePlayer(ctx context.Context, playerName string) error

	GetMatch(ctx context.Context, matchID int64) (*Match, error)
	ListMatches(ctx context.Context) ([]Match, error)
	GetInnings(ctx context.Context, inningsID int64) (*Innings, error)
	ListInningsForMatch(ctx context.Context, matchID int64) ([]Innings, error)
	GetBallEvents(ctx context.Context, inningsID int64, limit int) ([]BallEvent, error)
	GetMatchBattingStats(ctx context.Context, matchID int64) ([]BattingStats, error)
	GetMatchBowlingStats(ctx context.Context, matchID int64) ([]BowlingStats, error)
	GetMatchSquads(ctx context.Context, matchID int64) (map[string][]SquadPlayer, error)
	GetPlayerTeamMap(ctx context.Context) (map[string]string, error)
	LoadPlayerStats(ctx context.Context) ([]cricket.PlayerStats, error)
}
