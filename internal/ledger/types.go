package ledger

import (
	"database/sql"
	"fmt"
	"sync"

	"github.com/mauv0809/crease/internal/cricket"
)

type store struct {
	db *sql.DB
	mu sync.RWMutex
}

// SquadMember is one player named in a match setup.
type SquadMember struct {
	PlayerName string `json:"player_name"`
	Role       string `json:"role"`
}

// MatchSetup is everything needed to create a match: both teams, the overs limit and both squads.
type MatchSetup struct {
	HomeTeam   string        `json:"home_team"`
	AwayTeam   string        `json:"away_team"`
	TotalOvers int           `json:"total_overs"`
	HomeSquad  []SquadMember `json:"home_squad"`
	AwaySquad  []SquadMember `json:"away_squad"`
}

type Match struct {
	ID           int64               `json:"id"`
	HomeTeamID   int64               `json:"home_team_id"`
	HomeTeamName string              `json:"home_team_name"`
	AwayTeamID   int64               `json:"away_team_id"`
	AwayTeamName string              `json:"away_team_name"`
	TotalOvers   int                 `json:"total_overs"`
	Status       cricket.MatchStatus `json:"status"`
	CreatedAt    string              `json:"created_at"`
	UpdatedAt    string              `json:"updated_at"`
}

type Innings struct {
	ID              int64                 `json:"id"`
	MatchID         int64                 `json:"match_id"`
	InningsNo       int                   `json:"innings_no"`
	BattingTeamID   int64                 `json:"batting_team_id"`
	BattingTeamName string                `json:"batting_team_name"`
	BowlingTeamID   int64                 `json:"bowling_team_id"`
	BowlingTeamName string                `json:"bowling_team_name"`
	TotalRuns       int                   `json:"total_runs"`
	Wickets         int                   `json:"wickets"`
	LegalBalls      int                   `json:"legal_balls"`
	Status          cricket.InningsStatus `json:"status"`
}

// EventInput is a delivery as reported by the scorer. Positional fields are derived by the ledger.
type EventInput struct {
	MatchID           int64             `json:"match_id"`
	InningsID         int64             `json:"innings_id"`
	StrikerID         int64             `json:"striker_id"`
	NonStrikerID      int64             `json:"non_striker_id"`
	BowlerID          int64             `json:"bowler_id"`
	RunsOffBat        int               `json:"runs_off_bat"`
	Extras            int               `json:"extras"`
	ExtraType         cricket.ExtraType `json:"extra_type"`
	IsWicket          bool              `json:"is_wicket"`
	DismissalType     string            `json:"dismissal_type,omitempty"`
	DismissedPlayerID *int64            `json:"dismissed_player_id,omitempty"`
	Notes             string            `json:"notes,omitempty"`
}

// BallEvent is one stored delivery. The name fields are only filled by GetBallEvents.
type BallEvent struct {
	ID                int64             `json:"id"`
	MatchID           int64             `json:"match_id"`
	InningsID         int64             `json:"innings_id"`
	EventSeq          int               `json:"event_seq"`
	OverNo            int               `json:"over_no"`
	BallInOver        int               `json:"ball_in_over"`
	LegalBall         bool              `json:"legal_ball"`
	StrikerID         int64             `json:"striker_id"`
	NonStrikerID      int64             `json:"non_striker_id"`
	BowlerID          int64             `json:"bowler_id"`
	RunsOffBat        int               `json:"runs_off_bat"`
	Extras            int               `json:"extras"`
	ExtraType         cricket.ExtraType `json:"extra_type"`
	IsWicket          bool              `json:"is_wicket"`
	DismissalType     string            `json:"dismissal_type,omitempty"`
	DismissedPlayerID *int64            `json:"dismissed_player_id,omitempty"`
	Notes             string            `json:"notes,omitempty"`

	StrikerName         string `json:"striker_name,omitempty"`
	NonStrikerName      string `json:"non_striker_name,omitempty"`
	BowlerName          string `json:"bowler_name,omitempty"`
	DismissedPlayerName string `json:"dismissed_player_name,omitempty"`
}

// Label renders the delivery's position as "over.ball", e.g. "3.4".
func (e BallEvent) Label() string {
	return fmt.Sprintf("%d.%d", e.OverNo, e.BallInOver)
}

// Runs is everything the delivery added to the innings total.
func (e BallEvent) Runs() int {
	return e.RunsOffBat + e.Extras
}

// BattingStats is one player's batting in one match. Names are only filled by reads.
type BattingStats struct {
	MatchID      int64   `json:"match_id"`
	PlayerID     int64   `json:"player_id"`
	TeamID       int64   `json:"team_id"`
	Innings      int     `json:"innings"`
	Runs         int     `json:"runs"`
	BallsFaced   int     `json:"balls_faced"`
	Fours        int     `json:"fours"`
	Sixes        int     `json:"sixes"`
	Dismissals   int     `json:"dismissals"`
	NotOuts      int     `json:"not_outs"`
	HighestScore int     `json:"highest_score"`
	StrikeRate   float64 `json:"strike_rate"`
	Average      float64 `json:"average"`

	TeamName   string       `json:"team_name,omitempty"`
	PlayerName string       `json:"player_name,omitempty"`
	Role       cricket.Role `json:"role,omitempty"`
}

// BowlingStats is one player's bowling in one match. Names are only filled by reads.
type BowlingStats struct {
	MatchID      int64   `json:"match_id"`
	PlayerID     int64   `json:"player_id"`
	TeamID       int64   `json:"team_id"`
	Innings      int     `json:"innings"`
	BallsBowled  int     `json:"balls_bowled"`
	RunsConceded int     `json:"runs_conceded"`
	Wickets      int     `json:"wickets"`
	Wides        int     `json:"wides"`
	NoBalls      int     `json:"no_balls"`
	Overs        float64 `json:"overs"`
	Economy      float64 `json:"economy"`
	StrikeRate   float64 `json:"strike_rate"`
	Average      float64 `json:"average"`

	TeamName   string       `json:"team_name,omitempty"`
	PlayerName string       `json:"player_name,omitempty"`
	Role       cricket.Role `json:"role,omitempty"`
}

// SquadPlayer is a player's membership of a match squad.
type SquadPlayer struct {
	TeamID     int64        `json:"team_id"`
	TeamName   string       `json:"team_name"`
	PlayerID   int64        `json:"player_id"`
	PlayerName string       `json:"player_name"`
	Role       cricket.Role `json:"role"`
}
