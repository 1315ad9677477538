package cricket

const (
	// BallsPerOver is the number of legal deliveries in an over.
	BallsPerOver = 6
	// MaxWickets ends an innings once reached.
	MaxWickets = 10
)

// Role is a player's declared playing role.
type Role string

const (
	RoleBatter       Role = "Batter"
	RoleBowler       Role = "Bowler"
	RoleAllrounder   Role = "Allrounder"
	RoleWicketKeeper Role = "Wicket Keeper"
)

// SelectionOrder is the fixed priority in which role quotas are filled and reported.
var SelectionOrder = []Role{RoleBatter, RoleWicketKeeper, RoleAllrounder, RoleBowler}

// ExtraType classifies the runs of a delivery that are not scored off the bat.
type ExtraType string

const (
	ExtraNone   ExtraType = "none"
	ExtraWide   ExtraType = "wide"
	ExtraNoBall ExtraType = "no_ball"
	ExtraBye    ExtraType = "bye"
	ExtraLegBye ExtraType = "leg_bye"
)

// IsLegal reports whether a delivery with this extra type counts toward the over.
func (e ExtraType) IsLegal() bool {
	return e != ExtraWide && e != ExtraNoBall
}

// AllowsRunsOffBat reports whether the striker can score off the bat on this delivery.
// Wides, byes and leg byes never touch the bat.
func (e ExtraType) AllowsRunsOffBat() bool {
	return e == ExtraNone || e == ExtraNoBall
}

// ChargedToBowler reports whether extras of this type count against the bowler.
func (e ExtraType) ChargedToBowler() bool {
	return e != ExtraBye && e != ExtraLegBye
}

// DismissalRunOut is the only dismissal type not credited to the bowler.
const DismissalRunOut = "run_out"

// MatchStatus is the lifecycle state of a match, derived from its innings.
type MatchStatus string

const (
	MatchScheduled MatchStatus = "scheduled"
	MatchLive      MatchStatus = "live"
	MatchCompleted MatchStatus = "completed"
)

// InningsStatus is the lifecycle state of an innings.
type InningsStatus string

const (
	InningsInProgress InningsStatus = "in_progress"
	InningsCompleted  InningsStatus = "completed"
)

// PlayerStats is a player's statistics summed across every recorded match.
// It is the only input to the scorer and rating engine.
type PlayerStats struct {
	PlayerName   string `json:"player_name"`
	Role         Role   `json:"role"`
	Availability bool   `json:"availability"`

	BattingMatches    int     `json:"batting_matches"`
	BattingInnings    int     `json:"batting_innings"`
	BattingRuns       int     `json:"batting_runs"`
	BattingNotOut     int     `json:"batting_not_out"`
	BattingHighScore  int     `json:"batting_high_score"`
	BattingAvg        float64 `json:"batting_avg"`
	BattingStrikeRate float64 `json:"batting_strike_rate"`

	BowlingMatches    int     `json:"bowling_matches"`
	BowlingInnings    int     `json:"bowling_innings"`
	BowlingOvers      float64 `json:"bowling_overs"`
	BowlingRuns       int     `json:"bowling_runs"`
	BowlingWickets    int     `json:"bowling_wickets"`
	BowlingEconomy    float64 `json:"bowling_economy"`
	BowlingStrikeRate float64 `json:"bowling_strike_rate"`
	BowlingAvg        float64 `json:"bowling_avg"`
	BowlingWides      int     `json:"bowling_wides"`
	BowlingNoBall     int     `json:"bowling_no_ball"`

	FieldingMatches      int `json:"fielding_matches"`
	FieldingCatches      int `json:"fielding_catches"`
	FieldingCaughtBehind int `json:"fielding_caught_behind"`
	FieldingRunOut       int `json:"fielding_run_out"`
	FieldingStumping     int `json:"fielding_stumping"`
}

// SampleSize is the innings count used to judge how reliable a player's rating is.
func (s PlayerStats) SampleSize(role Role) int {
	switch role {
	case RoleBatter:
		return s.BattingInnings
	case RoleBowler:
		return s.BowlingInnings
	default:
		return max(s.BattingInnings, s.BowlingInnings)
	}
}
