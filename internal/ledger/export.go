package ledger

import (
	"encoding/csv"
	"fmt"
	"io"
	"strconv"

	"github.com/mauv0809/crease/internal/cricket"
)

// PlayerHistory is a player's aggregated statistics labelled with their current team.
type PlayerHistory struct {
	TeamName string `json:"team_name"`
	cricket.PlayerStats
}

// WithTeams labels every stats row with the player's team from teams. Players who never
// appeared in a squad get an empty team name.
func WithTeams(stats []cricket.PlayerStats, teams map[string]string) []PlayerHistory {
	rows := make([]PlayerHistory, 0, len(stats))
	for _, s := range stats {
		rows = append(rows, PlayerHistory{TeamName: teams[s.PlayerName], PlayerStats: s})
	}
	return rows
}

var historyHeader = []string{
	"team_name", "player_name", "role", "availability",
	"batting_matches", "batting_innings", "batting_runs", "batting_not_out", "batting_high_score",
	"batting_avg", "batting_strike_rate",
	"bowling_matches", "bowling_innings", "bowling_overs", "bowling_runs", "bowling_wickets",
	"bowling_economy", "bowling_strike_rate", "bowling_avg", "bowling_wides", "bowling_no_ball",
	"fielding_matches", "fielding_catches", "fielding_caught_behind", "fielding_run_out", "fielding_stumping",
}

// WriteHistoryCSV writes the rows with a header, team name first.
func WriteHistoryCSV(w io.Writer, rows []PlayerHistory) error {
	itoa := strconv.Itoa
	ftoa := func(v float64) string { return strconv.FormatFloat(v, 'f', 2, 64) }

	records := [][]string{historyHeader}
	for _, r := range rows {
		records = append(records, []string{
			r.TeamName, r.PlayerName, string(r.Role), strconv.FormatBool(r.Availability),
			itoa(r.BattingMatches), itoa(r.BattingInnings), itoa(r.BattingRuns), itoa(r.BattingNotOut), itoa(r.BattingHighScore),
			ftoa(r.BattingAvg), ftoa(r.BattingStrikeRate),
			itoa(r.BowlingMatches), itoa(r.BowlingInnings), ftoa(r.BowlingOvers), itoa(r.BowlingRuns), itoa(r.BowlingWickets),
			ftoa(r.BowlingEconomy), ftoa(r.BowlingStrikeRate), ftoa(r.BowlingAvg), itoa(r.BowlingWides), itoa(r.BowlingNoBall),
			itoa(r.FieldingMatches), itoa(r.FieldingCatches), itoa(r.FieldingCaughtBehind), itoa(r.FieldingRunOut), itoa(r.FieldingStumping),
		})
	}
	if err := csv.NewWriter(w).WriteAll(records); err != nil {
		return fmt.Errorf("failed to write player history csv: %w", err)
	}
	return nil
}
