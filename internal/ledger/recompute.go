package ledger

import (
	"context"
	"database/sql"
	"fmt"
	"sort"

	"github.com/charmbracelet/log"
	"github.com/mauv0809/crease/internal/cricket"
)

// querier is satisfied by both *sql.DB and *sql.Tx.
type querier interface {
	ExecContext(ctx context.Context, query string, args ...any) (sql.Result, error)
	QueryContext(ctx context.Context, query string, args ...any) (*sql.Rows, error)
	QueryRowContext(ctx context.Context, query string, args ...any) *sql.Row
}

// InningsTotals are the running totals of one innings.
type InningsTotals struct {
	TotalRuns  int `json:"total_runs"`
	Wickets    int `json:"wickets"`
	LegalBalls int `json:"legal_balls"`
}

// FoldInnings derives an innings' totals from its events.
func FoldInnings(events []BallEvent) InningsTotals {
	var t InningsTotals
	for _, e := range events {
		t.TotalRuns += e.Runs()
		if e.LegalBall {
			t.LegalBalls++
		}
		if e.IsWicket {
			t.Wickets++
		}
	}
	return t
}

// Status is completed once the innings is all out or has used its overs.
func (t InningsTotals) Status(totalOvers int) cricket.InningsStatus {
	if t.Wickets >= cricket.MaxWickets || t.LegalBalls >= totalOvers*cricket.BallsPerOver {
		return cricket.InningsCompleted
	}
	return cricket.InningsInProgress
}

// MatchStatus derives a match's status from its innings statuses and whether any ball was bowled.
func MatchStatus(innings []cricket.InningsStatus, hasEvents bool) cricket.MatchStatus {
	completed := 0
	for _, s := range innings {
		if s == cricket.InningsCompleted {
			completed++
		}
	}
	switch {
	case len(innings) == 2 && completed == 2:
		return cricket.MatchCompleted
	case hasEvents:
		return cricket.MatchLive
	default:
		return cricket.MatchScheduled
	}
}

type batterTally struct {
	teamID     int64
	innings    map[int64]bool
	runs       int
	ballsFaced int
	fours      int
	sixes      int
	dismissals int
}

type bowlerTally struct {
	teamID       int64
	innings      map[int64]bool
	ballsBowled  int
	runsConceded int
	wickets      int
	wides        int
	noBalls      int
}

type inningsKey struct {
	playerID  int64
	inningsID int64
}

// FoldPlayerStats derives every player's batting and bowling for one match from the match's
// events, which must be ordered by innings and event sequence. Events of innings missing from
// innings are ignored. Both results are ordered by player id.
//
// A batter is credited with an innings when they face a ball, are at the non-striker's end or
// are dismissed. A batter never dismissed keeps their raw run total as their average.
func FoldPlayerStats(matchID int64, innings []Innings, events []BallEvent) ([]BattingStats, []BowlingStats) {
	sides := make(map[int64]Innings, len(innings))
	for _, in := range innings {
		sides[in.ID] = in
	}

	batters := map[int64]*batterTally{}
	bowlers := map[int64]*bowlerTally{}
	runsByInnings := map[inningsKey]int{}

	batter := func(playerID, teamID, inningsID int64) *batterTally {
		b, ok := batters[playerID]
		if !ok {
			b = &batterTally{teamID: teamID, innings: map[int64]bool{}}
			batters[playerID] = b
		}
		b.innings[inningsID] = true
		return b
	}

	for _, e := range events {
		side, ok := sides[e.InningsID]
		if !ok {
			continue
		}

		striker := batter(e.StrikerID, side.BattingTeamID, e.InningsID)
		striker.runs += e.RunsOffBat
		if e.LegalBall {
			striker.ballsFaced++
		}
		switch e.RunsOffBat {
		case 4:
			striker.fours++
		case 6:
			striker.sixes++
		}
		runsByInnings[inningsKey{e.StrikerID, e.InningsID}] += e.RunsOffBat

		batter(e.NonStrikerID, side.BattingTeamID, e.InningsID)
		if e.DismissedPlayerID != nil {
			batter(*e.DismissedPlayerID, side.BattingTeamID, e.InningsID).dismissals++
		}

		b, ok := bowlers[e.BowlerID]
		if !ok {
			b = &bowlerTally{teamID: side.BowlingTeamID, innings: map[int64]bool{}}
			bowlers[e.BowlerID] = b
		}
		b.innings[e.InningsID] = true
		if e.LegalBall {
			b.ballsBowled++
		}
		b.runsConceded += e.RunsOffBat
		if e.ExtraType.ChargedToBowler() {
			b.runsConceded += e.Extras
		}
		switch e.ExtraType {
		case cricket.ExtraWide:
			b.wides += e.Extras
		case cricket.ExtraNoBall:
			b.noBalls += e.Extras
		}
		if e.IsWicket && cricket.NormalizeDismissal(e.DismissalType) != cricket.DismissalRunOut {
			b.wickets++
		}
	}

	batting := make([]BattingStats, 0, len(batters))
	for playerID, b := range batters {
		highest := 0
		for inningsID := range b.innings {
			highest = max(highest, runsByInnings[inningsKey{playerID, inningsID}])
		}
		average := float64(b.runs)
		if b.dismissals > 0 {
			average = float64(b.runs) / float64(b.dismissals)
		}
		batting = append(batting, BattingStats{
			MatchID:      matchID,
			PlayerID:     playerID,
			TeamID:       b.teamID,
			Innings:      len(b.innings),
			Runs:         b.runs,
			BallsFaced:   b.ballsFaced,
			Fours:        b.fours,
			Sixes:        b.sixes,
			Dismissals:   b.dismissals,
			NotOuts:      max(len(b.innings)-b.dismissals, 0),
			HighestScore: highest,
			StrikeRate:   ratio(float64(b.runs)*100, b.ballsFaced),
			Average:      average,
		})
	}
	sort.Slice(batting, func(i, j int) bool { return batting[i].PlayerID < batting[j].PlayerID })

	bowling := make([]BowlingStats, 0, len(bowlers))
	for playerID, b := range bowlers {
		bowling = append(bowling, BowlingStats{
			MatchID:      matchID,
			PlayerID:     playerID,
			TeamID:       b.teamID,
			Innings:      len(b.innings),
			BallsBowled:  b.ballsBowled,
			RunsConceded: b.runsConceded,
			Wickets:      b.wickets,
			Wides:        b.wides,
			NoBalls:      b.noBalls,
			Overs:        float64(b.ballsBowled) / cricket.BallsPerOver,
			Economy:      ratio(float64(b.runsConceded)*cricket.BallsPerOver, b.ballsBowled),
			StrikeRate:   ratio(float64(b.ballsBowled), b.wickets),
			Average:      ratio(float64(b.runsConceded), b.wickets),
		})
	}
	sort.Slice(bowling, func(i, j int) bool { return bowling[i].PlayerID < bowling[j].PlayerID })

	return batting, bowling
}

// ratio is n/d, or 0 when d is 0.
func ratio(n float64, d int) float64 {
	if d == 0 {
		return 0
	}
	return n / float64(d)
}

// recomputeMatch rewrites every derived row of a match from its event log.
func recomputeMatch(ctx context.Context, q querier, matchID int64) error {
	var totalOvers int
	err := q.QueryRowContext(ctx, "SELECT total_overs FROM matches WHERE id = ?", matchID).Scan(&totalOvers)
	if err == sql.ErrNoRows {
		return ErrMatchNotFound
	}
	if err != nil {
		return fmt.Errorf("failed to load match %d: %w", matchID, err)
	}

	innings, err := listInnings(ctx, q, matchID)
	if err != nil {
		return err
	}
	events, err := matchEvents(ctx, q, matchID)
	if err != nil {
		return err
	}

	byInnings := map[int64][]BallEvent{}
	for _, e := range events {
		byInnings[e.InningsID] = append(byInnings[e.InningsID], e)
	}

	statuses := make([]cricket.InningsStatus, 0, len(innings))
	for _, in := range innings {
		totals := FoldInnings(byInnings[in.ID])
		status := totals.Status(totalOvers)
		statuses = append(statuses, status)
		_, err := q.ExecContext(ctx, `
			UPDATE innings
			SET total_runs = ?, wickets = ?, legal_balls = ?, status = ?, updated_at = CURRENT_TIMESTAMP
			WHERE id = ?`,
			totals.TotalRuns, totals.Wickets, totals.LegalBalls, status, in.ID)
		if err != nil {
			return fmt.Errorf("failed to update innings %d: %w", in.ID, err)
		}
	}

	status := MatchStatus(statuses, len(events) > 0)
	if _, err := q.ExecContext(ctx, "UPDATE matches SET status = ?, updated_at = CURRENT_TIMESTAMP WHERE id = ?", status, matchID); err != nil {
		return fmt.Errorf("failed to update match status: %w", err)
	}

	batting, bowling := FoldPlayerStats(matchID, innings, events)
	if err := replacePlayerStats(ctx, q, matchID, batting, bowling); err != nil {
		return err
	}

	log.Debug("Recomputed match", "matchID", matchID, "status", status, "events", len(events))
	return nil
}

func replacePlayerStats(ctx context.Context, q querier, matchID int64, batting []BattingStats, bowling []BowlingStats) error {
	if _, err := q.ExecContext(ctx, "DELETE FROM player_match_batting_stats WHERE match_id = ?", matchID); err != nil {
		return fmt.Errorf("failed to clear batting stats: %w", err)
	}
	if _, err := q.ExecContext(ctx, "DELETE FROM player_match_bowling_stats WHERE match_id = ?", matchID); err != nil {
		return fmt.Errorf("failed to clear bowling stats: %w", err)
	}

	for _, s := range batting {
		_, err := q.ExecContext(ctx, `
			INSERT INTO player_match_batting_stats (match_id, player_id, team_id, innings, runs, balls_faced, fours, sixes, dismissals, not_outs, highest_score, strike_rate, average)
			VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?)`,
			s.MatchID, s.PlayerID, s.TeamID, s.Innings, s.Runs, s.BallsFaced, s.Fours, s.Sixes, s.Dismissals, s.NotOuts, s.HighestScore, s.StrikeRate, s.Average)
		if err != nil {
			return fmt.Errorf("failed to insert batting stats for player %d: %w", s.PlayerID, err)
		}
	}
	for _, s := range bowling {
		_, err := q.ExecContext(ctx, `
			INSERT INTO player_match_bowling_stats (match_id, player_id, team_id, innings, balls_bowled, runs_conceded, wickets, wides, no_balls, overs, economy, strike_rate, average)
			VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?)`,
			s.MatchID, s.PlayerID, s.TeamID, s.Innings, s.BallsBowled, s.RunsConceded, s.Wickets, s.Wides, s.NoBalls, s.Overs, s.Economy, s.StrikeRate, s.Average)
		if err != nil {
			return fmt.Errorf("failed to insert bowling stats for player %d: %w", s.PlayerID, err)
		}
	}
	return nil
}
