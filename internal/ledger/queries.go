package ledger

import (
	"context"
	"database/sql"
	"fmt"

	"github.com/mauv0809/crease/internal/cricket"
)

// DefaultEventLimit is how many events GetBallEvents returns when no limit is given.
const DefaultEventLimit = 48

const matchColumns = `
	SELECT m.id, m.total_overs, m.status, m.created_at, m.updated_at,
		ht.id, ht.name, at.id, at.name
	FROM matches m
	JOIN teams ht ON ht.id = m.home_team_id
	JOIN teams at ON at.id = m.away_team_id`

const inningsColumns = `
	SELECT i.id, i.match_id, i.innings_no, i.batting_team_id, bt.name, i.bowling_team_id, bw.name,
		i.total_runs, i.wickets, i.legal_balls, i.status
	FROM innings i
	JOIN teams bt ON bt.id = i.batting_team_id
	JOIN teams bw ON bw.id = i.bowling_team_id`

const eventColumns = `e.id, e.match_id, e.innings_id, e.event_seq, e.over_no, e.ball_in_over, e.legal_ball,
	e.striker_id, e.non_striker_id, e.bowler_id, e.runs_off_bat, e.extras, e.extra_type, e.is_wicket,
	e.dismissal_type, e.dismissed_player_id, e.notes`

type scanner interface{ Scan(...any) error }

func scanMatch(row scanner) (*Match, error) {
	var m Match
	err := row.Scan(&m.ID, &m.TotalOvers, &m.Status, &m.CreatedAt, &m.UpdatedAt,
		&m.HomeTeamID, &m.HomeTeamName, &m.AwayTeamID, &m.AwayTeamName)
	if err != nil {
		return nil, err
	}
	return &m, nil
}

func scanInnings(row scanner) (*Innings, error) {
	var in Innings
	err := row.Scan(&in.ID, &in.MatchID, &in.InningsNo, &in.BattingTeamID, &in.BattingTeamName,
		&in.BowlingTeamID, &in.BowlingTeamName, &in.TotalRuns, &in.Wickets, &in.LegalBalls, &in.Status)
	if err != nil {
		return nil, err
	}
	return &in, nil
}

// scanEvent scans the eventColumns followed by any extra destinations.
func scanEvent(row scanner, extra ...any) (BallEvent, error) {
	var (
		e         BallEvent
		dismissal sql.NullString
		dismissed sql.NullInt64
		notes     sql.NullString
	)
	dest := []any{&e.ID, &e.MatchID, &e.InningsID, &e.EventSeq, &e.OverNo, &e.BallInOver, &e.LegalBall,
		&e.StrikerID, &e.NonStrikerID, &e.BowlerID, &e.RunsOffBat, &e.Extras, &e.ExtraType, &e.IsWicket,
		&dismissal, &dismissed, &notes}
	if err := row.Scan(append(dest, extra...)...); err != nil {
		return BallEvent{}, err
	}
	e.DismissalType = dismissal.String
	e.Notes = notes.String
	if dismissed.Valid {
		id := dismissed.Int64
		e.DismissedPlayerID = &id
	}
	return e, nil
}

func listInnings(ctx context.Context, q querier, matchID int64) ([]Innings, error) {
	rows, err := q.QueryContext(ctx, inningsColumns+" WHERE i.match_id = ? ORDER BY i.innings_no", matchID)
	if err != nil {
		return nil, fmt.Errorf("failed to list innings: %w", err)
	}
	defer rows.Close()

	var innings []Innings
	for rows.Next() {
		in, err := scanInnings(rows)
		if err != nil {
			return nil, fmt.Errorf("failed to scan innings: %w", err)
		}
		innings = append(innings, *in)
	}
	return innings, rows.Err()
}

// matchEvents returns every event of a match ordered by innings and sequence.
func matchEvents(ctx context.Context, q querier, matchID int64) ([]BallEvent, error) {
	rows, err := q.QueryContext(ctx, "SELECT "+eventColumns+" FROM ball_events e WHERE e.match_id = ? ORDER BY e.innings_id, e.event_seq", matchID)
	if err != nil {
		return nil, fmt.Errorf("failed to load events: %w", err)
	}
	defer rows.Close()

	var events []BallEvent
	for rows.Next() {
		e, err := scanEvent(rows)
		if err != nil {
			return nil, fmt.Errorf("failed to scan event: %w", err)
		}
		events = append(events, e)
	}
	return events, rows.Err()
}

func (s *store) GetMatch(ctx context.Context, matchID int64) (*Match, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	m, err := scanMatch(s.db.QueryRowContext(ctx, matchColumns+" WHERE m.id = ?", matchID))
	if err == sql.ErrNoRows {
		return nil, ErrMatchNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("failed to get match %d: %w", matchID, err)
	}
	return m, nil
}

// ListMatches returns every match, newest first.
func (s *store) ListMatches(ctx context.Context) ([]Match, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	rows, err := s.db.QueryContext(ctx, matchColumns+" ORDER BY m.id DESC")
	if err != nil {
		return nil, fmt.Errorf("failed to list matches: %w", err)
	}
	defer rows.Close()

	matches := []Match{}
	for rows.Next() {
		m, err := scanMatch(rows)
		if err != nil {
			return nil, fmt.Errorf("failed to scan match: %w", err)
		}
		matches = append(matches, *m)
	}
	return matches, rows.Err()
}

func (s *store) GetInnings(ctx context.Context, inningsID int64) (*Innings, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	in, err := scanInnings(s.db.QueryRowContext(ctx, inningsColumns+" WHERE i.id = ?", inningsID))
	if err == sql.ErrNoRows {
		return nil, ErrInningsNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("failed to get innings %d: %w", inningsID, err)
	}
	return in, nil
}

// ListInningsForMatch returns the innings of a match in playing order.
func (s *store) ListInningsForMatch(ctx context.Context, matchID int64) ([]Innings, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	innings, err := listInnings(ctx, s.db, matchID)
	if innings == nil && err == nil {
		innings = []Innings{}
	}
	return innings, err
}

// GetBallEvents returns up to limit of the most recent events of an innings, newest first,
// with player names filled in. A limit of 0 or less means DefaultEventLimit.
func (s *store) GetBallEvents(ctx context.Context, inningsID int64, limit int) ([]BallEvent, error) {
	if limit <= 0 {
		limit = DefaultEventLimit
	}

	s.mu.RLock()
	defer s.mu.RUnlock()

	rows, err := s.db.QueryContext(ctx, `
		SELECT `+eventColumns+`, sp.player_name, nsp.player_name, bp.player_name, dp.player_name
		FROM ball_events e
		JOIN players sp ON sp.id = e.striker_id
		JOIN players nsp ON nsp.id = e.non_striker_id
		JOIN players bp ON bp.id = e.bowler_id
		LEFT JOIN players dp ON dp.id = e.dismissed_player_id
		WHERE e.innings_id = ?
		ORDER BY e.event_seq DESC
		LIMIT ?`, inningsID, limit)
	if err != nil {
		return nil, fmt.Errorf("failed to get ball events: %w", err)
	}
	defer rows.Close()

	events := []BallEvent{}
	for rows.Next() {
		var dismissedName sql.NullString
		e, err := scanEventWithNames(rows, &dismissedName)
		if err != nil {
			return nil, fmt.Errorf("failed to scan ball event: %w", err)
		}
		e.DismissedPlayerName = dismissedName.String
		events = append(events, e)
	}
	return events, rows.Err()
}

func scanEventWithNames(row scanner, dismissedName *sql.NullString) (BallEvent, error) {
	var striker, nonStriker, bowler string
	e, err := scanEvent(row, &striker, &nonStriker, &bowler, dismissedName)
	if err != nil {
		return BallEvent{}, err
	}
	e.StrikerName, e.NonStrikerName, e.BowlerName = striker, nonStriker, bowler
	return e, nil
}

// GetMatchBattingStats returns the batting of a match grouped by team, top scorers first.
func (s *store) GetMatchBattingStats(ctx context.Context, matchID int64) ([]BattingStats, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	rows, err := s.db.QueryContext(ctx, `
		SELECT s.match_id, s.player_id, s.team_id, s.innings, s.runs, s.balls_faced, s.fours, s.sixes,
			s.dismissals, s.not_outs, s.highest_score, s.strike_rate, s.average,
			t.name, p.player_name, p.role
		FROM player_match_batting_stats s
		JOIN players p ON p.id = s.player_id
		JOIN teams t ON t.id = s.team_id
		WHERE s.match_id = ?
		ORDER BY t.name, s.runs DESC, p.player_name`, matchID)
	if err != nil {
		return nil, fmt.Errorf("failed to get batting stats: %w", err)
	}
	defer rows.Close()

	stats := []BattingStats{}
	for rows.Next() {
		var b BattingStats
		err := rows.Scan(&b.MatchID, &b.PlayerID, &b.TeamID, &b.Innings, &b.Runs, &b.BallsFaced, &b.Fours, &b.Sixes,
			&b.Dismissals, &b.NotOuts, &b.HighestScore, &b.StrikeRate, &b.Average,
			&b.TeamName, &b.PlayerName, &b.Role)
		if err != nil {
			return nil, fmt.Errorf("failed to scan batting stats: %w", err)
		}
		stats = append(stats, b)
	}
	return stats, rows.Err()
}

// GetMatchBowlingStats returns the bowling of a match grouped by team, best figures first.
func (s *store) GetMatchBowlingStats(ctx context.Context, matchID int64) ([]BowlingStats, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	rows, err := s.db.QueryContext(ctx, `
		SELECT s.match_id, s.player_id, s.team_id, s.innings, s.balls_bowled, s.runs_conceded, s.wickets,
			s.wides, s.no_balls, s.overs, s.economy, s.strike_rate, s.average,
			t.name, p.player_name, p.role
		FROM player_match_bowling_stats s
		JOIN players p ON p.id = s.player_id
		JOIN teams t ON t.id = s.team_id
		WHERE s.match_id = ?
		ORDER BY t.name, s.wickets DESC, s.economy ASC, p.player_name`, matchID)
	if err != nil {
		return nil, fmt.Errorf("failed to get bowling stats: %w", err)
	}
	defer rows.Close()

	stats := []BowlingStats{}
	for rows.Next() {
		var b BowlingStats
		err := rows.Scan(&b.MatchID, &b.PlayerID, &b.TeamID, &b.Innings, &b.BallsBowled, &b.RunsConceded, &b.Wickets,
			&b.Wides, &b.NoBalls, &b.Overs, &b.Economy, &b.StrikeRate, &b.Average,
			&b.TeamName, &b.PlayerName, &b.Role)
		if err != nil {
			return nil, fmt.Errorf("failed to scan bowling stats: %w", err)
		}
		stats = append(stats, b)
	}
	return stats, rows.Err()
}

// GetMatchSquads returns both squads of a match keyed by team name, players in name order.
func (s *store) GetMatchSquads(ctx context.Context, matchID int64) (map[string][]SquadPlayer, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	rows, err := s.db.QueryContext(ctx, `
		SELECT ms.team_id, t.name, p.id, p.player_name, p.role
		FROM match_squads ms
		JOIN players p ON p.id = ms.player_id
		JOIN teams t ON t.id = ms.team_id
		WHERE ms.match_id = ?
		ORDER BY t.name, p.player_name`, matchID)
	if err != nil {
		return nil, fmt.Errorf("failed to get squads: %w", err)
	}
	defer rows.Close()

	squads := map[string][]SquadPlayer{}
	for rows.Next() {
		var p SquadPlayer
		if err := rows.Scan(&p.TeamID, &p.TeamName, &p.PlayerID, &p.PlayerName, &p.Role); err != nil {
			return nil, fmt.Errorf("failed to scan squad player: %w", err)
		}
		squads[p.TeamName] = append(squads[p.TeamName], p)
	}
	return squads, rows.Err()
}

// GetPlayerTeamMap maps each player to the team they most recently played a match for.
func (s *store) GetPlayerTeamMap(ctx context.Context) (map[string]string, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	rows, err := s.db.QueryContext(ctx, `
		SELECT p.player_name, t.name
		FROM match_squads ms
		JOIN players p ON p.id = ms.player_id
		JOIN teams t ON t.id = ms.team_id
		ORDER BY ms.match_id, ms.id`)
	if err != nil {
		return nil, fmt.Errorf("failed to get player teams: %w", err)
	}
	defer rows.Close()

	teams := map[string]string{}
	for rows.Next() {
		var player, team string
		if err := rows.Scan(&player, &team); err != nil {
			return nil, fmt.Errorf("failed to scan player team: %w", err)
		}
		teams[player] = team
	}
	return teams, rows.Err()
}

type battingTotals struct {
	matches, innings, runs, notOuts, highScore, ballsFaced, dismissals int
}

type bowlingTotals struct {
	matches, innings, balls, runs, wickets, wides, noBalls int
}

// LoadPlayerStats sums every active player's per-match statistics into season-to-date stats,
// ordered by player name. Fielding is not scored ball-by-ball and stays zero.
func (s *store) LoadPlayerStats(ctx context.Context) ([]cricket.PlayerStats, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	batting := map[int64]battingTotals{}
	rows, err := s.db.QueryContext(ctx, `
		SELECT player_id, COUNT(*), COALESCE(SUM(innings), 0), COALESCE(SUM(runs), 0), COALESCE(SUM(not_outs), 0),
			COALESCE(MAX(highest_score), 0), COALESCE(SUM(balls_faced), 0), COALESCE(SUM(dismissals), 0)
		FROM player_match_batting_stats
		GROUP BY player_id`)
	if err != nil {
		return nil, fmt.Errorf("failed to aggregate batting: %w", err)
	}
	for rows.Next() {
		var id int64
		var t battingTotals
		if err := rows.Scan(&id, &t.matches, &t.innings, &t.runs, &t.notOuts, &t.highScore, &t.ballsFaced, &t.dismissals); err != nil {
			rows.Close()
			return nil, fmt.Errorf("failed to scan batting totals: %w", err)
		}
		batting[id] = t
	}
	rows.Close()
	if err := rows.Err(); err != nil {
		return nil, err
	}

	bowling := map[int64]bowlingTotals{}
	rows, err = s.db.QueryContext(ctx, `
		SELECT player_id, COUNT(*), COALESCE(SUM(innings), 0), COALESCE(SUM(balls_bowled), 0), COALESCE(SUM(runs_conceded), 0),
			COALESCE(SUM(wickets), 0), COALESCE(SUM(wides), 0), COALESCE(SUM(no_balls), 0)
		FROM player_match_bowling_stats
		GROUP BY player_id`)
	if err != nil {
		return nil, fmt.Errorf("failed to aggregate bowling: %w", err)
	}
	for rows.Next() {
		var id int64
		var t bowlingTotals
		if err := rows.Scan(&id, &t.matches, &t.innings, &t.balls, &t.runs, &t.wickets, &t.wides, &t.noBalls); err != nil {
			rows.Close()
			return nil, fmt.Errorf("failed to scan bowling totals: %w", err)
		}
		bowling[id] = t
	}
	rows.Close()
	if err := rows.Err(); err != nil {
		return nil, err
	}

	rows, err = s.db.QueryContext(ctx, "SELECT id, player_name, role FROM players WHERE is_active = 1 ORDER BY player_name")
	if err != nil {
		return nil, fmt.Errorf("failed to list players: %w", err)
	}
	defer rows.Close()

	stats := []cricket.PlayerStats{}
	for rows.Next() {
		var id int64
		var name, role string
		if err := rows.Scan(&id, &name, &role); err != nil {
			return nil, fmt.Errorf("failed to scan player: %w", err)
		}
		stats = append(stats, aggregate(name, cricket.Role(role), batting[id], bowling[id]))
	}
	return stats, rows.Err()
}

func aggregate(name string, role cricket.Role, bat battingTotals, bowl bowlingTotals) cricket.PlayerStats {
	battingAvg := float64(bat.runs)
	if bat.dismissals > 0 {
		battingAvg = float64(bat.runs) / float64(bat.dismissals)
	}
	return cricket.PlayerStats{
		PlayerName:   name,
		Role:         role,
		Availability: true,

		BattingMatches:    bat.matches,
		BattingInnings:    bat.innings,
		BattingRuns:       bat.runs,
		BattingNotOut:     bat.notOuts,
		BattingHighScore:  bat.highScore,
		BattingAvg:        battingAvg,
		BattingStrikeRate: ratio(float64(bat.runs)*100, bat.ballsFaced),

		BowlingMatches:    bowl.matches,
		BowlingInnings:    bowl.innings,
		BowlingOvers:      float64(bowl.balls) / cricket.BallsPerOver,
		BowlingRuns:       bowl.runs,
		BowlingWickets:    bowl.wickets,
		BowlingEconomy:    ratio(float64(bowl.runs)*cricket.BallsPerOver, bowl.balls),
		BowlingStrikeRate: ratio(float64(bowl.balls), bowl.wickets),
		BowlingAvg:        ratio(float64(bowl.runs), bowl.wickets),
		BowlingWides:      bowl.wides,
		BowlingNoBall:     bowl.noBalls,
	}
}
