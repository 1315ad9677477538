package ledger

import (
	"context"
	"database/sql"
	"fmt"
	"strings"

	"github.com/charmbracelet/log"
	"github.com/mauv0809/crease/internal/cricket"
)

// New creates a Ledger backed by db.
func New(db *sql.DB) Ledger {
	return &store{
		db: db,
	}
}

// CreateMatchWithSquads creates both teams if needed, the match and both squads in one transaction.
func (s *store) CreateMatchWithSquads(ctx context.Context, setup MatchSetup) (int64, error) {
	if setup.TotalOvers <= 0 {
		return 0, ErrInvalidOvers
	}
	if len(setup.HomeSquad) == 0 {
		return 0, fmt.Errorf("home %w", ErrEmptySquad)
	}
	if len(setup.AwaySquad) == 0 {
		return 0, fmt.Errorf("away %w", ErrEmptySquad)
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	tx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		return 0, fmt.Errorf("failed to begin transaction: %w", err)
	}
	defer tx.Rollback()

	homeID, err := getOrCreateTeam(ctx, tx, setup.HomeTeam)
	if err != nil {
		return 0, err
	}
	awayID, err := getOrCreateTeam(ctx, tx, setup.AwayTeam)
	if err != nil {
		return 0, err
	}
	if homeID == awayID {
		return 0, fmt.Errorf("home and away %w", ErrSameTeams)
	}

	res, err := tx.ExecContext(ctx, "INSERT INTO matches (home_team_id, away_team_id, total_overs, status) VALUES (?, ?, ?, ?)",
		homeID, awayID, setup.TotalOvers, cricket.MatchScheduled)
	if err != nil {
		return 0, fmt.Errorf("failed to insert match: %w", err)
	}
	matchID, err := res.LastInsertId()
	if err != nil {
		return 0, fmt.Errorf("failed to read match id: %w", err)
	}

	if err := saveSquad(ctx, tx, matchID, homeID, setup.HomeSquad); err != nil {
		return 0, err
	}
	if err := saveSquad(ctx, tx, matchID, awayID, setup.AwaySquad); err != nil {
		return 0, err
	}

	if err := tx.Commit(); err != nil {
		return 0, fmt.Errorf("failed to commit match: %w", err)
	}
	log.Info("Created match", "matchID", matchID, "home", setup.HomeTeam, "away", setup.AwayTeam, "overs", setup.TotalOvers)
	return matchID, nil
}

func getOrCreateTeam(ctx context.Context, tx *sql.Tx, name string) (int64, error) {
	name = strings.TrimSpace(name)
	if name == "" {
		return 0, ErrTeamNameRequired
	}
	var id int64
	err := tx.QueryRowContext(ctx, "SELECT id FROM teams WHERE name = ? COLLATE NOCASE", name).Scan(&id)
	if err == nil {
		return id, nil
	}
	if err != sql.ErrNoRows {
		return 0, fmt.Errorf("failed to look up team %q: %w", name, err)
	}
	res, err := tx.ExecContext(ctx, "INSERT INTO teams (name) VALUES (?)", name)
	if err != nil {
		return 0, fmt.Errorf("failed to insert team %q: %w", name, err)
	}
	return res.LastInsertId()
}

// getOrCreatePlayer registers a player, updating their role when it changed.
func getOrCreatePlayer(ctx context.Context, tx *sql.Tx, name string, role cricket.Role) (int64, error) {
	var (
		id       int64
		existing string
	)
	err := tx.QueryRowContext(ctx, "SELECT id, role FROM players WHERE player_name = ? COLLATE NOCASE", name).Scan(&id, &existing)
	switch {
	case err == sql.ErrNoRows:
		res, err := tx.ExecContext(ctx, "INSERT INTO players (player_name, role) VALUES (?, ?)", name, role)
		if err != nil {
			return 0, fmt.Errorf("failed to insert player %q: %w", name, err)
		}
		return res.LastInsertId()
	case err != nil:
		return 0, fmt.Errorf("failed to look up player %q: %w", name, err)
	}

	if existing != string(role) {
		_, err := tx.ExecContext(ctx, "UPDATE players SET role = ?, updated_at = CURRENT_TIMESTAMP WHERE id = ?", role, id)
		if err != nil {
			return 0, fmt.Errorf("failed to update role of %q: %w", name, err)
		}
		log.Info("Updated player role", "player", name, "from", existing, "to", role)
	}
	return id, nil
}

// saveSquad records the squad of one team. Repeated names are ignored; a blank role means Batter.
func saveSquad(ctx context.Context, tx *sql.Tx, matchID, teamID int64, squad []SquadMember) error {
	seen := map[string]bool{}
	for _, member := range squad {
		name := strings.TrimSpace(member.PlayerName)
		if name == "" {
			return ErrPlayerNameRequired
		}
		key := strings.ToLower(name)
		if seen[key] {
			continue
		}
		seen[key] = true

		role := cricket.RoleBatter
		if strings.TrimSpace(member.Role) != "" {
			parsed, err := cricket.ParseRole(member.Role)
			if err != nil {
				return fmt.Errorf("player %q: %w", name, err)
			}
			role = parsed
		}

		playerID, err := getOrCreatePlayer(ctx, tx, name, role)
		if err != nil {
			return err
		}
		if _, err := tx.ExecContext(ctx, "INSERT OR IGNORE INTO team_players (team_id, player_id) VALUES (?, ?)", teamID, playerID); err != nil {
			return fmt.Errorf("failed to link player %q to team: %w", name, err)
		}
		if _, err := tx.ExecContext(ctx, "INSERT OR IGNORE INTO match_squads (match_id, team_id, player_id, is_playing_xi) VALUES (?, ?, ?, 1)", matchID, teamID, playerID); err != nil {
			return fmt.Errorf("failed to add player %q to squad: %w", name, err)
		}
	}
	return nil
}

// GetOrCreateInnings returns the innings numbered inningsNo of a match, creating it if it does not exist yet.
func (s *store) GetOrCreateInnings(ctx context.Context, matchID int64, inningsNo int, battingTeamID, bowlingTeamID int64) (int64, error) {
	if inningsNo != 1 && inningsNo != 2 {
		return 0, ErrInvalidInningsNo
	}
	if battingTeamID == bowlingTeamID {
		return 0, fmt.Errorf("batting and bowling %w", ErrSameTeams)
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	tx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		return 0, fmt.Errorf("failed to begin transaction: %w", err)
	}
	defer tx.Rollback()

	var homeID, awayID int64
	err = tx.QueryRowContext(ctx, "SELECT home_team_id, away_team_id FROM matches WHERE id = ?", matchID).Scan(&homeID, &awayID)
	if err == sql.ErrNoRows {
		return 0, ErrMatchNotFound
	}
	if err != nil {
		return 0, fmt.Errorf("failed to load match %d: %w", matchID, err)
	}
	for _, teamID := range []int64{battingTeamID, bowlingTeamID} {
		if teamID != homeID && teamID != awayID {
			return 0, fmt.Errorf("team %d: %w", teamID, ErrTeamNotInMatch)
		}
	}

	var id int64
	err = tx.QueryRowContext(ctx, "SELECT id FROM innings WHERE match_id = ? AND innings_no = ?", matchID, inningsNo).Scan(&id)
	if err == nil {
		return id, nil
	}
	if err != sql.ErrNoRows {
		return 0, fmt.Errorf("failed to look up innings: %w", err)
	}

	res, err := tx.ExecContext(ctx, "INSERT INTO innings (match_id, innings_no, batting_team_id, bowling_team_id, status) VALUES (?, ?, ?, ?, ?)",
		matchID, inningsNo, battingTeamID, bowlingTeamID, cricket.InningsInProgress)
	if err != nil {
		return 0, fmt.Errorf("failed to insert innings: %w", err)
	}
	if id, err = res.LastInsertId(); err != nil {
		return 0, fmt.Errorf("failed to read innings id: %w", err)
	}
	if err := tx.Commit(); err != nil {
		return 0, fmt.Errorf("failed to commit innings: %w", err)
	}
	log.Info("Created innings", "matchID", matchID, "inningsID", id, "inningsNo", inningsNo)
	return id, nil
}

// AppendEvent validates and records one delivery, then recomputes the match.
func (s *store) AppendEvent(ctx context.Context, in EventInput) (int64, error) {
	if in.RunsOffBat < 0 || in.Extras < 0 {
		return 0, ErrNegativeRuns
	}
	extraType, err := cricket.ParseExtraType(string(in.ExtraType))
	if err != nil {
		return 0, err
	}
	dismissal := cricket.NormalizeDismissal(in.DismissalType)

	s.mu.Lock()
	defer s.mu.Unlock()

	tx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		return 0, fmt.Errorf("failed to begin transaction: %w", err)
	}
	defer tx.Rollback()

	var (
		battingTeamID, bowlingTeamID int64
		legalBalls, wickets          int
		status                       string
		totalOvers                   int
	)
	err = tx.QueryRowContext(ctx, `
		SELECT i.batting_team_id, i.bowling_team_id, i.legal_balls, i.wickets, i.status, m.total_overs
		FROM innings i
		JOIN matches m ON m.id = i.match_id
		WHERE i.id = ? AND i.match_id = ?`, in.InningsID, in.MatchID).
		Scan(&battingTeamID, &bowlingTeamID, &legalBalls, &wickets, &status, &totalOvers)
	if err == sql.ErrNoRows {
		return 0, ErrInningsMismatch
	}
	if err != nil {
		return 0, fmt.Errorf("failed to load innings %d: %w", in.InningsID, err)
	}

	if cricket.InningsStatus(status) == cricket.InningsCompleted {
		return 0, ErrInningsCompleted
	}
	if wickets >= cricket.MaxWickets {
		return 0, ErrAllOut
	}
	if legalBalls >= totalOvers*cricket.BallsPerOver {
		return 0, ErrOversComplete
	}
	if in.StrikerID == in.NonStrikerID {
		return 0, ErrSameBatters
	}

	checks := []squadCheck{
		{"striker", in.StrikerID, battingTeamID},
		{"non-striker", in.NonStrikerID, battingTeamID},
		{"bowler", in.BowlerID, bowlingTeamID},
	}
	if in.DismissedPlayerID != nil {
		checks = append(checks, squadCheck{"dismissed player", *in.DismissedPlayerID, battingTeamID})
	}
	for _, c := range checks {
		ok, err := inSquad(ctx, tx, in.MatchID, c.teamID, c.playerID)
		if err != nil {
			return 0, err
		}
		if !ok {
			return 0, fmt.Errorf("%s %d: %w", c.label, c.playerID, ErrNotInSquad)
		}
	}

	if extraType == cricket.ExtraNone && in.Extras > 0 {
		return 0, ErrExtrasWithoutType
	}
	if !extraType.AllowsRunsOffBat() && in.RunsOffBat > 0 {
		return 0, ErrRunsOffBatNotAllowed
	}
	if !in.IsWicket && (dismissal != "" || in.DismissedPlayerID != nil) {
		return 0, ErrDismissalWithoutWicket
	}

	var seq int
	if err := tx.QueryRowContext(ctx, "SELECT COALESCE(MAX(event_seq), 0) FROM ball_events WHERE innings_id = ?", in.InningsID).Scan(&seq); err != nil {
		return 0, fmt.Errorf("failed to read event sequence: %w", err)
	}
	seq++

	legal := extraType.IsLegal()
	overNo, ballInOver := cricket.BallPosition(legalBalls, legal)

	res, err := tx.ExecContext(ctx, `
		INSERT INTO ball_events (match_id, innings_id, event_seq, over_no, ball_in_over, legal_ball, striker_id, non_striker_id, bowler_id, runs_off_bat, extras, extra_type, is_wicket, dismissal_type, dismissed_player_id, notes)
		VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?)`,
		in.MatchID, in.InningsID, seq, overNo, ballInOver, boolInt(legal), in.StrikerID, in.NonStrikerID, in.BowlerID,
		in.RunsOffBat, in.Extras, extraType, boolInt(in.IsWicket), nullString(dismissal), nullInt(in.DismissedPlayerID), nullString(strings.TrimSpace(in.Notes)))
	if err != nil {
		return 0, fmt.Errorf("failed to insert ball event: %w", err)
	}
	eventID, err := res.LastInsertId()
	if err != nil {
		return 0, fmt.Errorf("failed to read event id: %w", err)
	}

	if err := recomputeMatch(ctx, tx, in.MatchID); err != nil {
		return 0, fmt.Errorf("failed to recompute match %d: %w", in.MatchID, err)
	}
	if err := tx.Commit(); err != nil {
		return 0, fmt.Errorf("failed to commit ball event: %w", err)
	}
	log.Info("Recorded ball event", "inningsID", in.InningsID, "seq", seq, "ball", fmt.Sprintf("%d.%d", overNo, ballInOver), "runs", in.RunsOffBat+in.Extras)
	return eventID, nil
}

type squadCheck struct {
	label    string
	playerID int64
	teamID   int64
}

func inSquad(ctx context.Context, tx *sql.Tx, matchID, teamID, playerID int64) (bool, error) {
	var one int
	err := tx.QueryRowContext(ctx, "SELECT 1 FROM match_squads WHERE match_id = ? AND team_id = ? AND player_id = ? LIMIT 1",
		matchID, teamID, playerID).Scan(&one)
	if err == sql.ErrNoRows {
		return false, nil
	}
	if err != nil {
		return false, fmt.Errorf("failed to check squad membership: %w", err)
	}
	return true, nil
}

// UndoLastEvent deletes the most recent delivery of an innings and recomputes the match.
// It reports false when the innings has no events.
func (s *store) UndoLastEvent(ctx context.Context, inningsID int64) (bool, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	tx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		return false, fmt.Errorf("failed to begin transaction: %w", err)
	}
	defer tx.Rollback()

	var eventID, matchID int64
	var seq int
	err = tx.QueryRowContext(ctx, "SELECT id, match_id, event_seq FROM ball_events WHERE innings_id = ? ORDER BY event_seq DESC LIMIT 1", inningsID).
		Scan(&eventID, &matchID, &seq)
	if err == sql.ErrNoRows {
		return false, nil
	}
	if err != nil {
		return false, fmt.Errorf("failed to find last event: %w", err)
	}

	if _, err := tx.ExecContext(ctx, "DELETE FROM ball_events WHERE id = ?", eventID); err != nil {
		return false, fmt.Errorf("failed to delete event %d: %w", eventID, err)
	}
	if err := recomputeMatch(ctx, tx, matchID); err != nil {
		return false, fmt.Errorf("failed to recompute match %d: %w", matchID, err)
	}
	if err := tx.Commit(); err != nil {
		return false, fmt.Errorf("failed to commit undo: %w", err)
	}
	log.Info("Undid ball event", "inningsID", inningsID, "seq", seq)
	return true, nil
}

// Recompute rebuilds the derived state of a match from its event log.
func (s *store) Recompute(ctx context.Context, matchID int64) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	tx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		return fmt.Errorf("failed to begin transaction: %w", err)
	}
	defer tx.Rollback()

	if err := recomputeMatch(ctx, tx, matchID); err != nil {
		return err
	}
	return tx.Commit()
}

// DeactivatePlayer hides a player from aggregated statistics. The player's history is kept.
func (s *store) DeactivatePlayer(ctx context.Context, playerName string) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	res, err := s.db.ExecContext(ctx, "UPDATE players SET is_active = 0, updated_at = CURRENT_TIMESTAMP WHERE player_name = ? COLLATE NOCASE",
		strings.TrimSpace(playerName))
	if err != nil {
		return fmt.Errorf("failed to deactivate player: %w", err)
	}
	n, err := res.RowsAffected()
	if err != nil {
		return err
	}
	if n == 0 {
		return fmt.Errorf("%w: %s", ErrPlayerNotFound, playerName)
	}
	log.Info("Deactivated player", "player", playerName)
	return nil
}

func boolInt(b bool) int {
	if b {
		return 1
	}
	return 0
}

func nullString(s string) sql.NullString {
	return sql.NullString{String: s, Valid: s != ""}
}

func nullInt(v *int64) sql.NullInt64 {
	if v == nil {
		return sql.NullInt64{}
	}
	return sql.NullInt64{Int64: *v, Valid: true}
}
