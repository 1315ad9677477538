package ledger_test

import (
	"context"
	"database/sql"
	"testing"

	"github.com/mauv0809/crease/internal/cricket"
	"github.com/mauv0809/crease/internal/database"
	"github.com/mauv0809/crease/internal/ledger"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// setupTestDB creates an in-memory SQLite database for testing.
func setupTestDB(t *testing.T) (ledger.Ledger, *sql.DB) {
	t.Helper()

	db, teardown, err := database.InitDB(":memory:", "", "")
	require.NoError(t, err)
	t.Cleanup(teardown)

	return ledger.New(db), db
}

// fixture is a match between Lions (batting first) and Tigers with the first innings created.
type fixture struct {
	matchID   int64
	inningsID int64
	lions     int64
	tigers    int64
	players   map[string]int64
}

func defaultSetup(overs int) ledger.MatchSetup {
	return ledger.MatchSetup{
		HomeTeam:   "Lions",
		AwayTeam:   "Tigers",
		TotalOvers: overs,
		HomeSquad: []ledger.SquadMember{
			{PlayerName: "Asha", Role: "Batter"},
			{PlayerName: "Bilal", Role: "Wicket Keeper"},
			{PlayerName: "Chen", Role: "Bowler"},
		},
		AwaySquad: []ledger.SquadMember{
			{PlayerName: "Xavi", Role: "Bowler"},
			{PlayerName: "Yusuf", Role: "All-rounder"},
			{PlayerName: "Zara", Role: "Batter"},
		},
	}
}

func newFixture(t *testing.T, l ledger.Ledger, overs int) fixture {
	t.Helper()
	ctx := context.Background()

	matchID, err := l.CreateMatchWithSquads(ctx, defaultSetup(overs))
	require.NoError(t, err)

	match, err := l.GetMatch(ctx, matchID)
	require.NoError(t, err)

	squads, err := l.GetMatchSquads(ctx, matchID)
	require.NoError(t, err)
	players := map[string]int64{}
	for _, squad := range squads {
		for _, p := range squad {
			players[p.PlayerName] = p.PlayerID
		}
	}

	inningsID, err := l.GetOrCreateInnings(ctx, matchID, 1, match.HomeTeamID, match.AwayTeamID)
	require.NoError(t, err)

	return fixture{
		matchID:   matchID,
		inningsID: inningsID,
		lions:     match.HomeTeamID,
		tigers:    match.AwayTeamID,
		players:   players,
	}
}

// ball is a delivery from Xavi to Asha with Bilal at the other end, unless overridden.
func (f fixture) ball(runs int) ledger.EventInput {
	return ledger.EventInput{
		MatchID:      f.matchID,
		InningsID:    f.inningsID,
		StrikerID:    f.players["Asha"],
		NonStrikerID: f.players["Bilal"],
		BowlerID:     f.players["Xavi"],
		RunsOffBat:   runs,
		ExtraType:    cricket.ExtraNone,
	}
}

func (f fixture) extra(extraType cricket.ExtraType, extras int) ledger.EventInput {
	in := f.ball(0)
	in.ExtraType = extraType
	in.Extras = extras
	return in
}

func mustAppend(t *testing.T, l ledger.Ledger, in ledger.EventInput) int64 {
	t.Helper()
	id, err := l.AppendEvent(context.Background(), in)
	require.NoError(t, err)
	return id
}

func mustInnings(t *testing.T, l ledger.Ledger, inningsID int64) *ledger.Innings {
	t.Helper()
	in, err := l.GetInnings(context.Background(), inningsID)
	require.NoError(t, err)
	return in
}

func ptr(v int64) *int64 { return &v }

func TestCreateMatchWithSquads(t *testing.T) {
	ctx := context.Background()

	t.Run("creates teams, players and squads", func(t *testing.T) {
		l, _ := setupTestDB(t)
		f := newFixture(t, l, 20)

		match, err := l.GetMatch(ctx, f.matchID)
		require.NoError(t, err)
		assert.Equal(t, "Lions", match.HomeTeamName)
		assert.Equal(t, "Tigers", match.AwayTeamName)
		assert.Equal(t, 20, match.TotalOvers)
		assert.Equal(t, cricket.MatchScheduled, match.Status)

		squads, err := l.GetMatchSquads(ctx, f.matchID)
		require.NoError(t, err)
		require.Len(t, squads["Lions"], 3)
		require.Len(t, squads["Tigers"], 3)
		assert.Equal(t, "Asha", squads["Lions"][0].PlayerName)
		assert.Equal(t, cricket.RoleWicketKeeper, squads["Lions"][1].Role)
		assert.Equal(t, cricket.RoleAllrounder, squads["Tigers"][1].Role)
	})

	t.Run("reuses teams and players case-insensitively", func(t *testing.T) {
		l, _ := setupTestDB(t)
		first := newFixture(t, l, 20)

		setup := defaultSetup(10)
		setup.HomeTeam = "lions"
		setup.HomeSquad = []ledger.SquadMember{
			{PlayerName: "asha", Role: "Allrounder"},
			{PlayerName: "ASHA", Role: "Bowler"},
			{PlayerName: "Dev", Role: ""},
		}
		matchID, err := l.CreateMatchWithSquads(ctx, setup)
		require.NoError(t, err)

		match, err := l.GetMatch(ctx, matchID)
		require.NoError(t, err)
		assert.Equal(t, first.lions, match.HomeTeamID)

		squads, err := l.GetMatchSquads(ctx, matchID)
		require.NoError(t, err)
		lions := squads["Lions"]
		require.Len(t, lions, 2, "repeated names are only added once")
		assert.Equal(t, first.players["Asha"], lions[0].PlayerID)
		assert.Equal(t, cricket.RoleAllrounder, lions[0].Role, "role follows the latest registration")
		assert.Equal(t, "Dev", lions[1].PlayerName)
		assert.Equal(t, cricket.RoleBatter, lions[1].Role, "blank role defaults to Batter")
	})

	t.Run("rejects invalid setups", func(t *testing.T) {
		tests := []struct {
			name   string
			modify func(*ledger.MatchSetup)
			want   error
		}{
			{"zero overs", func(s *ledger.MatchSetup) { s.TotalOvers = 0 }, ledger.ErrInvalidOvers},
			{"empty home squad", func(s *ledger.MatchSetup) { s.HomeSquad = nil }, ledger.ErrEmptySquad},
			{"empty away squad", func(s *ledger.MatchSetup) { s.AwaySquad = nil }, ledger.ErrEmptySquad},
			{"blank team name", func(s *ledger.MatchSetup) { s.AwayTeam = "  " }, ledger.ErrTeamNameRequired},
			{"same team", func(s *ledger.MatchSetup) { s.AwayTeam = "LIONS" }, ledger.ErrSameTeams},
			{"blank player name", func(s *ledger.MatchSetup) { s.HomeSquad[0].PlayerName = "" }, ledger.ErrPlayerNameRequired},
			{"unknown role", func(s *ledger.MatchSetup) { s.AwaySquad[0].Role = "Captain" }, ledger.ErrInvalidRole},
		}
		for _, tt := range tests {
			t.Run(tt.name, func(t *testing.T) {
				l, _ := setupTestDB(t)
				setup := defaultSetup(20)
				tt.modify(&setup)

				_, err := l.CreateMatchWithSquads(ctx, setup)
				assert.ErrorIs(t, err, tt.want)
				assert.True(t, ledger.IsValidation(err))

				matches, err := l.ListMatches(ctx)
				require.NoError(t, err)
				assert.Empty(t, matches, "a rejected setup writes nothing")
			})
		}
	})
}

func TestGetOrCreateInnings(t *testing.T) {
	ctx := context.Background()
	l, _ := setupTestDB(t)
	f := newFixture(t, l, 20)

	again, err := l.GetOrCreateInnings(ctx, f.matchID, 1, f.lions, f.tigers)
	require.NoError(t, err)
	assert.Equal(t, f.inningsID, again, "an innings is created at most once")

	in := mustInnings(t, l, f.inningsID)
	assert.Equal(t, "Lions", in.BattingTeamName)
	assert.Equal(t, "Tigers", in.BowlingTeamName)
	assert.Equal(t, cricket.InningsInProgress, in.Status)

	match, err := l.GetMatch(ctx, f.matchID)
	require.NoError(t, err)
	assert.Equal(t, cricket.MatchScheduled, match.Status, "an innings without balls does not start the match")

	_, err = l.GetOrCreateInnings(ctx, f.matchID, 3, f.tigers, f.lions)
	assert.ErrorIs(t, err, ledger.ErrInvalidInningsNo)

	_, err = l.GetOrCreateInnings(ctx, f.matchID, 2, f.tigers, f.tigers)
	assert.ErrorIs(t, err, ledger.ErrSameTeams)

	_, err = l.GetOrCreateInnings(ctx, f.matchID, 2, f.tigers, 999)
	assert.ErrorIs(t, err, ledger.ErrTeamNotInMatch)

	_, err = l.GetOrCreateInnings(ctx, 999, 2, f.tigers, f.lions)
	assert.ErrorIs(t, err, ledger.ErrMatchNotFound)

	second, err := l.GetOrCreateInnings(ctx, f.matchID, 2, f.tigers, f.lions)
	require.NoError(t, err)

	innings, err := l.ListInningsForMatch(ctx, f.matchID)
	require.NoError(t, err)
	require.Len(t, innings, 2)
	assert.Equal(t, f.inningsID, innings[0].ID)
	assert.Equal(t, second, innings[1].ID)
}

func TestAppendEvent_TwoOverScenario(t *testing.T) {
	ctx := context.Background()
	l, _ := setupTestDB(t)
	f := newFixture(t, l, 2)

	mustAppend(t, l, f.ball(1))
	mustAppend(t, l, f.extra(cricket.ExtraWide, 1))

	in := mustInnings(t, l, f.inningsID)
	assert.Equal(t, 1, in.LegalBalls, "a wide does not count toward the over")
	assert.Equal(t, 2, in.TotalRuns)

	mustAppend(t, l, f.ball(6))

	in = mustInnings(t, l, f.inningsID)
	assert.Equal(t, 2, in.LegalBalls)
	assert.Equal(t, 8, in.TotalRuns)

	match, err := l.GetMatch(ctx, f.matchID)
	require.NoError(t, err)
	assert.Equal(t, cricket.MatchLive, match.Status)

	undone, err := l.UndoLastEvent(ctx, f.inningsID)
	require.NoError(t, err)
	assert.True(t, undone)

	in = mustInnings(t, l, f.inningsID)
	assert.Equal(t, 1, in.LegalBalls)
	assert.Equal(t, 2, in.TotalRuns, "the single and the wide survive")

	undone, err = l.UndoLastEvent(ctx, f.inningsID)
	require.NoError(t, err)
	assert.True(t, undone)

	in = mustInnings(t, l, f.inningsID)
	assert.Equal(t, 1, in.LegalBalls)
	assert.Equal(t, 1, in.TotalRuns)
}

func TestAppendEvent_BallPositions(t *testing.T) {
	ctx := context.Background()
	l, _ := setupTestDB(t)
	f := newFixture(t, l, 5)

	for i := 0; i < 6; i++ {
		mustAppend(t, l, f.ball(0))
	}
	mustAppend(t, l, f.extra(cricket.ExtraWide, 1))
	mustAppend(t, l, f.extra(cricket.ExtraNoBall, 1))
	mustAppend(t, l, f.extra(cricket.ExtraLegBye, 2))

	events, err := l.GetBallEvents(ctx, f.inningsID, 3)
	require.NoError(t, err)
	require.Len(t, events, 3, "limit caps the number of events")

	legBye, noBall, wide := events[0], events[1], events[2]
	assert.Equal(t, 9, legBye.EventSeq)
	assert.Equal(t, "1.1", legBye.Label())
	assert.True(t, legBye.LegalBall)

	assert.Equal(t, "1.1", noBall.Label(), "a no-ball is stamped with the ball still to be bowled")
	assert.False(t, noBall.LegalBall)
	assert.Equal(t, "1.1", wide.Label())
	assert.False(t, wide.LegalBall)

	assert.Equal(t, "Asha", wide.StrikerName)
	assert.Equal(t, "Bilal", wide.NonStrikerName)
	assert.Equal(t, "Xavi", wide.BowlerName)

	all, err := l.GetBallEvents(ctx, f.inningsID, 0)
	require.NoError(t, err)
	require.Len(t, all, 9)
	assert.Equal(t, "0.6", all[3].Label())
	assert.Equal(t, 7, mustInnings(t, l, f.inningsID).LegalBalls)
}

func TestAppendEvent_SequenceStaysGapFree(t *testing.T) {
	ctx := context.Background()
	l, _ := setupTestDB(t)
	f := newFixture(t, l, 20)

	for cycle := 0; cycle < 4; cycle++ {
		mustAppend(t, l, f.ball(1))
		mustAppend(t, l, f.ball(2))
		mustAppend(t, l, f.extra(cricket.ExtraBye, 1))
		_, err := l.UndoLastEvent(ctx, f.inningsID)
		require.NoError(t, err)
		_, err = l.UndoLastEvent(ctx, f.inningsID)
		require.NoError(t, err)
	}

	events, err := l.GetBallEvents(ctx, f.inningsID, 100)
	require.NoError(t, err)
	require.Len(t, events, 4)
	for i, e := range events {
		assert.Equal(t, len(events)-i, e.EventSeq)
	}
	assert.Equal(t, 4, mustInnings(t, l, f.inningsID).TotalRuns)
}

func TestUndoLastEvent_EmptyLedger(t *testing.T) {
	l, _ := setupTestDB(t)
	f := newFixture(t, l, 20)

	undone, err := l.UndoLastEvent(context.Background(), f.inningsID)
	require.NoError(t, err)
	assert.False(t, undone)
}

func TestAppendEvent_OverLimitCompletesInnings(t *testing.T) {
	ctx := context.Background()
	l, _ := setupTestDB(t)
	f := newFixture(t, l, 1)

	for i := 0; i < 5; i++ {
		mustAppend(t, l, f.ball(1))
	}
	mustAppend(t, l, f.extra(cricket.ExtraWide, 1))
	assert.Equal(t, cricket.InningsInProgress, mustInnings(t, l, f.inningsID).Status)

	mustAppend(t, l, f.ball(4))
	in := mustInnings(t, l, f.inningsID)
	assert.Equal(t, cricket.InningsCompleted, in.Status)
	assert.Equal(t, 6, in.LegalBalls)
	assert.Equal(t, 10, in.TotalRuns)

	_, err := l.AppendEvent(ctx, f.ball(1))
	assert.ErrorIs(t, err, ledger.ErrInningsCompleted)
	assert.True(t, ledger.IsState(err))

	match, err := l.GetMatch(ctx, f.matchID)
	require.NoError(t, err)
	assert.Equal(t, cricket.MatchLive, match.Status, "one completed innings is not a completed match")

	// Undoing the last ball reopens the innings.
	_, err = l.UndoLastEvent(ctx, f.inningsID)
	require.NoError(t, err)
	assert.Equal(t, cricket.InningsInProgress, mustInnings(t, l, f.inningsID).Status)
	mustAppend(t, l, f.ball(4))

	second, err := l.GetOrCreateInnings(ctx, f.matchID, 2, f.tigers, f.lions)
	require.NoError(t, err)
	chase := ledger.EventInput{
		MatchID:      f.matchID,
		InningsID:    second,
		StrikerID:    f.players["Zara"],
		NonStrikerID: f.players["Yusuf"],
		BowlerID:     f.players["Chen"],
		RunsOffBat:   2,
	}
	for i := 0; i < 6; i++ {
		mustAppend(t, l, chase)
	}

	match, err = l.GetMatch(ctx, f.matchID)
	require.NoError(t, err)
	assert.Equal(t, cricket.MatchCompleted, match.Status)
}

func TestAppendEvent_TenWicketsCompletesInnings(t *testing.T) {
	ctx := context.Background()
	l, _ := setupTestDB(t)
	f := newFixture(t, l, 20)

	wicket := f.ball(0)
	wicket.IsWicket = true
	wicket.DismissalType = "bowled"
	for i := 0; i < cricket.MaxWickets; i++ {
		mustAppend(t, l, wicket)
	}

	in := mustInnings(t, l, f.inningsID)
	assert.Equal(t, 10, in.Wickets)
	assert.Equal(t, cricket.InningsCompleted, in.Status)

	_, err := l.AppendEvent(ctx, f.ball(1))
	assert.ErrorIs(t, err, ledger.ErrInningsCompleted)
}

func TestAppendEvent_Validation(t *testing.T) {
	ctx := context.Background()
	l, _ := setupTestDB(t)
	f := newFixture(t, l, 20)

	tests := []struct {
		name   string
		modify func(*ledger.EventInput)
		want   error
	}{
		{"negative runs", func(in *ledger.EventInput) { in.RunsOffBat = -1 }, ledger.ErrNegativeRuns},
		{"negative extras", func(in *ledger.EventInput) { in.Extras = -2 }, ledger.ErrNegativeRuns},
		{"unknown extra type", func(in *ledger.EventInput) { in.ExtraType = "penalty" }, ledger.ErrInvalidExtraType},
		{"innings of another match", func(in *ledger.EventInput) { in.MatchID = 999 }, ledger.ErrInningsMismatch},
		{"same batters", func(in *ledger.EventInput) { in.NonStrikerID = in.StrikerID }, ledger.ErrSameBatters},
		{"striker from the fielding side", func(in *ledger.EventInput) { in.StrikerID = f.players["Zara"] }, ledger.ErrNotInSquad},
		{"bowler from the batting side", func(in *ledger.EventInput) { in.BowlerID = f.players["Chen"] }, ledger.ErrNotInSquad},
		{"dismissed fielder", func(in *ledger.EventInput) {
			in.IsWicket = true
			in.DismissedPlayerID = ptr(f.players["Yusuf"])
		}, ledger.ErrNotInSquad},
		{"extras without type", func(in *ledger.EventInput) { in.Extras = 1 }, ledger.ErrExtrasWithoutType},
		{"runs off bat on a wide", func(in *ledger.EventInput) {
			in.ExtraType = cricket.ExtraWide
			in.Extras = 1
			in.RunsOffBat = 2
		}, ledger.ErrRunsOffBatNotAllowed},
		{"runs off bat on a bye", func(in *ledger.EventInput) {
			in.ExtraType = cricket.ExtraBye
			in.Extras = 1
			in.RunsOffBat = 1
		}, ledger.ErrRunsOffBatNotAllowed},
		{"dismissal without wicket", func(in *ledger.EventInput) { in.DismissalType = "caught" }, ledger.ErrDismissalWithoutWicket},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			in := f.ball(1)
			tt.modify(&in)

			_, err := l.AppendEvent(ctx, in)
			assert.ErrorIs(t, err, tt.want)
		})
	}

	events, err := l.GetBallEvents(ctx, f.inningsID, 0)
	require.NoError(t, err)
	assert.Empty(t, events, "rejected events are never written")

	noBall := f.extra(cricket.ExtraNoBall, 1)
	noBall.RunsOffBat = 4
	mustAppend(t, l, noBall)
	in := mustInnings(t, l, f.inningsID)
	assert.Equal(t, 5, in.TotalRuns, "runs off the bat count on a no-ball")
	assert.Equal(t, 0, in.LegalBalls)
}

func TestDerivedPlayerStats(t *testing.T) {
	ctx := context.Background()
	l, _ := setupTestDB(t)
	f := newFixture(t, l, 20)

	mustAppend(t, l, f.ball(4))
	mustAppend(t, l, f.ball(6))
	mustAppend(t, l, f.extra(cricket.ExtraWide, 2))
	mustAppend(t, l, f.extra(cricket.ExtraBye, 3))
	noBall := f.extra(cricket.ExtraNoBall, 1)
	noBall.RunsOffBat = 1
	mustAppend(t, l, noBall)

	caught := f.ball(0)
	caught.IsWicket = true
	caught.DismissalType = "caught"
	caught.DismissedPlayerID = ptr(f.players["Asha"])
	mustAppend(t, l, caught)

	runOut := f.ball(1)
	runOut.StrikerID = f.players["Chen"]
	runOut.BowlerID = f.players["Yusuf"]
	runOut.IsWicket = true
	runOut.DismissalType = "Run Out"
	runOut.DismissedPlayerID = ptr(f.players["Bilal"])
	mustAppend(t, l, runOut)

	in := mustInnings(t, l, f.inningsID)
	assert.Equal(t, 2, in.Wickets, "the run-out still counts against the innings")
	assert.Equal(t, 18, in.TotalRuns)

	batting, err := l.GetMatchBattingStats(ctx, f.matchID)
	require.NoError(t, err)
	byName := map[string]ledger.BattingStats{}
	for _, b := range batting {
		byName[b.PlayerName] = b
	}
	require.Len(t, byName, 3)

	asha := byName["Asha"]
	assert.Equal(t, "Lions", asha.TeamName)
	assert.Equal(t, 11, asha.Runs)
	assert.Equal(t, 4, asha.BallsFaced, "wides and no-balls are not balls faced")
	assert.Equal(t, 1, asha.Fours)
	assert.Equal(t, 1, asha.Sixes)
	assert.Equal(t, 1, asha.Dismissals)
	assert.Equal(t, 0, asha.NotOuts)
	assert.Equal(t, 11, asha.HighestScore)
	assert.InDelta(t, 275.0, asha.StrikeRate, 1e-9)
	assert.InDelta(t, 11.0, asha.Average, 1e-9)

	bilal := byName["Bilal"]
	assert.Equal(t, 1, bilal.Innings, "the non-striker has batted")
	assert.Equal(t, 0, bilal.Runs)
	assert.Equal(t, 1, bilal.Dismissals)

	chen := byName["Chen"]
	assert.Equal(t, 1, chen.Runs)
	assert.Equal(t, 1, chen.NotOuts)
	assert.InDelta(t, 1.0, chen.Average, 1e-9, "a batter never dismissed averages their raw runs")

	bowling, err := l.GetMatchBowlingStats(ctx, f.matchID)
	require.NoError(t, err)
	require.Len(t, bowling, 2)
	xavi, yusuf := bowling[0], bowling[1]
	assert.Equal(t, "Xavi", xavi.PlayerName)
	assert.Equal(t, "Tigers", xavi.TeamName)
	assert.Equal(t, 4, xavi.BallsBowled)
	assert.Equal(t, 14, xavi.RunsConceded, "byes are not charged to the bowler")
	assert.Equal(t, 1, xavi.Wickets)
	assert.Equal(t, 2, xavi.Wides)
	assert.Equal(t, 1, xavi.NoBalls)
	assert.InDelta(t, 4.0/6.0, xavi.Overs, 1e-9)
	assert.InDelta(t, 21.0, xavi.Economy, 1e-9)
	assert.InDelta(t, 4.0, xavi.StrikeRate, 1e-9)
	assert.InDelta(t, 14.0, xavi.Average, 1e-9)

	assert.Equal(t, "Yusuf", yusuf.PlayerName)
	assert.Equal(t, 0, yusuf.Wickets, "run-outs are not credited to the bowler")
	assert.Equal(t, 0.0, yusuf.StrikeRate)
	assert.Equal(t, 0.0, yusuf.Average)
}

// snapshot reads every column of the rows a recompute rewrites for a match. updated_at is
// skipped since every write bumps it.
func snapshot(t *testing.T, db *sql.DB, matchID int64) map[string][]map[string]any {
	t.Helper()
	queries := map[string]string{
		"matches":                    "SELECT * FROM matches WHERE id = ?",
		"innings":                    "SELECT * FROM innings WHERE match_id = ? ORDER BY innings_no",
		"player_match_batting_stats": "SELECT * FROM player_match_batting_stats WHERE match_id = ? ORDER BY player_id",
		"player_match_bowling_stats": "SELECT * FROM player_match_bowling_stats WHERE match_id = ? ORDER BY player_id",
	}
	out := map[string][]map[string]any{}
	for table, query := range queries {
		rows, err := db.Query(query, matchID)
		require.NoError(t, err)
		cols, err := rows.Columns()
		require.NoError(t, err)
		for rows.Next() {
			values := make([]any, len(cols))
			dest := make([]any, len(cols))
			for i := range values {
				dest[i] = &values[i]
			}
			require.NoError(t, rows.Scan(dest...))
			row := map[string]any{}
			for i, col := range cols {
				if col == "updated_at" {
					continue
				}
				if b, ok := values[i].([]byte); ok {
					values[i] = string(b)
				}
				row[col] = values[i]
			}
			out[table] = append(out[table], row)
		}
		require.NoError(t, rows.Err())
		rows.Close()
	}
	return out
}

func TestRecompute_IsIdempotent(t *testing.T) {
	ctx := context.Background()
	l, db := setupTestDB(t)
	f := newFixture(t, l, 20)

	mustAppend(t, l, f.ball(3))
	mustAppend(t, l, f.extra(cricket.ExtraLegBye, 1))
	wicket := f.ball(0)
	wicket.IsWicket = true
	wicket.DismissedPlayerID = ptr(f.players["Bilal"])
	mustAppend(t, l, wicket)

	before := snapshot(t, db, f.matchID)
	require.Len(t, before["innings"], 1)
	require.NotEmpty(t, before["player_match_batting_stats"])
	require.NotEmpty(t, before["player_match_bowling_stats"])
	assert.Len(t, before["innings"][0], 10, "every innings column but updated_at")

	require.NoError(t, l.Recompute(ctx, f.matchID))
	require.NoError(t, l.Recompute(ctx, f.matchID))

	assert.Equal(t, before, snapshot(t, db, f.matchID))

	assert.ErrorIs(t, l.Recompute(ctx, 999), ledger.ErrMatchNotFound)
}

func TestLoadPlayerStats(t *testing.T) {
	ctx := context.Background()
	l, _ := setupTestDB(t)
	f := newFixture(t, l, 20)

	mustAppend(t, l, f.ball(4))
	mustAppend(t, l, f.ball(2))
	out := f.ball(0)
	out.IsWicket = true
	out.DismissalType = "lbw"
	out.DismissedPlayerID = ptr(f.players["Asha"])
	mustAppend(t, l, out)

	stats, err := l.LoadPlayerStats(ctx)
	require.NoError(t, err)
	require.Len(t, stats, 6, "every active player is listed, even without a ball")

	byName := map[string]cricket.PlayerStats{}
	for _, s := range stats {
		byName[s.PlayerName] = s
	}

	asha := byName["Asha"]
	assert.True(t, asha.Availability)
	assert.Equal(t, cricket.RoleBatter, asha.Role)
	assert.Equal(t, 1, asha.BattingMatches)
	assert.Equal(t, 1, asha.BattingInnings)
	assert.Equal(t, 6, asha.BattingRuns)
	assert.Equal(t, 6, asha.BattingHighScore)
	assert.InDelta(t, 6.0, asha.BattingAvg, 1e-9)
	assert.InDelta(t, 200.0, asha.BattingStrikeRate, 1e-9)

	xavi := byName["Xavi"]
	assert.Equal(t, 1, xavi.BowlingInnings)
	assert.InDelta(t, 0.5, xavi.BowlingOvers, 1e-9)
	assert.Equal(t, 1, xavi.BowlingWickets)
	assert.InDelta(t, 12.0, xavi.BowlingEconomy, 1e-9)
	assert.InDelta(t, 3.0, xavi.BowlingStrikeRate, 1e-9)

	zara := byName["Zara"]
	assert.Equal(t, 0, zara.BattingInnings)
	assert.Equal(t, 0.0, zara.BattingAvg)

	require.NoError(t, l.DeactivatePlayer(ctx, "zara"))
	stats, err = l.LoadPlayerStats(ctx)
	require.NoError(t, err)
	assert.Len(t, stats, 5)

	assert.ErrorIs(t, l.DeactivatePlayer(ctx, "Nobody"), ledger.ErrPlayerNotFound)
}

func TestListMatchesAndTeamMap(t *testing.T) {
	ctx := context.Background()
	l, _ := setupTestDB(t)
	first := newFixture(t, l, 20)

	setup := defaultSetup(10)
	setup.HomeTeam = "Eagles"
	setup.HomeSquad = []ledger.SquadMember{{PlayerName: "Asha", Role: "Batter"}}
	second, err := l.CreateMatchWithSquads(ctx, setup)
	require.NoError(t, err)

	matches, err := l.ListMatches(ctx)
	require.NoError(t, err)
	require.Len(t, matches, 2)
	assert.Equal(t, second, matches[0].ID, "newest match first")
	assert.Equal(t, first.matchID, matches[1].ID)

	teams, err := l.GetPlayerTeamMap(ctx)
	require.NoError(t, err)
	assert.Equal(t, "Eagles", teams["Asha"], "players map to their most recent team")
	assert.Equal(t, "Lions", teams["Bilal"])
	assert.Equal(t, "Tigers", teams["Xavi"])

	_, err = l.GetMatch(ctx, 999)
	assert.ErrorIs(t, err, ledger.ErrMatchNotFound)
	_, err = l.GetInnings(ctx, 999)
	assert.ErrorIs(t, err, ledger.ErrInningsNotFound)
}
