package ledger

import (
	"math/rand"
	"testing"

	"github.com/mauv0809/crease/internal/cricket"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestFoldInnings(t *testing.T) {
	events := []BallEvent{
		{RunsOffBat: 1, LegalBall: true, ExtraType: cricket.ExtraNone},
		{Extras: 1, ExtraType: cricket.ExtraWide},
		{RunsOffBat: 6, LegalBall: true, ExtraType: cricket.ExtraNone},
		{Extras: 2, LegalBall: true, ExtraType: cricket.ExtraLegBye},
		{LegalBall: true, IsWicket: true, ExtraType: cricket.ExtraNone},
	}

	totals := FoldInnings(events)
	assert.Equal(t, InningsTotals{TotalRuns: 10, Wickets: 1, LegalBalls: 4}, totals)
	assert.Equal(t, cricket.InningsInProgress, totals.Status(1))

	assert.Equal(t, cricket.InningsCompleted, InningsTotals{LegalBalls: 6}.Status(1))
	assert.Equal(t, cricket.InningsCompleted, InningsTotals{Wickets: 10}.Status(20))
	assert.Equal(t, InningsTotals{}, FoldInnings(nil))
}

func TestMatchStatus(t *testing.T) {
	done := cricket.InningsCompleted
	open := cricket.InningsInProgress

	tests := []struct {
		name      string
		innings   []cricket.InningsStatus
		hasEvents bool
		want      cricket.MatchStatus
	}{
		{"no innings", nil, false, cricket.MatchScheduled},
		{"empty innings", []cricket.InningsStatus{open}, false, cricket.MatchScheduled},
		{"balls bowled", []cricket.InningsStatus{open}, true, cricket.MatchLive},
		{"first innings done", []cricket.InningsStatus{done}, true, cricket.MatchLive},
		{"second innings open", []cricket.InningsStatus{done, open}, true, cricket.MatchLive},
		{"both innings done", []cricket.InningsStatus{done, done}, true, cricket.MatchCompleted},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, MatchStatus(tt.innings, tt.hasEvents))
		})
	}
}

func TestFoldPlayerStats_AcrossInnings(t *testing.T) {
	innings := []Innings{
		{ID: 10, BattingTeamID: 1, BowlingTeamID: 2},
		{ID: 11, BattingTeamID: 1, BowlingTeamID: 2},
	}
	events := []BallEvent{
		{InningsID: 10, StrikerID: 100, NonStrikerID: 101, BowlerID: 200, RunsOffBat: 30, LegalBall: true},
		{InningsID: 10, StrikerID: 100, NonStrikerID: 101, BowlerID: 200, LegalBall: true, IsWicket: true, DismissedPlayerID: ptr(100), DismissalType: "caught"},
		{InningsID: 11, StrikerID: 100, NonStrikerID: 101, BowlerID: 201, RunsOffBat: 12, LegalBall: true},
		{InningsID: 99, StrikerID: 100, NonStrikerID: 101, BowlerID: 201, RunsOffBat: 50, LegalBall: true},
	}

	batting, bowling := FoldPlayerStats(7, innings, events)
	require.Len(t, batting, 2)
	require.Len(t, bowling, 2)

	top := batting[0]
	assert.Equal(t, int64(100), top.PlayerID)
	assert.Equal(t, int64(7), top.MatchID)
	assert.Equal(t, int64(1), top.TeamID)
	assert.Equal(t, 2, top.Innings)
	assert.Equal(t, 42, top.Runs, "events of unknown innings are ignored")
	assert.Equal(t, 30, top.HighestScore)
	assert.Equal(t, 1, top.NotOuts)
	assert.InDelta(t, 42.0, top.Average, 1e-9)

	partner := batting[1]
	assert.Equal(t, int64(101), partner.PlayerID)
	assert.Equal(t, 2, partner.Innings)
	assert.Equal(t, 0, partner.BallsFaced)
	assert.Equal(t, 0.0, partner.StrikeRate)

	assert.Equal(t, int64(200), bowling[0].PlayerID)
	assert.Equal(t, int64(2), bowling[0].TeamID)
	assert.Equal(t, 1, bowling[0].Wickets)
	assert.Equal(t, 1, bowling[1].Innings)
}

func ptr(v int64) *int64 { return &v }

// TestFoldPlayerStats_MatchesInningsTotals folds random logs and checks the per-player
// folds agree with the innings totals.
func TestFoldPlayerStats_MatchesInningsTotals(t *testing.T) {
	rng := rand.New(rand.NewSource(42))
	extraTypes := []cricket.ExtraType{cricket.ExtraNone, cricket.ExtraNone, cricket.ExtraNone, cricket.ExtraWide, cricket.ExtraNoBall, cricket.ExtraBye, cricket.ExtraLegBye}
	innings := []Innings{{ID: 1, BattingTeamID: 1, BowlingTeamID: 2}}

	for round := 0; round < 50; round++ {
		var events []BallEvent
		for i := rng.Intn(60); i > 0; i-- {
			e := BallEvent{
				InningsID:    1,
				StrikerID:    int64(10 + rng.Intn(3)),
				BowlerID:     int64(20 + rng.Intn(3)),
				ExtraType:    extraTypes[rng.Intn(len(extraTypes))],
				IsWicket:     rng.Intn(8) == 0,
				NonStrikerID: 13,
			}
			e.LegalBall = e.ExtraType.IsLegal()
			if e.ExtraType.AllowsRunsOffBat() {
				e.RunsOffBat = rng.Intn(7)
			}
			if e.ExtraType != cricket.ExtraNone {
				e.Extras = 1 + rng.Intn(4)
			}
			events = append(events, e)
		}

		totals := FoldInnings(events)
		batting, bowling := FoldPlayerStats(1, innings, events)

		runsOffBat, balls, conceded, byes, wickets := 0, 0, 0, 0, 0
		for _, b := range batting {
			runsOffBat += b.Runs
		}
		for _, b := range bowling {
			balls += b.BallsBowled
			conceded += b.RunsConceded
			wickets += b.Wickets
		}
		extras := 0
		for _, e := range events {
			extras += e.Extras
			if !e.ExtraType.ChargedToBowler() {
				byes += e.Extras
			}
		}

		assert.Equal(t, totals.LegalBalls, balls)
		assert.Equal(t, totals.TotalRuns, runsOffBat+extras)
		assert.Equal(t, totals.TotalRuns, conceded+byes)
		assert.Equal(t, totals.Wickets, wickets, "no run-outs in this log")
	}
}
