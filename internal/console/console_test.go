package console_test

import (
	"context"
	"testing"

	"github.com/mauv0809/crease/internal/console"
	"github.com/mauv0809/crease/internal/cricket"
	"github.com/mauv0809/crease/internal/database"
	"github.com/mauv0809/crease/internal/ledger"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type fixture struct {
	ledger    ledger.Ledger
	console   *console.Console
	inningsID int64
	players   map[string]int64
}

func setup(t *testing.T) fixture {
	t.Helper()
	ctx := context.Background()

	db, teardown, err := database.InitDB(":memory:", "", "")
	require.NoError(t, err)
	t.Cleanup(teardown)
	l := ledger.New(db)

	matchID, err := l.CreateMatchWithSquads(ctx, ledger.MatchSetup{
		HomeTeam:   "Lions",
		AwayTeam:   "Tigers",
		TotalOvers: 2,
		HomeSquad: []ledger.SquadMember{
			{PlayerName: "Asha", Role: "Batter"},
			{PlayerName: "Bilal", Role: "Wicket Keeper"},
			{PlayerName: "Chen", Role: "Bowler"},
		},
		AwaySquad: []ledger.SquadMember{
			{PlayerName: "Xavi", Role: "Bowler"},
			{PlayerName: "Yusuf", Role: "Allrounder"},
		},
	})
	require.NoError(t, err)
	match, err := l.GetMatch(ctx, matchID)
	require.NoError(t, err)
	inningsID, err := l.GetOrCreateInnings(ctx, matchID, 1, match.HomeTeamID, match.AwayTeamID)
	require.NoError(t, err)

	squads, err := l.GetMatchSquads(ctx, matchID)
	require.NoError(t, err)
	players := map[string]int64{}
	for _, squad := range squads {
		for _, p := range squad {
			players[p.PlayerName] = p.PlayerID
		}
	}

	return fixture{ledger: l, console: console.New(l), inningsID: inningsID, players: players}
}

func (f fixture) record(t *testing.T, code string) console.State {
	t.Helper()
	b, err := console.ParseQuick(code)
	require.NoError(t, err)
	_, st, err := f.console.Record(context.Background(), f.inningsID, b)
	require.NoError(t, err)
	return st
}

func TestConsole_DefaultState(t *testing.T) {
	f := setup(t)

	st, err := f.console.State(context.Background(), f.inningsID)
	require.NoError(t, err)
	assert.Equal(t, f.players["Asha"], st.StrikerID)
	assert.Equal(t, f.players["Bilal"], st.NonStrikerID)
	assert.Equal(t, f.players["Xavi"], st.BowlerID)
	assert.False(t, st.NeedsNewBatter)

	_, err = f.console.State(context.Background(), 999)
	assert.ErrorIs(t, err, ledger.ErrInningsNotFound)
}

func TestConsole_StrikeRotation(t *testing.T) {
	f := setup(t)
	asha, bilal := f.players["Asha"], f.players["Bilal"]

	st := f.record(t, "1")
	assert.Equal(t, bilal, st.StrikerID, "odd runs change ends")

	st = f.record(t, "2")
	assert.Equal(t, bilal, st.StrikerID, "even runs keep the strike")

	st = f.record(t, "wd")
	assert.Equal(t, asha, st.StrikerID, "a single wide changes ends")

	f.record(t, "0")
	f.record(t, "4")
	f.record(t, "lb2")
	st = f.record(t, "0")
	assert.Equal(t, bilal, st.StrikerID, "the end of an over changes ends")

	f.record(t, "0")
	f.record(t, "0")
	f.record(t, "0")
	f.record(t, "0")
	f.record(t, "0")
	st = f.record(t, "1")
	assert.Equal(t, bilal, st.StrikerID, "a single off the last ball then the over change cancel out")

	innings, err := f.ledger.GetInnings(context.Background(), f.inningsID)
	require.NoError(t, err)
	assert.Equal(t, 12, innings.LegalBalls)
	assert.Equal(t, cricket.InningsCompleted, innings.Status)
}

func TestConsole_Wicket(t *testing.T) {
	f := setup(t)
	ctx := context.Background()
	asha, bilal, chen := f.players["Asha"], f.players["Bilal"], f.players["Chen"]

	st := f.record(t, "W")
	assert.True(t, st.NeedsNewBatter)
	require.NotNil(t, st.LastOutPlayerID)
	assert.Equal(t, asha, *st.LastOutPlayerID)
	assert.Equal(t, asha, st.StrikerID)

	events, err := f.ledger.GetBallEvents(ctx, f.inningsID, 0)
	require.NoError(t, err)
	require.Len(t, events, 1)
	require.NotNil(t, events[0].DismissedPlayerID)
	assert.Equal(t, asha, *events[0].DismissedPlayerID)

	_, _, err = f.console.Record(ctx, f.inningsID, console.Ball{RunsOffBat: 1})
	assert.ErrorIs(t, err, console.ErrNeedsNewBatter)

	st, err = f.console.Update(ctx, f.inningsID, console.State{StrikerID: asha, NonStrikerID: bilal, BowlerID: f.players["Xavi"]})
	require.NoError(t, err)
	assert.True(t, st.NeedsNewBatter, "the dismissed batter is still at the crease")

	st, err = f.console.Update(ctx, f.inningsID, console.State{StrikerID: chen, NonStrikerID: bilal, BowlerID: f.players["Yusuf"]})
	require.NoError(t, err)
	assert.False(t, st.NeedsNewBatter)
	assert.Nil(t, st.LastOutPlayerID)

	st = f.record(t, "3")
	assert.Equal(t, bilal, st.StrikerID)
}

func TestConsole_UpdateValidation(t *testing.T) {
	f := setup(t)
	ctx := context.Background()
	asha, bilal, xavi := f.players["Asha"], f.players["Bilal"], f.players["Xavi"]

	_, err := f.console.Update(ctx, f.inningsID, console.State{StrikerID: asha, NonStrikerID: asha, BowlerID: xavi})
	assert.ErrorIs(t, err, console.ErrSameBatters)

	_, err = f.console.Update(ctx, f.inningsID, console.State{StrikerID: asha, NonStrikerID: xavi, BowlerID: xavi})
	assert.ErrorIs(t, err, console.ErrNotInSquad)

	_, err = f.console.Update(ctx, f.inningsID, console.State{StrikerID: asha, NonStrikerID: bilal, BowlerID: asha})
	assert.ErrorIs(t, err, console.ErrNotInSquad)

	st, err := f.console.Swap(ctx, f.inningsID)
	require.NoError(t, err)
	assert.Equal(t, bilal, st.StrikerID)
	assert.Equal(t, asha, st.NonStrikerID)

	f.console.Forget(f.inningsID)
	st, err = f.console.State(ctx, f.inningsID)
	require.NoError(t, err)
	assert.Equal(t, asha, st.StrikerID)
}

func TestConsole_RejectedBallKeepsState(t *testing.T) {
	f := setup(t)

	_, st, err := f.console.Record(context.Background(), f.inningsID, console.Ball{RunsOffBat: 1, ExtraType: cricket.ExtraWide})
	assert.ErrorIs(t, err, ledger.ErrRunsOffBatNotAllowed)
	assert.Equal(t, f.players["Asha"], st.StrikerID)
}

func TestResolve(t *testing.T) {
	tests := []struct {
		name    string
		in      console.State
		batting []int64
		bowling []int64
		want    console.State
	}{
		{"empty state", console.State{}, []int64{1, 2, 3}, []int64{7, 8}, console.State{StrikerID: 1, NonStrikerID: 2, BowlerID: 7}},
		{"kept", console.State{StrikerID: 3, NonStrikerID: 1, BowlerID: 8}, []int64{1, 2, 3}, []int64{7, 8}, console.State{StrikerID: 3, NonStrikerID: 1, BowlerID: 8}},
		{"non-striker clash", console.State{StrikerID: 2, NonStrikerID: 2, BowlerID: 7}, []int64{1, 2}, []int64{7}, console.State{StrikerID: 2, NonStrikerID: 1, BowlerID: 7}},
		{"stale players", console.State{StrikerID: 9, NonStrikerID: 10, BowlerID: 11}, []int64{1, 2}, []int64{7}, console.State{StrikerID: 1, NonStrikerID: 2, BowlerID: 7}},
		{"lone batter", console.State{}, []int64{1}, []int64{7}, console.State{StrikerID: 1, NonStrikerID: 1, BowlerID: 7}},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, err := console.Resolve(tt.in, tt.batting, tt.bowling)
			require.NoError(t, err)
			assert.Equal(t, tt.want, got)
		})
	}

	_, err := console.Resolve(console.State{}, nil, []int64{7})
	assert.ErrorIs(t, err, console.ErrNoBatters)
	_, err = console.Resolve(console.State{}, []int64{1}, nil)
	assert.ErrorIs(t, err, console.ErrNoBowlers)
}

func TestParseQuick(t *testing.T) {
	tests := []struct {
		code string
		want console.Ball
	}{
		{"0", console.Ball{ExtraType: cricket.ExtraNone}},
		{"4", console.Ball{RunsOffBat: 4, ExtraType: cricket.ExtraNone}},
		{" 6 ", console.Ball{RunsOffBat: 6, ExtraType: cricket.ExtraNone}},
		{"W", console.Ball{ExtraType: cricket.ExtraNone, IsWicket: true, DismissalType: "bowled"}},
		{"wd", console.Ball{Extras: 1, ExtraType: cricket.ExtraWide}},
		{"wd5", console.Ball{Extras: 5, ExtraType: cricket.ExtraWide}},
		{"NB", console.Ball{Extras: 1, ExtraType: cricket.ExtraNoBall}},
		{"b4", console.Ball{Extras: 4, ExtraType: cricket.ExtraBye}},
		{"lb1", console.Ball{Extras: 1, ExtraType: cricket.ExtraLegBye}},
	}
	for _, tt := range tests {
		t.Run(tt.code, func(t *testing.T) {
			got, err := console.ParseQuick(tt.code)
			require.NoError(t, err)
			assert.Equal(t, tt.want, got)
		})
	}

	for _, code := range []string{"", "7", "-1", "x", "wd0", "lbx"} {
		_, err := console.ParseQuick(code)
		assert.ErrorIs(t, err, console.ErrUnknownCode, code)
	}
}
