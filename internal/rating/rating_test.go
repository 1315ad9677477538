package rating_test

import (
	"bytes"
	"testing"

	"github.com/mauv0809/crease/internal/cricket"
	"github.com/mauv0809/crease/internal/rating"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func midpointBatter(name string) cricket.PlayerStats {
	return cricket.PlayerStats{
		PlayerName:        name,
		Role:              cricket.RoleBatter,
		BattingMatches:    10,
		BattingInnings:    10,
		BattingRuns:       425,
		BattingHighScore:  100,
		BattingAvg:        37.5,
		BattingStrikeRate: 130,
	}
}

func TestBattingScore(t *testing.T) {
	t.Run("midpoint on every metric", func(t *testing.T) {
		assert.InDelta(t, 50.0, rating.BattingScore(midpointBatter("a")), 1e-9)
	})

	t.Run("clamps above the ceiling", func(t *testing.T) {
		s := cricket.PlayerStats{BattingInnings: 1, BattingRuns: 200, BattingHighScore: 300, BattingAvg: 100, BattingStrikeRate: 300}
		assert.InDelta(t, 100.0, rating.BattingScore(s), 1e-9)
	})

	t.Run("clamps below the floor", func(t *testing.T) {
		assert.Equal(t, 0.0, rating.BattingScore(cricket.PlayerStats{}))
	})
}

func TestBowlingScore(t *testing.T) {
	t.Run("no bowling involvement scores zero", func(t *testing.T) {
		// Zeroed economy, average and strike rate would otherwise scale to 100.
		assert.Equal(t, 0.0, rating.BowlingScore(midpointBatter("a")))
	})

	t.Run("ideal figures", func(t *testing.T) {
		s := cricket.PlayerStats{
			BowlingInnings: 10, BowlingOvers: 40, BowlingRuns: 160, BowlingWickets: 30,
			BowlingEconomy: 4, BowlingStrikeRate: 8, BowlingAvg: 10,
		}
		assert.InDelta(t, 100.0, rating.BowlingScore(s), 1e-9)
	})

	t.Run("midpoint on every metric", func(t *testing.T) {
		s := cricket.PlayerStats{
			BowlingInnings: 10, BowlingOvers: 40, BowlingRuns: 300, BowlingWickets: 15,
			BowlingEconomy: 7.5, BowlingStrikeRate: 24, BowlingAvg: 30,
			BowlingWides: 30, BowlingNoBall: 20,
		}
		assert.InDelta(t, 50.0, rating.BowlingScore(s), 1e-9)
	})
}

func TestFieldingScore(t *testing.T) {
	t.Run("per fielding match", func(t *testing.T) {
		s := cricket.PlayerStats{FieldingMatches: 10, FieldingCatches: 6, FieldingRunOut: 3, FieldingCaughtBehind: 3, FieldingStumping: 4}
		assert.InDelta(t, 50.0, rating.FieldingScore(s), 1e-9)
	})

	t.Run("falls back to matches played", func(t *testing.T) {
		s := cricket.PlayerStats{BattingMatches: 5, FieldingCatches: 6}
		assert.InDelta(t, 45.0, rating.FieldingScore(s), 1e-9)
	})
}

func TestRatePlayers(t *testing.T) {
	weights := rating.DefaultWeights()

	strong := midpointBatter("Strong")
	strong.BattingStrikeRate = 190
	unknown := midpointBatter("Mystery")
	unknown.Role = cricket.Role("Captain")

	profiles := rating.RatePlayers([]cricket.PlayerStats{midpointBatter("Middling"), unknown, strong}, weights)
	require.Len(t, profiles, 3)

	assert.Equal(t, "Strong", profiles[0].PlayerName)
	assert.Equal(t, "Middling", profiles[1].PlayerName)
	assert.Equal(t, "Mystery", profiles[2].PlayerName)

	assert.Equal(t, 37.5, profiles[1].Rating)
	assert.Equal(t, 50.0, profiles[1].BattingScore)
	assert.Equal(t, 0.0, profiles[1].BowlingScore)

	// Unknown roles fall back to the Allrounder weights.
	assert.Equal(t, 22.5, profiles[2].Rating)
	assert.Equal(t, cricket.Role("Captain"), profiles[2].Role)
}

func TestRateRoundsToTwoDecimals(t *testing.T) {
	s := midpointBatter("a")
	s.BattingStrikeRate = 131 // adds 0.35 * (1/120) * 100
	p := rating.Rate(s, rating.Weights{cricket.RoleBatter: {Batting: 1}})
	assert.Equal(t, 50.29, p.Rating)
	assert.Equal(t, 50.29, p.BattingScore)
}

func TestWriteCSV(t *testing.T) {
	var buf bytes.Buffer
	err := rating.WriteCSV(&buf, []rating.Profile{
		{PlayerName: "Asha", Role: cricket.RoleWicketKeeper, Rating: 61.5, BattingScore: 70, BowlingScore: 0, FieldingScore: 48.75},
	})
	require.NoError(t, err)
	assert.Equal(t, "player_name,role,rating,batting_score,bowling_score,fielding_score\n"+
		"Asha,Wicket Keeper,61.50,70.00,0.00,48.75\n", buf.String())
}
