package rating

import "github.com/mauv0809/crease/internal/cricket"

// metric is one scaled input of a sub-score.
type metric struct {
	value       float64
	best, worst float64
	weight      float64
}

// scale maps value linearly onto [0,100], where worst scores 0 and best scores 100.
// best may be lower than worst for metrics where a smaller value is better.
func scale(value, worst, best float64) float64 {
	return clamp((value - worst) / (best - worst) * 100)
}

func clamp(v float64) float64 {
	if v < 0 {
		return 0
	}
	if v > 100 {
		return 100
	}
	return v
}

func weightedSum(metrics []metric) float64 {
	total := 0.0
	for _, m := range metrics {
		total += scale(m.value, m.worst, m.best) * m.weight
	}
	return clamp(total)
}

func perCount(total float64, count int) float64 {
	return total / float64(max(count, 1))
}

// BattingScore rates batting on average, strike rate, runs per innings and high score.
func BattingScore(s cricket.PlayerStats) float64 {
	return weightedSum([]metric{
		{value: s.BattingAvg, worst: 10, best: 65, weight: 0.15},
		{value: s.BattingStrikeRate, worst: 70, best: 190, weight: 0.35},
		{value: perCount(float64(s.BattingRuns), s.BattingInnings), worst: 5, best: 80, weight: 0.35},
		{value: float64(s.BattingHighScore), worst: 20, best: 180, weight: 0.15},
	})
}

// BowlingScore rates bowling on wickets per innings, economy, strike rate, average and
// extras conceded per over. Players who never bowled score exactly 0, since their zeroed
// averages would otherwise look ideal.
func BowlingScore(s cricket.PlayerStats) float64 {
	if s.BowlingInnings == 0 && s.BowlingOvers == 0 && s.BowlingRuns == 0 && s.BowlingWickets == 0 {
		return 0
	}
	extrasPerOver := 0.0
	if s.BowlingOvers > 0 {
		extrasPerOver = float64(s.BowlingWides+s.BowlingNoBall) / s.BowlingOvers
	}
	return weightedSum([]metric{
		{value: perCount(float64(s.BowlingWickets), s.BowlingInnings), worst: 0, best: 3, weight: 0.35},
		{value: s.BowlingEconomy, worst: 11, best: 4, weight: 0.20},
		{value: s.BowlingStrikeRate, worst: 40, best: 8, weight: 0.20},
		{value: s.BowlingAvg, worst: 50, best: 10, weight: 0.15},
		{value: extrasPerOver, worst: 2.5, best: 0, weight: 0.10},
	})
}

// FieldingScore rates catches, run-outs, caught-behinds and stumpings per match.
func FieldingScore(s cricket.PlayerStats) float64 {
	matches := s.FieldingMatches
	if matches == 0 {
		matches = max(s.BattingMatches, s.BowlingMatches)
	}
	return weightedSum([]metric{
		{value: perCount(float64(s.FieldingCatches), matches), worst: 0, best: 1.2, weight: 0.45},
		{value: perCount(float64(s.FieldingRunOut), matches), worst: 0, best: 0.6, weight: 0.20},
		{value: perCount(float64(s.FieldingCaughtBehind), matches), worst: 0, best: 0.6, weight: 0.15},
		{value: perCount(float64(s.FieldingStumping), matches), worst: 0, best: 0.8, weight: 0.20},
	})
}
