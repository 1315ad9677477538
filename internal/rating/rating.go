package rating

import (
	"math"
	"sort"

	"github.com/mauv0809/crease/internal/cricket"
)

// Rate scores a single player and combines the sub-scores with the weights of their role.
func Rate(s cricket.PlayerStats, w Weights) Profile {
	batting := BattingScore(s)
	bowling := BowlingScore(s)
	fielding := FieldingScore(s)
	rw := w.For(s.Role)

	return Profile{
		PlayerName:    s.PlayerName,
		Role:          s.Role,
		Rating:        round2(batting*rw.Batting + bowling*rw.Bowling + fielding*rw.Fielding),
		BattingScore:  round2(batting),
		BowlingScore:  round2(bowling),
		FieldingScore: round2(fielding),
	}
}

// RatePlayers rates every player and returns the profiles ordered by rating, highest first.
// The order of equal ratings is not defined.
func RatePlayers(stats []cricket.PlayerStats, w Weights) []Profile {
	profiles := make([]Profile, 0, len(stats))
	for _, s := range stats {
		profiles = append(profiles, Rate(s, w))
	}
	sort.SliceStable(profiles, func(i, j int) bool {
		return profiles[i].Rating > profiles[j].Rating
	})
	return profiles
}

func round2(v float64) float64 {
	return math.Round(v*100) / 100
}
