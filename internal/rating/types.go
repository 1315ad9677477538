package rating

import "github.com/mauv0809/crease/internal/cricket"

// Profile is a rated player. Profiles are computed on demand and never stored.
type Profile struct {
	PlayerName    string       `json:"player_name"`
	Role          cricket.Role `json:"role"`
	Rating        float64      `json:"rating"`
	BattingScore  float64      `json:"batting_score"`
	BowlingScore  float64      `json:"bowling_score"`
	FieldingScore float64      `json:"fielding_score"`
}

// RoleWeights is how much each sub-score contributes to one role's rating.
type RoleWeights struct {
	Batting  float64 `json:"batting"`
	Bowling  float64 `json:"bowling"`
	Fielding float64 `json:"fielding"`
}

// Weights holds one RoleWeights per role.
type Weights map[cricket.Role]RoleWeights

// DefaultWeights returns the built-in weight table.
func DefaultWeights() Weights {
	return Weights{
		cricket.RoleBatter:       {Batting: 0.75, Bowling: 0.10, Fielding: 0.15},
		cricket.RoleBowler:       {Batting: 0.10, Bowling: 0.75, Fielding: 0.15},
		cricket.RoleAllrounder:   {Batting: 0.45, Bowling: 0.40, Fielding: 0.15},
		cricket.RoleWicketKeeper: {Batting: 0.60, Bowling: 0.00, Fielding: 0.40},
	}
}

// For returns the weights for role. Roles without an entry use the Allrounder weights.
func (w Weights) For(role cricket.Role) RoleWeights {
	if rw, ok := w[role]; ok {
		return rw
	}
	return w[cricket.RoleAllrounder]
}
