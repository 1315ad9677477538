package config

import (
	"bytes"
	"encoding/json"
	"errors"
	"fmt"
	"os"

	"github.com/mauv0809/crease/internal/cricket"
	"github.com/mauv0809/crease/internal/rating"
	"github.com/mauv0809/crease/internal/selection"
)

// Selection is the weight and team selection configuration. A JSON file only needs the keys
// it changes; everything else keeps its DefaultSelection value.
type Selection struct {
	BatterBattingWeight        float64 `json:"batter_batting_weight"`
	BatterBowlingWeight        float64 `json:"batter_bowling_weight"`
	BatterFieldingWeight       float64 `json:"batter_fielding_weight"`
	BowlerBattingWeight        float64 `json:"bowler_batting_weight"`
	BowlerBowlingWeight        float64 `json:"bowler_bowling_weight"`
	BowlerFieldingWeight       float64 `json:"bowler_fielding_weight"`
	AllrounderBattingWeight    float64 `json:"allrounder_batting_weight"`
	AllrounderBowlingWeight    float64 `json:"allrounder_bowling_weight"`
	AllrounderFieldingWeight   float64 `json:"allrounder_fielding_weight"`
	WicketKeeperBattingWeight  float64 `json:"wicket_keeper_batting_weight"`
	WicketKeeperBowlingWeight  float64 `json:"wicket_keeper_bowling_weight"`
	WicketKeeperFieldingWeight float64 `json:"wicket_keeper_fielding_weight"`

	ShrinkageK         float64 `json:"selection_shrinkage_k"`
	EmergingMaxInnings int     `json:"emerging_max_innings"`
	EmergingSlots      int     `json:"emerging_slots"`
	FilterByThreshold  bool    `json:"desired_rating_filter_enabled"`

	// TeamStructure is kept raw so a malformed structure surfaces when selection runs.
	TeamStructure json.RawMessage `json:"team_structure"`
}

// DefaultSelection returns the built-in configuration.
func DefaultSelection() Selection {
	w := rating.DefaultWeights()
	bat, bowl, all, wk := w[cricket.RoleBatter], w[cricket.RoleBowler], w[cricket.RoleAllrounder], w[cricket.RoleWicketKeeper]
	return Selection{
		BatterBattingWeight:        bat.Batting,
		BatterBowlingWeight:        bat.Bowling,
		BatterFieldingWeight:       bat.Fielding,
		BowlerBattingWeight:        bowl.Batting,
		BowlerBowlingWeight:        bowl.Bowling,
		BowlerFieldingWeight:       bowl.Fielding,
		AllrounderBattingWeight:    all.Batting,
		AllrounderBowlingWeight:    all.Bowling,
		AllrounderFieldingWeight:   all.Fielding,
		WicketKeeperBattingWeight:  wk.Batting,
		WicketKeeperBowlingWeight:  wk.Bowling,
		WicketKeeperFieldingWeight: wk.Fielding,

		ShrinkageK:         20,
		EmergingMaxInnings: 12,
		EmergingSlots:      1,
		TeamStructure:      json.RawMessage(`{"Batter": 4, "Wicket Keeper": 1, "Allrounder": 3, "Bowler": 3}`),
	}
}

// LoadSelection merges the JSON file at path over DefaultSelection. An empty path returns the defaults.
func LoadSelection(path string) (Selection, error) {
	cfg := DefaultSelection()
	if path == "" {
		return cfg, nil
	}
	data, err := os.ReadFile(path)
	if err != nil {
		return cfg, fmt.Errorf("failed to read selection config: %w", err)
	}
	if err := cfg.Merge(data); err != nil {
		return DefaultSelection(), err
	}
	return cfg, nil
}

// Merge overwrites the fields named in the JSON document data.
func (s *Selection) Merge(data []byte) error {
	dec := json.NewDecoder(bytes.NewReader(data))
	dec.DisallowUnknownFields()
	if err := dec.Decode(s); err != nil {
		return fmt.Errorf("failed to parse selection config: %w", err)
	}
	return nil
}

// Weights returns the rating weight table.
func (s Selection) Weights() rating.Weights {
	return rating.Weights{
		cricket.RoleBatter:       {Batting: s.BatterBattingWeight, Bowling: s.BatterBowlingWeight, Fielding: s.BatterFieldingWeight},
		cricket.RoleBowler:       {Batting: s.BowlerBattingWeight, Bowling: s.BowlerBowlingWeight, Fielding: s.BowlerFieldingWeight},
		cricket.RoleAllrounder:   {Batting: s.AllrounderBattingWeight, Bowling: s.AllrounderBowlingWeight, Fielding: s.AllrounderFieldingWeight},
		cricket.RoleWicketKeeper: {Batting: s.WicketKeeperBattingWeight, Bowling: s.WicketKeeperBowlingWeight, Fielding: s.WicketKeeperFieldingWeight},
	}
}

// ErrNegativeShrinkage rejects a selection_shrinkage_k below zero.
var ErrNegativeShrinkage = errors.New("selection_shrinkage_k cannot be negative")

// Options returns the selection options, parsing the team structure.
func (s Selection) Options() (selection.Options, error) {
	if s.ShrinkageK < 0 {
		return selection.Options{}, fmt.Errorf("%w: %v", ErrNegativeShrinkage, s.ShrinkageK)
	}
	quotas, err := selection.DecodeStructure(s.TeamStructure)
	if err != nil {
		return selection.Options{}, err
	}
	return selection.Options{
		Quotas:             quotas,
		ShrinkageK:         s.ShrinkageK,
		EmergingMaxInnings: s.EmergingMaxInnings,
		EmergingSlots:      s.EmergingSlots,
		FilterByThreshold:  s.FilterByThreshold,
	}, nil
}
