package selection

import (
	"errors"

	"github.com/mauv0809/crease/internal/cricket"
	"github.com/mauv0809/crease/internal/rating"
)

var (
	ErrNoPlayers        = errors.New("no available players")
	ErrInvalidStructure = errors.New("team structure must be a JSON object of role counts")
	ErrNoPositiveQuota  = errors.New("team structure has no positive role counts")
)

// Reason records why an entry is in the lineup.
type Reason string

const (
	ReasonDefault       Reason = "default"
	ReasonDesiredRating Reason = "desired_rating"
	ReasonEmergingSlot  Reason = "emerging_slot"
	ReasonBlankSlot     Reason = "blank_slot"
)

// Quotas is the number of players wanted per role.
type Quotas map[cricket.Role]int

// Total is the size of the team the quotas describe.
func (q Quotas) Total() int {
	total := 0
	for _, n := range q {
		total += max(n, 0)
	}
	return total
}

// Options tunes a selection run.
type Options struct {
	Quotas Quotas
	// ShrinkageK is the sample size at which a player's own rating and their role prior weigh equally.
	ShrinkageK float64
	// EmergingMaxInnings is the sample size below which a player counts as emerging.
	EmergingMaxInnings int
	// EmergingSlots caps how many emerging players may replace regular picks.
	EmergingSlots int
	// FilterByThreshold drops candidates rated below their role's desired rating.
	FilterByThreshold bool
}

// Entry is a rated player considered for selection.
type Entry struct {
	rating.Profile
	SelectionScore float64 `json:"selection_score"`
	SampleSize     int     `json:"sample_size"`
	Reason         Reason  `json:"reason"`
}

// IsBlank reports whether the entry is an unfilled lineup slot.
func (e Entry) IsBlank() bool {
	return e.Reason == ReasonBlankSlot
}

// Result is the outcome of a selection run.
type Result struct {
	Selected []Entry `json:"selected"`
	// Shortages counts, per role, the quota that the role's own candidates could not fill.
	Shortages map[cricket.Role]int `json:"shortages"`
	// Thresholds holds the desired rating of every role with a quota and at least one candidate.
	Thresholds map[cricket.Role]float64 `json:"thresholds"`
}
