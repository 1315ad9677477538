package selection

import (
	"math"
	"sort"

	"github.com/charmbracelet/log"
	"github.com/mauv0809/crease/internal/cricket"
	"github.com/mauv0809/crease/internal/rating"
)

// Pick rates the available players and selects a team from them.
func Pick(stats []cricket.PlayerStats, w rating.Weights, opts Options) (Result, error) {
	available := make([]cricket.PlayerStats, 0, len(stats))
	byName := make(map[string]cricket.PlayerStats, len(stats))
	for _, s := range stats {
		if !s.Availability {
			continue
		}
		available = append(available, s)
		byName[s.PlayerName] = s
	}
	if len(available) == 0 {
		return Result{}, ErrNoPlayers
	}
	return SelectTeam(rating.RatePlayers(available, w), byName, opts)
}

// SelectTeam fills the role quotas from the rated players.
//
// Each player's rating is shrunk toward the mean rating of their role by their sample size,
// and the shrunk selection score decides who is picked. Roles are filled in SelectionOrder.
// Unless FilterByThreshold is set, a short team is topped up from any role and up to
// EmergingSlots low-sample players may then replace the weakest pick of their role.
func SelectTeam(profiles []rating.Profile, statsByName map[string]cricket.PlayerStats, opts Options) (Result, error) {
	if len(profiles) == 0 {
		return Result{}, ErrNoPlayers
	}
	target := opts.Quotas.Total()
	if target == 0 {
		return Result{}, ErrNoPositiveQuota
	}

	pool := score(profiles, statsByName, opts.ShrinkageK)
	result := Result{
		Shortages:  map[cricket.Role]int{},
		Thresholds: thresholds(pool, opts.Quotas),
	}

	picked := map[string]bool{}
	var selected []Entry
	for _, role := range cricket.SelectionOrder {
		quota := opts.Quotas[role]
		if quota <= 0 {
			continue
		}
		var candidates []Entry
		for _, e := range pool {
			if e.Role != role {
				continue
			}
			if opts.FilterByThreshold {
				if e.Rating < result.Thresholds[role] {
					continue
				}
				e.Reason = ReasonDesiredRating
			}
			candidates = append(candidates, e)
		}
		sortBySelection(candidates)
		if len(candidates) < quota {
			result.Shortages[role] = quota - len(candidates)
		}
		for _, e := range candidates[:min(quota, len(candidates))] {
			picked[e.PlayerName] = true
			selected = append(selected, e)
		}
	}

	if !opts.FilterByThreshold {
		selected = backfill(selected, pool, picked, target)
		selected = promoteEmerging(selected, pool, picked, opts)
	}

	sortBySelection(selected)
	result.Selected = selected[:min(target, len(selected))]
	log.Debug("Selected team", "size", len(result.Selected), "target", target, "shortages", result.Shortages)
	return result, nil
}

// score wraps every profile in an entry carrying its sample size and shrunk selection score.
func score(profiles []rating.Profile, statsByName map[string]cricket.PlayerStats, k float64) []Entry {
	sums := map[cricket.Role]float64{}
	counts := map[cricket.Role]int{}
	global := 0.0
	for _, p := range profiles {
		sums[p.Role] += p.Rating
		counts[p.Role]++
		global += p.Rating
	}
	global /= float64(len(profiles))

	prior := func(role cricket.Role) float64 {
		if counts[role] == 0 {
			return global
		}
		return sums[role] / float64(counts[role])
	}

	pool := make([]Entry, 0, len(profiles))
	for _, p := range profiles {
		n := statsByName[p.PlayerName].SampleSize(p.Role)
		reliability := 1.0
		if float64(n)+k > 0 {
			reliability = float64(n) / (float64(n) + k)
		}
		pool = append(pool, Entry{
			Profile:        p,
			SelectionScore: round2(reliability*p.Rating + (1-reliability)*prior(p.Role)),
			SampleSize:     n,
			Reason:         ReasonDefault,
		})
	}
	return pool
}

// thresholds returns, for every role with a quota, the rating of the player ranked at the
// quota cutoff, or of the last player when the role has fewer candidates than its quota.
func thresholds(pool []Entry, quotas Quotas) map[cricket.Role]float64 {
	out := map[cricket.Role]float64{}
	for role, quota := range quotas {
		if quota <= 0 {
			continue
		}
		var ratings []float64
		for _, e := range pool {
			if e.Role == role {
				ratings = append(ratings, e.Rating)
			}
		}
		if len(ratings) == 0 {
			continue
		}
		sort.Sort(sort.Reverse(sort.Float64Slice(ratings)))
		out[role] = ratings[min(quota, len(ratings))-1]
	}
	return out
}

// backfill tops the selection up to target from the rest of the pool regardless of role.
// A backfilled player keeps their own role even though they take another role's slot.
func backfill(selected, pool []Entry, picked map[string]bool, target int) []Entry {
	if len(selected) >= target {
		return selected
	}
	var rest []Entry
	for _, e := range pool {
		if !picked[e.PlayerName] && e.Role != "" {
			rest = append(rest, e)
		}
	}
	sortBySelection(rest)
	for _, e := range rest[:min(target-len(selected), len(rest))] {
		picked[e.PlayerName] = true
		selected = append(selected, e)
	}
	return selected
}

// promoteEmerging swaps in up to opts.EmergingSlots unpicked low-sample players whose rating
// beats the selection score of the weakest pick of their role.
func promoteEmerging(selected, pool []Entry, picked map[string]bool, opts Options) []Entry {
	if opts.EmergingSlots <= 0 {
		return selected
	}
	var emerging []Entry
	for _, e := range pool {
		if !picked[e.PlayerName] && e.SampleSize < opts.EmergingMaxInnings {
			emerging = append(emerging, e)
		}
	}
	sort.SliceStable(emerging, func(i, j int) bool { return emerging[i].Rating > emerging[j].Rating })

	swaps := 0
	for _, candidate := range emerging {
		if swaps >= opts.EmergingSlots {
			break
		}
		weakest := -1
		for i, e := range selected {
			if e.Role != candidate.Role {
				continue
			}
			if weakest < 0 || e.SelectionScore < selected[weakest].SelectionScore {
				weakest = i
			}
		}
		if weakest < 0 || candidate.Rating <= selected[weakest].SelectionScore {
			continue
		}
		log.Debug("Promoting emerging player", "in", candidate.PlayerName, "out", selected[weakest].PlayerName, "role", candidate.Role)
		delete(picked, selected[weakest].PlayerName)
		candidate.Reason = ReasonEmergingSlot
		picked[candidate.PlayerName] = true
		selected[weakest] = candidate
		swaps++
	}
	return selected
}

// sortBySelection orders entries by selection score, then rating, highest first.
func sortBySelection(entries []Entry) {
	sort.SliceStable(entries, func(i, j int) bool {
		if entries[i].SelectionScore != entries[j].SelectionScore {
			return entries[i].SelectionScore > entries[j].SelectionScore
		}
		return entries[i].Rating > entries[j].Rating
	})
}

func round2(v float64) float64 {
	return math.Round(v*100) / 100
}
