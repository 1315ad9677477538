package selection

import (
	"encoding/csv"
	"fmt"
	"io"
	"sort"
	"strconv"

	"github.com/mauv0809/crease/internal/cricket"
	"github.com/mauv0809/crease/internal/rating"
)

// BuildLineup lays the selected players out slot by slot.
//
// Each role's slots take that role's picks by rating, then selection score. Slots left open
// go to picks whose own role is over quota or was not requested, and any still open become
// blank_slot entries. The lineup has exactly quotas.Total() entries.
func BuildLineup(result Result, quotas Quotas) []Entry {
	byRole := map[cricket.Role][]Entry{}
	for _, e := range result.Selected {
		byRole[e.Role] = append(byRole[e.Role], e)
	}

	own := map[cricket.Role][]Entry{}
	var overflow []Entry
	for _, role := range cricket.SelectionOrder {
		entries := byRole[role]
		delete(byRole, role)
		sort.SliceStable(entries, func(i, j int) bool {
			if entries[i].Rating != entries[j].Rating {
				return entries[i].Rating > entries[j].Rating
			}
			return entries[i].SelectionScore > entries[j].SelectionScore
		})
		n := min(max(quotas[role], 0), len(entries))
		own[role] = entries[:n]
		overflow = append(overflow, entries[n:]...)
	}
	for _, entries := range byRole {
		overflow = append(overflow, entries...)
	}
	sortBySelection(overflow)

	rows := make([]Entry, 0, quotas.Total())
	for _, role := range cricket.SelectionOrder {
		quota := max(quotas[role], 0)
		if quota == 0 {
			continue
		}
		rows = append(rows, own[role]...)
		for i := len(own[role]); i < quota; i++ {
			if len(overflow) > 0 {
				rows = append(rows, overflow[0])
				overflow = overflow[1:]
				continue
			}
			rows = append(rows, Entry{Profile: rating.Profile{Role: role}, Reason: ReasonBlankSlot})
		}
	}
	return rows
}

var lineupHeader = []string{
	"role", "player_name", "selection_score", "base_rating", "sample_size",
	"reason", "batting_score", "bowling_score", "fielding_score",
}

// WriteCSV writes the desired rating thresholds followed by the lineup as two titled CSV
// sections separated by an empty line.
func WriteCSV(w io.Writer, result Result, quotas Quotas) error {
	cw := csv.NewWriter(w)

	records := [][]string{{"desired_rating_thresholds"}, {"role", "desired_rating_threshold"}}
	for _, role := range cricket.SelectionOrder {
		if quotas[role] <= 0 {
			continue
		}
		threshold := ""
		if v, ok := result.Thresholds[role]; ok {
			threshold = formatScore(v)
		}
		records = append(records, []string{string(role), threshold})
	}
	records = append(records, []string{}, []string{"playing_xi"}, lineupHeader)

	for _, e := range BuildLineup(result, quotas) {
		if e.IsBlank() {
			records = append(records, []string{string(e.Role), "", "", "", "", string(e.Reason), "", "", ""})
			continue
		}
		records = append(records, []string{
			string(e.Role),
			e.PlayerName,
			formatScore(e.SelectionScore),
			formatScore(e.Rating),
			strconv.Itoa(e.SampleSize),
			string(e.Reason),
			formatScore(e.BattingScore),
			formatScore(e.BowlingScore),
			formatScore(e.FieldingScore),
		})
	}

	if err := cw.WriteAll(records); err != nil {
		return fmt.Errorf("failed to write lineup csv: %w", err)
	}
	return nil
}

func formatScore(v float64) string {
	return strconv.FormatFloat(v, 'f', 2, 64)
}
