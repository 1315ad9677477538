package rating

import (
	"encoding/csv"
	"fmt"
	"io"
	"strconv"
)

// WriteCSV writes one row per profile in the given order, with a header row.
func WriteCSV(w io.Writer, profiles []Profile) error {
	cw := csv.NewWriter(w)
	records := [][]string{{"player_name", "role", "rating", "batting_score", "bowling_score", "fielding_score"}}
	for _, p := range profiles {
		records = append(records, []string{
			p.PlayerName,
			string(p.Role),
			strconv.FormatFloat(p.Rating, 'f', 2, 64),
			strconv.FormatFloat(p.BattingScore, 'f', 2, 64),
			strconv.FormatFloat(p.BowlingScore, 'f', 2, 64),
			strconv.FormatFloat(p.FieldingScore, 'f', 2, 64),
		})
	}
	if err := cw.WriteAll(records); err != nil {
		return fmt.Errorf("failed to write ratings csv: %w", err)
	}
	return nil
}
