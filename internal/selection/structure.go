package selection

import (
	"encoding/json"
	"fmt"
	"math"
	"strconv"
	"strings"

	"github.com/mauv0809/crease/internal/cricket"
)

// ParseStructure turns a decoded JSON team structure such as {"Batter": 4, "Bowler": 3}
// into quotas. Role names are resolved with cricket.ParseRole. Counts may be numbers or
// numeric strings; zero, negative and fractional counts are dropped, anything else is an error.
func ParseStructure(raw any) (Quotas, error) {
	fields, ok := raw.(map[string]any)
	if !ok {
		return nil, ErrInvalidStructure
	}
	quotas := Quotas{}
	for name, value := range fields {
		role, err := cricket.ParseRole(name)
		if err != nil {
			return nil, fmt.Errorf("%w: %w", ErrInvalidStructure, err)
		}
		n, err := count(value)
		if err != nil {
			return nil, fmt.Errorf("%w: %s: %w", ErrInvalidStructure, name, err)
		}
		if n > 0 {
			quotas[role] += n
		}
	}
	if quotas.Total() == 0 {
		return nil, ErrNoPositiveQuota
	}
	return quotas, nil
}

// DecodeStructure parses a JSON team structure document.
func DecodeStructure(data []byte) (Quotas, error) {
	var raw any
	if err := json.Unmarshal(data, &raw); err != nil {
		return nil, fmt.Errorf("%w: %w", ErrInvalidStructure, err)
	}
	return ParseStructure(raw)
}

// count reads a quota count. A fractional number counts as zero.
func count(v any) (int, error) {
	switch n := v.(type) {
	case float64:
		if n != math.Trunc(n) {
			return 0, nil
		}
		return int(n), nil
	case int:
		return n, nil
	case json.Number:
		f, err := n.Float64()
		if err != nil {
			return 0, err
		}
		return count(f)
	case string:
		return strconv.Atoi(strings.TrimSpace(n))
	}
	return 0, fmt.Errorf("count must be a number, got %T", v)
}
