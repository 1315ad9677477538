package cricket

import (
	"errors"
	"fmt"
	"strings"
	"unicode"
)

var (
	ErrInvalidRole      = errors.New("invalid role")
	ErrInvalidExtraType = errors.New("invalid extra type")
)

// roleAliases maps a lowercased, letters-only role token to its canonical role.
var roleAliases = map[string]Role{
	"batter":              RoleBatter,
	"batsman":             RoleBatter,
	"bat":                 RoleBatter,
	"bowler":              RoleBowler,
	"bowl":                RoleBowler,
	"allrounder":          RoleAllrounder,
	"allround":            RoleAllrounder,
	"ar":                  RoleAllrounder,
	"wicketkeeper":        RoleWicketKeeper,
	"wicketkeeperbatter":  RoleWicketKeeper,
	"wicketkeeperbatsman": RoleWicketKeeper,
	"keeper":              RoleWicketKeeper,
	"wk":                  RoleWicketKeeper,
}

// ParseRole resolves a free-form role string such as "wicket-keeper" or "ALL ROUNDER".
func ParseRole(raw string) (Role, error) {
	token := strings.Map(func(r rune) rune {
		if unicode.IsLetter(r) {
			return unicode.ToLower(r)
		}
		return -1
	}, raw)
	if role, ok := roleAliases[token]; ok {
		return role, nil
	}
	return "", fmt.Errorf("%w: %q", ErrInvalidRole, raw)
}

// ParseExtraType validates an extra type. A blank value means no extra.
func ParseExtraType(raw string) (ExtraType, error) {
	token := strings.ToLower(strings.TrimSpace(raw))
	if token == "" {
		return ExtraNone, nil
	}
	switch e := ExtraType(token); e {
	case ExtraNone, ExtraWide, ExtraNoBall, ExtraBye, ExtraLegBye:
		return e, nil
	}
	return "", fmt.Errorf("%w: %q (allowed: bye, leg_bye, no_ball, none, wide)", ErrInvalidExtraType, raw)
}

var dismissalSeparators = strings.NewReplacer(" ", "_", "-", "_")

// NormalizeDismissal lowercases a dismissal type and joins its words with underscores,
// so "Run Out" and "run-out" both become DismissalRunOut. Blank means none was given.
func NormalizeDismissal(raw string) string {
	return dismissalSeparators.Replace(strings.ToLower(strings.TrimSpace(raw)))
}
