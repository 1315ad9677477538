package console

import (
	"context"
	"fmt"
	"slices"
	"strconv"
	"strings"

	"github.com/charmbracelet/log"
	"github.com/mauv0809/crease/internal/cricket"
	"github.com/mauv0809/crease/internal/ledger"
)

// New creates a Console that records deliveries through l.
func New(l ledger.Ledger) *Console {
	return &Console{
		ledger: l,
		states: map[int64]State{},
	}
}

// State returns the live state of an innings, defaulting and repairing it against the squads.
func (c *Console) State(ctx context.Context, inningsID int64) (State, error) {
	c.mu.Lock()
	defer c.mu.Unlock()

	_, st, err := c.load(ctx, inningsID)
	return st, err
}

// Update replaces the players of an innings' live state. Bringing in a new batter for the
// dismissed player clears the pending replacement.
func (c *Console) Update(ctx context.Context, inningsID int64, next State) (State, error) {
	c.mu.Lock()
	defer c.mu.Unlock()

	batting, bowling, err := c.squads(ctx, inningsID)
	if err != nil {
		return State{}, err
	}
	if next.StrikerID == next.NonStrikerID {
		return State{}, ErrSameBatters
	}
	if !slices.Contains(batting, next.StrikerID) || !slices.Contains(batting, next.NonStrikerID) {
		return State{}, fmt.Errorf("batter %w", ErrNotInSquad)
	}
	if !slices.Contains(bowling, next.BowlerID) {
		return State{}, fmt.Errorf("bowler %w", ErrNotInSquad)
	}

	st := c.states[inningsID]
	st.StrikerID, st.NonStrikerID, st.BowlerID = next.StrikerID, next.NonStrikerID, next.BowlerID
	st.clearReplacedBatter()
	c.states[inningsID] = st
	return st, nil
}

// Swap exchanges the striker and the non-striker.
func (c *Console) Swap(ctx context.Context, inningsID int64) (State, error) {
	c.mu.Lock()
	defer c.mu.Unlock()

	_, st, err := c.load(ctx, inningsID)
	if err != nil {
		return State{}, err
	}
	st.swap()
	c.states[inningsID] = st
	return st, nil
}

// Record appends a delivery bowled by the current players and advances the live state.
func (c *Console) Record(ctx context.Context, inningsID int64, b Ball) (int64, State, error) {
	c.mu.Lock()
	defer c.mu.Unlock()

	before, st, err := c.load(ctx, inningsID)
	if err != nil {
		return 0, State{}, err
	}
	if st.NeedsNewBatter {
		return 0, st, ErrNeedsNewBatter
	}

	in := ledger.EventInput{
		MatchID:       before.MatchID,
		InningsID:     inningsID,
		StrikerID:     st.StrikerID,
		NonStrikerID:  st.NonStrikerID,
		BowlerID:      st.BowlerID,
		RunsOffBat:    b.RunsOffBat,
		Extras:        b.Extras,
		ExtraType:     b.ExtraType,
		IsWicket:      b.IsWicket,
		DismissalType: b.DismissalType,
		Notes:         b.Notes,
	}
	if b.IsWicket {
		dismissed := st.StrikerID
		if b.DismissedPlayerID != nil {
			dismissed = *b.DismissedPlayerID
		}
		in.DismissedPlayerID = &dismissed
		b.DismissedPlayerID = &dismissed
	}

	eventID, err := c.ledger.AppendEvent(ctx, in)
	if err != nil {
		return 0, st, err
	}
	after, err := c.ledger.GetInnings(ctx, inningsID)
	if err != nil {
		return eventID, st, fmt.Errorf("failed to reload innings: %w", err)
	}

	st.advance(b, before.LegalBalls, after.LegalBalls)
	c.states[inningsID] = st
	log.Debug("Advanced console", "inningsID", inningsID, "striker", st.StrikerID, "nonStriker", st.NonStrikerID, "needsNewBatter", st.NeedsNewBatter)
	return eventID, st, nil
}

// Forget drops the live state of an innings.
func (c *Console) Forget(inningsID int64) {
	c.mu.Lock()
	defer c.mu.Unlock()
	delete(c.states, inningsID)
}

func (c *Console) load(ctx context.Context, inningsID int64) (*ledger.Innings, State, error) {
	innings, err := c.ledger.GetInnings(ctx, inningsID)
	if err != nil {
		return nil, State{}, err
	}
	batting, bowling, err := c.squadsOf(ctx, innings)
	if err != nil {
		return nil, State{}, err
	}
	st, err := Resolve(c.states[inningsID], batting, bowling)
	if err != nil {
		return nil, State{}, err
	}
	c.states[inningsID] = st
	return innings, st, nil
}

func (c *Console) squads(ctx context.Context, inningsID int64) ([]int64, []int64, error) {
	innings, err := c.ledger.GetInnings(ctx, inningsID)
	if err != nil {
		return nil, nil, err
	}
	return c.squadsOf(ctx, innings)
}

func (c *Console) squadsOf(ctx context.Context, innings *ledger.Innings) ([]int64, []int64, error) {
	squads, err := c.ledger.GetMatchSquads(ctx, innings.MatchID)
	if err != nil {
		return nil, nil, err
	}
	ids := func(teamID int64) []int64 {
		var out []int64
		for _, squad := range squads {
			for _, p := range squad {
				if p.TeamID == teamID {
					out = append(out, p.PlayerID)
				}
			}
		}
		slices.Sort(out)
		return out
	}
	return ids(innings.BattingTeamID), ids(innings.BowlingTeamID), nil
}

// Resolve fills in missing players and replaces any that are not in the squads. The first
// two batters open and the first bowler takes the ball.
func Resolve(st State, batting, bowling []int64) (State, error) {
	if len(batting) == 0 {
		return State{}, ErrNoBatters
	}
	if len(bowling) == 0 {
		return State{}, ErrNoBowlers
	}

	if !slices.Contains(batting, st.StrikerID) {
		st.StrikerID = batting[0]
	}
	fallback := batting[0]
	if len(batting) > 1 {
		fallback = batting[1]
	}
	if !slices.Contains(batting, st.NonStrikerID) || st.NonStrikerID == st.StrikerID {
		st.NonStrikerID = fallback
		if fallback == st.StrikerID {
			st.NonStrikerID = batting[0]
		}
	}
	if !slices.Contains(bowling, st.BowlerID) {
		st.BowlerID = bowling[0]
	}
	return st, nil
}

func (st *State) swap() {
	st.StrikerID, st.NonStrikerID = st.NonStrikerID, st.StrikerID
}

// advance rotates the strike on odd runs and again when a legal delivery ends the over.
// A wicket leaves the batters where they are and waits for a replacement.
func (st *State) advance(b Ball, legalBefore, legalAfter int) {
	if b.IsWicket {
		st.NeedsNewBatter = true
		st.LastOutPlayerID = b.DismissedPlayerID
		return
	}
	if (b.RunsOffBat+b.Extras)%2 == 1 {
		st.swap()
	}
	if legalAfter > legalBefore && legalAfter%cricket.BallsPerOver == 0 {
		st.swap()
	}
	st.NeedsNewBatter = false
	st.LastOutPlayerID = nil
}

func (st *State) clearReplacedBatter() {
	if !st.NeedsNewBatter || st.LastOutPlayerID == nil {
		return
	}
	if out := *st.LastOutPlayerID; out != st.StrikerID && out != st.NonStrikerID {
		st.NeedsNewBatter = false
		st.LastOutPlayerID = nil
	}
}

// ParseQuick turns a quick score code into a Ball: "0" to "6" for runs off the bat, "W" for
// the striker bowled, and "wd", "nb", "b" or "lb" optionally followed by a run count.
func ParseQuick(code string) (Ball, error) {
	code = strings.ToLower(strings.TrimSpace(code))
	if n, err := strconv.Atoi(code); err == nil && n >= 0 && n <= 6 {
		return Ball{RunsOffBat: n, ExtraType: cricket.ExtraNone}, nil
	}
	if code == "w" {
		return Ball{ExtraType: cricket.ExtraNone, IsWicket: true, DismissalType: "bowled"}, nil
	}

	for _, p := range []struct {
		prefix string
		extra  cricket.ExtraType
	}{
		{"wd", cricket.ExtraWide},
		{"nb", cricket.ExtraNoBall},
		{"lb", cricket.ExtraLegBye},
		{"b", cricket.ExtraBye},
	} {
		rest, ok := strings.CutPrefix(code, p.prefix)
		if !ok {
			continue
		}
		extras := 1
		if rest != "" {
			n, err := strconv.Atoi(rest)
			if err != nil || n < 1 {
				return Ball{}, fmt.Errorf("%w: %q", ErrUnknownCode, code)
			}
			extras = n
		}
		return Ball{Extras: extras, ExtraType: p.extra}, nil
	}
	return Ball{}, fmt.Errorf("%w: %q", ErrUnknownCode, code)
}
