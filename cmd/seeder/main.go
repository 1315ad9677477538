package main

import (
	"context"
	"errors"
	"fmt"
	"math/rand"
	"os"
	"path/filepath"
	"time"

	"github.com/charmbracelet/log"
	"github.com/google/uuid"
	"github.com/mauv0809/crease/internal/config"
	"github.com/mauv0809/crease/internal/console"
	"github.com/mauv0809/crease/internal/cricket"
	"github.com/mauv0809/crease/internal/database"
	"github.com/mauv0809/crease/internal/ledger"
)

const (
	numMatches = 25
	overs      = 10
)

var squads = map[string][]ledger.SquadMember{
	"Lions": {
		{PlayerName: "Asha", Role: "Batter"}, {PlayerName: "Bilal", Role: "Batter"},
		{PlayerName: "Chen", Role: "Batter"}, {PlayerName: "Dev", Role: "Batter"},
		{PlayerName: "Eko", Role: "Wicket Keeper"}, {PlayerName: "Farah", Role: "Allrounder"},
		{PlayerName: "Gus", Role: "Allrounder"}, {PlayerName: "Hana", Role: "Bowler"},
		{PlayerName: "Ivo", Role: "Bowler"}, {PlayerName: "Jun", Role: "Bowler"},
		{PlayerName: "Kofi", Role: "Bowler"},
	},
	"Tigers": {
		{PlayerName: "Lena", Role: "Batter"}, {PlayerName: "Milo", Role: "Batter"},
		{PlayerName: "Nia", Role: "Batter"}, {PlayerName: "Omar", Role: "Batter"},
		{PlayerName: "Pia", Role: "Wicket Keeper"}, {PlayerName: "Quin", Role: "Allrounder"},
		{PlayerName: "Ravi", Role: "Allrounder"}, {PlayerName: "Sami", Role: "Bowler"},
		{PlayerName: "Tova", Role: "Bowler"}, {PlayerName: "Uma", Role: "Bowler"},
		{PlayerName: "Vik", Role: "Bowler"},
	},
}

// outcome is one possible delivery and how often it is drawn.
type outcome struct {
	weight int
	ball   console.Ball
}

var outcomes = []outcome{
	{35, console.Ball{ExtraType: cricket.ExtraNone}},
	{28, console.Ball{RunsOffBat: 1, ExtraType: cricket.ExtraNone}},
	{10, console.Ball{RunsOffBat: 2, ExtraType: cricket.ExtraNone}},
	{2, console.Ball{RunsOffBat: 3, ExtraType: cricket.ExtraNone}},
	{10, console.Ball{RunsOffBat: 4, ExtraType: cricket.ExtraNone}},
	{4, console.Ball{RunsOffBat: 6, ExtraType: cricket.ExtraNone}},
	{3, console.Ball{Extras: 1, ExtraType: cricket.ExtraWide}},
	{1, console.Ball{Extras: 1, ExtraType: cricket.ExtraLegBye}},
	{4, console.Ball{ExtraType: cricket.ExtraNone, IsWicket: true, DismissalType: "bowled"}},
	{3, console.Ball{ExtraType: cricket.ExtraNone, IsWicket: true, DismissalType: "caught"}},
}

func draw(rng *rand.Rand) console.Ball {
	total := 0
	for _, o := range outcomes {
		total += o.weight
	}
	n := rng.Intn(total)
	for _, o := range outcomes {
		if n < o.weight {
			return o.ball
		}
		n -= o.weight
	}
	return outcomes[0].ball
}

func main() {
	log.Info("Starting database seeder...")
	cfg := config.Load()
	if cfg.Turso.PrimaryURL == "" {
		if err := os.MkdirAll(filepath.Dir(cfg.DBName), 0o755); err != nil {
			log.Fatalf("Failed to create database directory: %s", err)
		}
	}

	db, teardown, err := database.InitDB(cfg.DBName, cfg.Turso.PrimaryURL, cfg.Turso.AuthToken)
	if err != nil {
		log.Fatalf("Failed to initialize database: %s", err)
	}
	defer teardown()

	ctx := context.Background()
	ld := ledger.New(db)
	rng := rand.New(rand.NewSource(time.Now().UnixNano()))
	run := uuid.NewString()

	log.Info("Preparing to play seeded matches...", "total", numMatches, "overs", overs, "run", run)
	startTime := time.Now()
	for i := range numMatches {
		home, away := "Lions", "Tigers"
		if i%2 == 1 {
			home, away = away, home
		}
		if err := playMatch(ctx, ld, rng, home, away, run); err != nil {
			log.Fatalf("Failed to seed match %d: %s", i+1, err)
		}
		log.Info("Seeded match", "completed", i+1, "total", numMatches)
	}
	log.Info("Successfully seeded all matches.", "duration", time.Since(startTime))
}

func playMatch(ctx context.Context, ld ledger.Ledger, rng *rand.Rand, home, away, run string) error {
	matchID, err := ld.CreateMatchWithSquads(ctx, ledger.MatchSetup{
		HomeTeam:   home,
		AwayTeam:   away,
		TotalOvers: overs,
		HomeSquad:  squads[home],
		AwaySquad:  squads[away],
	})
	if err != nil {
		return fmt.Errorf("failed to create match: %w", err)
	}
	match, err := ld.GetMatch(ctx, matchID)
	if err != nil {
		return err
	}
	teamSquads, err := ld.GetMatchSquads(ctx, matchID)
	if err != nil {
		return err
	}

	c := console.New(ld)
	innings := []struct {
		no               int
		batting, bowling int64
		battingName      string
		bowlingName      string
	}{
		{1, match.HomeTeamID, match.AwayTeamID, home, away},
		{2, match.AwayTeamID, match.HomeTeamID, away, home},
	}
	for _, inn := range innings {
		inningsID, err := ld.GetOrCreateInnings(ctx, matchID, inn.no, inn.batting, inn.bowling)
		if err != nil {
			return fmt.Errorf("failed to open innings %d: %w", inn.no, err)
		}
		order := playerIDs(teamSquads[inn.battingName])
		attack := playerIDs(teamSquads[inn.bowlingName])
		attack = attack[len(attack)-5:]
		if err := playInnings(ctx, ld, c, rng, inningsID, order, attack, run); err != nil {
			return fmt.Errorf("failed to play innings %d: %w", inn.no, err)
		}
	}
	return nil
}

// playInnings bowls random deliveries until the innings is over.
// Batters come in the squad order and the bowlers rotate every over.
func playInnings(ctx context.Context, ld ledger.Ledger, c *console.Console, rng *rand.Rand, inningsID int64, order, attack []int64, run string) error {
	st, err := c.Update(ctx, inningsID, console.State{StrikerID: order[0], NonStrikerID: order[1], BowlerID: attack[0]})
	if err != nil {
		return err
	}
	nextBatter, over := 2, 0

	for {
		ball := draw(rng)
		ball.Notes = "seed " + run
		_, st, err = c.Record(ctx, inningsID, ball)
		if ledger.IsState(err) {
			return nil
		}
		if err != nil {
			return err
		}

		innings, err := ld.GetInnings(ctx, inningsID)
		if err != nil {
			return err
		}
		if innings.Status == cricket.InningsCompleted {
			return nil
		}

		next := st
		if st.NeedsNewBatter {
			if nextBatter >= len(order) {
				return errors.New("ran out of batters before the innings ended")
			}
			if st.LastOutPlayerID != nil && *st.LastOutPlayerID == st.NonStrikerID {
				next.NonStrikerID = order[nextBatter]
			} else {
				next.StrikerID = order[nextBatter]
			}
			nextBatter++
		}
		if completed := innings.LegalBalls / cricket.BallsPerOver; completed > over {
			over = completed
			next.BowlerID = attack[over%len(attack)]
		}
		if next != st {
			if st, err = c.Update(ctx, inningsID, next); err != nil {
				return err
			}
		}
	}
}

func playerIDs(squad []ledger.SquadPlayer) []int64 {
	ids := make([]int64, 0, len(squad))
	for _, p := range squad {
		ids = append(ids, p.PlayerID)
	}
	return ids
}
