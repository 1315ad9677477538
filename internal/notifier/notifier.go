package notifier

import (
	"context"

	"github.com/mauv0809/crease/internal/ledger"
	"github.com/mauv0809/crease/internal/rating"
	"github.com/mauv0809/crease/internal/selection"
)

// Notifier defines a high-level interface for sending notifications about scoring and selection.
type Notifier interface {
	// For finished innings
	SendInningsSummary(ctx context.Context, summary InningsSummary, dryRun bool) error
	// For team selection
	SendPlayingXI(ctx context.Context, result selection.Result, quotas selection.Quotas, dryRun bool) error
	SendRatings(ctx context.Context, profiles []rating.Profile, dryRun bool) error
}

// InningsSummary is an innings scorecard together with the match stats of both sides.
type InningsSummary struct {
	Match   ledger.Match
	Innings ledger.Innings
	Batting []ledger.BattingStats
	Bowling []ledger.BowlingStats
}
