package slack

import (
	"context"
	"encoding/json"
	"fmt"
	"sort"
	"strings"
	"time"

	"github.com/charmbracelet/log"
	"github.com/mauv0809/crease/internal/cricket"
	"github.com/mauv0809/crease/internal/ledger"
	"github.com/mauv0809/crease/internal/metrics"
	"github.com/mauv0809/crease/internal/notifier"
	"github.com/mauv0809/crease/internal/rating"
	"github.com/mauv0809/crease/internal/selection"
	"github.com/slack-go/slack"
)

// topN is how many batters, bowlers or rated players a message lists.
const topN = 3

// slackClient is an interface that contains the methods from the slack.Client that we use.
// This allows for easy mocking in tests.
type slackClient interface {
	PostMessageContext(ctx context.Context, channelID string, options ...slack.MsgOption) (string, string, error)
}

var _ notifier.Notifier = &Notifier{}

// Notifier handles sending notifications to Slack.
type Notifier struct {
	api       slackClient
	channelID string
	metrics   metrics.Metrics
	// logOnly turns every send into a dry run.
	logOnly bool
}

// NewNotifier creates a new Notifier.
func NewNotifier(token, channelID string, metrics metrics.Metrics) *Notifier {
	return NewNotifierWithAPI(slack.New(token), channelID, metrics)
}

// NewNotifierWithAPI creates a new Notifier with a specific slack.Client instance.
// Useful for tests that need to intercept API calls.
func NewNotifierWithAPI(api slackClient, channelID string, metrics metrics.Metrics) *Notifier {
	return &Notifier{
		api:       api,
		channelID: channelID,
		metrics:   metrics,
	}
}

// NewLogNotifier creates a Notifier that only logs the messages it would send.
// It is used when no Slack credentials are configured.
func NewLogNotifier(metrics metrics.Metrics) *Notifier {
	return &Notifier{channelID: "log", metrics: metrics, logOnly: true}
}

func (s *Notifier) sendMessage(ctx context.Context, message slack.Message, dryRun bool) (string, string, error) {
	if dryRun || s.logOnly {
		jsonMsg, _ := json.MarshalIndent(message, "", "  ")
		log.Info("[Dry Run] Would send Slack message", "channel", s.channelID, "message", string(jsonMsg))
		return "dry-run-ts", "dry-run-thread-ts", nil
	}

	ctx, cancel := context.WithTimeout(ctx, 10*time.Second)
	defer cancel()

	channelID, timestamp, err := s.api.PostMessageContext(
		ctx,
		s.channelID,
		slack.MsgOptionBlocks(message.Blocks.BlockSet...),
		slack.MsgOptionAsUser(true),
	)
	if err != nil {
		s.metrics.IncSlackNotifFailed()
		log.Error("Failed to send Slack message", "error", err, "channel", s.channelID)
		return "", "", fmt.Errorf("failed to post message: %w", err)
	}

	s.metrics.IncSlackNotifSent()
	log.Info("Successfully sent Slack message", "channel", channelID, "timestamp", timestamp)
	return channelID, timestamp, nil
}

func (s *Notifier) SendInningsSummary(ctx context.Context, summary notifier.InningsSummary, dryRun bool) error {
	_, _, err := s.sendMessage(ctx, s.formatInningsSummary(summary), dryRun)
	return err
}

func (s *Notifier) SendPlayingXI(ctx context.Context, result selection.Result, quotas selection.Quotas, dryRun bool) error {
	_, _, err := s.sendMessage(ctx, s.formatPlayingXI(result, quotas), dryRun)
	return err
}

func (s *Notifier) SendRatings(ctx context.Context, profiles []rating.Profile, dryRun bool) error {
	_, _, err := s.sendMessage(ctx, s.formatRatings(profiles), dryRun)
	return err
}

func plainText(text string) *slack.TextBlockObject {
	return slack.NewTextBlockObject("plain_text", text, true, false)
}

func textSection(text string) *slack.SectionBlock {
	return slack.NewSectionBlock(plainText(text), nil, nil)
}

// formatInningsSummary creates the scorecard message for an innings using Block Kit.
func (s *Notifier) formatInningsSummary(summary notifier.InningsSummary) slack.Message {
	inn := summary.Innings
	blocks := make([]slack.Block, 0)

	headerText := fmt.Sprintf("🏏 %s %d/%d (%s ov) 🏏", inn.BattingTeamName, inn.TotalRuns, inn.Wickets, cricket.FormatOvers(inn.LegalBalls))
	blocks = append(blocks, slack.NewHeaderBlock(plainText(headerText)))

	detailsText := fmt.Sprintf("Innings %d of %s vs %s, %d overs", inn.InningsNo, summary.Match.HomeTeamName, summary.Match.AwayTeamName, summary.Match.TotalOvers)
	blocks = append(blocks, textSection(detailsText))

	var batters []ledger.BattingStats
	for _, b := range summary.Batting {
		if b.TeamID == inn.BattingTeamID {
			batters = append(batters, b)
		}
	}
	sort.SliceStable(batters, func(i, j int) bool { return batters[i].Runs > batters[j].Runs })

	var bowlers []ledger.BowlingStats
	for _, b := range summary.Bowling {
		if b.TeamID == inn.BowlingTeamID {
			bowlers = append(bowlers, b)
		}
	}
	sort.SliceStable(bowlers, func(i, j int) bool {
		if bowlers[i].Wickets != bowlers[j].Wickets {
			return bowlers[i].Wickets > bowlers[j].Wickets
		}
		return bowlers[i].RunsConceded < bowlers[j].RunsConceded
	})

	var fields []*slack.TextBlockObject
	if len(batters) > 0 {
		var lines []string
		for _, b := range batters[:min(topN, len(batters))] {
			lines = append(lines, fmt.Sprintf("• %s %d (%d)", b.PlayerName, b.Runs, b.BallsFaced))
		}
		fields = append(fields, plainText("Batting:\n"+strings.Join(lines, "\n")))
	}
	if len(bowlers) > 0 {
		var lines []string
		for _, b := range bowlers[:min(topN, len(bowlers))] {
			lines = append(lines, fmt.Sprintf("• %s %d/%d (%s)", b.PlayerName, b.Wickets, b.RunsConceded, cricket.FormatOvers(b.BallsBowled)))
		}
		fields = append(fields, plainText("Bowling:\n"+strings.Join(lines, "\n")))
	}
	if len(fields) > 0 {
		blocks = append(blocks, slack.NewSectionBlock(nil, fields, nil))
	}

	if inn.Status == cricket.InningsCompleted {
		blocks = append(blocks, slack.NewContextBlock("", plainText("Innings completed")))
	}

	return slack.NewBlockMessage(blocks...)
}

// formatPlayingXI creates the lineup message for a team selection.
func (s *Notifier) formatPlayingXI(result selection.Result, quotas selection.Quotas) slack.Message {
	blocks := make([]slack.Block, 0)
	blocks = append(blocks, slack.NewHeaderBlock(plainText("🏏 Playing XI 🏏")))

	lineup := selection.BuildLineup(result, quotas)
	if len(lineup) == 0 {
		blocks = append(blocks, textSection("No players selected."))
		return slack.NewBlockMessage(blocks...)
	}

	var lines []string
	for i, e := range lineup {
		if e.IsBlank() {
			lines = append(lines, fmt.Sprintf("%d. %s: open slot", i+1, e.Role))
			continue
		}
		line := fmt.Sprintf("%d. %s (%s) %.2f", i+1, e.PlayerName, e.Role, e.SelectionScore)
		if e.Reason == selection.ReasonEmergingSlot {
			line += " 🌱"
		}
		lines = append(lines, line)
	}
	blocks = append(blocks, textSection(strings.Join(lines, "\n")))

	var shortages []string
	for _, role := range cricket.SelectionOrder {
		if n := result.Shortages[role]; n > 0 {
			shortages = append(shortages, fmt.Sprintf("%s short by %d", role, n))
		}
	}
	if len(shortages) > 0 {
		blocks = append(blocks, slack.NewContextBlock("", plainText(strings.Join(shortages, " | "))))
	}

	return slack.NewBlockMessage(blocks...)
}

// formatRatings creates a message listing the best rated players.
func (s *Notifier) formatRatings(profiles []rating.Profile) slack.Message {
	blocks := make([]slack.Block, 0)
	blocks = append(blocks, slack.NewHeaderBlock(plainText("🏆 Player Ratings 🏆")))

	if len(profiles) == 0 {
		blocks = append(blocks, textSection("No stats available yet. Go play some matches!"))
		return slack.NewBlockMessage(blocks...)
	}

	for i, p := range profiles[:min(topN, len(profiles))] {
		rank := i + 1
		var medal string
		switch rank {
		case 1:
			medal = "🥇"
		case 2:
			medal = "🥈"
		case 3:
			medal = "🥉"
		}
		playerText := fmt.Sprintf("%d. %s %s (%s)\n> Rating: %.2f | Batting: %.2f | Bowling: %.2f | Fielding: %.2f",
			rank,
			medal,
			p.PlayerName,
			p.Role,
			p.Rating,
			p.BattingScore,
			p.BowlingScore,
			p.FieldingScore,
		)
		blocks = append(blocks, textSection(playerText))
	}

	return slack.NewBlockMessage(blocks...)
}
