package main

import (
	"net/http"
	"net/url"
	"strconv"
	"strings"

	"github.com/mauv0809/crease/internal/console"
	"github.com/mauv0809/crease/internal/ledger"
	"github.com/spf13/cobra"
)

func init() {
	rootCmd.AddCommand(healthCmd)
	rootCmd.AddCommand(metricsCmd)
	rootCmd.AddCommand(matchCmd)
	rootCmd.AddCommand(inningsCmd)
	rootCmd.AddCommand(ballCmd)
	rootCmd.AddCommand(undoCmd)
	rootCmd.AddCommand(consoleCmd)
	rootCmd.AddCommand(ratingsCmd)
	rootCmd.AddCommand(teamCmd)
	rootCmd.AddCommand(deactivateCmd)
	rootCmd.AddCommand(statsCmd)

	matchCreateCmd.Flags().String("home", "", "Home team name")
	matchCreateCmd.Flags().String("away", "", "Away team name")
	matchCreateCmd.Flags().Int("overs", 20, "Overs per innings")
	matchCreateCmd.Flags().String("home-squad", "", `Home squad as "Name:Role,Name:Role"`)
	matchCreateCmd.Flags().String("away-squad", "", `Away squad as "Name:Role,Name:Role"`)
	matchCmd.AddCommand(matchCreateCmd, matchListCmd, matchShowCmd, matchSquadsCmd, matchInningsCmd,
		matchBattingCmd, matchBowlingCmd, matchRecomputeCmd)

	inningsStartCmd.Flags().Int("no", 1, "Innings number, 1 or 2")
	inningsStartCmd.Flags().Int64("batting", 0, "Batting team id")
	inningsStartCmd.Flags().Int64("bowling", 0, "Bowling team id")
	inningsEventsCmd.Flags().Int("limit", 0, "How many recent events to list")
	inningsCmd.AddCommand(inningsStartCmd, inningsShowCmd, inningsEventsCmd)

	consoleSetCmd.Flags().Int64("striker", 0, "Striker player id")
	consoleSetCmd.Flags().Int64("non-striker", 0, "Non-striker player id")
	consoleSetCmd.Flags().Int64("bowler", 0, "Bowler player id")
	consoleCmd.AddCommand(consoleShowCmd, consoleSetCmd, consoleSwapCmd, consoleResetCmd)

	for _, c := range []*cobra.Command{ratingsCmd, teamCmd} {
		c.Flags().Bool("csv", false, "Return CSV instead of JSON")
		c.Flags().Bool("notify", false, "Post the result to Slack")
	}
	statsCmd.Flags().Bool("csv", false, "Return CSV instead of JSON")
	teamCmd.Flags().String("filter", "", "Override the desired rating filter (true or false)")
}

var healthCmd = &cobra.Command{
	Use:   "health",
	Short: "Check the health of the server",
	RunE: func(cmd *cobra.Command, args []string) error {
		return performGetRequest(cmd.OutOrStdout(), "/health", nil)
	},
}

var metricsCmd = &cobra.Command{
	Use:   "metrics",
	Short: "Get application metrics",
	RunE: func(cmd *cobra.Command, args []string) error {
		return performGetRequest(cmd.OutOrStdout(), "/metrics", nil)
	},
}

var matchCmd = &cobra.Command{
	Use:   "match",
	Short: "Create and inspect matches",
}

var matchCreateCmd = &cobra.Command{
	Use:   "create",
	Short: "Create a match with both squads",
	RunE: func(cmd *cobra.Command, args []string) error {
		home, _ := cmd.Flags().GetString("home")
		away, _ := cmd.Flags().GetString("away")
		overs, _ := cmd.Flags().GetInt("overs")
		homeSquad, _ := cmd.Flags().GetString("home-squad")
		awaySquad, _ := cmd.Flags().GetString("away-squad")

		setup := ledger.MatchSetup{
			HomeTeam:   home,
			AwayTeam:   away,
			TotalOvers: overs,
			HomeSquad:  parseSquad(homeSquad),
			AwaySquad:  parseSquad(awaySquad),
		}
		return performRequest(cmd.OutOrStdout(), http.MethodPost, "/matches", nil, setup)
	},
}

var matchListCmd = &cobra.Command{
	Use:   "list",
	Short: "List every match",
	RunE: func(cmd *cobra.Command, args []string) error {
		return performGetRequest(cmd.OutOrStdout(), "/matches", nil)
	},
}

var matchShowCmd = matchGet("show", "Show a match", "")
var matchSquadsCmd = matchGet("squads", "Show both squads of a match", "/squads")
var matchInningsCmd = matchGet("innings", "List the innings of a match", "/innings")
var matchBattingCmd = matchGet("batting", "Show the batting card of a match", "/batting")
var matchBowlingCmd = matchGet("bowling", "Show the bowling card of a match", "/bowling")

var matchRecomputeCmd = &cobra.Command{
	Use:   "recompute <match-id>",
	Short: "Rebuild a match's totals and statistics from its ball events",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		return performRequest(cmd.OutOrStdout(), http.MethodPost, "/matches/"+args[0]+"/recompute", nil, nil)
	},
}

func matchGet(use, short, suffix string) *cobra.Command {
	return &cobra.Command{
		Use:   use + " <match-id>",
		Short: short,
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			return performGetRequest(cmd.OutOrStdout(), "/matches/"+args[0]+suffix, nil)
		},
	}
}

var inningsCmd = &cobra.Command{
	Use:   "innings",
	Short: "Open and inspect innings",
}

var inningsStartCmd = &cobra.Command{
	Use:   "start <match-id>",
	Short: "Open an innings, or return it if it already exists",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		no, _ := cmd.Flags().GetInt("no")
		batting, _ := cmd.Flags().GetInt64("batting")
		bowling, _ := cmd.Flags().GetInt64("bowling")
		body := map[string]any{"innings_no": no, "batting_team_id": batting, "bowling_team_id": bowling}
		return performRequest(cmd.OutOrStdout(), http.MethodPost, "/matches/"+args[0]+"/innings", nil, body)
	},
}

var inningsShowCmd = &cobra.Command{
	Use:   "show <innings-id>",
	Short: "Show an innings",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		return performGetRequest(cmd.OutOrStdout(), "/innings/"+args[0], nil)
	},
}

var inningsEventsCmd = &cobra.Command{
	Use:   "events <innings-id>",
	Short: "List the most recent deliveries of an innings",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		query := url.Values{}
		if limit, _ := cmd.Flags().GetInt("limit"); limit > 0 {
			query.Set("limit", strconv.Itoa(limit))
		}
		return performGetRequest(cmd.OutOrStdout(), "/innings/"+args[0]+"/events", query)
	},
}

var ballCmd = &cobra.Command{
	Use:   "ball <innings-id> <code>",
	Short: "Score a delivery with a quick code: 0-6, W, wd, nb, lb or b with an optional count",
	Args:  cobra.ExactArgs(2),
	RunE: func(cmd *cobra.Command, args []string) error {
		if _, err := console.ParseQuick(args[1]); err != nil {
			return err
		}
		body := map[string]string{"code": args[1]}
		return performRequest(cmd.OutOrStdout(), http.MethodPost, "/innings/"+args[0]+"/console/ball", nil, body)
	},
}

var undoCmd = &cobra.Command{
	Use:   "undo <innings-id>",
	Short: "Remove the last delivery of an innings",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		return performRequest(cmd.OutOrStdout(), http.MethodPost, "/innings/"+args[0]+"/undo", nil, nil)
	},
}

var consoleCmd = &cobra.Command{
	Use:   "console",
	Short: "Inspect and change who is batting and bowling",
}

var consoleShowCmd = &cobra.Command{
	Use:   "show <innings-id>",
	Short: "Show the striker, non-striker and bowler",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		return performGetRequest(cmd.OutOrStdout(), "/innings/"+args[0]+"/console", nil)
	},
}

var consoleSetCmd = &cobra.Command{
	Use:   "set <innings-id>",
	Short: "Set the players at the crease and the bowler",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		var st console.State
		st.StrikerID, _ = cmd.Flags().GetInt64("striker")
		st.NonStrikerID, _ = cmd.Flags().GetInt64("non-striker")
		st.BowlerID, _ = cmd.Flags().GetInt64("bowler")
		return performRequest(cmd.OutOrStdout(), http.MethodPut, "/innings/"+args[0]+"/console", nil, st)
	},
}

var consoleSwapCmd = &cobra.Command{
	Use:   "swap <innings-id>",
	Short: "Swap the striker and non-striker",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		return performRequest(cmd.OutOrStdout(), http.MethodPost, "/innings/"+args[0]+"/console/swap", nil, nil)
	},
}

var consoleResetCmd = &cobra.Command{
	Use:   "reset <innings-id>",
	Short: "Forget the live players so the defaults are picked again",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		return performRequest(cmd.OutOrStdout(), http.MethodDelete, "/innings/"+args[0]+"/console", nil, nil)
	},
}

var statsCmd = &cobra.Command{
	Use:   "stats",
	Short: "List every player's career statistics with their team",
	RunE: func(cmd *cobra.Command, args []string) error {
		return performGetRequest(cmd.OutOrStdout(), "/players/stats", outputQuery(cmd))
	},
}

var ratingsCmd = &cobra.Command{
	Use:   "ratings",
	Short: "Rate every player",
	RunE: func(cmd *cobra.Command, args []string) error {
		return performGetRequest(cmd.OutOrStdout(), "/ratings", outputQuery(cmd))
	},
}

var teamCmd = &cobra.Command{
	Use:   "team",
	Short: "Select a playing XI from the available players",
	RunE: func(cmd *cobra.Command, args []string) error {
		query := outputQuery(cmd)
		if filter, _ := cmd.Flags().GetString("filter"); filter != "" {
			query.Set("filter", filter)
		}
		return performGetRequest(cmd.OutOrStdout(), "/selection", query)
	},
}

var deactivateCmd = &cobra.Command{
	Use:   "deactivate <player-name>",
	Short: "Mark a player as unavailable for selection",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		return performRequest(cmd.OutOrStdout(), http.MethodPost, "/players/"+url.PathEscape(args[0])+"/deactivate", nil, nil)
	},
}

func outputQuery(cmd *cobra.Command) url.Values {
	query := url.Values{}
	if csv, _ := cmd.Flags().GetBool("csv"); csv {
		query.Set("format", "csv")
	}
	if notify, _ := cmd.Flags().GetBool("notify"); notify {
		query.Set("notify", "true")
	}
	return query
}

// parseSquad reads "Name:Role,Name:Role". A missing role is left blank for the server to default.
func parseSquad(raw string) []ledger.SquadMember {
	var squad []ledger.SquadMember
	for _, part := range strings.Split(raw, ",") {
		part = strings.TrimSpace(part)
		if part == "" {
			continue
		}
		name, role, _ := strings.Cut(part, ":")
		squad = append(squad, ledger.SquadMember{
			PlayerName: strings.TrimSpace(name),
			Role:       strings.TrimSpace(role),
		})
	}
	return squad
}

