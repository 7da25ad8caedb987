// ABOUTME: Team commands for the myteams CLI
// ABOUTME: Follow toggling, the follow list, the dashboard and team search

package cmd

import (
	"context"
	"fmt"
	"io"
	"strings"

	"github.com/markalston/myteams/internal/client"
	"github.com/markalston/myteams/internal/follow"
	"github.com/markalston/myteams/internal/remote"
	"github.com/markalston/myteams/internal/tui/sanitize"
	"github.com/spf13/cobra"
)

var followCmd = &cobra.Command{
	Use:   "follow <team-id>",
	Short: "Follow a team, or unfollow it if already followed",
	Args:  cobra.ExactArgs(1),
	Run: runWithSignals(func(ctx context.Context, w io.Writer, args []string) int {
		return runFollow(ctx, w, args[0])
	}),
}

var followsCmd = &cobra.Command{
	Use:   "follows",
	Short: "List followed teams",
	Args:  cobra.NoArgs,
	Run:   runWithSignals(func(ctx context.Context, w io.Writer, _ []string) int { return runFollows(ctx, w) }),
}

var dashboardCmd = &cobra.Command{
	Use:   "dashboard",
	Short: "Show followed teams with their standing and fixtures",
	Args:  cobra.NoArgs,
	Run:   runWithSignals(func(ctx context.Context, w io.Writer, _ []string) int { return runDashboard(ctx, w) }),
}

var searchCmd = &cobra.Command{
	Use:   "search <query>",
	Short: "Search teams by name",
	Args:  cobra.MinimumNArgs(1),
	Run: runWithSignals(func(ctx context.Context, w io.Writer, args []string) int {
		return runSearch(ctx, w, strings.Join(args, " "))
	}),
}

func init() {
	rootCmd.AddCommand(followCmd, followsCmd, dashboardCmd, searchCmd)
}

// signedInRuntime builds a runtime and requires a stored session
func signedInRuntime(ctx context.Context, w io.Writer) (*runtime, int) {
	r, err := newRuntime(ctx, runtimeOptions{})
	if err != nil {
		return nil, printError(w, err)
	}
	if err := r.requireSession(); err != nil {
		r.Close()
		return nil, printError(w, err)
	}
	return r, exitOK
}

func runFollow(ctx context.Context, w io.Writer, teamID string) int {
	r, code := signedInRuntime(ctx, w)
	if r == nil {
		return code
	}
	defer r.Close()

	op, err := r.follows.Toggle(ctx, teamID)
	if err != nil {
		fmt.Fprintf(w, "Error: %s\n", sanitize.Text(err.Error()))
		return exitFailed
	}

	if IsJSONOutput() {
		printJSON(w, map[string]interface{}{"team_id": teamID, "op": op, "following": op == follow.OpFollow})
		return exitOK
	}
	if op == follow.OpFollow {
		fmt.Fprintf(w, "Now following %s\n", sanitize.Text(teamID))
	} else {
		fmt.Fprintf(w, "Unfollowed %s\n", sanitize.Text(teamID))
	}
	return exitOK
}

func runFollows(ctx context.Context, w io.Writer) int {
	r, code := signedInRuntime(ctx, w)
	if r == nil {
		return code
	}
	defer r.Close()

	follows, err := r.follows.Follows(ctx)
	if err != nil {
		return printError(w, err)
	}

	if IsJSONOutput() {
		printJSON(w, follows)
		return exitOK
	}
	if len(follows) == 0 {
		fmt.Fprintln(w, "You're not following any teams yet. Try: myteams search <name>")
		return exitOK
	}
	for _, f := range follows {
		name := f.TeamID
		if f.Team != nil {
			name = sanitize.Or(f.Team.Name, f.TeamID)
		}
		fmt.Fprintf(w, "%-10s %s\n", sanitize.Text(f.TeamID), name)
	}
	return exitOK
}

func runDashboard(ctx context.Context, w io.Writer) int {
	r, code := signedInRuntime(ctx, w)
	if r == nil {
		return code
	}
	defer r.Close()

	entries, err := remote.Query(ctx, r.cache, remote.KeyDashboard, r.api.Dashboard)
	if err != nil {
		return printError(w, err)
	}

	if IsJSONOutput() {
		printJSON(w, entries)
		return exitOK
	}
	fmt.Fprintln(w, formatDashboardHuman(entries))
	return exitOK
}

// formatDashboardHuman formats dashboard entries for human readability
func formatDashboardHuman(entries []client.DashboardEntry) string {
	if len(entries) == 0 {
		return "You're not following any teams yet. Try: myteams search <name>"
	}

	var sb strings.Builder
	for i, e := range entries {
		if i > 0 {
			sb.WriteString("\n")
		}
		sb.WriteString(sanitize.Or(e.Team.Name, e.Team.ID))
		if e.Standing != nil {
			fmt.Fprintf(&sb, "  #%d · %d pts", e.Standing.Rank, e.Standing.Points)
		}
		sb.WriteString("\n")
		if e.LastFixture != nil {
			sb.WriteString("  Last: " + fixtureLine(e.LastFixture) + "\n")
		}
		if e.NextFixture != nil {
			sb.WriteString("  Next: " + fixtureLine(e.NextFixture) + "\n")
		}
	}
	return strings.TrimRight(sb.String(), "\n")
}

func runSearch(ctx context.Context, w io.Writer, query string) int {
	query = strings.TrimSpace(query)
	if len([]rune(query)) < 2 {
		fmt.Fprintln(w, "Error: search needs at least 2 characters")
		return exitError
	}

	r, err := newRuntime(ctx, runtimeOptions{})
	if err != nil {
		return printError(w, err)
	}
	defer r.Close()

	page, err := r.api.SearchTeams(ctx, query)
	if err != nil {
		return printError(w, err)
	}

	// Follow markers are best effort; search works signed out
	signedIn := r.requireSession() == nil
	if signedIn {
		if _, err := r.follows.Follows(ctx); err != nil {
			r.logger.Debug("Could not load follows for search", "error", err)
			signedIn = false
		}
	}

	if IsJSONOutput() {
		printJSON(w, page)
		return exitOK
	}
	if len(page.Items) == 0 {
		fmt.Fprintf(w, "No teams match %q\n", sanitize.Text(query))
		return exitFailed
	}
	for _, t := range page.Items {
		line := fmt.Sprintf("%-10s %s", sanitize.Text(t.ID), sanitize.Or(t.Name, t.ID))
		if t.Country != "" {
			line += " (" + sanitize.Text(t.Country) + ")"
		}
		if signedIn && r.follows.IsFollowed(t.ID) {
			line += "  ★ following"
		}
		fmt.Fprintln(w, line)
	}
	if page.HasNext {
		fmt.Fprintf(w, "… %d more, refine your search\n", page.Total-len(page.Items))
	}
	return exitOK
}
