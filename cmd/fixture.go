// ABOUTME: Fixture commands for the myteams CLI
// ABOUTME: Lists a team's fixtures and follows a match live

package cmd

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"time"

	"github.com/markalston/myteams/internal/client"
	"github.com/markalston/myteams/internal/livepoll"
	"github.com/spf13/cobra"
)

var watchIdle time.Duration

var fixturesCmd = &cobra.Command{
	Use:   "fixtures <team-id>",
	Short: "List a team's fixtures",
	Args:  cobra.ExactArgs(1),
	Run: runWithSignals(func(ctx context.Context, w io.Writer, args []string) int {
		return runFixtures(ctx, w, args[0])
	}),
}

var fixtureCmd = &cobra.Command{
	Use:   "fixture",
	Short: "Inspect a single fixture",
}

var fixtureWatchCmd = &cobra.Command{
	Use:   "watch <fixture-id>",
	Short: "Follow a fixture, refreshing events while it is in play",
	Long: `Print a fixture and its events, then refresh every 30 seconds while the
match is in the first or second half. Stops when the match is not in play,
unless --idle is set, in which case fixtures that have not finished are
re-checked at that interval (e.g. across half time).

With --json, one JSON object is written per refresh.`,
	Args: cobra.ExactArgs(1),
	Run: runWithSignals(func(ctx context.Context, w io.Writer, args []string) int {
		return runFixtureWatch(ctx, w, args[0])
	}),
}

func init() {
	fixtureWatchCmd.Flags().DurationVar(&watchIdle, "idle", 0, "Re-check interval for fixtures that are not in play (0 stops)")
	fixtureCmd.AddCommand(fixtureWatchCmd)
	rootCmd.AddCommand(fixturesCmd, fixtureCmd)
}

func runFixtures(ctx context.Context, w io.Writer, teamID string) int {
	r, err := newRuntime(ctx, runtimeOptions{})
	if err != nil {
		return printError(w, err)
	}
	defer r.Close()

	page, err := r.api.TeamFixtures(ctx, teamID)
	if err != nil {
		return printError(w, err)
	}

	if IsJSONOutput() {
		printJSON(w, page)
		return exitOK
	}
	if len(page.Items) == 0 {
		fmt.Fprintln(w, "No fixtures scheduled")
		return exitOK
	}
	for i := range page.Items {
		fmt.Fprintf(w, "%-10s %s\n", page.Items[i].ID, fixtureLine(&page.Items[i]))
	}
	return exitOK
}

// watchPrinter writes watcher updates, printing each event once
type watchPrinter struct {
	w    io.Writer
	seen map[string]bool
	json bool
}

func (p *watchPrinter) print(u livepoll.Update) {
	if p.json {
		data, _ := json.Marshal(struct {
			Fixture     *client.Fixture `json:"fixture"`
			Events      []client.Event  `json:"events"`
			NextRefresh float64         `json:"next_refresh_seconds"`
			Error       string          `json:"error,omitempty"`
		}{u.Fixture, u.Events, u.Next.Seconds(), errString(u.Err)})
		fmt.Fprintln(p.w, string(data))
		return
	}

	if u.Err != nil {
		fmt.Fprintf(p.w, "Refresh failed: %v\n", u.Err)
	} else if u.Fixture != nil {
		fmt.Fprintln(p.w, fixtureLine(u.Fixture))
	}
	for _, e := range u.Events {
		key := e.ID
		if key == "" {
			key = fmt.Sprintf("%s/%v/%s", e.Type, e.Minute, e.PlayerName)
		}
		if p.seen[key] {
			continue
		}
		p.seen[key] = true
		fmt.Fprintln(p.w, "  "+eventLine(e))
	}
	if u.Next > 0 {
		fmt.Fprintf(p.w, "  next refresh in %s\n", u.Next)
	}
}

func errString(err error) string {
	if err == nil {
		return ""
	}
	return err.Error()
}

func runFixtureWatch(ctx context.Context, w io.Writer, fixtureID string) int {
	r, err := newRuntime(ctx, runtimeOptions{})
	if err != nil {
		return printError(w, err)
	}
	defer r.Close()

	p := &watchPrinter{w: w, seen: make(map[string]bool), json: IsJSONOutput()}
	err = r.watcher(watchIdle).Run(ctx, fixtureID, p.print)
	if err != nil && !errors.Is(err, context.Canceled) {
		return printError(w, err)
	}
	return exitOK
}
