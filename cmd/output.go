// ABOUTME: Shared output, exit code and prompt helpers for commands
// ABOUTME: Formats JSON, renders fixtures as text and asks for missing arguments

package cmd

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"os"
	"os/signal"
	"strings"
	"syscall"

	"github.com/charmbracelet/huh"
	"github.com/markalston/myteams/internal/client"
	"github.com/markalston/myteams/internal/livepoll"
	"github.com/markalston/myteams/internal/tui/sanitize"
	"github.com/mattn/go-isatty"
	"github.com/spf13/cobra"
)

// Exit codes shared by all commands
const (
	exitOK     = 0
	exitFailed = 1 // the request was understood but refused, or nothing to show
	exitError  = 2 // configuration or connectivity problem
)

var errNotSignedIn = errors.New("not signed in, run `myteams login` first")

// runner is the shape of every command body
type runner func(ctx context.Context, w io.Writer, args []string) int

// runWithSignals adapts a runner to cobra, exiting with its code
func runWithSignals(fn runner) func(cmd *cobra.Command, args []string) {
	return func(cmd *cobra.Command, args []string) {
		ctx, cancel := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
		defer cancel()

		exitCode := fn(ctx, cmd.OutOrStdout(), args)
		if exitCode != exitOK {
			os.Exit(exitCode)
		}
	}
}

// printJSON writes v as indented JSON
func printJSON(w io.Writer, v interface{}) {
	data, _ := json.MarshalIndent(v, "", "  ")
	fmt.Fprintln(w, string(data))
}

// printError writes err and returns the matching exit code
func printError(w io.Writer, err error) int {
	fmt.Fprintf(w, "Error: %s\n", sanitize.Text(err.Error()))
	if errors.Is(err, errNotSignedIn) {
		return exitFailed
	}
	var apiErr *client.APIError
	if errors.As(err, &apiErr) && apiErr.Status >= 400 && apiErr.Status < 500 {
		return exitFailed
	}
	return exitError
}

// interactive reports whether prompts can be shown
func interactive() bool {
	return isatty.IsTerminal(os.Stdin.Fd()) || isatty.IsCygwinTerminal(os.Stdin.Fd())
}

// argOrPrompt returns args[0], or asks for it on a terminal
func argOrPrompt(args []string, title, placeholder string) (string, error) {
	if len(args) > 0 {
		return args[0], nil
	}
	if !interactive() {
		return "", fmt.Errorf("%s is required", strings.ToLower(title))
	}

	var value string
	err := huh.NewInput().
		Title(title).
		Placeholder(placeholder).
		Value(&value).
		Validate(func(s string) error {
			if strings.TrimSpace(s) == "" {
				return fmt.Errorf("%s is required", strings.ToLower(title))
			}
			return nil
		}).
		Run()
	if err != nil {
		return "", err
	}
	return strings.TrimSpace(value), nil
}

// fixtureLine renders a fixture on one line, e.g. "Arsenal 2–1 Chelsea  [Full time]"
func fixtureLine(f *client.Fixture) string {
	home := sanitize.Or(f.HomeName(), "TBD")
	away := sanitize.Or(f.AwayName(), "TBD")

	status, ok := livepoll.ParseFixtureStatus(f.Status)
	if !ok || status == livepoll.StatusScheduled || status == livepoll.StatusTBD {
		when := "date TBC"
		if !f.StartTime.IsZero() {
			when = f.StartTime.Local().Format("Mon 2 Jan 15:04")
		}
		return fmt.Sprintf("%s vs %s  %s", home, away, when)
	}
	return fmt.Sprintf("%s %s %s  [%s]", home, f.Score(), away, status.Label())
}

// eventLine renders a match event, e.g. "12'  goal  Saka"
func eventLine(e client.Event) string {
	minute := "–"
	if e.Minute != nil {
		minute = fmt.Sprintf("%d'", *e.Minute)
	}
	who := sanitize.Text(e.PlayerName)
	line := fmt.Sprintf("%5s  %-12s %s", minute, sanitize.Text(e.Type), who)
	if p := sanitize.Text(e.Payload); p != "" {
		line += "  (" + p + ")"
	}
	return strings.TrimRight(line, " ")
}
