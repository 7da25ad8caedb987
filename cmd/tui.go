// ABOUTME: Launches the interactive terminal UI
// ABOUTME: Logs to a file in the config directory while the TUI owns the terminal

package cmd

import (
	"context"
	"fmt"
	"io"

	"github.com/markalston/myteams/internal/logger"
	"github.com/markalston/myteams/internal/tui"
	"github.com/markalston/myteams/internal/tui/recent"
	"github.com/spf13/cobra"
)

var tuiCmd = &cobra.Command{
	Use:   "tui",
	Short: "Open the interactive terminal UI",
	Args:  cobra.NoArgs,
	Run:   runWithSignals(func(ctx context.Context, w io.Writer, _ []string) int { return runTUI(ctx, w) }),
}

func init() {
	rootCmd.AddCommand(tuiCmd)
}

func runTUI(ctx context.Context, w io.Writer) int {
	cfg, err := loadConfig()
	if err != nil {
		return printError(w, err)
	}

	log, closer, err := logger.InitFile(cfg.ConfigDir)
	if err != nil {
		return printError(w, err)
	}
	defer closer.Close()

	// The TUI restores the session itself so it can show progress
	r, err := newRuntime(ctx, runtimeOptions{logger: log, skipHydrate: true})
	if err != nil {
		return printError(w, err)
	}
	defer r.Close()

	log.Info("Starting TUI", "api_url", cfg.APIURL, "env", cfg.Env)

	err = tui.Run(ctx, tui.Deps{
		Session:       r.session,
		Data:          r.api,
		Follows:       r.follows,
		Cache:         r.cache,
		Watcher:       r.watcher(0),
		Recent:        recent.New(cfg.ConfigDir),
		AllowDevLogin: cfg.IsDevelopment(),
		Logger:        log,
	})
	if err != nil {
		fmt.Fprintf(w, "Error: %v\n", err)
		return exitError
	}
	return exitOK
}
