// ABOUTME: Health command for the myteams CLI
// ABOUTME: Checks backend liveness and readiness

package cmd

import (
	"context"
	"fmt"
	"io"
	"sort"
	"strings"

	"github.com/markalston/myteams/internal/client"
	"github.com/spf13/cobra"
)

var healthCmd = &cobra.Command{
	Use:   "health",
	Short: "Check backend connectivity",
	Long: `Check connectivity to the MyTeams API and report readiness of its dependencies.

Exit codes:
  0 - Backend is live and ready
  1 - Backend is live but degraded
  2 - Error (connectivity, configuration)`,
	Args: cobra.NoArgs,
	Run:  runWithSignals(func(ctx context.Context, w io.Writer, _ []string) int { return runHealth(ctx, w) }),
}

func init() {
	rootCmd.AddCommand(healthCmd)
}

// healthReport combines the liveness and readiness probes
type healthReport struct {
	Backend string            `json:"backend"`
	Live    string            `json:"live"`
	Ready   string            `json:"ready"`
	Checks  map[string]string `json:"checks,omitempty"`
}

// runHealth executes the health check and returns exit code
func runHealth(ctx context.Context, w io.Writer) int {
	cfg, err := loadConfig()
	if err != nil {
		return printError(w, err)
	}
	c := client.New(cfg.APIURL, client.WithTimeout(cfg.HTTPTimeout))

	live, err := c.Health(ctx)
	if err != nil {
		fmt.Fprintf(w, "Error: %v\n", err)
		return exitError
	}
	ready, err := c.Ready(ctx)
	if err != nil {
		fmt.Fprintf(w, "Error: %v\n", err)
		return exitError
	}

	report := healthReport{
		Backend: cfg.APIURL,
		Live:    live.Status,
		Ready:   ready.Status,
		Checks:  ready.Checks,
	}

	if IsJSONOutput() {
		printJSON(w, report)
	} else {
		fmt.Fprintln(w, formatHealthHuman(report))
	}

	if report.Ready == "degraded" {
		return exitFailed
	}
	return exitOK
}

// formatHealthHuman formats the health report for human readability
func formatHealthHuman(r healthReport) string {
	var sb strings.Builder
	fmt.Fprintf(&sb, "Backend:  %s\n", r.Backend)
	fmt.Fprintf(&sb, "Live:     %s\n", r.Live)
	fmt.Fprintf(&sb, "Ready:    %s", r.Ready)

	names := make([]string, 0, len(r.Checks))
	for name := range r.Checks {
		names = append(names, name)
	}
	sort.Strings(names)
	for _, name := range names {
		fmt.Fprintf(&sb, "\n  %-8s %s", name+":", r.Checks[name])
	}
	return sb.String()
}
