// ABOUTME: Root command for the myteams CLI
// ABOUTME: Handles global flags and configuration

package cmd

import (
	"github.com/markalston/myteams/internal/config"
	"github.com/spf13/cobra"
)

var (
	apiURL     string
	jsonOutput bool
	configDir  string
)

// rootCmd is the base command
var rootCmd = &cobra.Command{
	Use:   "myteams",
	Short: "Follow football teams and track their fixtures",
	Long: `myteams is a terminal client for the MyTeams API.

Sign in, follow teams, and keep an eye on live fixtures from the command line
or the interactive terminal UI (myteams tui).

Environment Variables:
  MYTEAMS_API_URL        Backend API URL (default: http://localhost:8000/v1)
  MYTEAMS_ENV            development or production (dev login is development only)
  MYTEAMS_CONFIG_DIR     Where the session and debug log are stored
  MYTEAMS_TOKEN_BACKEND  file or sqlite (default: file)
  LOG_LEVEL              debug, info, warn, error (default: info)
  LOG_FORMAT             text or json (default: text)`,
	SilenceUsage: true,
}

// Execute runs the root command
func Execute() error {
	return rootCmd.Execute()
}

func init() {
	rootCmd.PersistentFlags().StringVar(&apiURL, "api-url", "", "Backend API URL (overrides MYTEAMS_API_URL)")
	rootCmd.PersistentFlags().BoolVar(&jsonOutput, "json", false, "Output JSON instead of human-readable text")
	rootCmd.PersistentFlags().StringVar(&configDir, "config-dir", "", "Session and log directory (overrides MYTEAMS_CONFIG_DIR)")
}

// loadConfig reads the environment and applies flag overrides (flags win)
func loadConfig() (*config.Config, error) {
	cfg, err := config.Load()
	if err != nil {
		return nil, err
	}
	if apiURL != "" {
		cfg.APIURL = apiURL
	}
	if configDir != "" {
		cfg.ConfigDir = configDir
	}
	return cfg, cfg.Validate()
}

// IsJSONOutput returns whether JSON output is requested
func IsJSONOutput() bool {
	return jsonOutput
}
