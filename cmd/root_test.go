// ABOUTME: Tests for the root command and global flag handling
// ABOUTME: Verifies environment variable and flag configuration

package cmd

import (
	"testing"
)

func resetFlags(t *testing.T) {
	t.Helper()
	apiURL, configDir, jsonOutput = "", "", false
	t.Cleanup(func() { apiURL, configDir, jsonOutput = "", "", false })
}

func TestLoadConfig_Default(t *testing.T) {
	resetFlags(t)
	t.Setenv("MYTEAMS_API_URL", "")
	t.Setenv("MYTEAMS_CONFIG_DIR", t.TempDir())

	cfg, err := loadConfig()
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if cfg.APIURL != "http://localhost:8000/v1" {
		t.Errorf("expected default URL http://localhost:8000/v1, got %s", cfg.APIURL)
	}
}

func TestLoadConfig_FromEnv(t *testing.T) {
	resetFlags(t)
	t.Setenv("MYTEAMS_API_URL", "http://backend.example.com/v1/")
	t.Setenv("MYTEAMS_CONFIG_DIR", t.TempDir())

	cfg, err := loadConfig()
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if cfg.APIURL != "http://backend.example.com/v1" {
		t.Errorf("expected http://backend.example.com/v1, got %s", cfg.APIURL)
	}
}

func TestLoadConfig_FlagsOverrideEnv(t *testing.T) {
	resetFlags(t)
	t.Setenv("MYTEAMS_API_URL", "http://backend.example.com")
	t.Setenv("MYTEAMS_CONFIG_DIR", "/from/env")
	dir := t.TempDir()
	apiURL = "http://flag-override.example.com"
	configDir = dir

	cfg, err := loadConfig()
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if cfg.APIURL != "http://flag-override.example.com" {
		t.Errorf("expected flag to override env, got %s", cfg.APIURL)
	}
	if cfg.ConfigDir != dir {
		t.Errorf("expected config dir %s, got %s", dir, cfg.ConfigDir)
	}
}

func TestLoadConfig_InvalidFlag(t *testing.T) {
	resetFlags(t)
	t.Setenv("MYTEAMS_CONFIG_DIR", t.TempDir())
	apiURL = "backend.example.com"

	if _, err := loadConfig(); err == nil {
		t.Error("expected error for URL without scheme")
	}
}

func TestJSONOutput(t *testing.T) {
	resetFlags(t)
	jsonOutput = true

	if !IsJSONOutput() {
		t.Error("expected IsJSONOutput to return true")
	}
}

func TestCommandsRegistered(t *testing.T) {
	want := []string{"health", "login", "logout", "whoami", "follow", "follows", "dashboard", "search", "fixtures", "fixture", "tui"}
	for _, name := range want {
		cmd, _, err := rootCmd.Find([]string{name})
		if err != nil || cmd.Name() != name {
			t.Errorf("expected %q command to be registered", name)
		}
	}
}
