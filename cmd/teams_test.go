// ABOUTME: Tests for the team commands
// ABOUTME: Covers follow toggling, the follow list, dashboard and search

package cmd

import (
	"bytes"
	"context"
	"strings"
	"testing"

	"github.com/markalston/myteams/internal/client"
)

// signIn runs dev login against the fake backend
func signIn(t *testing.T, userID string) {
	t.Helper()
	var buf bytes.Buffer
	if code := runLoginDev(context.Background(), &buf, userID); code != exitOK {
		t.Fatalf("dev login failed with %d: %s", code, buf.String())
	}
}

func TestFollow_RequiresSignIn(t *testing.T) {
	b := newFakeBackend(t)
	useBackend(t, b.server.URL)

	var buf bytes.Buffer
	code := runFollow(context.Background(), &buf, "t1")

	if code != exitFailed {
		t.Errorf("expected exit code 1, got %d", code)
	}
	if !strings.Contains(buf.String(), "not signed in") {
		t.Errorf("expected sign-in hint, got %q", buf.String())
	}
}

func TestFollow_Toggles(t *testing.T) {
	b := newFakeBackend(t)
	useBackend(t, b.server.URL)
	signIn(t, "1")
	ctx := context.Background()

	var buf bytes.Buffer
	if code := runFollow(ctx, &buf, "t1"); code != exitOK {
		t.Fatalf("expected exit code 0, got %d: %s", code, buf.String())
	}
	if !strings.Contains(buf.String(), "Now following t1") {
		t.Errorf("expected follow confirmation, got %q", buf.String())
	}
	if !b.isFollowing("t1") {
		t.Fatal("expected backend to record the follow")
	}

	buf.Reset()
	if code := runFollow(ctx, &buf, "t1"); code != exitOK {
		t.Fatalf("expected exit code 0, got %d: %s", code, buf.String())
	}
	if !strings.Contains(buf.String(), "Unfollowed t1") {
		t.Errorf("expected unfollow confirmation, got %q", buf.String())
	}
	if b.isFollowing("t1") {
		t.Error("expected backend to drop the follow")
	}
}

func TestFollow_FailureExitsOne(t *testing.T) {
	b := newFakeBackend(t)
	useBackend(t, b.server.URL)
	signIn(t, "1")

	var buf bytes.Buffer
	code := runFollow(context.Background(), &buf, "missing")

	if code != exitFailed {
		t.Errorf("expected exit code 1, got %d", code)
	}
	if !strings.Contains(buf.String(), "Error:") {
		t.Errorf("expected error output, got %q", buf.String())
	}
}

func TestFollows_ListsTeams(t *testing.T) {
	b := newFakeBackend(t)
	useBackend(t, b.server.URL)
	signIn(t, "1")
	ctx := context.Background()

	var buf bytes.Buffer
	runFollows(ctx, &buf)
	if !strings.Contains(buf.String(), "not following any teams") {
		t.Errorf("expected empty hint, got %q", buf.String())
	}

	runFollow(ctx, &bytes.Buffer{}, "t2")
	buf.Reset()
	if code := runFollows(ctx, &buf); code != exitOK {
		t.Fatalf("expected exit code 0, got %d", code)
	}
	if !strings.Contains(buf.String(), "Chelsea") {
		t.Errorf("expected followed team, got %q", buf.String())
	}
}

func TestDashboard(t *testing.T) {
	b := newFakeBackend(t)
	useBackend(t, b.server.URL)
	signIn(t, "1")
	ctx := context.Background()
	runFollow(ctx, &bytes.Buffer{}, "t1")

	var buf bytes.Buffer
	if code := runDashboard(ctx, &buf); code != exitOK {
		t.Fatalf("expected exit code 0, got %d: %s", code, buf.String())
	}
	out := buf.String()
	if !strings.Contains(out, "Arsenal  #1 · 60 pts") {
		t.Errorf("expected standing, got:\n%s", out)
	}
	if !strings.Contains(out, "Last: Arsenal 2–1 Chelsea  [Full time]") {
		t.Errorf("expected last fixture, got:\n%s", out)
	}
}

func TestFormatDashboardHuman_Empty(t *testing.T) {
	out := formatDashboardHuman(nil)
	if !strings.Contains(out, "myteams search") {
		t.Errorf("expected search hint, got %q", out)
	}
}

func TestFormatDashboardHuman_SanitizesNames(t *testing.T) {
	out := formatDashboardHuman([]client.DashboardEntry{
		{Team: client.Team{ID: "t9", Name: "<b>Bold</b> \x1b[31mFC"}},
	})
	if strings.Contains(out, "<b>") || strings.Contains(out, "\x1b") {
		t.Errorf("expected markup and escapes stripped, got %q", out)
	}
	if !strings.Contains(out, "Bold") {
		t.Errorf("expected team name, got %q", out)
	}
}

func TestSearch(t *testing.T) {
	b := newFakeBackend(t)
	useBackend(t, b.server.URL)

	var buf bytes.Buffer
	if code := runSearch(context.Background(), &buf, "ars"); code != exitOK {
		t.Fatalf("expected exit code 0, got %d: %s", code, buf.String())
	}
	if !strings.Contains(buf.String(), "Arsenal (England)") {
		t.Errorf("expected match, got %q", buf.String())
	}
	if strings.Contains(buf.String(), "following") {
		t.Errorf("expected no follow markers when signed out, got %q", buf.String())
	}
}

func TestSearch_MarksFollowedTeams(t *testing.T) {
	b := newFakeBackend(t)
	useBackend(t, b.server.URL)
	signIn(t, "1")
	ctx := context.Background()
	runFollow(ctx, &bytes.Buffer{}, "t2")

	var buf bytes.Buffer
	if code := runSearch(ctx, &buf, "chel"); code != exitOK {
		t.Fatalf("expected exit code 0, got %d", code)
	}
	if !strings.Contains(buf.String(), "Chelsea (England)  ★ following") {
		t.Errorf("expected follow marker, got %q", buf.String())
	}
}

func TestSearch_Validation(t *testing.T) {
	b := newFakeBackend(t)
	useBackend(t, b.server.URL)
	ctx := context.Background()

	if code := runSearch(ctx, &bytes.Buffer{}, " a "); code != exitError {
		t.Errorf("expected exit code 2 for short query, got %d", code)
	}

	var buf bytes.Buffer
	if code := runSearch(ctx, &buf, "zzz"); code != exitFailed {
		t.Errorf("expected exit code 1 for no results, got %d", code)
	}
	if !strings.Contains(buf.String(), `No teams match "zzz"`) {
		t.Errorf("expected no results message, got %q", buf.String())
	}
}
