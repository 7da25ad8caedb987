// ABOUTME: Tests for dashboard component
// ABOUTME: Validates followed-team rendering and cursor movement

package dashboard

import (
	"strings"
	"testing"
	"time"

	"github.com/markalston/myteams/internal/client"
	"github.com/markalston/myteams/internal/tui/icons"
)

func intPtr(v int) *int { return &v }

func sampleEntries() []client.DashboardEntry {
	return []client.DashboardEntry{
		{
			Team:     client.Team{ID: "t1", Name: "Arsenal"},
			Standing: &client.Standing{Rank: 2, Points: 54},
			LastFixture: &client.Fixture{
				ID:        "f1",
				Status:    "FT",
				HomeTeam:  &client.Team{Name: "Arsenal"},
				AwayTeam:  &client.Team{Name: "Spurs"},
				HomeScore: intPtr(2),
				AwayScore: intPtr(1),
			},
			NextFixture: &client.Fixture{
				ID:        "f2",
				Status:    "NS",
				StartTime: time.Date(2026, 10, 24, 15, 0, 0, 0, time.UTC),
				HomeTeam:  &client.Team{Name: "Chelsea"},
				AwayTeam:  &client.Team{Name: "Arsenal"},
			},
		},
		{
			Team: client.Team{ID: "t2", Name: "Brighton &amp; Hove Albion"},
		},
	}
}

func TestDashboardView(t *testing.T) {
	d := New(sampleEntries(), 120, 24)
	view := d.View()

	for _, expected := range []string{
		"My Teams",
		"Arsenal",
		icons.League.String() + " #2 · 54 pts",
		"2–1",
		"Spurs",
		"Full time",
		"Chelsea vs Arsenal",
		"Brighton & Hove Albion",
	} {
		if !strings.Contains(view, expected) {
			t.Errorf("expected view to contain %q\nView:\n%s", expected, view)
		}
	}
}

func TestDashboardNilEntries(t *testing.T) {
	d := New(nil, 80, 24)
	if !strings.Contains(d.View(), "Loading") {
		t.Error("expected loading message when entries are nil")
	}
}

func TestDashboardEmpty(t *testing.T) {
	d := New(nil, 80, 24)
	d.Update([]client.DashboardEntry{})

	view := d.View()
	if strings.Contains(view, "Loading") {
		t.Error("should not show loading after update")
	}
	if !strings.Contains(view, "not following any teams") {
		t.Errorf("expected empty-state hint\nView:\n%s", view)
	}
}

func TestDashboardCursor(t *testing.T) {
	d := New(sampleEntries(), 80, 24)

	d.MoveUp()
	if e, _ := d.Selected(); e.Team.ID != "t1" {
		t.Errorf("expected cursor clamped at top, got %s", e.Team.ID)
	}

	d.MoveDown()
	d.MoveDown()
	if e, _ := d.Selected(); e.Team.ID != "t2" {
		t.Errorf("expected cursor clamped at bottom, got %s", e.Team.ID)
	}

	// Shrinking the list pulls the cursor back into range
	d.Update(sampleEntries()[:1])
	if e, ok := d.Selected(); !ok || e.Team.ID != "t1" {
		t.Errorf("expected cursor on t1 after shrink, got %+v", e)
	}

	d.Update(nil)
	if _, ok := d.Selected(); ok {
		t.Error("expected no selection for an empty list")
	}
}

func TestDashboardSetSize(t *testing.T) {
	d := New(nil, 80, 24)

	d.SetSize(120, 40)

	if d.width != 120 {
		t.Errorf("expected width 120, got %d", d.width)
	}
	if d.height != 40 {
		t.Errorf("expected height 40, got %d", d.height)
	}
}
