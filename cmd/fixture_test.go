// ABOUTME: Tests for the fixture commands and fixture formatting
// ABOUTME: Covers team fixture listing, fixture watch output and event lines

package cmd

import (
	"bytes"
	"context"
	"encoding/json"
	"strings"
	"testing"
	"time"

	"github.com/markalston/myteams/internal/client"
	"github.com/markalston/myteams/internal/livepoll"
)

func TestFixtures_ListsTeamFixtures(t *testing.T) {
	b := newFakeBackend(t)
	useBackend(t, b.server.URL)

	var buf bytes.Buffer
	if code := runFixtures(context.Background(), &buf, "t1"); code != exitOK {
		t.Fatalf("expected exit code 0, got %d: %s", code, buf.String())
	}
	if !strings.Contains(buf.String(), "f1") || !strings.Contains(buf.String(), "Arsenal 2–1 Chelsea") {
		t.Errorf("expected fixture line, got %q", buf.String())
	}

	buf.Reset()
	runFixtures(context.Background(), &buf, "t9")
	if !strings.Contains(buf.String(), "No fixtures scheduled") {
		t.Errorf("expected empty message, got %q", buf.String())
	}
}

func TestFixtureWatch_FinishedFixturePrintsOnce(t *testing.T) {
	b := newFakeBackend(t)
	useBackend(t, b.server.URL)

	var buf bytes.Buffer
	if code := runFixtureWatch(context.Background(), &buf, "f1"); code != exitOK {
		t.Fatalf("expected exit code 0, got %d: %s", code, buf.String())
	}
	out := buf.String()
	if strings.Count(out, "Arsenal 2–1 Chelsea  [Full time]") != 1 {
		t.Errorf("expected fixture printed once, got:\n%s", out)
	}
	if !strings.Contains(out, "Saka") || !strings.Contains(out, "Palmer") {
		t.Errorf("expected events, got:\n%s", out)
	}
	if strings.Contains(out, "next refresh") {
		t.Errorf("expected no further refresh for a finished match, got:\n%s", out)
	}
}

func TestFixtureWatch_JSON(t *testing.T) {
	b := newFakeBackend(t)
	useBackend(t, b.server.URL)
	jsonOutput = true

	var buf bytes.Buffer
	if code := runFixtureWatch(context.Background(), &buf, "f1"); code != exitOK {
		t.Fatalf("expected exit code 0, got %d", code)
	}

	lines := strings.Split(strings.TrimSpace(buf.String()), "\n")
	if len(lines) != 1 {
		t.Fatalf("expected one JSON object, got %d lines", len(lines))
	}
	var got struct {
		Fixture *client.Fixture `json:"fixture"`
		Events  []client.Event  `json:"events"`
	}
	if err := json.Unmarshal([]byte(lines[0]), &got); err != nil {
		t.Fatalf("output is not valid JSON: %v", err)
	}
	if got.Fixture == nil || got.Fixture.ID != "f1" || len(got.Events) != 2 {
		t.Errorf("unexpected watch output: %+v", got)
	}
}

func TestFixtureWatch_UnknownFixture(t *testing.T) {
	b := newFakeBackend(t)
	useBackend(t, b.server.URL)

	var buf bytes.Buffer
	code := runFixtureWatch(context.Background(), &buf, "nope")

	if code != exitFailed {
		t.Errorf("expected exit code 1, got %d", code)
	}
	if !strings.Contains(buf.String(), "Fixture not found") {
		t.Errorf("expected backend message, got %q", buf.String())
	}
}

func TestWatchPrinter_SkipsSeenEvents(t *testing.T) {
	var buf bytes.Buffer
	p := &watchPrinter{w: &buf, seen: make(map[string]bool)}
	fixture := finishedFixture

	p.print(updateWith(&fixture, fixtureEvents[:1]))
	p.print(updateWith(&fixture, fixtureEvents))

	if n := strings.Count(buf.String(), "Saka"); n != 1 {
		t.Errorf("expected Saka printed once, got %d times:\n%s", n, buf.String())
	}
	if n := strings.Count(buf.String(), "Palmer"); n != 1 {
		t.Errorf("expected Palmer printed once, got %d times:\n%s", n, buf.String())
	}
}

func updateWith(f *client.Fixture, events []client.Event) livepoll.Update {
	return livepoll.Update{Fixture: f, Events: events, Status: livepoll.StatusFinished}
}

func TestFixtureLine(t *testing.T) {
	kickoff := time.Date(2026, 8, 15, 15, 0, 0, 0, time.UTC)
	tests := []struct {
		name    string
		fixture client.Fixture
		want    string
	}{
		{
			name:    "finished",
			fixture: finishedFixture,
			want:    "Arsenal 2–1 Chelsea  [Full time]",
		},
		{
			name:    "scheduled",
			fixture: client.Fixture{HomeTeamID: "t1", AwayTeamID: "t2", Status: "NS", StartTime: kickoff},
			want:    "t1 vs t2  " + kickoff.Local().Format("Mon 2 Jan 15:04"),
		},
		{
			name:    "no date",
			fixture: client.Fixture{HomeTeamID: "t1", AwayTeamID: "t2", Status: "TBD"},
			want:    "t1 vs t2  date TBC",
		},
		{
			name:    "missing teams",
			fixture: client.Fixture{Status: "1H", HomeScore: intPtr(0), AwayScore: intPtr(0)},
			want:    "TBD 0–0 TBD  [1st half]",
		},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := fixtureLine(&tt.fixture); got != tt.want {
				t.Errorf("fixtureLine() = %q, want %q", got, tt.want)
			}
		})
	}
}

func TestEventLine(t *testing.T) {
	got := eventLine(client.Event{Type: "card", Minute: intPtr(45), PlayerName: "Rice", Payload: "yellow"})
	if got != "  45'  card         Rice  (yellow)" {
		t.Errorf("unexpected event line %q", got)
	}

	got = eventLine(client.Event{Type: "var"})
	if got != "    –  var" {
		t.Errorf("unexpected event line without minute %q", got)
	}
}
