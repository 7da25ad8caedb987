// ABOUTME: Dashboard component listing followed teams
// ABOUTME: Shows each team's standing plus its next and last fixture

package dashboard

import (
	"fmt"
	"strings"

	"github.com/charmbracelet/lipgloss"
	"github.com/markalston/myteams/internal/client"
	"github.com/markalston/myteams/internal/livepoll"
	"github.com/markalston/myteams/internal/tui/icons"
	"github.com/markalston/myteams/internal/tui/sanitize"
	"github.com/markalston/myteams/internal/tui/styles"
	"github.com/markalston/myteams/internal/tui/widgets"
)

// Dashboard displays the user's followed teams
type Dashboard struct {
	entries []client.DashboardEntry
	loaded  bool
	cursor  int
	width   int
	height  int
}

// New creates a dashboard; nil entries render as loading
func New(entries []client.DashboardEntry, width, height int) *Dashboard {
	return &Dashboard{
		entries: entries,
		loaded:  entries != nil,
		width:   width,
		height:  height,
	}
}

// Update replaces the entries, keeping the cursor in range
func (d *Dashboard) Update(entries []client.DashboardEntry) {
	d.entries = entries
	d.loaded = true
	if d.cursor >= len(entries) {
		d.cursor = max(0, len(entries)-1)
	}
}

// SetSize updates the dashboard dimensions
func (d *Dashboard) SetSize(width, height int) {
	d.width = width
	d.height = height
}

// MoveUp moves the cursor to the previous team
func (d *Dashboard) MoveUp() {
	if d.cursor > 0 {
		d.cursor--
	}
}

// MoveDown moves the cursor to the next team
func (d *Dashboard) MoveDown() {
	if d.cursor < len(d.entries)-1 {
		d.cursor++
	}
}

// Selected returns the entry under the cursor
func (d *Dashboard) Selected() (client.DashboardEntry, bool) {
	if d.cursor < 0 || d.cursor >= len(d.entries) {
		return client.DashboardEntry{}, false
	}
	return d.entries[d.cursor], true
}

// View renders the dashboard
func (d *Dashboard) View() string {
	if !d.loaded {
		return lipgloss.NewStyle().Width(d.width).Render("Loading your teams...")
	}

	var sb strings.Builder
	sb.WriteString(styles.Title.Render(icons.Followed.String() + " My Teams"))
	sb.WriteString("\n")

	if len(d.entries) == 0 {
		sb.WriteString(styles.Subtitle.Render("You are not following any teams yet."))
		sb.WriteString("\n")
		sb.WriteString("Press / to search for a team.")
		return lipgloss.NewStyle().Width(d.width).Height(d.height).Render(sb.String())
	}

	for i, e := range d.entries {
		sb.WriteString(renderEntry(e, i == d.cursor))
		sb.WriteString("\n")
	}

	return lipgloss.NewStyle().
		Width(d.width).
		Height(d.height).
		Render(sb.String())
}

func renderEntry(e client.DashboardEntry, selected bool) string {
	var sb strings.Builder

	name := sanitize.Or(e.Team.Name, e.Team.ID)
	line := name
	if e.Standing != nil {
		line = fmt.Sprintf("%s  %s #%d · %d pts", name, icons.League.String(), e.Standing.Rank, e.Standing.Points)
	}
	sb.WriteString(styles.RenderRow(line, selected))
	sb.WriteString("\n")

	if e.LastFixture != nil {
		sb.WriteString("    Last: " + FixtureLine(e.LastFixture) + "\n")
	}
	if e.NextFixture != nil {
		sb.WriteString("    Next: " + FixtureLine(e.NextFixture) + "\n")
	}
	return sb.String()
}

// FixtureLine renders "Home 2–1 Away" with its status badge, or the kickoff time when not started
func FixtureLine(f *client.Fixture) string {
	status, _ := livepoll.ParseFixtureStatus(f.Status)
	home := sanitize.Or(f.HomeName(), "Home")
	away := sanitize.Or(f.AwayName(), "Away")

	if status == livepoll.StatusScheduled || status == livepoll.StatusTBD {
		return fmt.Sprintf("%s vs %s  %s", home, away, f.StartTime.Local().Format("Mon 2 Jan 15:04"))
	}
	return fmt.Sprintf("%s %s %s  %s", home, f.Score(), away, widgets.FixtureBadge(status))
}
