// ABOUTME: Fixture screen with score, status and event timeline
// ABOUTME: Renders the latest refresh delivered by the live poll watcher

package fixture

import (
	"fmt"
	"strings"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"
	"github.com/markalston/myteams/internal/client"
	"github.com/markalston/myteams/internal/livepoll"
	"github.com/markalston/myteams/internal/tui/icons"
	"github.com/markalston/myteams/internal/tui/sanitize"
	"github.com/markalston/myteams/internal/tui/styles"
	"github.com/markalston/myteams/internal/tui/widgets"
)

// UpdateMsg carries a watcher refresh for a fixture
type UpdateMsg struct {
	FixtureID string
	Update    livepoll.Update
}

// DoneMsg is sent when the watcher for a fixture stops
type DoneMsg struct {
	FixtureID string
	Err       error
}

// BackMsg is sent when the user leaves the fixture screen
type BackMsg struct{}

var (
	minuteStyle = lipgloss.NewStyle().Foreground(styles.Muted).Width(6).Align(lipgloss.Right)
	dateStyle   = lipgloss.NewStyle().Foreground(styles.Muted)
)

// Fixture shows one match
type Fixture struct {
	id      string
	latest  livepoll.Update
	loaded  bool
	stopped bool
	err     string
}

// New creates a fixture screen for id
func New(id string) *Fixture {
	return &Fixture{id: id}
}

// ID returns the fixture shown
func (f *Fixture) ID() string {
	return f.id
}

// Init implements tea.Model
func (f *Fixture) Init() tea.Cmd {
	return nil
}

// Update implements tea.Model
func (f *Fixture) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case UpdateMsg:
		if msg.FixtureID != f.id {
			return f, nil
		}
		f.latest = msg.Update
		f.loaded = msg.Update.Fixture != nil
		f.err = ""
		if msg.Update.Err != nil {
			f.err = msg.Update.Err.Error()
		}

	case DoneMsg:
		if msg.FixtureID != f.id {
			return f, nil
		}
		f.stopped = true
		if msg.Err != nil {
			f.err = msg.Err.Error()
		}

	case tea.KeyMsg:
		switch msg.String() {
		case "esc", "b":
			return f, func() tea.Msg { return BackMsg{} }
		}
	}
	return f, nil
}

// View implements tea.Model
func (f *Fixture) View() string {
	var sb strings.Builder

	if !f.loaded {
		if f.err != "" {
			sb.WriteString(styles.StatusCritical.Render(f.err))
		} else {
			sb.WriteString("Loading match...")
		}
		return sb.String()
	}

	fx := f.latest.Fixture
	home := sanitize.Or(fx.HomeName(), "Home")
	away := sanitize.Or(fx.AwayName(), "Away")

	sb.WriteString(styles.Title.Render(icons.Fixture.String() + " Match"))
	sb.WriteString("\n")
	sb.WriteString(home + styles.Score.Render(fx.Score()) + away)
	sb.WriteString("\n")
	if !fx.StartTime.IsZero() {
		sb.WriteString(dateStyle.Render(fx.StartTime.Local().Format("Mon 2 Jan 2006 · 15:04")))
		sb.WriteString("\n")
	}
	sb.WriteString(widgets.FixtureBadge(f.latest.Status))
	sb.WriteString("\n")

	if f.latest.Status.Live() {
		sb.WriteString(widgets.MatchClock(latestMinute(f.latest.Events), widgets.DefaultMatchClockConfig()))
		sb.WriteString("\n")
	}
	sb.WriteString("\n")

	if len(f.latest.Events) == 0 {
		sb.WriteString(styles.Subtitle.Render("No events recorded yet."))
		sb.WriteString("\n")
	} else {
		sb.WriteString(styles.Section.Render("MATCH EVENTS"))
		sb.WriteString("\n")
		for _, e := range f.latest.Events {
			sb.WriteString(renderEvent(e))
			sb.WriteString("\n")
		}
	}

	if f.err != "" {
		sb.WriteString(styles.StatusWarning.Render("Refresh failed: " + f.err))
		sb.WriteString("\n")
	}
	if f.latest.Next > 0 && !f.stopped {
		sb.WriteString(styles.Help.Render(fmt.Sprintf("Refreshing every %s", f.latest.Next)))
		sb.WriteString("\n")
	}

	return sb.String()
}

func renderEvent(e client.Event) string {
	minute := "–"
	if e.Minute != nil {
		minute = widgets.MinuteLabel(*e.Minute)
	}
	who := sanitize.Or(e.PlayerName, e.Type)
	return fmt.Sprintf("%s  %s  %s", minuteStyle.Render(minute), icons.ForEvent(e.Type).String(), who)
}

func latestMinute(events []client.Event) int {
	latest := 0
	for _, e := range events {
		if e.Minute != nil && *e.Minute > latest {
			latest = *e.Minute
		}
	}
	return latest
}
