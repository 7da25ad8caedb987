// ABOUTME: Team screen listing a team's fixtures
// ABOUTME: Lets the user follow the team or open a fixture

package team

import (
	"strings"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/markalston/myteams/internal/client"
	"github.com/markalston/myteams/internal/tui/dashboard"
	"github.com/markalston/myteams/internal/tui/icons"
	"github.com/markalston/myteams/internal/tui/sanitize"
	"github.com/markalston/myteams/internal/tui/styles"
	"github.com/markalston/myteams/internal/tui/widgets"
)

// FixturesMsg carries a team's fixtures
type FixturesMsg struct {
	TeamID   string
	Fixtures []client.Fixture
	Err      error
}

// ToggleMsg asks the app to toggle following this team
type ToggleMsg struct {
	TeamID string
}

// OpenFixtureMsg asks the app to show a fixture
type OpenFixtureMsg struct {
	FixtureID string
}

// BackMsg is sent when the user leaves the team screen
type BackMsg struct{}

// FollowState reports follow status for rendering
type FollowState interface {
	IsFollowed(teamID string) bool
	Pending(teamID string) bool
}

// Team shows one team
type Team struct {
	team     client.Team
	follows  FollowState
	fixtures []client.Fixture
	loaded   bool
	cursor   int
	err      string
}

// New creates a team screen
func New(t client.Team, follows FollowState) *Team {
	return &Team{team: t, follows: follows}
}

// ID returns the team shown
func (t *Team) ID() string {
	return t.team.ID
}

// Init implements tea.Model
func (t *Team) Init() tea.Cmd {
	return nil
}

// Update implements tea.Model
func (t *Team) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case FixturesMsg:
		if msg.TeamID != t.team.ID {
			return t, nil
		}
		t.loaded = true
		if msg.Err != nil {
			t.err = msg.Err.Error()
			return t, nil
		}
		t.err = ""
		t.fixtures = msg.Fixtures
		if t.cursor >= len(t.fixtures) {
			t.cursor = 0
		}

	case tea.KeyMsg:
		switch msg.String() {
		case "up", "k":
			if t.cursor > 0 {
				t.cursor--
			}
		case "down", "j":
			if t.cursor < len(t.fixtures)-1 {
				t.cursor++
			}
		case "f":
			id := t.team.ID
			return t, func() tea.Msg { return ToggleMsg{TeamID: id} }
		case "enter":
			if t.cursor < len(t.fixtures) {
				id := t.fixtures[t.cursor].ID
				return t, func() tea.Msg { return OpenFixtureMsg{FixtureID: id} }
			}
		case "esc", "b":
			return t, func() tea.Msg { return BackMsg{} }
		}
	}
	return t, nil
}

// View implements tea.Model
func (t *Team) View() string {
	var sb strings.Builder

	title := icons.Team.String() + " " + sanitize.Or(t.team.Name, t.team.ID)
	sb.WriteString(styles.Title.Render(title))
	sb.WriteString("\n")
	if t.follows != nil {
		sb.WriteString(widgets.FollowBadge(t.follows.IsFollowed(t.team.ID), t.follows.Pending(t.team.ID)))
		sb.WriteString("\n\n")
	}

	switch {
	case t.err != "":
		sb.WriteString(styles.StatusCritical.Render(t.err))
		sb.WriteString("\n")
	case !t.loaded:
		sb.WriteString("Loading fixtures...\n")
	case len(t.fixtures) == 0:
		sb.WriteString(styles.Subtitle.Render("No fixtures scheduled."))
		sb.WriteString("\n")
	}

	for i := range t.fixtures {
		sb.WriteString(styles.Cursor(i == t.cursor))
		sb.WriteString(dashboard.FixtureLine(&t.fixtures[i]))
		sb.WriteString("\n")
	}

	sb.WriteString(styles.Help.Render("↑↓ select • enter open • f follow/unfollow • esc back"))
	return sb.String()
}
