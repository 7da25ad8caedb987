// ABOUTME: Team search screen with debounced input
// ABOUTME: Lists matching teams and lets the user toggle follows

package search

import (
	"fmt"
	"strings"
	"time"

	"github.com/charmbracelet/bubbles/textinput"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"
	"github.com/markalston/myteams/internal/client"
	"github.com/markalston/myteams/internal/tui/icons"
	"github.com/markalston/myteams/internal/tui/sanitize"
	"github.com/markalston/myteams/internal/tui/styles"
	"github.com/markalston/myteams/internal/tui/widgets"
)

// Debounce is how long typing must pause before a search is issued
const Debounce = 400 * time.Millisecond

// minQueryLen is the shortest query worth sending
const minQueryLen = 2

// debounceMsg fires after a keystroke; only the latest seq triggers a query
type debounceMsg struct {
	seq int
}

// QueryMsg asks the app to run a search
type QueryMsg struct {
	Query string
}

// ResultsMsg carries search results back to the screen
type ResultsMsg struct {
	Query string
	Teams []client.Team
	Err   error
}

// ToggleMsg asks the app to toggle the follow state of a team
type ToggleMsg struct {
	TeamID string
}

// OpenTeamMsg asks the app to show a team's fixtures
type OpenTeamMsg struct {
	Team client.Team
}

// CancelledMsg is sent when the user leaves the search screen
type CancelledMsg struct{}

// FollowState reports follow status for rendering
type FollowState interface {
	IsFollowed(teamID string) bool
	Pending(teamID string) bool
}

var countryStyle = lipgloss.NewStyle().Foreground(styles.Muted)

// Search is the team search component
type Search struct {
	textInput textinput.Model
	follows   FollowState
	seq       int
	query     string
	teams     []client.Team
	searching bool
	cursor    int
	focusList bool
	err       string
	width     int
	recent    []string
	recentIdx int
}

// New creates a search screen
func New(follows FollowState) *Search {
	ti := textinput.New()
	ti.Placeholder = "Search teams"
	ti.CharLimit = 64
	ti.Width = 40
	ti.Focus()

	return &Search{textInput: ti, follows: follows}
}

// SetRecent sets previously run queries, most recent first
func (s *Search) SetRecent(queries []string) {
	s.recent = queries
	s.recentIdx = 0
}

// Query returns the query the current results belong to
func (s *Search) Query() string {
	return s.query
}

// Init implements tea.Model
func (s *Search) Init() tea.Cmd {
	return textinput.Blink
}

// Update implements tea.Model
func (s *Search) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.WindowSizeMsg:
		s.width = msg.Width
		return s, nil

	case debounceMsg:
		if msg.seq != s.seq {
			return s, nil
		}
		q := strings.TrimSpace(s.textInput.Value())
		if len([]rune(q)) < minQueryLen {
			s.query = ""
			s.teams = nil
			s.searching = false
			return s, nil
		}
		s.query = q
		s.searching = true
		return s, func() tea.Msg { return QueryMsg{Query: q} }

	case ResultsMsg:
		// Results for a superseded query are dropped
		if msg.Query != s.query {
			return s, nil
		}
		s.searching = false
		if msg.Err != nil {
			s.err = msg.Err.Error()
			return s, nil
		}
		s.err = ""
		s.teams = msg.Teams
		if s.cursor >= len(s.teams) {
			s.cursor = 0
		}
		return s, nil

	case tea.KeyMsg:
		return s.handleKey(msg)
	}

	return s, nil
}

func (s *Search) handleKey(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	switch msg.String() {
	case "esc":
		return s, func() tea.Msg { return CancelledMsg{} }
	case "down":
		if len(s.teams) > 0 {
			if s.focusList && s.cursor < len(s.teams)-1 {
				s.cursor++
			}
			s.focusList = true
			s.textInput.Blur()
		}
		return s, nil
	case "tab":
		if s.focusList || len(s.recent) == 0 {
			return s, nil
		}
		value := s.textInput.Value()
		if value != "" && !s.isRecent(value) {
			return s, nil
		}
		s.textInput.SetValue(s.recent[s.recentIdx%len(s.recent)])
		s.textInput.CursorEnd()
		s.recentIdx++
		return s, s.debounce(nil)
	case "up":
		if s.focusList {
			if s.cursor == 0 {
				s.focusList = false
				s.textInput.Focus()
			} else {
				s.cursor--
			}
		}
		return s, nil
	}

	if s.focusList {
		team, ok := s.selected()
		switch msg.String() {
		case "f", " ":
			if ok {
				return s, func() tea.Msg { return ToggleMsg{TeamID: team.ID} }
			}
		case "enter":
			if ok {
				return s, func() tea.Msg { return OpenTeamMsg{Team: team} }
			}
		}
		return s, nil
	}

	before := s.textInput.Value()
	var cmd tea.Cmd
	s.textInput, cmd = s.textInput.Update(msg)
	if s.textInput.Value() == before {
		return s, cmd
	}

	s.recentIdx = 0
	return s, s.debounce(cmd)
}

// debounce bumps the sequence so only the latest pending tick queries
func (s *Search) debounce(cmd tea.Cmd) tea.Cmd {
	s.seq++
	seq := s.seq
	return tea.Batch(cmd, tea.Tick(Debounce, func(time.Time) tea.Msg {
		return debounceMsg{seq: seq}
	}))
}

func (s *Search) isRecent(value string) bool {
	for _, q := range s.recent {
		if q == value {
			return true
		}
	}
	return false
}

func (s *Search) selected() (client.Team, bool) {
	if s.cursor < 0 || s.cursor >= len(s.teams) {
		return client.Team{}, false
	}
	return s.teams[s.cursor], true
}

// View implements tea.Model
func (s *Search) View() string {
	var sb strings.Builder

	sb.WriteString(styles.Title.Render(icons.Search.String() + " Find teams"))
	sb.WriteString("\n")
	sb.WriteString(s.textInput.View())
	sb.WriteString("\n\n")

	switch {
	case s.err != "":
		sb.WriteString(styles.StatusCritical.Render(s.err))
		sb.WriteString("\n")
	case s.searching:
		sb.WriteString(styles.Subtitle.Render("Searching..."))
		sb.WriteString("\n")
	case s.query != "" && len(s.teams) == 0:
		sb.WriteString(styles.Subtitle.Render(fmt.Sprintf("No teams match %q", s.query)))
		sb.WriteString("\n")
	case s.query == "" && len(s.recent) > 0:
		sb.WriteString(styles.Section.Render("RECENT SEARCHES"))
		sb.WriteString("\n")
		for _, q := range s.recent {
			sb.WriteString(countryStyle.Render("  " + sanitize.Text(q)))
			sb.WriteString("\n")
		}
		sb.WriteString("\n")
	}

	for i, team := range s.teams {
		name := sanitize.Or(team.Name, team.ID)
		if team.Country != "" {
			name += "  " + countryStyle.Render(sanitize.Text(team.Country))
		}
		badge := ""
		if s.follows != nil {
			badge = widgets.FollowBadge(s.follows.IsFollowed(team.ID), s.follows.Pending(team.ID))
		}
		sb.WriteString(styles.RenderRow(name, s.focusList && i == s.cursor))
		sb.WriteString("  " + badge + "\n")
	}

	sb.WriteString(styles.Help.Render("tab recent • ↓ results • f follow/unfollow • enter fixtures • esc back"))
	return sb.String()
}
