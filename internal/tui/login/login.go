// ABOUTME: Sign-in screen for the TUI
// ABOUTME: Collects an email and one-time code, or a user ID for dev login

package login

import (
	"strings"

	"github.com/charmbracelet/bubbles/textinput"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/markalston/myteams/internal/auth"
	"github.com/markalston/myteams/internal/tui/styles"
)

// Stage is the current step of the sign-in flow
type Stage int

const (
	StageEmail Stage = iota
	StageCode
	StageDev
)

// RequestLinkMsg asks the app to send a one-time code
type RequestLinkMsg struct {
	Email string
}

// VerifyMsg asks the app to exchange a code for a session
type VerifyMsg struct {
	Code string
}

// DevLoginMsg asks the app to sign in by user ID
type DevLoginMsg struct {
	UserID string
}

// ResultMsg reports the outcome of a submitted step
type ResultMsg struct {
	Stage Stage
	Err   error
}

// Login is the sign-in component
type Login struct {
	stage     Stage
	allowDev  bool
	textInput textinput.Model
	email     string
	busy      bool
	err       string
	notice    string
	width     int
}

// New creates a sign-in screen. allowDev enables the dev login tab.
func New(allowDev bool) *Login {
	ti := textinput.New()
	ti.CharLimit = 254
	ti.Width = 40

	l := &Login{allowDev: allowDev, textInput: ti}
	l.setStage(StageEmail)
	return l
}

// Stage returns the current step
func (l *Login) Stage() Stage {
	return l.stage
}

// Busy reports whether a submitted step is awaiting its result
func (l *Login) Busy() bool {
	return l.busy
}

// SetError shows an error below the input
func (l *Login) SetError(msg string) {
	l.err = msg
}

func (l *Login) setStage(s Stage) {
	l.stage = s
	l.err = ""
	l.textInput.SetValue("")
	switch s {
	case StageEmail:
		l.textInput.Placeholder = "you@example.com"
	case StageCode:
		l.textInput.Placeholder = "one-time code"
	case StageDev:
		l.textInput.Placeholder = "user id"
	}
	l.textInput.Focus()
}

// Init implements tea.Model
func (l *Login) Init() tea.Cmd {
	return textinput.Blink
}

// Update implements tea.Model
func (l *Login) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.WindowSizeMsg:
		l.width = msg.Width
		return l, nil

	case ResultMsg:
		return l.handleResult(msg)

	case tea.KeyMsg:
		if l.busy {
			return l, nil
		}
		switch msg.String() {
		case "enter":
			return l.submit()
		case "tab":
			if l.allowDev {
				if l.stage == StageDev {
					l.setStage(StageEmail)
				} else {
					l.setStage(StageDev)
				}
			}
			return l, nil
		case "esc":
			if l.stage == StageCode {
				l.setStage(StageEmail)
				l.notice = ""
			}
			return l, nil
		}
		l.err = ""
	}

	var cmd tea.Cmd
	l.textInput, cmd = l.textInput.Update(msg)
	return l, cmd
}

func (l *Login) submit() (tea.Model, tea.Cmd) {
	value := strings.TrimSpace(l.textInput.Value())

	switch l.stage {
	case StageEmail:
		email, err := auth.ValidateEmail(value)
		if err != nil {
			l.err = err.Error()
			return l, nil
		}
		l.email = email
		l.busy = true
		return l, func() tea.Msg { return RequestLinkMsg{Email: email} }

	case StageCode:
		if value == "" {
			l.err = "Please enter the code from your email"
			return l, nil
		}
		l.busy = true
		return l, func() tea.Msg { return VerifyMsg{Code: value} }

	case StageDev:
		if value == "" {
			l.err = "Please enter a user id"
			return l, nil
		}
		l.busy = true
		return l, func() tea.Msg { return DevLoginMsg{UserID: value} }
	}
	return l, nil
}

func (l *Login) handleResult(msg ResultMsg) (tea.Model, tea.Cmd) {
	l.busy = false
	if msg.Err != nil {
		l.err = msg.Err.Error()
		return l, nil
	}
	if msg.Stage == StageEmail {
		l.setStage(StageCode)
		l.notice = "Code sent to " + l.email
	}
	return l, nil
}

// View implements tea.Model
func (l *Login) View() string {
	var sb strings.Builder

	sb.WriteString(styles.Title.Render("Sign in"))
	sb.WriteString("\n")

	switch l.stage {
	case StageEmail:
		sb.WriteString("We'll email you a one-time code.\n\n")
		sb.WriteString("Email\n")
	case StageCode:
		sb.WriteString(styles.StatusOK.Render(l.notice))
		sb.WriteString("\n\n")
		sb.WriteString("Code\n")
	case StageDev:
		sb.WriteString(styles.StatusWarning.Render("Development login"))
		sb.WriteString("\n\n")
		sb.WriteString("User ID\n")
	}
	sb.WriteString(l.textInput.View())
	sb.WriteString("\n")

	if l.busy {
		sb.WriteString(styles.Subtitle.Render("Please wait..."))
		sb.WriteString("\n")
	}
	if l.err != "" {
		sb.WriteString(styles.StatusCritical.Render(l.err))
		sb.WriteString("\n")
	}

	var help []string
	help = append(help, "enter submit")
	if l.stage == StageCode {
		help = append(help, "esc change email")
	}
	if l.allowDev {
		help = append(help, "tab dev login")
	}
	sb.WriteString(styles.Help.Render(strings.Join(help, " • ")))

	return sb.String()
}
