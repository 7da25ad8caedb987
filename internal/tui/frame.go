// ABOUTME: Header and footer frame drawn around every screen
// ABOUTME: Shows branding, the signed-in user, shortcuts and data freshness

package tui

import (
	"fmt"
	"strings"
	"time"

	"github.com/charmbracelet/lipgloss"
	"github.com/markalston/myteams/internal/session"
	"github.com/markalston/myteams/internal/tui/icons"
	"github.com/markalston/myteams/internal/tui/sanitize"
	"github.com/markalston/myteams/internal/tui/styles"
)

// frameWidth is the width of the header and footer lines.
// Uses width-1 to prevent wrapping on some terminals, clamped to the minimum.
func (a *App) frameWidth() int {
	width := a.width - 1
	if width < minTerminalWidth {
		width = minTerminalWidth
	}
	return width
}

// renderHeader creates the header bar with app branding and the signed-in user
func (a *App) renderHeader() string {
	width := a.frameWidth()

	borderStyle := lipgloss.NewStyle().Foreground(styles.Muted)
	titleStyle := lipgloss.NewStyle().Foreground(styles.Primary).Bold(true)
	contextStyle := lipgloss.NewStyle().Foreground(styles.Secondary)

	leftText := fmt.Sprintf(" %s %s ", icons.App.String(), titleStyle.Render("MyTeams"))

	rightText := ""
	if s := a.deps.Session.Snapshot(); s.Status == session.Authenticated && s.User != nil {
		name := sanitize.Or(s.User.Name(), s.User.ID)
		rightText = " " + contextStyle.Render(icons.User.String()+" "+name) + " "
	}

	leftWidth := lipgloss.Width(leftText)
	rightWidth := lipgloss.Width(rightText)
	fillWidth := width - 4 - leftWidth - rightWidth // -4 for ╭─ and ─╮
	if fillWidth < 0 {
		fillWidth = 0
	}

	header := "╭─" + leftText + strings.Repeat("─", fillWidth) + rightText + "─╮"
	return borderStyle.Render(header)
}

// shortcuts lists the keyboard shortcuts for the current screen
func (a *App) shortcuts() []string {
	switch a.screen {
	case ScreenLogin:
		if a.deps.AllowDevLogin {
			return []string{"Enter Submit", "Tab Dev login", "Esc Back", "^C Quit"}
		}
		return []string{"Enter Submit", "Esc Back", "^C Quit"}
	case ScreenSearch:
		return []string{"Tab Recent", "↑↓ Navigate", "f Follow", "Enter Open", "Esc Back"}
	case ScreenTeam:
		return []string{"↑↓ Navigate", "f Follow", "Enter Match", "Esc Back"}
	case ScreenFixture:
		return []string{"r Refresh", "Esc Back", "^C Quit"}
	}
	if a.deps.Session.Snapshot().Status == session.Unresolved {
		return []string{"q Quit"}
	}
	return []string{"↑↓ Navigate", "Enter Team", "n/l Match", "f Follow", "/ Search", "r Refresh", "L Logout", "q Quit"}
}

// renderFooter creates the footer with keyboard shortcuts and status
func (a *App) renderFooter() string {
	width := a.frameWidth()

	borderStyle := lipgloss.NewStyle().Foreground(styles.Muted)
	keyStyle := lipgloss.NewStyle().Foreground(styles.Primary)
	labelStyle := lipgloss.NewStyle().Foreground(styles.Muted)
	statusStyle := lipgloss.NewStyle().Foreground(styles.Secondary)

	rightText := ""
	rightPlainText := ""
	if !a.lastUpdate.IsZero() && a.screen == ScreenDashboard {
		elapsed := formatTimeSince(a.lastUpdate)
		rightText = statusStyle.Render("Updated "+elapsed) + " "
		rightPlainText = "Updated " + elapsed + " "
	}
	rightWidth := lipgloss.Width(rightPlainText)

	// Drop shortcuts from the end until the footer fits
	shortcuts := a.shortcuts()
	for len(shortcuts) > 1 && lipgloss.Width(" "+strings.Join(shortcuts, "  "))+rightWidth+4 > width {
		shortcuts = shortcuts[:len(shortcuts)-1]
	}

	var styledShortcuts []string
	for _, s := range shortcuts {
		parts := strings.SplitN(s, " ", 2)
		if len(parts) == 2 {
			styledShortcuts = append(styledShortcuts, keyStyle.Render(parts[0])+" "+labelStyle.Render(parts[1]))
		} else {
			styledShortcuts = append(styledShortcuts, s)
		}
	}

	leftText := " " + strings.Join(styledShortcuts, "  ")
	leftPlainText := " " + strings.Join(shortcuts, "  ")

	leftWidth := lipgloss.Width(leftPlainText)
	fillWidth := width - 4 - leftWidth - rightWidth // -4 for ╰─ and ─╯
	if fillWidth < 0 {
		fillWidth = 0
	}

	footer := "╰─" + leftText + strings.Repeat("─", fillWidth) + rightText + "─╯"
	return borderStyle.Render(footer)
}

// formatTimeSince formats a duration since the given time in human-readable form
func formatTimeSince(t time.Time) string {
	d := time.Since(t)

	if d < time.Minute {
		secs := int(d.Seconds())
		if secs < 5 {
			return "just now"
		}
		return fmt.Sprintf("%ds ago", secs)
	}

	if d < time.Hour {
		return fmt.Sprintf("%dm ago", int(d.Minutes()))
	}

	return fmt.Sprintf("%dh ago", int(d.Hours()))
}

// wrapWithFrame wraps content with header and footer
func (a *App) wrapWithFrame(content string) string {
	var sb strings.Builder

	sb.WriteString(a.renderHeader())
	sb.WriteString("\n")
	sb.WriteString(content)
	sb.WriteString("\n")
	sb.WriteString(a.renderFooter())

	return sb.String()
}
