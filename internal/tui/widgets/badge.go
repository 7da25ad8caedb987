// ABOUTME: Status badge widgets for quick visual status indication
// ABOUTME: Provides colored inline badges for match status and follow state

package widgets

import (
	"fmt"

	"github.com/charmbracelet/lipgloss"
	"github.com/markalston/myteams/internal/livepoll"
	"github.com/markalston/myteams/internal/tui/icons"
)

// StatusLevel represents the severity of a status
type StatusLevel int

const (
	StatusOK StatusLevel = iota
	StatusWarning
	StatusCritical
	StatusInfo
	StatusNeutral
)

// Badge colors
var (
	BadgeOKBg      = lipgloss.Color("#10B981")
	BadgeOKFg      = lipgloss.Color("#FFFFFF")
	BadgeWarnBg    = lipgloss.Color("#F59E0B")
	BadgeWarnFg    = lipgloss.Color("#000000")
	BadgeCritBg    = lipgloss.Color("#EF4444")
	BadgeCritFg    = lipgloss.Color("#FFFFFF")
	BadgeInfoBg    = lipgloss.Color("#4F6EF7")
	BadgeInfoFg    = lipgloss.Color("#FFFFFF")
	BadgeNeutralBg = lipgloss.Color("#6B7280")
	BadgeNeutralFg = lipgloss.Color("#FFFFFF")
)

func colors(level StatusLevel) (bg, fg lipgloss.Color) {
	switch level {
	case StatusOK:
		return BadgeOKBg, BadgeOKFg
	case StatusWarning:
		return BadgeWarnBg, BadgeWarnFg
	case StatusCritical:
		return BadgeCritBg, BadgeCritFg
	case StatusInfo:
		return BadgeInfoBg, BadgeInfoFg
	default:
		return BadgeNeutralBg, BadgeNeutralFg
	}
}

// Badge renders a colored status badge
func Badge(text string, level StatusLevel) string {
	bg, fg := colors(level)
	style := lipgloss.NewStyle().
		Background(bg).
		Foreground(fg).
		Padding(0, 1).
		Bold(true)

	return style.Render(text)
}

// FixtureLevel maps a match status to a badge level
func FixtureLevel(s livepoll.FixtureStatus) StatusLevel {
	switch {
	case s.Live():
		return StatusOK
	case s == livepoll.StatusPostponed || s == livepoll.StatusCancelled || s == livepoll.StatusAbandoned:
		return StatusCritical
	case s.Terminal():
		return StatusNeutral
	case s == livepoll.StatusScheduled || s == livepoll.StatusTBD:
		return StatusInfo
	default:
		return StatusWarning
	}
}

// FixtureBadge renders a match status badge, marking in-play matches as live
func FixtureBadge(s livepoll.FixtureStatus) string {
	text := s.Label()
	if s.Live() {
		text = icons.Live.String() + " " + text
	}
	return Badge(text, FixtureLevel(s))
}

// FollowBadge renders the follow toggle state for a team
func FollowBadge(followed, pending bool) string {
	switch {
	case pending:
		return Badge("…", StatusNeutral)
	case followed:
		return Badge(icons.Followed.String()+" Following", StatusInfo)
	default:
		return Badge(icons.Unfollow.String()+" Follow", StatusNeutral)
	}
}

// StatusIcon returns the appropriate icon for a status level
func StatusIcon(level StatusLevel) string {
	bg, _ := colors(level)
	style := lipgloss.NewStyle().Foreground(bg)
	switch level {
	case StatusOK:
		return style.Render(icons.CheckOK.String())
	case StatusWarning:
		return style.Render(icons.Warning.String())
	case StatusCritical:
		return style.Render(icons.Critical.String())
	case StatusInfo:
		return style.Render(icons.Info.String())
	default:
		return style.Render("•")
	}
}

// StatusText returns styled status text with icon
func StatusText(text string, level StatusLevel) string {
	bg, _ := colors(level)
	textStyle := lipgloss.NewStyle().Foreground(bg)
	return fmt.Sprintf("%s %s", StatusIcon(level), textStyle.Render(text))
}
