// ABOUTME: Match clock bar showing elapsed play time
// ABOUTME: Marks half time and extends for stoppage and extra time

package widgets

import (
	"fmt"
	"strings"

	"github.com/charmbracelet/lipgloss"
)

// Regulation length of a match in minutes
const fullTime = 90

// MatchClockConfig holds configuration for the clock bar
type MatchClockConfig struct {
	Width      int
	PlayColor  lipgloss.Color
	ExtraColor lipgloss.Color
	EmptyColor lipgloss.Color
}

// DefaultMatchClockConfig returns sensible defaults
func DefaultMatchClockConfig() MatchClockConfig {
	return MatchClockConfig{
		Width:      30,
		PlayColor:  lipgloss.Color("#10B981"), // Green
		ExtraColor: lipgloss.Color("#F59E0B"), // Amber
		EmptyColor: lipgloss.Color("#374151"), // Dark gray
	}
}

// MatchClock renders elapsed minutes as a bar with a half-time marker.
// Minutes beyond regulation fill the bar in the extra-time colour.
func MatchClock(minute int, config MatchClockConfig) string {
	if config.Width <= 0 {
		config.Width = 30
	}
	if minute < 0 {
		minute = 0
	}

	played := minute
	if played > fullTime {
		played = fullTime
	}
	filled := played * config.Width / fullTime
	halfPos := config.Width / 2

	playStyle := lipgloss.NewStyle().Foreground(config.PlayColor)
	if minute > fullTime {
		playStyle = lipgloss.NewStyle().Foreground(config.ExtraColor)
	}
	emptyStyle := lipgloss.NewStyle().Foreground(config.EmptyColor)

	var bar strings.Builder
	bar.WriteString("[")
	for i := 0; i < config.Width; i++ {
		switch {
		case i < filled:
			bar.WriteString(playStyle.Render("█"))
		case i == halfPos:
			bar.WriteString(emptyStyle.Render("│"))
		default:
			bar.WriteString(emptyStyle.Render("░"))
		}
	}
	bar.WriteString("]")

	return fmt.Sprintf("%s %s", bar.String(), MinuteLabel(minute))
}

// MinuteLabel formats a match minute, showing stoppage time as 90+N
func MinuteLabel(minute int) string {
	switch {
	case minute <= 0:
		return "0'"
	case minute > fullTime:
		return fmt.Sprintf("%d+%d'", fullTime, minute-fullTime)
	default:
		return fmt.Sprintf("%d'", minute)
	}
}
