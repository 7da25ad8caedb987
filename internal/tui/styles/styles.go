// ABOUTME: Shared lipgloss styles for consistent TUI appearance
// ABOUTME: Defines colors, borders, and text styles used across screens

package styles

import "github.com/charmbracelet/lipgloss"

var (
	// Colors - Core palette
	Primary   = lipgloss.Color("#4F6EF7") // Blue
	Secondary = lipgloss.Color("#10B981") // Green
	Warning   = lipgloss.Color("#F59E0B") // Amber
	Danger    = lipgloss.Color("#EF4444") // Red
	Muted     = lipgloss.Color("#6B7280") // Gray
	Text      = lipgloss.Color("#F9FAFB") // Light
	BgDark    = lipgloss.Color("#12122A") // Navy

	// Colors - Extended palette
	Accent  = lipgloss.Color("#818CF8") // Lighter blue for highlights
	Surface = lipgloss.Color("#1A1A35") // Elevated surface background
	Info    = lipgloss.Color("#3B82F6") // Blue - informational

	// Base styles
	Title = lipgloss.NewStyle().
		Bold(true).
		Foreground(Primary).
		MarginBottom(1)

	Subtitle = lipgloss.NewStyle().
			Foreground(Muted).
			MarginBottom(1)

	// Section headings inside a panel, e.g. "Match Events"
	Section = lipgloss.NewStyle().
		Foreground(Muted).
		Bold(true)

	// Status indicators
	StatusOK = lipgloss.NewStyle().
			Foreground(Secondary).
			Bold(true)

	StatusWarning = lipgloss.NewStyle().
			Foreground(Warning).
			Bold(true)

	StatusCritical = lipgloss.NewStyle().
			Foreground(Danger).
			Bold(true)

	// Panels
	Panel = lipgloss.NewStyle().
		Border(lipgloss.RoundedBorder()).
		BorderForeground(Muted).
		Padding(1, 2)

	ActivePanel = lipgloss.NewStyle().
			Border(lipgloss.RoundedBorder()).
			BorderForeground(Primary).
			Padding(1, 2)

	// List rows
	Row = lipgloss.NewStyle().
		Foreground(Text)

	SelectedRow = lipgloss.NewStyle().
			Foreground(Accent).
			Bold(true)

	// Help text
	Help = lipgloss.NewStyle().
		Foreground(Muted).
		MarginTop(1)

	// Key style for keyboard shortcuts
	KeyStyle = lipgloss.NewStyle().
			Foreground(Accent).
			Bold(true)

	// Value style for emphasized data
	ValueStyle = lipgloss.NewStyle().
			Foreground(Text).
			Bold(true)

	// Score style for the big scoreline on the fixture screen
	Score = lipgloss.NewStyle().
		Foreground(Text).
		Bold(true).
		Padding(0, 2)
)

// Cursor returns the row prefix for a list item
func Cursor(selected bool) string {
	if selected {
		return SelectedRow.Render("› ")
	}
	return "  "
}

// RenderRow styles a list row by selection state
func RenderRow(text string, selected bool) string {
	if selected {
		return Cursor(true) + SelectedRow.Render(text)
	}
	return Cursor(false) + Row.Render(text)
}
