// ABOUTME: Icon system with Nerd Font detection and Unicode fallback
// ABOUTME: Provides consistent iconography across different terminal capabilities

package icons

import (
	"os"
	"strings"
	"sync"
)

var (
	useNerdFonts     bool
	nerdFontDetected sync.Once
)

// detectNerdFonts checks if Nerd Fonts should be used
func detectNerdFonts() bool {
	// Explicit override via environment variable
	if env := os.Getenv("MYTEAMS_NERD_FONTS"); env != "" {
		return env == "1" || strings.ToLower(env) == "true"
	}

	// Check for terminals known to commonly have Nerd Fonts
	term := os.Getenv("TERM")
	termProgram := os.Getenv("TERM_PROGRAM")

	// iTerm2, Alacritty, WezTerm, Kitty typically have Nerd Fonts
	nerdFontTerminals := []string{
		"iTerm.app",
		"alacritty",
		"WezTerm",
		"kitty",
		"ghostty",
	}

	for _, t := range nerdFontTerminals {
		if strings.Contains(termProgram, t) || strings.Contains(term, strings.ToLower(t)) {
			return true
		}
	}

	// Check for common Nerd Font environment indicators
	if os.Getenv("NERD_FONTS") == "1" {
		return true
	}

	// Default to Unicode fallback for maximum compatibility
	return false
}

// HasNerdFonts returns true if Nerd Fonts are available
func HasNerdFonts() bool {
	nerdFontDetected.Do(func() {
		useNerdFonts = detectNerdFonts()
	})
	return useNerdFonts
}

// Icon represents an icon with Nerd Font and Unicode fallback variants
type Icon struct {
	NerdFont string
	Fallback string
}

// String returns the appropriate icon based on font availability
func (i Icon) String() string {
	if HasNerdFonts() {
		return i.NerdFont
	}
	return i.Fallback
}

// Icon definitions - Nerd Font codepoints with Unicode fallbacks
var (
	// Domain
	Team     = Icon{"󰒲", "◆"} // nf-md-shield_half_full
	League   = Icon{"󰔸", "♛"} // nf-md-trophy
	Fixture  = Icon{"󰃭", "▦"} // nf-md-calendar
	Goal     = Icon{"󰒸", "⚽"} // nf-md-soccer
	Card     = Icon{"󰘶", "▮"} // nf-md-card
	Sub      = Icon{"󰓡", "⇄"} // nf-md-swap_horizontal
	Live     = Icon{"󰐾", "●"} // nf-md-record_circle
	Followed = Icon{"󰓎", "★"} // nf-md-star
	Unfollow = Icon{"󰓒", "☆"} // nf-md-star_outline
	Search   = Icon{"󰍉", "⌕"} // nf-md-magnify
	User     = Icon{"󰀄", "☺"} // nf-md-account

	// Status indicators
	CheckOK  = Icon{"", "✓"} // nf-oct-check_circle
	Warning  = Icon{"", "⚠"} // nf-oct-alert
	Critical = Icon{"", "✗"} // nf-oct-x_circle
	Info     = Icon{"", "ℹ"} // nf-oct-info

	// Actions
	Refresh = Icon{"󰑓", "↻"} // nf-md-refresh
	Back    = Icon{"󰁍", "←"} // nf-md-arrow_left
	Quit    = Icon{"󰗼", "×"} // nf-md-exit_to_app
	Logout  = Icon{"󰍃", "⏻"} // nf-md-logout

	// Application
	App      = Icon{"󰒸", "◈"} // nf-md-soccer
	Settings = Icon{"󰒓", "⚙"} // nf-md-cog
)

// ForEvent returns the timeline icon for an event type
func ForEvent(eventType string) Icon {
	switch eventType {
	case "goal":
		return Goal
	case "card":
		return Card
	case "substitution":
		return Sub
	default:
		return Icon{"•", "•"}
	}
}
