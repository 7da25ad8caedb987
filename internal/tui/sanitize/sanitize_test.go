// ABOUTME: Tests for terminal text sanitizing
// ABOUTME: Covers markup, entities and control sequences

package sanitize

import "testing"

func TestText(t *testing.T) {
	tests := []struct {
		name string
		in   string
		want string
	}{
		{"plain", "Arsenal", "Arsenal"},
		{"empty", "", ""},
		{"tags stripped", "<b>Bukayo</b> Saka", "Bukayo Saka"},
		{"script dropped", "Saka<script>alert(1)</script>", "Saka"},
		{"entities decoded", "Brighton &amp; Hove Albion", "Brighton & Hove Albion"},
		{"ansi escape removed", "Spurs\x1b[2J", "Spurs[2J"},
		{"whitespace collapsed", "  Real\n\tMadrid  ", "Real Madrid"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := Text(tt.in); got != tt.want {
				t.Errorf("expected %q, got %q", tt.want, got)
			}
		})
	}
}

func TestOr(t *testing.T) {
	if got := Or("<i></i>", "Home"); got != "Home" {
		t.Errorf("expected fallback, got %q", got)
	}
	if got := Or("Chelsea", "Home"); got != "Chelsea" {
		t.Errorf("expected Chelsea, got %q", got)
	}
}
