// ABOUTME: Tests for the sign-in screen
// ABOUTME: Validates stage transitions and submitted messages

package login

import (
	"errors"
	"strings"
	"testing"

	tea "github.com/charmbracelet/bubbletea"
)

func typeText(l *Login, s string) *Login {
	for _, r := range s {
		model, _ := l.Update(tea.KeyMsg{Type: tea.KeyRunes, Runes: []rune{r}})
		l = model.(*Login)
	}
	return l
}

func press(l *Login, k tea.KeyType) (*Login, tea.Cmd) {
	model, cmd := l.Update(tea.KeyMsg{Type: k})
	return model.(*Login), cmd
}

func TestNew(t *testing.T) {
	l := New(false)
	if l.Stage() != StageEmail {
		t.Errorf("expected StageEmail, got %d", l.Stage())
	}
}

func TestSubmitEmail(t *testing.T) {
	l := typeText(New(false), "fan@example.com")

	l, cmd := press(l, tea.KeyEnter)
	if cmd == nil {
		t.Fatal("expected a command")
	}
	msg, ok := cmd().(RequestLinkMsg)
	if !ok || msg.Email != "fan@example.com" {
		t.Fatalf("expected RequestLinkMsg, got %#v", cmd())
	}
	if !l.Busy() {
		t.Error("expected busy while awaiting result")
	}

	// Keys are ignored while busy
	if _, cmd := press(l, tea.KeyEnter); cmd != nil {
		t.Error("expected no resubmission while busy")
	}

	model, _ := l.Update(ResultMsg{Stage: StageEmail})
	l = model.(*Login)
	if l.Stage() != StageCode {
		t.Errorf("expected StageCode, got %d", l.Stage())
	}
	if !strings.Contains(l.View(), "fan@example.com") {
		t.Error("expected notice to mention the email")
	}
}

func TestInvalidEmailRejectedLocally(t *testing.T) {
	l := typeText(New(false), "not-an-email")

	l, cmd := press(l, tea.KeyEnter)
	if cmd != nil {
		t.Error("expected no command for an invalid email")
	}
	if l.err == "" {
		t.Error("expected validation error")
	}
}

func TestSubmitCode(t *testing.T) {
	l := New(false)
	l.setStage(StageCode)
	l = typeText(l, "ABC123")

	_, cmd := press(l, tea.KeyEnter)
	msg, ok := cmd().(VerifyMsg)
	if !ok || msg.Code != "ABC123" {
		t.Fatalf("expected VerifyMsg, got %#v", cmd())
	}
}

func TestEmptyCodeRejected(t *testing.T) {
	l := New(false)
	l.setStage(StageCode)

	l, cmd := press(l, tea.KeyEnter)
	if cmd != nil || l.err == "" {
		t.Error("expected local error for empty code")
	}
}

func TestEscReturnsToEmail(t *testing.T) {
	l := New(false)
	l.setStage(StageCode)

	l, _ = press(l, tea.KeyEsc)
	if l.Stage() != StageEmail {
		t.Errorf("expected StageEmail, got %d", l.Stage())
	}
}

func TestResultErrorShown(t *testing.T) {
	l := New(false)
	l.busy = true

	model, _ := l.Update(ResultMsg{Stage: StageCode, Err: errors.New("invalid or expired code")})
	l = model.(*Login)

	if l.Busy() {
		t.Error("expected busy cleared")
	}
	if !strings.Contains(l.View(), "invalid or expired code") {
		t.Error("expected error in view")
	}
}

func TestDevTab(t *testing.T) {
	l, _ := press(New(false), tea.KeyTab)
	if l.Stage() != StageEmail {
		t.Error("expected tab ignored when dev login is disabled")
	}

	l, _ = press(New(true), tea.KeyTab)
	if l.Stage() != StageDev {
		t.Fatalf("expected StageDev, got %d", l.Stage())
	}

	l = typeText(l, "user-1")
	_, cmd := press(l, tea.KeyEnter)
	msg, ok := cmd().(DevLoginMsg)
	if !ok || msg.UserID != "user-1" {
		t.Fatalf("expected DevLoginMsg, got %#v", cmd())
	}
}
