// ABOUTME: Sign-in commands for the myteams CLI
// ABOUTME: Dev login, one-time code login, logout and whoami

package cmd

import (
	"context"
	"errors"
	"fmt"
	"io"
	"time"

	"github.com/markalston/myteams/internal/auth"
	"github.com/markalston/myteams/internal/session"
	"github.com/markalston/myteams/internal/tui/sanitize"
	"github.com/spf13/cobra"
)

var loginCmd = &cobra.Command{
	Use:   "login",
	Short: "Sign in to MyTeams",
	Long: `Sign in with a one-time code sent by email, or with a user ID on development backends.

The session is stored in the config directory and reused by every command.`,
}

var loginDevCmd = &cobra.Command{
	Use:   "dev [user-id]",
	Short: "Sign in as a user ID (development only)",
	Args:  cobra.MaximumNArgs(1),
	Run: runWithSignals(func(ctx context.Context, w io.Writer, args []string) int {
		userID, err := argOrPrompt(args, "User ID", "e.g. 1")
		if err != nil {
			return printError(w, err)
		}
		return runLoginDev(ctx, w, userID)
	}),
}

var loginLinkCmd = &cobra.Command{
	Use:   "link [email]",
	Short: "Email a one-time sign-in code",
	Long: `Email a one-time sign-in code. On a terminal you are asked for the code
straight away; otherwise finish with "myteams login verify <code>".`,
	Args: cobra.MaximumNArgs(1),
	Run: runWithSignals(func(ctx context.Context, w io.Writer, args []string) int {
		email, err := argOrPrompt(args, "Email", "you@example.com")
		if err != nil {
			return printError(w, err)
		}
		if code := runLoginLink(ctx, w, email); code != exitOK || !interactive() {
			return code
		}
		otp, err := argOrPrompt(nil, "Code", "from your email")
		if err != nil {
			return printError(w, err)
		}
		return runLoginVerify(ctx, w, otp)
	}),
}

var loginVerifyCmd = &cobra.Command{
	Use:   "verify [code]",
	Short: "Finish signing in with a one-time code",
	Args:  cobra.MaximumNArgs(1),
	Run: runWithSignals(func(ctx context.Context, w io.Writer, args []string) int {
		otp, err := argOrPrompt(args, "Code", "from your email")
		if err != nil {
			return printError(w, err)
		}
		return runLoginVerify(ctx, w, otp)
	}),
}

var logoutCmd = &cobra.Command{
	Use:   "logout",
	Short: "Sign out and forget the stored session",
	Args:  cobra.NoArgs,
	Run:   runWithSignals(func(ctx context.Context, w io.Writer, _ []string) int { return runLogout(ctx, w) }),
}

var whoamiCmd = &cobra.Command{
	Use:   "whoami",
	Short: "Show the signed-in user",
	Long: `Show the signed-in user and when the session token expires.

Exit codes:
  0 - Signed in
  1 - Not signed in`,
	Args: cobra.NoArgs,
	Run:  runWithSignals(func(ctx context.Context, w io.Writer, _ []string) int { return runWhoami(ctx, w) }),
}

func init() {
	loginCmd.AddCommand(loginDevCmd, loginLinkCmd, loginVerifyCmd)
	rootCmd.AddCommand(loginCmd, logoutCmd, whoamiCmd)
}

// sessionView is the JSON shape of a session
type sessionView struct {
	Status         string            `json:"status"`
	User           *auth.UserProfile `json:"user,omitempty"`
	TokenExpiresAt *time.Time        `json:"token_expires_at,omitempty"`
}

func newSessionView(s session.Session) sessionView {
	v := sessionView{Status: s.Status.String()}
	if s.SignedIn() {
		v.User = s.User
		if exp, ok := auth.TokenExpiry(s.Token); ok {
			v.TokenExpiresAt = &exp
		}
	}
	return v
}

// authExit maps a sign-in error to an exit code
func authExit(w io.Writer, err error) int {
	var failure *auth.AuthFailure
	if errors.As(err, &failure) {
		fmt.Fprintf(w, "Error: %s\n", sanitize.Text(failure.Message))
		return exitFailed
	}
	return printError(w, err)
}

func runLoginDev(ctx context.Context, w io.Writer, userID string) int {
	r, err := newRuntime(ctx, runtimeOptions{})
	if err != nil {
		return printError(w, err)
	}
	defer r.Close()

	if err := r.session.DevLogin(ctx, userID); err != nil {
		return authExit(w, err)
	}
	return printSignedIn(w, r.session.Snapshot())
}

func runLoginLink(ctx context.Context, w io.Writer, email string) int {
	r, err := newRuntime(ctx, runtimeOptions{skipHydrate: true})
	if err != nil {
		return printError(w, err)
	}
	defer r.Close()

	if err := r.session.RequestLink(ctx, email); err != nil {
		return authExit(w, err)
	}

	if IsJSONOutput() {
		printJSON(w, map[string]string{"status": "sent", "email": email})
	} else {
		fmt.Fprintf(w, "Code sent to %s\n", sanitize.Text(email))
		if !interactive() {
			fmt.Fprintln(w, "Finish with: myteams login verify <code>")
		}
	}
	return exitOK
}

func runLoginVerify(ctx context.Context, w io.Writer, code string) int {
	r, err := newRuntime(ctx, runtimeOptions{})
	if err != nil {
		return printError(w, err)
	}
	defer r.Close()

	if err := r.session.VerifyToken(ctx, code); err != nil {
		return authExit(w, err)
	}
	return printSignedIn(w, r.session.Snapshot())
}

func printSignedIn(w io.Writer, s session.Session) int {
	if IsJSONOutput() {
		printJSON(w, newSessionView(s))
		return exitOK
	}
	fmt.Fprintf(w, "Signed in as %s\n", sanitize.Or(s.User.Name(), s.User.ID))
	return exitOK
}

func runLogout(ctx context.Context, w io.Writer) int {
	r, err := newRuntime(ctx, runtimeOptions{})
	if err != nil {
		return printError(w, err)
	}
	defer r.Close()

	r.session.Logout(ctx)

	if IsJSONOutput() {
		printJSON(w, newSessionView(r.session.Snapshot()))
	} else {
		fmt.Fprintln(w, "Signed out")
	}
	return exitOK
}

func runWhoami(ctx context.Context, w io.Writer) int {
	r, err := newRuntime(ctx, runtimeOptions{})
	if err != nil {
		return printError(w, err)
	}
	defer r.Close()

	s := r.session.Snapshot()
	view := newSessionView(s)

	if IsJSONOutput() {
		printJSON(w, view)
	} else if !s.SignedIn() {
		fmt.Fprintln(w, "Not signed in")
	} else {
		fmt.Fprintln(w, formatWhoamiHuman(view, time.Now()))
	}

	if !s.SignedIn() {
		return exitFailed
	}
	return exitOK
}

// formatWhoamiHuman formats a signed-in session for human readability
func formatWhoamiHuman(v sessionView, now time.Time) string {
	out := fmt.Sprintf("User:     %s\nID:       %s",
		sanitize.Or(v.User.Name(), v.User.ID), sanitize.Text(v.User.ID))
	if v.User.Email != "" {
		out += "\nEmail:    " + sanitize.Text(v.User.Email)
	}
	if v.TokenExpiresAt != nil {
		left := v.TokenExpiresAt.Sub(now).Round(time.Minute)
		if left <= 0 {
			out += fmt.Sprintf("\nExpires:  %s (expired)", v.TokenExpiresAt.Local().Format(time.RFC3339))
		} else {
			out += fmt.Sprintf("\nExpires:  %s (in %s)", v.TokenExpiresAt.Local().Format(time.RFC3339), left)
		}
	}
	return out
}
