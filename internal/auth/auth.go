// ABOUTME: Stateless gateway over the remote authentication endpoints
// ABOUTME: Maps dev login, magic-link request and verification to session credentials

package auth

import (
	"context"
	"errors"
	"fmt"
	"net/mail"
	"strings"

	"github.com/markalston/myteams/internal/client"
)

// UserProfile is the signed-in user. Values are replaced wholesale, never mutated.
type UserProfile struct {
	ID          string `json:"id"`
	Email       string `json:"email,omitempty"`
	DisplayName string `json:"display_name,omitempty"`
}

// Name returns the best human-readable label for the user
func (u UserProfile) Name() string {
	switch {
	case u.DisplayName != "":
		return u.DisplayName
	case u.Email != "":
		return u.Email
	default:
		return u.ID
	}
}

// Credential is what a successful login yields
type Credential struct {
	Token string
	User  UserProfile
}

// Gateway talks to the auth endpoints
type Gateway interface {
	DevLogin(ctx context.Context, userID string) (*Credential, error)
	RequestLink(ctx context.Context, email string) error
	Verify(ctx context.Context, code string) (*Credential, error)
}

// AuthFailure is returned for any failed login, link request or verification
type AuthFailure struct {
	Message string
	Err     error
}

func (e *AuthFailure) Error() string {
	return e.Message
}

func (e *AuthFailure) Unwrap() error {
	return e.Err
}

// NewFailure wraps err with a human-readable message.
// Backend messages are preferred over transport error text.
func NewFailure(fallback string, err error) *AuthFailure {
	msg := ""
	var apiErr *client.APIError
	if errors.As(err, &apiErr) {
		msg = apiErr.Message
	} else if err != nil {
		msg = err.Error()
	}
	if msg == "" {
		msg = fallback
	}
	return &AuthFailure{Message: msg, Err: err}
}

// API is the subset of the HTTP client used by HTTPGateway
type API interface {
	DevLogin(ctx context.Context, userID string) (*client.AuthResponse, error)
	RequestLink(ctx context.Context, email string) error
	Verify(ctx context.Context, code string) (*client.AuthResponse, error)
}

// HTTPGateway implements Gateway over the MyTeams API
type HTTPGateway struct {
	api API
}

// NewHTTPGateway creates a gateway backed by api
func NewHTTPGateway(api API) *HTTPGateway {
	return &HTTPGateway{api: api}
}

// DevLogin calls the development-only login endpoint
func (g *HTTPGateway) DevLogin(ctx context.Context, userID string) (*Credential, error) {
	userID = strings.TrimSpace(userID)
	if userID == "" {
		return nil, &AuthFailure{Message: "user id is required"}
	}
	resp, err := g.api.DevLogin(ctx, userID)
	if err != nil {
		return nil, NewFailure("dev login failed", err)
	}
	return credentialFrom(resp)
}

// RequestLink asks the backend to send a one-time code to email
func (g *HTTPGateway) RequestLink(ctx context.Context, email string) error {
	addr, err := ValidateEmail(email)
	if err != nil {
		return err
	}
	if err := g.api.RequestLink(ctx, addr); err != nil {
		return NewFailure("failed to send magic link", err)
	}
	return nil
}

// Verify exchanges a one-time code for a session credential
func (g *HTTPGateway) Verify(ctx context.Context, code string) (*Credential, error) {
	code = strings.TrimSpace(code)
	if code == "" {
		return nil, &AuthFailure{Message: "verification code is required"}
	}
	resp, err := g.api.Verify(ctx, code)
	if err != nil {
		return nil, NewFailure("invalid or expired code", err)
	}
	return credentialFrom(resp)
}

// ValidateEmail trims and checks an address, returning the bare address
func ValidateEmail(email string) (string, error) {
	email = strings.TrimSpace(email)
	if email == "" {
		return "", &AuthFailure{Message: "email is required"}
	}
	addr, err := mail.ParseAddress(email)
	if err != nil || addr.Address != email {
		return "", &AuthFailure{Message: fmt.Sprintf("invalid email address %q", email), Err: err}
	}
	return addr.Address, nil
}

func credentialFrom(resp *client.AuthResponse) (*Credential, error) {
	if resp.AccessToken == "" || resp.User.ID == "" {
		return nil, &AuthFailure{Message: "backend returned an incomplete session"}
	}
	return &Credential{
		Token: resp.AccessToken,
		User: UserProfile{
			ID:          resp.User.ID,
			Email:       resp.User.Email,
			DisplayName: resp.User.DisplayName,
		},
	}, nil
}
