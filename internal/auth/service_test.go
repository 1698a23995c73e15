package auth_test

import (
	"context"
	"errors"
	"strings"
	"testing"
	"time"

	"golang.org/x/crypto/bcrypt"

	"github.com/jayramgit94/AirBnb-DB-project/internal/auth"
	"github.com/jayramgit94/AirBnb-DB-project/internal/domain"
	"github.com/jayramgit94/AirBnb-DB-project/internal/storage/memory"
)

func newService(t *testing.T) (*auth.Service, *memory.UserStore, *memory.SessionStore) {
	t.Helper()
	users := memory.NewUserStore()
	sessions := memory.NewSessionStore()
	svc := auth.NewService(users, sessions, 7*24*time.Hour, auth.WithBcryptCost(bcrypt.MinCost))
	return svc, users, sessions
}

func TestSignup_Validation(t *testing.T) {
	tests := []struct {
		name    string
		req     auth.SignupRequest
		wantMsg string
	}{
		{"missing username", auth.SignupRequest{Email: "a@b.co", Password: "pw"}, auth.MsgMissingSignupFields},
		{"blank username", auth.SignupRequest{Username: "   ", Email: "a@b.co", Password: "pw"}, auth.MsgMissingSignupFields},
		{"missing email", auth.SignupRequest{Username: "ann", Password: "pw"}, auth.MsgMissingSignupFields},
		{"missing password", auth.SignupRequest{Username: "ann", Email: "a@b.co"}, auth.MsgMissingSignupFields},
		{"no at sign", auth.SignupRequest{Username: "ann", Email: "ann.example.com", Password: "pw"}, auth.MsgInvalidEmail},
		{"no dot in domain", auth.SignupRequest{Username: "ann", Email: "ann@example", Password: "pw"}, auth.MsgInvalidEmail},
		{"space in email", auth.SignupRequest{Username: "ann", Email: "a nn@example.com", Password: "pw"}, auth.MsgInvalidEmail},
		{"username too short", auth.SignupRequest{Username: "a", Email: "a@b.co", Password: "pw"}, auth.MsgUsernameLength},
		{"username too long", auth.SignupRequest{Username: strings.Repeat("x", 41), Email: "a@b.co", Password: "pw"}, auth.MsgUsernameLength},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			svc, users, _ := newService(t)

			_, err := svc.Signup(context.Background(), tt.req, nil)

			var verr *auth.ValidationError
			if !errors.As(err, &verr) {
				t.Fatalf("Signup() error = %v, want ValidationError", err)
			}
			if verr.Message != tt.wantMsg {
				t.Errorf("Message = %q, want %q", verr.Message, tt.wantMsg)
			}
			if users.Count() != 0 {
				t.Errorf("user count = %d, want 0", users.Count())
			}
		})
	}
}

func TestSignup_NormalizesAndHashes(t *testing.T) {
	svc, users, _ := newService(t)
	ctx := context.Background()

	session, err := svc.Signup(ctx, auth.SignupRequest{
		Username: "  Ann  ",
		Email:    "  Ann@Example.COM ",
		Password: "s3cret",
	}, nil)
	if err != nil {
		t.Fatalf("Signup() error = %v", err)
	}

	user, err := users.GetUserByEmail(ctx, "ann@example.com")
	if err != nil {
		t.Fatalf("GetUserByEmail() error = %v", err)
	}
	if user.Username != "Ann" {
		t.Errorf("Username = %q, want %q", user.Username, "Ann")
	}
	if user.PasswordHash == "s3cret" {
		t.Error("password stored in plaintext")
	}
	if err := bcrypt.CompareHashAndPassword([]byte(user.PasswordHash), []byte("s3cret")); err != nil {
		t.Errorf("stored hash does not verify: %v", err)
	}

	if !session.IsAuthenticated() {
		t.Error("signup should produce an authenticated session")
	}
	if session.UserID != user.ID || session.Username != "Ann" {
		t.Errorf("session = %+v, want user %s", session, user.ID)
	}
}

func TestSignup_DuplicateEmail(t *testing.T) {
	svc, users, _ := newService(t)
	ctx := context.Background()

	req := auth.SignupRequest{Username: "ann", Email: "ann@example.com", Password: "pw"}
	if _, err := svc.Signup(ctx, req, nil); err != nil {
		t.Fatalf("first Signup() error = %v", err)
	}

	req.Email = "ANN@example.com"
	_, err := svc.Signup(ctx, req, nil)
	if !errors.Is(err, auth.ErrEmailExists) {
		t.Fatalf("second Signup() error = %v, want ErrEmailExists", err)
	}
	if users.Count() != 1 {
		t.Errorf("user count = %d, want 1", users.Count())
	}
}

func TestLogin(t *testing.T) {
	svc, _, _ := newService(t)
	ctx := context.Background()

	if _, err := svc.Signup(ctx, auth.SignupRequest{Username: "ann", Email: "ann@example.com", Password: "pw"}, nil); err != nil {
		t.Fatalf("Signup() error = %v", err)
	}

	tests := []struct {
		name      string
		req       auth.LoginRequest
		wantErr   error
		wantValid bool
	}{
		{"success", auth.LoginRequest{Email: "ann@example.com", Password: "pw"}, nil, false},
		{"email case and spaces", auth.LoginRequest{Email: " ANN@example.com ", Password: "pw"}, nil, false},
		{"wrong password", auth.LoginRequest{Email: "ann@example.com", Password: "nope"}, auth.ErrInvalidCredentials, false},
		{"unknown email", auth.LoginRequest{Email: "bob@example.com", Password: "pw"}, auth.ErrInvalidCredentials, false},
		{"missing password", auth.LoginRequest{Email: "ann@example.com"}, nil, true},
		{"missing email", auth.LoginRequest{Password: "pw"}, nil, true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			result, err := svc.Login(ctx, tt.req, nil)

			if tt.wantValid {
				var verr *auth.ValidationError
				if !errors.As(err, &verr) || verr.Message != auth.MsgMissingCredentials {
					t.Fatalf("Login() error = %v, want %q", err, auth.MsgMissingCredentials)
				}
				return
			}
			if tt.wantErr != nil {
				if !errors.Is(err, tt.wantErr) {
					t.Fatalf("Login() error = %v, want %v", err, tt.wantErr)
				}
				return
			}
			if err != nil {
				t.Fatalf("Login() error = %v", err)
			}
			if result.RedirectTo != auth.DefaultRedirect {
				t.Errorf("RedirectTo = %q, want %q", result.RedirectTo, auth.DefaultRedirect)
			}
			if !result.Session.IsAuthenticated() {
				t.Error("session should be authenticated")
			}
		})
	}
}

func TestLogin_ConsumesReturnToAndRotatesSession(t *testing.T) {
	svc, _, sessions := newService(t)
	ctx := context.Background()

	if _, err := svc.Signup(ctx, auth.SignupRequest{Username: "ann", Email: "ann@example.com", Password: "pw"}, nil); err != nil {
		t.Fatalf("Signup() error = %v", err)
	}

	anon, err := svc.RememberReturnTo(ctx, nil, "/listings/new")
	if err != nil {
		t.Fatalf("RememberReturnTo() error = %v", err)
	}
	if anon.IsAuthenticated() {
		t.Error("remembered session must stay anonymous")
	}

	result, err := svc.Login(ctx, auth.LoginRequest{Email: "ann@example.com", Password: "pw"}, anon)
	if err != nil {
		t.Fatalf("Login() error = %v", err)
	}
	if result.RedirectTo != "/listings/new" {
		t.Errorf("RedirectTo = %q, want /listings/new", result.RedirectTo)
	}
	if result.Session.ID == anon.ID {
		t.Error("login must issue a new session id")
	}
	if result.Session.ReturnTo != "" {
		t.Errorf("ReturnTo = %q, want it consumed", result.Session.ReturnTo)
	}
	if _, err := sessions.GetSession(ctx, anon.ID); !errors.Is(err, domain.ErrSessionNotFound) {
		t.Errorf("old session lookup error = %v, want ErrSessionNotFound", err)
	}
}

func TestRememberReturnTo_RejectsOffsiteTargets(t *testing.T) {
	svc, _, _ := newService(t)
	ctx := context.Background()

	for _, uri := range []string{"https://evil.example", "//evil.example", "/\\evil.example", "listings"} {
		session, err := svc.RememberReturnTo(ctx, nil, uri)
		if err != nil {
			t.Fatalf("RememberReturnTo(%q) error = %v", uri, err)
		}
		if session.ReturnTo != "" {
			t.Errorf("RememberReturnTo(%q) stored %q", uri, session.ReturnTo)
		}
	}
}

func TestSafeReturnTo(t *testing.T) {
	tests := []struct {
		uri  string
		want bool
	}{
		{"/listings", true},
		{"/listings/abc/edit?x=1", true},
		{"", false},
		{"//evil.example", false},
		{"/\\evil.example", false},
		{"http://evil.example", false},
	}

	for _, tt := range tests {
		if got := auth.SafeReturnTo(tt.uri); got != tt.want {
			t.Errorf("SafeReturnTo(%q) = %v, want %v", tt.uri, got, tt.want)
		}
	}
}

func TestLogoutAndResolve(t *testing.T) {
	svc, _, _ := newService(t)
	ctx := context.Background()

	session, err := svc.Signup(ctx, auth.SignupRequest{Username: "ann", Email: "ann@example.com", Password: "pw"}, nil)
	if err != nil {
		t.Fatalf("Signup() error = %v", err)
	}

	resolved, err := svc.Resolve(ctx, session.ID)
	if err != nil {
		t.Fatalf("Resolve() error = %v", err)
	}
	if resolved.UserID != session.UserID {
		t.Errorf("UserID = %q, want %q", resolved.UserID, session.UserID)
	}

	if err := svc.Logout(ctx, session.ID); err != nil {
		t.Fatalf("Logout() error = %v", err)
	}
	if _, err := svc.Resolve(ctx, session.ID); err == nil {
		t.Error("Resolve() after Logout should fail")
	}

	// logging out twice or without a session is harmless
	if err := svc.Logout(ctx, session.ID); err != nil {
		t.Errorf("second Logout() error = %v", err)
	}
	if err := svc.Logout(ctx, ""); err != nil {
		t.Errorf("Logout(\"\") error = %v", err)
	}
}

func TestCleanupExpiredSessions(t *testing.T) {
	users := memory.NewUserStore()
	sessions := memory.NewSessionStore()
	svc := auth.NewService(users, sessions, time.Millisecond, auth.WithBcryptCost(bcrypt.MinCost))
	ctx := context.Background()

	if _, err := svc.RememberReturnTo(ctx, nil, "/listings/new"); err != nil {
		t.Fatalf("RememberReturnTo() error = %v", err)
	}
	time.Sleep(5 * time.Millisecond)

	removed, err := svc.CleanupExpiredSessions(ctx)
	if err != nil {
		t.Fatalf("CleanupExpiredSessions() error = %v", err)
	}
	if removed != 1 {
		t.Errorf("removed = %d, want 1", removed)
	}
}
