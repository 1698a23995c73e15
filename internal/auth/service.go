package auth

import (
	"context"
	"crypto/rand"
	"encoding/base64"
	"errors"
	"fmt"
	"regexp"
	"strings"
	"time"
	"unicode/utf8"

	"golang.org/x/crypto/bcrypt"

	"github.com/jayramgit94/AirBnb-DB-project/internal/domain"
)

// DefaultRedirect is where a successful login or signup lands
const DefaultRedirect = "/listings"

// DefaultBcryptCost matches the cost the account data was created with
const DefaultBcryptCost = 10

// Messages shown on the auth forms
const (
	MsgMissingSignupFields = "Please fill in all required fields."
	MsgInvalidEmail        = "Please enter a valid email address."
	MsgUsernameLength      = "Username must be between 2 and 40 characters."
	MsgEmailTaken          = "An account with this email already exists."
	MsgMissingCredentials  = "Please enter your email and password."
	MsgInvalidCredentials  = "Invalid email or password."
	MsgLoginRequired       = "Please log in to continue."
)

var (
	// ErrInvalidCredentials covers both an unknown email and a wrong password
	ErrInvalidCredentials = errors.New("invalid email or password")
	ErrEmailExists        = errors.New("email already registered")
)

var emailPattern = regexp.MustCompile(`^[^\s@]+@[^\s@]+\.[^\s@]+$`)

// ValidationError carries a message meant for the signup/login form
type ValidationError struct {
	Message string
}

func (e *ValidationError) Error() string {
	return e.Message
}

// UserRepository persists accounts
type UserRepository interface {
	// CreateUser returns domain.ErrUserAlreadyExists when the email is taken.
	CreateUser(ctx context.Context, user *domain.User) error
	// GetUserByEmail returns domain.ErrUserNotFound when there is no match.
	GetUserByEmail(ctx context.Context, email string) (*domain.User, error)
	GetUserByID(ctx context.Context, id string) (*domain.User, error)
}

// SessionRepository persists server-side sessions
type SessionRepository interface {
	// SaveSession inserts or replaces the session with the same id.
	SaveSession(ctx context.Context, session *domain.Session) error
	// GetSession returns domain.ErrSessionNotFound for unknown or expired ids.
	GetSession(ctx context.Context, id string) (*domain.Session, error)
	DeleteSession(ctx context.Context, id string) error
	DeleteExpired(ctx context.Context) (int64, error)
}

// Service handles authentication operations
type Service struct {
	users         UserRepository
	sessions      SessionRepository
	sessionMaxAge time.Duration
	bcryptCost    int
	dummyHash     []byte
}

// Option configures a Service
type Option func(*Service)

// WithBcryptCost overrides DefaultBcryptCost; tests use bcrypt.MinCost
func WithBcryptCost(cost int) Option {
	return func(s *Service) { s.bcryptCost = cost }
}

// NewService creates a new auth service
func NewService(users UserRepository, sessions SessionRepository, sessionMaxAge time.Duration, opts ...Option) *Service {
	s := &Service{
		users:         users,
		sessions:      sessions,
		sessionMaxAge: sessionMaxAge,
		bcryptCost:    DefaultBcryptCost,
	}
	for _, opt := range opts {
		opt(s)
	}
	// compared against when the email is unknown so both failures cost the same
	s.dummyHash, _ = bcrypt.GenerateFromPassword([]byte("wanderlust-dummy-password"), s.bcryptCost)
	return s
}

// SessionMaxAge is how long a session lives after its last write
func (s *Service) SessionMaxAge() time.Duration {
	return s.sessionMaxAge
}

// SignupRequest contains registration data as submitted
type SignupRequest struct {
	Username string
	Email    string
	Password string
}

// Signup creates an account and signs the new user in. The returned session
// replaces current, which may be nil.
func (s *Service) Signup(ctx context.Context, req SignupRequest, current *domain.Session) (*domain.Session, error) {
	username := strings.TrimSpace(req.Username)
	email := normalizeEmail(req.Email)

	if username == "" || email == "" || req.Password == "" {
		return nil, &ValidationError{Message: MsgMissingSignupFields}
	}
	if !emailPattern.MatchString(email) {
		return nil, &ValidationError{Message: MsgInvalidEmail}
	}
	if n := utf8.RuneCountInString(username); n < 2 || n > 40 {
		return nil, &ValidationError{Message: MsgUsernameLength}
	}

	// Check if email already exists
	existing, err := s.users.GetUserByEmail(ctx, email)
	if err == nil && existing != nil {
		return nil, ErrEmailExists
	}
	if err != nil && !errors.Is(err, domain.ErrUserNotFound) {
		return nil, fmt.Errorf("look up email: %w", err)
	}

	hashedPassword, err := bcrypt.GenerateFromPassword([]byte(req.Password), s.bcryptCost)
	if err != nil {
		return nil, fmt.Errorf("hash password: %w", err)
	}

	user := &domain.User{
		Username:     username,
		Email:        email,
		PasswordHash: string(hashedPassword),
	}
	if err := s.users.CreateUser(ctx, user); err != nil {
		// lost a race with a concurrent signup; the unique index decided
		if errors.Is(err, domain.ErrUserAlreadyExists) {
			return nil, ErrEmailExists
		}
		return nil, fmt.Errorf("create user: %w", err)
	}

	return s.establish(ctx, user, current)
}

// LoginRequest contains login credentials
type LoginRequest struct {
	Email    string
	Password string
}

// LoginResult is a signed-in session and where to send the browser next
type LoginResult struct {
	Session    *domain.Session
	RedirectTo string
}

// Login verifies credentials and signs the user in. A ReturnTo captured on
// current is consumed and becomes the redirect target.
func (s *Service) Login(ctx context.Context, req LoginRequest, current *domain.Session) (*LoginResult, error) {
	email := normalizeEmail(req.Email)
	if email == "" || req.Password == "" {
		return nil, &ValidationError{Message: MsgMissingCredentials}
	}

	user, err := s.users.GetUserByEmail(ctx, email)
	if errors.Is(err, domain.ErrUserNotFound) {
		_ = bcrypt.CompareHashAndPassword(s.dummyHash, []byte(req.Password))
		return nil, ErrInvalidCredentials
	}
	if err != nil {
		return nil, fmt.Errorf("look up email: %w", err)
	}

	// Compare password
	if err := bcrypt.CompareHashAndPassword([]byte(user.PasswordHash), []byte(req.Password)); err != nil {
		return nil, ErrInvalidCredentials
	}

	redirectTo := DefaultRedirect
	if current != nil && SafeReturnTo(current.ReturnTo) {
		redirectTo = current.ReturnTo
	}

	session, err := s.establish(ctx, user, current)
	if err != nil {
		return nil, err
	}

	return &LoginResult{Session: session, RedirectTo: redirectTo}, nil
}

// Logout destroys the session record
func (s *Service) Logout(ctx context.Context, sessionID string) error {
	if sessionID == "" {
		return nil
	}
	return s.sessions.DeleteSession(ctx, sessionID)
}

// Resolve loads the session behind a cookie
func (s *Service) Resolve(ctx context.Context, sessionID string) (*domain.Session, error) {
	session, err := s.sessions.GetSession(ctx, sessionID)
	if err != nil {
		return nil, err
	}

	if session.IsExpired() {
		_ = s.sessions.DeleteSession(ctx, session.ID)
		return nil, domain.ErrSessionExpired
	}

	return session, nil
}

// RememberReturnTo stores the URL a signed-out visitor tried to open so Login
// can send them back. A new anonymous session is created when current is nil.
func (s *Service) RememberReturnTo(ctx context.Context, current *domain.Session, uri string) (*domain.Session, error) {
	if !SafeReturnTo(uri) {
		uri = ""
	}

	session := current
	if session == nil {
		id, err := generateToken(32)
		if err != nil {
			return nil, err
		}
		session = &domain.Session{ID: id, CreatedAt: time.Now().UTC()}
	}

	session.ReturnTo = uri
	s.touch(session)
	if err := s.sessions.SaveSession(ctx, session); err != nil {
		return nil, fmt.Errorf("save session: %w", err)
	}
	return session, nil
}

// CleanupExpiredSessions removes all expired sessions
func (s *Service) CleanupExpiredSessions(ctx context.Context) (int64, error) {
	return s.sessions.DeleteExpired(ctx)
}

// establish creates a fresh session for user and discards current so a
// pre-login session id never becomes an authenticated one.
func (s *Service) establish(ctx context.Context, user *domain.User, current *domain.Session) (*domain.Session, error) {
	id, err := generateToken(32)
	if err != nil {
		return nil, err
	}

	session := &domain.Session{
		ID:        id,
		UserID:    user.ID,
		Username:  user.Username,
		CreatedAt: time.Now().UTC(),
	}
	s.touch(session)

	if err := s.sessions.SaveSession(ctx, session); err != nil {
		return nil, fmt.Errorf("save session: %w", err)
	}

	if current != nil && current.ID != "" {
		_ = s.sessions.DeleteSession(ctx, current.ID)
	}

	return session, nil
}

func (s *Service) touch(session *domain.Session) {
	now := time.Now().UTC()
	session.UpdatedAt = now
	session.ExpiresAt = now.Add(s.sessionMaxAge)
}

// SafeReturnTo accepts only same-site relative paths
func SafeReturnTo(uri string) bool {
	if uri == "" || uri[0] != '/' {
		return false
	}
	if strings.HasPrefix(uri, "//") || strings.HasPrefix(uri, "/\\") {
		return false
	}
	return true
}

func normalizeEmail(email string) string {
	return strings.ToLower(strings.TrimSpace(email))
}

// generateToken creates a cryptographically secure random token
func generateToken(length int) (string, error) {
	bytes := make([]byte, length)
	if _, err := rand.Read(bytes); err != nil {
		return "", err
	}
	return base64.RawURLEncoding.EncodeToString(bytes), nil
}
