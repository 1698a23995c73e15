package domain

import (
	"time"
)

// User represents a registered account
type User struct {
	ID           string
	Username     string
	Email        string
	PasswordHash string
	CreatedAt    time.Time
	UpdatedAt    time.Time
}

// Session is the server-side state behind a session cookie.
// A session without a UserID is anonymous; it exists only to carry ReturnTo.
type Session struct {
	ID        string
	UserID    string
	Username  string
	ReturnTo  string
	ExpiresAt time.Time
	CreatedAt time.Time
	UpdatedAt time.Time
}

// IsExpired checks if the session has expired
func (s *Session) IsExpired() bool {
	return !time.Now().Before(s.ExpiresAt)
}

// IsAuthenticated reports whether a user is signed in on this session
func (s *Session) IsAuthenticated() bool {
	return s != nil && s.UserID != ""
}
