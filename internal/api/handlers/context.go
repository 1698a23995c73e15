package handlers

import (
	"context"

	"github.com/jayramgit94/AirBnb-DB-project/internal/domain"
)

// Context keys
type contextKey string

const ContextKeySession contextKey = "session"

// WithSession attaches the resolved session to ctx
func WithSession(ctx context.Context, s *domain.Session) context.Context {
	return context.WithValue(ctx, ContextKeySession, s)
}

// SessionFrom returns the request's session, or nil for a visitor without one
func SessionFrom(ctx context.Context) *domain.Session {
	s, _ := ctx.Value(ContextKeySession).(*domain.Session)
	return s
}
