package handlers

import (
	"errors"
	"fmt"
	"net/http"
	"time"

	"github.com/golang-jwt/jwt/v5"

	"github.com/jayramgit94/AirBnb-DB-project/internal/domain"
)

// SessionCookieName is the cookie carrying the signed session id
const SessionCookieName = "wanderlust.sid"

var errNoSessionCookie = errors.New("no session cookie")

// SessionCookie signs session ids into HS256 tokens so a tampered cookie is
// rejected before any store lookup.
type SessionCookie struct {
	secret []byte
	secure bool
}

// NewSessionCookie creates the codec; secure marks cookies HTTPS-only
func NewSessionCookie(secret string, secure bool) *SessionCookie {
	return &SessionCookie{secret: []byte(secret), secure: secure}
}

// Write sets the cookie for sess, expiring with it
func (c *SessionCookie) Write(w http.ResponseWriter, sess *domain.Session) error {
	claims := jwt.RegisteredClaims{
		ID:        sess.ID,
		IssuedAt:  jwt.NewNumericDate(time.Now()),
		ExpiresAt: jwt.NewNumericDate(sess.ExpiresAt),
	}
	value, err := jwt.NewWithClaims(jwt.SigningMethodHS256, claims).SignedString(c.secret)
	if err != nil {
		return fmt.Errorf("sign session cookie: %w", err)
	}

	http.SetCookie(w, &http.Cookie{
		Name:     SessionCookieName,
		Value:    value,
		Path:     "/",
		Expires:  sess.ExpiresAt,
		MaxAge:   int(time.Until(sess.ExpiresAt).Seconds()),
		HttpOnly: true,
		Secure:   c.secure,
		SameSite: http.SameSiteLaxMode,
	})
	return nil
}

// Clear expires the cookie in the browser
func (c *SessionCookie) Clear(w http.ResponseWriter) {
	http.SetCookie(w, &http.Cookie{
		Name:     SessionCookieName,
		Value:    "",
		Path:     "/",
		MaxAge:   -1,
		HttpOnly: true,
		Secure:   c.secure,
		SameSite: http.SameSiteLaxMode,
	})
}

// Read returns the session id from the request cookie
func (c *SessionCookie) Read(r *http.Request) (string, error) {
	cookie, err := r.Cookie(SessionCookieName)
	if err != nil || cookie.Value == "" {
		return "", errNoSessionCookie
	}

	claims := &jwt.RegisteredClaims{}
	_, err = jwt.ParseWithClaims(cookie.Value, claims, func(*jwt.Token) (any, error) {
		return c.secret, nil
	}, jwt.WithValidMethods([]string{jwt.SigningMethodHS256.Alg()}))
	if err != nil {
		return "", fmt.Errorf("parse session cookie: %w", err)
	}
	if claims.ID == "" {
		return "", errNoSessionCookie
	}
	return claims.ID, nil
}
