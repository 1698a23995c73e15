package api

import (
	"errors"
	"log/slog"
	"net/http"
	"net/url"
	"strings"

	"github.com/jayramgit94/AirBnb-DB-project/internal/api/handlers"
	"github.com/jayramgit94/AirBnb-DB-project/internal/api/middleware"
	"github.com/jayramgit94/AirBnb-DB-project/internal/auth"
	"github.com/jayramgit94/AirBnb-DB-project/internal/domain"
)

// loginRequiredURL is where requireAuth sends visitors without a session
var loginRequiredURL = "/auth/login?message=" + url.PathEscape(auth.MsgLoginRequired)

// loadSession resolves the session cookie and puts the session in the request
// context. A missing, tampered or expired cookie leaves the visitor anonymous.
func (r *Router) loadSession(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, req *http.Request) {
		if strings.HasPrefix(req.URL.Path, "/static/") || req.URL.Path == "/health" {
			next.ServeHTTP(w, req)
			return
		}

		id, err := r.cookie.Read(req)
		if err != nil {
			next.ServeHTTP(w, req)
			return
		}

		sess, err := r.app.Auth.Resolve(req.Context(), id)
		switch {
		case err == nil:
		case errors.Is(err, domain.ErrSessionNotFound), errors.Is(err, domain.ErrSessionExpired):
			next.ServeHTTP(w, req)
			return
		default:
			slog.Warn("session lookup failed",
				"error", err,
				"request_id", middleware.GetRequestID(req.Context()),
			)
			next.ServeHTTP(w, req)
			return
		}

		if sess.IsAuthenticated() {
			middleware.SetLogUser(req.Context(), sess.Username, sess.UserID)
		}
		next.ServeHTTP(w, req.WithContext(handlers.WithSession(req.Context(), sess)))
	})
}

// requireAuth runs next only for signed-in users. Anyone else has the
// requested URL remembered for after login and is sent to the login page.
func (r *Router) requireAuth(next http.HandlerFunc) http.HandlerFunc {
	return func(w http.ResponseWriter, req *http.Request) {
		current := handlers.SessionFrom(req.Context())
		if current.IsAuthenticated() {
			next(w, req)
			return
		}

		sess, err := r.app.Auth.RememberReturnTo(req.Context(), current, req.URL.RequestURI())
		if err != nil {
			r.views.WriteError(w, req, handlers.InternalError(err))
			return
		}
		if err := r.cookie.Write(w, sess); err != nil {
			r.views.WriteError(w, req, handlers.InternalError(err))
			return
		}

		http.Redirect(w, req, loginRequiredURL, http.StatusFound)
	}
}
