package handlers

import (
	"errors"
	"log/slog"
	"net/http"

	"github.com/jayramgit94/AirBnb-DB-project/internal/api/middleware"
	"github.com/jayramgit94/AirBnb-DB-project/internal/auth"
	"github.com/jayramgit94/AirBnb-DB-project/internal/web"
)

// AuthHandler handles signup, login and logout
type AuthHandler struct {
	auth   *auth.Service
	cookie *SessionCookie
	views  *Views
}

// NewAuthHandler creates a new auth handler
func NewAuthHandler(authService *auth.Service, cookie *SessionCookie, views *Views) *AuthHandler {
	return &AuthHandler{auth: authService, cookie: cookie, views: views}
}

// LoginForm shows the login page with an optional notice from ?message=
func (h *AuthHandler) LoginForm(w http.ResponseWriter, r *http.Request) {
	view := h.views.View(r, "Log in")
	view.Message = r.URL.Query().Get("message")
	h.views.Render(w, r, http.StatusOK, web.PageLogin, view)
}

// Login handles POST /auth/login
func (h *AuthHandler) Login(w http.ResponseWriter, r *http.Request) {
	if err := r.ParseForm(); err != nil {
		h.loginError(w, r, http.StatusBadRequest, auth.MsgMissingCredentials, "")
		return
	}
	req := auth.LoginRequest{
		Email:    r.PostFormValue("email"),
		Password: r.PostFormValue("password"),
	}

	result, err := h.auth.Login(r.Context(), req, SessionFrom(r.Context()))
	if err != nil {
		var verr *auth.ValidationError
		switch {
		case errors.As(err, &verr):
			h.loginError(w, r, http.StatusBadRequest, verr.Message, req.Email)
		case errors.Is(err, auth.ErrInvalidCredentials):
			slog.Info("login failed",
				"remote_addr", r.RemoteAddr,
				"request_id", middleware.GetRequestID(r.Context()),
			)
			h.loginError(w, r, http.StatusUnauthorized, auth.MsgInvalidCredentials, req.Email)
		default:
			h.views.WriteError(w, r, InternalError(err))
		}
		return
	}

	if err := h.cookie.Write(w, result.Session); err != nil {
		h.views.WriteError(w, r, InternalError(err))
		return
	}
	middleware.SetLogUser(r.Context(), result.Session.Username, result.Session.UserID)

	http.Redirect(w, r, result.RedirectTo, http.StatusFound)
}

func (h *AuthHandler) loginError(w http.ResponseWriter, r *http.Request, status int, msg, email string) {
	view := h.views.View(r, "Log in")
	view.Error = msg
	view.Email = email
	h.views.Render(w, r, status, web.PageLogin, view)
}

// SignupForm shows the signup page
func (h *AuthHandler) SignupForm(w http.ResponseWriter, r *http.Request) {
	h.views.Render(w, r, http.StatusOK, web.PageSignup, h.views.View(r, "Sign up"))
}

// Signup handles POST /auth/signup
func (h *AuthHandler) Signup(w http.ResponseWriter, r *http.Request) {
	if err := r.ParseForm(); err != nil {
		h.signupError(w, r, auth.MsgMissingSignupFields, auth.SignupRequest{})
		return
	}
	req := auth.SignupRequest{
		Username: r.PostFormValue("username"),
		Email:    r.PostFormValue("email"),
		Password: r.PostFormValue("password"),
	}

	session, err := h.auth.Signup(r.Context(), req, SessionFrom(r.Context()))
	if err != nil {
		var verr *auth.ValidationError
		switch {
		case errors.As(err, &verr):
			h.signupError(w, r, verr.Message, req)
		case errors.Is(err, auth.ErrEmailExists):
			h.signupError(w, r, auth.MsgEmailTaken, req)
		default:
			h.views.WriteError(w, r, InternalError(err))
		}
		return
	}

	if err := h.cookie.Write(w, session); err != nil {
		h.views.WriteError(w, r, InternalError(err))
		return
	}
	middleware.SetLogUser(r.Context(), session.Username, session.UserID)

	slog.Info("user signed up",
		"user_id", session.UserID,
		"request_id", middleware.GetRequestID(r.Context()),
	)
	http.Redirect(w, r, auth.DefaultRedirect, http.StatusFound)
}

func (h *AuthHandler) signupError(w http.ResponseWriter, r *http.Request, msg string, req auth.SignupRequest) {
	view := h.views.View(r, "Sign up")
	view.Error = msg
	view.Username = req.Username
	view.Email = req.Email
	h.views.Render(w, r, http.StatusBadRequest, web.PageSignup, view)
}

// Logout destroys the session and returns to the landing page
func (h *AuthHandler) Logout(w http.ResponseWriter, r *http.Request) {
	if s := SessionFrom(r.Context()); s != nil {
		if err := h.auth.Logout(r.Context(), s.ID); err != nil {
			h.views.WriteError(w, r, InternalError(err))
			return
		}
	}
	h.cookie.Clear(w)
	http.Redirect(w, r, "/", http.StatusFound)
}
