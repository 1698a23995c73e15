package api

import (
	"encoding/json"
	"log/slog"
	"net/http"
	"sort"

	"github.com/jayramgit94/AirBnb-DB-project/internal/api/handlers"
	"github.com/jayramgit94/AirBnb-DB-project/internal/api/middleware"
	"github.com/jayramgit94/AirBnb-DB-project/internal/web"
)

// Router wraps the HTTP multiplexer with middleware and handlers
type Router struct {
	mux      *http.ServeMux
	app      *App
	cookie   *handlers.SessionCookie
	views    *handlers.Views
	listings *handlers.ListingHandler
	auth     *handlers.AuthHandler
}

// NewRouter creates the site handler with all routes configured
func NewRouter(app *App) (http.Handler, error) {
	r := &Router{
		mux:    http.NewServeMux(),
		app:    app,
		cookie: handlers.NewSessionCookie(app.Config.SessionSecret, app.Config.IsProduction()),
		views: handlers.NewViews(app.Renderer,
			app.Listings.Placeholder(), app.Listings.PhotoUploadsEnabled()),
	}

	// Initialize handlers
	r.listings = handlers.NewListingHandler(app.Listings, r.views)
	r.auth = handlers.NewAuthHandler(app.Auth, r.cookie, r.views)

	// Register routes
	r.registerRoutes()

	// Build middleware chain
	return r.buildMiddlewareChain(r.mux), nil
}

func (r *Router) registerRoutes() {
	// Health check
	r.mux.HandleFunc("GET /health", r.handleHealth)
	r.mux.HandleFunc("GET /ready", r.handleReady)

	r.mux.Handle("GET /static/", middleware.CacheStatic(http.StripPrefix("/static/", web.Static())))

	// Listings (public read, auth required for writes)
	r.mux.HandleFunc("GET /{$}", r.listings.Home)
	r.mux.HandleFunc("GET /listings", r.listings.Index)
	r.mux.HandleFunc("GET /listings/new", r.requireAuth(r.listings.New))
	r.mux.HandleFunc("POST /listings", r.requireAuth(r.listings.Create))
	r.mux.HandleFunc("GET /listings/{id}", r.listings.Show)
	r.mux.HandleFunc("GET /listings/{id}/edit", r.requireAuth(r.listings.Edit))
	r.mux.HandleFunc("PUT /listings/{id}", r.requireAuth(r.listings.Update))
	r.mux.HandleFunc("PATCH /listings/{id}", r.requireAuth(r.listings.Update))
	r.mux.HandleFunc("DELETE /listings/{id}", r.requireAuth(r.listings.Delete))

	// Auth; form submissions are rate limited per client
	limit := r.authRateLimit()
	r.mux.HandleFunc("GET /auth/login", r.auth.LoginForm)
	r.mux.Handle("POST /auth/login", limit(http.HandlerFunc(r.auth.Login)))
	r.mux.HandleFunc("GET /auth/signup", r.auth.SignupForm)
	r.mux.Handle("POST /auth/signup", limit(http.HandlerFunc(r.auth.Signup)))
	r.mux.HandleFunc("GET /auth/logout", r.auth.Logout)
	r.mux.HandleFunc("POST /auth/logout", r.auth.Logout)

	r.mux.HandleFunc("/", r.handleNotFound)
}

func (r *Router) buildMiddlewareChain(handler http.Handler) http.Handler {
	// Apply middleware in reverse order (last applied = first executed)
	handler = r.loadSession(handler)
	handler = middleware.MethodOverride(handler)
	handler = middleware.Compress(handler)
	handler = middleware.SecurityHeaders(handler)
	handler = middleware.Recovery(r.handlePanic)(handler)
	handler = middleware.Logger(handler)
	handler = middleware.RequestID(handler)

	return handler
}

func (r *Router) authRateLimit() func(http.Handler) http.Handler {
	return middleware.RateLimit(middleware.RateLimitConfig{
		Limit:      r.app.Config.AuthRateLimit,
		Window:     r.app.Config.AuthRateWindow,
		Name:       "auth",
		Counter:    r.app.RateCounter,
		TrustProxy: r.app.Config.TrustProxy,
		OnLimited: func(w http.ResponseWriter, req *http.Request) {
			r.views.WriteError(w, req, handlers.TooManyRequests())
		},
	})
}

func (r *Router) handleNotFound(w http.ResponseWriter, req *http.Request) {
	r.views.WriteError(w, req, handlers.PageNotFound())
}

func (r *Router) handlePanic(w http.ResponseWriter, req *http.Request) {
	r.views.WriteError(w, req, handlers.InternalError(nil))
}

// Health check handlers
func (r *Router) handleHealth(w http.ResponseWriter, req *http.Request) {
	r.jsonResponse(w, http.StatusOK, map[string]string{"status": "ok"})
}

func (r *Router) handleReady(w http.ResponseWriter, req *http.Request) {
	names := make([]string, 0, len(r.app.ReadyChecks))
	for name := range r.app.ReadyChecks {
		names = append(names, name)
	}
	sort.Strings(names)

	status := http.StatusOK
	checks := make(map[string]string, len(names))
	for _, name := range names {
		if err := r.app.ReadyChecks[name](req.Context()); err != nil {
			slog.Error("readiness check failed",
				"check", name,
				"error", err,
				"request_id", middleware.GetRequestID(req.Context()),
			)
			checks[name] = "unhealthy"
			status = http.StatusServiceUnavailable
			continue
		}
		checks[name] = "healthy"
	}

	state := "ready"
	if status != http.StatusOK {
		state = "not ready"
	}
	r.jsonResponse(w, status, map[string]any{"status": state, "checks": checks})
}

// Helper for JSON responses
func (r *Router) jsonResponse(w http.ResponseWriter, status int, data any) {
	body, err := json.Marshal(data)
	if err != nil {
		slog.Error("failed to encode JSON response", "error", err)
		http.Error(w, MsgEncodeFailed, http.StatusInternalServerError)
		return
	}

	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_, _ = w.Write(body)
}

// MsgEncodeFailed is sent when a JSON body cannot be built
const MsgEncodeFailed = "internal server error"
