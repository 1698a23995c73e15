package handlers

import (
	"log/slog"
	"net/http"

	"github.com/jayramgit94/AirBnb-DB-project/internal/api/middleware"
	"github.com/jayramgit94/AirBnb-DB-project/internal/web"
)

// Views renders pages with the per-request data every layout needs
type Views struct {
	renderer     *web.Renderer
	placeholder  string
	photoUploads bool
}

// NewViews creates a view helper
func NewViews(renderer *web.Renderer, placeholder string, photoUploads bool) *Views {
	return &Views{renderer: renderer, placeholder: placeholder, photoUploads: photoUploads}
}

// View starts a page view for r
func (v *Views) View(r *http.Request, title string) *web.View {
	view := &web.View{
		Title:        title,
		Placeholder:  v.placeholder,
		PhotoUploads: v.photoUploads,
	}
	if s := SessionFrom(r.Context()); s.IsAuthenticated() {
		view.CurrentUser = s.Username
	}
	return view
}

// Render writes page; a template failure becomes a plain 500
func (v *Views) Render(w http.ResponseWriter, r *http.Request, status int, page string, view *web.View) {
	if err := v.renderer.Render(w, status, page, view); err != nil {
		slog.Error("render failed",
			"page", page,
			"error", err,
			"request_id", middleware.GetRequestID(r.Context()),
		)
		http.Error(w, MsgServerError, http.StatusInternalServerError)
	}
}
