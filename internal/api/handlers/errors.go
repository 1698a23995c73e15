package handlers

import (
	"log/slog"
	"net/http"

	"github.com/jayramgit94/AirBnb-DB-project/internal/api/middleware"
	"github.com/jayramgit94/AirBnb-DB-project/internal/web"
)

// Page titles and messages for error views
const (
	TitleInvalidListing  = "Invalid listing"
	MsgInvalidListing    = "Please provide all required fields and a valid price above 0."
	TitleListingNotFound = "Listing not found"
	MsgListingNotFound   = "We couldn't find that listing. Please try another one."
	MsgEditNotFound      = "We couldn't find that listing to edit."
	MsgUpdateNotFound    = "We couldn't find that listing to update."
	TitlePageNotFound    = "Page not found"
	MsgPageNotFound      = "The page you're looking for doesn't exist."
	TitleServerError     = "Something went wrong"
	MsgServerError       = "We hit a snag. Please try again in a moment."
	TitleTooManyRequests = "Too many requests"
	MsgTooManyRequests   = "Too many requests, please try again later."
	TitleInvalidPhoto    = "Invalid photo"
)

// PageError is an error rendered as the error view
type PageError struct {
	Status  int
	Title   string
	Message string
	cause   error
}

func (e *PageError) Error() string {
	return e.Message
}

func (e *PageError) Unwrap() error {
	return e.cause
}

// WithCause wraps an underlying error; it is logged, never shown
func (e *PageError) WithCause(err error) *PageError {
	e.cause = err
	return e
}

// Common error constructors
func InvalidListing() *PageError {
	return &PageError{Status: http.StatusBadRequest, Title: TitleInvalidListing, Message: MsgInvalidListing}
}

func ListingNotFound(message string) *PageError {
	return &PageError{Status: http.StatusNotFound, Title: TitleListingNotFound, Message: message}
}

func PageNotFound() *PageError {
	return &PageError{Status: http.StatusNotFound, Title: TitlePageNotFound, Message: MsgPageNotFound}
}

func TooManyRequests() *PageError {
	return &PageError{Status: http.StatusTooManyRequests, Title: TitleTooManyRequests, Message: MsgTooManyRequests}
}

func InvalidPhoto(err error) *PageError {
	return &PageError{Status: http.StatusBadRequest, Title: TitleInvalidPhoto, Message: err.Error()}
}

func InternalError(cause error) *PageError {
	return &PageError{Status: http.StatusInternalServerError, Title: TitleServerError, Message: MsgServerError, cause: cause}
}

// WriteError logs pe and renders the error view
func (v *Views) WriteError(w http.ResponseWriter, r *http.Request, pe *PageError) {
	logAttrs := []any{
		"title", pe.Title,
		"status", pe.Status,
		"method", r.Method,
		"path", r.URL.Path,
		"request_id", middleware.GetRequestID(r.Context()),
	}
	if pe.cause != nil {
		logAttrs = append(logAttrs, "cause", pe.cause.Error())
	}

	// Log at appropriate level based on status code
	if pe.Status >= 500 {
		slog.Error("request failed", logAttrs...)
	} else {
		slog.Warn("request rejected", logAttrs...)
	}

	view := v.View(r, pe.Title)
	view.Message = pe.Message
	v.Render(w, r, pe.Status, web.PageError, view)
}
