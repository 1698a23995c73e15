package handlers

import (
	"errors"
	"net/http"

	"github.com/jayramgit94/AirBnb-DB-project/internal/domain"
	"github.com/jayramgit94/AirBnb-DB-project/internal/listing"
	"github.com/jayramgit94/AirBnb-DB-project/internal/media"
	"github.com/jayramgit94/AirBnb-DB-project/internal/web"
)

// ListingHandler handles the listing pages
type ListingHandler struct {
	listings *listing.Service
	views    *Views
}

// NewListingHandler creates a new listing handler
func NewListingHandler(listings *listing.Service, views *Views) *ListingHandler {
	return &ListingHandler{listings: listings, views: views}
}

// Home shows the most recent listings
func (h *ListingHandler) Home(w http.ResponseWriter, r *http.Request) {
	featured, err := h.listings.Featured(r.Context())
	if err != nil {
		h.views.WriteError(w, r, InternalError(err))
		return
	}

	view := h.views.View(r, "")
	view.Listings = featured
	h.views.Render(w, r, http.StatusOK, web.PageHome, view)
}

// Index shows every listing, newest first
func (h *ListingHandler) Index(w http.ResponseWriter, r *http.Request) {
	all, err := h.listings.All(r.Context())
	if err != nil {
		h.views.WriteError(w, r, InternalError(err))
		return
	}

	view := h.views.View(r, "All listings")
	view.Listings = all
	h.views.Render(w, r, http.StatusOK, web.PageIndex, view)
}

// New shows the create form
func (h *ListingHandler) New(w http.ResponseWriter, r *http.Request) {
	h.views.Render(w, r, http.StatusOK, web.PageNew, h.views.View(r, "New listing"))
}

// Create stores a submitted listing
func (h *ListingHandler) Create(w http.ResponseWriter, r *http.Request) {
	in, err := parseListingInput(w, r)
	if err != nil {
		h.fail(w, r, err, MsgListingNotFound)
		return
	}
	defer in.close()

	if _, err := h.listings.Create(r.Context(), in.raw, in.photo); err != nil {
		h.fail(w, r, err, MsgListingNotFound)
		return
	}

	http.Redirect(w, r, "/listings", http.StatusFound)
}

// Show renders one listing
func (h *ListingHandler) Show(w http.ResponseWriter, r *http.Request) {
	l, err := h.listings.Get(r.Context(), r.PathValue("id"))
	if err != nil {
		h.fail(w, r, err, MsgListingNotFound)
		return
	}

	view := h.views.View(r, l.Title)
	view.Listing = l
	h.views.Render(w, r, http.StatusOK, web.PageShow, view)
}

// Edit shows the edit form pre-filled with the stored listing
func (h *ListingHandler) Edit(w http.ResponseWriter, r *http.Request) {
	l, err := h.listings.Get(r.Context(), r.PathValue("id"))
	if err != nil {
		h.fail(w, r, err, MsgEditNotFound)
		return
	}

	view := h.views.View(r, "Edit "+l.Title)
	view.Listing = l
	view.Form = l.Fields()
	h.views.Render(w, r, http.StatusOK, web.PageEdit, view)
}

// Update replaces the editable fields of a listing
func (h *ListingHandler) Update(w http.ResponseWriter, r *http.Request) {
	id := r.PathValue("id")

	in, err := parseListingInput(w, r)
	if err != nil {
		h.fail(w, r, err, MsgUpdateNotFound)
		return
	}
	defer in.close()

	if _, err := h.listings.Update(r.Context(), id, in.raw, in.photo); err != nil {
		h.fail(w, r, err, MsgUpdateNotFound)
		return
	}

	http.Redirect(w, r, "/listings/"+id, http.StatusFound)
}

// Delete removes a listing; a missing listing still redirects
func (h *ListingHandler) Delete(w http.ResponseWriter, r *http.Request) {
	if err := h.listings.Delete(r.Context(), r.PathValue("id")); err != nil {
		h.views.WriteError(w, r, InternalError(err))
		return
	}

	http.Redirect(w, r, "/listings", http.StatusFound)
}

// fail maps service errors to error views
func (h *ListingHandler) fail(w http.ResponseWriter, r *http.Request, err error, notFoundMessage string) {
	var verr *listing.ValidationError
	switch {
	case errors.As(err, &verr), errors.Is(err, errMalformedBody):
		h.views.WriteError(w, r, InvalidListing().WithCause(err))
	case errors.Is(err, domain.ErrListingNotFound):
		h.views.WriteError(w, r, ListingNotFound(notFoundMessage))
	case errors.Is(err, media.ErrTooLarge), errors.Is(err, media.ErrUnsupportedType):
		h.views.WriteError(w, r, InvalidPhoto(err))
	default:
		h.views.WriteError(w, r, InternalError(err))
	}
}
