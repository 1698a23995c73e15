// Package web holds the HTML views and static assets, embedded in the binary.
package web

import (
	"bytes"
	"embed"
	"fmt"
	"html/template"
	"io/fs"
	"math"
	"net/http"
	"strconv"
	"strings"

	"github.com/jayramgit94/AirBnb-DB-project/internal/domain"
)

//go:embed templates
var templateFS embed.FS

//go:embed static
var staticFS embed.FS

// Page names accepted by Renderer.Render
const (
	PageHome   = "listings/home"
	PageIndex  = "listings/index"
	PageShow   = "listings/show"
	PageNew    = "listings/new"
	PageEdit   = "listings/edit"
	PageLogin  = "auth/login"
	PageSignup = "auth/signup"
	PageError  = "error"
)

// partials shared by every page
var partials = []string{
	"templates/layout.html",
	"templates/listings/cards.html",
	"templates/listings/form.html",
}

// View is the data every page template receives. Pages use the fields they
// need and ignore the rest.
type View struct {
	Title       string
	Message     string
	Error       string
	CurrentUser string

	Listings []*domain.Listing
	Listing  *domain.Listing
	Form     domain.ListingFields

	// PhotoUploads switches the listing forms to multipart with a file input.
	PhotoUploads bool
	Placeholder  string

	// sticky auth form values
	Username string
	Email    string
}

// Renderer executes page templates inside the shared layout
type Renderer struct {
	pages map[string]*template.Template
}

var funcs = template.FuncMap{
	"price": FormatPrice,
}

// NewRenderer parses every page once at startup
func NewRenderer() (*Renderer, error) {
	r := &Renderer{pages: make(map[string]*template.Template)}

	for _, page := range []string{PageHome, PageIndex, PageShow, PageNew, PageEdit, PageLogin, PageSignup, PageError} {
		patterns := append(append([]string{}, partials...), "templates/"+page+".html")
		t, err := template.New(page).Funcs(funcs).ParseFS(templateFS, patterns...)
		if err != nil {
			return nil, fmt.Errorf("parse %s: %w", page, err)
		}
		r.pages[page] = t
	}

	return r, nil
}

// Render writes page with the given status. The page is rendered into a
// buffer first so a template error never leaves a half-written response.
func (r *Renderer) Render(w http.ResponseWriter, status int, page string, view *View) error {
	t, ok := r.pages[page]
	if !ok {
		return fmt.Errorf("unknown page %q", page)
	}

	var buf bytes.Buffer
	if err := t.ExecuteTemplate(&buf, "layout", view); err != nil {
		return fmt.Errorf("render %s: %w", page, err)
	}

	w.Header().Set("Content-Type", "text/html; charset=utf-8")
	w.WriteHeader(status)
	_, err := buf.WriteTo(w)
	return err
}

// Static serves the embedded assets; mount it under /static/
func Static() http.Handler {
	sub, err := fs.Sub(staticFS, "static")
	if err != nil {
		panic(err)
	}
	return http.FileServer(http.FS(sub))
}

// FormatPrice renders an amount in rupees with Indian digit grouping,
// e.g. 1234567.5 -> "₹12,34,567.5".
func FormatPrice(amount float64) string {
	if math.IsNaN(amount) || math.IsInf(amount, 0) {
		return "₹0"
	}

	sign := ""
	if amount < 0 {
		sign = "-"
		amount = -amount
	}

	s := strconv.FormatFloat(math.Round(amount*100)/100, 'f', -1, 64)
	whole, frac, _ := strings.Cut(s, ".")

	return "₹" + sign + groupIndian(whole) + dotted(frac)
}

func groupIndian(digits string) string {
	if len(digits) <= 3 {
		return digits
	}
	head, tail := digits[:len(digits)-3], digits[len(digits)-3:]

	var parts []string
	for len(head) > 2 {
		parts = append([]string{head[len(head)-2:]}, parts...)
		head = head[:len(head)-2]
	}
	if head != "" {
		parts = append([]string{head}, parts...)
	}
	return strings.Join(parts, ",") + "," + tail
}

func dotted(frac string) string {
	if frac == "" {
		return ""
	}
	return "." + frac
}
