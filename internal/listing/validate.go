package listing

import (
	"encoding/json"
	"fmt"
	"math"
	"strconv"
	"strings"

	"github.com/jayramgit94/AirBnb-DB-project/internal/domain"
)

// Field names accepted from forms and seed files
const (
	FieldTitle       = "title"
	FieldDescription = "description"
	FieldImage       = "image"
	FieldPrice       = "price"
	FieldLocation    = "location"
	FieldCountry     = "country"
)

// requiredFields are checked in this order; image has its own default.
var requiredFields = []string{FieldTitle, FieldDescription, FieldPrice, FieldLocation, FieldCountry}

// DefaultPlaceholderImage is used when a listing is saved without an image
const DefaultPlaceholderImage = "https://images.unsplash.com/photo-1506744038136-46273834b3fb"

// Normalize turns raw request input into the canonical listing shape.
// Strings are trimmed, price is parsed from text, and absent fields become
// empty. A price that cannot be parsed becomes NaN so Validate rejects it.
func Normalize(raw map[string]any) domain.ListingFields {
	return domain.ListingFields{
		Title:       textValue(raw[FieldTitle]),
		Description: textValue(raw[FieldDescription]),
		Image:       textValue(raw[FieldImage]),
		Price:       priceValue(raw[FieldPrice]),
		Location:    textValue(raw[FieldLocation]),
		Country:     textValue(raw[FieldCountry]),
	}
}

// ApplyDefaults fills in values the form may leave empty
func ApplyDefaults(f domain.ListingFields, placeholder string) domain.ListingFields {
	if f.Image == "" {
		f.Image = placeholder
	}
	return f
}

// Result describes why a normalized listing is not acceptable
type Result struct {
	Missing      []string
	InvalidPrice bool
}

// Valid reports whether the listing can be persisted
func (r Result) Valid() bool {
	return len(r.Missing) == 0 && !r.InvalidPrice
}

// Validate checks required fields and the price range.
// A zero or unparseable price is reported both as missing and as invalid.
func Validate(f domain.ListingFields) Result {
	var res Result
	for _, name := range requiredFields {
		if isBlank(f, name) {
			res.Missing = append(res.Missing, name)
		}
	}
	if math.IsNaN(f.Price) || math.IsInf(f.Price, 0) || f.Price <= 0 {
		res.InvalidPrice = true
	}
	return res
}

func isBlank(f domain.ListingFields, name string) bool {
	switch name {
	case FieldTitle:
		return f.Title == ""
	case FieldDescription:
		return f.Description == ""
	case FieldPrice:
		return f.Price == 0 || math.IsNaN(f.Price)
	case FieldLocation:
		return f.Location == ""
	case FieldCountry:
		return f.Country == ""
	}
	return false
}

// ValidationError is returned when listing input fails Validate
type ValidationError struct {
	Result Result
}

func (e *ValidationError) Error() string {
	var parts []string
	if len(e.Result.Missing) > 0 {
		parts = append(parts, "missing "+strings.Join(e.Result.Missing, ", "))
	}
	if e.Result.InvalidPrice {
		parts = append(parts, "price must be a number greater than 0")
	}
	return "invalid listing: " + strings.Join(parts, "; ")
}

func textValue(v any) string {
	switch t := v.(type) {
	case nil:
		return ""
	case string:
		return strings.TrimSpace(t)
	case []string:
		if len(t) == 0 {
			return ""
		}
		return strings.TrimSpace(t[0])
	case json.Number, float64, float32, int, int64, bool:
		return strings.TrimSpace(fmt.Sprint(t))
	default:
		// objects and arrays are not text
		return ""
	}
}

func priceValue(v any) float64 {
	switch t := v.(type) {
	case nil:
		return 0
	case float64:
		return t
	case float32:
		return float64(t)
	case int:
		return float64(t)
	case int64:
		return float64(t)
	case json.Number:
		return parsePrice(string(t))
	case string:
		return parsePrice(t)
	case []string:
		if len(t) == 0 {
			return 0
		}
		return parsePrice(t[0])
	default:
		return math.NaN()
	}
}

func parsePrice(s string) float64 {
	s = strings.TrimSpace(s)
	if s == "" {
		return 0
	}
	p, err := strconv.ParseFloat(s, 64)
	if err != nil {
		return math.NaN()
	}
	return p
}
