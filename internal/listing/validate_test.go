package listing

import (
	"encoding/json"
	"math"
	"reflect"
	"testing"

	"github.com/jayramgit94/AirBnb-DB-project/internal/domain"
)

func validRaw() map[string]any {
	return map[string]any{
		"title":       "Cabin",
		"description": "Cozy",
		"price":       "120",
		"location":    "Tahoe",
		"country":     "US",
	}
}

func TestNormalize(t *testing.T) {
	raw := map[string]any{
		"title":       "  Cabin ",
		"description": "\tCozy\n",
		"image":       "  ",
		"price":       " 120.5 ",
		"location":    "Tahoe",
		"country":     []string{" US ", "ignored"},
	}

	got := Normalize(raw)
	want := domain.ListingFields{
		Title:       "Cabin",
		Description: "Cozy",
		Image:       "",
		Price:       120.5,
		Location:    "Tahoe",
		Country:     "US",
	}
	if got != want {
		t.Errorf("Normalize() = %+v, want %+v", got, want)
	}
}

func TestNormalize_AbsentFieldsAreEmpty(t *testing.T) {
	got := Normalize(map[string]any{})
	if got != (domain.ListingFields{}) {
		t.Errorf("Normalize(empty) = %+v, want zero value", got)
	}

	got = Normalize(nil)
	if got != (domain.ListingFields{}) {
		t.Errorf("Normalize(nil) = %+v, want zero value", got)
	}
}

func TestNormalize_NonScalarTextIsMissing(t *testing.T) {
	raw := validRaw()
	raw["title"] = map[string]any{"a": 1}
	raw["location"] = []any{1, 2}
	raw["country"] = json.Number("7")

	got := Normalize(raw)
	if got.Title != "" || got.Location != "" {
		t.Errorf("Normalize() title = %q, location = %q; want both empty", got.Title, got.Location)
	}
	if got.Country != "7" {
		t.Errorf("Normalize() country = %q, want 7", got.Country)
	}

	res := Validate(got)
	if !reflect.DeepEqual(res.Missing, []string{FieldTitle, FieldLocation}) {
		t.Errorf("Validate().Missing = %v, want [title location]", res.Missing)
	}
}

func TestNormalize_Price(t *testing.T) {
	tests := []struct {
		name  string
		in    any
		want  float64
		isNaN bool
	}{
		{"text", "99", 99, false},
		{"decimal text", "99.95", 99.95, false},
		{"empty text", "", 0, false},
		{"spaces", "   ", 0, false},
		{"garbage", "abc", 0, true},
		{"float", 42.0, 42, false},
		{"int", 7, 7, false},
		{"negative", "-5", -5, false},
		{"unsupported type", true, 0, true},
		{"hex text", "0x10", 0, true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := Normalize(map[string]any{"price": tt.in}).Price
			if tt.isNaN {
				if !math.IsNaN(got) {
					t.Errorf("price = %v, want NaN", got)
				}
				return
			}
			if got != tt.want {
				t.Errorf("price = %v, want %v", got, tt.want)
			}
		})
	}
}

func TestValidate(t *testing.T) {
	tests := []struct {
		name        string
		mutate      func(map[string]any)
		wantMissing []string
		wantInvalid bool
	}{
		{"valid", func(map[string]any) {}, nil, false},
		{"missing title", func(m map[string]any) { delete(m, "title") }, []string{"title"}, false},
		{"blank description", func(m map[string]any) { m["description"] = "   " }, []string{"description"}, false},
		{"missing location and country", func(m map[string]any) {
			delete(m, "location")
			delete(m, "country")
		}, []string{"location", "country"}, false},
		{"missing price", func(m map[string]any) { delete(m, "price") }, []string{"price"}, true},
		{"zero price", func(m map[string]any) { m["price"] = "0" }, []string{"price"}, true},
		{"negative price", func(m map[string]any) { m["price"] = "-10" }, nil, true},
		{"non-numeric price", func(m map[string]any) { m["price"] = "cheap" }, []string{"price"}, true},
		{"infinite price", func(m map[string]any) { m["price"] = "Inf" }, nil, true},
		{"image not required", func(m map[string]any) { delete(m, "image") }, nil, false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			raw := validRaw()
			tt.mutate(raw)

			res := Validate(Normalize(raw))
			if !reflect.DeepEqual(res.Missing, tt.wantMissing) {
				t.Errorf("Missing = %v, want %v", res.Missing, tt.wantMissing)
			}
			if res.InvalidPrice != tt.wantInvalid {
				t.Errorf("InvalidPrice = %v, want %v", res.InvalidPrice, tt.wantInvalid)
			}
			wantValid := len(tt.wantMissing) == 0 && !tt.wantInvalid
			if res.Valid() != wantValid {
				t.Errorf("Valid() = %v, want %v", res.Valid(), wantValid)
			}
		})
	}
}

func TestApplyDefaults(t *testing.T) {
	f := ApplyDefaults(domain.ListingFields{}, DefaultPlaceholderImage)
	if f.Image != DefaultPlaceholderImage {
		t.Errorf("Image = %q, want placeholder", f.Image)
	}

	f = ApplyDefaults(domain.ListingFields{Image: "https://example.com/a.jpg"}, DefaultPlaceholderImage)
	if f.Image != "https://example.com/a.jpg" {
		t.Errorf("Image = %q, want verbatim value", f.Image)
	}
}

func TestValidationError_Message(t *testing.T) {
	err := &ValidationError{Result: Result{Missing: []string{"title", "price"}, InvalidPrice: true}}
	want := "invalid listing: missing title, price; price must be a number greater than 0"
	if err.Error() != want {
		t.Errorf("Error() = %q, want %q", err.Error(), want)
	}
}
