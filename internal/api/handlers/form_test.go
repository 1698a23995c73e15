package handlers

import (
	"bytes"
	"errors"
	"mime/multipart"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/jayramgit94/AirBnb-DB-project/internal/media"
)

// smallest valid PNG header, enough for content sniffing
var pngHeader = []byte("\x89PNG\r\n\x1a\n\x00\x00\x00\rIHDR\x00\x00\x00\x01\x00\x00\x00\x01\x08\x06\x00\x00\x00")

func TestParseListingInputForm(t *testing.T) {
	req := httptest.NewRequest(http.MethodPost, "/listings", strings.NewReader("title=Cabin&price=120"))
	req.Header.Set("Content-Type", "application/x-www-form-urlencoded")

	in, err := parseListingInput(httptest.NewRecorder(), req)
	if err != nil {
		t.Fatalf("parseListingInput() error = %v", err)
	}
	defer in.close()

	if v, ok := in.raw["title"].([]string); !ok || v[0] != "Cabin" {
		t.Errorf("title = %#v", in.raw["title"])
	}
	if in.photo != nil {
		t.Error("photo set for a plain form")
	}
}

func TestParseListingInputJSON(t *testing.T) {
	req := httptest.NewRequest(http.MethodPost, "/listings", strings.NewReader(`{"title":"Cabin","price":120}`))
	req.Header.Set("Content-Type", "application/json; charset=utf-8")

	in, err := parseListingInput(httptest.NewRecorder(), req)
	if err != nil {
		t.Fatalf("parseListingInput() error = %v", err)
	}
	if in.raw["title"] != "Cabin" {
		t.Errorf("title = %#v", in.raw["title"])
	}

	req = httptest.NewRequest(http.MethodPost, "/listings", strings.NewReader(`{"title":`))
	req.Header.Set("Content-Type", "application/json")
	if _, err := parseListingInput(httptest.NewRecorder(), req); !errors.Is(err, errMalformedBody) {
		t.Errorf("truncated JSON error = %v, want errMalformedBody", err)
	}
}

func TestParseListingInputMultipart(t *testing.T) {
	var body bytes.Buffer
	mw := multipart.NewWriter(&body)
	_ = mw.WriteField("title", "Cabin")
	part, err := mw.CreateFormFile("photo", "cabin.png")
	if err != nil {
		t.Fatal(err)
	}
	part.Write(pngHeader)
	mw.Close()

	req := httptest.NewRequest(http.MethodPost, "/listings", &body)
	req.Header.Set("Content-Type", mw.FormDataContentType())

	in, err := parseListingInput(httptest.NewRecorder(), req)
	if err != nil {
		t.Fatalf("parseListingInput() error = %v", err)
	}
	defer in.close()

	if in.photo == nil {
		t.Fatal("photo not parsed")
	}
	if in.photo.ContentType != "image/png" || in.photo.Name != "cabin.png" {
		t.Errorf("photo = %+v", in.photo)
	}
	if err := in.photo.Check(); err != nil {
		t.Errorf("Check() error = %v", err)
	}
}

func TestParseListingInputTooLarge(t *testing.T) {
	big := strings.Repeat("a", int(maxFormSize)+1)
	req := httptest.NewRequest(http.MethodPost, "/listings", strings.NewReader("title="+big))
	req.Header.Set("Content-Type", "application/x-www-form-urlencoded")

	if _, err := parseListingInput(httptest.NewRecorder(), req); !errors.Is(err, media.ErrTooLarge) {
		t.Errorf("error = %v, want media.ErrTooLarge", err)
	}
}
