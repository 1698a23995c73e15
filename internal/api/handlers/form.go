package handlers

import (
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"mime"
	"mime/multipart"
	"net/http"

	"github.com/jayramgit94/AirBnb-DB-project/internal/media"
)

// maxFormSize bounds every listing submission; the photo limit itself is
// enforced by media.File.Check.
const maxFormSize = media.MaxUploadSize + 1<<20

var errMalformedBody = errors.New("malformed request body")

// listingInput is a listing submission as received
type listingInput struct {
	raw   map[string]any
	photo *media.File
	close func()
}

// parseListingInput accepts urlencoded forms, multipart forms with an
// optional "photo" file, and JSON objects.
func parseListingInput(w http.ResponseWriter, r *http.Request) (*listingInput, error) {
	r.Body = http.MaxBytesReader(w, r.Body, maxFormSize)
	in := &listingInput{raw: map[string]any{}, close: func() {}}

	mediaType, _, _ := mime.ParseMediaType(r.Header.Get("Content-Type"))
	switch mediaType {
	case "application/json":
		dec := json.NewDecoder(r.Body)
		dec.UseNumber()
		if err := dec.Decode(&in.raw); err != nil {
			return nil, fmt.Errorf("%w: %v", errMalformedBody, err)
		}
		return in, nil

	case "multipart/form-data":
		if err := r.ParseMultipartForm(maxFormSize); err != nil {
			return nil, tooLargeOr(err)
		}
		copyValues(in.raw, r.MultipartForm.Value)

		file, header, err := r.FormFile("photo")
		if errors.Is(err, http.ErrMissingFile) {
			return in, nil
		}
		if err != nil {
			return nil, fmt.Errorf("%w: %v", errMalformedBody, err)
		}
		photo, err := photoFrom(file, header)
		if err != nil {
			file.Close()
			return nil, err
		}
		in.photo = photo
		in.close = func() { file.Close() }
		return in, nil

	default:
		if err := r.ParseForm(); err != nil {
			return nil, tooLargeOr(err)
		}
		copyValues(in.raw, r.PostForm)
		return in, nil
	}
}

func copyValues(dst map[string]any, src map[string][]string) {
	for k, v := range src {
		dst[k] = v
	}
}

// photoFrom sniffs the content type instead of trusting the client
func photoFrom(file multipart.File, header *multipart.FileHeader) (*media.File, error) {
	head := make([]byte, 512)
	n, err := io.ReadFull(file, head)
	if err != nil && !errors.Is(err, io.ErrUnexpectedEOF) && !errors.Is(err, io.EOF) {
		return nil, fmt.Errorf("read photo: %w", err)
	}
	if _, err := file.Seek(0, io.SeekStart); err != nil {
		return nil, fmt.Errorf("rewind photo: %w", err)
	}

	return &media.File{
		Name:        header.Filename,
		ContentType: http.DetectContentType(head[:n]),
		Size:        header.Size,
		Body:        file,
	}, nil
}

func tooLargeOr(err error) error {
	var maxErr *http.MaxBytesError
	if errors.As(err, &maxErr) {
		return media.ErrTooLarge
	}
	return fmt.Errorf("%w: %v", errMalformedBody, err)
}
