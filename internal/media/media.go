// Package media stores uploaded listing photos in S3-compatible object storage.
package media

import (
	"context"
	"errors"
	"io"
	"path/filepath"
	"strings"
)

// MaxUploadSize is the largest photo accepted (5 MB)
const MaxUploadSize = 5 * 1024 * 1024

var (
	ErrTooLarge        = errors.New("photo exceeds 5 MB")
	ErrUnsupportedType = errors.New("photo must be a JPEG, PNG, GIF or WebP image")
)

var allowedTypes = map[string]string{
	"image/jpeg": ".jpg",
	"image/png":  ".png",
	"image/gif":  ".gif",
	"image/webp": ".webp",
}

// File is an uploaded photo
type File struct {
	Name        string
	ContentType string
	Size        int64
	Body        io.Reader
}

// Check rejects files that are too large or not an accepted image type
func (f *File) Check() error {
	if f.Size > MaxUploadSize {
		return ErrTooLarge
	}
	if _, ok := allowedTypes[f.ContentType]; !ok {
		return ErrUnsupportedType
	}
	return nil
}

// Extension picks the object extension, preferring the uploaded file name
func (f *File) Extension() string {
	ext := strings.ToLower(filepath.Ext(f.Name))
	switch ext {
	case ".jpg", ".jpeg", ".png", ".gif", ".webp":
		return ext
	}
	return allowedTypes[f.ContentType]
}

// Store persists a photo and returns its public URL
type Store interface {
	Put(ctx context.Context, f *File) (string, error)
}
