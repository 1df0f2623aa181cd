// Package storage keeps uploaded images (company and consortium logos,
// project covers, worker photos) on the local disk or in a Google Cloud
// Storage bucket. Stored names are random UUIDs grouped by bucket prefix.
package storage

import (
	"bytes"
	"context"
	"fmt"
	"path"
	"strings"

	"github.com/disintegration/imaging"
	e "github.com/gartstein/backoffice/internal/backoffice/errors"
	"github.com/google/uuid"
	"go.uber.org/zap"
)

// Backend is the object store behind Files.
type Backend interface {
	Write(ctx context.Context, name string, data []byte, contentType string) error
	Delete(ctx context.Context, name string) error
	Exists(ctx context.Context, name string) (bool, error)
	URL(name string) string
}

// Upload is one file received from a form. Field names the form field for
// error reporting.
type Upload struct {
	Field    string
	Filename string
	Data     []byte
}

var contentTypes = map[string]string{
	"jpg":  "image/jpeg",
	"jpeg": "image/jpeg",
	"png":  "image/png",
}

type Options struct {
	MaxBytes int64
	MaxWidth int
}

// Files validates uploads and stores them on a Backend.
type Files struct {
	backend Backend
	opts    Options
	logger  *zap.Logger
}

func NewFiles(backend Backend, opts Options, logger *zap.Logger) *Files {
	return &Files{
		backend: backend,
		opts:    opts,
		logger:  logger.Named("file_storage"),
	}
}

func extension(filename string) string {
	return strings.ToLower(strings.TrimPrefix(path.Ext(filename), "."))
}

// Validate checks the extension, the size and that the content decodes as an
// image.
func (f *Files) Validate(up *Upload) error {
	ext := extension(up.Filename)
	if _, ok := contentTypes[ext]; !ok {
		return e.NewValidationError(up.Field, "must be a file of type: jpg, jpeg, png")
	}
	if f.opts.MaxBytes > 0 && int64(len(up.Data)) > f.opts.MaxBytes {
		return e.NewValidationError(up.Field, fmt.Sprintf("may not be greater than %d kilobytes", f.opts.MaxBytes/1024))
	}
	if _, err := imaging.Decode(bytes.NewReader(up.Data)); err != nil {
		return e.NewValidationError(up.Field, "must be an image")
	}
	return nil
}

// Save validates up and stores it under bucket with a fresh random name,
// returning the stored relative path. Images wider than MaxWidth are scaled
// down keeping the aspect ratio.
func (f *Files) Save(ctx context.Context, bucket string, up *Upload) (string, error) {
	if err := f.Validate(up); err != nil {
		return "", err
	}
	ext := extension(up.Filename)
	data, err := f.fit(up.Data, ext)
	if err != nil {
		return "", fmt.Errorf("failed to process image: %w", err)
	}

	name := path.Join(bucket, uuid.NewString()+"."+ext)
	if err := f.backend.Write(ctx, name, data, contentTypes[ext]); err != nil {
		return "", fmt.Errorf("failed to store file: %w", err)
	}
	f.logger.Debug("file stored", zap.String("path", name), zap.Int("bytes", len(data)))
	return name, nil
}

func (f *Files) fit(data []byte, ext string) ([]byte, error) {
	if f.opts.MaxWidth <= 0 {
		return data, nil
	}
	img, err := imaging.Decode(bytes.NewReader(data), imaging.AutoOrientation(true))
	if err != nil {
		return nil, err
	}
	if img.Bounds().Dx() <= f.opts.MaxWidth {
		return data, nil
	}
	format, err := imaging.FormatFromExtension(ext)
	if err != nil {
		return nil, err
	}
	var buf bytes.Buffer
	resized := imaging.Resize(img, f.opts.MaxWidth, 0, imaging.Lanczos)
	if err := imaging.Encode(&buf, resized, format); err != nil {
		return nil, err
	}
	return buf.Bytes(), nil
}

// Remove deletes a stored file when it exists. Failures are logged and never
// returned: a leftover file must not fail the operation that replaced it.
func (f *Files) Remove(ctx context.Context, name *string) {
	if name == nil || *name == "" {
		return
	}
	exists, err := f.backend.Exists(ctx, *name)
	if err != nil {
		f.logger.Warn("failed to check file", zap.String("path", *name), zap.Error(err))
		return
	}
	if !exists {
		return
	}
	if err := f.backend.Delete(ctx, *name); err != nil {
		f.logger.Warn("failed to delete file", zap.String("path", *name), zap.Error(err))
	}
}

// URL resolves a stored path to its public URL, or fallback when unset.
func (f *Files) URL(name *string, fallback string) string {
	if name == nil || *name == "" {
		return fallback
	}
	return f.backend.URL(*name)
}

// Exists reports whether a stored file is present.
func (f *Files) Exists(ctx context.Context, name string) (bool, error) {
	return f.backend.Exists(ctx, name)
}
