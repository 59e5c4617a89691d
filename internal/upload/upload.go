// Copyright (c) 2025 yadem01
// Survey Tool - research survey backend
// This source code is licensed under the MIT license found in the LICENSE file.

// Package upload stores survey images on disk. Files are renamed to a
// random UUID on save; the original name only survives in the database
// metadata row.
package upload

import (
	"errors"
	"fmt"
	"io"
	"mime/multipart"
	"os"
	"path/filepath"
	"strings"

	"github.com/google/uuid"
)

// ErrUnsupportedType is returned for uploads that are not an allowed
// image format.
var ErrUnsupportedType = errors.New("unsupported file type")

// ErrTooLarge is returned when an upload exceeds the configured size
// limit.
var ErrTooLarge = errors.New("file too large")

// allowedExtensions maps permitted file extensions to the MIME type
// recorded for them.
var allowedExtensions = map[string]string{
	".png":  "image/png",
	".jpg":  "image/jpeg",
	".jpeg": "image/jpeg",
	".gif":  "image/gif",
	".webp": "image/webp",
}

// DiskStore writes uploads below a single directory.
type DiskStore struct {
	dir      string
	maxBytes int64
}

// New creates the upload directory if needed and returns a store for it.
func New(dir string, maxBytes int64) (*DiskStore, error) {
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return nil, fmt.Errorf("create upload directory %s: %w", dir, err)
	}
	return &DiskStore{dir: dir, maxBytes: maxBytes}, nil
}

// Dir returns the upload directory.
func (s *DiskStore) Dir() string { return s.dir }

// SavedFile describes a stored upload.
type SavedFile struct {
	Filename     string
	OriginalName string
	Size         int64
	MimeType     string
}

// Save validates and stores a multipart upload, returning the generated
// filename and metadata. The extension of the original name is kept so
// static file serving picks the right content type.
func (s *DiskStore) Save(fh *multipart.FileHeader) (*SavedFile, error) {
	ext := strings.ToLower(filepath.Ext(fh.Filename))
	mimeType, ok := allowedExtensions[ext]
	if !ok {
		return nil, fmt.Errorf("%w: %s", ErrUnsupportedType, ext)
	}
	if s.maxBytes > 0 && fh.Size > s.maxBytes {
		return nil, fmt.Errorf("%w: %d bytes", ErrTooLarge, fh.Size)
	}

	src, err := fh.Open()
	if err != nil {
		return nil, fmt.Errorf("open upload: %w", err)
	}
	defer src.Close()

	name := uuid.NewString() + ext
	dstPath := filepath.Join(s.dir, name)
	dst, err := os.OpenFile(dstPath, os.O_WRONLY|os.O_CREATE|os.O_EXCL, 0o644)
	if err != nil {
		return nil, fmt.Errorf("create upload file: %w", err)
	}

	written, err := io.Copy(dst, src)
	if cerr := dst.Close(); err == nil {
		err = cerr
	}
	if err != nil {
		_ = os.Remove(dstPath)
		return nil, fmt.Errorf("write upload file: %w", err)
	}

	return &SavedFile{
		Filename:     name,
		OriginalName: fh.Filename,
		Size:         written,
		MimeType:     mimeType,
	}, nil
}

// Path resolves a stored filename to its on-disk path. Names containing
// path separators or traversal segments are rejected.
func (s *DiskStore) Path(filename string) (string, error) {
	if filename == "" || filename != filepath.Base(filename) || strings.Contains(filename, "..") {
		return "", fmt.Errorf("invalid filename %q", filename)
	}
	return filepath.Join(s.dir, filename), nil
}

// Remove deletes a stored file. A missing file is not an error so that
// metadata cleanup stays idempotent.
func (s *DiskStore) Remove(filename string) error {
	path, err := s.Path(filename)
	if err != nil {
		return err
	}
	if err := os.Remove(path); err != nil && !os.IsNotExist(err) {
		return err
	}
	return nil
}
