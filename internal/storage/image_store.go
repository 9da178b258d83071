// Package storage persists uploaded product images under a public-servable
// directory, the way the original app stored them on the public disk.
package storage

import (
	"errors"
	"fmt"
	"io"
	"mime/multipart"
	"net/http"
	"os"
	"path/filepath"
	"strings"

	"github.com/google/uuid"
)

var (
	// ErrTooLarge means the upload exceeds the configured size ceiling.
	ErrTooLarge = errors.New("image too large")
	// ErrUnsupportedType means the payload is not a supported image format.
	ErrUnsupportedType = errors.New("unsupported image type")
)

// extensions of accepted sniffed content types
var imageExtensions = map[string]string{
	"image/jpeg": ".jpg",
	"image/png":  ".png",
	"image/gif":  ".gif",
	"image/webp": ".webp",
}

// ImageStore writes uploaded images to local disk.
type ImageStore struct {
	root         string // filesystem root, e.g. storage/public
	publicPrefix string // URL prefix, e.g. /storage
	maxSize      int64  // bytes
}

// NewImageStore creates an ImageStore rooted at the given directory.
func NewImageStore(root, publicPrefix string, maxSize int64) *ImageStore {
	return &ImageStore{
		root:         root,
		publicPrefix: publicPrefix,
		maxSize:      maxSize,
	}
}

// Root returns the filesystem root the store writes under.
func (s *ImageStore) Root() string { return s.root }

// PublicPrefix returns the URL prefix stored paths are served under.
func (s *ImageStore) PublicPrefix() string { return s.publicPrefix }

// SaveProductImage validates and stores one uploaded image, returning the
// public URL path to persist on the product. The content type is sniffed
// from the payload, not trusted from the request.
func (s *ImageStore) SaveProductImage(fh *multipart.FileHeader) (string, error) {
	if fh.Size > s.maxSize {
		return "", ErrTooLarge
	}

	src, err := fh.Open()
	if err != nil {
		return "", fmt.Errorf("failed to open upload: %w", err)
	}
	defer src.Close()

	head := make([]byte, 512)
	n, err := src.Read(head)
	if err != nil && err != io.EOF {
		return "", fmt.Errorf("failed to read upload: %w", err)
	}
	contentType := http.DetectContentType(head[:n])
	ext, ok := imageExtensions[contentType]
	if !ok {
		return "", ErrUnsupportedType
	}

	dir := filepath.Join(s.root, "products")
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return "", fmt.Errorf("failed to create image dir: %w", err)
	}

	name := uuid.New().String() + ext
	dstPath := filepath.Join(dir, name)
	dst, err := os.Create(dstPath)
	if err != nil {
		return "", fmt.Errorf("failed to create image file: %w", err)
	}
	defer dst.Close()

	if _, err := dst.Write(head[:n]); err != nil {
		return "", fmt.Errorf("failed to write image: %w", err)
	}
	if _, err := io.Copy(dst, src); err != nil {
		return "", fmt.Errorf("failed to write image: %w", err)
	}

	return s.publicPrefix + "/products/" + name, nil
}

// Remove deletes a stored image by the public URL path SaveProductImage
// returned. Paths outside the store and already-absent files are no-ops.
func (s *ImageStore) Remove(publicPath string) error {
	rel, ok := strings.CutPrefix(publicPath, s.publicPrefix+"/")
	if !ok || strings.Contains(rel, "..") {
		return nil
	}
	err := os.Remove(filepath.Join(s.root, filepath.FromSlash(rel)))
	if err != nil && !os.IsNotExist(err) {
		return fmt.Errorf("failed to remove image: %w", err)
	}
	return nil
}
