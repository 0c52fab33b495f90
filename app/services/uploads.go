package services

import (
	"fmt"
	"io"
	"os"
	"path"
	"path/filepath"
	"strings"
)

var allowedImageExtensions = map[string]bool{
	".jpg":  true,
	".jpeg": true,
	".png":  true,
	".webp": true,
}

// Upload is a file received from a multipart form.
type Upload struct {
	Filename string
	Content  io.Reader
}

// ImageStore writes uploaded images into a directory served under urlPrefix.
type ImageStore struct {
	dir       string
	urlPrefix string
}

func NewImageStore(dir, urlPrefix string) *ImageStore {
	return &ImageStore{dir: dir, urlPrefix: urlPrefix}
}

// SanitizeFilename reduces name to a safe base name. It returns "" when
// nothing usable is left.
func SanitizeFilename(name string) string {
	name = filepath.Base(strings.ReplaceAll(name, "\\", "/"))
	var b strings.Builder
	for _, r := range name {
		switch {
		case r >= 'a' && r <= 'z', r >= 'A' && r <= 'Z', r >= '0' && r <= '9':
			b.WriteRune(r)
		case r == '.', r == '-', r == '_':
			b.WriteRune(r)
		case r == ' ':
			b.WriteRune('_')
		}
	}
	return strings.TrimLeft(b.String(), "._-")
}

// Check reports whether filename is acceptable without writing anything.
func (s *ImageStore) Check(filename string) (string, error) {
	name := SanitizeFilename(filename)
	if name == "" || !allowedImageExtensions[strings.ToLower(filepath.Ext(name))] {
		return "", ErrUnsupportedImage
	}
	return name, nil
}

// URL returns the public URL filename will have once saved.
func (s *ImageStore) URL(filename string) (string, error) {
	name, err := s.Check(filename)
	if err != nil {
		return "", err
	}
	return path.Join(s.urlPrefix, name), nil
}

// Save writes the upload and returns its public URL. A file with the same
// name is overwritten.
func (s *ImageStore) Save(upload *Upload) (string, error) {
	name, err := s.Check(upload.Filename)
	if err != nil {
		return "", err
	}
	if err := os.MkdirAll(s.dir, 0755); err != nil {
		return "", fmt.Errorf("failed to create upload directory: %w", err)
	}

	f, err := os.Create(filepath.Join(s.dir, name))
	if err != nil {
		return "", fmt.Errorf("failed to create %s: %w", name, err)
	}
	defer f.Close()

	if _, err := io.Copy(f, upload.Content); err != nil {
		return "", fmt.Errorf("failed to write %s: %w", name, err)
	}
	return path.Join(s.urlPrefix, name), nil
}
