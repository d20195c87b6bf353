// Package media stores product images under the public uploads directory.
package media

import (
	"errors"
	"io"
	"mime/multipart"
	"os"
	"path/filepath"
	"strings"

	"github.com/google/uuid"
)

const (
	MaxFileSize  = 5 << 20 // per file
	MaxFileCount = 10
)

var ErrBadImage = errors.New("only JPEG and PNG images are allowed")
var ErrTooLarge = errors.New("image exceeds the 5 MB limit")

type Store struct {
	PublicDir string
}

func New(publicDir string) (*Store, error) {
	if err := os.MkdirAll(filepath.Join(publicDir, "uploads"), 0o755); err != nil {
		return nil, err
	}
	return &Store{PublicDir: publicDir}, nil
}

func allowedExt(name string) (string, bool) {
	ext := strings.ToLower(filepath.Ext(name))
	switch ext {
	case ".jpg", ".jpeg", ".png":
		return ext, true
	}
	return "", false
}

// Save writes one uploaded image under a unique name and returns its public
// path ("/uploads/<file>").
func (s *Store) Save(fh *multipart.FileHeader) (string, error) {
	ext, ok := allowedExt(fh.Filename)
	if !ok {
		return "", ErrBadImage
	}
	if fh.Size > MaxFileSize {
		return "", ErrTooLarge
	}
	src, err := fh.Open()
	if err != nil {
		return "", err
	}
	defer src.Close()

	name := "images-" + uuid.NewString() + ext
	dst, err := os.Create(filepath.Join(s.PublicDir, "uploads", name))
	if err != nil {
		return "", err
	}
	defer dst.Close()
	if _, err := io.Copy(dst, src); err != nil {
		return "", err
	}
	return "/uploads/" + name, nil
}

// Remove deletes the file behind a stored public path. Paths that escape the
// public dir are refused.
func (s *Store) Remove(publicPath string) error {
	clean := filepath.Clean(strings.TrimPrefix(publicPath, "/"))
	if clean == "." || strings.Contains(clean, "..") || filepath.IsAbs(clean) {
		return errors.New("refusing suspicious image path: " + publicPath)
	}
	return os.Remove(filepath.Join(s.PublicDir, clean))
}
