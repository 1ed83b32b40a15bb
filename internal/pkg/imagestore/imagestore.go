// Package imagestore stores uploaded pictures on local disk.
package imagestore

import (
	"errors"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strings"

	"github.com/disintegration/imaging"
	"github.com/google/uuid"
)

const (
	GalleryWidth  = 1600
	GalleryHeight = 900

	galleryDir       = "gallery"
	galleryURLPrefix = "/img/gallery/"
)

var ErrInvalidImage = errors.New("invalid image")

type Store struct {
	root string
}

// New returns a store writing below root, which is served as /img.
func New(root string) *Store {
	return &Store{
		root: root,
	}
}

func (s *Store) Root() string {
	return s.root
}

// SaveGallery decodes the image, scales and crops it to fill 1600x900 and
// writes it as PNG under a random name. It returns the public url.
func (s *Store) SaveGallery(r io.Reader) (string, error) {
	img, err := imaging.Decode(r, imaging.AutoOrientation(true))
	if err != nil {
		return "", fmt.Errorf("%w: %v", ErrInvalidImage, err)
	}

	dir := filepath.Join(s.root, galleryDir)
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return "", fmt.Errorf("os.MkdirAll -> %w", err)
	}

	name := uuid.NewString() + ".png"
	fitted := imaging.Fill(img, GalleryWidth, GalleryHeight, imaging.Center, imaging.Lanczos)
	if err := imaging.Save(fitted, filepath.Join(dir, name)); err != nil {
		return "", fmt.Errorf("imaging.Save -> %w", err)
	}

	return galleryURLPrefix + name, nil
}

// Remove deletes the file behind a gallery url. Unknown urls and missing
// files are ignored.
func (s *Store) Remove(url string) error {
	if !strings.HasPrefix(url, galleryURLPrefix) {
		return nil
	}

	name := filepath.Base(strings.TrimPrefix(url, galleryURLPrefix))
	err := os.Remove(filepath.Join(s.root, galleryDir, name))
	if err != nil && !errors.Is(err, os.ErrNotExist) {
		return fmt.Errorf("os.Remove -> %w", err)
	}

	return nil
}
