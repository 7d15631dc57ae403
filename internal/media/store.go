// Package media provides the blob store boundary for recipe images.
// The catalog only holds a reference; bytes live on the local filesystem.
package media

import (
	"bytes"
	"errors"
	"fmt"
	"image"
	_ "image/jpeg" // register JPEG decoder
	_ "image/png"  // register PNG decoder
	"os"
	"path/filepath"

	"github.com/oklog/ulid/v2"
)

// ErrNotAnImage indicates the payload is not a decodable JPEG or PNG.
var ErrNotAnImage = errors.New("payload is not a decodable image")

// Store writes and removes image blobs under a base directory.
type Store struct {
	dir string
}

// NewStore creates a Store rooted at dir, creating it if needed.
func NewStore(dir string) (*Store, error) {
	if err := os.MkdirAll(filepath.Join(dir, "recipes"), 0o755); err != nil {
		return nil, fmt.Errorf("create media dir: %w", err)
	}
	return &Store{dir: dir}, nil
}

// DetectFormat validates that data decodes as a supported image and
// returns the file extension for it.
func DetectFormat(data []byte) (string, error) {
	_, format, err := image.DecodeConfig(bytes.NewReader(data))
	if err != nil {
		return "", ErrNotAnImage
	}

	switch format {
	case "jpeg":
		return "jpg", nil
	case "png":
		return "png", nil
	default:
		return "", ErrNotAnImage
	}
}

// SaveRecipeImage stores an image blob for a recipe and returns the
// path relative to the store root. Each upload gets a fresh name so a
// stale reference never points at newer bytes.
func (s *Store) SaveRecipeImage(recipeID string, ext string, data []byte) (string, error) {
	name := fmt.Sprintf("%s-%s.%s", recipeID, ulid.Make().String(), ext)
	relPath := filepath.Join("recipes", name)

	if err := os.WriteFile(filepath.Join(s.dir, relPath), data, 0o644); err != nil {
		return "", fmt.Errorf("write image: %w", err)
	}

	return relPath, nil
}

// Remove deletes a previously stored blob. Missing files are not an error.
func (s *Store) Remove(relPath string) error {
	err := os.Remove(filepath.Join(s.dir, relPath))
	if err != nil && !os.IsNotExist(err) {
		return fmt.Errorf("remove image: %w", err)
	}
	return nil
}

// Dir returns the store's base directory (used to mount a file server).
func (s *Store) Dir() string {
	return s.dir
}
