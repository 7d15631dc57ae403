package media

import (
	"bytes"
	"errors"
	"image"
	"image/jpeg"
	"image/png"
	"os"
	"path/filepath"
	"strings"
	"testing"
)

func pngBytes(t *testing.T) []byte {
	t.Helper()
	var buf bytes.Buffer
	img := image.NewRGBA(image.Rect(0, 0, 2, 2))
	if err := png.Encode(&buf, img); err != nil {
		t.Fatalf("encode png: %v", err)
	}
	return buf.Bytes()
}

func jpegBytes(t *testing.T) []byte {
	t.Helper()
	var buf bytes.Buffer
	img := image.NewRGBA(image.Rect(0, 0, 2, 2))
	if err := jpeg.Encode(&buf, img, nil); err != nil {
		t.Fatalf("encode jpeg: %v", err)
	}
	return buf.Bytes()
}

func TestDetectFormat_PNG(t *testing.T) {
	t.Parallel()

	ext, err := DetectFormat(pngBytes(t))
	if err != nil {
		t.Fatalf("DetectFormat failed: %v", err)
	}
	if ext != "png" {
		t.Errorf("expected png, got %s", ext)
	}
}

func TestDetectFormat_JPEG(t *testing.T) {
	t.Parallel()

	ext, err := DetectFormat(jpegBytes(t))
	if err != nil {
		t.Fatalf("DetectFormat failed: %v", err)
	}
	if ext != "jpg" {
		t.Errorf("expected jpg, got %s", ext)
	}
}

func TestDetectFormat_NotAnImage(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name string
		data []byte
	}{
		{"empty", nil},
		{"text", []byte("definitely not an image")},
		{"json", []byte(`{"title":"Soup"}`)},
		{"truncated png header", []byte{0x89, 0x50, 0x4e}},
	}

	for _, tt := range tests {
		tt := tt
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()
			if _, err := DetectFormat(tt.data); !errors.Is(err, ErrNotAnImage) {
				t.Errorf("expected ErrNotAnImage, got %v", err)
			}
		})
	}
}

func TestStore_SaveAndRemove(t *testing.T) {
	t.Parallel()

	store, err := NewStore(t.TempDir())
	if err != nil {
		t.Fatalf("NewStore failed: %v", err)
	}

	data := pngBytes(t)
	relPath, err := store.SaveRecipeImage("recipe-1", "png", data)
	if err != nil {
		t.Fatalf("SaveRecipeImage failed: %v", err)
	}

	if !strings.HasPrefix(relPath, "recipes"+string(filepath.Separator)) {
		t.Errorf("expected path under recipes/, got %s", relPath)
	}
	if !strings.HasPrefix(filepath.Base(relPath), "recipe-1-") {
		t.Errorf("expected file name prefixed with recipe id, got %s", relPath)
	}
	if !strings.HasSuffix(relPath, ".png") {
		t.Errorf("expected .png extension, got %s", relPath)
	}

	stored, err := os.ReadFile(filepath.Join(store.Dir(), relPath))
	if err != nil {
		t.Fatalf("read stored image: %v", err)
	}
	if !bytes.Equal(stored, data) {
		t.Error("stored bytes should match the uploaded payload")
	}

	if err := store.Remove(relPath); err != nil {
		t.Fatalf("Remove failed: %v", err)
	}
	if _, err := os.Stat(filepath.Join(store.Dir(), relPath)); !os.IsNotExist(err) {
		t.Error("blob should be gone after Remove")
	}
}

func TestStore_SaveGeneratesFreshNames(t *testing.T) {
	t.Parallel()

	store, err := NewStore(t.TempDir())
	if err != nil {
		t.Fatalf("NewStore failed: %v", err)
	}

	data := pngBytes(t)
	first, err := store.SaveRecipeImage("recipe-1", "png", data)
	if err != nil {
		t.Fatalf("SaveRecipeImage failed: %v", err)
	}
	second, err := store.SaveRecipeImage("recipe-1", "png", data)
	if err != nil {
		t.Fatalf("SaveRecipeImage failed: %v", err)
	}

	if first == second {
		t.Error("repeat uploads for the same recipe should get distinct file names")
	}
}

func TestStore_RemoveMissingFile(t *testing.T) {
	t.Parallel()

	store, err := NewStore(t.TempDir())
	if err != nil {
		t.Fatalf("NewStore failed: %v", err)
	}

	if err := store.Remove("recipes/never-existed.png"); err != nil {
		t.Errorf("removing a missing blob should not error, got %v", err)
	}
}
