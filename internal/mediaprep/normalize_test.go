package mediaprep

import (
	"image"
	"image/color"
	"image/png"
	"os"
	"path/filepath"
	"testing"
)

func TestSquareCropBox(t *testing.T) {
	tests := []struct {
		w, h     int
		expected image.Rectangle
	}{
		{200, 100, image.Rect(50, 0, 150, 100)},  // landscape: crop left/right
		{100, 200, image.Rect(0, 50, 100, 150)},  // portrait: crop top/bottom
		{100, 100, image.Rect(0, 0, 100, 100)},   // square: full frame
		{201, 100, image.Rect(50, 0, 150, 100)},  // odd width: integer division
		{1080, 1080, image.Rect(0, 0, 1080, 1080)},
	}
	for _, tt := range tests {
		got := SquareCropBox(tt.w, tt.h)
		if got != tt.expected {
			t.Errorf("SquareCropBox(%d, %d) = %v, want %v", tt.w, tt.h, got, tt.expected)
		}
	}
}

func TestDerivedPath(t *testing.T) {
	tests := []struct {
		input    string
		expected string
	}{
		{"photo.jpg", "photo_instagram.jpg"},
		{"/tmp/art/vase.png", "/tmp/art/vase_instagram.png"},
		{"no-extension", "no-extension_instagram"},
		{"archive.tar.gz", "archive.tar_instagram.gz"},
	}
	for _, tt := range tests {
		if got := DerivedPath(tt.input); got != tt.expected {
			t.Errorf("DerivedPath(%q) = %q, want %q", tt.input, got, tt.expected)
		}
	}
}

// writeTestPNG writes a w x h PNG to dir and returns its path.
func writeTestPNG(t *testing.T, dir string, w, h int) string {
	t.Helper()

	img := image.NewRGBA(image.Rect(0, 0, w, h))
	for y := 0; y < h; y++ {
		for x := 0; x < w; x++ {
			img.Set(x, y, color.RGBA{R: uint8(x % 256), G: uint8(y % 256), B: 128, A: 255})
		}
	}

	path := filepath.Join(dir, "source.png")
	f, err := os.Create(path)
	if err != nil {
		t.Fatalf("create test image: %v", err)
	}
	defer f.Close()
	if err := png.Encode(f, img); err != nil {
		t.Fatalf("encode test image: %v", err)
	}
	return path
}

func TestNormalizeLandscape(t *testing.T) {
	src := writeTestPNG(t, t.TempDir(), 300, 200)

	derived, err := Normalize(src)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if derived != DerivedPath(src) {
		t.Errorf("derived path %q, want %q", derived, DerivedPath(src))
	}

	f, err := os.Open(derived)
	if err != nil {
		t.Fatalf("open derived image: %v", err)
	}
	defer f.Close()

	out, err := png.Decode(f)
	if err != nil {
		t.Fatalf("decode derived image: %v", err)
	}
	if out.Bounds().Dx() != TargetSize || out.Bounds().Dy() != TargetSize {
		t.Errorf("derived dimensions %dx%d, want %dx%d",
			out.Bounds().Dx(), out.Bounds().Dy(), TargetSize, TargetSize)
	}

	// Original untouched.
	if _, err := os.Stat(src); err != nil {
		t.Errorf("original file missing after normalize: %v", err)
	}
}

func TestNormalizeAlreadySquare(t *testing.T) {
	src := writeTestPNG(t, t.TempDir(), 64, 64)

	derived, err := Normalize(src)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	f, err := os.Open(derived)
	if err != nil {
		t.Fatalf("open derived image: %v", err)
	}
	defer f.Close()

	out, err := png.Decode(f)
	if err != nil {
		t.Fatalf("decode derived image: %v", err)
	}
	// Square input still gets resized to the target resolution.
	if out.Bounds().Dx() != TargetSize || out.Bounds().Dy() != TargetSize {
		t.Errorf("derived dimensions %dx%d, want %dx%d",
			out.Bounds().Dx(), out.Bounds().Dy(), TargetSize, TargetSize)
	}
}

func TestNormalizeCorruptFile(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "corrupt.jpg")
	if err := os.WriteFile(path, []byte("not an image"), 0o644); err != nil {
		t.Fatalf("write corrupt file: %v", err)
	}

	if _, err := Normalize(path); err == nil {
		t.Fatal("expected error for corrupt image")
	}
}

func TestNormalizeMissingFile(t *testing.T) {
	if _, err := Normalize(filepath.Join(t.TempDir(), "nope.png")); err == nil {
		t.Fatal("expected error for missing file")
	}
}
