// Package mediaprep prepares local images for Instagram publishing.
//
// Instagram accepts 1:1, 4:5, and 1.91:1 aspect ratios. Everything here is
// normalized to 1:1 at 1080x1080 for maximum compatibility: center-crop to
// the largest square, then resize with Lanczos resampling.
package mediaprep

import (
	"fmt"
	"image"
	"path/filepath"
	"strings"

	"github.com/disintegration/imaging"
	"github.com/rs/zerolog/log"
)

// TargetSize is Instagram's recommended square post resolution.
const TargetSize = 1080

// derivedSuffix tags the normalized copy so it is distinguishable from the
// original and safe to delete after publishing.
const derivedSuffix = "_instagram"

// SquareCropBox returns the centered square crop box for a w x h image.
// The square side is min(w, h); for an already-square image the box covers
// the full frame.
func SquareCropBox(w, h int) image.Rectangle {
	m := w
	if h < m {
		m = h
	}
	left := (w - m) / 2
	top := (h - m) / 2
	return image.Rect(left, top, left+m, top+m)
}

// DerivedPath returns the path the normalized copy of path is written to.
func DerivedPath(path string) string {
	ext := filepath.Ext(path)
	return strings.TrimSuffix(path, ext) + derivedSuffix + ext
}

// Normalize center-crops the image at path to a square and resizes it to
// TargetSize x TargetSize, writing the result next to the original with the
// derived suffix. It returns the derived path.
//
// The original file is never modified or removed, and the normalizer does
// not delete the derived file either: the publish workflow owns cleanup.
// Callers treat a Normalize error as non-fatal and post the original as-is.
func Normalize(path string) (string, error) {
	img, err := imaging.Open(path)
	if err != nil {
		return "", fmt.Errorf("open image: %w", err)
	}

	bounds := img.Bounds()
	box := SquareCropBox(bounds.Dx(), bounds.Dy())
	cropped := imaging.Crop(img, box)
	resized := imaging.Resize(cropped, TargetSize, TargetSize, imaging.Lanczos)

	out := DerivedPath(path)
	if err := imaging.Save(resized, out, imaging.JPEGQuality(95)); err != nil {
		return "", fmt.Errorf("save normalized image: %w", err)
	}

	log.Debug().
		Str("source", path).
		Str("derived", out).
		Int("origWidth", bounds.Dx()).
		Int("origHeight", bounds.Dy()).
		Int("size", TargetSize).
		Msg("Image normalized to square")

	return out, nil
}
