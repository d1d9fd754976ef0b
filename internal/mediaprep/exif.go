package mediaprep

import (
	"os"
	"strings"

	"github.com/evanoberholster/imagemeta"
	"github.com/rs/zerolog/log"
)

// LogImageContext extracts EXIF metadata from the image at path and logs the
// capture context at debug level. Extraction is best-effort: many exported
// or generated images carry no EXIF block at all, so every failure is logged
// and swallowed.
func LogImageContext(path string) {
	f, err := os.Open(path)
	if err != nil {
		log.Debug().Err(err).Str("path", path).Msg("Cannot open image for EXIF extraction")
		return
	}
	defer f.Close()

	exifData, err := imagemeta.Decode(f)
	if err != nil {
		log.Debug().Err(err).Str("path", path).Msg("No EXIF metadata available")
		return
	}

	evt := log.Debug().Str("path", path)
	if !exifData.DateTimeOriginal().IsZero() {
		evt = evt.Time("taken", exifData.DateTimeOriginal())
	}
	if mk := strings.TrimSpace(exifData.Make); mk != "" {
		evt = evt.Str("cameraMake", mk)
	}
	if model := strings.TrimSpace(exifData.Model); model != "" {
		evt = evt.Str("cameraModel", model)
	}
	evt.Msg("Image capture context")
}
