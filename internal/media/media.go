// Package media sanitizes upload filenames and normalizes uploaded images
// before they are written to object storage.
package media

import (
	"bytes"
	"errors"
	"fmt"
	"io"
	"path"
	"regexp"
	"strings"

	"github.com/disintegration/imaging"
	"github.com/phrazzld/projpool-api/internal/domain"
)

// ContentTypeJPEG is the content type of every normalized image.
const ContentTypeJPEG = "image/jpeg"

// ErrInvalidImage is returned when upload bytes cannot be decoded as an image.
var ErrInvalidImage = errors.New("uploaded file is not a valid image")

var (
	unsafeChars   = regexp.MustCompile(`[^A-Za-z0-9._-]+`)
	repeatedSep   = regexp.MustCompile(`[_]{2,}`)
	leadingTrails = "._-"
)

// SecureFilename reduces an untrusted filename to a safe base name made of
// ASCII letters, digits, dots, underscores and hyphens. Whitespace becomes an
// underscore. The result may be empty when nothing safe survives.
func SecureFilename(name string) string {
	name = strings.ReplaceAll(name, "\\", "/")
	name = path.Base(name)
	if name == "." || name == "/" {
		return ""
	}

	name = strings.Join(strings.Fields(name), "_")
	name = unsafeChars.ReplaceAllString(name, "")
	name = repeatedSep.ReplaceAllString(name, "_")
	name = strings.Trim(name, leadingTrails)

	if len(name) > domain.MaxImageFilenameLength {
		ext := path.Ext(name)
		if len(ext) >= domain.MaxImageFilenameLength {
			return name[:domain.MaxImageFilenameLength]
		}
		name = name[:domain.MaxImageFilenameLength-len(ext)] + ext
	}
	return name
}

// Extension returns the lower-cased extension of name without the dot.
func Extension(name string) string {
	return strings.ToLower(strings.TrimPrefix(path.Ext(name), "."))
}

// IsAllowed reports whether name has an accepted image extension.
func IsAllowed(name string) bool {
	ext := Extension(name)
	for _, allowed := range domain.AllowedImageExtensions {
		if ext == allowed {
			return true
		}
	}
	return false
}

// Options controls image normalization.
type Options struct {
	// MaxDimension bounds the longer side in pixels.
	MaxDimension int
	// Quality is the JPEG quality, 1-100.
	Quality int
}

// Processed is a normalized image ready for upload.
type Processed struct {
	Data        []byte
	Width       int
	Height      int
	ContentType string
}

// Normalize decodes r, applies EXIF orientation, downscales so that neither
// side exceeds opts.MaxDimension and re-encodes as JPEG.
func Normalize(r io.Reader, opts Options) (*Processed, error) {
	img, err := imaging.Decode(r, imaging.AutoOrientation(true))
	if err != nil {
		return nil, fmt.Errorf("%w: %v", ErrInvalidImage, err)
	}

	bounds := img.Bounds()
	if opts.MaxDimension > 0 && (bounds.Dx() > opts.MaxDimension || bounds.Dy() > opts.MaxDimension) {
		img = imaging.Fit(img, opts.MaxDimension, opts.MaxDimension, imaging.Lanczos)
	}

	quality := opts.Quality
	if quality < 1 || quality > 100 {
		quality = 85
	}

	var buf bytes.Buffer
	if err := imaging.Encode(&buf, img, imaging.JPEG, imaging.JPEGQuality(quality)); err != nil {
		return nil, fmt.Errorf("failed to encode image: %w", err)
	}

	out := img.Bounds()
	return &Processed{
		Data:        buf.Bytes(),
		Width:       out.Dx(),
		Height:      out.Dy(),
		ContentType: ContentTypeJPEG,
	}, nil
}
