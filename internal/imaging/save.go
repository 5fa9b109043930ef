package imaging

import (
	"fmt"
	"image"
	"io"
	"path/filepath"

	"github.com/disintegration/imaging"

	"github.com/ironsheep/image-stego-mcp/internal/stego"
)

// DefaultJPEGQuality is used when a caller asks for JPEG output without a
// quality.
const DefaultJPEGQuality = 90

// ParseFormat maps a format name or file extension ("png", "jpg", ".tiff",
// ...) to an output format.
func ParseFormat(name string) (imaging.Format, error) {
	f, err := imaging.FormatFromExtension(name)
	if err != nil {
		return -1, fmt.Errorf("%w: unsupported output format %q", stego.ErrInvalidParameters, name)
	}
	return f, nil
}

// IsLossless reports whether an image written in f decodes to the exact
// pixels that were encoded. JPEG recompresses and GIF quantises to a
// palette, so both destroy embedded bits.
func IsLossless(f imaging.Format) bool {
	switch f {
	case imaging.PNG, imaging.BMP, imaging.TIFF:
		return true
	default:
		return false
	}
}

// Extension returns the preferred file extension for f, without the dot.
func Extension(f imaging.Format) string {
	switch f {
	case imaging.JPEG:
		return "jpg"
	case imaging.PNG:
		return "png"
	case imaging.GIF:
		return "gif"
	case imaging.TIFF:
		return "tiff"
	case imaging.BMP:
		return "bmp"
	}
	return "bin"
}

// MimeType returns the media type for f.
func MimeType(f imaging.Format) string {
	switch f {
	case imaging.JPEG:
		return "image/jpeg"
	case imaging.PNG:
		return "image/png"
	case imaging.GIF:
		return "image/gif"
	case imaging.TIFF:
		return "image/tiff"
	case imaging.BMP:
		return "image/bmp"
	}
	return "application/octet-stream"
}

// Encode writes img to w in format f. jpegQuality is only used for JPEG and
// falls back to DefaultJPEGQuality when it is outside 1..100.
func Encode(w io.Writer, img image.Image, f imaging.Format, jpegQuality int) error {
	if jpegQuality < 1 || jpegQuality > 100 {
		jpegQuality = DefaultJPEGQuality
	}
	if err := imaging.Encode(w, img, f, imaging.JPEGQuality(jpegQuality)); err != nil {
		return fmt.Errorf("failed to encode %s image: %w", f, err)
	}
	return nil
}

// Save writes img to path, choosing the format from the extension.
func Save(path string, img image.Image, jpegQuality int) error {
	if _, err := ParseFormat(filepath.Ext(path)); err != nil {
		return err
	}
	if jpegQuality < 1 || jpegQuality > 100 {
		jpegQuality = DefaultJPEGQuality
	}
	if err := imaging.Save(img, path, imaging.JPEGQuality(jpegQuality)); err != nil {
		return fmt.Errorf("failed to save image: %w", err)
	}
	return nil
}
