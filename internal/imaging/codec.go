package imaging

import (
	"image"

	"github.com/ironsheep/image-stego-mcp/internal/stego"
)

// Embed hides message in a copy of cover and returns the stego image. cover
// is left untouched, including when the message does not fit.
//
// The result must be saved in a lossless format (see IsLossless) for the
// message to survive.
func Embed(cover image.Image, message []byte) (*image.NRGBA, *stego.EncodeResult, error) {
	px := NewRGBImage(cover)
	res, err := stego.Encode(px, message)
	if err != nil {
		return nil, nil, err
	}
	return px.Image(), res, nil
}

// Extract returns the message hidden in img by Embed.
func Extract(img image.Image) ([]byte, error) {
	return stego.Decode(NewRGBImage(img))
}

// ExtractRaw returns the decoded bit stream of every pixel of img, packed
// into bytes, without header validation.
func ExtractRaw(img image.Image) ([]byte, error) {
	return stego.ExtractRaw(NewRGBImage(img))
}

// PeekHeader returns the frame header stored in img without validating it.
func PeekHeader(img image.Image) (stego.Header, error) {
	return stego.PeekHeader(NewRGBImage(img))
}

// CoverCapacity returns the largest message in bytes that fits in img.
func CoverCapacity(img image.Image) int {
	b := img.Bounds()
	return stego.MaxMessageSize(b.Dx(), b.Dy())
}
