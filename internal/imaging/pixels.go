package imaging

import (
	"fmt"
	"image"
	"image/color"

	"github.com/disintegration/imaging"

	"github.com/ironsheep/image-stego-mcp/internal/stego"
)

// ErrOutOfBounds is returned by RGBImage for coordinates outside the image.
// It wraps stego.ErrInvalidParameters.
var ErrOutOfBounds = fmt.Errorf("%w: pixel out of bounds", stego.ErrInvalidParameters)

// RGBImage is a mutable 8-bit RGB view of an image that satisfies
// stego.PixelAccessor.
//
// The pixels live in an *image.NRGBA whose bounds start at (0,0). Only the R,
// G and B channels are read or written; alpha is carried through unchanged.
type RGBImage struct {
	img *image.NRGBA
}

// NewRGBImage returns an RGBImage over a copy of src. src itself is never
// modified, which keeps cached covers intact.
//
// Images with 16 bits per channel are reduced to 8 bits by the copy.
func NewRGBImage(src image.Image) *RGBImage {
	return &RGBImage{img: imaging.Clone(src)}
}

// NewBlank returns an opaque black width x height image.
func NewBlank(width, height int) *RGBImage {
	return &RGBImage{img: imaging.New(width, height, color.NRGBA{A: 255})}
}

// Width implements stego.PixelAccessor.
func (p *RGBImage) Width() int { return p.img.Rect.Dx() }

// Height implements stego.PixelAccessor.
func (p *RGBImage) Height() int { return p.img.Rect.Dy() }

func (p *RGBImage) offset(x, y int) (int, error) {
	if x < 0 || y < 0 || x >= p.Width() || y >= p.Height() {
		return 0, fmt.Errorf("%w: (%d,%d) in %dx%d image", ErrOutOfBounds, x, y, p.Width(), p.Height())
	}
	return y*p.img.Stride + x*4, nil
}

// RGB implements stego.PixelAccessor.
func (p *RGBImage) RGB(x, y int) (uint8, uint8, uint8, error) {
	i, err := p.offset(x, y)
	if err != nil {
		return 0, 0, 0, err
	}
	s := p.img.Pix[i : i+3 : i+3]
	return s[0], s[1], s[2], nil
}

// SetRGB implements stego.PixelAccessor.
func (p *RGBImage) SetRGB(x, y int, r, g, b uint8) error {
	i, err := p.offset(x, y)
	if err != nil {
		return err
	}
	s := p.img.Pix[i : i+3 : i+3]
	s[0], s[1], s[2] = r, g, b
	return nil
}

// Image returns the underlying image. Later SetRGB calls are visible through
// it.
func (p *RGBImage) Image() *image.NRGBA {
	return p.img
}
