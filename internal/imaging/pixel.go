package imaging

import (
	"fmt"
	"image"
	"image/color"

	"github.com/lucasb-eyer/go-colorful"

	"github.com/ironsheep/image-stego-mcp/internal/stego"
)

// RGBColor represents an RGB color with 8-bit components.
type RGBColor struct {
	R uint8 `json:"r"` // Red component (0-255)
	G uint8 `json:"g"` // Green component (0-255)
	B uint8 `json:"b"` // Blue component (0-255)
}

// PixelSample describes one pixel as the codec sees it.
type PixelSample struct {
	X int `json:"x"`
	Y int `json:"y"`

	// Index is the pixel's position in the row-major embedding order.
	Index int `json:"index"`

	// Hex format "#rrggbb" (no alpha).
	Hex   string   `json:"hex"`
	RGB   RGBColor `json:"rgb"`
	Alpha uint8    `json:"alpha"`

	// LSBs is the cover vector (r, g, b least significant bits), MSB first.
	LSBs string `json:"lsbs"`

	// Decoded is the 3-bit message chunk this pixel carries.
	Decoded string `json:"decoded"`

	// InHeader reports whether the pixel carries header bits.
	InHeader bool `json:"in_header"`
}

// SamplePixel reads the pixel at (x, y) and reports the message bits it
// carries.
//
// Parameters:
//   - img: The image to sample from.
//   - x: X coordinate (0-based, 0 = leftmost pixel).
//   - y: Y coordinate (0-based, 0 = topmost pixel).
//
// Returns:
//   - *PixelSample: The pixel's color and codec view.
//   - error: Wraps stego.ErrInvalidParameters if (x, y) is outside the image.
//
// # Color Conversion
//
// Colors are read non-premultiplied and reduced to 8 bits per channel, which
// is exactly what Embed and Extract operate on. For 16-bit images the low
// byte of each channel is discarded.
func SamplePixel(img image.Image, x, y int) (*PixelSample, error) {
	bounds := img.Bounds()
	if x < 0 || y < 0 || x >= bounds.Dx() || y >= bounds.Dy() {
		return nil, fmt.Errorf("%w: coordinates (%d,%d) outside %dx%d image",
			stego.ErrInvalidParameters, x, y, bounds.Dx(), bounds.Dy())
	}

	c := color.NRGBAModel.Convert(img.At(bounds.Min.X+x, bounds.Min.Y+y)).(color.NRGBA)
	index := y*bounds.Dx() + x

	return &PixelSample{
		X:        x,
		Y:        y,
		Index:    index,
		Hex:      toColorful(c.R, c.G, c.B).Hex(),
		RGB:      RGBColor{R: c.R, G: c.G, B: c.B},
		Alpha:    c.A,
		LSBs:     stego.Triple{stego.LSB(c.R), stego.LSB(c.G), stego.LSB(c.B)}.String(),
		Decoded:  stego.DecodePixel(c.R, c.G, c.B).String(),
		InHeader: index < stego.HeaderPixels,
	}, nil
}

func toColorful(r, g, b uint8) colorful.Color {
	return colorful.Color{R: float64(r) / 255, G: float64(g) / 255, B: float64(b) / 255}
}
