package imaging

import (
	"bytes"
	"encoding/base64"
	"fmt"
	"image"
	"image/color"
	"image/png"
	"math"

	"github.com/anthonynsimon/bild/adjust"
	"github.com/anthonynsimon/bild/blend"

	"github.com/ironsheep/image-stego-mcp/internal/stego"
)

// CompareResult summarises how a stego image differs from its cover.
type CompareResult struct {
	Width  int `json:"width"`
	Height int `json:"height"`

	// PixelsChanged counts pixels where any of R, G or B differs.
	PixelsChanged int `json:"pixels_changed"`

	// ChannelsChanged counts individual R, G, B values that differ.
	ChannelsChanged int `json:"channels_changed"`

	// MaxChannelDelta is the largest absolute difference of any channel.
	MaxChannelDelta int `json:"max_channel_delta"`

	// HighBitsPreserved is true when only least significant bits differ and
	// alpha is unchanged.
	HighBitsPreserved bool `json:"high_bits_preserved"`

	// Identical is true when no channel differs. PSNR is left at zero.
	Identical bool `json:"identical"`

	// PSNR is the peak signal-to-noise ratio over R, G and B in decibels.
	PSNR float64 `json:"psnr_db,omitempty"`

	// MaxDeltaE is the largest CIE76 colour distance between matching pixels.
	MaxDeltaE float64 `json:"max_delta_e"`

	// DiffImageBase64 is the DiffMap rendered as base64 PNG, when requested.
	DiffImageBase64 string `json:"diff_image_base64,omitempty"`
}

// Compare measures the distortion introduced by embedding. Both images must
// have the same dimensions.
func Compare(cover, stegoImg image.Image) (*CompareResult, error) {
	a, b := NewRGBImage(cover), NewRGBImage(stegoImg)
	if a.Width() != b.Width() || a.Height() != b.Height() {
		return nil, fmt.Errorf("%w: image sizes differ: %dx%d vs %dx%d",
			stego.ErrInvalidParameters, a.Width(), a.Height(), b.Width(), b.Height())
	}

	res := &CompareResult{
		Width:             a.Width(),
		Height:            a.Height(),
		HighBitsPreserved: true,
	}

	pa, pb := a.Image(), b.Image()
	var sumSq float64
	for y := 0; y < res.Height; y++ {
		for x := 0; x < res.Width; x++ {
			i := y*pa.Stride + x*4
			j := y*pb.Stride + x*4
			ca, cb := pa.Pix[i:i+4:i+4], pb.Pix[j:j+4:j+4]

			changed := false
			for k := 0; k < 3; k++ {
				d := int(ca[k]) - int(cb[k])
				if d == 0 {
					continue
				}
				changed = true
				res.ChannelsChanged++
				if d < 0 {
					d = -d
				}
				res.MaxChannelDelta = max(res.MaxChannelDelta, d)
				sumSq += float64(d * d)
				if ca[k]>>1 != cb[k]>>1 {
					res.HighBitsPreserved = false
				}
			}
			if ca[3] != cb[3] {
				res.HighBitsPreserved = false
			}
			if !changed {
				continue
			}
			res.PixelsChanged++
			dist := toColorful(ca[0], ca[1], ca[2]).DistanceCIE76(toColorful(cb[0], cb[1], cb[2]))
			res.MaxDeltaE = math.Max(res.MaxDeltaE, dist)
		}
	}

	if res.ChannelsChanged == 0 {
		res.Identical = true
		return res, nil
	}
	mse := sumSq / float64(res.Width*res.Height*3)
	res.PSNR = 10 * math.Log10(255*255/mse)
	return res, nil
}

// DiffMap highlights every channel whose least significant bit differs
// between cover and stego: such a channel is 255 in the result, all others 0.
// The result is opaque.
func DiffMap(cover, stegoImg image.Image) (*image.RGBA, error) {
	a, b := NewRGBImage(cover), NewRGBImage(stegoImg)
	if a.Width() != b.Width() || a.Height() != b.Height() {
		return nil, fmt.Errorf("%w: image sizes differ: %dx%d vs %dx%d",
			stego.ErrInvalidParameters, a.Width(), a.Height(), b.Width(), b.Height())
	}
	return blend.Difference(lsbPlane(a), lsbPlane(b)), nil
}

// lsbPlane maps each channel to 0 or 255 by its least significant bit.
func lsbPlane(p *RGBImage) *image.RGBA {
	img := p.Image()
	for i := 3; i < len(img.Pix); i += 4 {
		img.Pix[i] = 255
	}
	return adjust.Apply(img, func(c color.RGBA) color.RGBA {
		return color.RGBA{R: (c.R & 1) * 255, G: (c.G & 1) * 255, B: (c.B & 1) * 255, A: 255}
	})
}

// DiffMapBase64 renders DiffMap as a base64 PNG.
func DiffMapBase64(cover, stegoImg image.Image) (string, error) {
	diff, err := DiffMap(cover, stegoImg)
	if err != nil {
		return "", err
	}

	var buf bytes.Buffer
	if err := png.Encode(&buf, diff); err != nil {
		return "", fmt.Errorf("failed to encode diff image: %w", err)
	}
	return base64.StdEncoding.EncodeToString(buf.Bytes()), nil
}
