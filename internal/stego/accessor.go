package stego

// PixelAccessor is the image surface the codec reads and writes. Width and
// Height never change for the lifetime of the value. RGB and SetRGB fail
// with an error wrapping ErrInvalidParameters when x or y is out of bounds,
// and a SetRGB must be visible to every later RGB call.
type PixelAccessor interface {
	Width() int
	Height() int
	RGB(x, y int) (r, g, b uint8, err error)
	SetRGB(x, y int, r, g, b uint8) error
}

// Capacity returns MaxMessageSize for img.
func Capacity(img PixelAccessor) int {
	return MaxMessageSize(img.Width(), img.Height())
}

func pixelCount(img PixelAccessor) uint64 {
	if img.Width() <= 0 || img.Height() <= 0 {
		return 0
	}
	return uint64(img.Width()) * uint64(img.Height())
}
