package stego

import "fmt"

// DecodePixel returns the three message bits carried by a pixel.
func DecodePixel(r, g, b uint8) Triple {
	return BLTM.Multiply(Triple{LSB(r), LSB(g), LSB(b)})
}

// decodeState tracks the decoder through one scan of the pixel grid.
type decodeState int

const (
	stateScanning decodeState = iota
	stateHeaderReady
)

// scanner accumulates decoded bits in row-major pixel order.
type scanner struct {
	img   PixelAccessor
	x, y  int
	seen  uint64
	total uint64
	bits  Vector
}

func newScanner(img PixelAccessor) *scanner {
	total := pixelCount(img)
	return &scanner{img: img, total: total, bits: make(Vector, 0, min(total, 1<<20)*BitsPerPixel)}
}

// readTo decodes pixels until n pixels have been seen or the image ends.
func (s *scanner) readTo(n uint64) error {
	n = min(n, s.total)
	width := s.img.Width()
	for s.seen < n {
		r, g, b, err := s.img.RGB(s.x, s.y)
		if err != nil {
			return err
		}
		m := DecodePixel(r, g, b)
		s.bits = append(s.bits, m[0], m[1], m[2])
		s.seen++
		if s.x++; s.x == width {
			s.x = 0
			s.y++
		}
	}
	return nil
}

// Decode recovers the message embedded by Encode.
//
// The scan reads the HeaderPixels pixels first and validates the header,
// failing fast on a bad version or a length the image cannot hold. It then
// continues the same accumulation only as far as the frame requires, and
// re-checks the header against the bits actually read before extracting.
func Decode(img PixelAccessor) ([]byte, error) {
	total := pixelCount(img)
	if total*BitsPerPixel < HeaderBits {
		return nil, fmt.Errorf("%w: image holds %d bits, header needs %d",
			ErrNoMessageFound, total*BitsPerPixel, HeaderBits)
	}

	s := newScanner(img)
	state := stateScanning
	var header Header

	for {
		switch state {
		case stateScanning:
			if err := s.readTo(HeaderPixels); err != nil {
				return nil, err
			}
			h, err := ParseHeader(BitsToBytes(s.bits[:HeaderBits]))
			if err != nil {
				return nil, err
			}
			if h.FramePixels() > total {
				return nil, fmt.Errorf("%w: header declares %d bytes, image has %d pixels, needs %d",
					ErrNoMessageFound, h.Length, total, h.FramePixels())
			}
			header = h
			state = stateHeaderReady

		case stateHeaderReady:
			if err := s.readTo(header.FramePixels()); err != nil {
				return nil, err
			}
			return extractMessage(s.bits)
		}
	}
}

// extractMessage re-parses the header from the accumulated bits and returns
// the declared message bytes.
func extractMessage(bits Vector) ([]byte, error) {
	if len(bits) < HeaderBits {
		return nil, fmt.Errorf("%w: only %d bits available", ErrNoMessageFound, len(bits))
	}
	h, err := ParseHeader(BitsToBytes(bits[:HeaderBits]))
	if err != nil {
		return nil, err
	}
	end := h.FrameBits()
	if uint64(len(bits)) < end {
		return nil, fmt.Errorf("%w: frame needs %d bits, only %d available",
			ErrNoMessageFound, end, len(bits))
	}
	return BitsToBytes(bits[HeaderBits:end]), nil
}

// PeekHeader decodes the header pixels and returns the header as found,
// without validating the version or the declared length.
func PeekHeader(img PixelAccessor) (Header, error) {
	if pixelCount(img)*BitsPerPixel < HeaderBits {
		return Header{}, fmt.Errorf("%w: image too small for a header", ErrNoMessageFound)
	}
	s := newScanner(img)
	if err := s.readTo(HeaderPixels); err != nil {
		return Header{}, err
	}
	return ReadHeader(BitsToBytes(s.bits[:HeaderBits]))
}
