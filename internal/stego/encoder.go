package stego

import "fmt"

// EncodePixel embeds three message bits into the LSBs of one pixel. Only
// the channel LSBs change; bits 1..7 of every channel are preserved.
//
// With vc the cover LSBs, the correction Vn is chosen so that
//
//	BLTM·(vc ⊕ Vn) = BLTM·vc ⊕ (BLTM·vc ⊕ m) = m
//
// which DecodePixel reads back.
func EncodePixel(r, g, b uint8, m Triple) (uint8, uint8, uint8) {
	vc := Triple{LSB(r), LSB(g), LSB(b)}
	delta := BLTM.Multiply(vc).Xor(m)
	vs := vc.Xor(LookupCorrection(delta))
	return SetLSB(r, vs[0]), SetLSB(g, vs[1]), SetLSB(b, vs[2])
}

// EncodeResult summarises an embedding.
type EncodeResult struct {
	MessageBytes  int `json:"message_bytes"`
	FrameBits     int `json:"frame_bits"`
	PixelsUsed    int `json:"pixels_used"`
	PixelsChanged int `json:"pixels_changed"`
	Capacity      int `json:"capacity_bytes"`
}

// Encode embeds message into img in place. The frame is header + message,
// split into 3-bit chunks and written row-major from (0,0); pixels after the
// last chunk are not touched.
//
// Capacity is checked before any pixel is written, so an ErrMessageTooLarge
// leaves img unchanged. A cover too small for the header rejects even an
// empty message. Callers that need to keep the cover should pass a
// copy.
func Encode(img PixelAccessor, message []byte) (*EncodeResult, error) {
	capacity := Capacity(img)
	usable := pixelCount(img) * BitsPerPixel / 8
	if uint64(HeaderSize+len(message)) > usable {
		return nil, fmt.Errorf("%w: message is %d bytes, image holds at most %d",
			ErrMessageTooLarge, len(message), capacity)
	}

	bits := BytesToBits(BuildFrame(message))
	chunks, err := SplitBits(bits, BitsPerPixel)
	if err != nil {
		return nil, err
	}

	res := &EncodeResult{
		MessageBytes: len(message),
		FrameBits:    len(bits),
		Capacity:     capacity,
	}

	width, height := img.Width(), img.Height()
	next := 0
	for y := 0; y < height && next < len(chunks); y++ {
		for x := 0; x < width && next < len(chunks); x++ {
			r, g, b, err := img.RGB(x, y)
			if err != nil {
				return nil, err
			}
			chunk := chunks[next]
			nr, ng, nb := EncodePixel(r, g, b, Triple{chunk[0], chunk[1], chunk[2]})
			if nr != r || ng != g || nb != b {
				if err := img.SetRGB(x, y, nr, ng, nb); err != nil {
					return nil, err
				}
				res.PixelsChanged++
			}
			next++
		}
	}
	res.PixelsUsed = next
	return res, nil
}
