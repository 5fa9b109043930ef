package stego

import (
	"encoding/binary"
	"fmt"
)

const (
	// FormatVersion is the only frame version this package reads or writes.
	FormatVersion = 1

	// HeaderSize is the size of the frame header in bytes.
	HeaderSize = 8

	// HeaderBits is the size of the frame header in bits.
	HeaderBits = HeaderSize * 8

	// BitsPerPixel is the number of message bits carried by one pixel.
	BitsPerPixel = 3

	// HeaderPixels is the number of pixels that carry the header.
	HeaderPixels = (HeaderBits + BitsPerPixel - 1) / BitsPerPixel
)

// Header is the fixed 8-byte frame header:
//
//	0:    format version
//	1-4:  message length (big-endian uint32)
//	5-7:  reserved, written as zero
type Header struct {
	Version  uint8   `json:"version"`
	Length   uint32  `json:"length"`
	Reserved [3]byte `json:"reserved"`
}

// NewHeader returns the header for a message of length n.
func NewHeader(n int) Header {
	return Header{Version: FormatVersion, Length: uint32(n)}
}

// Bytes encodes h into its wire form.
func (h Header) Bytes() []byte {
	b := make([]byte, HeaderSize)
	b[0] = h.Version
	binary.BigEndian.PutUint32(b[1:5], h.Length)
	copy(b[5:8], h.Reserved[:])
	return b
}

// ReadHeader decodes the first HeaderSize bytes of b without validating the
// version.
func ReadHeader(b []byte) (Header, error) {
	if len(b) < HeaderSize {
		return Header{}, fmt.Errorf("%w: header needs %d bytes, got %d", ErrNoMessageFound, HeaderSize, len(b))
	}
	h := Header{
		Version: b[0],
		Length:  binary.BigEndian.Uint32(b[1:5]),
	}
	copy(h.Reserved[:], b[5:8])
	return h, nil
}

// ParseHeader decodes a header and checks the format version. Reserved
// bytes are not validated.
func ParseHeader(b []byte) (Header, error) {
	h, err := ReadHeader(b)
	if err != nil {
		return Header{}, err
	}
	if h.Version != FormatVersion {
		return Header{}, fmt.Errorf("%w: unsupported message format version: %d", ErrInvalidParameters, h.Version)
	}
	return h, nil
}

// FrameBits is the total number of bits of a frame carrying h.Length bytes.
func (h Header) FrameBits() uint64 {
	return HeaderBits + uint64(h.Length)*8
}

// FramePixels is the number of pixels needed to carry the whole frame.
func (h Header) FramePixels() uint64 {
	return (h.FrameBits() + BitsPerPixel - 1) / BitsPerPixel
}

// BuildFrame returns header bytes followed by message.
func BuildFrame(message []byte) []byte {
	frame := make([]byte, 0, HeaderSize+len(message))
	frame = append(frame, NewHeader(len(message)).Bytes()...)
	return append(frame, message...)
}

// MaxMessageSize is the largest message in bytes that fits in a width x
// height cover once the header is accounted for.
func MaxMessageSize(width, height int) int {
	if width <= 0 || height <= 0 {
		return 0
	}
	total := uint64(width) * uint64(height) * BitsPerPixel / 8
	if total <= HeaderSize {
		return 0
	}
	return int(total - HeaderSize)
}
