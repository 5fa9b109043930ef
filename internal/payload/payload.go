// Package payload implements the optional zstd layer applied to a message
// before it is embedded and after it is extracted.
//
// The frame format does not record whether a message is compressed; the
// compressed bytes are ordinary message content. Callers decide, usually from
// a flag, and IsCompressed can be used to guess.
package payload

import (
	"bytes"
	"errors"
	"fmt"
	"sync"

	"github.com/klauspost/compress/zstd"

	"github.com/ironsheep/image-stego-mcp/internal/stego"
)

// ErrCorrupt is returned when data is not a valid zstd stream. It wraps
// stego.ErrInvalidParameters.
var ErrCorrupt = fmt.Errorf("%w: compressed payload is corrupt", stego.ErrInvalidParameters)

// ErrTooLarge is returned when decompressed data would exceed the codec
// limit. It wraps stego.ErrMessageTooLarge.
var ErrTooLarge = fmt.Errorf("%w: decompressed payload exceeds limit", stego.ErrMessageTooLarge)

var magic = []byte{0x28, 0xB5, 0x2F, 0xFD}

var encPool = sync.Pool{
	New: func() any {
		enc, err := zstd.NewWriter(
			nil,
			zstd.WithEncoderConcurrency(1),
			zstd.WithEncoderLevel(zstd.SpeedBestCompression),
			zstd.WithLowerEncoderMem(true),
		)
		if err != nil {
			panic(err)
		}
		return enc
	},
}

// Compress returns data as a single zstd frame. An empty input stays empty.
func Compress(data []byte) []byte {
	if len(data) == 0 {
		return data
	}
	enc := encPool.Get().(*zstd.Encoder)
	out := enc.EncodeAll(data, nil)
	encPool.Put(enc)
	return out
}

// IsCompressed reports whether data starts with the zstd frame magic.
func IsCompressed(data []byte) bool {
	return bytes.HasPrefix(data, magic)
}

// Codec decompresses payloads up to a fixed size. It is safe for concurrent
// use.
type Codec struct {
	limit int
	dec   *zstd.Decoder
}

// NewCodec returns a Codec that refuses to produce more than limit bytes.
func NewCodec(limit int) (*Codec, error) {
	if limit <= 0 {
		return nil, fmt.Errorf("%w: decompression limit must be positive, got %d", stego.ErrInvalidParameters, limit)
	}
	dec, err := zstd.NewReader(
		nil,
		zstd.WithDecoderConcurrency(1),
		zstd.WithDecoderLowmem(true),
		zstd.WithDecoderMaxMemory(uint64(limit)),
	)
	if err != nil {
		return nil, fmt.Errorf("failed to create zstd decoder: %w", err)
	}
	return &Codec{limit: limit, dec: dec}, nil
}

// Limit returns the maximum decompressed size.
func (c *Codec) Limit() int {
	return c.limit
}

// Decompress reverses Compress. An empty input stays empty.
func (c *Codec) Decompress(data []byte) ([]byte, error) {
	if len(data) == 0 {
		return data, nil
	}
	out, err := c.dec.DecodeAll(data, nil)
	switch {
	case errors.Is(err, zstd.ErrDecoderSizeExceeded), errors.Is(err, zstd.ErrWindowSizeExceeded):
		return nil, fmt.Errorf("%w: limit is %d bytes", ErrTooLarge, c.limit)
	case err != nil:
		return nil, fmt.Errorf("%w: %v", ErrCorrupt, err)
	case len(out) > c.limit:
		return nil, fmt.Errorf("%w: got %d bytes, limit is %d", ErrTooLarge, len(out), c.limit)
	}
	return out, nil
}

// Close releases the decoder. The Codec must not be used afterwards.
func (c *Codec) Close() {
	c.dec.Close()
}
