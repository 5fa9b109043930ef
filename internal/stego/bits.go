package stego

import "fmt"

// Vector is an ordered sequence of bits. Index 0 is the most significant bit
// of the first byte it was expanded from; every conversion in this package
// uses that MSB-first order, and the wire format depends on it.
type Vector []bool

// BytesToBits expands each byte MSB-first into 8 bits.
func BytesToBits(data []byte) Vector {
	bits := make(Vector, len(data)*8)
	for i, b := range data {
		offset := i * 8
		for j := 0; j < 8; j++ {
			bits[offset+j] = (b>>(7-j))&1 == 1
		}
	}
	return bits
}

// BitsToBytes packs bits MSB-first into bytes. When len(bits) is not a
// multiple of 8 the unused low-order positions of the last byte are zero.
func BitsToBytes(bits Vector) []byte {
	out := make([]byte, (len(bits)+7)/8)
	for i, bit := range bits {
		if bit {
			out[i/8] |= 1 << (7 - i%8)
		}
	}
	return out
}

// SplitBits partitions bits into consecutive chunks of exactly chunkSize
// bits. The final chunk is zero-padded on the right when short.
func SplitBits(bits Vector, chunkSize int) ([]Vector, error) {
	if chunkSize <= 0 {
		return nil, fmt.Errorf("%w: chunk size must be positive, got %d", ErrInvalidParameters, chunkSize)
	}

	chunks := make([]Vector, 0, (len(bits)+chunkSize-1)/chunkSize)
	for i := 0; i < len(bits); i += chunkSize {
		chunk := make(Vector, chunkSize)
		copy(chunk, bits[i:min(i+chunkSize, len(bits))])
		chunks = append(chunks, chunk)
	}
	return chunks, nil
}

// JoinBits concatenates chunks in order.
func JoinBits(chunks []Vector) Vector {
	n := 0
	for _, c := range chunks {
		n += len(c)
	}
	out := make(Vector, 0, n)
	for _, c := range chunks {
		out = append(out, c...)
	}
	return out
}

// JoinBitsN concatenates chunks and truncates the result to totalBits. It is
// the inverse of SplitBits when totalBits is the original length.
func JoinBitsN(chunks []Vector, totalBits int) Vector {
	out := JoinBits(chunks)
	if totalBits >= 0 && len(out) > totalBits {
		out = out[:totalBits]
	}
	return out
}

func lsbMask(k int) (byte, error) {
	if k < 1 || k > 8 {
		return 0, fmt.Errorf("%w: invalid number of bits: %d, must be between 1 and 8", ErrInvalidParameters, k)
	}
	return byte(uint16(1)<<k - 1), nil
}

// LSBs returns the k least significant bits of b, right-aligned.
func LSBs(b byte, k int) (byte, error) {
	mask, err := lsbMask(k)
	if err != nil {
		return 0, err
	}
	return b & mask, nil
}

// SetLSBs replaces the k least significant bits of b with the low k bits of
// bits. Higher bits of b are untouched.
func SetLSBs(b, bits byte, k int) (byte, error) {
	mask, err := lsbMask(k)
	if err != nil {
		return 0, err
	}
	return b&^mask | bits&mask, nil
}

// Bit reports the bit at pos, where 0 is the most significant bit.
func Bit(b byte, pos int) (bool, error) {
	if pos < 0 || pos > 7 {
		return false, fmt.Errorf("%w: invalid bit position: %d, must be between 0 and 7", ErrInvalidParameters, pos)
	}
	return (b>>(7-pos))&1 == 1, nil
}

// SetBit sets the bit at pos (0 = most significant) to v.
func SetBit(b byte, pos int, v bool) (byte, error) {
	if pos < 0 || pos > 7 {
		return 0, fmt.Errorf("%w: invalid bit position: %d, must be between 0 and 7", ErrInvalidParameters, pos)
	}
	mask := byte(1) << (7 - pos)
	if v {
		return b | mask, nil
	}
	return b &^ mask, nil
}

// LSB reports the least significant bit of b.
func LSB(b byte) bool {
	return b&1 == 1
}

// SetLSB returns b with its least significant bit set to v.
func SetLSB(b byte, v bool) byte {
	if v {
		return b | 1
	}
	return b &^ 1
}
