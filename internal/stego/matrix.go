package stego

// Triple is a 3-bit vector. Index 0 is the most significant bit, so the
// numeric value is 4*t[0] + 2*t[1] + t[2].
type Triple [3]bool

// TripleOf returns the Triple for the low three bits of v.
func TripleOf(v uint8) Triple {
	return Triple{v&4 != 0, v&2 != 0, v&1 != 0}
}

// Value returns the triple as a number in 0..7.
func (t Triple) Value() uint8 {
	var v uint8
	for _, bit := range t {
		v <<= 1
		if bit {
			v |= 1
		}
	}
	return v
}

// Xor returns the bitwise XOR of t and u.
func (t Triple) Xor(u Triple) Triple {
	return Triple{t[0] != u[0], t[1] != u[1], t[2] != u[2]}
}

// String renders the triple as three binary digits, MSB first.
func (t Triple) String() string {
	b := []byte("000")
	for i, bit := range t {
		if bit {
			b[i] = '1'
		}
	}
	return string(b)
}

// BinaryMatrix is a 3x3 lower-triangular matrix over GF(2), stored as its
// three columns ordered right to left (C1, C2, C3).
type BinaryMatrix struct {
	columns [3]Triple
}

// BLTM is the fixed matrix shared by the encoder and decoder.
var BLTM = BinaryMatrix{
	columns: [3]Triple{
		{false, false, true}, // C1
		{false, true, true},  // C2
		{true, true, true},   // C3
	},
}

// Columns returns C1, C2 and C3.
func (m BinaryMatrix) Columns() [3]Triple {
	return m.columns
}

// Entry returns the matrix entry at row i, column j. Entries above the
// diagonal are always zero.
func (m BinaryMatrix) Entry(i, j int) bool {
	if i < j {
		return false
	}
	return m.columns[2-j][i]
}

// Multiply computes m·v over GF(2): each output bit is the XOR of the
// row-wise ANDs.
func (m BinaryMatrix) Multiply(v Triple) Triple {
	var out Triple
	for i := 0; i < 3; i++ {
		var bit bool
		for j := 0; j <= i; j++ {
			bit = bit != (m.Entry(i, j) && v[j])
		}
		out[i] = bit
	}
	return out
}

// correctionTable maps every delta value to its correction vector Vn.
var correctionTable = [8]Triple{
	0: TripleOf(0b000),
	1: TripleOf(0b001),
	2: TripleOf(0b011),
	3: TripleOf(0b010),
	4: TripleOf(0b110),
	5: TripleOf(0b111),
	6: TripleOf(0b101),
	7: TripleOf(0b100),
}

// LookupCorrection returns the correction vector Vn for delta. Flipping the
// cover LSBs by Vn changes BLTM·v by exactly delta.
func LookupCorrection(delta Triple) Triple {
	return correctionTable[delta.Value()]
}
