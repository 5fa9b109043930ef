// Package stego implements matrix-encoding steganography over the least
// significant bits of RGB pixels.
//
// Each pixel carries three message bits. The cover LSBs (r, g, b) form a
// 3-bit vector vc, and the message bits m are recovered as BLTM·vc over
// GF(2), where BLTM is a fixed 3x3 lower-triangular binary matrix. To embed,
// the encoder flips the LSBs by the correction vector that makes the product
// equal m. Bits 1..7 of every channel are never touched.
//
// # Frame Format
//
// The embedded bit stream is an 8-byte header followed by the message:
//
//	[version:1][length:4, big-endian][reserved:3][message:length]
//
// Bits are taken MSB-first from each byte, three per pixel across R, G, B,
// in row-major order starting at (0,0). Zero padding appears only after the
// last message bit.
//
// # Capacity
//
// A width x height image holds max(0, floor(width*height*3/8) - 8) message
// bytes. Encode checks this before writing any pixel.
//
// # Errors
//
// Failures wrap ErrMessageTooLarge, ErrNoMessageFound or
// ErrInvalidParameters; use errors.Is or Kind to classify them. Errors from
// the PixelAccessor are returned as they are.
//
// # Thread Safety
//
// The matrix and correction table are immutable. Encode and Decode may run
// concurrently as long as each call has its own PixelAccessor.
package stego
