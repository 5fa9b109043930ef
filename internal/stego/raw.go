package stego

import (
	"fmt"
	"strings"
)

// ExtractRaw decodes every pixel of img and packs the resulting bit stream
// into bytes, skipping all header validation. It is a forensic aid for
// images whose header is damaged or was written by another tool.
func ExtractRaw(img PixelAccessor) ([]byte, error) {
	s := newScanner(img)
	if err := s.readTo(s.total); err != nil {
		return nil, err
	}
	return BitsToBytes(s.bits), nil
}

// FormatPreview renders the first n bytes of data as a header interpretation
// (when at least HeaderSize bytes are shown), a hex view and a binary view.
func FormatPreview(data []byte, n int) string {
	n = max(0, min(n, len(data)))
	var sb strings.Builder

	sb.WriteString("Raw data preview:\n")
	if n >= HeaderSize {
		h, _ := ReadHeader(data)
		sb.WriteString("Potential header:\n")
		fmt.Fprintf(&sb, "  Format version: %d (expected: %d)\n", h.Version, FormatVersion)
		fmt.Fprintf(&sb, "  Message length: %d bytes\n", h.Length)
		fmt.Fprintf(&sb, "  Reserved bytes: %02X %02X %02X\n", h.Reserved[0], h.Reserved[1], h.Reserved[2])
	}

	sb.WriteString("Hex view:\n")
	for i := 0; i < n; i++ {
		if i%16 == 0 {
			if i > 0 {
				sb.WriteByte('\n')
			}
			fmt.Fprintf(&sb, "%04X: ", i)
		}
		fmt.Fprintf(&sb, "%02X ", data[i])
	}

	sb.WriteString("\n\nBinary view:\n")
	for i := 0; i < n; i++ {
		if i%4 == 0 {
			if i > 0 {
				sb.WriteByte('\n')
			}
			fmt.Fprintf(&sb, "%04X: ", i)
		}
		fmt.Fprintf(&sb, "%08b ", data[i])
	}
	sb.WriteByte('\n')

	return sb.String()
}
