// Package imaging connects image files to the stego codec.
//
// It loads and caches cover images, exposes them to the codec as mutable
// 8-bit RGB pixel grids, writes stego images back out, and provides the
// inspection helpers used by the tool server and CLI: per-pixel sampling and
// cover/stego comparison. All operations use a coordinate system where (0,0)
// is at the top-left corner, X increases rightward, and Y increases downward.
//
// # Pixel Model
//
// RGBImage copies its source into an *image.NRGBA. Message bits go into the
// least significant bit of R, G and B; alpha is preserved but never carries
// data. Sources with 16 bits per channel or a palette are converted to
// 8-bit NRGBA by the copy, so saving and re-reading yields the same pixels
// only for lossless outputs.
//
// # Output Formats
//
// PNG, BMP and TIFF preserve every bit. JPEG and GIF can be written, but the
// message will not survive them; IsLossless reports which is which.
//
// # Thread Safety
//
// The ImageCache type is safe for concurrent use. Cached images are treated as
// read-only: Embed, Extract and Compare all operate on private copies, so
// they may run concurrently on the same cached image.
//
// # Error Handling
//
// Invalid coordinates, mismatched image sizes, undecodable uploads and
// unsupported output formats return errors wrapping
// stego.ErrInvalidParameters. File I/O errors are wrapped with context and
// returned as they are.
package imaging
