package stego

import "errors"

// Error kinds returned by the codec. Callers match them with errors.Is; the
// returned errors usually wrap one of these with additional context.
var (
	// ErrMessageTooLarge means the framed message does not fit in the cover.
	ErrMessageTooLarge = errors.New("message is too large for the given image")

	// ErrNoMessageFound means the image cannot hold a header, or the header
	// declares a length the image cannot satisfy.
	ErrNoMessageFound = errors.New("no message found in the image")

	// ErrInvalidParameters covers structurally invalid input: an unsupported
	// format version, a zero chunk size, an out-of-range bit count, or pixel
	// coordinates outside the image.
	ErrInvalidParameters = errors.New("invalid parameters")
)

// Error codes shared by the REST and MCP layers.
const (
	KindMessageTooLarge = "message_too_large"
	KindNoMessageFound  = "no_message_found"
	KindValidation      = "validation_error"
	KindInternal        = "internal_error"
)

// Kind maps err onto a stable error code. Errors that did not originate in
// the codec map to KindInternal.
func Kind(err error) string {
	switch {
	case err == nil:
		return ""
	case errors.Is(err, ErrMessageTooLarge):
		return KindMessageTooLarge
	case errors.Is(err, ErrNoMessageFound):
		return KindNoMessageFound
	case errors.Is(err, ErrInvalidParameters):
		return KindValidation
	default:
		return KindInternal
	}
}
