package api

// Error codes carried in ErrorResponse.ErrorCode.
const (
	CodeValidation      = "validation_error"
	CodeImageTooLarge   = "image_too_large"
	CodeMessageTooLarge = "message_too_large"
	CodeInvalidImage    = "invalid_image"
	CodeNoMessageFound  = "no_message_found"
	CodeInternal        = "internal_error"
	CodeNotFound        = "not_found"
)

// HealthResponse is returned by GET /api/health.
type HealthResponse struct {
	Status  string `json:"status"`
	Version string `json:"version"`
}

// ImageMetadata describes a cover or stego image.
type ImageMetadata struct {
	Width  int    `json:"width"`
	Height int    `json:"height"`
	Format string `json:"format"`

	// SizeBytes is the encoded file size.
	SizeBytes int `json:"size_bytes"`

	// MaxMessageBytes is the capacity of the image.
	MaxMessageBytes int `json:"max_message_bytes"`

	// EmbeddedMessageBytes is set on encode and counts the bytes actually
	// written into the frame (after compression, if any).
	EmbeddedMessageBytes *int `json:"embedded_message_bytes,omitempty"`
}

// EncodeResponse is returned by POST /api/encode.
type EncodeResponse struct {
	RequestID   string        `json:"request_id"`
	Status      string        `json:"status"`
	ImageID     string        `json:"image_id"`
	DownloadURL string        `json:"download_url"`
	Metadata    ImageMetadata `json:"metadata"`
	Compressed  bool          `json:"compressed"`
	Warning     string        `json:"warning,omitempty"`
}

// DecodeResponse is returned by POST /api/decode.
type DecodeResponse struct {
	RequestID string `json:"request_id"`
	Status    string `json:"status"`

	// Message is set only when the payload is valid UTF-8.
	Message       *string `json:"message,omitempty"`
	BinaryMessage string  `json:"binary_message"`
	MessageLength int     `json:"message_length"`
}

// CapacityResponse is returned by POST /api/capacity.
type CapacityResponse struct {
	RequestID string        `json:"request_id"`
	Status    string        `json:"status"`
	Metadata  ImageMetadata `json:"metadata"`
}

// ErrorResponse is the body of every failed request.
type ErrorResponse struct {
	RequestID string `json:"request_id"`
	Status    string `json:"status"`
	ErrorCode string `json:"error_code"`
	Message   string `json:"message"`
}
