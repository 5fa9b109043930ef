package api

import (
	"errors"
	"fmt"
	"net/http"

	"github.com/labstack/echo/v5"

	"github.com/ironsheep/image-stego-mcp/internal/stego"
)

// apiError is a failure with a fixed HTTP status and error code.
type apiError struct {
	status int
	code   string
	msg    string
}

func (e *apiError) Error() string { return e.msg }

func badRequest(code, format string, args ...any) *apiError {
	return &apiError{status: http.StatusBadRequest, code: code, msg: fmt.Sprintf(format, args...)}
}

func tooLarge(format string, args ...any) *apiError {
	return &apiError{status: http.StatusRequestEntityTooLarge, code: CodeImageTooLarge, msg: fmt.Sprintf(format, args...)}
}

func notFound(format string, args ...any) *apiError {
	return &apiError{status: http.StatusNotFound, code: CodeNotFound, msg: fmt.Sprintf(format, args...)}
}

// statusFor maps codec error kinds to HTTP statuses.
func statusFor(kind string) int {
	switch kind {
	case stego.KindValidation, stego.KindMessageTooLarge, stego.KindNoMessageFound:
		return http.StatusBadRequest
	default:
		return http.StatusInternalServerError
	}
}

func writeError(c *echo.Context, requestID string, status int, code, msg string) error {
	return c.JSON(status, ErrorResponse{
		RequestID: requestID,
		Status:    "error",
		ErrorCode: code,
		Message:   msg,
	})
}

// fail writes err as an ErrorResponse. Internal errors are logged and
// their text is not exposed.
func (s *Server) fail(c *echo.Context, requestID string, err error) error {
	var ae *apiError
	if errors.As(err, &ae) {
		s.log.Debug("request rejected", "request_id", requestID, "code", ae.code, "error", ae.msg)
		return writeError(c, requestID, ae.status, ae.code, ae.msg)
	}

	kind := stego.Kind(err)
	if kind == stego.KindInternal {
		s.log.Error("request failed", "request_id", requestID, "error", err)
		return writeError(c, requestID, http.StatusInternalServerError, CodeInternal, "an internal error occurred")
	}
	s.log.Info("request rejected", "request_id", requestID, "code", kind, "error", err)
	return writeError(c, requestID, statusFor(kind), kind, err.Error())
}
