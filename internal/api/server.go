// Package api serves the steganography codec over HTTP.
//
// All routes live under /api. Uploads are multipart forms and are decoded in
// memory; only encoded stego images are written to disk, under the
// configured upload directory, and are served back by id.
//
//	GET  /api/health        {status, version}
//	GET  /api/ping          pong
//	POST /api/encode        cover_image, message | message_file, output_format, jpeg_quality, compress
//	POST /api/decode        stego_image, decompress
//	POST /api/capacity      cover_image
//	GET  /api/images/:id    stored stego image
package api

import (
	"bytes"
	"encoding/base64"
	"errors"
	"io"
	"net/http"
	"strconv"
	"strings"
	"unicode/utf8"

	"github.com/google/uuid"
	"github.com/labstack/echo/v5"

	"github.com/ironsheep/image-stego-mcp/internal/config"
	"github.com/ironsheep/image-stego-mcp/internal/imaging"
	"github.com/ironsheep/image-stego-mcp/internal/logger"
	"github.com/ironsheep/image-stego-mcp/internal/payload"
)

// formOverhead is added to the upload limits to bound a whole request.
const formOverhead = 1 << 20

// Options configures a Server.
type Options struct {
	Config  config.Config
	Logger  logger.Logger
	Version string
}

// Server holds the REST handlers.
type Server struct {
	cfg     config.Config
	store   *ImageStore
	codec   *payload.Codec
	log     logger.Logger
	version string
}

// NewServer validates the configuration and prepares the image store.
func NewServer(opts Options) (*Server, error) {
	if err := opts.Config.Validate(); err != nil {
		return nil, err
	}
	if opts.Logger == nil {
		opts.Logger = logger.Default()
	}
	if opts.Version == "" {
		opts.Version = "dev"
	}

	store, err := NewImageStore(opts.Config.UploadDir)
	if err != nil {
		return nil, err
	}
	codec, err := payload.NewCodec(opts.Config.MaxMessageBytes)
	if err != nil {
		return nil, err
	}

	return &Server{
		cfg:     opts.Config,
		store:   store,
		codec:   codec,
		log:     opts.Logger.With("component", "api"),
		version: opts.Version,
	}, nil
}

// Close releases the decompressor.
func (s *Server) Close() {
	s.codec.Close()
}

// Register adds the API routes to e.
func (s *Server) Register(e *echo.Echo) {
	e.GET("/api/health", s.handleHealth)
	e.GET("/api/ping", s.handlePing)
	e.POST("/api/encode", s.handleEncode)
	e.POST("/api/decode", s.handleDecode)
	e.POST("/api/capacity", s.handleCapacity)
	e.GET("/api/images/:id", s.handleGetImage)
}

func (s *Server) handleHealth(c *echo.Context) error {
	return c.JSON(http.StatusOK, HealthResponse{Status: "ok", Version: s.version})
}

func (s *Server) handlePing(c *echo.Context) error {
	return c.String(http.StatusOK, "pong")
}

func (s *Server) handleEncode(c *echo.Context) error {
	requestID := uuid.NewString()
	s.limitBody(c, s.cfg.MaxImageBytes+int64(s.cfg.MaxMessageBytes))

	coverData, err := s.readFile(c, "cover_image", s.cfg.MaxImageBytes)
	if err != nil {
		return s.fail(c, requestID, err)
	}
	message, err := s.readMessage(c)
	if err != nil {
		return s.fail(c, requestID, err)
	}

	outFormat := strings.ToLower(strings.TrimSpace(c.FormValue("output_format")))
	if outFormat == "" {
		outFormat = "png"
	}
	format, err := imaging.ParseFormat(outFormat)
	if err != nil {
		return s.fail(c, requestID, err)
	}
	quality := imaging.DefaultJPEGQuality
	if v := c.FormValue("jpeg_quality"); v != "" {
		q, err := strconv.Atoi(v)
		if err != nil || q < 0 || q > 100 {
			return s.fail(c, requestID, badRequest(CodeValidation, "jpeg_quality must be 0..100, got %q", v))
		}
		if q > 0 {
			quality = q
		}
	}
	compress, err := formBool(c, "compress")
	if err != nil {
		return s.fail(c, requestID, err)
	}

	cover, _, err := imaging.DecodeBytes(coverData)
	if err != nil {
		return s.fail(c, requestID, badRequest(CodeInvalidImage, "failed to load cover image: %v", err))
	}

	embedded := message
	if compress {
		embedded = payload.Compress(message)
	}

	out, res, err := imaging.Embed(cover, embedded)
	if err != nil {
		return s.fail(c, requestID, err)
	}

	var buf bytes.Buffer
	if err := imaging.Encode(&buf, out, format, quality); err != nil {
		return s.fail(c, requestID, err)
	}
	ext := imaging.Extension(format)
	imageID, err := s.store.Put(buf.Bytes(), ext)
	if err != nil {
		return s.fail(c, requestID, err)
	}

	resp := EncodeResponse{
		RequestID:   requestID,
		Status:      "success",
		ImageID:     imageID,
		DownloadURL: "/api/images/" + imageID,
		Compressed:  compress,
		Metadata: ImageMetadata{
			Width:                out.Bounds().Dx(),
			Height:               out.Bounds().Dy(),
			Format:               ext,
			SizeBytes:            buf.Len(),
			MaxMessageBytes:      res.Capacity,
			EmbeddedMessageBytes: &res.MessageBytes,
		},
	}
	if !imaging.IsLossless(format) {
		resp.Warning = ext + " output is lossy; the hidden message will not survive"
		s.log.Warn("lossy output format", "request_id", requestID, "format", ext)
	}

	s.log.Info("message embedded",
		"request_id", requestID, "image_id", imageID,
		"bytes", len(embedded), "capacity", res.Capacity, "pixels_changed", res.PixelsChanged)
	return c.JSON(http.StatusOK, resp)
}

func (s *Server) handleDecode(c *echo.Context) error {
	requestID := uuid.NewString()
	s.limitBody(c, s.cfg.MaxImageBytes)

	data, err := s.readFile(c, "stego_image", s.cfg.MaxImageBytes)
	if err != nil {
		return s.fail(c, requestID, err)
	}
	decompress, err := formBool(c, "decompress")
	if err != nil {
		return s.fail(c, requestID, err)
	}

	img, _, err := imaging.DecodeBytes(data)
	if err != nil {
		return s.fail(c, requestID, badRequest(CodeInvalidImage, "failed to load stego image: %v", err))
	}
	message, err := imaging.Extract(img)
	if err != nil {
		return s.fail(c, requestID, err)
	}
	if decompress {
		if message, err = s.codec.Decompress(message); err != nil {
			return s.fail(c, requestID, err)
		}
	}

	resp := DecodeResponse{
		RequestID:     requestID,
		Status:        "success",
		BinaryMessage: base64.StdEncoding.EncodeToString(message),
		MessageLength: len(message),
	}
	if utf8.Valid(message) {
		text := string(message)
		resp.Message = &text
	}

	s.log.Info("message extracted", "request_id", requestID, "bytes", len(message))
	return c.JSON(http.StatusOK, resp)
}

func (s *Server) handleCapacity(c *echo.Context) error {
	requestID := uuid.NewString()
	s.limitBody(c, s.cfg.MaxImageBytes)

	data, err := s.readFile(c, "cover_image", s.cfg.MaxImageBytes)
	if err != nil {
		return s.fail(c, requestID, err)
	}
	img, format, err := imaging.DecodeBytes(data)
	if err != nil {
		return s.fail(c, requestID, badRequest(CodeInvalidImage, "failed to load cover image: %v", err))
	}

	info := imaging.DescribeImage(img, format)
	return c.JSON(http.StatusOK, CapacityResponse{
		RequestID: requestID,
		Status:    "success",
		Metadata: ImageMetadata{
			Width:           info.Width,
			Height:          info.Height,
			Format:          info.Format,
			SizeBytes:       len(data),
			MaxMessageBytes: info.CapacityBytes,
		},
	})
}

func (s *Server) handleGetImage(c *echo.Context) error {
	requestID := uuid.NewString()

	img, err := s.store.Get(c.Param("id"))
	if errors.Is(err, ErrImageNotFound) {
		return s.fail(c, requestID, notFound("image %s not found", c.Param("id")))
	}
	if err != nil {
		return s.fail(c, requestID, err)
	}

	c.Response().Header().Set(echo.HeaderContentDisposition, `inline; filename="`+img.Filename+`"`)
	return c.Blob(http.StatusOK, img.MimeType, img.Data)
}

// limitBody caps the request body at the given payload size plus form
// overhead.
func (s *Server) limitBody(c *echo.Context, n int64) {
	req := c.Request()
	req.Body = http.MaxBytesReader(c.Response(), req.Body, n+formOverhead)
}

// readFile returns the contents of the multipart file field, rejecting
// anything larger than limit.
func (s *Server) readFile(c *echo.Context, field string, limit int64) ([]byte, error) {
	fh, err := c.FormFile(field)
	if err != nil {
		var mbe *http.MaxBytesError
		if errors.As(err, &mbe) {
			return nil, tooLarge("request exceeds maximum size of %d bytes", mbe.Limit)
		}
		return nil, badRequest(CodeValidation, "%s is required", field)
	}
	if fh.Size > limit {
		return nil, tooLarge("%s exceeds maximum size of %d bytes", field, limit)
	}

	f, err := fh.Open()
	if err != nil {
		return nil, err
	}
	defer f.Close()

	data, err := io.ReadAll(io.LimitReader(f, limit+1))
	if err != nil {
		return nil, err
	}
	if int64(len(data)) > limit {
		return nil, tooLarge("%s exceeds maximum size of %d bytes", field, limit)
	}
	return data, nil
}

// readMessage returns the text field "message" or the file "message_file".
// Exactly one must be present.
func (s *Server) readMessage(c *echo.Context) ([]byte, error) {
	text, hasText := formField(c, "message")
	_, fileErr := c.FormFile("message_file")
	hasFile := fileErr == nil

	var message []byte
	switch {
	case hasText && hasFile:
		return nil, badRequest(CodeValidation, "message and message_file are mutually exclusive")
	case hasText:
		message = []byte(text)
	case hasFile:
		data, err := s.readFile(c, "message_file", int64(s.cfg.MaxMessageBytes))
		if err != nil {
			var ae *apiError
			if errors.As(err, &ae) && ae.status == http.StatusRequestEntityTooLarge {
				return nil, badRequest(CodeMessageTooLarge, "message exceeds maximum size of %d bytes", s.cfg.MaxMessageBytes)
			}
			return nil, err
		}
		message = data
	default:
		return nil, badRequest(CodeValidation, "message or message_file is required")
	}

	if len(message) > s.cfg.MaxMessageBytes {
		return nil, badRequest(CodeMessageTooLarge, "message exceeds maximum size of %d bytes", s.cfg.MaxMessageBytes)
	}
	return message, nil
}

// formField reports whether the parsed multipart form carries name, which
// distinguishes an empty value from a missing one.
func formField(c *echo.Context, name string) (string, bool) {
	form := c.Request().MultipartForm
	if form == nil {
		return "", false
	}
	v, ok := form.Value[name]
	if !ok || len(v) == 0 {
		return "", false
	}
	return v[0], true
}

func formBool(c *echo.Context, name string) (bool, error) {
	v := c.FormValue(name)
	if v == "" {
		return false, nil
	}
	b, err := strconv.ParseBool(v)
	if err != nil {
		return false, badRequest(CodeValidation, "%s must be a boolean, got %q", name, v)
	}
	return b, nil
}
