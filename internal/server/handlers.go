package server

import (
	"encoding/base64"
	"errors"
	"fmt"
	"path/filepath"
	"unicode/utf8"

	json "github.com/goccy/go-json"

	"github.com/ironsheep/image-stego-mcp/internal/imaging"
	"github.com/ironsheep/image-stego-mcp/internal/payload"
	"github.com/ironsheep/image-stego-mcp/internal/stego"
)

// ToolCallParams represents the parameters for a tools/call MCP request.
type ToolCallParams struct {
	// Name is the tool to invoke (e.g., "stego_encode").
	Name string `json:"name"`

	// Arguments contains the tool-specific parameters as JSON.
	Arguments json.RawMessage `json:"arguments"`
}

// handleToolsCall processes a tools/call request and executes the specified tool.
//
// The response wraps the tool result in MCP's content format:
//
//	{
//	  "content": [{"type": "text", "text": "<JSON result>"}]
//	}
//
// Tool execution errors return a JSON-RPC error response with code -32000
// whose data is "<error kind>: <error>".
func (s *Server) handleToolsCall(req *MCPRequest) *MCPResponse {
	var params ToolCallParams
	if err := json.Unmarshal(req.Params, &params); err != nil {
		return s.errorResponse(req.ID, -32602, "Invalid params", err.Error())
	}

	result, err := s.executeTool(params.Name, params.Arguments)
	if err != nil {
		kind := stego.Kind(err)
		s.log.Warn("tool failed", "tool", params.Name, "kind", kind, "error", err)
		return s.errorResponse(req.ID, -32000, "Tool execution failed", fmt.Sprintf("%s: %v", kind, err))
	}

	return &MCPResponse{
		JSONRPC: "2.0",
		ID:      req.ID,
		Result: map[string]interface{}{
			"content": []map[string]interface{}{
				{
					"type": "text",
					"text": mustMarshalJSON(result),
				},
			},
		},
	}
}

// executeTool dispatches tool execution to the appropriate handler function.
func (s *Server) executeTool(name string, args json.RawMessage) (interface{}, error) {
	switch name {
	case "stego_capacity":
		return s.handleStegoCapacity(args)
	case "stego_encode":
		return s.handleStegoEncode(args)
	case "stego_decode":
		return s.handleStegoDecode(args)

	case "stego_inspect_header":
		return s.handleStegoInspectHeader(args)
	case "stego_extract_raw":
		return s.handleStegoExtractRaw(args)
	case "stego_sample_pixel":
		return s.handleStegoSamplePixel(args)
	case "stego_compare":
		return s.handleStegoCompare(args)

	default:
		return nil, fmt.Errorf("%w: unknown tool: %s", stego.ErrInvalidParameters, name)
	}
}

// errorResponse creates a JSON-RPC error response with the given details.
func (s *Server) errorResponse(id interface{}, code int, message, data string) *MCPResponse {
	return &MCPResponse{
		JSONRPC: "2.0",
		ID:      id,
		Error: &MCPError{
			Code:    code,
			Message: message,
			Data:    data,
		},
	}
}

// mustMarshalJSON converts a value to pretty-printed JSON string.
// On marshal failure, returns an empty string.
func mustMarshalJSON(v interface{}) string {
	b, _ := json.MarshalIndent(v, "", "  ")
	return string(b)
}

// decodeArgs unmarshals tool arguments, reporting failures as invalid
// parameters.
func decodeArgs(args json.RawMessage, v interface{}) error {
	if len(args) == 0 {
		args = json.RawMessage("{}")
	}
	if err := json.Unmarshal(args, v); err != nil {
		return fmt.Errorf("%w: %v", stego.ErrInvalidParameters, err)
	}
	return nil
}

func requirePath(name, value string) error {
	if value == "" {
		return fmt.Errorf("%w: %s is required", stego.ErrInvalidParameters, name)
	}
	return nil
}

// === Capacity and Embedding Handlers ===

type pathArgs struct {
	Path string `json:"path"`
}

func (s *Server) handleStegoCapacity(args json.RawMessage) (interface{}, error) {
	var a pathArgs
	if err := decodeArgs(args, &a); err != nil {
		return nil, err
	}
	if err := requirePath("path", a.Path); err != nil {
		return nil, err
	}
	return imaging.LoadImageInfo(s.cache, a.Path)
}

type stegoEncodeArgs struct {
	Path          string  `json:"path"`
	OutputPath    string  `json:"output_path"`
	Message       *string `json:"message"`
	MessageBase64 *string `json:"message_base64"`
	Compress      bool    `json:"compress"`
	JPEGQuality   int     `json:"jpeg_quality"`
}

// EncodeToolResult is returned by stego_encode.
type EncodeToolResult struct {
	OutputPath    string `json:"output_path"`
	Format        string `json:"format"`
	MessageBytes  int    `json:"message_bytes"`
	EmbeddedBytes int    `json:"embedded_bytes"`
	Compressed    bool   `json:"compressed"`
	PixelsUsed    int    `json:"pixels_used"`
	PixelsChanged int    `json:"pixels_changed"`
	CapacityBytes int    `json:"capacity_bytes"`
	Warning       string `json:"warning,omitempty"`
}

func (s *Server) handleStegoEncode(args json.RawMessage) (interface{}, error) {
	var a stegoEncodeArgs
	if err := decodeArgs(args, &a); err != nil {
		return nil, err
	}
	if err := requirePath("path", a.Path); err != nil {
		return nil, err
	}
	if err := requirePath("output_path", a.OutputPath); err != nil {
		return nil, err
	}

	message, err := messageFromArgs(a.Message, a.MessageBase64)
	if err != nil {
		return nil, err
	}
	if len(message) > s.maxMessage {
		return nil, fmt.Errorf("%w: message is %d bytes, limit is %d", stego.ErrMessageTooLarge, len(message), s.maxMessage)
	}

	format, err := imaging.ParseFormat(filepath.Ext(a.OutputPath))
	if err != nil {
		return nil, err
	}

	cover, err := s.cache.Load(a.Path)
	if err != nil {
		return nil, err
	}

	embedded := message
	if a.Compress {
		embedded = payload.Compress(message)
	}

	out, res, err := imaging.Embed(cover, embedded)
	if err != nil {
		return nil, err
	}
	if err := imaging.Save(a.OutputPath, out, a.JPEGQuality); err != nil {
		return nil, err
	}
	s.cache.Evict(a.OutputPath)

	result := &EncodeToolResult{
		OutputPath:    a.OutputPath,
		Format:        imaging.Extension(format),
		MessageBytes:  len(message),
		EmbeddedBytes: len(embedded),
		Compressed:    a.Compress,
		PixelsUsed:    res.PixelsUsed,
		PixelsChanged: res.PixelsChanged,
		CapacityBytes: res.Capacity,
	}
	if !imaging.IsLossless(format) {
		result.Warning = fmt.Sprintf("%s output is lossy; the hidden message will not survive", imaging.Extension(format))
		s.log.Warn("lossy output format", "path", a.OutputPath, "format", result.Format)
	}

	s.log.Info("message embedded",
		"cover", a.Path, "output", a.OutputPath,
		"bytes", len(embedded), "capacity", res.Capacity, "pixels_changed", res.PixelsChanged)
	return result, nil
}

// messageFromArgs returns exactly one of the text or base64 message.
func messageFromArgs(text, b64 *string) ([]byte, error) {
	switch {
	case text != nil && b64 != nil:
		return nil, fmt.Errorf("%w: message and message_base64 are mutually exclusive", stego.ErrInvalidParameters)
	case text != nil:
		return []byte(*text), nil
	case b64 != nil:
		data, err := base64.StdEncoding.DecodeString(*b64)
		if err != nil {
			return nil, fmt.Errorf("%w: message_base64: %v", stego.ErrInvalidParameters, err)
		}
		return data, nil
	default:
		return nil, fmt.Errorf("%w: message or message_base64 is required", stego.ErrInvalidParameters)
	}
}

type stegoDecodeArgs struct {
	Path       string `json:"path"`
	Decompress bool   `json:"decompress"`
}

// DecodeToolResult is returned by stego_decode.
type DecodeToolResult struct {
	Length          int    `json:"length"`
	Text            string `json:"text,omitempty"`
	IsText          bool   `json:"is_text"`
	Base64          string `json:"base64"`
	Decompressed    bool   `json:"decompressed"`
	LooksCompressed bool   `json:"looks_compressed,omitempty"`
}

func (s *Server) handleStegoDecode(args json.RawMessage) (interface{}, error) {
	var a stegoDecodeArgs
	if err := decodeArgs(args, &a); err != nil {
		return nil, err
	}
	if err := requirePath("path", a.Path); err != nil {
		return nil, err
	}

	img, err := s.cache.Load(a.Path)
	if err != nil {
		return nil, err
	}
	message, err := imaging.Extract(img)
	if err != nil {
		return nil, err
	}

	result := &DecodeToolResult{Decompressed: a.Decompress}
	if a.Decompress {
		if message, err = s.codec.Decompress(message); err != nil {
			return nil, err
		}
	} else {
		result.LooksCompressed = payload.IsCompressed(message)
	}

	result.Length = len(message)
	result.Base64 = base64.StdEncoding.EncodeToString(message)
	if utf8.Valid(message) {
		result.Text = string(message)
		result.IsText = true
	}

	s.log.Info("message extracted", "path", a.Path, "bytes", len(message))
	return result, nil
}

// === Forensics Handlers ===

// HeaderToolResult is returned by stego_inspect_header.
type HeaderToolResult struct {
	Header        stego.Header `json:"header"`
	VersionValid  bool         `json:"version_valid"`
	FramePixels   uint64       `json:"frame_pixels"`
	ImagePixels   int          `json:"image_pixels"`
	FitsInImage   bool         `json:"fits_in_image"`
	CapacityBytes int          `json:"capacity_bytes"`
	LikelyMessage bool         `json:"likely_message"`
	HeaderPixels  int          `json:"header_pixels"`
	HeaderHex     string       `json:"header_hex"`
}

func (s *Server) handleStegoInspectHeader(args json.RawMessage) (interface{}, error) {
	var a pathArgs
	if err := decodeArgs(args, &a); err != nil {
		return nil, err
	}
	if err := requirePath("path", a.Path); err != nil {
		return nil, err
	}

	img, err := s.cache.Load(a.Path)
	if err != nil {
		return nil, err
	}
	h, err := imaging.PeekHeader(img)
	if err != nil {
		return nil, err
	}

	pixels := img.Bounds().Dx() * img.Bounds().Dy()
	fits := h.FramePixels() <= uint64(pixels)
	valid := h.Version == stego.FormatVersion
	return &HeaderToolResult{
		Header:        h,
		VersionValid:  valid,
		FramePixels:   h.FramePixels(),
		ImagePixels:   pixels,
		FitsInImage:   fits,
		CapacityBytes: imaging.CoverCapacity(img),
		LikelyMessage: valid && fits,
		HeaderPixels:  stego.HeaderPixels,
		HeaderHex:     fmt.Sprintf("% X", h.Bytes()),
	}, nil
}

type stegoExtractRawArgs struct {
	Path         string `json:"path"`
	PreviewBytes int    `json:"preview_bytes"`
}

// RawToolResult is returned by stego_extract_raw.
type RawToolResult struct {
	Length  int    `json:"length"`
	Base64  string `json:"base64"`
	Preview string `json:"preview"`
}

func (s *Server) handleStegoExtractRaw(args json.RawMessage) (interface{}, error) {
	var a stegoExtractRawArgs
	if err := decodeArgs(args, &a); err != nil {
		return nil, err
	}
	if err := requirePath("path", a.Path); err != nil {
		return nil, err
	}
	if a.PreviewBytes <= 0 {
		a.PreviewBytes = 64
	}

	img, err := s.cache.Load(a.Path)
	if err != nil {
		return nil, err
	}
	raw, err := imaging.ExtractRaw(img)
	if err != nil {
		return nil, err
	}

	return &RawToolResult{
		Length:  len(raw),
		Base64:  base64.StdEncoding.EncodeToString(raw),
		Preview: stego.FormatPreview(raw, a.PreviewBytes),
	}, nil
}

type stegoSamplePixelArgs struct {
	Path string `json:"path"`
	X    int    `json:"x"`
	Y    int    `json:"y"`
}

func (s *Server) handleStegoSamplePixel(args json.RawMessage) (interface{}, error) {
	var a stegoSamplePixelArgs
	if err := decodeArgs(args, &a); err != nil {
		return nil, err
	}
	if err := requirePath("path", a.Path); err != nil {
		return nil, err
	}
	img, err := s.cache.Load(a.Path)
	if err != nil {
		return nil, err
	}
	return imaging.SamplePixel(img, a.X, a.Y)
}

type stegoCompareArgs struct {
	CoverPath        string `json:"cover_path"`
	StegoPath        string `json:"stego_path"`
	IncludeDiffImage bool   `json:"include_diff_image"`
}

func (s *Server) handleStegoCompare(args json.RawMessage) (interface{}, error) {
	var a stegoCompareArgs
	if err := decodeArgs(args, &a); err != nil {
		return nil, err
	}
	if err := errors.Join(requirePath("cover_path", a.CoverPath), requirePath("stego_path", a.StegoPath)); err != nil {
		return nil, err
	}

	cover, err := s.cache.Load(a.CoverPath)
	if err != nil {
		return nil, err
	}
	stegoImg, err := s.cache.Load(a.StegoPath)
	if err != nil {
		return nil, err
	}

	res, err := imaging.Compare(cover, stegoImg)
	if err != nil {
		return nil, err
	}
	if a.IncludeDiffImage {
		if res.DiffImageBase64, err = imaging.DiffMapBase64(cover, stegoImg); err != nil {
			return nil, err
		}
	}
	return res, nil
}
