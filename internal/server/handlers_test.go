package server

import (
	"encoding/base64"
	"image"
	"image/color"
	"image/png"
	"math/rand"
	"os"
	"path/filepath"
	"strings"
	"testing"

	json "github.com/goccy/go-json"

	"github.com/ironsheep/image-stego-mcp/internal/imaging"
	"github.com/ironsheep/image-stego-mcp/internal/payload"
)

// createTestImageFile writes a noise PNG and returns its path
func createTestImageFile(t *testing.T, width, height int) string {
	t.Helper()

	rng := rand.New(rand.NewSource(int64(width*7919 + height)))
	img := image.NewNRGBA(image.Rect(0, 0, width, height))
	for y := 0; y < height; y++ {
		for x := 0; x < width; x++ {
			img.SetNRGBA(x, y, color.NRGBA{
				R: uint8(rng.Intn(256)),
				G: uint8(rng.Intn(256)),
				B: uint8(rng.Intn(256)),
				A: 255,
			})
		}
	}
	return writeTestPNG(t, img)
}

func createSolidImageFile(t *testing.T, width, height int, c color.Color) string {
	t.Helper()
	img := image.NewNRGBA(image.Rect(0, 0, width, height))
	for y := 0; y < height; y++ {
		for x := 0; x < width; x++ {
			img.Set(x, y, c)
		}
	}
	return writeTestPNG(t, img)
}

func writeTestPNG(t *testing.T, img image.Image) string {
	t.Helper()
	f, err := os.CreateTemp(t.TempDir(), "handler-test-*.png")
	if err != nil {
		t.Fatalf("failed to create temp file: %v", err)
	}
	defer f.Close()
	if err := png.Encode(f, img); err != nil {
		t.Fatalf("failed to encode image: %v", err)
	}
	return f.Name()
}

// callTool issues a tools/call request through handleRequest
func callTool(t *testing.T, s *Server, name string, args map[string]interface{}) *MCPResponse {
	t.Helper()
	params, err := json.Marshal(map[string]interface{}{
		"name":      name,
		"arguments": args,
	})
	if err != nil {
		t.Fatalf("failed to marshal params: %v", err)
	}
	resp := s.handleRequest(&MCPRequest{JSONRPC: "2.0", ID: 1, Method: "tools/call", Params: params})
	if resp == nil {
		t.Fatal("handleRequest returned nil")
	}
	return resp
}

// decodeToolResult unmarshals the text content of a successful tool call
func decodeToolResult(t *testing.T, resp *MCPResponse, v interface{}) {
	t.Helper()
	if resp.Error != nil {
		t.Fatalf("Unexpected error: %+v", resp.Error)
	}
	result, ok := resp.Result.(map[string]interface{})
	if !ok {
		t.Fatal("Result should be a map")
	}
	content, ok := result["content"].([]map[string]interface{})
	if !ok || len(content) != 1 {
		t.Fatalf("content: got %#v", result["content"])
	}
	if content[0]["type"] != "text" {
		t.Errorf("content type: got %v", content[0]["type"])
	}
	text, _ := content[0]["text"].(string)
	if err := json.Unmarshal([]byte(text), v); err != nil {
		t.Fatalf("result is not JSON: %v\n%s", err, text)
	}
}

func wantToolError(t *testing.T, resp *MCPResponse, kind string) {
	t.Helper()
	if resp.Error == nil {
		t.Fatalf("expected %s error, got result %+v", kind, resp.Result)
	}
	if resp.Error.Code != -32000 {
		t.Errorf("Error code: got %d, want -32000", resp.Error.Code)
	}
	data, _ := resp.Error.Data.(string)
	if !strings.HasPrefix(data, kind+": ") {
		t.Errorf("Error data: got %q, want prefix %q", data, kind)
	}
}

func TestHandleToolsCall_InvalidParams(t *testing.T) {
	s := newTestServer(t)
	resp := s.handleToolsCall(&MCPRequest{JSONRPC: "2.0", ID: 1, Params: json.RawMessage(`[1,2`)})
	if resp.Error == nil || resp.Error.Code != -32602 {
		t.Fatalf("expected -32602, got %+v", resp.Error)
	}
}

func TestHandleToolsCall_UnknownTool(t *testing.T) {
	s := newTestServer(t)
	wantToolError(t, callTool(t, s, "image_crop", nil), "validation_error")
}

func TestStegoCapacity(t *testing.T) {
	s := newTestServer(t)
	path := createTestImageFile(t, 200, 150)

	var info imaging.ImageInfo
	decodeToolResult(t, callTool(t, s, "stego_capacity", map[string]interface{}{"path": path}), &info)

	if info.Width != 200 || info.Height != 150 {
		t.Errorf("dimensions: got %dx%d", info.Width, info.Height)
	}
	if info.CapacityBytes != 11242 {
		t.Errorf("CapacityBytes: got %d, want 11242", info.CapacityBytes)
	}
	if info.Format != "png" || !info.Lossless {
		t.Errorf("format: got %s lossless=%v", info.Format, info.Lossless)
	}
}

func TestStegoCapacity_Errors(t *testing.T) {
	s := newTestServer(t)

	wantToolError(t, callTool(t, s, "stego_capacity", map[string]interface{}{}), "validation_error")
	wantToolError(t, callTool(t, s, "stego_capacity", map[string]interface{}{"path": "/nonexistent/image.png"}), "internal_error")
}

func TestStegoEncodeDecode_Text(t *testing.T) {
	s := newTestServer(t)
	cover := createTestImageFile(t, 64, 64)
	out := filepath.Join(t.TempDir(), "stego.png")

	var enc EncodeToolResult
	decodeToolResult(t, callTool(t, s, "stego_encode", map[string]interface{}{
		"path":        cover,
		"output_path": out,
		"message":     "Hello, World!",
	}), &enc)

	if enc.MessageBytes != 13 || enc.EmbeddedBytes != 13 {
		t.Errorf("bytes: got %d / %d", enc.MessageBytes, enc.EmbeddedBytes)
	}
	if enc.Format != "png" || enc.Warning != "" {
		t.Errorf("format: got %s warning %q", enc.Format, enc.Warning)
	}
	// (8 + 13) * 8 = 168 bits -> 56 pixels
	if enc.PixelsUsed != 56 {
		t.Errorf("PixelsUsed: got %d, want 56", enc.PixelsUsed)
	}
	if enc.CapacityBytes != 64*64*3/8-8 {
		t.Errorf("CapacityBytes: got %d", enc.CapacityBytes)
	}

	var dec DecodeToolResult
	decodeToolResult(t, callTool(t, s, "stego_decode", map[string]interface{}{"path": out}), &dec)

	if !dec.IsText || dec.Text != "Hello, World!" {
		t.Errorf("decoded text: got %q (is_text=%v)", dec.Text, dec.IsText)
	}
	if dec.Length != 13 {
		t.Errorf("Length: got %d", dec.Length)
	}
	if dec.Base64 != base64.StdEncoding.EncodeToString([]byte("Hello, World!")) {
		t.Errorf("Base64: got %s", dec.Base64)
	}
}

func TestStegoEncodeDecode_Binary(t *testing.T) {
	s := newTestServer(t)
	cover := createTestImageFile(t, 40, 40)
	out := filepath.Join(t.TempDir(), "stego.bmp")

	msg := []byte{0x00, 0xFF, 0x80, 0xFE, 0x01}
	var enc EncodeToolResult
	decodeToolResult(t, callTool(t, s, "stego_encode", map[string]interface{}{
		"path":           cover,
		"output_path":    out,
		"message_base64": base64.StdEncoding.EncodeToString(msg),
	}), &enc)
	if enc.Format != "bmp" {
		t.Errorf("Format: got %s", enc.Format)
	}

	var dec DecodeToolResult
	decodeToolResult(t, callTool(t, s, "stego_decode", map[string]interface{}{"path": out}), &dec)
	if dec.IsText {
		t.Error("binary message reported as text")
	}
	got, _ := base64.StdEncoding.DecodeString(dec.Base64)
	if string(got) != string(msg) {
		t.Errorf("message: got %v, want %v", got, msg)
	}
}

func TestStegoEncodeDecode_Compressed(t *testing.T) {
	s := newTestServer(t)
	cover := createTestImageFile(t, 64, 64)
	out := filepath.Join(t.TempDir(), "stego.png")
	msg := strings.Repeat("steganography ", 100)

	var enc EncodeToolResult
	decodeToolResult(t, callTool(t, s, "stego_encode", map[string]interface{}{
		"path":        cover,
		"output_path": out,
		"message":     msg,
		"compress":    true,
	}), &enc)

	if !enc.Compressed || enc.EmbeddedBytes >= enc.MessageBytes {
		t.Errorf("compression not applied: %+v", enc)
	}

	var raw DecodeToolResult
	decodeToolResult(t, callTool(t, s, "stego_decode", map[string]interface{}{"path": out}), &raw)
	if !raw.LooksCompressed {
		t.Error("undecompressed payload should be flagged as compressed")
	}

	var dec DecodeToolResult
	decodeToolResult(t, callTool(t, s, "stego_decode", map[string]interface{}{"path": out, "decompress": true}), &dec)
	if dec.Text != msg {
		t.Errorf("decompressed text mismatch: got %d bytes", len(dec.Text))
	}
}

func TestStegoEncode_OverwriteEvictsCache(t *testing.T) {
	s := newTestServer(t)
	cover := createTestImageFile(t, 32, 32)
	out := filepath.Join(t.TempDir(), "stego.png")

	for _, msg := range []string{"first", "second"} {
		decodeToolResult(t, callTool(t, s, "stego_encode", map[string]interface{}{
			"path": cover, "output_path": out, "message": msg,
		}), &EncodeToolResult{})

		var dec DecodeToolResult
		decodeToolResult(t, callTool(t, s, "stego_decode", map[string]interface{}{"path": out}), &dec)
		if dec.Text != msg {
			t.Errorf("decode after encode: got %q, want %q", dec.Text, msg)
		}
	}
}

func TestStegoEncode_LossyWarning(t *testing.T) {
	s := newTestServer(t)
	cover := createTestImageFile(t, 32, 32)
	out := filepath.Join(t.TempDir(), "stego.jpg")

	var enc EncodeToolResult
	decodeToolResult(t, callTool(t, s, "stego_encode", map[string]interface{}{
		"path":         cover,
		"output_path":  out,
		"message":      "hi",
		"jpeg_quality": 95,
	}), &enc)

	if enc.Format != "jpg" {
		t.Errorf("Format: got %s", enc.Format)
	}
	if enc.Warning == "" {
		t.Error("expected lossy warning for JPEG output")
	}
	if _, err := os.Stat(out); err != nil {
		t.Errorf("output not written: %v", err)
	}
}

func TestStegoEncode_Errors(t *testing.T) {
	s := newTestServer(t)
	cover := createTestImageFile(t, 10, 10)
	dir := t.TempDir()

	tests := []struct {
		name string
		args map[string]interface{}
		kind string
	}{
		{
			"missing output path",
			map[string]interface{}{"path": cover, "message": "x"},
			"validation_error",
		},
		{
			"no message",
			map[string]interface{}{"path": cover, "output_path": filepath.Join(dir, "a.png")},
			"validation_error",
		},
		{
			"both messages",
			map[string]interface{}{"path": cover, "output_path": filepath.Join(dir, "b.png"), "message": "x", "message_base64": "eA=="},
			"validation_error",
		},
		{
			"bad base64",
			map[string]interface{}{"path": cover, "output_path": filepath.Join(dir, "c.png"), "message_base64": "!!"},
			"validation_error",
		},
		{
			"unsupported extension",
			map[string]interface{}{"path": cover, "output_path": filepath.Join(dir, "d.xyz"), "message": "x"},
			"validation_error",
		},
		{
			// 10x10 holds 29 bytes
			"too large for cover",
			map[string]interface{}{"path": cover, "output_path": filepath.Join(dir, "e.png"), "message": strings.Repeat("x", 30)},
			"message_too_large",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			wantToolError(t, callTool(t, s, "stego_encode", tt.args), tt.kind)
		})
	}
}

func TestStegoEncode_ServerLimit(t *testing.T) {
	s, err := New(Options{MaxMessageBytes: 4})
	if err != nil {
		t.Fatalf("New failed: %v", err)
	}
	defer s.Close()

	cover := createTestImageFile(t, 32, 32)
	resp := callTool(t, s, "stego_encode", map[string]interface{}{
		"path": cover, "output_path": filepath.Join(t.TempDir(), "out.png"), "message": "hello",
	})
	wantToolError(t, resp, "message_too_large")
}

func TestStegoDecode_Errors(t *testing.T) {
	s := newTestServer(t)

	// All-zero LSBs decode to format version 0
	black := createSolidImageFile(t, 20, 20, color.Black)
	wantToolError(t, callTool(t, s, "stego_decode", map[string]interface{}{"path": black}), "validation_error")

	tiny := createSolidImageFile(t, 2, 2, color.White)
	wantToolError(t, callTool(t, s, "stego_decode", map[string]interface{}{"path": tiny}), "no_message_found")
}

func TestStegoDecode_NotCompressed(t *testing.T) {
	s := newTestServer(t)
	cover := createTestImageFile(t, 32, 32)
	out := filepath.Join(t.TempDir(), "stego.png")

	decodeToolResult(t, callTool(t, s, "stego_encode", map[string]interface{}{
		"path": cover, "output_path": out, "message": "plain text",
	}), &EncodeToolResult{})

	wantToolError(t, callTool(t, s, "stego_decode", map[string]interface{}{"path": out, "decompress": true}), "validation_error")
	if payload.IsCompressed([]byte("plain text")) {
		t.Fatal("plain text should not look compressed")
	}
}

func TestStegoInspectHeader(t *testing.T) {
	s := newTestServer(t)
	cover := createTestImageFile(t, 32, 32)
	out := filepath.Join(t.TempDir(), "stego.png")

	decodeToolResult(t, callTool(t, s, "stego_encode", map[string]interface{}{
		"path": cover, "output_path": out, "message": "abc",
	}), &EncodeToolResult{})

	var h HeaderToolResult
	decodeToolResult(t, callTool(t, s, "stego_inspect_header", map[string]interface{}{"path": out}), &h)

	if h.Header.Version != 1 || h.Header.Length != 3 {
		t.Errorf("header: got %+v", h.Header)
	}
	if !h.VersionValid || !h.FitsInImage || !h.LikelyMessage {
		t.Errorf("flags: %+v", h)
	}
	// (8 + 3) * 8 = 88 bits -> 30 pixels
	if h.FramePixels != 30 {
		t.Errorf("FramePixels: got %d, want 30", h.FramePixels)
	}
	if h.HeaderPixels != 22 || h.ImagePixels != 1024 {
		t.Errorf("pixels: header %d image %d", h.HeaderPixels, h.ImagePixels)
	}
	if h.HeaderHex != "01 00 00 00 03 00 00 00" {
		t.Errorf("HeaderHex: got %q", h.HeaderHex)
	}
}

func TestStegoInspectHeader_NoMessage(t *testing.T) {
	s := newTestServer(t)
	black := createSolidImageFile(t, 20, 20, color.Black)

	var h HeaderToolResult
	decodeToolResult(t, callTool(t, s, "stego_inspect_header", map[string]interface{}{"path": black}), &h)
	if h.VersionValid || h.LikelyMessage {
		t.Errorf("all-zero header should not look valid: %+v", h)
	}
}

func TestStegoExtractRaw(t *testing.T) {
	s := newTestServer(t)
	path := createTestImageFile(t, 12, 12)

	var raw RawToolResult
	decodeToolResult(t, callTool(t, s, "stego_extract_raw", map[string]interface{}{
		"path":          path,
		"preview_bytes": 8,
	}), &raw)

	// 144 pixels * 3 bits = 432 bits = 54 bytes
	if raw.Length != 54 {
		t.Errorf("Length: got %d, want 54", raw.Length)
	}
	data, err := base64.StdEncoding.DecodeString(raw.Base64)
	if err != nil || len(data) != 54 {
		t.Errorf("Base64: %d bytes, err %v", len(data), err)
	}
	if !strings.Contains(raw.Preview, "Potential header:") || !strings.Contains(raw.Preview, "Binary view:") {
		t.Errorf("Preview: got %q", raw.Preview)
	}
}

func TestStegoSamplePixel(t *testing.T) {
	s := newTestServer(t)
	path := createSolidImageFile(t, 10, 10, color.NRGBA{123, 126, 135, 255})

	var px imaging.PixelSample
	decodeToolResult(t, callTool(t, s, "stego_sample_pixel", map[string]interface{}{
		"path": path, "x": 5, "y": 5,
	}), &px)

	if px.Hex != "#7b7e87" {
		t.Errorf("Hex: got %s", px.Hex)
	}
	if px.LSBs != "101" || px.Decoded != "110" {
		t.Errorf("bits: lsbs %s decoded %s", px.LSBs, px.Decoded)
	}
	if px.Index != 55 || px.InHeader {
		t.Errorf("Index %d InHeader %v", px.Index, px.InHeader)
	}

	wantToolError(t, callTool(t, s, "stego_sample_pixel", map[string]interface{}{
		"path": path, "x": 10, "y": 0,
	}), "validation_error")
}

func TestStegoCompare(t *testing.T) {
	s := newTestServer(t)
	cover := createTestImageFile(t, 40, 40)
	out := filepath.Join(t.TempDir(), "stego.png")

	decodeToolResult(t, callTool(t, s, "stego_encode", map[string]interface{}{
		"path": cover, "output_path": out, "message": "compare me",
	}), &EncodeToolResult{})

	var cmp imaging.CompareResult
	decodeToolResult(t, callTool(t, s, "stego_compare", map[string]interface{}{
		"cover_path":         cover,
		"stego_path":         out,
		"include_diff_image": true,
	}), &cmp)

	if cmp.Identical || cmp.PixelsChanged == 0 {
		t.Errorf("expected changes: %+v", cmp)
	}
	if !cmp.HighBitsPreserved || cmp.MaxChannelDelta != 1 {
		t.Errorf("only LSBs should change: %+v", cmp)
	}
	if cmp.DiffImageBase64 == "" {
		t.Error("diff image missing")
	}

	wantToolError(t, callTool(t, s, "stego_compare", map[string]interface{}{"cover_path": cover}), "validation_error")
}
