package server

// Tool represents an MCP tool definition
type Tool struct {
	Name        string                 `json:"name"`
	Description string                 `json:"description"`
	InputSchema map[string]interface{} `json:"inputSchema"`
}

// GetToolDefinitions returns all available tools
func GetToolDefinitions() []Tool {
	return []Tool{
		// Capacity and embedding
		{
			Name:        "stego_capacity",
			Description: "Load a cover image and report its dimensions, format and how many message bytes it can hide (3 bits per pixel minus an 8-byte header).",
			InputSchema: map[string]interface{}{
				"type": "object",
				"properties": map[string]interface{}{
					"path": map[string]interface{}{
						"type":        "string",
						"description": "Absolute path to the image file",
					},
				},
				"required": []string{"path"},
			},
		},
		{
			Name:        "stego_encode",
			Description: "Hide a message in a cover image and write the stego image. The output format follows the output_path extension; use .png, .bmp or .tiff, since JPEG and GIF destroy the hidden bits.",
			InputSchema: map[string]interface{}{
				"type": "object",
				"properties": map[string]interface{}{
					"path": map[string]interface{}{
						"type":        "string",
						"description": "Absolute path to the cover image",
					},
					"output_path": map[string]interface{}{
						"type":        "string",
						"description": "Absolute path for the stego image",
					},
					"message": map[string]interface{}{
						"type":        "string",
						"description": "Text message to hide (UTF-8). Mutually exclusive with message_base64.",
					},
					"message_base64": map[string]interface{}{
						"type":        "string",
						"description": "Binary message to hide, base64 encoded. Mutually exclusive with message.",
					},
					"compress": map[string]interface{}{
						"type":        "boolean",
						"description": "Compress the message with zstd before hiding it. Default false",
						"default":     false,
					},
					"jpeg_quality": map[string]interface{}{
						"type":        "integer",
						"description": "JPEG quality 1-100 when output_path ends in .jpg. Default 90",
						"default":     90,
					},
				},
				"required": []string{"path", "output_path"},
			},
		},
		{
			Name:        "stego_decode",
			Description: "Extract the hidden message from a stego image. Returns the message as text when it is valid UTF-8, and always as base64.",
			InputSchema: map[string]interface{}{
				"type": "object",
				"properties": map[string]interface{}{
					"path": map[string]interface{}{
						"type":        "string",
						"description": "Absolute path to the stego image",
					},
					"decompress": map[string]interface{}{
						"type":        "boolean",
						"description": "Decompress the extracted message with zstd. Default false",
						"default":     false,
					},
				},
				"required": []string{"path"},
			},
		},

		// Forensics
		{
			Name:        "stego_inspect_header",
			Description: "Read the 8-byte message header from the first 22 pixels without validating it. Useful to see why decoding fails.",
			InputSchema: map[string]interface{}{
				"type": "object",
				"properties": map[string]interface{}{
					"path": map[string]interface{}{
						"type":        "string",
						"description": "Absolute path to the image file",
					},
				},
				"required": []string{"path"},
			},
		},
		{
			Name:        "stego_extract_raw",
			Description: "Decode the bits of every pixel and return them as raw bytes, ignoring the header. Includes a hex and binary preview.",
			InputSchema: map[string]interface{}{
				"type": "object",
				"properties": map[string]interface{}{
					"path": map[string]interface{}{
						"type":        "string",
						"description": "Absolute path to the image file",
					},
					"preview_bytes": map[string]interface{}{
						"type":        "integer",
						"description": "Number of bytes shown in the preview. Default 64",
						"default":     64,
					},
				},
				"required": []string{"path"},
			},
		},
		{
			Name:        "stego_sample_pixel",
			Description: "Show one pixel's color, its RGB least significant bits and the 3 message bits it carries.",
			InputSchema: map[string]interface{}{
				"type": "object",
				"properties": map[string]interface{}{
					"path": map[string]interface{}{
						"type":        "string",
						"description": "Absolute path to the image file",
					},
					"x": map[string]interface{}{
						"type":        "integer",
						"description": "X coordinate (0-based)",
					},
					"y": map[string]interface{}{
						"type":        "integer",
						"description": "Y coordinate (0-based)",
					},
				},
				"required": []string{"path", "x", "y"},
			},
		},
		{
			Name:        "stego_compare",
			Description: "Compare a cover image with its stego version: changed pixels and channels, PSNR, maximum color distance, and whether only least significant bits differ.",
			InputSchema: map[string]interface{}{
				"type": "object",
				"properties": map[string]interface{}{
					"cover_path": map[string]interface{}{
						"type":        "string",
						"description": "Absolute path to the original cover image",
					},
					"stego_path": map[string]interface{}{
						"type":        "string",
						"description": "Absolute path to the stego image",
					},
					"include_diff_image": map[string]interface{}{
						"type":        "boolean",
						"description": "Also return a base64 PNG marking every changed channel. Default false",
						"default":     false,
					},
				},
				"required": []string{"cover_path", "stego_path"},
			},
		},
	}
}

// handleToolsList returns the list of available tools
func (s *Server) handleToolsList(req *MCPRequest) *MCPResponse {
	return &MCPResponse{
		JSONRPC: "2.0",
		ID:      req.ID,
		Result: map[string]interface{}{
			"tools": GetToolDefinitions(),
		},
	}
}
