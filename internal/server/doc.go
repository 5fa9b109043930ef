// Package server implements the MCP (Model Context Protocol) server for the
// steganography tools.
//
// This package provides a JSON-RPC 2.0 server that exposes embedding,
// extraction and forensic inspection of BLTM stego images through the MCP
// protocol.
//
// # Protocol
//
// The server communicates over stdio using JSON-RPC 2.0:
//   - Input: JSON-RPC requests on stdin (one per line)
//   - Output: JSON-RPC responses on stdout
//
// Supported MCP methods:
//   - initialize: Protocol handshake
//   - tools/list: Enumerate available tools
//   - tools/call: Execute a tool with arguments
//   - ping: Health check
//
// # Available Tools
//
// Capacity and Embedding:
//   - stego_capacity: Image metadata and message capacity
//   - stego_encode: Hide a message and write the stego image
//   - stego_decode: Extract a hidden message
//
// Forensics:
//   - stego_inspect_header: Read the frame header without validating it
//   - stego_extract_raw: Decode every pixel as raw bytes
//   - stego_sample_pixel: Show one pixel's LSBs and decoded bits
//   - stego_compare: Compare a cover image with its stego version
//
// # Image Caching
//
// Images are cached by path and reused across tool calls. stego_encode
// evicts its output path so a later decode sees the new file.
//
// # Error Handling
//
// Tool execution errors are returned as JSON-RPC error responses with:
//   - code: -32000 (tool execution failure) or standard JSON-RPC codes
//   - message: "Tool execution failed"
//   - data: "<kind>: <error>", where kind is message_too_large,
//     no_message_found, validation_error or internal_error
//
// # Usage
//
//	srv, err := server.New(server.Options{Logger: log})
//	if err != nil {
//	    return err
//	}
//	defer srv.Close()
//	return srv.Run(ctx)
package server
