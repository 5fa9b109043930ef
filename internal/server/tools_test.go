package server

import (
	"testing"
)

func TestGetToolDefinitions(t *testing.T) {
	tools := GetToolDefinitions()

	if len(tools) == 0 {
		t.Fatal("GetToolDefinitions returned empty slice")
	}

	expectedTools := []string{
		"stego_capacity",
		"stego_encode",
		"stego_decode",
		"stego_inspect_header",
		"stego_extract_raw",
		"stego_sample_pixel",
		"stego_compare",
	}

	toolMap := make(map[string]Tool)
	for _, tool := range tools {
		toolMap[tool.Name] = tool
	}

	for _, name := range expectedTools {
		if _, ok := toolMap[name]; !ok {
			t.Errorf("Expected tool %s not found", name)
		}
	}
	if len(tools) != len(expectedTools) {
		t.Errorf("tool count: got %d, want %d", len(tools), len(expectedTools))
	}
}

func TestToolDefinitions_Structure(t *testing.T) {
	tools := GetToolDefinitions()

	for _, tool := range tools {
		t.Run(tool.Name, func(t *testing.T) {
			if tool.Name == "" {
				t.Error("Tool name is empty")
			}
			if tool.Description == "" {
				t.Error("Tool description is empty")
			}
			if tool.InputSchema == nil {
				t.Fatal("Tool InputSchema is nil")
			}

			if schemaType := tool.InputSchema["type"]; schemaType != "object" {
				t.Errorf("InputSchema type: got %v, want 'object'", schemaType)
			}

			props, ok := tool.InputSchema["properties"].(map[string]interface{})
			if !ok {
				t.Fatal("InputSchema properties should be a map")
			}

			// Every required field must be declared
			required, _ := tool.InputSchema["required"].([]string)
			for _, name := range required {
				if _, ok := props[name]; !ok {
					t.Errorf("required field %s not in properties", name)
				}
			}
		})
	}
}

func TestToolDefinitions_UniqueNames(t *testing.T) {
	seen := make(map[string]bool)
	for _, tool := range GetToolDefinitions() {
		if seen[tool.Name] {
			t.Errorf("duplicate tool name: %s", tool.Name)
		}
		seen[tool.Name] = true
	}
}

func TestToolDefinitions_RequiredFields(t *testing.T) {
	tests := []struct {
		tool     string
		required []string
	}{
		{"stego_capacity", []string{"path"}},
		{"stego_encode", []string{"path", "output_path"}},
		{"stego_decode", []string{"path"}},
		{"stego_inspect_header", []string{"path"}},
		{"stego_extract_raw", []string{"path"}},
		{"stego_sample_pixel", []string{"path", "x", "y"}},
		{"stego_compare", []string{"cover_path", "stego_path"}},
	}

	toolMap := make(map[string]Tool)
	for _, tool := range GetToolDefinitions() {
		toolMap[tool.Name] = tool
	}

	for _, tt := range tests {
		t.Run(tt.tool, func(t *testing.T) {
			tool, ok := toolMap[tt.tool]
			if !ok {
				t.Fatalf("tool %s missing", tt.tool)
			}
			required, _ := tool.InputSchema["required"].([]string)
			if len(required) != len(tt.required) {
				t.Fatalf("required: got %v, want %v", required, tt.required)
			}
			for i := range required {
				if required[i] != tt.required[i] {
					t.Errorf("required[%d]: got %s, want %s", i, required[i], tt.required[i])
				}
			}
		})
	}
}
