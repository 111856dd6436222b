package tool

import (
	"encoding/json"
	"testing"
)

func TestDeclaration_JSON(t *testing.T) {
	decl := &Declaration{
		Name:        "safe-arithmetic",
		Description: "Evaluates arithmetic expressions",
		InputSchema: &Schema{
			Type:     "object",
			Required: []string{"expression"},
			Properties: map[string]*Schema{
				"expression": {Type: "string", Description: "The expression to evaluate"},
			},
		},
	}

	data, err := json.Marshal(decl)
	if err != nil {
		t.Fatalf("Marshal failed: %v", err)
	}

	var decoded map[string]any
	if err := json.Unmarshal(data, &decoded); err != nil {
		t.Fatalf("Unmarshal failed: %v", err)
	}

	if decoded["name"] != "safe-arithmetic" {
		t.Errorf("Expected name to be 'safe-arithmetic', got '%v'", decoded["name"])
	}
	if _, ok := decoded["inputSchema"]; !ok {
		t.Error("Expected 'inputSchema' key in declaration JSON")
	}
	if _, ok := decoded["outputSchema"]; ok {
		t.Error("Expected 'outputSchema' to be omitted when nil")
	}

	schema, ok := decoded["inputSchema"].(map[string]any)
	if !ok {
		t.Fatalf("Expected inputSchema to be an object, got %T", decoded["inputSchema"])
	}
	if schema["type"] != "object" {
		t.Errorf("Expected schema type 'object', got '%v'", schema["type"])
	}
}
