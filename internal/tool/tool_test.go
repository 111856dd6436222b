//
// Tencent is pleased to support the open source community by making trpc-chat-go available.
//
// Copyright (C) 2025 Tencent.  All rights reserved.
//
// trpc-chat-go is licensed under the Apache License Version 2.0.
//
//

package tool_test

import (
	"reflect"
	"testing"

	itool "trpc.group/trpc-go/trpc-chat-go/internal/tool"
	"trpc.group/trpc-go/trpc-chat-go/tool"
)

func TestGenerateJSONSchema_Primitives(t *testing.T) {
	tests := []struct {
		name     string
		input    any
		expected *tool.Schema
	}{
		{
			name:     "string type",
			input:    "",
			expected: &tool.Schema{Type: "string"},
		},
		{
			name:     "integer type",
			input:    int(0),
			expected: &tool.Schema{Type: "integer"},
		},
		{
			name:     "unsigned integer type",
			input:    uint(0),
			expected: &tool.Schema{Type: "integer"},
		},
		{
			name:     "float type",
			input:    float64(0),
			expected: &tool.Schema{Type: "number"},
		},
		{
			name:     "boolean type",
			input:    false,
			expected: &tool.Schema{Type: "boolean"},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := itool.GenerateJSONSchema(reflect.TypeOf(tt.input))
			if got.Type != tt.expected.Type {
				t.Errorf("GenerateJSONSchema() type = %q, want %q", got.Type, tt.expected.Type)
			}
		})
	}
}

func TestGenerateJSONSchema_Struct(t *testing.T) {
	type args struct {
		Expression string   `json:"expression" description:"The arithmetic expression to evaluate"`
		Precision  *int     `json:"precision,omitempty"`
		Tags       []string `json:"tags,omitempty"`
		Internal   string   `json:"-"`
		hidden     bool
	}

	schema := itool.GenerateJSONSchema(reflect.TypeOf(args{}))

	if schema.Type != "object" {
		t.Fatalf("expected object type, got %q", schema.Type)
	}

	// Field marked json:"-" and unexported fields are skipped.
	if _, ok := schema.Properties["Internal"]; ok {
		t.Error("expected Internal to be skipped")
	}
	if _, ok := schema.Properties["hidden"]; ok {
		t.Error("expected unexported field to be skipped")
	}

	expr := schema.Properties["expression"]
	if expr == nil || expr.Type != "string" {
		t.Fatalf("expected expression property of type string, got %+v", expr)
	}
	if expr.Description != "The arithmetic expression to evaluate" {
		t.Errorf("expected description tag to be picked up, got %q", expr.Description)
	}

	precision := schema.Properties["precision"]
	if precision == nil || precision.Type != "integer,null" {
		t.Fatalf("expected precision property of type integer,null, got %+v", precision)
	}

	tags := schema.Properties["tags"]
	if tags == nil || tags.Type != "array" || tags.Items == nil || tags.Items.Type != "string" {
		t.Fatalf("expected tags to be array of strings, got %+v", tags)
	}

	// Only non-pointer fields without omitempty are required.
	if len(schema.Required) != 1 || schema.Required[0] != "expression" {
		t.Errorf("expected required = [expression], got %v", schema.Required)
	}
}

func TestGenerateJSONSchema_NestedAndMap(t *testing.T) {
	type inner struct {
		City string `json:"city" description:"City name"`
	}
	type outer struct {
		Location inner          `json:"location"`
		Extra    map[string]int `json:"extra,omitempty"`
	}

	schema := itool.GenerateJSONSchema(reflect.TypeOf(outer{}))

	loc := schema.Properties["location"]
	if loc == nil || loc.Type != "object" {
		t.Fatalf("expected nested object schema, got %+v", loc)
	}
	if loc.Properties["city"] == nil || loc.Properties["city"].Type != "string" {
		t.Fatalf("expected nested city property, got %+v", loc.Properties["city"])
	}
	if loc.Properties["city"].Description != "City name" {
		t.Errorf("expected nested description tag, got %q", loc.Properties["city"].Description)
	}

	extra := schema.Properties["extra"]
	if extra == nil || extra.Type != "object" {
		t.Fatalf("expected map schema of type object, got %+v", extra)
	}
	itemSchema, ok := extra.AdditionalProperties.(*tool.Schema)
	if !ok || itemSchema.Type != "integer" {
		t.Fatalf("expected additionalProperties integer schema, got %+v", extra.AdditionalProperties)
	}
}
