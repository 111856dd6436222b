//
// Tencent is pleased to support the open source community by making trpc-chat-go available.
//
// Copyright (C) 2025 Tencent.  All rights reserved.
//
// trpc-chat-go is licensed under the Apache License Version 2.0.
//
//

package calculator_test

import (
	"context"
	"encoding/json"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"trpc.group/trpc-go/trpc-chat-go/tool/calculator"
)

func callCalculator(t *testing.T, expression string) string {
	t.Helper()
	ct := calculator.NewTool()
	args, err := json.Marshal(map[string]string{"expression": expression})
	require.NoError(t, err)

	result, err := ct.Call(context.Background(), args)
	require.NoError(t, err, "tool call itself should never fail")

	text, ok := result.(string)
	require.True(t, ok, "result should be a string")
	return text
}

func TestNewTool_Declaration(t *testing.T) {
	ct := calculator.NewTool()
	decl := ct.Declaration()

	require.NotNil(t, decl)
	assert.Equal(t, "safe-arithmetic", decl.Name)
	assert.Contains(t, decl.Description, "math")
	require.NotNil(t, decl.InputSchema)
	assert.Equal(t, []string{"expression"}, decl.InputSchema.Required)
	require.Contains(t, decl.InputSchema.Properties, "expression")
	assert.Equal(t, "string", decl.InputSchema.Properties["expression"].Type)
}

func TestTool_Call_Results(t *testing.T) {
	tests := []struct {
		name string
		expr string
		want string
	}{
		{name: "integer result", expr: "2+2", want: "Result: 4"},
		{name: "multiplication", expr: "10*5", want: "Result: 50"},
		{name: "fractional result", expr: "10/4", want: "Result: 2.5"},
		{name: "negative result", expr: "3-10", want: "Result: -7"},
		{name: "parentheses", expr: "(1+2)*3", want: "Result: 9"},
		{name: "surrounding whitespace", expr: "  2+2  ", want: "Result: 4"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, callCalculator(t, tt.expr))
		})
	}
}

func TestTool_Call_RejectsDisallowedCharacters(t *testing.T) {
	tests := []struct {
		name string
		expr string
	}{
		{name: "caret", expr: "2^2"},
		{name: "letters", expr: "two plus two"},
		{name: "code injection attempt", expr: "__import__('os')"},
		{name: "equals sign", expr: "2+2=4"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, "Error: Only basic math operations are allowed",
				callCalculator(t, tt.expr))
		})
	}
}

func TestTool_Call_CalculationErrors(t *testing.T) {
	tests := []struct {
		name string
		expr string
		want string
	}{
		{name: "division by zero", expr: "1/0", want: "Error calculating: division by zero"},
		{name: "empty expression", expr: "", want: "Error calculating: empty expression"},
		{name: "spaces only", expr: "   ", want: "Error calculating: empty expression"},
		{name: "trailing operator", expr: "5*", want: "Error calculating: unexpected end of expression"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, callCalculator(t, tt.expr))
		})
	}
}

func TestTool_Call_CommaIsSyntaxError(t *testing.T) {
	// Comma passes the character check but is not part of the grammar.
	got := callCalculator(t, "1,2")
	assert.Contains(t, got, "Error calculating:")
	assert.Contains(t, got, "unexpected character")
}
