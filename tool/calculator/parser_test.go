//
// Tencent is pleased to support the open source community by making trpc-chat-go available.
//
// Copyright (C) 2025 Tencent.  All rights reserved.
//
// trpc-chat-go is licensed under the Apache License Version 2.0.
//
//

package calculator

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestEvaluate(t *testing.T) {
	tests := []struct {
		name string
		expr string
		want float64
	}{
		{name: "simple addition", expr: "2+2", want: 4},
		{name: "multiplication", expr: "10*5", want: 50},
		{name: "precedence", expr: "2+3*4", want: 14},
		{name: "parentheses", expr: "(2+3)*4", want: 20},
		{name: "nested parentheses", expr: "((1+2)*(3+4))", want: 21},
		{name: "division", expr: "10/4", want: 2.5},
		{name: "left associative division", expr: "8/2/2", want: 2},
		{name: "left associative subtraction", expr: "10-3-2", want: 5},
		{name: "unary minus", expr: "-5+3", want: -2},
		{name: "double negation", expr: "--4", want: 4},
		{name: "unary plus", expr: "2++2", want: 4},
		{name: "negative in parentheses", expr: "2-(-3)", want: 5},
		{name: "decimal", expr: "0.5*4", want: 2},
		{name: "trailing dot number", expr: "1.", want: 1},
		{name: "leading dot number", expr: ".5", want: 0.5},
		{name: "whitespace", expr: "  2   +    2 ", want: 4},
		{name: "zero numerator", expr: "0/5", want: 0},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, err := evaluate(tt.expr)
			require.NoError(t, err, "evaluate(%q)", tt.expr)
			assert.InDelta(t, tt.want, got, 1e-9, "evaluate(%q)", tt.expr)
		})
	}
}

func TestEvaluate_FloatPrecision(t *testing.T) {
	got, err := evaluate("0.1+0.2")
	require.NoError(t, err)
	assert.InDelta(t, 0.3, got, 1e-9)
}

func TestEvaluate_Errors(t *testing.T) {
	tests := []struct {
		name    string
		expr    string
		wantErr string
	}{
		{name: "division by zero", expr: "1/0", wantErr: "division by zero"},
		{name: "division by computed zero", expr: "1/(2-2)", wantErr: "division by zero"},
		{name: "trailing operator", expr: "2+", wantErr: "unexpected end of expression"},
		{name: "lone operator", expr: "*", wantErr: "unexpected character"},
		{name: "missing close paren", expr: "(2+3", wantErr: "missing closing parenthesis"},
		{name: "stray close paren", expr: ")", wantErr: "unexpected character"},
		{name: "bare dot", expr: ".", wantErr: "unexpected character"},
		{name: "double dot number", expr: "1..2", wantErr: "unexpected character"},
		{name: "comma", expr: "1,2", wantErr: "unexpected character"},
		{name: "power operator", expr: "2**2", wantErr: "unexpected character"},
		{name: "adjacent numbers", expr: "1 2", wantErr: "unexpected character"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := evaluate(tt.expr)
			require.Error(t, err, "evaluate(%q)", tt.expr)
			assert.Contains(t, err.Error(), tt.wantErr)
		})
	}
}
