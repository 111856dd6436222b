//
// Tencent is pleased to support the open source community by making trpc-chat-go available.
//
// Copyright (C) 2025 Tencent.  All rights reserved.
//
// trpc-chat-go is licensed under the Apache License Version 2.0.
//
//

// Package calculator provides a built-in tool that evaluates basic arithmetic
// expressions. Expressions are parsed with a small recursive-descent parser;
// nothing is ever passed to an interpreter, so arbitrary code cannot run.
package calculator

import (
	"fmt"
	"math"
	"strconv"
	"strings"

	"trpc.group/trpc-go/trpc-chat-go/tool"
	"trpc.group/trpc-go/trpc-chat-go/tool/function"
)

const (
	// toolName is the name the tool is registered and called under.
	toolName = "safe-arithmetic"
	// allowedChars is the set of characters an expression may contain.
	// Anything else is rejected before parsing.
	allowedChars = "0123456789+-*/()., "
)

// calcRequest is the input for the safe-arithmetic tool.
type calcRequest struct {
	Expression string `json:"expression" description:"A basic math expression like '2+2' or '10*5'"`
}

// calculatorTool evaluates arithmetic expressions.
type calculatorTool struct{}

// NewTool creates the safe-arithmetic tool.
func NewTool() tool.CallableTool {
	ct := &calculatorTool{}

	return function.NewFunctionTool(
		ct.calculate,
		function.WithName(toolName),
		function.WithDescription("Perform basic math calculations. Input should be "+
			"a valid math expression like '2+2' or '10*5'."),
	)
}

// calculate validates and evaluates the expression. Failures are reported as
// result text so the model can relay them to the user.
func (c *calculatorTool) calculate(req calcRequest) string {
	expression := strings.TrimSpace(req.Expression)
	for _, r := range expression {
		if !strings.ContainsRune(allowedChars, r) {
			return "Error: Only basic math operations are allowed"
		}
	}
	if expression == "" {
		return "Error calculating: empty expression"
	}

	value, err := evaluate(expression)
	if err != nil {
		return fmt.Sprintf("Error calculating: %v", err)
	}
	if math.IsInf(value, 0) || math.IsNaN(value) {
		return "Error calculating: result out of range"
	}
	return fmt.Sprintf("Result: %s", strconv.FormatFloat(value, 'f', -1, 64))
}
