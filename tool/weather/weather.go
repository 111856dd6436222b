//
// Tencent is pleased to support the open source community by making trpc-chat-go available.
//
// Copyright (C) 2025 Tencent.  All rights reserved.
//
// trpc-chat-go is licensed under the Apache License Version 2.0.
//
//

// Package weather provides a built-in tool that returns canned weather reports.
// It performs no network access; swap it for a real provider integration when
// one is available.
package weather

import (
	"fmt"

	"trpc.group/trpc-go/trpc-chat-go/tool"
	"trpc.group/trpc-go/trpc-chat-go/tool/function"
)

// toolName is the name the tool is registered and called under.
const toolName = "mock-weather"

// weatherRequest is the input for the mock-weather tool.
type weatherRequest struct {
	Location string `json:"location" description:"The city or place to report weather for"`
}

// weatherTool returns a fixed mock report for any location.
type weatherTool struct{}

// NewTool creates the mock-weather tool.
func NewTool() tool.CallableTool {
	wt := &weatherTool{}

	return function.NewFunctionTool(
		wt.report,
		function.WithName(toolName),
		function.WithDescription("Get weather information for a location. This is "+
			"a mock function - in real use, integrate with a weather API."),
	)
}

// report renders the canned weather response for the requested location.
func (w *weatherTool) report(req weatherRequest) string {
	return fmt.Sprintf("Weather in %s: Sunny, 22°C (This is a mock response - "+
		"integrate with a real weather API)", req.Location)
}
