//
// Tencent is pleased to support the open source community by making trpc-chat-go available.
//
// Copyright (C) 2025 Tencent.  All rights reserved.
//
// trpc-chat-go is licensed under the Apache License Version 2.0.
//
//

// Package clock provides a built-in tool that reports the current date and time.
package clock

import (
	"time"

	"trpc.group/trpc-go/trpc-chat-go/tool"
	"trpc.group/trpc-go/trpc-chat-go/tool/function"
)

const (
	// toolName is the name the tool is registered and called under.
	toolName = "current-time"
	// timeLayout renders timestamps as "2006-01-02 15:04:05".
	timeLayout = "2006-01-02 15:04:05"
)

// Option is a functional option for configuring the clock tool.
type Option func(*config)

// config holds the configuration for the clock tool.
type config struct {
	now func() time.Time
}

// WithNowFunc overrides the time source. Intended for tests.
func WithNowFunc(now func() time.Time) Option {
	return func(c *config) {
		c.now = now
	}
}

// timeRequest is the input for the current-time tool. The tool takes no
// arguments; an empty object is accepted.
type timeRequest struct{}

// clockTool reports the current time.
type clockTool struct {
	now func() time.Time
}

// NewTool creates the current-time tool with the provided options.
func NewTool(opts ...Option) tool.CallableTool {
	cfg := &config{
		now: time.Now,
	}
	for _, opt := range opts {
		opt(cfg)
	}

	ct := &clockTool{now: cfg.now}

	return function.NewFunctionTool(
		ct.currentTime,
		function.WithName(toolName),
		function.WithDescription("Get the current time. Use this when users ask "+
			"about the time or date."),
	)
}

// currentTime formats the current wall-clock time.
func (c *clockTool) currentTime(_ timeRequest) string {
	return c.now().Format(timeLayout)
}
