//
// Tencent is pleased to support the open source community by making trpc-chat-go available.
//
// Copyright (C) 2025 Tencent.  All rights reserved.
//
// trpc-chat-go is licensed under the Apache License Version 2.0.
//
//

package telemetry

// NewChatSpanName returns the span name for one chat cycle against a model.
func NewChatSpanName(modelName string) string {
	if modelName == "" {
		return SpanNamePrefixChat
	}
	return SpanNamePrefixChat + " " + modelName
}

// NewExecuteToolSpanName returns the span name for one tool execution.
func NewExecuteToolSpanName(toolName string) string {
	if toolName == "" {
		return SpanNamePrefixExecuteTool
	}
	return SpanNamePrefixExecuteTool + " " + toolName
}
