//
// Tencent is pleased to support the open source community by making trpc-chat-go available.
//
// Copyright (C) 2025 Tencent.  All rights reserved.
//
// trpc-chat-go is licensed under the Apache License Version 2.0.
//
//

package model

import "time"

// Object type constants for Response.Object field.
const (
	// ObjectTypeChatCompletion is the object type for chat completion responses.
	ObjectTypeChatCompletion = "chat.completion"
)

// Finish reason constants reported by Response.FinishReason.
const (
	FinishReasonStop      = "stop"
	FinishReasonLength    = "length"
	FinishReasonToolCalls = "tool_calls"
)

// Usage represents token usage information.
type Usage struct {
	// PromptTokens is the number of tokens in the prompt.
	PromptTokens int `json:"prompt_tokens"`

	// CompletionTokens is the number of tokens in the completion.
	CompletionTokens int `json:"completion_tokens"`

	// TotalTokens is the total number of tokens in the response.
	TotalTokens int `json:"total_tokens"`
}

// Response is the response from the model.
type Response struct {
	// ID is the unique identifier for this response.
	ID string `json:"id"`

	// Object describes the type of object returned (e.g., "chat.completion").
	Object string `json:"object"`

	// Created is the Unix timestamp when the response was created.
	Created int64 `json:"created"`

	// Model is the model used to generate the response.
	Model string `json:"model"`

	// Message is the assistant message produced by the model. When the model
	// requests tool execution, Message.ToolCalls is non-empty and Content may
	// be empty.
	Message Message `json:"message"`

	// FinishReason is the reason generation stopped: "stop", "length",
	// "tool_calls", etc.
	FinishReason string `json:"finish_reason,omitempty"`

	// Usage contains token usage information (may be nil when the backend
	// does not report it).
	Usage *Usage `json:"usage,omitempty"`

	// SystemFingerprint is a unique identifier for the backend configuration.
	SystemFingerprint *string `json:"system_fingerprint,omitempty"`

	// Timestamp when this response was received.
	Timestamp time.Time `json:"timestamp"`
}

// Clone creates a deep copy of the response.
func (rsp *Response) Clone() *Response {
	if rsp == nil {
		return nil
	}
	clone := *rsp
	if len(rsp.Message.ToolCalls) > 0 {
		clone.Message.ToolCalls = make([]ToolCall, len(rsp.Message.ToolCalls))
		copy(clone.Message.ToolCalls, rsp.Message.ToolCalls)
	}
	if rsp.Usage != nil {
		clone.Usage = &Usage{
			PromptTokens:     rsp.Usage.PromptTokens,
			CompletionTokens: rsp.Usage.CompletionTokens,
			TotalTokens:      rsp.Usage.TotalTokens,
		}
	}
	if rsp.SystemFingerprint != nil {
		fp := *rsp.SystemFingerprint
		clone.SystemFingerprint = &fp
	}
	return &clone
}

// IsToolCallResponse checks if the response asks for tool execution.
func (rsp *Response) IsToolCallResponse() bool {
	return rsp != nil && len(rsp.Message.ToolCalls) > 0
}

// GetToolCallIDs gets the IDs of tool calls from the response.
func (rsp *Response) GetToolCallIDs() []string {
	ids := make([]string, 0)
	if rsp == nil {
		return ids
	}
	for _, toolCall := range rsp.Message.ToolCalls {
		ids = append(ids, toolCall.ID)
	}
	return ids
}
