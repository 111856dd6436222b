//
// Tencent is pleased to support the open source community by making trpc-chat-go available.
//
// Copyright (C) 2025 Tencent.  All rights reserved.
//
// trpc-chat-go is licensed under the Apache License Version 2.0.
//
//

package model

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestResponse_Clone(t *testing.T) {
	t.Run("nil response", func(t *testing.T) {
		var rsp *Response
		assert.Nil(t, rsp.Clone())
	})

	t.Run("deep copy", func(t *testing.T) {
		fp := "fp_123"
		rsp := &Response{
			ID:     "chatcmpl-1",
			Object: ObjectTypeChatCompletion,
			Model:  "gpt-4o-mini",
			Message: Message{
				Role: RoleAssistant,
				ToolCalls: []ToolCall{
					{Type: "function", ID: "call_1", Function: FunctionDefinitionParam{Name: "mock-weather"}},
				},
			},
			Usage:             &Usage{PromptTokens: 10, CompletionTokens: 5, TotalTokens: 15},
			SystemFingerprint: &fp,
		}

		clone := rsp.Clone()
		require.NotNil(t, clone)

		// Mutating the clone must not affect the original.
		clone.Message.ToolCalls[0].ID = "call_2"
		clone.Usage.TotalTokens = 99
		*clone.SystemFingerprint = "fp_456"

		assert.Equal(t, "call_1", rsp.Message.ToolCalls[0].ID)
		assert.Equal(t, 15, rsp.Usage.TotalTokens)
		assert.Equal(t, "fp_123", *rsp.SystemFingerprint)
	})
}

func TestResponse_IsToolCallResponse(t *testing.T) {
	tests := []struct {
		name string
		rsp  *Response
		want bool
	}{
		{
			name: "nil response",
			rsp:  nil,
			want: false,
		},
		{
			name: "plain text response",
			rsp:  &Response{Message: NewAssistantMessage("hello")},
			want: false,
		},
		{
			name: "tool call response",
			rsp: &Response{Message: Message{
				Role:      RoleAssistant,
				ToolCalls: []ToolCall{{Type: "function", ID: "call_1"}},
			}},
			want: true,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, tt.rsp.IsToolCallResponse())
		})
	}
}

func TestResponse_GetToolCallIDs(t *testing.T) {
	rsp := &Response{Message: Message{
		Role: RoleAssistant,
		ToolCalls: []ToolCall{
			{ID: "call_1"},
			{ID: "call_2"},
		},
	}}
	assert.Equal(t, []string{"call_1", "call_2"}, rsp.GetToolCallIDs())

	var nilRsp *Response
	assert.Empty(t, nilRsp.GetToolCallIDs())
}
