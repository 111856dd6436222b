//
// Tencent is pleased to support the open source community by making trpc-chat-go available.
//
// Copyright (C) 2025 Tencent.  All rights reserved.
//
// trpc-chat-go is licensed under the Apache License Version 2.0.
//
//

// Package telemetry holds the tracing constants and span helpers shared by
// the chat runtime.
package telemetry

import (
	"encoding/json"
	"fmt"

	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/codes"
	"go.opentelemetry.io/otel/trace"
	"google.golang.org/grpc"
	"google.golang.org/grpc/credentials/insecure"

	"trpc.group/trpc-go/trpc-chat-go/model"
	"trpc.group/trpc-go/trpc-chat-go/tool"
)

// telemetry service constants.
const (
	ServiceName      = "chat"
	ServiceVersion   = "v0.1.0"
	ServiceNamespace = "trpc-go-chat"
	InstrumentName   = "trpc.chat.go"

	SpanNamePrefixChat        = "chat"
	SpanNamePrefixExecuteTool = "execute_tool"
)

const (
	// ProtocolGRPC uses gRPC protocol for OTLP exporter.
	ProtocolGRPC string = "grpc"
	// ProtocolHTTP uses HTTP protocol for OTLP exporter.
	ProtocolHTTP string = "http"
)

// telemetry attributes constants.
var (
	KeySessionID   = "trpc.go.chat.session_id"
	KeyLLMRequest  = "trpc.go.chat.llm_request"
	KeyLLMResponse = "trpc.go.chat.llm_response"
	KeyToolID      = "trpc.go.chat.tool_id"
	KeyToolArgs    = "trpc.go.chat.tool_call_args"
	KeyToolResult  = "trpc.go.chat.tool_response"
)

// TraceCallLLM records one model call on the chat cycle span.
func TraceCallLLM(span trace.Span, sessionID, modelName string, req *model.Request, rsp *model.Response) {
	span.SetAttributes(
		attribute.String("gen_ai.system", "trpc.go.chat"),
		attribute.String("gen_ai.operation.name", "chat"),
		attribute.String(KeySessionID, sessionID),
		attribute.String("gen_ai.request.model", modelName),
	)

	if bts, err := json.Marshal(req); err == nil {
		span.SetAttributes(attribute.String(KeyLLMRequest, string(bts)))
	} else {
		span.SetAttributes(attribute.String(KeyLLMRequest, "<not json serializable>"))
	}

	if rsp == nil {
		return
	}
	if bts, err := json.Marshal(rsp); err == nil {
		span.SetAttributes(attribute.String(KeyLLMResponse, string(bts)))
	} else {
		span.SetAttributes(attribute.String(KeyLLMResponse, "<not json serializable>"))
	}
	if rsp.Usage != nil {
		span.SetAttributes(
			attribute.Int("gen_ai.usage.input_tokens", rsp.Usage.PromptTokens),
			attribute.Int("gen_ai.usage.output_tokens", rsp.Usage.CompletionTokens),
		)
	}
}

// TraceToolCall records one tool execution on its span. The args payload is
// raw JSON text as handed to the tool.
func TraceToolCall(span trace.Span, declaration *tool.Declaration, callID string, args []byte, result string, isErr bool) {
	span.SetAttributes(
		attribute.String("gen_ai.system", "trpc.go.chat"),
		attribute.String("gen_ai.operation.name", "tool.execute"),
		attribute.String("gen_ai.tool.name", declaration.Name),
		attribute.String("gen_ai.tool.description", declaration.Description),
		attribute.String(KeyToolID, callID),
		attribute.String(KeyToolArgs, string(args)),
		attribute.String(KeyToolResult, result),
	)

	if isErr {
		span.SetStatus(codes.Error, result)
	}
}

// NewGRPCConn creates a new gRPC connection to the OpenTelemetry Collector.
func NewGRPCConn(endpoint string) (*grpc.ClientConn, error) {
	// Note the use of insecure transport here. TLS is recommended in production.
	conn, err := grpc.NewClient(endpoint,
		grpc.WithTransportCredentials(insecure.NewCredentials()),
	)
	if err != nil {
		return nil, fmt.Errorf("failed to create gRPC connection to collector: %w", err)
	}

	return conn, nil
}
