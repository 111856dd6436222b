//
// Tencent is pleased to support the open source community by making trpc-chat-go available.
//
// Copyright (C) 2025 Tencent.  All rights reserved.
//
// trpc-chat-go is licensed under the Apache License Version 2.0.
//
//

// Package model provides interfaces for working with LLMs.
package model

import "context"

// Model is the interface for all language models.
//
// GenerateContent blocks until the model produces a complete response.
// A non-nil error covers both transport failures (network, auth, invalid
// request) and API-level failures (rate limits, content filtering); callers
// receive exactly one of a usable *Response or an error, never both.
type Model interface {
	// GenerateContent generates a single completion for the given request.
	// The context controls cancellation and deadlines for the underlying call.
	GenerateContent(ctx context.Context, request *Request) (*Response, error)

	// Info returns basic information about the model.
	Info() Info
}

// Info contains basic information about a Model.
type Info struct {
	Name string
}
