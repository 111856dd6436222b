//
// Tencent is pleased to support the open source community by making trpc-chat-go available.
//
// Copyright (C) 2025 Tencent.  All rights reserved.
//
// trpc-chat-go is licensed under the Apache License Version 2.0.
//
//

// Package tiktoken provides a tiktoken-go based token counter used for
// conversation budget accounting.
package tiktoken

import (
	"context"
	"fmt"

	"github.com/tiktoken-go/tokenizer"
)

// Counter counts tokens the way the OpenAI tokenizers do. It uses a
// tokenizer.Codec to encode text and counts tokens as the length of the
// returned token slice.
type Counter struct {
	encoding tokenizer.Codec
}

// New creates a tiktoken-based counter.
//
// Parameters:
//   - modelName: OpenAI model name (e.g., "gpt-4o"). The tokenizer is chosen
//     with tokenizer.ForModel. If the model is not supported, falls back to
//     cl100k_base.
//
// Returns:
// - *Counter on success; error if codec initialization fails.
func New(modelName string) (*Counter, error) {
	enc, err := tokenizer.ForModel(tokenizer.Model(modelName))
	if err != nil {
		// Fallback to cl100k_base for broad compatibility.
		enc, err = tokenizer.Get(tokenizer.Cl100kBase)
		if err != nil {
			return nil, fmt.Errorf("failed to get fallback tokenizer: %w", err)
		}
	}
	return &Counter{encoding: enc}, nil
}

// CountTokens returns the token count for a piece of text.
func (c *Counter) CountTokens(_ context.Context, text string) (int, error) {
	if text == "" {
		return 0, nil
	}
	toks, _, err := c.encoding.Encode(text)
	if err != nil {
		return 0, fmt.Errorf("encode content failed: %w", err)
	}
	return len(toks), nil
}
