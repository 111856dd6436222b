//
// Tencent is pleased to support the open source community by making trpc-chat-go available.
//
// Copyright (C) 2025 Tencent.  All rights reserved.
//
// trpc-chat-go is licensed under the Apache License Version 2.0.
//

package summary

// Option is a function that configures a Summarizer.
type Option func(*Summarizer)

// WithPrompt sets the custom prompt for summarization.
// The prompt must include the placeholder {conversation_text}, which will be
// replaced with the extracted conversation when generating the summary.
func WithPrompt(prompt string) Option {
	return func(s *Summarizer) {
		if prompt != "" {
			s.prompt = prompt
		}
	}
}

// WithMaxSummaryWords sets the maximum word count for summaries.
// A value <= 0 means no word limit. The word limit will be included in the
// prompt to guide the model's generation rather than truncating the output.
func WithMaxSummaryWords(maxWords int) Option {
	return func(s *Summarizer) {
		if maxWords > 0 {
			s.maxSummaryWords = maxWords
		}
	}
}

// WithMaxTokens sets the conversation token budget EnsureBudget enforces.
// A value <= 0 keeps the default.
func WithMaxTokens(maxTokens int) Option {
	return func(s *Summarizer) {
		if maxTokens > 0 {
			s.maxTokens = maxTokens
		}
	}
}

// WithTokenCounter sets the token counter used for budget accounting.
// When unset, a tokenizer matching the model's encoding is used, falling
// back to a naive len(text)/4 estimate when no codec is available.
func WithTokenCounter(counter TokenCounter) Option {
	return func(s *Summarizer) {
		if counter != nil {
			s.counter = counter
		}
	}
}

// WithKeepRecent sets how many of the most recent raw turns are never
// pruned. A negative value keeps the default.
func WithKeepRecent(keepRecent int) Option {
	return func(s *Summarizer) {
		if keepRecent >= 0 {
			s.keepRecent = keepRecent
		}
	}
}
