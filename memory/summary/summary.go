//
// Tencent is pleased to support the open source community by making trpc-chat-go available.
//
// Copyright (C) 2025 Tencent.  All rights reserved.
//
// trpc-chat-go is licensed under the Apache License Version 2.0.
//

// Package summary condenses long conversation histories so prompts stay
// within a token budget. Old turns are replaced by model-generated summary
// turns; recent turns are always kept verbatim.
package summary

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"trpc.group/trpc-go/trpc-chat-go/memory"
	"trpc.group/trpc-go/trpc-chat-go/model"
	"trpc.group/trpc-go/trpc-chat-go/model/tiktoken"
)

const (
	// conversationTextPlaceholder is the placeholder for conversation text.
	conversationTextPlaceholder = "{conversation_text}"
	// maxSummaryWordsPlaceholder is the placeholder for max summary words.
	maxSummaryWordsPlaceholder = "{max_summary_words}"

	// summaryAuthor labels condensed summary turns in conversation text.
	summaryAuthor = "summary"

	// defaultMaxTokens is the default conversation token budget.
	defaultMaxTokens = 1000
	// defaultKeepRecent is the number of most recent raw turns never pruned.
	defaultKeepRecent = 2
)

// TokenCounter counts tokens for budget accounting.
type TokenCounter interface {
	// CountTokens returns the token count for a piece of text.
	CountTokens(ctx context.Context, text string) (int, error)
}

// naiveCounter estimates tokens as len(text)/4. Coarse and model-agnostic
// but good enough for gating.
type naiveCounter struct{}

func (naiveCounter) CountTokens(_ context.Context, text string) (int, error) {
	return len(text) / 4, nil
}

// defaultCounter returns a tokenizer-backed counter for the model's own
// encoding, or the naive estimate when no codec is available.
func defaultCounter(m model.Model) TokenCounter {
	if m == nil {
		return naiveCounter{}
	}
	counter, err := tiktoken.New(m.Info().Name)
	if err != nil {
		return naiveCounter{}
	}
	return counter
}

// getDefaultSummarizerPrompt returns the default prompt for summarization.
// If maxWords > 0, includes word count instruction placeholder; otherwise, omits it.
func getDefaultSummarizerPrompt(maxWords int) string {
	basePrompt := "Analyze the following conversation between a user and an " +
		"assistant, and provide a concise summary focusing on important " +
		"information that would be helpful for future interactions. Keep the " +
		"summary concise and to the point. Only include relevant information. " +
		"Do not make anything up."

	if maxWords > 0 {
		basePrompt += " Please keep the summary within " + maxSummaryWordsPlaceholder + " words."
	}

	return basePrompt + "\n\n" +
		"<conversation>\n" + conversationTextPlaceholder + "\n" +
		"</conversation>\n\n" +
		"Summary:"
}

// Summarizer condenses conversation turns with an LLM round-trip.
type Summarizer struct {
	model           model.Model
	counter         TokenCounter
	prompt          string
	maxTokens       int
	maxSummaryWords int
	keepRecent      int
}

// NewSummarizer creates a summarizer backed by the given model.
func NewSummarizer(m model.Model, opts ...Option) *Summarizer {
	s := &Summarizer{
		model:           m,
		counter:         defaultCounter(m),
		prompt:          "", // Will be set after processing options.
		maxTokens:       defaultMaxTokens,
		maxSummaryWords: 0, // 0 means no word limit.
		keepRecent:      defaultKeepRecent,
	}

	for _, opt := range opts {
		opt(s)
	}

	// Set default prompt if none was provided.
	if s.prompt == "" {
		s.prompt = getDefaultSummarizerPrompt(s.maxSummaryWords)
	}

	return s
}

// Summarize generates a summary of the given turns without modifying any
// buffer. Existing summary turns are included as context, labeled "summary".
func (s *Summarizer) Summarize(ctx context.Context, turns []memory.Turn) (string, error) {
	if s.model == nil {
		return "", errors.New("no model configured for summarization")
	}

	conversationText := extractConversationText(turns)
	if conversationText == "" {
		return "", fmt.Errorf("no conversation text to summarize (turns=%d)", len(turns))
	}

	// Create summarization prompt.
	prompt := strings.Replace(s.prompt, conversationTextPlaceholder, conversationText, 1)
	if s.maxSummaryWords > 0 {
		prompt = strings.Replace(prompt, maxSummaryWordsPlaceholder, fmt.Sprintf("%d", s.maxSummaryWords), 1)
	} else {
		prompt = strings.Replace(prompt, maxSummaryWordsPlaceholder, "", 1)
	}

	request := &model.Request{
		Messages: []model.Message{model.NewUserMessage(prompt)},
	}

	response, err := s.model.GenerateContent(ctx, request)
	if err != nil {
		return "", fmt.Errorf("failed to generate summary: %w", err)
	}

	summaryText := strings.TrimSpace(response.Message.Content)
	if summaryText == "" {
		return "", fmt.Errorf("generated empty summary (input_chars=%d)", len(conversationText))
	}
	return summaryText, nil
}

// EnsureBudget checks the buffer against the token budget and, when the
// conversation has grown past it, summarizes the oldest raw turns and
// compacts them into a single summary turn. Pruning stops as soon as the
// projected size is back under budget; the most recent raw turns are never
// pruned. On any failure the buffer is left unchanged.
func (s *Summarizer) EnsureBudget(ctx context.Context, buf *memory.Buffer) error {
	counter := s.counter
	turns := buf.Messages()

	total, err := countTurnTokens(ctx, counter, turns)
	if err != nil {
		return fmt.Errorf("failed to count conversation tokens: %w", err)
	}
	if total <= s.maxTokens {
		return nil
	}

	// Summary turns form the buffer prefix; everything after is raw.
	lead := 0
	for lead < len(turns) && turns[lead].IsSummary() {
		lead++
	}
	raw := turns[lead:]
	prunable := len(raw) - s.keepRecent
	if prunable <= 0 {
		// Nothing old enough to prune; leave the conversation intact even
		// though it is over budget.
		return nil
	}

	// Pop oldest raw turns until the projection is under budget, like the
	// classic summary-buffer memory. The cost of the new summary turn itself
	// is not projected.
	n := 0
	remaining := total
	for n < prunable && remaining > s.maxTokens {
		tokens, err := counter.CountTokens(ctx, raw[n].Content)
		if err != nil {
			return fmt.Errorf("failed to count conversation tokens: %w", err)
		}
		remaining -= tokens
		n++
	}

	summaryText, err := s.Summarize(ctx, raw[:n])
	if err != nil {
		return err
	}
	if err := buf.CompactPrefix(n, summaryText); err != nil {
		return fmt.Errorf("failed to compact conversation: %w", err)
	}
	return nil
}

// extractConversationText renders turns as "author: content" lines.
func extractConversationText(turns []memory.Turn) string {
	var parts []string
	for _, turn := range turns {
		content := strings.TrimSpace(turn.Content)
		if content == "" {
			continue
		}
		author := turn.Role.String()
		if turn.IsSummary() {
			author = summaryAuthor
		}
		parts = append(parts, fmt.Sprintf("%s: %s", author, content))
	}
	return strings.Join(parts, "\n")
}

func countTurnTokens(ctx context.Context, counter TokenCounter, turns []memory.Turn) (int, error) {
	total := 0
	for i, turn := range turns {
		tokens, err := counter.CountTokens(ctx, turn.Content)
		if err != nil {
			return 0, fmt.Errorf("count tokens for turn %d failed: %w", i, err)
		}
		total += tokens
	}
	return total, nil
}
