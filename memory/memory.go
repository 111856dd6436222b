//
// Tencent is pleased to support the open source community by making trpc-chat-go available.
//
// Copyright (C) 2025 Tencent.  All rights reserved.
//
// trpc-chat-go is licensed under the Apache License Version 2.0.
//
//

// Package memory provides conversation history storage for chat sessions.
package memory

import (
	"errors"
	"fmt"
	"sync"
	"time"

	"trpc.group/trpc-go/trpc-chat-go/model"
)

// ErrBadCompactRange is returned when CompactPrefix is asked to compact a
// turn range the buffer does not contain.
var ErrBadCompactRange = errors.New("compact range out of bounds")

// Turn is a single conversation turn held in a Buffer.
type Turn struct {
	Role      model.Role `json:"role"`
	Content   string     `json:"content"`
	Timestamp time.Time  `json:"timestamp"`
}

// IsSummary reports whether the turn is a condensed summary of earlier turns.
// Within a Buffer the system role appears only on summary turns; the live
// system instruction never enters the buffer.
func (t Turn) IsSummary() bool {
	return t.Role == model.RoleSystem
}

// Buffer is an ordered conversation history. Turns are appended as the
// conversation progresses and are removed only by Clear or when a summarizer
// compacts a prefix. Summary turns always precede the raw turns they condense.
//
// A Buffer is safe for concurrent use: snapshot reads may race with an
// in-flight chat cycle appending turns.
type Buffer struct {
	mu    sync.RWMutex
	turns []Turn
}

// NewBuffer creates an empty conversation buffer.
func NewBuffer() *Buffer {
	return &Buffer{}
}

// Append adds a turn with the current time. It never fails and preserves
// arrival order.
func (b *Buffer) Append(role model.Role, content string) {
	b.mu.Lock()
	defer b.mu.Unlock()
	b.turns = append(b.turns, Turn{
		Role:      role,
		Content:   content,
		Timestamp: time.Now(),
	})
}

// Messages returns a snapshot copy of all turns in order. Mutating the
// returned slice does not affect the buffer.
func (b *Buffer) Messages() []Turn {
	b.mu.RLock()
	defer b.mu.RUnlock()
	turns := make([]Turn, len(b.turns))
	copy(turns, b.turns)
	return turns
}

// Len returns the number of turns currently held, summaries included.
func (b *Buffer) Len() int {
	b.mu.RLock()
	defer b.mu.RUnlock()
	return len(b.turns)
}

// Clear removes all turns, summaries included.
func (b *Buffer) Clear() {
	b.mu.Lock()
	defer b.mu.Unlock()
	b.turns = nil
}

// CompactPrefix atomically replaces the first n raw (non-summary) turns with
// a single summary turn. The new summary turn is inserted after any existing
// summary turns, so summaries always stay ahead of the raw turns that
// follow them. On error the buffer is unchanged.
func (b *Buffer) CompactPrefix(n int, summary string) error {
	b.mu.Lock()
	defer b.mu.Unlock()

	// Summary turns form a prefix of the buffer.
	lead := 0
	for lead < len(b.turns) && b.turns[lead].IsSummary() {
		lead++
	}
	raw := len(b.turns) - lead
	if n <= 0 || n > raw {
		return fmt.Errorf("%w: n=%d with %d raw turns", ErrBadCompactRange, n, raw)
	}

	compacted := make([]Turn, 0, lead+1+raw-n)
	compacted = append(compacted, b.turns[:lead]...)
	compacted = append(compacted, Turn{
		Role:      model.RoleSystem,
		Content:   summary,
		Timestamp: time.Now(),
	})
	compacted = append(compacted, b.turns[lead+n:]...)
	b.turns = compacted
	return nil
}
