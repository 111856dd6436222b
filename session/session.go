//
// Tencent is pleased to support the open source community by making trpc-chat-go available.
//
// Copyright (C) 2025 Tencent.  All rights reserved.
//
// trpc-chat-go is licensed under the Apache License Version 2.0.
//
//

// Package session defines the conversation session object and the service
// interface that manages session lifecycles.
package session

import (
	"context"
	"errors"
	"sync"
	"time"

	"github.com/google/uuid"

	"trpc.group/trpc-go/trpc-chat-go/memory"
)

var (
	// ErrSessionIDRequired is the error for session id required.
	ErrSessionIDRequired = errors.New("sessionID is required")
	// ErrSessionNotFound is the error for an unknown session id.
	ErrSessionNotFound = errors.New("session not found")
	// ErrSessionExists is the error for creating a session whose id is taken.
	ErrSessionExists = errors.New("session already exists")
)

// Session holds one conversation: its identity, its memory buffer and the
// lock that serializes chat cycles. A cycle is one user input processed to
// completion, including any tool round trips; holding RunMu for the whole
// cycle keeps concurrent requests for the same session ordered.
type Session struct {
	ID        string         `json:"id"`        // ID is the session id.
	Memory    *memory.Buffer `json:"-"`         // Memory is the conversation buffer.
	CreatedAt time.Time      `json:"createdAt"` // CreatedAt is the creation time.

	// RunMu serializes chat cycles for this session.
	RunMu sync.Mutex `json:"-"`

	// UpdateMu protects UpdatedAt. Use Touch and LastUpdated.
	UpdateMu  sync.RWMutex `json:"-"`
	UpdatedAt time.Time    `json:"updatedAt"` // UpdatedAt is the last activity time.
}

// NewSession creates a session with the given id. An empty id gets a
// generated UUID.
func NewSession(id string) *Session {
	if id == "" {
		id = uuid.NewString()
	}
	now := time.Now()
	return &Session{
		ID:        id,
		Memory:    memory.NewBuffer(),
		CreatedAt: now,
		UpdatedAt: now,
	}
}

// Touch records activity on the session.
func (sess *Session) Touch() {
	sess.UpdateMu.Lock()
	defer sess.UpdateMu.Unlock()

	sess.UpdatedAt = time.Now()
}

// LastUpdated returns the last activity time.
func (sess *Session) LastUpdated() time.Time {
	sess.UpdateMu.RLock()
	defer sess.UpdateMu.RUnlock()

	return sess.UpdatedAt
}

// Service manages session lifecycles.
type Service interface {
	// CreateSession creates a session with the given id. An empty id gets a
	// generated UUID. Returns ErrSessionExists when the id is taken.
	CreateSession(ctx context.Context, sessionID string) (*Session, error)

	// GetSession returns the session with the given id, or
	// ErrSessionNotFound.
	GetSession(ctx context.Context, sessionID string) (*Session, error)

	// ListSessions returns all live sessions.
	ListSessions(ctx context.Context) ([]*Session, error)

	// DeleteSession removes the session with the given id. Deleting an
	// unknown id is a no-op.
	DeleteSession(ctx context.Context, sessionID string) error

	// Close releases resources held by the service.
	Close() error
}
