//
// Tencent is pleased to support the open source community by making trpc-chat-go available.
//
// Copyright (C) 2025 Tencent.  All rights reserved.
//
// trpc-chat-go is licensed under the Apache License Version 2.0.
//
//

// Package inmemory provides an in-memory session service implementation.
package inmemory

import (
	"context"
	"errors"
	"fmt"
	"sort"
	"sync"

	"trpc.group/trpc-go/trpc-chat-go/session"
)

// ErrSessionLimit is the error for exceeding the live session limit.
var ErrSessionLimit = errors.New("session limit reached")

var _ session.Service = (*SessionService)(nil)

// serviceOpts is the options for the session service.
type serviceOpts struct {
	// maxSessions caps the number of live sessions. Zero means unlimited.
	maxSessions int
}

// ServiceOpt is the option for the in-memory session service.
type ServiceOpt func(*serviceOpts)

// WithMaxSessions caps the number of live sessions. Zero or negative means
// unlimited.
func WithMaxSessions(limit int) ServiceOpt {
	return func(opts *serviceOpts) {
		opts.maxSessions = limit
	}
}

// SessionService provides an in-memory implementation of session.Service.
type SessionService struct {
	mu       sync.RWMutex
	sessions map[string]*session.Session
	opts     serviceOpts
}

// NewSessionService creates a new in-memory session service.
func NewSessionService(options ...ServiceOpt) *SessionService {
	opts := serviceOpts{}
	for _, option := range options {
		option(&opts)
	}
	return &SessionService{
		sessions: make(map[string]*session.Session),
		opts:     opts,
	}
}

// CreateSession creates a new session. An empty id gets a generated UUID.
func (s *SessionService) CreateSession(ctx context.Context, sessionID string) (*session.Session, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	if s.opts.maxSessions > 0 && len(s.sessions) >= s.opts.maxSessions {
		return nil, fmt.Errorf("%w: %d live sessions", ErrSessionLimit, len(s.sessions))
	}
	if sessionID != "" {
		if _, ok := s.sessions[sessionID]; ok {
			return nil, fmt.Errorf("%w: %q", session.ErrSessionExists, sessionID)
		}
	}
	sess := session.NewSession(sessionID)
	s.sessions[sess.ID] = sess
	return sess, nil
}

// GetSession returns the session with the given id.
func (s *SessionService) GetSession(ctx context.Context, sessionID string) (*session.Session, error) {
	if sessionID == "" {
		return nil, session.ErrSessionIDRequired
	}

	s.mu.RLock()
	defer s.mu.RUnlock()

	sess, ok := s.sessions[sessionID]
	if !ok {
		return nil, fmt.Errorf("%w: %q", session.ErrSessionNotFound, sessionID)
	}
	return sess, nil
}

// ListSessions returns all live sessions ordered by creation time.
func (s *SessionService) ListSessions(ctx context.Context) ([]*session.Session, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	sessions := make([]*session.Session, 0, len(s.sessions))
	for _, sess := range s.sessions {
		sessions = append(sessions, sess)
	}
	sort.Slice(sessions, func(i, j int) bool {
		if sessions[i].CreatedAt.Equal(sessions[j].CreatedAt) {
			return sessions[i].ID < sessions[j].ID
		}
		return sessions[i].CreatedAt.Before(sessions[j].CreatedAt)
	})
	return sessions, nil
}

// DeleteSession removes the session with the given id. Deleting an unknown
// id is a no-op.
func (s *SessionService) DeleteSession(ctx context.Context, sessionID string) error {
	if sessionID == "" {
		return session.ErrSessionIDRequired
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	delete(s.sessions, sessionID)
	return nil
}

// Close drops all live sessions.
func (s *SessionService) Close() error {
	s.mu.Lock()
	defer s.mu.Unlock()

	s.sessions = make(map[string]*session.Session)
	return nil
}
