//
// Tencent is pleased to support the open source community by making trpc-chat-go available.
//
// Copyright (C) 2025 Tencent.  All rights reserved.
//
// trpc-chat-go is licensed under the Apache License Version 2.0.
//
//

package web

import (
	"time"

	"trpc.group/trpc-go/trpc-chat-go/agent"
	"trpc.group/trpc-go/trpc-chat-go/model"
)

// createSessionRequest is the optional body of POST /api/sessions. An empty
// or absent ID asks the server to generate one.
type createSessionRequest struct {
	ID string `json:"id,omitempty"`
}

// sessionResponse describes a chat session to the client.
type sessionResponse struct {
	ID        string    `json:"id"`
	CreatedAt time.Time `json:"createdAt"`
	UpdatedAt time.Time `json:"updatedAt"`
}

// messageRequest is the body of POST /api/sessions/{sessionID}/messages.
type messageRequest struct {
	Content string `json:"content"`
}

// messageResponse is the reply to one chat cycle. HTML carries the
// markdown-rendered assistant answer for direct insertion into the page.
type messageResponse struct {
	Content     string                 `json:"content"`
	HTML        string                 `json:"html"`
	Invocations []agent.ToolInvocation `json:"invocations,omitempty"`
	Usage       *model.Usage           `json:"usage,omitempty"`
}

// transcriptMessage is a single turn of the session transcript. Assistant
// turns additionally carry rendered HTML; summary turns are flagged so the
// client can display them as a condensed note.
type transcriptMessage struct {
	Role      string    `json:"role"`
	Content   string    `json:"content"`
	HTML      string    `json:"html,omitempty"`
	Summary   bool      `json:"summary,omitempty"`
	Timestamp time.Time `json:"timestamp"`
}

// transcriptResponse is the full conversation history of a session.
type transcriptResponse struct {
	SessionID string              `json:"sessionId"`
	Messages  []transcriptMessage `json:"messages"`
}

// toolInfo describes one registered tool to the client sidebar.
type toolInfo struct {
	Name        string `json:"name"`
	Description string `json:"description"`
}

// errorResponse is the JSON body of every non-2xx API response.
type errorResponse struct {
	Error string `json:"error"`
}
