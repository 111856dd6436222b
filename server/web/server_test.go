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
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"io"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"trpc.group/trpc-go/trpc-chat-go/agent"
	"trpc.group/trpc-go/trpc-chat-go/model"
	"trpc.group/trpc-go/trpc-chat-go/session"
	sessioninmemory "trpc.group/trpc-go/trpc-chat-go/session/inmemory"
	"trpc.group/trpc-go/trpc-chat-go/tool"
	"trpc.group/trpc-go/trpc-chat-go/tool/calculator"
	"trpc.group/trpc-go/trpc-chat-go/tool/clock"
	"trpc.group/trpc-go/trpc-chat-go/tool/weather"
)

// fakeAgent is a scripted agent for handler tests. On success it mimics the
// real agent's memory commit so transcripts reflect the cycle.
type fakeAgent struct {
	reply     *agent.Reply
	err       error
	calls     int
	lastInput string
}

func (f *fakeAgent) Name() string        { return "fake-agent" }
func (f *fakeAgent) Description() string { return "scripted agent" }

func (f *fakeAgent) Chat(ctx context.Context, sess *session.Session, input string) (*agent.Reply, error) {
	f.calls++
	f.lastInput = input
	if f.err != nil {
		return nil, f.err
	}
	sess.Memory.Append(model.RoleUser, input)
	sess.Memory.Append(model.RoleAssistant, f.reply.Content)
	sess.Touch()
	return f.reply, nil
}

func newTestServer(t *testing.T, ag agent.Agent) (*Server, session.Service) {
	t.Helper()
	registry := tool.NewRegistry()
	require.NoError(t, registry.Register(clock.NewTool()))
	require.NoError(t, registry.Register(calculator.NewTool()))
	require.NoError(t, registry.Register(weather.NewTool()))

	svc := sessioninmemory.NewSessionService()
	return New(ag, WithSessionService(svc), WithRegistry(registry)), svc
}

// doRequest routes a request through the full handler chain, middleware
// included.
func doRequest(s *Server, method, path string, body any) *httptest.ResponseRecorder {
	var reader io.Reader
	if body != nil {
		data, _ := json.Marshal(body)
		reader = bytes.NewReader(data)
	}
	req := httptest.NewRequest(method, path, reader)
	if body != nil {
		req.Header.Set("Content-Type", "application/json")
	}
	w := httptest.NewRecorder()
	s.Handler().ServeHTTP(w, req)
	return w
}

func TestNew(t *testing.T) {
	s, _ := newTestServer(t, &fakeAgent{})
	require.NotNil(t, s)
	assert.NotNil(t, s.Handler(), "Handler() returned nil")
	assert.NotNil(t, s.sessions, "default session service not set")
}

func TestHealthz(t *testing.T) {
	s, _ := newTestServer(t, &fakeAgent{})
	w := doRequest(s, http.MethodGet, "/healthz", nil)

	assert.Equal(t, http.StatusOK, w.Code)
	var body map[string]string
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &body))
	assert.Equal(t, "ok", body["status"])
}

func TestIndexServed(t *testing.T) {
	s, _ := newTestServer(t, &fakeAgent{})
	w := doRequest(s, http.MethodGet, "/", nil)

	assert.Equal(t, http.StatusOK, w.Code)
	assert.Contains(t, w.Header().Get("Content-Type"), "text/html")
	assert.Contains(t, w.Body.String(), "AI Chat Assistant")
}

func TestCreateSession(t *testing.T) {
	s, _ := newTestServer(t, &fakeAgent{})

	w := doRequest(s, http.MethodPost, "/api/sessions", nil)
	assert.Equal(t, http.StatusCreated, w.Code)

	var created sessionResponse
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &created))
	assert.NotEmpty(t, created.ID, "expected a generated session ID")
	assert.False(t, created.CreatedAt.IsZero())
}

func TestCreateSessionPinnedID(t *testing.T) {
	s, _ := newTestServer(t, &fakeAgent{})

	w := doRequest(s, http.MethodPost, "/api/sessions", createSessionRequest{ID: "pinned"})
	assert.Equal(t, http.StatusCreated, w.Code)

	var created sessionResponse
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &created))
	assert.Equal(t, "pinned", created.ID)

	// The same ID again conflicts.
	w = doRequest(s, http.MethodPost, "/api/sessions", createSessionRequest{ID: "pinned"})
	assert.Equal(t, http.StatusConflict, w.Code)

	var failure errorResponse
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &failure))
	assert.Contains(t, failure.Error, "already exists")
}

func TestPostMessageRoundTrip(t *testing.T) {
	ag := &fakeAgent{reply: &agent.Reply{
		Content: "**4** is the answer",
		Invocations: []agent.ToolInvocation{{
			ID:        "call_1",
			Name:      "safe-arithmetic",
			Arguments: `{"expression":"2+2"}`,
			Result:    "Result: 4",
		}},
		Usage: &model.Usage{PromptTokens: 15, CompletionTokens: 5, TotalTokens: 20},
	}}
	s, svc := newTestServer(t, ag)

	_, err := svc.CreateSession(context.Background(), "sess-1")
	require.NoError(t, err)

	w := doRequest(s, http.MethodPost, "/api/sessions/sess-1/messages", messageRequest{Content: "what is 2+2?"})
	require.Equal(t, http.StatusOK, w.Code, "unexpected status: %s", w.Body.String())

	var reply messageResponse
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &reply))
	assert.Equal(t, "**4** is the answer", reply.Content)
	assert.Contains(t, reply.HTML, "<strong>4</strong>")
	require.Len(t, reply.Invocations, 1)
	assert.Equal(t, "safe-arithmetic", reply.Invocations[0].Name)
	require.NotNil(t, reply.Usage)
	assert.Equal(t, 20, reply.Usage.TotalTokens)

	assert.Equal(t, 1, ag.calls)
	assert.Equal(t, "what is 2+2?", ag.lastInput)

	// The transcript now holds the committed turns, assistant rendered.
	w = doRequest(s, http.MethodGet, "/api/sessions/sess-1/messages", nil)
	require.Equal(t, http.StatusOK, w.Code)

	var transcript transcriptResponse
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &transcript))
	assert.Equal(t, "sess-1", transcript.SessionID)
	require.Len(t, transcript.Messages, 2)
	assert.Equal(t, "user", transcript.Messages[0].Role)
	assert.Empty(t, transcript.Messages[0].HTML)
	assert.Equal(t, "assistant", transcript.Messages[1].Role)
	assert.Contains(t, transcript.Messages[1].HTML, "<strong>4</strong>")
}

func TestPostMessageEmptyContent(t *testing.T) {
	s, svc := newTestServer(t, &fakeAgent{})
	_, err := svc.CreateSession(context.Background(), "sess-1")
	require.NoError(t, err)

	w := doRequest(s, http.MethodPost, "/api/sessions/sess-1/messages", messageRequest{Content: "   "})
	assert.Equal(t, http.StatusBadRequest, w.Code)

	var failure errorResponse
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &failure))
	assert.Equal(t, "content is required", failure.Error)
}

func TestPostMessageUnknownSession(t *testing.T) {
	s, _ := newTestServer(t, &fakeAgent{})

	w := doRequest(s, http.MethodPost, "/api/sessions/missing/messages", messageRequest{Content: "hi"})
	assert.Equal(t, http.StatusNotFound, w.Code)
}

func TestPostMessageModelFailure(t *testing.T) {
	ag := &fakeAgent{err: errors.New("model unavailable")}
	s, svc := newTestServer(t, ag)
	_, err := svc.CreateSession(context.Background(), "sess-1")
	require.NoError(t, err)

	w := doRequest(s, http.MethodPost, "/api/sessions/sess-1/messages", messageRequest{Content: "hi"})
	assert.Equal(t, http.StatusBadGateway, w.Code)

	var failure errorResponse
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &failure))
	assert.Contains(t, failure.Error, "model unavailable")

	// The failed cycle must leave the transcript untouched.
	w = doRequest(s, http.MethodGet, "/api/sessions/sess-1/messages", nil)
	require.Equal(t, http.StatusOK, w.Code)

	var transcript transcriptResponse
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &transcript))
	assert.Len(t, transcript.Messages, 0)
}

func TestGetMessagesMarksSummaries(t *testing.T) {
	s, svc := newTestServer(t, &fakeAgent{})
	sess, err := svc.CreateSession(context.Background(), "sess-1")
	require.NoError(t, err)

	sess.Memory.Append(model.RoleSystem, "Earlier conversation summary.")
	sess.Memory.Append(model.RoleUser, "and now?")

	w := doRequest(s, http.MethodGet, "/api/sessions/sess-1/messages", nil)
	require.Equal(t, http.StatusOK, w.Code)

	var transcript transcriptResponse
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &transcript))
	require.Len(t, transcript.Messages, 2)
	assert.True(t, transcript.Messages[0].Summary)
	assert.False(t, transcript.Messages[1].Summary)
}

func TestClearMessages(t *testing.T) {
	s, svc := newTestServer(t, &fakeAgent{})
	sess, err := svc.CreateSession(context.Background(), "sess-1")
	require.NoError(t, err)
	sess.Memory.Append(model.RoleUser, "hello")
	sess.Memory.Append(model.RoleAssistant, "hi there")

	w := doRequest(s, http.MethodDelete, "/api/sessions/sess-1/messages", nil)
	assert.Equal(t, http.StatusNoContent, w.Code)
	assert.Equal(t, 0, sess.Memory.Len())

	w = doRequest(s, http.MethodGet, "/api/sessions/sess-1/messages", nil)
	require.Equal(t, http.StatusOK, w.Code)

	var transcript transcriptResponse
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &transcript))
	assert.Len(t, transcript.Messages, 0)
}

func TestDeleteSession(t *testing.T) {
	s, svc := newTestServer(t, &fakeAgent{})
	_, err := svc.CreateSession(context.Background(), "doomed")
	require.NoError(t, err)

	w := doRequest(s, http.MethodDelete, "/api/sessions/doomed", nil)
	assert.Equal(t, http.StatusNoContent, w.Code)

	w = doRequest(s, http.MethodGet, "/api/sessions/doomed/messages", nil)
	assert.Equal(t, http.StatusNotFound, w.Code)
}

func TestListTools(t *testing.T) {
	s, _ := newTestServer(t, &fakeAgent{})

	w := doRequest(s, http.MethodGet, "/api/tools", nil)
	require.Equal(t, http.StatusOK, w.Code)

	var tools []toolInfo
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &tools))
	require.Len(t, tools, 3)

	// Registration order is preserved.
	assert.Equal(t, "current-time", tools[0].Name)
	assert.Equal(t, "safe-arithmetic", tools[1].Name)
	assert.Equal(t, "mock-weather", tools[2].Name)
	assert.NotEmpty(t, tools[0].Description)
}

func TestRenderMarkdown(t *testing.T) {
	s, _ := newTestServer(t, &fakeAgent{})

	html := s.renderMarkdown("a **bold** move")
	assert.Contains(t, html, "<strong>bold</strong>")

	// Raw HTML in model output must not survive rendering.
	html = s.renderMarkdown("<script>alert(1)</script>")
	assert.NotContains(t, html, "<script>")
}
