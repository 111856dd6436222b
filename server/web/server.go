//
// Tencent is pleased to support the open source community by making trpc-chat-go available.
//
// Copyright (C) 2025 Tencent.  All rights reserved.
//
// trpc-chat-go is licensed under the Apache License Version 2.0.
//
//

// Package web provides the browser chat front-end: an embedded single-page
// UI plus the JSON API backing it. Each browser tab drives its own session;
// one chat cycle runs at a time per session.
package web

import (
	"bytes"
	_ "embed"
	"encoding/json"
	"errors"
	"io"
	"net/http"
	"strings"

	"github.com/gorilla/mux"
	"github.com/rs/cors"
	"github.com/yuin/goldmark"
	"github.com/yuin/goldmark/extension"

	"trpc.group/trpc-go/trpc-chat-go/agent"
	"trpc.group/trpc-go/trpc-chat-go/log"
	"trpc.group/trpc-go/trpc-chat-go/model"
	"trpc.group/trpc-go/trpc-chat-go/session"
	sessioninmemory "trpc.group/trpc-go/trpc-chat-go/session/inmemory"
	"trpc.group/trpc-go/trpc-chat-go/tool"
)

//go:embed static/index.html
var indexPage []byte

// Server exposes the chat agent over HTTP for the web UI.
type Server struct {
	agent    agent.Agent
	registry *tool.Registry
	router   *mux.Router
	sessions session.Service
	md       goldmark.Markdown
}

// Option configures the Server instance.
type Option func(*Server)

// WithSessionService allows providing a custom session storage backend.
// If omitted, an in-memory implementation is used.
func WithSessionService(svc session.Service) Option {
	return func(s *Server) { s.sessions = svc }
}

// WithRegistry sets the tool registry backing the tools listing endpoint.
// Pass the same registry the agent dispatches on.
func WithRegistry(registry *tool.Registry) Option {
	return func(s *Server) { s.registry = registry }
}

// New creates a chat web server around the given agent. The behaviour can be
// tweaked via functional options.
func New(ag agent.Agent, opts ...Option) *Server {
	s := &Server{
		agent:    ag,
		registry: tool.NewRegistry(),
		router:   mux.NewRouter(),
		sessions: sessioninmemory.NewSessionService(),
		md:       goldmark.New(goldmark.WithExtensions(extension.GFM)),
	}
	for _, opt := range opts {
		opt(s)
	}

	c := cors.New(cors.Options{
		AllowedOrigins:   []string{"*"},
		AllowCredentials: true,
		AllowedMethods:   []string{"GET", "POST", "DELETE", "OPTIONS"},
		AllowedHeaders:   []string{"*"},
		ExposedHeaders:   []string{"Content-Length", "Content-Type"},
	})
	s.router.Use(c.Handler)
	s.registerRoutes()
	return s
}

// Handler returns the http.Handler for the server.
func (s *Server) Handler() http.Handler { return s.router }

func (s *Server) registerRoutes() {
	s.router.HandleFunc("/", s.handleIndex).Methods(http.MethodGet)
	s.router.HandleFunc("/healthz", s.handleHealthz).Methods(http.MethodGet)

	// Session APIs.
	s.router.HandleFunc("/api/sessions", s.handleCreateSession).Methods(http.MethodPost)
	s.router.HandleFunc("/api/sessions/{sessionID}", s.handleDeleteSession).Methods(http.MethodDelete)

	// Message APIs.
	s.router.HandleFunc("/api/sessions/{sessionID}/messages", s.handleGetMessages).Methods(http.MethodGet)
	s.router.HandleFunc("/api/sessions/{sessionID}/messages", s.handlePostMessage).Methods(http.MethodPost)
	s.router.HandleFunc("/api/sessions/{sessionID}/messages", s.handleClearMessages).Methods(http.MethodDelete)

	// Tool listing.
	s.router.HandleFunc("/api/tools", s.handleListTools).Methods(http.MethodGet)

	// OPTIONS handlers to allow CORS pre-flight.
	preflight := func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusOK)
	}
	s.router.HandleFunc("/api/sessions", preflight).Methods(http.MethodOptions)
	s.router.HandleFunc("/api/sessions/{sessionID}", preflight).Methods(http.MethodOptions)
	s.router.HandleFunc("/api/sessions/{sessionID}/messages", preflight).Methods(http.MethodOptions)
}

// ---- Handlers -----------------------------------------------------------

func (s *Server) handleIndex(w http.ResponseWriter, r *http.Request) {
	w.Header().Set("Content-Type", "text/html; charset=utf-8")
	_, _ = w.Write(indexPage)
}

func (s *Server) handleHealthz(w http.ResponseWriter, r *http.Request) {
	s.writeJSON(w, http.StatusOK, map[string]string{"status": "ok"})
}

func (s *Server) handleCreateSession(w http.ResponseWriter, r *http.Request) {
	var req createSessionRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil && !errors.Is(err, io.EOF) {
		s.writeError(w, http.StatusBadRequest, err.Error())
		return
	}
	defer r.Body.Close()

	sess, err := s.sessions.CreateSession(r.Context(), req.ID)
	if err != nil {
		if errors.Is(err, session.ErrSessionExists) {
			s.writeError(w, http.StatusConflict, err.Error())
			return
		}
		s.writeError(w, http.StatusInternalServerError, err.Error())
		return
	}
	log.Infof("web session created: %s", sess.ID)
	s.writeJSON(w, http.StatusCreated, sessionResponse{
		ID:        sess.ID,
		CreatedAt: sess.CreatedAt,
		UpdatedAt: sess.LastUpdated(),
	})
}

func (s *Server) handleDeleteSession(w http.ResponseWriter, r *http.Request) {
	sessionID := mux.Vars(r)["sessionID"]
	if err := s.sessions.DeleteSession(r.Context(), sessionID); err != nil {
		s.writeError(w, http.StatusInternalServerError, err.Error())
		return
	}
	log.Infof("web session deleted: %s", sessionID)
	w.WriteHeader(http.StatusNoContent)
}

func (s *Server) handleGetMessages(w http.ResponseWriter, r *http.Request) {
	sess, ok := s.lookupSession(w, r)
	if !ok {
		return
	}

	turns := sess.Memory.Messages()
	messages := make([]transcriptMessage, 0, len(turns))
	for _, turn := range turns {
		msg := transcriptMessage{
			Role:      string(turn.Role),
			Content:   turn.Content,
			Summary:   turn.IsSummary(),
			Timestamp: turn.Timestamp,
		}
		if turn.Role == model.RoleAssistant {
			msg.HTML = s.renderMarkdown(turn.Content)
		}
		messages = append(messages, msg)
	}
	s.writeJSON(w, http.StatusOK, transcriptResponse{SessionID: sess.ID, Messages: messages})
}

func (s *Server) handlePostMessage(w http.ResponseWriter, r *http.Request) {
	sess, ok := s.lookupSession(w, r)
	if !ok {
		return
	}

	var req messageRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		s.writeError(w, http.StatusBadRequest, err.Error())
		return
	}
	defer r.Body.Close()

	content := strings.TrimSpace(req.Content)
	if content == "" {
		s.writeError(w, http.StatusBadRequest, "content is required")
		return
	}

	// One cycle per request. The agent serializes cycles on the session, so
	// concurrent posts to the same session queue up rather than interleave.
	reply, err := s.agent.Chat(r.Context(), sess, content)
	if err != nil {
		log.Errorf("web chat cycle failed: session=%s err=%v", sess.ID, err)
		s.writeError(w, http.StatusBadGateway, err.Error())
		return
	}
	log.Infof("web chat cycle: session=%s invocations=%d", sess.ID, len(reply.Invocations))

	s.writeJSON(w, http.StatusOK, messageResponse{
		Content:     reply.Content,
		HTML:        s.renderMarkdown(reply.Content),
		Invocations: reply.Invocations,
		Usage:       reply.Usage,
	})
}

func (s *Server) handleClearMessages(w http.ResponseWriter, r *http.Request) {
	sess, ok := s.lookupSession(w, r)
	if !ok {
		return
	}
	sess.Memory.Clear()
	sess.Touch()
	log.Infof("web session history cleared: %s", sess.ID)
	w.WriteHeader(http.StatusNoContent)
}

func (s *Server) handleListTools(w http.ResponseWriter, r *http.Request) {
	tools := s.registry.Tools()
	infos := make([]toolInfo, 0, len(tools))
	for _, t := range tools {
		decl := t.Declaration()
		if decl == nil {
			continue
		}
		infos = append(infos, toolInfo{Name: decl.Name, Description: decl.Description})
	}
	s.writeJSON(w, http.StatusOK, infos)
}

// ---- helpers ------------------------------------------------------------

// lookupSession resolves the sessionID route variable. On failure it writes
// the error response and reports false.
func (s *Server) lookupSession(w http.ResponseWriter, r *http.Request) (*session.Session, bool) {
	sessionID := mux.Vars(r)["sessionID"]
	sess, err := s.sessions.GetSession(r.Context(), sessionID)
	if err != nil {
		if errors.Is(err, session.ErrSessionNotFound) || errors.Is(err, session.ErrSessionIDRequired) {
			s.writeError(w, http.StatusNotFound, err.Error())
		} else {
			s.writeError(w, http.StatusInternalServerError, err.Error())
		}
		return nil, false
	}
	return sess, true
}

// renderMarkdown converts assistant markdown to HTML. The renderer escapes
// raw HTML in the source, so model output cannot inject markup.
func (s *Server) renderMarkdown(src string) string {
	var buf bytes.Buffer
	if err := s.md.Convert([]byte(src), &buf); err != nil {
		log.Errorf("markdown rendering failed: %v", err)
		return ""
	}
	return buf.String()
}

func (s *Server) writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(v)
}

func (s *Server) writeError(w http.ResponseWriter, status int, msg string) {
	s.writeJSON(w, status, errorResponse{Error: msg})
}
