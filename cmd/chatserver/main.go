//
// Tencent is pleased to support the open source community by making trpc-chat-go available.
//
// Copyright (C) 2025 Tencent.  All rights reserved.
//
// trpc-chat-go is licensed under the Apache License Version 2.0.
//
//

// Package main serves the web chat front-end: the embedded browser UI and
// its JSON API, backed by the same agent wiring as the terminal client.
package main

import (
	"context"
	"flag"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"trpc.group/trpc-go/trpc-chat-go/agent/llmagent"
	"trpc.group/trpc-go/trpc-chat-go/log"
	"trpc.group/trpc-go/trpc-chat-go/memory/summary"
	"trpc.group/trpc-go/trpc-chat-go/model"
	"trpc.group/trpc-go/trpc-chat-go/model/openai"
	"trpc.group/trpc-go/trpc-chat-go/server/web"
	sessioninmemory "trpc.group/trpc-go/trpc-chat-go/session/inmemory"
	"trpc.group/trpc-go/trpc-chat-go/telemetry/trace"
	"trpc.group/trpc-go/trpc-chat-go/tool"
	"trpc.group/trpc-go/trpc-chat-go/tool/calculator"
	"trpc.group/trpc-go/trpc-chat-go/tool/clock"
	"trpc.group/trpc-go/trpc-chat-go/tool/weather"
)

const (
	defaultListenAddr = ":8080"
	defaultModelName  = "gpt-4o-mini"
)

// toolInstruction is the system prompt used when tool calling is enabled.
const toolInstruction = "You are a helpful AI assistant with access to tools. " +
	"Use the tools when appropriate to help answer questions. " +
	"Always be friendly and explain what you're doing when using tools."

func main() {
	addr := flag.String("addr", defaultListenAddr, "Listen address")
	modelName := flag.String("model", getEnv("MODEL_NAME", defaultModelName), "Model name to use")
	baseURL := flag.String("base-url", getEnv("MODEL_BASE_URL", ""),
		"OpenAI-compatible API base URL (empty = provider default)")
	maxTokens := flag.Int("max-tokens", 0, "Completion token limit (0 = provider default)")
	temperature := flag.Float64("temperature", 0.7, "Sampling temperature")
	maxSessions := flag.Int("max-sessions", 1000, "Maximum live sessions (0 = unlimited)")
	logLevel := flag.String("log-level", "info", "Log level (debug, info, warn, error)")
	traceEndpoint := flag.String("trace", "", "OTLP trace endpoint (empty = tracing disabled)")
	flag.Parse()

	log.SetLevel(*logLevel)

	apiKey := os.Getenv("OPENAI_API_KEY")
	if apiKey == "" {
		log.Fatal("OPENAI_API_KEY environment variable is required")
	}

	// Create context that listens for interrupt signals.
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	if *traceEndpoint != "" {
		clean, err := trace.Start(ctx, trace.WithEndpoint(*traceEndpoint))
		if err != nil {
			log.Fatalf("Failed to start trace telemetry: %v", err)
		}
		defer func() {
			if err := clean(); err != nil {
				log.Warnf("Failed to clean up trace telemetry: %v", err)
			}
		}()
	}

	modelOpts := []openai.Option{openai.WithAPIKey(apiKey)}
	if *baseURL != "" {
		modelOpts = append(modelOpts, openai.WithBaseURL(*baseURL))
	}
	modelInstance := openai.New(*modelName, modelOpts...)

	registry := tool.NewRegistry()
	builtins := []tool.CallableTool{clock.NewTool(), calculator.NewTool(), weather.NewTool()}
	for _, t := range builtins {
		if err := registry.Register(t); err != nil {
			log.Fatalf("Tool registration failed: %v", err)
		}
	}

	genConfig := model.GenerationConfig{Temperature: floatPtr(*temperature)}
	if *maxTokens > 0 {
		genConfig.MaxTokens = intPtr(*maxTokens)
	}

	ag := llmagent.New(
		"chat-assistant",
		llmagent.WithModel(modelInstance),
		llmagent.WithDescription("A friendly AI assistant with conversation memory and local tools"),
		llmagent.WithInstruction(toolInstruction),
		llmagent.WithGenerationConfig(genConfig),
		llmagent.WithRegistry(registry),
		llmagent.WithSummarizer(summary.NewSummarizer(modelInstance)),
	)

	var svcOpts []sessioninmemory.ServiceOpt
	if *maxSessions > 0 {
		svcOpts = append(svcOpts, sessioninmemory.WithMaxSessions(*maxSessions))
	}
	server := web.New(ag,
		web.WithRegistry(registry),
		web.WithSessionService(sessioninmemory.NewSessionService(svcOpts...)),
	)

	httpServer := &http.Server{
		Addr:    *addr,
		Handler: server.Handler(),
	}

	// Start HTTP server in a goroutine.
	go func() {
		log.Infof("Chat server listening on %s (model: %s)", *addr, *modelName)
		log.Info("Example usage: curl -X POST http://localhost:8080/api/sessions")
		log.Info("Then: curl -X POST http://localhost:8080/api/sessions/YOUR_SESSION_ID/messages -H \"Content-Type: application/json\" -d '{\"content\":\"Hello, AI!\"}'")
		if err := httpServer.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			log.Errorf("Server error: %v", err)
		}
	}()

	// Wait for context cancellation (SIGINT or SIGTERM).
	<-ctx.Done()
	log.Info("Shutting down server...")

	shutdownCtx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()
	if err := httpServer.Shutdown(shutdownCtx); err != nil {
		log.Errorf("Server shutdown error: %v", err)
	}
	log.Info("Server stopped")
}

// getEnv gets an environment variable with a default value.
func getEnv(key, defaultValue string) string {
	if value := os.Getenv(key); value != "" {
		return value
	}
	return defaultValue
}

func intPtr(i int) *int {
	return &i
}

func floatPtr(f float64) *float64 {
	return &f
}
