//
// Tencent is pleased to support the open source community by making trpc-chat-go available.
//
// Copyright (C) 2025 Tencent.  All rights reserved.
//
// trpc-chat-go is licensed under the Apache License Version 2.0.
//
//

// Package main is the interactive terminal chat client. It wires the
// OpenAI-compatible model, the built-in tools and a single session into a
// read-eval-print loop.
package main

import (
	"bufio"
	"context"
	"flag"
	"fmt"
	"os"
	"os/signal"
	"strings"
	"time"

	"trpc.group/trpc-go/trpc-chat-go/agent"
	"trpc.group/trpc-go/trpc-chat-go/agent/llmagent"
	"trpc.group/trpc-go/trpc-chat-go/log"
	"trpc.group/trpc-go/trpc-chat-go/memory/summary"
	"trpc.group/trpc-go/trpc-chat-go/model"
	"trpc.group/trpc-go/trpc-chat-go/model/openai"
	"trpc.group/trpc-go/trpc-chat-go/session"
	"trpc.group/trpc-go/trpc-chat-go/telemetry/trace"
	"trpc.group/trpc-go/trpc-chat-go/tool"
	"trpc.group/trpc-go/trpc-chat-go/tool/calculator"
	"trpc.group/trpc-go/trpc-chat-go/tool/clock"
	"trpc.group/trpc-go/trpc-chat-go/tool/weather"
)

const defaultModelName = "gpt-4o-mini"

// toolInstruction is the system prompt used when tool calling is enabled.
const toolInstruction = "You are a helpful AI assistant with access to tools. " +
	"Use the tools when appropriate to help answer questions. " +
	"Always be friendly and explain what you're doing when using tools."

func main() {
	modelName := flag.String("model", getEnv("MODEL_NAME", defaultModelName), "Model name to use")
	baseURL := flag.String("base-url", getEnv("MODEL_BASE_URL", ""),
		"OpenAI-compatible API base URL (empty = provider default)")
	disableTools := flag.Bool("disable-tools", false, "Plain conversation without tool calling")
	maxTokens := flag.Int("max-tokens", 0, "Completion token limit (0 = provider default)")
	temperature := flag.Float64("temperature", 0.7, "Sampling temperature")
	traceEndpoint := flag.String("trace", "", "OTLP trace endpoint (empty = tracing disabled)")
	flag.Parse()

	apiKey := os.Getenv("OPENAI_API_KEY")
	if apiKey == "" {
		fmt.Println("❌ Error: Please set your OPENAI_API_KEY environment variable")
		fmt.Println("You can get an API key from: https://platform.openai.com/api-keys")
		os.Exit(1)
	}

	if *traceEndpoint != "" {
		clean, err := trace.Start(context.Background(), trace.WithEndpoint(*traceEndpoint))
		if err != nil {
			log.Fatalf("Failed to start trace telemetry: %v", err)
		}
		defer func() {
			if err := clean(); err != nil {
				log.Warnf("Failed to clean up trace telemetry: %v", err)
			}
		}()
	}

	fmt.Printf("🚀 AI Chat Assistant\n")
	fmt.Printf("Model: %s\n", *modelName)
	if *baseURL != "" {
		fmt.Printf("Base URL: %s\n", *baseURL)
	}
	fmt.Println("Available commands:")
	fmt.Println("  'quit' - Exit the app")
	fmt.Println("  'clear' - Clear conversation history")
	fmt.Println("  'summary' - Get conversation summary")
	fmt.Println("  'tools' - List available tools")
	fmt.Println(strings.Repeat("-", 50))

	app := &chatApp{
		modelName:    *modelName,
		baseURL:      *baseURL,
		apiKey:       apiKey,
		disableTools: *disableTools,
		maxTokens:    *maxTokens,
		temperature:  *temperature,
	}
	if err := app.run(); err != nil {
		log.Fatalf("Chat failed to run: %v", err)
	}
}

// chatApp wires the model, tools and session for the terminal loop.
type chatApp struct {
	modelName    string
	baseURL      string
	apiKey       string
	disableTools bool
	maxTokens    int
	temperature  float64

	agent      agent.Agent
	summarizer *summary.Summarizer
	registry   *tool.Registry
	sess       *session.Session
}

// run starts the interactive chat session.
func (c *chatApp) run() error {
	ctx := context.Background()
	if err := c.setup(); err != nil {
		return fmt.Errorf("setup failed: %w", err)
	}

	// Ctrl-C ends the conversation like the quit command does.
	sigCh := make(chan os.Signal, 1)
	signal.Notify(sigCh, os.Interrupt)
	go func() {
		<-sigCh
		fmt.Println("\n👋 Goodbye!")
		os.Exit(0)
	}()

	return c.startChat(ctx)
}

// setup assembles the model, tool registry, summarizer and agent.
func (c *chatApp) setup() error {
	modelOpts := []openai.Option{openai.WithAPIKey(c.apiKey)}
	if c.baseURL != "" {
		modelOpts = append(modelOpts, openai.WithBaseURL(c.baseURL))
	}
	modelInstance := openai.New(c.modelName, modelOpts...)

	c.registry = tool.NewRegistry()
	instruction := llmagent.DefaultInstruction
	if !c.disableTools {
		instruction = toolInstruction
		builtins := []tool.CallableTool{clock.NewTool(), calculator.NewTool(), weather.NewTool()}
		for _, t := range builtins {
			if err := c.registry.Register(t); err != nil {
				return fmt.Errorf("tool registration failed: %w", err)
			}
		}
	}

	genConfig := model.GenerationConfig{Temperature: floatPtr(c.temperature)}
	if c.maxTokens > 0 {
		genConfig.MaxTokens = intPtr(c.maxTokens)
	}

	c.summarizer = summary.NewSummarizer(modelInstance)
	c.agent = llmagent.New(
		"chat-assistant",
		llmagent.WithModel(modelInstance),
		llmagent.WithDescription("A friendly AI assistant with conversation memory and local tools"),
		llmagent.WithInstruction(instruction),
		llmagent.WithGenerationConfig(genConfig),
		llmagent.WithRegistry(c.registry),
		llmagent.WithSummarizer(c.summarizer),
	)
	c.sess = session.NewSession("")

	fmt.Printf("✅ Chat assistant is ready! Session ID: %s\n\n", c.sess.ID)
	return nil
}

// startChat runs the interactive conversation loop.
func (c *chatApp) startChat(ctx context.Context) error {
	scanner := bufio.NewScanner(os.Stdin)

	for {
		fmt.Print("👤 User: ")
		if !scanner.Scan() {
			break
		}

		userInput := strings.TrimSpace(scanner.Text())
		if userInput == "" {
			continue
		}

		switch strings.ToLower(userInput) {
		case "quit", "exit", "q":
			fmt.Println("👋 Goodbye!")
			return nil
		case "clear":
			c.sess.Memory.Clear()
			fmt.Println("✅ Conversation history cleared!")
			continue
		case "summary":
			c.printSummary(ctx)
			continue
		case "tools":
			c.printTools()
			continue
		}

		if err := c.processMessage(ctx, userInput); err != nil {
			fmt.Printf("❌ Error: %v\n", err)
		}

		fmt.Println() // Blank line between conversation rounds.
	}

	if err := scanner.Err(); err != nil {
		return fmt.Errorf("input scanner error: %w", err)
	}
	return nil
}

// processMessage runs one chat cycle and prints the reply, tool activity
// first.
func (c *chatApp) processMessage(ctx context.Context, userInput string) error {
	reply, err := c.agent.Chat(ctx, c.sess, userInput)
	if err != nil {
		return err
	}

	if len(reply.Invocations) > 0 {
		fmt.Println("🔧 Tool calls:")
		for _, inv := range reply.Invocations {
			fmt.Printf("   %s %s (ID: %s)\n", toolIcon(inv.Name), inv.Name, inv.ID)
			if inv.Arguments != "" && inv.Arguments != "{}" {
				fmt.Printf("     Arguments: %s\n", inv.Arguments)
			}
		}
		fmt.Println("⚡ Executing...")
		for _, inv := range reply.Invocations {
			marker := "✅"
			if inv.IsError {
				marker = "❌"
			}
			fmt.Printf("%s Tool result (ID: %s): %s\n", marker, inv.ID, formatToolResult(inv.Result))
		}
	}

	fmt.Printf("🤖 Assistant: %s\n", reply.Content)
	return nil
}

func (c *chatApp) printSummary(ctx context.Context) {
	turns := c.sess.Memory.Messages()
	if len(turns) == 0 {
		fmt.Println("📋 Summary: No conversation yet.")
		return
	}

	ctx, cancel := context.WithTimeout(ctx, 2*time.Minute)
	defer cancel()
	text, err := c.summarizer.Summarize(ctx, turns)
	if err != nil {
		log.Debugf("summary generation failed: %v", err)
		fmt.Println("📋 Summary: Unable to generate summary.")
		return
	}
	fmt.Printf("📋 Summary: %s\n", text)
}

func (c *chatApp) printTools() {
	fmt.Println("🛠️ Available tools:")
	names := c.registry.List()
	if len(names) == 0 {
		fmt.Println("  (none)")
		return
	}
	for _, name := range names {
		if t, ok := c.registry.Get(name); ok {
			fmt.Printf("  - %s: %s\n", name, t.Declaration().Description)
		}
	}
}

// toolIcon returns the marker shown next to a tool call.
func toolIcon(toolName string) string {
	switch toolName {
	case "current-time":
		return "⏰"
	case "safe-arithmetic":
		return "🧮"
	case "mock-weather":
		return "⛅"
	default:
		return "🔧"
	}
}

// formatToolResult trims long tool output for terminal display.
func formatToolResult(content string) string {
	if len(content) > 200 {
		return content[:200] + "..."
	}
	return strings.TrimSpace(content)
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
