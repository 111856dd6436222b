//
// Tencent is pleased to support the open source community by making trpc-chat-go available.
//
// Copyright (C) 2025 Tencent.  All rights reserved.
//
// trpc-chat-go is licensed under the Apache License Version 2.0.
//
//

// Package main verifies the chat setup end to end: configuration, the tool
// registry, conversation memory and, unless running offline, a live model
// round-trip. It exits non-zero when any check fails.
package main

import (
	"context"
	"flag"
	"fmt"
	"os"
	"runtime"
	"strings"

	"trpc.group/trpc-go/trpc-chat-go/agent/llmagent"
	"trpc.group/trpc-go/trpc-chat-go/memory"
	"trpc.group/trpc-go/trpc-chat-go/model"
	"trpc.group/trpc-go/trpc-chat-go/model/openai"
	"trpc.group/trpc-go/trpc-chat-go/session"
	"trpc.group/trpc-go/trpc-chat-go/tool"
	"trpc.group/trpc-go/trpc-chat-go/tool/calculator"
	"trpc.group/trpc-go/trpc-chat-go/tool/clock"
	"trpc.group/trpc-go/trpc-chat-go/tool/weather"
)

const defaultModelName = "gpt-4o-mini"

func main() {
	modelName := flag.String("model", getEnv("MODEL_NAME", defaultModelName), "Model name to use")
	baseURL := flag.String("base-url", getEnv("MODEL_BASE_URL", ""),
		"OpenAI-compatible API base URL (empty = provider default)")
	offline := flag.Bool("offline", false, "Skip the live model round-trip")
	flag.Parse()

	fmt.Println("🚀 AI Chat Assistant - Environment Check")
	fmt.Println(strings.Repeat("=", 50))

	ctx := context.Background()

	configOK := checkConfiguration(*modelName, *baseURL)
	toolsOK := checkTools(ctx)
	memoryOK := checkMemory()

	modelOK := true
	fmt.Println("\n🧪 Testing model round-trip...")
	fmt.Println(strings.Repeat("-", 40))
	switch {
	case *offline:
		fmt.Println("⏭️ Skipped (offline mode)")
	case !configOK:
		fmt.Println("⏭️ Skipped (configuration check failed)")
	default:
		modelOK = checkModel(ctx, *modelName, *baseURL)
	}

	fmt.Println("\n" + strings.Repeat("=", 50))
	if !(configOK && toolsOK && memoryOK && modelOK) {
		fmt.Println("❌ Environment check failed!")
		os.Exit(1)
	}

	fmt.Println("🎉 Environment setup looks good!")
	fmt.Println("\nNext steps:")
	fmt.Println("1. Run the 'chat' binary for command-line chat")
	fmt.Println("2. Run the 'chatserver' binary for the web interface")
}

// checkConfiguration reports the runtime and model settings and validates
// the API credential.
func checkConfiguration(modelName, baseURL string) bool {
	fmt.Println("\n🔧 Checking configuration...")
	fmt.Println(strings.Repeat("-", 40))

	fmt.Printf("✅ Go runtime: %s\n", runtime.Version())
	fmt.Printf("✅ Model: %s\n", modelName)
	if baseURL != "" {
		fmt.Printf("✅ Base URL: %s\n", baseURL)
	} else {
		fmt.Println("✅ Base URL: (provider default)")
	}

	apiKey := os.Getenv("OPENAI_API_KEY")
	if apiKey == "" {
		fmt.Println("❌ OpenAI API key not found")
		fmt.Println("   Please export OPENAI_API_KEY=your_key_here")
		return false
	}
	if strings.HasPrefix(apiKey, "sk-") && len(apiKey) > 20 {
		fmt.Printf("✅ OpenAI API key found and looks valid (%s***)\n", maskAPIKey(apiKey))
	} else {
		fmt.Printf("⚠️ OpenAI API key found but format looks suspicious (%s***)\n", maskAPIKey(apiKey))
	}
	return true
}

// checkTools registers the built-in tools and runs each one locally.
func checkTools(ctx context.Context) bool {
	fmt.Println("\n🛠️ Checking tool registry...")
	fmt.Println(strings.Repeat("-", 40))

	registry := tool.NewRegistry()
	builtins := []tool.CallableTool{clock.NewTool(), calculator.NewTool(), weather.NewTool()}
	for _, t := range builtins {
		if err := registry.Register(t); err != nil {
			fmt.Printf("❌ Tool registration failed: %v\n", err)
			return false
		}
	}
	names := registry.List()
	fmt.Printf("✅ Registered %d tools: %s\n", len(names), strings.Join(names, ", "))

	ok := true

	result, err := callTool(ctx, registry, "safe-arithmetic", `{"expression":"2+2"}`)
	if err != nil || result != "Result: 4" {
		fmt.Printf("❌ safe-arithmetic(\"2+2\") = %q (err: %v)\n", result, err)
		ok = false
	} else {
		fmt.Printf("✅ safe-arithmetic(\"2+2\") = %s\n", result)
	}

	result, err = callTool(ctx, registry, "current-time", `{}`)
	if err != nil || result == "" {
		fmt.Printf("❌ current-time failed (err: %v)\n", err)
		ok = false
	} else {
		fmt.Printf("✅ current-time = %s\n", result)
	}

	result, err = callTool(ctx, registry, "mock-weather", `{"location":"Tokyo"}`)
	if err != nil || !strings.HasPrefix(result, "Weather in Tokyo:") {
		fmt.Printf("❌ mock-weather(\"Tokyo\") = %q (err: %v)\n", result, err)
		ok = false
	} else {
		fmt.Printf("✅ mock-weather(\"Tokyo\") = %s\n", result)
	}

	return ok
}

// checkMemory runs an append, snapshot and clear round-trip on a fresh
// conversation buffer.
func checkMemory() bool {
	fmt.Println("\n🧠 Checking conversation memory...")
	fmt.Println(strings.Repeat("-", 40))

	buf := memory.NewBuffer()
	buf.Append(model.RoleUser, "Hello!")
	buf.Append(model.RoleAssistant, "Hi there!")
	fmt.Printf("✅ Appended %d turns\n", buf.Len())

	turns := buf.Messages()
	if len(turns) != 2 || turns[0].Role != model.RoleUser || turns[1].Role != model.RoleAssistant {
		fmt.Println("❌ Snapshot did not preserve order")
		return false
	}
	fmt.Println("✅ Snapshot preserved order")

	buf.Clear()
	if buf.Len() != 0 {
		fmt.Println("❌ Clear left turns behind")
		return false
	}
	fmt.Println("✅ Cleared buffer")
	return true
}

// checkModel sends a probe message through the full agent cycle.
func checkModel(ctx context.Context, modelName, baseURL string) bool {
	modelOpts := []openai.Option{openai.WithAPIKey(os.Getenv("OPENAI_API_KEY"))}
	if baseURL != "" {
		modelOpts = append(modelOpts, openai.WithBaseURL(baseURL))
	}
	ag := llmagent.New(
		"envcheck",
		llmagent.WithModel(openai.New(modelName, modelOpts...)),
		llmagent.WithInstruction(llmagent.DefaultInstruction),
	)
	sess := session.NewSession("")

	fmt.Println("Sending test message to the model...")
	reply, err := ag.Chat(ctx, sess, "Say 'Hello from the chat assistant!' in a friendly way.")
	if err != nil {
		fmt.Printf("❌ Model round-trip failed: %v\n", err)
		return false
	}
	fmt.Printf("✅ Response: %s\n", reply.Content)
	return true
}

// callTool dispatches one tool call through the registry, the same path the
// agent uses.
func callTool(ctx context.Context, registry *tool.Registry, name, args string) (string, error) {
	callable, err := registry.Resolve(name)
	if err != nil {
		return "", err
	}
	out, err := callable.Call(ctx, []byte(args))
	if err != nil {
		return "", err
	}
	if s, ok := out.(string); ok {
		return s, nil
	}
	return fmt.Sprintf("%v", out), nil
}

// getEnv gets an environment variable with a default value.
func getEnv(key, defaultValue string) string {
	if value := os.Getenv(key); value != "" {
		return value
	}
	return defaultValue
}

// maskAPIKey keeps only the key prefix for display.
func maskAPIKey(apiKey string) string {
	if len(apiKey) <= 6 {
		return "***"
	}
	return apiKey[:3]
}
