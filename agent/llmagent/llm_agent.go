//
// Tencent is pleased to support the open source community by making trpc-chat-go available.
//
// Copyright (C) 2025 Tencent.  All rights reserved.
//
// trpc-chat-go is licensed under the Apache License Version 2.0.
//
//

// Package llmagent provides a model-backed chat agent implementation.
//
// The agent runs one synchronous cycle per user input: it sends the session
// history to the model, executes any tool calls the model requests through
// the tool registry, feeds the results back, and repeats until the model
// returns plain text. The number of model calls per cycle is bounded.
package llmagent

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	"go.opentelemetry.io/otel/codes"

	"trpc.group/trpc-go/trpc-chat-go/agent"
	itelemetry "trpc.group/trpc-go/trpc-chat-go/internal/telemetry"
	"trpc.group/trpc-go/trpc-chat-go/log"
	"trpc.group/trpc-go/trpc-chat-go/memory/summary"
	"trpc.group/trpc-go/trpc-chat-go/model"
	"trpc.group/trpc-go/trpc-chat-go/session"
	"trpc.group/trpc-go/trpc-chat-go/telemetry/trace"
	"trpc.group/trpc-go/trpc-chat-go/tool"
)

// DefaultInstruction is the assistant persona used when a front-end does not
// provide its own.
const DefaultInstruction = "You are a helpful AI assistant. Be friendly and helpful in your responses."

const (
	defaultMaxToolIterations = 8
	defaultModelTimeout      = 2 * time.Minute
	defaultToolTimeout       = 30 * time.Second
)

const (
	// ErrorToolNotFound is the tool result text for an unknown tool name.
	ErrorToolNotFound = "Error: tool not found"
	// ErrorMarshalResult is the tool result text for an unserializable result.
	ErrorMarshalResult = "Error: failed to marshal result"
)

// Option is a function that configures an LLMAgent.
type Option func(*Options)

// WithModel sets the model to use.
func WithModel(m model.Model) Option {
	return func(opts *Options) {
		opts.Model = m
	}
}

// WithDescription sets the description of the agent.
func WithDescription(description string) Option {
	return func(opts *Options) {
		opts.Description = description
	}
}

// WithInstruction sets the system instruction of the agent.
func WithInstruction(instruction string) Option {
	return func(opts *Options) {
		opts.Instruction = instruction
	}
}

// WithGenerationConfig sets the generation configuration.
func WithGenerationConfig(config model.GenerationConfig) Option {
	return func(opts *Options) {
		opts.GenerationConfig = config
	}
}

// WithRegistry sets the tool registry available to the agent.
func WithRegistry(registry *tool.Registry) Option {
	return func(opts *Options) {
		opts.Registry = registry
	}
}

// WithSummarizer sets the conversation summarizer. After each completed
// cycle the agent asks it to keep the session memory within budget.
func WithSummarizer(s *summary.Summarizer) Option {
	return func(opts *Options) {
		opts.Summarizer = s
	}
}

// WithMaxToolIterations caps the number of model calls per chat cycle.
// Values below one keep the default.
func WithMaxToolIterations(n int) Option {
	return func(opts *Options) {
		if n >= 1 {
			opts.MaxToolIterations = n
		}
	}
}

// WithModelTimeout bounds each model call. Zero disables the bound.
func WithModelTimeout(d time.Duration) Option {
	return func(opts *Options) {
		opts.ModelTimeout = d
	}
}

// WithToolTimeout bounds each tool execution. Zero disables the bound.
func WithToolTimeout(d time.Duration) Option {
	return func(opts *Options) {
		opts.ToolTimeout = d
	}
}

// Options contains configuration options for creating an LLMAgent.
type Options struct {
	// Model is the model to use for generating responses.
	Model model.Model
	// Description is a description of the agent.
	Description string
	// Instruction is the system instruction for the agent.
	Instruction string
	// GenerationConfig contains the generation configuration.
	GenerationConfig model.GenerationConfig
	// Registry is the tool registry available to the agent.
	Registry *tool.Registry
	// Summarizer keeps the session memory within its token budget.
	Summarizer *summary.Summarizer
	// MaxToolIterations caps the number of model calls per chat cycle
	// (default: 8).
	MaxToolIterations int
	// ModelTimeout bounds each model call (default: 2m).
	ModelTimeout time.Duration
	// ToolTimeout bounds each tool execution (default: 30s).
	ToolTimeout time.Duration
}

// LLMAgent is an agent that uses an LLM to generate responses.
type LLMAgent struct {
	name              string
	model             model.Model
	description       string
	instruction       string
	genConfig         model.GenerationConfig
	registry          *tool.Registry
	summarizer        *summary.Summarizer
	maxToolIterations int
	modelTimeout      time.Duration
	toolTimeout       time.Duration
}

var _ agent.Agent = (*LLMAgent)(nil)

// New creates a new LLMAgent with the given options.
func New(name string, opts ...Option) *LLMAgent {
	options := Options{
		MaxToolIterations: defaultMaxToolIterations,
		ModelTimeout:      defaultModelTimeout,
		ToolTimeout:       defaultToolTimeout,
	}
	for _, opt := range opts {
		opt(&options)
	}
	if options.Registry == nil {
		options.Registry = tool.NewRegistry()
	}

	return &LLMAgent{
		name:              name,
		model:             options.Model,
		description:       options.Description,
		instruction:       options.Instruction,
		genConfig:         options.GenerationConfig,
		registry:          options.Registry,
		summarizer:        options.Summarizer,
		maxToolIterations: options.MaxToolIterations,
		modelTimeout:      options.ModelTimeout,
		toolTimeout:       options.ToolTimeout,
	}
}

// Name returns the agent name.
func (a *LLMAgent) Name() string {
	return a.name
}

// Description returns the agent description.
func (a *LLMAgent) Description() string {
	return a.description
}

// Tools returns the tools available to the agent in registration order.
func (a *LLMAgent) Tools() []tool.Tool {
	return a.registry.Tools()
}

// Chat runs one conversation cycle for the session. On success both the user
// input and the final answer are appended to the session memory; on any
// failure the memory is left untouched.
func (a *LLMAgent) Chat(ctx context.Context, sess *session.Session, input string) (*agent.Reply, error) {
	if a.model == nil {
		return nil, fmt.Errorf("agent %s has no model configured", a.name)
	}
	if sess == nil {
		return nil, errors.New("nil session")
	}

	sess.RunMu.Lock()
	defer sess.RunMu.Unlock()

	modelName := a.model.Info().Name
	ctx, span := trace.Tracer.Start(ctx, itelemetry.NewChatSpanName(modelName))
	defer span.End()

	messages := a.buildMessages(sess, input)
	catalog := a.registry.Tools()

	var invocations []agent.ToolInvocation
	var usage *model.Usage

	remaining := a.maxToolIterations
	for {
		if err := ctx.Err(); err != nil {
			span.SetStatus(codes.Error, err.Error())
			return nil, err
		}

		req := &model.Request{
			Messages:         messages,
			GenerationConfig: a.genConfig,
			Tools:            catalog,
		}
		rsp, err := a.callModel(ctx, req)
		if err != nil {
			span.SetStatus(codes.Error, err.Error())
			return nil, fmt.Errorf("model call failed: %w", err)
		}
		remaining--
		itelemetry.TraceCallLLM(span, sess.ID, modelName, req, rsp)
		usage = addUsage(usage, rsp.Usage)

		if !rsp.IsToolCallResponse() {
			a.commit(ctx, sess, input, rsp.Message.Content)
			return &agent.Reply{
				Content:     rsp.Message.Content,
				Invocations: invocations,
				Usage:       usage,
			}, nil
		}

		if remaining == 0 {
			err := fmt.Errorf("%w: %d model calls without a final answer",
				agent.ErrToolLoopExceeded, a.maxToolIterations)
			span.SetStatus(codes.Error, err.Error())
			return nil, err
		}

		messages = append(messages, rsp.Message)
		for _, tc := range rsp.Message.ToolCalls {
			inv, msg := a.executeToolCall(ctx, tc)
			invocations = append(invocations, inv)
			messages = append(messages, msg)
		}
	}
}

// buildMessages assembles the model input: instruction, memory snapshot,
// then the new user text. Summary turns ride along as system messages.
func (a *LLMAgent) buildMessages(sess *session.Session, input string) []model.Message {
	turns := sess.Memory.Messages()
	messages := make([]model.Message, 0, len(turns)+2)
	if a.instruction != "" {
		messages = append(messages, model.NewSystemMessage(a.instruction))
	}
	for _, turn := range turns {
		messages = append(messages, model.Message{Role: turn.Role, Content: turn.Content})
	}
	return append(messages, model.NewUserMessage(input))
}

func (a *LLMAgent) callModel(ctx context.Context, req *model.Request) (*model.Response, error) {
	if a.modelTimeout > 0 {
		var cancel context.CancelFunc
		ctx, cancel = context.WithTimeout(ctx, a.modelTimeout)
		defer cancel()
	}
	rsp, err := a.model.GenerateContent(ctx, req)
	if err != nil {
		return nil, err
	}
	if rsp == nil {
		return nil, errors.New("model returned no response")
	}
	return rsp, nil
}

// executeToolCall runs one requested tool call and returns its invocation
// record together with the tool message to feed back to the model.
func (a *LLMAgent) executeToolCall(ctx context.Context, tc model.ToolCall) (agent.ToolInvocation, model.Message) {
	name := tc.Function.Name
	args := tc.Function.Arguments

	ctx, span := trace.Tracer.Start(ctx, itelemetry.NewExecuteToolSpanName(name))
	defer span.End()

	start := time.Now()
	result, failed := a.runTool(ctx, name, args)
	inv := agent.ToolInvocation{
		ID:        tc.ID,
		Name:      name,
		Arguments: string(args),
		Result:    result,
		IsError:   failed,
		Duration:  time.Since(start),
	}

	declaration := &tool.Declaration{Name: name, Description: "<not found>"}
	if t, ok := a.registry.Get(name); ok {
		declaration = t.Declaration()
	}
	itelemetry.TraceToolCall(span, declaration, tc.ID, args, result, failed)

	return inv, model.NewToolMessage(tc.ID, result)
}

// runTool resolves and executes one tool. Failures of any kind become an
// error result string so the model can react; they never abort the cycle.
func (a *LLMAgent) runTool(ctx context.Context, name string, args []byte) (result string, failed bool) {
	defer func() {
		if r := recover(); r != nil {
			log.Errorf("Tool execution panic for %s: %v", name, r)
			result = fmt.Sprintf("tool execution panic: %v", r)
			failed = true
		}
	}()

	callable, err := a.registry.Resolve(name)
	if err != nil {
		log.Errorf("Tool %s not available: %v", name, err)
		return ErrorToolNotFound, true
	}

	if a.toolTimeout > 0 {
		var cancel context.CancelFunc
		ctx, cancel = context.WithTimeout(ctx, a.toolTimeout)
		defer cancel()
	}

	log.Debugf("Executing tool %s with args: %s", name, string(args))
	out, err := callable.Call(ctx, args)
	if err != nil {
		return fmt.Sprintf("tool execution error: %v", err), true
	}
	return stringifyResult(name, out)
}

// stringifyResult renders a tool result for the conversation. String results
// pass through untouched, anything else is marshaled to JSON.
func stringifyResult(name string, out any) (string, bool) {
	switch v := out.(type) {
	case nil:
		return "", false
	case string:
		return v, false
	}
	bts, err := json.Marshal(out)
	if err != nil {
		log.Errorf("Failed to marshal tool result for %s: %v", name, err)
		return ErrorMarshalResult, true
	}
	return string(bts), false
}

// commit appends the completed turn pair and keeps memory within budget.
func (a *LLMAgent) commit(ctx context.Context, sess *session.Session, input, answer string) {
	sess.Memory.Append(model.RoleUser, input)
	sess.Memory.Append(model.RoleAssistant, answer)
	sess.Touch()

	if a.summarizer == nil {
		return
	}
	if a.modelTimeout > 0 {
		var cancel context.CancelFunc
		ctx, cancel = context.WithTimeout(ctx, a.modelTimeout)
		defer cancel()
	}
	if err := a.summarizer.EnsureBudget(ctx, sess.Memory); err != nil {
		log.Warnf("Conversation summarization failed for session %s: %v", sess.ID, err)
	}
}

func addUsage(total, call *model.Usage) *model.Usage {
	if call == nil {
		return total
	}
	if total == nil {
		total = &model.Usage{}
	}
	total.PromptTokens += call.PromptTokens
	total.CompletionTokens += call.CompletionTokens
	total.TotalTokens += call.TotalTokens
	return total
}
