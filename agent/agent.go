// Package agent provides the core chat agent contract.
package agent

import (
	"context"
	"errors"
	"time"

	"trpc.group/trpc-go/trpc-chat-go/model"
	"trpc.group/trpc-go/trpc-chat-go/session"
)

// ErrToolLoopExceeded is the error for a chat cycle that requested more tool
// rounds than the agent allows.
var ErrToolLoopExceeded = errors.New("tool iteration limit exceeded")

// ToolInvocation records one tool execution during a chat cycle.
type ToolInvocation struct {
	ID        string        `json:"id"`                // ID is the provider-assigned call id.
	Name      string        `json:"name"`              // Name is the tool name.
	Arguments string        `json:"arguments"`         // Arguments is the raw JSON argument payload.
	Result    string        `json:"result"`            // Result is the stringified tool output.
	IsError   bool          `json:"isError,omitempty"` // IsError reports whether the execution failed.
	Duration  time.Duration `json:"duration"`          // Duration is the wall time of the execution.
}

// Reply is the outcome of one completed chat cycle.
type Reply struct {
	// Content is the assistant's final text answer.
	Content string
	// Invocations lists the tool executions that produced the answer, in
	// execution order. Empty for plain text replies.
	Invocations []ToolInvocation
	// Usage aggregates token usage across the cycle's model calls, when the
	// provider reports it.
	Usage *model.Usage
}

// Agent is the interface that all chat agents must implement.
type Agent interface {
	// Name returns the agent name.
	Name() string

	// Description returns a short description of what the agent does.
	Description() string

	// Chat runs one conversation cycle: it sends the user input with the
	// session's conversation history to the model, executes any tool calls
	// the model requests, and returns the final reply. The session's memory
	// is updated only when the cycle completes.
	Chat(ctx context.Context, sess *session.Session, input string) (*Reply, error)
}
