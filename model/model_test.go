package model

import (
	"context"
	"errors"
	"testing"
)

// TestModelInterface tests the Model interface definition.
func TestModelInterface(t *testing.T) {
	// Create a mock implementation for testing.
	mock := &mockModel{}
	var _ Model = mock

	// Test with nil request.
	ctx := context.Background()
	rsp, err := mock.GenerateContent(ctx, nil)

	if err == nil {
		t.Error("Model.GenerateContent() with nil request should return error")
	}
	if rsp != nil {
		t.Error("Model.GenerateContent() with nil request should return nil response")
	}

	// Test with a valid request.
	rsp, err = mock.GenerateContent(ctx, &Request{Messages: []Message{NewUserMessage("hi")}})
	if err != nil {
		t.Fatalf("Model.GenerateContent() unexpected error: %v", err)
	}
	if rsp.Message.Content != "Test response" {
		t.Errorf("Model.GenerateContent() content = %q, want %q", rsp.Message.Content, "Test response")
	}
	if mock.Info().Name != "mock" {
		t.Errorf("Model.Info() name = %q, want %q", mock.Info().Name, "mock")
	}
}

// mockModel is a simple mock implementation for testing the interface.
type mockModel struct{}

func (m *mockModel) Info() Info {
	return Info{
		Name: "mock",
	}
}

func (m *mockModel) GenerateContent(ctx context.Context, request *Request) (*Response, error) {
	if request == nil {
		return nil, errors.New("request cannot be nil")
	}

	return &Response{
		ID:      "test-response",
		Object:  ObjectTypeChatCompletion,
		Model:   "test-model",
		Message: NewAssistantMessage("Test response"),
	}, nil
}
