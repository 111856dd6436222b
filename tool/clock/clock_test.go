//
// Tencent is pleased to support the open source community by making trpc-chat-go available.
//
// Copyright (C) 2025 Tencent.  All rights reserved.
//
// trpc-chat-go is licensed under the Apache License Version 2.0.
//
//

package clock_test

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"trpc.group/trpc-go/trpc-chat-go/tool/clock"
)

func TestNewTool_Declaration(t *testing.T) {
	ct := clock.NewTool()
	decl := ct.Declaration()

	require.NotNil(t, decl)
	assert.Equal(t, "current-time", decl.Name)
	assert.NotEmpty(t, decl.Description)
	require.NotNil(t, decl.InputSchema)
	assert.Equal(t, "object", decl.InputSchema.Type)
	assert.Empty(t, decl.InputSchema.Required, "tool takes no required arguments")
}

func TestTool_Call(t *testing.T) {
	fixed := time.Date(2025, 3, 14, 9, 26, 53, 0, time.UTC)
	ct := clock.NewTool(clock.WithNowFunc(func() time.Time { return fixed }))

	for _, args := range [][]byte{nil, []byte(`{}`)} {
		result, err := ct.Call(context.Background(), args)
		require.NoError(t, err)
		assert.Equal(t, "2025-03-14 09:26:53", result)
	}
}

func TestTool_Call_RealClock(t *testing.T) {
	ct := clock.NewTool()

	result, err := ct.Call(context.Background(), []byte(`{}`))
	require.NoError(t, err)

	text, ok := result.(string)
	require.True(t, ok, "result should be a string")

	parsed, err := time.ParseInLocation("2006-01-02 15:04:05", text, time.Local)
	require.NoError(t, err, "output should match the expected layout")
	assert.WithinDuration(t, time.Now(), parsed, time.Minute)
}
