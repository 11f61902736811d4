// SPDX-License-Identifier: Apache-2.0
// Copyright 2026 HoloMUSH Contributors

package logging

import (
	"bytes"
	"context"
	"encoding/json"
	"log/slog"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.opentelemetry.io/otel/trace"
)

func decodeLine(t *testing.T, buf *bytes.Buffer) map[string]any {
	t.Helper()
	var entry map[string]any
	require.NoError(t, json.Unmarshal(buf.Bytes(), &entry), "not JSON: %s", buf.String())
	return entry
}

func TestSetup_JSON(t *testing.T) {
	var buf bytes.Buffer
	logger := Setup(Options{Service: "modcore", Version: "1.2.3", Format: "json", Output: &buf})

	logger.Info("catalog loaded", "modifiers", 3)

	entry := decodeLine(t, &buf)
	assert.Equal(t, "catalog loaded", entry["msg"])
	assert.Equal(t, "modcore", entry["service"])
	assert.Equal(t, "1.2.3", entry["version"])
	assert.EqualValues(t, 3, entry["modifiers"])
	assert.NotContains(t, entry, "trace_id")
}

func TestSetup_TextAndUnknownFormat(t *testing.T) {
	var buf bytes.Buffer
	Setup(Options{Service: "modcore", Format: "text", Output: &buf}).Info("hello")
	assert.True(t, strings.Contains(buf.String(), "service=modcore"), buf.String())

	buf.Reset()
	Setup(Options{Service: "modcore", Format: "xml", Output: &buf}).Info("hello")
	decodeLine(t, &buf)
}

func TestSetup_Level(t *testing.T) {
	var buf bytes.Buffer
	logger := Setup(Options{Output: &buf})
	logger.Debug("hidden")
	assert.Empty(t, buf.String(), "info is the default level")

	logger = Setup(Options{Output: &buf, Level: slog.LevelDebug})
	logger.Debug("shown")
	assert.Contains(t, buf.String(), "shown")
}

func TestHandler_TraceContext(t *testing.T) {
	var buf bytes.Buffer
	logger := Setup(Options{Service: "modcore", Output: &buf})

	traceID, err := trace.TraceIDFromHex("4bf92f3577b34da6a3ce929d0e0e4736")
	require.NoError(t, err)
	spanID, err := trace.SpanIDFromHex("00f067aa0ba902b7")
	require.NoError(t, err)
	ctx := trace.ContextWithSpanContext(context.Background(), trace.NewSpanContext(trace.SpanContextConfig{
		TraceID: traceID,
		SpanID:  spanID,
	}))

	logger.With("entity_id", 7).WithGroup("effect").InfoContext(ctx, "effect refused", "outcome", "refused_stack_limit")

	entry := decodeLine(t, &buf)
	assert.EqualValues(t, 7, entry["entity_id"])
	group, ok := entry["effect"].(map[string]any)
	require.True(t, ok, "grouped attrs: %v", entry)
	assert.Equal(t, "refused_stack_limit", group["outcome"])
	assert.Equal(t, "4bf92f3577b34da6a3ce929d0e0e4736", group["trace_id"])
	assert.Equal(t, "00f067aa0ba902b7", group["span_id"])
}

func TestSetDefault(t *testing.T) {
	original := slog.Default()
	defer slog.SetDefault(original)

	var buf bytes.Buffer
	logger := SetDefault(Options{Service: "modcore", Output: &buf})
	assert.Same(t, logger, slog.Default())

	slog.Info("via default")
	assert.Equal(t, "modcore", decodeLine(t, &buf)["service"])
}
