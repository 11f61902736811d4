// SPDX-License-Identifier: Apache-2.0
// Copyright 2026 HoloMUSH Contributors

package errutil_test

import (
	"bytes"
	"encoding/json"
	"errors"
	"log/slog"
	"testing"

	"github.com/samber/oops"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/holomush/modcore/pkg/errutil"
)

func decodeLine(t *testing.T, buf *bytes.Buffer) map[string]any {
	t.Helper()
	var entry map[string]any
	require.NoError(t, json.Unmarshal(buf.Bytes(), &entry))
	return entry
}

func TestLogError_CatalogError(t *testing.T) {
	var buf bytes.Buffer
	logger := slog.New(slog.NewJSONHandler(&buf, nil))

	err := oops.Code("MODIFIER_NOT_FOUND").
		With("modifier_id", 42).
		Errorf("modifier not found")

	errutil.LogError(logger, "apply failed", err)

	entry := decodeLine(t, &buf)
	assert.Equal(t, "ERROR", entry["level"])
	assert.Equal(t, "apply failed", entry["msg"])
	assert.Equal(t, "MODIFIER_NOT_FOUND", entry["code"])
	assert.Contains(t, entry["context"], "modifier_id")
}

func TestLogError_PlainError(t *testing.T) {
	var buf bytes.Buffer
	logger := slog.New(slog.NewJSONHandler(&buf, nil))

	errutil.LogError(logger, "apply failed", errors.New("plain"))

	entry := decodeLine(t, &buf)
	assert.Equal(t, "plain", entry["error"])
	assert.NotContains(t, entry, "code")
}

func TestCode(t *testing.T) {
	assert.Equal(t, "TYPE_NOT_FOUND", errutil.Code(oops.Code("TYPE_NOT_FOUND").Errorf("missing")))
	assert.Equal(t, "TYPE_NOT_FOUND",
		errutil.Code(oops.Wrapf(oops.Code("TYPE_NOT_FOUND").Errorf("missing"), "lookup")))
	assert.Empty(t, errutil.Code(errors.New("plain")))
	assert.Empty(t, errutil.Code(nil))
}
