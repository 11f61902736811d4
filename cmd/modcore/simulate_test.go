// SPDX-License-Identifier: Apache-2.0
// Copyright 2026 HoloMUSH Contributors

package main

import (
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/holomush/modcore/pkg/errutil"
)

func nonEmptyLines(s string) []string {
	var out []string
	for _, line := range strings.Split(s, "\n") {
		if line != "" {
			out = append(out, line)
		}
	}
	return out
}

func TestSimulateCommand_ExampleModifier(t *testing.T) {
	out, _, err := execute(t, "simulate", "--modifier=-1", "--stat", "health=10:0:20")
	require.NoError(t, err)

	assert.Equal(t, []string{
		"effect 1 applied: modifier -1 from 0 until 20",
		"0\thealth=11",
		"5\thealth=10.75",
		"10\thealth=10.5",
		"15\thealth=10.25",
		"20\thealth=10",
	}, nonEmptyLines(out))
}

func TestSimulateCommand_Window(t *testing.T) {
	out, _, err := execute(t, "simulate", "--modifier=-1", "--from", "5", "--to", "10", "--step", "5",
		"--stat", "health=0:0:5")
	require.NoError(t, err)

	assert.Equal(t, []string{
		"effect 1 applied: modifier -1 from 5 until 25",
		"5\thealth=1",
		"10\thealth=0.75",
	}, nonEmptyLines(out))
}

func TestSimulateCommand_RefusedTarget(t *testing.T) {
	out, _, err := execute(t, "simulate", "--catalog", "testdata/catalog.yaml",
		"--modifier", "1", "--type", "2", "--tag", "fireproof", "--to", "0")
	require.NoError(t, err)
	assert.Equal(t, []string{"effect refused_target: modifier 1", "0"}, nonEmptyLines(out))
}

func TestSimulateCommand_CatalogModifier(t *testing.T) {
	out, _, err := execute(t, "simulate", "--catalog", "testdata/catalog.yaml",
		"--modifier", "1", "--type", "3", "--stat", "health=20:0:20", "--to", "10")
	require.NoError(t, err)

	lines := nonEmptyLines(out)
	require.Len(t, lines, 4)
	assert.Equal(t, "effect 1 applied: modifier 1 from 0 until 10", lines[0])
	assert.Equal(t, "0\thealth=18", lines[1])
	assert.Equal(t, "10\thealth=20", lines[3], "the effect has expired")
}

func TestSimulateCommand_Errors(t *testing.T) {
	_, _, err := execute(t, "simulate")
	require.Error(t, err)
	assert.Contains(t, err.Error(), `"modifier" not set`)

	_, _, err = execute(t, "simulate", "--modifier", "99")
	errutil.AssertErrorCode(t, err, "MODIFIER_NOT_FOUND")

	_, _, err = execute(t, "simulate", "--modifier=-1", "--type", "999")
	errutil.AssertErrorCode(t, err, "TYPE_NOT_FOUND")

	_, _, err = execute(t, "simulate", "--modifier=-1", "--stat", "health=lots")
	errutil.AssertErrorCode(t, err, "INVALID_STAT")
	errutil.AssertErrorContext(t, err, "stat", "health")
}

func TestParseStat(t *testing.T) {
	v, err := parseStat("7")
	require.NoError(t, err)
	assert.Equal(t, 7.0, v.Amount())

	v, err = parseStat("30:0:20")
	require.NoError(t, err)
	assert.Equal(t, 20.0, v.Amount(), "clamped to the maximum")

	_, err = parseStat("1:2")
	errutil.AssertErrorCode(t, err, "INVALID_STAT")
}
