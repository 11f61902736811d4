// SPDX-License-Identifier: Apache-2.0
// Copyright 2026 HoloMUSH Contributors

package entity_test

import (
	"errors"
	"sync"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/goleak"

	"github.com/holomush/modcore/internal/entity"
	"github.com/holomush/modcore/pkg/errutil"
)

func TestArena(t *testing.T) {
	a, b, c := abc()
	arena := entity.NewArena()
	require.NoError(t, arena.Add(a, b))
	require.NoError(t, arena.Add(c))

	got, ok := arena.Get(2)
	require.True(t, ok)
	assert.Same(t, b, got)
	assert.Equal(t, 3, arena.Len())
	assert.Equal(t, []string{"A", "B", "C"}, names(arena.All()))
	assert.Equal(t, []string{"C", "A"}, names(arena.Resolve([]int{3, 7, 1})))

	assert.True(t, arena.Remove(1))
	assert.False(t, arena.Remove(1))
	_, ok = arena.Get(1)
	assert.False(t, ok)
	assert.Equal(t, []string{"B", "C"}, names(arena.All()))
}

func TestArena_RejectsDuplicates(t *testing.T) {
	a, b, _ := abc()
	arena := entity.NewArena()
	require.NoError(t, arena.Add(a))

	err := arena.Add(b, entity.New(1, 1, "A again"))
	errutil.AssertErrorCode(t, err, "DUPLICATE_ENTITY")
	errutil.AssertErrorContext(t, err, "entity_id", 1)
	assert.True(t, errors.Is(err, entity.ErrDuplicateEntity))
	assert.Equal(t, 1, arena.Len(), "a failed Add stores nothing")
}

func TestArena_ConcurrentAccess(t *testing.T) {
	defer goleak.VerifyNone(t)

	arena := entity.NewArena()
	var wg sync.WaitGroup
	for i := range 20 {
		wg.Add(1)
		go func() {
			defer wg.Done()
			_ = arena.Add(entity.New(i, 1, "e"))
			_ = arena.Resolve([]int{i, i + 1})
			_, _ = arena.Get(i)
		}()
	}
	wg.Wait()
	assert.Equal(t, 20, arena.Len())
}
