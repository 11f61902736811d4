// SPDX-License-Identifier: Apache-2.0
// Copyright 2026 HoloMUSH Contributors

package value_test

import (
	"encoding/json"
	"math"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/holomush/modcore/internal/value"
)

func TestValue_ClampsOnEveryWrite(t *testing.T) {
	v := value.New(50, 0, 100)
	assert.Equal(t, 50.0, v.Amount())
	assert.Equal(t, 0.0, v.Minimum())
	assert.Equal(t, 100.0, v.Maximum())

	v.SetAmount(51)
	assert.Equal(t, 51.0, v.Amount())

	v.SetAmount(101)
	assert.Equal(t, 100.0, v.Amount())

	v.SetAmount(-1)
	assert.Equal(t, 0.0, v.Amount())

	v.SetMinimum(-5)
	v.SetAmount(-3)
	assert.Equal(t, -3.0, v.Amount())

	v.SetMaximum(10)
	v.SetAmount(100)
	assert.Equal(t, 10.0, v.Amount())
	assert.Equal(t, 100.0, v.Percentage())

	v.SetMinimum(0)
	v.SetMaximum(200)
	v.SetAmount(50)
	assert.Equal(t, 25.0, v.Percentage())
	assert.True(t, v.IsPercentDifferent(25))
	assert.True(t, v.IsPercentDifferent(-75))
	assert.False(t, v.IsPercentDifferent(10))
}

func TestValue_NaNClampsToMinimum(t *testing.T) {
	v := value.New(50, 0, 100)
	v.SetAmount(math.NaN())
	assert.Equal(t, 0.0, v.Amount())

	v = value.New(50, 10, 100)
	v.Add(math.NaN())
	assert.Equal(t, 10.0, v.Amount())

	assert.Equal(t, -5.0, value.New(math.NaN(), -5, 5).Amount())
}

func TestValue_BoundsMovesReclampAmount(t *testing.T) {
	v := value.New(8, 0, 10)

	v.SetMaximum(5)
	assert.Equal(t, 5.0, v.Amount())

	v.SetMinimum(7)
	assert.Equal(t, 7.0, v.Minimum())
	assert.Equal(t, 7.0, v.Maximum(), "maximum follows a minimum that passes it")
	assert.Equal(t, 7.0, v.Amount())

	v.SetMaximum(-2)
	assert.Equal(t, -2.0, v.Minimum(), "minimum follows a maximum that passes it")
	assert.Equal(t, -2.0, v.Amount())
}

func TestValue_InvariantHoldsAcrossWriteSequences(t *testing.T) {
	writes := []func(v *value.Value){
		func(v *value.Value) { v.SetAmount(1e9) },
		func(v *value.Value) { v.SetMinimum(3) },
		func(v *value.Value) { v.SetMaximum(-40) },
		func(v *value.Value) { v.Add(17.5) },
		func(v *value.Value) { v.SetMinimum(-100) },
		func(v *value.Value) { v.SetMaximum(12) },
		func(v *value.Value) { v.Add(-1e6) },
		func(v *value.Value) { v.SetAmount(6) },
	}

	v := value.New(0, -10, 10)
	for i := range 64 {
		writes[(i*5+3)%len(writes)](v)
		require.LessOrEqual(t, v.Minimum(), v.Amount(), "write %d", i)
		require.LessOrEqual(t, v.Amount(), v.Maximum(), "write %d", i)
	}
}

func TestValue_PercentageAtBounds(t *testing.T) {
	v := value.New(-4, -4, 12)
	assert.Equal(t, 0.0, v.Percentage())

	v.SetAmount(12)
	assert.Equal(t, 100.0, v.Percentage())

	flat := value.New(3, 3, 3)
	assert.Equal(t, 0.0, flat.Percentage())
}

func TestValue_NewSwapsInvertedRange(t *testing.T) {
	v := value.New(5, 10, 0)
	assert.Equal(t, 0.0, v.Minimum())
	assert.Equal(t, 10.0, v.Maximum())
	assert.Equal(t, 5.0, v.Amount())
}

func TestValue_DefaultRange(t *testing.T) {
	v := value.Default()
	assert.Equal(t, 0.0, v.Amount())
	assert.Equal(t, float64(value.DefaultMinimum), v.Minimum())
	assert.Equal(t, float64(value.DefaultMaximum), v.Maximum())
}

func TestValue_CloneIsIndependent(t *testing.T) {
	v := value.New(5, 0, 10)
	c := v.Clone()
	c.SetAmount(9)

	assert.Equal(t, 5.0, v.Amount())
	assert.Equal(t, 9.0, c.Amount())
}

func TestValue_JSONRoundTrip(t *testing.T) {
	v := value.New(6, 0, 12)

	data, err := json.Marshal(v)
	require.NoError(t, err)
	assert.JSONEq(t, `{"amount":6,"minimum":0,"maximum":12}`, string(data))

	var hydrated value.Value
	require.NoError(t, json.Unmarshal(data, &hydrated))
	assert.Equal(t, *v, hydrated)
}

func TestValue_UnmarshalClampsOutOfRangeAmount(t *testing.T) {
	var v value.Value
	require.NoError(t, json.Unmarshal([]byte(`{"amount":50,"minimum":0,"maximum":10}`), &v))
	assert.Equal(t, 10.0, v.Amount())
}

func TestValue_UnmarshalRejectsMalformed(t *testing.T) {
	var v value.Value
	assert.Error(t, json.Unmarshal([]byte(`{"amount":"lots"}`), &v))
}
