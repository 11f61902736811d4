// SPDX-License-Identifier: Apache-2.0
// Copyright 2026 HoloMUSH Contributors

// Package value provides the bounded numeric stat used by entities.
package value

import (
	"encoding/json"
	"math"

	"github.com/samber/oops"
)

// Default bounds for a Value that has no explicit range.
const (
	DefaultMinimum = math.MinInt32
	DefaultMaximum = math.MaxInt32
)

// Value is a numeric quantity clamped to [Minimum, Maximum].
// Every write re-clamps the amount, so the invariant
// minimum <= amount <= maximum always holds.
type Value struct {
	amount  float64
	minimum float64
	maximum float64
}

// New creates a Value. An inverted range is swapped.
func New(amount, minimum, maximum float64) *Value {
	if minimum > maximum {
		minimum, maximum = maximum, minimum
	}
	v := &Value{minimum: minimum, maximum: maximum}
	v.SetAmount(amount)
	return v
}

// Default returns a zero amount with the widest 32-bit range.
func Default() *Value {
	return New(0, DefaultMinimum, DefaultMaximum)
}

// Amount returns the current amount.
func (v *Value) Amount() float64 { return v.amount }

// Minimum returns the lower bound.
func (v *Value) Minimum() float64 { return v.minimum }

// Maximum returns the upper bound.
func (v *Value) Maximum() float64 { return v.maximum }

// SetAmount stores amount clamped to the current range.
func (v *Value) SetAmount(amount float64) {
	v.amount = clamp(amount, v.minimum, v.maximum)
}

// SetMinimum moves the lower bound. If it passes the maximum, the maximum
// follows it.
func (v *Value) SetMinimum(minimum float64) {
	v.minimum = minimum
	if v.maximum < minimum {
		v.maximum = minimum
	}
	v.SetAmount(v.amount)
}

// SetMaximum moves the upper bound. If it passes the minimum, the minimum
// follows it.
func (v *Value) SetMaximum(maximum float64) {
	v.maximum = maximum
	if v.minimum > maximum {
		v.minimum = maximum
	}
	v.SetAmount(v.amount)
}

// Add offsets the amount by delta, clamped.
func (v *Value) Add(delta float64) {
	v.SetAmount(v.amount + delta)
}

// Percentage returns where the amount sits in its range, 0 to 100.
// A zero-width range reports 0.
func (v *Value) Percentage() float64 {
	span := v.maximum - v.minimum
	if span == 0 {
		return 0
	}
	return (v.amount - v.minimum) / span * 100
}

// IsPercentDifferent reports whether the amount is within percent of the
// bottom of the range (percent > 0) or within |percent| of the top
// (percent < 0).
func (v *Value) IsPercentDifferent(percent float64) bool {
	span := v.maximum - v.minimum
	offset := v.amount - v.minimum
	decimal := percent / 100
	if percent > 0 {
		return offset <= span*decimal
	}
	return offset >= span*(1+decimal)
}

// Clone returns an independent copy.
func (v *Value) Clone() *Value {
	c := *v
	return &c
}

type valueJSON struct {
	Amount  float64 `json:"amount"`
	Minimum float64 `json:"minimum"`
	Maximum float64 `json:"maximum"`
}

// MarshalJSON encodes the value as {"amount","minimum","maximum"}.
func (v *Value) MarshalJSON() ([]byte, error) {
	//nolint:wrapcheck // plain struct encoding cannot fail
	return json.Marshal(valueJSON{Amount: v.amount, Minimum: v.minimum, Maximum: v.maximum})
}

// UnmarshalJSON decodes the canonical shape and re-applies the invariant.
func (v *Value) UnmarshalJSON(data []byte) error {
	var raw valueJSON
	if err := json.Unmarshal(data, &raw); err != nil {
		return oops.Code("VALUE_DECODE_FAILED").Wrap(err)
	}
	*v = *New(raw.Amount, raw.Minimum, raw.Maximum)
	return nil
}

// clamp maps NaN to lo.
func clamp(x, lo, hi float64) float64 {
	if x < lo || math.IsNaN(x) {
		return lo
	}
	if x > hi {
		return hi
	}
	return x
}
