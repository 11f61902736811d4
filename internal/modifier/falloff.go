// SPDX-License-Identifier: Apache-2.0
// Copyright 2026 HoloMUSH Contributors

package modifier

import (
	"fmt"
	"math"
	"strconv"
	"strings"

	"github.com/samber/oops"
)

// FalloffType selects the curve an effect's impact decays along.
type FalloffType int

// Falloff curves. The integer values are part of the serialized form.
const (
	FalloffNone    FalloffType = iota // none
	FalloffLinear                     // linear
	FalloffSlowest                    // slowest
	FalloffSlow                       // slow
	FalloffFast                       // fast
)

var falloffStrings = [...]string{"none", "linear", "slowest", "slow", "fast"}

func (f FalloffType) String() string {
	if f.Valid() {
		return falloffStrings[f]
	}
	return fmt.Sprintf("unknown(%d)", int(f))
}

// Valid reports whether f is one of the defined curves.
func (f FalloffType) Valid() bool {
	return f >= 0 && int(f) < len(falloffStrings)
}

// ParseFalloffType accepts a curve name (any case) or its integer value.
func ParseFalloffType(s string) (FalloffType, error) {
	s = strings.TrimSpace(s)
	for i, name := range falloffStrings {
		if strings.EqualFold(s, name) {
			return FalloffType(i), nil
		}
	}
	if n, err := strconv.Atoi(s); err == nil && FalloffType(n).Valid() {
		return FalloffType(n), nil
	}
	return 0, invalidFalloff(s)
}

func invalidFalloff(v any) error {
	return oops.Code("INVALID_FALLOFF").With("falloff", v).Errorf("falloff type %v is invalid", v)
}

// Factor returns the impact multiplier at degree for a span that started at
// startsAt and ends at endsAt. With c = (degree-startsAt)/(endsAt-startsAt):
//
//	none     1
//	linear   1 - c
//	slowest  1 - c²
//	slow     1 - √c
//	fast     1 when c == 0, otherwise -ln(c)/e
//
// Infinite spans (endsAt == Infinite) and empty spans have factor 1, as does
// any degree before startsAt (c is floored at 0). Past the end the curves
// keep extrapolating. Fast exceeds 1 early in the span. An undefined curve
// panics: it can only come from corrupt catalog data.
func (f FalloffType) Factor(degree, startsAt, endsAt float64) float64 {
	if endsAt == Infinite {
		return f.spanFactor(degree-startsAt, 0)
	}
	return f.spanFactor(degree-startsAt, endsAt-startsAt)
}

// spanFactor is Factor for elapsed degrees into a span of the given length.
func (f FalloffType) spanFactor(elapsed, span float64) float64 {
	if !f.Valid() {
		panic(invalidFalloff(int(f)))
	}
	if span <= 0 {
		return 1
	}
	c := max(elapsed/span, 0)

	switch f {
	case FalloffLinear:
		return 1 - c
	case FalloffSlowest:
		return 1 - c*c
	case FalloffSlow:
		return 1 - math.Sqrt(c)
	case FalloffFast:
		if c == 0 {
			return 1
		}
		return -math.Log(c) / math.E
	default:
		return 1
	}
}
