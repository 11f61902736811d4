// SPDX-License-Identifier: Apache-2.0
// Copyright 2026 HoloMUSH Contributors

package errutil_test

import (
	"testing"

	"github.com/samber/oops"

	"github.com/holomush/modcore/pkg/errutil"
)

func TestAssertErrorCode_Matches(t *testing.T) {
	errutil.AssertErrorCode(t, oops.Code("CRITERIA_COMPILE").Errorf("bad rule"), "CRITERIA_COMPILE")
}

func TestAssertErrorCode_LooksThroughUncodedWrappers(t *testing.T) {
	inner := oops.Code("MODIFIER_NOT_FOUND").Errorf("modifier 9 not found")
	errutil.AssertErrorCode(t, oops.With("entity_id", 4).Wrap(inner), "MODIFIER_NOT_FOUND")
}

func TestAssertErrorContext_Matches(t *testing.T) {
	errutil.AssertErrorContext(t, oops.With("source", "health >").Errorf("bad rule"), "source", "health >")
}

func TestAssertErrorContext_ComparesNumbersByValue(t *testing.T) {
	err := oops.With("problems", int64(2)).Errorf("validation failed")
	errutil.AssertErrorContext(t, err, "problems", 2)
}

func TestAssertErrorContext_MergesWrappedContext(t *testing.T) {
	inner := oops.With("modifier_id", 7).Errorf("bad falloff")
	err := oops.With("entity_id", 1).Wrap(inner)
	errutil.AssertErrorContext(t, err, "modifier_id", 7)
	errutil.AssertErrorContext(t, err, "entity_id", 1)
}
