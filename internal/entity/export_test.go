// SPDX-License-Identifier: Apache-2.0
// Copyright 2026 HoloMUSH Contributors

package entity

import "github.com/prometheus/client_golang/prometheus"

// EffectApplications exposes the outcome counter to external tests.
func EffectApplications(o Outcome) prometheus.Counter {
	return effectApplications.WithLabelValues(o.String())
}
