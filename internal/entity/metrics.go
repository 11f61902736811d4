// SPDX-License-Identifier: Apache-2.0
// Copyright 2026 HoloMUSH Contributors

package entity

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

// effectApplications counts AddEffect calls that reached a decision, by
// outcome.
var effectApplications = promauto.NewCounterVec(prometheus.CounterOpts{
	Name: "modcore_effect_applications_total",
	Help: "Total number of effect applications by outcome",
}, []string{"outcome"})
