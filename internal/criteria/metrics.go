// SPDX-License-Identifier: Apache-2.0
// Copyright 2026 HoloMUSH Contributors

package criteria

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

var (
	// compilations counts source texts compiled, by result ("ok" or "error").
	compilations = promauto.NewCounterVec(prometheus.CounterOpts{
		Name: "modcore_criteria_compilations_total",
		Help: "Total number of criteria texts compiled",
	}, []string{"result"})

	// cacheLookups counts predicate cache lookups, by result ("hit" or "miss").
	cacheLookups = promauto.NewCounterVec(prometheus.CounterOpts{
		Name: "modcore_criteria_cache_lookups_total",
		Help: "Total number of compiled criteria cache lookups",
	}, []string{"result"})
)
