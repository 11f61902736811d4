// SPDX-License-Identifier: Apache-2.0
// Copyright 2026 HoloMUSH Contributors

package hierarchy

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

// cacheBuilds counts memo entries created, by cache ("search" or "descendants").
var cacheBuilds = promauto.NewCounterVec(prometheus.CounterOpts{
	Name: "modcore_hierarchy_cache_builds_total",
	Help: "Total number of taxonomy cache entries built",
}, []string{"cache"})
