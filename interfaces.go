// interfaces.go: public observability surface for Hydra.
//
// Copyright (c) 2025 AGILira - A. Giordano
// Series: an AGILira library
// SPDX-License-Identifier: MPL-2.0

package hydra

// MetricsCollector receives structured events from every container in the
// module. All methods must be safe for concurrent use and should be cheap
// enough to call on every resize/collection — implementations that need to
// batch or sample should do so internally. A nil MetricsCollector is never
// passed to a container; pass NoOpMetricsCollector{} (the default every
// package's Config falls back to) when no observability backend is wired
// up.
type MetricsCollector interface {
	// RecordResize fires whenever a container grows its backing storage:
	// the flat map doubling its cell array, the chaining map doubling its
	// bucket array, or the cuckoo map doubling both tables.
	RecordResize(component string, oldCapacity, newCapacity uint64)

	// RecordEvictionCycle fires when the cuckoo map's insert-with-evictions
	// loop detects a cycle (the origin key reinserted a third time) and
	// must rehash to resolve it.
	RecordEvictionCycle(component string)

	// RecordGeneration fires every time the RCU engine's Synchronize
	// publishes a new generation, reporting the generation it just
	// retired and the engine's current reader-lag: current generation
	// minus the last fully-collected one.
	RecordGeneration(priorGeneration uint64, lag uint64)

	// RecordDeferredQueueDepth fires after every Defer call with the
	// number of not-yet-run deferred-destruction records outstanding.
	RecordDeferredQueueDepth(depth int)
}

// NoOpMetricsCollector discards every event. It is the default for every
// package's Config so metrics collection costs nothing when unused.
type NoOpMetricsCollector struct{}

func (NoOpMetricsCollector) RecordResize(component string, oldCapacity, newCapacity uint64) {}
func (NoOpMetricsCollector) RecordEvictionCycle(component string)                            {}
func (NoOpMetricsCollector) RecordGeneration(priorGeneration uint64, lag uint64)             {}
func (NoOpMetricsCollector) RecordDeferredQueueDepth(depth int)                              {}

// OrNoOp returns m, or NoOpMetricsCollector{} if m is nil.
func OrNoOp(m MetricsCollector) MetricsCollector {
	if m == nil {
		return NoOpMetricsCollector{}
	}
	return m
}
