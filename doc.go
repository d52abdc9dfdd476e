// Package hydra provides a toolkit of concurrent data structures and a
// reusable RCU (read-copy-update) reclamation engine.
//
// # Overview
//
// Hydra is organized as one root package (this one, carrying the shared
// hydra.MetricsCollector surface) plus a set of focused subpackages, each
// implementing one container:
//
//   - flatmap: a page-partitioned, open-addressed concurrent map keyed by
//     uint64, using per-page reader/writer locks and linear probing.
//   - chainmap: a concurrent separate-chaining map keyed by a comparable
//     type, using one lock per bucket.
//   - rwlock: a write-preferring reader/writer mutex, used by flatmap and
//     by any caller needing bounded writer starvation under heavy read
//     contention.
//   - rcu: a generation-counted RCU reclamation engine (rcu.GC) plus an
//     RCU-protected doubly-linked list (rcu.List) built on it.
//   - cuckoo: a single-threaded, two-table cuckoo hash map keyed by
//     uint64, trading concurrency for guaranteed O(1) worst-case lookups.
//
// # Quick Start
//
//	import "github.com/agilira/hydra/flatmap"
//
//	m, err := flatmap.New[string](16)
//	if err != nil {
//	    log.Fatal(err)
//	}
//	m.Insert(1, "alice")
//	if v, ok := m.Find(1); ok {
//	    fmt.Println(v)
//	}
//
// # Observability
//
// Every container accepts an optional hydra.MetricsCollector via its
// package's WithMetrics option, defaulting to hydra.NoOpMetricsCollector
// (zero overhead when unset). The separate hydra/otel module implements
// MetricsCollector using OpenTelemetry, keeping the core toolkit free of
// OTEL dependencies for callers who don't need them.
//
//	import (
//	    "github.com/agilira/hydra/rcu"
//	    hydraotel "github.com/agilira/hydra/otel"
//	)
//
//	collector, _ := hydraotel.NewOTelMetricsCollector(provider)
//	g := rcu.New(rcu.WithMetrics(collector))
//
// # Error Handling
//
// Each subpackage that can fail at construction (flatmap's page-size
// validation, for instance) returns a structured error built with
// github.com/agilira/go-errors, carrying an error code and contextual
// fields rather than a bare string.
//
// Copyright (c) 2025 AGILira - A. Giordano
// Series: an AGILira library
// SPDX-License-Identifier: MPL-2.0
package hydra
