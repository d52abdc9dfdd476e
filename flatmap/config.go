// config.go: construction options for the flat map.
//
// Copyright (c) 2025 AGILira - A. Giordano
// Series: an AGILira library
// SPDX-License-Identifier: MPL-2.0
package flatmap

import (
	"github.com/agilira/hydra"
	"github.com/agilira/hydra/internal/xlog"
	"github.com/agilira/hydra/internal/xtime"
)

// Config holds the normalized construction parameters for a Map.
type Config[V any] struct {
	// OnEvict, if set, is invoked with a value whenever the map drops it
	// (overwrite, remove, or teardown via Close). Optional: a V with no
	// externally owned resources needs no callback.
	OnEvict func(V)

	// Logger receives Debug-level lines on resize and for Insert calls
	// rejected for a reserved key. Defaults to a no-op logger.
	Logger xlog.Logger

	// TimeProvider defaults to the cached system clock. It is held in the
	// config; no map operation reads it.
	TimeProvider xtime.Provider

	// Metrics receives resize events. Defaults to a no-op collector.
	Metrics hydra.MetricsCollector
}

// Validate fills in defaults. It never fails: the only construction
// errors for a flat map are a bad page size, checked directly in New.
func (c *Config[V]) Validate() {
	c.Logger = xlog.OrNoOp(c.Logger)
	c.TimeProvider = xtime.OrSystem(c.TimeProvider)
	c.Metrics = hydra.OrNoOp(c.Metrics)
}

// Option configures a Config during New.
type Option[V any] func(*Config[V])

// WithOnEvict sets the value-eviction callback.
func WithOnEvict[V any](fn func(V)) Option[V] {
	return func(c *Config[V]) { c.OnEvict = fn }
}

// WithLogger sets the Logger.
func WithLogger[V any](l xlog.Logger) Option[V] {
	return func(c *Config[V]) { c.Logger = l }
}

// WithTimeProvider sets the TimeProvider.
func WithTimeProvider[V any](p xtime.Provider) Option[V] {
	return func(c *Config[V]) { c.TimeProvider = p }
}

// WithMetrics sets the MetricsCollector.
func WithMetrics[V any](m hydra.MetricsCollector) Option[V] {
	return func(c *Config[V]) { c.Metrics = m }
}
