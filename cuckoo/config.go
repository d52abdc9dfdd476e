// config.go: construction options for the cuckoo map.
//
// Copyright (c) 2025 AGILira - A. Giordano
// Series: an AGILira library
// SPDX-License-Identifier: MPL-2.0
package cuckoo

import (
	"github.com/agilira/hydra"
	"github.com/agilira/hydra/internal/xlog"
	"github.com/agilira/hydra/internal/xtime"
)

// Config holds the normalized construction parameters for a Map. The
// source requires a non-null deleter at construction; we follow the
// flat/chaining maps' generic-typed-ownership pattern instead and make
// OnEvict optional, since a V with no externally owned resources needs
// no callback.
type Config[V any] struct {
	// OnEvict, if set, is invoked with a value whenever the map drops it
	// (Remove, Clear, or teardown via Close). It is not invoked on
	// overwrite, where Insert hands the old value back to the caller, nor
	// for entries moved by eviction bounces, which are always reinserted.
	OnEvict func(V)

	// Logger receives Debug-level lines on rehash.
	Logger xlog.Logger

	// TimeProvider is held in the config; no map operation reads it.
	TimeProvider xtime.Provider

	// Metrics receives resize and eviction-cycle events.
	Metrics hydra.MetricsCollector
}

// Validate fills in defaults. Construction of a cuckoo map has no
// hard-failure conditions.
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
