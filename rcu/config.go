// config.go: construction options shared by GC and List.
//
// Copyright (c) 2025 AGILira - A. Giordano
// Series: an AGILira library
// SPDX-License-Identifier: MPL-2.0
package rcu

import (
	"github.com/agilira/hydra"
	"github.com/agilira/hydra/internal/xlog"
	"github.com/agilira/hydra/internal/xtime"
)

// Config holds the normalized options for a GC. Construction of the RCU
// engine has no hard-failure conditions, so New never returns an error.
type Config struct {
	Logger       xlog.Logger
	TimeProvider xtime.Provider
	Metrics      hydra.MetricsCollector
}

func (c *Config) Validate() {
	c.Logger = xlog.OrNoOp(c.Logger)
	c.TimeProvider = xtime.OrSystem(c.TimeProvider)
	c.Metrics = hydra.OrNoOp(c.Metrics)
}

// Option configures a Config during New.
type Option func(*Config)

// WithLogger sets the Logger.
func WithLogger(l xlog.Logger) Option {
	return func(c *Config) { c.Logger = l }
}

// WithTimeProvider sets the TimeProvider.
func WithTimeProvider(p xtime.Provider) Option {
	return func(c *Config) { c.TimeProvider = p }
}

// WithMetrics sets the MetricsCollector.
func WithMetrics(m hydra.MetricsCollector) Option {
	return func(c *Config) { c.Metrics = m }
}
