// config.go: construction options for the chaining map.
//
// Copyright (c) 2025 AGILira - A. Giordano
// Series: an AGILira library
// SPDX-License-Identifier: MPL-2.0
package chainmap

import (
	"fmt"

	"github.com/agilira/hydra"
	"github.com/agilira/hydra/internal/hash"
	"github.com/agilira/hydra/internal/xlog"
	"github.com/agilira/hydra/internal/xtime"
)

// Options holds the normalized attributes record for a Map, mirroring the
// source's attrs struct: load factor, a hash function in place of
// equals/keylen/key_is_literal (a generic comparable key makes those
// moot — equality is native Go ==), and the key/value eviction hooks in
// place of delete_key/delete_value.
type Options[K comparable, V any] struct {
	// LoadFactor is the resize threshold: n_items > LoadFactor * n_buckets
	// triggers a resize. Zero means "unset", defaulted to 0.75.
	LoadFactor float64

	// Hasher computes the 32-bit hash of a key. Defaults to hashing the
	// key's natural byte representation.
	Hasher func(K) uint32

	// OnEvictKey, if set, is invoked with a key dropped by Remove, Clear
	// or Close. Resize and overwrite keep the stored key and do not call it.
	OnEvictKey func(K)

	// OnEvictValue, if set, is invoked with a value dropped by Remove,
	// Clear or Close, and with the old value replaced by an overwriting
	// Insert.
	OnEvictValue func(V)

	Logger       xlog.Logger
	TimeProvider xtime.Provider
	Metrics      hydra.MetricsCollector
}

// Validate fills in defaults, returning an error only for the load
// factor's out-of-range case (spec's "zero load factor... is a
// construction error" is honored by rejecting negative/>1 values; a bare
// zero is treated as unset, since Go's option functions can't distinguish
// unset from explicit zero).
func (o *Options[K, V]) Validate() error {
	switch {
	case o.LoadFactor == 0:
		o.LoadFactor = 0.75
	case o.LoadFactor < 0 || o.LoadFactor > 1:
		return NewErrInvalidLoadFactor(o.LoadFactor)
	}
	if o.Hasher == nil {
		o.Hasher = defaultHasher[K]()
	}
	o.Logger = xlog.OrNoOp(o.Logger)
	o.TimeProvider = xtime.OrSystem(o.TimeProvider)
	o.Metrics = hydra.OrNoOp(o.Metrics)
	return nil
}

// Option configures Options during New.
type Option[K comparable, V any] func(*Options[K, V])

// WithLoadFactor sets the resize threshold.
func WithLoadFactor[K comparable, V any](f float64) Option[K, V] {
	return func(o *Options[K, V]) { o.LoadFactor = f }
}

// WithHasher overrides the default key hasher.
func WithHasher[K comparable, V any](h func(K) uint32) Option[K, V] {
	return func(o *Options[K, V]) { o.Hasher = h }
}

// WithOnEvictKey sets the key-eviction hook.
func WithOnEvictKey[K comparable, V any](fn func(K)) Option[K, V] {
	return func(o *Options[K, V]) { o.OnEvictKey = fn }
}

// WithOnEvictValue sets the value-eviction hook.
func WithOnEvictValue[K comparable, V any](fn func(V)) Option[K, V] {
	return func(o *Options[K, V]) { o.OnEvictValue = fn }
}

// WithLogger sets the Logger.
func WithLogger[K comparable, V any](l xlog.Logger) Option[K, V] {
	return func(o *Options[K, V]) { o.Logger = l }
}

// WithTimeProvider sets the TimeProvider.
func WithTimeProvider[K comparable, V any](p xtime.Provider) Option[K, V] {
	return func(o *Options[K, V]) { o.TimeProvider = p }
}

// WithMetrics sets the MetricsCollector.
func WithMetrics[K comparable, V any](m hydra.MetricsCollector) Option[K, V] {
	return func(o *Options[K, V]) { o.Metrics = m }
}

// defaultHasher hashes the key's natural byte representation, mirroring
// the source's "hash either the pointed-to keylen(key) bytes, or the raw
// bits of the pointer" once there's no pointer/pointee distinction left
// for a generic comparable key.
func defaultHasher[K comparable]() func(K) uint32 {
	return func(k K) uint32 {
		switch v := any(k).(type) {
		case string:
			return hash.String(v)
		case int:
			return hash.Uint64(uint64(v))
		case int8:
			return hash.Uint64(uint64(v))
		case int16:
			return hash.Uint64(uint64(v))
		case int32:
			return hash.Uint64(uint64(v))
		case int64:
			return hash.Uint64(uint64(v))
		case uint:
			return hash.Uint64(uint64(v))
		case uint8:
			return hash.Uint64(uint64(v))
		case uint16:
			return hash.Uint64(uint64(v))
		case uint32:
			return hash.Uint64(uint64(v))
		case uint64:
			return hash.Uint64(v)
		case bool:
			if v {
				return hash.Uint64(1)
			}
			return hash.Uint64(0)
		default:
			return hash.String(fmt.Sprint(v))
		}
	}
}
