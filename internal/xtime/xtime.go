// Package xtime provides the cached time source that every container's
// config carries as its TimeProvider. No container operation reads it —
// the RCU engine and the maps are generation/lock driven, not time driven.
//
// Copyright (c) 2025 AGILira - A. Giordano
// Series: an AGILira library
// SPDX-License-Identifier: MPL-2.0
package xtime

import "github.com/agilira/go-timecache"

// Provider supplies the current time. This interface allows injecting a
// deterministic implementation in tests.
type Provider interface {
	// Now returns the current time in nanoseconds since epoch.
	Now() int64
}

// System is the default Provider, backed by go-timecache's cached clock —
// far cheaper than time.Now().
type System struct{}

func (System) Now() int64 { return timecache.CachedTimeNano() }

// OrSystem returns p, or System{} if p is nil.
func OrSystem(p Provider) Provider {
	if p == nil {
		return System{}
	}
	return p
}
