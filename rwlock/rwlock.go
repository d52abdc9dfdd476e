// Package rwlock implements the write-preferring reader/writer lock used
// throughout this module: the flat map's top-level and per-page locks, the
// chaining map's top-level and per-bucket locks, and the RCU engine's
// refcount-list lock are all literally one instance of RWMutex.
//
// The algorithm is the one documented by the original C source as adapted
// from the Go runtime's own sync.RWMutex: an atomic pending-reader counter
// gives readers a single fetch-add fast path whenever no writer contends,
// while an arriving writer flips that counter negative so every new reader
// is forced onto the slow path — bounding how long a writer can be starved
// regardless of reader arrival rate.
//
// Copyright (c) 2025 AGILira - A. Giordano
// Series: an AGILira library
// SPDX-License-Identifier: MPL-2.0
package rwlock

import (
	"sync"
	"sync/atomic"

	"github.com/agilira/hydra/internal/xsync"
)

// maxReaders bounds how many concurrent readers the counter encoding
// supports; a writer subtracts this value to flip the counter negative.
const maxReaders = 1 << 30

// RWMutex is a write-preferring reader/writer lock. The zero value is not
// ready to use — construct with New.
//
// Lock/Unlock satisfy sync.Locker for the writer side, since every other
// exclusive-access structure in this module is an instance of this type.
type RWMutex struct {
	nPending         int64 // signed: negative means a writer is pending/active
	readersDeparting int64
	writerMu         sync.Mutex
	readerRelease    *xsync.Event
	writerRelease    *xsync.Event
}

// New returns a ready-to-use RWMutex.
func New() *RWMutex {
	return &RWMutex{
		readerRelease: xsync.NewEvent(),
		writerRelease: xsync.NewEvent(),
	}
}

// LockRead acquires the lock for reading. The common case — no writer
// contending — is a single atomic fetch-add with no further
// synchronization.
func (l *RWMutex) LockRead() {
	if atomic.AddInt64(&l.nPending, 1) < 0 {
		// A writer is pending or active. It will broadcast the
		// reader-release event once it finishes, at which point
		// nPending is non-negative again for every waiter.
		l.readerRelease.Wait(func() bool {
			return atomic.LoadInt64(&l.nPending) >= 0
		})
	}
}

// UnlockRead releases a read acquisition obtained via LockRead.
func (l *RWMutex) UnlockRead() {
	if atomic.AddInt64(&l.nPending, -1) < 0 {
		// A writer is waiting for readers to drain.
		if atomic.AddInt64(&l.readersDeparting, -1) == 0 {
			l.writerRelease.Post()
		}
	}
}

// Lock acquires the lock for writing, blocking new readers as soon as it
// starts and preventing further writers via the internal serializing mutex.
func (l *RWMutex) Lock() {
	l.writerMu.Lock()

	// Flip the counter negative so every reader arriving from now on
	// takes the slow path, then recover the reader count that was
	// outstanding at the moment of the flip.
	r := atomic.AddInt64(&l.nPending, -maxReaders) + maxReaders
	if r != 0 {
		if atomic.AddInt64(&l.readersDeparting, r) != 0 {
			l.writerRelease.Wait(func() bool {
				return atomic.LoadInt64(&l.readersDeparting) == 0
			})
		}
	}
}

// Unlock releases a write acquisition obtained via Lock. All readers
// waiting on the reader-release event are woken together (broadcast, not
// post-one) so no waiting reader is left stranded behind another.
func (l *RWMutex) Unlock() {
	atomic.AddInt64(&l.nPending, maxReaders)
	l.readerRelease.Broadcast()
	l.writerMu.Unlock()
}
