// Package flatmap implements a concurrent, page-partitioned, open-addressed
// hash map keyed by a 64-bit unsigned integer.
//
// The backing cell array is logically cut into fixed-size pages, each
// guarded by its own rwlock.RWMutex; a top-level RWMutex guards table
// shape (the cell array, the page-lock array, and the page count) and is
// held in shared mode by every normal operation, exclusive only across a
// whole-table resize. Linear probing hands off page locks as it crosses a
// page boundary: release the current page's lock before acquiring the
// next page's lock in the same mode, so a long probe sequence never holds
// more than one page lock at a time.
//
// Copyright (c) 2025 AGILira - A. Giordano
// Series: an AGILira library
// SPDX-License-Identifier: MPL-2.0
package flatmap

import (
	"sync/atomic"

	"github.com/agilira/hydra/internal/hash"
	"github.com/agilira/hydra/rwlock"
)

const (
	emptyKey     uint64 = 0
	tombstoneKey uint64 = ^uint64(0)

	initialCapacity = 16
	loadFactor      = 0.75
)

type cell[V any] struct {
	key   uint64
	value V
}

// Map is a page-partitioned open-addressed concurrent map keyed by
// uint64. The zero value is not usable; construct with New.
type Map[V any] struct {
	top      *rwlock.RWMutex
	cells    []cell[V]
	pages    []*rwlock.RWMutex
	pageSize uint64
	occupied atomic.Uint64
	cfg      Config[V]
}

// New constructs a Map with the given page size, which must be a non-zero
// power of two. Initial capacity is 16 cells (bumped up to pageSize if
// pageSize itself exceeds 16, so the page count is never zero); the
// number of pages is always capacity/pageSize.
func New[V any](pageSize uint64, opts ...Option[V]) (*Map[V], error) {
	if pageSize == 0 || pageSize&(pageSize-1) != 0 {
		return nil, NewErrInvalidPageSize(pageSize)
	}

	var cfg Config[V]
	for _, opt := range opts {
		opt(&cfg)
	}
	cfg.Validate()

	capacity := uint64(initialCapacity)
	if pageSize > capacity {
		capacity = pageSize
	}
	pageCount := capacity / pageSize

	m := &Map[V]{
		top:      rwlock.New(),
		cells:    make([]cell[V], capacity),
		pages:    make([]*rwlock.RWMutex, pageCount),
		pageSize: pageSize,
		cfg:      cfg,
	}
	for i := range m.pages {
		m.pages[i] = rwlock.New()
	}
	return m, nil
}

// Len returns the number of occupied-or-tombstone cells, per the module's
// occupied_cells accounting: tombstones remain counted until the next
// resize.
func (m *Map[V]) Len() int {
	return int(m.occupied.Load())
}

// Capacity returns the current number of cells.
func (m *Map[V]) Capacity() int {
	m.top.LockRead()
	defer m.top.UnlockRead()
	return len(m.cells)
}

func loadFactorExceeded(occupiedPlusOne, capacity uint64) bool {
	return float64(occupiedPlusOne)/float64(capacity) >= loadFactor
}

// Insert stores key/value, replacing any existing entry for key. It
// returns the replaced value and whether one existed, plus ok=false for
// a rejected call (nil map receiver never happens in Go; zero or
// tombstone-reserved key is rejected) or a probe-wrap with no available
// slot (unreachable if resize preconditions hold; see the module's
// probe-wrap invariant).
func (m *Map[V]) Insert(key uint64, value V) (old V, hadOld bool, ok bool) {
	if key == emptyKey || key == tombstoneKey {
		m.cfg.Logger.Debug("flatmap: insert rejected", "reason", "reserved key", "key", key)
		return old, false, false
	}

	m.top.LockRead()
	if loadFactorExceeded(m.occupied.Load()+1, uint64(len(m.cells))) {
		m.top.UnlockRead()
		m.resize()
		m.top.LockRead()
	}
	defer m.top.UnlockRead()

	capacity := uint64(len(m.cells))
	start := hash.Uint64(key) & (capacity - 1)

	var heldPage uint64 = ^uint64(0)
	unlockHeld := func() {
		if heldPage != ^uint64(0) {
			m.pages[heldPage].Unlock()
			heldPage = ^uint64(0)
		}
	}
	defer unlockHeld()

	for i := uint64(0); i < capacity; i++ {
		idx := (start + i) % capacity
		pg := idx / m.pageSize
		if pg != heldPage {
			unlockHeld()
			m.pages[pg].Lock()
			heldPage = pg
		}

		c := &m.cells[idx]
		switch c.key {
		case emptyKey:
			c.key = key
			c.value = value
			unlockHeld()
			m.occupied.Add(1)
			return old, false, true
		case tombstoneKey:
			continue
		default:
			if c.key == key {
				old = c.value
				hadOld = true
				c.value = value
				unlockHeld()
				if m.cfg.OnEvict != nil {
					m.cfg.OnEvict(old)
				}
				return old, true, true
			}
		}
	}
	return old, false, false
}

// Remove deletes key if present, invoking the configured eviction hook on
// its value and marking the cell as a tombstone. occupied_cells is NOT
// decremented — tombstones remain counted until the next resize.
func (m *Map[V]) Remove(key uint64) bool {
	if key == emptyKey || key == tombstoneKey {
		return false
	}

	m.top.LockRead()
	defer m.top.UnlockRead()

	capacity := uint64(len(m.cells))
	start := hash.Uint64(key) & (capacity - 1)

	var heldPage uint64 = ^uint64(0)
	unlockHeld := func() {
		if heldPage != ^uint64(0) {
			m.pages[heldPage].Unlock()
			heldPage = ^uint64(0)
		}
	}
	defer unlockHeld()

	for i := uint64(0); i < capacity; i++ {
		idx := (start + i) % capacity
		pg := idx / m.pageSize
		if pg != heldPage {
			unlockHeld()
			m.pages[pg].Lock()
			heldPage = pg
		}

		c := &m.cells[idx]
		switch c.key {
		case emptyKey:
			return false
		case tombstoneKey:
			continue
		default:
			if c.key == key {
				victim := c.value
				var zero V
				c.key = tombstoneKey
				c.value = zero
				unlockHeld()
				if m.cfg.OnEvict != nil {
					m.cfg.OnEvict(victim)
				}
				return true
			}
		}
	}
	return false
}

// Find returns the value stored for key, if any.
func (m *Map[V]) Find(key uint64) (V, bool) {
	var zero V
	if key == emptyKey || key == tombstoneKey {
		return zero, false
	}

	m.top.LockRead()
	defer m.top.UnlockRead()

	capacity := uint64(len(m.cells))
	start := hash.Uint64(key) & (capacity - 1)

	var heldPage uint64 = ^uint64(0)
	unlockHeld := func() {
		if heldPage != ^uint64(0) {
			m.pages[heldPage].UnlockRead()
			heldPage = ^uint64(0)
		}
	}
	defer unlockHeld()

	for i := uint64(0); i < capacity; i++ {
		idx := (start + i) % capacity
		pg := idx / m.pageSize
		if pg != heldPage {
			unlockHeld()
			m.pages[pg].LockRead()
			heldPage = pg
		}

		c := &m.cells[idx]
		switch c.key {
		case emptyKey:
			return zero, false
		case tombstoneKey:
			continue
		default:
			if c.key == key {
				return c.value, true
			}
		}
	}
	return zero, false
}

// Contains reports whether key is present.
func (m *Map[V]) Contains(key uint64) bool {
	_, ok := m.Find(key)
	return ok
}

// resize doubles the cell array and the page-lock array (page size is
// unchanged), re-inserting every live cell of the old array without any
// per-cell locking — the exclusive top-level lock already guarantees
// exclusion. If another goroutine already resized before this one
// acquired the exclusive lock, this call is a no-op.
func (m *Map[V]) resize() {
	m.top.Lock()
	defer m.top.Unlock()

	capacity := uint64(len(m.cells))
	if !loadFactorExceeded(m.occupied.Load()+1, capacity) {
		return
	}

	newCapacity := capacity * 2
	newCells := make([]cell[V], newCapacity)
	newPageCount := newCapacity / m.pageSize
	newPages := make([]*rwlock.RWMutex, newPageCount)
	for i := range newPages {
		newPages[i] = rwlock.New()
	}

	var live uint64
	for _, c := range m.cells {
		if c.key == emptyKey || c.key == tombstoneKey {
			continue
		}
		start := hash.Uint64(c.key) & (newCapacity - 1)
		for i := uint64(0); i < newCapacity; i++ {
			idx := (start + i) % newCapacity
			if newCells[idx].key == emptyKey {
				newCells[idx] = c
				live++
				break
			}
		}
	}

	m.cells = newCells
	m.pages = newPages
	m.occupied.Store(live)
	m.cfg.Logger.Debug("flatmap: resized", "old_capacity", capacity, "new_capacity", newCapacity, "live_cells", live)
	m.cfg.Metrics.RecordResize("flatmap", capacity, newCapacity)
}

// Clear removes every entry, invoking the eviction hook (if set) on every
// live value, without shrinking the backing arrays.
func (m *Map[V]) Clear() {
	m.top.Lock()
	defer m.top.Unlock()

	for i := range m.cells {
		c := &m.cells[i]
		if c.key != emptyKey && c.key != tombstoneKey {
			if m.cfg.OnEvict != nil {
				m.cfg.OnEvict(c.value)
			}
			var zero V
			c.value = zero
		}
		c.key = emptyKey
	}
	m.occupied.Store(0)
}

// Close tears down the map, invoking the eviction hook (if set) on every
// still-live value. The map must not be used after Close returns.
func (m *Map[V]) Close() error {
	m.top.Lock()
	defer m.top.Unlock()

	if m.cfg.OnEvict != nil {
		for i := range m.cells {
			c := &m.cells[i]
			if c.key != emptyKey && c.key != tombstoneKey {
				m.cfg.OnEvict(c.value)
			}
		}
	}
	m.cells = nil
	m.pages = nil
	return nil
}
