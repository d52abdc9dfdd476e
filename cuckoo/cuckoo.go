// Package cuckoo implements a single-threaded, two-table cuckoo hash map
// keyed by a 64-bit unsigned integer, matching the flat map's key domain.
//
// Not safe for concurrent use: callers needing concurrency wrap a Map in
// their own sync.Mutex, exactly as the module's scope for this component
// is single-threaded. Each key is checked at up to one slot per table;
// a collision evicts the occupant, which is reinserted the same way,
// bouncing between the two tables until a free slot is found or the
// origin key reappears a third time — at which point a cycle is assumed
// and the whole map is rehashed into double-capacity tables.
//
// Copyright (c) 2025 AGILira - A. Giordano
// Series: an AGILira library
// SPDX-License-Identifier: MPL-2.0
package cuckoo

import "github.com/agilira/hydra/internal/hash"

const (
	reservedKey uint64 = 0

	initialTableCapacity uint64 = 16
	nTables                     = 2
	maxReinsertions             = 3
)

type slot[V any] struct {
	key      uint64
	occupied bool
	value    V
}

// Map is a single-threaded two-table cuckoo hash map. The zero value is
// not usable; construct with New.
type Map[V any] struct {
	tables   [nTables][]slot[V]
	capacity uint64
	nItems   int
	nResize  int
	cfg      Config[V]
}

// New constructs an empty Map with both tables sized to their initial
// capacity.
func New[V any](opts ...Option[V]) *Map[V] {
	var cfg Config[V]
	for _, opt := range opts {
		opt(&cfg)
	}
	cfg.Validate()

	m := &Map[V]{capacity: initialTableCapacity, cfg: cfg}
	for i := range m.tables {
		m.tables[i] = make([]slot[V], initialTableCapacity)
	}
	return m
}

// Len returns the number of keys currently in the map.
func (m *Map[V]) Len() int { return m.nItems }

// Capacity returns the current per-table slot count (both tables are
// always the same size).
func (m *Map[V]) Capacity() int { return int(m.capacity) }

// ResizeCount returns the number of rehash operations performed so far.
func (m *Map[V]) ResizeCount() int { return m.nResize }

// indexFor hashes key under the table-specific seed, giving each table an
// independent probe position for the same key.
func indexFor(key uint64, seed uint32, capacity uint64) uint64 {
	return uint64(hash.Uint64Seeded(key, seed)) & (capacity - 1)
}

// Insert stores key/value. If key is already present in one of its two
// candidate slots, the old value is returned and OnEvict is not invoked
// (the caller received it via old instead, matching the map's ownership
// hand-off on overwrite). ok is false only for the reserved key 0.
//
// n_items is incremented only on genuine insertion, not on overwrite —
// the module's conservative resolution of an ambiguity in the source,
// which increments on every successful insert including overwrites.
func (m *Map[V]) Insert(key uint64, value V) (old V, hadOld, ok bool) {
	if key == reservedKey {
		return old, false, false
	}

	for i := 0; i < nTables; i++ {
		idx := indexFor(key, uint32(i), m.capacity)
		s := &m.tables[i][idx]
		if s.occupied && s.key == key {
			old = s.value
			s.value = value
			return old, true, true
		}
	}
	if m.insertIntoFreeSlot(key, value) {
		m.nItems++
		return old, false, true
	}

	for !m.insertWithEvictions(key, value) {
		m.resize()
	}
	m.nItems++
	return old, false, true
}

// insertWithEvictions bounces key/value between the two tables, evicting
// whatever occupant it displaces and carrying it forward, until a free
// slot is found (true) or the original key reappears for the third time,
// signaling an eviction cycle (false) — the textbook threshold the
// module's scope hands implementers directly.
//
// Unlike the source, which reads each table slot into a local copy and
// mutates only that copy (losing every eviction it performs), this
// always swaps directly through a pointer into tables[i][index].
func (m *Map[V]) insertWithEvictions(key uint64, value V) bool {
	initKey := key
	nEncountered := 0

	currentKey := key
	currentVal := value
	tableIdx := 0

	for {
		if currentKey == initKey {
			if nEncountered >= maxReinsertions {
				m.cfg.Metrics.RecordEvictionCycle("cuckoo")
				return false
			}
			nEncountered++
		}

		if m.insertIntoFreeSlot(currentKey, currentVal) {
			return true
		}

		idx := indexFor(currentKey, uint32(tableIdx), m.capacity)
		s := &m.tables[tableIdx][idx]
		currentKey, currentVal, s.key, s.value = s.key, s.value, currentKey, currentVal

		tableIdx ^= 1
	}
}

func (m *Map[V]) insertIntoFreeSlot(key uint64, value V) bool {
	for i := 0; i < nTables; i++ {
		idx := indexFor(key, uint32(i), m.capacity)
		s := &m.tables[i][idx]
		if !s.occupied {
			s.key, s.value, s.occupied = key, value, true
			return true
		}
	}
	return false
}

// Find returns the value stored for key, if any.
func (m *Map[V]) Find(key uint64) (V, bool) {
	var zero V
	if key == reservedKey {
		return zero, false
	}
	for i := 0; i < nTables; i++ {
		idx := indexFor(key, uint32(i), m.capacity)
		s := &m.tables[i][idx]
		if s.occupied && s.key == key {
			return s.value, true
		}
	}
	return zero, false
}

// Contains reports whether key is present.
func (m *Map[V]) Contains(key uint64) bool {
	_, ok := m.Find(key)
	return ok
}

// Remove deletes key if present, invoking the configured eviction hook.
func (m *Map[V]) Remove(key uint64) bool {
	if key == reservedKey {
		return false
	}
	for i := 0; i < nTables; i++ {
		idx := indexFor(key, uint32(i), m.capacity)
		s := &m.tables[i][idx]
		if s.occupied && s.key == key {
			victim := s.value
			var zero V
			s.occupied = false
			s.value = zero
			m.nItems--
			if m.cfg.OnEvict != nil {
				m.cfg.OnEvict(victim)
			}
			return true
		}
	}
	return false
}

// resize doubles both tables' capacity and rehashes every live key into
// them. If a rehash pass itself hits an eviction cycle — vanishingly
// unlikely, but possible in principle — it doubles again and retries,
// exactly like Insert's own retry loop around insertWithEvictions.
func (m *Map[V]) resize() {
	oldTables, oldCapacity := m.tables, m.capacity
	newCapacity := oldCapacity
	for {
		newCapacity *= 2
		var newTables [nTables][]slot[V]
		for i := range newTables {
			newTables[i] = make([]slot[V], newCapacity)
		}

		m.tables, m.capacity = newTables, newCapacity

		ok := true
		for i := 0; i < nTables && ok; i++ {
			for j := uint64(0); j < oldCapacity && ok; j++ {
				s := oldTables[i][j]
				if !s.occupied {
					continue
				}
				if !m.insertWithEvictions(s.key, s.value) {
					ok = false
				}
			}
		}
		if ok {
			m.nResize++
			m.cfg.Logger.Debug("cuckoo: resized", "old_capacity", oldCapacity, "new_capacity", newCapacity)
			m.cfg.Metrics.RecordResize("cuckoo", oldCapacity, newCapacity)
			return
		}
	}
}

// Clear removes every entry, invoking the eviction hook (if set) on every
// live value, without shrinking the backing tables.
func (m *Map[V]) Clear() {
	for i := range m.tables {
		for j := range m.tables[i] {
			s := &m.tables[i][j]
			if s.occupied {
				if m.cfg.OnEvict != nil {
					m.cfg.OnEvict(s.value)
				}
				var zero V
				s.value = zero
				s.occupied = false
			}
		}
	}
	m.nItems = 0
}

// Close tears the map down, invoking the eviction hook (if set) on every
// still-live value. The map must not be used after Close returns.
func (m *Map[V]) Close() error {
	if m.cfg.OnEvict != nil {
		for i := range m.tables {
			for j := range m.tables[i] {
				s := &m.tables[i][j]
				if s.occupied {
					m.cfg.OnEvict(s.value)
				}
			}
		}
	}
	m.tables = [nTables][]slot[V]{}
	return nil
}
