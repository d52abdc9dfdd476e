// Package chainmap implements a concurrent per-bucket-chaining hash map
// generic over any comparable key.
//
// A power-of-two-sized bucket array backs the map; each bucket is an
// intrusive doubly-linked list (internal/ilist) guarded by its own
// rwlock.RWMutex, and a top-level RWMutex guards bucket-array shape —
// shared for normal operations, exclusive only across resize. Every
// entry memoizes its key's 32-bit hash so that resize only has to move
// entries between buckets, never rehash them.
//
// Copyright (c) 2025 AGILira - A. Giordano
// Series: an AGILira library
// SPDX-License-Identifier: MPL-2.0
package chainmap

import (
	"sync/atomic"

	"github.com/agilira/hydra/internal/ilist"
	"github.com/agilira/hydra/rwlock"
)

const initialBucketCount = 4

type entry[K comparable, V any] struct {
	key   K
	value V
	hash  uint32
}

type bucket[K comparable, V any] struct {
	lock *rwlock.RWMutex
	list *ilist.List[entry[K, V]]
}

func newBucket[K comparable, V any]() *bucket[K, V] {
	return &bucket[K, V]{lock: rwlock.New(), list: ilist.New[entry[K, V]]()}
}

// Map is a concurrent, per-bucket-chaining hash map. The zero value is
// not usable; construct with New.
type Map[K comparable, V any] struct {
	top     *rwlock.RWMutex
	buckets []*bucket[K, V]
	nItems  atomic.Uint64
	cfg     Options[K, V]
}

// New constructs a Map. With no options it matches the source's
// new(void) defaults: load factor 0.75, the natural-byte-representation
// hasher, no eviction hooks.
func New[K comparable, V any](opts ...Option[K, V]) (*Map[K, V], error) {
	var o Options[K, V]
	for _, opt := range opts {
		opt(&o)
	}
	if err := o.Validate(); err != nil {
		return nil, err
	}

	m := &Map[K, V]{top: rwlock.New(), cfg: o}
	m.buckets = make([]*bucket[K, V], initialBucketCount)
	for i := range m.buckets {
		m.buckets[i] = newBucket[K, V]()
	}
	return m, nil
}

// Len returns the number of items currently stored.
func (m *Map[K, V]) Len() int { return int(m.nItems.Load()) }

// BucketCount returns the current number of buckets.
func (m *Map[K, V]) BucketCount() int {
	m.top.LockRead()
	defer m.top.UnlockRead()
	return len(m.buckets)
}

func (m *Map[K, V]) resizePredicate(candidateItems uint64) bool {
	nBuckets := uint64(len(m.buckets))
	return float64(candidateItems) > m.cfg.LoadFactor*float64(nBuckets)
}

func (m *Map[K, V]) bucketFor(h uint32) *bucket[K, V] {
	n := uint32(len(m.buckets))
	return m.buckets[h&(n-1)]
}

func findEntry[K comparable, V any](h uint32, key K) func(entry[K, V]) bool {
	return func(e entry[K, V]) bool { return e.hash == h && e.key == key }
}

// Insert stores key/value, replacing any existing entry. It returns the
// replaced value and whether one existed.
func (m *Map[K, V]) Insert(key K, value V) (old V, hadOld bool) {
	m.top.LockRead()
	if m.resizePredicate(m.nItems.Load() + 1) {
		m.top.UnlockRead()
		m.resize()
		m.top.LockRead()
	}
	defer m.top.UnlockRead()

	h := m.cfg.Hasher(key)
	bkt := m.bucketFor(h)

	bkt.lock.Lock()
	defer bkt.lock.Unlock()

	if e := bkt.list.Find(findEntry[K, V](h, key)); e != nil {
		old = e.Value.value
		hadOld = true
		e.Value.value = value
		if m.cfg.OnEvictValue != nil {
			m.cfg.OnEvictValue(old)
		}
		return old, true
	}

	bkt.list.PushFront(entry[K, V]{key: key, value: value, hash: h})
	m.nItems.Add(1)
	return old, false
}

// Remove deletes key if present, invoking the configured eviction hooks.
func (m *Map[K, V]) Remove(key K) bool {
	m.top.LockRead()
	defer m.top.UnlockRead()

	h := m.cfg.Hasher(key)
	bkt := m.bucketFor(h)

	bkt.lock.Lock()
	defer bkt.lock.Unlock()

	e := bkt.list.Find(findEntry[K, V](h, key))
	if e == nil {
		return false
	}
	victim := bkt.list.Remove(e)
	m.nItems.Add(^uint64(0)) // -1

	if m.cfg.OnEvictKey != nil {
		m.cfg.OnEvictKey(victim.key)
	}
	if m.cfg.OnEvictValue != nil {
		m.cfg.OnEvictValue(victim.value)
	}
	return true
}

// Find returns the value stored for key, if any.
func (m *Map[K, V]) Find(key K) (V, bool) {
	var zero V
	m.top.LockRead()
	defer m.top.UnlockRead()

	h := m.cfg.Hasher(key)
	bkt := m.bucketFor(h)

	bkt.lock.LockRead()
	defer bkt.lock.UnlockRead()

	e := bkt.list.Find(findEntry[K, V](h, key))
	if e == nil {
		return zero, false
	}
	return e.Value.value, true
}

// Contains reports whether key is present.
func (m *Map[K, V]) Contains(key K) bool {
	_, ok := m.Find(key)
	return ok
}

// resize doubles the bucket array. For each old bucket, entries are
// popped from the front and pushed into the new bucket their memoized
// hash indexes into — no rehashing. If another goroutine already
// resized before this one acquired the exclusive lock, this is a no-op.
func (m *Map[K, V]) resize() {
	m.top.Lock()
	defer m.top.Unlock()

	if !m.resizePredicate(m.nItems.Load() + 1) {
		return
	}

	oldBuckets := m.buckets
	newCount := uint64(len(oldBuckets)) * 2
	newBuckets := make([]*bucket[K, V], newCount)
	for i := range newBuckets {
		newBuckets[i] = newBucket[K, V]()
	}

	for _, b := range oldBuckets {
		for {
			e, ok := b.list.PopFront()
			if !ok {
				break
			}
			idx := uint64(e.hash) & (newCount - 1)
			newBuckets[idx].list.PushFront(e)
		}
	}

	m.buckets = newBuckets
	m.cfg.Logger.Debug("chainmap: resized", "old_buckets", len(oldBuckets), "new_buckets", newCount)
	m.cfg.Metrics.RecordResize("chainmap", uint64(len(oldBuckets)), newCount)
}

// Clear removes every entry, invoking the eviction hooks on every live
// entry, without shrinking the bucket array.
func (m *Map[K, V]) Clear() {
	m.top.Lock()
	defer m.top.Unlock()

	for _, b := range m.buckets {
		for {
			e, ok := b.list.PopFront()
			if !ok {
				break
			}
			if m.cfg.OnEvictKey != nil {
				m.cfg.OnEvictKey(e.key)
			}
			if m.cfg.OnEvictValue != nil {
				m.cfg.OnEvictValue(e.value)
			}
		}
	}
	m.nItems.Store(0)
}

// Close tears down the map like Clear, after which it must not be reused.
func (m *Map[K, V]) Close() error {
	m.Clear()
	m.top.Lock()
	defer m.top.Unlock()
	m.buckets = nil
	return nil
}
