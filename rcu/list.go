// list.go: the RCU-protected doubly-linked list.
//
// Readers traverse lock-free; writers serialize on an internal mutex and
// splice with sequentially-consistent atomic stores so a concurrent
// lock-free reader always sees a coherent chain. Reclamation is driven by
// a Treiber (CAS-based) stack of zombie records: every active reader or
// writer critical section pushes one record when it locks and, on
// unlock, walks the records pushed before it — if every one of those has
// already been marked departed, this critical section is the one whose
// exit makes it safe to run the deleter on whatever dead nodes got
// attached to those records by an intervening Erase, and to mark the
// record itself "swept" (via CAS, so two concurrent unlockers racing over
// the same record run its garbage exactly once) so nothing is reclaimed
// twice.
//
// Erase attaches the node it unlinks to the CALLING WRITER'S OWN zombie
// record — a deliberate correction versus the source, whose erase never
// attaches the unlinked node to any zombie record at all. Writers use the
// same zombie-stack mechanism as readers (the source's write_lock/
// write_unlock already simply delegate to read_lock/read_unlock), so a
// writer's own record is swept by whatever later critical section walks
// past it, exactly like a reader's.
//
// Copyright (c) 2025 AGILira - A. Giordano
// Series: an AGILira library
// SPDX-License-Identifier: MPL-2.0
package rcu

import (
	"sync"
	"sync/atomic"
)

type node[T any] struct {
	prev, next atomic.Pointer[node[T]]
	value      T
	deleted    atomic.Bool
}

type zombieRecord[T any] struct {
	next    *zombieRecord[T]
	owner   atomic.Bool
	swept   atomic.Bool
	garbage []*node[T]
}

// List is an RCU-protected doubly-linked list. The zero value is not
// usable; construct with NewList or NewListWithDeleter.
type List[T any] struct {
	writeMu sync.Mutex
	head    atomic.Pointer[node[T]]
	tail    atomic.Pointer[node[T]]

	zombieTop atomic.Pointer[zombieRecord[T]]
	deleter   func(T)

	cfg Config
}

// NewList constructs an empty list with no deleter — dropped nodes are
// simply released to the garbage collector.
func NewList[T any](opts ...Option) *List[T] {
	var cfg Config
	for _, o := range opts {
		o(&cfg)
	}
	cfg.Validate()
	return &List[T]{cfg: cfg}
}

// NewListWithDeleter constructs an empty list whose deleter runs on every
// node once it's safe to reclaim (no active reader/writer critical
// section could still observe it).
func NewListWithDeleter[T any](deleter func(T), opts ...Option) *List[T] {
	l := NewList[T](opts...)
	l.deleter = deleter
	return l
}

// Iterator is a value type carrying a raw node reference, matching the
// source's iterator shape.
type Iterator[T any] struct {
	n *node[T]
}

// Get returns the iterator's value, or the zero value and false at End().
func (it Iterator[T]) Get() (T, bool) {
	if it.n == nil {
		var zero T
		return zero, false
	}
	return it.n.value, true
}

// Next advances the iterator. Find/iteration does not check the deleted
// flag, so an in-flight concurrent Erase may still yield a handle to the
// removed node — safe, because reclamation is deferred until after every
// reader that could have observed it has left.
func (it Iterator[T]) Next() Iterator[T] {
	if it.n == nil {
		return it
	}
	return Iterator[T]{n: it.n.next.Load()}
}

// Begin returns an iterator at the head of the live list.
func (l *List[T]) Begin() Iterator[T] { return Iterator[T]{n: l.head.Load()} }

// End returns the past-the-end iterator.
func (l *List[T]) End() Iterator[T] { return Iterator[T]{} }

// Find walks the live list front-to-back under no lock of its own —
// callers must bracket Find within a registered reader's ReadLock/
// ReadUnlock (or a writer's WriteLock/WriteUnlock) so the nodes it visits
// cannot be reclaimed mid-traversal.
func (l *List[T]) Find(finder func(T) bool) Iterator[T] {
	for n := l.head.Load(); n != nil; n = n.next.Load() {
		if finder(n.value) {
			return Iterator[T]{n: n}
		}
	}
	return Iterator[T]{}
}

// PushFront splices a new node at the head of the live list.
func (l *List[T]) PushFront(v T) {
	l.writeMu.Lock()
	defer l.writeMu.Unlock()

	n := &node[T]{value: v}
	old := l.head.Load()
	n.next.Store(old)
	if old != nil {
		old.prev.Store(n)
	} else {
		l.tail.Store(n)
	}
	l.head.Store(n)
}

// PushBack splices a new node at the tail of the live list.
func (l *List[T]) PushBack(v T) {
	l.writeMu.Lock()
	defer l.writeMu.Unlock()

	n := &node[T]{value: v}
	old := l.tail.Load()
	n.prev.Store(old)
	if old != nil {
		old.next.Store(n)
	} else {
		l.head.Store(n)
	}
	l.tail.Store(n)
}

func (l *List[T]) unlink(n *node[T]) {
	prev := n.prev.Load()
	next := n.next.Load()
	if prev != nil {
		prev.next.Store(next)
	} else {
		l.head.Store(next)
	}
	if next != nil {
		next.prev.Store(prev)
	} else {
		l.tail.Store(prev)
	}
}

// Erase unlinks the node it points at, if not already deleted (the
// deleted flag makes this idempotent), and attaches it to a fresh writer
// zombie record so the configured deleter — if any — runs once no
// reader/writer that could still observe the node remains active.
func (l *List[T]) Erase(it Iterator[T]) bool {
	n := it.n
	if n == nil {
		return false
	}

	h := l.RegisterWriter()
	h.WriteLock()
	defer h.WriteUnlock()

	if n.deleted.Swap(true) {
		return false
	}
	l.unlink(n)
	h.cur.garbage = append(h.cur.garbage, n)
	return true
}

// Handle is obtained via RegisterReader/RegisterWriter and drives the
// paired ReadLock/ReadUnlock (or WriteLock/WriteUnlock) critical-section
// protocol.
type Handle[T any] struct {
	list     *List[T]
	isWriter bool
	cur      *zombieRecord[T]
}

// RegisterReader returns a reusable reader handle.
func (l *List[T]) RegisterReader() *Handle[T] { return &Handle[T]{list: l} }

// RegisterWriter returns a reusable writer handle.
func (l *List[T]) RegisterWriter() *Handle[T] { return &Handle[T]{list: l, isWriter: true} }

// ReadLock allocates a zombie record pointing at this handle and
// atomically pushes it onto the lock-free zombie stack.
func (h *Handle[T]) ReadLock() {
	rec := &zombieRecord[T]{}
	rec.owner.Store(true)
	for {
		top := h.list.zombieTop.Load()
		rec.next = top
		if h.list.zombieTop.CompareAndSwap(top, rec) {
			break
		}
	}
	h.cur = rec
}

// ReadUnlock walks the zombie stack from this handle's record downward;
// if every record further down already shows a departed owner, it runs
// the deleter over their attached garbage (each record swept at most
// once, via CAS, even if two unlockers' walks overlap) before publishing
// that this critical section has left.
func (h *Handle[T]) ReadUnlock() {
	rec := h.cur
	h.cur = nil

	for r := rec.next; r != nil; r = r.next {
		if r.owner.Load() {
			rec.owner.Store(false)
			return
		}
	}
	for r := rec.next; r != nil; r = r.next {
		if r.swept.CompareAndSwap(false, true) {
			if h.list.deleter != nil {
				for _, n := range r.garbage {
					h.list.deleter(n.value)
				}
			}
			r.garbage = nil
		}
	}

	rec.owner.Store(false)
}

// WriteLock takes the list's write mutex for the duration of a mutation
// and registers this handle on the same zombie stack readers use.
func (h *Handle[T]) WriteLock() {
	h.list.writeMu.Lock()
	h.ReadLock()
}

// WriteUnlock releases the zombie-stack registration and then the write
// mutex.
func (h *Handle[T]) WriteUnlock() {
	h.ReadUnlock()
	h.list.writeMu.Unlock()
}

// Close tears the list down, running the deleter (if any) over every
// remaining live node and every not-yet-swept zombie record's garbage.
// The list must not be used after Close returns.
func (l *List[T]) Close() error {
	l.writeMu.Lock()
	defer l.writeMu.Unlock()

	if l.deleter != nil {
		for n := l.head.Load(); n != nil; n = n.next.Load() {
			l.deleter(n.value)
		}
		for r := l.zombieTop.Load(); r != nil; r = r.next {
			if r.swept.CompareAndSwap(false, true) {
				for _, n := range r.garbage {
					l.deleter(n.value)
				}
			}
		}
	}
	l.head.Store(nil)
	l.tail.Store(nil)
	return nil
}
