// list_test.go: tests for the RCU-protected doubly-linked list.
//
// Copyright (c) 2025 AGILira - A. Giordano
// Series: an AGILira library
// SPDX-License-Identifier: MPL-2.0
package rcu

import (
	"sync"
	"sync/atomic"
	"testing"
)

type pair struct {
	k, v int
}

// TestPushFrontReadScenario mirrors the module's RCU-list scenario: a
// writer pushes d1=(1,1) then d2=(2,2) at the front; a reader's Begin()
// must observe d2 (the most recently pushed head), and the list must
// remain safely usable after the reader's ReadUnlock.
func TestPushFrontReadScenario(t *testing.T) {
	l := NewList[pair]()
	l.PushFront(pair{1, 1})
	l.PushFront(pair{2, 2})

	rh := l.RegisterReader()
	rh.ReadLock()
	it := l.Begin()
	v, ok := it.Get()
	rh.ReadUnlock()

	if !ok || v != (pair{2, 2}) {
		t.Fatalf("Begin() = %v, %v; want (2,2), true", v, ok)
	}
}

func TestFindAndErase(t *testing.T) {
	l := NewList[pair]()
	l.PushBack(pair{1, 1})
	l.PushBack(pair{2, 2})
	l.PushBack(pair{3, 3})

	rh := l.RegisterReader()
	rh.ReadLock()
	it := l.Find(func(p pair) bool { return p.k == 2 })
	v, ok := it.Get()
	rh.ReadUnlock()
	if !ok || v.v != 2 {
		t.Fatalf("Find(2) = %v, %v", v, ok)
	}

	if !l.Erase(it) {
		t.Fatal("Erase should succeed the first time")
	}
	if l.Erase(it) {
		t.Fatal("Erase should be idempotent and fail the second time")
	}

	rh.ReadLock()
	missing := l.Find(func(p pair) bool { return p.k == 2 })
	_, ok = missing.Get()
	rh.ReadUnlock()
	if ok {
		t.Fatal("erased node should no longer be findable")
	}
}

// TestEraseDefersDestructionUntilReaderLeaves confirms that a node erased
// while a reader holds an overlapping (earlier-registered) critical
// section isn't destroyed until that reader leaves.
func TestEraseDefersDestructionUntilReaderLeaves(t *testing.T) {
	var destroyed atomic.Int64
	l := NewListWithDeleter[pair](func(p pair) { destroyed.Add(1) })
	l.PushBack(pair{1, 1})

	reader := l.RegisterReader()
	reader.ReadLock() // registers before the erase

	it := l.Find(func(p pair) bool { return p.k == 1 })
	if !l.Erase(it) {
		t.Fatal("Erase should succeed")
	}

	if destroyed.Load() != 0 {
		t.Fatal("node destroyed while an overlapping reader is still active")
	}

	reader.ReadUnlock()

	// The writer's own zombie record is swept by a later critical
	// section, not by itself — so give one more reader a turn through.
	trailing := l.RegisterReader()
	trailing.ReadLock()
	trailing.ReadUnlock()

	if destroyed.Load() != 1 {
		t.Fatalf("destroyed count = %d, want 1", destroyed.Load())
	}
}

func TestConcurrentPushFindErase(t *testing.T) {
	l := NewList[int]()
	const n = 500

	for i := 0; i < n; i++ {
		l.PushBack(i)
	}

	var wg sync.WaitGroup
	for i := 0; i < n; i += 2 {
		wg.Add(1)
		go func(target int) {
			defer wg.Done()
			rh := l.RegisterReader()
			rh.ReadLock()
			it := l.Find(func(v int) bool { return v == target })
			rh.ReadUnlock()
			l.Erase(it)
		}(i)
	}
	wg.Wait()

	rh := l.RegisterReader()
	rh.ReadLock()
	for i := 1; i < n; i += 2 {
		it := l.Find(func(v int) bool { return v == i })
		if _, ok := it.Get(); !ok {
			t.Fatalf("odd value %d should still be present", i)
		}
	}
	for i := 0; i < n; i += 2 {
		it := l.Find(func(v int) bool { return v == i })
		if _, ok := it.Get(); ok {
			t.Fatalf("even value %d should have been erased", i)
		}
	}
	rh.ReadUnlock()
}

func TestCloseRunsDeleterOnRemainingNodes(t *testing.T) {
	var count atomic.Int64
	l := NewListWithDeleter[int](func(int) { count.Add(1) })
	l.PushBack(1)
	l.PushBack(2)
	l.PushBack(3)

	if err := l.Close(); err != nil {
		t.Fatalf("Close: %v", err)
	}
	if count.Load() != 3 {
		t.Fatalf("deleter ran %d times, want 3", count.Load())
	}
}
