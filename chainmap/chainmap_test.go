// chainmap_test.go: unit and concurrency tests for the chaining map.
//
// Copyright (c) 2025 AGILira - A. Giordano
// Series: an AGILira library
// SPDX-License-Identifier: MPL-2.0
package chainmap

import (
	"sync"
	"testing"
)

func TestNew_Defaults(t *testing.T) {
	m, err := New[string, int]()
	if err != nil {
		t.Fatalf("New: %v", err)
	}
	if m.BucketCount() != initialBucketCount {
		t.Fatalf("bucket count = %d, want %d", m.BucketCount(), initialBucketCount)
	}
}

func TestNew_RejectsOutOfRangeLoadFactor(t *testing.T) {
	if _, err := New[string, int](WithLoadFactor[string, int](-1)); err == nil {
		t.Fatal("expected error for negative load factor")
	}
	if _, err := New[string, int](WithLoadFactor[string, int](1.5)); err == nil {
		t.Fatal("expected error for load factor > 1")
	}
}

func TestRoundTripOverwriteRemove(t *testing.T) {
	m, _ := New[string, int]()

	if _, had := m.Insert("a", 1); had {
		t.Fatal("first insert should not report a prior value")
	}
	if v, ok := m.Find("a"); !ok || v != 1 {
		t.Fatalf("find = %v, %v", v, ok)
	}

	old, had := m.Insert("a", 2)
	if !had || old != 1 {
		t.Fatalf("overwrite: old=%v had=%v", old, had)
	}
	if v, _ := m.Find("a"); v != 2 {
		t.Fatalf("find after overwrite = %v", v)
	}

	if !m.Remove("a") {
		t.Fatal("remove should succeed")
	}
	if _, ok := m.Find("a"); ok {
		t.Fatal("find after remove should miss")
	}
	if m.Remove("a") {
		t.Fatal("second remove should fail")
	}
}

// TestResizeGrowsPastThousandBuckets mirrors the module's chaining-map
// scenario: insert 1000 keys, remove half, insert 1000 more, and confirm
// the bucket count grew well past its initial size while every surviving
// key remains findable.
func TestResizeGrowsPastThousandBuckets(t *testing.T) {
	m, _ := New[int, int]()

	for i := 0; i < 1000; i++ {
		if _, had := m.Insert(i, i*2); had {
			t.Fatalf("unexpected overwrite at insert %d", i)
		}
	}
	for i := 0; i < 1000; i += 2 {
		if !m.Remove(i) {
			t.Fatalf("remove(%d) failed", i)
		}
	}
	for i := 1; i < 1000; i += 2 {
		if v, ok := m.Find(i); !ok || v != i*2 {
			t.Fatalf("find(%d) = %v, %v; want %v, true", i, v, ok, i*2)
		}
	}
	for i := 1000; i < 2000; i++ {
		m.Insert(i, i*2)
	}

	if m.BucketCount() < 1024 {
		t.Fatalf("bucket count = %d, want >= 1024 after growth", m.BucketCount())
	}
	for i := 1; i < 2000; i += 2 {
		if v, ok := m.Find(i); !ok || v != i*2 {
			t.Fatalf("post-growth find(%d) = %v, %v; want %v, true", i, v, ok, i*2)
		}
	}
}

func TestEvictionHooksFireOnRemoveAndClear(t *testing.T) {
	var evictedKeys []string
	var evictedValues []int
	m, _ := New[string, int](
		WithOnEvictKey[string, int](func(k string) { evictedKeys = append(evictedKeys, k) }),
		WithOnEvictValue[string, int](func(v int) { evictedValues = append(evictedValues, v) }),
	)
	m.Insert("a", 1)
	m.Insert("b", 2)
	m.Remove("a")
	m.Clear()

	if len(evictedKeys) != 2 || len(evictedValues) != 2 {
		t.Fatalf("evicted keys=%v values=%v, want 2 each", evictedKeys, evictedValues)
	}
}

func TestConcurrentDisjointKeyRanges(t *testing.T) {
	m, _ := New[int, int]()
	const workers = 32
	const perWorker = 500

	var wg sync.WaitGroup
	wg.Add(workers)
	for w := 0; w < workers; w++ {
		go func(w int) {
			defer wg.Done()
			base := w * perWorker
			for i := 0; i < perWorker; i++ {
				key := base + i
				m.Insert(key, key*3)
				if v, ok := m.Find(key); ok && v != key*3 {
					t.Errorf("observed wrong value for key %d: %d", key, v)
				}
			}
		}(w)
	}
	wg.Wait()

	for w := 0; w < workers; w++ {
		base := w * perWorker
		for i := 0; i < perWorker; i++ {
			key := base + i
			if v, ok := m.Find(key); !ok || v != key*3 {
				t.Fatalf("post-concurrency find(%d) = %v, %v", key, v, ok)
			}
		}
	}
	if m.Len() != workers*perWorker {
		t.Fatalf("Len() = %d, want %d", m.Len(), workers*perWorker)
	}
}
