// cuckoo_test.go: unit tests for the cuckoo map.
//
// Copyright (c) 2025 AGILira - A. Giordano
// Series: an AGILira library
// SPDX-License-Identifier: MPL-2.0
package cuckoo

import "testing"

func TestRoundTripOverwriteRemove(t *testing.T) {
	m := New[int]()

	if _, _, ok := m.Insert(0, 1); ok {
		t.Fatal("reserved key 0 must be rejected")
	}

	if _, had, ok := m.Insert(1, 10); had || !ok {
		t.Fatalf("first insert: had=%v ok=%v", had, ok)
	}
	if v, ok := m.Find(1); !ok || v != 10 {
		t.Fatalf("find = %v, %v", v, ok)
	}

	old, had, ok := m.Insert(1, 20)
	if !had || !ok || old != 10 {
		t.Fatalf("overwrite: old=%v had=%v ok=%v", old, had, ok)
	}
	if v, _ := m.Find(1); v != 20 {
		t.Fatalf("find after overwrite = %v", v)
	}
	if m.Len() != 1 {
		t.Fatalf("Len() = %d, want 1 (overwrite must not double-count)", m.Len())
	}

	if !m.Remove(1) {
		t.Fatal("remove should succeed")
	}
	if _, ok := m.Find(1); ok {
		t.Fatal("find after remove should miss")
	}
	if m.Remove(1) {
		t.Fatal("second remove should fail")
	}
}

func TestEvictionChainsAndResize(t *testing.T) {
	m := New[int]()
	const n = 3000

	for i := uint64(1); i <= n; i++ {
		if _, _, ok := m.Insert(i, int(i)*2); !ok {
			t.Fatalf("insert(%d) rejected", i)
		}
	}
	if m.Len() != n {
		t.Fatalf("Len() = %d, want %d", m.Len(), n)
	}
	for i := uint64(1); i <= n; i++ {
		if v, ok := m.Find(i); !ok || v != int(i)*2 {
			t.Fatalf("find(%d) = %v, %v; want %v, true", i, v, ok, int(i)*2)
		}
	}
	if m.ResizeCount() == 0 {
		t.Fatal("expected at least one resize inserting well past initial capacity")
	}
}

func TestOnEvictFiresOnRemoveAndClear(t *testing.T) {
	var evicted []int
	m := New[int](WithOnEvict[int](func(v int) { evicted = append(evicted, v) }))

	m.Insert(1, 10)
	m.Insert(2, 20)
	m.Remove(1)
	m.Clear()

	if len(evicted) != 2 {
		t.Fatalf("evicted = %v, want 2 entries", evicted)
	}
	if m.Len() != 0 {
		t.Fatalf("Len() after Clear = %d, want 0", m.Len())
	}
}

func TestContains(t *testing.T) {
	m := New[int]()
	m.Insert(5, 50)
	if !m.Contains(5) {
		t.Fatal("Contains(5) should be true")
	}
	if m.Contains(6) {
		t.Fatal("Contains(6) should be false")
	}
}
