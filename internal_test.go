// internal_test.go: unit tests for the low-level arena/order components
//
// Copyright (c) 2025 AGILira
// Series: an AGLIra fragment
// SPDX-License-Identifier: MPL-2.0

package cacheadaptive

import (
	"testing"
	"time"
)

func TestEntryTableInsertLookupRemove(t *testing.T) {
	tbl := newEntryTable()

	h := tbl.insert("k1", &entry{key: "k1"})
	if h == 0 {
		t.Fatal("expected a non-zero handle")
	}

	gotH, en, ok := tbl.lookup("k1")
	if !ok || gotH != h || en.key != "k1" {
		t.Fatalf("lookup returned (%v, %+v, %v)", gotH, en, ok)
	}

	tbl.remove(h)
	if _, _, ok := tbl.lookup("k1"); ok {
		t.Error("expected key to be gone after remove")
	}
	if tbl.get(h) != nil {
		t.Error("expected get to return nil after remove")
	}
}

func TestEntryTableHandlesAreDistinct(t *testing.T) {
	tbl := newEntryTable()
	h1 := tbl.insert("a", &entry{key: "a"})
	h2 := tbl.insert("b", &entry{key: "b"})
	if h1 == h2 {
		t.Error("expected distinct handles for distinct keys")
	}
}

func TestRecencyOrderFIFOWhenUntouched(t *testing.T) {
	r := newRecencyOrder()
	r.pushBack(1)
	r.pushBack(2)
	r.pushBack(3)

	h, ok := r.popFront()
	if !ok || h != 1 {
		t.Fatalf("popFront = %v, %v; want 1, true", h, ok)
	}
}

func TestRecencyOrderMoveToBack(t *testing.T) {
	r := newRecencyOrder()
	r.pushBack(1)
	r.pushBack(2)
	r.pushBack(3)

	r.moveToBack(1) // now order is 2, 3, 1

	h, _ := r.popFront()
	if h != 2 {
		t.Errorf("expected 2 to be the new head, got %v", h)
	}
}

func TestRecencyOrderSnapshotOrder(t *testing.T) {
	r := newRecencyOrder()
	r.pushBack(1)
	r.pushBack(2)
	r.pushBack(3)

	snap := r.snapshot()
	want := []handle{1, 2, 3}
	if len(snap) != len(want) {
		t.Fatalf("len(snap) = %d, want %d", len(snap), len(want))
	}
	for i := range want {
		if snap[i] != want[i] {
			t.Errorf("snap[%d] = %v, want %v", i, snap[i], want[i])
		}
	}
}

func TestHotKeySetPromoteDemoteOldest(t *testing.T) {
	s := newHotKeySet()
	if s.contains(1) {
		t.Error("expected empty set to not contain 1")
	}

	s.promote(1)
	s.promote(2)
	if !s.contains(1) || !s.contains(2) {
		t.Error("expected both promoted handles to be members")
	}

	oldest, ok := s.oldest()
	if !ok || oldest != 1 {
		t.Errorf("oldest = %v, %v; want 1, true", oldest, ok)
	}

	s.demote(1)
	if s.contains(1) {
		t.Error("expected 1 to be gone after demote")
	}
	oldest, ok = s.oldest()
	if !ok || oldest != 2 {
		t.Errorf("oldest after demote = %v, %v; want 2, true", oldest, ok)
	}
}

func TestHotKeySetRepromotionMovesToMRU(t *testing.T) {
	s := newHotKeySet()
	s.promote(1)
	s.promote(2)
	s.promote(1) // re-promote: moves 1 to the back

	oldest, _ := s.oldest()
	if oldest != 2 {
		t.Errorf("expected 2 to become oldest after re-promoting 1, got %v", oldest)
	}
}

func TestAccessLogTrimDropsStaleTimestamps(t *testing.T) {
	a := newAccessLog()
	base := time.Unix(1000, 0)

	a.record(1, base)
	a.record(1, base.Add(10*time.Second))
	a.record(1, base.Add(90*time.Second)) // only this one is within 60s of base+90s

	count := a.trim(1, base.Add(90*time.Second))
	if count != 1 {
		t.Errorf("expected 1 timestamp to survive the trim, got %d", count)
	}
}

func TestAccessLogEmptyAndRemove(t *testing.T) {
	a := newAccessLog()
	if !a.empty(1) {
		t.Error("expected an untracked handle to be reported empty")
	}

	a.record(1, time.Now())
	if a.empty(1) {
		t.Error("expected a recorded handle to not be empty")
	}

	a.remove(1)
	if !a.empty(1) {
		t.Error("expected handle to be empty after remove")
	}
}
