// recency.go: Recency Order — total ordering of resident keys by last use
//
// Copyright (c) 2025 AGILira
// Series: an AGLIra fragment
// SPDX-License-Identifier: MPL-2.0

package cacheadaptive

import "container/list"

// recencyOrder is a doubly-linked ordering of handles with an auxiliary
// index from handle to list element, giving average-constant-time
// push, remove and move-to-tail — the same container/list + map
// combination the teacher uses in lru.go and wtinylfu.go, adapted to
// store handles instead of *CacheEntry so the order never reaches back
// into the entry arena directly (spec.md §9 "Cyclic references").
//
// Head = least-recently used, tail = most-recently used, matching
// spec.md §4.D. Equal-time events resolve in arrival order because
// container/list preserves insertion order among untouched elements.
type recencyOrder struct {
	ll    *list.List
	index map[handle]*list.Element
}

func newRecencyOrder() *recencyOrder {
	return &recencyOrder{
		ll:    list.New(),
		index: make(map[handle]*list.Element),
	}
}

// pushBack inserts h at the tail (MRU position).
func (r *recencyOrder) pushBack(h handle) {
	elem := r.ll.PushBack(h)
	r.index[h] = elem
}

// remove deletes h from the order, wherever it sits.
func (r *recencyOrder) remove(h handle) {
	if elem, ok := r.index[h]; ok {
		r.ll.Remove(elem)
		delete(r.index, h)
	}
}

// moveToBack moves h to the tail (MRU position). It is a no-op if h is
// not currently tracked.
func (r *recencyOrder) moveToBack(h handle) {
	if elem, ok := r.index[h]; ok {
		r.ll.MoveToBack(elem)
	}
}

// popFront removes and returns the head (LRU) handle. ok is false when
// the order is empty.
func (r *recencyOrder) popFront() (h handle, ok bool) {
	elem := r.ll.Front()
	if elem == nil {
		return 0, false
	}
	h = elem.Value.(handle)
	r.ll.Remove(elem)
	delete(r.index, h)
	return h, true
}

func (r *recencyOrder) empty() bool {
	return r.ll.Len() == 0
}

func (r *recencyOrder) len() int {
	return r.ll.Len()
}

// snapshot returns the handles from head (LRU) to tail (MRU) as a
// plain slice, for planEviction to scan without mutating the real
// order (spec.md §4.G).
func (r *recencyOrder) snapshot() []handle {
	out := make([]handle, 0, r.ll.Len())
	for elem := r.ll.Front(); elem != nil; elem = elem.Next() {
		out = append(out, elem.Value.(handle))
	}
	return out
}
