// hotkeys.go: Hot-Key Set — keys whose windowed access rate is elevated
//
// Copyright (c) 2025 AGILira
// Series: an AGLIra fragment
// SPDX-License-Identifier: MPL-2.0

package cacheadaptive

import "container/list"

// hotKeySet is a membership-tested set of handles, ordered by most
// recent promotion, so the oldest-promoted hot key can be found in
// constant time for the forced-eviction fallback in spec.md §4.G. Built
// the same way as recencyOrder (container/list + index map), mirroring
// the teacher's reuse of one data-structure shape (list+map) across
// both its LRU list and its W-TinyLFU admission window.
//
// Promotion happens only in the Sweeper (spec.md §4.E); demotion too.
// get() additionally moves a hot key to the tail of this order on
// every access, so the "oldest promotion" fallback also reflects
// LRU-within-the-hot-cohort rather than raw promotion time.
type hotKeySet struct {
	ll    *list.List
	index map[handle]*list.Element
}

func newHotKeySet() *hotKeySet {
	return &hotKeySet{
		ll:    list.New(),
		index: make(map[handle]*list.Element),
	}
}

func (s *hotKeySet) contains(h handle) bool {
	_, ok := s.index[h]
	return ok
}

// promote adds h to the set at the MRU position. No-op if already a
// member (moves it to MRU instead, so repeated promotion acts like an
// access).
func (s *hotKeySet) promote(h handle) {
	if elem, ok := s.index[h]; ok {
		s.ll.MoveToBack(elem)
		return
	}
	elem := s.ll.PushBack(h)
	s.index[h] = elem
}

// demote removes h from the set.
func (s *hotKeySet) demote(h handle) {
	if elem, ok := s.index[h]; ok {
		s.ll.Remove(elem)
		delete(s.index, h)
	}
}

// touch moves a resident hot key to the MRU position within the set,
// without adding it if absent (spec.md §4.C get() side effect).
func (s *hotKeySet) touch(h handle) {
	if elem, ok := s.index[h]; ok {
		s.ll.MoveToBack(elem)
	}
}

// oldest returns the least-recently-promoted (or least-recently
// touched) hot key, for the forced-eviction fallback in spec.md §4.G
// step 4.
func (s *hotKeySet) oldest() (handle, bool) {
	elem := s.ll.Front()
	if elem == nil {
		return 0, false
	}
	return elem.Value.(handle), true
}

func (s *hotKeySet) len() int {
	return s.ll.Len()
}

// snapshot returns every member handle, oldest-promoted first, without
// mutating the set. Used by the Sweeper to resolve preload hints
// outside the engine lock.
func (s *hotKeySet) snapshot() []handle {
	out := make([]handle, 0, s.ll.Len())
	for elem := s.ll.Front(); elem != nil; elem = elem.Next() {
		out = append(out, elem.Value.(handle))
	}
	return out
}
