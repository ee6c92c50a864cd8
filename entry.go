// entry.go: entry arena for the adaptive cache engine
//
// Copyright (c) 2025 AGILira
// Series: an AGLIra fragment
// SPDX-License-Identifier: MPL-2.0

package cacheadaptive

import "time"

// handle is a stable integer identifier for a resident entry. The
// Recency Order and Hot-Key Set index by handle rather than by *entry
// pointer or by key string, so none of them need a back-reference into
// the entry table: this breaks the entry <-> recency-node <-> hot-set
// cyclic reference shape that the original source expressed as mutual
// pointers (spec.md §9, "Cyclic references").
type handle uint64

// entry is the stored record for one key (spec.md §3 "Entry").
type entry struct {
	key          string
	payload      []byte // raw or compressed bytes, per compressed
	compressed   bool
	logicalSize  int // uncompressed size, for reporting and ratio math
	storedSize   int // bytes charged against current_memory_usage
	policy       Policy
	createdAt    time.Time
	lastAccessAt time.Time
	accessCount  int // cumulative reads since creation (diagnostic only)
}

// entryTable is the keyed arena of resident entries (spec.md §4.C). All
// methods assume the engine's exclusive lock is already held by the
// caller — the table performs no locking of its own. This follows
// spec.md §5's single re-entrant lock requirement directly: it is the
// ordinary Go idiom of unexported helpers with no internal locking,
// called only from the Engine's locked public entry points.
type entryTable struct {
	byHandle map[handle]*entry
	byKey    map[string]handle
	next     handle
}

func newEntryTable() *entryTable {
	return &entryTable{
		byHandle: make(map[handle]*entry),
		byKey:    make(map[string]handle),
	}
}

// lookup returns the handle and entry for key, if resident.
func (t *entryTable) lookup(key string) (handle, *entry, bool) {
	h, ok := t.byKey[key]
	if !ok {
		return 0, nil, false
	}
	e := t.byHandle[h]
	return h, e, e != nil
}

// insert allocates a fresh handle for key and stores e under it.
func (t *entryTable) insert(key string, e *entry) handle {
	t.next++
	h := t.next
	t.byHandle[h] = e
	t.byKey[key] = h
	return h
}

// remove deletes a handle/entry pair entirely from the arena.
func (t *entryTable) remove(h handle) {
	if e, ok := t.byHandle[h]; ok {
		delete(t.byKey, e.key)
		delete(t.byHandle, h)
	}
}

// get returns the live entry for a handle, or nil if it is gone.
func (t *entryTable) get(h handle) *entry {
	return t.byHandle[h]
}

func (t *entryTable) len() int {
	return len(t.byHandle)
}
