// accesslog.go: Access Log — per-key bounded sliding-window timestamps
//
// Copyright (c) 2025 AGILira
// Series: an AGLIra fragment
// SPDX-License-Identifier: MPL-2.0

package cacheadaptive

import (
	"time"

	"github.com/gammazero/deque"
)

// accessWindow is spec.md's WINDOW: the trailing interval over which
// accesses are counted for hot-key classification and max-access
// expiration (spec.md §3, §4.F).
const accessWindow = 60 * time.Second

// accessLog maps each resident handle to a time-ordered sequence of
// access timestamps. A deque.Deque backs each sequence: accesses always
// append at the tail and the Sweeper always trims from the head, so a
// ring-buffered deque avoids the O(n) memmove a plain slice would pay
// on every trim (grounded: github.com/gammazero/deque, declared by the
// teacher's own go.mod for the cache library it wraps).
type accessLog struct {
	windows map[handle]*deque.Deque[time.Time]
}

func newAccessLog() *accessLog {
	return &accessLog{windows: make(map[handle]*deque.Deque[time.Time])}
}

// record appends now to h's sequence, creating it if necessary.
func (a *accessLog) record(h handle, now time.Time) {
	d, ok := a.windows[h]
	if !ok {
		d = new(deque.Deque[time.Time])
		a.windows[h] = d
	}
	d.PushBack(now)
}

// trim drops timestamps older than now-accessWindow from the head of
// h's sequence and returns the remaining (windowed) count. Returns 0
// for a handle with no sequence.
func (a *accessLog) trim(h handle, now time.Time) int {
	d, ok := a.windows[h]
	if !ok {
		return 0
	}
	cutoff := now.Add(-accessWindow)
	for d.Len() > 0 && d.Front().Before(cutoff) {
		d.PopFront()
	}
	return d.Len()
}

// count returns the current (untrimmed) sequence length for h.
func (a *accessLog) count(h handle) int {
	d, ok := a.windows[h]
	if !ok {
		return 0
	}
	return d.Len()
}

// empty reports whether h's sequence currently holds no timestamps.
func (a *accessLog) empty(h handle) bool {
	d, ok := a.windows[h]
	return !ok || d.Len() == 0
}

// remove discards h's sequence entirely (spec.md §4.C delete, and
// spec.md §4.H step g — an emptied window is scheduled for removal).
func (a *accessLog) remove(h handle) {
	delete(a.windows, h)
}

// keys returns the handles with a tracked sequence, for the Sweeper to
// iterate (spec.md §4.H step 1).
func (a *accessLog) keys() []handle {
	out := make([]handle, 0, len(a.windows))
	for h := range a.windows {
		out = append(out, h)
	}
	return out
}
