// admission.go: Admission/Eviction — enforces the memory ceiling on writes
//
// Copyright (c) 2025 AGILira
// Series: an AGLIra fragment
// SPDX-License-Identifier: MPL-2.0

package cacheadaptive

// evictionPlan is the result of a read-only eviction simulation
// (planEviction). Nothing is mutated until applyEvictionPlanJournaled
// replays it, which lets Put and Batch.Commit fail with OverCapacity
// and spec.md §7's "no state change" guarantee even though the
// algorithm in spec.md §4.G is naturally expressed as a destructive
// loop.
type evictionPlan struct {
	toDelete    []handle // cold keys to remove, in the order encountered
	rotate      []handle // hot keys to move to the recency tail
	forcedEvict *handle  // the single hot key force-evicted, if needed
}

// planEviction implements spec.md §4.G without mutating engine state.
// need is the additional stored-byte delta the caller wants to admit
// (S for a new entry, or the size delta for an in-place update).
// candidateSize is the full resulting stored size of the entry, used
// only for the terminal "recency order is empty" check. exclude is the
// handle of an entry being updated in place (it must never be evicted
// to make room for its own update); pass 0 when installing a brand new
// key.
func (e *Engine) planEviction(need, candidateSize int64, exclude handle) (*evictionPlan, error) {
	plan := &evictionPlan{}
	usage := e.currentUsage
	order := e.recency.snapshot()
	hotLen := e.hot.len()
	if exclude != 0 && e.hot.contains(exclude) {
		// exclude is skipped before its hot-membership check below (it
		// never contributes to hotRotations), so it must not count
		// toward the hot-key tally either.
		hotLen--
	}
	hotRotations := 0

	for i := 0; usage+need > e.memoryLimit; {
		if i >= len(order) {
			// Recency Order exhausted: nothing left to evict.
			if candidateSize <= e.memoryLimit {
				return plan, nil
			}
			return nil, overCapacityErr("")
		}
		h := order[i]
		i++
		if h == exclude {
			continue
		}
		if !e.hot.contains(h) {
			plan.toDelete = append(plan.toDelete, h)
			if en := e.table.get(h); en != nil {
				usage -= int64(en.storedSize)
			}
			continue
		}

		// Hot key: rotate to the tail instead of evicting. The rotated
		// key is appended to the scan so cold keys behind it are still
		// considered first.
		plan.rotate = append(plan.rotate, h)
		order = append(order, h)
		hotRotations++
		if hotRotations > hotLen {
			// The scan has come back round to a hot key it already
			// rotated, so every remaining resident is hot. Per spec.md
			// §4.G step 4, abort the rotation loop and make a single
			// forced-eviction decision rather than continuing to spin.
			if oh, ok := e.hot.oldest(); ok && oh != exclude {
				if en := e.table.get(oh); en != nil {
					usage -= int64(en.storedSize)
				}
				plan.forcedEvict = &oh
			}
			if usage+need > e.memoryLimit {
				return nil, overCapacityErr("")
			}
			return plan, nil
		}
	}
	return plan, nil
}

// applyEvictionPlanJournaled replays a plan produced by planEviction
// against the real engine state. When journal is non-nil, an undo
// closure is appended for every destructive step so a failing
// multi-step operation (Batch.Commit) can restore prior state exactly
// enough to satisfy "observers see none or all of the batch's
// effects" (spec.md §4.I) — see DESIGN.md for the one documented
// imprecision (exact recency position is not replayed on rollback,
// only key/value/size/policy and membership).
func (e *Engine) applyEvictionPlanJournaled(plan *evictionPlan, journal *[]func()) {
	for _, h := range plan.toDelete {
		e.journalDelete(h, journal)
	}
	for _, h := range plan.rotate {
		e.recency.moveToBack(h)
	}
	if plan.forcedEvict != nil {
		e.journalDelete(*plan.forcedEvict, journal)
	}
}

// journalDelete deletes h, recording an undo closure that reinstalls
// an equivalent entry (new handle, same key/value/policy/size) if
// journal is non-nil.
func (e *Engine) journalDelete(h handle, journal *[]func()) {
	en := e.table.get(h)
	if en == nil {
		return
	}
	if journal != nil {
		snapshot := *en
		wasHot := e.hot.contains(h)
		*journal = append(*journal, func() {
			restored := snapshot
			h2 := e.table.insert(restored.key, &restored)
			e.currentUsage += int64(restored.storedSize)
			e.recency.pushBack(h2)
			if wasHot {
				e.hot.promote(h2)
			}
		})
	}
	e.deleteLocked(h)
}
