// batch.go: Batch Transaction — scoped, all-or-nothing grouped writes
//
// Copyright (c) 2025 AGILira
// Series: an AGLIra fragment
// SPDX-License-Identifier: MPL-2.0

package cacheadaptive

// batchOp is one buffered put, recorded by Batch.Put without touching
// engine state (spec.md §4.I: "buffers put(k, v, policy?) operations").
type batchOp struct {
	key    string
	value  []byte
	policy Policy
}

// Batch is a scoped handle returned by Engine.BatchOperation. Puts
// recorded against it have no effect until Commit, and none at all if
// Discard is called or Commit fails partway through — the engine's
// visible state is never partially updated by a batch (spec.md §4.I).
type Batch struct {
	eng  *Engine
	ops  []batchOp
	done bool
}

// Put buffers a write; it is not visible to Get or any other caller
// until this Batch's Commit succeeds.
func (b *Batch) Put(key string, value []byte, policy ...Policy) {
	var p Policy
	if len(policy) > 0 {
		p = policy[0]
	}
	b.ops = append(b.ops, batchOp{key: key, value: value, policy: p})
}

// Commit applies every buffered put atomically, holding the engine
// lock for the whole operation. If any put fails (ErrOverCapacity or
// ErrCodecFailure), every effect already applied by this Commit is
// unwound before returning the error — callers observe either none or
// all of the batch's writes, never a partial set.
func (b *Batch) Commit() error {
	if b.done {
		return nil
	}
	b.done = true

	eng := b.eng
	eng.closedMu.RLock()
	closed := eng.closed
	eng.closedMu.RUnlock()
	if closed {
		return shutdownErr()
	}

	eng.mu.Lock()
	defer eng.mu.Unlock()

	var journal []func()
	for _, op := range b.ops {
		if err := eng.putLockedJournaled(op.key, op.value, op.policy, &journal); err != nil {
			for i := len(journal) - 1; i >= 0; i-- {
				journal[i]()
			}
			return err
		}
	}
	return nil
}

// Discard abandons every buffered put. A Batch that is never committed
// has no effect even without calling Discard; it exists for callers
// that want to make the abandonment explicit.
func (b *Batch) Discard() {
	b.done = true
	b.ops = nil
}
