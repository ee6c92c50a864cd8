// engine.go: Engine — the coordinator tying every component together
//
// Copyright (c) 2025 AGILira
// Series: an AGLIra fragment
// SPDX-License-Identifier: MPL-2.0

package cacheadaptive

import (
	"context"
	"sync"
	"time"
)

// Option configures an Engine at construction time, mirroring the
// teacher's functional-options Option type in metis.go.
type Option func(*Engine)

// WithHotKeyThreshold sets the windowed access count at or above which
// a key is promoted into the Hot-Key Set (spec.md §4.E).
func WithHotKeyThreshold(n int) Option {
	return func(e *Engine) { e.hotKeyThreshold = n }
}

// WithCompressionRatioTarget sets the Codec's compression_ratio_target
// (spec.md §4.A).
func WithCompressionRatioTarget(ratio float64) Option {
	return func(e *Engine) { e.codec.configure(ratio) }
}

// WithPredictiveLoading enables or disables the optional preload call
// from the Sweeper (spec.md §4.H step 3).
func WithPredictiveLoading(enabled bool) Option {
	return func(e *Engine) { e.predictiveLoading = enabled }
}

// WithPreloadHintProvider installs the external preload collaborator
// (spec.md §6).
func WithPreloadHintProvider(p PreloadHintProvider) Option {
	return func(e *Engine) { e.preloadProvider = p }
}

// WithLogger installs a Logger other than the silent default.
func WithLogger(l Logger) Option {
	return func(e *Engine) { e.logger = l }
}

// WithSweepInterval overrides the Sweeper's tick period (spec.md §4.H
// "runs once per second" default).
func WithSweepInterval(d time.Duration) Option {
	return func(e *Engine) { e.sweepInterval = d }
}

// Engine is the adaptive in-process key-value cache described by
// spec.md §2: a single exclusive lock (spec.md §5 — unlike the
// teacher's sharded StrategicCache, which locks per-shard) guards every
// component below it, with all component methods assuming the lock is
// already held. closedMu is separate from mu, mirroring the teacher's
// own sc.closedMu in metis.go: Shutdown can flip closed and wait for
// the Sweeper without contending on the data lock.
type Engine struct {
	mu sync.Mutex

	memoryLimit  int64 // spec.md §3 memory_limit, in bytes
	currentUsage int64 // spec.md §3 current_memory_usage, in bytes

	table   *entryTable
	recency *recencyOrder
	hot     *hotKeySet
	log     *accessLog
	codec   *codec

	hotKeyThreshold   int
	predictiveLoading bool
	preloadProvider   PreloadHintProvider
	logger            Logger

	closedMu sync.RWMutex
	closed   bool

	sweepInterval time.Duration
	sweepCancel   context.CancelFunc
	sweepDone     chan struct{}
}

// New constructs an Engine with the given memory ceiling (MiB) and
// compression threshold (KiB), applying opts in order, then starts the
// Sweeper (spec.md §4.H). Call Shutdown to stop it.
func New(maxMemoryMB, compressionThresholdKB int, opts ...Option) *Engine {
	c, err := newCodec(compressionThresholdKB*1024, 0.9)
	if err != nil {
		// zstd.NewWriter/NewReader with nil dictionaries do not fail in
		// practice; retain the error path for codec implementations
		// that could (e.g. a future dictionary-backed codec) without
		// adding a fallible New signature the rest of the pack doesn't
		// use anywhere.
		panic(err)
	}

	e := &Engine{
		memoryLimit:     int64(maxMemoryMB) * 1024 * 1024,
		table:           newEntryTable(),
		recency:         newRecencyOrder(),
		hot:             newHotKeySet(),
		log:             newAccessLog(),
		codec:           c,
		hotKeyThreshold: 5,
		logger:          noopLogger{},
		sweepInterval:   time.Second,
	}
	for _, opt := range opts {
		opt(e)
	}

	ctx, cancel := context.WithCancel(context.Background())
	e.sweepCancel = cancel
	e.sweepDone = make(chan struct{})
	go e.sweepLoop(ctx)

	return e
}

// Get implements spec.md §4.C get(): returns the resident, unexpired
// value for key, or a miss. A hit moves key to the Recency Order's
// tail, touches its Hot-Key Set position if promoted, and records an
// access-log timestamp.
func (e *Engine) Get(key string) ([]byte, bool) {
	e.closedMu.RLock()
	closed := e.closed
	e.closedMu.RUnlock()
	if closed {
		return nil, false
	}

	e.mu.Lock()
	defer e.mu.Unlock()

	h, en, ok := e.table.lookup(key)
	if !ok {
		return nil, false
	}

	now := time.Now()
	if lazyExpired(en, now) {
		e.deleteLocked(h)
		return nil, false
	}

	raw, err := e.codec.decode(key, en.payload, en.compressed)
	if err != nil {
		e.logger.Error("decode failed on get", "key", key, "err", err)
		return nil, false
	}

	en.lastAccessAt = now
	en.accessCount++
	e.log.record(h, now)
	e.recency.moveToBack(h)
	if e.hot.contains(h) {
		e.hot.touch(h)
	}

	return raw, true
}

// lazyExpired applies the TTL/TTI portion of spec.md §4.H's expiration
// check inline, so an entry past its deadline never reads as a hit
// between Sweeper ticks. max_access expiration is left to the Sweeper
// alone (spec.md §4.H step d operates on the Access Log's windowed
// count, which only the Sweeper maintains on its own schedule).
func lazyExpired(en *entry, now time.Time) bool {
	if ttl, ok := en.policy.HasTTL(); ok && now.Sub(en.createdAt) > ttl {
		return true
	}
	if tti, ok := en.policy.HasTTI(); ok && now.Sub(en.lastAccessAt) > tti {
		return true
	}
	return false
}

// Put implements spec.md §4.C put(): installs or replaces key's value
// under policy, running the Codec and, if necessary, the
// Admission/Eviction algorithm (spec.md §4.G) first. Returns
// ErrOverCapacity if the write cannot be admitted even after
// exhaustive eviction, in which case no state changes at all.
func (e *Engine) Put(key string, value []byte, policy ...Policy) error {
	var p Policy
	if len(policy) > 0 {
		p = policy[0]
	}

	e.closedMu.RLock()
	closed := e.closed
	e.closedMu.RUnlock()
	if closed {
		return shutdownErr()
	}

	e.mu.Lock()
	defer e.mu.Unlock()
	return e.putLockedJournaled(key, value, p, nil)
}

// putLockedJournaled is the shared implementation behind Put and
// Batch.Commit. The caller must hold e.mu. When journal is non-nil, an
// undo closure is recorded for every mutation so the caller can unwind
// a partially-applied multi-step operation on failure.
func (e *Engine) putLockedJournaled(key string, value []byte, p Policy, journal *[]func()) error {
	stored, compressed, logicalSize, err := e.codec.encode(value)
	if err != nil {
		return codecFailureErr(key, err)
	}

	newSize := int64(len(stored))
	now := time.Now()

	if h, existing, ok := e.table.lookup(key); ok {
		delta := newSize - int64(existing.storedSize)
		if delta > 0 {
			plan, perr := e.planEviction(delta, newSize, h)
			if perr != nil {
				return perr
			}
			e.applyEvictionPlanJournaled(plan, journal)
		}

		if journal != nil {
			snapshot := *existing
			*journal = append(*journal, func() {
				// Look key up again: a later put in the same batch may
				// have evicted it and the rollback reinstated it under a
				// new handle.
				if _, cur, ok := e.table.lookup(key); ok {
					e.currentUsage -= int64(cur.storedSize - snapshot.storedSize)
					*cur = snapshot
				}
			})
		}

		existing.payload = stored
		existing.compressed = compressed
		existing.logicalSize = logicalSize
		existing.storedSize = int(newSize)
		existing.policy = p
		existing.createdAt = now
		existing.lastAccessAt = now
		e.currentUsage += delta
		e.recency.moveToBack(h)
		return nil
	}

	plan, perr := e.planEviction(newSize, newSize, 0)
	if perr != nil {
		return perr
	}
	e.applyEvictionPlanJournaled(plan, journal)

	en := &entry{
		key:          key,
		payload:      stored,
		compressed:   compressed,
		logicalSize:  logicalSize,
		storedSize:   int(newSize),
		policy:       p,
		createdAt:    now,
		lastAccessAt: now,
	}
	h := e.table.insert(key, en)
	e.currentUsage += newSize
	e.recency.pushBack(h)

	if journal != nil {
		*journal = append(*journal, func() {
			if cur, _, ok := e.table.lookup(key); ok {
				e.deleteLocked(cur)
			}
		})
	}
	return nil
}

// RefreshPolicy implements spec.md §4.C refresh_policy(): replaces
// key's policy and resets its created_at, then appends a synthetic
// access to the Access Log. Returns ErrNotFound if key is not
// resident.
func (e *Engine) RefreshPolicy(key string, p Policy) error {
	e.closedMu.RLock()
	closed := e.closed
	e.closedMu.RUnlock()
	if closed {
		return shutdownErr()
	}

	e.mu.Lock()
	defer e.mu.Unlock()

	h, en, ok := e.table.lookup(key)
	if !ok {
		return notFoundErr(key)
	}

	now := time.Now()
	en.policy = p
	en.createdAt = now
	e.log.record(h, now)
	return nil
}

// Delete removes key unconditionally, reporting whether it was
// resident (spec.md §4.C delete()).
func (e *Engine) Delete(key string) bool {
	e.closedMu.RLock()
	closed := e.closed
	e.closedMu.RUnlock()
	if closed {
		return false
	}

	e.mu.Lock()
	defer e.mu.Unlock()

	h, _, ok := e.table.lookup(key)
	if !ok {
		return false
	}
	e.deleteLocked(h)
	return true
}

// deleteLocked removes h from every component and reduces
// current_memory_usage accordingly. Caller must hold e.mu.
func (e *Engine) deleteLocked(h handle) {
	en := e.table.get(h)
	if en == nil {
		return
	}
	e.currentUsage -= int64(en.storedSize)
	e.table.remove(h)
	e.recency.remove(h)
	e.hot.demote(h)
	e.log.remove(h)
}

// ConfigureAdaptiveBehavior updates the engine's tunables in place
// (spec.md §6 configure_adaptive_behavior), taking effect on the next
// Sweeper pass and the next Put's Codec decision.
func (e *Engine) ConfigureAdaptiveBehavior(hotKeyThreshold int, enablePredictiveLoading bool, compressionRatioTarget float64) {
	e.mu.Lock()
	defer e.mu.Unlock()

	e.hotKeyThreshold = hotKeyThreshold
	e.predictiveLoading = enablePredictiveLoading
	e.codec.configure(compressionRatioTarget)
}

// AccessStat is one row of a MostAccessed report.
type AccessStat struct {
	Key   string
	Count int
}

// MostAccessed returns up to n resident keys ordered by their current
// windowed access count, descending; ties break toward the
// most-recently-used key (spec.md's Recency Order supplies the
// tie-break order, per SPEC_FULL.md's supplemented
// most_accessed/get_most_accessed_products feature).
func (e *Engine) MostAccessed(n int) []AccessStat {
	e.mu.Lock()
	defer e.mu.Unlock()

	if n <= 0 {
		return nil
	}

	order := e.recency.snapshot() // head (LRU) .. tail (MRU)
	rank := make(map[handle]int, len(order))
	for i, h := range order {
		rank[h] = i // higher i = more recently used
	}

	now := time.Now()
	stats := make([]AccessStat, 0, len(order))
	handles := make([]handle, 0, len(order))
	for _, h := range order {
		en := e.table.get(h)
		if en == nil {
			continue
		}
		stats = append(stats, AccessStat{Key: en.key, Count: e.log.trim(h, now)})
		handles = append(handles, h)
	}

	// Simple insertion sort by (-Count, -rank): the resident set this
	// report draws from is bounded by memory_limit/compression_threshold
	// in practice, so O(n^2) here stays well under the latency budgets
	// that matter for Get/Put.
	for i := 1; i < len(stats); i++ {
		for j := i; j > 0; j-- {
			less := stats[j].Count > stats[j-1].Count ||
				(stats[j].Count == stats[j-1].Count && rank[handles[j]] > rank[handles[j-1]])
			if !less {
				break
			}
			stats[j], stats[j-1] = stats[j-1], stats[j]
			handles[j], handles[j-1] = handles[j-1], handles[j]
		}
	}

	if n > len(stats) {
		n = len(stats)
	}
	return stats[:n]
}

// Stats is a point-in-time snapshot of engine occupancy, grounded on
// the teacher's api.go Stats() surface.
type Stats struct {
	MemoryLimit  int64
	CurrentUsage int64
	EntryCount   int
	HotKeyCount  int
}

// Stats reports current occupancy.
func (e *Engine) Stats() Stats {
	e.mu.Lock()
	defer e.mu.Unlock()
	return Stats{
		MemoryLimit:  e.memoryLimit,
		CurrentUsage: e.currentUsage,
		EntryCount:   e.table.len(),
		HotKeyCount:  e.hot.len(),
	}
}

// BatchOperation returns a new Batch Transaction (spec.md §4.I).
func (e *Engine) BatchOperation() *Batch {
	return &Batch{eng: e}
}

// Shutdown stops the Sweeper. Afterwards Put, RefreshPolicy and
// Batch.Commit return ErrShutdown, while Get and Delete report a miss
// (nil, false and false). It is idempotent and safe to call more than once,
// mirroring the teacher's Close() in metis.go: cancel the background
// context, then wait on it with a bounded timeout rather than forever.
func (e *Engine) Shutdown() {
	e.closedMu.Lock()
	if e.closed {
		e.closedMu.Unlock()
		return
	}
	e.closed = true
	e.closedMu.Unlock()

	e.sweepCancel()

	select {
	case <-e.sweepDone:
	case <-time.After(5 * time.Second):
		e.logger.Warn("sweeper did not stop within timeout")
	}

	e.codec.close()
}
