// sweeper.go: Sweeper — background expiry, hot-key reclassification, preload
//
// Copyright (c) 2025 AGILira
// Series: an AGLIra fragment
// SPDX-License-Identifier: MPL-2.0

package cacheadaptive

import (
	"context"
	"time"
)

// sweepLoop runs spec.md §4.H once per sweepInterval until ctx is
// cancelled, the same context.WithCancel + time.Ticker + select
// pattern the teacher uses for cleanupRoutine in metis.go. Errors
// inside a sweep are logged and never surfaced to callers — spec.md
// has no external Sweeper error channel.
func (e *Engine) sweepLoop(ctx context.Context) {
	defer close(e.sweepDone)

	ticker := time.NewTicker(e.sweepInterval)
	defer ticker.Stop()

	for {
		select {
		case <-ctx.Done():
			return
		case <-ticker.C:
			e.sweepOnce()
		}
	}
}

// sweepOnce implements spec.md §4.H's per-tick algorithm: walk the
// Access Log, trim each window, mark expired keys, reclassify hot-key
// membership from the trimmed count, drop emptied windows, apply the
// marked expirations, then invoke the Preload Hint Provider if
// predictive loading is enabled.
func (e *Engine) sweepOnce() {
	e.mu.Lock()

	now := time.Now()
	var toExpire []handle
	var toForgetWindow []handle
	hotBefore := map[handle]bool{}
	for _, h := range e.hot.snapshot() {
		hotBefore[h] = true
	}

	for _, h := range e.log.keys() {
		en := e.table.get(h)
		if en == nil {
			// Orphaned window (entry already gone by some other path):
			// nothing left to classify, just forget it.
			toForgetWindow = append(toForgetWindow, h)
			continue
		}

		windowedCount := e.log.trim(h, now)

		expired := false
		if ttl, ok := en.policy.HasTTL(); ok && now.Sub(en.createdAt) > ttl {
			expired = true
		}
		if tti, ok := en.policy.HasTTI(); ok && now.Sub(en.lastAccessAt) > tti {
			expired = true
		}
		if max, ok := en.policy.HasMaxAccess(); ok && windowedCount >= max {
			expired = true
		}

		if expired {
			toExpire = append(toExpire, h)
			continue
		}

		if windowedCount >= e.hotKeyThreshold {
			e.hot.promote(h)
		} else {
			e.hot.demote(h)
		}

		if e.log.empty(h) {
			toForgetWindow = append(toForgetWindow, h)
		}
	}

	for _, h := range toExpire {
		e.deleteLocked(h)
	}
	for _, h := range toForgetWindow {
		e.log.remove(h)
	}

	var provider PreloadHintProvider
	if e.predictiveLoading {
		provider = e.preloadProvider
	}
	hotKeysNow := e.hot.snapshot()
	e.mu.Unlock()

	// Preload hints are resolved with the lock released: the provider
	// is external, arbitrary code (spec.md §6) and must never be called
	// while holding the engine lock.
	if provider == nil {
		return
	}
	e.applyPreloadHints(provider, hotKeysNow)
}

// applyPreloadHints resolves spec.md §4.H step 3: for each currently
// hot key, ask the provider for predicted companions and install any
// that are not already resident, without disturbing entries that are.
func (e *Engine) applyPreloadHints(provider PreloadHintProvider, hotHandles []handle) {
	e.mu.Lock()
	hotKeys := make([]string, 0, len(hotHandles))
	for _, h := range hotHandles {
		if en := e.table.get(h); en != nil {
			hotKeys = append(hotKeys, en.key)
		}
	}
	e.mu.Unlock()

	if len(hotKeys) == 0 {
		return
	}
	hints := provider()

	e.mu.Lock()
	defer e.mu.Unlock()
	for _, key := range hotKeys {
		for _, pair := range hints[key] {
			if _, _, ok := e.table.lookup(pair.Key); ok {
				continue
			}
			if err := e.putLockedJournaled(pair.Key, pair.Value, Policy{}, nil); err != nil {
				e.logger.Warn("preload put failed", "key", pair.Key, "err", err)
			}
		}
	}
}
