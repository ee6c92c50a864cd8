// preload.go: Preload Hint Provider — external predictive-preload source
//
// Copyright (c) 2025 AGILira
// Series: an AGLIra fragment
// SPDX-License-Identifier: MPL-2.0

package cacheadaptive

// PreloadPair is one (key, value) suggestion returned by a
// PreloadHintProvider, grounded on original_source/adaptive_cache.py's
// predictive_load(key, value, policy).
type PreloadPair struct {
	Key   string
	Value []byte
}

// PreloadHintProvider is the opaque external collaborator from
// spec.md §6: a function taking no arguments and returning a mapping
// from hot key to the (key, value) pairs predicted to be accessed
// alongside it. The engine calls it only when predictive loading is
// enabled, and only from the Sweeper (spec.md §4.H step 3) — never
// from the hot path of Get/Put.
type PreloadHintProvider func() map[string][]PreloadPair
