// policy.go: per-entry expiration contract, value-object builder
//
// Copyright (c) 2025 AGILira
// Series: an AGLIra fragment
// SPDX-License-Identifier: MPL-2.0

package cacheadaptive

import "time"

// Policy is an immutable per-entry expiration contract. Missing fields
// (the zero value of each pointer) mean "not enforced". Policies are
// values: the engine never mutates one after it is attached to an
// entry, it only replaces it wholesale via RefreshPolicy.
//
// Grounded on original_source/new_adaptive_cache.py's CachePolicy
// builder (with_ttl/with_tti), generalized to a chainable constructor
// per spec.md §4.B and extended with MaxAccess per spec.md's data model.
type Policy struct {
	ttl       *time.Duration
	tti       *time.Duration
	maxAccess *int
}

// NewPolicy returns an empty Policy: no field enforced.
func NewPolicy() Policy {
	return Policy{}
}

// WithTTL returns a copy of p with ttl set: the entry expires ttl after
// its last put (created_at).
func (p Policy) WithTTL(ttl time.Duration) Policy {
	p.ttl = &ttl
	return p
}

// WithTTI returns a copy of p with tti set: the entry expires tti after
// its last access (last_access_at).
func (p Policy) WithTTI(tti time.Duration) Policy {
	p.tti = &tti
	return p
}

// WithMaxAccess returns a copy of p with maxAccess set: the entry
// expires once its windowed access count reaches n. See spec.md §9
// open question 1 — this is a windowed counter, not a lifetime counter,
// despite the field's name.
func (p Policy) WithMaxAccess(n int) Policy {
	p.maxAccess = &n
	return p
}

// HasTTL reports whether a TTL is enforced, and its value.
func (p Policy) HasTTL() (time.Duration, bool) {
	if p.ttl == nil {
		return 0, false
	}
	return *p.ttl, true
}

// HasTTI reports whether a TTI is enforced, and its value.
func (p Policy) HasTTI() (time.Duration, bool) {
	if p.tti == nil {
		return 0, false
	}
	return *p.tti, true
}

// HasMaxAccess reports whether a max-access limit is enforced, and its
// value.
func (p Policy) HasMaxAccess() (int, bool) {
	if p.maxAccess == nil {
		return 0, false
	}
	return *p.maxAccess, true
}

// IsZero reports whether the policy enforces nothing at all.
func (p Policy) IsZero() bool {
	return p.ttl == nil && p.tti == nil && p.maxAccess == nil
}
