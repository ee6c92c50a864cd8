// policy_test.go: unit tests for the Policy value object
//
// Copyright (c) 2025 AGILira
// Series: an AGLIra fragment
// SPDX-License-Identifier: MPL-2.0

package cacheadaptive

import (
	"testing"
	"time"
)

func TestPolicyZeroValueEnforcesNothing(t *testing.T) {
	p := NewPolicy()
	if !p.IsZero() {
		t.Error("expected a fresh policy to be zero")
	}
	if _, ok := p.HasTTL(); ok {
		t.Error("expected no TTL")
	}
	if _, ok := p.HasTTI(); ok {
		t.Error("expected no TTI")
	}
	if _, ok := p.HasMaxAccess(); ok {
		t.Error("expected no max access")
	}
}

func TestPolicyChaining(t *testing.T) {
	p := NewPolicy().WithTTL(time.Minute).WithTTI(30 * time.Second).WithMaxAccess(10)

	if p.IsZero() {
		t.Error("expected a configured policy to not be zero")
	}
	if ttl, ok := p.HasTTL(); !ok || ttl != time.Minute {
		t.Errorf("TTL = %v, %v; want %v, true", ttl, ok, time.Minute)
	}
	if tti, ok := p.HasTTI(); !ok || tti != 30*time.Second {
		t.Errorf("TTI = %v, %v; want %v, true", tti, ok, 30*time.Second)
	}
	if max, ok := p.HasMaxAccess(); !ok || max != 10 {
		t.Errorf("MaxAccess = %v, %v; want 10, true", max, ok)
	}
}

func TestPolicyWithReturnsACopy(t *testing.T) {
	base := NewPolicy().WithTTL(time.Hour)
	derived := base.WithTTL(time.Minute)

	ttl, _ := base.HasTTL()
	if ttl != time.Hour {
		t.Errorf("expected base policy to be unaffected by deriving a new one, got TTL=%v", ttl)
	}
	derivedTTL, _ := derived.HasTTL()
	if derivedTTL != time.Minute {
		t.Errorf("derived TTL = %v, want %v", derivedTTL, time.Minute)
	}
}
