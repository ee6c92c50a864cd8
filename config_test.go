// config_test.go: unit tests for configuration loading and validation
//
// Copyright (c) 2025 AGILira
// Series: an AGLIra fragment
// SPDX-License-Identifier: MPL-2.0

package cacheadaptive

import "testing"

func TestDefaultCacheConfigIsValid(t *testing.T) {
	result := ValidateConfig(DefaultCacheConfig())
	if !result.IsValid {
		t.Errorf("expected default config to be valid, warnings: %v", result.Warnings)
	}
}

func TestValidateConfigRejectsNonPositiveMemoryLimit(t *testing.T) {
	c := DefaultCacheConfig()
	c.MemoryLimitMB = 0
	result := ValidateConfig(c)
	if result.IsValid {
		t.Error("expected a zero memory_limit_mb to be invalid")
	}
}

func TestValidateConfigSuggestsOptimizationForZeroHotKeyThreshold(t *testing.T) {
	c := DefaultCacheConfig()
	c.HotKeyThreshold = 0
	result := ValidateConfig(c)
	if len(result.Suggestions) == 0 {
		t.Error("expected a suggestion for a zero hot_key_threshold")
	}
	if result.OptimizedConfig == nil {
		t.Fatal("expected an optimized config to be generated")
	}
	if result.OptimizedConfig.HotKeyThreshold <= 0 {
		t.Error("expected the optimized config to correct hot_key_threshold")
	}
}

func TestGlobalConfigTakesPriority(t *testing.T) {
	custom := DefaultCacheConfig()
	custom.MemoryLimitMB = 999
	SetGlobalConfig(custom)
	defer func() {
		configMutex.Lock()
		globalConfig = nil
		configMutex.Unlock()
	}()

	loaded := LoadConfig()
	if loaded.MemoryLimitMB != 999 {
		t.Errorf("expected global config to take priority, got memory_limit_mb=%d", loaded.MemoryLimitMB)
	}
}

func TestGetConfigRecommendationKnownUseCase(t *testing.T) {
	c := GetConfigRecommendation("api-gateway")
	if c.MemoryLimitMB <= 0 {
		t.Error("expected a non-trivial memory limit for the api-gateway recommendation")
	}
}

func TestGetConfigRecommendationUnknownUseCaseFallsBackToDefault(t *testing.T) {
	c := GetConfigRecommendation("unknown-use-case")
	if c != DefaultCacheConfig() {
		t.Error("expected unknown use case to fall back to defaults")
	}
}
