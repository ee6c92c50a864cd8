// config_validator.go: configuration validation and optimization hints
//
// Copyright (c) 2025 AGILira
// Series: an AGLIra fragment
// SPDX-License-Identifier: MPL-2.0

package cacheadaptive

import "fmt"

// ConfigValidationResult reports validity plus optimization hints,
// grounded on the teacher's ConfigValidationResult in
// config_validator.go.
type ConfigValidationResult struct {
	IsValid         bool
	Warnings        []string
	Suggestions     []string
	OptimizedConfig *CacheConfig
}

// ValidateConfig checks a CacheConfig against the engine's actual
// knobs (memory_limit, compression_threshold, hot_key_threshold,
// compression_ratio_target), the adapted equivalent of the teacher's
// cache-size/shard-count checks.
func ValidateConfig(c CacheConfig) ConfigValidationResult {
	result := ConfigValidationResult{IsValid: true}

	if c.MemoryLimitMB <= 0 {
		result.IsValid = false
		result.Warnings = append(result.Warnings, "memory_limit_mb must be greater than 0")
	}

	if c.CompressionThresholdKB < 0 {
		result.IsValid = false
		result.Warnings = append(result.Warnings, "compression_threshold_kb must not be negative")
	}

	if c.CompressionRatioTarget <= 0 || c.CompressionRatioTarget >= 1 {
		result.Warnings = append(result.Warnings, fmt.Sprintf(
			"compression_ratio_target %.2f is outside (0, 1); at 0 or below compression never applies, at 1 or above it applies even when it saves little or nothing", c.CompressionRatioTarget))
	}

	if c.HotKeyThreshold <= 0 {
		result.Suggestions = append(result.Suggestions, "hot_key_threshold of 0 or less promotes every key with an access-log window to hot, defeating eviction protection")
	}

	if c.MemoryLimitMB < 8 {
		result.Suggestions = append(result.Suggestions, "memory_limit_mb below 8 leaves little room for more than a handful of entries")
	}

	if c.CompressionThresholdKB == 0 {
		result.Suggestions = append(result.Suggestions, "compression_threshold_kb of 0 attempts compression of every value, including tiny ones where zstd's own overhead can exceed the saving")
	}

	if c.SweepIntervalMS <= 0 {
		result.IsValid = false
		result.Warnings = append(result.Warnings, "sweep_interval_ms must be greater than 0")
	} else if c.SweepIntervalMS > 60000 {
		result.Suggestions = append(result.Suggestions, "sweep_interval_ms above one minute delays TTL/TTI/max_access expiry and hot-key reclassification noticeably")
	}

	if len(result.Suggestions) > 0 {
		result.OptimizedConfig = optimizeConfig(c)
	}
	return result
}

// optimizeConfig nudges a config's suggestion-triggering fields toward
// safer values, mirroring the teacher's generateOptimizedConfig.
func optimizeConfig(c CacheConfig) *CacheConfig {
	optimized := c
	if optimized.HotKeyThreshold <= 0 {
		optimized.HotKeyThreshold = DefaultCacheConfig().HotKeyThreshold
	}
	if optimized.MemoryLimitMB < 8 {
		optimized.MemoryLimitMB = 8
	}
	if optimized.CompressionThresholdKB == 0 {
		optimized.CompressionThresholdKB = DefaultCacheConfig().CompressionThresholdKB
	}
	if optimized.SweepIntervalMS > 60000 {
		optimized.SweepIntervalMS = 60000
	}
	return &optimized
}

// GetConfigRecommendation returns a CacheConfig tuned for one of a
// handful of common deployment shapes, the adapted equivalent of the
// teacher's GetConfigRecommendation use-case switch.
func GetConfigRecommendation(useCase string) CacheConfig {
	switch useCase {
	case "development":
		return CacheConfig{
			MemoryLimitMB:           16,
			CompressionThresholdKB:  64,
			CompressionRatioTarget:  0.9,
			HotKeyThreshold:         3,
			EnablePredictiveLoading: false,
			SweepIntervalMS:         1000,
		}
	case "web-session-cache":
		return CacheConfig{
			MemoryLimitMB:           256,
			CompressionThresholdKB:  4,
			CompressionRatioTarget:  0.85,
			HotKeyThreshold:         5,
			EnablePredictiveLoading: true,
			SweepIntervalMS:         1000,
		}
	case "api-gateway":
		return CacheConfig{
			MemoryLimitMB:           1024,
			CompressionThresholdKB:  2,
			CompressionRatioTarget:  0.8,
			HotKeyThreshold:         10,
			EnablePredictiveLoading: true,
			SweepIntervalMS:         500,
		}
	case "memory-efficient":
		return CacheConfig{
			MemoryLimitMB:           64,
			CompressionThresholdKB:  1,
			CompressionRatioTarget:  0.6,
			HotKeyThreshold:         5,
			EnablePredictiveLoading: false,
			SweepIntervalMS:         2000,
		}
	default:
		return DefaultCacheConfig()
	}
}
