// config.go: configuration loading for the adaptive cache engine
//
// Copyright (c) 2025 AGILira
// Series: an AGLIra fragment
// SPDX-License-Identifier: MPL-2.0

package cacheadaptive

import (
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"sync"
	"time"

	"gopkg.in/yaml.v3"
)

// CacheConfig is the complete, file-loadable configuration for an
// Engine, standing in for the Go-code options passed to New.
// Grounded on the teacher's config.go CacheConfig/SimpleConfig split:
// a compact file format (cacheadaptive.json / cacheadaptive.yaml) maps
// onto the engine's actual tunables.
type CacheConfig struct {
	MemoryLimitMB           int     `json:"memory_limit_mb" yaml:"memory_limit_mb"`
	CompressionThresholdKB  int     `json:"compression_threshold_kb" yaml:"compression_threshold_kb"`
	CompressionRatioTarget  float64 `json:"compression_ratio_target" yaml:"compression_ratio_target"`
	HotKeyThreshold         int     `json:"hot_key_threshold" yaml:"hot_key_threshold"`
	EnablePredictiveLoading bool    `json:"enable_predictive_loading" yaml:"enable_predictive_loading"`
	SweepIntervalMS         int     `json:"sweep_interval_ms" yaml:"sweep_interval_ms"`
}

// Options converts the config into the Option slice New expects.
func (c CacheConfig) Options() []Option {
	return []Option{
		WithCompressionRatioTarget(c.CompressionRatioTarget),
		WithHotKeyThreshold(c.HotKeyThreshold),
		WithPredictiveLoading(c.EnablePredictiveLoading),
		WithSweepInterval(time.Duration(c.SweepIntervalMS) * time.Millisecond),
	}
}

// Global configuration state, for power users who want to bypass file
// discovery entirely — mirrors the teacher's SetGlobalConfig /
// GetGlobalConfig pair in config.go.
var (
	globalConfig *CacheConfig
	configMutex  sync.RWMutex
)

// SetGlobalConfig installs a configuration that LoadConfig will prefer
// over any config file. Intended to be called from an init() in the
// embedding program.
func SetGlobalConfig(c CacheConfig) {
	configMutex.Lock()
	defer configMutex.Unlock()
	globalConfig = &c
}

// GetGlobalConfig returns the currently installed global configuration,
// or nil if none was set.
func GetGlobalConfig() *CacheConfig {
	configMutex.RLock()
	defer configMutex.RUnlock()
	return globalConfig
}

// DefaultCacheConfig returns the engine's out-of-the-box tunables.
func DefaultCacheConfig() CacheConfig {
	return CacheConfig{
		MemoryLimitMB:           256,
		CompressionThresholdKB:  4,
		CompressionRatioTarget:  0.9,
		HotKeyThreshold:         5,
		EnablePredictiveLoading: false,
		SweepIntervalMS:         1000,
	}
}

// LoadConfig resolves configuration with priority Go config > file
// config (JSON or YAML) > defaults, the same chain as the teacher's
// loadConfig.
func LoadConfig() CacheConfig {
	if c := GetGlobalConfig(); c != nil {
		return *c
	}
	if c, err := loadFileConfig(); err == nil {
		return c
	}
	return DefaultCacheConfig()
}

// loadFileConfig searches for cacheadaptive.json or cacheadaptive.yaml
// in the current and parent directories (mirroring the teacher's
// findConfigFile walk) and parses whichever is found first.
func loadFileConfig() (CacheConfig, error) {
	path, format := findConfigFile()
	if path == "" {
		return CacheConfig{}, fmt.Errorf("no cacheadaptive config file found")
	}

	data, err := os.ReadFile(path) // nosec G304 - path is constrained to discovered, known filenames below
	if err != nil {
		return CacheConfig{}, fmt.Errorf("read %s: %w", path, err)
	}

	config := DefaultCacheConfig()
	switch format {
	case "json":
		if err := json.Unmarshal(data, &config); err != nil {
			return CacheConfig{}, fmt.Errorf("parse %s: %w", path, err)
		}
	case "yaml":
		if err := yaml.Unmarshal(data, &config); err != nil {
			return CacheConfig{}, fmt.Errorf("parse %s: %w", path, err)
		}
	}
	return config, nil
}

// findConfigFile checks the current directory and up to four parent
// directories (five directories in all) looking for a
// recognized config filename, returning its path and format ("json" or
// "yaml"), or ("", "") if none is found.
func findConfigFile() (string, string) {
	dir, err := os.Getwd()
	if err != nil {
		return "", ""
	}

	candidates := []struct {
		name   string
		format string
	}{
		{"cacheadaptive.json", "json"},
		{"cacheadaptive.yaml", "yaml"},
		{"cacheadaptive.yml", "yaml"},
	}

	for i := 0; i < 5; i++ {
		for _, c := range candidates {
			p := filepath.Join(dir, c.name)
			if filepath.Base(p) != c.name || strings.Contains(p, "..") {
				continue
			}
			if _, err := os.Stat(p); err == nil {
				return p, c.format
			}
		}
		parent := filepath.Dir(dir)
		if parent == dir {
			break
		}
		dir = parent
	}
	return "", ""
}

// NewFromConfig is a convenience constructor that loads CacheConfig's
// tunables directly into New.
func NewFromConfig(c CacheConfig, extra ...Option) *Engine {
	opts := append(c.Options(), extra...)
	return New(c.MemoryLimitMB, c.CompressionThresholdKB, opts...)
}
