// /cmd/cacheadaptive-debug/main.go: CLI tool for inspecting cache config
//
// Copyright (c) 2025 AGILira
// Series: an AGLIra fragment
// SPDX-License-Identifier: MPL-2.0

package main

import (
	"encoding/json"
	"flag"
	"fmt"
	"os"
	"runtime"

	"github.com/bernardombsouza/cacheadaptive"
)

const version = "1.0.0"

func main() {
	if len(os.Args) < 2 {
		showHelp()
		return
	}

	switch os.Args[1] {
	case "inspect":
		cmdInspect(os.Args[2:])
	case "recommend":
		cmdRecommend(os.Args[2:])
	case "version":
		cmdVersion()
	case "help", "-h", "--help":
		showHelp()
	default:
		fmt.Printf("Unknown command: %s\n\n", os.Args[1])
		showHelp()
		os.Exit(1)
	}
}

func showHelp() {
	fmt.Printf("cacheadaptive-debug version %s\n\n", version)
	fmt.Println("USAGE: cacheadaptive-debug <command> [flags]")
	fmt.Println("COMMANDS:")
	fmt.Println("  inspect     Load and validate the current configuration")
	fmt.Println("  recommend   Print a recommended configuration for a use case")
	fmt.Println("  version     Show version information")
	fmt.Println("  help        Show this help")
	fmt.Println("\nINSPECT FLAGS:")
	fmt.Println("  -json       Output in JSON format")
	fmt.Println("\nRECOMMEND FLAGS:")
	fmt.Println("  -use-case   One of: development, web-session-cache, api-gateway, memory-efficient")
}

func cmdVersion() {
	fmt.Printf("cacheadaptive-debug version %s, Go version: %s\n", version, runtime.Version())
}

func cmdInspect(args []string) {
	fs := flag.NewFlagSet("inspect", flag.ContinueOnError)
	jsonOutput := fs.Bool("json", false, "Output in JSON format")
	if err := fs.Parse(args); err != nil {
		return
	}

	config := cacheadaptive.LoadConfig()
	result := cacheadaptive.ValidateConfig(config)

	if *jsonOutput {
		data, _ := json.MarshalIndent(map[string]interface{}{
			"config":     config,
			"validation": result,
		}, "", "  ")
		fmt.Println(string(data))
		return
	}

	fmt.Println("Loaded configuration:")
	fmt.Printf("  memory_limit_mb:            %d\n", config.MemoryLimitMB)
	fmt.Printf("  compression_threshold_kb:   %d\n", config.CompressionThresholdKB)
	fmt.Printf("  compression_ratio_target:   %.2f\n", config.CompressionRatioTarget)
	fmt.Printf("  hot_key_threshold:          %d\n", config.HotKeyThreshold)
	fmt.Printf("  enable_predictive_loading:  %v\n", config.EnablePredictiveLoading)
	fmt.Printf("  sweep_interval_ms:          %d\n", config.SweepIntervalMS)

	fmt.Printf("\nValid: %v\n", result.IsValid)
	for _, w := range result.Warnings {
		fmt.Printf("  [warning] %s\n", w)
	}
	for _, s := range result.Suggestions {
		fmt.Printf("  [suggestion] %s\n", s)
	}
}

func cmdRecommend(args []string) {
	fs := flag.NewFlagSet("recommend", flag.ContinueOnError)
	useCase := fs.String("use-case", "development", "deployment shape to recommend for")
	if err := fs.Parse(args); err != nil {
		return
	}

	config := cacheadaptive.GetConfigRecommendation(*useCase)
	data, _ := json.MarshalIndent(config, "", "  ")
	fmt.Println(string(data))
}
