// codec_test.go: unit tests for the Codec component
//
// Copyright (c) 2025 AGILira
// Series: an AGLIra fragment
// SPDX-License-Identifier: MPL-2.0

package cacheadaptive

import (
	"bytes"
	"testing"
)

func TestCodecSkipsBelowThreshold(t *testing.T) {
	c, err := newCodec(1024, 0.9)
	if err != nil {
		t.Fatalf("newCodec: %v", err)
	}
	defer c.close()

	raw := []byte("short")
	stored, compressed, logicalSize, err := c.encode(raw)
	if err != nil {
		t.Fatalf("encode: %v", err)
	}
	if compressed {
		t.Error("expected value under threshold to be stored uncompressed")
	}
	if logicalSize != len(raw) {
		t.Errorf("logicalSize = %d, want %d", logicalSize, len(raw))
	}
	if !bytes.Equal(stored, raw) {
		t.Error("uncompressed stored bytes should equal the input")
	}
}

func TestCodecCompressesAboveThresholdWhenBeneficial(t *testing.T) {
	c, err := newCodec(16, 0.9)
	if err != nil {
		t.Fatalf("newCodec: %v", err)
	}
	defer c.close()

	raw := bytes.Repeat([]byte("abcdefgh"), 1000)
	stored, compressed, _, err := c.encode(raw)
	if err != nil {
		t.Fatalf("encode: %v", err)
	}
	if !compressed {
		t.Fatal("expected a large, repetitive payload to compress")
	}
	if len(stored) >= len(raw) {
		t.Error("compressed payload should be smaller than the input")
	}

	decoded, err := c.decode("k", stored, true)
	if err != nil {
		t.Fatalf("decode: %v", err)
	}
	if !bytes.Equal(decoded, raw) {
		t.Error("round-tripped payload does not match original")
	}
}

func TestCodecSkipsWhenRatioTargetNotMet(t *testing.T) {
	c, err := newCodec(4, 0.01) // near-impossible ratio target
	if err != nil {
		t.Fatalf("newCodec: %v", err)
	}
	defer c.close()

	raw := bytes.Repeat([]byte("abcdefgh"), 100)
	stored, compressed, _, err := c.encode(raw)
	if err != nil {
		t.Fatalf("encode: %v", err)
	}
	if compressed {
		t.Error("expected encode to fall back to raw storage when the ratio target can't be met")
	}
	if !bytes.Equal(stored, raw) {
		t.Error("uncompressed fallback should store the original bytes")
	}
}

func TestCodecDecodePassthroughWhenUncompressed(t *testing.T) {
	c, err := newCodec(1024, 0.9)
	if err != nil {
		t.Fatalf("newCodec: %v", err)
	}
	defer c.close()

	raw := []byte("passthrough")
	got, err := c.decode("k", raw, false)
	if err != nil {
		t.Fatalf("decode: %v", err)
	}
	if !bytes.Equal(got, raw) {
		t.Error("decode of an uncompressed payload should return it unchanged")
	}
}
