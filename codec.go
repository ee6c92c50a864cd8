// codec.go: Codec — compress/decompress payloads, decide when it pays
//
// Copyright (c) 2025 AGILira
// Series: an AGLIra fragment
// SPDX-License-Identifier: MPL-2.0

package cacheadaptive

import (
	"fmt"

	"github.com/klauspost/compress/zstd"
)

// codec implements spec.md §4.A. It replaces the teacher's hand-rolled
// compress/gzip + 4-byte-header scheme (metis.go compressGzipWithHeader)
// with github.com/klauspost/compress/zstd, a production zstd codec
// (grounded: declared in VanitasCaesar1-mantisdb's go.mod) used through
// its one-shot EncodeAll/DecodeAll entry points, which the library
// documents as safe for concurrent use — the engine never needs a
// streaming writer since payloads are always fully buffered values.
type codec struct {
	thresholdBytes int     // compression_threshold, spec.md §6
	ratioTarget    float64 // compression_ratio_target, spec.md §6

	enc *zstd.Encoder
	dec *zstd.Decoder
}

func newCodec(thresholdBytes int, ratioTarget float64) (*codec, error) {
	enc, err := zstd.NewWriter(nil, zstd.WithEncoderLevel(zstd.SpeedDefault))
	if err != nil {
		return nil, fmt.Errorf("cacheadaptive: codec init: %w", err)
	}
	dec, err := zstd.NewReader(nil)
	if err != nil {
		enc.Close()
		return nil, fmt.Errorf("cacheadaptive: codec init: %w", err)
	}
	return &codec{
		thresholdBytes: thresholdBytes,
		ratioTarget:    ratioTarget,
		enc:            enc,
		dec:            dec,
	}, nil
}

func (c *codec) close() {
	c.enc.Close()
	c.dec.Close()
}

// encode applies the decision rule from spec.md §4.A: compress only
// when logicalSize exceeds the threshold AND the achieved ratio is at
// or below ratioTarget. Otherwise the raw bytes are stored as-is.
//
// Returns the bytes to store, whether they are compressed, and the
// logical (uncompressed) size. The one-shot zstd encoder reports no
// errors, so err is always nil here; putLockedJournaled still wraps a
// non-nil err as ErrCodecFailure before mutating any state (spec.md §7
// "pre-check the operation entirely before mutating state").
func (c *codec) encode(raw []byte) (stored []byte, compressed bool, logicalSize int, err error) {
	logicalSize = len(raw)
	if logicalSize <= c.thresholdBytes {
		return raw, false, logicalSize, nil
	}

	compressedBytes := c.enc.EncodeAll(raw, make([]byte, 0, logicalSize/2))
	ratio := float64(len(compressedBytes)) / float64(logicalSize)
	if ratio > c.ratioTarget {
		return raw, false, logicalSize, nil
	}
	return compressedBytes, true, logicalSize, nil
}

// decode reverses encode. Decompression is always defined for
// compressed payloads and is lossless (spec.md §4.A).
func (c *codec) decode(key string, stored []byte, compressed bool) ([]byte, error) {
	if !compressed {
		return stored, nil
	}
	raw, err := c.dec.DecodeAll(stored, nil)
	if err != nil {
		return nil, codecFailureErr(key, err)
	}
	return raw, nil
}

// configure updates the tunables consulted by encode, used by
// Engine.ConfigureAdaptiveBehavior (spec.md §6).
func (c *codec) configure(ratioTarget float64) {
	c.ratioTarget = ratioTarget
}
