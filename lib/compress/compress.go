// Copyright 2026 The Bureau Authors
// SPDX-License-Identifier: Apache-2.0

package compress

import (
	"bytes"
	"errors"
	"fmt"
	"io"

	"github.com/klauspost/compress/zstd"
	"github.com/pierrec/lz4/v4"
)

// Format identifies the framing of an input buffer.
type Format uint8

const (
	// FormatNone is raw, uncompressed data.
	FormatNone Format = iota

	// FormatZstd is a zstd frame (RFC 8878).
	FormatZstd

	// FormatLZ4 is an LZ4 frame, not a bare LZ4 block. Block data has
	// no magic number and cannot be detected.
	FormatLZ4
)

// String returns the human-readable name of a format.
func (format Format) String() string {
	switch format {
	case FormatNone:
		return "none"
	case FormatZstd:
		return "zstd"
	case FormatLZ4:
		return "lz4"
	default:
		return fmt.Sprintf("unknown(%d)", uint8(format))
	}
}

// ParseFormat parses a format from its name.
func ParseFormat(name string) (Format, error) {
	switch name {
	case "none", "":
		return FormatNone, nil
	case "zstd":
		return FormatZstd, nil
	case "lz4":
		return FormatLZ4, nil
	default:
		return 0, fmt.Errorf("unknown compression format: %q", name)
	}
}

// Mode selects how [Decompress] treats its input.
type Mode uint8

const (
	// ModeAuto inspects the leading magic number and decompresses
	// zstd and LZ4 frames. Anything else passes through unchanged.
	ModeAuto Mode = iota

	// ModeNone passes input through unchanged.
	ModeNone

	// ModeZstd requires a zstd frame.
	ModeZstd

	// ModeLZ4 requires an LZ4 frame.
	ModeLZ4
)

// String returns the configuration name of a mode.
func (mode Mode) String() string {
	switch mode {
	case ModeAuto:
		return "auto"
	case ModeNone:
		return "none"
	case ModeZstd:
		return "zstd"
	case ModeLZ4:
		return "lz4"
	default:
		return fmt.Sprintf("unknown(%d)", uint8(mode))
	}
}

// ParseMode parses a mode from its configuration name.
func ParseMode(name string) (Mode, error) {
	switch name {
	case "auto", "":
		return ModeAuto, nil
	case "none":
		return ModeNone, nil
	case "zstd":
		return ModeZstd, nil
	case "lz4":
		return ModeLZ4, nil
	default:
		return 0, fmt.Errorf("unknown decompression mode: %q", name)
	}
}

// ErrTooLarge is returned when decompressed output would exceed the
// caller's limit.
var ErrTooLarge = errors.New("decompressed data exceeds size limit")

// Frame magic numbers, little-endian on the wire.
var (
	zstdMagic = []byte{0x28, 0xb5, 0x2f, 0xfd}
	lz4Magic  = []byte{0x04, 0x22, 0x4d, 0x18}
)

// zstdEncoder is reused across calls. EncodeAll is safe for concurrent
// use.
var zstdEncoder *zstd.Encoder

func init() {
	var err error
	zstdEncoder, err = zstd.NewWriter(nil,
		zstd.WithEncoderLevel(zstd.SpeedDefault),
		zstd.WithEncoderConcurrency(1),
	)
	if err != nil {
		panic("zstd encoder initialization failed: " + err.Error())
	}
}

// Detect reports the framing of data from its leading magic number.
// A CBOR item never starts with either magic: 0x28 is a negative
// integer head and 0x04 is the unsigned integer 4, both complete
// one-byte items that would leave trailing bytes behind.
func Detect(data []byte) Format {
	switch {
	case bytes.HasPrefix(data, zstdMagic):
		return FormatZstd
	case bytes.HasPrefix(data, lz4Magic):
		return FormatLZ4
	default:
		return FormatNone
	}
}

// Decompress returns the payload of data according to mode, along with
// the format that was decoded. Output larger than maxBytes fails with
// [ErrTooLarge]; maxBytes <= 0 means no limit. For ModeNone and for
// undetected input under ModeAuto, data is returned without a copy.
func Decompress(data []byte, mode Mode, maxBytes int64) ([]byte, Format, error) {
	format := Detect(data)
	switch mode {
	case ModeNone:
		return data, FormatNone, nil
	case ModeAuto:
		if format == FormatNone {
			return data, FormatNone, nil
		}
	case ModeZstd:
		if format != FormatZstd {
			return nil, FormatNone, fmt.Errorf("input is not a zstd frame")
		}
	case ModeLZ4:
		if format != FormatLZ4 {
			return nil, FormatNone, fmt.Errorf("input is not an lz4 frame")
		}
	default:
		return nil, FormatNone, fmt.Errorf("unsupported decompression mode: %s", mode)
	}

	var (
		output []byte
		err    error
	)
	switch format {
	case FormatZstd:
		output, err = decompressZstd(data, maxBytes)
	case FormatLZ4:
		output, err = decompressLZ4(data, maxBytes)
	}
	if err != nil {
		return nil, format, err
	}
	return output, format, nil
}

// Compress frames data in the given format. FormatNone returns the
// input unchanged (no copy).
func Compress(data []byte, format Format) ([]byte, error) {
	switch format {
	case FormatNone:
		return data, nil
	case FormatZstd:
		return zstdEncoder.EncodeAll(data, make([]byte, 0, len(data)/2+len(zstdMagic))), nil
	case FormatLZ4:
		return compressLZ4(data)
	default:
		return nil, fmt.Errorf("unsupported compression format: %s", format)
	}
}

func decompressZstd(data []byte, maxBytes int64) ([]byte, error) {
	// A streaming decoder lets the size limit apply per call. The
	// shared DecodeAll path only supports a limit fixed at construction.
	decoder, err := zstd.NewReader(bytes.NewReader(data), zstd.WithDecoderConcurrency(1))
	if err != nil {
		return nil, fmt.Errorf("zstd decompress: %w", err)
	}
	defer decoder.Close()

	output, err := readLimited(decoder, maxBytes)
	if err != nil {
		return nil, fmt.Errorf("zstd decompress: %w", err)
	}
	return output, nil
}

func decompressLZ4(data []byte, maxBytes int64) ([]byte, error) {
	output, err := readLimited(lz4.NewReader(bytes.NewReader(data)), maxBytes)
	if err != nil {
		return nil, fmt.Errorf("lz4 decompress: %w", err)
	}
	return output, nil
}

func compressLZ4(data []byte) ([]byte, error) {
	var buffer bytes.Buffer
	writer := lz4.NewWriter(&buffer)
	if _, err := writer.Write(data); err != nil {
		return nil, fmt.Errorf("lz4 compress: %w", err)
	}
	if err := writer.Close(); err != nil {
		return nil, fmt.Errorf("lz4 compress: %w", err)
	}
	return buffer.Bytes(), nil
}

// readLimited reads reader to EOF, failing once more than maxBytes
// have been produced.
func readLimited(reader io.Reader, maxBytes int64) ([]byte, error) {
	if maxBytes <= 0 {
		return io.ReadAll(reader)
	}
	output, err := io.ReadAll(io.LimitReader(reader, maxBytes+1))
	if err != nil {
		return nil, err
	}
	if int64(len(output)) > maxBytes {
		return nil, fmt.Errorf("%w (%d bytes)", ErrTooLarge, maxBytes)
	}
	return output, nil
}
