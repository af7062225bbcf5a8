// Copyright 2026 The Bureau Authors
// SPDX-License-Identifier: Apache-2.0

// Package config provides YAML configuration loading for cbordate.
//
// Configuration is loaded from a single file specified by either the
// CBORDATE_CONFIG environment variable (via [Load]) or a --config flag
// (via [LoadFile]). There is no ~/.config discovery and no automatic
// file search. [Resolve] picks between the two for commands and falls
// back to [Default] only when neither is given.
//
// The configuration file supports environment-specific sections
// (development, production) that override base values when
// [Config].Environment matches. Production defaults are stricter:
// dates are always decoded strictly and input is never decompressed
// on a guess.
//
// Variable expansion is performed on path fields after loading:
// ${HOME} and ${VAR:-default} patterns are expanded. No other
// environment variables override config values.
//
// Key exports:
//
//   - [Config] -- master struct with Decoder, Dates, Input, Schemas, Log
//   - [Default] -- returns a Config with development defaults
//   - [Load], [LoadFile], and [Resolve] -- the entry points for loading
//   - [Config.DecodeOptions] and [Config.DateDecoder] -- the decoder
//     settings in the form lib/cborvalue and lib/cbordecode take them
package config
