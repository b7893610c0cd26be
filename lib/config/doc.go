// Copyright 2026 The Bureau Authors
// SPDX-License-Identifier: Apache-2.0

// Package config loads Arta's configuration file.
//
// The file is named by the ARTA_CONFIG environment variable (via [Load])
// or a --config flag (via [LoadFile]). There is no directory search:
// with neither set, [Load] returns [Default]. The extension selects the
// syntax, YAML for .yaml/.yml and JSON with comments for .json/.jsonc.
//
// A file may carry development and production sections that override
// base values when [Config].Environment matches. Without a production
// section, production tightens the DELETE and KILL ceilings.
//
// Path fields accept ${HOME} and ${VAR:-default}. No other environment
// variable overrides a config value.
//
// Key exports:
//
//   - [Config] -- security, life, output, query and paths sections
//   - [Default] -- development defaults
//   - [Load] and [LoadFile] -- the two entry points
//   - [Config.Limits], [Config.LifeInterval], [Config.Linux] -- views
//     consumed by the engine, LIFE monitors and the Linux system
package config
