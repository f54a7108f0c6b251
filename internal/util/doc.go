// Copyright (c) 2024-2025 Jesse Morgan / Morgan Forge
// SPDX-License-Identifier: AGPL-3.0-or-later

// Package util provides crash-safe file writing.
//
// # Key Functions
//
//   - AtomicWriteFile: temp file + fsync + rename, so readers never see
//     a partial write
//   - AtomicWriteFileWithDir: same, creating the parent directory first
//
// # Usage
//
//	err := util.AtomicWriteFile(path, data, 0o644)
package util
