// Copyright (c) 2024-2025 Jesse Morgan / Morgan Forge
// SPDX-License-Identifier: AGPL-3.0-or-later

// Package storage provides the persistent key/value store used for the
// session token and UI preferences, backed by SQLite on disk with an
// in-memory variant for tests.
package storage
