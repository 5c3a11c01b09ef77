// Copyright (c) 2024-2025 Jesse Morgan / Morgan Forge
// SPDX-License-Identifier: AGPL-3.0-or-later

// Package model defines the core data types shared across the application:
// users, chats, and messages as the LiberNet backend represents them.
package model
