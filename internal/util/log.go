// Copyright (c) 2024-2025 Jesse Morgan / Morgan Forge
// SPDX-License-Identifier: AGPL-3.0-or-later

package util

import (
	"fmt"
	"os"
	"path/filepath"
	"sync"
	"time"
)

// Debug logging is off by default so nothing interleaves with the TUI.
// Set SOFIA_DEBUG=1 to append diagnostics to ~/.sofia/debug.log.

var (
	debugOnce sync.Once
	debugFile *os.File
)

func debugTarget() *os.File {
	debugOnce.Do(func() {
		if os.Getenv("SOFIA_DEBUG") == "" {
			return
		}
		home, err := os.UserHomeDir()
		if err != nil {
			return
		}
		dir := filepath.Join(home, ".sofia")
		if err := os.MkdirAll(dir, 0700); err != nil {
			return
		}
		f, err := os.OpenFile(filepath.Join(dir, "debug.log"), os.O_CREATE|os.O_APPEND|os.O_WRONLY, 0600)
		if err != nil {
			return
		}
		debugFile = f
	})
	return debugFile
}

// DebugLogf writes a timestamped line to the debug log when SOFIA_DEBUG
// is set, and is a no-op otherwise.
func DebugLogf(format string, args ...interface{}) {
	f := debugTarget()
	if f == nil {
		return
	}
	fmt.Fprintf(f, "%s "+format+"\n", append([]interface{}{time.Now().Format(time.RFC3339)}, args...)...)
}
