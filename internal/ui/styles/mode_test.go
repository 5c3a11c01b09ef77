// Copyright (c) 2024-2025 Jesse Morgan / Morgan Forge
// SPDX-License-Identifier: AGPL-3.0-or-later

package styles

import (
	"testing"

	"github.com/libernet/sofia-tui/internal/storage"
)

func TestParseMode(t *testing.T) {
	cases := map[string]Mode{
		"light":  ModeLight,
		"dark":   ModeDark,
		"system": ModeSystem,
		"":       ModeSystem,
		"neon":   ModeSystem,
		"DARK":   ModeSystem,
	}
	for in, want := range cases {
		if got := ParseMode(in); got != want {
			t.Errorf("ParseMode(%q): got %q, want %q", in, got, want)
		}
	}
}

func TestMode_NextCycles(t *testing.T) {
	if ModeLight.Next() != ModeDark {
		t.Error("light should cycle to dark")
	}
	if ModeDark.Next() != ModeSystem {
		t.Error("dark should cycle to system")
	}
	if ModeSystem.Next() != ModeLight {
		t.Error("system should cycle to light")
	}
}

func TestLoadMode_PreferenceWinsOverFallback(t *testing.T) {
	kv := storage.NewMemoryKV()
	SaveMode(kv, ModeDark)

	if got := LoadMode(kv, "light"); got != ModeDark {
		t.Errorf("stored preference must win, got %q", got)
	}
}

func TestLoadMode_FallbackWhenUnset(t *testing.T) {
	kv := storage.NewMemoryKV()

	if got := LoadMode(kv, "light"); got != ModeLight {
		t.Errorf("fallback should apply, got %q", got)
	}
	if got := LoadMode(kv, "bogus"); got != ModeSystem {
		t.Errorf("bogus fallback should land on system, got %q", got)
	}
}

func TestSaveMode_PersistsUnderThemeKey(t *testing.T) {
	kv := storage.NewMemoryKV()
	SaveMode(kv, ModeLight)

	value, ok, err := kv.Get(storage.ThemeKey)
	if err != nil || !ok || value != "light" {
		t.Errorf("SaveMode under ThemeKey: got (%q, %v, %v)", value, ok, err)
	}
}
