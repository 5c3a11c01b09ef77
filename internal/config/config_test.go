// Copyright (c) 2024-2025 Jesse Morgan / Morgan Forge
// SPDX-License-Identifier: AGPL-3.0-or-later

package config

import (
	"os"
	"path/filepath"
	"testing"
)

func writeConfig(t *testing.T, content string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), "config.toml")
	if err := os.WriteFile(path, []byte(content), 0600); err != nil {
		t.Fatalf("failed to write config: %v", err)
	}
	return path
}

// =============================================================================
// DEFAULTS
// =============================================================================

func TestDefault_IsValid(t *testing.T) {
	cfg := Default()
	if err := cfg.Validate(); err != nil {
		t.Fatalf("default config must validate: %v", err)
	}
	if cfg.Server.Origin != "http://localhost:3000" {
		t.Errorf("default origin: got %q", cfg.Server.Origin)
	}
	if cfg.Server.TimeoutSeconds != 30 {
		t.Errorf("default timeout: got %d", cfg.Server.TimeoutSeconds)
	}
	if cfg.UI.Theme != "system" {
		t.Errorf("default theme: got %q", cfg.UI.Theme)
	}
}

func TestLoad_MissingFileYieldsDefaults(t *testing.T) {
	cfg, err := Load(filepath.Join(t.TempDir(), "absent.toml"))
	if err != nil {
		t.Fatalf("Load failed: %v", err)
	}
	if cfg.Server.Origin != Default().Server.Origin {
		t.Errorf("missing file should yield defaults, got %q", cfg.Server.Origin)
	}
}

// =============================================================================
// FILE LOADING
// =============================================================================

func TestLoad_ReadsFile(t *testing.T) {
	path := writeConfig(t, `
[server]
origin = "https://chat.example.com"
timeout_seconds = 10

[ui]
theme = "dark"
`)

	cfg, err := Load(path)
	if err != nil {
		t.Fatalf("Load failed: %v", err)
	}
	if cfg.Server.Origin != "https://chat.example.com" {
		t.Errorf("origin: got %q", cfg.Server.Origin)
	}
	if cfg.Server.TimeoutSeconds != 10 {
		t.Errorf("timeout: got %d", cfg.Server.TimeoutSeconds)
	}
	if cfg.UI.Theme != "dark" {
		t.Errorf("theme: got %q", cfg.UI.Theme)
	}
}

func TestLoad_PartialFileFillsDefaults(t *testing.T) {
	path := writeConfig(t, `
[server]
origin = "http://10.0.0.2:8080"
`)

	cfg, err := Load(path)
	if err != nil {
		t.Fatalf("Load failed: %v", err)
	}
	if cfg.Server.TimeoutSeconds != 30 {
		t.Errorf("unset timeout should default, got %d", cfg.Server.TimeoutSeconds)
	}
	if cfg.UI.Theme != "system" {
		t.Errorf("unset theme should default, got %q", cfg.UI.Theme)
	}
}

func TestLoad_InvalidTOML(t *testing.T) {
	path := writeConfig(t, "not [valid toml")
	if _, err := Load(path); err == nil {
		t.Fatal("expected parse error")
	}
}

// =============================================================================
// ENV OVERRIDES
// =============================================================================

func TestApplyEnvOverrides(t *testing.T) {
	t.Setenv("SOFIA_SERVER_ORIGIN", "http://override:9000")
	t.Setenv("SOFIA_TIMEOUT_SECONDS", "5")
	t.Setenv("SOFIA_THEME", "light")
	t.Setenv("SOFIA_STORAGE_PATH", "/tmp/sofia.db")

	cfg := Default()
	cfg.ApplyEnvOverrides()

	if cfg.Server.Origin != "http://override:9000" {
		t.Errorf("origin override: got %q", cfg.Server.Origin)
	}
	if cfg.Server.TimeoutSeconds != 5 {
		t.Errorf("timeout override: got %d", cfg.Server.TimeoutSeconds)
	}
	if cfg.UI.Theme != "light" {
		t.Errorf("theme override: got %q", cfg.UI.Theme)
	}
	if cfg.Storage.Path != "/tmp/sofia.db" {
		t.Errorf("storage override: got %q", cfg.Storage.Path)
	}
}

func TestApplyEnvOverrides_IgnoresBadTimeout(t *testing.T) {
	t.Setenv("SOFIA_TIMEOUT_SECONDS", "not-a-number")

	cfg := Default()
	cfg.ApplyEnvOverrides()

	if cfg.Server.TimeoutSeconds != 30 {
		t.Errorf("invalid timeout must be ignored, got %d", cfg.Server.TimeoutSeconds)
	}
}

// =============================================================================
// VALIDATION
// =============================================================================

func TestValidate_CollectsAllErrors(t *testing.T) {
	cfg := &Config{
		Server: ServerConfig{Origin: "", TimeoutSeconds: 0},
		UI:     UIConfig{Theme: "neon"},
	}

	err := cfg.Validate()
	if err == nil {
		t.Fatal("expected validation errors")
	}
	errs, ok := err.(ValidateErrors)
	if !ok {
		t.Fatalf("expected ValidateErrors, got %T", err)
	}
	if len(errs) != 3 {
		t.Errorf("expected 3 errors, got %d: %v", len(errs), errs)
	}
}

func TestValidate_RejectsBareHost(t *testing.T) {
	cfg := Default()
	cfg.Server.Origin = "localhost:3000"
	if cfg.Validate() == nil {
		t.Error("origin without a scheme must be rejected")
	}
}

// =============================================================================
// SAVE
// =============================================================================

func TestSave_Roundtrip(t *testing.T) {
	path := filepath.Join(t.TempDir(), "out", "config.toml")
	cfg := Default()
	cfg.Server.Origin = "http://saved:1234"

	if err := cfg.Save(path); err != nil {
		t.Fatalf("Save failed: %v", err)
	}

	loaded, err := Load(path)
	if err != nil {
		t.Fatalf("Load after Save failed: %v", err)
	}
	if loaded.Server.Origin != "http://saved:1234" {
		t.Errorf("roundtrip origin: got %q", loaded.Server.Origin)
	}
}

// =============================================================================
// GLOBAL
// =============================================================================

func TestGlobal_SetAndReset(t *testing.T) {
	ResetGlobalForTesting()
	t.Cleanup(ResetGlobalForTesting)

	cfg := Default()
	cfg.Server.Origin = "http://global:1"
	SetGlobal(cfg)

	if Global().Server.Origin != "http://global:1" {
		t.Errorf("Global did not return the set config")
	}
}
