// Sofia LiberNet - a terminal client for the LiberNet chat backend.
//
// Copyright (c) 2024-2025 Jesse Morgan / Morgan Forge
// SPDX-License-Identifier: AGPL-3.0-or-later
package main

import (
	"context"
	"flag"
	"fmt"
	"os"
	"time"

	tea "github.com/charmbracelet/bubbletea"
	"golang.org/x/term"

	"github.com/libernet/sofia-tui/internal/api"
	"github.com/libernet/sofia-tui/internal/chat"
	"github.com/libernet/sofia-tui/internal/config"
	"github.com/libernet/sofia-tui/internal/session"
	"github.com/libernet/sofia-tui/internal/storage"
	"github.com/libernet/sofia-tui/internal/ui"
	"github.com/libernet/sofia-tui/internal/ui/styles"
)

// Version information (set at build time)
var (
	Version   = "1.0.0"
	GitCommit = "unknown"
	BuildDate = "unknown"
)

func main() {
	configPath := flag.String("config", "", "path to config file (default ~/.sofia/config.toml)")
	serverOrigin := flag.String("server", "", "backend origin, overrides config (e.g. http://localhost:3000)")
	showVersion := flag.Bool("version", false, "print version and exit")
	flag.Parse()

	if *showVersion {
		fmt.Printf("sofia-tui %s (%s, built %s)\n", Version, GitCommit, BuildDate)
		return
	}

	if !term.IsTerminal(int(os.Stdout.Fd())) {
		fmt.Fprintln(os.Stderr, "sofia-tui must run in a terminal")
		os.Exit(1)
	}

	cfg, err := config.Load(*configPath)
	if err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		os.Exit(1)
	}
	if *serverOrigin != "" {
		cfg.Server.Origin = *serverOrigin
	}
	config.SetGlobal(cfg)

	kvPath := cfg.Storage.Path
	if kvPath == "" {
		kvPath, err = storage.DefaultKVPath()
		if err != nil {
			fmt.Fprintf(os.Stderr, "Error: %v\n", err)
			os.Exit(1)
		}
	}
	kv, err := storage.OpenKV(kvPath)
	if err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		os.Exit(1)
	}
	defer kv.Close()

	tokens := storage.NewTokenStore(kv)
	client := api.NewClient(tokens).
		WithOrigin(cfg.Server.Origin).
		WithTimeout(time.Duration(cfg.Server.TimeoutSeconds) * time.Second)

	sess := session.NewManager(client)
	controller := chat.NewController(client)
	theme := styles.NewTheme(styles.LoadMode(kv, cfg.UI.Theme))

	ctx := context.Background()
	app := ui.NewApp(ctx, kv, client, sess, controller, theme)

	program := tea.NewProgram(app, tea.WithAltScreen())
	if _, err := program.Run(); err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		os.Exit(1)
	}
}
