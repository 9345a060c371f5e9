// Copyright (c) 2025-2026 Oleg Ivanchenko
// SPDX-License-Identifier: GPL-3.0-or-later

package main

import (
	"fmt"
	"log/slog"
	"os"

	"github.com/joho/godotenv"
	"github.com/spf13/cobra"

	"github.com/olegiv/skinpatch/internal/config"
	"github.com/olegiv/skinpatch/internal/logging"
	"github.com/olegiv/skinpatch/internal/version"
)

// Version information - injected at build time via ldflags
var (
	appVersion   = "dev"
	appGitCommit = "unknown"
	appBuildTime = "unknown"
)

// app is the state shared by subcommands once configuration is loaded.
type app struct {
	cfg    *config.Config
	logger *slog.Logger
	diag   *logging.Diagnostics
	build  version.Info
}

func newRootCmd() *cobra.Command {
	a := &app{
		build: version.Info{Version: appVersion, GitCommit: appGitCommit, BuildTime: appBuildTime},
	}

	root := &cobra.Command{
		Use:           "skinpatch",
		Short:         "skinpatch - apply skins to host application windows",
		Long:          "skinpatch decides which skin stylesheets and scripts each host window receives and injects them.",
		SilenceUsage:  true,
		SilenceErrors: true,
		PersistentPreRunE: func(cmd *cobra.Command, _ []string) error {
			if cmd.Name() == "version" {
				return nil
			}
			return a.setup()
		},
	}

	root.AddCommand(
		newApplyCmd(a),
		newServeCmd(a),
		newListCmd(a),
		newVersionCmd(a),
	)
	return root
}

// setup loads .env and the environment, then builds the logger.
func (a *app) setup() error {
	// Load .env file if present (development)
	_ = godotenv.Load()

	cfg, err := config.Load()
	if err != nil {
		return fmt.Errorf("loading config: %w", err)
	}
	a.cfg = cfg
	a.diag = logging.NewDiagnostics(cfg.DiagnosticsSize)
	a.logger = logging.NewLogger(os.Stderr, cfg.LogLevel, cfg.IsDevelopment(), a.diag)
	slog.SetDefault(a.logger)
	return nil
}

func newVersionCmd(a *app) *cobra.Command {
	return &cobra.Command{
		Use:   "version",
		Short: "Show version information",
		Run: func(cmd *cobra.Command, _ []string) {
			_, _ = fmt.Fprintln(cmd.OutOrStdout(), a.build.String())
		},
	}
}

func main() {
	if err := newRootCmd().Execute(); err != nil {
		slog.Error("application error", "error", err)
		os.Exit(1)
	}
}
