// Copyright (c) 2025-2026 Oleg Ivanchenko
// SPDX-License-Identifier: GPL-3.0-or-later

package main

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/go-chi/chi/v5"
	chimw "github.com/go-chi/chi/v5/middleware"
	"github.com/spf13/cobra"

	"github.com/olegiv/skinpatch/internal/handler/api"
	"github.com/olegiv/skinpatch/internal/middleware"
	"github.com/olegiv/skinpatch/internal/payload"
	"github.com/olegiv/skinpatch/internal/theme"
	"github.com/olegiv/skinpatch/internal/window"
)

func (a *app) loader() *theme.Loader {
	return theme.NewLoader(os.DirFS(a.cfg.SkinsDir), a.logger)
}

// source returns the configured payload source and a function releasing it.
func (a *app) source() (payload.Source, func(), error) {
	if !a.cfg.UseRedisPayload() {
		return payload.FileSource{Path: a.cfg.PayloadPath}, func() {}, nil
	}

	opts := payload.DefaultRedisSourceOptions()
	opts.URL = a.cfg.RedisURL
	opts.Key = a.cfg.PayloadKey
	src, err := payload.NewRedisSource(opts)
	if err != nil {
		return nil, nil, fmt.Errorf("connecting to redis: %w", err)
	}
	a.logger.Info("reading startup payload from redis", "key", opts.Key)
	return src, func() {
		if err := src.Close(); err != nil {
			a.logger.Error("error closing redis connection", "error", err)
		}
	}, nil
}

func newApplyCmd(a *app) *cobra.Command {
	var windowsDir, outDir string

	cmd := &cobra.Command{
		Use:   "apply",
		Short: "Patch a directory of HTML window snapshots",
		Long: "Opens one window per *.html file in --windows, applies the active skin from the " +
			"startup payload and writes the patched documents to --out.",
		RunE: func(cmd *cobra.Command, _ []string) error {
			src, release, err := a.source()
			if err != nil {
				return err
			}
			defer release()

			reg := window.NewMemoryRegistry()
			files, err := window.LoadSnapshotDir(reg, windowsDir)
			if err != nil {
				return err
			}

			p, err := src.Fetch(cmd.Context())
			if err != nil {
				return fmt.Errorf("fetching startup payload: %w", err)
			}
			loader := a.loader()
			coord := window.NewCoordinator(reg, loader, a.logger)
			processed := coord.Activate(payload.BuildSession(p, loader, a.logger))

			if err := window.WriteSnapshotDir(outDir, files); err != nil {
				return err
			}
			a.logger.Info("snapshots patched", "windows", processed, "out", outDir)
			return nil
		},
	}

	cmd.Flags().StringVar(&windowsDir, "windows", "./windows", "Directory of HTML window snapshots")
	cmd.Flags().StringVar(&outDir, "out", "./out", "Directory for patched documents")
	return cmd
}

func newServeCmd(a *app) *cobra.Command {
	var windowsDir string

	cmd := &cobra.Command{
		Use:   "serve",
		Short: "Run the coordinator with the HTTP status API",
		RunE: func(cmd *cobra.Command, _ []string) error {
			src, release, err := a.source()
			if err != nil {
				return err
			}
			defer release()

			reg := window.NewMemoryRegistry()
			if windowsDir != "" {
				if _, err := window.LoadSnapshotDir(reg, windowsDir); err != nil {
					return err
				}
			}
			coord := window.NewCoordinator(reg, a.loader(), a.logger)

			ctx, stop := signal.NotifyContext(cmd.Context(), syscall.SIGINT, syscall.SIGTERM)
			defer stop()

			coordErr := make(chan error, 1)
			go func() {
				coordErr <- coord.Start(ctx, src)
			}()

			r := chi.NewRouter()
			r.Use(chimw.RequestID)
			r.Use(chimw.RealIP)
			r.Use(chimw.Recoverer)
			r.Use(middleware.SecurityHeaders(middleware.DefaultSecurityHeadersConfig()))
			r.Mount("/api", api.NewHandler(coord, reg, a.diag, a.build).Routes())

			srv := &http.Server{
				Addr:              a.cfg.ListenAddr,
				Handler:           r,
				ReadTimeout:       15 * time.Second,
				ReadHeaderTimeout: 5 * time.Second,
				WriteTimeout:      30 * time.Second,
				IdleTimeout:       60 * time.Second,
				MaxHeaderBytes:    1 << 20, // 1MB max header size
			}

			srvErr := make(chan error, 1)
			go func() {
				a.logger.Info("starting server", "addr", a.cfg.ListenAddr, "env", a.cfg.Env)
				if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
					srvErr <- err
				}
			}()

			var runErr error
			select {
			case <-ctx.Done():
			case err := <-srvErr:
				runErr = fmt.Errorf("server error: %w", err)
			case err := <-coordErr:
				if err != nil && !errors.Is(err, context.Canceled) {
					runErr = err
				}
			}
			stop()

			a.logger.Info("shutting down server...")
			shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
			defer cancel()
			if err := srv.Shutdown(shutdownCtx); err != nil {
				return fmt.Errorf("server shutdown: %w", err)
			}
			a.logger.Info("server stopped")
			return runErr
		},
	}

	cmd.Flags().StringVar(&windowsDir, "windows", "", "Optional directory of HTML window snapshots opened at startup")
	return cmd
}

func newListCmd(a *app) *cobra.Command {
	return &cobra.Command{
		Use:   "list",
		Short: "List installed skins",
		RunE: func(cmd *cobra.Command, _ []string) error {
			loader := a.loader()
			ids, err := loader.ListSkins()
			if err != nil {
				return err
			}
			out := cmd.OutOrStdout()
			for _, id := range ids {
				th, err := loader.Load(id)
				if err != nil {
					_, _ = fmt.Fprintf(out, "%s\t(invalid: %v)\n", id, err)
					continue
				}
				_, _ = fmt.Fprintf(out, "%s\t%s\t%s\tschema v%d\n", id, th.Name, th.Version, th.Schema())
			}
			return nil
		},
	}
}
