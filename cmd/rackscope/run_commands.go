package main

import (
	"fmt"
	"os/signal"
	"strings"
	"syscall"

	"github.com/spf13/cobra"
	"golang.org/x/sync/errgroup"

	"rackscope/internal/logging"
	"rackscope/internal/server"
	"rackscope/internal/watcher"
)

func newWatchCommand(ctx *commandContext) *cobra.Command {
	var scan bool

	cmd := &cobra.Command{
		Use:   "watch",
		Short: "Analyse presets dropped into the inbox directory",
		RunE: func(cmd *cobra.Command, args []string) error {
			signalCtx, cancel := signal.NotifyContext(cmd.Context(), syscall.SIGINT, syscall.SIGTERM)
			defer cancel()

			w, err := buildWatcher(ctx, scan)
			if err != nil {
				return err
			}
			fmt.Fprintf(cmd.OutOrStdout(), "Watching %s (Ctrl+C to stop)\n", w.Status().InboxDir)
			return w.Run(signalCtx)
		},
	}

	cmd.Flags().BoolVar(&scan, "scan", true, "Analyse files already in the inbox at startup")
	return cmd
}

func newServeCommand(ctx *commandContext) *cobra.Command {
	var (
		bind      string
		withWatch bool
	)

	cmd := &cobra.Command{
		Use:   "serve",
		Short: "Run the HTTP API",
		RunE: func(cmd *cobra.Command, args []string) error {
			signalCtx, cancel := signal.NotifyContext(cmd.Context(), syscall.SIGINT, syscall.SIGTERM)
			defer cancel()

			cfg, err := ctx.ensureConfig()
			if err != nil {
				return err
			}
			if value := strings.TrimSpace(bind); value != "" {
				cfg.Paths.APIBind = value
				if err := cfg.Validate(); err != nil {
					return err
				}
			}
			logger, err := ctx.ensureLogger()
			if err != nil {
				return err
			}
			svc, store, err := ctx.analyzerService(true)
			if err != nil {
				return err
			}
			srv, err := server.New(cfg, svc, store, logger)
			if err != nil {
				return err
			}

			var w *watcher.Watcher
			if withWatch {
				if w, err = buildWatcher(ctx, true); err != nil {
					return err
				}
			}

			g, gctx := errgroup.WithContext(signalCtx)
			g.Go(func() error {
				return srv.Run(gctx)
			})
			if w != nil {
				g.Go(func() error {
					return w.Run(gctx)
				})
			}
			if err := g.Wait(); err != nil {
				logger.Error("serve stopped", logging.Error(err))
				return err
			}
			return nil
		},
	}

	cmd.Flags().StringVar(&bind, "bind", "", "Override paths.api_bind")
	cmd.Flags().BoolVar(&withWatch, "watch", false, "Also run the inbox watcher")
	return cmd
}

func buildWatcher(ctx *commandContext, scan bool) (*watcher.Watcher, error) {
	cfg, err := ctx.ensureConfig()
	if err != nil {
		return nil, err
	}
	logger, err := ctx.ensureLogger()
	if err != nil {
		return nil, err
	}
	svc, _, err := ctx.analyzerService(true)
	if err != nil {
		return nil, err
	}
	return watcher.New(cfg, svc, logger, watcher.WithScanExisting(scan))
}
