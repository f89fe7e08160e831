package main

import (
	"context"
	"fmt"
	"os"
	"time"

	"github.com/spf13/cobra"

	"github.com/riskibarqy/sportstream/internal/app"
	"github.com/riskibarqy/sportstream/internal/config"
	"github.com/riskibarqy/sportstream/internal/observability"
	"github.com/riskibarqy/sportstream/internal/platform/logging"
)

// Version is set with -ldflags at build time.
var Version = "dev"

type runtime struct {
	app      *app.App
	logger   *logging.Logger
	shutdown func(context.Context) error
}

func newRootCommand() (*cobra.Command, *runtime) {
	var envFile string
	rt := &runtime{}

	root := &cobra.Command{
		Use:           "sitegen",
		Short:         "Aggregate live sports listings and render the static site",
		SilenceUsage:  true,
		SilenceErrors: true,
		Version:       Version,
		PersistentPreRunE: func(cmd *cobra.Command, _ []string) error {
			if envFile != "" {
				if err := os.Setenv("ENV_FILE", envFile); err != nil {
					return err
				}
			}
			built, err := bootstrap(cmd.Context())
			if err != nil {
				return err
			}
			*rt = built
			return nil
		},
	}
	root.PersistentFlags().StringVar(&envFile, "env-file", "", "dotenv file to load before reading the environment (default .env)")

	fetch := &cobra.Command{
		Use:   "fetch",
		Short: "Fetch both feeds, merge, rank and write the payload",
		RunE: func(cmd *cobra.Command, _ []string) error {
			defer rt.app.PushMetrics(cmd.Context())
			return rt.fetch(cmd.Context())
		},
	}

	render := &cobra.Command{
		Use:   "render",
		Short: "Render the static pages from the site config and master template",
		RunE: func(cmd *cobra.Command, _ []string) error {
			return rt.render(cmd.Context())
		},
	}

	build := &cobra.Command{
		Use:   "build",
		Short: "Run fetch, then render",
		RunE: func(cmd *cobra.Command, _ []string) error {
			defer rt.app.PushMetrics(cmd.Context())
			if err := rt.fetch(cmd.Context()); err != nil {
				return err
			}
			return rt.render(cmd.Context())
		},
	}

	root.AddCommand(fetch, render, build, newLogosCommand(rt))
	return root, rt
}

func newLogosCommand(rt *runtime) *cobra.Command {
	logos := &cobra.Command{
		Use:   "logos",
		Short: "Manage team badge images",
	}

	mapCmd := &cobra.Command{
		Use:   "map",
		Short: "Index LOGO_DIR and write the logo map",
		RunE: func(cmd *cobra.Command, _ []string) error {
			lookup, err := rt.app.BuildLogoMap(cmd.Context())
			if err != nil {
				rt.logger.ErrorContext(cmd.Context(), "logo map failed", "error", err)
				return err
			}
			fmt.Fprintf(cmd.OutOrStdout(), "logo map written with %d keys\n", len(lookup))
			return nil
		},
	}

	var leagues []string
	harvest := &cobra.Command{
		Use:   "harvest",
		Short: "Download missing team badges from TheSportsDB, then rebuild the map",
		RunE: func(cmd *cobra.Command, _ []string) error {
			result, err := rt.app.HarvestLogos(cmd.Context(), leagues)
			if err != nil {
				rt.logger.ErrorContext(cmd.Context(), "logo harvest failed", "error", err)
				return err
			}
			fmt.Fprintf(cmd.OutOrStdout(), "downloaded=%d skipped=%d failed=%d failed_leagues=%d\n",
				result.DownloadedCount, result.SkippedCount, result.FailedCount, len(result.FailedLeagues))
			if _, err := rt.app.BuildLogoMap(cmd.Context()); err != nil {
				rt.logger.ErrorContext(cmd.Context(), "logo map failed", "error", err)
				return err
			}
			return nil
		},
	}
	harvest.Flags().StringSliceVar(&leagues, "league", nil, "TheSportsDB league name, repeatable (default: built-in list)")

	logos.AddCommand(mapCmd, harvest)
	return logos
}

func bootstrap(ctx context.Context) (runtime, error) {
	cfg, err := config.Load()
	if err != nil {
		return runtime{}, err
	}

	logger := logging.New(logging.Options{Level: cfg.LogLevel, File: cfg.LogFile}).With(
		"service", cfg.ServiceName,
		"version", cfg.ServiceVersion,
		"env", cfg.AppEnv,
	)
	logging.SetDefault(logger)

	shutdown, err := observability.InitTracing(cfg, logger)
	if err != nil {
		logger.ErrorContext(ctx, "init tracing failed", "error", err)
		return runtime{}, err
	}

	application, err := app.New(cfg, logger)
	if err != nil {
		logger.ErrorContext(ctx, "build app failed", "error", err)
		_ = shutdown(ctx)
		_ = logger.Sync()
		return runtime{}, err
	}

	return runtime{app: application, logger: logger, shutdown: shutdown}, nil
}

func (rt *runtime) fetch(ctx context.Context) error {
	if _, err := rt.app.Fetch(ctx); err != nil {
		rt.logger.ErrorContext(ctx, "fetch failed", "error", err)
		return err
	}
	return nil
}

func (rt *runtime) render(ctx context.Context) error {
	result, err := rt.app.Render(ctx)
	if err != nil {
		rt.logger.ErrorContext(ctx, "render failed", "error", err)
		return err
	}
	rt.logger.InfoContext(ctx, "render completed", "pages", len(result.Pages))
	return nil
}

// close flushes traces and logs on a fresh context, so an interrupt does not
// drop buffered spans. Safe to call when bootstrap never ran.
func (rt *runtime) close() {
	if rt.shutdown == nil {
		return
	}
	flushCtx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()
	if err := rt.shutdown(flushCtx); err != nil {
		rt.logger.Warn("flush traces failed", "error", err)
	}
	_ = rt.logger.Sync()
}
