package main

import (
	"context"
	"errors"
	"fmt"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/spf13/cobra"
	"go.uber.org/zap"
	"golang.org/x/sync/errgroup"

	"github.com/spec-kit/farmstore-service/internal/auth"
	"github.com/spec-kit/farmstore-service/internal/config"
	"github.com/spec-kit/farmstore-service/internal/observability"
	"github.com/spec-kit/farmstore-service/internal/persistence"
)

const shutdownTimeout = 15 * time.Second

func main() {
	rootCmd := &cobra.Command{
		Use:           "farmstore",
		Short:         "Farm produce store backend",
		SilenceUsage:  true,
		SilenceErrors: true,
		RunE:          runServe,
	}
	rootCmd.AddCommand(serveCmd(), migrateCmd(), bootstrapAdminCmd())

	if err := rootCmd.Execute(); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}

func serveCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "serve",
		Short: "Run the HTTP API (default)",
		RunE:  runServe,
	}
}

func migrateCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "migrate",
		Short: "Apply pending SQL migrations and exit",
		RunE: func(cmd *cobra.Command, _ []string) error {
			return withRuntime(func(ctx context.Context, cfg *config.Config, logger *zap.Logger) error {
				pg, err := openPostgres(ctx, cfg, logger)
				if err != nil {
					return err
				}
				defer pg.Close()
				return persistence.RunMigrations(ctx, pg.PoolHandle(), cfg.Postgres.MigrationsDir, logger)
			})
		},
	}
}

func bootstrapAdminCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "bootstrap-admin",
		Short: "Create or reset the admin account from ADMIN_EMAIL/ADMIN_PASSWORD",
		RunE: func(cmd *cobra.Command, _ []string) error {
			return withRuntime(func(ctx context.Context, cfg *config.Config, logger *zap.Logger) error {
				pg, err := openPostgres(ctx, cfg, logger)
				if err != nil {
					return err
				}
				defer pg.Close()
				tokens := auth.NewTokenManager(cfg.Auth.JWTSecret, cfg.Auth.TokenTTL())
				return newAuthService(cfg, pg, tokens, logger).BootstrapAdmin(ctx)
			})
		},
	}
}

func withRuntime(run func(ctx context.Context, cfg *config.Config, logger *zap.Logger) error) error {
	cfg, err := config.Load()
	if err != nil {
		return fmt.Errorf("load config: %w", err)
	}
	logger, err := observability.NewLogger(cfg.Logger)
	if err != nil {
		return fmt.Errorf("init logger: %w", err)
	}
	defer logger.Sync() //nolint:errcheck

	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()
	return run(ctx, cfg, logger)
}

func runServe(cmd *cobra.Command, _ []string) error {
	return withRuntime(func(ctx context.Context, cfg *config.Config, logger *zap.Logger) error {
		app, err := buildApplication(ctx, cfg, logger)
		if err != nil {
			return err
		}
		defer app.close()

		// The notifier outlives the listener so events from draining requests are delivered.
		notifierCtx, stopNotifier := context.WithCancel(context.Background())
		defer stopNotifier()

		g, gctx := errgroup.WithContext(ctx)
		g.Go(func() error {
			return app.notifier.Run(notifierCtx)
		})
		g.Go(func() error {
			logger.Info("http listening", zap.String("addr", cfg.App.Addr()), zap.String("env", cfg.App.Env))
			return app.http.Listen(cfg.App.Addr())
		})
		g.Go(func() error {
			<-gctx.Done()
			logger.Info("shutting down")
			defer stopNotifier()
			return app.http.ShutdownWithTimeout(shutdownTimeout)
		})

		if err := g.Wait(); err != nil && !errors.Is(err, context.Canceled) {
			return err
		}
		return nil
	})
}
