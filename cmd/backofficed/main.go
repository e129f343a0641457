package main

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"os"
	"os/signal"
	"syscall"

	"github.com/joho/godotenv"
	"github.com/spf13/cobra"
	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"

	"property-backoffice/config"
	"property-backoffice/internal/api"
	"property-backoffice/internal/auth"
	"property-backoffice/internal/db"
	"property-backoffice/internal/events"
	"property-backoffice/internal/model"
	"property-backoffice/internal/store"
)

func main() {
	if err := newRootCmd().Execute(); err != nil {
		os.Exit(1)
	}
}

func newRootCmd() *cobra.Command {
	var configPath string
	root := &cobra.Command{
		Use:           "backofficed",
		Short:         "Property back office: rooms, meter readings, invoices and finance",
		SilenceUsage: true,
	}
	root.PersistentFlags().StringVar(&configPath, "config", "", "path to config.yaml (default $CONFIG_PATH or ./config/config.yaml)")

	load := func() (*config.Config, *zap.Logger, error) {
		// A missing .env is normal outside local development.
		_ = godotenv.Load()

		path := configPath
		if path == "" {
			path = os.Getenv("CONFIG_PATH")
		}
		if path == "" {
			path = "./config/config.yaml"
		}
		cfg, err := config.Load(path)
		if err != nil {
			return nil, nil, fmt.Errorf("failed to load configuration from %s: %w", path, err)
		}
		logger, err := newLogger(cfg.Logging)
		if err != nil {
			return nil, nil, err
		}
		logger.Info("Configuration loaded", zap.String("path", path))
		return cfg, logger, nil
	}

	root.AddCommand(
		&cobra.Command{
			Use:   "serve",
			Short: "Run the HTTP API",
			RunE: func(cmd *cobra.Command, _ []string) error {
				cfg, logger, err := load()
				if err != nil {
					return err
				}
				defer logger.Sync()
				return serve(cmd.Context(), cfg, logger)
			},
		},
		&cobra.Command{
			Use:   "migrate",
			Short: "Create or update the database schema and exit",
			RunE: func(_ *cobra.Command, _ []string) error {
				cfg, logger, err := load()
				if err != nil {
					return err
				}
				defer logger.Sync()
				_, err = db.Init(&cfg.Database, logger)
				return err
			},
		},
		newCreateOwnerCmd(load),
	)
	return root
}

func newCreateOwnerCmd(load func() (*config.Config, *zap.Logger, error)) *cobra.Command {
	var email, name, password string
	cmd := &cobra.Command{
		Use:   "create-owner",
		Short: "Create the owner login, or reset its password",
		RunE: func(cmd *cobra.Command, _ []string) error {
			cfg, logger, err := load()
			if err != nil {
				return err
			}
			defer logger.Sync()

			gormDB, err := db.Init(&cfg.Database, logger)
			if err != nil {
				return err
			}
			hash, err := auth.HashPassword(password)
			if err != nil {
				return err
			}
			owner := &model.Owner{Email: email, Name: name, PasswordHash: hash}
			if err := store.NewGormStore(gormDB, logger).UpsertOwner(cmd.Context(), owner); err != nil {
				return err
			}
			logger.Info("Owner saved", zap.String("email", owner.Email))
			return nil
		},
	}
	cmd.Flags().StringVar(&email, "email", "", "owner email")
	cmd.Flags().StringVar(&name, "name", "", "display name")
	cmd.Flags().StringVar(&password, "password", "", "login password")
	_ = cmd.MarkFlagRequired("email")
	_ = cmd.MarkFlagRequired("password")
	return cmd
}

func serve(ctx context.Context, cfg *config.Config, logger *zap.Logger) error {
	gormDB, err := db.Init(&cfg.Database, logger)
	if err != nil {
		return err
	}
	logger.Info("Database initialized successfully")

	publisher, err := events.New(cfg.Events, logger)
	if err != nil {
		return fmt.Errorf("failed to start event publisher: %w", err)
	}
	defer publisher.Close()

	appStore := store.NewGormStore(gormDB, logger)
	router := api.NewRouter(appStore, publisher, cfg, logger)
	server := &http.Server{
		Addr:    fmt.Sprintf(":%d", cfg.Server.Port),
		Handler: router,
	}

	errCh := make(chan error, 1)
	go func() {
		logger.Info("HTTP server starting", zap.Int("port", cfg.Server.Port))
		if err := server.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			errCh <- err
		}
		close(errCh)
	}()

	stopCtx, stop := signal.NotifyContext(ctx, syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	select {
	case err := <-errCh:
		if err != nil {
			return fmt.Errorf("HTTP server ListenAndServe: %w", err)
		}
		return nil
	case <-stopCtx.Done():
	}
	logger.Info("Shutdown signal received, stopping services...")

	shutdownCtx, cancel := context.WithTimeout(context.Background(), cfg.Server.ShutdownDeadline)
	defer cancel()
	if err := server.Shutdown(shutdownCtx); err != nil {
		return fmt.Errorf("HTTP server Shutdown: %w", err)
	}
	logger.Info("Server gracefully stopped")
	return nil
}

func newLogger(cfg config.LoggingConfig) (*zap.Logger, error) {
	level, err := zapcore.ParseLevel(cfg.Level)
	if err != nil {
		return nil, fmt.Errorf("invalid logging.level %q: %w", cfg.Level, err)
	}
	zcfg := zap.NewProductionConfig()
	if cfg.Format == "console" {
		zcfg = zap.NewDevelopmentConfig()
	}
	zcfg.Level = zap.NewAtomicLevelAt(level)
	return zcfg.Build()
}
