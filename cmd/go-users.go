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

	"github.com/adfharrison1/go-users/pkg/api"
	"github.com/adfharrison1/go-users/pkg/config"
	"github.com/adfharrison1/go-users/pkg/domain"
	"github.com/adfharrison1/go-users/pkg/logging"
	"github.com/adfharrison1/go-users/pkg/server"
	"github.com/adfharrison1/go-users/pkg/storage/memory"
	"github.com/adfharrison1/go-users/pkg/storage/mongostore"
	"github.com/adfharrison1/go-users/pkg/users"
)

const shutdownTimeout = 30 * time.Second

func main() {
	if err := newRootCommand().Execute(); err != nil {
		fmt.Fprintln(os.Stderr, "Error:", err)
		os.Exit(1)
	}
}

func newRootCommand() *cobra.Command {
	var configFile string

	cmd := &cobra.Command{
		Use:   "go-users",
		Short: "go-users - query and mutation service for user records",
		Long: `go-users serves search, aggregation and bulk mutation of user records
over HTTP, backed by MongoDB or by an embedded document store.

Examples:
  MONGO_DB_URI=mongodb://localhost:27017 go-users
  go-users --store memory --data-dir /tmp/go-users --seed-file dummy_data/users.json
  go-users --store memory --durability full --checkpoint-interval 1m`,
		Args:          cobra.NoArgs,
		SilenceUsage:  true,
		SilenceErrors: true,
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, err := config.Load(cmd.Flags(), configFile)
			if err != nil {
				return err
			}

			logger, err := logging.New(cfg.LogLevel, cfg.LogFormat)
			if err != nil {
				return err
			}
			defer func() { _ = logger.Sync() }()

			ctx, stop := signal.NotifyContext(cmd.Context(), syscall.SIGINT, syscall.SIGTERM)
			defer stop()

			return run(ctx, cfg, logger)
		},
	}

	cmd.Flags().StringVar(&configFile, "config", "", "optional config file (yaml, json or toml)")
	config.RegisterFlags(cmd.Flags())

	return cmd
}

// storeCloser releases whichever backend openCollection opened
type storeCloser func(ctx context.Context) error

func openCollection(ctx context.Context, cfg *config.Config, logger *zap.Logger) (domain.Collection, storeCloser, error) {
	switch cfg.Store {
	case config.StoreMemory:
		durability, err := cfg.MemoryDurability()
		if err != nil {
			return nil, nil, err
		}
		store, err := memory.Open(
			memory.WithDataDir(cfg.DataDir),
			memory.WithCheckpointInterval(cfg.CheckpointInterval),
			memory.WithDurability(durability),
			memory.WithLogger(logger),
		)
		if err != nil {
			return nil, nil, fmt.Errorf("failed to open memory store: %w", err)
		}
		store.Start()
		closeStore := func(context.Context) error {
			if err := store.Close(); err != nil {
				return err
			}
			stats := store.Stats()
			logger.Sugar().Named("main").Infow("memory store closed",
				"documents", store.DocumentCount(),
				"wal_entries", stats.WALEntriesWritten,
				"checkpoints", stats.CheckpointsPerformed,
			)
			return nil
		}
		return store.Collection(cfg.Collection), closeStore, nil

	case config.StoreMongo:
		store, err := mongostore.Connect(ctx, mongostore.Config{
			URI:            cfg.MongoURI,
			Database:       cfg.Database,
			ConnectTimeout: cfg.ConnectTimeout,
		})
		if err != nil {
			return nil, nil, err
		}
		return store.Collection(cfg.Collection), store.Close, nil

	default:
		return nil, nil, fmt.Errorf("unknown store %q", cfg.Store)
	}
}

func run(ctx context.Context, cfg *config.Config, logger *zap.Logger) error {
	log := logger.Sugar().Named("main")

	coll, closeStore, err := openCollection(ctx, cfg, logger)
	if err != nil {
		return err
	}
	defer func() {
		closeCtx, cancel := context.WithTimeout(context.Background(), shutdownTimeout)
		defer cancel()
		if err := closeStore(closeCtx); err != nil {
			log.Errorw("failed to close store", "error", err)
		}
	}()

	svc := users.NewService(coll, users.WithLogger(logger))
	if err := svc.EnsureTextIndex(ctx); err != nil {
		return err
	}

	if cfg.SeedFile != "" {
		count, err := svc.SeedFromFile(ctx, cfg.SeedFile)
		if err != nil {
			return fmt.Errorf("failed to seed from %s: %w", cfg.SeedFile, err)
		}
		log.Infow("seeded users", "path", cfg.SeedFile, "count", count)
	}

	var handlerOptions []api.HandlerOption
	if cfg.SeedFile != "" {
		handlerOptions = append(handlerOptions, api.WithSeedFile(cfg.SeedFile))
	}
	srv := server.NewServer(api.NewHandler(svc, handlerOptions...))

	errCh := make(chan error, 1)
	go func() {
		log.Infow("starting go-users", "store", cfg.Store, "collection", cfg.Collection, "addr", cfg.Addr())
		errCh <- srv.ListenAndServe(cfg.Addr())
	}()

	select {
	case err := <-errCh:
		return err
	case <-ctx.Done():
	}
	log.Info("shutting down server")

	shutdownCtx, cancel := context.WithTimeout(context.Background(), shutdownTimeout)
	defer cancel()

	if err := srv.Shutdown(shutdownCtx); err != nil {
		return fmt.Errorf("server forced to shutdown: %w", err)
	}
	if err := <-errCh; err != nil && !errors.Is(err, context.Canceled) {
		return err
	}

	log.Info("server exited")
	return nil
}
