package main

import (
	"context"
	"fmt"

	"storefront/internal/config"
	"storefront/internal/infra/db"
	infraRepo "storefront/internal/infra/repository"
	"storefront/internal/logger"
	"storefront/internal/seed"
	"storefront/internal/server"
	"storefront/internal/usecase/auth"

	"github.com/rs/zerolog"
	"github.com/spf13/cobra"
	"gorm.io/gorm"
)

func serveCmd(envFile *string) *cobra.Command {
	return &cobra.Command{
		Use:   "serve",
		Short: "Run the HTTP API (migrates and, when SEED_ENABLED, seeds first)",
		RunE: func(cmd *cobra.Command, args []string) error {
			return runServe(cmd.Context(), *envFile)
		},
	}
}

func migrateCmd(envFile *string) *cobra.Command {
	return &cobra.Command{
		Use:   "migrate",
		Short: "Create or update database tables",
		RunE: func(cmd *cobra.Command, args []string) error {
			_, log, gormDB, err := bootstrap(*envFile)
			if err != nil {
				return err
			}
			defer db.Close(gormDB)

			log.Info().Msg("migration completed")
			return nil
		},
	}
}

func seedCmd(envFile *string) *cobra.Command {
	return &cobra.Command{
		Use:   "seed",
		Short: "Insert roles, the admin user, categories and sample products if missing",
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, log, gormDB, err := bootstrap(*envFile)
			if err != nil {
				return err
			}
			defer db.Close(gormDB)

			return runSeed(cmd.Context(), cfg, gormDB, log)
		},
	}
}

func runServe(ctx context.Context, envFile string) error {
	cfg, log, gormDB, err := bootstrap(envFile)
	if err != nil {
		return err
	}
	defer db.Close(gormDB)

	if cfg.SeedEnabled {
		if err := runSeed(ctx, cfg, gormDB, log); err != nil {
			return err
		}
	}

	e := server.New(cfg, gormDB, log)
	return server.Start(ctx, cfg, e, log)
}

// 設定→logger→DB接続→AutoMigrate
func bootstrap(envFile string) (config.Config, zerolog.Logger, *gorm.DB, error) {
	cfg, err := config.Load(envFile)
	if err != nil {
		return config.Config{}, zerolog.Nop(), nil, err
	}
	log := logger.New(cfg.LogLevel, cfg.GoEnv)

	//DB接続
	gormDB, err := db.Connect(cfg)
	if err != nil {
		return cfg, log, nil, fmt.Errorf("db connect: %w", err)
	}
	if err := db.Migrate(gormDB); err != nil {
		_ = db.Close(gormDB)
		return cfg, log, nil, fmt.Errorf("db migrate: %w", err)
	}
	return cfg, log, gormDB, nil
}

func runSeed(ctx context.Context, cfg config.Config, gormDB *gorm.DB, log zerolog.Logger) error {
	fixtures, err := seed.LoadFixtures(cfg.SeedFile)
	if err != nil {
		return err
	}
	s := seed.NewSeeder(
		infraRepo.NewTxManagerGorm(gormDB),
		auth.NewBcryptPasswordHasher(cfg.BcryptCost),
		fixtures,
		log,
	)
	_, err = s.Run(ctx)
	return err
}
