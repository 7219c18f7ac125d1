package cli

import (
	"context"
	"database/sql"
	"fmt"
	"log"

	"github.com/spf13/cobra"
	"github.com/uptrace/bun"
	"github.com/uptrace/bun/dialect/pgdialect"
	"github.com/uptrace/bun/driver/pgdriver"

	"qlo-rating-service/internal/achievement"
	"qlo-rating-service/internal/config"
	"qlo-rating-service/internal/infra/postgres"
)

// NewSeedCmd loads the built-in achievement catalog into Postgres. Existing
// definitions are left untouched.
func NewSeedCmd(configPath *string) *cobra.Command {
	return &cobra.Command{
		Use:   "seed",
		Short: "Seed the achievement catalog",
		RunE: func(cmd *cobra.Command, args []string) error {
			return runSeed(cmd.Context(), *configPath)
		},
	}
}

func runSeed(ctx context.Context, configPath string) error {
	cfg, err := config.Load(configPath)
	if err != nil {
		return err
	}
	if cfg.Postgres.URL == "" {
		return fmt.Errorf("postgres url not configured")
	}

	sqldb := sql.OpenDB(pgdriver.NewConnector(pgdriver.WithDSN(cfg.Postgres.URL)))
	db := bun.NewDB(sqldb, pgdialect.New())
	defer db.Close()

	catalog := achievement.DefaultCatalog()
	if err := postgres.NewAchievementRepository(db).SeedDefinitions(ctx, catalog); err != nil {
		return err
	}
	log.Printf("seeded %d achievement definitions", len(catalog))
	return nil
}
