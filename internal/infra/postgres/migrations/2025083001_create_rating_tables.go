package migrations

import (
	"context"
	_ "embed"

	"github.com/uptrace/bun"
	"github.com/uptrace/bun/migrate"
)

//go:embed 0001_rating_tables.sql
var createRatingTablesSQL string

var Migrations = migrate.NewMigrations()

func init() {
	Migrations.MustRegister(
		func(ctx context.Context, db *bun.DB) error {
			_, err := db.Exec(createRatingTablesSQL)
			return err
		},
		func(ctx context.Context, db *bun.DB) error {
			_, err := db.Exec(`
				DROP TABLE IF EXISTS user_achievement_grants;
				DROP TABLE IF EXISTS achievement_definitions;
				DROP TABLE IF EXISTS group_members;
				DROP TABLE IF EXISTS beef_records;
				DROP TABLE IF EXISTS quiz_records;
				DROP TABLE IF EXISTS qlo_history;
				DROP TABLE IF EXISTS user_rating_states;
			`)
			return err
		},
	)
}
