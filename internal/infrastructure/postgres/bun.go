package postgres

import (
	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/jackc/pgx/v5/stdlib"
	"github.com/uptrace/bun"
	"github.com/uptrace/bun/dialect/pgdialect"
	"github.com/uptrace/bun/extra/bundebug"
)

// NewBunDB wraps the pgx pool in a Bun DB for the generic repository. The
// bundebug hook logs queries in development and can be forced on anywhere
// via the BUNDEBUG env var.
func NewBunDB(pool *pgxpool.Pool, env string) *bun.DB {
	sqldb := stdlib.OpenDBFromPool(pool)
	db := bun.NewDB(sqldb, pgdialect.New())
	db.AddQueryHook(bundebug.NewQueryHook(
		bundebug.WithEnabled(env == "development"),
		bundebug.FromEnv("BUNDEBUG"),
	))
	return db
}
