// Package db opens the application database and applies schema migrations.
package db

import (
	"context"
	"database/sql"

	goerrors "github.com/goliatone/go-errors"
	"github.com/pressly/goose/v3"
	"github.com/uptrace/bun"
	"github.com/uptrace/bun/dialect/pgdialect"
	"github.com/uptrace/bun/driver/pgdriver"

	"github.com/shipnlogic/go-accounts/db/migrations"
)

// Open connects to Postgres using the given DSN and returns a bun handle.
// The connection is verified with a ping before it is handed back.
func Open(ctx context.Context, dsn string) (*bun.DB, error) {
	if dsn == "" {
		return nil, goerrors.New("database dsn is required", goerrors.CategoryBadInput).
			WithTextCode("MISSING_DSN")
	}

	sqldb := sql.OpenDB(pgdriver.NewConnector(pgdriver.WithDSN(dsn)))
	bdb := bun.NewDB(sqldb, pgdialect.New())

	if err := bdb.PingContext(ctx); err != nil {
		return nil, goerrors.Wrap(err, goerrors.CategoryInternal, "could not reach database")
	}

	return bdb, nil
}

// RunMigrations applies the embedded goose migrations against db.
func RunMigrations(ctx context.Context, bdb *bun.DB) error {
	goose.SetBaseFS(migrations.Migrations)

	if err := goose.SetDialect("postgres"); err != nil {
		return goerrors.Wrap(err, goerrors.CategoryInternal, "could not set migration dialect")
	}

	if err := goose.UpContext(ctx, bdb.DB, "."); err != nil {
		return goerrors.Wrap(err, goerrors.CategoryInternal, "migrations failed")
	}

	return nil
}
