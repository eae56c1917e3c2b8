package sqlstore

import (
	"context"
	"database/sql"
	"fmt"
	"log"

	"quiz-service/internal/app"

	"github.com/uptrace/bun"
	"github.com/uptrace/bun/dialect/pgdialect"
	"github.com/uptrace/bun/dialect/sqlitedialect"
	"github.com/uptrace/bun/driver/pgdriver"
	"github.com/uptrace/bun/driver/sqliteshim"
	"github.com/uptrace/bun/migrate"
)

const (
	DriverSQLite   = "sqlite"
	DriverPostgres = "postgres"
)

// Store is the bun-backed quiz repository. A Store returned by Open runs each call
// in its own implicit transaction; the Store handed to a RunInTx callback is bound
// to that transaction.
type Store struct {
	db   *bun.DB
	idb  bun.IDB
	inTx bool
}

var _ app.Repository = (*Store)(nil)

// Open connects to the database. SQLite is limited to one connection so every
// write goes through a single serialized queue.
func Open(ctx context.Context, driver, dsn string) (*Store, error) {
	var db *bun.DB
	switch driver {
	case "", DriverSQLite:
		if dsn == "" {
			dsn = "quiz.db"
		}
		sqldb, err := sql.Open(sqliteshim.ShimName, dsn)
		if err != nil {
			return nil, fmt.Errorf("open sqlite: %w", err)
		}
		sqldb.SetMaxOpenConns(1)
		db = bun.NewDB(sqldb, sqlitedialect.New())
	case DriverPostgres:
		if dsn == "" {
			return nil, fmt.Errorf("postgres dsn not configured")
		}
		sqldb := sql.OpenDB(pgdriver.NewConnector(pgdriver.WithDSN(dsn)))
		db = bun.NewDB(sqldb, pgdialect.New())
	default:
		return nil, fmt.Errorf("unsupported database driver %q", driver)
	}

	if err := db.PingContext(ctx); err != nil {
		db.Close()
		return nil, fmt.Errorf("ping %s: %w", driver, err)
	}
	return &Store{db: db, idb: db}, nil
}

// Close releases the underlying connection pool.
func (s *Store) Close() error {
	return s.db.Close()
}

// Migrate applies all pending schema migrations.
func (s *Store) Migrate(ctx context.Context) error {
	migrator := migrate.NewMigrator(s.db, Migrations)
	if err := migrator.Init(ctx); err != nil {
		return fmt.Errorf("init migrations: %w", err)
	}
	group, err := migrator.Migrate(ctx)
	if err != nil {
		return fmt.Errorf("apply migrations: %w", err)
	}
	if group.IsZero() {
		log.Printf("migrations: schema up to date")
		return nil
	}
	log.Printf("migrations: applied %s", group)
	return nil
}

// RunInTx commits when fn returns nil and rolls back otherwise. Nested calls
// reuse the outer transaction.
func (s *Store) RunInTx(ctx context.Context, fn func(ctx context.Context, repo app.Repository) error) error {
	if s.inTx {
		return fn(ctx, s)
	}
	return s.db.RunInTx(ctx, nil, func(ctx context.Context, tx bun.Tx) error {
		return fn(ctx, &Store{db: s.db, idb: tx, inTx: true})
	})
}

// withTx runs fn on the current transaction, or on a new one when the Store is not bound to any.
func (s *Store) withTx(ctx context.Context, fn func(ctx context.Context, tx bun.IDB) error) error {
	if s.inTx {
		return fn(ctx, s.idb)
	}
	return s.db.RunInTx(ctx, nil, func(ctx context.Context, tx bun.Tx) error {
		return fn(ctx, tx)
	})
}
