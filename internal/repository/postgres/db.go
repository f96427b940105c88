// Package postgres implements the repositories on sqlx. Queries are written
// with ? placeholders and rebound per driver, so the same code serves
// PostgreSQL (pgx) in production and SQLite for single-node installs and tests.
package postgres

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"strings"

	"github.com/golang-migrate/migrate/v4"
	migratedb "github.com/golang-migrate/migrate/v4/database"
	migratepg "github.com/golang-migrate/migrate/v4/database/postgres"
	migratesqlite "github.com/golang-migrate/migrate/v4/database/sqlite3"
	"github.com/golang-migrate/migrate/v4/source/iofs"
	_ "github.com/jackc/pgx/v5/stdlib"
	"github.com/jmoiron/sqlx"
	_ "github.com/mattn/go-sqlite3"

	"quotecrm/db"
	"quotecrm/internal/config"
	"quotecrm/internal/port"
)

// NewDB opens the configured database. SQLite is limited to one connection
// so writers serialize instead of failing with SQLITE_BUSY.
func NewDB(cfg *config.DBConfig) (*sqlx.DB, error) {
	conn, err := sqlx.Connect(cfg.Driver, cfg.DSN())
	if err != nil {
		return nil, fmt.Errorf("connecting to %s: %w", cfg.Driver, err)
	}
	if cfg.IsSQLite() {
		conn.SetMaxOpenConns(1)
		return conn, nil
	}
	conn.SetMaxOpenConns(cfg.MaxOpen)
	conn.SetMaxIdleConns(cfg.MaxIdle)
	return conn, nil
}

// NewMigrator returns a golang-migrate instance over the embedded migrations.
// Closing the returned Migrate also closes conn.
func NewMigrator(conn *sqlx.DB) (*migrate.Migrate, error) {
	src, err := iofs.New(db.Migrations, db.MigrationsDir)
	if err != nil {
		return nil, fmt.Errorf("opening embedded migrations: %w", err)
	}

	var driver migratedb.Driver
	switch conn.DriverName() {
	case "sqlite3":
		driver, err = migratesqlite.WithInstance(conn.DB, &migratesqlite.Config{})
	default:
		driver, err = migratepg.WithInstance(conn.DB, &migratepg.Config{})
	}
	if err != nil {
		return nil, fmt.Errorf("creating migrate driver: %w", err)
	}

	m, err := migrate.NewWithInstance("iofs", src, conn.DriverName(), driver)
	if err != nil {
		return nil, fmt.Errorf("creating migrate instance: %w", err)
	}
	return m, nil
}

// MigrateUp applies all pending migrations over a dedicated connection that
// is closed afterwards.
func MigrateUp(cfg *config.DBConfig) error {
	conn, err := NewDB(cfg)
	if err != nil {
		return err
	}
	m, err := NewMigrator(conn)
	if err != nil {
		_ = conn.Close()
		return err
	}
	defer func() { _, _ = m.Close() }()

	if err := m.Up(); err != nil && !errors.Is(err, migrate.ErrNoChange) {
		return fmt.Errorf("applying migrations: %w", err)
	}
	return nil
}

type txKey struct{}

type txManager struct {
	db *sqlx.DB
}

// NewTxManager creates a TxManager over db.
func NewTxManager(db *sqlx.DB) port.TxManager {
	return &txManager{db: db}
}

func (m *txManager) WithTx(ctx context.Context, fn func(ctx context.Context) error) error {
	if _, ok := ctx.Value(txKey{}).(*sqlx.Tx); ok {
		return fn(ctx)
	}

	tx, err := m.db.BeginTxx(ctx, nil)
	if err != nil {
		return fmt.Errorf("txManager.WithTx begin: %w", err)
	}
	defer func() {
		if p := recover(); p != nil {
			_ = tx.Rollback()
			panic(p)
		}
	}()

	if err := fn(context.WithValue(ctx, txKey{}, tx)); err != nil {
		_ = tx.Rollback()
		return err
	}
	if err := tx.Commit(); err != nil {
		return fmt.Errorf("txManager.WithTx commit: %w", err)
	}
	return nil
}

// conn returns the transaction carried by ctx, or db.
func conn(ctx context.Context, db *sqlx.DB) sqlx.ExtContext {
	if tx, ok := ctx.Value(txKey{}).(*sqlx.Tx); ok {
		return tx
	}
	return db
}

func getOne(ctx context.Context, db *sqlx.DB, dest interface{}, query string, args ...interface{}) error {
	q := conn(ctx, db)
	return sqlx.GetContext(ctx, q, dest, q.Rebind(query), args...)
}

func selectAll(ctx context.Context, db *sqlx.DB, dest interface{}, query string, args ...interface{}) error {
	q := conn(ctx, db)
	return sqlx.SelectContext(ctx, q, dest, q.Rebind(query), args...)
}

func execute(ctx context.Context, db *sqlx.DB, query string, args ...interface{}) (sql.Result, error) {
	q := conn(ctx, db)
	return q.ExecContext(ctx, q.Rebind(query), args...)
}

// selectIn expands slice arguments of an IN (?) query before running it.
func selectIn(ctx context.Context, db *sqlx.DB, dest interface{}, query string, args ...interface{}) error {
	expanded, expandedArgs, err := sqlx.In(query, args...)
	if err != nil {
		return err
	}
	return selectAll(ctx, db, dest, expanded, expandedArgs...)
}

// isUniqueViolation recognizes unique index failures from both drivers.
func isUniqueViolation(err error) bool {
	msg := err.Error()
	return strings.Contains(msg, "duplicate key") || strings.Contains(msg, "UNIQUE constraint failed")
}

// violatedIndex reports whether a unique violation names index or column.
func violatedIndex(err error, names ...string) bool {
	msg := err.Error()
	for _, n := range names {
		if strings.Contains(msg, n) {
			return true
		}
	}
	return false
}

// likePattern builds a case-insensitive contains pattern for LOWER(col) LIKE ?.
func likePattern(q string) string {
	return "%" + strings.ToLower(strings.TrimSpace(q)) + "%"
}

// checkAffected maps zero affected rows to err.
func checkAffected(result sql.Result, err error) error {
	rows, rerr := result.RowsAffected()
	if rerr != nil {
		return rerr
	}
	if rows == 0 {
		return err
	}
	return nil
}
