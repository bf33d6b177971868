// Package sqlstore keeps the catalog in a relational database. Statements are
// built with squirrel and rows scanned with sqlx.
package sqlstore

import (
	"context"
	"database/sql"
	"embed"
	"errors"
	"fmt"

	sq "github.com/Masterminds/squirrel"
	"github.com/golang-migrate/migrate/v4"
	"github.com/golang-migrate/migrate/v4/source/iofs"
	"github.com/jmoiron/sqlx"
	"github.com/sirupsen/logrus"
	"github.com/supakorn-kn/book-catalog/logger"
	"github.com/supakorn-kn/book-catalog/models"
)

//go:embed migrations/*.sql
var migrations embed.FS

type Store struct {
	db      *sqlx.DB
	dialect Dialect
}

// Open connects to dsn with the dialect's driver and applies pending migrations.
func Open(ctx context.Context, dialect Dialect, dsn string) (*Store, error) {

	db, err := sql.Open(dialect.DriverName, dsn)
	if err != nil {
		return nil, fmt.Errorf("open %s: %w", dialect.Name, err)
	}

	if dialect.SingleConn {
		db.SetMaxOpenConns(1)
	}

	store := New(db, dialect)

	if err := store.Ping(ctx); err != nil {
		db.Close()
		return nil, fmt.Errorf("ping %s: %w", dialect.Name, err)
	}

	if err := store.Migrate(); err != nil {
		db.Close()
		return nil, err
	}

	return store, nil
}

func New(db *sql.DB, dialect Dialect) *Store {
	return &Store{db: sqlx.NewDb(db, dialect.DriverName), dialect: dialect}
}

type migrationLogger struct{}

func (migrationLogger) Printf(format string, v ...any) {
	logrus.WithField("component", "migrate").Infof(format, v...)
}

func (migrationLogger) Verbose() bool {
	return logrus.IsLevelEnabled(logrus.DebugLevel)
}

// Migrate applies every migration not yet recorded in schema_migrations.
func (s *Store) Migrate() error {

	source, err := iofs.New(migrations, "migrations")
	if err != nil {
		return fmt.Errorf("read migrations: %w", err)
	}
	defer source.Close()

	driver, err := s.dialect.migrationDriver(s.db.DB)
	if err != nil {
		return fmt.Errorf("migrate %s: %w", s.dialect.Name, err)
	}

	m, err := migrate.NewWithInstance("iofs", source, s.dialect.Name, driver)
	if err != nil {
		return fmt.Errorf("migrate %s: %w", s.dialect.Name, err)
	}
	m.Log = migrationLogger{}

	if err := m.Up(); err != nil && !errors.Is(err, migrate.ErrNoChange) {
		return fmt.Errorf("migrate %s: %w", s.dialect.Name, err)
	}

	return nil
}

func (s *Store) Atomic(ctx context.Context, readOnly bool, fn func(tx models.Tx) error) error {

	opts := &sql.TxOptions{ReadOnly: readOnly && s.dialect.ReadOnlyTx}

	sqlTx, err := s.db.BeginTxx(ctx, opts)
	if err != nil {
		return fmt.Errorf("begin transaction: %w", err)
	}

	builder := sq.StatementBuilder.PlaceholderFormat(s.dialect.Placeholder).RunWith(sqlTx.Tx)

	if err := fn(&tx{sb: builder, sqlTx: sqlTx}); err != nil {

		if rollbackErr := sqlTx.Rollback(); rollbackErr != nil {
			logger.For(ctx).WithError(rollbackErr).Warn("rollback failed")
		}

		return err
	}

	if err := sqlTx.Commit(); err != nil {
		return fmt.Errorf("commit transaction: %w", err)
	}

	return nil
}

func (s *Store) Ping(ctx context.Context) error {
	return s.db.PingContext(ctx)
}

func (s *Store) Close(context.Context) error {
	return s.db.Close()
}
