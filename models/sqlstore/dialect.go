package sqlstore

import (
	"database/sql"
	"errors"

	sq "github.com/Masterminds/squirrel"
	"github.com/golang-migrate/migrate/v4/database"
	migratepgx "github.com/golang-migrate/migrate/v4/database/pgx/v5"
	migratesqlite "github.com/golang-migrate/migrate/v4/database/sqlite"
	"github.com/jackc/pgx/v5/pgconn"
	_ "github.com/jackc/pgx/v5/stdlib"
	"modernc.org/sqlite"
	sqlite3 "modernc.org/sqlite/lib"
)

// Dialect carries what differs between the supported SQL databases.
type Dialect struct {
	Name        string
	DriverName  string
	Placeholder sq.PlaceholderFormat
	// ReadOnlyTx is set when the driver accepts sql.TxOptions.ReadOnly.
	ReadOnlyTx bool
	// SingleConn keeps one connection open, required for in-memory sqlite.
	SingleConn bool

	migrationDriver func(db *sql.DB) (database.Driver, error)
}

var (
	SQLite = Dialect{
		Name:        "sqlite",
		DriverName:  "sqlite",
		Placeholder: sq.Question,
		SingleConn:  true,
		migrationDriver: func(db *sql.DB) (database.Driver, error) {
			return migratesqlite.WithInstance(db, &migratesqlite.Config{})
		},
	}

	Postgres = Dialect{
		Name:        "postgres",
		DriverName:  "pgx",
		Placeholder: sq.Dollar,
		ReadOnlyTx:  true,
		migrationDriver: func(db *sql.DB) (database.Driver, error) {
			return migratepgx.WithInstance(db, &migratepgx.Config{})
		},
	}
)

func DialectByName(name string) (Dialect, bool) {

	switch name {
	case SQLite.Name:
		return SQLite, true
	case Postgres.Name:
		return Postgres, true
	default:
		return Dialect{}, false
	}
}

func isUniqueViolation(err error) bool {

	var pgErr *pgconn.PgError
	if errors.As(err, &pgErr) {
		return pgErr.Code == "23505"
	}

	var liteErr *sqlite.Error
	if errors.As(err, &liteErr) {
		code := liteErr.Code()
		return code == sqlite3.SQLITE_CONSTRAINT_PRIMARYKEY || code == sqlite3.SQLITE_CONSTRAINT_UNIQUE
	}

	return false
}
