package database

import (
	"database/sql"
	"errors"
	"fmt"
	"log"

	sq "github.com/Masterminds/squirrel"
	_ "github.com/lib/pq"
	_ "github.com/mattn/go-sqlite3"

	"github.com/ebridges/metaproc/config"
)

// ErrUnsupportedDialect is returned when a database URL names a dialect the
// statement builders do not support.
var ErrUnsupportedDialect = errors.New("unrecognized database type")

// Dialect selects a placeholder syntax and column-type vocabulary. The set
// is closed: adding a dialect means adding a variant here plus its entries
// in the builders' type maps.
type Dialect string

const (
	DialectSqlite   Dialect = "sqlite"
	DialectPostgres Dialect = "postgres"
)

// ParseDialect maps a database-URL scheme to a supported dialect.
func ParseDialect(scheme string) (Dialect, error) {
	switch scheme {
	case "sqlite", "sqlite3":
		return DialectSqlite, nil
	case "postgres", "postgresql":
		return DialectPostgres, nil
	default:
		return "", fmt.Errorf("%w: [%s]", ErrUnsupportedDialect, scheme)
	}
}

// builderFor returns a squirrel statement builder using the dialect's
// placeholder format: ? for sqlite, $N for postgres.
func builderFor(d Dialect) sq.StatementBuilderType {
	if d == DialectPostgres {
		return sq.StatementBuilder.PlaceholderFormat(sq.Dollar)
	}
	return sq.StatementBuilder.PlaceholderFormat(sq.Question)
}

// returning reports whether the dialect supports RETURNING clauses.
func (d Dialect) returning() bool {
	return d == DialectPostgres
}

// Querier is the minimal statement-execution surface the writers need.
// Both *sql.DB and *sql.Tx satisfy it.
type Querier interface {
	Exec(query string, args ...any) (sql.Result, error)
	QueryRow(query string, args ...any) *sql.Row
}

// Connect opens a database handle for the given URL and verifies it is
// reachable. The sqlite dialect treats the URL's database name as a file
// path; postgres passes the full URL to the driver.
func Connect(u config.DatabaseURL) (*sql.DB, Dialect, error) {
	dialect, err := ParseDialect(u.Type)
	if err != nil {
		return nil, "", err
	}

	var db *sql.DB
	switch dialect {
	case DialectSqlite:
		db, err = sql.Open("sqlite3", u.Name)
	case DialectPostgres:
		db, err = sql.Open("postgres", u.URL)
	}
	if err != nil {
		return nil, "", fmt.Errorf("failed to open database: %w", err)
	}

	if err := db.Ping(); err != nil {
		db.Close()
		return nil, "", fmt.Errorf("failed to ping database: %w", err)
	}

	log.Printf("connected to %s database: %s", dialect, u.Name)
	return db, dialect, nil
}
