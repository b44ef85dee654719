// Package database provides connection checking for validated parameters.
// It detects the database dialect (PostgreSQL, MySQL, SQLite) from a
// connection URI or DSN, converts URIs to the form the driver expects, and
// verifies reachability with a ping.
package database

import (
	"context"
	"database/sql"
	"fmt"
	"net/url"
	"strings"

	"github.com/go-sql-driver/mysql"
	_ "github.com/lib/pq"
	_ "modernc.org/sqlite"
)

// DialectType represents the type of database dialect
type DialectType string

const (
	DialectPostgres DialectType = "postgres"
	DialectMySQL    DialectType = "mysql"
	DialectSQLite   DialectType = "sqlite"
)

// Resolve detects the dialect from a connection URI or DSN and returns the
// driver name and DSN to open it with.
func Resolve(connectionString string) (DialectType, string, error) {
	if connectionString == "" {
		return "", "", fmt.Errorf("connection string is empty")
	}

	lower := strings.ToLower(connectionString)

	switch {
	case strings.HasPrefix(lower, "postgres://"), strings.HasPrefix(lower, "postgresql://"):
		return DialectPostgres, connectionString, nil

	case strings.HasPrefix(lower, "mysql://"), strings.HasPrefix(lower, "mysql+mysqldb://"):
		dsn, err := mysqlDSN(connectionString)
		if err != nil {
			return "", "", err
		}
		return DialectMySQL, dsn, nil

	case strings.HasPrefix(lower, "sqlite://"):
		dsn := connectionString[len("sqlite://"):]
		// Shared cache so multiple connections see one in-memory database.
		if dsn == ":memory:" {
			dsn = "file::memory:?mode=memory&cache=shared"
		}
		return DialectSQLite, dsn, nil

	// Standard MySQL DSN (user:password@tcp(host:port)/database)
	case strings.Contains(lower, "@tcp("), strings.Contains(lower, "charset="):
		return DialectMySQL, connectionString, nil

	case lower == ":memory:",
		strings.HasSuffix(lower, ".db"),
		strings.HasSuffix(lower, ".sqlite"),
		strings.HasSuffix(lower, ".sqlite3"):
		return DialectSQLite, connectionString, nil

	// Keyword/value form (host=... dbname=...) is PostgreSQL
	case strings.Contains(lower, "host="), strings.Contains(lower, "dbname="):
		return DialectPostgres, connectionString, nil
	}

	return "", "", fmt.Errorf("unable to detect database dialect from connection string")
}

// mysqlDSN converts a mysql:// style URI into the go-sql-driver DSN form.
func mysqlDSN(uri string) (string, error) {
	u, err := url.Parse(uri)
	if err != nil {
		return "", fmt.Errorf("invalid mysql uri: %w", err)
	}

	cfg := mysql.NewConfig()
	if u.User != nil {
		cfg.User = u.User.Username()
		cfg.Passwd, _ = u.User.Password()
	}
	if u.Host != "" {
		cfg.Net = "tcp"
		cfg.Addr = u.Host
	}
	cfg.DBName = strings.TrimPrefix(u.Path, "/")
	return cfg.FormatDSN(), nil
}

// driverName maps a dialect to its registered database/sql driver.
func driverName(dialect DialectType) string {
	if dialect == DialectSQLite {
		return "sqlite"
	}
	return string(dialect)
}

// Open resolves the dialect and opens a connection pool. The caller owns the
// returned DB and closes it.
func Open(connectionString string) (*sql.DB, DialectType, error) {
	dialect, dsn, err := Resolve(connectionString)
	if err != nil {
		return nil, "", err
	}

	db, err := sql.Open(driverName(dialect), dsn)
	if err != nil {
		return nil, "", fmt.Errorf("failed to open database: %w", err)
	}
	return db, dialect, nil
}

// Check verifies that the database behind the connection string is reachable.
func Check(ctx context.Context, connectionString string) error {
	db, _, err := Open(connectionString)
	if err != nil {
		return err
	}
	defer db.Close()

	if err := db.PingContext(ctx); err != nil {
		return fmt.Errorf("failed to ping database: %w", err)
	}
	return nil
}
