package database

import (
	"context"
	"fmt"
	"strings"

	"github.com/cybertec-postgresql/sqlrestore/pkg/types"
)

// Driver identifies the database engine a restore runs against
type Driver string

const (
	DriverMySQL    Driver = "mysql"
	DriverPostgres Driver = "postgres"
)

// DefaultPort returns the conventional server port of the driver
func (d Driver) DefaultPort() int {
	if d == DriverPostgres {
		return 5432
	}
	return 3306
}

// ParseDriver validates a driver name (case-insensitive; "postgresql" and
// "pg" are accepted for postgres, "mariadb" for mysql)
func ParseDriver(name string) (Driver, error) {
	switch strings.ToLower(strings.TrimSpace(name)) {
	case "mysql", "mariadb":
		return DriverMySQL, nil
	case "postgres", "postgresql", "pg":
		return DriverPostgres, nil
	default:
		return "", fmt.Errorf("unsupported driver %q (supported: mysql, postgres)", name)
	}
}

// Target is a database that scripts are restored into
type Target interface {
	// Exec runs a single statement
	Exec(ctx context.Context, sql string) error
	// InTransaction runs fn inside a transaction; fn's error rolls it back
	InTransaction(ctx context.Context, fn func(Target) error) error
	// Flush removes all rows from all user tables, ignoring foreign keys
	Flush(ctx context.Context) error
	// Driver returns the database engine
	Driver() Driver
	// Close releases the connection pool
	Close() error
}

// Connect opens a Target for the configured driver
func Connect(ctx context.Context, config *types.Config) (Target, error) {
	driver, err := ParseDriver(config.Driver)
	if err != nil {
		return nil, err
	}

	if driver == DriverPostgres {
		pool, err := NewPool(ctx, config)
		if err != nil {
			return nil, err
		}
		return pool, nil
	}

	db, err := NewMySQL(ctx, config)
	if err != nil {
		return nil, err
	}
	return db, nil
}
