package database

import (
	"context"
	"fmt"
	"net"
	"strconv"
	"time"

	"github.com/cybertec-postgresql/sqlrestore/internal/errors"
	"github.com/cybertec-postgresql/sqlrestore/pkg/types"
	"github.com/go-sql-driver/mysql"
	gormmysql "gorm.io/driver/mysql"
	"gorm.io/gorm"
	gormlogger "gorm.io/gorm/logger"
)

// MySQL restores scripts into a MySQL or MariaDB server through gorm
type MySQL struct {
	db   *gorm.DB
	inTx bool
}

// MySQLDSN builds a go-sql-driver DSN from the config. An explicit
// connection string is parsed and re-formatted so that malformed input is
// reported before dialing.
func MySQLDSN(config *types.Config) (string, error) {
	var cfg *mysql.Config
	if config.ConnectionString != "" {
		parsed, err := mysql.ParseDSN(config.ConnectionString)
		if err != nil {
			return "", err
		}
		cfg = parsed
	} else {
		cfg = mysql.NewConfig()
		cfg.Net = "tcp"
		cfg.Addr = net.JoinHostPort(config.Host, strconv.Itoa(config.Port))
		cfg.User = config.User
		cfg.Passwd = config.Password
		cfg.DBName = config.Database
		cfg.Params = map[string]string{"charset": "utf8mb4"}
	}

	// Scripts are split client side, one statement per round trip
	cfg.MultiStatements = false
	cfg.ParseTime = true
	if cfg.Timeout == 0 {
		cfg.Timeout = 10 * time.Second
	}
	return cfg.FormatDSN(), nil
}

// NewMySQL opens and pings a MySQL connection pool
func NewMySQL(ctx context.Context, config *types.Config) (*MySQL, error) {
	dsn, err := MySQLDSN(config)
	if err != nil {
		return nil, errors.NewConnectionError(string(DriverMySQL), config.Host, config.Port,
			fmt.Sprintf("invalid connection configuration: %v", err),
			"Use the go-sql-driver DSN format: user:password@tcp(host:3306)/database")
	}

	db, err := gorm.Open(gormmysql.Open(dsn), &gorm.Config{
		Logger:                 gormlogger.Default.LogMode(gormlogger.Silent),
		SkipDefaultTransaction: true,
	})
	if err != nil {
		return nil, errors.NewConnectionError(string(DriverMySQL), config.Host, config.Port,
			fmt.Sprintf("failed to open connection: %v", err),
			"Verify MySQL is running and accessible with the provided credentials")
	}

	sqlDB, err := db.DB()
	if err != nil {
		return nil, errors.NewConnectionError(string(DriverMySQL), config.Host, config.Port, err.Error(), "")
	}
	sqlDB.SetMaxOpenConns(2)

	if err := sqlDB.PingContext(ctx); err != nil {
		sqlDB.Close()
		return nil, errors.NewConnectionError(string(DriverMySQL), config.Host, config.Port,
			fmt.Sprintf("ping failed: %v", err),
			"Check host, port, user and password, and that the database exists")
	}

	return &MySQL{db: db}, nil
}

// DB exposes the underlying gorm handle
func (m *MySQL) DB() *gorm.DB {
	return m.db
}

// Driver implements Target
func (m *MySQL) Driver() Driver {
	return DriverMySQL
}

// Exec implements Target
func (m *MySQL) Exec(ctx context.Context, sql string) error {
	return m.db.WithContext(ctx).Exec(sql).Error
}

// InTransaction implements Target. MySQL commits implicitly on DDL, so only
// data statements are actually rolled back.
func (m *MySQL) InTransaction(ctx context.Context, fn func(Target) error) error {
	return m.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		return fn(&MySQL{db: tx, inTx: true})
	})
}

// Flush implements Target
func (m *MySQL) Flush(ctx context.Context) error {
	if m.inTx {
		return flushMySQL(m.db.WithContext(ctx))
	}
	return m.db.WithContext(ctx).Connection(flushMySQL)
}

// Close implements Target
func (m *MySQL) Close() error {
	if m.inTx {
		return nil
	}
	sqlDB, err := m.db.DB()
	if err != nil {
		return err
	}
	return sqlDB.Close()
}
