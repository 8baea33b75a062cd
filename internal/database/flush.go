package database

import (
	"context"
	"fmt"
	"strings"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgconn"
	"gorm.io/gorm"
)

// pgQuerier is the subset of pgx shared by pools and transactions
type pgQuerier interface {
	Query(ctx context.Context, sql string, args ...any) (pgx.Rows, error)
	Exec(ctx context.Context, sql string, args ...any) (pgconn.CommandTag, error)
}

const pgUserTablesQuery = `SELECT quote_ident(schemaname) || '.' || quote_ident(tablename)
FROM pg_tables
WHERE schemaname NOT IN ('pg_catalog', 'information_schema')
ORDER BY 1`

// flushPostgres truncates every user table in one statement so that
// foreign keys between them do not get in the way
func flushPostgres(ctx context.Context, q pgQuerier) error {
	rows, err := q.Query(ctx, pgUserTablesQuery)
	if err != nil {
		return fmt.Errorf("failed to list tables: %w", err)
	}
	tables, err := pgx.CollectRows(rows, pgx.RowTo[string])
	if err != nil {
		return fmt.Errorf("failed to list tables: %w", err)
	}
	if len(tables) == 0 {
		return nil
	}

	if _, err := q.Exec(ctx, "TRUNCATE TABLE "+strings.Join(tables, ", ")+" RESTART IDENTITY CASCADE"); err != nil {
		return fmt.Errorf("failed to truncate tables: %w", err)
	}
	return nil
}

const mysqlUserTablesQuery = `SELECT table_name
FROM information_schema.tables
WHERE table_schema = DATABASE() AND table_type = 'BASE TABLE'
ORDER BY table_name`

// flushMySQL truncates every base table of the current schema with foreign
// key checks disabled. db must be pinned to a single connection because
// FOREIGN_KEY_CHECKS is a session variable.
func flushMySQL(db *gorm.DB) (err error) {
	var tables []string
	if err := db.Raw(mysqlUserTablesQuery).Scan(&tables).Error; err != nil {
		return fmt.Errorf("failed to list tables: %w", err)
	}
	if len(tables) == 0 {
		return nil
	}

	if err := db.Exec("SET FOREIGN_KEY_CHECKS = 0").Error; err != nil {
		return fmt.Errorf("failed to disable foreign key checks: %w", err)
	}
	defer func() {
		if resetErr := db.Exec("SET FOREIGN_KEY_CHECKS = 1").Error; resetErr != nil && err == nil {
			err = fmt.Errorf("failed to re-enable foreign key checks: %w", resetErr)
		}
	}()

	for _, table := range tables {
		if err := db.Exec("TRUNCATE TABLE " + quoteMySQLIdent(table)).Error; err != nil {
			return fmt.Errorf("failed to truncate table %s: %w", table, err)
		}
	}
	return nil
}

func quoteMySQLIdent(name string) string {
	return "`" + strings.ReplaceAll(name, "`", "``") + "`"
}
