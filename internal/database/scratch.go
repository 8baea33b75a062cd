package database

import (
	"context"
	"crypto/rand"
	"encoding/hex"
	"fmt"
	"time"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"
)

// ScratchPrefix starts the name of every scratch database
const ScratchPrefix = "sqlrestore_scratch_"

// ScratchDatabaseName returns a fresh, unique scratch database name
func ScratchDatabaseName() (string, error) {
	randomBytes := make([]byte, 4)
	if _, err := rand.Read(randomBytes); err != nil {
		return "", fmt.Errorf("failed to generate random suffix: %w", err)
	}
	timestamp := time.Now().Format("20060102_150405")
	return ScratchPrefix + timestamp + "_" + hex.EncodeToString(randomBytes), nil
}

// CreateScratchDatabase creates an empty PostgreSQL database and returns a
// Pool connected to it. Scripts can be trial-restored there without touching
// the admin pool's database.
func CreateScratchDatabase(ctx context.Context, admin *Pool) (*Pool, error) {
	dbName, err := ScratchDatabaseName()
	if err != nil {
		return nil, err
	}

	ident := pgx.Identifier{dbName}.Sanitize()
	if _, err := admin.Pool.Exec(ctx, "CREATE DATABASE "+ident); err != nil {
		return nil, fmt.Errorf("failed to create scratch database: %w", err)
	}

	// Keep all original options (sslmode, etc.)
	config := admin.Pool.Config()
	config.ConnConfig.Database = dbName

	pool, err := pgxpool.NewWithConfig(ctx, config)
	if err != nil {
		_, _ = admin.Pool.Exec(ctx, "DROP DATABASE IF EXISTS "+ident)
		return nil, fmt.Errorf("failed to connect to scratch database: %w", err)
	}

	scratchConfig := *admin.config
	scratchConfig.ConnectionString = ""
	scratchConfig.Database = dbName
	return &Pool{Pool: pool, config: &scratchConfig}, nil
}

// DropScratchDatabase closes the scratch pool and drops its database
func DropScratchDatabase(ctx context.Context, admin *Pool, scratch *Pool) error {
	if scratch == nil || scratch.Pool == nil {
		return nil
	}
	dbName := scratch.Pool.Config().ConnConfig.Database
	scratch.Close()
	_, err := admin.Pool.Exec(ctx, "DROP DATABASE IF EXISTS "+pgx.Identifier{dbName}.Sanitize()+" WITH (FORCE)")
	return err
}
