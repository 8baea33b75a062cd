// Package testutil provides shared helpers for integration tests that run
// against real MySQL and PostgreSQL servers in test containers.
package testutil

import (
	"context"
	"fmt"
	"testing"
	"time"

	"github.com/cybertec-postgresql/sqlrestore/pkg/types"
	"github.com/testcontainers/testcontainers-go"
	"github.com/testcontainers/testcontainers-go/modules/postgres"
	"github.com/testcontainers/testcontainers-go/wait"
)

const (
	// PostgresImage is the Docker image used for PostgreSQL test containers
	PostgresImage = "docker.io/postgres:16-alpine"

	// Default test database credentials
	TestDatabase = "testdb"
	TestUsername = "testuser"
	TestPassword = "testpass"
)

// SkipIfShort skips container based tests in -short mode
func SkipIfShort(t *testing.T) {
	t.Helper()
	if testing.Short() {
		t.Skip("skipping container test in short mode")
	}
}

// SetupPostgresContainer starts a PostgreSQL container and returns a connection string and cleanup function
func SetupPostgresContainer(t *testing.T) (string, func()) {
	t.Helper()
	SkipIfShort(t)

	ctx := context.Background()

	pgContainer, err := postgres.Run(ctx,
		PostgresImage,
		postgres.WithDatabase(TestDatabase),
		postgres.WithUsername(TestUsername),
		postgres.WithPassword(TestPassword),
		testcontainers.WithWaitStrategy(
			wait.ForLog("database system is ready to accept connections").
				WithOccurrence(2).
				WithStartupTimeout(60*time.Second)),
	)
	if err != nil {
		t.Fatalf("Failed to start PostgreSQL container: %v", err)
	}

	host, err := pgContainer.Host(ctx)
	if err != nil {
		t.Fatalf("Failed to get container host: %v", err)
	}

	port, err := pgContainer.MappedPort(ctx, "5432")
	if err != nil {
		t.Fatalf("Failed to get container port: %v", err)
	}

	connString := fmt.Sprintf("host=%s port=%s user=%s password=%s dbname=%s sslmode=disable",
		host, port.Port(), TestUsername, TestPassword, TestDatabase)

	cleanup := func() {
		if err := pgContainer.Terminate(ctx); err != nil {
			t.Logf("Failed to terminate container: %v", err)
		}
	}

	return connString, cleanup
}

// PostgresConfig returns a restore configuration for a PostgreSQL connection string
func PostgresConfig(t *testing.T, connString string) *types.Config {
	t.Helper()
	return &types.Config{
		Driver:           "postgres",
		ConnectionString: connString,
		Host:             "localhost",
		Port:             5432,
		Timeout:          30 * time.Second,
		Transaction:      true,
		Parallelism:      2,
		JournalFile:      t.TempDir() + "/journal.json",
		Verbose:          testing.Verbose(),
	}
}
