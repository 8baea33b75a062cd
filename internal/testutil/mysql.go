package testutil

import (
	"context"
	"testing"
	"time"

	"github.com/cybertec-postgresql/sqlrestore/pkg/types"
	"github.com/testcontainers/testcontainers-go/modules/mysql"
)

// MySQLImage is the Docker image used for MySQL test containers
const MySQLImage = "docker.io/mysql:8.0.36"

// SetupMySQLContainer starts a MySQL container and returns a go-sql-driver
// DSN and cleanup function. The root account is used because creating
// triggers with binary logging enabled needs SUPER.
func SetupMySQLContainer(t *testing.T) (string, func()) {
	t.Helper()
	SkipIfShort(t)

	ctx := context.Background()

	myContainer, err := mysql.Run(ctx,
		MySQLImage,
		mysql.WithDatabase(TestDatabase),
		mysql.WithUsername("root"),
		mysql.WithPassword(TestPassword),
	)
	if err != nil {
		t.Fatalf("Failed to start MySQL container: %v", err)
	}

	dsn, err := myContainer.ConnectionString(ctx)
	if err != nil {
		t.Fatalf("Failed to get MySQL connection string: %v", err)
	}

	cleanup := func() {
		if err := myContainer.Terminate(ctx); err != nil {
			t.Logf("Failed to terminate container: %v", err)
		}
	}

	return dsn, cleanup
}

// MySQLConfig returns a restore configuration for a MySQL DSN
func MySQLConfig(t *testing.T, dsn string) *types.Config {
	t.Helper()
	return &types.Config{
		Driver:           "mysql",
		ConnectionString: dsn,
		Host:             "localhost",
		Port:             3306,
		Timeout:          30 * time.Second,
		Transaction:      true,
		Parallelism:      2,
		JournalFile:      t.TempDir() + "/journal.json",
		Verbose:          testing.Verbose(),
	}
}
