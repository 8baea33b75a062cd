package types

import (
	"fmt"
	"strings"
	"time"
)

// Config holds runtime configuration combining flags, environment variables, and defaults
type Config struct {
	// Database connection
	Driver           string // mysql or postgres
	ConnectionString string // DSN or URI; takes precedence over the fields below
	Host             string
	Port             int
	ExplicitPort     bool // Port came from the environment or a flag
	User             string
	Password         string
	Database         string

	// Execution
	Timeout         time.Duration // Per-statement timeout (0 = none)
	Transaction     bool          // Run each script inside one transaction
	ContinueOnError bool          // Keep going after a failed statement
	DryRun          bool          // Split and report without executing
	Clean           bool          // Empty all tables before restoring
	Scratch         bool          // Restore into a throwaway PostgreSQL database
	Parallelism     int           // Max concurrent file splits

	// Output
	JournalFile string // Restore journal output path
	Verbose     bool   // Enable debug logging
}

// ConfigError describes an invalid configuration value
type ConfigError struct {
	Field      string
	Value      any
	Message    string
	Suggestion string
}

func (e *ConfigError) Error() string {
	if e.Suggestion != "" {
		return fmt.Sprintf("invalid %s: %s\nSuggestion: %s", e.Field, e.Message, e.Suggestion)
	}
	return fmt.Sprintf("invalid %s: %s", e.Field, e.Message)
}

// Validate checks that the configuration can be used for a restore
func (c *Config) Validate() error {
	switch strings.ToLower(c.Driver) {
	case "mysql", "mariadb", "postgres", "postgresql", "pg":
	default:
		return &ConfigError{
			Field:      "driver",
			Value:      c.Driver,
			Message:    fmt.Sprintf("unknown driver %q", c.Driver),
			Suggestion: "Use --driver mysql or --driver postgres",
		}
	}

	// Dry runs never connect
	if c.ConnectionString == "" && !c.DryRun {
		if c.Host == "" {
			return &ConfigError{
				Field:      "host",
				Value:      c.Host,
				Message:    "host is required when no connection string is given",
				Suggestion: "Set --host or SQLRESTORE_HOST, or pass a full --dsn",
			}
		}
		if c.Database == "" {
			return &ConfigError{
				Field:      "database",
				Value:      c.Database,
				Message:    "database is required when no connection string is given",
				Suggestion: "Set --database or SQLRESTORE_DATABASE, or pass a full --dsn",
			}
		}
	}

	if c.Port < 1 || c.Port > 65535 {
		return &ConfigError{
			Field:      "port",
			Value:      c.Port,
			Message:    fmt.Sprintf("port must be between 1 and 65535, got %d", c.Port),
			Suggestion: "Use 3306 for MySQL or 5432 for PostgreSQL",
		}
	}

	if c.Timeout < 0 {
		return &ConfigError{
			Field:      "timeout",
			Value:      c.Timeout,
			Message:    "timeout must not be negative",
			Suggestion: "Use a duration like 30s or 0 to disable the statement timeout",
		}
	}

	if c.Parallelism < 1 || c.Parallelism > 64 {
		return &ConfigError{
			Field:      "parallelism",
			Value:      c.Parallelism,
			Message:    fmt.Sprintf("parallelism must be between 1 and 64, got %d", c.Parallelism),
			Suggestion: "Use --parallel 1 for sequential processing",
		}
	}

	if c.Scratch && !c.DryRun {
		switch strings.ToLower(c.Driver) {
		case "postgres", "postgresql", "pg":
		default:
			return &ConfigError{
				Field:      "scratch",
				Value:      c.Driver,
				Message:    "scratch databases are only supported for postgres",
				Suggestion: "Use --driver postgres or drop --scratch",
			}
		}
	}

	if c.JournalFile == "" {
		return &ConfigError{
			Field:      "journal",
			Value:      c.JournalFile,
			Message:    "journal file path must not be empty",
			Suggestion: "Use the default .sqlrestore/journal.json or pass --journal",
		}
	}

	return nil
}
