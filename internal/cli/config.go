package cli

import (
	"os"
	"strconv"
	"time"

	"github.com/cybertec-postgresql/sqlrestore/internal/database"
	"github.com/cybertec-postgresql/sqlrestore/pkg/types"
)

// Config is an alias for the shared Config type
type Config = types.Config

// ConfigError is an alias for the shared ConfigError type
type ConfigError = types.ConfigError

// DefaultConfig provides default configuration values
var DefaultConfig = Config{
	Driver:      string(database.DriverMySQL),
	Host:        "localhost",
	Port:        3306,
	Timeout:     30 * time.Second,
	Transaction: true,
	Parallelism: 1,
	JournalFile: ".sqlrestore/journal.json",
	Verbose:     false,
}

// Flags holds command-line values; zero values mean "not set"
type Flags struct {
	Driver          string
	Connection      string
	Host            string
	Port            int
	User            string
	Password        string
	Database        string
	Timeout         time.Duration
	NoTransaction   bool
	ContinueOnError bool
	DryRun          bool
	Clean           bool
	Scratch         bool
	Parallel        int
	Journal         string
	Verbose         bool
}

// LoadConfig returns the defaults overlaid with SQLRESTORE_* environment variables
func LoadConfig() *Config {
	cfg := DefaultConfig

	if v := os.Getenv("SQLRESTORE_DRIVER"); v != "" {
		cfg.Driver = v
	}
	if v := os.Getenv("SQLRESTORE_DSN"); v != "" {
		cfg.ConnectionString = v
	}
	if v := os.Getenv("SQLRESTORE_HOST"); v != "" {
		cfg.Host = v
	}
	if v := os.Getenv("SQLRESTORE_PORT"); v != "" {
		if port, err := strconv.Atoi(v); err == nil {
			cfg.Port = port
			cfg.ExplicitPort = true
		}
	}
	if v := os.Getenv("SQLRESTORE_USER"); v != "" {
		cfg.User = v
	}
	if v := os.Getenv("SQLRESTORE_PASSWORD"); v != "" {
		cfg.Password = v
	}
	if v := os.Getenv("SQLRESTORE_DATABASE"); v != "" {
		cfg.Database = v
	}
	if v := os.Getenv("SQLRESTORE_TIMEOUT"); v != "" {
		if timeout, err := time.ParseDuration(v); err == nil {
			cfg.Timeout = timeout
		}
	}
	if v := os.Getenv("SQLRESTORE_JOURNAL"); v != "" {
		cfg.JournalFile = v
	}

	if !cfg.ExplicitPort {
		applyDriverPort(&cfg)
	}
	return &cfg
}

// ApplyFlagsToConfig applies command-line flag values to configuration
func ApplyFlagsToConfig(c *Config, f Flags) {
	if f.Driver != "" {
		c.Driver = f.Driver
	}
	if f.Connection != "" {
		c.ConnectionString = f.Connection
	}
	if f.Host != "" {
		c.Host = f.Host
	}
	if f.Port != 0 {
		c.Port = f.Port
		c.ExplicitPort = true
	} else if f.Driver != "" && !c.ExplicitPort {
		applyDriverPort(c)
	}
	if f.User != "" {
		c.User = f.User
	}
	if f.Password != "" {
		c.Password = f.Password
	}
	if f.Database != "" {
		c.Database = f.Database
	}
	if f.Timeout != 0 {
		c.Timeout = f.Timeout
	}
	if f.NoTransaction {
		c.Transaction = false
	}
	if f.ContinueOnError {
		c.ContinueOnError = true
	}
	if f.DryRun {
		c.DryRun = true
	}
	if f.Clean {
		c.Clean = true
	}
	if f.Scratch {
		c.Scratch = true
	}
	if f.Parallel != 0 {
		c.Parallelism = f.Parallel
	}
	if f.Journal != "" {
		c.JournalFile = f.Journal
	}
	c.Verbose = f.Verbose
}

// applyDriverPort switches the default port to the driver's own default
func applyDriverPort(c *Config) {
	if driver, err := database.ParseDriver(c.Driver); err == nil {
		c.Port = driver.DefaultPort()
	}
}
