package cli

import (
	"errors"
	"strings"
	"testing"
	"time"
)

var envVars = []string{
	"SQLRESTORE_DRIVER", "SQLRESTORE_DSN", "SQLRESTORE_HOST", "SQLRESTORE_PORT", "SQLRESTORE_USER",
	"SQLRESTORE_PASSWORD", "SQLRESTORE_DATABASE", "SQLRESTORE_TIMEOUT", "SQLRESTORE_JOURNAL",
}

func clearEnvVars(t *testing.T) {
	t.Helper()
	for _, name := range envVars {
		t.Setenv(name, "")
	}
}

func TestLoadConfig_Defaults(t *testing.T) {
	clearEnvVars(t)

	cfg := LoadConfig()

	if cfg.Driver != "mysql" {
		t.Errorf("expected default driver 'mysql', got '%s'", cfg.Driver)
	}
	if cfg.Host != "localhost" {
		t.Errorf("expected default host 'localhost', got '%s'", cfg.Host)
	}
	if cfg.Port != 3306 {
		t.Errorf("expected default port 3306, got %d", cfg.Port)
	}
	if cfg.Timeout != 30*time.Second {
		t.Errorf("expected default timeout 30s, got %v", cfg.Timeout)
	}
	if !cfg.Transaction {
		t.Error("expected transactions enabled by default")
	}
	if cfg.Parallelism != 1 {
		t.Errorf("expected default parallelism 1, got %d", cfg.Parallelism)
	}
	if cfg.JournalFile != ".sqlrestore/journal.json" {
		t.Errorf("expected default journal '.sqlrestore/journal.json', got '%s'", cfg.JournalFile)
	}
}

func TestLoadConfig_DoesNotMutateDefaults(t *testing.T) {
	clearEnvVars(t)
	t.Setenv("SQLRESTORE_HOST", "elsewhere")

	cfg := LoadConfig()
	cfg.Database = "changed"

	if DefaultConfig.Host != "localhost" || DefaultConfig.Database != "" {
		t.Errorf("DefaultConfig was modified: %+v", DefaultConfig)
	}
}

func TestLoadConfig_EnvironmentVariables(t *testing.T) {
	clearEnvVars(t)
	t.Setenv("SQLRESTORE_DRIVER", "postgres")
	t.Setenv("SQLRESTORE_HOST", "testhost")
	t.Setenv("SQLRESTORE_PORT", "5433")
	t.Setenv("SQLRESTORE_USER", "testuser")
	t.Setenv("SQLRESTORE_PASSWORD", "testpass")
	t.Setenv("SQLRESTORE_DATABASE", "testdb")
	t.Setenv("SQLRESTORE_TIMEOUT", "1m")
	t.Setenv("SQLRESTORE_JOURNAL", "/tmp/j.json")

	cfg := LoadConfig()

	tests := []struct {
		name string
		got  any
		want any
	}{
		{"driver", cfg.Driver, "postgres"},
		{"host", cfg.Host, "testhost"},
		{"port", cfg.Port, 5433},
		{"user", cfg.User, "testuser"},
		{"password", cfg.Password, "testpass"},
		{"database", cfg.Database, "testdb"},
		{"timeout", cfg.Timeout, time.Minute},
		{"journal", cfg.JournalFile, "/tmp/j.json"},
	}
	for _, tt := range tests {
		if tt.got != tt.want {
			t.Errorf("%s = %v, want %v", tt.name, tt.got, tt.want)
		}
	}
}

func TestLoadConfig_PostgresDefaultPort(t *testing.T) {
	clearEnvVars(t)
	t.Setenv("SQLRESTORE_DRIVER", "postgres")

	if cfg := LoadConfig(); cfg.Port != 5432 {
		t.Errorf("expected port 5432 for postgres, got %d", cfg.Port)
	}
}

func TestLoadConfig_InvalidEnvIgnored(t *testing.T) {
	clearEnvVars(t)
	t.Setenv("SQLRESTORE_PORT", "not-a-port")
	t.Setenv("SQLRESTORE_TIMEOUT", "soon")

	cfg := LoadConfig()
	if cfg.Port != 3306 {
		t.Errorf("expected default port on invalid env, got %d", cfg.Port)
	}
	if cfg.Timeout != 30*time.Second {
		t.Errorf("expected default timeout on invalid env, got %v", cfg.Timeout)
	}
}

func TestApplyFlagsToConfig_OverridesEnv(t *testing.T) {
	clearEnvVars(t)
	t.Setenv("SQLRESTORE_HOST", "envhost")
	t.Setenv("SQLRESTORE_DATABASE", "envdb")

	cfg := LoadConfig()
	ApplyFlagsToConfig(cfg, Flags{
		Host:            "flaghost",
		Port:            3307,
		Timeout:         5 * time.Second,
		NoTransaction:   true,
		ContinueOnError: true,
		DryRun:          true,
		Clean:           true,
		Parallel:        4,
		Journal:         "out.json",
		Verbose:         true,
	})

	if cfg.Host != "flaghost" {
		t.Errorf("expected host from flag, got %q", cfg.Host)
	}
	if cfg.Database != "envdb" {
		t.Errorf("expected database from env, got %q", cfg.Database)
	}
	if cfg.Port != 3307 {
		t.Errorf("expected port 3307, got %d", cfg.Port)
	}
	if cfg.Transaction {
		t.Error("expected --no-transaction to disable transactions")
	}
	if !cfg.ContinueOnError || !cfg.DryRun || !cfg.Clean || !cfg.Verbose {
		t.Errorf("boolean flags not applied: %+v", cfg)
	}
	if cfg.Parallelism != 4 || cfg.JournalFile != "out.json" || cfg.Timeout != 5*time.Second {
		t.Errorf("flags not applied: %+v", cfg)
	}
}

func TestApplyFlagsToConfig_EmptyFlagsPreserveConfig(t *testing.T) {
	clearEnvVars(t)

	cfg := LoadConfig()
	before := *cfg
	ApplyFlagsToConfig(cfg, Flags{})

	if *cfg != before {
		t.Errorf("empty flags changed config:\n got %+v\nwant %+v", *cfg, before)
	}
}

func TestApplyFlagsToConfig_DriverSwitchesPort(t *testing.T) {
	clearEnvVars(t)

	cfg := LoadConfig()
	ApplyFlagsToConfig(cfg, Flags{Driver: "postgres"})
	if cfg.Port != 5432 {
		t.Errorf("expected port 5432 after switching to postgres, got %d", cfg.Port)
	}

	cfg = LoadConfig()
	ApplyFlagsToConfig(cfg, Flags{Driver: "postgres", Port: 6432})
	if cfg.Port != 6432 {
		t.Errorf("expected explicit port 6432, got %d", cfg.Port)
	}
}

func validConfig() *Config {
	cfg := DefaultConfig
	cfg.Database = "app"
	return &cfg
}

func TestConfigValidate(t *testing.T) {
	tests := []struct {
		name      string
		mutate    func(c *Config)
		wantField string
	}{
		{"valid", func(c *Config) {}, ""},
		{"dsn without host", func(c *Config) { c.Host = ""; c.Database = ""; c.ConnectionString = "root@tcp(db)/app" }, ""},
		{"unknown driver", func(c *Config) { c.Driver = "oracle" }, "driver"},
		{"missing host", func(c *Config) { c.Host = "" }, "host"},
		{"missing database", func(c *Config) { c.Database = "" }, "database"},
		{"dry run without database", func(c *Config) { c.Database = ""; c.DryRun = true }, ""},
		{"scratch with mysql", func(c *Config) { c.Scratch = true }, "scratch"},
		{"scratch with postgres", func(c *Config) { c.Scratch = true; c.Driver = "postgres"; c.Port = 5432 }, ""},
		{"scratch in dry run", func(c *Config) { c.Scratch = true; c.DryRun = true }, ""},
		{"port zero", func(c *Config) { c.Port = 0 }, "port"},
		{"port too large", func(c *Config) { c.Port = 70000 }, "port"},
		{"negative timeout", func(c *Config) { c.Timeout = -time.Second }, "timeout"},
		{"zero timeout", func(c *Config) { c.Timeout = 0 }, ""},
		{"parallelism zero", func(c *Config) { c.Parallelism = 0 }, "parallelism"},
		{"parallelism too large", func(c *Config) { c.Parallelism = 65 }, "parallelism"},
		{"empty journal", func(c *Config) { c.JournalFile = "" }, "journal"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			cfg := validConfig()
			tt.mutate(cfg)
			err := cfg.Validate()

			if tt.wantField == "" {
				if err != nil {
					t.Errorf("Validate() error = %v, want nil", err)
				}
				return
			}

			var cfgErr *ConfigError
			if !errors.As(err, &cfgErr) {
				t.Fatalf("Validate() error = %v, want *ConfigError", err)
			}
			if cfgErr.Field != tt.wantField {
				t.Errorf("Validate() field = %q, want %q", cfgErr.Field, tt.wantField)
			}
		})
	}
}

func TestConfigError_Error(t *testing.T) {
	err := &ConfigError{
		Field:      "port",
		Value:      0,
		Message:    "port must be between 1 and 65535",
		Suggestion: "Use 3306",
	}

	msg := err.Error()
	if !strings.Contains(msg, "invalid port") || !strings.Contains(msg, "Suggestion: Use 3306") {
		t.Errorf("ConfigError.Error() = %q", msg)
	}
}

func TestApplyFlagsToConfig_DriverBackToMySQL(t *testing.T) {
	clearEnvVars(t)
	t.Setenv("SQLRESTORE_DRIVER", "postgres")

	cfg := LoadConfig()
	ApplyFlagsToConfig(cfg, Flags{Driver: "mysql"})
	if cfg.Port != 3306 {
		t.Errorf("expected port 3306 after switching to mysql, got %d", cfg.Port)
	}
}

func TestApplyFlagsToConfig_EnvPortKept(t *testing.T) {
	clearEnvVars(t)
	t.Setenv("SQLRESTORE_PORT", "5432")

	cfg := LoadConfig()
	if !cfg.ExplicitPort {
		t.Error("expected SQLRESTORE_PORT to mark the port explicit")
	}
	ApplyFlagsToConfig(cfg, Flags{Driver: "mysql"})
	if cfg.Port != 5432 {
		t.Errorf("expected port 5432 from env, got %d", cfg.Port)
	}
}

func TestApplyFlagsToConfig_Scratch(t *testing.T) {
	clearEnvVars(t)

	cfg := LoadConfig()
	ApplyFlagsToConfig(cfg, Flags{Driver: "postgres", Scratch: true})
	if !cfg.Scratch {
		t.Error("expected --scratch to enable scratch restores")
	}
}
