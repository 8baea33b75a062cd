package main

import (
	"context"
	"errors"
	"fmt"
	"os"
	"os/signal"
	"syscall"

	"github.com/cybertec-postgresql/sqlrestore/internal/cli"
	"github.com/cybertec-postgresql/sqlrestore/internal/logger"
	"github.com/cybertec-postgresql/sqlrestore/pkg/types"
	urfavecli "github.com/urfave/cli/v3"
)

const version = "1.0.0"

func main() {
	app := &urfavecli.Command{
		Name:    "sqlrestore",
		Usage:   "Split SQL scripts into statements and restore them into MySQL or PostgreSQL",
		Version: version,
		Commands: []*urfavecli.Command{
			{
				Name:      "split",
				Usage:     "Split scripts into statements without touching a database",
				ArgsUsage: "PATH",
				Action:    splitCommand,
				Flags: []urfavecli.Flag{
					&urfavecli.StringFlag{
						Name:  "format",
						Usage: "Output format (text, json, or sql)",
						Value: "text",
					},
					&urfavecli.StringFlag{
						Name:    "output",
						Aliases: []string{"o"},
						Usage:   "Output file path (use - for stdout)",
						Value:   "-",
					},
					&urfavecli.IntFlag{
						Name:  "parallel",
						Usage: "Maximum number of scripts split concurrently",
						Value: 1,
					},
					&urfavecli.BoolFlag{
						Name:  "verbose",
						Usage: "Enable debug output",
					},
				},
			},
			{
				Name:      "restore",
				Usage:     "Execute scripts statement by statement",
				ArgsUsage: "PATH",
				Action:    restoreCommand,
				Flags: []urfavecli.Flag{
					&urfavecli.StringFlag{
						Name:  "driver",
						Usage: "Database driver (mysql or postgres). Env: SQLRESTORE_DRIVER",
					},
					&urfavecli.StringFlag{
						Name:    "dsn",
						Aliases: []string{"c"},
						Usage:   "Connection string (go-sql-driver DSN for mysql, URI or key=value for postgres). Env: SQLRESTORE_DSN",
					},
					&urfavecli.StringFlag{Name: "host", Usage: "Database host"},
					&urfavecli.IntFlag{Name: "port", Usage: "Database port (default 3306, or 5432 for postgres)"},
					&urfavecli.StringFlag{Name: "user", Aliases: []string{"u"}, Usage: "Database user"},
					&urfavecli.StringFlag{Name: "password", Usage: "Database password"},
					&urfavecli.StringFlag{Name: "database", Aliases: []string{"d"}, Usage: "Database name"},
					&urfavecli.BoolFlag{
						Name:  "no-transaction",
						Usage: "Do not wrap each script in a transaction",
					},
					&urfavecli.BoolFlag{
						Name:  "continue-on-error",
						Usage: "Keep executing after a failed statement (only without a transaction)",
					},
					&urfavecli.BoolFlag{
						Name:  "dry-run",
						Usage: "Split and journal scripts without executing them",
					},
					&urfavecli.BoolFlag{
						Name:  "clean",
						Usage: "Empty all tables before restoring each script",
					},
					&urfavecli.BoolFlag{
						Name:  "scratch",
						Usage: "Restore into a temporary PostgreSQL database that is dropped afterwards",
					},
					&urfavecli.DurationFlag{
						Name:  "timeout",
						Usage: "Per-statement timeout (0 disables it)",
					},
					&urfavecli.IntFlag{
						Name:  "parallel",
						Usage: "Maximum number of scripts read concurrently",
					},
					&urfavecli.StringFlag{
						Name:  "journal",
						Usage: "Restore journal output path",
					},
					&urfavecli.BoolFlag{
						Name:  "verbose",
						Usage: "Enable debug output",
					},
				},
			},
			{
				Name:   "report",
				Usage:  "Show the journal of the last restore",
				Action: reportCommand,
				Flags: []urfavecli.Flag{
					&urfavecli.StringFlag{
						Name:  "format",
						Usage: "Output format (text or json)",
						Value: "text",
					},
					&urfavecli.StringFlag{
						Name:    "output",
						Aliases: []string{"o"},
						Usage:   "Output file path (use - for stdout)",
						Value:   "-",
					},
					&urfavecli.StringFlag{
						Name:  "journal",
						Usage: "Restore journal input path",
						Value: cli.DefaultConfig.JournalFile,
					},
				},
			},
		},
	}

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	if err := app.Run(ctx, os.Args); err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		os.Exit(1)
	}
}

// splitCommand handles the 'sqlrestore split' command
func splitCommand(ctx context.Context, cmd *urfavecli.Command) error {
	logger.SetVerbose(cmd.Bool("verbose"))

	searchPath := cmd.Args().First()
	if searchPath == "" {
		searchPath = "."
	}

	return cli.Split(ctx, searchPath, cmd.String("format"), cmd.String("output"), int(cmd.Int("parallel")))
}

// restoreCommand handles the 'sqlrestore restore' command
func restoreCommand(ctx context.Context, cmd *urfavecli.Command) error {
	config := cli.LoadConfig()

	cli.ApplyFlagsToConfig(config, cli.Flags{
		Driver:          cmd.String("driver"),
		Connection:      cmd.String("dsn"),
		Host:            cmd.String("host"),
		Port:            int(cmd.Int("port")),
		User:            cmd.String("user"),
		Password:        cmd.String("password"),
		Database:        cmd.String("database"),
		Timeout:         cmd.Duration("timeout"),
		NoTransaction:   cmd.Bool("no-transaction"),
		ContinueOnError: cmd.Bool("continue-on-error"),
		DryRun:          cmd.Bool("dry-run"),
		Clean:           cmd.Bool("clean"),
		Scratch:         cmd.Bool("scratch"),
		Parallel:        int(cmd.Int("parallel")),
		Journal:         cmd.String("journal"),
		Verbose:         cmd.Bool("verbose"),
	})
	logger.SetVerbose(config.Verbose)

	// Validate configuration
	if err := config.Validate(); err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		os.Exit(2)
	}

	searchPath := cmd.Args().First()
	if searchPath == "" {
		searchPath = "."
	}

	exitCode, err := cli.Restore(ctx, config, searchPath, os.Stdout)
	if err != nil {
		var cfgErr *types.ConfigError
		if exitCode == 2 || errors.As(err, &cfgErr) {
			fmt.Fprintf(os.Stderr, "Error: %v\n", err)
			os.Exit(2)
		}
		return err
	}

	if exitCode != 0 {
		os.Exit(exitCode)
	}
	return nil
}

// reportCommand handles the 'sqlrestore report' command
func reportCommand(ctx context.Context, cmd *urfavecli.Command) error {
	return cli.Report(cmd.String("journal"), cmd.String("format"), cmd.String("output"))
}
