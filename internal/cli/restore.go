package cli

import (
	"context"
	"fmt"
	"io"
	"time"

	"github.com/cybertec-postgresql/sqlrestore/internal/database"
	"github.com/cybertec-postgresql/sqlrestore/internal/discovery"
	"github.com/cybertec-postgresql/sqlrestore/internal/journal"
	"github.com/cybertec-postgresql/sqlrestore/internal/logger"
	"github.com/cybertec-postgresql/sqlrestore/internal/restore"
)

// Restore executes the restore workflow and returns the process exit code
func Restore(ctx context.Context, config *Config, searchPath string, out io.Writer) (int, error) {
	return RestoreWith(ctx, config, searchPath, out, nil)
}

// RestoreWith is Restore with an already opened target. A nil target is
// connected from config unless the run is a dry run.
func RestoreWith(ctx context.Context, config *Config, searchPath string, out io.Writer, target database.Target) (int, error) {
	startTime := time.Now()
	log := logger.Default()

	driver, err := database.ParseDriver(config.Driver)
	if err != nil {
		return 2, err
	}

	log.Debug("discovering scripts in %s", searchPath)

	// Step 1: Discover scripts
	files, err := discovery.Discover(searchPath)
	if err != nil {
		return 1, fmt.Errorf("failed to discover scripts: %w", err)
	}
	if len(files) == 0 {
		fmt.Fprintln(out, "No SQL scripts found (*.sql)")
		return 0, nil
	}
	log.Debug("Found %d script(s)", len(files))

	// Step 2: Read and split scripts
	loaded, err := restore.NewWorkerPool(config.Parallelism).SplitParallel(ctx, files)
	if err != nil {
		return 1, err
	}

	// Step 3: Connect
	if target == nil && !config.DryRun {
		if config.Scratch {
			scratch, cleanup, err := openScratch(ctx, config)
			if err != nil {
				return 1, err
			}
			defer cleanup()
			target = scratch
			fmt.Fprintf(out, "Restoring into scratch database %s\n", scratch.Config().Database)
		} else {
			target, err = database.Connect(ctx, config)
			if err != nil {
				return 1, fmt.Errorf("database connection failed: %w", err)
			}
			defer target.Close()
		}
		log.Debug("Connected to %s", driver)
	}

	// Step 4: Restore
	opts := restore.Options{
		Transaction:      config.Transaction,
		ContinueOnError:  config.ContinueOnError,
		DryRun:           config.DryRun,
		Clean:            config.Clean,
		StatementTimeout: config.Timeout,
		Progress: func(p restore.Progress) {
			log.Debug("%s: statement %d/%d (line %d)", p.Script, p.Index, p.Total, p.Line)
		},
	}
	runs, err := restore.NewExecutor(target, opts, log).RestoreBatch(ctx, loaded)
	if err != nil {
		return 1, fmt.Errorf("restore failed: %w", err)
	}

	// Step 5: Save journal
	store := journal.NewStore(config.JournalFile)
	if err := store.Save(journal.FromRuns(string(driver), runs)); err != nil {
		return 1, fmt.Errorf("failed to save journal: %w", err)
	}

	// Step 6: Display summary
	summary := restore.Summarize(runs)

	fmt.Fprintf(out, "\n")
	for _, run := range runs {
		if run.Error != nil {
			fmt.Fprintf(out, "%s: %s: %v\n", run.Status, run.Script, run.Error)
		}
	}
	if skipped := len(files) - len(runs); skipped > 0 {
		fmt.Fprintf(out, "%d script(s) not attempted after failure\n", skipped)
	}
	fmt.Fprintf(out, "Scripts:    %d succeeded, %d failed, %d rolled back, %d empty, %d total\n",
		summary.SucceededScripts+summary.DryRunScripts, summary.FailedScripts, summary.RolledBackScripts,
		summary.EmptyScripts, summary.TotalScripts)
	fmt.Fprintf(out, "Statements: %d executed, %d failed, %d total\n",
		summary.ExecutedStatements, summary.FailedStatements, summary.TotalStatements)
	fmt.Fprintf(out, "Time:       %v\n", time.Since(startTime).Round(time.Millisecond))
	fmt.Fprintf(out, "\n")
	fmt.Fprintf(out, "Journal written to %s\n", config.JournalFile)

	return summary.ExitCode(), nil
}

// openScratch creates a scratch PostgreSQL database next to the configured
// one. cleanup drops it and closes both pools.
func openScratch(ctx context.Context, config *Config) (*database.Pool, func(), error) {
	admin, err := database.NewPool(ctx, config)
	if err != nil {
		return nil, nil, fmt.Errorf("database connection failed: %w", err)
	}

	scratch, err := database.CreateScratchDatabase(ctx, admin)
	if err != nil {
		admin.Close()
		return nil, nil, err
	}

	cleanup := func() {
		if err := database.DropScratchDatabase(context.WithoutCancel(ctx), admin, scratch); err != nil {
			logger.Warn("failed to drop scratch database %s: %v", scratch.Config().Database, err)
		}
		admin.Close()
	}
	return scratch, cleanup, nil
}
