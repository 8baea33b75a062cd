package restore

import (
	"context"
	"fmt"
	"time"

	"github.com/cybertec-postgresql/sqlrestore/internal/database"
	"github.com/cybertec-postgresql/sqlrestore/internal/discovery"
	"github.com/cybertec-postgresql/sqlrestore/internal/errors"
	"github.com/cybertec-postgresql/sqlrestore/internal/logger"
	"github.com/cybertec-postgresql/sqlrestore/internal/splitter"
)

// Executor restores scripts statement by statement
type Executor struct {
	target database.Target
	opts   Options
	log    *logger.Logger
}

// NewExecutor creates a new restore executor. target may be nil in dry-run mode.
func NewExecutor(target database.Target, opts Options, log *logger.Logger) *Executor {
	if log == nil {
		log = logger.Default()
	}
	return &Executor{
		target: target,
		opts:   opts,
		log:    log,
	}
}

// Restore splits script and executes its statements in order
func (e *Executor) Restore(ctx context.Context, file *discovery.DiscoveredFile, script string) (*Run, error) {
	return e.RestoreStatements(ctx, file, splitter.SplitStatements(script))
}

// RestoreStatements executes already split statements of file in order
func (e *Executor) RestoreStatements(ctx context.Context, file *discovery.DiscoveredFile, statements []splitter.Statement) (*Run, error) {
	run := &Run{
		Script:    file.RelativePath,
		Kind:      file.Kind,
		StartTime: time.Now(),
		Status:    StatusPending,
	}
	defer func() {
		run.EndTime = time.Now()
	}()

	run.Statements = make([]StatementResult, len(statements))
	for i, stmt := range statements {
		run.Statements[i] = StatementResult{
			Index:  i + 1,
			Line:   stmt.Line,
			SQL:    stmt.SQL,
			Status: StmtPending,
		}
	}

	log := e.log.WithField("script", run.Script)
	log.Debugf("split into %d statements", len(statements))

	switch {
	case len(statements) == 0:
		run.Status = StatusEmpty
		return run, nil
	case e.opts.DryRun:
		markSkipped(run, 0)
		run.Status = StatusDryRun
		return run, nil
	case e.target == nil:
		return nil, fmt.Errorf("no database target for %s", run.Script)
	}

	if e.opts.Clean {
		log.Debug("flushing all tables")
		if err := e.target.Flush(ctx); err != nil {
			markSkipped(run, 0)
			run.Status = StatusFailed
			run.Error = fmt.Errorf("failed to clean database: %w", err)
			return run, nil
		}
	}

	run.Status = StatusRunning

	if e.opts.Transaction {
		err := e.target.InTransaction(ctx, func(tx database.Target) error {
			return e.execute(ctx, tx, run, false)
		})
		if err != nil {
			for i := range run.Statements {
				if run.Statements[i].Status == StmtSucceeded {
					run.Statements[i].Status = StmtRolledBack
				}
			}
			run.Status = StatusRolledBack
			run.Error = err
			log.Errorf("rolled back: %v", err)
			return run, nil
		}
	} else if err := e.execute(ctx, e.target, run, e.opts.ContinueOnError); err != nil {
		run.Status = StatusFailed
		run.Error = err
		log.Errorf("failed: %v", err)
		return run, nil
	}

	run.Status = StatusSucceeded
	log.Debugf("restored %d statements in %v", len(statements), time.Since(run.StartTime))
	return run, nil
}

// execute runs the pending statements of run against target and returns the
// first failure. Unless keepGoing is set, the first failure stops execution
// and the remaining statements are skipped.
func (e *Executor) execute(ctx context.Context, target database.Target, run *Run, keepGoing bool) error {
	var firstErr error
	total := len(run.Statements)

	for i := range run.Statements {
		if err := ctx.Err(); err != nil {
			markSkipped(run, i)
			if firstErr == nil {
				firstErr = err
			}
			return firstErr
		}

		stmt := &run.Statements[i]
		if e.opts.Progress != nil {
			e.opts.Progress(Progress{
				Script: run.Script,
				Index:  stmt.Index,
				Total:  total,
				Line:   stmt.Line,
			})
		}

		start := time.Now()
		err := e.execStatement(ctx, target, stmt.SQL)
		stmt.Duration = time.Since(start)

		if err == nil {
			stmt.Status = StmtSucceeded
			continue
		}

		stmtErr := errors.NewStatementError(run.Script, stmt.Index, stmt.Line, stmt.SQL, err)
		stmt.Status = StmtFailed
		stmt.Error = stmtErr
		e.log.WithField("script", run.Script).Debugf("statement %d at line %d failed: %v", stmt.Index, stmt.Line, err)
		if firstErr == nil {
			firstErr = stmtErr
		}
		if !keepGoing {
			markSkipped(run, i+1)
			return firstErr
		}
	}

	return firstErr
}

func (e *Executor) execStatement(ctx context.Context, target database.Target, sql string) error {
	if e.opts.StatementTimeout > 0 {
		var cancel context.CancelFunc
		ctx, cancel = context.WithTimeout(ctx, e.opts.StatementTimeout)
		defer cancel()
	}
	return target.Exec(ctx, sql)
}

// markSkipped marks statements from index from onwards as skipped
func markSkipped(run *Run, from int) {
	for i := from; i < len(run.Statements); i++ {
		run.Statements[i].Status = StmtSkipped
	}
}

// RestoreBatch restores split scripts in order. It stops after the first
// failed script unless ContinueOnError is set.
func (e *Executor) RestoreBatch(ctx context.Context, results []*SplitResult) ([]*Run, error) {
	var runs []*Run
	for i, res := range results {
		if res == nil || res.File == nil {
			return runs, fmt.Errorf("split result %d has no file", i)
		}
		e.log.Info("Restoring %s", res.File.RelativePath)

		run, err := e.RestoreStatements(ctx, res.File, res.Statements)
		if err != nil {
			return runs, err
		}
		runs = append(runs, run)

		if !run.Status.OK() && !e.opts.ContinueOnError {
			break
		}
		// Check if context was cancelled
		if ctx.Err() != nil {
			break
		}
	}

	return runs, nil
}

// Summarize creates a summary of restore results
func Summarize(runs []*Run) *Summary {
	summary := &Summary{
		TotalScripts: len(runs),
	}

	for _, run := range runs {
		summary.TotalDuration += run.Duration()
		summary.TotalStatements += len(run.Statements)
		summary.ExecutedStatements += run.Count(StmtSucceeded) + run.Count(StmtFailed) + run.Count(StmtRolledBack)
		summary.FailedStatements += run.Count(StmtFailed)

		switch run.Status {
		case StatusSucceeded:
			summary.SucceededScripts++
		case StatusFailed:
			summary.FailedScripts++
		case StatusRolledBack:
			summary.RolledBackScripts++
		case StatusEmpty:
			summary.EmptyScripts++
		case StatusDryRun:
			summary.DryRunScripts++
		}
	}

	return summary
}
