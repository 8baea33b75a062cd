package restore

import (
	"time"

	"github.com/cybertec-postgresql/sqlrestore/internal/discovery"
	"github.com/cybertec-postgresql/sqlrestore/internal/splitter"
)

// Run represents the restore of a single script
type Run struct {
	Script     string // Relative path of the script
	Kind       discovery.ScriptKind
	StartTime  time.Time
	EndTime    time.Time
	Status     Status
	Error      error // First failure, if any
	Statements []StatementResult
}

// Status represents the current state of a script restore
type Status int

const (
	StatusPending Status = iota
	StatusRunning
	StatusSucceeded
	StatusFailed
	StatusRolledBack
	StatusEmpty
	StatusDryRun
)

// String returns a string representation of Status
func (s Status) String() string {
	switch s {
	case StatusPending:
		return "pending"
	case StatusRunning:
		return "running"
	case StatusSucceeded:
		return "succeeded"
	case StatusFailed:
		return "failed"
	case StatusRolledBack:
		return "rolled back"
	case StatusEmpty:
		return "empty"
	case StatusDryRun:
		return "dry run"
	default:
		return "unknown"
	}
}

// OK reports whether the run did not fail
func (s Status) OK() bool {
	return s == StatusSucceeded || s == StatusEmpty || s == StatusDryRun
}

// StatementStatus is the outcome of one statement
type StatementStatus int

const (
	StmtPending StatementStatus = iota
	StmtSucceeded
	StmtFailed
	StmtSkipped
	StmtRolledBack
)

func (s StatementStatus) String() string {
	switch s {
	case StmtPending:
		return "pending"
	case StmtSucceeded:
		return "succeeded"
	case StmtFailed:
		return "failed"
	case StmtSkipped:
		return "skipped"
	case StmtRolledBack:
		return "rolled back"
	default:
		return "unknown"
	}
}

// StatementResult records the execution of one split statement
type StatementResult struct {
	Index    int // 1-indexed position in the script
	Line     int
	SQL      string
	Status   StatementStatus
	Duration time.Duration
	Error    error
}

// Duration returns the restore duration
func (r *Run) Duration() time.Duration {
	if r.EndTime.IsZero() {
		return time.Since(r.StartTime)
	}
	return r.EndTime.Sub(r.StartTime)
}

// Count returns the number of statements with the given status
func (r *Run) Count(status StatementStatus) int {
	n := 0
	for i := range r.Statements {
		if r.Statements[i].Status == status {
			n++
		}
	}
	return n
}

// Progress is reported before each statement is executed
type Progress struct {
	Script string
	Index  int
	Total  int
	Line   int
}

// ProgressFunc receives restore progress
type ProgressFunc func(Progress)

// Options controls how scripts are restored
type Options struct {
	Transaction      bool // Run each script in one transaction
	ContinueOnError  bool // Ignored when Transaction is set
	DryRun           bool
	Clean            bool // Flush all tables before each script
	StatementTimeout time.Duration
	Progress         ProgressFunc
}

// SplitResult holds a script and its statements
type SplitResult struct {
	File       *discovery.DiscoveredFile
	Script     string
	Statements []splitter.Statement
}

// Summary summarizes all restore runs
type Summary struct {
	TotalScripts       int
	SucceededScripts   int
	FailedScripts      int
	RolledBackScripts  int
	EmptyScripts       int
	DryRunScripts      int
	TotalStatements    int
	ExecutedStatements int
	FailedStatements   int
	TotalDuration      time.Duration
}

// AllSucceeded returns true if no script failed
func (s *Summary) AllSucceeded() bool {
	return s.FailedScripts == 0 && s.RolledBackScripts == 0
}

// ExitCode returns the appropriate exit code based on restore results
func (s *Summary) ExitCode() int {
	if s.AllSucceeded() {
		return 0
	}
	return 1
}
