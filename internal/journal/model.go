package journal

import (
	"strings"
	"time"
	"unicode"

	"github.com/cybertec-postgresql/sqlrestore/internal/restore"
)

// SchemaVersion is written to every journal
const SchemaVersion = "1.0"

// PreviewLength is the maximum number of runes kept from a statement
const PreviewLength = 120

// Journal records the outcome of one restore invocation
type Journal struct {
	Version   string      `json:"version"`
	Timestamp time.Time   `json:"timestamp"`
	Driver    string      `json:"driver"`
	Runs      []RunRecord `json:"runs"`
}

// RunRecord is the persisted form of restore.Run
type RunRecord struct {
	Script     string            `json:"script"`
	Kind       string            `json:"kind"`
	Status     string            `json:"status"`
	Error      string            `json:"error,omitempty"`
	StartTime  time.Time         `json:"start_time"`
	DurationMS int64             `json:"duration_ms"`
	Statements []StatementRecord `json:"statements"`
}

// StatementRecord is the persisted form of restore.StatementResult
type StatementRecord struct {
	Index      int    `json:"index"`
	Line       int    `json:"line"`
	Status     string `json:"status"`
	Preview    string `json:"sql"`
	Error      string `json:"error,omitempty"`
	DurationMS int64  `json:"duration_ms"`
}

// New creates an empty journal
func New(driver string) *Journal {
	return &Journal{
		Version:   SchemaVersion,
		Timestamp: time.Now(),
		Driver:    driver,
		Runs:      []RunRecord{},
	}
}

// FromRuns converts restore runs into a journal
func FromRuns(driver string, runs []*restore.Run) *Journal {
	j := New(driver)
	for _, run := range runs {
		j.Add(run)
	}
	return j
}

// Add appends a run to the journal
func (j *Journal) Add(run *restore.Run) {
	rec := RunRecord{
		Script:     run.Script,
		Kind:       run.Kind.String(),
		Status:     run.Status.String(),
		StartTime:  run.StartTime,
		DurationMS: run.Duration().Milliseconds(),
		Statements: make([]StatementRecord, 0, len(run.Statements)),
	}
	if run.Error != nil {
		rec.Error = run.Error.Error()
	}

	for _, stmt := range run.Statements {
		sr := StatementRecord{
			Index:      stmt.Index,
			Line:       stmt.Line,
			Status:     stmt.Status.String(),
			Preview:    Preview(stmt.SQL),
			DurationMS: stmt.Duration.Milliseconds(),
		}
		if stmt.Error != nil {
			sr.Error = stmt.Error.Error()
		}
		rec.Statements = append(rec.Statements, sr)
	}

	j.Runs = append(j.Runs, rec)
}

// Failed returns the runs that did not succeed
func (j *Journal) Failed() []RunRecord {
	var failed []RunRecord
	for _, r := range j.Runs {
		if r.Status == restore.StatusFailed.String() || r.Status == restore.StatusRolledBack.String() {
			failed = append(failed, r)
		}
	}
	return failed
}

// StatementCount returns the total number of recorded statements
func (j *Journal) StatementCount() int {
	n := 0
	for _, r := range j.Runs {
		n += len(r.Statements)
	}
	return n
}

// Preview collapses whitespace runs in sql to single spaces and truncates
// the result to PreviewLength runes
func Preview(sql string) string {
	var b strings.Builder
	n := 0
	space, truncated := false, false
	for _, r := range strings.TrimSpace(sql) {
		if unicode.IsSpace(r) {
			space = true
			continue
		}
		need := 1
		if space {
			need = 2
		}
		if n+need > PreviewLength {
			truncated = true
			break
		}
		if space {
			b.WriteByte(' ')
			n++
			space = false
		}
		b.WriteRune(r)
		n++
	}
	if truncated {
		return b.String() + "..."
	}
	return b.String()
}
