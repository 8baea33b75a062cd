package report

import (
	"fmt"
	"io"
	"strings"
	"time"

	"github.com/cybertec-postgresql/sqlrestore/internal/journal"
	"github.com/cybertec-postgresql/sqlrestore/internal/restore"
)

// TextReporter writes human readable output
type TextReporter struct{}

// Format implements StatementFormatter
func (r *TextReporter) Format(results []*restore.SplitResult, writer io.Writer) error {
	var b strings.Builder
	for _, res := range results {
		fmt.Fprintf(&b, "== %s (%s, %d statements)\n", res.File.RelativePath, res.File.Kind, len(res.Statements))
		for i, stmt := range res.Statements {
			fmt.Fprintf(&b, "-- [%d] line %d\n%s\n", i+1, stmt.Line, stmt.SQL)
		}
		b.WriteByte('\n')
	}
	_, err := io.WriteString(writer, b.String())
	return err
}

// FormatJournal implements JournalFormatter
func (r *TextReporter) FormatJournal(j *journal.Journal, writer io.Writer) error {
	var b strings.Builder
	fmt.Fprintf(&b, "Restore journal (%s, %s)\n\n", j.Driver, j.Timestamp.Format("2006-01-02 15:04:05"))

	for _, run := range j.Runs {
		duration := time.Duration(run.DurationMS) * time.Millisecond
		fmt.Fprintf(&b, "  [%s] %s (%s): %d statements, %v\n", run.Status, run.Script, run.Kind, len(run.Statements), duration)
		for _, stmt := range run.Statements {
			if stmt.Error != "" {
				fmt.Fprintf(&b, "      statement %d, line %d: %s\n        %s\n", stmt.Index, stmt.Line, stmt.Error, stmt.Preview)
			}
		}
		if run.Error != "" && !hasStatementError(run) {
			fmt.Fprintf(&b, "      error: %s\n", run.Error)
		}
	}

	fmt.Fprintf(&b, "\nScripts: %d, failed: %d, statements: %d\n", len(j.Runs), len(j.Failed()), j.StatementCount())
	_, err := io.WriteString(writer, b.String())
	return err
}

func hasStatementError(run journal.RunRecord) bool {
	for _, stmt := range run.Statements {
		if stmt.Error != "" {
			return true
		}
	}
	return false
}

// Name returns the name of this reporter
func (r *TextReporter) Name() string {
	return "text"
}
