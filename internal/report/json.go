package report

import (
	"encoding/json"
	"fmt"
	"io"

	"github.com/cybertec-postgresql/sqlrestore/internal/journal"
	"github.com/cybertec-postgresql/sqlrestore/internal/restore"
)

// JSONReporter writes statements and journals as JSON
type JSONReporter struct{}

// StatementJSON is one element of the split output
type StatementJSON struct {
	File  string `json:"file"`
	Index int    `json:"index"`
	Line  int    `json:"line"`
	SQL   string `json:"sql"`
}

// Format implements StatementFormatter
func (r *JSONReporter) Format(results []*restore.SplitResult, writer io.Writer) error {
	out := []StatementJSON{}
	for _, res := range results {
		for i, stmt := range res.Statements {
			out = append(out, StatementJSON{
				File:  res.File.RelativePath,
				Index: i + 1,
				Line:  stmt.Line,
				SQL:   stmt.SQL,
			})
		}
	}
	return writeJSON(out, writer)
}

// FormatJournal writes the journal as indented JSON
func (r *JSONReporter) FormatJournal(j *journal.Journal, writer io.Writer) error {
	return writeJSON(j, writer)
}

// Name returns the name of this reporter
func (r *JSONReporter) Name() string {
	return "json"
}

func writeJSON(v any, writer io.Writer) error {
	data, err := json.MarshalIndent(v, "", "  ")
	if err != nil {
		return fmt.Errorf("failed to marshal JSON: %w", err)
	}
	if _, err := writer.Write(append(data, '\n')); err != nil {
		return fmt.Errorf("failed to write JSON output: %w", err)
	}
	return nil
}
