package report

import (
	"fmt"
	"io"

	"github.com/cybertec-postgresql/sqlrestore/internal/journal"
	"github.com/cybertec-postgresql/sqlrestore/internal/restore"
)

// StatementFormatter renders split statements
type StatementFormatter interface {
	// Format writes the statements of all results to the writer
	Format(results []*restore.SplitResult, writer io.Writer) error

	// Name returns the name of this formatter
	Name() string
}

// JournalFormatter renders a restore journal
type JournalFormatter interface {
	FormatJournal(j *journal.Journal, writer io.Writer) error
	Name() string
}

// FormatType represents supported output formats
type FormatType string

const (
	FormatText FormatType = "text"
	FormatJSON FormatType = "json"
	FormatSQL  FormatType = "sql"
)

// GetStatementFormatter returns a formatter for split output
func GetStatementFormatter(format FormatType) (StatementFormatter, error) {
	switch format {
	case FormatText:
		return &TextReporter{}, nil
	case FormatJSON:
		return &JSONReporter{}, nil
	case FormatSQL:
		return &SQLReporter{}, nil
	default:
		return nil, fmt.Errorf("unsupported format: %s (supported: %v)", format, SupportedFormats())
	}
}

// GetJournalFormatter returns a formatter for restore journals
func GetJournalFormatter(format FormatType) (JournalFormatter, error) {
	switch format {
	case FormatText:
		return &TextReporter{}, nil
	case FormatJSON:
		return &JSONReporter{}, nil
	default:
		return nil, fmt.Errorf("unsupported format: %s (supported: %v)", format, SupportedJournalFormats())
	}
}

// ValidFormat checks if a split output format is valid
func ValidFormat(format string) bool {
	switch FormatType(format) {
	case FormatText, FormatJSON, FormatSQL:
		return true
	default:
		return false
	}
}

// ValidJournalFormat checks if a journal format is valid
func ValidJournalFormat(format string) bool {
	return format == string(FormatText) || format == string(FormatJSON)
}

// SupportedFormats returns a list of supported split output formats
func SupportedFormats() []string {
	return []string{string(FormatText), string(FormatJSON), string(FormatSQL)}
}

// SupportedJournalFormats returns a list of supported journal formats
func SupportedJournalFormats() []string {
	return []string{string(FormatText), string(FormatJSON)}
}
