package cli

import (
	"fmt"
	"io"
	"os"

	"github.com/cybertec-postgresql/sqlrestore/internal/journal"
	"github.com/cybertec-postgresql/sqlrestore/internal/report"
)

// Report renders a saved restore journal
func Report(journalFile string, format string, outputPath string) error {
	if !report.ValidJournalFormat(format) {
		return fmt.Errorf("unsupported format: %s (supported: %v)", format, report.SupportedJournalFormats())
	}

	writer, err := openOutput(outputPath)
	if err != nil {
		return err
	}
	defer writer.Close()

	if err := ReportTo(journalFile, report.FormatType(format), writer); err != nil {
		return err
	}

	if outputPath != "-" && outputPath != "" {
		fmt.Fprintf(os.Stderr, "Report written to %s\n", outputPath)
	}
	return nil
}

// ReportTo is Report with an explicit writer
func ReportTo(journalFile string, format report.FormatType, writer io.Writer) error {
	// Step 1: Load the journal
	store := journal.NewStore(journalFile)
	if !store.Exists() {
		return fmt.Errorf("journal file not found: %s (run 'sqlrestore restore' first)", journalFile)
	}

	j, err := store.Load()
	if err != nil {
		return fmt.Errorf("failed to load journal: %w", err)
	}

	// Step 2: Get formatter
	formatter, err := report.GetJournalFormatter(format)
	if err != nil {
		return err
	}

	// Step 3: Format and output
	if err := formatter.FormatJournal(j, writer); err != nil {
		return fmt.Errorf("failed to format journal: %w", err)
	}
	return nil
}
