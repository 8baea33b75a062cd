package cli

import (
	"context"
	"fmt"
	"io"
	"os"

	"github.com/cybertec-postgresql/sqlrestore/internal/discovery"
	"github.com/cybertec-postgresql/sqlrestore/internal/logger"
	"github.com/cybertec-postgresql/sqlrestore/internal/report"
	"github.com/cybertec-postgresql/sqlrestore/internal/restore"
)

// Split discovers scripts under searchPath and writes their statements
// to outputPath without touching a database
func Split(ctx context.Context, searchPath, format, outputPath string, parallel int) error {
	if !report.ValidFormat(format) {
		return fmt.Errorf("unsupported format: %s (supported: %v)", format, report.SupportedFormats())
	}

	writer, err := openOutput(outputPath)
	if err != nil {
		return err
	}
	defer writer.Close()

	if err := SplitTo(ctx, searchPath, report.FormatType(format), parallel, writer); err != nil {
		return err
	}

	// Print success message to stderr (so it doesn't interfere with stdout output)
	if outputPath != "-" && outputPath != "" {
		fmt.Fprintf(os.Stderr, "Statements written to %s\n", outputPath)
	}
	return nil
}

// SplitTo is Split with an explicit writer
func SplitTo(ctx context.Context, searchPath string, format report.FormatType, parallel int, writer io.Writer) error {
	formatter, err := report.GetStatementFormatter(format)
	if err != nil {
		return err
	}

	files, err := discovery.Discover(searchPath)
	if err != nil {
		return fmt.Errorf("failed to discover scripts: %w", err)
	}
	logger.Debug("Found %d script(s) in %s", len(files), searchPath)

	results, err := restore.NewWorkerPool(parallel).SplitParallel(ctx, files)
	if err != nil {
		return fmt.Errorf("failed to split scripts: %w", err)
	}

	if err := formatter.Format(results, writer); err != nil {
		return fmt.Errorf("failed to format statements: %w", err)
	}
	return nil
}
