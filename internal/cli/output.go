package cli

import (
	"fmt"
	"io"
	"os"
)

type nopCloser struct {
	io.Writer
}

func (nopCloser) Close() error { return nil }

// openOutput returns stdout for "" or "-", otherwise creates the file
func openOutput(outputPath string) (io.WriteCloser, error) {
	if outputPath == "-" || outputPath == "" {
		return nopCloser{os.Stdout}, nil
	}
	f, err := os.Create(outputPath)
	if err != nil {
		return nil, fmt.Errorf("failed to create output file: %w", err)
	}
	return f, nil
}
