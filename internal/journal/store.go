package journal

import (
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
)

// Store handles persistence of restore journals
type Store struct {
	filePath string
}

// NewStore creates a new journal store
func NewStore(filePath string) *Store {
	return &Store{
		filePath: filePath,
	}
}

// Save writes the journal to disk as JSON
func (s *Store) Save(j *Journal) error {
	dir := filepath.Dir(s.filePath)
	if err := os.MkdirAll(dir, 0755); err != nil {
		return fmt.Errorf("failed to create directory %s: %w", dir, err)
	}

	data, err := json.MarshalIndent(j, "", "  ")
	if err != nil {
		return fmt.Errorf("failed to marshal journal: %w", err)
	}

	if err := os.WriteFile(s.filePath, data, 0644); err != nil {
		return fmt.Errorf("failed to write journal file: %w", err)
	}

	return nil
}

// Load reads the journal from disk
func (s *Store) Load() (*Journal, error) {
	if _, err := os.Stat(s.filePath); os.IsNotExist(err) {
		return nil, fmt.Errorf("journal file not found: %s", s.filePath)
	}

	data, err := os.ReadFile(s.filePath)
	if err != nil {
		return nil, fmt.Errorf("failed to read journal file: %w", err)
	}

	var j Journal
	if err := json.Unmarshal(data, &j); err != nil {
		return nil, fmt.Errorf("failed to parse journal file: %w", err)
	}

	return &j, nil
}

// Exists checks if the journal file exists
func (s *Store) Exists() bool {
	_, err := os.Stat(s.filePath)
	return err == nil
}

// Delete removes the journal file
func (s *Store) Delete() error {
	if !s.Exists() {
		return nil
	}
	return os.Remove(s.filePath)
}

// Path returns the file path where the journal is stored
func (s *Store) Path() string {
	return s.filePath
}
