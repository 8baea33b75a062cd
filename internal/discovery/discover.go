package discovery

import (
	"fmt"
	"io"
	"os"
	"path/filepath"
	"sort"

	"github.com/cybertec-postgresql/sqlrestore/internal/errors"
)

// MaxScriptSize is the largest script ReadScript accepts
const MaxScriptSize = 64 << 20

// Discover returns the scripts to restore from rootPath. A file is returned
// as is; a directory is walked recursively for *.sql files, which are
// returned sorted by relative path so numbered scripts run in order.
func Discover(rootPath string) ([]DiscoveredFile, error) {
	absRoot, err := filepath.Abs(rootPath)
	if err != nil {
		return nil, fmt.Errorf("failed to get absolute path: %w", err)
	}

	info, err := os.Stat(absRoot)
	if err != nil {
		if os.IsNotExist(err) {
			return nil, fmt.Errorf("path not found: %s", absRoot)
		}
		return nil, fmt.Errorf("failed to access path: %w", err)
	}

	if !info.IsDir() {
		return []DiscoveredFile{newDiscoveredFile(absRoot, filepath.Base(absRoot), info)}, nil
	}

	var files []DiscoveredFile

	err = filepath.Walk(absRoot, func(path string, info os.FileInfo, err error) error {
		if err != nil {
			// Skip directories we can't access
			if os.IsPermission(err) {
				return nil
			}
			return err
		}

		if info.IsDir() || !IsSQLFile(path) {
			return nil
		}

		relPath, err := filepath.Rel(absRoot, path)
		if err != nil {
			return fmt.Errorf("failed to get relative path: %w", err)
		}

		files = append(files, newDiscoveredFile(path, relPath, info))
		return nil
	})
	if err != nil {
		return nil, fmt.Errorf("failed to walk directory: %w", err)
	}

	sort.Slice(files, func(i, j int) bool {
		return files[i].RelativePath < files[j].RelativePath
	})

	return files, nil
}

func newDiscoveredFile(path, relPath string, info os.FileInfo) DiscoveredFile {
	return DiscoveredFile{
		Path:         path,
		RelativePath: relPath,
		Kind:         ClassifyFile(info.Name()),
		ModTime:      info.ModTime(),
		Size:         info.Size(),
	}
}

// ReadScript loads the content of a discovered script
func ReadScript(file *DiscoveredFile) (string, error) {
	f, err := os.Open(file.Path)
	if err != nil {
		return "", errors.NewScriptError(file.RelativePath, "failed to open", err)
	}
	defer f.Close()

	data, err := io.ReadAll(io.LimitReader(f, MaxScriptSize+1))
	if err != nil {
		return "", errors.NewScriptError(file.RelativePath, "failed to read", err)
	}
	if len(data) > MaxScriptSize {
		return "", errors.NewScriptError(file.RelativePath,
			fmt.Sprintf("larger than %d MiB", MaxScriptSize>>20), nil)
	}

	return string(data), nil
}
