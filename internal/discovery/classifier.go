package discovery

import "strings"

// IsSQLFile reports whether filename has a .sql extension (case-insensitive)
func IsSQLFile(filename string) bool {
	return strings.HasSuffix(strings.ToLower(filename), ".sql")
}

// ClassifyFile determines the script kind from a file name
func ClassifyFile(filename string) ScriptKind {
	lower := strings.ToLower(filename)

	switch {
	case strings.Contains(lower, "dump"), strings.Contains(lower, "backup"):
		return KindDump
	case strings.Contains(lower, "seed"):
		return KindSeed
	default:
		return KindScript
	}
}
