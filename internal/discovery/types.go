package discovery

import "time"

// DiscoveredFile represents a SQL script discovered during filesystem traversal
type DiscoveredFile struct {
	Path         string     // Absolute path to file
	RelativePath string     // Path relative to search root
	Kind         ScriptKind // Dump, seed or plain script
	ModTime      time.Time  // Last modification time
	Size         int64      // Size in bytes
}

// ScriptKind is an informational classification of a script by file name
type ScriptKind int

const (
	KindScript ScriptKind = iota // Any other *.sql
	KindDump                     // Database dump
	KindSeed                     // Seed data
)

// String returns a string representation of ScriptKind
func (k ScriptKind) String() string {
	switch k {
	case KindScript:
		return "script"
	case KindDump:
		return "dump"
	case KindSeed:
		return "seed"
	default:
		return "unknown"
	}
}
