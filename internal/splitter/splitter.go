// Package splitter turns a multi-statement SQL script into individually
// executable statements.
//
// The scanner is a single forward pass over the script. It understands
// single-quoted, double-quoted and backtick-quoted regions, backslash and
// doubled-quote escapes, "--", "#" and "/* */" comments, and the DELIMITER
// directive written by mysqldump and the mysql client for stored routines.
// It never fails: malformed input is segmented as well as possible and left
// for the database to reject.
//
// Usage:
//
//	for _, stmt := range splitter.Split(script) {
//	    // execute stmt
//	}
package splitter

import "strings"

// DefaultTerminator is the statement terminator in effect until a DELIMITER
// directive replaces it.
const DefaultTerminator = ";"

// byteOrderMark is stripped once from the start of a script.
const byteOrderMark = "\uFEFF"

// Statement is one complete statement together with the 1-indexed line on
// which its first non-blank character appears.
type Statement struct {
	SQL  string
	Line int
}

// Split splits script into trimmed, non-empty statements in source order.
// The active terminator and any DELIMITER lines are not part of the output.
func Split(script string) []string {
	stmts := SplitStatements(script)
	out := make([]string, 0, len(stmts))
	for _, stmt := range stmts {
		out = append(out, stmt.SQL)
	}
	return out
}

// SplitBytes is Split for raw file content. A nil slice yields an empty list.
func SplitBytes(script []byte) []string {
	if script == nil {
		return []string{}
	}
	return Split(string(script))
}

// SplitStatements is Split with line information attached to each statement.
func SplitStatements(script string) []Statement {
	s := newState(script)
	s.run()
	return s.statements
}

// isSpace reports whether b is ASCII whitespace.
func isSpace(b byte) bool {
	switch b {
	case ' ', '\t', '\n', '\r', '\f', '\v':
		return true
	}
	return false
}

// isLineBreak reports whether b ends a line.
func isLineBreak(b byte) bool {
	return b == '\n' || b == '\r'
}

// trimBOM removes a single leading byte-order mark.
func trimBOM(script string) string {
	return strings.TrimPrefix(script, byteOrderMark)
}
