package report

import (
	"io"
	"strings"

	"github.com/cybertec-postgresql/sqlrestore/internal/restore"
	"github.com/cybertec-postgresql/sqlrestore/internal/splitter"
)

// delimiterCandidates are tried in order for statements that contain the
// default terminator
var delimiterCandidates = []string{"$$", "//", "@@", "~~"}

// SQLReporter re-joins statements into a script that splits back into the
// same statements
type SQLReporter struct{}

// Format implements StatementFormatter
func (r *SQLReporter) Format(results []*restore.SplitResult, writer io.Writer) error {
	var b strings.Builder
	for _, res := range results {
		b.WriteString("-- " + res.File.RelativePath + "\n")
		for _, stmt := range res.Statements {
			writeStatement(&b, stmt.SQL)
		}
	}
	_, err := io.WriteString(writer, b.String())
	return err
}

// Join renders statements as a single script. splitter.Split on the result
// returns the statements again when they came from splitter.Split. A
// statement that ends inside an open quote gets no terminator, so it must
// be the last one.
func Join(statements []string) string {
	var b strings.Builder
	for _, sql := range statements {
		writeStatement(&b, sql)
	}
	return b.String()
}

func writeStatement(b *strings.Builder, sql string) {
	guarded, open := splitter.Guard(sql)

	if !strings.Contains(guarded, splitter.DefaultTerminator) {
		b.WriteString(guarded)
		if !open {
			b.WriteString(splitter.DefaultTerminator + "\n")
		}
		return
	}

	// The custom terminator goes on its own line so it cannot merge with
	// the statement's trailing characters
	delim := pickDelimiter(guarded)
	b.WriteString("DELIMITER " + delim + "\n")
	b.WriteString(guarded)
	if open {
		return
	}
	b.WriteString("\n" + delim + "\n")
	b.WriteString("DELIMITER " + splitter.DefaultTerminator + "\n")
}

// pickDelimiter returns a terminator that does not occur in sql
func pickDelimiter(sql string) string {
	for _, d := range delimiterCandidates {
		if !strings.Contains(sql, d) {
			return d
		}
	}
	d := "$$"
	for strings.Contains(sql, d) {
		d += "$"
	}
	return d
}

// Name returns the name of this reporter
func (r *SQLReporter) Name() string {
	return "sql"
}
