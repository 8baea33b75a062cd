package errors

import (
	stderrors "errors"
	"fmt"
	"strconv"

	"github.com/go-sql-driver/mysql"
	"github.com/jackc/pgx/v5/pgconn"
)

// ConnectionError represents a database connection failure
type ConnectionError struct {
	Driver     string
	Host       string
	Port       int
	Message    string
	Suggestion string
}

func (e *ConnectionError) Error() string {
	msg := "failed to connect"
	if e.Driver != "" {
		msg += " to " + e.Driver
	}
	if e.Host != "" {
		msg += fmt.Sprintf(" at %s:%d", e.Host, e.Port)
	}
	msg += ": " + e.Message
	if e.Suggestion != "" {
		msg += "\nSuggestion: " + e.Suggestion
	}
	return msg
}

// NewConnectionError creates a new ConnectionError
func NewConnectionError(driver, host string, port int, message, suggestion string) *ConnectionError {
	return &ConnectionError{
		Driver:     driver,
		Host:       host,
		Port:       port,
		Message:    message,
		Suggestion: suggestion,
	}
}

// StatementError represents the failure of one statement of a script
type StatementError struct {
	Script string // Script path
	Index  int    // 1-indexed statement number
	Line   int    // Line of the statement in the script
	SQL    string
	Code   string // SQLSTATE or MySQL error number, if known
	Err    error
}

func (e *StatementError) Error() string {
	loc := fmt.Sprintf("%s:%d", e.Script, e.Line)
	if e.Code != "" {
		return fmt.Sprintf("%s: statement %d failed: [%s] %v", loc, e.Index, e.Code, e.Err)
	}
	return fmt.Sprintf("%s: statement %d failed: %v", loc, e.Index, e.Err)
}

func (e *StatementError) Unwrap() error {
	return e.Err
}

// NewStatementError creates a new StatementError, extracting the driver error code from err
func NewStatementError(script string, index, line int, sql string, err error) *StatementError {
	return &StatementError{
		Script: script,
		Index:  index,
		Line:   line,
		SQL:    sql,
		Code:   CodeOf(err),
		Err:    err,
	}
}

// ScriptError represents a failure to load a script
type ScriptError struct {
	File    string
	Message string
	Err     error
}

func (e *ScriptError) Error() string {
	if e.Err != nil {
		return fmt.Sprintf("script %s: %s: %v", e.File, e.Message, e.Err)
	}
	return fmt.Sprintf("script %s: %s", e.File, e.Message)
}

func (e *ScriptError) Unwrap() error {
	return e.Err
}

// NewScriptError creates a new ScriptError
func NewScriptError(file, message string, err error) *ScriptError {
	return &ScriptError{
		File:    file,
		Message: message,
		Err:     err,
	}
}

// CodeOf returns the SQLSTATE of a PostgreSQL error or the error number of a
// MySQL error found in err's chain, or "" for anything else.
func CodeOf(err error) string {
	var pgErr *pgconn.PgError
	if stderrors.As(err, &pgErr) {
		return pgErr.Code
	}
	var myErr *mysql.MySQLError
	if stderrors.As(err, &myErr) {
		return strconv.Itoa(int(myErr.Number))
	}
	return ""
}
