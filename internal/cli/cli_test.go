package cli

import (
	"bytes"
	"context"
	"encoding/json"
	stderrors "errors"
	"os"
	"path/filepath"
	"strings"
	"sync"
	"testing"

	"github.com/cybertec-postgresql/sqlrestore/internal/database"
	"github.com/cybertec-postgresql/sqlrestore/internal/journal"
	"github.com/cybertec-postgresql/sqlrestore/internal/report"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// recordingTarget is a database.Target that keeps executed statements
type recordingTarget struct {
	mu     sync.Mutex
	execs  []string
	failOn string
}

func (r *recordingTarget) Exec(ctx context.Context, sql string) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.execs = append(r.execs, sql)
	if sql == r.failOn {
		return stderrors.New("syntax error")
	}
	return nil
}

func (r *recordingTarget) InTransaction(ctx context.Context, fn func(database.Target) error) error {
	return fn(r)
}

func (r *recordingTarget) Flush(ctx context.Context) error { return nil }
func (r *recordingTarget) Driver() database.Driver         { return database.DriverMySQL }
func (r *recordingTarget) Close() error                    { return nil }

func writeScriptDir(t *testing.T, files map[string]string) string {
	t.Helper()
	dir := t.TempDir()
	for name, body := range files {
		path := filepath.Join(dir, name)
		require.NoError(t, os.MkdirAll(filepath.Dir(path), 0o755))
		require.NoError(t, os.WriteFile(path, []byte(body), 0o644))
	}
	return dir
}

var fixtureScripts = map[string]string{
	"01_schema.sql": "CREATE TABLE kelas (id INT PRIMARY KEY, nama VARCHAR(20));\n",
	"02_procs.sql":  "DELIMITER $$\nCREATE PROCEDURE isi()\nBEGIN\n  INSERT INTO kelas VALUES (1, 'X;A');\nEND$$\nDELIMITER ;\n",
	"03_seed.sql":   "CALL isi();\nSELECT * FROM kelas;\n",
}

func testConfig(t *testing.T) *Config {
	cfg := DefaultConfig
	cfg.Database = "sekolah"
	cfg.JournalFile = filepath.Join(t.TempDir(), "journal.json")
	return &cfg
}

func TestSplitTo(t *testing.T) {
	dir := writeScriptDir(t, fixtureScripts)

	var buf bytes.Buffer
	require.NoError(t, SplitTo(context.Background(), dir, report.FormatJSON, 2, &buf))

	var stmts []report.StatementJSON
	require.NoError(t, json.Unmarshal(buf.Bytes(), &stmts))
	require.Len(t, stmts, 4)
	assert.Equal(t, "01_schema.sql", stmts[0].File)
	assert.Equal(t, "02_procs.sql", stmts[1].File)
	assert.Equal(t, 2, stmts[1].Line)
	assert.Contains(t, stmts[1].SQL, "INSERT INTO kelas VALUES (1, 'X;A');")
	assert.Equal(t, "SELECT * FROM kelas", stmts[3].SQL)
}

func TestSplit_InvalidFormat(t *testing.T) {
	err := Split(context.Background(), t.TempDir(), "yaml", "-", 1)
	assert.ErrorContains(t, err, "unsupported format")
}

func TestSplit_ToFile(t *testing.T) {
	dir := writeScriptDir(t, fixtureScripts)
	out := filepath.Join(t.TempDir(), "out.sql")

	require.NoError(t, Split(context.Background(), dir, "sql", out, 1))
	data, err := os.ReadFile(out)
	require.NoError(t, err)
	assert.Contains(t, string(data), "DELIMITER $$")
}

func TestRestoreWith(t *testing.T) {
	dir := writeScriptDir(t, fixtureScripts)
	cfg := testConfig(t)
	target := &recordingTarget{}

	var out bytes.Buffer
	code, err := RestoreWith(context.Background(), cfg, dir, &out, target)
	require.NoError(t, err)
	assert.Equal(t, 0, code)
	assert.Len(t, target.execs, 4)
	assert.Contains(t, out.String(), "3 succeeded, 0 failed")

	j, err := journal.NewStore(cfg.JournalFile).Load()
	require.NoError(t, err)
	assert.Equal(t, "mysql", j.Driver)
	assert.Len(t, j.Runs, 3)
}

func TestRestoreWith_StopsOnFailure(t *testing.T) {
	dir := writeScriptDir(t, fixtureScripts)
	cfg := testConfig(t)
	target := &recordingTarget{failOn: "CREATE TABLE kelas (id INT PRIMARY KEY, nama VARCHAR(20))"}

	var out bytes.Buffer
	code, err := RestoreWith(context.Background(), cfg, dir, &out, target)
	require.NoError(t, err)
	assert.Equal(t, 1, code)
	assert.Len(t, target.execs, 1)
	assert.Contains(t, out.String(), "2 script(s) not attempted")
}

func TestRestore_DryRun(t *testing.T) {
	dir := writeScriptDir(t, fixtureScripts)
	cfg := testConfig(t)
	cfg.DryRun = true

	var out bytes.Buffer
	code, err := Restore(context.Background(), cfg, dir, &out)
	require.NoError(t, err)
	assert.Equal(t, 0, code)
	assert.Contains(t, out.String(), "0 executed, 0 failed, 4 total")
}

func TestRestore_NoScripts(t *testing.T) {
	var out bytes.Buffer
	code, err := Restore(context.Background(), testConfig(t), t.TempDir(), &out)
	require.NoError(t, err)
	assert.Equal(t, 0, code)
	assert.Contains(t, out.String(), "No SQL scripts found")
}

func TestRestore_UnknownDriver(t *testing.T) {
	cfg := testConfig(t)
	cfg.Driver = "oracle"
	code, err := Restore(context.Background(), cfg, t.TempDir(), &bytes.Buffer{})
	assert.Error(t, err)
	assert.Equal(t, 2, code)
}

func TestReportTo(t *testing.T) {
	dir := writeScriptDir(t, fixtureScripts)
	cfg := testConfig(t)
	_, err := RestoreWith(context.Background(), cfg, dir, &bytes.Buffer{}, &recordingTarget{})
	require.NoError(t, err)

	var buf bytes.Buffer
	require.NoError(t, ReportTo(cfg.JournalFile, report.FormatText, &buf))
	assert.True(t, strings.HasPrefix(buf.String(), "Restore journal (mysql"))
	assert.Contains(t, buf.String(), "[succeeded] 02_procs.sql")
}

func TestReport_MissingJournal(t *testing.T) {
	err := Report(filepath.Join(t.TempDir(), "none.json"), "text", "-")
	assert.ErrorContains(t, err, "journal file not found")
}

func TestReport_InvalidFormat(t *testing.T) {
	err := Report("whatever.json", "sql", "-")
	assert.ErrorContains(t, err, "unsupported format")
}
