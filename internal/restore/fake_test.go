package restore

import (
	"context"
	"sync"

	"github.com/cybertec-postgresql/sqlrestore/internal/database"
)

// fakeTarget records executed statements in memory
type fakeTarget struct {
	mu        sync.Mutex
	driver    database.Driver
	execs     []string
	failOn    map[string]error
	blockOn   map[string]bool
	flushed   int
	flushErr  error
	commits   int
	rollbacks int
	closed    bool
}

func newFakeTarget() *fakeTarget {
	return &fakeTarget{
		driver:  database.DriverMySQL,
		failOn:  map[string]error{},
		blockOn: map[string]bool{},
	}
}

func (f *fakeTarget) Exec(ctx context.Context, sql string) error {
	f.mu.Lock()
	f.execs = append(f.execs, sql)
	err := f.failOn[sql]
	block := f.blockOn[sql]
	f.mu.Unlock()

	if block {
		<-ctx.Done()
		return ctx.Err()
	}
	return err
}

func (f *fakeTarget) InTransaction(ctx context.Context, fn func(database.Target) error) error {
	err := fn(f)
	f.mu.Lock()
	defer f.mu.Unlock()
	if err != nil {
		f.rollbacks++
		return err
	}
	f.commits++
	return nil
}

func (f *fakeTarget) Flush(ctx context.Context) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.flushed++
	return f.flushErr
}

func (f *fakeTarget) Driver() database.Driver { return f.driver }

func (f *fakeTarget) Close() error {
	f.closed = true
	return nil
}

func (f *fakeTarget) executed() []string {
	f.mu.Lock()
	defer f.mu.Unlock()
	return append([]string(nil), f.execs...)
}
