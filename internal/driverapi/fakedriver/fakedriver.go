// Package fakedriver is an in-memory driverapi.Driver used by executor
// and workflow tests: it records every statement it is asked to
// execute and lets a test script prime specific rows/positions to fail,
// mirroring dsbulk-style "primed mock server" end-to-end tests without a
// real database.
package fakedriver

import (
	"context"
	"errors"
	"sync"

	"cqlbulk/internal/batch"
	"cqlbulk/internal/driverapi"
	"cqlbulk/internal/mapper"
)

// Failure primes a specific CQL statement to fail, up to Times before it
// starts succeeding (Times == 0 means fail forever).
type Failure struct {
	CQL   string
	Err   error
	Times int
}

// Driver is a scriptable fake: rows for reads and failures for
// writes/batches/reads are configured up front, then Executed() reports
// exactly what was dispatched, in dispatch order.
type Driver struct {
	mu        sync.Mutex
	rows      map[string][]driverapi.Row
	failures  map[string]*Failure
	failCount map[string]int
	executed  []*mapper.Statement
	batches   []*batch.Batch
}

// New builds an empty fake driver.
func New() *Driver {
	return &Driver{
		rows:      make(map[string][]driverapi.Row),
		failures:  make(map[string]*Failure),
		failCount: make(map[string]int),
	}
}

// PrimeRows configures the rows ExecuteRead returns for statements with the
// given CQL template text.
func (d *Driver) PrimeRows(cql string, rows []driverapi.Row) {
	d.mu.Lock()
	defer d.mu.Unlock()
	d.rows[cql] = rows
}

// PrimeFailure configures a statement to fail.
func (d *Driver) PrimeFailure(f Failure) {
	d.mu.Lock()
	defer d.mu.Unlock()
	d.failures[f.CQL] = &f
}

// Executed returns every statement dispatched via ExecuteWrite,
// ExecuteBatch (each statement of the batch) or ExecuteRead, in dispatch
// order.
func (d *Driver) Executed() []*mapper.Statement {
	d.mu.Lock()
	defer d.mu.Unlock()
	out := make([]*mapper.Statement, len(d.executed))
	copy(out, d.executed)
	return out
}

// Batches returns every batch dispatched via ExecuteBatch, in dispatch order.
func (d *Driver) Batches() []*batch.Batch {
	d.mu.Lock()
	defer d.mu.Unlock()
	out := make([]*batch.Batch, len(d.batches))
	copy(out, d.batches)
	return out
}

func (d *Driver) checkFailure(cql string) error {
	d.mu.Lock()
	defer d.mu.Unlock()
	f, ok := d.failures[cql]
	if !ok {
		return nil
	}
	if f.Times > 0 && d.failCount[cql] >= f.Times {
		return nil
	}
	d.failCount[cql]++
	if f.Err != nil {
		return f.Err
	}
	return errors.New("fakedriver: primed failure")
}

func (d *Driver) ExecuteWrite(ctx context.Context, stmt *mapper.Statement) error {
	d.mu.Lock()
	d.executed = append(d.executed, stmt)
	d.mu.Unlock()
	return d.checkFailure(stmt.Template.CQL)
}

func (d *Driver) ExecuteBatch(ctx context.Context, b *batch.Batch) error {
	d.mu.Lock()
	d.batches = append(d.batches, b)
	d.executed = append(d.executed, b.Statements...)
	d.mu.Unlock()
	for _, stmt := range b.Statements {
		if err := d.checkFailure(stmt.Template.CQL); err != nil {
			return err
		}
	}
	return nil
}

func (d *Driver) ExecuteRead(ctx context.Context, stmt *mapper.Statement) (driverapi.RowIterator, error) {
	d.mu.Lock()
	d.executed = append(d.executed, stmt)
	rows := d.rows[stmt.Template.CQL]
	d.mu.Unlock()
	if err := d.checkFailure(stmt.Template.CQL); err != nil {
		return nil, err
	}
	return &rowIterator{rows: rows}, nil
}

type rowIterator struct {
	rows []driverapi.Row
	pos  int
}

func (it *rowIterator) Next(ctx context.Context) (driverapi.Row, bool, error) {
	if it.pos >= len(it.rows) {
		return nil, false, nil
	}
	row := it.rows[it.pos]
	it.pos++
	return row, true, nil
}

func (it *rowIterator) Close() error { return nil }
