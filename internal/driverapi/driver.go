// Package driverapi defines the wire-level driver contract the Bulk
// Executor consumes: prepare/execute of bound statements and batches, and
// paged row iteration for reads. This package is a contract boundary
// (spec §1 places schema/query synthesis and the concrete wire protocol
// out of scope); concrete adapters live in pgxadapter, sqladapter and, for
// tests, fakedriver.
package driverapi

import (
	"context"
	"fmt"

	"cqlbulk/internal/batch"
	"cqlbulk/internal/mapper"
)

// Row is a single result row, keyed by bound-variable/column name.
type Row map[string]any

// RowIterator pages through a read statement's results. Next blocks until
// either a row is available, the iterator is exhausted (more == false), or
// ctx is cancelled. Close releases the iterator's resources and must be
// safe to call more than once.
type RowIterator interface {
	Next(ctx context.Context) (row Row, more bool, err error)
	Close() error
}

// Driver is the contract the Bulk Executor drives. Implementations are
// expected to be internally safe for concurrent use by any number of
// executor goroutines (spec §5: "the driver session is shared across all
// executor consumers; the driver is expected to be internally
// thread-safe").
type Driver interface {
	ExecuteWrite(ctx context.Context, stmt *mapper.Statement) error
	ExecuteBatch(ctx context.Context, b *batch.Batch) error
	ExecuteRead(ctx context.Context, stmt *mapper.Statement) (RowIterator, error)
}

// ReplicaHinter is an optional capability a Driver may implement to expose
// per-statement replica ownership. Nothing in this module calls it: the
// batching engine's REPLICA_SET grouping mode reads Statement.ReplicaHints
// directly.
type ReplicaHinter interface {
	ReplicaHints(ctx context.Context, stmt *mapper.Statement) ([]string, error)
}

// OrderedArgs renders stmt's bound values in the template's declared
// variable order, the shape most database/sql and pgx call conventions
// expect for positional placeholders.
func OrderedArgs(stmt *mapper.Statement) []any {
	args := make([]any, len(stmt.Template.Variables))
	for i, v := range stmt.Template.Variables {
		args[i] = stmt.Values[v.Name]
	}
	return args
}

// UnsupportedOperation is returned by adapters that implement only part of
// the Driver contract (for example a read-only fixture).
type UnsupportedOperation struct {
	Operation string
}

func (e *UnsupportedOperation) Error() string {
	return fmt.Sprintf("driverapi: %s is not supported by this driver", e.Operation)
}
