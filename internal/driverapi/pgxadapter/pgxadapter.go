// Package pgxadapter is a pgx-backed driverapi.Driver: a reference
// exerciser of the Driver contract against a real wire protocol, grounded
// on the teacher's postgres.Repository (a pgxpool.Pool wrapped in a
// narrow, storage-agnostic interface).
package pgxadapter

import (
	"context"
	"fmt"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"

	"cqlbulk/internal/batch"
	"cqlbulk/internal/driverapi"
	"cqlbulk/internal/mapper"
)

// Driver executes statements against a pgxpool.Pool. Templates are
// expected to carry whatever placeholder syntax the target backend wants
// ($1, $2, ... for Postgres); this package does not rewrite them, since
// query synthesis is out of scope for the core pipeline (spec §1).
type Driver struct {
	pool *pgxpool.Pool
}

// New opens a connection pool against dsn.
func New(ctx context.Context, dsn string) (*Driver, error) {
	pool, err := pgxpool.New(ctx, dsn)
	if err != nil {
		return nil, fmt.Errorf("pgxadapter: pgxpool.New: %w", err)
	}
	return &Driver{pool: pool}, nil
}

// Close releases the pool. Safe to call more than once.
func (d *Driver) Close() { d.pool.Close() }

// ExecuteWrite implements driverapi.Driver.
func (d *Driver) ExecuteWrite(ctx context.Context, stmt *mapper.Statement) error {
	_, err := d.pool.Exec(ctx, stmt.Template.CQL, driverapi.OrderedArgs(stmt)...)
	if err != nil {
		return fmt.Errorf("pgxadapter: exec: %w", err)
	}
	return nil
}

// ExecuteBatch implements driverapi.Driver. Statements run sequentially
// within one transaction so the batch either all lands or all rolls back,
// the closest pgx analogue to the token-bucket batches spec §4.3 produces.
func (d *Driver) ExecuteBatch(ctx context.Context, b *batch.Batch) error {
	tx, err := d.pool.Begin(ctx)
	if err != nil {
		return fmt.Errorf("pgxadapter: begin: %w", err)
	}
	defer tx.Rollback(ctx)

	for _, stmt := range b.Statements {
		if _, err := tx.Exec(ctx, stmt.Template.CQL, driverapi.OrderedArgs(stmt)...); err != nil {
			return fmt.Errorf("pgxadapter: batch exec: %w", err)
		}
	}
	if err := tx.Commit(ctx); err != nil {
		return fmt.Errorf("pgxadapter: commit: %w", err)
	}
	return nil
}

// ExecuteRead implements driverapi.Driver.
func (d *Driver) ExecuteRead(ctx context.Context, stmt *mapper.Statement) (driverapi.RowIterator, error) {
	rows, err := d.pool.Query(ctx, stmt.Template.CQL, driverapi.OrderedArgs(stmt)...)
	if err != nil {
		return nil, fmt.Errorf("pgxadapter: query: %w", err)
	}
	return &rowIterator{rows: rows}, nil
}

type rowIterator struct {
	rows pgx.Rows
}

func (it *rowIterator) Next(ctx context.Context) (driverapi.Row, bool, error) {
	if !it.rows.Next() {
		if err := it.rows.Err(); err != nil {
			return nil, false, fmt.Errorf("pgxadapter: row iteration: %w", err)
		}
		return nil, false, nil
	}

	values, err := it.rows.Values()
	if err != nil {
		return nil, false, fmt.Errorf("pgxadapter: row values: %w", err)
	}
	row := make(driverapi.Row, len(values))
	for i, fd := range it.rows.FieldDescriptions() {
		row[fd.Name] = values[i]
	}
	return row, true, nil
}

func (it *rowIterator) Close() error {
	it.rows.Close()
	return nil
}
