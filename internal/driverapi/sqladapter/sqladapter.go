// Package sqladapter is a database/sql-backed driverapi.Driver, usable
// with any registered driver name; cqlbulk registers mysql, mssql and
// sqlite via blank imports in drivers.go. Grounded on the teacher's
// mssql.Repository and sqlite.Repository (both sql.Open-based, unlike the
// Postgres backend which goes straight to pgxpool).
package sqladapter

import (
	"context"
	"database/sql"
	"fmt"

	"cqlbulk/internal/batch"
	"cqlbulk/internal/driverapi"
	"cqlbulk/internal/mapper"
)

// Driver executes statements against a *sql.DB. Like pgxadapter, it does
// not rewrite placeholder syntax; the template supplied must already use
// the target driver's convention (? for MySQL/SQLite, @pN for mssql).
type Driver struct {
	db *sql.DB
}

// Open opens a database handle for driverName (one of the names
// registered by drivers.go) against dsn.
func Open(driverName, dsn string) (*Driver, error) {
	db, err := sql.Open(driverName, dsn)
	if err != nil {
		return nil, fmt.Errorf("sqladapter: sql.Open(%s): %w", driverName, err)
	}
	return &Driver{db: db}, nil
}

// Close releases the handle.
func (d *Driver) Close() error { return d.db.Close() }

// ExecuteWrite implements driverapi.Driver.
func (d *Driver) ExecuteWrite(ctx context.Context, stmt *mapper.Statement) error {
	_, err := d.db.ExecContext(ctx, stmt.Template.CQL, driverapi.OrderedArgs(stmt)...)
	if err != nil {
		return fmt.Errorf("sqladapter: exec: %w", err)
	}
	return nil
}

// ExecuteBatch implements driverapi.Driver, running every statement inside
// one transaction.
func (d *Driver) ExecuteBatch(ctx context.Context, b *batch.Batch) error {
	tx, err := d.db.BeginTx(ctx, nil)
	if err != nil {
		return fmt.Errorf("sqladapter: begin: %w", err)
	}
	defer tx.Rollback()

	for _, stmt := range b.Statements {
		if _, err := tx.ExecContext(ctx, stmt.Template.CQL, driverapi.OrderedArgs(stmt)...); err != nil {
			return fmt.Errorf("sqladapter: batch exec: %w", err)
		}
	}
	if err := tx.Commit(); err != nil {
		return fmt.Errorf("sqladapter: commit: %w", err)
	}
	return nil
}

// ExecuteRead implements driverapi.Driver.
func (d *Driver) ExecuteRead(ctx context.Context, stmt *mapper.Statement) (driverapi.RowIterator, error) {
	rows, err := d.db.QueryContext(ctx, stmt.Template.CQL, driverapi.OrderedArgs(stmt)...)
	if err != nil {
		return nil, fmt.Errorf("sqladapter: query: %w", err)
	}
	cols, err := rows.Columns()
	if err != nil {
		rows.Close()
		return nil, fmt.Errorf("sqladapter: columns: %w", err)
	}
	return &rowIterator{rows: rows, cols: cols}, nil
}

type rowIterator struct {
	rows *sql.Rows
	cols []string
}

func (it *rowIterator) Next(ctx context.Context) (driverapi.Row, bool, error) {
	if !it.rows.Next() {
		if err := it.rows.Err(); err != nil {
			return nil, false, fmt.Errorf("sqladapter: row iteration: %w", err)
		}
		return nil, false, nil
	}

	values := make([]any, len(it.cols))
	ptrs := make([]any, len(it.cols))
	for i := range values {
		ptrs[i] = &values[i]
	}
	if err := it.rows.Scan(ptrs...); err != nil {
		return nil, false, fmt.Errorf("sqladapter: scan: %w", err)
	}

	row := make(driverapi.Row, len(it.cols))
	for i, name := range it.cols {
		row[name] = values[i]
	}
	return row, true, nil
}

func (it *rowIterator) Close() error {
	return it.rows.Close()
}
