// Package schema is the schema/query synthesis contract spec §1 carves
// out of the core pipeline's scope: producing a prepared-statement
// template plus a field→bound-variable mapping for a table. Synthesizer
// is a minimal test fixture exercising that contract, grounded on the
// teacher's table-definition shape in internal/schema/ddl/infer.go
// (ColumnDef/TableDef, renamed into CQL terms).
package schema

import (
	"cqlbulk/internal/codec"
	"cqlbulk/internal/mapper"
)

// ColumnDef describes one bound column of a table: its name, the internal
// type the codec registry should target, and whether it participates in
// the statement's routing key.
type ColumnDef struct {
	Name         string
	Internal     codec.InternalType
	IsRoutingKey bool
}

// TableDef is the fully-qualified table this Engine synthesizes
// statements against.
type TableDef struct {
	Keyspace string
	Table    string
	Columns  []ColumnDef
}

// Engine produces prepared-statement templates for a TableDef's LOAD
// (insert) and UNLOAD (select) directions.
type Engine interface {
	InsertTemplate(table TableDef) (*mapper.Template, error)
	SelectTemplate(table TableDef) (*mapper.Template, error)
}
