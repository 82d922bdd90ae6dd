package schema

import (
	"fmt"
	"strings"

	"cqlbulk/internal/mapper"
)

// Synthesizer is a minimal INSERT/SELECT template generator, the schema
// Engine test fixture named in the schema package's own doc comment: a
// CQL string with one named placeholder (":column") per column, in column
// order, plus the Variables list the mapper and batcher need, derived
// straight from a TableDef.
type Synthesizer struct {
	Consistency string
}

func (s *Synthesizer) InsertTemplate(table TableDef) (*mapper.Template, error) {
	if err := validate(table); err != nil {
		return nil, err
	}

	names := make([]string, len(table.Columns))
	placeholders := make([]string, len(table.Columns))
	vars := make([]mapper.Variable, len(table.Columns))
	for i, col := range table.Columns {
		names[i] = col.Name
		placeholders[i] = ":" + col.Name
		vars[i] = mapper.Variable{Name: col.Name, Internal: col.Internal, IsRoutingKey: col.IsRoutingKey}
	}

	cql := fmt.Sprintf("INSERT INTO %s (%s) VALUES (%s)",
		fqn(table), strings.Join(names, ", "), strings.Join(placeholders, ", "))
	return &mapper.Template{CQL: cql, Variables: vars, Consistency: s.Consistency}, nil
}

func (s *Synthesizer) SelectTemplate(table TableDef) (*mapper.Template, error) {
	if err := validate(table); err != nil {
		return nil, err
	}

	names := make([]string, len(table.Columns))
	vars := make([]mapper.Variable, len(table.Columns))
	for i, col := range table.Columns {
		names[i] = col.Name
		vars[i] = mapper.Variable{Name: col.Name, Internal: col.Internal, IsRoutingKey: col.IsRoutingKey}
	}

	cql := fmt.Sprintf("SELECT %s FROM %s", strings.Join(names, ", "), fqn(table))
	return &mapper.Template{CQL: cql, Variables: vars, Consistency: s.Consistency}, nil
}

func fqn(table TableDef) string {
	if table.Keyspace == "" {
		return table.Table
	}
	return table.Keyspace + "." + table.Table
}

func validate(table TableDef) error {
	if table.Table == "" {
		return fmt.Errorf("schema: table name is required")
	}
	if len(table.Columns) == 0 {
		return fmt.Errorf("schema: table %q has no columns", table.Table)
	}
	return nil
}
