package config

import (
	"testing"

	"cqlbulk/internal/codec"
)

func TestSchemaConfig_TableDef(t *testing.T) {
	s := SchemaConfig{
		Keyspace: "ks",
		Table:    "widgets",
		Columns:  "id:uuid:key, name:text ,qty:bigint",
	}
	table, err := s.TableDef()
	if err != nil {
		t.Fatalf("TableDef: %v", err)
	}
	if table.Keyspace != "ks" || table.Table != "widgets" {
		t.Fatalf("unexpected table identity: %+v", table)
	}
	if len(table.Columns) != 3 {
		t.Fatalf("expected 3 columns, got %d: %+v", len(table.Columns), table.Columns)
	}
	if table.Columns[0].Name != "id" || table.Columns[0].Internal != codec.InternalUUID || !table.Columns[0].IsRoutingKey {
		t.Fatalf("unexpected first column: %+v", table.Columns[0])
	}
	if table.Columns[1].Name != "name" || table.Columns[1].IsRoutingKey {
		t.Fatalf("unexpected second column: %+v", table.Columns[1])
	}
}

func TestSchemaConfig_TableDefRequiresTable(t *testing.T) {
	_, err := SchemaConfig{Columns: "id:text"}.TableDef()
	if err == nil {
		t.Fatalf("expected error for missing table")
	}
}

func TestParseColumns_RejectsMalformedEntry(t *testing.T) {
	if _, err := parseColumns("id"); err == nil {
		t.Fatalf("expected error for malformed entry")
	}
	if _, err := parseColumns("id:text:bogus"); err == nil {
		t.Fatalf("expected error for unknown qualifier")
	}
}

func TestParseColumns_EmptyDeclarationReturnsNil(t *testing.T) {
	cols, err := parseColumns("")
	if err != nil {
		t.Fatalf("parseColumns: %v", err)
	}
	if cols != nil {
		t.Fatalf("expected nil columns, got %+v", cols)
	}
}
