package config

import (
	"fmt"
	"strings"

	"cqlbulk/internal/codec"
	"cqlbulk/internal/schema"
)

// TableDef translates Columns and the Keyspace/Table fields into a
// schema.TableDef, the shape schema.Engine synthesizes statements against.
func (s SchemaConfig) TableDef() (schema.TableDef, error) {
	if s.Table == "" {
		return schema.TableDef{}, fmt.Errorf("config: schema.table is required")
	}
	cols, err := parseColumns(s.Columns)
	if err != nil {
		return schema.TableDef{}, err
	}
	return schema.TableDef{
		Keyspace: s.Keyspace,
		Table:    s.Table,
		Columns:  cols,
	}, nil
}

// parseColumns parses a "name:internalType[:key]" comma-separated
// declaration into []schema.ColumnDef. InternalType is a plain string
// type, so the declared type name is used verbatim against
// codec.InternalText and its siblings without an enum translation step.
func parseColumns(decl string) ([]schema.ColumnDef, error) {
	decl = strings.TrimSpace(decl)
	if decl == "" {
		return nil, nil
	}
	entries := strings.Split(decl, ",")
	cols := make([]schema.ColumnDef, 0, len(entries))
	for _, entry := range entries {
		entry = strings.TrimSpace(entry)
		if entry == "" {
			continue
		}
		parts := strings.Split(entry, ":")
		if len(parts) < 2 || len(parts) > 3 {
			return nil, fmt.Errorf("config: malformed schema.columns entry %q", entry)
		}
		name := strings.TrimSpace(parts[0])
		internal := strings.TrimSpace(parts[1])
		if name == "" || internal == "" {
			return nil, fmt.Errorf("config: malformed schema.columns entry %q", entry)
		}
		isKey := false
		if len(parts) == 3 {
			switch strings.TrimSpace(parts[2]) {
			case "key":
				isKey = true
			case "":
			default:
				return nil, fmt.Errorf("config: unknown schema.columns qualifier %q in %q", parts[2], entry)
			}
		}
		cols = append(cols, schema.ColumnDef{
			Name:         name,
			Internal:     codec.InternalType(internal),
			IsRoutingKey: isKey,
		})
	}
	return cols, nil
}
