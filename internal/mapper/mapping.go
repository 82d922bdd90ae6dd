package mapper

import (
	"fmt"
	"strconv"
	"strings"

	"cqlbulk/internal/record"
)

// SourceKind distinguishes the three shapes a mapping entry's right-hand
// side may take.
type SourceKind int

const (
	// SourceFieldRef binds a variable to a record field, by name or index.
	SourceFieldRef SourceKind = iota
	// SourceLiteral binds a variable to a fixed constant value.
	SourceLiteral
	// SourceFunction binds a variable to the result of a built-in,
	// zero-argument function (e.g. now()).
	SourceFunction
)

// Source is the right-hand side of one mapping entry.
type Source struct {
	Kind     SourceKind
	Field    record.Field // valid when Kind == SourceFieldRef
	Literal  string       // valid when Kind == SourceLiteral
	Function string       // valid when Kind == SourceFunction
}

// Entry is one "variable = source" declaration.
type Entry struct {
	Variable string
	Source   Source
}

// Mapping is a parsed mapping declaration: an ordered list of entries plus
// whether the declaration addresses record fields by name or by index.
type Mapping struct {
	Entries []Entry
	Indexed bool
}

// ParseMapping parses a comma-separated "variable=source" declaration, the
// shape configured under schema.mapping. Each source is one of:
//
//	name()       a built-in function reference (zero-argument, trailing
//	             parentheses)
//	'literal'    a single-quoted literal constant
//	col or 3     a field reference, by name or (if the declaration is
//	             indexed) by zero-based position
//
// Whitespace around entries and around '=' is ignored. An empty declaration
// is valid and produces a Mapping with no entries (nothing is bound).
func ParseMapping(decl string, indexed bool) (*Mapping, error) {
	decl = strings.TrimSpace(decl)
	m := &Mapping{Indexed: indexed}
	if decl == "" {
		return m, nil
	}
	for _, raw := range strings.Split(decl, ",") {
		raw = strings.TrimSpace(raw)
		if raw == "" {
			continue
		}
		eq := strings.IndexByte(raw, '=')
		if eq < 0 {
			return nil, fmt.Errorf("mapper: malformed entry %q: missing '='", raw)
		}
		variable := strings.TrimSpace(raw[:eq])
		rhs := strings.TrimSpace(raw[eq+1:])
		if variable == "" {
			return nil, fmt.Errorf("mapper: malformed entry %q: empty variable name", raw)
		}
		src, err := parseSource(rhs, indexed)
		if err != nil {
			return nil, fmt.Errorf("mapper: entry %q: %w", raw, err)
		}
		m.Entries = append(m.Entries, Entry{Variable: variable, Source: src})
	}
	return m, nil
}

func parseSource(rhs string, indexed bool) (Source, error) {
	if rhs == "" {
		return Source{}, fmt.Errorf("empty source")
	}
	if strings.HasSuffix(rhs, "()") {
		return Source{Kind: SourceFunction, Function: strings.TrimSuffix(rhs, "()")}, nil
	}
	if len(rhs) >= 2 && rhs[0] == '\'' && rhs[len(rhs)-1] == '\'' {
		return Source{Kind: SourceLiteral, Literal: rhs[1 : len(rhs)-1]}, nil
	}
	if indexed {
		idx, err := strconv.Atoi(rhs)
		if err != nil {
			return Source{}, fmt.Errorf("expected a field index, got %q", rhs)
		}
		return Source{Kind: SourceFieldRef, Field: record.IndexedField(idx)}, nil
	}
	return Source{Kind: SourceFieldRef, Field: record.NamedField(rhs)}, nil
}
