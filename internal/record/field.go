package record

import "strconv"

// Field identifies a single column of a Record, either by its 0-based
// position or by name. Ordering on indexed fields is numeric; ordering on
// named fields follows the insertion order of the declaring mapping.
type Field struct {
	name    string
	index   int
	indexed bool
}

// IndexedField returns a Field addressed by position. idx must be >= 0.
func IndexedField(idx int) Field {
	return Field{index: idx, indexed: true}
}

// NamedField returns a Field addressed by name. name must be non-empty.
func NamedField(name string) Field {
	return Field{name: name}
}

// Indexed reports whether the field is positional.
func (f Field) Indexed() bool { return f.indexed }

// Index returns the 0-based position. Only meaningful when Indexed() is true.
func (f Field) Index() int { return f.index }

// Name returns the field name. Only meaningful when Indexed() is false.
func (f Field) Name() string { return f.name }

// String renders the field the way it would appear in a mapping or error
// message: "0", "1", ... for indexed fields, the bare name otherwise.
func (f Field) String() string {
	if f.indexed {
		return strconv.Itoa(f.index)
	}
	return f.name
}

// Less orders two fields: numeric order for indexed fields, and otherwise
// false (named fields keep the insertion order of their declaring mapping,
// which Less cannot see — callers sort named fields by their own index).
func (f Field) Less(other Field) bool {
	if f.indexed && other.indexed {
		return f.index < other.index
	}
	return false
}
