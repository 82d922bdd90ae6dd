package record

import "fmt"

// Entry is one (Field, Value) pair inside a Record, in emission order.
type Entry struct {
	Field Field
	Value any
}

// Record is an ordered sequence of (Field, Value) pairs produced by a
// connector, carrying metadata about its origin: the opaque source
// representation (e.g. the raw line of text), the resource it was read
// from, and its 1-based position within that resource.
//
// A Record with a non-nil cause is an ErrorRecord (spec: "fields empty,
// carries a cause"): IsError reports true, Entries is empty, and Get always
// misses.
type Record struct {
	source   any
	resource *Resource
	position int64
	entries  []Entry
	cause    error
}

// New builds a normal Record. position must be >= 1.
func New(source any, resource *Resource, position int64, entries []Entry) (*Record, error) {
	if position < 1 {
		return nil, fmt.Errorf("record: position must be >= 1, got %d", position)
	}
	return &Record{source: source, resource: resource, position: position, entries: entries}, nil
}

// NewError builds an ErrorRecord: a positional placeholder for a record the
// connector could not fully parse. Its field set is always empty.
func NewError(source any, resource *Resource, position int64, cause error) (*Record, error) {
	if position < 1 {
		return nil, fmt.Errorf("record: position must be >= 1, got %d", position)
	}
	if cause == nil {
		return nil, fmt.Errorf("record: error record requires a non-nil cause")
	}
	return &Record{source: source, resource: resource, position: position, cause: cause}, nil
}

// IsError reports whether this Record is an ErrorRecord.
func (r *Record) IsError() bool { return r.cause != nil }

// Cause returns the underlying parse failure for an ErrorRecord, or nil for
// a normal Record.
func (r *Record) Cause() error { return r.cause }

// Source returns the record's opaque original representation (e.g. the raw
// source line), used for bad-record reporting.
func (r *Record) Source() any { return r.source }

// Resource returns the URI identifying the record's origin.
func (r *Record) Resource() *Resource { return r.resource }

// Position returns the record's 1-based ordinal within its resource.
func (r *Record) Position() int64 { return r.position }

// Entries returns the record's (Field, Value) pairs in emission order. Empty
// for an ErrorRecord.
func (r *Record) Entries() []Entry {
	return r.entries
}

// Get returns the value bound to field, if present.
func (r *Record) Get(field Field) (any, bool) {
	for _, e := range r.entries {
		if e.Field == field {
			return e.Value, true
		}
	}
	return nil, false
}

// Fields returns the set of fields present on the record, in entry order.
func (r *Record) Fields() []Field {
	fields := make([]Field, len(r.entries))
	for i, e := range r.entries {
		fields[i] = e.Field
	}
	return fields
}
