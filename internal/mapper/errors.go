package mapper

import (
	"fmt"

	"cqlbulk/internal/record"
)

// ExtraField is raised when a record carries a field the mapping does not
// consume and the context's AllowExtraFields policy is false.
type ExtraField struct {
	Field record.Field
}

func (e *ExtraField) Error() string {
	return fmt.Sprintf("mapper: unmapped field %q present on record", e.Field.String())
}

// MissingField is raised when a mapping entry references a record field
// that is absent and the context's AllowMissingFields policy is false.
type MissingField struct {
	Field record.Field
}

func (e *MissingField) Error() string {
	return fmt.Sprintf("mapper: mapped field %q absent from record", e.Field.String())
}

// CodecFailure wraps a per-field codec error with the offending bound
// variable, so bad-record files can report which column failed.
type CodecFailure struct {
	Variable string
	Cause    error
}

func (e *CodecFailure) Error() string {
	return fmt.Sprintf("mapper: field %q: %v", e.Variable, e.Cause)
}

func (e *CodecFailure) Unwrap() error { return e.Cause }

// UnknownFunction is raised when a mapping entry references a function the
// mapper does not implement.
type UnknownFunction struct {
	Name string
}

func (e *UnknownFunction) Error() string {
	return fmt.Sprintf("mapper: unknown function %q()", e.Name)
}
