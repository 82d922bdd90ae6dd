package codec

import "fmt"

// ExternalType identifies the external representation a Codec converts
// to/from — the connector's native value shape.
type ExternalType string

const (
	// ExternalString is a textual external representation (CSV fields,
	// query string parameters, ...).
	ExternalString ExternalType = "string"
	// ExternalJSON is a parsed JSON value (bool, float64, string, nil,
	// []any, map[string]any) as produced by a line-delimited-JSON
	// connector.
	ExternalJSON ExternalType = "json"
)

// InternalType identifies the internal CQL-like type a Codec converts
// to/from.
type InternalType string

const (
	InternalText      InternalType = "text"
	InternalInt       InternalType = "int"
	InternalBigInt    InternalType = "bigint"
	InternalFloat     InternalType = "float"
	InternalDouble    InternalType = "double"
	InternalDecimal   InternalType = "decimal"
	InternalBoolean   InternalType = "boolean"
	InternalTimestamp InternalType = "timestamp"
	InternalDate      InternalType = "date"
	InternalTime      InternalType = "time"
	InternalUUID      InternalType = "uuid"
	InternalTimeUUID  InternalType = "timeuuid"
	InternalList      InternalType = "list"
	InternalSet       InternalType = "set"
	InternalPoint     InternalType = "point"
	InternalLineStr   InternalType = "linestring"
	InternalPolygon   InternalType = "polygon"
)

// Codec is a bidirectional, failable converter between one external and one
// internal type. ExternalToInternal and InternalToExternal must round-trip
// for every well-formed value modulo documented formatting normalization.
type Codec struct {
	External ExternalType
	Internal InternalType

	ExternalToInternal func(e any) (any, error)
	InternalToExternal func(i any) (any, error)
}

// NoCodecFound is returned by Registry.Lookup when no codec is registered
// for the requested (external, internal) pair.
type NoCodecFound struct {
	External ExternalType
	Internal InternalType
}

func (e *NoCodecFound) Error() string {
	return fmt.Sprintf("no codec found for external type %q and internal type %q", e.External, e.Internal)
}

// Registry maps (ExternalType, InternalType) pairs to a Codec, plus a
// separate table for collection codecs keyed by element type (a CQL list is
// typed by its element, e.g. list<text> vs list<int>, so a single
// (external, InternalList) key is not enough to disambiguate them). It is
// built once from a ConversionContext and is immutable (and therefore safe
// for concurrent use by any number of mapper goroutines) thereafter.
type Registry struct {
	exact      map[pairKey]Codec
	lists      map[listKey]Codec
	byInternal map[InternalType][]Codec
}

type pairKey struct {
	ext ExternalType
	in  InternalType
}

type listKey struct {
	ext  ExternalType
	elem InternalType
	set  bool
}

// NewRegistry builds an empty registry. Use Register to populate it, or
// BuildRegistry to get the standard set of codecs for a ConversionContext.
func NewRegistry() *Registry {
	return &Registry{
		exact:      make(map[pairKey]Codec),
		lists:      make(map[listKey]Codec),
		byInternal: make(map[InternalType][]Codec),
	}
}

// Register adds a scalar codec to the registry. Registration is only ever
// done at build time, before the registry is shared across goroutines.
func (r *Registry) Register(c Codec) {
	key := pairKey{ext: c.External, in: c.Internal}
	r.exact[key] = c
	r.byInternal[c.Internal] = append(r.byInternal[c.Internal], c)
}

// RegisterList adds a collection codec for the given element type.
func (r *Registry) RegisterList(elem InternalType, isSet bool, c Codec) {
	r.lists[listKey{ext: c.External, elem: elem, set: isSet}] = c
	r.byInternal[c.Internal] = append(r.byInternal[c.Internal], c)
}

// Lookup returns the codec for the exact (external, internal) scalar pair,
// or a *NoCodecFound error.
func (r *Registry) Lookup(ext ExternalType, in InternalType) (Codec, error) {
	c, ok := r.exact[pairKey{ext: ext, in: in}]
	if !ok {
		return Codec{}, &NoCodecFound{External: ext, Internal: in}
	}
	return c, nil
}

// LookupList returns the list or set codec for the given external
// representation and element type, or a *NoCodecFound error.
func (r *Registry) LookupList(ext ExternalType, elem InternalType, isSet bool) (Codec, error) {
	c, ok := r.lists[listKey{ext: ext, elem: elem, set: isSet}]
	if !ok {
		in := InternalList
		if isSet {
			in = InternalSet
		}
		return Codec{}, &NoCodecFound{External: ext, Internal: in}
	}
	return c, nil
}

// ListForInternal returns every codec registered for the given internal
// type, across all external types.
func (r *Registry) ListForInternal(in InternalType) []Codec {
	return r.byInternal[in]
}
