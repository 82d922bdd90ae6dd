package mapper

import (
	"bytes"
	"fmt"
	"time"

	"github.com/zeebo/xxh3"

	"cqlbulk/internal/codec"
	"cqlbulk/internal/record"
)

// builtinFunctions is the small, fixed set of zero-argument function
// references a mapping declaration may invoke. Anything beyond this is out
// of scope: the prepared-statement template plus field-to-variable mapping
// is a boundary this system consumes, not a general expression evaluator.
// uuid honors the conversion context's configured UUID generator strategy
// (RANDOM by default), so a mapping that wants a reproducible FIXED or
// MIN/MAX UUID gets one without a separate code path.
var builtinFunctions = map[string]func(ctx *codec.ConversionContext) (any, error){
	"now": func(ctx *codec.ConversionContext) (any, error) { return time.Now().UTC(), nil },
	"uuid": func(ctx *codec.ConversionContext) (any, error) {
		return ctx.GenerateUUID()
	},
}

// Mapper binds records to a single prepared Template according to a
// compiled Mapping, invoking a Codec Registry per field. One Mapper exists
// per (template, mapping) pair and is safe for concurrent use: all of its
// state is read-only after New.
type Mapper struct {
	template *Template
	mapping  *Mapping
	registry *codec.Registry
	ctx      *codec.ConversionContext
	external codec.ExternalType

	mappedFields map[record.Field]struct{}
}

// New compiles mapping against template. It fails fast if the declaration
// references a variable the template does not declare.
func New(template *Template, mapping *Mapping, registry *codec.Registry, ctx *codec.ConversionContext, external codec.ExternalType) (*Mapper, error) {
	mappedFields := make(map[record.Field]struct{}, len(mapping.Entries))
	for _, e := range mapping.Entries {
		if _, ok := template.ByName(e.Variable); !ok {
			return nil, fmt.Errorf("mapper: mapping references unknown bound variable %q", e.Variable)
		}
		if e.Source.Kind == SourceFunction {
			if _, ok := builtinFunctions[e.Source.Function]; !ok {
				return nil, &UnknownFunction{Name: e.Source.Function}
			}
		}
		if e.Source.Kind == SourceFieldRef {
			mappedFields[e.Source.Field] = struct{}{}
		}
	}
	return &Mapper{
		template:     template,
		mapping:      mapping,
		registry:     registry,
		ctx:          ctx,
		external:     external,
		mappedFields: mappedFields,
	}, nil
}

// Map binds rec's fields to template's variables. On success it returns a
// Statement and a nil error record; on a policy violation or codec failure
// it returns a nil statement and an ErrorRecord describing the cause.
func (m *Mapper) Map(rec *record.Record) (*Statement, *record.Record) {
	if !m.ctx.AllowExtraFields {
		for _, f := range rec.Fields() {
			if _, ok := m.mappedFields[f]; !ok {
				return nil, errorRecord(rec, &ExtraField{Field: f})
			}
		}
	}

	values := make(map[string]any, len(m.mapping.Entries))
	for _, e := range m.mapping.Entries {
		raw, present, err := m.resolveSource(rec, e.Source)
		if err != nil {
			return nil, errorRecord(rec, err)
		}
		if !present {
			if !m.ctx.AllowMissingFields {
				return nil, errorRecord(rec, &MissingField{Field: e.Source.Field})
			}
			continue
		}

		if e.Source.Kind == SourceFunction {
			// Builtin functions produce an already-internal value (a
			// time.Time, a uuid.UUID): there is no external representation
			// to decode, so the external<->internal codec is bypassed.
			values[e.Variable] = raw
			continue
		}

		variable, _ := m.template.ByName(e.Variable)
		c, err := m.registry.Lookup(m.external, variable.Internal)
		if err != nil {
			return nil, errorRecord(rec, &CodecFailure{Variable: e.Variable, Cause: err})
		}
		val, err := c.ExternalToInternal(raw)
		if err != nil {
			return nil, errorRecord(rec, &CodecFailure{Variable: e.Variable, Cause: err})
		}
		values[e.Variable] = val
	}

	routingKey, routingToken := m.computeRouting(values)
	return &Statement{
		Template:       m.template,
		Values:         values,
		RoutingKey:     routingKey,
		RoutingToken:   routingToken,
		Consistency:    m.template.Consistency,
		originalRecord: rec,
	}, nil
}

// Unmap is the inverse direction used by UNLOAD: it renders a row of bound
// (internal) values back into a connector Record. Literal and function
// entries are not reversible and are skipped.
func (m *Mapper) Unmap(values map[string]any, resource *record.Resource, position int64) (*record.Record, error) {
	entries := make([]record.Entry, 0, len(m.mapping.Entries))
	for _, e := range m.mapping.Entries {
		if e.Source.Kind != SourceFieldRef {
			continue
		}
		variable, ok := m.template.ByName(e.Variable)
		if !ok {
			continue
		}
		raw, ok := values[e.Variable]
		if !ok {
			continue
		}
		c, err := m.registry.Lookup(m.external, variable.Internal)
		if err != nil {
			return nil, err
		}
		ext, err := c.InternalToExternal(raw)
		if err != nil {
			return nil, fmt.Errorf("mapper: field %q: %w", e.Variable, err)
		}
		entries = append(entries, record.Entry{Field: e.Source.Field, Value: ext})
	}
	return record.New(values, resource, position, entries)
}

func (m *Mapper) resolveSource(rec *record.Record, src Source) (value any, present bool, err error) {
	switch src.Kind {
	case SourceFieldRef:
		v, ok := rec.Get(src.Field)
		return v, ok, nil
	case SourceLiteral:
		return src.Literal, true, nil
	case SourceFunction:
		fn, ok := builtinFunctions[src.Function]
		if !ok {
			return nil, false, &UnknownFunction{Name: src.Function}
		}
		v, err := fn(m.ctx)
		if err != nil {
			return nil, false, err
		}
		return v, true, nil
	default:
		return nil, false, fmt.Errorf("mapper: unknown source kind %d", src.Kind)
	}
}

// computeRouting derives the partition routing key and token from the
// bound variables flagged IsRoutingKey in the template, in declaration
// order. A statement with no routing-key variables (or none bound) has no
// routing key and bypasses batching per-token grouping.
func (m *Mapper) computeRouting(values map[string]any) ([]byte, uint64) {
	var buf bytes.Buffer
	for _, v := range m.template.Variables {
		if !v.IsRoutingKey {
			continue
		}
		val, ok := values[v.Name]
		if !ok {
			continue
		}
		fmt.Fprintf(&buf, "%v\x00", val)
	}
	if buf.Len() == 0 {
		return nil, 0
	}
	key := buf.Bytes()
	return key, xxh3.Hash(key)
}

func errorRecord(rec *record.Record, cause error) *record.Record {
	er, err := record.NewError(rec.Source(), rec.Resource(), rec.Position(), cause)
	if err != nil {
		// rec was already a valid, positioned record; NewError can only
		// fail on a bad position or nil cause, neither of which applies here.
		panic(err)
	}
	return er
}
