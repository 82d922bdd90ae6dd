// Package codec implements the Conversion Context and Codec Registry: the
// typed, context-sensitive conversion graph that turns connector field
// values into CQL-typed bound variables and back.
package codec

import (
	"sync"
	"time"

	"github.com/google/uuid"
	"golang.org/x/text/language"
)

// OverflowStrategy controls what happens when a numeric conversion does not
// fit the target type.
type OverflowStrategy int

const (
	// OverflowReject fails the conversion with an Overflow error.
	OverflowReject OverflowStrategy = iota
	// OverflowTruncate drops the fractional part. A value whose magnitude
	// does not fit the target type is still an Overflow error.
	OverflowTruncate
	// OverflowRound applies the configured RoundingMode.
	OverflowRound
)

// RoundingMode mirrors java.math.RoundingMode's modes that matter for
// bulk-transfer numeric coercion.
type RoundingMode int

const (
	RoundUnnecessary RoundingMode = iota
	RoundHalfUp
	RoundHalfEven
	RoundUp
	RoundDown
	RoundCeiling
	RoundFloor
)

// TimeUnit is used to interpret purely-numeric temporal strings as a count
// since Epoch.
type TimeUnit int

const (
	Nanoseconds TimeUnit = iota
	Microseconds
	Milliseconds
	Seconds
)

// Duration converts n units of t into a time.Duration.
func (t TimeUnit) Duration(n int64) time.Duration {
	switch t {
	case Nanoseconds:
		return time.Duration(n)
	case Microseconds:
		return time.Duration(n) * time.Microsecond
	case Seconds:
		return time.Duration(n) * time.Second
	default: // Milliseconds
		return time.Duration(n) * time.Millisecond
	}
}

// UUIDGenerator selects the strategy used to synthesize time-based (v1)
// UUIDs during loading.
type UUIDGenerator int

const (
	// UUIDRandom generates a fresh random-clock-sequence v1 UUID per call.
	UUIDRandom UUIDGenerator = iota
	// UUIDFixed returns the same v1 UUID (computed once) on every call.
	UUIDFixed
	// UUIDMin returns a constant minimal UUID (the nil UUID), independent
	// of the current time.
	UUIDMin
	// UUIDMax returns a constant maximal version-1 UUID, independent of the
	// current time.
	UUIDMax
)

// TemporalFormat parses and formats a single temporal flavor (timestamp,
// date, or time). The zero value of CQL_TIMESTAMP is handled specially by
// the temporal codecs, not by implementations of this interface.
type TemporalFormat interface {
	Parse(s string) (time.Time, error)
	Format(t time.Time) string
}

// layoutFormat is a TemporalFormat backed by a Go reference-time layout.
type layoutFormat struct {
	layout string
	zone   *time.Location
}

// NewLayoutFormat builds a TemporalFormat from a Go time layout string,
// resolving zone-less parses into the supplied zone.
func NewLayoutFormat(layout string, zone *time.Location) TemporalFormat {
	if zone == nil {
		zone = time.UTC
	}
	return layoutFormat{layout: layout, zone: zone}
}

func (f layoutFormat) Parse(s string) (time.Time, error) {
	return time.ParseInLocation(f.layout, s, f.zone)
}

func (f layoutFormat) Format(t time.Time) string {
	return t.In(f.zone).Format(f.layout)
}

// BooleanWords is an ordered pair of words used to render/match a boolean.
type BooleanWords struct {
	True  string
	False string
}

// ConversionContext is the immutable bag of formatters and policy consulted
// by every Codec. Per the design notes, this is a typed, reified struct
// rather than a string-keyed attribute bag: the bag only ever existed to
// ease cross-component extension in the original implementation. The one
// exception is fixedUUID/fixedUUIDOnce below, a per-context memoized value
// for the FIXED UUID generator strategy; it is written at most once, behind
// sync.Once, so the context remains safe to share across mapper goroutines
// even though that one field is not set until first use.
type ConversionContext struct {
	Locale language.Tag
	Zone   *time.Location

	// NullStrings is the ordered list of external strings that denote a
	// database NULL on load. The first entry (if any) is used when
	// unloading a NULL to a textual external type; an empty external
	// string is used if the list is empty.
	NullStrings []string

	// BooleanWords is the ordered list of (true,false) word pairs matched
	// case-insensitively on load; only the first pair is used to render a
	// boolean when unloading.
	BooleanWords []BooleanWords
	// BooleanNumbers holds the numeric representation of true (index 0)
	// and false (index 1).
	BooleanNumbers [2]float64

	NumberPattern string
	FormatNumbers bool
	Overflow      OverflowStrategy
	Rounding      RoundingMode

	TimestampFormat TemporalFormat
	DateFormat      TemporalFormat
	TimeFormat      TemporalFormat
	// CQLTimestamp, when true, means TimestampFormat accepts any CQL
	// temporal literal rather than a single fixed layout (the
	// "CQL_TIMESTAMP" pattern from the spec).
	CQLTimestamp bool

	Epoch    time.Time
	TimeUnit TimeUnit

	UUIDGenerator UUIDGenerator

	AllowExtraFields   bool
	AllowMissingFields bool

	fixedUUIDOnce sync.Once
	fixedUUID     uuid.UUID
	fixedUUIDErr  error
}

// Option configures a ConversionContext at build time.
type Option func(*ConversionContext)

// DefaultNumberPattern is dsbulk's default: grouped thousands, up to two
// decimal digits.
const DefaultNumberPattern = "#,###.##"

// NewConversionContext builds an immutable ConversionContext, applying
// defaults that mirror the reference implementation (US locale, UTC zone,
// CQL_TIMESTAMP parsing, REJECT overflow, RANDOM UUIDs) and then the
// supplied options in order.
func NewConversionContext(opts ...Option) *ConversionContext {
	ctx := &ConversionContext{
		Locale:         language.AmericanEnglish,
		Zone:           time.UTC,
		NullStrings:    nil,
		BooleanWords:   DefaultBooleanWords(),
		BooleanNumbers: [2]float64{1, 0},
		NumberPattern:  DefaultNumberPattern,
		FormatNumbers:  false,
		Overflow:       OverflowReject,
		Rounding:       RoundUnnecessary,
		CQLTimestamp:   true,
		Epoch:          time.Unix(0, 0).UTC(),
		TimeUnit:       Milliseconds,
		UUIDGenerator:  UUIDRandom,
	}
	ctx.DateFormat = NewLayoutFormat("2006-01-02", ctx.Zone)
	ctx.TimeFormat = NewLayoutFormat("15:04:05.999999999", ctx.Zone)
	ctx.TimestampFormat = NewLayoutFormat(time.RFC3339Nano, ctx.Zone)
	for _, o := range opts {
		o(ctx)
	}
	return ctx
}

// DefaultBooleanWords mirrors dsbulk's default boolean-word vocabulary.
func DefaultBooleanWords() []BooleanWords {
	return []BooleanWords{
		{True: "1", False: "0"},
		{True: "Y", False: "N"},
		{True: "T", False: "F"},
		{True: "YES", False: "NO"},
		{True: "TRUE", False: "FALSE"},
	}
}

func WithLocale(tag language.Tag) Option {
	return func(c *ConversionContext) { c.Locale = tag }
}

func WithTimeZone(zone *time.Location) Option {
	return func(c *ConversionContext) {
		c.Zone = zone
		c.DateFormat = NewLayoutFormat("2006-01-02", zone)
		c.TimeFormat = NewLayoutFormat("15:04:05.999999999", zone)
	}
}

func WithNullStrings(values ...string) Option {
	return func(c *ConversionContext) { c.NullStrings = values }
}

func WithBooleanWords(pairs ...BooleanWords) Option {
	return func(c *ConversionContext) {
		if len(pairs) > 0 {
			c.BooleanWords = pairs
		}
	}
}

func WithBooleanNumbers(trueVal, falseVal float64) Option {
	return func(c *ConversionContext) { c.BooleanNumbers = [2]float64{trueVal, falseVal} }
}

func WithNumberPattern(pattern string) Option {
	return func(c *ConversionContext) { c.NumberPattern = pattern }
}

func WithFormatNumbers(format bool) Option {
	return func(c *ConversionContext) { c.FormatNumbers = format }
}

func WithOverflowStrategy(s OverflowStrategy) Option {
	return func(c *ConversionContext) { c.Overflow = s }
}

func WithRoundingMode(m RoundingMode) Option {
	return func(c *ConversionContext) { c.Rounding = m }
}

func WithTimestampFormat(f TemporalFormat, cqlTimestamp bool) Option {
	return func(c *ConversionContext) {
		c.TimestampFormat = f
		c.CQLTimestamp = cqlTimestamp
	}
}

func WithDateFormat(f TemporalFormat) Option {
	return func(c *ConversionContext) { c.DateFormat = f }
}

func WithTimeFormat(f TemporalFormat) Option {
	return func(c *ConversionContext) { c.TimeFormat = f }
}

func WithEpoch(t time.Time) Option {
	return func(c *ConversionContext) { c.Epoch = t }
}

func WithTimeUnit(u TimeUnit) Option {
	return func(c *ConversionContext) { c.TimeUnit = u }
}

func WithUUIDGenerator(g UUIDGenerator) Option {
	return func(c *ConversionContext) { c.UUIDGenerator = g }
}

func WithExtraMissingFieldsPolicy(allowExtra, allowMissing bool) Option {
	return func(c *ConversionContext) {
		c.AllowExtraFields = allowExtra
		c.AllowMissingFields = allowMissing
	}
}
