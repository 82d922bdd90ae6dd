package codec

import (
	"fmt"
	"math"
	"strconv"
	"strings"

	"golang.org/x/exp/constraints"
	"golang.org/x/text/message"
	"golang.org/x/text/number"
)

// Overflow is returned when a numeric conversion does not fit the target
// type and OverflowStrategy is OverflowReject.
type Overflow struct {
	Value  float64
	Target InternalType
}

func (e *Overflow) Error() string {
	return fmt.Sprintf("value %v overflows target type %q", e.Value, e.Target)
}

// parseNumber parses s using the Conversion Context's configured number
// pattern (grouping + decimal separators inferred from the pattern), then
// falls back to locale-neutral parsing (strconv) if that fails.
func (c *ConversionContext) parseNumber(s string) (float64, error) {
	if v, err := parseWithPattern(s, c.NumberPattern); err == nil {
		return v, nil
	}
	v, err := strconv.ParseFloat(strings.TrimSpace(s), 64)
	if err != nil {
		return 0, fmt.Errorf("number: cannot parse %q: %w", s, err)
	}
	return v, nil
}

// parseWithPattern infers a grouping separator and decimal separator from a
// pattern like "#,###.##" and strips/normalizes s accordingly before
// delegating to strconv.ParseFloat.
func parseWithPattern(s, pattern string) (float64, error) {
	group := byte(0)
	decimal := byte('.')
	if i := strings.IndexAny(pattern, ",."); i >= 0 {
		// The first of ',' or '.' appearing before the last one is the
		// grouping separator; the last is the decimal separator, mirroring
		// how patterns like "#,###.##" or "#.###,##" are conventionally read.
		last := strings.LastIndexAny(pattern, ",.")
		if last != i {
			group = pattern[i]
			decimal = pattern[last]
		} else {
			decimal = pattern[i]
		}
	}
	s = strings.TrimSpace(s)
	if s == "" {
		return 0, fmt.Errorf("empty")
	}
	var b strings.Builder
	for i := 0; i < len(s); i++ {
		switch s[i] {
		case group:
			continue
		case decimal:
			b.WriteByte('.')
		default:
			b.WriteByte(s[i])
		}
	}
	return strconv.ParseFloat(b.String(), 64)
}

// formatNumber renders f as a string. When FormatNumbers is enabled, digits
// are grouped using the Conversion Context's locale via golang.org/x/text;
// otherwise f is stringified with Go's minimal round-trip representation,
// matching the "never causes rounding or scale alteration" default.
func (c *ConversionContext) formatNumber(f float64) string {
	if !c.FormatNumbers {
		return strconv.FormatFloat(f, 'f', -1, 64)
	}
	p := message.NewPrinter(c.Locale)
	return p.Sprintf("%v", number.Decimal(f))
}

// round applies the Conversion Context's RoundingMode to f.
func round(f float64, mode RoundingMode) float64 {
	switch mode {
	case RoundUp:
		if f < 0 {
			return math.Floor(f)
		}
		return math.Ceil(f)
	case RoundDown:
		return math.Trunc(f)
	case RoundCeiling:
		return math.Ceil(f)
	case RoundFloor:
		return math.Floor(f)
	case RoundHalfEven:
		return math.RoundToEven(f)
	case RoundHalfUp, RoundUnnecessary:
		fallthrough
	default:
		return math.Round(f)
	}
}

// applyOverflow converts f into T according to the Conversion Context's
// OverflowStrategy, using the type parameter's representable range to
// detect overflow/fractional loss.
func applyOverflow[T constraints.Integer](ctx *ConversionContext, f float64, target InternalType) (T, error) {
	var zero T
	whole := f == math.Trunc(f)
	switch ctx.Overflow {
	case OverflowReject:
		if !whole {
			return zero, &Overflow{Value: f, Target: target}
		}
	case OverflowTruncate:
		f = math.Trunc(f)
	case OverflowRound:
		f = round(f, ctx.Rounding)
	}
	if f > float64(maxOf[T]()) || f < float64(minOf[T]()) {
		if ctx.Overflow == OverflowReject {
			return zero, &Overflow{Value: f, Target: target}
		}
		// Truncate/round strategies still cannot represent an out-of-range
		// magnitude; this is always a hard failure.
		return zero, &Overflow{Value: f, Target: target}
	}
	return T(f), nil
}

func maxOf[T constraints.Integer]() T {
	var zero T
	var maxInt32, maxInt64 int64 = math.MaxInt32, math.MaxInt64
	switch any(zero).(type) {
	case int32:
		return T(maxInt32)
	case int64:
		return T(maxInt64)
	default:
		return T(maxInt64)
	}
}

func minOf[T constraints.Integer]() T {
	var zero T
	var minInt32, minInt64 int64 = math.MinInt32, math.MinInt64
	switch any(zero).(type) {
	case int32:
		return T(minInt32)
	case int64:
		return T(minInt64)
	default:
		return T(minInt64)
	}
}

// numberStringCodec builds a string<->numeric codec for the given internal
// integer/float type.
func numberStringCodec(ctx *ConversionContext, internal InternalType) Codec {
	return Codec{
		External: ExternalString,
		Internal: internal,
		ExternalToInternal: func(e any) (any, error) {
			s, _ := e.(string)
			if v, ok := ctx.loadNullFromString(s, internal); ok {
				return v, nil
			}
			f, err := ctx.parseNumber(s)
			if err != nil {
				return nil, err
			}
			return numericFromFloat(ctx, f, internal)
		},
		InternalToExternal: func(i any) (any, error) {
			if IsNull(i) {
				return ctx.unloadNull(ExternalString), nil
			}
			f, err := floatFromNumeric(i)
			if err != nil {
				return nil, err
			}
			return ctx.formatNumber(f), nil
		},
	}
}

// numberJSONCodec builds a JSON<->numeric codec for the given internal type.
func numberJSONCodec(ctx *ConversionContext, internal InternalType) Codec {
	return Codec{
		External: ExternalJSON,
		Internal: internal,
		ExternalToInternal: func(e any) (any, error) {
			if e == nil {
				return Null, nil
			}
			switch v := e.(type) {
			case float64:
				return numericFromFloat(ctx, v, internal)
			case string:
				if v, ok := ctx.loadNullFromString(v, internal); ok {
					return v, nil
				}
				f, err := ctx.parseNumber(v)
				if err != nil {
					return nil, err
				}
				return numericFromFloat(ctx, f, internal)
			default:
				return nil, fmt.Errorf("number: unsupported JSON value %T", e)
			}
		},
		InternalToExternal: func(i any) (any, error) {
			if IsNull(i) {
				return ctx.unloadNull(ExternalJSON), nil
			}
			return floatFromNumeric(i)
		},
	}
}

func numericFromFloat(ctx *ConversionContext, f float64, internal InternalType) (any, error) {
	switch internal {
	case InternalInt:
		return applyOverflow[int32](ctx, f, internal)
	case InternalBigInt:
		return applyOverflow[int64](ctx, f, internal)
	case InternalFloat:
		return float32(f), nil
	case InternalDouble:
		return f, nil
	case InternalDecimal:
		return f, nil
	default:
		return nil, fmt.Errorf("number: unsupported internal type %q", internal)
	}
}

func floatFromNumeric(i any) (float64, error) {
	switch v := i.(type) {
	case int32:
		return float64(v), nil
	case int64:
		return float64(v), nil
	case float32:
		return float64(v), nil
	case float64:
		return v, nil
	default:
		return 0, fmt.Errorf("number: expected numeric value, got %T", i)
	}
}
