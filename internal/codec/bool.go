package codec

import (
	"fmt"
	"strconv"
	"strings"
)

// boolStringCodec builds the string<->boolean codec. Loading matches the
// external string case-insensitively against every configured (true,false)
// word pair; unloading always uses the first pair. Numeric JSON
// representations are handled by boolJSONCodec, not here.
func boolStringCodec(ctx *ConversionContext) Codec {
	return Codec{
		External: ExternalString,
		Internal: InternalBoolean,
		ExternalToInternal: func(e any) (any, error) {
			s, _ := e.(string)
			if v, ok := ctx.loadNullFromString(s, InternalBoolean); ok {
				return v, nil
			}
			for _, pair := range ctx.BooleanWords {
				if strings.EqualFold(s, pair.True) {
					return true, nil
				}
				if strings.EqualFold(s, pair.False) {
					return false, nil
				}
			}
			return nil, fmt.Errorf("boolean: cannot parse %q", s)
		},
		InternalToExternal: func(i any) (any, error) {
			if IsNull(i) {
				return ctx.unloadNull(ExternalString), nil
			}
			b, ok := i.(bool)
			if !ok {
				return nil, fmt.Errorf("boolean: expected bool, got %T", i)
			}
			if len(ctx.BooleanWords) == 0 {
				return strconv.FormatBool(b), nil
			}
			pair := ctx.BooleanWords[0]
			if b {
				return pair.True, nil
			}
			return pair.False, nil
		},
	}
}

// boolJSONCodec builds the JSON<->boolean codec. JSON already carries a
// native boolean type, so only null-handling and numeric fallbacks (some
// JSON producers emit 0/1) are special-cased.
func boolJSONCodec(ctx *ConversionContext) Codec {
	return Codec{
		External: ExternalJSON,
		Internal: InternalBoolean,
		ExternalToInternal: func(e any) (any, error) {
			if e == nil {
				return Null, nil
			}
			switch v := e.(type) {
			case bool:
				return v, nil
			case float64:
				if v == ctx.BooleanNumbers[0] {
					return true, nil
				}
				if v == ctx.BooleanNumbers[1] {
					return false, nil
				}
				return nil, fmt.Errorf("boolean: unrecognized numeric value %v", v)
			case string:
				if v, ok := ctx.loadNullFromString(v, InternalBoolean); ok {
					return v, nil
				}
				for _, pair := range ctx.BooleanWords {
					if strings.EqualFold(v, pair.True) {
						return true, nil
					}
					if strings.EqualFold(v, pair.False) {
						return false, nil
					}
				}
				return nil, fmt.Errorf("boolean: cannot parse %q", v)
			default:
				return nil, fmt.Errorf("boolean: unsupported JSON value %T", e)
			}
		},
		InternalToExternal: func(i any) (any, error) {
			if IsNull(i) {
				return ctx.unloadNull(ExternalJSON), nil
			}
			b, ok := i.(bool)
			if !ok {
				return nil, fmt.Errorf("boolean: expected bool, got %T", i)
			}
			return b, nil
		},
	}
}
