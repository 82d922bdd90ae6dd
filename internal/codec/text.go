package codec

import "fmt"

// textStringCodec is the identity codec for text columns: null-sentinel
// handling aside, the external and internal representations coincide.
func textStringCodec(ctx *ConversionContext) Codec {
	return Codec{
		External: ExternalString,
		Internal: InternalText,
		ExternalToInternal: func(e any) (any, error) {
			s, _ := e.(string)
			if v, ok := ctx.loadNullFromString(s, InternalText); ok {
				return v, nil
			}
			return s, nil
		},
		InternalToExternal: func(i any) (any, error) {
			if IsNull(i) {
				return ctx.unloadNull(ExternalString), nil
			}
			s, ok := i.(string)
			if !ok {
				return nil, fmt.Errorf("text: expected string, got %T", i)
			}
			return s, nil
		},
	}
}

func textJSONCodec(ctx *ConversionContext) Codec {
	return Codec{
		External: ExternalJSON,
		Internal: InternalText,
		ExternalToInternal: func(e any) (any, error) {
			if e == nil {
				return Null, nil
			}
			s, ok := e.(string)
			if !ok {
				return nil, fmt.Errorf("text: expected JSON string, got %T", e)
			}
			return s, nil
		},
		InternalToExternal: func(i any) (any, error) {
			if IsNull(i) {
				return ctx.unloadNull(ExternalJSON), nil
			}
			s, ok := i.(string)
			if !ok {
				return nil, fmt.Errorf("text: expected string, got %T", i)
			}
			return s, nil
		},
	}
}
