package codec

// scalarInternalTypes lists every internal type that has a direct
// string/JSON codec (i.e. everything except list/set; BuildRegistry builds
// the list/set codecs itself, one per scalar element type listed here).
var scalarInternalTypes = []InternalType{
	InternalText,
	InternalInt,
	InternalBigInt,
	InternalFloat,
	InternalDouble,
	InternalDecimal,
	InternalBoolean,
	InternalTimestamp,
	InternalDate,
	InternalTime,
	InternalUUID,
	InternalTimeUUID,
	InternalPoint,
	InternalLineStr,
	InternalPolygon,
}

// BuildRegistry assembles the standard set of codecs for ctx: every scalar
// internal type gets a string codec and a JSON codec; list/set codecs are
// registered for each scalar element type, both flavors of external
// representation. This is the registry's one-time build step (spec 4.1:
// "Registration is done at build time from the Conversion Context").
func BuildRegistry(ctx *ConversionContext) *Registry {
	r := NewRegistry()

	for _, t := range scalarInternalTypes {
		r.Register(scalarStringCodec(ctx, t))
		r.Register(scalarJSONCodec(ctx, t))
	}

	for _, t := range scalarInternalTypes {
		elemStr, _ := r.Lookup(ExternalString, t)
		elemJSON, _ := r.Lookup(ExternalJSON, t)
		r.RegisterList(t, false, listStringCodec(elemStr, false))
		r.RegisterList(t, true, listStringCodec(elemStr, true))
		r.RegisterList(t, false, listJSONCodec(elemJSON, false))
		r.RegisterList(t, true, listJSONCodec(elemJSON, true))
	}

	return r
}

func scalarStringCodec(ctx *ConversionContext, t InternalType) Codec {
	switch t {
	case InternalText:
		return textStringCodec(ctx)
	case InternalInt, InternalBigInt, InternalFloat, InternalDouble, InternalDecimal:
		return numberStringCodec(ctx, t)
	case InternalBoolean:
		return boolStringCodec(ctx)
	case InternalTimestamp:
		return timestampStringCodec(ctx)
	case InternalDate:
		return dateStringCodec(ctx)
	case InternalTime:
		return timeStringCodec(ctx)
	case InternalUUID, InternalTimeUUID:
		return uuidStringCodec(ctx, t)
	case InternalPoint, InternalLineStr, InternalPolygon:
		return geoStringCodec(ctx, t)
	default:
		panic("codec: unhandled internal type " + string(t))
	}
}

func scalarJSONCodec(ctx *ConversionContext, t InternalType) Codec {
	switch t {
	case InternalText:
		return textJSONCodec(ctx)
	case InternalInt, InternalBigInt, InternalFloat, InternalDouble, InternalDecimal:
		return numberJSONCodec(ctx, t)
	case InternalBoolean:
		return boolJSONCodec(ctx)
	case InternalTimestamp:
		return timestampJSONCodec(ctx)
	case InternalDate, InternalTime, InternalUUID, InternalTimeUUID, InternalPoint, InternalLineStr, InternalPolygon:
		// These flavors are textual by nature even inside JSON payloads
		// (JSON has no native date/time/uuid/geometry type); reuse the
		// string codec's parsing logic, but adapt to raw JSON string
		// values (JSON null -> Null).
		return jsonStringWrapped(ctx, scalarStringCodec(ctx, t))
	default:
		panic("codec: unhandled internal type " + string(t))
	}
}

// jsonStringWrapped adapts a string-flavored codec to also handle a JSON
// scalar whose values are still strings on the wire (dates, times, UUIDs,
// geometries): JSON null maps to Null, everything else must be a JSON
// string and is delegated to the wrapped codec.
func jsonStringWrapped(ctx *ConversionContext, inner Codec) Codec {
	return Codec{
		External: ExternalJSON,
		Internal: inner.Internal,
		ExternalToInternal: func(e any) (any, error) {
			if e == nil {
				return Null, nil
			}
			return inner.ExternalToInternal(e)
		},
		InternalToExternal: func(i any) (any, error) {
			if IsNull(i) {
				return ctx.unloadNull(ExternalJSON), nil
			}
			return inner.InternalToExternal(i)
		},
	}
}
