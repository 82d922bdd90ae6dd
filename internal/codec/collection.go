package codec

import (
	"fmt"
	"strings"
)

// listStringCodec builds a codec for a CQL list/set column whose external
// representation is a bracketed, comma-separated string (e.g. "[1, 2, 3]").
// Element conversion is delegated to elem, a scalar element codec. The
// body is split on every comma, so nested collections and elements that
// contain commas are not supported. Sets deduplicate elements by the
// fmt "%v" form of their converted internal value, preserving the first
// occurrence's position; lists preserve insertion order including
// duplicates.
func listStringCodec(elem Codec, isSet bool) Codec {
	internal := InternalList
	if isSet {
		internal = InternalSet
	}
	return Codec{
		External: ExternalString,
		Internal: internal,
		ExternalToInternal: func(e any) (any, error) {
			s, _ := e.(string)
			s = strings.TrimSpace(s)
			if s == "" {
				return Null, nil
			}
			s = strings.TrimPrefix(s, "[")
			s = strings.TrimSuffix(s, "]")
			s = strings.TrimSpace(s)
			var raw []string
			if s != "" {
				raw = strings.Split(s, ",")
			}
			out := make([]any, 0, len(raw))
			seen := make(map[string]struct{}, len(raw))
			for _, item := range raw {
				v, err := elem.ExternalToInternal(strings.TrimSpace(item))
				if err != nil {
					return nil, fmt.Errorf("collection: element %q: %w", item, err)
				}
				if isSet {
					key := fmt.Sprintf("%v", v)
					if _, dup := seen[key]; dup {
						continue
					}
					seen[key] = struct{}{}
				}
				out = append(out, v)
			}
			return out, nil
		},
		InternalToExternal: func(i any) (any, error) {
			if IsNull(i) {
				return "", nil
			}
			items, ok := i.([]any)
			if !ok {
				return nil, fmt.Errorf("collection: expected []any, got %T", i)
			}
			parts := make([]string, len(items))
			for idx, v := range items {
				ext, err := elem.InternalToExternal(v)
				if err != nil {
					return nil, err
				}
				parts[idx] = fmt.Sprintf("%v", ext)
			}
			return "[" + strings.Join(parts, ", ") + "]", nil
		},
	}
}

// listJSONCodec is the JSON-array analogue of listStringCodec.
func listJSONCodec(elem Codec, isSet bool) Codec {
	internal := InternalList
	if isSet {
		internal = InternalSet
	}
	return Codec{
		External: ExternalJSON,
		Internal: internal,
		ExternalToInternal: func(e any) (any, error) {
			if e == nil {
				return Null, nil
			}
			raw, ok := e.([]any)
			if !ok {
				return nil, fmt.Errorf("collection: expected JSON array, got %T", e)
			}
			out := make([]any, 0, len(raw))
			seen := make(map[string]struct{}, len(raw))
			for _, item := range raw {
				v, err := elem.ExternalToInternal(item)
				if err != nil {
					return nil, err
				}
				if isSet {
					key := fmt.Sprintf("%v", v)
					if _, dup := seen[key]; dup {
						continue
					}
					seen[key] = struct{}{}
				}
				out = append(out, v)
			}
			return out, nil
		},
		InternalToExternal: func(i any) (any, error) {
			if IsNull(i) {
				return nil, nil
			}
			items, ok := i.([]any)
			if !ok {
				return nil, fmt.Errorf("collection: expected []any, got %T", i)
			}
			out := make([]any, len(items))
			for idx, v := range items {
				ext, err := elem.InternalToExternal(v)
				if err != nil {
					return nil, err
				}
				out[idx] = ext
			}
			return out, nil
		},
	}
}
