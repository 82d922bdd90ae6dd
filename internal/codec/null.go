package codec

// NullValue is the internal representation of a CQL NULL. Codecs return this
// sentinel instead of a Go nil so that "no value" is unambiguous even for
// internal types (like bool or int64) whose Go zero value is meaningful.
type NullValue struct{}

// Null is the single NullValue instance codecs should return.
var Null = NullValue{}

// IsNull reports whether v is the Null sentinel.
func IsNull(v any) bool {
	_, ok := v.(NullValue)
	return ok
}

// isNullString reports whether s is one of the configured null sentinels.
func (c *ConversionContext) isNullString(s string) bool {
	for _, n := range c.NullStrings {
		if s == n {
			return true
		}
	}
	return false
}

// formatNullString is what unloading a NULL into a textual external type
// produces: the first configured null string, or "" if none is configured.
func (c *ConversionContext) formatNullString() string {
	if len(c.NullStrings) > 0 {
		return c.NullStrings[0]
	}
	return ""
}

// loadNullFromString applies the registry's null-sentinel rule on load:
//   - the external string matches a configured null sentinel, or
//   - the target internal type is non-textual and the external string is
//     empty (this half of the rule applies regardless of nullStrings
//     configuration).
//
// It returns (Null, true) when the rule fires.
func (c *ConversionContext) loadNullFromString(s string, internal InternalType) (any, bool) {
	if c.isNullString(s) {
		return Null, true
	}
	if s == "" && internal != InternalText {
		return Null, true
	}
	return nil, false
}

// unloadNull renders a NULL internal value into the requested external
// representation: the first null string for textual externals, or a typed
// nil (JSON null) otherwise.
func (c *ConversionContext) unloadNull(external ExternalType) any {
	if external == ExternalString {
		return c.formatNullString()
	}
	return nil
}
