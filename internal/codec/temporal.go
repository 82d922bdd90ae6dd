package codec

import (
	"fmt"
	"strconv"
	"time"
)

// cqlTemporalLayouts are the literal formats accepted by the CQL_TIMESTAMP
// pattern, tried in order. This mirrors the handful of literal forms the CQL
// grammar accepts for timestamp values.
var cqlTemporalLayouts = []string{
	time.RFC3339Nano,
	"2006-01-02T15:04:05.999999999",
	"2006-01-02 15:04:05.999999999Z07:00",
	"2006-01-02 15:04:05.999999999",
	"2006-01-02",
}

func isDigits(s string) bool {
	if s == "" {
		return false
	}
	for _, r := range s {
		if r < '0' || r > '9' {
			return false
		}
	}
	return true
}

// parseTimestamp parses s according to the Conversion Context's timestamp
// configuration: CQL_TIMESTAMP tries every accepted literal form, resolving
// zone-less results in ctx.Zone; otherwise the single configured
// TimestampFormat is used. Either way, a purely-numeric string that the
// primary strategy rejects is reinterpreted as a count of TimeUnit since
// Epoch.
func (c *ConversionContext) parseTimestamp(s string) (time.Time, error) {
	if c.CQLTimestamp {
		for _, layout := range cqlTemporalLayouts {
			if t, err := time.ParseInLocation(layout, s, c.Zone); err == nil {
				return t, nil
			}
		}
	} else if c.TimestampFormat != nil {
		if t, err := c.TimestampFormat.Parse(s); err == nil {
			return t, nil
		}
	}
	if isDigits(s) {
		n, err := strconv.ParseInt(s, 10, 64)
		if err != nil {
			return time.Time{}, fmt.Errorf("timestamp: cannot parse %q: %w", s, err)
		}
		return c.Epoch.Add(c.TimeUnit.Duration(n)), nil
	}
	return time.Time{}, fmt.Errorf("timestamp: cannot parse %q", s)
}

// formatTimestamp renders t per the Conversion Context: ISO_OFFSET_DATE_TIME
// under CQL_TIMESTAMP, or the configured TimestampFormat otherwise.
func (c *ConversionContext) formatTimestamp(t time.Time) string {
	if c.CQLTimestamp {
		return t.In(c.Zone).Format(time.RFC3339Nano)
	}
	return c.TimestampFormat.Format(t)
}

func timestampStringCodec(ctx *ConversionContext) Codec {
	return Codec{
		External: ExternalString,
		Internal: InternalTimestamp,
		ExternalToInternal: func(e any) (any, error) {
			s, _ := e.(string)
			if v, ok := ctx.loadNullFromString(s, InternalTimestamp); ok {
				return v, nil
			}
			return ctx.parseTimestamp(s)
		},
		InternalToExternal: func(i any) (any, error) {
			if IsNull(i) {
				return ctx.unloadNull(ExternalString), nil
			}
			t, ok := i.(time.Time)
			if !ok {
				return nil, fmt.Errorf("timestamp: expected time.Time, got %T", i)
			}
			return ctx.formatTimestamp(t), nil
		},
	}
}

func timestampJSONCodec(ctx *ConversionContext) Codec {
	return Codec{
		External: ExternalJSON,
		Internal: InternalTimestamp,
		ExternalToInternal: func(e any) (any, error) {
			if e == nil {
				return Null, nil
			}
			s, ok := e.(string)
			if !ok {
				return nil, fmt.Errorf("timestamp: expected JSON string, got %T", e)
			}
			if v, ok := ctx.loadNullFromString(s, InternalTimestamp); ok {
				return v, nil
			}
			return ctx.parseTimestamp(s)
		},
		InternalToExternal: func(i any) (any, error) {
			if IsNull(i) {
				return ctx.unloadNull(ExternalJSON), nil
			}
			t, ok := i.(time.Time)
			if !ok {
				return nil, fmt.Errorf("timestamp: expected time.Time, got %T", i)
			}
			return ctx.formatTimestamp(t), nil
		},
	}
}

func dateStringCodec(ctx *ConversionContext) Codec {
	return Codec{
		External: ExternalString,
		Internal: InternalDate,
		ExternalToInternal: func(e any) (any, error) {
			s, _ := e.(string)
			if v, ok := ctx.loadNullFromString(s, InternalDate); ok {
				return v, nil
			}
			if t, err := ctx.DateFormat.Parse(s); err == nil {
				return t, nil
			}
			if isDigits(s) {
				n, err := strconv.ParseInt(s, 10, 64)
				if err != nil {
					return nil, fmt.Errorf("date: cannot parse %q: %w", s, err)
				}
				return ctx.Epoch.Add(ctx.TimeUnit.Duration(n)), nil
			}
			return nil, fmt.Errorf("date: cannot parse %q", s)
		},
		InternalToExternal: func(i any) (any, error) {
			if IsNull(i) {
				return ctx.unloadNull(ExternalString), nil
			}
			t, ok := i.(time.Time)
			if !ok {
				return nil, fmt.Errorf("date: expected time.Time, got %T", i)
			}
			return ctx.DateFormat.Format(t), nil
		},
	}
}

// timeStringCodec converts between a textual time-of-day and an internal
// nanoseconds-since-midnight duration (CQL TIME's native representation).
func timeStringCodec(ctx *ConversionContext) Codec {
	return Codec{
		External: ExternalString,
		Internal: InternalTime,
		ExternalToInternal: func(e any) (any, error) {
			s, _ := e.(string)
			if v, ok := ctx.loadNullFromString(s, InternalTime); ok {
				return v, nil
			}
			t, err := ctx.TimeFormat.Parse(s)
			if err == nil {
				return sinceMidnight(t), nil
			}
			if isDigits(s) {
				n, err := strconv.ParseInt(s, 10, 64)
				if err != nil {
					return nil, fmt.Errorf("time: cannot parse %q: %w", s, err)
				}
				return ctx.TimeUnit.Duration(n), nil
			}
			return nil, fmt.Errorf("time: cannot parse %q", s)
		},
		InternalToExternal: func(i any) (any, error) {
			if IsNull(i) {
				return ctx.unloadNull(ExternalString), nil
			}
			d, ok := i.(time.Duration)
			if !ok {
				return nil, fmt.Errorf("time: expected time.Duration, got %T", i)
			}
			t := time.Date(0, 1, 1, 0, 0, 0, 0, ctx.Zone).Add(d)
			return ctx.TimeFormat.Format(t), nil
		},
	}
}

func sinceMidnight(t time.Time) time.Duration {
	midnight := time.Date(t.Year(), t.Month(), t.Day(), 0, 0, 0, 0, t.Location())
	return t.Sub(midnight)
}
