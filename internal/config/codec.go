package config

import (
	"fmt"
	"time"

	"golang.org/x/text/language"

	"cqlbulk/internal/codec"
)

// Build translates CodecConfig into the functional options
// codec.NewConversionContext expects. Unset string fields are skipped so
// NewConversionContext's own defaults (US locale, UTC, CQL_TIMESTAMP,
// REJECT overflow, RANDOM UUIDs) apply.
func (c CodecConfig) Build() (*codec.ConversionContext, error) {
	var opts []codec.Option

	if c.Locale != "" {
		tag, err := language.Parse(c.Locale)
		if err != nil {
			return nil, fmt.Errorf("config: codec.locale %q: %w", c.Locale, err)
		}
		opts = append(opts, codec.WithLocale(tag))
	}

	var zone *time.Location
	if c.TimeZone != "" {
		z, err := time.LoadLocation(c.TimeZone)
		if err != nil {
			return nil, fmt.Errorf("config: codec.timeZone %q: %w", c.TimeZone, err)
		}
		zone = z
		opts = append(opts, codec.WithTimeZone(z))
	} else {
		zone = time.UTC
	}

	if len(c.NullStrings) > 0 {
		opts = append(opts, codec.WithNullStrings(c.NullStrings...))
	}
	if c.NumberPattern != "" {
		opts = append(opts, codec.WithNumberPattern(c.NumberPattern))
	}
	opts = append(opts, codec.WithFormatNumbers(c.FormatNumbers))

	if c.Overflow != "" {
		strategy, err := parseOverflowStrategy(c.Overflow)
		if err != nil {
			return nil, err
		}
		opts = append(opts, codec.WithOverflowStrategy(strategy))
	}
	if c.Rounding != "" {
		mode, err := parseRoundingMode(c.Rounding)
		if err != nil {
			return nil, err
		}
		opts = append(opts, codec.WithRoundingMode(mode))
	}

	if c.TimestampFormat != "" {
		opts = append(opts, codec.WithTimestampFormat(codec.NewLayoutFormat(c.TimestampFormat, zone), c.CQLTimestamp))
	}
	if c.DateFormat != "" {
		opts = append(opts, codec.WithDateFormat(codec.NewLayoutFormat(c.DateFormat, zone)))
	}
	if c.TimeFormat != "" {
		opts = append(opts, codec.WithTimeFormat(codec.NewLayoutFormat(c.TimeFormat, zone)))
	}

	if c.TimeUnit != "" {
		unit, err := parseTimeUnit(c.TimeUnit)
		if err != nil {
			return nil, err
		}
		opts = append(opts, codec.WithTimeUnit(unit))
	}
	if c.UUIDGenerator != "" {
		gen, err := parseUUIDGenerator(c.UUIDGenerator)
		if err != nil {
			return nil, err
		}
		opts = append(opts, codec.WithUUIDGenerator(gen))
	}

	opts = append(opts, codec.WithExtraMissingFieldsPolicy(c.AllowExtraFields, c.AllowMissingFields))

	return codec.NewConversionContext(opts...), nil
}

// ExternalType parses External into codec.ExternalType, defaulting to
// codec.ExternalString when unset.
func (c CodecConfig) ExternalType() (codec.ExternalType, error) {
	switch c.External {
	case "", "string":
		return codec.ExternalString, nil
	case "json":
		return codec.ExternalJSON, nil
	default:
		return "", fmt.Errorf("config: unknown codec.external %q", c.External)
	}
}

func parseOverflowStrategy(s string) (codec.OverflowStrategy, error) {
	switch s {
	case "reject":
		return codec.OverflowReject, nil
	case "truncate":
		return codec.OverflowTruncate, nil
	case "round":
		return codec.OverflowRound, nil
	default:
		return 0, fmt.Errorf("config: unknown codec.overflow %q", s)
	}
}

func parseRoundingMode(s string) (codec.RoundingMode, error) {
	switch s {
	case "unnecessary":
		return codec.RoundUnnecessary, nil
	case "halfUp":
		return codec.RoundHalfUp, nil
	case "halfEven":
		return codec.RoundHalfEven, nil
	case "up":
		return codec.RoundUp, nil
	case "down":
		return codec.RoundDown, nil
	case "ceiling":
		return codec.RoundCeiling, nil
	case "floor":
		return codec.RoundFloor, nil
	default:
		return 0, fmt.Errorf("config: unknown codec.rounding %q", s)
	}
}

func parseTimeUnit(s string) (codec.TimeUnit, error) {
	switch s {
	case "microseconds":
		return codec.Microseconds, nil
	case "milliseconds":
		return codec.Milliseconds, nil
	case "seconds":
		return codec.Seconds, nil
	default:
		return 0, fmt.Errorf("config: unknown codec.timeUnit %q", s)
	}
}

func parseUUIDGenerator(s string) (codec.UUIDGenerator, error) {
	switch s {
	case "random":
		return codec.UUIDRandom, nil
	case "fixed":
		return codec.UUIDFixed, nil
	case "min":
		return codec.UUIDMin, nil
	case "max":
		return codec.UUIDMax, nil
	default:
		return 0, fmt.Errorf("config: unknown codec.uuidGenerator %q", s)
	}
}
