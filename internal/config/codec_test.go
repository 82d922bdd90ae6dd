package config

import (
	"testing"

	"cqlbulk/internal/codec"
)

func TestCodecConfig_BuildDefaults(t *testing.T) {
	ctx, err := CodecConfig{}.Build()
	if err != nil {
		t.Fatalf("Build: %v", err)
	}
	if ctx.Zone == nil {
		t.Fatalf("expected a default zone")
	}
}

func TestCodecConfig_BuildAppliesOverrides(t *testing.T) {
	cfg := CodecConfig{
		Locale:        "en-US",
		TimeZone:      "UTC",
		NullStrings:   []string{"", "NULL"},
		FormatNumbers: true,
		Overflow:      "truncate",
		Rounding:      "halfUp",
		TimeUnit:      "seconds",
		UUIDGenerator: "fixed",
	}
	ctx, err := cfg.Build()
	if err != nil {
		t.Fatalf("Build: %v", err)
	}
	if ctx.Overflow != codec.OverflowTruncate {
		t.Fatalf("Overflow = %v, want OverflowTruncate", ctx.Overflow)
	}
	if ctx.Rounding != codec.RoundHalfUp {
		t.Fatalf("Rounding = %v, want RoundHalfUp", ctx.Rounding)
	}
	if ctx.TimeUnit != codec.Seconds {
		t.Fatalf("TimeUnit = %v, want Seconds", ctx.TimeUnit)
	}
	if ctx.UUIDGenerator != codec.UUIDFixed {
		t.Fatalf("UUIDGenerator = %v, want UUIDFixed", ctx.UUIDGenerator)
	}
	if !ctx.FormatNumbers {
		t.Fatalf("FormatNumbers = false, want true")
	}
}

func TestCodecConfig_BuildRejectsUnknownEnums(t *testing.T) {
	cases := []CodecConfig{
		{Locale: "not a locale!!"},
		{TimeZone: "Not/AZone"},
		{Overflow: "weird"},
		{Rounding: "weird"},
		{TimeUnit: "weird"},
		{UUIDGenerator: "weird"},
	}
	for _, c := range cases {
		if _, err := c.Build(); err == nil {
			t.Fatalf("Build(%#v) = nil error, want error", c)
		}
	}
}

func TestCodecConfig_ExternalType(t *testing.T) {
	t.Run("defaults_to_string", func(t *testing.T) {
		got, err := CodecConfig{}.ExternalType()
		if err != nil || got != codec.ExternalString {
			t.Fatalf("ExternalType() = %v, %v; want ExternalString, nil", got, err)
		}
	})
	t.Run("json", func(t *testing.T) {
		got, err := CodecConfig{External: "json"}.ExternalType()
		if err != nil || got != codec.ExternalJSON {
			t.Fatalf("ExternalType() = %v, %v; want ExternalJSON, nil", got, err)
		}
	})
	t.Run("unknown_errors", func(t *testing.T) {
		if _, err := (CodecConfig{External: "weird"}).ExternalType(); err == nil {
			t.Fatalf("expected error for unknown external type")
		}
	})
}
