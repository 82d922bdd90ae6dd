// Package config defines the hierarchical configuration tree consumed by
// cmd/cqlbulk: a fixed set of top-level dotted-path sections (connector,
// driver, schema, batch, executor, codec, log, monitoring, engine, stats),
// each typed where the shape is fixed and left as a free-form Options bag
// where it varies by plugin (per-connector, per-driver settings).
//
// Decoding mirrors the teacher's stance: no third-party config library.
// Values arrive either from a settings document (JSON, decoded with
// encoding/json) or from dotted CLI flags (decode.go), both funneled
// through the same Tree before being unmarshaled into Config.
package config

import "encoding/json"

// Config is the full decoded configuration tree for one run.
type Config struct {
	Connector  ConnectorConfig `json:"connector"`
	Driver     Options         `json:"driver"`
	Schema     SchemaConfig    `json:"schema"`
	Batch      BatchConfig     `json:"batch"`
	Executor   ExecutorConfig  `json:"executor"`
	Codec      CodecConfig     `json:"codec"`
	Log        LogConfig       `json:"log"`
	Monitoring Options         `json:"monitoring"`
	Engine     EngineConfig    `json:"engine"`
	Stats      Options         `json:"stats"`
}

// ConnectorConfig selects and configures the pluggable connector plugin.
// Settings is passed verbatim to connector.Connector.Configure; its shape
// is defined by the connector implementation, not by this package.
type ConnectorConfig struct {
	// Kind names the connector implementation (e.g. "csv", "jsonl", "url").
	Kind string `json:"kind"`

	// Settings carries every connector.settings.* key, with the
	// "connector.settings." prefix stripped (e.g. "connector.settings.url"
	// arrives here as Settings["url"]). Keys under any other
	// connector.<name>.* path are not copied into Settings.
	Settings map[string]string `json:"settings"`
}

// SchemaConfig names the target table and the declarative field<->variable
// mapping bound against it.
type SchemaConfig struct {
	Keyspace string `json:"keyspace"`
	Table    string `json:"table"`

	// Mapping is the raw "schema.mapping" declaration, parsed at workflow
	// init time by mapper.ParseMapping.
	Mapping string `json:"mapping"`

	// Indexed selects whether Mapping addresses record fields by name
	// (false) or zero-based position (true).
	Indexed bool `json:"indexed"`

	// Columns declares the target table's columns as a comma-separated
	// list of "name:internalType" or "name:internalType:key" entries (key
	// marking a routing-key column), e.g. "country:text:key,ip:text".
	// Parsed by SchemaConfig.TableDef (in schema.go) into a schema.TableDef.
	Columns string `json:"columns"`

	// Consistency is passed through to the synthesized statement
	// templates (mapper.Template.Consistency).
	Consistency string `json:"consistency"`
}

// BatchConfig mirrors batch.Config with JSON tags and a string Mode so it
// decodes cleanly from "PARTITION_KEY"/"REPLICA_SET" settings values.
type BatchConfig struct {
	Mode               string `json:"mode"`
	MaxBatchStatements int    `json:"maxBatchStatements"`
	MaxSizeInBytes     int64  `json:"maxSizeInBytes"`
}

// ExecutorConfig mirrors executor.Config with JSON tags and a string Mode.
type ExecutorConfig struct {
	MaxInFlightRequests  int     `json:"maxInFlightRequests"`
	MaxInFlightQueries   int     `json:"maxInFlightQueries"`
	MaxRequestsPerSecond float64 `json:"maxRequestsPerSecond"`
	Mode                 string  `json:"mode"`
}

// CodecConfig carries the conversion-context knobs spec §4.1 exposes,
// as strings/primitives so they decode from flags or JSON without pulling
// in codec's own option types. Build (in internal/config/codec.go) turns
// this into a *codec.ConversionContext.
type CodecConfig struct {
	Locale             string   `json:"locale"`
	TimeZone           string   `json:"timeZone"`
	NullStrings        []string `json:"nullStrings"`
	NumberPattern      string   `json:"numberPattern"`
	FormatNumbers      bool     `json:"formatNumbers"`
	Overflow           string   `json:"overflow"`
	Rounding           string   `json:"rounding"`
	TimestampFormat    string   `json:"timestampFormat"`
	CQLTimestamp       bool     `json:"cqlTimestamp"`
	DateFormat         string   `json:"dateFormat"`
	TimeFormat         string   `json:"timeFormat"`
	TimeUnit           string   `json:"timeUnit"`
	UUIDGenerator      string   `json:"uuidGenerator"`
	AllowExtraFields   bool     `json:"allowExtraFields"`
	AllowMissingFields bool     `json:"allowMissingFields"`
	// External selects the connector's external representation
	// ("string" or "json"), matched against codec.ExternalType.
	External string `json:"external"`
}

// LogConfig mirrors logmgr.Config plus the execution-directory template
// spec §6 defines.
type LogConfig struct {
	Dir              string   `json:"dir"`
	MaxErrors        int64    `json:"maxErrors"`
	MaxErrorRatio    float64  `json:"maxErrorRatio"`
	MaxHeldPositions int      `json:"maxHeldPositions"`
	SanitizePrefixes []string `json:"sanitizePrefixes"`
	SanitizeDepth    int      `json:"sanitizeDepth"`

	// ExecutionIDTemplate renders the {logRoot}/{executionId}/ directory
	// name. Recognized substitutions: {operation}, {timestamp}, {hostname}.
	// Empty means a UUID-based default.
	ExecutionIDTemplate string `json:"executionIdTemplate"`
}

// EngineConfig holds run-scoped knobs that apply across all three
// operations rather than to one component.
type EngineConfig struct {
	// CancellationGraceSeconds overrides the grace period Execute grants a
	// cooperatively cancelled run before reporting it crashed. Zero means
	// the package default (10s).
	CancellationGraceSeconds int `json:"cancellationGraceSeconds"`

	// DryRun disables every write dispatch to the driver for the duration
	// of the run: connector reads, mapping and batching all proceed as
	// normal, but no statement or batch ever reaches the driver, and every
	// write is reported as succeeded. Reads (unload, count) are unaffected.
	DryRun bool `json:"dryRun"`
}

// Options is a free-form map for sections whose shape varies by plugin
// (driver, monitoring, stats), with typed getters so call sites never
// need to type-switch on decoded JSON values.
type Options map[string]any

// String returns the string value for key or def if key is missing or not
// a string.
func (o Options) String(key, def string) string {
	if v, ok := o[key]; ok {
		if s, ok := v.(string); ok {
			return s
		}
	}
	return def
}

// Bool returns the bool value for key or def if key is missing or not a
// bool.
func (o Options) Bool(key string, def bool) bool {
	if v, ok := o[key]; ok {
		if b, ok := v.(bool); ok {
			return b
		}
	}
	return def
}

// Int returns the int value for key or def. JSON numbers decode as
// float64, so this method accepts float64 and casts to int.
func (o Options) Int(key string, def int) int {
	if v, ok := o[key]; ok {
		switch n := v.(type) {
		case float64:
			return int(n)
		case int:
			return n
		}
	}
	return def
}

// StringMap returns a map[string]string for key when the value is an
// object whose values are strings. Non-string values are ignored.
func (o Options) StringMap(key string) map[string]string {
	res := map[string]string{}
	if v, ok := o[key]; ok {
		if m, ok := v.(map[string]any); ok {
			for k, vv := range m {
				if s, ok := vv.(string); ok {
					res[k] = s
				}
			}
		}
	}
	return res
}

// Any returns the raw value for key.
func (o Options) Any(key string) any {
	if v, ok := o[key]; ok {
		return v
	}
	return nil
}

// UnmarshalJSON implements json.Unmarshaler so a null section decodes to a
// non-nil, empty Options map. encoding/json does not call it for a section
// that is absent, so such a field stays nil; the getters above treat a nil
// Options as empty, so call sites need no nil-check either way.
func (o *Options) UnmarshalJSON(b []byte) error {
	var tmp map[string]any
	if len(b) == 0 || string(b) == "null" {
		*o = Options{}
		return nil
	}
	if err := json.Unmarshal(b, &tmp); err != nil {
		return err
	}
	*o = Options(tmp)
	return nil
}

// Decode unmarshals a settings-document byte slice (the JSON form a
// settings file on disk takes) into a Config. Unknown keys are silently
// ignored, following encoding/json's default behavior; Validate does not
// check them either. Only building the input through Tree.Set (decode.go)
// rejects paths outside this package's recognized top-level sections.
func Decode(b []byte) (Config, error) {
	var cfg Config
	if err := json.Unmarshal(b, &cfg); err != nil {
		return Config{}, err
	}
	return cfg, nil
}
