package config

import (
	"encoding/json"
	"fmt"
)

// Settings is a short-alias document: a flat map from a short name (e.g.
// "url") to the dotted path it stands for (e.g. "connector.settings.url"),
// loaded separately from the main configuration tree so a deployment can
// hand operators a small vocabulary of aliases without exposing the full
// dotted-path surface. Mirrors the teacher's HeaderMap remapping of source
// column names to canonical keys before binding into typed fields,
// generalized from "remap one CSV header" to "remap one CLI alias".
type Settings map[string]string

// ParseSettings decodes a settings document (flat JSON object of
// alias -> dotted path).
func ParseSettings(b []byte) (Settings, error) {
	var s Settings
	if err := json.Unmarshal(b, &s); err != nil {
		return nil, fmt.Errorf("config: parsing settings document: %w", err)
	}
	return s, nil
}

// Resolve returns the dotted path an alias stands for, or key unchanged if
// it is not a known alias (i.e. it is already a dotted path).
func (s Settings) Resolve(key string) string {
	if path, ok := s[key]; ok {
		return path
	}
	return key
}

// ApplyAlias stores value under the dotted path key resolves to via s,
// rejecting keys that resolve to neither a known alias nor a recognized
// top-level dotted path.
func (s Settings) ApplyAlias(t Tree, key, value string) error {
	return t.SetString(s.Resolve(key), value)
}
