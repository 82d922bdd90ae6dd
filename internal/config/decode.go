package config

import (
	"encoding/json"
	"fmt"
	"sort"
	"strconv"
	"strings"
)

// recognizedSections is the fixed top-level path set spec §6 defines.
// Any dotted key whose first segment is not in this set is rejected.
var recognizedSections = map[string]struct{}{
	"connector":  {},
	"driver":     {},
	"schema":     {},
	"batch":      {},
	"executor":   {},
	"codec":      {},
	"log":        {},
	"monitoring": {},
	"engine":     {},
	"stats":      {},
}

// Tree is a nested map built up from dotted-path keys (e.g.
// "connector.csv.url"), the intermediate representation between CLI flags
// and a decoded Config. It is exported so the CLI layer can build one key
// at a time as it parses argv, then Decode it in one pass.
type Tree map[string]any

// NewTree returns an empty Tree.
func NewTree() Tree { return Tree{} }

// TreeFromJSON parses a settings-document byte slice into a Tree, so a CLI
// can load a base document and then layer dotted-flag overrides on top of
// it through the same Set/SetString calls used for flags alone.
func TreeFromJSON(b []byte) (Tree, error) {
	var m map[string]any
	if err := json.Unmarshal(b, &m); err != nil {
		return nil, fmt.Errorf("config: parsing settings document: %w", err)
	}
	return wrapTree(m), nil
}

func wrapTree(m map[string]any) Tree {
	out := make(Tree, len(m))
	for k, v := range m {
		if sub, ok := v.(map[string]any); ok {
			out[k] = wrapTree(sub)
		} else {
			out[k] = v
		}
	}
	return out
}

// Set stores value at the dotted path key, creating intermediate maps as
// needed. It returns an error if path's first segment is not a recognized
// top-level section, or if a non-leaf segment collides with an existing
// leaf value.
func (t Tree) Set(path string, value any) error {
	segs := strings.Split(path, ".")
	if len(segs) == 0 || segs[0] == "" {
		return fmt.Errorf("config: empty path")
	}
	if _, ok := recognizedSections[segs[0]]; !ok {
		return fmt.Errorf("config: unrecognized top-level path %q", segs[0])
	}

	cur := t
	for i, seg := range segs[:len(segs)-1] {
		next, ok := cur[seg]
		if !ok {
			m := Tree{}
			cur[seg] = m
			cur = m
			continue
		}
		m, ok := next.(Tree)
		if !ok {
			return fmt.Errorf("config: path %q conflicts with scalar value at %q",
				path, strings.Join(segs[:i+1], "."))
		}
		cur = m
	}
	cur[segs[len(segs)-1]] = value
	return nil
}

// SetString parses value according to flagKind conventions used by the
// CLI: "true"/"false" become bool, a valid integer or float becomes a JSON
// number, a comma-separated form for keys ending in plural-sounding names
// is left to the caller (SetList below handles that explicitly); everything
// else is stored as a string.
func (t Tree) SetString(path, value string) error {
	if value == "true" || value == "false" {
		return t.Set(path, value == "true")
	}
	if n, err := strconv.ParseInt(value, 10, 64); err == nil {
		return t.Set(path, n)
	}
	if f, err := strconv.ParseFloat(value, 64); err == nil {
		return t.Set(path, f)
	}
	return t.Set(path, value)
}

// SetList stores a comma-separated list of strings at path, trimming
// whitespace around each element. Used for settings like
// "log.sanitizePrefixes" and "codec.nullStrings".
func (t Tree) SetList(path, value string) error {
	parts := strings.Split(value, ",")
	out := make([]string, 0, len(parts))
	for _, p := range parts {
		p = strings.TrimSpace(p)
		if p != "" {
			out = append(out, p)
		}
	}
	return t.Set(path, out)
}

// plain renders the Tree as encoding/json-compatible nested maps, since
// Tree's own leaves (Tree values) are not directly json.Marshal-able as
// map[string]any.
func (t Tree) plain() map[string]any {
	out := make(map[string]any, len(t))
	for k, v := range t {
		if sub, ok := v.(Tree); ok {
			out[k] = sub.plain()
		} else {
			out[k] = v
		}
	}
	return out
}

// Decode unmarshals the Tree into a Config via its JSON representation.
// This keeps exactly one decode path (encoding/json unmarshaling into
// Config's typed fields) regardless of whether values arrived from a
// settings document or from dotted CLI flags.
func (t Tree) Decode() (Config, error) {
	b, err := json.Marshal(t.plain())
	if err != nil {
		return Config{}, fmt.Errorf("config: marshaling tree: %w", err)
	}
	return Decode(b)
}

// Paths returns every leaf dotted-path currently set in the tree, sorted,
// for diagnostics (e.g. an error message listing what was supplied).
func (t Tree) Paths() []string {
	var out []string
	t.collect("", &out)
	sort.Strings(out)
	return out
}

func (t Tree) collect(prefix string, out *[]string) {
	for k, v := range t {
		path := k
		if prefix != "" {
			path = prefix + "." + k
		}
		if sub, ok := v.(Tree); ok {
			sub.collect(path, out)
			continue
		}
		*out = append(*out, path)
	}
}
