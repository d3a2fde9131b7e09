package config

import (
	"bytes"
	"encoding/json"
	"fmt"
	"math"
)

// Entry is a single key/value pair of a Mapping.
type Entry struct {
	Key   string
	Value any
}

// Mapping is an ordered, read-only mapping from string keys to configuration values.
//
// Values are one of nil, bool, int64, uint64, float64, string, []any or *Mapping.
type Mapping struct {
	keys   []string
	values map[string]any
}

// NewMapping builds a Mapping from entries in order. When a key repeats, the
// later value wins and the key keeps its first position. This only applies to
// mappings built in code: the YAML parser rejects duplicate keys with ErrParse.
func NewMapping(entries []Entry) *Mapping {
	mapping := &Mapping{
		keys:   make([]string, 0, len(entries)),
		values: make(map[string]any, len(entries)),
	}

	for _, entry := range entries {
		if _, exists := mapping.values[entry.Key]; !exists {
			mapping.keys = append(mapping.keys, entry.Key)
		}

		mapping.values[entry.Key] = entry.Value
	}

	return mapping
}

// Len returns the number of keys.
func (m *Mapping) Len() int {
	if m == nil {
		return 0
	}

	return len(m.keys)
}

// Keys returns the keys in document order.
func (m *Mapping) Keys() []string {
	if m == nil {
		return []string{}
	}

	keys := make([]string, len(m.keys))
	copy(keys, m.keys)

	return keys
}

// Lookup returns the value stored under key.
func (m *Mapping) Lookup(key string) (any, bool) {
	if m == nil {
		return nil, false
	}

	value, ok := m.values[key]
	if !ok {
		return nil, false
	}

	return cloneValue(value), true
}

func (m *Mapping) raw(key string) (any, bool) {
	if m == nil {
		return nil, false
	}

	value, ok := m.values[key]

	return value, ok
}

// Entries returns the key/value pairs in document order.
func (m *Mapping) Entries() []Entry {
	if m == nil {
		return []Entry{}
	}

	entries := make([]Entry, 0, len(m.keys))
	for _, key := range m.keys {
		entries = append(entries, Entry{Key: key, Value: cloneValue(m.values[key])})
	}

	return entries
}

// MarshalJSON encodes the mapping as a JSON object preserving key order.
func (m *Mapping) MarshalJSON() ([]byte, error) {
	var buf bytes.Buffer

	buf.WriteByte('{')

	for i, key := range m.Keys() {
		if i > 0 {
			buf.WriteByte(',')
		}

		encodedKey, err := json.Marshal(key)
		if err != nil {
			return nil, fmt.Errorf("encoding key %q: %w", key, err)
		}

		encodedValue, err := json.Marshal(JSONValue(m.values[key]))
		if err != nil {
			return nil, fmt.Errorf("encoding value of %q: %w", key, err)
		}

		buf.Write(encodedKey)
		buf.WriteByte(':')
		buf.Write(encodedValue)
	}

	buf.WriteByte('}')

	return buf.Bytes(), nil
}

// JSONValue prepares a document value for encoding/json. Non-finite floats,
// which JSON cannot carry, become their YAML spelling: ".nan", ".inf", "-.inf".
// Mappings encode themselves through MarshalJSON.
func JSONValue(value any) any {
	switch typed := value.(type) {
	case float64:
		switch {
		case math.IsNaN(typed):
			return ".nan"
		case math.IsInf(typed, 1):
			return ".inf"
		case math.IsInf(typed, -1):
			return "-.inf"
		}
	case []any:
		out := make([]any, len(typed))
		for i, item := range typed {
			out[i] = JSONValue(item)
		}

		return out
	}

	return value
}

// cloneValue copies sequences so callers cannot reach into the document.
// Mappings have no mutators and are shared.
func cloneValue(value any) any {
	seq, ok := value.([]any)
	if !ok {
		return value
	}

	out := make([]any, len(seq))
	for i, item := range seq {
		out[i] = cloneValue(item)
	}

	return out
}

// kindOf names the configuration type of a value for error messages.
func kindOf(value any) string {
	switch value.(type) {
	case nil:
		return "null"
	case bool:
		return "bool"
	case int64, uint64:
		return "int"
	case float64:
		return "float"
	case string:
		return "string"
	case []any:
		return "sequence"
	case *Mapping:
		return "mapping"
	default:
		return fmt.Sprintf("%T", value)
	}
}
