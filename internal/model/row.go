package model

import (
	"bytes"
	"encoding/json"
	"fmt"
)

// Row is a single result row from the backend: an ordered mapping from field
// name to a scalar. Go maps do not keep insertion order, but the table
// renderer needs columns in the first row's key order, so the order is
// tracked explicitly.
type Row struct {
	keys   []string
	values map[string]any
}

// NewRow builds a row from ordered key/value pairs.
func NewRow(pairs ...any) Row {
	r := Row{values: make(map[string]any)}
	for i := 0; i+1 < len(pairs); i += 2 {
		key, ok := pairs[i].(string)
		if !ok {
			continue
		}
		r.Set(key, pairs[i+1])
	}
	return r
}

// Keys returns field names in their original order.
func (r Row) Keys() []string {
	return r.keys
}

// Get returns the value for a field and whether it exists.
func (r Row) Get(key string) (any, bool) {
	v, ok := r.values[key]
	return v, ok
}

// Set adds or replaces a field, appending new keys at the end.
func (r *Row) Set(key string, value any) {
	if r.values == nil {
		r.values = make(map[string]any)
	}
	if _, exists := r.values[key]; !exists {
		r.keys = append(r.keys, key)
	}
	r.values[key] = value
}

// Len returns the number of fields.
func (r Row) Len() int {
	return len(r.keys)
}

// Values returns the field values in key order.
func (r Row) Values() []any {
	out := make([]any, 0, len(r.keys))
	for _, k := range r.keys {
		out = append(out, r.values[k])
	}
	return out
}

// UnmarshalJSON decodes a JSON object while preserving the order its keys
// appear on the wire.
func (r *Row) UnmarshalJSON(data []byte) error {
	r.keys = nil
	r.values = make(map[string]any)

	dec := json.NewDecoder(bytes.NewReader(data))
	tok, err := dec.Token()
	if err != nil {
		return err
	}
	if delim, ok := tok.(json.Delim); !ok || delim != '{' {
		return fmt.Errorf("row: expected JSON object, got %v", tok)
	}

	for dec.More() {
		keyTok, err := dec.Token()
		if err != nil {
			return err
		}
		key := keyTok.(string)

		var value any
		if err := dec.Decode(&value); err != nil {
			return err
		}
		r.Set(key, value)
	}

	_, err = dec.Token() // closing brace
	return err
}

// MarshalJSON encodes the row with its keys in original order.
func (r Row) MarshalJSON() ([]byte, error) {
	var buf bytes.Buffer
	buf.WriteByte('{')
	for i, k := range r.keys {
		if i > 0 {
			buf.WriteByte(',')
		}
		keyJSON, err := json.Marshal(k)
		if err != nil {
			return nil, err
		}
		buf.Write(keyJSON)
		buf.WriteByte(':')
		valJSON, err := json.Marshal(r.values[k])
		if err != nil {
			return nil, err
		}
		buf.Write(valJSON)
	}
	buf.WriteByte('}')
	return buf.Bytes(), nil
}
