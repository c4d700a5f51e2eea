package apiutils

import (
	"bytes"
	"encoding/json"
	"sort"
)

// Pair is a single entry of an ordered parameter mapping.
type Pair struct {
	Key   string
	Value any
}

// Pairs is an ordered parameter mapping. It marshals to a JSON object that
// keeps the entry order.
type Pairs []Pair

// MarshalJSON encodes the pairs as a JSON object in their own order.
func (p Pairs) MarshalJSON() ([]byte, error) {
	var buf bytes.Buffer
	buf.WriteByte('{')
	for i, pair := range p {
		if i > 0 {
			buf.WriteByte(',')
		}
		key, err := marshalJSON(pair.Key)
		if err != nil {
			return nil, err
		}
		value, err := marshalJSON(pair.Value)
		if err != nil {
			return nil, err
		}
		buf.Write(key)
		buf.WriteByte(':')
		buf.Write(value)
	}
	buf.WriteByte('}')
	return buf.Bytes(), nil
}

// Get returns the value of the first pair with the given key.
func (p Pairs) Get(key string) (any, bool) {
	for _, pair := range p {
		if pair.Key == key {
			return pair.Value, true
		}
	}
	return nil, false
}

// Params is a parameter mapping used for query strings, form bodies and
// signatures.
type Params map[string]any

// Pairs returns the mapping as pairs in ascending byte order of the keys.
func (p Params) Pairs() Pairs {
	keys := make([]string, 0, len(p))
	for k := range p {
		keys = append(keys, k)
	}
	sort.Strings(keys)

	pairs := make(Pairs, 0, len(keys))
	for _, k := range keys {
		pairs = append(pairs, Pair{Key: k, Value: p[k]})
	}
	return pairs
}

// Clone returns a shallow copy of the mapping.
func (p Params) Clone() Params {
	out := make(Params, len(p))
	for k, v := range p {
		out[k] = v
	}
	return out
}

// SetSerialized stores a serialized value, omitting the key entirely when the
// value is absent.
func (p Params) SetSerialized(key string, value *string) {
	if value == nil {
		delete(p, key)
		return
	}
	p[key] = *value
}

// Whitelist returns the entries of options whose keys are in keys.
func Whitelist(options Params, keys ...string) Params {
	out := make(Params, len(keys))
	for _, k := range keys {
		if v, ok := options[k]; ok {
			out[k] = v
		}
	}
	return out
}

// Merge returns a new mapping holding base overlaid by every overlay in order.
func Merge(base Params, overlays ...Params) Params {
	out := base.Clone()
	for _, o := range overlays {
		for k, v := range o {
			out[k] = v
		}
	}
	return out
}

// marshalJSON encodes v without HTML escaping and without a trailing newline.
func marshalJSON(v any) ([]byte, error) {
	var buf bytes.Buffer
	enc := json.NewEncoder(&buf)
	enc.SetEscapeHTML(false)
	if err := enc.Encode(v); err != nil {
		return nil, err
	}
	return bytes.TrimRight(buf.Bytes(), "\n"), nil
}
