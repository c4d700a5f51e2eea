package apiutils

import (
	"encoding/json"
	"fmt"
	"math"
	"reflect"
	"sort"
	"strconv"
	"strings"
)

// Wire delimiters.
const (
	HeadersOuterDelimiter     = "\n"
	HeadersInnerDelimiter     = ":"
	APIParamDelimiter         = ","
	ContextOuterDelimiter     = "|"
	ContextInnerDelimiter     = "="
	ArrayOfArraysDelimiter    = "|"
	QueryStringOuterDelimiter = "&"
	QueryStringInnerDelimiter = "="
)

type valueKind int

const (
	kindNull valueKind = iota
	kindScalar
	kindSequence
	kindMapping
	kindUnsupported
)

// SerializeSimple serializes a simple parameter. Sequences are joined with
// APIParamDelimiter.
func SerializeSimple(v any) (*string, error) {
	return SerializeSimpleWith(v, APIParamDelimiter)
}

// SerializeSimpleWith serializes a simple parameter, joining sequences with
// delimiter. Strings are returned unchanged and nil yields nil.
func SerializeSimpleWith(v any, delimiter string) (*string, error) {
	v = indirect(v)
	switch classify(v) {
	case kindNull:
		return nil, nil
	case kindSequence:
		items := sequenceItems(v)
		parts := make([]string, 0, len(items))
		for _, item := range items {
			s, err := elementString(item)
			if err != nil {
				return nil, err
			}
			if s == nil {
				continue
			}
			parts = append(parts, *s)
		}
		return ptr(strings.Join(parts, delimiter)), nil
	case kindMapping:
		return SerializeJSON(v)
	case kindScalar:
		s, err := scalarString(v)
		if err != nil {
			return nil, err
		}
		return &s, nil
	default:
		return nil, unsupported(v)
	}
}

// SerializeAssocPair serializes a mapping as key<inner>value pairs joined by
// outer. Keys and values go through SerializeSimple first and pairs whose
// value is absent are skipped. An empty or absent mapping yields nil so the
// caller omits the parameter.
func SerializeAssocPair(v any, outer, inner string) (*string, error) {
	v = indirect(v)
	switch classify(v) {
	case kindNull:
		return nil, nil
	case kindMapping:
		pairs := mappingPairs(v)
		parts := make([]string, 0, len(pairs))
		for _, p := range pairs {
			s, err := SerializeSimple(p.Value)
			if err != nil {
				return nil, withKey(err, p.Key)
			}
			if s == nil {
				continue
			}
			parts = append(parts, p.Key+inner+*s)
		}
		if len(parts) == 0 {
			return nil, nil
		}
		return ptr(strings.Join(parts, outer)), nil
	case kindSequence:
		if len(sequenceItems(v)) == 0 {
			return nil, nil
		}
		return SerializeSimpleWith(v, outer)
	case kindScalar:
		s, err := scalarString(v)
		if err != nil {
			return nil, err
		}
		return &s, nil
	default:
		return nil, unsupported(v)
	}
}

// SerializeHeaders serializes the "headers" upload parameter.
func SerializeHeaders(v any) (*string, error) {
	return SerializeAssocPair(v, HeadersOuterDelimiter, HeadersInnerDelimiter)
}

// SerializeJSON returns strings and fmt.Stringer values unchanged, so they are
// not quoted twice, and the compact JSON text of anything else.
func SerializeJSON(v any) (*string, error) {
	v = indirect(v)
	switch t := v.(type) {
	case nil:
		return nil, nil
	case string:
		return &t, nil
	case fmt.Stringer:
		return ptr(t.String()), nil
	}
	if classify(v) == kindUnsupported {
		return nil, unsupported(v)
	}
	b, err := marshalJSON(jsonValue(v))
	if err != nil {
		return nil, &SerializationError{Value: v, Err: err}
	}
	return ptr(string(b)), nil
}

// SerializeNestedArrays serializes a list of coordinate arrays. When the first
// element is a sequence every element is serialized with SerializeSimple and
// the results are joined with ArrayOfArraysDelimiter; otherwise the whole
// value goes through SerializeSimple. Only the first element is inspected.
func SerializeNestedArrays(v any) (*string, error) {
	v = indirect(v)
	switch classify(v) {
	case kindNull:
		return nil, nil
	case kindSequence:
	default:
		return SerializeSimple(v)
	}

	items := sequenceItems(v)
	if len(items) == 0 {
		return nil, nil
	}
	if classify(indirect(items[0])) != kindSequence {
		return SerializeSimple(v)
	}

	parts := make([]string, 0, len(items))
	for _, item := range items {
		s, err := SerializeSimple(item)
		if err != nil {
			return nil, err
		}
		if s == nil {
			continue
		}
		parts = append(parts, *s)
	}
	return ptr(strings.Join(parts, ArrayOfArraysDelimiter)), nil
}

// SerializeContextMap serializes the "context" and "metadata" parameters.
// Values are passed through SerializeJSON first, so structured values travel
// as JSON while plain strings stay bare.
func SerializeContextMap(v any) (*string, error) {
	v = indirect(v)
	if classify(v) != kindMapping {
		return SerializeAssocPair(v, ContextOuterDelimiter, ContextInnerDelimiter)
	}

	pairs := mappingPairs(v)
	encoded := make(Pairs, 0, len(pairs))
	for _, p := range pairs {
		s, err := SerializeJSON(p.Value)
		if err != nil {
			return nil, withKey(err, p.Key)
		}
		if s == nil {
			continue
		}
		encoded = append(encoded, Pair{Key: p.Key, Value: *s})
	}
	return SerializeAssocPair(encoded, ContextOuterDelimiter, ContextInnerDelimiter)
}

// indirect dereferences pointers, stopping at values that implement
// fmt.Stringer. A nil pointer, map or slice becomes nil.
func indirect(v any) any {
	if v == nil {
		return nil
	}
	rv := reflect.ValueOf(v)
	for rv.Kind() == reflect.Pointer {
		if rv.IsNil() {
			return nil
		}
		if _, ok := rv.Interface().(fmt.Stringer); ok {
			return rv.Interface()
		}
		rv = rv.Elem()
	}
	switch rv.Kind() {
	case reflect.Map, reflect.Slice:
		if rv.IsNil() {
			return nil
		}
	}
	return rv.Interface()
}

func classify(v any) valueKind {
	switch v.(type) {
	case nil:
		return kindNull
	case string, bool, []byte, json.Number:
		return kindScalar
	case Pairs, []Pair:
		return kindMapping
	case fmt.Stringer:
		return kindScalar
	}

	rv := reflect.ValueOf(v)
	switch rv.Kind() {
	case reflect.String, reflect.Bool,
		reflect.Int, reflect.Int8, reflect.Int16, reflect.Int32, reflect.Int64,
		reflect.Uint, reflect.Uint8, reflect.Uint16, reflect.Uint32, reflect.Uint64,
		reflect.Float32, reflect.Float64:
		return kindScalar
	case reflect.Slice, reflect.Array:
		return kindSequence
	case reflect.Map:
		if rv.Type().Key().Kind() == reflect.String {
			return kindMapping
		}
	}
	return kindUnsupported
}

func sequenceItems(v any) []any {
	if items, ok := v.([]any); ok {
		return items
	}
	rv := reflect.ValueOf(v)
	items := make([]any, rv.Len())
	for i := range items {
		items[i] = rv.Index(i).Interface()
	}
	return items
}

// mappingPairs returns the entries of a mapping, keeping the order of Pairs
// and sorting the keys of Go maps.
func mappingPairs(v any) Pairs {
	switch t := v.(type) {
	case Pairs:
		return t
	case []Pair:
		return Pairs(t)
	case Params:
		return t.Pairs()
	}

	rv := reflect.ValueOf(v)
	keys := make([]string, 0, rv.Len())
	values := make(map[string]any, rv.Len())
	iter := rv.MapRange()
	for iter.Next() {
		k := iter.Key().String()
		keys = append(keys, k)
		values[k] = iter.Value().Interface()
	}
	sort.Strings(keys)

	pairs := make(Pairs, 0, len(keys))
	for _, k := range keys {
		pairs = append(pairs, Pair{Key: k, Value: values[k]})
	}
	return pairs
}

// elementString is the string form of a sequence element. Composite elements
// are emitted as JSON.
func elementString(v any) (*string, error) {
	v = indirect(v)
	switch classify(v) {
	case kindNull:
		return nil, nil
	case kindScalar:
		s, err := scalarString(v)
		if err != nil {
			return nil, err
		}
		return &s, nil
	case kindSequence, kindMapping:
		return SerializeJSON(v)
	default:
		return nil, unsupported(v)
	}
}

func scalarString(v any) (string, error) {
	switch t := v.(type) {
	case string:
		return t, nil
	case []byte:
		return string(t), nil
	case bool:
		return boolString(t), nil
	case json.Number:
		return t.String(), nil
	case fmt.Stringer:
		return t.String(), nil
	}

	rv := reflect.ValueOf(v)
	switch rv.Kind() {
	case reflect.String:
		return rv.String(), nil
	case reflect.Bool:
		return boolString(rv.Bool()), nil
	case reflect.Int, reflect.Int8, reflect.Int16, reflect.Int32, reflect.Int64:
		return strconv.FormatInt(rv.Int(), 10), nil
	case reflect.Uint, reflect.Uint8, reflect.Uint16, reflect.Uint32, reflect.Uint64:
		return strconv.FormatUint(rv.Uint(), 10), nil
	case reflect.Float32, reflect.Float64:
		return FloatToString(rv.Float())
	}
	return "", unsupported(v)
}

// FloatToString formats f with at most 14 significant digits.
func FloatToString(f float64) (string, error) {
	if math.IsNaN(f) || math.IsInf(f, 0) {
		return "", unsupported(f)
	}
	return strconv.FormatFloat(f, 'g', 14, 64), nil
}

func boolString(b bool) string {
	if b {
		return "1"
	}
	return "0"
}

// jsonValue converts values encoding/json cannot handle on its own.
func jsonValue(v any) any {
	if pairs, ok := v.([]Pair); ok {
		return Pairs(pairs)
	}
	return v
}

func ptr(s string) *string {
	return &s
}

// Sequence returns the elements of v when v is an ordered sequence. Strings
// and []byte are not sequences.
func Sequence(v any) ([]any, bool) {
	v = indirect(v)
	if classify(v) != kindSequence {
		return nil, false
	}
	return sequenceItems(v), true
}
