// Copyright 2021 FerretDB Inc.
//
// Licensed under the Apache License, Version 2.0 (the "License");
// you may not use this file except in compliance with the License.
// You may obtain a copy of the License at
//
//     http://www.apache.org/licenses/LICENSE-2.0
//
// Unless required by applicable law or agreed to in writing, software
// distributed under the License is distributed on an "AS IS" BASIS,
// WITHOUT WARRANTIES OR CONDITIONS OF ANY KIND, either express or implied.
// See the License for the specific language governing permissions and
// limitations under the License.

package types

import (
	"fmt"

	"golang.org/x/exp/slices"
)

// Document represents a JSON object: an insertion-ordered mapping from
// string keys to Values. Duplicate field names are not supported.
type Document struct {
	m    map[string]any
	keys []string
}

// NewDocument creates a document with the given key/value pairs, in order.
func NewDocument(pairs ...any) (*Document, error) {
	l := len(pairs)
	if l%2 != 0 {
		return nil, fmt.Errorf("types.NewDocument: invalid number of arguments: %d", l)
	}

	doc := &Document{
		m:    make(map[string]any, l/2),
		keys: make([]string, 0, l/2),
	}

	for i := 0; i < l; i += 2 {
		key, ok := pairs[i].(string)
		if !ok {
			return nil, fmt.Errorf("types.NewDocument: invalid key type: %T", pairs[i])
		}

		if err := doc.add(key, pairs[i+1]); err != nil {
			return nil, fmt.Errorf("types.NewDocument: %w", err)
		}
	}

	return doc, nil
}

// ConvertMap builds a Document from a decoded encoding/json map, preserving
// the order given by keys (encoding/json does not preserve object key order,
// so callers that need order recover it from a json.Decoder token stream and
// pass it here, as the facade does for every document it decodes; keys
// missing from m are skipped, and entries of m not named in keys are left
// out).
func ConvertMap(m map[string]any, keys []string) (*Document, error) {
	doc := &Document{
		m:    make(map[string]any, len(m)),
		keys: make([]string, 0, len(m)),
	}

	for _, key := range keys {
		v, ok := m[key]
		if !ok {
			continue
		}

		converted, err := ConvertAny(v)
		if err != nil {
			return nil, fmt.Errorf("types.ConvertMap: %w", err)
		}

		if err := doc.add(key, converted); err != nil {
			return nil, fmt.Errorf("types.ConvertMap: %w", err)
		}
	}

	return doc, nil
}

// ConvertAny converts a value produced by encoding/json.Unmarshal (into
// any) into a MemQuery Value: map[string]any becomes *Document,
// []any becomes *Array, nil becomes Null, and scalars pass through
// (json.Number is not used; all JSON numbers decode to float64).
func ConvertAny(v any) (any, error) {
	switch v := v.(type) {
	case nil:
		return Null, nil
	case map[string]any:
		// encoding/json does not give us key order, and the data model does
		// not require one (object equality is order-insensitive), so nested
		// keys take Go's map iteration order, which is not deterministic.
		keys := make([]string, 0, len(v))
		for k := range v {
			keys = append(keys, k)
		}

		return ConvertMap(v, keys)
	case []any:
		arr := MakeArray(len(v))
		for _, elem := range v {
			converted, err := ConvertAny(elem)
			if err != nil {
				return nil, err
			}

			arr.Append(converted)
		}

		return arr, nil
	case bool, float64, string:
		return v, nil
	default:
		return nil, fmt.Errorf("types.ConvertAny: unsupported type %T", v)
	}
}

// add adds the value for the given key, returning an error if that key is
// already present or the key/value is invalid.
func (d *Document) add(key string, value any) error {
	if _, ok := d.m[key]; ok {
		return fmt.Errorf("types.Document.add: key already present: %q", key)
	}

	if !isValidKey(key) {
		return fmt.Errorf("types.Document.add: invalid key: %q", key)
	}

	if err := validateValue(value); err != nil {
		return fmt.Errorf("types.Document.add: %w", err)
	}

	d.keys = append(d.keys, key)
	d.m[key] = value

	return nil
}

// DeepCopy returns a deep copy of this Document.
func (d *Document) DeepCopy() *Document {
	if d == nil {
		return nil
	}

	return deepCopy(d).(*Document)
}

// Len returns the number of fields in the document.
func (d *Document) Len() int {
	if d == nil {
		return 0
	}

	return len(d.keys)
}

// Keys returns the document's keys in insertion order. Do not modify it.
func (d *Document) Keys() []string {
	if d == nil {
		return nil
	}

	return d.keys
}

// Map returns the document as a map. Do not modify it.
func (d *Document) Map() map[string]any {
	if d == nil {
		return nil
	}

	return d.m
}

// Has reports whether key is present at the top level.
func (d *Document) Has(key string) bool {
	_, ok := d.m[key]
	return ok
}

// Get returns the value at the given top-level key.
//
// The only possible error is a missing key; callers may rely on that and
// use a plain `if err != nil` check.
func (d *Document) Get(key string) (any, error) {
	if value, ok := d.m[key]; ok {
		return value, nil
	}

	return nil, fmt.Errorf("types.Document.Get: key not found: %q", key)
}

// Set sets the value for the given top-level key, replacing any existing
// value and preserving the key's original position if it already existed.
func (d *Document) Set(key string, value any) error {
	if !isValidKey(key) {
		return fmt.Errorf("types.Document.Set: invalid key: %q", key)
	}

	if err := validateValue(value); err != nil {
		return fmt.Errorf("types.Document.Set: %w", err)
	}

	if d.m == nil {
		d.m = map[string]any{}
	}

	if _, ok := d.m[key]; !ok {
		d.keys = append(d.keys, key)
	}

	d.m[key] = value

	return nil
}

// Remove deletes the given top-level key, doing nothing if absent.
func (d *Document) Remove(key string) {
	if _, ok := d.m[key]; !ok {
		return
	}

	delete(d.m, key)

	if i := slices.Index(d.keys, key); i >= 0 {
		d.keys = slices.Delete(d.keys, i, i+1)
	}
}

// Merge writes every key/value pair of other into d, overwriting existing
// fields and leaving unmentioned fields untouched. This is the replacement-
// style update behavior: a merge, not a full replace.
func (d *Document) Merge(other *Document) {
	for _, key := range other.Keys() {
		// Set cannot fail: other.Get(key) is already a valid Value and key
		// is already a valid key, since other is itself a *Document.
		_ = d.Set(key, other.m[key])
	}
}
