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
	"strings"

	"github.com/memquery-io/memquery/internal/util/must"
)

// Path represents a dotted field path: a non-empty sequence of segments.
type Path struct {
	segments []string
}

// NewPathFromString splits a dotted path string into a Path. An empty
// string, or a path with an empty segment (leading/trailing/doubled dot),
// is invalid.
func NewPathFromString(s string) (Path, error) {
	segments := strings.Split(s, ".")

	for _, seg := range segments {
		if seg == "" {
			return Path{}, fmt.Errorf("types.NewPathFromString: empty path segment in %q", s)
		}
	}

	return Path{segments: segments}, nil
}

// Len returns the number of segments.
func (p Path) Len() int {
	return len(p.segments)
}

// Segments returns a copy of the path's segments.
func (p Path) Segments() []string {
	out := make([]string, len(p.segments))
	copy(out, p.segments)

	return out
}

// String renders the path back to dotted notation.
func (p Path) String() string {
	return strings.Join(p.segments, ".")
}

// ResolveRead walks path through doc, fanning out across arrays: whenever a
// segment traverses into an *Array, resolution continues independently for
// every element, and the witnesses are concatenated. Each returned witness
// is a value actually reached by the path; a segment missing from an Object,
// or a path that tries to walk through a scalar, contributes no witness for
// that branch (not an error — absence is normal).
func ResolveRead(value any, path Path) []any {
	return resolveRead(value, path.segments)
}

func resolveRead(value any, segments []string) []any {
	if len(segments) == 0 {
		return []any{value}
	}

	head, rest := segments[0], segments[1:]

	switch v := value.(type) {
	case *Document:
		next, err := v.Get(head)
		if err != nil {
			return nil
		}

		return resolveRead(next, rest)

	case *Array:
		var witnesses []any

		for _, elem := range v.Iterator() {
			witnesses = append(witnesses, resolveRead(elem, segments)...)
		}

		return witnesses

	default:
		// path continues past a scalar: no witness.
		return nil
	}
}

// Exists reports whether path resolves to at least one witness in doc (as
// opposed to Absent).
func Exists(doc *Document, path Path) bool {
	return len(ResolveRead(doc, path)) > 0
}

// ResolveWrite walks path through doc, creating intermediate Objects as
// needed, and returns a Slot that can Get/Set/Remove the addressed field.
// Unlike ResolveRead, ResolveWrite never fans out across arrays: the
// mutator does not address array elements (§6), so encountering an Array
// partway through the path is an error.
func ResolveWrite(doc *Document, path Path) (*Slot, error) {
	segments := path.segments

	cur := doc

	for i := 0; i < len(segments)-1; i++ {
		seg := segments[i]

		existing, err := cur.Get(seg)
		if err != nil {
			// NewDocument with no arguments never errors; this is exactly
			// the sort of programmer invariant must.NotFail exists for.
			child := must.NotFail(NewDocument())

			if err := cur.Set(seg, child); err != nil {
				return nil, err
			}

			cur = child

			continue
		}

		child, ok := existing.(*Document)
		if !ok {
			return nil, fmt.Errorf(
				"types.ResolveWrite: path %q traverses into non-object field %q", path, seg,
			)
		}

		cur = child
	}

	return &Slot{doc: cur, key: segments[len(segments)-1]}, nil
}

// Slot is a mutable write-side handle to a single field inside a Document,
// produced by ResolveWrite. It is a distinct type from the read-side
// witness list returned by ResolveRead, per the engine's split between a
// read path and a mutable write path.
type Slot struct {
	doc *Document
	key string
}

// Has reports whether the slot currently holds a value.
func (s *Slot) Has() bool {
	return s.doc.Has(s.key)
}

// Get returns the slot's current value, or (nil, false) if absent.
func (s *Slot) Get() (any, bool) {
	v, err := s.doc.Get(s.key)
	if err != nil {
		return nil, false
	}

	return v, true
}

// Set overwrites the slot's value.
func (s *Slot) Set(v any) error {
	return s.doc.Set(s.key, v)
}

// Remove deletes the slot's field, doing nothing if absent.
func (s *Slot) Remove() {
	s.doc.Remove(s.key)
}
