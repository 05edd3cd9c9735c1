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

// CompareResult represents the result of comparing two Values.
type CompareResult int8

// Values match the results of comparison functions such as bytes.Compare;
// Incomparable is used for variant pairs §3 defines no ordering for.
const (
	Equal        CompareResult = 0
	Less         CompareResult = -1
	Greater      CompareResult = 1
	Incomparable CompareResult = 127
)

// String implements fmt.Stringer.
func (r CompareResult) String() string {
	switch r {
	case Equal:
		return "=="
	case Less:
		return "<"
	case Greater:
		return ">"
	case Incomparable:
		return "≹"
	default:
		return "invalid"
	}
}

// Compare compares two Values structurally: object comparison is order-
// insensitive across fields, array comparison is order-sensitive and
// element-wise, and comparison across distinct variants other than the
// ordered scalar kinds is Incomparable. Arrays and objects support
// equality only: two of them are either Equal or Incomparable.
func Compare(a, b any) CompareResult {
	switch av := a.(type) {
	case *Document:
		bv, ok := b.(*Document)
		if !ok || compareDocuments(av, bv) != Equal {
			return Incomparable
		}

		return Equal

	case *Array:
		bv, ok := b.(*Array)
		if !ok || compareArrays(av, bv) != Equal {
			return Incomparable
		}

		return Equal

	default:
		return compareScalars(a, b)
	}
}

// compareScalars compares two scalar Values: Number, String, Bool, or Null.
// Comparing across distinct scalar kinds, or with a non-scalar, is
// Incomparable.
func compareScalars(a, b any) CompareResult {
	switch av := a.(type) {
	case float64:
		bv, ok := b.(float64)
		if !ok {
			return Incomparable
		}

		return compareOrdered(av, bv)

	case string:
		bv, ok := b.(string)
		if !ok {
			return Incomparable
		}

		return compareOrdered(av, bv)

	case bool:
		bv, ok := b.(bool)
		if !ok {
			return Incomparable
		}

		if av == bv {
			return Equal
		}

		// false < true
		if bv {
			return Less
		}

		return Greater

	case NullType:
		if _, ok := b.(NullType); ok {
			return Equal
		}

		return Incomparable

	default:
		return Incomparable
	}
}

// compareOrdered compares two values of the same ordered scalar kind.
func compareOrdered[T string | float64](a, b T) CompareResult {
	switch {
	case a == b:
		return Equal
	case a < b:
		return Less
	default:
		return Greater
	}
}

// compareArrays compares two arrays element-wise, order-sensitively.
func compareArrays(a, b *Array) CompareResult {
	if a.Len() != b.Len() {
		if a.Len() < b.Len() {
			return Less
		}

		return Greater
	}

	for i := 0; i < a.Len(); i++ {
		av, _ := a.Get(i)
		bv, _ := b.Get(i)

		if r := Compare(av, bv); r != Equal {
			return r
		}
	}

	return Equal
}

// compareDocuments compares two documents: equal iff they have the same set
// of keys (order-insensitive) with structurally equal values.
func compareDocuments(a, b *Document) CompareResult {
	if a.Len() != b.Len() {
		if a.Len() < b.Len() {
			return Less
		}

		return Greater
	}

	for _, key := range a.Keys() {
		bv, err := b.Get(key)
		if err != nil {
			// key present in a, absent in b: no ordering is defined between
			// documents with different key sets, but we still need a
			// deterministic non-Equal result.
			return Incomparable
		}

		av, _ := a.Get(key)

		if r := Compare(av, bv); r != Equal {
			return r
		}
	}

	return Equal
}

// Identical reports whether two Values are deeply, structurally equal. It is
// Compare(a, b) == Equal, spelled out for call sites that only care about
// equality and not ordering.
func Identical(a, b any) bool {
	return Compare(a, b) == Equal
}
