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

import "fmt"

// Array represents a JSON array: an ordered sequence of Values.
type Array struct {
	s []any
}

// NewArray creates an array from the given elements.
func NewArray(elements ...any) (*Array, error) {
	arr := MakeArray(len(elements))

	for _, e := range elements {
		if err := validateValue(e); err != nil {
			return nil, fmt.Errorf("types.NewArray: %w", err)
		}

		arr.s = append(arr.s, e)
	}

	return arr, nil
}

// MakeArray creates an empty array with the given capacity hint.
func MakeArray(cap int) *Array {
	return &Array{s: make([]any, 0, cap)}
}

// DeepCopy returns a deep copy of this Array.
func (a *Array) DeepCopy() *Array {
	if a == nil {
		return nil
	}

	return deepCopy(a).(*Array)
}

// Len returns the number of elements in the array.
func (a *Array) Len() int {
	if a == nil {
		return 0
	}

	return len(a.s)
}

// Get returns the element at the given index.
func (a *Array) Get(index int) (any, error) {
	if index < 0 || index >= len(a.s) {
		return nil, fmt.Errorf("types.Array.Get: index out of bounds: %d", index)
	}

	return a.s[index], nil
}

// Append appends a value to the array. The caller must ensure v is a valid
// Value; Append is used internally by the engine where that is already
// guaranteed.
func (a *Array) Append(v any) {
	a.s = append(a.s, v)
}

// Iterator returns a slice of all elements. Do not modify it.
func (a *Array) Iterator() []any {
	if a == nil {
		return nil
	}

	return a.s
}
