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
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestCompareScalars(t *testing.T) {
	t.Parallel()

	for name, tc := range map[string]struct {
		a, b any
		want CompareResult
	}{
		"numbersEqual":        {float64(1), float64(1), Equal},
		"numbersLess":         {float64(1), float64(2), Less},
		"numbersGreater":      {float64(2), float64(1), Greater},
		"stringsEqual":        {"a", "a", Equal},
		"stringsLess":         {"a", "b", Less},
		"boolFalseLessTrue":   {false, true, Less},
		"boolEqual":           {true, true, Equal},
		"nullEqual":           {Null, Null, Equal},
		"crossKindScalar":     {float64(1), "1", Incomparable},
		"nullVsNumber":        {Null, float64(0), Incomparable},
		"numberVsDocument":    {float64(1), must(NewDocument()), Incomparable},
	} {
		t.Run(name, func(t *testing.T) {
			t.Parallel()

			assert.Equal(t, tc.want, Compare(tc.a, tc.b))
		})
	}
}

func TestCompareArraysOrderSensitive(t *testing.T) {
	t.Parallel()

	a := MakeArray(2)
	a.Append(float64(1))
	a.Append(float64(2))

	b := MakeArray(2)
	b.Append(float64(2))
	b.Append(float64(1))

	assert.NotEqual(t, Equal, Compare(a, b), "same elements, different order must not compare equal")

	c := MakeArray(2)
	c.Append(float64(1))
	c.Append(float64(2))

	assert.Equal(t, Equal, Compare(a, c))
}

func TestCompareDocumentsOrderInsensitive(t *testing.T) {
	t.Parallel()

	a := must(NewDocument("name", "Bob", "age", float64(20)))
	b := must(NewDocument("age", float64(20), "name", "Bob"))

	assert.Equal(t, Equal, Compare(a, b), "field order must not affect document equality")

	c := must(NewDocument("name", "Bob"))
	assert.NotEqual(t, Equal, Compare(a, c))
}

func TestIdentical(t *testing.T) {
	t.Parallel()

	assert.True(t, Identical(float64(1), float64(1)))
	assert.False(t, Identical(float64(1), float64(2)))
}
