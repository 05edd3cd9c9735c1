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
	"github.com/stretchr/testify/require"
)

func TestNewDocumentOddArgs(t *testing.T) {
	t.Parallel()

	_, err := NewDocument("name")
	assert.Error(t, err)
}

func TestNewDocumentPreservesOrder(t *testing.T) {
	t.Parallel()

	doc, err := NewDocument("b", "2", "a", "1")
	require.NoError(t, err)

	assert.Equal(t, []string{"b", "a"}, doc.Keys())
}

func TestDocumentGetSetHasRemove(t *testing.T) {
	t.Parallel()

	doc := must(NewDocument("name", "Bob"))

	assert.True(t, doc.Has("name"))
	assert.False(t, doc.Has("age"))

	v, err := doc.Get("name")
	require.NoError(t, err)
	assert.Equal(t, "Bob", v)

	_, err = doc.Get("age")
	assert.Error(t, err)

	require.NoError(t, doc.Set("age", float64(20)))
	assert.Equal(t, []string{"name", "age"}, doc.Keys())

	require.NoError(t, doc.Set("name", "Rob"))
	assert.Equal(t, []string{"name", "age"}, doc.Keys(), "overwriting a key keeps its position")

	doc.Remove("name")
	assert.False(t, doc.Has("name"))
	assert.Equal(t, []string{"age"}, doc.Keys())

	doc.Remove("missing") // no-op, must not panic
}

func TestDocumentMerge(t *testing.T) {
	t.Parallel()

	doc := must(NewDocument("name", "Bob", "age", float64(20)))
	patch := must(NewDocument("age", float64(21), "city", "NYC"))

	doc.Merge(patch)

	assert.Equal(t, []string{"name", "age", "city"}, doc.Keys())

	age, err := doc.Get("age")
	require.NoError(t, err)
	assert.Equal(t, float64(21), age)
}

func TestDocumentDeepCopyIsIndependent(t *testing.T) {
	t.Parallel()

	inner := must(NewDocument("x", float64(1)))
	doc := must(NewDocument("inner", inner))

	cp := doc.DeepCopy()

	require.NoError(t, inner.Set("x", float64(2)))

	cpInner, err := cp.Get("inner")
	require.NoError(t, err)

	v, err := cpInner.(*Document).Get("x")
	require.NoError(t, err)
	assert.Equal(t, float64(1), v, "deep copy must not observe later mutation of the source")
}

func TestConvertMapAndConvertAny(t *testing.T) {
	t.Parallel()

	raw := map[string]any{
		"name": "Bob",
		"tags": []any{"a", "b"},
		"addr": map[string]any{"city": "NYC"},
		"age":  nil,
	}

	doc, err := ConvertMap(raw, []string{"name", "tags", "addr", "age"})
	require.NoError(t, err)

	assert.Equal(t, []string{"name", "tags", "addr", "age"}, doc.Keys())

	tags, err := doc.Get("tags")
	require.NoError(t, err)
	assert.Equal(t, 2, tags.(*Array).Len())

	addr, err := doc.Get("addr")
	require.NoError(t, err)
	assert.True(t, addr.(*Document).Has("city"))

	age, err := doc.Get("age")
	require.NoError(t, err)
	assert.Equal(t, Null, age)
}

func must(doc *Document, err error) *Document {
	if err != nil {
		panic(err)
	}

	return doc
}
