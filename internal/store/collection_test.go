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

package store

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/memquery-io/memquery/internal/types"
)

func doc(pairs ...any) *types.Document {
	d, err := types.NewDocument(pairs...)
	if err != nil {
		panic(err)
	}

	return d
}

func TestCollectionInsertIsolatesCaller(t *testing.T) {
	t.Parallel()

	c := newCollection("people")

	src := doc("name", "Bob")
	c.Insert(src)

	require.NoError(t, src.Set("name", "Tom"))

	found, err := c.Find(doc())
	require.NoError(t, err)
	require.Len(t, found, 1)

	name, err := found[0].Get("name")
	require.NoError(t, err)
	assert.Equal(t, "Bob", name, "Insert must deep-copy so later caller mutation is invisible")
}

func TestCollectionFindReturnsIndependentCopies(t *testing.T) {
	t.Parallel()

	c := newCollection("people")
	c.Insert(doc("name", "Bob"))

	found, err := c.Find(doc())
	require.NoError(t, err)
	require.Len(t, found, 1)

	require.NoError(t, found[0].Set("name", "Tom"))

	found2, err := c.Find(doc())
	require.NoError(t, err)

	name, err := found2[0].Get("name")
	require.NoError(t, err)
	assert.Equal(t, "Bob", name)
}

func TestCollectionFindAndUpdateCountsMatches(t *testing.T) {
	t.Parallel()

	c := newCollection("people")
	c.Insert(doc("name", "Bob", "age", float64(20)))
	c.Insert(doc("name", "Tom", "age", float64(20)))
	c.Insert(doc("name", "Ann", "age", float64(30)))

	n, err := c.FindAndUpdate(doc("age", float64(20)), doc("$inc", doc("age", float64(1))))
	require.NoError(t, err)
	assert.Equal(t, 2, n)

	found, err := c.Find(doc("age", float64(21)))
	require.NoError(t, err)
	assert.Len(t, found, 2)
}

func TestCollectionFindAndDeletePreservesOrder(t *testing.T) {
	t.Parallel()

	c := newCollection("people")
	c.Insert(doc("name", "Bob"))
	c.Insert(doc("name", "Tom"))
	c.Insert(doc("name", "Ann"))

	removed, err := c.FindAndDelete(doc("name", "Tom"))
	require.NoError(t, err)
	require.Len(t, removed, 1)

	remaining, err := c.Find(doc())
	require.NoError(t, err)
	require.Len(t, remaining, 2)

	first, err := remaining[0].Get("name")
	require.NoError(t, err)
	assert.Equal(t, "Bob", first)

	second, err := remaining[1].Get("name")
	require.NoError(t, err)
	assert.Equal(t, "Ann", second)
}

func TestInsertValidatedRejectsNonDocument(t *testing.T) {
	t.Parallel()

	_, err := insertValidated("not a document")
	assert.Error(t, err)
}
