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

// Package store implements the collection registry: named, insertion-
// ordered bags of documents, and the find/insert/update/delete operations
// driving the matcher and mutator.
package store

import (
	"errors"
	"sync"

	"github.com/memquery-io/memquery/internal/query"
	"github.com/memquery-io/memquery/internal/queryerrors"
	"github.com/memquery-io/memquery/internal/types"
	"github.com/memquery-io/memquery/internal/update"
	"github.com/memquery-io/memquery/internal/util/iterator"
)

// docIterator walks a collection's backing slice by index. It implements
// iterator.Interface so a scan can be written the same way regardless of
// what eventually backs it (a slice today, something fancier later).
type docIterator struct {
	docs   []*types.Document
	pos    int
	closed bool
}

func newDocIterator(docs []*types.Document) *docIterator {
	return &docIterator{docs: docs}
}

func (it *docIterator) Next() (int, *types.Document, error) {
	if it.closed || it.pos >= len(it.docs) {
		return 0, nil, iterator.ErrIteratorDone
	}

	i := it.pos
	doc := it.docs[i]
	it.pos++

	return i, doc, nil
}

func (it *docIterator) Close() {
	it.closed = true
}

// Collection is a named, insertion-ordered sequence of documents, guarded
// by its own lock so that unrelated collections never contend.
type Collection struct {
	name string

	mu   sync.RWMutex
	docs []*types.Document
}

// newCollection creates an empty collection with the given name.
func newCollection(name string) *Collection {
	return &Collection{name: name}
}

// Name returns the collection's name.
func (c *Collection) Name() string {
	return c.name
}

// Insert appends doc to the collection. doc is deep-copied so that later
// caller-side mutation of the argument cannot affect stored state.
func (c *Collection) Insert(doc *types.Document) {
	c.mu.Lock()
	defer c.mu.Unlock()

	c.docs = append(c.docs, doc.DeepCopy())
}

// Find returns deep-copied snapshots of every document matching query, in
// insertion order.
func (c *Collection) Find(query_ *types.Document) ([]*types.Document, error) {
	c.mu.RLock()
	defer c.mu.RUnlock()

	var res []*types.Document

	it := newDocIterator(c.docs)
	defer it.Close()

	for {
		_, doc, err := it.Next()
		if err != nil {
			if errors.Is(err, iterator.ErrIteratorDone) {
				return res, nil
			}

			return nil, err
		}

		matched, err := query.Matches(doc, query_)
		if err != nil {
			return nil, err
		}

		if matched {
			res = append(res, doc.DeepCopy())
		}
	}
}

// FindAndUpdate applies update to every document matching query, in
// insertion order, and returns the count of matched documents. A document
// counts as matched (and hence in the returned count) regardless of
// whether the mutation changed any bytes, per the store's "modified"
// contract. If the mutator fails partway through, the error is returned
// immediately; documents already mutated in this call remain mutated (see
// the design notes on partial-update rollback).
func (c *Collection) FindAndUpdate(query_, updateDoc *types.Document) (int, error) {
	c.mu.Lock()
	defer c.mu.Unlock()

	var matched int

	it := newDocIterator(c.docs)
	defer it.Close()

	for {
		_, doc, err := it.Next()
		if err != nil {
			if errors.Is(err, iterator.ErrIteratorDone) {
				return matched, nil
			}

			return matched, err
		}

		ok, err := query.Matches(doc, query_)
		if err != nil {
			return matched, err
		}

		if !ok {
			continue
		}

		matched++

		if _, err := update.Apply(doc, updateDoc); err != nil {
			return matched, err
		}
	}
}

// FindAndDelete removes every document matching query, returning deep
// copies of the removed documents in their original order. Removal is
// atomic with respect to the returned list: it equals exactly what was
// removed.
func (c *Collection) FindAndDelete(query_ *types.Document) ([]*types.Document, error) {
	c.mu.Lock()
	defer c.mu.Unlock()

	var removed []*types.Document

	kept := c.docs[:0:0]

	it := newDocIterator(c.docs)
	defer it.Close()

	for {
		_, doc, err := it.Next()
		if err != nil {
			if errors.Is(err, iterator.ErrIteratorDone) {
				break
			}

			return nil, err
		}

		ok, err := query.Matches(doc, query_)
		if err != nil {
			return nil, err
		}

		if ok {
			removed = append(removed, doc.DeepCopy())

			continue
		}

		kept = append(kept, doc)
	}

	c.docs = kept

	return removed, nil
}

// insertValidated validates that v is a document-shaped value before
// handing it to Insert; used by Registry.Insert so ShapeError is raised
// before any mutation.
func insertValidated(v any) (*types.Document, error) {
	doc, ok := v.(*types.Document)
	if !ok {
		return nil, queryerrors.ShapeError("document must be a JSON object")
	}

	return doc, nil
}
