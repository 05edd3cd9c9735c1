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
	"log/slog"
	"sync"

	"github.com/memquery-io/memquery/internal/queryerrors"
	"github.com/memquery-io/memquery/internal/types"
)

// Registry is a process-wide, named map of collections. The zero value is
// not usable; construct one with NewRegistry. A Registry is safe for
// concurrent use: every entry point takes the registry lock (for
// create/lookup) and then, where relevant, the target collection's own
// lock, so unrelated collections never serialize against each other.
type Registry struct {
	mu   sync.RWMutex
	cols map[string]*Collection

	log *slog.Logger
}

// NewRegistry creates an empty registry.
func NewRegistry(log *slog.Logger) *Registry {
	if log == nil {
		log = slog.Default()
	}

	return &Registry{
		cols: map[string]*Collection{},
		log:  log,
	}
}

// CreateCollection inserts an empty collection named name if absent; it is
// a no-op, not an error, if the collection already exists (its contents
// are preserved).
func (r *Registry) CreateCollection(name string) error {
	if name == "" {
		return queryerrors.NameError("collection name must not be empty")
	}

	r.mu.Lock()
	defer r.mu.Unlock()

	if _, ok := r.cols[name]; ok {
		return nil
	}

	r.cols[name] = newCollection(name)
	r.log.Debug("created collection", "name", name)

	return nil
}

// Collection returns the named collection, or NotFoundError if it has not
// been created.
func (r *Registry) Collection(name string) (*Collection, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	c, ok := r.cols[name]
	if !ok {
		return nil, queryerrors.NotFoundError("collection %q does not exist", name)
	}

	return c, nil
}

// Insert appends doc (which must decode to a JSON object) to the named
// collection.
func (r *Registry) Insert(name string, doc any) error {
	c, err := r.Collection(name)
	if err != nil {
		return err
	}

	d, err := insertValidated(doc)
	if err != nil {
		return err
	}

	c.Insert(d)

	r.log.Debug("inserted document", "collection", name)

	return nil
}

// Find returns every document in the named collection matching query, in
// insertion order.
func (r *Registry) Find(name string, query *types.Document) ([]*types.Document, error) {
	c, err := r.Collection(name)
	if err != nil {
		return nil, err
	}

	return c.Find(query)
}

// FindAndUpdate applies update to every document in the named collection
// matching query, returning the number matched.
func (r *Registry) FindAndUpdate(name string, query, update *types.Document) (int, error) {
	c, err := r.Collection(name)
	if err != nil {
		return 0, err
	}

	n, err := c.FindAndUpdate(query, update)
	if err != nil {
		return n, err
	}

	r.log.Debug("updated documents", "collection", name, "matched", n)

	return n, nil
}

// FindAndDelete removes every document in the named collection matching
// query, returning the removed documents in original order.
func (r *Registry) FindAndDelete(name string, query *types.Document) ([]*types.Document, error) {
	c, err := r.Collection(name)
	if err != nil {
		return nil, err
	}

	removed, err := c.FindAndDelete(query)
	if err != nil {
		return nil, err
	}

	r.log.Debug("deleted documents", "collection", name, "count", len(removed))

	return removed, nil
}
