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

// Package facade shields the engine from the host-language boundary: it
// accepts a method name and JSON argument blob, dispatches to the
// collection store, and returns a stable {value, error} envelope.
package facade

import (
	"encoding/json"
	"fmt"
	"log/slog"

	"github.com/google/uuid"

	"github.com/memquery-io/memquery/internal/queryerrors"
	"github.com/memquery-io/memquery/internal/store"
	"github.com/memquery-io/memquery/internal/types"
	"github.com/memquery-io/memquery/internal/util/lazyerrors"
	"github.com/memquery-io/memquery/internal/util/must"
)

// Envelope is the stable wire shape returned by Dispatch: Error is non-nil
// exactly when the call failed, and Value is nil on failure. Methods with
// no result (create_collection, insert) also leave Value nil on success,
// so for them both fields are nil. Error is a *string rather than a string
// so a successful call serializes "error":null instead of "error":"".
type Envelope struct {
	Value any     `json:"value"`
	Error *string `json:"error"`
}

// Facade dispatches requests to a single Registry instance.
type Facade struct {
	registry *store.Registry
	log      *slog.Logger
}

// New creates a Facade backed by a freshly constructed, empty registry.
func New(log *slog.Logger) *Facade {
	if log == nil {
		log = slog.Default()
	}

	return &Facade{registry: store.NewRegistry(log), log: log}
}

// handlerFunc executes one method's body against decoded args, returning
// the JSON-encodable result.
type handlerFunc func(f *Facade, args json.RawMessage) (any, error)

// methods is the dispatch table; every programmatic-surface method in
// §6 has an entry here.
var methods = map[string]handlerFunc{
	"create_collection": (*Facade).handleCreateCollection,
	"collection":        (*Facade).handleCollection,
	"insert":            (*Facade).handleInsert,
	"find":              (*Facade).handleFind,
	"find_and_update":   (*Facade).handleFindAndUpdate,
	"find_and_delete":   (*Facade).handleFindAndDelete,
}

// Dispatch decodes args as JSON, routes method to the matching handler,
// and always returns a populated Envelope — Dispatch itself never errors;
// any failure is captured inside the envelope.
func (f *Facade) Dispatch(method string, args json.RawMessage) Envelope {
	reqID := uuid.NewString()

	handler, ok := methods[method]
	if !ok {
		f.log.Warn("unknown method", "method", method, "request_id", reqID)

		msg := fmt.Sprintf("unknown method %q", method)

		return Envelope{Error: &msg}
	}

	f.log.Debug("dispatching request", "method", method, "request_id", reqID)

	value, err := handler(f, args)
	if err != nil {
		f.log.Debug("request failed", "method", method, "request_id", reqID, "error", err)

		msg := err.Error()

		return Envelope{Error: &msg}
	}

	return Envelope{Value: value}
}

type createCollectionArgs struct {
	Name string `json:"name"`
}

func (f *Facade) handleCreateCollection(args json.RawMessage) (any, error) {
	var a createCollectionArgs
	if err := json.Unmarshal(args, &a); err != nil {
		return nil, queryerrors.ShapeError("invalid arguments: %s", lazyerrors.Error(err))
	}

	if err := f.registry.CreateCollection(a.Name); err != nil {
		return nil, err
	}

	return nil, nil
}

// collectionHandle is the façade's representation of a registered
// collection: there is no further capability to expose across the FFI
// boundary, so the handle is just a confirmation that name is registered.
type collectionHandle struct {
	Name string `json:"name"`
}

func (f *Facade) handleCollection(args json.RawMessage) (any, error) {
	var a createCollectionArgs
	if err := json.Unmarshal(args, &a); err != nil {
		return nil, queryerrors.ShapeError("invalid arguments: %s", lazyerrors.Error(err))
	}

	c, err := f.registry.Collection(a.Name)
	if err != nil {
		return nil, err
	}

	return collectionHandle{Name: c.Name()}, nil
}

type insertArgs struct {
	Name string          `json:"name"`
	Doc  json.RawMessage `json:"doc"`
}

func (f *Facade) handleInsert(args json.RawMessage) (any, error) {
	var a insertArgs
	if err := json.Unmarshal(args, &a); err != nil {
		return nil, queryerrors.ShapeError("invalid arguments: %s", lazyerrors.Error(err))
	}

	doc, err := decodeDocument(a.Doc)
	if err != nil {
		return nil, err
	}

	if err := f.registry.Insert(a.Name, doc); err != nil {
		return nil, err
	}

	return nil, nil
}

type queryArgs struct {
	Name  string          `json:"name"`
	Query json.RawMessage `json:"query"`
}

func (f *Facade) handleFind(args json.RawMessage) (any, error) {
	var a queryArgs
	if err := json.Unmarshal(args, &a); err != nil {
		return nil, queryerrors.ShapeError("invalid arguments: %s", lazyerrors.Error(err))
	}

	query, err := decodeDocument(a.Query)
	if err != nil {
		return nil, err
	}

	docs, err := f.registry.Find(a.Name, query)
	if err != nil {
		return nil, err
	}

	return documentsToAny(docs), nil
}

type findAndUpdateArgs struct {
	Name   string          `json:"name"`
	Query  json.RawMessage `json:"query"`
	Update json.RawMessage `json:"update"`
}

func (f *Facade) handleFindAndUpdate(args json.RawMessage) (any, error) {
	var a findAndUpdateArgs
	if err := json.Unmarshal(args, &a); err != nil {
		return nil, queryerrors.ShapeError("invalid arguments: %s", lazyerrors.Error(err))
	}

	query, err := decodeDocument(a.Query)
	if err != nil {
		return nil, err
	}

	updateDoc, err := decodeDocument(a.Update)
	if err != nil {
		return nil, err
	}

	n, err := f.registry.FindAndUpdate(a.Name, query, updateDoc)
	if err != nil {
		return nil, err
	}

	return n, nil
}

func (f *Facade) handleFindAndDelete(args json.RawMessage) (any, error) {
	var a queryArgs
	if err := json.Unmarshal(args, &a); err != nil {
		return nil, queryerrors.ShapeError("invalid arguments: %s", lazyerrors.Error(err))
	}

	query, err := decodeDocument(a.Query)
	if err != nil {
		return nil, err
	}

	docs, err := f.registry.FindAndDelete(a.Name, query)
	if err != nil {
		return nil, err
	}

	return documentsToAny(docs), nil
}

// decodeDocument parses raw JSON into a *types.Document, requiring the
// top-level value be a JSON object.
func decodeDocument(raw json.RawMessage) (*types.Document, error) {
	if len(raw) == 0 {
		return must.NotFail(types.NewDocument()), nil
	}

	var m map[string]any

	if err := json.Unmarshal(raw, &m); err != nil {
		return nil, queryerrors.ShapeError("document must be a JSON object: %s", lazyerrors.Error(err))
	}

	keys, err := objectKeyOrder(raw)
	if err != nil {
		return nil, queryerrors.ShapeError("%s", err)
	}

	return types.ConvertMap(m, keys)
}

// documentsToAny converts a slice of documents into their map[string]any
// form for JSON re-encoding by the envelope.
func documentsToAny(docs []*types.Document) []any {
	out := make([]any, 0, len(docs))

	for _, doc := range docs {
		out = append(out, documentToJSON(doc))
	}

	return out
}

// documentToJSON and valueToJSON are the inverse of types.ConvertMap/
// ConvertAny: they walk a stored value and rebuild it out of
// map[string]any, []any, and untyped nil, since *types.Document,
// *types.Array, and types.NullType carry no MarshalJSON and have only
// unexported fields, so json.Marshal would otherwise render every nested
// object, array, and null as "{}".
func documentToJSON(doc *types.Document) map[string]any {
	keys := doc.Keys()
	out := make(map[string]any, len(keys))

	for _, key := range keys {
		value, _ := doc.Get(key)
		out[key] = valueToJSON(value)
	}

	return out
}

func valueToJSON(value any) any {
	switch v := value.(type) {
	case types.NullType:
		return nil
	case *types.Document:
		return documentToJSON(v)
	case *types.Array:
		elems := v.Iterator()
		out := make([]any, len(elems))

		for i, elem := range elems {
			out[i] = valueToJSON(elem)
		}

		return out
	default:
		return v
	}
}
