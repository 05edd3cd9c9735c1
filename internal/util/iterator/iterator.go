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

// Package iterator describes a generic Iterator interface used to walk a
// collection's documents without requiring the whole slice be copied
// before filtering.
package iterator

import "errors"

// ErrIteratorDone is returned when the iterator is read to the end or closed.
var ErrIteratorDone = errors.New("iterator is read to the end or closed")

// Interface is an iterator over key/value pairs, where the key is a slice
// index, map key, document number, etc., and the value is the
// corresponding element.
type Interface[K, V any] interface {
	// Next returns the next key/value pair, or ErrIteratorDone once
	// exhausted. Next must not be called concurrently.
	Next() (K, V, error)

	// Close indicates the iterator will no longer be used. Close must be
	// concurrency-safe and idempotent.
	Close()
}

// Values consumes all values from iter until it is done, closing it
// afterward. ErrIteratorDone is swallowed; any other error is returned.
func Values[K, V any](iter Interface[K, V]) ([]V, error) {
	defer iter.Close()

	var res []V

	for {
		_, v, err := iter.Next()
		if err != nil {
			if errors.Is(err, ErrIteratorDone) {
				return res, nil
			}

			return nil, err
		}

		res = append(res, v)
	}
}
