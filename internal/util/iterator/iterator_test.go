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

package iterator

import (
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// sliceIterator is a minimal Interface[int, string] implementation for tests.
type sliceIterator struct {
	values []string
	pos    int
	closed bool
}

func (s *sliceIterator) Next() (int, string, error) {
	if s.closed || s.pos >= len(s.values) {
		return 0, "", ErrIteratorDone
	}

	v := s.values[s.pos]
	i := s.pos
	s.pos++

	return i, v, nil
}

func (s *sliceIterator) Close() {
	s.closed = true
}

func TestValuesDrainsAndCloses(t *testing.T) {
	t.Parallel()

	it := &sliceIterator{values: []string{"a", "b", "c"}}

	got, err := Values[int, string](it)
	require.NoError(t, err)
	assert.Equal(t, []string{"a", "b", "c"}, got)
	assert.True(t, it.closed)
}

type erroringIterator struct{}

func (erroringIterator) Next() (int, string, error) { return 0, "", errors.New("boom") }
func (erroringIterator) Close()                     {}

func TestValuesPropagatesNonDoneError(t *testing.T) {
	t.Parallel()

	_, err := Values[int, string](erroringIterator{})
	assert.EqualError(t, err, "boom")
}
