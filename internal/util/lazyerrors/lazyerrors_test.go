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

package lazyerrors

import (
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestNewRecordsFrame(t *testing.T) {
	t.Parallel()

	err := New("boom")
	assert.Contains(t, err.Error(), "boom")
	assert.Contains(t, err.Error(), "lazyerrors_test.go")
}

func TestErrorfWrapsWithPercentW(t *testing.T) {
	t.Parallel()

	inner := errors.New("inner")
	err := Errorf("outer: %w", inner)

	assert.True(t, errors.Is(err, inner))
}

func TestErrorNilPassthrough(t *testing.T) {
	t.Parallel()

	assert.Nil(t, Error(nil))
}

func TestErrorWrapsNonNil(t *testing.T) {
	t.Parallel()

	inner := errors.New("inner")
	err := Error(inner)

	require := assert.New(t)
	require.NotNil(err)
	require.True(errors.Is(err, inner))
}

func TestUnwrapChain(t *testing.T) {
	t.Parallel()

	err1 := New("err")
	err2 := Error(err1)
	err3 := Error(err2)

	assert.NotEqual(t, err1, errors.Unwrap(err3))
	assert.Equal(t, err1, errors.Unwrap(errors.Unwrap(err3)))
}

func TestGoString(t *testing.T) {
	t.Parallel()

	err := New("boom")
	assert.Contains(t, err.(interface{ GoString() string }).GoString(), "lazyerror(")
}
