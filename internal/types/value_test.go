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

func TestIsValue(t *testing.T) {
	t.Parallel()

	assert.True(t, IsValue(Null))
	assert.True(t, IsValue(true))
	assert.True(t, IsValue(float64(1)))
	assert.True(t, IsValue("s"))
	assert.True(t, IsValue(MakeArray(0)))
	assert.True(t, IsValue(must(NewDocument())))

	assert.False(t, IsValue(nil))
	assert.False(t, IsValue(42))    // bare int, not float64
	assert.False(t, IsValue([]any{})) // not *Array
}

func TestIsValidKey(t *testing.T) {
	t.Parallel()

	assert.True(t, isValidKey("name"))
	assert.False(t, isValidKey(""))
	assert.False(t, isValidKey(string([]byte{0xff, 0xfe})))
}
