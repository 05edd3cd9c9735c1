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

// Package must provides helpers that panic on unexpected errors: programmer
// invariants (building a types.Document from literal, known-good
// arguments) rather than recoverable runtime conditions.
package must

// NotFail returns v, panicking if err is not nil. Use it only where err is
// truly expected to always be nil — e.g. constructing a types.Document or
// types.Array from arguments the caller already knows are well-formed.
func NotFail[T any](v T, err error) T {
	if err != nil {
		panic(err)
	}

	return v
}

// NoError panics if err is not nil.
func NoError(err error) {
	if err != nil {
		panic(err)
	}
}
