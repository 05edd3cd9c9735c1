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

package facade

import (
	"bytes"
	"encoding/json"
	"fmt"
)

// objectKeyOrder walks raw's token stream to recover the top-level key
// order of a JSON object, since encoding/json.Unmarshal into a
// map[string]any discards it. Only the top-level object's order is
// needed here: nested objects go through types.ConvertAny, whose own
// order is display-only (object equality is order-insensitive).
func objectKeyOrder(raw []byte) ([]string, error) {
	dec := json.NewDecoder(bytes.NewReader(raw))

	tok, err := dec.Token()
	if err != nil {
		return nil, fmt.Errorf("facade.objectKeyOrder: %w", err)
	}

	delim, ok := tok.(json.Delim)
	if !ok || delim != '{' {
		return nil, fmt.Errorf("facade.objectKeyOrder: expected a JSON object")
	}

	var keys []string

	depth := 0

	for dec.More() || depth > 0 {
		tok, err := dec.Token()
		if err != nil {
			return nil, fmt.Errorf("facade.objectKeyOrder: %w", err)
		}

		if depth == 0 {
			key, ok := tok.(string)
			if !ok {
				return nil, fmt.Errorf("facade.objectKeyOrder: expected a string key")
			}

			keys = append(keys, key)

			valueTok, err := dec.Token()
			if err != nil {
				return nil, fmt.Errorf("facade.objectKeyOrder: %w", err)
			}

			if d, ok := valueTok.(json.Delim); ok && (d == '{' || d == '[') {
				depth += skipDelta(d)
			}

			continue
		}

		if d, ok := tok.(json.Delim); ok {
			depth += skipDelta(d)
		}
	}

	// consume the closing '}'
	if _, err := dec.Token(); err != nil {
		return nil, fmt.Errorf("facade.objectKeyOrder: %w", err)
	}

	return keys, nil
}

// skipDelta tracks nesting depth while skipping over a nested object or
// array's tokens: opening delimiters increase depth, closing ones
// decrease it.
func skipDelta(d json.Delim) int {
	switch d {
	case '{', '[':
		return 1
	case '}', ']':
		return -1
	default:
		return 0
	}
}
