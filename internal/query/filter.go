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

// Package query implements the filter matcher: deciding whether a document
// satisfies a query expression.
package query

import (
	"strings"

	"github.com/memquery-io/memquery/internal/queryerrors"
	"github.com/memquery-io/memquery/internal/types"
)

// logicalOperators are the operators valid only as top-level filter keys.
var logicalOperators = map[string]bool{
	"$and": true,
	"$or":  true,
	"$not": true,
	"$nor": true,
}

// fieldOperators are the operators valid inside a {field: {$op: arg}} clause.
var fieldOperators = map[string]bool{
	"$eq":     true,
	"$ne":     true,
	"$gt":     true,
	"$gte":    true,
	"$lt":     true,
	"$lte":    true,
	"$in":     true,
	"$nin":    true,
	"$exists": true,
}

// Matches reports whether doc satisfies filter. An empty filter matches
// every document. A malformed filter (unknown operator, operator argument
// of the wrong shape, or a clause mixing operator keys with bare field
// keys) returns a *queryerrors.Error with code ErrQueryShapeError.
func Matches(doc *types.Document, filter *types.Document) (bool, error) {
	if filter.Len() == 0 {
		return true, nil
	}

	// top-level keys are implicitly ANDed together
	for _, key := range filter.Keys() {
		value, _ := filter.Get(key)

		matched, err := matchClause(doc, key, value)
		if err != nil {
			return false, err
		}

		if !matched {
			return false, nil
		}
	}

	return true, nil
}

// matchClause handles one top-level {key: value} pair, which is either a
// logical operator or a field clause.
func matchClause(doc *types.Document, key string, value any) (bool, error) {
	if strings.HasPrefix(key, "$") {
		if !logicalOperators[key] {
			return false, queryerrors.QueryShapeError("unknown top-level operator %q", key)
		}

		return matchLogical(doc, key, value)
	}

	return matchField(doc, key, value)
}

// matchLogical handles {$and|$or|$not|$nor: ...}.
func matchLogical(doc *types.Document, op string, value any) (bool, error) {
	if op == "$not" {
		sub, ok := value.(*types.Document)
		if !ok {
			return false, queryerrors.QueryShapeError("%s requires an object argument", op)
		}

		matched, err := Matches(doc, sub)
		if err != nil {
			return false, err
		}

		return !matched, nil
	}

	arr, ok := value.(*types.Array)
	if !ok {
		return false, queryerrors.QueryShapeError("%s requires an array argument", op)
	}

	if arr.Len() == 0 {
		return false, queryerrors.QueryShapeError("%s requires a non-empty array", op)
	}

	switch op {
	case "$and":
		for _, elem := range arr.Iterator() {
			sub, ok := elem.(*types.Document)
			if !ok {
				return false, queryerrors.QueryShapeError("%s array elements must be objects", op)
			}

			matched, err := Matches(doc, sub)
			if err != nil {
				return false, err
			}

			if !matched {
				return false, nil
			}
		}

		return true, nil

	case "$or":
		for _, elem := range arr.Iterator() {
			sub, ok := elem.(*types.Document)
			if !ok {
				return false, queryerrors.QueryShapeError("%s array elements must be objects", op)
			}

			matched, err := Matches(doc, sub)
			if err != nil {
				return false, err
			}

			if matched {
				return true, nil
			}
		}

		return false, nil

	case "$nor":
		for _, elem := range arr.Iterator() {
			sub, ok := elem.(*types.Document)
			if !ok {
				return false, queryerrors.QueryShapeError("%s array elements must be objects", op)
			}

			matched, err := Matches(doc, sub)
			if err != nil {
				return false, err
			}

			if matched {
				return false, nil
			}
		}

		return true, nil

	default:
		return false, queryerrors.QueryShapeError("unknown top-level operator %q", op)
	}
}

// matchField handles one {field: value} or {field: {$op: arg, ...}} clause.
// Because a dotted field path may cross an array, it resolves to zero or
// more witnesses; the clause is satisfied iff it is satisfied for any one
// witness (§4.1's existential semantics). A field absent from doc is
// treated specially: it matches {field: null} and {field: {$exists: false}},
// and fails every other clause.
func matchField(doc *types.Document, field string, value any) (bool, error) {
	path, err := types.NewPathFromString(field)
	if err != nil {
		return false, queryerrors.QueryShapeError("invalid field path %q", field)
	}

	witnesses := types.ResolveRead(doc, path)

	exprDoc, isOperatorDoc := value.(*types.Document)
	if isOperatorDoc && isOperatorClause(exprDoc) {
		return matchFieldOperators(witnesses, exprDoc)
	}

	if len(witnesses) == 0 {
		// absent field: only an explicit null comparison matches
		if _, ok := value.(types.NullType); ok {
			return true, nil
		}

		return false, nil
	}

	for _, w := range witnesses {
		if fieldEquals(w, value) {
			return true, nil
		}
	}

	return false, nil
}

// fieldEquals implements the array-aware equality rule of §4.2: if w is an
// Array and value is not itself an Array, the clause matches if any element
// of w equals value, on top of plain structural equality. This is what lets
// {tags: "b"} and {tags: {$eq: "b"}} match a document with tags: ["a","b"].
func fieldEquals(w, value any) bool {
	if types.Compare(w, value) == types.Equal {
		return true
	}

	arr, ok := w.(*types.Array)
	if !ok {
		return false
	}

	if _, valueIsArray := value.(*types.Array); valueIsArray {
		return false
	}

	return inArray(value, arr)
}

// isOperatorClause reports whether doc is a {$op: arg, ...} clause (at
// least one key starts with "$") as opposed to a plain sub-document
// equality match like {field: {a: 1}}. A clause mixing operator and
// non-operator keys is therefore treated as an operator clause, and
// matchFieldOperators rejects its bare keys as unknown operators.
func isOperatorClause(doc *types.Document) bool {
	for _, k := range doc.Keys() {
		if strings.HasPrefix(k, "$") {
			return true
		}
	}

	return false
}

// matchFieldOperators evaluates every {$op: arg} pair in expr against the
// witness set for a single field path, ANDing the results together.
func matchFieldOperators(witnesses []any, expr *types.Document) (bool, error) {
	for _, op := range expr.Keys() {
		arg, _ := expr.Get(op)

		if !fieldOperators[op] {
			return false, queryerrors.QueryShapeError("unknown field operator %q", op)
		}

		matched, err := evalFieldOperator(witnesses, op, arg)
		if err != nil {
			return false, err
		}

		if !matched {
			return false, nil
		}
	}

	return true, nil
}

// evalFieldOperator evaluates a single operator against a witness set.
func evalFieldOperator(witnesses []any, op string, arg any) (bool, error) {
	switch op {
	case "$eq":
		return anyWitness(witnesses, func(w any) bool { return fieldEquals(w, arg) }), nil

	case "$ne":
		if len(witnesses) == 0 {
			return false, nil
		}

		return !anyWitness(witnesses, func(w any) bool { return fieldEquals(w, arg) }), nil

	case "$gt":
		return anyWitness(witnesses, func(w any) bool { return types.Compare(w, arg) == types.Greater }), nil

	case "$gte":
		return anyWitness(witnesses, func(w any) bool {
			c := types.Compare(w, arg)
			return c == types.Greater || c == types.Equal
		}), nil

	case "$lt":
		return anyWitness(witnesses, func(w any) bool { return types.Compare(w, arg) == types.Less }), nil

	case "$lte":
		return anyWitness(witnesses, func(w any) bool {
			c := types.Compare(w, arg)
			return c == types.Less || c == types.Equal
		}), nil

	case "$in":
		arr, ok := arg.(*types.Array)
		if !ok {
			return false, queryerrors.QueryShapeError("$in requires an array argument")
		}

		return anyWitness(witnesses, func(w any) bool { return inArray(w, arr) }), nil

	case "$nin":
		arr, ok := arg.(*types.Array)
		if !ok {
			return false, queryerrors.QueryShapeError("$nin requires an array argument")
		}

		if len(witnesses) == 0 {
			return false, nil
		}

		return !anyWitness(witnesses, func(w any) bool { return inArray(w, arr) }), nil

	case "$exists":
		want, ok := arg.(bool)
		if !ok {
			return false, queryerrors.QueryShapeError("$exists requires a boolean argument")
		}

		return (len(witnesses) > 0) == want, nil

	default:
		return false, queryerrors.QueryShapeError("unknown field operator %q", op)
	}
}

// anyWitness reports whether pred holds for at least one witness.
func anyWitness(witnesses []any, pred func(any) bool) bool {
	for _, w := range witnesses {
		if pred(w) {
			return true
		}
	}

	return false
}

// inArray reports whether v structurally equals any element of arr.
func inArray(v any, arr *types.Array) bool {
	for _, elem := range arr.Iterator() {
		if types.Compare(v, elem) == types.Equal {
			return true
		}
	}

	return false
}
