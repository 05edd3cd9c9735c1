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

// Package update implements the mutator: applying an update expression
// (replacement document or operator document) to a stored document.
package update

import (
	"strings"

	"github.com/memquery-io/memquery/internal/queryerrors"
	"github.com/memquery-io/memquery/internal/types"
)

// updateOperators are the operator keys this mutator recognizes.
var updateOperators = map[string]bool{
	"$set":   true,
	"$unset": true,
	"$inc":   true,
	"$mul":   true,
}

// Apply mutates doc in place according to update, and reports whether doc
// was changed. For an operator document that is whether any operator
// altered a field; for a replacement document it is false only when
// update is identical to the whole of doc, so a replacement whose fields
// already hold the given values still reports true. update is either a
// replacement document (no
// "$"-prefixed top-level keys, merged into doc per Document.Merge) or an
// operator document (every top-level key is a recognized update operator);
// mixing the two dialects is rejected.
//
// Every operator-argument path across the whole update document is
// validated before any field is mutated, so a malformed update is rejected
// atomically rather than partially applied (§4.3).
func Apply(doc *types.Document, update *types.Document) (bool, error) {
	isOperatorUpdate, err := classify(update)
	if err != nil {
		return false, err
	}

	if !isOperatorUpdate {
		if types.Identical(doc, update) {
			return false, nil
		}

		doc.Merge(update)

		return true, nil
	}

	if err := validateOperatorPaths(update); err != nil {
		return false, err
	}

	var changed bool

	for _, op := range update.Keys() {
		argAny, _ := update.Get(op)

		arg, ok := argAny.(*types.Document)
		if !ok {
			return false, queryerrors.UpdateShapeError("%s requires an object argument", op)
		}

		var opChanged bool
		var err error

		switch op {
		case "$set":
			opChanged, err = applySet(doc, arg)
		case "$unset":
			opChanged = applyUnset(doc, arg)
		case "$inc":
			opChanged, err = applyArithmetic(doc, arg, "$inc", addDelta)
		case "$mul":
			opChanged, err = applyArithmetic(doc, arg, "$mul", mulDelta)
		}

		if err != nil {
			return false, err
		}

		changed = changed || opChanged
	}

	return changed, nil
}

// classify reports whether update is operator-style (every top-level key
// is a recognized "$"-prefixed operator) or replacement-style (no
// top-level key starts with "$"). A document mixing the two is rejected.
func classify(update *types.Document) (bool, error) {
	var operatorKeys, plainKeys int

	for _, key := range update.Keys() {
		if strings.HasPrefix(key, "$") {
			operatorKeys++

			if !updateOperators[key] {
				return false, queryerrors.UpdateShapeError("unknown update operator %q", key)
			}

			continue
		}

		plainKeys++
	}

	if operatorKeys > 0 && plainKeys > 0 {
		return false, queryerrors.UpdateShapeError("update document mixes operators and replacement fields")
	}

	return operatorKeys > 0, nil
}

// validateOperatorPaths checks every operator-argument key across the
// entire update document before any mutation: each must be a non-empty
// dotted path with no "$"-prefixed segment, leading or not, since the
// mutator does not address operators by path.
func validateOperatorPaths(update *types.Document) error {
	for _, op := range update.Keys() {
		argAny, _ := update.Get(op)

		arg, ok := argAny.(*types.Document)
		if !ok {
			return queryerrors.UpdateShapeError("%s requires an object argument", op)
		}

		for _, key := range arg.Keys() {
			path, err := types.NewPathFromString(key)
			if err != nil {
				return queryerrors.UpdateShapeError("%s: invalid path %q", op, key)
			}

			for _, seg := range path.Segments() {
				if strings.HasPrefix(seg, "$") {
					return queryerrors.UpdateShapeError(
						"%s: path %q has a segment starting with '$'", op, key,
					)
				}
			}
		}
	}

	return nil
}

// applySet implements $set: for every {path: value} pair, overwrite the
// slot addressed by path, creating intermediate objects as needed.
func applySet(doc *types.Document, setDoc *types.Document) (bool, error) {
	var changed bool

	for _, key := range setDoc.Keys() {
		value, _ := setDoc.Get(key)

		path, err := types.NewPathFromString(key)
		if err != nil {
			return false, queryerrors.UpdateShapeError("$set: invalid path %q", key)
		}

		slot, err := types.ResolveWrite(doc, path)
		if err != nil {
			return false, queryerrors.UpdateShapeError("$set: %s", err)
		}

		if existing, ok := slot.Get(); ok && types.Identical(existing, value) {
			continue
		}

		if err := slot.Set(value); err != nil {
			return false, queryerrors.UpdateShapeError("$set: %s", err)
		}

		changed = true
	}

	return changed, nil
}

// applyUnset implements $unset: for every {path: _} pair, remove the slot
// addressed by path if present. The operator's values are conventionally
// ignored (any value, typically "" or true, just marks the path for
// removal).
func applyUnset(doc *types.Document, unsetDoc *types.Document) bool {
	var changed bool

	for _, key := range unsetDoc.Keys() {
		path, err := types.NewPathFromString(key)
		if err != nil {
			continue
		}

		if !types.Exists(doc, path) {
			continue
		}

		slot, err := types.ResolveWrite(doc, path)
		if err != nil {
			continue
		}

		if slot.Has() {
			slot.Remove()
			changed = true
		}
	}

	return changed
}

// arithmeticOp combines an update operator's argument number with the
// document's existing number, producing the new stored number.
type arithmeticOp func(argument, existing float64) float64

func addDelta(argument, existing float64) float64 { return existing + argument }
func mulDelta(argument, existing float64) float64 { return existing * argument }

// applyArithmetic implements the shared shape of $inc and $mul: each
// {path: delta} pair requires a numeric delta; if the addressed slot is
// absent, it is created from absentSeed(op, delta); if present, it must
// already hold a number or the update is an ErrUpdateTypeError.
func applyArithmetic(doc *types.Document, argDoc *types.Document, op string, combine arithmeticOp) (bool, error) {
	var changed bool

	for _, key := range argDoc.Keys() {
		argValue, _ := argDoc.Get(key)

		delta, ok := argValue.(float64)
		if !ok {
			return false, queryerrors.UpdateShapeError("%s requires a numeric argument for %q", op, key)
		}

		path, err := types.NewPathFromString(key)
		if err != nil {
			return false, queryerrors.UpdateShapeError("%s: invalid path %q", op, key)
		}

		slot, err := types.ResolveWrite(doc, path)
		if err != nil {
			return false, queryerrors.UpdateShapeError("%s: %s", op, err)
		}

		existingAny, has := slot.Get()
		if !has {
			seed := absentSeed(op, delta)

			if err := slot.Set(seed); err != nil {
				return false, queryerrors.UpdateShapeError("%s: %s", op, err)
			}

			changed = true

			continue
		}

		existing, ok := existingAny.(float64)
		if !ok {
			return false, queryerrors.UpdateTypeError(
				"cannot apply %s to field %q of non-numeric type", op, key,
			)
		}

		result := combine(delta, existing)

		if err := slot.Set(result); err != nil {
			return false, queryerrors.UpdateShapeError("%s: %s", op, err)
		}

		if result != existing {
			changed = true
		}
	}

	return changed, nil
}

// absentSeed is the value an arithmetic operator stores at a path that did
// not previously exist: $inc behaves as if the prior value were zero, so
// the field becomes the delta itself; $mul behaves as if the prior value
// were zero, so the field becomes zero regardless of the multiplier.
func absentSeed(op string, delta float64) float64 {
	if op == "$inc" {
		return delta
	}

	return 0
}
