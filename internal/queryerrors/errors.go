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

// Package queryerrors defines the typed error codes returned across the
// query, update, store, and facade layers.
package queryerrors

import "fmt"

// ErrorCode classifies a query engine error the way a caller across a
// language boundary needs to branch on: by kind, not by message text.
type ErrorCode int32

const (
	// ErrUnset is the zero value and is never returned.
	ErrUnset ErrorCode = iota

	// ErrNameError means a collection name was invalid (e.g. empty).
	ErrNameError

	// ErrNotFoundError means a named collection does not exist. A
	// find_and_update or find_and_delete that matches no document is not
	// an error.
	ErrNotFoundError

	// ErrShapeError means a document passed for insertion was not a valid
	// object (e.g. top-level value was not a JSON object).
	ErrShapeError

	// ErrQueryShapeError means a filter document was malformed: an unknown
	// operator, an operator argument of the wrong shape, or a query object
	// mixing operator keys and bare field keys.
	ErrQueryShapeError

	// ErrUpdateShapeError means an update document was malformed: an empty
	// or dotted-with-empty-segment path, or an unknown update operator.
	ErrUpdateShapeError

	// ErrUpdateTypeError means an update operator (such as $inc or $mul)
	// was applied to an existing field whose type is incompatible with it.
	ErrUpdateTypeError
)

// String implements fmt.Stringer.
func (c ErrorCode) String() string {
	switch c {
	case ErrUnset:
		return "Unset"
	case ErrNameError:
		return "NameError"
	case ErrNotFoundError:
		return "NotFoundError"
	case ErrShapeError:
		return "ShapeError"
	case ErrQueryShapeError:
		return "QueryShapeError"
	case ErrUpdateShapeError:
		return "UpdateShapeError"
	case ErrUpdateTypeError:
		return "UpdateTypeError"
	default:
		return fmt.Sprintf("ErrorCode(%d)", int32(c))
	}
}

// Error is a typed error carrying an ErrorCode, returned by every exported
// operation in internal/query, internal/update, and internal/store so the
// facade can translate it into an envelope without string-matching.
type Error struct {
	code ErrorCode
	msg  string
}

// Error implements the error interface.
func (e *Error) Error() string {
	return fmt.Sprintf("%s: %s", e.code, e.msg)
}

// Code returns the error's classification.
func (e *Error) Code() ErrorCode {
	return e.code
}

// New constructs an *Error with the given code and formatted message.
func New(code ErrorCode, format string, args ...any) *Error {
	return &Error{code: code, msg: fmt.Sprintf(format, args...)}
}

// NameError constructs an ErrNameError.
func NameError(format string, args ...any) *Error {
	return New(ErrNameError, format, args...)
}

// NotFoundError constructs an ErrNotFoundError.
func NotFoundError(format string, args ...any) *Error {
	return New(ErrNotFoundError, format, args...)
}

// ShapeError constructs an ErrShapeError.
func ShapeError(format string, args ...any) *Error {
	return New(ErrShapeError, format, args...)
}

// QueryShapeError constructs an ErrQueryShapeError.
func QueryShapeError(format string, args ...any) *Error {
	return New(ErrQueryShapeError, format, args...)
}

// UpdateShapeError constructs an ErrUpdateShapeError.
func UpdateShapeError(format string, args ...any) *Error {
	return New(ErrUpdateShapeError, format, args...)
}

// UpdateTypeError constructs an ErrUpdateTypeError.
func UpdateTypeError(format string, args ...any) *Error {
	return New(ErrUpdateTypeError, format, args...)
}
