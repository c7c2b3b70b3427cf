// Licensed to the Apache Software Foundation (ASF) under one
// or more contributor license agreements.  See the NOTICE file
// distributed with this work for additional information
// regarding copyright ownership.  The ASF licenses this file
// to you under the Apache License, Version 2.0 (the
// "License"); you may not use this file except in compliance
// with the License.  You may obtain a copy of the License at
//
//   http://www.apache.org/licenses/LICENSE-2.0
//
// Unless required by applicable law or agreed to in writing,
// software distributed under the License is distributed on an
// "AS IS" BASIS, WITHOUT WARRANTIES OR CONDITIONS OF ANY
// KIND, either express or implied.  See the License for the
// specific language governing permissions and limitations
// under the License.

package utf8json

import (
	"errors"
	"fmt"
	"reflect"
)

// ErrorKind classifies a failure so callers can branch without string matching.
type ErrorKind uint8

const (
	ErrKindOK ErrorKind = iota
	ErrKindMalformedInput
	ErrKindUnexpectedNull
	ErrKindMissingConstructorArgument
	ErrKindNoUsableConstructor
	ErrKindUnsupportedMemberType
	ErrKindMaxDepthExceeded
	ErrKindInvalidArgument
	ErrKindConstructorFailed
)

var (
	ErrMalformedInput             = errors.New("utf8json: malformed input")
	ErrUnexpectedNull             = errors.New("utf8json: unexpected null for value type")
	ErrMissingConstructorArgument = errors.New("utf8json: missing required constructor argument")
	ErrNoUsableConstructor        = errors.New("utf8json: no usable constructor")
	ErrUnsupportedMemberType      = errors.New("utf8json: unsupported member type")
	ErrMaxDepthExceeded           = errors.New("utf8json: max depth exceeded")
	ErrInvalidArgument            = errors.New("utf8json: invalid argument")
	ErrConstructorFailed          = errors.New("utf8json: constructor failed")
)

var kindSentinels = [...]error{
	ErrKindOK:                         nil,
	ErrKindMalformedInput:             ErrMalformedInput,
	ErrKindUnexpectedNull:             ErrUnexpectedNull,
	ErrKindMissingConstructorArgument: ErrMissingConstructorArgument,
	ErrKindNoUsableConstructor:        ErrNoUsableConstructor,
	ErrKindUnsupportedMemberType:      ErrUnsupportedMemberType,
	ErrKindMaxDepthExceeded:           ErrMaxDepthExceeded,
	ErrKindInvalidArgument:            ErrInvalidArgument,
	ErrKindConstructorFailed:          ErrConstructorFailed,
}

func (k ErrorKind) String() string {
	switch k {
	case ErrKindOK:
		return "ok"
	case ErrKindMalformedInput:
		return "malformed input"
	case ErrKindUnexpectedNull:
		return "unexpected null"
	case ErrKindMissingConstructorArgument:
		return "missing constructor argument"
	case ErrKindNoUsableConstructor:
		return "no usable constructor"
	case ErrKindUnsupportedMemberType:
		return "unsupported member type"
	case ErrKindMaxDepthExceeded:
		return "max depth exceeded"
	case ErrKindInvalidArgument:
		return "invalid argument"
	case ErrKindConstructorFailed:
		return "constructor failed"
	}
	return fmt.Sprintf("ErrorKind(%d)", uint8(k))
}

// Error is the single error value carried through a (de)serialize call.
// The zero value means no error. Only the first error is kept.
type Error struct {
	kind   ErrorKind
	offset int // reader offset for malformed input, -1 otherwise
	msg    string
	cause  error
}

// HasError reports whether an error was recorded.
func (e *Error) HasError() bool {
	return e.kind != ErrKindOK
}

// Kind returns the recorded error kind.
func (e *Error) Kind() ErrorKind {
	return e.kind
}

// Offset returns the input offset the error was detected at, or -1.
func (e *Error) Offset() int {
	return e.offset
}

func (e *Error) Error() string {
	if e.offset >= 0 && e.kind == ErrKindMalformedInput {
		return fmt.Sprintf("utf8json: %s at offset %d: %s", e.kind, e.offset, e.msg)
	}
	return fmt.Sprintf("utf8json: %s: %s", e.kind, e.msg)
}

// Is maps the kind to its sentinel so errors.Is(err, ErrUnexpectedNull) works.
func (e *Error) Is(target error) bool {
	if int(e.kind) < len(kindSentinels) && kindSentinels[e.kind] == target {
		return true
	}
	return false
}

func (e *Error) Unwrap() error {
	return e.cause
}

// set records err unless an error is already present.
func (e *Error) set(kind ErrorKind, offset int, msg string, cause error) {
	if e.kind != ErrKindOK {
		return
	}
	e.kind = kind
	e.offset = offset
	e.msg = msg
	e.cause = cause
}

// take returns the recorded error as an error value and clears the holder.
func (e *Error) take() error {
	if e.kind == ErrKindOK {
		return nil
	}
	out := *e
	*e = Error{}
	return &out
}

func (e *Error) reset() {
	*e = Error{}
}

func newError(kind ErrorKind, format string, args ...any) *Error {
	return &Error{kind: kind, offset: -1, msg: fmt.Sprintf(format, args...)}
}

// MalformedInputError creates a malformed input error for a reader offset.
func MalformedInputError(offset int, format string, args ...any) *Error {
	return &Error{kind: ErrKindMalformedInput, offset: offset, msg: fmt.Sprintf(format, args...)}
}

func unexpectedNullError(t reflect.Type) *Error {
	return newError(ErrKindUnexpectedNull, "cannot assign null to %v", t)
}

func unsupportedMemberError(owner reflect.Type, member string, t reflect.Type, reason string) *Error {
	if reason == "" {
		return newError(ErrKindUnsupportedMemberType, "%v.%s: no formatter for %v", owner, member, t)
	}
	return newError(ErrKindUnsupportedMemberType, "%v.%s (%v): %s", owner, member, t, reason)
}

// asError converts any error into *Error, keeping the kind when it already is one.
func asError(err error) *Error {
	if err == nil {
		return nil
	}
	var e *Error
	if errors.As(err, &e) {
		return e
	}
	return &Error{kind: ErrKindMalformedInput, offset: -1, msg: err.Error(), cause: err}
}

func wrapError(kind ErrorKind, cause error, format string, args ...any) *Error {
	return &Error{kind: kind, offset: -1, msg: fmt.Sprintf(format, args...) + ": " + cause.Error(), cause: cause}
}
