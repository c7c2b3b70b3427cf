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
	"reflect"
	"unsafe"

	"github.com/viant/xunsafe"
)

// MemberKind tells whether a member is stored in a struct field or reached
// through accessor methods.
type MemberKind uint8

const (
	FieldMember MemberKind = iota
	PropertyMember
)

func (k MemberKind) String() string {
	if k == PropertyMember {
		return "property"
	}
	return "field"
}

// DirectKind classifies members whose JSON form is a single primitive
// read or write. DirectNone means a nested formatter is required.
type DirectKind uint8

const (
	DirectNone DirectKind = iota
	DirectBool
	DirectInt8
	DirectUint8
	DirectInt16
	DirectUint16
	DirectInt32
	DirectUint32
	DirectInt64
	DirectUint64
	DirectFloat32
	DirectFloat64
	DirectChar
	DirectString
	DirectInt
	DirectUint
)

var directKindNames = [...]string{
	DirectNone:    "none",
	DirectBool:    "bool",
	DirectInt8:    "int8",
	DirectUint8:   "uint8",
	DirectInt16:   "int16",
	DirectUint16:  "uint16",
	DirectInt32:   "int32",
	DirectUint32:  "uint32",
	DirectInt64:   "int64",
	DirectUint64:  "uint64",
	DirectFloat32: "float32",
	DirectFloat64: "float64",
	DirectChar:    "char",
	DirectString:  "string",
	DirectInt:     "int",
	DirectUint:    "uint",
}

func (k DirectKind) String() string {
	if int(k) < len(directKindNames) {
		return directKindNames[k]
	}
	return "unknown"
}

// directKindOf maps a Go type to its DirectKind. Types that carry their own
// JSON or text encoding are never direct, even when their kind is primitive.
func directKindOf(t reflect.Type, char bool) DirectKind {
	if hasCustomEncoding(t) {
		return DirectNone
	}
	switch t.Kind() {
	case reflect.Bool:
		return DirectBool
	case reflect.Int8:
		return DirectInt8
	case reflect.Uint8:
		return DirectUint8
	case reflect.Int16:
		return DirectInt16
	case reflect.Uint16:
		return DirectUint16
	case reflect.Int32:
		if char {
			return DirectChar
		}
		return DirectInt32
	case reflect.Uint32:
		return DirectUint32
	case reflect.Int64:
		return DirectInt64
	case reflect.Uint64:
		return DirectUint64
	case reflect.Float32:
		return DirectFloat32
	case reflect.Float64:
		return DirectFloat64
	case reflect.String:
		return DirectString
	case reflect.Int:
		return DirectInt
	case reflect.Uint:
		return DirectUint
	}
	return DirectNone
}

// isReferenceKind reports whether values of t can be nil.
func isReferenceKind(t reflect.Type) bool {
	switch t.Kind() {
	case reflect.Ptr, reflect.Slice, reflect.Map, reflect.Interface:
		return true
	}
	return false
}

// isNilAt reports whether the reference value at ptr is nil.
func isNilAt(t reflect.Type, ptr unsafe.Pointer) bool {
	switch t.Kind() {
	case reflect.Ptr, reflect.Map:
		return *(*unsafe.Pointer)(ptr) == nil
	case reflect.Slice:
		return *(*[]byte)(ptr) == nil
	case reflect.Interface:
		// the first word is the type or itab in both interface layouts
		return *(*unsafe.Pointer)(ptr) == nil
	}
	return false
}

// MemberDescriptor describes one serializable member of an analyzed type.
// It is built once during analysis and never mutated afterwards, except for
// the formatter binding done by the owning struct formatter at build time.
type MemberDescriptor struct {
	// Name is the JSON property name.
	Name string
	// GoName is the Go field or accessor name.
	GoName string
	// EncodedNameWithQuotes is Name as a JSON string literal, ready to splice.
	EncodedNameWithQuotes []byte
	Kind                  MemberKind
	DirectKind            DirectKind
	// Type is the member's Go type; the nested formatter target when
	// DirectKind is DirectNone.
	Type            reflect.Type
	CustomFormatter *FormatterSpec
	ShouldIntern    bool
	// ConstructorParamIndex is the constructor argument position, or -1.
	ConstructorParamIndex int
	// Index is the member position in TypeAnalysis.Members.
	Index int

	omitEmpty bool

	field  *xunsafe.Field
	getter reflect.Value // func(*T) V
	setter reflect.Value // func(*T, V)
	owner  reflect.Type

	formatter Formatter
}

func newFieldMember(owner reflect.Type, field reflect.StructField, name string, tag MemberTag) *MemberDescriptor {
	m := &MemberDescriptor{
		Name:                  name,
		GoName:                field.Name,
		EncodedNameWithQuotes: appendQuote(nil, name),
		Kind:                  FieldMember,
		DirectKind:            directKindOf(field.Type, tag.Char),
		Type:                  field.Type,
		CustomFormatter:       tag.Formatter,
		ShouldIntern:          tag.Intern && field.Type.Kind() == reflect.String,
		ConstructorParamIndex: -1,
		omitEmpty:             tag.OmitEmpty,
		field:                 xunsafe.NewField(field),
		owner:                 owner,
	}
	if m.CustomFormatter != nil {
		m.DirectKind = DirectNone
	}
	return m
}

func newPropertyMember(owner reflect.Type, name, goName string, t reflect.Type, getter, setter reflect.Value) *MemberDescriptor {
	return &MemberDescriptor{
		Name:                  name,
		GoName:                goName,
		EncodedNameWithQuotes: appendQuote(nil, name),
		Kind:                  PropertyMember,
		DirectKind:            directKindOf(t, false),
		Type:                  t,
		ConstructorParamIndex: -1,
		getter:                getter,
		setter:                setter,
		owner:                 owner,
	}
}

// IsReference reports whether the member can hold nil and is therefore
// subject to null elision.
func (m *MemberDescriptor) IsReference() bool {
	return isReferenceKind(m.Type)
}

// CanRead reports whether the member has a source for serialization.
func (m *MemberDescriptor) CanRead() bool {
	return m.Kind == FieldMember || m.getter.IsValid()
}

// CanWrite reports whether the member has a target for deserialization.
func (m *MemberDescriptor) CanWrite() bool {
	return m.Kind == FieldMember || m.setter.IsValid()
}

// HasConstructorParam reports whether the member is a constructor argument.
func (m *MemberDescriptor) HasConstructorParam() bool {
	return m.ConstructorParamIndex >= 0
}

// Formatter returns the nested formatter bound to the member, if any.
func (m *MemberDescriptor) Formatter() Formatter {
	return m.formatter
}

// fieldPtr returns the address of a field member inside obj.
func (m *MemberDescriptor) fieldPtr(obj unsafe.Pointer) unsafe.Pointer {
	return m.field.Pointer(obj)
}

// load returns a pointer to the member's current value. Properties are
// copied into a fresh variable through the getter.
func (m *MemberDescriptor) load(obj unsafe.Pointer) unsafe.Pointer {
	if m.Kind == FieldMember {
		return m.field.Pointer(obj)
	}
	out := m.getter.Call([]reflect.Value{reflect.NewAt(m.owner, obj)})[0]
	tmp := reflect.New(m.Type)
	tmp.Elem().Set(out)
	return tmp.UnsafePointer()
}

// store copies the value at src into the member of obj.
func (m *MemberDescriptor) store(obj, src unsafe.Pointer) {
	value := reflect.NewAt(m.Type, src).Elem()
	if m.Kind == FieldMember {
		reflect.NewAt(m.Type, m.field.Pointer(obj)).Elem().Set(value)
		return
	}
	m.setter.Call([]reflect.Value{reflect.NewAt(m.owner, obj), value})
}

// ShouldSerializeMemberDescriptor is a member that is emitted only when its
// predicate returns true for the instance being written.
type ShouldSerializeMemberDescriptor struct {
	*MemberDescriptor
	ShouldSerialize func(obj unsafe.Pointer) bool
}
