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
	"fmt"
	"reflect"
	"strings"
	"unsafe"
)

var errorType = reflect.TypeOf((*error)(nil)).Elem()

// constructorSpec is a registered constructor before it is bound to the
// members of its type.
type constructorSpec struct {
	fn         reflect.Value
	names      []string
	target     reflect.Type
	returnsPtr bool
	returnsErr bool
}

// newConstructorSpec validates fn, which must return T, *T, (T, error) or
// (*T, error) for a struct type T and take one argument per name.
func newConstructorSpec(fn any, names []string) (*constructorSpec, error) {
	v := reflect.ValueOf(fn)
	if v.Kind() != reflect.Func || v.IsNil() {
		return nil, newError(ErrKindInvalidArgument, "constructor must be a non-nil function, got %T", fn)
	}
	ft := v.Type()
	if ft.IsVariadic() {
		return nil, newError(ErrKindInvalidArgument, "constructor %v must not be variadic", ft)
	}
	if ft.NumIn() != len(names) {
		return nil, newError(ErrKindInvalidArgument, "constructor %v takes %d arguments, %d names given", ft, ft.NumIn(), len(names))
	}
	spec := &constructorSpec{fn: v, names: names}
	switch ft.NumOut() {
	case 2:
		if ft.Out(1) != errorType {
			return nil, newError(ErrKindInvalidArgument, "second result of %v must be error", ft)
		}
		spec.returnsErr = true
	case 1:
	default:
		return nil, newError(ErrKindInvalidArgument, "constructor %v must return T, *T, (T, error) or (*T, error)", ft)
	}
	out := ft.Out(0)
	if out.Kind() == reflect.Ptr {
		out = out.Elem()
		spec.returnsPtr = true
	}
	if out.Kind() != reflect.Struct {
		return nil, newError(ErrKindInvalidArgument, "constructor %v does not build a struct", ft)
	}
	spec.target = out
	return spec, nil
}

// ConstructorData selects how instances of an analyzed type are created.
// The zero value means immediate construction: members are stored into a
// zero value in place.
type ConstructorData struct {
	fn         reflect.Value
	params     []*MemberDescriptor
	returnsPtr bool
	returnsErr bool
	// frame stages every member until construction; slot i holds member i.
	frame   reflect.Type
	offsets []uintptr
}

// Deferred reports whether instances are built by a constructor after all
// of its arguments have been read.
func (c ConstructorData) Deferred() bool {
	return c.fn.IsValid()
}

// Params returns the members supplied as constructor arguments, in order.
func (c ConstructorData) Params() []*MemberDescriptor {
	return c.params
}

// bindConstructor matches parameter names to members: exact JSON name, then
// Go name, then case-insensitive JSON name. Parameter and member types must
// be identical.
func bindConstructor(t reflect.Type, spec *constructorSpec, members []*MemberDescriptor) (ConstructorData, error) {
	c := ConstructorData{fn: spec.fn, returnsPtr: spec.returnsPtr, returnsErr: spec.returnsErr}
	ft := spec.fn.Type()
	for i, name := range spec.names {
		m := findParamMember(members, name)
		if m == nil {
			return ConstructorData{}, newError(ErrKindNoUsableConstructor, "%v: parameter %q matches no member", t, name)
		}
		if m.HasConstructorParam() {
			return ConstructorData{}, newError(ErrKindNoUsableConstructor, "%v: member %q bound to two parameters", t, m.Name)
		}
		if ft.In(i) != m.Type {
			return ConstructorData{}, newError(ErrKindNoUsableConstructor,
				"%v: parameter %q is %v, member is %v", t, name, ft.In(i), m.Type)
		}
		m.ConstructorParamIndex = i
		c.params = append(c.params, m)
	}
	fields := make([]reflect.StructField, len(members))
	for i, m := range members {
		fields[i] = reflect.StructField{Name: fmt.Sprintf("S%d", i), Type: m.Type}
	}
	c.frame = reflect.StructOf(fields)
	c.offsets = make([]uintptr, len(members))
	for i := range members {
		c.offsets[i] = c.frame.Field(i).Offset
	}
	return c, nil
}

func findParamMember(members []*MemberDescriptor, name string) *MemberDescriptor {
	for _, m := range members {
		if m.Name == name {
			return m
		}
	}
	for _, m := range members {
		if m.GoName == name {
			return m
		}
	}
	for _, m := range members {
		if strings.EqualFold(m.Name, name) {
			return m
		}
	}
	return nil
}

// stagingFrame holds the values read for one deferred-construction call.
type stagingFrame struct {
	base     unsafe.Pointer
	assigned []bool
}

func (c *ConstructorData) newFrame() stagingFrame {
	return stagingFrame{
		base:     reflect.New(c.frame).UnsafePointer(),
		assigned: make([]bool, len(c.offsets)),
	}
}

func (c *ConstructorData) slot(f stagingFrame, member int) unsafe.Pointer {
	return unsafe.Add(f.base, c.offsets[member])
}

// missing returns the first constructor parameter that was not read.
func (c *ConstructorData) missing(f stagingFrame) *MemberDescriptor {
	for _, p := range c.params {
		if !f.assigned[p.Index] {
			return p
		}
	}
	return nil
}

// construct invokes the constructor with the staged arguments and stores the
// result at dst.
func (c *ConstructorData) construct(t reflect.Type, f stagingFrame, dst unsafe.Pointer) *Error {
	args := make([]reflect.Value, len(c.params))
	for i, p := range c.params {
		args[i] = reflect.NewAt(p.Type, c.slot(f, p.Index)).Elem()
	}
	out := c.fn.Call(args)
	if c.returnsErr && !out[1].IsNil() {
		err := out[1].Interface().(error)
		return wrapError(ErrKindConstructorFailed, err, "%v", t)
	}
	instance := out[0]
	if c.returnsPtr {
		if instance.IsNil() {
			return newError(ErrKindConstructorFailed, "%v: constructor returned nil", t)
		}
		instance = instance.Elem()
	}
	reflect.NewAt(t, dst).Elem().Set(instance)
	return nil
}

// copyOptional stores staged members that were not constructor arguments
// onto the constructed instance at dst.
func (c *ConstructorData) copyOptional(f stagingFrame, members []*MemberDescriptor, dst unsafe.Pointer) {
	for _, m := range members {
		if f.assigned[m.Index] && !m.HasConstructorParam() && m.CanWrite() {
			m.store(dst, c.slot(f, m.Index))
		}
	}
}
