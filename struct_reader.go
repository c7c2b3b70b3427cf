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
)

func (f *structFormatter) Read(ctx *ReadContext, ptr unsafe.Pointer) {
	r := ctx.r
	if r.ReadIsNull() {
		ctx.SetError(unexpectedNullError(f.t))
		return
	}
	if f.dict.Len() == 0 {
		f.readWithoutMembers(ctx, ptr)
		return
	}
	if !r.ReadBeginObject() {
		return
	}
	if f.deferred {
		f.readDeferred(ctx, ptr)
		return
	}
	f.a.OnDeserializing.invoke(ptr)
	var extPtr unsafe.Pointer
	if f.ext != nil {
		extPtr = f.ext.ptr(ptr)
	}
	count := 0
	for !r.ReadIsEndObjectWithSkipValueSeparator(&count) {
		i, name := f.matchName(ctx)
		if r.HasError() {
			return
		}
		if i < 0 {
			f.readUnknown(ctx, extPtr, name)
		} else {
			f.readMember(ctx, f.members[i], ptr)
		}
		if r.HasError() {
			return
		}
	}
	if r.HasError() {
		return
	}
	f.a.OnDeserialized.invoke(ptr)
}

// matchName reads the next property name and dispatches it to a member
// index, or -1 when the name is unknown.
func (f *structFormatter) matchName(ctx *ReadContext) (int, []byte) {
	name := ctx.r.ReadPropertyNameSegment()
	i := f.tree.Match(name)
	if i < 0 && ctx.opts.CaseInsensitiveNames {
		if e, ok := f.dict.LookupFold(name); ok {
			i = e.MemberIndex
		}
	}
	return i, name
}

// readUnknown skips the value of an unknown property, or adds it to the
// extension data at extPtr.
func (f *structFormatter) readUnknown(ctx *ReadContext, extPtr unsafe.Pointer, name []byte) {
	if f.ext == nil {
		ctx.r.ReadNextBlock()
		return
	}
	f.ext.readEntry(ctx, extPtr, string(name))
}

// readMember reads into a field in place, or through a temporary and the
// setter for a property.
func (f *structFormatter) readMember(ctx *ReadContext, m *MemberDescriptor, obj unsafe.Pointer) {
	if m.Kind == FieldMember {
		readMemberValue(ctx, m, m.fieldPtr(obj))
		return
	}
	tmp := reflect.New(m.Type)
	readMemberValue(ctx, m, tmp.UnsafePointer())
	if !ctx.HasError() {
		m.store(obj, tmp.UnsafePointer())
	}
}

func readMemberValue(ctx *ReadContext, m *MemberDescriptor, p unsafe.Pointer) {
	if m.DirectKind != DirectNone {
		readDirect(ctx, m.DirectKind, m.Type, m.ShouldIntern, p)
		return
	}
	ctx.ReadValue(m.formatter, p)
}

// readDeferred stages every member in a frame, verifies that all
// constructor arguments were present, then constructs the instance. Nothing
// is stored at ptr unless construction succeeds.
func (f *structFormatter) readDeferred(ctx *ReadContext, ptr unsafe.Pointer) {
	r := ctx.r
	c := &f.a.Constructor
	frame := c.newFrame()
	var ext reflect.Value
	if f.ext != nil {
		ext = reflect.New(f.ext.Type)
	}
	count := 0
	for !r.ReadIsEndObjectWithSkipValueSeparator(&count) {
		i, name := f.matchName(ctx)
		if r.HasError() {
			return
		}
		if i < 0 {
			if f.ext == nil {
				r.ReadNextBlock()
			} else {
				f.ext.readEntry(ctx, ext.UnsafePointer(), string(name))
			}
		} else {
			readMemberValue(ctx, f.members[i], c.slot(frame, i))
			frame.assigned[i] = true
		}
		if r.HasError() {
			return
		}
	}
	if r.HasError() {
		return
	}
	f.finishDeferred(ctx, frame, ext, ptr)
}

func (f *structFormatter) finishDeferred(ctx *ReadContext, frame stagingFrame, ext reflect.Value, ptr unsafe.Pointer) {
	c := &f.a.Constructor
	if p := c.missing(frame); p != nil {
		ctx.SetError(MissingConstructorArgumentError(f.t, p.Name))
		return
	}
	if err := c.construct(f.t, frame, ptr); err != nil {
		ctx.SetError(err)
		return
	}
	f.a.OnDeserializing.invoke(ptr)
	c.copyOptional(frame, f.members, ptr)
	if ext.IsValid() && !ext.Elem().IsZero() {
		reflect.NewAt(f.ext.Type, f.ext.ptr(ptr)).Elem().Set(ext.Elem())
	}
	f.a.OnDeserialized.invoke(ptr)
}

// readWithoutMembers handles types with nothing to match: the object is
// skipped whole, or read entirely into the extension data.
func (f *structFormatter) readWithoutMembers(ctx *ReadContext, ptr unsafe.Pointer) {
	r := ctx.r
	if r.PeekByte() != '{' {
		r.ReadBeginObject()
		return
	}
	if f.deferred {
		var ext reflect.Value
		if f.ext == nil {
			r.ReadNextBlock()
		} else {
			r.ReadBeginObject()
			ext = reflect.New(f.ext.Type)
			f.ext.readObject(ctx, ext.UnsafePointer())
		}
		if !r.HasError() {
			f.finishDeferred(ctx, f.a.Constructor.newFrame(), ext, ptr)
		}
		return
	}
	f.a.OnDeserializing.invoke(ptr)
	if f.ext == nil {
		r.ReadNextBlock()
	} else {
		r.ReadBeginObject()
		f.ext.readObject(ctx, f.ext.ptr(ptr))
	}
	if !r.HasError() {
		f.a.OnDeserialized.invoke(ptr)
	}
}
