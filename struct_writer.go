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

// structFormatter is the interpreted formatter of an analyzed struct type.
// Everything that can be decided per type is computed here once: member
// order, literal prefixes and the name dispatch tree.
type structFormatter struct {
	t        reflect.Type
	a        *TypeAnalysis
	members  []*MemberDescriptor
	head     []memberWrite
	tail     []memberWrite
	dict     *NameDictionary
	tree     *DispatchTree
	ext      *ExtensionDataInfo
	deferred bool
}

// memberWrite is one member of the write plan with its precomputed
// prefixes: `{"name":` when it opens the object and `,"name":` otherwise.
// Bool members carry the complete literals including the value.
type memberWrite struct {
	m    *MemberDescriptor
	pred func(obj unsafe.Pointer) bool
	ref  bool

	first []byte
	next  []byte

	firstTrue  []byte
	firstFalse []byte
	nextTrue   []byte
	nextFalse  []byte
}

func newMemberWrite(m *MemberDescriptor, pred func(unsafe.Pointer) bool) memberWrite {
	e := memberWrite{m: m, pred: pred, ref: m.IsReference()}
	e.first = append(append([]byte{'{'}, m.EncodedNameWithQuotes...), ':')
	e.next = append(append([]byte{','}, m.EncodedNameWithQuotes...), ':')
	if m.DirectKind == DirectBool {
		e.firstTrue = append(e.first[:len(e.first):len(e.first)], "true"...)
		e.firstFalse = append(e.first[:len(e.first):len(e.first)], "false"...)
		e.nextTrue = append(e.next[:len(e.next):len(e.next)], "true"...)
		e.nextFalse = append(e.next[:len(e.next):len(e.next)], "false"...)
	}
	return e
}

func newStructFormatter(r *resolver, a *TypeAnalysis) (*structFormatter, error) {
	f := &structFormatter{
		t:        a.Type,
		a:        a,
		members:  a.Members(),
		ext:      a.ExtensionData,
		deferred: a.Constructor.Deferred(),
	}
	for _, m := range f.members {
		if m.DirectKind != DirectNone {
			continue
		}
		if m.CustomFormatter != nil {
			custom, err := resolveCustomFormatter(m.CustomFormatter, m.Type)
			if err != nil {
				return nil, unsupportedMemberError(a.Type, m.GoName, m.Type, err.Error())
			}
			m.formatter = custom
			continue
		}
		m.formatter = r.nested(m.Type)
	}
	if f.ext != nil && f.ext.valueType != nil {
		f.ext.value = r.nested(f.ext.valueType)
	}

	head := a.unconditionalValueCount()
	for i, m := range f.members {
		if !m.CanRead() {
			continue
		}
		e := newMemberWrite(m, a.Predicate(i))
		if len(f.head) < head {
			f.head = append(f.head, e)
		} else {
			f.tail = append(f.tail, e)
		}
	}
	f.dict = BuildNameDictionary(a)
	f.tree = NewDispatchTree(f.dict)
	return f, nil
}

// Analysis returns the type analysis the formatter was built from.
func (f *structFormatter) Analysis() *TypeAnalysis { return f.a }

func (f *structFormatter) Write(ctx *WriteContext, ptr unsafe.Pointer) {
	f.a.OnSerializing.invoke(ptr)
	w := ctx.w
	for i := range f.head {
		e := &f.head[i]
		writeMember(ctx, e, e.m.load(ptr), i == 0)
	}
	// with unconditional value members the object is already open
	first := len(f.head) == 0
	ignoreNull := ctx.opts.IgnoreNullValues
	for i := range f.tail {
		e := &f.tail[i]
		if e.pred != nil && !e.pred(ptr) {
			continue
		}
		p := e.m.load(ptr)
		if e.ref && ignoreNull && isNilAt(e.m.Type, p) {
			continue
		}
		writeMember(ctx, e, p, first)
		first = false
		if ctx.HasError() {
			return
		}
	}
	if f.ext != nil {
		first = f.ext.write(ctx, f.ext.ptr(ptr), first)
	}
	if first {
		w.WriteBeginObject()
	}
	w.WriteEndObject()
	f.a.OnSerialized.invoke(ptr)
}

func writeMember(ctx *WriteContext, e *memberWrite, p unsafe.Pointer, first bool) {
	w := ctx.w
	m := e.m
	if m.DirectKind == DirectBool {
		switch v := xunsafe.AsBool(p); {
		case first && v:
			w.WriteRaw(e.firstTrue)
		case first:
			w.WriteRaw(e.firstFalse)
		case v:
			w.WriteRaw(e.nextTrue)
		default:
			w.WriteRaw(e.nextFalse)
		}
		return
	}
	if first {
		w.WriteRaw(e.first)
	} else {
		w.WriteRaw(e.next)
	}
	if m.DirectKind != DirectNone {
		writeDirect(w, m.DirectKind, p)
		return
	}
	ctx.WriteValue(m.formatter, p)
}
