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
	"encoding"
	"encoding/base64"
	"reflect"
	"slices"
	"strconv"
	"strings"
	"unsafe"
)

type sliceHeader struct {
	data unsafe.Pointer
	len  int
	cap  int
}

type ptrFormatter struct {
	elemType reflect.Type
	elem     Formatter
}

func (f *ptrFormatter) Write(ctx *WriteContext, ptr unsafe.Pointer) {
	p := *(*unsafe.Pointer)(ptr)
	if p == nil {
		ctx.w.WriteNull()
		return
	}
	ctx.WriteValue(f.elem, p)
}

func (f *ptrFormatter) Read(ctx *ReadContext, ptr unsafe.Pointer) {
	if ctx.r.ReadIsNull() {
		*(*unsafe.Pointer)(ptr) = nil
		return
	}
	p := *(*unsafe.Pointer)(ptr)
	if p == nil {
		p = reflect.New(f.elemType).UnsafePointer()
		*(*unsafe.Pointer)(ptr) = p
	}
	ctx.ReadValue(f.elem, p)
}

// sliceFormatter writes slices as JSON arrays. Elements with a direct kind
// skip the nested formatter call and the depth check.
type sliceFormatter struct {
	type_    reflect.Type
	elemType reflect.Type
	elemSize uintptr
	direct   DirectKind
	elem     Formatter
}

func newSliceFormatter(type_ reflect.Type, elem Formatter) *sliceFormatter {
	return &sliceFormatter{
		type_:    type_,
		elemType: type_.Elem(),
		elemSize: type_.Elem().Size(),
		direct:   directKindOf(type_.Elem(), false),
		elem:     elem,
	}
}

func (f *sliceFormatter) Write(ctx *WriteContext, ptr unsafe.Pointer) {
	header := (*sliceHeader)(ptr)
	if header.data == nil {
		ctx.w.WriteNull()
		return
	}
	writeElements(ctx, header.data, header.len, f.elemSize, f.direct, f.elem)
}

func writeElements(ctx *WriteContext, data unsafe.Pointer, n int, size uintptr, direct DirectKind, elem Formatter) {
	w := ctx.w
	w.WriteBeginArray()
	for i := 0; i < n; i++ {
		if i > 0 {
			w.WriteValueSeparator()
		}
		p := unsafe.Add(data, uintptr(i)*size)
		if direct != DirectNone {
			writeDirect(w, direct, p)
			continue
		}
		ctx.WriteValue(elem, p)
		if ctx.HasError() {
			return
		}
	}
	w.WriteEndArray()
}

func (f *sliceFormatter) Read(ctx *ReadContext, ptr unsafe.Pointer) {
	r := ctx.r
	s := reflect.NewAt(f.type_, ptr).Elem()
	if r.ReadIsNull() {
		s.SetZero()
		return
	}
	if !r.ReadBeginArray() {
		return
	}
	s.Set(reflect.MakeSlice(f.type_, 0, 4))
	count := 0
	for !r.ReadIsEndArrayWithSkipValueSeparator(&count) {
		n := s.Len()
		if n == s.Cap() {
			s.Grow(1)
		}
		s.SetLen(n + 1)
		p := unsafe.Add(s.UnsafePointer(), uintptr(n)*f.elemSize)
		if f.direct != DirectNone {
			readDirect(ctx, f.direct, f.elemType, false, p)
		} else {
			ctx.ReadValue(f.elem, p)
		}
		if r.HasError() {
			return
		}
	}
}

// bytesFormatter writes []byte as a base64 string.
type bytesFormatter struct {
	t reflect.Type
}

func (f bytesFormatter) Write(ctx *WriteContext, ptr unsafe.Pointer) {
	b := *(*[]byte)(ptr)
	if b == nil {
		ctx.w.WriteNull()
		return
	}
	n := base64.StdEncoding.EncodedLen(len(b))
	span := ctx.w.GetSpan(n + 2)
	span[0] = '"'
	base64.StdEncoding.Encode(span[1:], b)
	span[n+1] = '"'
	ctx.w.Advance(n + 2)
}

func (f bytesFormatter) Read(ctx *ReadContext, ptr unsafe.Pointer) {
	r := ctx.r
	v := reflect.NewAt(f.t, ptr).Elem()
	if r.ReadIsNull() {
		v.SetZero()
		return
	}
	src := r.ReadStringSegment()
	if r.HasError() {
		return
	}
	dst := make([]byte, base64.StdEncoding.DecodedLen(len(src)))
	n, err := base64.StdEncoding.Decode(dst, src)
	if err != nil {
		ctx.SetError(MalformedInputError(r.Offset(), "invalid base64: %v", err))
		return
	}
	v.SetBytes(dst[:n])
}

// arrayFormatter writes fixed-size arrays. Surplus input elements are
// skipped and missing ones stay zero.
type arrayFormatter struct {
	type_    reflect.Type
	elemType reflect.Type
	elemSize uintptr
	length   int
	direct   DirectKind
	elem     Formatter
}

func newArrayFormatter(type_ reflect.Type, elem Formatter) *arrayFormatter {
	return &arrayFormatter{
		type_:    type_,
		elemType: type_.Elem(),
		elemSize: type_.Elem().Size(),
		length:   type_.Len(),
		direct:   directKindOf(type_.Elem(), false),
		elem:     elem,
	}
}

func (f *arrayFormatter) Write(ctx *WriteContext, ptr unsafe.Pointer) {
	writeElements(ctx, ptr, f.length, f.elemSize, f.direct, f.elem)
}

func (f *arrayFormatter) Read(ctx *ReadContext, ptr unsafe.Pointer) {
	r := ctx.r
	if r.ReadIsNull() {
		ctx.SetError(unexpectedNullError(f.type_))
		return
	}
	if !r.ReadBeginArray() {
		return
	}
	count := 0
	for i := 0; !r.ReadIsEndArrayWithSkipValueSeparator(&count); i++ {
		if i >= f.length {
			r.ReadNextBlock()
			continue
		}
		p := unsafe.Add(ptr, uintptr(i)*f.elemSize)
		if f.direct != DirectNone {
			readDirect(ctx, f.direct, f.elemType, false, p)
		} else {
			ctx.ReadValue(f.elem, p)
		}
		if r.HasError() {
			return
		}
	}
}

var (
	textMarshalerType   = reflect.TypeOf((*encoding.TextMarshaler)(nil)).Elem()
	textUnmarshalerType = reflect.TypeOf((*encoding.TextUnmarshaler)(nil)).Elem()
)

func isSupportedMapKey(t reflect.Type) bool {
	switch t.Kind() {
	case reflect.String,
		reflect.Int, reflect.Int8, reflect.Int16, reflect.Int32, reflect.Int64,
		reflect.Uint, reflect.Uint8, reflect.Uint16, reflect.Uint32, reflect.Uint64:
		return true
	}
	return t.Implements(textMarshalerType) && reflect.PtrTo(t).Implements(textUnmarshalerType)
}

// mapFormatter writes maps as JSON objects with keys in sorted order.
type mapFormatter struct {
	type_    reflect.Type
	keyType  reflect.Type
	elemType reflect.Type
	elem     Formatter
}

func newMapFormatter(type_ reflect.Type, elem Formatter) (*mapFormatter, error) {
	if !isSupportedMapKey(type_.Key()) {
		return nil, newError(ErrKindUnsupportedMemberType, "unsupported map key type %v", type_.Key())
	}
	return &mapFormatter{type_: type_, keyType: type_.Key(), elemType: type_.Elem(), elem: elem}, nil
}

type mapEntry struct {
	key   string
	value reflect.Value
}

func (f *mapFormatter) Write(ctx *WriteContext, ptr unsafe.Pointer) {
	m := reflect.NewAt(f.type_, ptr).Elem()
	if m.IsNil() {
		ctx.w.WriteNull()
		return
	}
	entries := make([]mapEntry, 0, m.Len())
	iter := m.MapRange()
	for iter.Next() {
		key, err := encodeMapKey(iter.Key())
		if err != nil {
			ctx.SetError(asError(err))
			return
		}
		entries = append(entries, mapEntry{key, iter.Value()})
	}
	slices.SortFunc(entries, func(a, b mapEntry) int { return strings.Compare(a.key, b.key) })

	w := ctx.w
	w.WriteBeginObject()
	tmp := reflect.New(f.elemType)
	for i, e := range entries {
		if i > 0 {
			w.WriteValueSeparator()
		}
		w.WritePropertyName(e.key)
		tmp.Elem().Set(e.value)
		ctx.WriteValue(f.elem, tmp.UnsafePointer())
		if ctx.HasError() {
			return
		}
	}
	w.WriteEndObject()
}

func (f *mapFormatter) Read(ctx *ReadContext, ptr unsafe.Pointer) {
	r := ctx.r
	m := reflect.NewAt(f.type_, ptr).Elem()
	if r.ReadIsNull() {
		m.SetZero()
		return
	}
	if !r.ReadBeginObject() {
		return
	}
	if m.IsNil() {
		m.Set(reflect.MakeMap(f.type_))
	}
	count := 0
	for !r.ReadIsEndObjectWithSkipValueSeparator(&count) {
		name := r.ReadPropertyName()
		if r.HasError() {
			return
		}
		key, err := decodeMapKey(f.keyType, name)
		if err != nil {
			ctx.SetError(MalformedInputError(r.Offset(), "map key %q: %v", name, err))
			return
		}
		value := reflect.New(f.elemType)
		ctx.ReadValue(f.elem, value.UnsafePointer())
		if r.HasError() {
			return
		}
		m.SetMapIndex(key, value.Elem())
	}
}

func encodeMapKey(k reflect.Value) (string, error) {
	switch k.Kind() {
	case reflect.String:
		return k.String(), nil
	case reflect.Int, reflect.Int8, reflect.Int16, reflect.Int32, reflect.Int64:
		return strconv.FormatInt(k.Int(), 10), nil
	case reflect.Uint, reflect.Uint8, reflect.Uint16, reflect.Uint32, reflect.Uint64:
		return strconv.FormatUint(k.Uint(), 10), nil
	}
	text, err := k.Interface().(encoding.TextMarshaler).MarshalText()
	return string(text), err
}

func decodeMapKey(t reflect.Type, s string) (reflect.Value, error) {
	switch t.Kind() {
	case reflect.String:
		return reflect.ValueOf(s).Convert(t), nil
	case reflect.Int, reflect.Int8, reflect.Int16, reflect.Int32, reflect.Int64:
		n, err := strconv.ParseInt(s, 10, t.Bits())
		if err != nil {
			return reflect.Value{}, err
		}
		v := reflect.New(t).Elem()
		v.SetInt(n)
		return v, nil
	case reflect.Uint, reflect.Uint8, reflect.Uint16, reflect.Uint32, reflect.Uint64:
		n, err := strconv.ParseUint(s, 10, t.Bits())
		if err != nil {
			return reflect.Value{}, err
		}
		v := reflect.New(t).Elem()
		v.SetUint(n)
		return v, nil
	}
	v := reflect.New(t)
	if err := v.Interface().(encoding.TextUnmarshaler).UnmarshalText([]byte(s)); err != nil {
		return reflect.Value{}, err
	}
	return v.Elem(), nil
}
