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
	"encoding/json"
	"reflect"
	"unsafe"

	gojson "github.com/goccy/go-json"
)

var (
	jsonMarshalerType   = reflect.TypeOf((*json.Marshaler)(nil)).Elem()
	jsonUnmarshalerType = reflect.TypeOf((*json.Unmarshaler)(nil)).Elem()
)

// hasCustomEncoding reports whether t supplies its own JSON or text form.
// Pointer and interface types defer to their element or dynamic type.
func hasCustomEncoding(t reflect.Type) bool {
	if t.Kind() == reflect.Ptr || t.Kind() == reflect.Interface {
		return false
	}
	p := reflect.PtrTo(t)
	return p.Implements(jsonMarshalerType) || p.Implements(jsonUnmarshalerType) ||
		p.Implements(textMarshalerType) || p.Implements(textUnmarshalerType)
}

// interfaceFormatter handles loosely typed values. Writing dispatches on the
// dynamic type; reading into an empty interface produces the usual
// string, float64, bool, nil, []any and map[string]any values.
type interfaceFormatter struct {
	t reflect.Type
}

func (f *interfaceFormatter) Write(ctx *WriteContext, ptr unsafe.Pointer) {
	if isNilAt(f.t, ptr) {
		ctx.w.WriteNull()
		return
	}
	if f.t.NumMethod() == 0 {
		writeAny(ctx, *(*any)(ptr))
		return
	}
	writeDynamic(ctx, reflect.NewAt(f.t, ptr).Elem().Elem())
}

// writeAny writes a loosely typed value, short-cutting the shapes produced
// by reading into an empty interface.
func writeAny(ctx *WriteContext, v any) {
	w := ctx.w
	switch x := v.(type) {
	case nil:
		w.WriteNull()
	case string:
		w.WriteString(x)
	case float64:
		w.WriteFloat64(x)
	case bool:
		w.WriteBool(x)
	case json.Number:
		w.WriteRaw([]byte(x))
	default:
		writeDynamic(ctx, reflect.ValueOf(v))
	}
}

func writeDynamic(ctx *WriteContext, v reflect.Value) {
	tmp := reflect.New(v.Type())
	tmp.Elem().Set(v)
	ctx.WriteValueOf(v.Type(), tmp.UnsafePointer())
}

func (f *interfaceFormatter) Read(ctx *ReadContext, ptr unsafe.Pointer) {
	r := ctx.r
	if r.ReadIsNull() {
		reflect.NewAt(f.t, ptr).Elem().SetZero()
		return
	}
	if f.t.NumMethod() == 0 {
		*(*any)(ptr) = readAny(ctx)
		return
	}
	// a non-empty interface can only be filled through the pointer it holds
	current := reflect.NewAt(f.t, ptr).Elem()
	if current.IsNil() || current.Elem().Kind() != reflect.Ptr || current.Elem().IsNil() {
		ctx.SetError(newError(ErrKindUnsupportedMemberType, "cannot decode into %v without a concrete value", f.t))
		return
	}
	target := current.Elem()
	ctx.ReadValueOf(target.Type().Elem(), target.UnsafePointer())
}

// readAny reads one loosely typed value. Scalars are read directly;
// objects and arrays are decoded from their raw span by go-json.
func readAny(ctx *ReadContext) any {
	r := ctx.r
	switch c := r.PeekByte(); {
	case c == '"':
		return r.ReadString()
	case c == 't' || c == 'f':
		return r.ReadBool()
	case c == 'n':
		r.ReadIsNull()
		return nil
	case c == '-' || ('0' <= c && c <= '9'):
		return r.ReadFloat64()
	}
	start := r.Offset()
	raw := r.ReadNextBlockSegment()
	if r.HasError() {
		return nil
	}
	var v any
	if err := gojson.Unmarshal(raw, &v); err != nil {
		ctx.SetError(&Error{kind: ErrKindMalformedInput, offset: start, msg: err.Error(), cause: err})
		return nil
	}
	return v
}

// marshalerFormatter delegates to MarshalJSON/UnmarshalJSON, or to the text
// methods, per direction. A direction without a method uses fallback.
type marshalerFormatter struct {
	t         reflect.Type
	writeJSON bool
	writeText bool
	readJSON  bool
	readText  bool
	fallback  Formatter
}

func (r *resolver) marshalerFormatter(t reflect.Type) Formatter {
	if !hasCustomEncoding(t) {
		return nil
	}
	p := reflect.PtrTo(t)
	f := &marshalerFormatter{t: t}
	f.writeJSON = p.Implements(jsonMarshalerType)
	f.writeText = !f.writeJSON && p.Implements(textMarshalerType)
	f.readJSON = p.Implements(jsonUnmarshalerType)
	f.readText = !f.readJSON && p.Implements(textUnmarshalerType)
	if !(f.writeJSON || f.writeText) || !(f.readJSON || f.readText) {
		fallback, err := r.buildByKind(t)
		if err != nil {
			fallback = unsupportedFormatter{err: asError(err)}
		}
		f.fallback = fallback
	}
	return f
}

func (f *marshalerFormatter) Write(ctx *WriteContext, ptr unsafe.Pointer) {
	v := reflect.NewAt(f.t, ptr).Interface()
	switch {
	case f.writeJSON:
		b, err := v.(json.Marshaler).MarshalJSON()
		if err != nil {
			ctx.SetError(wrapError(ErrKindInvalidArgument, err, "%v.MarshalJSON", f.t))
			return
		}
		if !gojson.Valid(b) {
			ctx.SetError(newError(ErrKindInvalidArgument, "%v.MarshalJSON returned invalid JSON", f.t))
			return
		}
		ctx.w.WriteRaw(b)
	case f.writeText:
		b, err := v.(encoding.TextMarshaler).MarshalText()
		if err != nil {
			ctx.SetError(wrapError(ErrKindInvalidArgument, err, "%v.MarshalText", f.t))
			return
		}
		ctx.w.WriteStringBytes(b)
	default:
		f.fallback.Write(ctx, ptr)
	}
}

func (f *marshalerFormatter) Read(ctx *ReadContext, ptr unsafe.Pointer) {
	r := ctx.r
	v := reflect.NewAt(f.t, ptr).Interface()
	switch {
	case f.readJSON:
		start := r.Offset()
		raw := r.ReadNextBlockSegment()
		if r.HasError() {
			return
		}
		if err := v.(json.Unmarshaler).UnmarshalJSON(append([]byte(nil), raw...)); err != nil {
			ctx.SetError(&Error{kind: ErrKindMalformedInput, offset: start, msg: err.Error(), cause: err})
		}
	case f.readText:
		if r.ReadIsNull() {
			return
		}
		start := r.Offset()
		text := r.ReadStringSegment()
		if r.HasError() {
			return
		}
		if err := v.(encoding.TextUnmarshaler).UnmarshalText(append([]byte(nil), text...)); err != nil {
			ctx.SetError(&Error{kind: ErrKindMalformedInput, offset: start, msg: err.Error(), cause: err})
		}
	default:
		f.fallback.Read(ctx, ptr)
	}
}

// unsupportedFormatter reports a build error when a half-supported type is
// used in the direction it cannot serve.
type unsupportedFormatter struct {
	err *Error
}

func (f unsupportedFormatter) Write(ctx *WriteContext, _ unsafe.Pointer) { ctx.SetError(f.err) }
func (f unsupportedFormatter) Read(ctx *ReadContext, _ unsafe.Pointer)   { ctx.SetError(f.err) }
