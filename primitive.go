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

	"github.com/apache/fory/go/utf8json/bfloat16"
	"github.com/viant/xunsafe"
)

var bfloat16Type = reflect.TypeOf(bfloat16.BFloat16(0))

// bfloat16Formatter writes a BFloat16 as the shortest float32 text that
// round-trips it, skipping the MarshalJSON call the type also offers.
type bfloat16Formatter struct{}

func (bfloat16Formatter) Write(ctx *WriteContext, ptr unsafe.Pointer) {
	ctx.w.buf = (*bfloat16.BFloat16)(ptr).AppendJSON(ctx.w.buf)
}

func (bfloat16Formatter) Read(ctx *ReadContext, ptr unsafe.Pointer) {
	if rejectNull(ctx, bfloat16Type) {
		return
	}
	v := ctx.r.ReadFloat32()
	if !ctx.HasError() {
		*(*bfloat16.BFloat16)(ptr) = bfloat16.FromFloat32(v)
	}
}

// directFormatter serves every type whose DirectKind is not DirectNone,
// including named types such as `type Level int8`.
type directFormatter struct {
	t    reflect.Type
	kind DirectKind
}

func newDirectFormatter(t reflect.Type, kind DirectKind) Formatter {
	return directFormatter{t: t, kind: kind}
}

func (f directFormatter) Write(ctx *WriteContext, ptr unsafe.Pointer) {
	writeDirect(ctx.w, f.kind, ptr)
}

func (f directFormatter) Read(ctx *ReadContext, ptr unsafe.Pointer) {
	readDirect(ctx, f.kind, f.t, false, ptr)
}

// writeDirect is the single primitive write call of a direct member.
func writeDirect(w *Writer, kind DirectKind, ptr unsafe.Pointer) {
	switch kind {
	case DirectBool:
		w.WriteBool(xunsafe.AsBool(ptr))
	case DirectInt8:
		w.WriteInt8(xunsafe.AsInt8(ptr))
	case DirectUint8:
		w.WriteUint8(xunsafe.AsUint8(ptr))
	case DirectInt16:
		w.WriteInt16(xunsafe.AsInt16(ptr))
	case DirectUint16:
		w.WriteUint16(xunsafe.AsUint16(ptr))
	case DirectInt32:
		w.WriteInt32(xunsafe.AsInt32(ptr))
	case DirectUint32:
		w.WriteUint32(xunsafe.AsUint32(ptr))
	case DirectInt64:
		w.WriteInt64(xunsafe.AsInt64(ptr))
	case DirectUint64:
		w.WriteUint64(xunsafe.AsUint64(ptr))
	case DirectFloat32:
		w.WriteFloat32(xunsafe.AsFloat32(ptr))
	case DirectFloat64:
		w.WriteFloat64(xunsafe.AsFloat64(ptr))
	case DirectChar:
		w.WriteChar(xunsafe.AsInt32(ptr))
	case DirectString:
		w.WriteString(xunsafe.AsString(ptr))
	case DirectInt:
		w.WriteInt(xunsafe.AsInt(ptr))
	case DirectUint:
		w.WriteUint(xunsafe.AsUint(ptr))
	}
}

// readDirect is the single primitive read call of a direct member.
// null is rejected because none of the direct kinds can hold it.
func readDirect(ctx *ReadContext, kind DirectKind, t reflect.Type, intern bool, ptr unsafe.Pointer) {
	r := ctx.r
	if rejectNull(ctx, t) {
		return
	}
	switch kind {
	case DirectBool:
		*(*bool)(ptr) = r.ReadBool()
	case DirectInt8:
		*(*int8)(ptr) = r.ReadInt8()
	case DirectUint8:
		*(*uint8)(ptr) = r.ReadUint8()
	case DirectInt16:
		*(*int16)(ptr) = r.ReadInt16()
	case DirectUint16:
		*(*uint16)(ptr) = r.ReadUint16()
	case DirectInt32:
		*(*int32)(ptr) = r.ReadInt32()
	case DirectUint32:
		*(*uint32)(ptr) = r.ReadUint32()
	case DirectInt64:
		*(*int64)(ptr) = r.ReadInt64()
	case DirectUint64:
		*(*uint64)(ptr) = r.ReadUint64()
	case DirectFloat32:
		*(*float32)(ptr) = r.ReadFloat32()
	case DirectFloat64:
		*(*float64)(ptr) = r.ReadFloat64()
	case DirectChar:
		*(*rune)(ptr) = r.ReadChar()
	case DirectString:
		if intern {
			*(*string)(ptr) = ctx.Intern(r.ReadStringSegment())
		} else {
			*(*string)(ptr) = r.ReadString()
		}
	case DirectInt:
		*(*int)(ptr) = r.ReadInt()
	case DirectUint:
		*(*uint)(ptr) = r.ReadUint()
	}
}

func rejectNull(ctx *ReadContext, t reflect.Type) bool {
	r := ctx.r
	if r.PeekByte() != 'n' {
		return false
	}
	if r.ReadIsNull() {
		ctx.SetError(unexpectedNullError(t))
	}
	return true
}

// RejectNull reports whether the next value is a null literal, which a T
// cannot hold. The null is consumed and UnexpectedNull recorded.
func RejectNull[T any](ctx *ReadContext) bool {
	if ctx.r.PeekByte() != 'n' {
		return false
	}
	return rejectNull(ctx, reflect.TypeOf((*T)(nil)).Elem())
}
