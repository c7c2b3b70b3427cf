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
	"runtime"
	"strings"
	"unicode"
	"unicode/utf8"
	"unsafe"

	"github.com/viant/xunsafe"
)

// Serializing is called before an instance is written.
type Serializing interface {
	OnSerializing()
}

// Serialized is called after an instance is written.
type Serialized interface {
	OnSerialized()
}

// Deserializing is called before members are read into a default-constructed
// instance, or right after construction for constructor-built types.
type Deserializing interface {
	OnDeserializing()
}

// Deserialized is called once all members have been read.
type Deserialized interface {
	OnDeserialized()
}

// PropertySource lets a type expose accessor-backed members. Each returned
// name is a JSON property served by the getter Name() and the setter
// SetName(v), where Name is the JSON name with its first letter upper-cased.
// "json=GoName" selects the accessor names explicitly.
type PropertySource interface {
	JSONProperties() []string
}

var (
	propertySourceType = reflect.TypeOf((*PropertySource)(nil)).Elem()
	boolType           = reflect.TypeOf(false)
)

// callbackList is an ordered list of zero-argument lifecycle callbacks.
type callbackList []func(obj unsafe.Pointer)

func (l callbackList) invoke(obj unsafe.Pointer) {
	for _, fn := range l {
		fn(obj)
	}
}

// lifecycleCallbacks collects the callbacks of t. Every struct in the
// embedding tree contributes the callback it declares itself, embedded
// structs before the struct embedding them, in field order. A promoted
// method therefore runs once, for the struct that declares it.
func lifecycleCallbacks(t reflect.Type) (onSerializing, onSerialized, onDeserializing, onDeserialized callbackList) {
	onSerializing = collectCallbacks(t, 0, "OnSerializing", func(v any) { v.(Serializing).OnSerializing() })
	onSerialized = collectCallbacks(t, 0, "OnSerialized", func(v any) { v.(Serialized).OnSerialized() })
	onDeserializing = collectCallbacks(t, 0, "OnDeserializing", func(v any) { v.(Deserializing).OnDeserializing() })
	onDeserialized = collectCallbacks(t, 0, "OnDeserialized", func(v any) { v.(Deserialized).OnDeserialized() })
	return
}

func collectCallbacks(t reflect.Type, offset uintptr, name string, call func(v any)) callbackList {
	var list callbackList
	for i := 0; i < t.NumField(); i++ {
		f := t.Field(i)
		if f.Anonymous && f.Type.Kind() == reflect.Struct {
			list = append(list, collectCallbacks(f.Type, offset+f.Offset, name, call)...)
		}
	}
	if declaresMethod(t, name) {
		list = append(list, func(obj unsafe.Pointer) {
			call(reflect.NewAt(t, unsafe.Add(obj, offset)).Interface())
		})
	}
	return list
}

// declaresMethod reports whether t itself declares method name, with either
// receiver, as opposed to having it promoted from an embedded field.
// Promoted methods are compiler-generated wrappers.
func declaresMethod(t reflect.Type, name string) bool {
	m, ok := reflect.PtrTo(t).MethodByName(name)
	if !ok || m.Type.NumIn() != 1 || m.Type.NumOut() != 0 {
		return false
	}
	if !autogenerated(m.Func) {
		return true
	}
	vm, ok := t.MethodByName(name)
	return ok && !autogenerated(vm.Func)
}

func autogenerated(fn reflect.Value) bool {
	f := runtime.FuncForPC(fn.Pointer())
	if f == nil {
		return false
	}
	file, _ := f.FileLine(f.Entry())
	return file == "<autogenerated>"
}

// propertyMembers discovers accessor-backed members declared through
// PropertySource. Accessors with the wrong shape are treated as missing.
func propertyMembers(t reflect.Type) ([]*MemberDescriptor, error) {
	ptrType := reflect.PtrTo(t)
	if !ptrType.Implements(propertySourceType) {
		return nil, nil
	}
	names := reflect.New(t).Interface().(PropertySource).JSONProperties()
	members := make([]*MemberDescriptor, 0, len(names))
	for _, entry := range names {
		name, goName, explicit := strings.Cut(entry, "=")
		if !explicit {
			goName = exportedName(name)
		}
		var getter, setter reflect.Value
		var valueType reflect.Type
		if m, ok := ptrType.MethodByName(goName); ok && m.Type.NumIn() == 1 && m.Type.NumOut() == 1 {
			getter = m.Func
			valueType = m.Type.Out(0)
		}
		if m, ok := ptrType.MethodByName("Set" + goName); ok && m.Type.NumIn() == 2 && m.Type.NumOut() == 0 {
			in := m.Type.In(1)
			if valueType == nil || valueType == in {
				setter = m.Func
				valueType = in
			}
		}
		if valueType == nil {
			return nil, fmt.Errorf("property %q of %v has no accessor", name, t)
		}
		members = append(members, newPropertyMember(ptrType.Elem(), name, goName, valueType, getter, setter))
	}
	return members, nil
}

func exportedName(name string) string {
	r, size := utf8.DecodeRuneInString(name)
	if r == utf8.RuneError || unicode.IsUpper(r) {
		return name
	}
	return string(unicode.ToUpper(r)) + name[size:]
}

// shouldSerializePredicate returns the predicate gating m, or nil when the
// member is unconditional. A ShouldSerialize<GoName>() bool method and the
// omitempty option combine: both must allow emission.
func shouldSerializePredicate(t reflect.Type, m *MemberDescriptor) func(obj unsafe.Pointer) bool {
	var method func(obj unsafe.Pointer) bool
	ptrType := reflect.PtrTo(t)
	if fn, ok := ptrType.MethodByName("ShouldSerialize" + m.GoName); ok &&
		fn.Type.NumIn() == 1 && fn.Type.NumOut() == 1 && fn.Type.Out(0) == boolType {
		call := fn.Func
		method = func(obj unsafe.Pointer) bool {
			return call.Call([]reflect.Value{reflect.NewAt(t, obj)})[0].Bool()
		}
	}
	if !m.omitEmpty {
		return method
	}
	empty := emptyCheck(m.Type)
	if method == nil {
		return func(obj unsafe.Pointer) bool {
			return !empty(m.load(obj))
		}
	}
	return func(obj unsafe.Pointer) bool {
		return method(obj) && !empty(m.load(obj))
	}
}

// emptyCheck returns the omitempty test for values of t:
// false, 0, "", nil, and zero-length arrays, slices and maps are empty.
func emptyCheck(t reflect.Type) func(ptr unsafe.Pointer) bool {
	switch t.Kind() {
	case reflect.Bool:
		return func(ptr unsafe.Pointer) bool { return !xunsafe.AsBool(ptr) }
	case reflect.String:
		return func(ptr unsafe.Pointer) bool { return xunsafe.AsString(ptr) == "" }
	case reflect.Int:
		return func(ptr unsafe.Pointer) bool { return xunsafe.AsInt(ptr) == 0 }
	case reflect.Int8:
		return func(ptr unsafe.Pointer) bool { return xunsafe.AsInt8(ptr) == 0 }
	case reflect.Int16:
		return func(ptr unsafe.Pointer) bool { return xunsafe.AsInt16(ptr) == 0 }
	case reflect.Int32:
		return func(ptr unsafe.Pointer) bool { return xunsafe.AsInt32(ptr) == 0 }
	case reflect.Int64:
		return func(ptr unsafe.Pointer) bool { return xunsafe.AsInt64(ptr) == 0 }
	case reflect.Uint:
		return func(ptr unsafe.Pointer) bool { return xunsafe.AsUint(ptr) == 0 }
	case reflect.Uint8:
		return func(ptr unsafe.Pointer) bool { return xunsafe.AsUint8(ptr) == 0 }
	case reflect.Uint16:
		return func(ptr unsafe.Pointer) bool { return xunsafe.AsUint16(ptr) == 0 }
	case reflect.Uint32:
		return func(ptr unsafe.Pointer) bool { return xunsafe.AsUint32(ptr) == 0 }
	case reflect.Uint64:
		return func(ptr unsafe.Pointer) bool { return xunsafe.AsUint64(ptr) == 0 }
	case reflect.Float32:
		return func(ptr unsafe.Pointer) bool { return xunsafe.AsFloat32(ptr) == 0 }
	case reflect.Float64:
		return func(ptr unsafe.Pointer) bool { return xunsafe.AsFloat64(ptr) == 0 }
	case reflect.Ptr, reflect.Interface:
		return func(ptr unsafe.Pointer) bool { return isNilAt(t, ptr) }
	case reflect.Slice, reflect.Map, reflect.Array:
		return func(ptr unsafe.Pointer) bool { return reflect.NewAt(t, ptr).Elem().Len() == 0 }
	}
	return func(unsafe.Pointer) bool { return false }
}
