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
	"slices"
	"strings"
	"unsafe"

	"github.com/viant/xunsafe"
)

// ExtensionBag is an extension data container that keeps its own order.
type ExtensionBag interface {
	Add(key string, value any)
	Range(fn func(key string, value any) bool)
}

var extensionBagType = reflect.TypeOf((*ExtensionBag)(nil)).Elem()

// ExtensionDataInfo describes the member that absorbs unmatched properties
// and contributes extra properties on output.
type ExtensionDataInfo struct {
	Name string
	Type reflect.Type
	// Bag is true when values are added through ExtensionBag.Add rather
	// than assigned by key.
	Bag bool

	field     *xunsafe.Field
	bagPtr    bool         // field is *Bag, allocated on first add
	valueType reflect.Type // map element type
	value     Formatter    // bound by the struct formatter for map[string]T
}

func newExtensionDataInfo(owner reflect.Type, f reflect.StructField) (*ExtensionDataInfo, error) {
	e := &ExtensionDataInfo{Name: f.Name, Type: f.Type, field: xunsafe.NewField(f)}
	t := f.Type
	switch {
	case t.Kind() == reflect.Map && t.Key().Kind() == reflect.String:
		e.valueType = t.Elem()
	case t.Kind() == reflect.Ptr && t.Elem().Kind() == reflect.Struct && t.Implements(extensionBagType):
		e.Bag, e.bagPtr = true, true
	case t.Kind() != reflect.Ptr && reflect.PtrTo(t).Implements(extensionBagType):
		e.Bag = true
	default:
		return nil, unsupportedMemberError(owner, f.Name, t, "extension data must be map[string]T or implement Add and Range")
	}
	return e, nil
}

func (e *ExtensionDataInfo) ptr(obj unsafe.Pointer) unsafe.Pointer {
	return e.field.Pointer(obj)
}

// bag returns the bag at p, allocating it when the member is a nil pointer.
func (e *ExtensionDataInfo) bag(p unsafe.Pointer, alloc bool) ExtensionBag {
	if !e.bagPtr {
		return reflect.NewAt(e.Type, p).Interface().(ExtensionBag)
	}
	v := reflect.NewAt(e.Type, p).Elem()
	if v.IsNil() {
		if !alloc {
			return nil
		}
		v.Set(reflect.New(e.Type.Elem()))
	}
	return v.Interface().(ExtensionBag)
}

// write emits the extension entries of the value at p as properties of the
// object being written, continuing its first-property state.
func (e *ExtensionDataInfo) write(ctx *WriteContext, p unsafe.Pointer, first bool) bool {
	if e.Bag {
		bag := e.bag(p, false)
		if bag == nil {
			return first
		}
		return WriteExtensionBag(ctx, bag, first)
	}
	m := reflect.NewAt(e.Type, p).Elem()
	if m.Len() == 0 {
		return first
	}
	keys := make([]string, 0, m.Len())
	iter := m.MapRange()
	for iter.Next() {
		keys = append(keys, iter.Key().String())
	}
	slices.SortFunc(keys, strings.Compare)
	tmp := reflect.New(e.valueType)
	for _, key := range keys {
		first = writeExtensionName(ctx.w, key, first)
		tmp.Elem().Set(m.MapIndex(reflect.ValueOf(key).Convert(e.Type.Key())))
		ctx.WriteValue(e.value, tmp.UnsafePointer())
		if ctx.HasError() {
			break
		}
	}
	return first
}

func writeExtensionName(w *Writer, key string, first bool) bool {
	if first {
		w.WriteBeginObject()
	} else {
		w.WriteValueSeparator()
	}
	w.WritePropertyName(key)
	return false
}

// WriteExtensionBag writes the entries of bag as properties of the object
// being written and returns the updated first-property state.
func WriteExtensionBag(ctx *WriteContext, bag ExtensionBag, first bool) bool {
	bag.Range(func(key string, value any) bool {
		first = writeExtensionName(ctx.w, key, first)
		writeAny(ctx, value)
		return !ctx.HasError()
	})
	return first
}

// WriteExtensionMap is WriteExtensionBag for map extension data. Keys are
// written in sorted order.
func WriteExtensionMap[K ~string, V any](ctx *WriteContext, m map[K]V, first bool) bool {
	if len(m) == 0 {
		return first
	}
	keys := make([]K, 0, len(m))
	for k := range m {
		keys = append(keys, k)
	}
	slices.Sort(keys)
	for _, k := range keys {
		first = writeExtensionName(ctx.w, string(k), first)
		v := m[k]
		WriteNested(ctx, &v)
		if ctx.HasError() {
			break
		}
	}
	return first
}

// ReadExtensionBag reads the next value and adds it to bag under name.
func ReadExtensionBag(ctx *ReadContext, bag ExtensionBag, name string) {
	value := readAny(ctx)
	if ctx.HasError() {
		return
	}
	bag.Add(name, value)
}

// ReadExtensionMap reads the next value into *m under name, allocating the
// map on first use.
func ReadExtensionMap[K ~string, V any](ctx *ReadContext, m *map[K]V, name string) {
	var v V
	ReadNested(ctx, &v)
	if ctx.HasError() {
		return
	}
	if *m == nil {
		*m = make(map[K]V)
	}
	(*m)[K(name)] = v
}

// readEntry reads the next value into the extension data at p under name.
func (e *ExtensionDataInfo) readEntry(ctx *ReadContext, p unsafe.Pointer, name string) {
	if e.Bag {
		value := readAny(ctx)
		if ctx.HasError() {
			return
		}
		e.bag(p, true).Add(name, value)
		return
	}
	m := reflect.NewAt(e.Type, p).Elem()
	value := reflect.New(e.valueType)
	ctx.ReadValue(e.value, value.UnsafePointer())
	if ctx.HasError() {
		return
	}
	if m.IsNil() {
		m.Set(reflect.MakeMap(e.Type))
	}
	m.SetMapIndex(reflect.ValueOf(name).Convert(e.Type.Key()), value.Elem())
}

// readObject reads a whole object into the extension data at p. The
// opening brace has already been consumed.
func (e *ExtensionDataInfo) readObject(ctx *ReadContext, p unsafe.Pointer) {
	r := ctx.r
	count := 0
	for !r.ReadIsEndObjectWithSkipValueSeparator(&count) {
		name := r.ReadPropertyName()
		if r.HasError() {
			return
		}
		e.readEntry(ctx, p, name)
		if r.HasError() {
			return
		}
	}
}

// OrderedBag is an ExtensionBag that preserves insertion order. Adding an
// existing key replaces its value in place.
type OrderedBag struct {
	keys   []string
	values map[string]any
}

func (b *OrderedBag) Add(key string, value any) {
	if b.values == nil {
		b.values = make(map[string]any)
	}
	if _, ok := b.values[key]; !ok {
		b.keys = append(b.keys, key)
	}
	b.values[key] = value
}

func (b *OrderedBag) Range(fn func(key string, value any) bool) {
	for _, k := range b.keys {
		if !fn(k, b.values[k]) {
			return
		}
	}
}

// Get returns the value stored under key.
func (b *OrderedBag) Get(key string) (any, bool) {
	v, ok := b.values[key]
	return v, ok
}

func (b *OrderedBag) Len() int { return len(b.keys) }

// Keys returns the keys in insertion order.
func (b *OrderedBag) Keys() []string { return slices.Clone(b.keys) }
