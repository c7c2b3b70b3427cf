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
	"sync"
	"unsafe"

	"golang.org/x/sync/errgroup"
)

// UTF8JSON serializes Go values to and from UTF-8 JSON. Formatters are
// built once per type and shared; an instance is safe for concurrent use.
type UTF8JSON struct {
	config Config
	res    *resolver
}

// New creates a UTF8JSON instance with the given options.
func New(opts ...Option) *UTF8JSON {
	u := &UTF8JSON{config: defaultConfig()}
	for _, opt := range opts {
		opt(&u.config)
	}
	u.res = newResolver(&u.config)
	return u
}

// Config returns a copy of the instance configuration.
func (u *UTF8JSON) Config() Config {
	return u.config
}

// Options returns the per-call options derived from the configuration.
func (u *UTF8JSON) Options() Options {
	return u.config.callOptions()
}

// RegisterConstructor makes fn the constructor of the struct type it
// returns. paramNames name, in order, the member supplying each argument.
// It must be called before the type is first used.
func (u *UTF8JSON) RegisterConstructor(fn any, paramNames ...string) error {
	spec, err := newConstructorSpec(fn, paramNames)
	if err != nil {
		return err
	}
	u.res.ctorMu.Lock()
	defer u.res.ctorMu.Unlock()
	if u.res.built(spec.target) {
		return newError(ErrKindInvalidArgument, "%v is already in use, register its constructor first", spec.target)
	}
	u.res.ctors[spec.target] = spec
	return nil
}

// Prepare builds the formatters of the types of values concurrently and
// returns the first build error.
func (u *UTF8JSON) Prepare(values ...any) error {
	var g errgroup.Group
	for _, v := range values {
		t := typeOf(v)
		if t == nil {
			continue
		}
		g.Go(func() error {
			_, err := u.res.formatter(t)
			return err
		})
	}
	return g.Wait()
}

// DescribeDispatch returns the name dispatch shape of the struct type of v.
func (u *UTF8JSON) DescribeDispatch(v any) (DispatchPlan, error) {
	f, err := u.structFormatter(v)
	if err != nil {
		return DispatchPlan{}, err
	}
	return f.tree.Plan(), nil
}

// Analysis returns the member analysis of the struct type of v.
func (u *UTF8JSON) Analysis(v any) (*TypeAnalysis, error) {
	f, err := u.structFormatter(v)
	if err != nil {
		return nil, err
	}
	return f.a, nil
}

func (u *UTF8JSON) structFormatter(v any) (*structFormatter, error) {
	t := typeOf(v)
	if t == nil || t.Kind() != reflect.Struct {
		return nil, newError(ErrKindInvalidArgument, "%T is not a struct", v)
	}
	f, err := u.res.formatter(t)
	if err != nil {
		return nil, err
	}
	sf, ok := f.(*structFormatter)
	if !ok {
		return nil, newError(ErrKindInvalidArgument, "%v is not served by a reflective struct formatter", t)
	}
	return sf, nil
}

// typeOf returns the type of v, looking through one pointer level.
func typeOf(v any) reflect.Type {
	if t, ok := v.(reflect.Type); ok {
		return t
	}
	t := reflect.TypeOf(v)
	if t != nil && t.Kind() == reflect.Ptr {
		t = t.Elem()
	}
	return t
}

// Marshal returns the JSON encoding of v.
func (u *UTF8JSON) Marshal(v any) ([]byte, error) {
	return u.MarshalWithOptions(v, u.config.callOptions())
}

// MarshalWithOptions is Marshal with per-call options.
func (u *UTF8JSON) MarshalWithOptions(v any, opts Options) ([]byte, error) {
	if v == nil {
		return []byte("null"), nil
	}
	t := reflect.TypeOf(v)
	var ptr unsafe.Pointer
	if t.Kind() == reflect.Ptr {
		// write the pointer itself so a nil pointer becomes null
		p := reflect.ValueOf(v).UnsafePointer()
		ptr = unsafe.Pointer(&p)
	} else {
		tmp := reflect.New(t)
		tmp.Elem().Set(reflect.ValueOf(v))
		ptr = tmp.UnsafePointer()
	}
	return u.marshal(t, ptr, opts)
}

func (u *UTF8JSON) marshal(t reflect.Type, ptr unsafe.Pointer, opts Options) ([]byte, error) {
	f, err := u.res.formatter(t)
	if err != nil {
		return nil, err
	}
	if opts.MaxDepth <= 0 {
		opts.MaxDepth = defaultMaxDepth
	}
	w := AcquireWriter()
	defer ReleaseWriter(w)
	ctx := newWriteContext(u.res, w, opts)
	ctx.WriteValue(f, ptr)
	if err := ctx.err.take(); err != nil {
		return nil, err
	}
	return append([]byte(nil), w.Bytes()...), nil
}

// Unmarshal decodes data into the value v points to. v is only modified
// when decoding succeeds.
func (u *UTF8JSON) Unmarshal(data []byte, v any) error {
	return u.UnmarshalWithOptions(data, v, u.config.callOptions())
}

// UnmarshalWithOptions is Unmarshal with per-call options.
func (u *UTF8JSON) UnmarshalWithOptions(data []byte, v any, opts Options) error {
	rv := reflect.ValueOf(v)
	if rv.Kind() != reflect.Ptr || rv.IsNil() {
		return newError(ErrKindInvalidArgument, "Unmarshal needs a non-nil pointer, got %T", v)
	}
	t := rv.Type().Elem()
	tmp := reflect.New(t)
	if err := u.unmarshal(data, t, tmp.UnsafePointer(), opts); err != nil {
		return err
	}
	rv.Elem().Set(tmp.Elem())
	return nil
}

var readerPool = sync.Pool{
	New: func() any { return new(Reader) },
}

func (u *UTF8JSON) unmarshal(data []byte, t reflect.Type, ptr unsafe.Pointer, opts Options) error {
	f, err := u.res.formatter(t)
	if err != nil {
		return err
	}
	if opts.MaxDepth <= 0 {
		opts.MaxDepth = defaultMaxDepth
	}
	r := readerPool.Get().(*Reader)
	r.Reset(data)
	defer func() {
		r.Reset(nil)
		readerPool.Put(r)
	}()
	ctx := newReadContext(u.res, r, opts)
	ctx.ReadValue(f, ptr)
	r.ReadEnd()
	return r.err.take()
}

// Serialize encodes value with the formatter of T.
func Serialize[T any](u *UTF8JSON, value T) ([]byte, error) {
	return u.marshal(reflect.TypeOf((*T)(nil)).Elem(), unsafe.Pointer(&value), u.config.callOptions())
}

// Deserialize decodes data into a new T.
func Deserialize[T any](u *UTF8JSON, data []byte) (T, error) {
	var v T
	if err := u.unmarshal(data, reflect.TypeOf((*T)(nil)).Elem(), unsafe.Pointer(&v), u.config.callOptions()); err != nil {
		var zero T
		return zero, err
	}
	return v, nil
}

var defaultInstance = New()

// Marshal encodes value with the default instance.
func Marshal[T any](value T) ([]byte, error) {
	return Serialize(defaultInstance, value)
}

// Unmarshal decodes data with the default instance.
func Unmarshal[T any](data []byte) (T, error) {
	return Deserialize[T](defaultInstance, data)
}

// UnmarshalTo decodes data into the value v points to with the default instance.
func UnmarshalTo(data []byte, v any) error {
	return defaultInstance.Unmarshal(data, v)
}
