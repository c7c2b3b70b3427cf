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
	"strconv"
	"sync"
	"sync/atomic"
	"unsafe"

	"golang.org/x/sync/singleflight"
)

type cacheEntry struct {
	f   Formatter
	err error
}

// resolver owns the per-type formatter cache of one UTF8JSON instance.
// Published entries are never replaced; concurrent first users of a type
// share a single build.
type resolver struct {
	log   buildLogger
	cache sync.Map // reflect.Type -> *cacheEntry
	group singleflight.Group

	ctorMu sync.RWMutex
	ctors  map[reflect.Type]*constructorSpec
}

func newResolver(cfg *Config) *resolver {
	return &resolver{
		log:   buildLogger{l: loggerOrDiscard(cfg.Logger)},
		ctors: make(map[reflect.Type]*constructorSpec),
	}
}

func typeKey(t reflect.Type) string {
	return strconv.FormatUint(uint64(reflect.ValueOf(t).Pointer()), 16)
}

// formatter returns the published formatter for t, building it on first use.
// Build errors are cached with the type.
func (r *resolver) formatter(t reflect.Type) (Formatter, error) {
	if e, ok := r.cache.Load(t); ok {
		entry := e.(*cacheEntry)
		return entry.f, entry.err
	}
	v, _, _ := r.group.Do(typeKey(t), func() (any, error) {
		if e, ok := r.cache.Load(t); ok {
			return e, nil
		}
		f, err := r.build(t)
		if err != nil {
			r.log.failed(t, err)
		}
		entry, _ := r.cache.LoadOrStore(t, &cacheEntry{f: f, err: err})
		return entry, nil
	})
	entry := v.(*cacheEntry)
	return entry.f, entry.err
}

func (r *resolver) built(t reflect.Type) bool {
	_, ok := r.cache.Load(t)
	return ok
}

func (r *resolver) constructor(t reflect.Type) *constructorSpec {
	r.ctorMu.RLock()
	defer r.ctorMu.RUnlock()
	return r.ctors[t]
}

// build creates the formatter for t. Nested formatters are bound lazily so
// that recursive types do not re-enter their own build.
func (r *resolver) build(t reflect.Type) (Formatter, error) {
	if err := r.checkSupported(t, nil); err != nil {
		return nil, err
	}
	if r.constructor(t) == nil {
		if f, ok := generatedFormatter(t); ok {
			return f, nil
		}
	}
	if t == bfloat16Type {
		return bfloat16Formatter{}, nil
	}
	if f := r.marshalerFormatter(t); f != nil {
		return f, nil
	}
	return r.buildByKind(t)
}

func (r *resolver) buildByKind(t reflect.Type) (Formatter, error) {
	if kind := directKindOf(t, false); kind != DirectNone {
		return newDirectFormatter(t, kind), nil
	}
	switch t.Kind() {
	case reflect.Struct:
		return r.buildStruct(t)
	case reflect.Ptr:
		return &ptrFormatter{elemType: t.Elem(), elem: r.nested(t.Elem())}, nil
	case reflect.Slice:
		if t.Elem().Kind() == reflect.Uint8 && !hasCustomEncoding(t.Elem()) {
			return bytesFormatter{t: t}, nil
		}
		return newSliceFormatter(t, r.nested(t.Elem())), nil
	case reflect.Array:
		return newArrayFormatter(t, r.nested(t.Elem())), nil
	case reflect.Map:
		return newMapFormatter(t, r.nested(t.Elem()))
	case reflect.Interface:
		return &interfaceFormatter{t: t}, nil
	}
	return nil, newError(ErrKindUnsupportedMemberType, "no formatter for %v", t)
}

func (r *resolver) buildStruct(t reflect.Type) (Formatter, error) {
	a, err := analyzeType(t, r.constructor(t))
	if err != nil {
		return nil, err
	}
	r.log.analyzed(a)
	f, err := newStructFormatter(r, a)
	if err != nil {
		return nil, err
	}
	r.log.dictionary(t, f.dict)
	return f, nil
}

// nested returns a formatter for a member or element type. Already built
// and primitive types bind immediately; everything else binds on first use.
func (r *resolver) nested(t reflect.Type) Formatter {
	if e, ok := r.cache.Load(t); ok && e.(*cacheEntry).err == nil {
		return e.(*cacheEntry).f
	}
	if kind := directKindOf(t, false); kind != DirectNone {
		return newDirectFormatter(t, kind)
	}
	return &lazyFormatter{res: r, t: t}
}

// lazyFormatter resolves its target through the cache on first use.
type lazyFormatter struct {
	res *resolver
	t   reflect.Type
	f   atomic.Pointer[Formatter]
}

func (l *lazyFormatter) get() (Formatter, *Error) {
	if f := l.f.Load(); f != nil {
		return *f, nil
	}
	f, err := l.res.formatter(l.t)
	if err != nil {
		return nil, asError(err)
	}
	l.f.Store(&f)
	return f, nil
}

func (l *lazyFormatter) Write(ctx *WriteContext, ptr unsafe.Pointer) {
	f, err := l.get()
	if err != nil {
		ctx.SetError(err)
		return
	}
	f.Write(ctx, ptr)
}

func (l *lazyFormatter) Read(ctx *ReadContext, ptr unsafe.Pointer) {
	f, err := l.get()
	if err != nil {
		ctx.SetError(err)
		return
	}
	f.Read(ctx, ptr)
}

// checkSupported walks t and reports the first type no formatter can serve.
// Struct members are checked once per walk so recursive types terminate.
func (r *resolver) checkSupported(t reflect.Type, seen map[reflect.Type]bool) error {
	if seen[t] {
		return nil
	}
	if hasCustomEncoding(t) {
		return nil
	}
	if _, ok := generatedFormatter(t); ok {
		return nil
	}
	switch t.Kind() {
	case reflect.Bool, reflect.String, reflect.Interface,
		reflect.Int, reflect.Int8, reflect.Int16, reflect.Int32, reflect.Int64,
		reflect.Uint, reflect.Uint8, reflect.Uint16, reflect.Uint32, reflect.Uint64,
		reflect.Float32, reflect.Float64:
		return nil
	case reflect.Ptr, reflect.Slice, reflect.Array:
		return r.checkSupported(t.Elem(), seen)
	case reflect.Map:
		if !isSupportedMapKey(t.Key()) {
			return newError(ErrKindUnsupportedMemberType, "unsupported map key type %v", t.Key())
		}
		return r.checkSupported(t.Elem(), seen)
	case reflect.Struct:
		if seen == nil {
			seen = make(map[reflect.Type]bool)
		}
		seen[t] = true
		candidates, ext, err := collectFields(t)
		if err != nil {
			return err
		}
		for _, c := range candidates {
			if c.tag.Formatter != nil {
				continue
			}
			if err := r.checkSupported(c.field.Type, seen); err != nil {
				return unsupportedMemberError(t, c.field.Name, c.field.Type, err.Error())
			}
		}
		if ext != nil && ext.valueType != nil {
			if err := r.checkSupported(ext.valueType, seen); err != nil {
				return unsupportedMemberError(t, ext.Name, ext.Type, err.Error())
			}
		}
		props, err := propertyMembers(t)
		if err != nil {
			return newError(ErrKindUnsupportedMemberType, "%v", err)
		}
		for _, p := range props {
			if err := r.checkSupported(p.Type, seen); err != nil {
				return unsupportedMemberError(t, p.GoName, p.Type, err.Error())
			}
		}
		return nil
	}
	return newError(ErrKindUnsupportedMemberType, "no formatter for %v", t)
}
