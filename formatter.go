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
	"sync"
	"unsafe"
)

// Formatter writes and reads the JSON form of one Go type. ptr always points
// at a value of that type. Failures are recorded on the context; callers
// check HasError at loop boundaries instead of after every call.
type Formatter interface {
	Write(ctx *WriteContext, ptr unsafe.Pointer)
	Read(ctx *ReadContext, ptr unsafe.Pointer)
}

// TypedFormatter is the form emitted by the source generator.
type TypedFormatter[T any] interface {
	WriteTyped(ctx *WriteContext, v *T)
	ReadTyped(ctx *ReadContext, v *T)
}

type typedFormatter[T any] struct {
	f TypedFormatter[T]
}

func (t typedFormatter[T]) Write(ctx *WriteContext, ptr unsafe.Pointer) {
	t.f.WriteTyped(ctx, (*T)(ptr))
}

func (t typedFormatter[T]) Read(ctx *ReadContext, ptr unsafe.Pointer) {
	t.f.ReadTyped(ctx, (*T)(ptr))
}

// WriteContext carries per-call state for serialization.
type WriteContext struct {
	w     *Writer
	opts  Options
	depth int
	err   Error
	res   *resolver
}

func newWriteContext(res *resolver, w *Writer, opts Options) *WriteContext {
	return &WriteContext{w: w, opts: opts, res: res}
}

// Writer returns the output writer.
func (c *WriteContext) Writer() *Writer { return c.w }

// Options returns the per-call options.
func (c *WriteContext) Options() Options { return c.opts }

// IgnoreNullValues reports whether nil reference members are skipped.
func (c *WriteContext) IgnoreNullValues() bool { return c.opts.IgnoreNullValues }

// SetError records e unless an error is already present.
func (c *WriteContext) SetError(e *Error) {
	if e != nil {
		c.err.set(e.kind, e.offset, e.msg, e.cause)
	}
}

func (c *WriteContext) HasError() bool { return c.err.HasError() }

func (c *WriteContext) Err() *Error { return &c.err }

func (c *WriteContext) enter() bool {
	c.depth++
	if c.depth > c.opts.MaxDepth {
		c.SetError(newError(ErrKindMaxDepthExceeded, "nesting deeper than %d", c.opts.MaxDepth))
		return false
	}
	return true
}

// WriteValue writes the value at ptr with f, enforcing the depth limit.
func (c *WriteContext) WriteValue(f Formatter, ptr unsafe.Pointer) {
	if c.err.HasError() {
		return
	}
	if c.enter() {
		f.Write(c, ptr)
	}
	c.depth--
}

// WriteValueOf resolves the formatter for t and writes the value at ptr.
func (c *WriteContext) WriteValueOf(t reflect.Type, ptr unsafe.Pointer) {
	f, err := c.res.formatter(t)
	if err != nil {
		c.SetError(asError(err))
		return
	}
	c.WriteValue(f, ptr)
}

// ReadContext carries per-call state for deserialization. Errors live on
// the reader so that syntax and semantic errors share one slot.
type ReadContext struct {
	r       *Reader
	opts    Options
	depth   int
	res     *resolver
	strings *stringCache
}

func newReadContext(res *resolver, r *Reader, opts Options) *ReadContext {
	return &ReadContext{r: r, opts: opts, res: res}
}

// Reader returns the input reader.
func (c *ReadContext) Reader() *Reader { return c.r }

func (c *ReadContext) Options() Options { return c.opts }

// CaseInsensitiveNames reports whether unmatched names are retried with
// case folding.
func (c *ReadContext) CaseInsensitiveNames() bool { return c.opts.CaseInsensitiveNames }

func (c *ReadContext) SetError(e *Error) { c.r.SetError(e) }

func (c *ReadContext) HasError() bool { return c.r.HasError() }

func (c *ReadContext) Err() *Error { return c.r.Err() }

// Intern returns b as a string, reusing a previous string with the same
// bytes read during this call.
func (c *ReadContext) Intern(b []byte) string {
	if c.strings == nil {
		c.strings = new(stringCache)
	}
	return c.strings.make(b)
}

func (c *ReadContext) enter() bool {
	c.depth++
	if c.depth > c.opts.MaxDepth {
		c.SetError(newError(ErrKindMaxDepthExceeded, "nesting deeper than %d", c.opts.MaxDepth))
		return false
	}
	return true
}

// ReadValue reads into ptr with f, enforcing the depth limit.
func (c *ReadContext) ReadValue(f Formatter, ptr unsafe.Pointer) {
	if c.r.HasError() {
		return
	}
	if c.enter() {
		f.Read(c, ptr)
	}
	c.depth--
}

// ReadValueOf resolves the formatter for t and reads into ptr.
func (c *ReadContext) ReadValueOf(t reflect.Type, ptr unsafe.Pointer) {
	f, err := c.res.formatter(t)
	if err != nil {
		c.SetError(asError(err))
		return
	}
	c.ReadValue(f, ptr)
}

// WriteNested writes v through the verified entry: depth check, then the
// resolver's formatter for T. Generated code uses it for members whose type
// has no generated formatter.
func WriteNested[T any](ctx *WriteContext, v *T) {
	ctx.WriteValueOf(reflect.TypeOf((*T)(nil)).Elem(), unsafe.Pointer(v))
}

// ReadNested is the read form of WriteNested.
func ReadNested[T any](ctx *ReadContext, v *T) {
	ctx.ReadValueOf(reflect.TypeOf((*T)(nil)).Elem(), unsafe.Pointer(v))
}

// UnexpectedNullError reports a null read into a value of type t.
func UnexpectedNullError(t reflect.Type) *Error {
	return unexpectedNullError(t)
}

// MissingConstructorArgumentError reports a constructor parameter that was
// absent from the input.
func MissingConstructorArgumentError(t reflect.Type, name string) *Error {
	return newError(ErrKindMissingConstructorArgument, "%v: %q", t, name)
}

var generatedFormatters = struct {
	sync.RWMutex
	m map[reflect.Type]Formatter
}{m: make(map[reflect.Type]Formatter)}

// RegisterGeneratedFormatter installs a generated formatter for T. It is
// called from init functions of generated files and wins over reflection.
func RegisterGeneratedFormatter[T any](f TypedFormatter[T]) {
	t := reflect.TypeOf((*T)(nil)).Elem()
	generatedFormatters.Lock()
	generatedFormatters.m[t] = typedFormatter[T]{f}
	generatedFormatters.Unlock()
}

func generatedFormatter(t reflect.Type) (Formatter, bool) {
	generatedFormatters.RLock()
	f, ok := generatedFormatters.m[t]
	generatedFormatters.RUnlock()
	return f, ok
}

// FormatterFactory builds a custom formatter for a member of type t from the
// arguments given in the member tag.
type FormatterFactory func(t reflect.Type, args []string) (Formatter, error)

var customFormatters = struct {
	sync.RWMutex
	instances map[string]Formatter
	factories map[string]FormatterFactory
}{
	instances: make(map[string]Formatter),
	factories: make(map[string]FormatterFactory),
}

// RegisterFormatter registers a singleton formatter under name, selected by
// members tagged `utf8json:"formatter=name"`.
func RegisterFormatter(name string, f Formatter) {
	customFormatters.Lock()
	customFormatters.instances[name] = f
	customFormatters.Unlock()
}

// RegisterFormatterFactory registers a factory under name, used by members
// tagged `utf8json:"formatter=name(args...)"`.
func RegisterFormatterFactory(name string, factory FormatterFactory) {
	customFormatters.Lock()
	customFormatters.factories[name] = factory
	customFormatters.Unlock()
}

// resolveCustomFormatter applies the tag formatter preference: a factory
// when arguments are given, otherwise the singleton, otherwise the factory
// with no arguments.
func resolveCustomFormatter(spec *FormatterSpec, t reflect.Type) (Formatter, error) {
	customFormatters.RLock()
	instance, hasInstance := customFormatters.instances[spec.Name]
	factory, hasFactory := customFormatters.factories[spec.Name]
	customFormatters.RUnlock()
	switch {
	case len(spec.Args) > 0 && hasFactory:
		return factory(t, spec.Args)
	case len(spec.Args) > 0:
		return nil, fmt.Errorf("formatter %q takes no arguments", spec.Name)
	case hasInstance:
		return instance, nil
	case hasFactory:
		return factory(t, nil)
	}
	return nil, fmt.Errorf("formatter %q is not registered", spec.Name)
}
