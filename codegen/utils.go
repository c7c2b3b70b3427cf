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

package codegen

import (
	"fmt"
	"go/types"
	"reflect"

	"github.com/apache/fory/go/utf8json"
)

// StructInfo contains metadata about a struct to generate code for.
type StructInfo struct {
	Name string
	Type *types.Named
	// Members in serialization order: unconditional value members first,
	// then conditional value members, then the same for reference members.
	Members []*MemberInfo
	// Head is the number of leading members written unconditionally.
	Head      int
	Extension *ExtensionInfo

	// Callback receivers, embedded structs before the struct embedding
	// them; "v" is the root, "v.Base" an embedded struct.
	OnSerializing   []string
	OnSerialized    []string
	OnDeserializing []string
	OnDeserialized  []string
}

// MemberInfo contains metadata about one serialized field.
type MemberInfo struct {
	Name   string // JSON property name
	GoName string
	// Path is the selector from the receiver, e.g. "Base.ID" for a field
	// promoted from an embedded struct.
	Path       string
	Type       types.Type
	Direct     utf8json.DirectKind
	Reference  bool
	OmitEmpty  bool
	Intern     bool
	ShouldFunc bool // has ShouldSerialize<GoName>() bool
	Index      int

	depth int
}

// Conditional reports whether the member is gated by a predicate.
func (m *MemberInfo) Conditional() bool {
	return m.OmitEmpty || m.ShouldFunc
}

// ExtensionInfo describes the member receiving unmatched properties.
type ExtensionInfo struct {
	Path   string
	Type   types.Type
	Bag    bool
	BagPtr bool
}

type fieldCandidate struct {
	member *MemberInfo
	order  int
}

// extractStructInfo computes the same member model the reflective analysis
// builds at runtime, from type-checked source.
func extractStructInfo(named *types.Named) (*StructInfo, error) {
	st, ok := named.Underlying().(*types.Struct)
	if !ok {
		return nil, fmt.Errorf("%s is not a struct", named.Obj().Name())
	}
	if named.TypeParams().Len() > 0 {
		return nil, fmt.Errorf("%s is generic", named.Obj().Name())
	}
	ptr := types.NewPointer(named)
	mset := types.NewMethodSet(ptr)
	if hasMethod(mset, "JSONProperties") {
		return nil, fmt.Errorf("%s declares accessor properties, which are resolved at runtime", named.Obj().Name())
	}
	s := &StructInfo{
		Name:            named.Obj().Name(),
		Type:            named,
		OnSerializing:   callbackReceivers(named, "v", "OnSerializing"),
		OnSerialized:    callbackReceivers(named, "v", "OnSerialized"),
		OnDeserializing: callbackReceivers(named, "v", "OnDeserializing"),
		OnDeserialized:  callbackReceivers(named, "v", "OnDeserialized"),
	}

	var candidates []*MemberInfo
	var walk func(st *types.Struct, prefix string, depth int) error
	walk = func(st *types.Struct, prefix string, depth int) error {
		for i := 0; i < st.NumFields(); i++ {
			f := st.Field(i)
			tag, err := utf8json.ParseMemberTag(f.Name(), reflect.StructTag(st.Tag(i)))
			if err != nil {
				return err
			}
			if tag.Skip {
				continue
			}
			path := prefix + f.Name()
			if inner, ok := f.Type().Underlying().(*types.Struct); ok && f.Embedded() && tag.Name == "" && !tag.Extension {
				if err := walk(inner, path+".", depth+1); err != nil {
					return err
				}
				continue
			}
			if !f.Exported() {
				continue
			}
			if tag.Extension {
				if s.Extension != nil {
					return fmt.Errorf("field %s: more than one extension data member", f.Name())
				}
				ext, err := extensionInfo(f, path)
				if err != nil {
					return err
				}
				s.Extension = ext
				continue
			}
			if tag.Formatter != nil {
				return fmt.Errorf("field %s: custom formatter %s is resolved at runtime", f.Name(), tag.Formatter)
			}
			if err := checkMemberType(f.Type()); err != nil {
				return fmt.Errorf("field %s: %w", f.Name(), err)
			}
			name := tag.Name
			if name == "" {
				name = f.Name()
			}
			candidates = append(candidates, &MemberInfo{
				Name:       name,
				GoName:     f.Name(),
				Path:       path,
				Type:       f.Type(),
				Direct:     directKindOf(f.Type(), tag.Char),
				Reference:  isReference(f.Type()),
				OmitEmpty:  tag.OmitEmpty,
				Intern:     tag.Intern && isBasic(f.Type(), types.IsString),
				ShouldFunc: hasShouldSerialize(mset, f.Name()),
				depth:      depth,
			})
		}
		return nil
	}
	if err := walk(st, "", 0); err != nil {
		return nil, fmt.Errorf("%s: %w", s.Name, err)
	}

	best := make(map[string]int, len(candidates))
	for i, m := range candidates {
		j, ok := best[m.Name]
		if !ok || m.depth < candidates[j].depth {
			best[m.Name] = i
		}
	}
	var value, condValue, ref, condRef []*MemberInfo
	for i, m := range candidates {
		if best[m.Name] != i {
			continue
		}
		switch {
		case !m.Reference && !m.Conditional():
			value = append(value, m)
		case !m.Reference:
			condValue = append(condValue, m)
		case !m.Conditional():
			ref = append(ref, m)
		default:
			condRef = append(condRef, m)
		}
	}
	for _, group := range [][]*MemberInfo{value, condValue, ref, condRef} {
		for _, m := range group {
			m.Index = len(s.Members)
			s.Members = append(s.Members, m)
		}
	}
	s.Head = len(value)
	return s, nil
}

func extensionInfo(f *types.Var, path string) (*ExtensionInfo, error) {
	ext := &ExtensionInfo{Path: path, Type: f.Type()}
	if m, ok := f.Type().Underlying().(*types.Map); ok && isBasic(m.Key(), types.IsString) {
		return ext, nil
	}
	if p, ok := f.Type().Underlying().(*types.Pointer); ok {
		if _, ok := p.Elem().Underlying().(*types.Struct); ok && isBag(types.NewMethodSet(f.Type())) {
			ext.Bag, ext.BagPtr = true, true
			return ext, nil
		}
	} else if isBag(types.NewMethodSet(types.NewPointer(f.Type()))) {
		ext.Bag = true
		return ext, nil
	}
	return nil, fmt.Errorf("field %s: extension data must be map[string]T or implement Add and Range", f.Name())
}

// callbackReceivers lists the receivers declaring callback name within t:
// embedded structs first, in field order, then t itself. Promoted methods
// are attributed to the struct declaring them.
func callbackReceivers(t types.Type, path, name string) []string {
	var out []string
	if st, ok := t.Underlying().(*types.Struct); ok {
		for i := 0; i < st.NumFields(); i++ {
			f := st.Field(i)
			if _, ok := f.Type().Underlying().(*types.Struct); ok && f.Embedded() {
				out = append(out, callbackReceivers(f.Type(), path+"."+f.Name(), name)...)
			}
		}
	}
	sel := types.NewMethodSet(types.NewPointer(t)).Lookup(nil, name)
	if sel == nil || len(sel.Index()) != 1 {
		return out
	}
	if sig := sel.Type().(*types.Signature); sig.Params().Len() == 0 && sig.Results().Len() == 0 {
		out = append(out, path)
	}
	return out
}

func isBag(mset *types.MethodSet) bool {
	return hasMethod(mset, "Add") && hasMethod(mset, "Range")
}

func hasMethod(mset *types.MethodSet, name string) bool {
	return mset.Lookup(nil, name) != nil
}

// hasShouldSerialize looks for ShouldSerialize<goName>() bool, promoted
// methods included.
func hasShouldSerialize(mset *types.MethodSet, goName string) bool {
	sel := mset.Lookup(nil, "ShouldSerialize"+goName)
	if sel == nil {
		return false
	}
	sig := sel.Type().(*types.Signature)
	return sig.Params().Len() == 0 && sig.Results().Len() == 1 &&
		types.Identical(sig.Results().At(0).Type(), types.Typ[types.Bool])
}

// hasCustomEncoding mirrors the runtime rule: types with their own JSON or
// text methods are never written directly.
func hasCustomEncoding(t types.Type) bool {
	switch t.Underlying().(type) {
	case *types.Pointer, *types.Interface:
		return false
	}
	mset := types.NewMethodSet(types.NewPointer(t))
	for _, name := range []string{"MarshalJSON", "UnmarshalJSON", "MarshalText", "UnmarshalText"} {
		if hasMethod(mset, name) {
			return true
		}
	}
	return false
}

func directKindOf(t types.Type, char bool) utf8json.DirectKind {
	if hasCustomEncoding(t) {
		return utf8json.DirectNone
	}
	b, ok := t.Underlying().(*types.Basic)
	if !ok {
		return utf8json.DirectNone
	}
	switch b.Kind() {
	case types.Bool:
		return utf8json.DirectBool
	case types.Int8:
		return utf8json.DirectInt8
	case types.Uint8:
		return utf8json.DirectUint8
	case types.Int16:
		return utf8json.DirectInt16
	case types.Uint16:
		return utf8json.DirectUint16
	case types.Int32:
		if char {
			return utf8json.DirectChar
		}
		return utf8json.DirectInt32
	case types.Uint32:
		return utf8json.DirectUint32
	case types.Int64:
		return utf8json.DirectInt64
	case types.Uint64:
		return utf8json.DirectUint64
	case types.Float32:
		return utf8json.DirectFloat32
	case types.Float64:
		return utf8json.DirectFloat64
	case types.String:
		return utf8json.DirectString
	case types.Int:
		return utf8json.DirectInt
	case types.Uint:
		return utf8json.DirectUint
	}
	return utf8json.DirectNone
}

func isReference(t types.Type) bool {
	switch t.Underlying().(type) {
	case *types.Pointer, *types.Slice, *types.Map, *types.Interface:
		return true
	}
	return false
}

func isBasic(t types.Type, info types.BasicInfo) bool {
	b, ok := t.Underlying().(*types.Basic)
	return ok && b.Info()&info != 0
}

// checkMemberType rejects types that have no JSON form.
func checkMemberType(t types.Type) error {
	switch u := t.Underlying().(type) {
	case *types.Chan, *types.Signature:
		return fmt.Errorf("unsupported type %s", t)
	case *types.Basic:
		if u.Info()&types.IsComplex != 0 || u.Kind() == types.UnsafePointer || u.Kind() == types.Uintptr {
			return fmt.Errorf("unsupported type %s", t)
		}
	}
	return nil
}

// nonEmptyExpr returns the omitempty condition for expr, or "" when values
// of t are never empty.
func nonEmptyExpr(t types.Type, expr string) string {
	switch u := t.Underlying().(type) {
	case *types.Basic:
		switch {
		case u.Info()&types.IsBoolean != 0:
			return expr
		case u.Info()&types.IsString != 0:
			return expr + ` != ""`
		case u.Info()&types.IsNumeric != 0:
			return expr + " != 0"
		}
	case *types.Pointer, *types.Interface:
		return expr + " != nil"
	case *types.Slice, *types.Map, *types.Array:
		return "len(" + expr + ") != 0"
	}
	return ""
}
