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
	"strings"
	"unsafe"

	"github.com/spaolacci/murmur3"
)

const fingerprintSeed = 47

// TypeAnalysis is the per-type member model consumed by the serializer and
// the name dictionary. It is immutable once built.
type TypeAnalysis struct {
	Type reflect.Type
	// Fingerprint hashes the member layout; it changes when a member is
	// added, removed, renamed or retyped.
	Fingerprint uint64

	ValueFields                    []*MemberDescriptor
	ValueProperties                []*MemberDescriptor
	ConditionalValueFields         []*ShouldSerializeMemberDescriptor
	ConditionalValueProperties     []*ShouldSerializeMemberDescriptor
	ReferenceFields                []*MemberDescriptor
	ReferenceProperties            []*MemberDescriptor
	ConditionalReferenceFields     []*ShouldSerializeMemberDescriptor
	ConditionalReferenceProperties []*ShouldSerializeMemberDescriptor

	ExtensionData *ExtensionDataInfo
	Constructor   ConstructorData

	OnSerializing   callbackList
	OnSerialized    callbackList
	OnDeserializing callbackList
	OnDeserialized  callbackList

	members    []*MemberDescriptor
	predicates []func(obj unsafe.Pointer) bool
}

// Members returns every member in serialization order: unconditional value
// fields, value properties, their conditional forms, then the same four
// groups for reference members.
func (a *TypeAnalysis) Members() []*MemberDescriptor {
	return a.members
}

func (a *TypeAnalysis) MemberCount() int {
	return len(a.members)
}

// Predicate returns the should-serialize predicate of member i, or nil.
func (a *TypeAnalysis) Predicate(i int) func(obj unsafe.Pointer) bool {
	return a.predicates[i]
}

// unconditionalValueCount is the number of leading members that are always
// written. When non-zero the first emitted property is known statically.
func (a *TypeAnalysis) unconditionalValueCount() int {
	n := 0
	for _, m := range a.ValueFields {
		if m.CanRead() {
			n++
		}
	}
	for _, m := range a.ValueProperties {
		if m.CanRead() {
			n++
		}
	}
	return n
}

type fieldCandidate struct {
	field reflect.StructField
	tag   MemberTag
	name  string
	depth int
	order int
}

// analyzeType builds the TypeAnalysis of struct type t. ctor, when not nil,
// switches the type to deferred construction.
func analyzeType(t reflect.Type, ctor *constructorSpec) (*TypeAnalysis, error) {
	if t.Kind() != reflect.Struct {
		return nil, newError(ErrKindInvalidArgument, "%v is not a struct", t)
	}
	a := &TypeAnalysis{Type: t}

	candidates, ext, err := collectFields(t)
	if err != nil {
		return nil, err
	}
	a.ExtensionData = ext

	seen := make(map[string]bool, len(candidates))
	var all []*MemberDescriptor
	for _, c := range candidates {
		seen[c.name] = true
		all = append(all, newFieldMember(t, c.field, c.name, c.tag))
	}
	props, err := propertyMembers(t)
	if err != nil {
		return nil, newError(ErrKindUnsupportedMemberType, "%v", err)
	}
	for _, p := range props {
		if seen[p.Name] {
			continue
		}
		seen[p.Name] = true
		all = append(all, p)
	}

	for _, m := range all {
		pred := shouldSerializePredicate(t, m)
		ref := m.IsReference()
		switch {
		case pred == nil && !ref && m.Kind == FieldMember:
			a.ValueFields = append(a.ValueFields, m)
		case pred == nil && !ref:
			a.ValueProperties = append(a.ValueProperties, m)
		case !ref && m.Kind == FieldMember:
			a.ConditionalValueFields = append(a.ConditionalValueFields, &ShouldSerializeMemberDescriptor{m, pred})
		case !ref:
			a.ConditionalValueProperties = append(a.ConditionalValueProperties, &ShouldSerializeMemberDescriptor{m, pred})
		case pred == nil && m.Kind == FieldMember:
			a.ReferenceFields = append(a.ReferenceFields, m)
		case pred == nil:
			a.ReferenceProperties = append(a.ReferenceProperties, m)
		case m.Kind == FieldMember:
			a.ConditionalReferenceFields = append(a.ConditionalReferenceFields, &ShouldSerializeMemberDescriptor{m, pred})
		default:
			a.ConditionalReferenceProperties = append(a.ConditionalReferenceProperties, &ShouldSerializeMemberDescriptor{m, pred})
		}
	}
	a.flatten()

	if ctor != nil {
		if a.Constructor, err = bindConstructor(t, ctor, a.members); err != nil {
			return nil, err
		}
	}
	a.OnSerializing, a.OnSerialized, a.OnDeserializing, a.OnDeserialized = lifecycleCallbacks(t)
	a.Fingerprint = a.fingerprint()
	return a, nil
}

func (a *TypeAnalysis) flatten() {
	add := func(m *MemberDescriptor, pred func(unsafe.Pointer) bool) {
		m.Index = len(a.members)
		a.members = append(a.members, m)
		a.predicates = append(a.predicates, pred)
	}
	plain := func(ms []*MemberDescriptor) {
		for _, m := range ms {
			add(m, nil)
		}
	}
	conditional := func(ms []*ShouldSerializeMemberDescriptor) {
		for _, m := range ms {
			add(m.MemberDescriptor, m.ShouldSerialize)
		}
	}
	plain(a.ValueFields)
	plain(a.ValueProperties)
	conditional(a.ConditionalValueFields)
	conditional(a.ConditionalValueProperties)
	plain(a.ReferenceFields)
	plain(a.ReferenceProperties)
	conditional(a.ConditionalReferenceFields)
	conditional(a.ConditionalReferenceProperties)
}

func (a *TypeAnalysis) fingerprint() uint64 {
	var sb strings.Builder
	sb.WriteString(a.Type.String())
	for _, m := range a.members {
		fmt.Fprintf(&sb, ";%s:%s:%v:%d", m.Name, m.Kind, m.Type, m.ConstructorParamIndex)
	}
	if a.ExtensionData != nil {
		fmt.Fprintf(&sb, ";+%v", a.ExtensionData.Type)
	}
	h1, _ := murmur3.Sum128WithSeed([]byte(sb.String()), fingerprintSeed)
	return h1
}

// collectFields walks t and its embedded structs in declaration order.
// A shallower field hides deeper fields with the same JSON name; at equal
// depth the first declared field wins.
func collectFields(t reflect.Type) ([]fieldCandidate, *ExtensionDataInfo, error) {
	var (
		out []fieldCandidate
		ext *ExtensionDataInfo
	)
	var walk func(st reflect.Type, offset uintptr, depth int) error
	walk = func(st reflect.Type, offset uintptr, depth int) error {
		for i := 0; i < st.NumField(); i++ {
			f := st.Field(i)
			tag, err := parseMemberTag(f)
			if err != nil {
				return newError(ErrKindUnsupportedMemberType, "%v: %v", t, err)
			}
			if tag.Skip {
				continue
			}
			if f.Anonymous && tag.Name == "" && f.Type.Kind() == reflect.Struct && !tag.Extension {
				if err := walk(f.Type, offset+f.Offset, depth+1); err != nil {
					return err
				}
				continue
			}
			if !f.IsExported() {
				continue
			}
			f.Offset += offset
			if tag.Extension {
				if ext != nil {
					return unsupportedMemberError(t, f.Name, f.Type, "more than one extension data member")
				}
				if ext, err = newExtensionDataInfo(t, f); err != nil {
					return err
				}
				continue
			}
			name := tag.Name
			if name == "" {
				name = f.Name
			}
			out = append(out, fieldCandidate{field: f, tag: tag, name: name, depth: depth, order: len(out)})
		}
		return nil
	}
	if err := walk(t, 0, 0); err != nil {
		return nil, nil, err
	}

	best := make(map[string]int, len(out))
	for i, c := range out {
		j, ok := best[c.name]
		if !ok || c.depth < out[j].depth {
			best[c.name] = i
		}
	}
	kept := out[:0:0]
	for i, c := range out {
		if best[c.name] == i {
			kept = append(kept, c)
		}
	}
	return kept, ext, nil
}
