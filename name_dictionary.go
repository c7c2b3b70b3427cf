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
	"bytes"
	"cmp"
	"encoding/binary"
	"slices"
	"sync"
)

const wordSize = 8

// NameEntry is one property name in the dictionary.
type NameEntry struct {
	// Key is the unquoted UTF-8 name.
	Key         []byte
	MemberKind  MemberKind
	MemberIndex int
}

// NameDictionary buckets member names by byte length. Entries inside a bucket
// are ordered by their little-endian 8-byte words, then by the tail bytes in
// memory order. The dictionary is built once per type and only read after.
type NameDictionary struct {
	lengths []int
	buckets [][]NameEntry
	entries int
	arena   []byte
}

var nameScratchPool = sync.Pool{
	New: func() any {
		b := make([]byte, 0, 512)
		return &b
	},
}

// BuildNameDictionary builds the dictionary of every member that can be
// assigned during deserialization, either through its field or setter or
// as a constructor argument.
func BuildNameDictionary(a *TypeAnalysis) *NameDictionary {
	return buildNameDictionary(a.Members(), func(m *MemberDescriptor) bool {
		return m.CanWrite() || m.HasConstructorParam()
	})
}

func buildNameDictionary(members []*MemberDescriptor, include func(*MemberDescriptor) bool) *NameDictionary {
	scratch := nameScratchPool.Get().(*[]byte)
	defer func() {
		*scratch = (*scratch)[:0]
		nameScratchPool.Put(scratch)
	}()

	type pending struct {
		start, end int
		member     *MemberDescriptor
	}
	var names []pending
	buf := (*scratch)[:0]
	for _, m := range members {
		if !include(m) {
			continue
		}
		start := len(buf)
		buf = append(buf, m.Name...)
		names = append(names, pending{start, len(buf), m})
	}
	*scratch = buf

	d := &NameDictionary{arena: make([]byte, len(buf))}
	copy(d.arena, buf)
	byLength := make(map[int][]NameEntry)
	for _, p := range names {
		key := d.arena[p.start:p.end:p.end]
		bucket := byLength[len(key)]
		i, found := slices.BinarySearchFunc(bucket, key, func(e NameEntry, k []byte) int {
			return compareNameKeys(e.Key, k)
		})
		if found {
			// exact duplicates: the first member keeps the name
			continue
		}
		bucket = slices.Insert(bucket, i, NameEntry{Key: key, MemberKind: p.member.Kind, MemberIndex: p.member.Index})
		byLength[len(key)] = bucket
		d.entries++
	}
	for l := range byLength {
		d.lengths = append(d.lengths, l)
	}
	slices.Sort(d.lengths)
	for _, l := range d.lengths {
		d.buckets = append(d.buckets, byLength[l])
	}
	return d
}

// compareNameKeys orders two keys of equal length word by word, then tail
// byte by tail byte, all unsigned.
func compareNameKeys(a, b []byte) int {
	words := len(a) / wordSize
	for i := 0; i < words; i++ {
		if c := cmp.Compare(nameWord(a, i), nameWord(b, i)); c != 0 {
			return c
		}
	}
	return bytes.Compare(a[words*wordSize:], b[words*wordSize:])
}

// nameWord reads the i-th 8-byte word of key.
func nameWord(key []byte, i int) uint64 {
	return binary.LittleEndian.Uint64(key[i*wordSize:])
}

// Len returns the number of entries.
func (d *NameDictionary) Len() int { return d.entries }

// LengthVariations returns the distinct name lengths in ascending order.
func (d *NameDictionary) LengthVariations() []int { return d.lengths }

func (d *NameDictionary) MinLength() int {
	if len(d.lengths) == 0 {
		return 0
	}
	return d.lengths[0]
}

func (d *NameDictionary) MaxLength() int {
	if len(d.lengths) == 0 {
		return 0
	}
	return d.lengths[len(d.lengths)-1]
}

// Bucket returns the sorted entries whose names are length bytes long.
func (d *NameDictionary) Bucket(length int) []NameEntry {
	if i, ok := slices.BinarySearch(d.lengths, length); ok {
		return d.buckets[i]
	}
	return nil
}

// Entries returns all entries, shortest names first.
func (d *NameDictionary) Entries() []NameEntry {
	out := make([]NameEntry, 0, d.entries)
	for _, b := range d.buckets {
		out = append(out, b...)
	}
	return out
}

// Lookup finds the entry whose key equals name exactly.
func (d *NameDictionary) Lookup(name []byte) (NameEntry, bool) {
	bucket := d.Bucket(len(name))
	i, ok := slices.BinarySearchFunc(bucket, name, func(e NameEntry, k []byte) int {
		return compareNameKeys(e.Key, k)
	})
	if !ok {
		return NameEntry{}, false
	}
	return bucket[i], true
}

// LookupFold finds the first entry equal to name under Unicode case folding.
// Shorter keys are tried first, then bucket order.
func (d *NameDictionary) LookupFold(name []byte) (NameEntry, bool) {
	for _, bucket := range d.buckets {
		for _, e := range bucket {
			if bytes.EqualFold(e.Key, name) {
				return e, true
			}
		}
	}
	return NameEntry{}, false
}

// NewNameDictionary builds a dictionary over plain names. Entry i refers to
// names[i]; it is used by the source generator, which has no TypeAnalysis.
func NewNameDictionary(names []string) *NameDictionary {
	members := make([]*MemberDescriptor, len(names))
	for i, name := range names {
		members[i] = &MemberDescriptor{Name: name, Index: i}
	}
	return buildNameDictionary(members, func(*MemberDescriptor) bool { return true })
}
