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

// LengthMode is how the dispatcher selects a bucket from the name length.
type LengthMode uint8

const (
	// LengthNone: the dictionary is empty, every name is unknown.
	LengthNone LengthMode = iota
	// LengthSingle: one distinct length, compared directly.
	LengthSingle
	// LengthPair: two distinct lengths, two sequential comparisons.
	LengthPair
	// LengthTable: a dense table indexed by length in [0, MaxLength].
	LengthTable
)

func (m LengthMode) String() string {
	switch m {
	case LengthNone:
		return "none"
	case LengthSingle:
		return "single"
	case LengthPair:
		return "pair"
	case LengthTable:
		return "table"
	}
	return "unknown"
}

// DispatchNode is one step of the bisection over a bucket. An inner node
// reads an 8-byte word (Word) or a single tail byte at Pos and bisects over
// Values, which are sorted ascending and aligned with Children. A leaf has
// consumed every byte of its name and yields Member.
type DispatchNode struct {
	Leaf     bool
	Member   int
	Word     bool
	Pos      int
	Values   []uint64
	Children []*DispatchNode
}

// DispatchTree maps a raw property name to a member index without hashing
// or allocating: length switch, then word bisection, then tail bytes.
type DispatchTree struct {
	Mode    LengthMode
	Lengths []int
	// Roots is aligned with Lengths.
	Roots []*DispatchNode
	table []*DispatchNode
}

// NewDispatchTree builds the dispatch tree of d.
func NewDispatchTree(d *NameDictionary) *DispatchTree {
	t := &DispatchTree{Lengths: d.LengthVariations()}
	for i, length := range t.Lengths {
		t.Roots = append(t.Roots, buildDispatchNode(d.buckets[i], length, 0, 0))
	}
	switch len(t.Lengths) {
	case 0:
		t.Mode = LengthNone
	case 1:
		t.Mode = LengthSingle
	case 2:
		t.Mode = LengthPair
	default:
		t.Mode = LengthTable
		t.table = make([]*DispatchNode, d.MaxLength()+1)
		for i, length := range t.Lengths {
			t.table[length] = t.Roots[i]
		}
	}
	return t
}

// TableSize is the number of slots of the dense length table, zero unless
// Mode is LengthTable.
func (t *DispatchTree) TableSize() int {
	return len(t.table)
}

func buildDispatchNode(entries []NameEntry, length, word, tail int) *DispatchNode {
	words := length / wordSize
	if word < words {
		node := &DispatchNode{Word: true, Pos: word}
		for _, run := range classify(entries, word) {
			node.Values = append(node.Values, nameWord(run[0].Key, word))
			node.Children = append(node.Children, buildDispatchNode(run, length, word+1, 0))
		}
		return node
	}
	if pos := words*wordSize + tail; pos < length {
		node := &DispatchNode{Pos: pos}
		for _, run := range classifyByRest(entries, pos) {
			node.Values = append(node.Values, uint64(run[0].Key[pos]))
			node.Children = append(node.Children, buildDispatchNode(run, length, word, tail+1))
		}
		return node
	}
	// every byte consumed: the dictionary holds no duplicates, so one entry is left
	return &DispatchNode{Leaf: true, Member: entries[0].MemberIndex}
}

// classify splits sorted entries into contiguous runs sharing word i.
func classify(entries []NameEntry, i int) [][]NameEntry {
	var runs [][]NameEntry
	start := 0
	for j := 1; j <= len(entries); j++ {
		if j == len(entries) || nameWord(entries[j].Key, i) != nameWord(entries[start].Key, i) {
			runs = append(runs, entries[start:j])
			start = j
		}
	}
	return runs
}

// classifyByRest splits sorted entries into contiguous runs sharing the
// tail byte at pos.
func classifyByRest(entries []NameEntry, pos int) [][]NameEntry {
	var runs [][]NameEntry
	start := 0
	for j := 1; j <= len(entries); j++ {
		if j == len(entries) || entries[j].Key[pos] != entries[start].Key[pos] {
			runs = append(runs, entries[start:j])
			start = j
		}
	}
	return runs
}

// Match returns the member index for name, or -1.
func (t *DispatchTree) Match(name []byte) int {
	var node *DispatchNode
	switch t.Mode {
	case LengthNone:
		return -1
	case LengthSingle:
		if len(name) != t.Lengths[0] {
			return -1
		}
		node = t.Roots[0]
	case LengthPair:
		switch len(name) {
		case t.Lengths[0]:
			node = t.Roots[0]
		case t.Lengths[1]:
			node = t.Roots[1]
		default:
			return -1
		}
	default:
		if len(name) >= len(t.table) {
			return -1
		}
		if node = t.table[len(name)]; node == nil {
			return -1
		}
	}
	for !node.Leaf {
		var v uint64
		if node.Word {
			v = nameWord(name, node.Pos)
		} else {
			v = uint64(name[node.Pos])
		}
		values := node.Values
		if len(values) == 1 {
			if v != values[0] {
				return -1
			}
			node = node.Children[0]
			continue
		}
		lo, hi := 0, len(values)
		next := -1
		for lo < hi {
			mid := int(uint(lo+hi) >> 1)
			switch {
			case v == values[mid]:
				next = mid
				lo = hi
			case v < values[mid]:
				hi = mid
			default:
				lo = mid + 1
			}
		}
		if next < 0 {
			return -1
		}
		node = node.Children[next]
	}
	return node.Member
}

// DispatchPlan summarizes a dispatch tree for inspection.
type DispatchPlan struct {
	Mode      LengthMode
	Lengths   []int
	TableSize int
	Entries   int
	Nodes     int
	MaxDepth  int
}

// Plan returns the shape of t.
func (t *DispatchTree) Plan() DispatchPlan {
	p := DispatchPlan{Mode: t.Mode, Lengths: t.Lengths, TableSize: len(t.table)}
	var walk func(n *DispatchNode, depth int)
	walk = func(n *DispatchNode, depth int) {
		p.Nodes++
		if depth > p.MaxDepth {
			p.MaxDepth = depth
		}
		if n.Leaf {
			p.Entries++
			return
		}
		for _, c := range n.Children {
			walk(c, depth+1)
		}
	}
	for _, r := range t.Roots {
		walk(r, 0)
	}
	return p
}
