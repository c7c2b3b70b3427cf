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
	"encoding/binary"
	"fmt"
	"go/types"
	"strconv"
	"strings"

	"github.com/apache/fory/go/utf8json"
)

// generateReadTyped generates the strongly-typed read method. Names are
// dispatched by the generated match method; unmatched names fall back to
// the case-folded dictionary lookup when the option is enabled.
func (g *generator) generateReadTyped(s *StructInfo) {
	g.printf("// ReadTyped reads a JSON object into v.\n")
	g.printf("func (f %s_JSONFormatter) ReadTyped(ctx *utf8json.ReadContext, v *%s) {\n", s.Name, s.Name)
	g.printf("\tr := ctx.Reader()\n")
	g.printf("\tif utf8json.RejectNull[%s](ctx) {\n\t\treturn\n\t}\n", s.Name)
	g.printf("\tif !r.ReadBeginObject() {\n\t\treturn\n\t}\n")
	g.callbacks(s.OnDeserializing, "OnDeserializing", 1)
	g.printf("\tcount := 0\n")
	g.printf("\tfor !r.ReadIsEndObjectWithSkipValueSeparator(&count) {\n")
	g.printf("\t\tname := r.ReadPropertyNameSegment()\n")
	g.printf("\t\tif r.HasError() {\n\t\t\treturn\n\t\t}\n")
	if len(s.Members) == 0 {
		g.readUnknown(s, 2)
	} else {
		g.printf("\t\ti := f.match(name)\n")
		g.printf("\t\tif i < 0 && ctx.CaseInsensitiveNames() {\n")
		g.printf("\t\t\tif e, ok := _%s_jsonNames.LookupFold(name); ok {\n\t\t\t\ti = e.MemberIndex\n\t\t\t}\n", s.Name)
		g.printf("\t\t}\n")
		g.printf("\t\tswitch i {\n")
		for _, m := range s.Members {
			g.printf("\t\tcase %d: // %s\n", m.Index, strconv.Quote(m.Name))
			g.readMember(m, 3)
		}
		g.printf("\t\tdefault:\n")
		g.readUnknown(s, 3)
		g.printf("\t\t}\n")
	}
	g.printf("\t\tif r.HasError() {\n\t\t\treturn\n\t\t}\n")
	g.printf("\t}\n")
	if len(s.OnDeserialized) > 0 {
		g.printf("\tif r.HasError() {\n\t\treturn\n\t}\n")
		g.callbacks(s.OnDeserialized, "OnDeserialized", 1)
	}
	g.printf("}\n\n")
}

func (g *generator) readMember(m *MemberInfo, depth int) {
	ind := strings.Repeat("\t", depth)
	expr := "v." + m.Path
	if m.Direct == utf8json.DirectNone {
		g.printf("%sutf8json.ReadNested(ctx, &%s)\n", ind, expr)
		return
	}
	typ := g.typeString(m.Type)
	g.printf("%sif utf8json.RejectNull[%s](ctx) {\n%s\treturn\n%s}\n", ind, typ, ind, ind)
	call := directCalls[m.Direct]
	read := "r.Read" + call.method + "()"
	if m.Intern {
		read = "ctx.Intern(r.ReadStringSegment())"
	}
	g.printf("%s%s = %s\n", ind, expr, convert(typ, call.basic, m.Type, read))
}

func (g *generator) readUnknown(s *StructInfo, depth int) {
	ind := strings.Repeat("\t", depth)
	e := s.Extension
	if e == nil {
		g.printf("%sr.ReadNextBlock()\n", ind)
		return
	}
	expr := "v." + e.Path
	switch {
	case e.BagPtr:
		elem := e.Type.Underlying().(*types.Pointer).Elem()
		g.printf("%sif %s == nil {\n%s\t%s = new(%s)\n%s}\n", ind, expr, ind, expr, g.typeString(elem), ind)
		g.printf("%sutf8json.ReadExtensionBag(ctx, %s, string(name))\n", ind, expr)
	case e.Bag:
		g.printf("%sutf8json.ReadExtensionBag(ctx, &%s, string(name))\n", ind, expr)
	default:
		target := "&" + expr
		if _, named := types.Unalias(e.Type).(*types.Named); named {
			target = "(*" + g.typeString(e.Type.Underlying()) + ")(&" + expr + ")"
		}
		g.printf("%sutf8json.ReadExtensionMap(ctx, %s, string(name))\n", ind, target)
	}
}

// generateMatch emits the name dispatcher of s: a switch on the name
// length, then comparisons of little-endian 8-byte words, then of the
// remaining tail bytes. The compiler lowers each switch to a bisection.
func (g *generator) generateMatch(s *StructInfo) {
	names := make([]string, len(s.Members))
	for i, m := range s.Members {
		names[i] = m.Name
	}
	tree := utf8json.NewDispatchTree(utf8json.NewNameDictionary(names))

	g.printf("// match returns the index of the member called name, or -1.\n")
	g.printf("func (%s_JSONFormatter) match(name []byte) int {\n", s.Name)
	switch tree.Mode {
	case utf8json.LengthNone:
	case utf8json.LengthSingle:
		g.printf("\tif len(name) == %d {\n", tree.Lengths[0])
		g.emitNode(s, tree.Roots[0], 2)
		g.printf("\t}\n")
	default:
		g.printf("\tswitch len(name) {\n")
		for i, length := range tree.Lengths {
			g.printf("\tcase %d:\n", length)
			g.emitNode(s, tree.Roots[i], 2)
		}
		g.printf("\t}\n")
	}
	g.printf("\treturn -1\n")
	g.printf("}\n\n")
}

func (g *generator) emitNode(s *StructInfo, n *utf8json.DispatchNode, depth int) {
	ind := strings.Repeat("\t", depth)
	if n.Leaf {
		g.printf("%sreturn %d // %s\n", ind, n.Member, strconv.Quote(s.Members[n.Member].Name))
		return
	}
	var expr string
	if n.Word {
		g.binary = true
		expr = fmt.Sprintf("binary.LittleEndian.Uint64(name[%d:])", n.Pos*8)
	} else {
		expr = fmt.Sprintf("name[%d]", n.Pos)
	}
	if len(n.Values) == 1 {
		// a chain of single-valued byte steps collapses into one condition
		conds := []string{expr + " == " + nodeValue(n, 0)}
		child := n.Children[0]
		for !child.Leaf && !child.Word && len(child.Values) == 1 {
			conds = append(conds, fmt.Sprintf("name[%d] == %s", child.Pos, nodeValue(child, 0)))
			child = child.Children[0]
		}
		g.printf("%sif %s {%s\n", ind, strings.Join(conds, " && "), nodeComment(n, 0))
		g.emitNode(s, child, depth+1)
		g.printf("%s}\n", ind)
		return
	}
	g.printf("%sswitch %s {\n", ind, expr)
	for i := range n.Values {
		g.printf("%scase %s:%s\n", ind, nodeValue(n, i), nodeComment(n, i))
		g.emitNode(s, n.Children[i], depth+1)
	}
	g.printf("%s}\n", ind)
}

func nodeValue(n *utf8json.DispatchNode, i int) string {
	v := n.Values[i]
	if n.Word {
		return fmt.Sprintf("0x%016x", v)
	}
	if c := byte(v); c >= 0x20 && c < 0x7f && c != '\'' && c != '\\' {
		return "'" + string(c) + "'"
	}
	return fmt.Sprintf("0x%02x", v)
}

// nodeComment spells out the name bytes a word value stands for.
func nodeComment(n *utf8json.DispatchNode, i int) string {
	if !n.Word {
		return ""
	}
	b := binary.LittleEndian.AppendUint64(nil, n.Values[i])
	for _, c := range b {
		if c < 0x20 || c >= 0x7f {
			return ""
		}
	}
	return " // " + strconv.Quote(string(b))
}
