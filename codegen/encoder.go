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
	"go/types"
	"strconv"
	"strings"

	"github.com/apache/fory/go/utf8json"
)

// directCalls holds the Writer and Reader method suffix and Go type of a direct kind.
var directCalls = map[utf8json.DirectKind]struct {
	method string
	basic  types.BasicKind
}{
	utf8json.DirectBool:    {"Bool", types.Bool},
	utf8json.DirectInt8:    {"Int8", types.Int8},
	utf8json.DirectUint8:   {"Uint8", types.Uint8},
	utf8json.DirectInt16:   {"Int16", types.Int16},
	utf8json.DirectUint16:  {"Uint16", types.Uint16},
	utf8json.DirectInt32:   {"Int32", types.Int32},
	utf8json.DirectUint32:  {"Uint32", types.Uint32},
	utf8json.DirectInt64:   {"Int64", types.Int64},
	utf8json.DirectUint64:  {"Uint64", types.Uint64},
	utf8json.DirectFloat32: {"Float32", types.Float32},
	utf8json.DirectFloat64: {"Float64", types.Float64},
	utf8json.DirectChar:    {"Char", types.Int32},
	utf8json.DirectString:  {"String", types.String},
	utf8json.DirectInt:     {"Int", types.Int},
	utf8json.DirectUint:    {"Uint", types.Uint},
}

// convert wraps expr in a conversion to target unless t already is target.
func convert(target string, basic types.BasicKind, t types.Type, expr string) string {
	if types.Identical(t, types.Typ[basic]) {
		return expr
	}
	return target + "(" + expr + ")"
}

func literal(s string) string {
	return strconv.Quote(s)
}

// prefixes returns the `{"name":` and `,"name":` literals of m.
func prefixes(m *MemberInfo) (first, next string) {
	quoted := utf8json.QuoteName(m.Name)
	return "{" + quoted + ":", "," + quoted + ":"
}

// generateWriteTyped generates the strongly-typed write method.
func (g *generator) generateWriteTyped(s *StructInfo) {
	g.printf("// WriteTyped writes v as a JSON object.\n")
	g.printf("func (%s_JSONFormatter) WriteTyped(ctx *utf8json.WriteContext, v *%s) {\n", s.Name, s.Name)
	g.callbacks(s.OnSerializing, "OnSerializing", 1)
	g.printf("\tw := ctx.Writer()\n")
	for i, m := range s.Members[:s.Head] {
		first, next := prefixes(m)
		if i == 0 {
			g.writePrefixed(m, first, 1)
		} else {
			g.writePrefixed(m, next, 1)
		}
	}
	tail := s.Members[s.Head:]
	dynamic := s.Head == 0 && (len(tail) > 0 || s.Extension != nil)
	if dynamic {
		g.printf("\tfirst := true\n")
	}
	if hasReference(tail) {
		g.printf("\tignoreNull := ctx.IgnoreNullValues()\n")
	}
	for _, m := range tail {
		g.writeTailMember(m, dynamic)
	}
	if s.Extension != nil {
		g.writeExtension(s.Extension, dynamic)
	}
	switch {
	case dynamic:
		g.printf("\tif first {\n\t\tw.WriteBeginObject()\n\t}\n\tw.WriteEndObject()\n")
	case s.Head > 0:
		g.printf("\tw.WriteEndObject()\n")
	default:
		g.printf("\tw.WriteRawString(\"{}\")\n")
	}
	g.callbacks(s.OnSerialized, "OnSerialized", 1)
	g.printf("}\n\n")
}

func (g *generator) callbacks(receivers []string, name string, depth int) {
	ind := strings.Repeat("\t", depth)
	for _, recv := range receivers {
		g.printf("%s%s.%s()\n", ind, recv, name)
	}
}

// writePrefixed emits a member whose prefix is known statically. Bool
// members write the prefix and value as one literal.
func (g *generator) writePrefixed(m *MemberInfo, prefix string, depth int) {
	ind := strings.Repeat("\t", depth)
	expr := "v." + m.Path
	if m.Direct == utf8json.DirectBool {
		g.printf("%sif %s {\n%s\tw.WriteRawString(%s)\n%s} else {\n%s\tw.WriteRawString(%s)\n%s}\n",
			ind, expr, ind, literal(prefix+"true"), ind, ind, literal(prefix+"false"), ind)
		return
	}
	g.printf("%sw.WriteRawString(%s)\n", ind, literal(prefix))
	g.writeValue(m, depth)
}

func (g *generator) writeValue(m *MemberInfo, depth int) {
	ind := strings.Repeat("\t", depth)
	expr := "v." + m.Path
	if m.Direct == utf8json.DirectNone {
		g.printf("%sutf8json.WriteNested(ctx, &%s)\n", ind, expr)
		return
	}
	call := directCalls[m.Direct]
	target := types.Typ[call.basic].Name()
	if m.Direct == utf8json.DirectChar {
		target = "rune"
	}
	g.printf("%sw.Write%s(%s)\n", ind, call.method, convert(target, call.basic, m.Type, expr))
}

// writeTailMember emits a member written after the unconditional ones: its
// predicate and null elision guard, then the prefix chosen by the current
// first-property state.
func (g *generator) writeTailMember(m *MemberInfo, dynamic bool) {
	expr := "v." + m.Path
	var conds []string
	if m.ShouldFunc {
		conds = append(conds, "v.ShouldSerialize"+m.GoName+"()")
	}
	if m.OmitEmpty {
		if c := nonEmptyExpr(m.Type, expr); c != "" {
			conds = append(conds, c)
		}
	}
	if m.Reference {
		c := "!ignoreNull || " + expr + " != nil"
		if len(conds) > 0 {
			c = "(" + c + ")"
		}
		conds = append(conds, c)
	}
	depth := 1
	if len(conds) > 0 {
		g.printf("\tif %s {\n", strings.Join(conds, " && "))
		depth = 2
	}
	ind := strings.Repeat("\t", depth)
	first, next := prefixes(m)
	switch {
	case !dynamic:
		g.writePrefixed(m, next, depth)
	case m.Direct == utf8json.DirectBool:
		g.printf("%sswitch {\n", ind)
		g.printf("%scase first && %s:\n%s\tw.WriteRawString(%s)\n", ind, expr, ind, literal(first+"true"))
		g.printf("%scase first:\n%s\tw.WriteRawString(%s)\n", ind, ind, literal(first+"false"))
		g.printf("%scase %s:\n%s\tw.WriteRawString(%s)\n", ind, expr, ind, literal(next+"true"))
		g.printf("%sdefault:\n%s\tw.WriteRawString(%s)\n", ind, ind, literal(next+"false"))
		g.printf("%s}\n", ind)
		g.printf("%sfirst = false\n", ind)
	default:
		g.printf("%sif first {\n%s\tw.WriteRawString(%s)\n%s} else {\n%s\tw.WriteRawString(%s)\n%s}\n",
			ind, ind, literal(first), ind, ind, literal(next), ind)
		g.printf("%sfirst = false\n", ind)
		g.writeValue(m, depth)
	}
	if m.Direct == utf8json.DirectNone {
		g.printf("%sif ctx.HasError() {\n%s\treturn\n%s}\n", ind, ind, ind)
	}
	if len(conds) > 0 {
		g.printf("\t}\n")
	}
}

func (g *generator) writeExtension(e *ExtensionInfo, dynamic bool) {
	expr := "v." + e.Path
	state := "false"
	assign := ""
	if dynamic {
		state = "first"
		assign = "first = "
	}
	switch {
	case e.BagPtr:
		g.printf("\tif %s != nil {\n\t\t%sutf8json.WriteExtensionBag(ctx, %s, %s)\n\t}\n", expr, assign, expr, state)
	case e.Bag:
		g.printf("\t%sutf8json.WriteExtensionBag(ctx, &%s, %s)\n", assign, expr, state)
	default:
		if _, named := types.Unalias(e.Type).(*types.Named); named {
			expr = g.typeString(e.Type.Underlying()) + "(" + expr + ")"
		}
		g.printf("\t%sutf8json.WriteExtensionMap(ctx, %s, %s)\n", assign, expr, state)
	}
}
