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
	"go/ast"
	"go/importer"
	"go/parser"
	"go/token"
	"go/types"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func checkSource(t *testing.T, src string) (*types.Package, []*ast.File) {
	t.Helper()
	fset := token.NewFileSet()
	file, err := parser.ParseFile(fset, "models.go", src, parser.ParseComments)
	require.NoError(t, err)
	conf := types.Config{Importer: importer.Default()}
	pkg, err := conf.Check("example.com/models", fset, []*ast.File{file}, nil)
	require.NoError(t, err)
	return pkg, []*ast.File{file}
}

func generate(t *testing.T, src string, names ...string) string {
	t.Helper()
	pkg, _ := checkSource(t, src)
	out, err := Generate(pkg, names)
	require.NoError(t, err)
	_, err = parser.ParseFile(token.NewFileSet(), "gen.go", out, 0)
	require.NoError(t, err, string(out))
	return string(out)
}

const orderSource = `package models

type Level int32

type Order struct {
	ID       int64             ` + "`json:\"id\"`" + `
	Customer string            ` + "`json:\"customer,intern\"`" + `
	Paid     bool              ` + "`json:\"paid\"`" + `
	Level    Level             ` + "`json:\"level\"`" + `
	Note     string            ` + "`json:\"note,omitempty\"`" + `
	Lines    []string          ` + "`json:\"lines\"`" + `
	Extra    map[string]any    ` + "`json:\",extension\"`" + `
	internal int
}

func (o *Order) OnDeserialized() {}
`

func TestGenerateOrder(t *testing.T) {
	out := generate(t, orderSource, "Order")

	assert.Contains(t, out, "// Code generated by utf8jsongen. DO NOT EDIT.")
	assert.Contains(t, out, "utf8json.RegisterGeneratedFormatter[Order](Order_JSONFormatter{})")
	assert.Contains(t, out, `w.WriteRawString("{\"id\":")`)
	assert.Contains(t, out, `w.WriteRawString(",\"customer\":")`)
	assert.Contains(t, out, `w.WriteRawString(",\"paid\":true")`)
	assert.Contains(t, out, `w.WriteRawString(",\"paid\":false")`)
	assert.Contains(t, out, "w.WriteInt32(int32(v.Level))")
	assert.Contains(t, out, `if v.Note != "" {`)
	assert.Contains(t, out, "if !ignoreNull || v.Lines != nil {")
	assert.Contains(t, out, "utf8json.WriteExtensionMap(ctx, v.Extra, false)")
	assert.Contains(t, out, "utf8json.ReadExtensionMap(ctx, &v.Extra, string(name))")
	assert.Contains(t, out, "v.Customer = ctx.Intern(r.ReadStringSegment())")
	assert.Contains(t, out, "v.Level = Level(r.ReadInt32())")
	assert.Contains(t, out, "v.OnDeserialized()")
	assert.NotContains(t, out, "OnSerializing")
	assert.NotContains(t, out, "internal")
	// "customer" is exactly one word long
	assert.Contains(t, out, "binary.LittleEndian.Uint64(name[0:])")
	assert.Contains(t, out, `// "customer"`)
}

func TestMemberOrder(t *testing.T) {
	pkg, _ := checkSource(t, orderSource)
	named := pkg.Scope().Lookup("Order").Type().(*types.Named)
	s, err := extractStructInfo(named)
	require.NoError(t, err)

	var names []string
	for _, m := range s.Members {
		names = append(names, m.Name)
	}
	assert.Equal(t, []string{"id", "customer", "paid", "level", "note", "lines"}, names)
	assert.Equal(t, 4, s.Head)
	require.NotNil(t, s.Extension)
	assert.False(t, s.Extension.Bag)
	assert.Equal(t, []string{"v"}, s.OnDeserialized)
	assert.Empty(t, s.OnSerialized)
}

func TestGenerateDynamicFirst(t *testing.T) {
	src := `package models

type Patch struct {
	Name  *string ` + "`json:\"name\"`" + `
	Ready bool    ` + "`json:\"ready,omitempty\"`" + `
}
`
	out := generate(t, src, "Patch")
	assert.Contains(t, out, "first := true")
	assert.Contains(t, out, "case first && v.Ready:")
	assert.Contains(t, out, `w.WriteRawString("{\"ready\":true")`)
	assert.Contains(t, out, "if first {\n\t\tw.WriteBeginObject()\n\t}")
	assert.Contains(t, out, "utf8json.WriteNested(ctx, &v.Name)")
}

func TestGenerateEmbedded(t *testing.T) {
	src := `package models

type Base struct {
	ID   int    ` + "`json:\"id\"`" + `
	Kind string ` + "`json:\"kind\"`" + `
}

type Item struct {
	Base
	Kind string ` + "`json:\"kind\"`" + `
}
`
	pkg, _ := checkSource(t, src)
	s, err := extractStructInfo(pkg.Scope().Lookup("Item").Type().(*types.Named))
	require.NoError(t, err)
	require.Len(t, s.Members, 2)
	assert.Equal(t, "Base.ID", s.Members[0].Path)
	// the shallower field hides the promoted one
	assert.Equal(t, "Kind", s.Members[1].Path)

	out := generate(t, src, "Item")
	assert.Contains(t, out, "w.WriteInt(v.Base.ID)")
}

func TestGenerateEmbeddedCallbacks(t *testing.T) {
	src := `package models

type Base struct {
	ID int ` + "`json:\"id\"`" + `
}

func (b *Base) OnSerializing()  {}
func (b Base) OnDeserialized()  {}

type Audit struct {
	By string ` + "`json:\"by\"`" + `
}

func (a *Audit) OnSerializing() {}

type Doc struct {
	Base
	Audit
	Title string ` + "`json:\"title\"`" + `
}

func (d *Doc) OnSerializing() {}
`
	pkg, _ := checkSource(t, src)
	s, err := extractStructInfo(pkg.Scope().Lookup("Doc").Type().(*types.Named))
	require.NoError(t, err)
	assert.Equal(t, []string{"v.Base", "v.Audit", "v"}, s.OnSerializing)
	// promoted from Base only, so it runs once through the embedded field
	assert.Equal(t, []string{"v.Base"}, s.OnDeserialized)
	assert.Empty(t, s.OnDeserializing)

	out := generate(t, src, "Doc")
	assert.Contains(t, out, "v.Base.OnSerializing()\n\tv.Audit.OnSerializing()\n\tv.OnSerializing()")
	assert.Contains(t, out, "v.Base.OnDeserialized()")
	assert.NotContains(t, out, "\tv.OnDeserialized()")
}

func TestGenerateNamedExtension(t *testing.T) {
	src := `package models

type Extra map[string]int

type Doc struct {
	Title string ` + "`json:\"title\"`" + `
	Rest  Extra  ` + "`json:\",extension\"`" + `
}
`
	out := generate(t, src, "Doc")
	assert.Contains(t, out, "utf8json.ReadExtensionMap(ctx, (*map[string]int)(&v.Rest), string(name))")
	assert.Contains(t, out, "utf8json.WriteExtensionMap(ctx, map[string]int(v.Rest), false)")
}

func TestGenerateNoMembers(t *testing.T) {
	src := `package models

type Empty struct{}
`
	out := generate(t, src, "Empty")
	assert.Contains(t, out, `w.WriteRawString("{}")`)
	assert.Contains(t, out, "r.ReadNextBlock()")
	assert.NotContains(t, out, "match(")
	assert.NotContains(t, out, "encoding/binary")
}

func TestGenerateDispatchModes(t *testing.T) {
	src := `package models

type Point struct {
	X int ` + "`json:\"x\"`" + `
	Y int ` + "`json:\"y\"`" + `
}

type Mixed struct {
	A  int ` + "`json:\"a\"`" + `
	BB int ` + "`json:\"bb\"`" + `
	CC int ` + "`json:\"ccc\"`" + `
}
`
	out := generate(t, src, "Point", "Mixed")
	assert.Contains(t, out, "if len(name) == 1 {")
	assert.Contains(t, out, "case 'x':")
	assert.Contains(t, out, "switch len(name) {")
	assert.Contains(t, out, "case 3:")
}

func TestGenerateRejects(t *testing.T) {
	src := `package models

type Custom struct {
	At int64 ` + "`utf8json:\"formatter=unixtime\"`" + `
}

type Props struct{}

func (p *Props) JSONProperties() []string { return nil }

type Chan struct {
	C chan int
}
`
	pkg, _ := checkSource(t, src)
	for _, name := range []string{"Custom", "Props", "Chan"} {
		_, err := Generate(pkg, []string{name})
		assert.Error(t, err, name)
	}
	_, err := Generate(pkg, []string{"Missing"})
	assert.Error(t, err)
}

func TestDirectiveTypes(t *testing.T) {
	src := `package models

//utf8json:generate
type A struct{}

type B struct{}

type (
	//utf8json:generate
	C struct{}
	D struct{}
)
`
	_, files := checkSource(t, src)
	assert.Equal(t, []string{"A", "C"}, directiveTypes(files))
}
