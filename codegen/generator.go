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

// Package codegen generates reflection-free formatters for struct types.
// The generated code follows the same member model, literal prefixes and
// name dispatch as the reflective formatters, and registers itself with
// utf8json.RegisterGeneratedFormatter from an init function.
package codegen

import (
	"bytes"
	"context"
	"errors"
	"fmt"
	"go/ast"
	"go/format"
	"go/types"
	"log/slog"
	"os"
	"path/filepath"
	"runtime"
	"slices"
	"sort"
	"strconv"
	"strings"

	"golang.org/x/sync/errgroup"
	"golang.org/x/tools/go/packages"
)

const (
	runtimeImport = "github.com/apache/fory/go/utf8json"
	// generateDirective marks a type for generation when no type list is given.
	generateDirective = "//utf8json:generate"
	outputSuffix      = "_utf8json_gen.go"
)

// Config selects the packages and types to generate code for.
type Config struct {
	// Patterns are package patterns as accepted by go list.
	Patterns []string
	// Types restricts generation to these type names. When empty, types
	// carrying the //utf8json:generate directive are selected.
	Types []string
	// Output overrides the output file. Only valid for a single package.
	Output string
	Logger *slog.Logger
}

// Run loads the configured packages and writes one generated file per
// package that has selected types.
func Run(ctx context.Context, cfg Config) error {
	if len(cfg.Patterns) == 0 {
		cfg.Patterns = []string{"."}
	}
	logger := cfg.Logger
	if logger == nil {
		logger = slog.Default()
	}
	pcfg := &packages.Config{
		Context: ctx,
		Mode:    packages.NeedTypes | packages.NeedSyntax | packages.NeedName | packages.NeedFiles | packages.NeedTypesInfo,
	}
	pkgs, err := packages.Load(pcfg, cfg.Patterns...)
	if err != nil {
		return fmt.Errorf("loading packages: %w", err)
	}
	if len(pkgs) == 0 {
		return errors.New("no packages found")
	}
	if packages.PrintErrors(pkgs) > 0 {
		return errors.New("errors in packages")
	}
	if cfg.Output != "" && len(pkgs) > 1 {
		return fmt.Errorf("-output needs a single package, got %d", len(pkgs))
	}

	g, _ := errgroup.WithContext(ctx)
	g.SetLimit(runtime.GOMAXPROCS(0))
	for _, pkg := range pkgs {
		g.Go(func() error {
			if err := processPackage(pkg, cfg, logger); err != nil {
				return fmt.Errorf("processing package %s: %w", pkg.PkgPath, err)
			}
			return nil
		})
	}
	return g.Wait()
}

func processPackage(pkg *packages.Package, cfg Config, logger *slog.Logger) error {
	if pkg.Types == nil {
		return fmt.Errorf("package %s has no type information", pkg.PkgPath)
	}
	names := cfg.Types
	if len(names) == 0 {
		names = directiveTypes(pkg.Syntax)
	}
	if len(names) == 0 {
		return nil
	}
	src, err := Generate(pkg.Types, names)
	if err != nil {
		return err
	}
	out := cfg.Output
	if out == "" {
		if len(pkg.GoFiles) == 0 {
			return fmt.Errorf("package %s has no files", pkg.PkgPath)
		}
		out = filepath.Join(filepath.Dir(pkg.GoFiles[0]), pkg.Name+outputSuffix)
	}
	if err := os.WriteFile(out, src, 0o644); err != nil {
		return fmt.Errorf("writing %s: %w", out, err)
	}
	logger.Info("utf8jsongen: wrote formatters", "package", pkg.PkgPath, "file", out, "types", names)
	return nil
}

// directiveTypes returns the types whose declaration carries the
// //utf8json:generate directive, in source order.
func directiveTypes(files []*ast.File) []string {
	var names []string
	for _, file := range files {
		for _, decl := range file.Decls {
			gen, ok := decl.(*ast.GenDecl)
			if !ok {
				continue
			}
			for _, spec := range gen.Specs {
				ts, ok := spec.(*ast.TypeSpec)
				if !ok {
					continue
				}
				if hasDirective(ts.Doc) || (len(gen.Specs) == 1 && hasDirective(gen.Doc)) {
					names = append(names, ts.Name.Name)
				}
			}
		}
	}
	return names
}

func hasDirective(doc *ast.CommentGroup) bool {
	if doc == nil {
		return false
	}
	for _, c := range doc.List {
		if strings.TrimSpace(c.Text) == generateDirective {
			return true
		}
	}
	return false
}

// Generate returns the formatted source of the generated file for the named
// struct types of pkg.
func Generate(pkg *types.Package, typeNames []string) ([]byte, error) {
	var structs []*StructInfo
	for _, name := range typeNames {
		name = strings.TrimSpace(name)
		obj := pkg.Scope().Lookup(name)
		if obj == nil {
			return nil, fmt.Errorf("type %s not found in %s", name, pkg.Path())
		}
		named, ok := types.Unalias(obj.Type()).(*types.Named)
		if !ok {
			return nil, fmt.Errorf("%s is not a named type", name)
		}
		s, err := extractStructInfo(named)
		if err != nil {
			return nil, fmt.Errorf("extracting struct info for %s: %w", name, err)
		}
		structs = append(structs, s)
	}
	if len(structs) == 0 {
		return nil, errors.New("no types to generate")
	}
	g := newGenerator(pkg)
	return g.generateFile(structs)
}

type generator struct {
	pkg     *types.Package
	buf     bytes.Buffer
	imports map[string]string
	binary  bool
}

func newGenerator(pkg *types.Package) *generator {
	return &generator{pkg: pkg, imports: make(map[string]string)}
}

func (g *generator) printf(format string, args ...any) {
	fmt.Fprintf(&g.buf, format, args...)
}

// qualifier records every foreign package a generated type expression
// refers to.
func (g *generator) qualifier(p *types.Package) string {
	if p == g.pkg {
		return ""
	}
	g.imports[p.Path()] = p.Name()
	return p.Name()
}

func (g *generator) typeString(t types.Type) string {
	return types.TypeString(t, g.qualifier)
}

func (g *generator) generateFile(structs []*StructInfo) ([]byte, error) {
	for _, s := range structs {
		g.generateType(s)
	}
	body := g.buf.Bytes()

	var out bytes.Buffer
	fmt.Fprintf(&out, "// Code generated by utf8jsongen. DO NOT EDIT.\n\n")
	fmt.Fprintf(&out, "package %s\n\n", g.pkg.Name())
	fmt.Fprintf(&out, "import (\n")
	if g.binary {
		fmt.Fprintf(&out, "\t\"encoding/binary\"\n")
	}
	paths := make([]string, 0, len(g.imports))
	for path := range g.imports {
		if path != runtimeImport {
			paths = append(paths, path)
		}
	}
	sort.Strings(paths)
	for _, path := range paths {
		fmt.Fprintf(&out, "\t%s\n", strconv.Quote(path))
	}
	fmt.Fprintf(&out, "\n\t%s\n)\n\n", strconv.Quote(runtimeImport))

	fmt.Fprintf(&out, "func init() {\n")
	for _, s := range structs {
		fmt.Fprintf(&out, "\tutf8json.RegisterGeneratedFormatter[%s](%s_JSONFormatter{})\n", s.Name, s.Name)
	}
	fmt.Fprintf(&out, "}\n\n")
	out.Write(body)

	src, err := format.Source(out.Bytes())
	if err != nil {
		return nil, fmt.Errorf("formatting generated code: %w", err)
	}
	return src, nil
}

func (g *generator) generateType(s *StructInfo) {
	g.printf("// %s_JSONFormatter writes and reads %s without reflection.\n", s.Name, s.Name)
	g.printf("type %s_JSONFormatter struct{}\n\n", s.Name)
	g.printf("var _ utf8json.TypedFormatter[%s] = %s_JSONFormatter{}\n\n", s.Name, s.Name)
	if len(s.Members) > 0 {
		names := make([]string, len(s.Members))
		for i, m := range s.Members {
			names[i] = strconv.Quote(m.Name)
		}
		g.printf("var _%s_jsonNames = utf8json.NewNameDictionary([]string{%s})\n\n", s.Name, strings.Join(names, ", "))
	}
	g.generateWriteTyped(s)
	g.generateReadTyped(s)
	if len(s.Members) > 0 {
		g.generateMatch(s)
	}
}

func hasReference(members []*MemberInfo) bool {
	return slices.ContainsFunc(members, func(m *MemberInfo) bool { return m.Reference })
}
