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

// Command utf8jsongen generates reflection-free utf8json formatters.
//
//	//go:generate utf8jsongen -type=Order,Customer
package main

import (
	"context"
	"flag"
	"log/slog"
	"os"
	"strings"

	"github.com/apache/fory/go/utf8json/codegen"
)

var (
	typeFlag   = flag.String("type", "", "comma-separated list of types to generate code for")
	pkgFlag    = flag.String("pkg", ".", "package pattern to search for types")
	outputFlag = flag.String("output", "", "output file name; default <pkg>_utf8json_gen.go")
	verbose    = flag.Bool("v", false, "log progress")
)

func main() {
	flag.Parse()

	level := slog.LevelWarn
	if *verbose {
		level = slog.LevelInfo
	}
	logger := slog.New(slog.NewTextHandler(os.Stderr, &slog.HandlerOptions{Level: level}))

	cfg := codegen.Config{
		Patterns: strings.Split(*pkgFlag, ","),
		Output:   *outputFlag,
		Logger:   logger,
	}
	if *typeFlag != "" {
		cfg.Types = strings.Split(*typeFlag, ",")
	}
	if err := codegen.Run(context.Background(), cfg); err != nil {
		logger.Error("utf8jsongen failed", "error", err)
		os.Exit(1)
	}
}
