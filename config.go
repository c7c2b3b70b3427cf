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

import "log/slog"

const defaultMaxDepth = 100

// Config holds configuration options for UTF8JSON instances.
type Config struct {
	// IgnoreNullValues drops nil reference members from serialized objects.
	IgnoreNullValues bool
	// MaxDepth bounds nesting through the verified entry points.
	MaxDepth int
	// CaseInsensitiveNames makes unmatched property names fall back to a
	// case-folded comparison against every member name.
	CaseInsensitiveNames bool
	// Logger receives formatter build diagnostics at debug level. Nil discards them.
	Logger *slog.Logger
}

func defaultConfig() Config {
	return Config{
		MaxDepth: defaultMaxDepth,
	}
}

// Option is a function that configures a UTF8JSON instance.
type Option func(*Config)

// WithIgnoreNullValues sets whether nil reference members are omitted.
func WithIgnoreNullValues(enabled bool) Option {
	return func(c *Config) {
		c.IgnoreNullValues = enabled
	}
}

// WithMaxDepth sets the maximum nesting depth. Values <= 0 restore the default.
func WithMaxDepth(depth int) Option {
	return func(c *Config) {
		if depth <= 0 {
			depth = defaultMaxDepth
		}
		c.MaxDepth = depth
	}
}

// WithCaseInsensitiveNames enables the case-folded fallback for property names.
func WithCaseInsensitiveNames(enabled bool) Option {
	return func(c *Config) {
		c.CaseInsensitiveNames = enabled
	}
}

// WithLogger sets the logger used for build diagnostics.
func WithLogger(logger *slog.Logger) Option {
	return func(c *Config) {
		c.Logger = logger
	}
}

// Options are the per-call settings consulted by formatters at runtime.
type Options struct {
	IgnoreNullValues     bool
	CaseInsensitiveNames bool
	MaxDepth             int
}

func (c *Config) callOptions() Options {
	return Options{
		IgnoreNullValues:     c.IgnoreNullValues,
		CaseInsensitiveNames: c.CaseInsensitiveNames,
		MaxDepth:             c.MaxDepth,
	}
}
