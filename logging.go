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
	"context"
	"log/slog"
	"reflect"
)

type discardHandler struct{}

func (discardHandler) Enabled(context.Context, slog.Level) bool  { return false }
func (discardHandler) Handle(context.Context, slog.Record) error { return nil }
func (h discardHandler) WithAttrs([]slog.Attr) slog.Handler      { return h }
func (h discardHandler) WithGroup(string) slog.Handler           { return h }

var discardLogger = slog.New(discardHandler{})

func loggerOrDiscard(l *slog.Logger) *slog.Logger {
	if l == nil {
		return discardLogger
	}
	return l
}

// buildLogger wraps the configured logger for formatter construction.
// Nothing on the per-call path logs.
type buildLogger struct {
	l *slog.Logger
}

func (b buildLogger) enabled() bool {
	return b.l.Enabled(context.Background(), slog.LevelDebug)
}

func (b buildLogger) analyzed(a *TypeAnalysis) {
	if !b.enabled() {
		return
	}
	b.l.Debug("utf8json: analyzed type",
		"type", a.Type.String(),
		"fingerprint", a.Fingerprint,
		"members", a.MemberCount(),
		"extension", a.ExtensionData != nil,
		"deferred", a.Constructor.Deferred(),
	)
}

func (b buildLogger) dictionary(t reflect.Type, d *NameDictionary) {
	if !b.enabled() {
		return
	}
	b.l.Debug("utf8json: built name dictionary",
		"type", t.String(),
		"entries", d.Len(),
		"lengths", d.LengthVariations(),
		"min", d.MinLength(),
		"max", d.MaxLength(),
	)
}

func (b buildLogger) failed(t reflect.Type, err error) {
	b.l.Debug("utf8json: formatter build failed", "type", t.String(), "error", err)
}
