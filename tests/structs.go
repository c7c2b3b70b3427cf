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

// Package tests holds fixtures for the generated formatters. The
// *_utf8json_gen.go file is produced by utf8jsongen from this file.
package tests

//go:generate go run ../cmd/utf8jsongen -type=BasicTypesStruct,CollectionTypesStruct,OptionalStruct

// BasicTypesStruct demonstrates basic data types serialization
type BasicTypesStruct struct {
	BoolField    bool    `json:"bool_field"`
	Int8Field    int8    `json:"int8_field"`
	Int16Field   int16   `json:"int16_field"`
	Int32Field   int32   `json:"int32_field"`
	Int64Field   int64   `json:"int64_field"`
	IntField     int     `json:"int_field"`
	Uint8Field   uint8   `json:"uint8_field"`
	Float32Field float32 `json:"float32_field"`
	Float64Field float64 `json:"float64_field"`
	StringField  string  `json:"string_field"`
}

// CollectionTypesStruct demonstrates slice and map types serialization
type CollectionTypesStruct struct {
	IntSlice     []int32          `json:"int_slice"`
	StringSlice  []string         `json:"string_slice"`
	StringIntMap map[string]int32 `json:"string_int_map"`
	IntStringMap map[int32]string `json:"int_string_map"`
}

// OptionalStruct has no unconditional members, so the first emitted
// property is only known at runtime.
type OptionalStruct struct {
	Name   string            `json:"name,omitempty"`
	Active bool              `json:"active,omitempty"`
	Basic  *BasicTypesStruct `json:"basic"`
	Extra  map[string]any    `json:",extension"`

	serialized int
}

func (o *OptionalStruct) OnSerialized() { o.serialized++ }

// The reflective twins share fields and tags but have no generated
// formatter, so both paths can be compared on the same values.
type (
	basicTypesReflect      BasicTypesStruct
	collectionTypesReflect CollectionTypesStruct
	optionalReflect        OptionalStruct
)
