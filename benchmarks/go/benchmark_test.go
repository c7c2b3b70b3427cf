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

package benchmark

import (
	"encoding/json"
	"reflect"
	"testing"

	"github.com/apache/fory/go/utf8json"
	"github.com/bytedance/sonic"
	gojson "github.com/goccy/go-json"
	jsoniter "github.com/json-iterator/go"
	segmentjson "github.com/segmentio/encoding/json"
	"github.com/vmihailenco/msgpack/v5"
)

// codec is one serializer under comparison.
type codec struct {
	name      string
	marshal   func(v any) ([]byte, error)
	unmarshal func(data []byte, v any) error
}

var engine = utf8json.New()

var codecs = []codec{
	{"UTF8JSON", engine.Marshal, engine.Unmarshal},
	{"EncodingJSON", json.Marshal, json.Unmarshal},
	{"Sonic", sonic.Marshal, sonic.Unmarshal},
	{"GoJSON", gojson.Marshal, gojson.Unmarshal},
	{"Jsoniter", jsoniter.ConfigFastest.Marshal, jsoniter.ConfigFastest.Unmarshal},
	{"Segment", segmentjson.Marshal, segmentjson.Unmarshal},
	{"Msgpack", msgpack.Marshal, msgpack.Unmarshal},
}

type payload struct {
	name  string
	value any
}

func payloads() []payload {
	return []payload{
		{"Struct", CreateNumericStruct()},
		{"Sample", CreateSample()},
		{"MediaContent", CreateMediaContent()},
		{"StructList", CreateStructList()},
		{"SampleList", CreateSampleList()},
		{"MediaContentList", CreateMediaContentList()},
	}
}

func init() {
	var values []any
	for _, p := range payloads() {
		values = append(values, p.value)
	}
	if err := engine.Prepare(values...); err != nil {
		panic(err)
	}
}

func BenchmarkSerialize(b *testing.B) {
	for _, p := range payloads() {
		for _, c := range codecs {
			b.Run(p.name+"/"+c.name, func(b *testing.B) {
				data, err := c.marshal(p.value)
				if err != nil {
					b.Fatal(err)
				}
				b.SetBytes(int64(len(data)))
				b.ReportAllocs()
				b.ResetTimer()
				for i := 0; i < b.N; i++ {
					if _, err := c.marshal(p.value); err != nil {
						b.Fatal(err)
					}
				}
			})
		}
	}
}

func BenchmarkDeserialize(b *testing.B) {
	for _, p := range payloads() {
		t := reflect.TypeOf(p.value)
		for _, c := range codecs {
			b.Run(p.name+"/"+c.name, func(b *testing.B) {
				data, err := c.marshal(p.value)
				if err != nil {
					b.Fatal(err)
				}
				b.SetBytes(int64(len(data)))
				b.ReportAllocs()
				b.ResetTimer()
				for i := 0; i < b.N; i++ {
					if err := c.unmarshal(data, reflect.New(t).Interface()); err != nil {
						b.Fatal(err)
					}
				}
			})
		}
	}
}

// BenchmarkTyped measures the generic entry points, which skip the
// interface boxing of Marshal and Unmarshal.
func BenchmarkTyped(b *testing.B) {
	media := CreateMediaContent()
	data, err := utf8json.Serialize(engine, media)
	if err != nil {
		b.Fatal(err)
	}
	b.Run("Serialize", func(b *testing.B) {
		b.ReportAllocs()
		for i := 0; i < b.N; i++ {
			if _, err := utf8json.Serialize(engine, media); err != nil {
				b.Fatal(err)
			}
		}
	})
	b.Run("Deserialize", func(b *testing.B) {
		b.ReportAllocs()
		for i := 0; i < b.N; i++ {
			if _, err := utf8json.Deserialize[MediaContent](engine, data); err != nil {
				b.Fatal(err)
			}
		}
	})
}

func TestCodecsAgree(t *testing.T) {
	for _, p := range payloads() {
		typ := reflect.TypeOf(p.value)
		data, err := engine.Marshal(p.value)
		if err != nil {
			t.Fatalf("%s: %v", p.name, err)
		}
		for _, c := range codecs[1:6] {
			decoded := reflect.New(typ)
			if err := c.unmarshal(data, decoded.Interface()); err != nil {
				t.Fatalf("%s/%s: %v", p.name, c.name, err)
			}
			if !reflect.DeepEqual(p.value, decoded.Elem().Interface()) {
				t.Fatalf("%s/%s: decoded value differs", p.name, c.name)
			}
		}
	}
}
