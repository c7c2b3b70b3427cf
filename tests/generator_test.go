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

package tests

import (
	"encoding/json"
	"testing"

	"github.com/apache/fory/go/utf8json"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/tidwall/gjson"
)

func basicSample() BasicTypesStruct {
	return BasicTypesStruct{
		BoolField:    true,
		Int8Field:    -8,
		Int16Field:   1600,
		Int32Field:   -320000,
		Int64Field:   1 << 40,
		IntField:     42,
		Uint8Field:   200,
		Float32Field: 1.5,
		Float64Field: 3.25,
		StringField:  "hello \"generated\"",
	}
}

func TestBasicTypesRoundTrip(t *testing.T) {
	original := basicSample()
	data, err := utf8json.Marshal(original)
	require.NoError(t, err)

	result, err := utf8json.Unmarshal[BasicTypesStruct](data)
	require.NoError(t, err)
	assert.Equal(t, original, result)
}

func TestGeneratedMatchesReflection(t *testing.T) {
	u := utf8json.New()

	basic := basicSample()
	generated, err := utf8json.Serialize(u, basic)
	require.NoError(t, err)
	reflected, err := utf8json.Serialize(u, basicTypesReflect(basic))
	require.NoError(t, err)
	assert.Equal(t, string(reflected), string(generated))

	coll := CollectionTypesStruct{
		IntSlice:     []int32{1, 2, 3},
		StringSlice:  []string{"a", "b"},
		StringIntMap: map[string]int32{"two": 2, "one": 1},
		IntStringMap: map[int32]string{10: "ten"},
	}
	generated, err = utf8json.Serialize(u, coll)
	require.NoError(t, err)
	reflected, err = utf8json.Serialize(u, collectionTypesReflect(coll))
	require.NoError(t, err)
	assert.Equal(t, string(reflected), string(generated))

	opt := OptionalStruct{Active: true, Basic: &basic, Extra: map[string]any{"z": "last", "a": 1.0}}
	generated, err = utf8json.Serialize(u, opt)
	require.NoError(t, err)
	reflected, err = utf8json.Serialize(u, optionalReflect(opt))
	require.NoError(t, err)
	assert.Equal(t, string(reflected), string(generated))
	assert.True(t, json.Valid(generated))
}

func TestGeneratedReadsReflectedOutput(t *testing.T) {
	u := utf8json.New()
	coll := collectionTypesReflect{
		IntSlice:     []int32{7},
		StringIntMap: map[string]int32{"k": 1},
	}
	data, err := utf8json.Serialize(u, coll)
	require.NoError(t, err)

	result, err := utf8json.Deserialize[CollectionTypesStruct](u, data)
	require.NoError(t, err)
	assert.Equal(t, CollectionTypesStruct(coll), result)
}

func TestOptionalStructFirstProperty(t *testing.T) {
	u := utf8json.New(utf8json.WithIgnoreNullValues(true))

	data, err := utf8json.Serialize(u, OptionalStruct{})
	require.NoError(t, err)
	assert.Equal(t, "{}", string(data))

	data, err = utf8json.Serialize(u, OptionalStruct{Active: true})
	require.NoError(t, err)
	assert.Equal(t, `{"active":true}`, string(data))

	data, err = utf8json.Serialize(u, OptionalStruct{Extra: map[string]any{"x": true}})
	require.NoError(t, err)
	assert.Equal(t, `{"x":true}`, string(data))

	data, err = utf8json.Serialize(utf8json.New(), OptionalStruct{Name: "n"})
	require.NoError(t, err)
	assert.Equal(t, `{"name":"n","basic":null}`, string(data))
}

func TestOptionalStructCallbacksAndExtension(t *testing.T) {
	v := &OptionalStruct{Name: "cb"}
	_, err := utf8json.Marshal(v)
	require.NoError(t, err)
	assert.Equal(t, 1, v.serialized)

	result, err := utf8json.Unmarshal[OptionalStruct]([]byte(`{"name":"x","unknown":[1,{"a":null}],"active":true,"basic":{"int_field":9}}`))
	require.NoError(t, err)
	assert.Equal(t, "x", result.Name)
	assert.True(t, result.Active)
	require.NotNil(t, result.Basic)
	assert.Equal(t, 9, result.Basic.IntField)
	require.Contains(t, result.Extra, "unknown")
	assert.Equal(t, []any{1.0, map[string]any{"a": nil}}, result.Extra["unknown"])

	out, err := utf8json.Marshal(result)
	require.NoError(t, err)
	assert.Equal(t, "x", gjson.GetBytes(out, "name").String())
	assert.Equal(t, int64(9), gjson.GetBytes(out, "basic.int_field").Int())
	assert.Equal(t, 2, len(gjson.GetBytes(out, "unknown").Array()))
}

func TestGeneratedCaseInsensitive(t *testing.T) {
	data := []byte(`{"INT_FIELD":5,"String_Field":"s"}`)

	strict, err := utf8json.Deserialize[BasicTypesStruct](utf8json.New(), data)
	require.NoError(t, err)
	assert.Zero(t, strict.IntField)

	folded, err := utf8json.Deserialize[BasicTypesStruct](utf8json.New(utf8json.WithCaseInsensitiveNames(true)), data)
	require.NoError(t, err)
	assert.Equal(t, 5, folded.IntField)
	assert.Equal(t, "s", folded.StringField)
}

func TestGeneratedRejectsNull(t *testing.T) {
	_, err := utf8json.Unmarshal[BasicTypesStruct]([]byte(`null`))
	assert.ErrorIs(t, err, utf8json.ErrUnexpectedNull)

	_, err = utf8json.Unmarshal[BasicTypesStruct]([]byte(`{"int_field":null}`))
	assert.ErrorIs(t, err, utf8json.ErrUnexpectedNull)

	ptr, err := utf8json.Unmarshal[*BasicTypesStruct]([]byte(`null`))
	require.NoError(t, err)
	assert.Nil(t, ptr)
}

func TestGeneratedNameMutations(t *testing.T) {
	u := utf8json.New()
	names := []string{"bool_field", "int8_field", "int16_field", "int32_field", "int64_field",
		"int_field", "uint8_field", "float32_field", "float64_field", "string_field"}
	for _, name := range names {
		for i := 0; i < len(name); i++ {
			mutated := []byte(name)
			mutated[i] ^= 0x01
			data := []byte(`{"` + string(mutated) + `":1}`)
			v, err := utf8json.Deserialize[BasicTypesStruct](u, data)
			require.NoError(t, err, string(mutated))
			assert.Zero(t, v, string(mutated))
		}
	}
}
