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

package bfloat16_test

import (
	"encoding/json"
	"math"
	"testing"

	"github.com/apache/fory/go/utf8json/bfloat16"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestFromFloat32(t *testing.T) {
	tests := []struct {
		name string
		in   float32
		bits uint16
	}{
		{"zero", 0, 0x0000},
		{"negative zero", float32(math.Copysign(0, -1)), 0x8000},
		{"one", 1, 0x3F80},
		{"minus one", -1, 0xBF80},
		{"one and a half", 1.5, 0x3FC0},
		{"inf", float32(math.Inf(1)), 0x7F80},
		{"negative inf", float32(math.Inf(-1)), 0xFF80},
		{"nan", float32(math.NaN()), 0x7FC0},
		// half an ulp above 1 rounds to the even neighbour below
		{"tie down", math.Float32frombits(0x3F808000), 0x3F80},
		{"above tie", math.Float32frombits(0x3F80C000), 0x3F81},
		{"exact", math.Float32frombits(0x3F810000), 0x3F81},
		{"tie up", math.Float32frombits(0x3F818000), 0x3F82},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.bits, bfloat16.FromFloat32(tt.in).Bits())
		})
	}
	assert.Equal(t, float32(1.5), bfloat16.FromBits(0x3FC0).Float32())
	assert.True(t, bfloat16.NaN.IsNaN())
	assert.True(t, bfloat16.FromBits(0xFF80).IsInf(-1))
	assert.False(t, bfloat16.FromBits(0xFF80).IsInf(1))
	assert.True(t, bfloat16.FromBits(0x7F80).IsInf(0))
}

func TestJSON(t *testing.T) {
	tests := []struct {
		value bfloat16.BFloat16
		json  string
	}{
		{bfloat16.FromFloat32(1.5), "1.5"},
		{bfloat16.FromFloat32(-2), "-2"},
		{bfloat16.FromFloat32(0), "0"},
		{bfloat16.NaN, `"NaN"`},
		{bfloat16.FromBits(0x7F80), `"Infinity"`},
		{bfloat16.FromBits(0xFF80), `"-Infinity"`},
	}
	for _, tt := range tests {
		data, err := json.Marshal(tt.value)
		require.NoError(t, err)
		assert.Equal(t, tt.json, string(data))

		var back bfloat16.BFloat16
		require.NoError(t, json.Unmarshal(data, &back))
		assert.Equal(t, tt.value, back)
	}

	v, err := bfloat16.ParseJSON([]byte("1e40"))
	require.NoError(t, err)
	assert.True(t, v.IsInf(1))

	_, err = bfloat16.ParseJSON([]byte(`"1.5"`))
	assert.Error(t, err)
	_, err = bfloat16.ParseJSON([]byte("x"))
	assert.Error(t, err)
}
