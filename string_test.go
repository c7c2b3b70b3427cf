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
	"testing"

	"github.com/stretchr/testify/require"
)

func TestWriteStringEscapes(t *testing.T) {
	w := NewWriter(nil)
	w.WriteString("a\"b\\c\n\t\x01")
	require.Equal(t, `"a\"b\\c\n\t\u0001"`, string(w.Bytes()))
}

func TestWriteStringKeepsUTF8(t *testing.T) {
	// Non-ASCII text is written raw, not as \u escapes
	w := NewWriter(nil)
	w.WriteString("héllo 😀")
	require.Equal(t, "\"héllo 😀\"", string(w.Bytes()))
}

func TestWriteStringInvalidUTF8(t *testing.T) {
	w := NewWriter(nil)
	w.WriteString("a\xffb")
	require.Equal(t, "\"a�b\"", string(w.Bytes()))
}

func TestQuoteName(t *testing.T) {
	require.Equal(t, `"plain"`, QuoteName("plain"))
	require.Equal(t, `"say \"hi\""`, QuoteName(`say "hi"`))
	require.Equal(t, `"naïve"`, QuoteName("naïve"))
}

func TestReadStringEscapes(t *testing.T) {
	r := NewReader([]byte(`"aé😀\/\"\\\b\f\n\r\t"`))

	result := r.ReadString()

	require.False(t, r.HasError())
	require.Equal(t, "aé😀/\"\\\b\f\n\r\t", result)
}

func TestReadStringLoneSurrogate(t *testing.T) {
	// An unpaired surrogate decodes to the replacement character.
	r := NewReader([]byte(`"x\ud800y"`))

	result := r.ReadString()

	require.False(t, r.HasError())
	require.Equal(t, "x�y", result)
}

func TestReadStringInvalidEscape(t *testing.T) {
	r := NewReader([]byte(`"bad \x escape"`))

	result := r.ReadString()

	require.True(t, r.HasError())
	require.Equal(t, ErrKindMalformedInput, r.Err().Kind())
	require.Equal(t, "", result)
}

func TestReadStringControlCharacter(t *testing.T) {
	r := NewReader([]byte("\"a\nb\""))

	r.ReadString()

	require.True(t, r.HasError())
	require.Equal(t, ErrKindMalformedInput, r.Err().Kind())
	require.Equal(t, 2, r.Err().Offset())
}

func TestReadStringUnterminated(t *testing.T) {
	r := NewReader([]byte(`"abc`))

	r.ReadString()

	require.True(t, r.HasError())
	require.ErrorIs(t, r.Err(), ErrMalformedInput)
}

func TestReadPropertyNameDecodesEscapes(t *testing.T) {
	r := NewReader([]byte(`"na\u006de" : 1`))

	name := r.ReadPropertyNameSegment()

	require.False(t, r.HasError())
	require.Equal(t, "name", string(name))
	require.Equal(t, int32(1), r.ReadInt32())
}

func TestReadCharRejectsLongString(t *testing.T) {
	r := NewReader([]byte(`"ab"`))

	r.ReadChar()

	require.True(t, r.HasError())
}

func TestStringRoundTrip(t *testing.T) {
	for _, s := range []string{"", "plain", "quote\"d", "tab\there", "\x00\x1f", "日本語", "emoji 🎉"} {
		data, err := Marshal(s)
		require.NoError(t, err)
		result, err := Unmarshal[string](data)
		require.NoError(t, err)
		require.Equal(t, s, result)
	}
}
