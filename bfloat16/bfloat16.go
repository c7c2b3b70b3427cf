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

// Package bfloat16 provides the 16-bit brain floating point type. Values
// encode as JSON numbers; NaN and the infinities use the quoted names the
// utf8json writer produces for floats.
package bfloat16

import (
	"errors"
	"math"
	"strconv"
)

// BFloat16 keeps the upper 16 bits of an IEEE 754 float32.
type BFloat16 uint16

// NaN is the canonical quiet NaN.
const NaN BFloat16 = 0x7FC0

var errSyntax = errors.New("bfloat16: invalid JSON number")

// FromBits returns the value with bit pattern b.
func FromBits(b uint16) BFloat16 { return BFloat16(b) }

// Bits returns the raw bit pattern.
func (f BFloat16) Bits() uint16 { return uint16(f) }

// FromFloat32 rounds f to nearest, ties to even.
func FromFloat32(f float32) BFloat16 {
	u := math.Float32bits(f)
	if u&0x7F800000 == 0x7F800000 && u&0x007FFFFF != 0 {
		return NaN
	}
	// bias is 0x7FFF plus the lowest kept bit, so an exact half rounds
	// towards the even neighbour.
	u += 0x7FFF + (u>>16)&1
	return BFloat16(u >> 16)
}

// FromFloat64 narrows through float32.
func FromFloat64(f float64) BFloat16 { return FromFloat32(float32(f)) }

// Float32 widens f exactly.
func (f BFloat16) Float32() float32 { return math.Float32frombits(uint32(f) << 16) }

func (f BFloat16) IsNaN() bool { return f&0x7F80 == 0x7F80 && f&0x007F != 0 }

// IsInf reports whether f is an infinity with the given sign; sign 0 matches
// either.
func (f BFloat16) IsInf(sign int) bool {
	switch f {
	case 0x7F80:
		return sign >= 0
	case 0xFF80:
		return sign <= 0
	}
	return false
}

func (f BFloat16) String() string {
	return strconv.FormatFloat(float64(f.Float32()), 'g', -1, 32)
}

// AppendJSON appends the JSON form of f to dst.
func (f BFloat16) AppendJSON(dst []byte) []byte {
	switch {
	case f.IsNaN():
		return append(dst, `"NaN"`...)
	case f.IsInf(1):
		return append(dst, `"Infinity"`...)
	case f.IsInf(-1):
		return append(dst, `"-Infinity"`...)
	}
	return strconv.AppendFloat(dst, float64(f.Float32()), 'g', -1, 32)
}

// ParseJSON parses a JSON number or one of the quoted non-finite names.
func ParseJSON(b []byte) (BFloat16, error) {
	switch string(b) {
	case `"NaN"`:
		return NaN, nil
	case `"Infinity"`:
		return 0x7F80, nil
	case `"-Infinity"`:
		return 0xFF80, nil
	}
	if len(b) == 0 || b[0] == '"' {
		return 0, errSyntax
	}
	v, err := strconv.ParseFloat(string(b), 32)
	if err != nil && !errors.Is(err, strconv.ErrRange) {
		return 0, errSyntax
	}
	return FromFloat64(v), nil
}

func (f BFloat16) MarshalJSON() ([]byte, error) { return f.AppendJSON(nil), nil }

func (f *BFloat16) UnmarshalJSON(b []byte) error {
	if string(b) == "null" {
		return nil
	}
	v, err := ParseJSON(b)
	if err != nil {
		return err
	}
	*f = v
	return nil
}
