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
	"math"
	"strconv"
	"unicode/utf8"
	"unsafe"
)

// Reader consumes JSON from a byte slice without building a token tree.
// Read methods never panic on bad input: the first failure is recorded and
// every later read returns a zero value, so callers only check HasError at
// loop boundaries.
type Reader struct {
	buf     []byte
	pos     int
	err     Error
	scratch []byte
}

// NewReader creates a reader over data. data is not copied.
func NewReader(data []byte) *Reader {
	return &Reader{buf: data}
}

// Reset points the reader at new input and clears its error.
func (r *Reader) Reset(data []byte) {
	r.buf = data
	r.pos = 0
	r.err.reset()
}

// Offset returns the current read position.
func (r *Reader) Offset() int { return r.pos }

// HasError reports whether a read failed.
func (r *Reader) HasError() bool { return r.err.HasError() }

// Err returns the recorded error holder.
func (r *Reader) Err() *Error { return &r.err }

func (r *Reader) fail(format string, args ...any) {
	if r.err.HasError() {
		return
	}
	e := MalformedInputError(r.pos, format, args...)
	r.err = *e
	// park at the end so loops driven by the reader terminate
	r.pos = len(r.buf)
}

// SetError records a non-syntax error against the reader.
func (r *Reader) SetError(e *Error) {
	if e == nil || r.err.HasError() {
		return
	}
	r.err = *e
	r.pos = len(r.buf)
}

// SkipWhiteSpace advances past JSON insignificant whitespace.
func (r *Reader) SkipWhiteSpace() {
	for r.pos < len(r.buf) {
		switch r.buf[r.pos] {
		case ' ', '\t', '\n', '\r':
			r.pos++
		default:
			return
		}
	}
}

// PeekByte returns the next significant byte, or 0 at end of input.
func (r *Reader) PeekByte() byte {
	r.SkipWhiteSpace()
	if r.pos < len(r.buf) {
		return r.buf[r.pos]
	}
	return 0
}

// ReadIsNull consumes a null literal if it is next.
func (r *Reader) ReadIsNull() bool {
	r.SkipWhiteSpace()
	if r.pos+4 <= len(r.buf) && r.buf[r.pos] == 'n' {
		if r.buf[r.pos+1] == 'u' && r.buf[r.pos+2] == 'l' && r.buf[r.pos+3] == 'l' {
			r.pos += 4
			return true
		}
		r.fail("invalid literal")
	}
	return false
}

// ReadIsBeginObject consumes '{' if it is next.
func (r *Reader) ReadIsBeginObject() bool {
	r.SkipWhiteSpace()
	if r.pos < len(r.buf) && r.buf[r.pos] == '{' {
		r.pos++
		return true
	}
	return false
}

// ReadBeginObject consumes '{' or records an error.
func (r *Reader) ReadBeginObject() bool {
	if r.ReadIsBeginObject() {
		return true
	}
	r.fail("expected '{'")
	return false
}

// ReadIsEndObjectWithSkipValueSeparator consumes '}' and returns true, or
// consumes the ',' that must separate members after the first one.
func (r *Reader) ReadIsEndObjectWithSkipValueSeparator(count *int) bool {
	r.SkipWhiteSpace()
	if r.pos >= len(r.buf) {
		r.fail("unterminated object")
		return true
	}
	if r.buf[r.pos] == '}' {
		r.pos++
		return true
	}
	if *count != 0 {
		if r.buf[r.pos] != ',' {
			r.fail("expected ',' or '}'")
			return true
		}
		r.pos++
	}
	*count++
	return false
}

// ReadIsBeginArray consumes '[' if it is next.
func (r *Reader) ReadIsBeginArray() bool {
	r.SkipWhiteSpace()
	if r.pos < len(r.buf) && r.buf[r.pos] == '[' {
		r.pos++
		return true
	}
	return false
}

// ReadBeginArray consumes '[' or records an error.
func (r *Reader) ReadBeginArray() bool {
	if r.ReadIsBeginArray() {
		return true
	}
	r.fail("expected '['")
	return false
}

// ReadIsEndArrayWithSkipValueSeparator is the array form of
// ReadIsEndObjectWithSkipValueSeparator.
func (r *Reader) ReadIsEndArrayWithSkipValueSeparator(count *int) bool {
	r.SkipWhiteSpace()
	if r.pos >= len(r.buf) {
		r.fail("unterminated array")
		return true
	}
	if r.buf[r.pos] == ']' {
		r.pos++
		return true
	}
	if *count != 0 {
		if r.buf[r.pos] != ',' {
			r.fail("expected ',' or ']'")
			return true
		}
		r.pos++
	}
	*count++
	return false
}

// scanString consumes a quoted string and returns its body. escaped
// reports whether the body contains backslash escapes.
func (r *Reader) scanString() (body []byte, escaped bool) {
	r.SkipWhiteSpace()
	if r.pos >= len(r.buf) || r.buf[r.pos] != '"' {
		r.fail("expected string")
		return nil, false
	}
	start := r.pos + 1
	i := start
	for i < len(r.buf) {
		c := r.buf[i]
		switch {
		case c == '"':
			r.pos = i + 1
			return r.buf[start:i], escaped
		case c == '\\':
			escaped = true
			i += 2
		case c < ' ':
			r.pos = i
			r.fail("control character in string")
			return nil, false
		default:
			i++
		}
	}
	r.pos = len(r.buf)
	r.fail("unterminated string")
	return nil, false
}

func (r *Reader) readNameSeparator() {
	r.SkipWhiteSpace()
	if r.pos < len(r.buf) && r.buf[r.pos] == ':' {
		r.pos++
		return
	}
	r.fail("expected ':'")
}

// ReadPropertyNameSegmentRaw returns the raw bytes between the quotes of the
// next property name and consumes the following ':'. Escapes are not decoded.
func (r *Reader) ReadPropertyNameSegmentRaw() []byte {
	body, _ := r.scanString()
	r.readNameSeparator()
	return body
}

// ReadPropertyNameSegment is ReadPropertyNameSegmentRaw with escapes decoded.
// The result may alias reader scratch space and is valid until the next read.
func (r *Reader) ReadPropertyNameSegment() []byte {
	body, escaped := r.scanString()
	r.readNameSeparator()
	if !escaped {
		return body
	}
	return r.unescape(body)
}

// ReadPropertyName returns the next property name as a decoded string.
func (r *Reader) ReadPropertyName() string {
	return string(r.ReadPropertyNameSegment())
}

func (r *Reader) unescape(body []byte) []byte {
	out, ok := appendUnquoted(r.scratch[:0], body)
	if !ok {
		r.fail("invalid escape sequence")
		return nil
	}
	r.scratch = out
	return out
}

// ReadStringSegment returns the decoded bytes of the next string. The
// result may alias the input or reader scratch space.
func (r *Reader) ReadStringSegment() []byte {
	body, escaped := r.scanString()
	if !escaped {
		return body
	}
	return r.unescape(body)
}

func (r *Reader) ReadString() string {
	return string(r.ReadStringSegment())
}

// ReadChar reads a one-character string.
func (r *Reader) ReadChar() rune {
	b := r.ReadStringSegment()
	if r.err.HasError() {
		return 0
	}
	c, n := utf8.DecodeRune(b)
	if n == 0 || n != len(b) {
		r.fail("expected single character string")
		return 0
	}
	return c
}

func (r *Reader) ReadBool() bool {
	r.SkipWhiteSpace()
	b := r.buf[r.pos:]
	if len(b) >= 4 && b[0] == 't' && b[1] == 'r' && b[2] == 'u' && b[3] == 'e' {
		r.pos += 4
		return true
	}
	if len(b) >= 5 && b[0] == 'f' && b[1] == 'a' && b[2] == 'l' && b[3] == 's' && b[4] == 'e' {
		r.pos += 5
		return false
	}
	r.fail("expected boolean")
	return false
}

// scanNumber returns the bytes of the next number token.
func (r *Reader) scanNumber() []byte {
	r.SkipWhiteSpace()
	start := r.pos
	i := start
	for i < len(r.buf) {
		switch c := r.buf[i]; {
		case '0' <= c && c <= '9', c == '-', c == '+', c == '.', c == 'e', c == 'E':
			i++
			continue
		}
		break
	}
	if i == start {
		r.fail("expected number")
		return nil
	}
	r.pos = i
	return r.buf[start:i]
}

func bytesToString(b []byte) string {
	if len(b) == 0 {
		return ""
	}
	return unsafe.String(&b[0], len(b))
}

func (r *Reader) readInt(bits int) int64 {
	tok := r.scanNumber()
	if tok == nil {
		return 0
	}
	v, err := strconv.ParseInt(bytesToString(tok), 10, bits)
	if err != nil {
		r.pos -= len(tok)
		r.fail("invalid integer %q", tok)
		return 0
	}
	return v
}

func (r *Reader) readUint(bits int) uint64 {
	tok := r.scanNumber()
	if tok == nil {
		return 0
	}
	v, err := strconv.ParseUint(bytesToString(tok), 10, bits)
	if err != nil {
		r.pos -= len(tok)
		r.fail("invalid unsigned integer %q", tok)
		return 0
	}
	return v
}

func (r *Reader) ReadInt8() int8   { return int8(r.readInt(8)) }
func (r *Reader) ReadInt16() int16 { return int16(r.readInt(16)) }
func (r *Reader) ReadInt32() int32 { return int32(r.readInt(32)) }
func (r *Reader) ReadInt64() int64 { return r.readInt(64) }
func (r *Reader) ReadInt() int     { return int(r.readInt(strconv.IntSize)) }

func (r *Reader) ReadUint8() uint8   { return uint8(r.readUint(8)) }
func (r *Reader) ReadUint16() uint16 { return uint16(r.readUint(16)) }
func (r *Reader) ReadUint32() uint32 { return uint32(r.readUint(32)) }
func (r *Reader) ReadUint64() uint64 { return r.readUint(64) }
func (r *Reader) ReadUint() uint     { return uint(r.readUint(strconv.IntSize)) }

func (r *Reader) readFloat(bits int) float64 {
	if r.PeekByte() == '"' {
		switch s := bytesToString(r.ReadStringSegment()); s {
		case "NaN":
			return math.NaN()
		case "Infinity":
			return math.Inf(1)
		case "-Infinity":
			return math.Inf(-1)
		default:
			r.fail("invalid float literal %q", s)
			return 0
		}
	}
	tok := r.scanNumber()
	if tok == nil {
		return 0
	}
	v, err := strconv.ParseFloat(bytesToString(tok), bits)
	if err != nil {
		r.pos -= len(tok)
		r.fail("invalid number %q", tok)
		return 0
	}
	return v
}

func (r *Reader) ReadFloat32() float32 { return float32(r.readFloat(32)) }
func (r *Reader) ReadFloat64() float64 { return r.readFloat(64) }

// ReadNextBlock skips the next value, including nested objects and arrays.
func (r *Reader) ReadNextBlock() {
	r.ReadNextBlockSegment()
}

// ReadNextBlockSegment skips the next value and returns its raw bytes.
func (r *Reader) ReadNextBlockSegment() []byte {
	r.SkipWhiteSpace()
	if r.pos >= len(r.buf) {
		r.fail("unexpected end of input")
		return nil
	}
	start := r.pos
	switch c := r.buf[r.pos]; c {
	case '{', '[':
		r.skipContainer()
	case '"':
		r.scanString()
	case 't':
		r.ReadBool()
	case 'f':
		r.ReadBool()
	case 'n':
		if !r.ReadIsNull() {
			r.fail("invalid literal")
		}
	default:
		if c == '-' || ('0' <= c && c <= '9') {
			r.scanNumber()
		} else {
			r.fail("unexpected character %q", c)
		}
	}
	if r.err.HasError() {
		return nil
	}
	return r.buf[start:r.pos]
}

// skipContainer skips a balanced object or array starting at r.pos.
// Strings are scanned so that brackets inside them are ignored.
func (r *Reader) skipContainer() {
	depth := 0
	for r.pos < len(r.buf) {
		switch r.buf[r.pos] {
		case '{', '[':
			depth++
			r.pos++
		case '}', ']':
			depth--
			r.pos++
			if depth == 0 {
				return
			}
		case '"':
			if _, _ = r.scanString(); r.err.HasError() {
				return
			}
		default:
			r.pos++
		}
	}
	r.fail("unterminated container")
}

// ReadEnd verifies that only whitespace remains.
func (r *Reader) ReadEnd() {
	r.SkipWhiteSpace()
	if r.pos < len(r.buf) && !r.err.HasError() {
		r.fail("unexpected trailing data")
	}
}
