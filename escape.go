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
	"unicode/utf16"
	"unicode/utf8"
)

// asciiEscape marks ASCII bytes that cannot appear raw inside a JSON string.
var asciiEscape = func() (t [utf8.RuneSelf]bool) {
	for i := 0; i < ' '; i++ {
		t[i] = true
	}
	t['"'] = true
	t['\\'] = true
	return t
}()

// appendQuote appends s as a canonical JSON string literal.
// Invalid UTF-8 is replaced with U+FFFD.
func appendQuote[Bytes ~[]byte | ~string](dst []byte, s Bytes) []byte {
	dst = append(dst, '"')
	i, n := 0, 0
	for n < len(s) {
		if c := s[n]; c < utf8.RuneSelf {
			n++
			if asciiEscape[c] {
				dst = append(dst, s[i:n-1]...)
				dst = appendEscapedASCII(dst, c)
				i = n
			}
			continue
		}
		var rn int
		switch v := any(s).(type) {
		case string:
			_, rn = utf8.DecodeRuneInString(v[n:])
		default:
			_, rn = utf8.DecodeRune([]byte(s[n:]))
		}
		n += rn
		if rn == 1 {
			dst = append(dst, s[i:n-1]...)
			dst = append(dst, "�"...)
			i = n
		}
	}
	dst = append(dst, s[i:n]...)
	return append(dst, '"')
}

// QuoteName returns name as a JSON string literal, quotes included.
func QuoteName(name string) string {
	if !needsQuoting(name) {
		return `"` + name + `"`
	}
	return string(appendQuote(nil, name))
}

// needsQuoting reports whether s contains bytes that would be escaped.
func needsQuoting(s string) bool {
	for i := 0; i < len(s); i++ {
		c := s[i]
		if c >= utf8.RuneSelf || asciiEscape[c] {
			return true
		}
	}
	return false
}

func appendEscapedASCII(dst []byte, c byte) []byte {
	switch c {
	case '"', '\\':
		return append(dst, '\\', c)
	case '\b':
		return append(dst, '\\', 'b')
	case '\f':
		return append(dst, '\\', 'f')
	case '\n':
		return append(dst, '\\', 'n')
	case '\r':
		return append(dst, '\\', 'r')
	case '\t':
		return append(dst, '\\', 't')
	}
	return appendEscapedUTF16(dst, uint16(c))
}

func appendEscapedUTF16(dst []byte, x uint16) []byte {
	const hex = "0123456789abcdef"
	return append(dst, '\\', 'u', hex[(x>>12)&0xf], hex[(x>>8)&0xf], hex[(x>>4)&0xf], hex[x&0xf])
}

// appendUnquoted decodes the body of a JSON string (without the quotes)
// and appends the result to dst. The second result is false on a bad escape.
func appendUnquoted(dst, body []byte) ([]byte, bool) {
	i := 0
	for i < len(body) {
		c := body[i]
		if c != '\\' {
			j := i + 1
			for j < len(body) && body[j] != '\\' {
				j++
			}
			dst = append(dst, body[i:j]...)
			i = j
			continue
		}
		if i+1 >= len(body) {
			return dst, false
		}
		switch body[i+1] {
		case '"', '\\', '/':
			dst = append(dst, body[i+1])
		case 'b':
			dst = append(dst, '\b')
		case 'f':
			dst = append(dst, '\f')
		case 'n':
			dst = append(dst, '\n')
		case 'r':
			dst = append(dst, '\r')
		case 't':
			dst = append(dst, '\t')
		case 'u':
			r, ok := parseHex4(body[i+2:])
			if !ok {
				return dst, false
			}
			i += 6
			if utf16.IsSurrogate(r) {
				if i+6 <= len(body) && body[i] == '\\' && body[i+1] == 'u' {
					if r2, ok := parseHex4(body[i+2:]); ok {
						if dec := utf16.DecodeRune(r, r2); dec != utf8.RuneError {
							dst = utf8.AppendRune(dst, dec)
							i += 6
							continue
						}
					}
				}
				r = utf8.RuneError
			}
			dst = utf8.AppendRune(dst, r)
			continue
		default:
			return dst, false
		}
		i += 2
	}
	return dst, true
}

func parseHex4(b []byte) (rune, bool) {
	if len(b) < 4 {
		return 0, false
	}
	var r rune
	for _, c := range b[:4] {
		switch {
		case '0' <= c && c <= '9':
			c -= '0'
		case 'a' <= c && c <= 'f':
			c = c - 'a' + 10
		case 'A' <= c && c <= 'F':
			c = c - 'A' + 10
		default:
			return 0, false
		}
		r = r<<4 | rune(c)
	}
	return r, true
}
