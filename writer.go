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
	"sync"
	"unicode/utf8"
)

const (
	defaultWriterSize = 256
	maxPooledWriter   = 1 << 16
)

// Writer appends JSON directly to a byte slice.
type Writer struct {
	buf []byte
}

// NewWriter creates a writer appending to buf.
func NewWriter(buf []byte) *Writer {
	return &Writer{buf: buf[:0]}
}

var writerPool = sync.Pool{
	New: func() any { return &Writer{buf: make([]byte, 0, defaultWriterSize)} },
}

// AcquireWriter takes an empty writer from the pool.
func AcquireWriter() *Writer {
	w := writerPool.Get().(*Writer)
	w.buf = w.buf[:0]
	return w
}

// ReleaseWriter returns w to the pool. Oversized buffers are dropped.
func ReleaseWriter(w *Writer) {
	if cap(w.buf) > maxPooledWriter {
		w.buf = make([]byte, 0, defaultWriterSize)
	}
	writerPool.Put(w)
}

// Bytes returns the written bytes. They alias the writer's buffer.
func (w *Writer) Bytes() []byte { return w.buf }

// Len returns the number of written bytes.
func (w *Writer) Len() int { return len(w.buf) }

// Reset discards the written bytes, keeping capacity.
func (w *Writer) Reset() { w.buf = w.buf[:0] }

// GetSpan returns a writable window of at least n bytes past the written data.
// Call Advance with the number of bytes actually used.
func (w *Writer) GetSpan(n int) []byte {
	if cap(w.buf)-len(w.buf) < n {
		grown := make([]byte, len(w.buf), 2*cap(w.buf)+n)
		copy(grown, w.buf)
		w.buf = grown
	}
	return w.buf[len(w.buf) : len(w.buf)+n]
}

// Advance commits n bytes previously filled through GetSpan.
func (w *Writer) Advance(n int) {
	w.buf = w.buf[:len(w.buf)+n]
}

// WriteRaw copies b verbatim. It is used for precomputed literals.
func (w *Writer) WriteRaw(b []byte) {
	w.buf = append(w.buf, b...)
}

// WriteRawString is WriteRaw for string constants in generated code.
func (w *Writer) WriteRawString(s string) {
	w.buf = append(w.buf, s...)
}

// WriteRawByte appends a single structural byte.
func (w *Writer) WriteRawByte(c byte) {
	w.buf = append(w.buf, c)
}

func (w *Writer) WriteBeginObject()    { w.buf = append(w.buf, '{') }
func (w *Writer) WriteEndObject()      { w.buf = append(w.buf, '}') }
func (w *Writer) WriteBeginArray()     { w.buf = append(w.buf, '[') }
func (w *Writer) WriteEndArray()       { w.buf = append(w.buf, ']') }
func (w *Writer) WriteValueSeparator() { w.buf = append(w.buf, ',') }
func (w *Writer) WriteNameSeparator()  { w.buf = append(w.buf, ':') }

func (w *Writer) WriteNull() {
	w.buf = append(w.buf, "null"...)
}

func (w *Writer) WriteBool(v bool) {
	if v {
		w.buf = append(w.buf, "true"...)
	} else {
		w.buf = append(w.buf, "false"...)
	}
}

func (w *Writer) WriteInt8(v int8)   { w.buf = strconv.AppendInt(w.buf, int64(v), 10) }
func (w *Writer) WriteInt16(v int16) { w.buf = strconv.AppendInt(w.buf, int64(v), 10) }
func (w *Writer) WriteInt32(v int32) { w.buf = strconv.AppendInt(w.buf, int64(v), 10) }
func (w *Writer) WriteInt64(v int64) { w.buf = strconv.AppendInt(w.buf, v, 10) }
func (w *Writer) WriteInt(v int)     { w.buf = strconv.AppendInt(w.buf, int64(v), 10) }

func (w *Writer) WriteUint8(v uint8)   { w.buf = strconv.AppendUint(w.buf, uint64(v), 10) }
func (w *Writer) WriteUint16(v uint16) { w.buf = strconv.AppendUint(w.buf, uint64(v), 10) }
func (w *Writer) WriteUint32(v uint32) { w.buf = strconv.AppendUint(w.buf, uint64(v), 10) }
func (w *Writer) WriteUint64(v uint64) { w.buf = strconv.AppendUint(w.buf, v, 10) }
func (w *Writer) WriteUint(v uint)     { w.buf = strconv.AppendUint(w.buf, uint64(v), 10) }

func (w *Writer) WriteFloat32(v float32) { w.writeFloat(float64(v), 32) }
func (w *Writer) WriteFloat64(v float64) { w.writeFloat(v, 64) }

// writeFloat uses the shortest representation, switching to exponent form
// outside [1e-6, 1e21). NaN and infinities are written as quoted names.
func (w *Writer) writeFloat(f float64, bits int) {
	switch {
	case math.IsNaN(f):
		w.buf = append(w.buf, `"NaN"`...)
		return
	case math.IsInf(f, 1):
		w.buf = append(w.buf, `"Infinity"`...)
		return
	case math.IsInf(f, -1):
		w.buf = append(w.buf, `"-Infinity"`...)
		return
	}
	abs := math.Abs(f)
	format := byte('f')
	if abs != 0 {
		if bits == 64 && (abs < 1e-6 || abs >= 1e21) || bits == 32 && (float32(abs) < 1e-6 || float32(abs) >= 1e21) {
			format = 'e'
		}
	}
	start := len(w.buf)
	w.buf = strconv.AppendFloat(w.buf, f, format, -1, bits)
	if format == 'e' {
		// clean up e-09 to e-9
		n := len(w.buf) - start
		if n >= 4 && w.buf[len(w.buf)-4] == 'e' && w.buf[len(w.buf)-3] == '-' && w.buf[len(w.buf)-2] == '0' {
			w.buf[len(w.buf)-2] = w.buf[len(w.buf)-1]
			w.buf = w.buf[:len(w.buf)-1]
		}
	}
}

// WriteChar writes r as a one-character JSON string.
func (w *Writer) WriteChar(r rune) {
	if !utf8.ValidRune(r) {
		r = utf8.RuneError
	}
	var tmp [utf8.UTFMax]byte
	n := utf8.EncodeRune(tmp[:], r)
	w.buf = appendQuote(w.buf, tmp[:n])
}

func (w *Writer) WriteString(s string) {
	w.buf = appendQuote(w.buf, s)
}

// WriteStringBytes writes b as a JSON string.
func (w *Writer) WriteStringBytes(b []byte) {
	w.buf = appendQuote(w.buf, b)
}

// WritePropertyName writes a quoted name followed by ':'.
func (w *Writer) WritePropertyName(name string) {
	w.buf = appendQuote(w.buf, name)
	w.buf = append(w.buf, ':')
}
