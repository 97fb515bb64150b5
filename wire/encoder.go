// Copyright 2015-2016 trivago GmbH
//
// Licensed under the Apache License, Version 2.0 (the "License");
// you may not use this file except in compliance with the License.
// You may obtain a copy of the License at
//
//     http://www.apache.org/licenses/LICENSE-2.0
//
// Unless required by applicable law or agreed to in writing, software
// distributed under the License is distributed on an "AS IS" BASIS,
// WITHOUT WARRANTIES OR CONDITIONS OF ANY KIND, either express or implied.
// See the License for the specific language governing permissions and
// limitations under the License.

// Package wire implements the Kafka primitive wire types: fixed-width
// signed big-endian integers, length-prefixed STRING and BYTES with the
// -1-means-NULL sentinel, and INT32-counted arrays.
package wire

import (
	"encoding/binary"

	"github.com/pkg/errors"
)

// ErrInsufficientData is returned when decoding and the buffer is
// truncated before a declared field can be fully read. This can be
// expected at the tail of a MessageSet, since the broker is allowed to
// return a partial record at the end of a fetch.
var ErrInsufficientData = errors.New("wire: insufficient data to decode packet")

// ErrMalformed is returned when a declared length is negative (other than
// the NULL sentinel -1) or runs past the end of the buffer being decoded.
var ErrMalformed = errors.New("wire: malformed length prefix")

const nullLength = -1

// Encoder accumulates the bytes of a single request payload or message
// record. It never fails - invalid input (e.g. a string too long for its
// length prefix) is a programmer error, not a runtime condition this
// package guards against, matching the primitives Kafka itself defines.
type Encoder struct {
	buf []byte
}

// NewEncoder returns an Encoder with a capacity hint.
func NewEncoder(sizeHint int) *Encoder {
	return &Encoder{buf: make([]byte, 0, sizeHint)}
}

// Bytes returns the accumulated encoding.
func (e *Encoder) Bytes() []byte {
	return e.buf
}

// Len returns the number of bytes written so far.
func (e *Encoder) Len() int {
	return len(e.buf)
}

// PutInt8 appends a signed 8-bit integer.
func (e *Encoder) PutInt8(v int8) {
	e.buf = append(e.buf, byte(v))
}

// PutInt16 appends a signed 16-bit big-endian integer.
func (e *Encoder) PutInt16(v int16) {
	e.buf = append(e.buf, byte(v>>8), byte(v))
}

// PutInt32 appends a signed 32-bit big-endian integer.
func (e *Encoder) PutInt32(v int32) {
	var tmp [4]byte
	binary.BigEndian.PutUint32(tmp[:], uint32(v))
	e.buf = append(e.buf, tmp[:]...)
}

// PutInt64 appends a signed 64-bit big-endian integer.
func (e *Encoder) PutInt64(v int64) {
	var tmp [8]byte
	binary.BigEndian.PutUint64(tmp[:], uint64(v))
	e.buf = append(e.buf, tmp[:]...)
}

// PutRaw appends raw bytes with no length prefix.
func (e *Encoder) PutRaw(b []byte) {
	e.buf = append(e.buf, b...)
}

// PutString appends a length-prefixed STRING. An empty string is
// collapsed to NULL (INT16 = -1) to match historical Kafka client
// behavior; decode still distinguishes an on-wire zero-length string from
// NULL, but this encoder never produces one.
func (e *Encoder) PutString(s string) {
	if len(s) == 0 {
		e.PutInt16(nullLength)
		return
	}
	e.PutInt16(int16(len(s)))
	e.buf = append(e.buf, s...)
}

// PutNullString appends a NULL STRING; used where a caller has no value
// to encode (distinct from an empty string,
// though both collapse to the same wire bytes).
func (e *Encoder) PutNullString() {
	e.PutInt16(nullLength)
}

// PutBytes appends a length-prefixed BYTES field. A nil or empty slice is
// collapsed to NULL (INT32 = -1), mirroring PutString.
func (e *Encoder) PutBytes(b []byte) {
	if len(b) == 0 {
		e.PutInt32(nullLength)
		return
	}
	e.PutInt32(int32(len(b)))
	e.buf = append(e.buf, b...)
}

// PutArrayLen appends the INT32 element count of an ARRAY<T>. An empty
// array encodes as 0, which is distinct from the BYTES/STRING NULL
// sentinel.
func (e *Encoder) PutArrayLen(n int) {
	e.PutInt32(int32(n))
}
