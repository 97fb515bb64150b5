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

package wire

import (
	"encoding/binary"
)

// Decoder reads primitive Kafka wire types off a byte slice without
// copying it; Rest() always reflects what remains to be consumed.
type Decoder struct {
	buf []byte
	pos int
}

// NewDecoder wraps buf for sequential decoding starting at offset 0.
func NewDecoder(buf []byte) *Decoder {
	return &Decoder{buf: buf}
}

// Remaining returns the number of unconsumed bytes.
func (d *Decoder) Remaining() int {
	return len(d.buf) - d.pos
}

// Rest returns the unconsumed tail of the buffer.
func (d *Decoder) Rest() []byte {
	return d.buf[d.pos:]
}

func (d *Decoder) need(n int) bool {
	return d.Remaining() >= n
}

// Int8 decodes a signed 8-bit integer.
func (d *Decoder) Int8() (int8, error) {
	if !d.need(1) {
		return 0, ErrInsufficientData
	}
	v := int8(d.buf[d.pos])
	d.pos++
	return v, nil
}

// Int16 decodes a signed 16-bit big-endian integer.
func (d *Decoder) Int16() (int16, error) {
	if !d.need(2) {
		return 0, ErrInsufficientData
	}
	v := int16(binary.BigEndian.Uint16(d.buf[d.pos:]))
	d.pos += 2
	return v, nil
}

// Int32 decodes a signed 32-bit big-endian integer.
func (d *Decoder) Int32() (int32, error) {
	if !d.need(4) {
		return 0, ErrInsufficientData
	}
	v := int32(binary.BigEndian.Uint32(d.buf[d.pos:]))
	d.pos += 4
	return v, nil
}

// Int64 decodes a signed 64-bit big-endian integer.
func (d *Decoder) Int64() (int64, error) {
	if !d.need(8) {
		return 0, ErrInsufficientData
	}
	v := int64(binary.BigEndian.Uint64(d.buf[d.pos:]))
	d.pos += 8
	return v, nil
}

// Raw consumes and returns exactly n raw bytes. A negative n, or an n that
// runs past the remaining buffer, is a malformed declared length rather
// than ordinary truncation: a STRING/BYTES length prefix is trusted data
// that must describe what actually follows it, so either case is fatal to
// the current RPC and reported as ErrMalformed.
func (d *Decoder) Raw(n int) ([]byte, error) {
	if n < 0 || !d.need(n) {
		return nil, ErrMalformed
	}
	v := d.buf[d.pos : d.pos+n]
	d.pos += n
	return v, nil
}

// String decodes a length-prefixed STRING. ok is false when the wire
// value was the NULL sentinel (-1); an on-wire zero-length string decodes
// to ("", true).
func (d *Decoder) String() (s string, ok bool, err error) {
	n, err := d.Int16()
	if err != nil {
		return "", false, err
	}
	if n == nullLength {
		return "", false, nil
	}
	if n < 0 {
		return "", false, ErrMalformed
	}
	raw, err := d.Raw(int(n))
	if err != nil {
		return "", false, err
	}
	return string(raw), true, nil
}

// Bytes decodes a length-prefixed BYTES field. ok is false when the wire
// value was the NULL sentinel (-1); an on-wire zero-length value decodes
// to ([]byte{}, true).
func (d *Decoder) Bytes() (b []byte, ok bool, err error) {
	n, err := d.Int32()
	if err != nil {
		return nil, false, err
	}
	if n == nullLength {
		return nil, false, nil
	}
	if n < 0 {
		return nil, false, ErrMalformed
	}
	raw, err := d.Raw(int(n))
	if err != nil {
		return nil, false, err
	}
	out := make([]byte, len(raw))
	copy(out, raw)
	return out, true, nil
}

// ArrayLen decodes the INT32 element count of an ARRAY<T>.
func (d *Decoder) ArrayLen() (int, error) {
	n, err := d.Int32()
	if err != nil {
		return 0, err
	}
	if n < 0 {
		return 0, ErrMalformed
	}
	return int(n), nil
}
