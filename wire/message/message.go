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

// Package message implements the Kafka Message and MessageSet binary
// format: a single record framed with offset, size and CRC32, and the
// bare concatenation framing Kafka uses for a set of records.
package message

import (
	"encoding/binary"
	"hash/crc32"

	"github.com/pkg/errors"
	"github.com/trivago/gokafka/wire"
)

// ErrCRCMismatch is returned by Decode in strict mode when the record's
// embedded CRC does not match CRC32(magic..value).
var ErrCRCMismatch = errors.New("message: crc32 mismatch")

// Message is a single Kafka record. Topic, Partition and Metadata are
// producer-side bookkeeping fields that never appear on the wire.
type Message struct {
	Offset     int64
	MagicByte  int8
	Attributes int8
	Key        []byte
	Value      []byte

	Topic     string
	Partition int32
	Metadata  string
}

// crcSize is the number of leading bytes (offset, size, crc itself) that
// are excluded from the CRC32 computation.
const crcSize = 8 + 4 + 4

// Encode produces the wire layout of m:
//
//	offset(8) | size(4) | crc(4) | magic(1) | attributes(1) | BYTES(key) | BYTES(value)
//
// where crc is the IEEE CRC32 of everything from magic_byte to the end of
// value.
func Encode(m Message) []byte {
	body := wire.NewEncoder(32 + len(m.Key) + len(m.Value))
	body.PutInt8(m.MagicByte)
	body.PutInt8(m.Attributes)
	body.PutBytes(m.Key)
	body.PutBytes(m.Value)

	crc := crc32.ChecksumIEEE(body.Bytes())

	out := wire.NewEncoder(crcSize + body.Len())
	out.PutInt64(m.Offset)
	out.PutInt32(int32(body.Len() + 4)) // size covers crc..value
	out.PutInt32(int32(crc))
	out.PutRaw(body.Bytes())
	return out.Bytes()
}

// Decode reads a single record off buf, returning the decoded message and
// the unconsumed tail. When buf is too short to hold a complete record -
// as declared by its own size field, or simply too short to contain the
// fixed header - Decode returns (nil, buf, nil): this is the truncated-tail
// signal a MessageSet decoder uses to stop cleanly, not an error.
//
// Once the size field has confirmed enough bytes exist for a complete
// record, any further decode failure (a key/value length prefix that runs
// past the record's own declared size, say) is record corruption rather
// than tail truncation, and is returned as a real error instead of being
// swallowed.
//
// When strict is true, a CRC mismatch on an otherwise complete record is a
// reported error rather than being silently accepted.
func Decode(buf []byte, strict bool) (msg *Message, rest []byte, err error) {
	d := wire.NewDecoder(buf)

	offset, err := d.Int64()
	if err != nil {
		return nil, buf, nil
	}
	size, err := d.Int32()
	if err != nil {
		return nil, buf, nil
	}
	if size < 4 {
		return nil, buf, nil
	}
	if d.Remaining() < int(size) {
		return nil, buf, nil
	}

	crc, err := d.Int32()
	if err != nil {
		return nil, buf, errors.Wrapf(wire.ErrMalformed, "message at offset %d: truncated header", offset)
	}
	bodyStart := len(buf) - d.Remaining()
	bodyEnd := bodyStart + int(size) - 4

	magic, err := d.Int8()
	if err != nil {
		return nil, buf, errors.Wrapf(wire.ErrMalformed, "message at offset %d: truncated header", offset)
	}
	attrs, err := d.Int8()
	if err != nil {
		return nil, buf, errors.Wrapf(wire.ErrMalformed, "message at offset %d: truncated header", offset)
	}
	key, _, err := d.Bytes()
	if err != nil {
		return nil, buf, errors.Wrapf(err, "message at offset %d: malformed key", offset)
	}
	value, _, err := d.Bytes()
	if err != nil {
		return nil, buf, errors.Wrapf(err, "message at offset %d: malformed value", offset)
	}

	if strict {
		actual := crc32.ChecksumIEEE(buf[bodyStart:bodyEnd])
		if actual != uint32(crc) {
			return nil, buf, errors.Wrapf(ErrCRCMismatch, "offset %d", offset)
		}
	}

	return &Message{
		Offset:     offset,
		MagicByte:  magic,
		Attributes: attrs,
		Key:        key,
		Value:      value,
	}, d.Rest(), nil
}

// crc recomputes the IEEE CRC32 carried by an already-encoded message, for
// tests and diagnostics.
func crc(buf []byte) uint32 {
	if len(buf) < crcSize {
		return 0
	}
	size := int32(binary.BigEndian.Uint32(buf[8:12]))
	end := 12 + int(size)
	if end > len(buf) {
		end = len(buf)
	}
	if end < crcSize {
		return 0
	}
	return crc32.ChecksumIEEE(buf[crcSize:end])
}
