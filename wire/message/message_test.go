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

package message

import (
	"testing"

	"github.com/trivago/gokafka/internal/testutil"
)

func TestEncodeMessageValueOnly(t *testing.T) {
	expect := testutil.NewExpect(t)

	b := Encode(Message{Value: []byte("hey")})
	expected := []byte{
		0x00, 0x00, 0x00, 0x00, 0x00, 0x00, 0x00, 0x00, // offset 0
		0x00, 0x00, 0x00, 0x11, // size 17
		0xFE, 0x2E, 0x6B, 0x9D, // crc
		0x00, // magic
		0x00, // attributes
		0xFF, 0xFF, 0xFF, 0xFF, // key NULL
		0x00, 0x00, 0x00, 0x03, 0x68, 0x65, 0x79, // value "hey"
	}
	expect.BytesEq(expected, b)
}

func TestEncodeMessageKeyAndValue(t *testing.T) {
	expect := testutil.NewExpect(t)

	b := Encode(Message{Key: []byte("key"), Value: []byte("hey")})
	expected := []byte{
		0x00, 0x00, 0x00, 0x00, 0x00, 0x00, 0x00, 0x00, // offset 0
		0x00, 0x00, 0x00, 0x14, // size 20
		0x9C, 0x97, 0xFF, 0x8F, // crc
		0x00, // magic
		0x00, // attributes
		0x00, 0x00, 0x00, 0x03, 0x6B, 0x65, 0x79, // key "key"
		0x00, 0x00, 0x00, 0x03, 0x68, 0x65, 0x79, // value "hey"
	}
	expect.BytesEq(expected, b)
}

func TestMessageRoundTrip(t *testing.T) {
	expect := testutil.NewExpect(t)

	m := Message{Offset: 42, MagicByte: 0, Attributes: 0, Key: []byte("k"), Value: []byte("v")}
	b := Encode(m)

	got, rest, err := Decode(b, true)
	expect.NoError(err)
	expect.NotNil(got)
	expect.IntEq(0, len(rest))
	expect.Int64Eq(m.Offset, got.Offset)
	expect.Equal(m.MagicByte, got.MagicByte)
	expect.Equal(m.Attributes, got.Attributes)
	expect.BytesEq(m.Key, got.Key)
	expect.BytesEq(m.Value, got.Value)
}

func TestMessageStrictCRCMismatch(t *testing.T) {
	expect := testutil.NewExpect(t)

	b := Encode(Message{Value: []byte("hey")})
	b[12] ^= 0xFF // corrupt the crc byte

	_, _, err := Decode(b, true)
	expect.NotNil(err)
}

func TestMessageTolerantModeSkipsCRC(t *testing.T) {
	expect := testutil.NewExpect(t)

	b := Encode(Message{Value: []byte("hey")})
	b[12] ^= 0xFF

	got, _, err := Decode(b, false)
	expect.NoError(err)
	expect.NotNil(got)
}

func TestMessageSetRoundTrip(t *testing.T) {
	expect := testutil.NewExpect(t)

	msgs := []Message{
		{Offset: 0, Value: []byte("a")},
		{Offset: 1, Value: []byte("b")},
		{Offset: 2, Key: []byte("k"), Value: []byte("c")},
	}
	buf := EncodeSet(msgs)

	got, err := DecodeSet(buf, true)
	expect.NoError(err)
	expect.IntEq(len(msgs), len(got))
	for i := range msgs {
		expect.Int64Eq(msgs[i].Offset, got[i].Offset)
		expect.BytesEq(msgs[i].Key, got[i].Key)
		expect.BytesEq(msgs[i].Value, got[i].Value)
	}
}

func TestCRCHelperMatchesEmbeddedCRC(t *testing.T) {
	expect := testutil.NewExpect(t)

	b := Encode(Message{Key: []byte("key"), Value: []byte("hey")})
	embedded := uint32(b[12])<<24 | uint32(b[13])<<16 | uint32(b[14])<<8 | uint32(b[15])
	expect.Equal(embedded, crc(b))
}

func TestMessageSetTruncatedTail(t *testing.T) {
	expect := testutil.NewExpect(t)

	msgs := []Message{
		{Offset: 0, Value: []byte("aaaa")},
		{Offset: 1, Value: []byte("bbbb")},
	}
	full := EncodeSet(msgs)
	firstLen := len(Encode(msgs[0]))

	// Truncate strictly inside the second record.
	truncated := full[:firstLen+5]

	got, err := DecodeSet(truncated, true)
	expect.NoError(err)
	expect.IntEq(1, len(got))
	expect.Int64Eq(msgs[0].Offset, got[0].Offset)
}
