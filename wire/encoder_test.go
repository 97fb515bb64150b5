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
	"testing"

	"github.com/trivago/gokafka/internal/testutil"
)

func TestEncodeBytes(t *testing.T) {
	expect := testutil.NewExpect(t)

	e := NewEncoder(16)
	e.PutBytes([]byte("hey"))
	expect.BytesEq([]byte{0x00, 0x00, 0x00, 0x03, 0x68, 0x65, 0x79}, e.Bytes())

	e = NewEncoder(16)
	e.PutBytes(nil)
	expect.BytesEq([]byte{0xFF, 0xFF, 0xFF, 0xFF}, e.Bytes())

	e = NewEncoder(16)
	e.PutBytes([]byte(""))
	expect.BytesEq([]byte{0xFF, 0xFF, 0xFF, 0xFF}, e.Bytes())
}

func TestEncodeString(t *testing.T) {
	expect := testutil.NewExpect(t)

	e := NewEncoder(16)
	e.PutString("hey")
	expect.BytesEq([]byte{0x00, 0x03, 0x68, 0x65, 0x79}, e.Bytes())

	e = NewEncoder(16)
	e.PutNullString()
	expect.BytesEq([]byte{0xFF, 0xFF}, e.Bytes())

	e = NewEncoder(16)
	e.PutString("")
	expect.BytesEq([]byte{0xFF, 0xFF}, e.Bytes())
}

func TestBytesRoundTrip(t *testing.T) {
	expect := testutil.NewExpect(t)

	cases := [][]byte{nil, []byte(""), []byte("a"), []byte("hello world"), make([]byte, 300)}
	for _, c := range cases {
		e := NewEncoder(16)
		e.PutBytes(c)

		d := NewDecoder(e.Bytes())
		got, ok, err := d.Bytes()
		expect.NoError(err)
		expect.IntEq(0, d.Remaining())

		if len(c) == 0 {
			expect.False(ok)
			expect.Nil(got)
		} else {
			expect.True(ok)
			expect.BytesEq(c, got)
		}
	}
}

func TestStringRoundTrip(t *testing.T) {
	expect := testutil.NewExpect(t)

	cases := []string{"", "a", "hello world"}
	for _, c := range cases {
		e := NewEncoder(16)
		e.PutString(c)

		d := NewDecoder(e.Bytes())
		got, ok, err := d.String()
		expect.NoError(err)
		expect.IntEq(0, d.Remaining())

		if len(c) == 0 {
			expect.False(ok)
			expect.StringEq("", got)
		} else {
			expect.True(ok)
			expect.StringEq(c, got)
		}
	}
}

func TestOnWireZeroLengthIsLegalOnDecode(t *testing.T) {
	expect := testutil.NewExpect(t)

	// A literal INT32(0) BYTES length (not -1) must decode to ("", true),
	// even though the encoder never produces one itself.
	d := NewDecoder([]byte{0x00, 0x00, 0x00, 0x00})
	got, ok, err := d.Bytes()
	expect.NoError(err)
	expect.True(ok)
	expect.IntEq(0, len(got))

	d = NewDecoder([]byte{0x00, 0x00})
	s, ok, err := d.String()
	expect.NoError(err)
	expect.True(ok)
	expect.StringEq("", s)
}

func TestArrayRoundTrip(t *testing.T) {
	expect := testutil.NewExpect(t)

	xs := []int32{1, 2, 3, 4, 5}
	e := NewEncoder(32)
	EncodeArray(e, len(xs), func(i int) { e.PutInt32(xs[i]) })

	d := NewDecoder(e.Bytes())
	var got []int32
	n, err := DecodeArray(d, func(i int) error {
		v, err := d.Int32()
		if err != nil {
			return err
		}
		got = append(got, v)
		return nil
	})
	expect.NoError(err)
	expect.IntEq(len(xs), n)
	expect.Equal(xs, got)
	expect.IntEq(0, d.Remaining())
}

func TestEmptyArrayIsNotNull(t *testing.T) {
	expect := testutil.NewExpect(t)

	e := NewEncoder(8)
	EncodeArray(e, 0, func(i int) {})
	expect.BytesEq([]byte{0x00, 0x00, 0x00, 0x00}, e.Bytes())
}

func TestDecodeInsufficientData(t *testing.T) {
	expect := testutil.NewExpect(t)

	d := NewDecoder([]byte{0x00, 0x00, 0x00})
	_, err := d.Int32()
	expect.True(err == ErrInsufficientData)
}

func TestDecodeLengthPastBufferIsMalformed(t *testing.T) {
	expect := testutil.NewExpect(t)

	// BYTES declares length=5 but only 2 bytes follow: the length prefix
	// itself is trusted data describing what comes after it, so this is a
	// malformed declaration, not ordinary truncation.
	d := NewDecoder([]byte{0x00, 0x00, 0x00, 0x05, 0x68, 0x65})
	_, _, err := d.Bytes()
	expect.True(err == ErrMalformed)
}
