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

package protocol

import (
	"testing"

	"github.com/trivago/gokafka/internal/testutil"
	"github.com/trivago/gokafka/wire"
)

type fakeRequest struct{ payload string }

func (r fakeRequest) APIKey() int16      { return 42 }
func (r fakeRequest) APIVersion() int16  { return 3 }
func (r fakeRequest) HasResponse() bool  { return true }
func (r fakeRequest) Encode(e *wire.Encoder) {
	e.PutString(r.payload)
}

func TestEncodeRequestEnvelope(t *testing.T) {
	expect := testutil.NewExpect(t)

	buf := EncodeRequest("my-client", 7, fakeRequest{payload: "hi"})
	d := wire.NewDecoder(buf)

	apiKey, err := d.Int16()
	expect.NoError(err)
	expect.Equal(int16(42), apiKey)

	apiVersion, err := d.Int16()
	expect.NoError(err)
	expect.Equal(int16(3), apiVersion)

	correlationID, err := d.Int32()
	expect.NoError(err)
	expect.Equal(int32(7), correlationID)

	clientID, ok, err := d.String()
	expect.NoError(err)
	expect.True(ok)
	expect.StringEq("my-client", clientID)

	payload, ok, err := d.String()
	expect.NoError(err)
	expect.True(ok)
	expect.StringEq("hi", payload)
}

func TestDecodeResponseHeader(t *testing.T) {
	expect := testutil.NewExpect(t)

	e := wire.NewEncoder(16)
	e.PutInt32(99)
	e.PutString("body")

	correlationID, rest, err := DecodeResponseHeader(e.Bytes())
	expect.NoError(err)
	expect.Equal(int32(99), correlationID)

	d := wire.NewDecoder(rest)
	body, ok, err := d.String()
	expect.NoError(err)
	expect.True(ok)
	expect.StringEq("body", body)
}
