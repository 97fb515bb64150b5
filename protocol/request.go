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

// Package protocol implements the Kafka request/response envelope: the
// four-field header every request carries, and the correlation-id
// stripping every response decode starts with. Per-API payloads live in
// sibling packages such as protocol/offsetapi and implement the Request
// interface defined here.
package protocol

import "github.com/trivago/gokafka/wire"

// Request is the capability every in-scope API request type implements,
// modeled after sarama's encoder/decoder protocol objects: each API module
// knows its own key, version and whether the broker replies, and knows
// how to serialize its own payload (the header is this package's job, not
// the API's).
type Request interface {
	APIKey() int16
	APIVersion() int16
	HasResponse() bool
	Encode(e *wire.Encoder)
}

// EncodeRequest serializes the full request: header followed by the
// API-specific payload. The header is
// api_key(2) | api_version(2) | correlation_id(4) | STRING(client_id).
func EncodeRequest(clientID string, correlationID int32, req Request) []byte {
	e := wire.NewEncoder(64)
	e.PutInt16(req.APIKey())
	e.PutInt16(req.APIVersion())
	e.PutInt32(correlationID)
	e.PutString(clientID)
	req.Encode(e)
	return e.Bytes()
}

// DecodeResponseHeader strips the correlation id a response body is
// framed with and returns it alongside the remaining API-specific bytes,
// which the caller hands to the matching API's own decoder.
func DecodeResponseHeader(buf []byte) (correlationID int32, rest []byte, err error) {
	d := wire.NewDecoder(buf)
	correlationID, err = d.Int32()
	if err != nil {
		return 0, nil, err
	}
	return correlationID, d.Rest(), nil
}
