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

// EncodeSet concatenates the wire encoding of each message in order. There
// is no outer length prefix - a MessageSet is framed entirely by its
// surrounding request/response body.
func EncodeSet(msgs []Message) []byte {
	out := make([]byte, 0, len(msgs)*64)
	for _, m := range msgs {
		out = append(out, Encode(m)...)
	}
	return out
}

// DecodeSet decodes a concatenation of records, stopping cleanly - without
// error - at the first record whose declared size runs past the end of
// buf. This tolerates the tail truncation the broker produces when a fetch
// response is cut off mid-record.
func DecodeSet(buf []byte, strict bool) ([]Message, error) {
	var out []Message
	for len(buf) > 0 {
		msg, rest, err := Decode(buf, strict)
		if err != nil {
			return out, err
		}
		if msg == nil {
			break
		}
		out = append(out, *msg)
		buf = rest
	}
	return out, nil
}
