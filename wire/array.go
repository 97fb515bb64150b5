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

// EncodeArray writes an ARRAY<T>: the INT32 count n followed by each
// element written by putElem, in order. An empty array (n == 0) still
// encodes its INT32(0) count - unlike STRING/BYTES this is never collapsed
// to NULL.
func EncodeArray(e *Encoder, n int, putElem func(i int)) {
	e.PutArrayLen(n)
	for i := 0; i < n; i++ {
		putElem(i)
	}
}

// DecodeArray reads an ARRAY<T> length and invokes getElem once per
// element so the caller can decode into its own typed slice.
func DecodeArray(d *Decoder, getElem func(i int) error) (int, error) {
	n, err := d.ArrayLen()
	if err != nil {
		return 0, err
	}
	for i := 0; i < n; i++ {
		if err := getElem(i); err != nil {
			return n, err
		}
	}
	return n, nil
}
