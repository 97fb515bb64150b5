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

// Package brokerconn implements the Connection adapter the offset manager
// treats as an opaque capability: a synchronous send-and-receive over a
// connection to a single Kafka broker, with internal correlation-id
// matching.
package brokerconn

import (
	"github.com/trivago/gokafka/protocol"
)

// Conn is the capability the offset manager depends on. Request sends req
// and, if req.HasResponse() is true, blocks for the matching reply and
// returns its body with the correlation id already stripped (ready for
// the caller's API-specific decoder). Close is idempotent.
//
// Implementations own exactly one underlying transport connection; the
// offset manager never retains a Conn across calls to offset_fetch's
// leader connection - it borrows it for one Request and nothing more.
type Conn interface {
	Request(req protocol.Request) ([]byte, error)
	Close() error
}
