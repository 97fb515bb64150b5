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

package testutil

import (
	"sync"

	"github.com/trivago/gokafka/protocol"
)

// ScriptedResponse is either a response body (possibly nil, for requests
// with no response) or a transport error, queued by test setup and
// returned in FIFO order from the next matching Request call.
type ScriptedResponse struct {
	Body []byte
	Err  error
}

// FakeConn is a scriptable brokerconn.Conn stand-in: each Request call
// pops the next queued ScriptedResponse (or returns ErrConnExhausted if
// the script ran dry) and records the request it was given so a test can
// assert on what the offset manager actually sent.
type FakeConn struct {
	mu        sync.Mutex
	script    []ScriptedResponse
	requests  []protocol.Request
	closed    bool
	closeErr  error
	closeHook func()
}

// NewFakeConn returns a FakeConn with an empty script.
func NewFakeConn() *FakeConn {
	return &FakeConn{}
}

// Push appends a scripted reply to be returned by the next Request call.
func (f *FakeConn) Push(body []byte, err error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.script = append(f.script, ScriptedResponse{Body: body, Err: err})
}

// OnClose registers a hook invoked the first time Close is called.
func (f *FakeConn) OnClose(hook func()) {
	f.closeHook = hook
}

// Request implements brokerconn.Conn.
func (f *FakeConn) Request(req protocol.Request) ([]byte, error) {
	f.mu.Lock()
	defer f.mu.Unlock()

	f.requests = append(f.requests, req)
	if len(f.script) == 0 {
		return nil, ErrConnExhausted
	}
	next := f.script[0]
	f.script = f.script[1:]
	if !req.HasResponse() {
		return nil, next.Err
	}
	return next.Body, next.Err
}

// Close implements brokerconn.Conn. It is idempotent.
func (f *FakeConn) Close() error {
	f.mu.Lock()
	alreadyClosed := f.closed
	f.closed = true
	f.mu.Unlock()

	if !alreadyClosed && f.closeHook != nil {
		f.closeHook()
	}
	return f.closeErr
}

// Closed reports whether Close has been called.
func (f *FakeConn) Closed() bool {
	f.mu.Lock()
	defer f.mu.Unlock()
	return f.closed
}

// Requests returns every request passed to Request so far, in order.
func (f *FakeConn) Requests() []protocol.Request {
	f.mu.Lock()
	defer f.mu.Unlock()
	out := make([]protocol.Request, len(f.requests))
	copy(out, f.requests)
	return out
}

// ErrConnExhausted is returned by FakeConn.Request when its script has no
// more queued responses.
var ErrConnExhausted = fakeConnExhausted{}

type fakeConnExhausted struct{}

func (fakeConnExhausted) Error() string { return "testutil: fake connection script exhausted" }
