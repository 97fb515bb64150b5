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

package brokerconn

import (
	"encoding/binary"
	"io"
	"net"
	"sync"
	"sync/atomic"
	"time"

	"github.com/Shopify/sarama"
	"github.com/pkg/errors"
	"github.com/trivago/gokafka/protocol"
)

// ErrCorrelationMismatch is returned when a broker replies with a
// correlation id that does not match the request just sent - a protocol
// violation that leaves the connection's framing unrecoverable.
var ErrCorrelationMismatch = errors.New("brokerconn: response correlation id did not match request")

// TCPConn is a Conn backed by a single plain TCP connection to one
// broker. Connection tuning (dial/read/write timeouts, client id) is
// taken from a *sarama.Config, the same struct consumer/kafka.go
// configures for sarama's own client, so a host application shares one
// set of connection knobs across both.
type TCPConn struct {
	addr   string
	cfg    *sarama.Config
	mu     sync.Mutex
	conn   net.Conn
	nextID int32
	closed int32
}

// Dial opens a TCPConn to addr using cfg's network timeouts and client id.
func Dial(addr string, cfg *sarama.Config) (*TCPConn, error) {
	if cfg == nil {
		cfg = sarama.NewConfig()
	}
	dialer := net.Dialer{Timeout: cfg.Net.DialTimeout, KeepAlive: cfg.Net.KeepAlive}
	conn, err := dialer.Dial("tcp", addr)
	if err != nil {
		return nil, errors.Wrapf(err, "brokerconn: dial %s", addr)
	}
	return &TCPConn{addr: addr, cfg: cfg, conn: conn}, nil
}

// Request implements Conn.
func (c *TCPConn) Request(req protocol.Request) ([]byte, error) {
	c.mu.Lock()
	defer c.mu.Unlock()

	if atomic.LoadInt32(&c.closed) != 0 {
		return nil, errors.New("brokerconn: connection closed")
	}

	correlationID := atomic.AddInt32(&c.nextID, 1)
	body := protocol.EncodeRequest(c.cfg.ClientID, correlationID, req)

	if err := c.writeFrame(body); err != nil {
		return nil, errors.Wrap(err, "brokerconn: write request")
	}
	if !req.HasResponse() {
		return nil, nil
	}

	frame, err := c.readFrame()
	if err != nil {
		return nil, errors.Wrap(err, "brokerconn: read response")
	}

	gotID, rest, err := protocol.DecodeResponseHeader(frame)
	if err != nil {
		return nil, errors.Wrap(err, "brokerconn: decode response header")
	}
	if gotID != correlationID {
		return nil, ErrCorrelationMismatch
	}
	return rest, nil
}

// Close implements Conn. It is idempotent.
func (c *TCPConn) Close() error {
	if !atomic.CompareAndSwapInt32(&c.closed, 0, 1) {
		return nil
	}
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.conn.Close()
}

func (c *TCPConn) writeFrame(body []byte) error {
	if c.cfg.Net.WriteTimeout > 0 {
		c.conn.SetWriteDeadline(time.Now().Add(c.cfg.Net.WriteTimeout))
	}
	var sizeBuf [4]byte
	binary.BigEndian.PutUint32(sizeBuf[:], uint32(len(body)))
	if _, err := c.conn.Write(sizeBuf[:]); err != nil {
		return err
	}
	_, err := c.conn.Write(body)
	return err
}

func (c *TCPConn) readFrame() ([]byte, error) {
	if c.cfg.Net.ReadTimeout > 0 {
		c.conn.SetReadDeadline(time.Now().Add(c.cfg.Net.ReadTimeout))
	}
	var sizeBuf [4]byte
	if _, err := io.ReadFull(c.conn, sizeBuf[:]); err != nil {
		return nil, err
	}
	size := binary.BigEndian.Uint32(sizeBuf[:])
	buf := make([]byte, size)
	if _, err := io.ReadFull(c.conn, buf); err != nil {
		return nil, err
	}
	return buf, nil
}
