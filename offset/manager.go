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

// Package offset implements the consumer offset manager: a single-actor
// component owning a coordinator connection, a pending-commit buffer, a
// flush timer and the (member_id, generation_id) fencing tokens. It
// batches and commits partition offsets, fetches previously committed
// offsets with an earliest-offset fallback, and cooperates with the
// broker's generation-id fencing protocol.
package offset

import (
	"time"

	"github.com/pkg/errors"
	"github.com/trivago/gokafka/brokerconn"
	"github.com/trivago/gokafka/internal/config"
	"github.com/trivago/gokafka/internal/log"
	"github.com/trivago/gokafka/internal/metrics"
)

// ErrUnknownPartition is returned synchronously, without touching the
// connection, when a requested partition falls outside [0, partitions).
var ErrUnknownPartition = errors.New("offset: unknown partition")

// ErrManagerStopped is returned by any operation issued after Stop has
// been called (or while it is in flight).
var ErrManagerStopped = errors.New("offset: manager stopped")

// FetchedOffset is the result of a successful Fetch: either a previously
// committed offset, or the broker's earliest log offset when none had
// been committed yet.
type FetchedOffset struct {
	Offset   int64
	Metadata string
}

// CommitError is published on Manager.Errors() when a buffered
// auto-commit flush receives a per-partition broker error, or once per
// buffered partition when the flush request itself fails. It does not
// block the actor: the channel holds up to 8 errors, and further errors
// are dropped (with a logged warning) while it is full.
type CommitError struct {
	Partition int32
	Offset    int64
	Err       error
}

type pendingOffset struct {
	offset   int64
	metadata string
}

// Manager is the per-(group, topic) offset manager actor described in
// spec section 4.3. All of its mutable state - pending, memberID,
// generationID, timer - is owned exclusively by the goroutine started in
// NewManager; every other method communicates with it over a channel and
// blocks for a reply.
type Manager struct {
	cfg             config.Config
	clientID        string
	coordinatorConn brokerconn.Conn
	metrics         *metrics.Manager

	memberID     string
	generationID int32
	pending      map[int32]pendingOffset
	timer        *time.Timer

	commitCh     chan *commitRequest
	fetchCh      chan *fetchRequest
	generationCh chan *generationRequest
	stopCh       chan struct{}
	done         chan struct{}
	errCh        chan CommitError
}

// NewManager starts the actor goroutine and returns a handle to it.
// coordinatorConn is owned exclusively by the returned Manager from this
// point on; it is closed when the actor exits, before Stop returns.
func NewManager(cfg config.Config, coordinatorConn brokerconn.Conn, clientID string) *Manager {
	m := &Manager{
		cfg:             cfg,
		clientID:        clientID,
		coordinatorConn: coordinatorConn,
		metrics:         metrics.NewManager(cfg.Group, cfg.Topic),
		pending:         make(map[int32]pendingOffset),
		commitCh:        make(chan *commitRequest),
		fetchCh:         make(chan *fetchRequest),
		generationCh:    make(chan *generationRequest),
		stopCh:          make(chan struct{}),
		done:            make(chan struct{}),
		errCh:           make(chan CommitError, 8),
	}
	go m.run()
	return m
}

// Errors returns the channel buffered auto-commit flush failures are
// published on (spec section 9's open question, answered as option (a):
// surface to a subscriber channel rather than retry or tear down).
func (m *Manager) Errors() <-chan CommitError {
	return m.errCh
}

// UpdateGeneration replaces the fencing tokens used by subsequent
// commits. It always succeeds unless the manager has already stopped.
func (m *Manager) UpdateGeneration(memberID string, generationID int32) error {
	req := &generationRequest{memberID: memberID, generationID: generationID, done: make(chan struct{})}
	select {
	case m.generationCh <- req:
	case <-m.done:
		return ErrManagerStopped
	}
	select {
	case <-req.done:
		return nil
	case <-m.done:
		return ErrManagerStopped
	}
}

// Stop terminates the actor, closing the coordinator connection. It is
// safe to call more than once.
func (m *Manager) Stop() error {
	select {
	case m.stopCh <- struct{}{}:
	case <-m.done:
		return nil
	}
	<-m.done
	return nil
}

func (m *Manager) run() {
	defer close(m.done)
	defer m.terminate()

	for {
		var timerC <-chan time.Time
		if m.timer != nil {
			timerC = m.timer.C
		}

		select {
		case req := <-m.commitCh:
			m.handleCommit(req)

		case req := <-m.fetchCh:
			m.handleFetch(req)

		case req := <-m.generationCh:
			m.memberID = req.memberID
			m.generationID = req.generationID
			close(req.done)

		case <-m.stopCh:
			return

		case <-timerC:
			m.timer = nil
			m.flush()
		}
	}
}

func (m *Manager) terminate() {
	if m.timer != nil {
		m.timer.Stop()
		m.timer = nil
	}
	if err := m.coordinatorConn.Close(); err != nil {
		log.Warning(log.Fields{"group": m.cfg.Group, "topic": m.cfg.Topic}, "error closing coordinator connection: %s", err)
	}
}

func (m *Manager) validPartition(partition int32) bool {
	return partition >= 0 && partition < m.cfg.Partitions
}

func (m *Manager) publishError(ce CommitError) {
	select {
	case m.errCh <- ce:
	default:
		log.Warning(log.Fields{
			"group":     m.cfg.Group,
			"topic":     m.cfg.Topic,
			"partition": ce.Partition,
		}, "dropped commit error, no reader on Errors(): %s", ce.Err)
	}
}
