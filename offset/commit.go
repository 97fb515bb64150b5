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

package offset

import (
	"time"

	"github.com/pkg/errors"
	"github.com/trivago/gokafka/internal/config"
	"github.com/trivago/gokafka/internal/log"
	"github.com/trivago/gokafka/protocol/offsetapi"
)

type commitRequest struct {
	partition int32
	offset    int64
	metadata  string
	reply     chan error
}

// Commit records a committed offset for partition. Under auto_commit it
// is buffered and acknowledged immediately; under synchronous commit it
// blocks for the broker's reply.
func (m *Manager) Commit(partition int32, offset int64, metadata string) error {
	req := &commitRequest{
		partition: partition,
		offset:    offset,
		metadata:  metadata,
		reply:     make(chan error, 1),
	}
	select {
	case m.commitCh <- req:
	case <-m.done:
		return ErrManagerStopped
	}
	select {
	case err := <-req.reply:
		return err
	case <-m.done:
		return ErrManagerStopped
	}
}

func (m *Manager) handleCommit(req *commitRequest) {
	if !m.validPartition(req.partition) {
		req.reply <- ErrUnknownPartition
		return
	}

	if !m.cfg.AutoCommit {
		req.reply <- m.commitSync(req.partition, req.offset, req.metadata)
		return
	}

	m.pending[req.partition] = pendingOffset{offset: req.offset, metadata: req.metadata}
	req.reply <- nil
	m.metrics.BufferedPartitions.Update(int64(len(m.pending)))

	switch {
	case len(m.pending) >= m.cfg.MaxBuffers:
		if m.timer != nil {
			m.timer.Stop()
			m.timer = nil
		}
		m.flush()
	case m.timer == nil:
		m.timer = time.NewTimer(m.cfg.Interval)
	}
}

// commitSync issues a one-partition OffsetCommit and waits for its reply,
// used when auto_commit is disabled.
func (m *Manager) commitSync(partition int32, offset int64, metadata string) error {
	batch := map[int32]pendingOffset{partition: {offset: offset, metadata: metadata}}
	resp, err := m.sendCommit(batch)
	if err != nil {
		return err
	}
	p, ok := resp.Find(m.cfg.Topic, partition)
	if !ok {
		return errors.Errorf("offset: commit response missing partition %d", partition)
	}
	if !p.Err.IsNoError() {
		return p.Err
	}
	m.metrics.Commits.Inc(1)
	return nil
}

// flush drains the pending buffer and issues a single batched
// OffsetCommit. It is called both from the timer firing and from an
// overflow triggered by handleCommit; per-partition errors are published
// on errCh rather than returned, since nothing is blocked waiting on them.
func (m *Manager) flush() {
	if len(m.pending) == 0 {
		return
	}
	batch := m.pending
	m.pending = make(map[int32]pendingOffset)
	m.metrics.BufferedPartitions.Update(0)

	resp, err := m.sendCommit(batch)
	if err != nil {
		log.Warning(log.Fields{"group": m.cfg.Group, "topic": m.cfg.Topic}, "offset commit flush failed: %s", err)
		for partition, p := range batch {
			m.publishError(CommitError{Partition: partition, Offset: p.offset, Err: err})
		}
		return
	}

	m.metrics.Commits.Inc(int64(len(batch)))
	for _, p := range resp.Errors() {
		m.metrics.CommitErrors.Inc(1)
		m.publishError(CommitError{Partition: p.Partition, Offset: batch[p.Partition].offset, Err: p.Err})
	}
}

func (m *Manager) sendCommit(batch map[int32]pendingOffset) (*offsetapi.OffsetCommitResponse, error) {
	version := int16(0)
	if m.cfg.Storage == config.StorageKafka {
		version = 1
	}

	partitions := make([]offsetapi.OffsetCommitRequestPartition, 0, len(batch))
	for partition, p := range batch {
		partitions = append(partitions, offsetapi.OffsetCommitRequestPartition{
			Partition: partition,
			Offset:    p.offset,
			Metadata:  p.metadata,
		})
	}

	req := offsetapi.OffsetCommitRequest{
		Version:           version,
		Group:             m.cfg.Group,
		GroupGenerationID: m.generationID,
		ConsumerID:        m.memberID,
		Topics: []offsetapi.OffsetCommitRequestTopic{
			{Topic: m.cfg.Topic, Partitions: partitions},
		},
	}

	buf, err := m.coordinatorConn.Request(req)
	if err != nil {
		return nil, errors.Wrap(err, "offset: commit request")
	}
	return offsetapi.DecodeOffsetCommitResponse(buf)
}
