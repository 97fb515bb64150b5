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
	"github.com/pkg/errors"
	"github.com/trivago/gokafka/brokerconn"
	"github.com/trivago/gokafka/internal/config"
	"github.com/trivago/gokafka/protocol/offsetapi"
)

type fetchResult struct {
	offset FetchedOffset
	err    error
}

type fetchRequest struct {
	partition  int32
	leaderConn brokerconn.Conn
	reply      chan fetchResult
}

type generationRequest struct {
	memberID     string
	generationID int32
	done         chan struct{}
}

// Fetch returns the committed offset for partition, falling back to the
// partition's earliest available offset (fetched over leaderConn) when no
// offset has been committed yet, or when the coordinator reports the
// topic or partition as unknown. leaderConn is borrowed for the
// duration of this call only and is never retained by the Manager.
func (m *Manager) Fetch(partition int32, leaderConn brokerconn.Conn) (FetchedOffset, error) {
	req := &fetchRequest{
		partition:  partition,
		leaderConn: leaderConn,
		reply:      make(chan fetchResult, 1),
	}
	select {
	case m.fetchCh <- req:
	case <-m.done:
		return FetchedOffset{}, ErrManagerStopped
	}
	select {
	case res := <-req.reply:
		return res.offset, res.err
	case <-m.done:
		return FetchedOffset{}, ErrManagerStopped
	}
}

func (m *Manager) handleFetch(req *fetchRequest) {
	if !m.validPartition(req.partition) {
		req.reply <- fetchResult{err: ErrUnknownPartition}
		return
	}

	offset, err := m.doFetch(req.partition, req.leaderConn)
	req.reply <- fetchResult{offset: offset, err: err}
}

func (m *Manager) doFetch(partition int32, leaderConn brokerconn.Conn) (FetchedOffset, error) {
	version := int16(0)
	if m.cfg.Storage == config.StorageKafka {
		version = 1
	}

	fetchReq := offsetapi.OffsetFetchRequest{
		Version: version,
		Group:   m.cfg.Group,
		Topics: []offsetapi.OffsetFetchRequestTopic{
			{Topic: m.cfg.Topic, Partitions: []int32{partition}},
		},
	}

	buf, err := m.coordinatorConn.Request(fetchReq)
	if err != nil {
		return FetchedOffset{}, errors.Wrap(err, "offset: fetch request")
	}

	resp, err := offsetapi.DecodeOffsetFetchResponse(buf)
	if err != nil {
		return FetchedOffset{}, errors.Wrap(err, "offset: decode fetch response")
	}

	p, ok := resp.Find(m.cfg.Topic, partition)
	if !ok {
		return FetchedOffset{}, errors.Errorf("offset: fetch response missing partition %d", partition)
	}

	if p.Err.IsNoError() {
		if p.Offset != offsetapi.NoCommittedOffset {
			m.metrics.Fetches.Inc(1)
			return FetchedOffset{Offset: p.Offset, Metadata: p.Metadata}, nil
		}
	} else if !p.Err.RetriesFetchAsEarliest() {
		return FetchedOffset{}, p.Err
	}

	m.metrics.FallbackFetches.Inc(1)
	return m.fetchEarliest(partition, leaderConn)
}

func (m *Manager) fetchEarliest(partition int32, leaderConn brokerconn.Conn) (FetchedOffset, error) {
	offsetReq := offsetapi.OffsetRequest{
		Topics: []offsetapi.OffsetRequestTopic{
			{
				Topic: m.cfg.Topic,
				Partitions: []offsetapi.OffsetRequestPartition{
					{Partition: partition, Time: offsetapi.TimeEarliest, MaxOffsets: 1},
				},
			},
		},
	}

	buf, err := leaderConn.Request(offsetReq)
	if err != nil {
		return FetchedOffset{}, errors.Wrap(err, "offset: earliest-offset fallback request")
	}

	resp, err := offsetapi.DecodeOffsetResponse(buf)
	if err != nil {
		return FetchedOffset{}, errors.Wrap(err, "offset: decode earliest-offset response")
	}

	p, ok := resp.Find(m.cfg.Topic, partition)
	if !ok {
		return FetchedOffset{}, errors.Errorf("offset: earliest-offset response missing partition %d", partition)
	}
	if !p.Err.IsNoError() {
		return FetchedOffset{}, p.Err
	}
	if len(p.Offsets) == 0 {
		return FetchedOffset{Offset: 0}, nil
	}
	return FetchedOffset{Offset: p.Offsets[0]}, nil
}
