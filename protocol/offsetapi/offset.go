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

// Package offsetapi implements the three per-API request/response pairs
// this module is in scope for: Offset (api_key=2), OffsetCommit
// (api_key=8, v0/v1) and OffsetFetch (api_key=9, v0/v1).
package offsetapi

import (
	"github.com/trivago/gokafka/kerr"
	"github.com/trivago/gokafka/wire"
)

// Time sentinels for an OffsetRequestPartition's Time field.
const (
	TimeEarliest int64 = -2
	TimeLatest   int64 = -1
)

const apiKeyOffset = 2

// OffsetRequestPartition asks for up to MaxOffsets offsets at or before
// Time (a timestamp in Unix ms, or one of the TimeEarliest/TimeLatest
// sentinels).
type OffsetRequestPartition struct {
	Partition  int32
	Time       int64
	MaxOffsets int32
}

// OffsetRequestTopic groups partitions under the topic they belong to.
type OffsetRequestTopic struct {
	Topic      string
	Partitions []OffsetRequestPartition
}

// OffsetRequest is the v0 Offset API request. ReplicaID is always -1 for
// a consumer client.
type OffsetRequest struct {
	Topics []OffsetRequestTopic
}

// APIKey implements protocol.Request.
func (r OffsetRequest) APIKey() int16 { return apiKeyOffset }

// APIVersion implements protocol.Request.
func (r OffsetRequest) APIVersion() int16 { return 0 }

// HasResponse implements protocol.Request.
func (r OffsetRequest) HasResponse() bool { return true }

// Encode implements protocol.Request.
func (r OffsetRequest) Encode(e *wire.Encoder) {
	e.PutInt32(-1) // replica_id
	wire.EncodeArray(e, len(r.Topics), func(i int) {
		t := r.Topics[i]
		e.PutString(t.Topic)
		wire.EncodeArray(e, len(t.Partitions), func(j int) {
			p := t.Partitions[j]
			e.PutInt32(p.Partition)
			e.PutInt64(p.Time)
			e.PutInt32(p.MaxOffsets)
		})
	})
}

// OffsetResponsePartition carries the broker's reply for one partition.
type OffsetResponsePartition struct {
	Partition int32
	Err       kerr.Error
	Offsets   []int64
}

// OffsetResponseTopic groups OffsetResponsePartition by topic.
type OffsetResponseTopic struct {
	Topic      string
	Partitions []OffsetResponsePartition
}

// OffsetResponse is the decoded v0 Offset API response body (the
// correlation id has already been stripped by protocol.DecodeResponseHeader).
type OffsetResponse struct {
	Topics []OffsetResponseTopic
}

// DecodeOffsetResponse decodes buf into an OffsetResponse.
func DecodeOffsetResponse(buf []byte) (*OffsetResponse, error) {
	d := wire.NewDecoder(buf)
	resp := &OffsetResponse{}

	_, err := wire.DecodeArray(d, func(i int) error {
		topic, _, err := d.String()
		if err != nil {
			return err
		}
		rt := OffsetResponseTopic{Topic: topic}

		_, err = wire.DecodeArray(d, func(j int) error {
			partition, err := d.Int32()
			if err != nil {
				return err
			}
			code, err := d.Int16()
			if err != nil {
				return err
			}
			var offsets []int64
			_, err = wire.DecodeArray(d, func(k int) error {
				off, err := d.Int64()
				if err != nil {
					return err
				}
				offsets = append(offsets, off)
				return nil
			})
			if err != nil {
				return err
			}
			rt.Partitions = append(rt.Partitions, OffsetResponsePartition{
				Partition: partition,
				Err:       kerr.Error(code),
				Offsets:   offsets,
			})
			return nil
		})
		if err != nil {
			return err
		}
		resp.Topics = append(resp.Topics, rt)
		return nil
	})
	if err != nil {
		return nil, err
	}
	return resp, nil
}

// Find returns the partition entry for (topic, partition), if present.
func (r *OffsetResponse) Find(topic string, partition int32) (OffsetResponsePartition, bool) {
	for _, t := range r.Topics {
		if t.Topic != topic {
			continue
		}
		for _, p := range t.Partitions {
			if p.Partition == partition {
				return p, true
			}
		}
	}
	return OffsetResponsePartition{}, false
}
