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

package offsetapi

import (
	"github.com/trivago/gokafka/kerr"
	"github.com/trivago/gokafka/wire"
)

const apiKeyOffsetCommit = 8

// NoTimestamp is encoded for a v1 partition's timestamp field when the
// caller leaves it unset, meaning "broker-assigned".
const NoTimestamp int64 = -1

// OffsetCommitRequestPartition carries a single partition's committed
// offset and opaque metadata.
type OffsetCommitRequestPartition struct {
	Partition int32
	Offset    int64
	Metadata  string
}

// OffsetCommitRequestTopic groups partitions under the topic they belong to.
type OffsetCommitRequestTopic struct {
	Topic      string
	Partitions []OffsetCommitRequestPartition
}

// OffsetCommitRequest is the OffsetCommit API request, either v0
// (ZooKeeper-backed storage) or v1 (Kafka-backed storage). v1 adds
// GroupGenerationID and ConsumerID between Group and Topics, and a
// per-partition Timestamp field.
type OffsetCommitRequest struct {
	Version           int16
	Group             string
	GroupGenerationID int32 // v1 only
	ConsumerID        string // v1 only
	Topics            []OffsetCommitRequestTopic
}

// APIKey implements protocol.Request.
func (r OffsetCommitRequest) APIKey() int16 { return apiKeyOffsetCommit }

// APIVersion implements protocol.Request.
func (r OffsetCommitRequest) APIVersion() int16 { return r.Version }

// HasResponse implements protocol.Request.
func (r OffsetCommitRequest) HasResponse() bool { return true }

// Encode implements protocol.Request.
func (r OffsetCommitRequest) Encode(e *wire.Encoder) {
	e.PutString(r.Group)
	if r.Version >= 1 {
		e.PutInt32(r.GroupGenerationID)
		e.PutString(r.ConsumerID)
	}
	wire.EncodeArray(e, len(r.Topics), func(i int) {
		t := r.Topics[i]
		e.PutString(t.Topic)
		wire.EncodeArray(e, len(t.Partitions), func(j int) {
			p := t.Partitions[j]
			e.PutInt32(p.Partition)
			e.PutInt64(p.Offset)
			if r.Version >= 1 {
				e.PutInt64(NoTimestamp) // broker-assigned; callers never set this
			}
			e.PutString(p.Metadata)
		})
	})
}

// OffsetCommitResponsePartition carries the per-partition commit result.
type OffsetCommitResponsePartition struct {
	Partition int32
	Err       kerr.Error
}

// OffsetCommitResponseTopic groups OffsetCommitResponsePartition by topic.
type OffsetCommitResponseTopic struct {
	Topic      string
	Partitions []OffsetCommitResponsePartition
}

// OffsetCommitResponse is the decoded OffsetCommit response body; v0 and
// v1 share the same response shape.
type OffsetCommitResponse struct {
	Topics []OffsetCommitResponseTopic
}

// DecodeOffsetCommitResponse decodes buf into an OffsetCommitResponse.
func DecodeOffsetCommitResponse(buf []byte) (*OffsetCommitResponse, error) {
	d := wire.NewDecoder(buf)
	resp := &OffsetCommitResponse{}

	_, err := wire.DecodeArray(d, func(i int) error {
		topic, _, err := d.String()
		if err != nil {
			return err
		}
		rt := OffsetCommitResponseTopic{Topic: topic}

		_, err = wire.DecodeArray(d, func(j int) error {
			partition, err := d.Int32()
			if err != nil {
				return err
			}
			code, err := d.Int16()
			if err != nil {
				return err
			}
			rt.Partitions = append(rt.Partitions, OffsetCommitResponsePartition{
				Partition: partition,
				Err:       kerr.Error(code),
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
func (r *OffsetCommitResponse) Find(topic string, partition int32) (OffsetCommitResponsePartition, bool) {
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
	return OffsetCommitResponsePartition{}, false
}

// Errors collects every non-NoError partition result across the whole
// response, for a batched flush that reports each failed partition.
func (r *OffsetCommitResponse) Errors() []OffsetCommitResponsePartition {
	var out []OffsetCommitResponsePartition
	for _, t := range r.Topics {
		for _, p := range t.Partitions {
			if !p.Err.IsNoError() {
				out = append(out, p)
			}
		}
	}
	return out
}
