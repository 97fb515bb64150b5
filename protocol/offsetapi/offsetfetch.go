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

const apiKeyOffsetFetch = 9

// NoCommittedOffset is the sentinel an OffsetFetch response uses in place
// of a real offset when no offset has ever been committed for the
// partition.
const NoCommittedOffset int64 = -1

// OffsetFetchRequestTopic names a topic and the partitions to fetch
// committed offsets for.
type OffsetFetchRequestTopic struct {
	Topic      string
	Partitions []int32
}

// OffsetFetchRequest is the OffsetFetch API request. Version 0 reads from
// ZooKeeper-backed storage, version 1 from Kafka-backed storage.
type OffsetFetchRequest struct {
	Version int16
	Group   string
	Topics  []OffsetFetchRequestTopic
}

// APIKey implements protocol.Request.
func (r OffsetFetchRequest) APIKey() int16 { return apiKeyOffsetFetch }

// APIVersion implements protocol.Request.
func (r OffsetFetchRequest) APIVersion() int16 { return r.Version }

// HasResponse implements protocol.Request.
func (r OffsetFetchRequest) HasResponse() bool { return true }

// Encode implements protocol.Request.
func (r OffsetFetchRequest) Encode(e *wire.Encoder) {
	e.PutString(r.Group)
	wire.EncodeArray(e, len(r.Topics), func(i int) {
		t := r.Topics[i]
		e.PutString(t.Topic)
		wire.EncodeArray(e, len(t.Partitions), func(j int) {
			e.PutInt32(t.Partitions[j])
		})
	})
}

// OffsetFetchResponsePartition carries the broker's committed offset (or
// NoCommittedOffset) and opaque metadata for one partition.
type OffsetFetchResponsePartition struct {
	Partition int32
	Offset    int64
	Metadata  string
	Err       kerr.Error
}

// OffsetFetchResponseTopic groups OffsetFetchResponsePartition by topic.
type OffsetFetchResponseTopic struct {
	Topic      string
	Partitions []OffsetFetchResponsePartition
}

// OffsetFetchResponse is the decoded OffsetFetch response body; v0 and v1
// share the same response shape.
type OffsetFetchResponse struct {
	Topics []OffsetFetchResponseTopic
}

// DecodeOffsetFetchResponse decodes buf into an OffsetFetchResponse.
func DecodeOffsetFetchResponse(buf []byte) (*OffsetFetchResponse, error) {
	d := wire.NewDecoder(buf)
	resp := &OffsetFetchResponse{}

	_, err := wire.DecodeArray(d, func(i int) error {
		topic, _, err := d.String()
		if err != nil {
			return err
		}
		rt := OffsetFetchResponseTopic{Topic: topic}

		_, err = wire.DecodeArray(d, func(j int) error {
			partition, err := d.Int32()
			if err != nil {
				return err
			}
			offset, err := d.Int64()
			if err != nil {
				return err
			}
			metadata, _, err := d.String()
			if err != nil {
				return err
			}
			code, err := d.Int16()
			if err != nil {
				return err
			}
			rt.Partitions = append(rt.Partitions, OffsetFetchResponsePartition{
				Partition: partition,
				Offset:    offset,
				Metadata:  metadata,
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
func (r *OffsetFetchResponse) Find(topic string, partition int32) (OffsetFetchResponsePartition, bool) {
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
	return OffsetFetchResponsePartition{}, false
}
