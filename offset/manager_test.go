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
	"testing"
	"time"

	"github.com/trivago/gokafka/internal/config"
	"github.com/trivago/gokafka/internal/testutil"
	"github.com/trivago/gokafka/kerr"
	"github.com/trivago/gokafka/protocol/offsetapi"
	"github.com/trivago/gokafka/wire"
)

func testConfig() config.Config {
	cfg := config.Default("test-group", "test-topic", 4)
	cfg.Interval = 20 * time.Millisecond
	cfg.MaxBuffers = 3
	return cfg
}

func encodeCommitResponse(t *testing.T, topic string, results map[int32]kerr.Error) []byte {
	e := wire.NewEncoder(64)
	wire.EncodeArray(e, 1, func(i int) {
		e.PutString(topic)
		partitions := make([]int32, 0, len(results))
		for p := range results {
			partitions = append(partitions, p)
		}
		wire.EncodeArray(e, len(partitions), func(j int) {
			e.PutInt32(partitions[j])
			e.PutInt16(int16(results[partitions[j]]))
		})
	})
	_ = t
	return e.Bytes()
}

func encodeFetchResponse(t *testing.T, topic string, partition int32, offset int64, metadata string, code kerr.Error) []byte {
	e := wire.NewEncoder(64)
	wire.EncodeArray(e, 1, func(i int) {
		e.PutString(topic)
		wire.EncodeArray(e, 1, func(j int) {
			e.PutInt32(partition)
			e.PutInt64(offset)
			e.PutString(metadata)
			e.PutInt16(int16(code))
		})
	})
	_ = t
	return e.Bytes()
}

func encodeOffsetResponse(t *testing.T, topic string, partition int32, offsets []int64, code kerr.Error) []byte {
	e := wire.NewEncoder(64)
	wire.EncodeArray(e, 1, func(i int) {
		e.PutString(topic)
		wire.EncodeArray(e, 1, func(j int) {
			e.PutInt32(partition)
			e.PutInt16(int16(code))
			wire.EncodeArray(e, len(offsets), func(k int) {
				e.PutInt64(offsets[k])
			})
		})
	})
	_ = t
	return e.Bytes()
}

func TestCommitUnknownPartition(t *testing.T) {
	expect := testutil.NewExpect(t)
	conn := testutil.NewFakeConn()
	m := NewManager(testConfig(), conn, "test-client")
	defer m.Stop()

	err := m.Commit(99, 10, "")
	expect.True(err == ErrUnknownPartition)
}

func TestAutoCommitBuffersAndReportsOK(t *testing.T) {
	expect := testutil.NewExpect(t)
	conn := testutil.NewFakeConn()
	m := NewManager(testConfig(), conn, "test-client")
	defer m.Stop()

	err := m.Commit(0, 42, "meta")
	expect.NoError(err)

	// No request should have reached the connection yet; it is buffered.
	time.Sleep(5 * time.Millisecond)
	expect.IntEq(0, len(conn.Requests()))
}

func TestAutoCommitFlushesOnInterval(t *testing.T) {
	expect := testutil.NewExpect(t)
	conn := testutil.NewFakeConn()
	conn.Push(encodeCommitResponse(t, "test-topic", map[int32]kerr.Error{0: kerr.NoError}), nil)

	m := NewManager(testConfig(), conn, "test-client")
	defer m.Stop()

	expect.NoError(m.Commit(0, 42, "meta"))

	time.Sleep(60 * time.Millisecond)
	expect.IntEq(1, len(conn.Requests()))
}

func TestAutoCommitFlushesOnOverflow(t *testing.T) {
	expect := testutil.NewExpect(t)
	conn := testutil.NewFakeConn()
	conn.Push(encodeCommitResponse(t, "test-topic", map[int32]kerr.Error{0: kerr.NoError, 1: kerr.NoError, 2: kerr.NoError}), nil)

	cfg := testConfig()
	cfg.Interval = time.Hour // never fires on its own
	m := NewManager(cfg, conn, "test-client")
	defer m.Stop()

	expect.NoError(m.Commit(0, 1, ""))
	expect.NoError(m.Commit(1, 2, ""))
	expect.NoError(m.Commit(2, 3, "")) // hits MaxBuffers=3, should flush immediately

	time.Sleep(10 * time.Millisecond)
	expect.IntEq(1, len(conn.Requests()))
}

func TestAutoCommitLastWriteWins(t *testing.T) {
	expect := testutil.NewExpect(t)
	conn := testutil.NewFakeConn()
	conn.Push(encodeCommitResponse(t, "test-topic", map[int32]kerr.Error{0: kerr.NoError}), nil)

	m := NewManager(testConfig(), conn, "test-client")
	defer m.Stop()

	expect.NoError(m.Commit(0, 1, "first"))
	expect.NoError(m.Commit(0, 2, "second"))

	time.Sleep(60 * time.Millisecond)
	reqs := conn.Requests()
	expect.IntEq(1, len(reqs))

	commitReq, ok := reqs[0].(offsetapi.OffsetCommitRequest)
	expect.True(ok)
	expect.IntEq(1, len(commitReq.Topics[0].Partitions))
	expect.Int64Eq(2, commitReq.Topics[0].Partitions[0].Offset)
	expect.StringEq("second", commitReq.Topics[0].Partitions[0].Metadata)
}

func TestSyncCommitPropagatesBrokerError(t *testing.T) {
	expect := testutil.NewExpect(t)
	conn := testutil.NewFakeConn()
	conn.Push(encodeCommitResponse(t, "test-topic", map[int32]kerr.Error{0: kerr.OffsetMetadataTooLarge}), nil)

	cfg := testConfig()
	cfg.AutoCommit = false
	m := NewManager(cfg, conn, "test-client")
	defer m.Stop()

	err := m.Commit(0, 1, "way too much metadata")
	expect.True(err == kerr.OffsetMetadataTooLarge)
}

func TestFetchReturnsCommittedOffset(t *testing.T) {
	expect := testutil.NewExpect(t)
	conn := testutil.NewFakeConn()
	conn.Push(encodeFetchResponse(t, "test-topic", 0, 123, "meta", kerr.NoError), nil)

	m := NewManager(testConfig(), conn, "test-client")
	defer m.Stop()

	result, err := m.Fetch(0, testutil.NewFakeConn())
	expect.NoError(err)
	expect.Int64Eq(123, result.Offset)
	expect.StringEq("meta", result.Metadata)
}

func TestFetchFallsBackToEarliestWhenUncommitted(t *testing.T) {
	expect := testutil.NewExpect(t)
	coordinator := testutil.NewFakeConn()
	coordinator.Push(encodeFetchResponse(t, "test-topic", 0, offsetapi.NoCommittedOffset, "", kerr.NoError), nil)

	leader := testutil.NewFakeConn()
	leader.Push(encodeOffsetResponse(t, "test-topic", 0, []int64{17}, kerr.NoError), nil)

	m := NewManager(testConfig(), coordinator, "test-client")
	defer m.Stop()

	result, err := m.Fetch(0, leader)
	expect.NoError(err)
	expect.Int64Eq(17, result.Offset)
}

func TestFetchFallsBackOnUnknownTopicOrPartition(t *testing.T) {
	expect := testutil.NewExpect(t)
	coordinator := testutil.NewFakeConn()
	coordinator.Push(encodeFetchResponse(t, "test-topic", 0, 0, "", kerr.UnknownTopicOrPartition), nil)

	leader := testutil.NewFakeConn()
	leader.Push(encodeOffsetResponse(t, "test-topic", 0, nil, kerr.NoError), nil)

	m := NewManager(testConfig(), coordinator, "test-client")
	defer m.Stop()

	result, err := m.Fetch(0, leader)
	expect.NoError(err)
	expect.Int64Eq(0, result.Offset)
}

func TestFetchReturnsOtherBrokerErrorsDirectly(t *testing.T) {
	expect := testutil.NewExpect(t)
	conn := testutil.NewFakeConn()
	conn.Push(encodeFetchResponse(t, "test-topic", 0, 0, "", kerr.NotCoordinatorForConsumer), nil)

	m := NewManager(testConfig(), conn, "test-client")
	defer m.Stop()

	_, err := m.Fetch(0, testutil.NewFakeConn())
	expect.True(err == kerr.NotCoordinatorForConsumer)
}

func TestUpdateGenerationIsUsedByCommit(t *testing.T) {
	expect := testutil.NewExpect(t)
	conn := testutil.NewFakeConn()
	conn.Push(encodeCommitResponse(t, "test-topic", map[int32]kerr.Error{0: kerr.NoError}), nil)

	cfg := testConfig()
	cfg.AutoCommit = false
	m := NewManager(cfg, conn, "test-client")
	defer m.Stop()

	expect.NoError(m.UpdateGeneration("consumer-1", 7))
	expect.NoError(m.Commit(0, 1, ""))

	reqs := conn.Requests()
	expect.IntEq(1, len(reqs))
	commitReq, ok := reqs[0].(offsetapi.OffsetCommitRequest)
	expect.True(ok)
	expect.StringEq("consumer-1", commitReq.ConsumerID)
	expect.Int32Eq(7, commitReq.GroupGenerationID)
	expect.Int32Eq(1, int32(commitReq.Version)) // kafka storage -> v1
}

func TestStopClosesConnection(t *testing.T) {
	expect := testutil.NewExpect(t)
	conn := testutil.NewFakeConn()
	m := NewManager(testConfig(), conn, "test-client")

	expect.NoError(m.Stop())
	expect.True(conn.Closed())

	// Further operations after Stop must not hang.
	err := m.Commit(0, 1, "")
	expect.True(err == ErrManagerStopped)
}
