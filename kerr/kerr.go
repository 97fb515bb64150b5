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

// Package kerr defines the Kafka broker error-code taxonomy used by the
// OffsetCommit/OffsetFetch/Offset responses in scope for this module.
package kerr

import "fmt"

// Error is a broker protocol error code as returned inline in a Kafka
// response body.
type Error int16

// Error codes relevant to the Offset/OffsetCommit/OffsetFetch APIs. Codes
// outside this scope are represented but not specially handled.
const (
	NoError                         Error = 0
	Unknown                         Error = -1
	OffsetOutOfRange                Error = 1
	InvalidMessage                  Error = 2
	UnknownTopicOrPartition         Error = 3
	InvalidMessageSize              Error = 4
	LeaderNotAvailable              Error = 5
	NotLeaderForPartition           Error = 6
	RequestTimedOut                 Error = 7
	BrokerNotAvailable              Error = 8
	ReplicaNotAvailable             Error = 9
	MessageSizeTooLarge             Error = 10
	StaleControllerEpochCode        Error = 11
	OffsetMetadataTooLarge          Error = 12
	NetworkException                Error = 13
	OffsetsLoadInProgress           Error = 14
	ConsumerCoordinatorNotAvailable Error = 15
	NotCoordinatorForConsumer       Error = 16
	InvalidTopic                    Error = 17
	MessageSetSizeTooLarge          Error = 18
	NotEnoughReplicas               Error = 19
	NotEnoughReplicasAfterAppend    Error = 20
	InvalidRequiredAcks             Error = 21
	IllegalGeneration               Error = 22
	InconsistentGroupProtocol       Error = 23
	InvalidGroupID                  Error = 24
	UnknownMemberID                 Error = 25
	InvalidSessionTimeout           Error = 26
	RebalanceInProgress             Error = 27
	InvalidCommitOffsetSize         Error = 28
	TopicAuthorizationFailed        Error = 29
	GroupAuthorizationFailed        Error = 30
	ClusterAuthorizationFailed      Error = 31
)

var names = map[Error]string{
	NoError:                         "kafka server: Not an error",
	Unknown:                         "kafka server: An unexpected server error",
	OffsetOutOfRange:                "kafka server: The requested offset is outside the range of offsets maintained by the server for the given topic/partition",
	InvalidMessage:                  "kafka server: Message contents does not match its CRC",
	UnknownTopicOrPartition:         "kafka server: Request was for a topic or partition that does not exist on this broker",
	InvalidMessageSize:              "kafka server: The message has a negative size",
	LeaderNotAvailable:              "kafka server: In the middle of a leadership election, there is currently no leader for this partition and hence it is unavailable for writes",
	NotLeaderForPartition:           "kafka server: Tried to send a message to a replica that is not the leader for some partition, your metadata is out of date",
	RequestTimedOut:                 "kafka server: Request exceeds the user-specified time limit in the request",
	BrokerNotAvailable:              "kafka server: Broker not available. Not a client facing error, we should never send this",
	ReplicaNotAvailable:             "kafka server: Replica information not available, one or more brokers are down",
	MessageSizeTooLarge:             "kafka server: Message was too large, server rejected it to avoid allocation error",
	StaleControllerEpochCode:        "kafka server: StaleControllerEpochCode",
	OffsetMetadataTooLarge:          "kafka server: Specified a string larger than the configured maximum for offset metadata",
	NetworkException:                "kafka server: The server disconnected before a response was received",
	OffsetsLoadInProgress:           "kafka server: The broker is still loading partitions for this group",
	ConsumerCoordinatorNotAvailable: "kafka server: Offset's topic has not yet been created",
	NotCoordinatorForConsumer:       "kafka server: Broker is not the coordinator for this group",
	InvalidTopic:                    "kafka server: Request specified a topic that does not satisfy the legal naming rules",
	MessageSetSizeTooLarge:          "kafka server: Message batch larger than the configured segment size",
	NotEnoughReplicas:               "kafka server: Messages failed to be written due to insufficient in-sync replicas",
	NotEnoughReplicasAfterAppend:    "kafka server: Messages committed but fewer in-sync replicas than required",
	InvalidRequiredAcks:             "kafka server: Produce request specified an invalid value for required acks",
	IllegalGeneration:               "kafka server: Consumer's generation id does not match the current generation",
	InconsistentGroupProtocol:       "kafka server: The provided group protocol is not compatible with the group",
	InvalidGroupID:                  "kafka server: The provided group id was empty",
	UnknownMemberID:                 "kafka server: The provided member id is not known in the current generation",
	InvalidSessionTimeout:           "kafka server: The provided session timeout is outside the range allowed by the broker",
	RebalanceInProgress:             "kafka server: A rebalance for the group is in progress",
	InvalidCommitOffsetSize:         "kafka server: The committing offset data size is not valid",
	TopicAuthorizationFailed:        "kafka server: Not authorized to access topic",
	GroupAuthorizationFailed:        "kafka server: Not authorized to access group",
	ClusterAuthorizationFailed:      "kafka server: Cluster authorization failed",
}

func (e Error) Error() string {
	if s, ok := names[e]; ok {
		return s
	}
	return fmt.Sprintf("kafka server: unknown error code %d", int16(e))
}

// IsNoError reports whether e denotes success.
func (e Error) IsNoError() bool {
	return e == NoError
}

// RetriesFetchAsEarliest reports whether a broker error returned from an
// OffsetFetch response should fall through to the earliest-offset
// fallback, per spec: unknown_topic_or_partition does, alongside the
// offset=-1/no_error case handled separately by the caller.
func (e Error) RetriesFetchAsEarliest() bool {
	return e == UnknownTopicOrPartition
}

// IsFencing reports whether e signals that this group member's fencing
// tokens (member id / generation id) are stale and must be refreshed
// before further commits will be accepted.
func (e Error) IsFencing() bool {
	switch e {
	case IllegalGeneration, UnknownMemberID, RebalanceInProgress:
		return true
	default:
		return false
	}
}
