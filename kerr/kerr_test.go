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

package kerr

import (
	"testing"

	"github.com/trivago/gokafka/internal/testutil"
)

func TestIsNoError(t *testing.T) {
	expect := testutil.NewExpect(t)
	expect.True(NoError.IsNoError())
	expect.False(UnknownTopicOrPartition.IsNoError())
}

func TestRetriesFetchAsEarliest(t *testing.T) {
	expect := testutil.NewExpect(t)
	expect.True(UnknownTopicOrPartition.RetriesFetchAsEarliest())
	expect.False(IllegalGeneration.RetriesFetchAsEarliest())
}

func TestIsFencing(t *testing.T) {
	expect := testutil.NewExpect(t)
	expect.True(IllegalGeneration.IsFencing())
	expect.True(UnknownMemberID.IsFencing())
	expect.True(RebalanceInProgress.IsFencing())
	expect.False(OffsetMetadataTooLarge.IsFencing())
}

func TestUnknownCodeFormats(t *testing.T) {
	expect := testutil.NewExpect(t)
	e := Error(999)
	expect.True(len(e.Error()) > 0)
}
