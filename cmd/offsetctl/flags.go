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

package main

import (
	"flag"
	"fmt"
	"os"
)

var (
	flagBroker     = flag.String("broker", "127.0.0.1:9092", "Address of the Kafka broker acting as group coordinator.")
	flagGroup      = flag.String("group", "", "Consumer group whose offsets to inspect.")
	flagTopic      = flag.String("topic", "", "Topic to fetch/commit offsets for.")
	flagPartitions = flag.Int("partitions", 1, "Number of partitions on the topic, numbered from 0.")
	flagConfigFile = flag.String("config", "", "Optional YAML config file overriding the default offset manager settings.")
	flagCommit     = flag.Int64("commit", -1, "If set to a value >= 0, commit this offset for -partition instead of fetching.")
	flagPartition  = flag.Int("partition", 0, "Partition to commit to when -commit is set.")
	flagLoglevel   = flag.Int("loglevel", 1, "Set the loglevel [0-3]. Higher levels produce more messages.")
	flagMetrics    = flag.String("metrics", "", "Address to serve Prometheus metrics on, e.g. :9100. Empty disables the bridge.")
)

func init() {
	flag.Usage = func() {
		fmt.Fprintln(os.Stderr, "Usage: offsetctl -group G -topic T [OPTIONS]\n\noffsetctl - inspect and commit Kafka consumer group offsets.\n\nOptions:")
		flag.PrintDefaults()
	}
}

func parseFlags() {
	flag.Parse()
}
