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

// Command offsetctl is a thin consumer of this module's offset manager:
// it fetches and prints a group's committed offsets for every partition
// of a topic, with an earliest-offset fallback for partitions that have
// never been committed, and can commit a single offset from the command
// line.
package main

import (
	"flag"
	"fmt"
	"os"
	"time"

	"github.com/Shopify/sarama"
	"github.com/trivago/gokafka/brokerconn"
	"github.com/trivago/gokafka/internal/config"
	"github.com/trivago/gokafka/internal/log"
	"github.com/trivago/gokafka/internal/metrics"
	"github.com/trivago/gokafka/offset"
)

func fatalf(format string, args ...interface{}) {
	fmt.Fprintf(os.Stderr, format+"\n", args...)
	os.Exit(1)
}

func reportErrors(mgr *offset.Manager) {
	for ce := range mgr.Errors() {
		log.Warning(log.Fields{"partition": ce.Partition, "offset": ce.Offset}, "commit failed: %s", ce.Err)
	}
}

func main() {
	parseFlags()
	log.SetVerbosity(log.Verbosity(*flagLoglevel))

	if *flagGroup == "" || *flagTopic == "" {
		flag.Usage()
		os.Exit(1)
	}

	if *flagMetrics != "" {
		stop := metrics.StartPrometheusBridge(*flagMetrics, 3*time.Second)
		defer stop()
	}

	cfg := config.Default(*flagGroup, *flagTopic, int32(*flagPartitions))
	if *flagConfigFile != "" {
		loaded, err := config.LoadFile(*flagConfigFile, *flagGroup, *flagTopic, int32(*flagPartitions))
		if err != nil {
			fatalf("config: %s", err)
		}
		cfg = loaded
	}

	// A single commit from the command line is sent synchronously: under
	// auto_commit it would only be buffered, and Stop does not flush the
	// buffer.
	if *flagCommit >= 0 {
		cfg.AutoCommit = false
	}

	saramaCfg := sarama.NewConfig()
	saramaCfg.ClientID = "offsetctl"

	coordinatorConn, err := brokerconn.Dial(*flagBroker, saramaCfg)
	if err != nil {
		fatalf("dial coordinator: %s", err)
	}

	mgr := offset.NewManager(cfg, coordinatorConn, saramaCfg.ClientID)
	defer mgr.Stop()
	go reportErrors(mgr)

	if *flagCommit >= 0 {
		if err := mgr.Commit(int32(*flagPartition), *flagCommit, ""); err != nil {
			fatalf("commit: %s", err)
		}
		fmt.Printf("committed offset %d for %s/%s partition %d\n", *flagCommit, *flagGroup, *flagTopic, *flagPartition)
		return
	}

	leaderConn, err := brokerconn.Dial(*flagBroker, saramaCfg)
	if err != nil {
		fatalf("dial leader: %s", err)
	}
	defer leaderConn.Close()

	for partition := int32(0); partition < int32(*flagPartitions); partition++ {
		result, err := mgr.Fetch(partition, leaderConn)
		if err != nil {
			fmt.Printf("partition %d: error: %s\n", partition, err)
			continue
		}
		fmt.Printf("partition %d: offset=%d metadata=%q\n", partition, result.Offset, result.Metadata)
	}
}
