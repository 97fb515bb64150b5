// Copyright 2015-2017 trivago GmbH
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

// Package metrics instruments the offset manager with rcrowley/go-metrics
// counters and gauges, the same registry core/metrics.go registers gollum
// plugin metrics with, optionally bridged to Prometheus the way the
// teacher's top-level metrics.go exposes core.MetricsRegistry.
package metrics

import (
	gometrics "github.com/rcrowley/go-metrics"
)

const (
	nameCommits            = "OffsetManager:Commits"
	nameCommitErrors       = "OffsetManager:CommitErrors"
	nameFetches            = "OffsetManager:Fetches"
	nameFallbackFetches    = "OffsetManager:FallbackFetches"
	nameBufferedPartitions = "OffsetManager:BufferedPartitions"
)

// Registry is the shared rcrowley/go-metrics registry this package
// registers under. A host application can pass this straight to
// github.com/CrowdStrike/go-metrics-prometheus.NewPrometheusProvider, the
// same bridge the teacher's main.go uses for core.MetricsRegistry.
var Registry = gometrics.NewRegistry()

// Manager groups the counters and gauges for a single offset.Manager
// instance so metrics from several (group, topic) pairs don't collide.
type Manager struct {
	Commits            gometrics.Counter
	CommitErrors       gometrics.Counter
	Fetches            gometrics.Counter
	FallbackFetches    gometrics.Counter
	BufferedPartitions gometrics.Gauge
}

// NewManager registers a fresh set of metrics for one (group, topic) pair
// and returns them bound together.
func NewManager(group, topic string) *Manager {
	prefix := group + ":" + topic + ":"
	m := &Manager{
		Commits:            gometrics.NewCounter(),
		CommitErrors:       gometrics.NewCounter(),
		Fetches:            gometrics.NewCounter(),
		FallbackFetches:    gometrics.NewCounter(),
		BufferedPartitions: gometrics.NewGauge(),
	}
	Registry.Register(prefix+nameCommits, m.Commits)
	Registry.Register(prefix+nameCommitErrors, m.CommitErrors)
	Registry.Register(prefix+nameFetches, m.Fetches)
	Registry.Register(prefix+nameFallbackFetches, m.FallbackFetches)
	Registry.Register(prefix+nameBufferedPartitions, m.BufferedPartitions)
	return m
}
