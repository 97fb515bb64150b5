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

package metrics

import (
	"context"
	"net/http"
	"time"

	promMetrics "github.com/CrowdStrike/go-metrics-prometheus"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	"github.com/sirupsen/logrus"
)

// StartPrometheusBridge bridges Registry into a dedicated Prometheus
// registry, refreshed every flushInterval, and serves it at "/metrics" on
// address. It mirrors the teacher's top-level startPrometheusMetricsService,
// adapted from a one-shot gollum process metric bridge into a reusable
// library call. The returned func stops both the refresh loop and the
// HTTP server.
func StartPrometheusBridge(address string, flushInterval time.Duration) func() {
	srv := &http.Server{Addr: address}
	quit := make(chan struct{})
	promRegistry := prometheus.NewRegistry()

	provider := promMetrics.NewPrometheusProvider(Registry, "gokafka", "", promRegistry, flushInterval)

	go func() {
		for {
			select {
			case <-time.After(flushInterval):
				if err := provider.UpdatePrometheusMetricsOnce(); err != nil {
					logrus.WithError(err).Warn("offset manager: error updating prometheus metrics")
				}
			case <-quit:
				return
			}
		}
	}()

	go func() {
		mux := http.NewServeMux()
		mux.Handle("/metrics", promhttp.HandlerFor(promRegistry, promhttp.HandlerOpts{
			ErrorLog:      logrus.StandardLogger(),
			ErrorHandling: promhttp.ContinueOnError,
		}))
		srv.Handler = mux

		if err := srv.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			logrus.WithError(err).Error("offset manager: failed to start metrics http server")
		}
	}()

	logrus.WithField("address", address).Info("offset manager: started prometheus metrics bridge")

	return func() {
		close(quit)
		if err := srv.Shutdown(context.Background()); err != nil {
			logrus.WithError(err).Error("offset manager: failed to shut down metrics http server")
		}
	}
}
