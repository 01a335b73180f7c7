// Copyright Consensys Software Inc.
//
// Licensed under the Apache License, Version 2.0 (the "License"); you may not use this file except in compliance with
// the License. You may obtain a copy of the License at
//
// http://www.apache.org/licenses/LICENSE-2.0
//
// Unless required by applicable law or agreed to in writing, software distributed under the License is distributed on
// an "AS IS" BASIS, WITHOUT WARRANTIES OR CONDITIONS OF ANY KIND, either express or implied. See the License for the
// specific language governing permissions and limitations under the License.
//
// SPDX-License-Identifier: Apache-2.0
package server

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

// Namespace used for all metrics exported by the decode service.
const metricsNamespace = "bits"

// Values of the "result" label on the requests counter.
const (
	resultOK          = "ok"
	resultBadRequest  = "bad_request"
	resultDecodeError = "decode_error"
	resultEvalError   = "eval_error"
)

// metrics holds the Prometheus collectors for the decode service.
type metrics struct {
	requestsTotal  *prometheus.CounterVec
	errorsTotal    *prometheus.CounterVec
	packets        prometheus.Histogram
	decodeDuration prometheus.Histogram
	cacheHits      prometheus.Counter
}

// newMetrics registers the decode service collectors with a given registry.
func newMetrics(registry prometheus.Registerer) *metrics {
	factory := promauto.With(registry)
	//
	return &metrics{
		requestsTotal: factory.NewCounterVec(prometheus.CounterOpts{
			Namespace: metricsNamespace,
			Name:      "requests_total",
			Help:      "Total number of decode requests, by result",
		}, []string{"result"}),

		errorsTotal: factory.NewCounterVec(prometheus.CounterOpts{
			Namespace: metricsNamespace,
			Name:      "errors_total",
			Help:      "Total number of decode and evaluation failures, by kind",
		}, []string{"kind"}),

		packets: factory.NewHistogram(prometheus.HistogramOpts{
			Namespace: metricsNamespace,
			Name:      "packets_per_transmission",
			Help:      "Number of packets in each successfully decoded transmission",
			Buckets:   prometheus.ExponentialBuckets(1, 4, 10),
		}),

		decodeDuration: factory.NewHistogram(prometheus.HistogramOpts{
			Namespace: metricsNamespace,
			Name:      "decode_duration_seconds",
			Help:      "Time taken to decode and evaluate a transmission",
			Buckets:   prometheus.DefBuckets,
		}),

		cacheHits: factory.NewCounter(prometheus.CounterOpts{
			Namespace: metricsNamespace,
			Name:      "cache_hits_total",
			Help:      "Total number of requests answered from the result cache",
		}),
	}
}
