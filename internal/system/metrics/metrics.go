/*
 * Copyright (c) 2025, WSO2 LLC. (http://www.wso2.com).
 *
 * WSO2 LLC. licenses this file to you under the Apache License,
 * Version 2.0 (the "License"); you may not use this file except
 * in compliance with the License.
 * You may obtain a copy of the License at
 *
 * http://www.apache.org/licenses/LICENSE-2.0
 *
 * Unless required by applicable law or agreed to in writing,
 * software distributed under the License is distributed on an
 * "AS IS" BASIS, WITHOUT WARRANTIES OR CONDITIONS OF ANY
 * KIND, either express or implied.  See the License for the
 * specific language governing permissions and limitations
 * under the License.
 */

package metrics

import (
	"sync"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

const (
	OutcomeSuccess         = "success"
	OutcomeValidationError = "validation_error"
	OutcomeStorageError    = "storage_error"
	OutcomeIntegrityError  = "integrity_error"
	OutcomeDataRejected    = "data_rejected"
)

var (
	defaultMetrics *Metrics
	defaultOnce    sync.Once
)

// Metrics tracks identify calls. A nil *Metrics records nothing.
type Metrics struct {
	IdentifyTotal    *prometheus.CounterVec
	IdentifyDuration prometheus.Histogram
	IdentifyRetries  prometheus.Counter
	MergedLosers     prometheus.Counter
}

// New creates the identify metrics and registers them with reg.
func New(reg prometheus.Registerer) *Metrics {
	factory := promauto.With(reg)
	return &Metrics{
		IdentifyTotal: factory.NewCounterVec(prometheus.CounterOpts{
			Name: "crs_identify_total",
			Help: "Total number of identify calls by resolved action and outcome",
		}, []string{"action", "outcome"}),
		IdentifyDuration: factory.NewHistogram(prometheus.HistogramOpts{
			Name:    "crs_identify_duration_seconds",
			Help:    "Duration of identify calls including retries",
			Buckets: []float64{0.001, 0.005, 0.01, 0.025, 0.05, 0.1, 0.25, 0.5, 1, 2.5, 5},
		}),
		IdentifyRetries: factory.NewCounter(prometheus.CounterOpts{
			Name: "crs_identify_retries_total",
			Help: "Total number of identify attempts replayed after a transient storage failure",
		}),
		MergedLosers: factory.NewCounter(prometheus.CounterOpts{
			Name: "crs_cluster_merges_losers_total",
			Help: "Total number of primaries demoted by cluster merges",
		}),
	}
}

// Default returns metrics registered with the default prometheus registry.
func Default() *Metrics {
	defaultOnce.Do(func() {
		defaultMetrics = New(prometheus.DefaultRegisterer)
	})
	return defaultMetrics
}

// ObserveIdentify records a finished identify call. Call with time.Now() taken at the start.
func (m *Metrics) ObserveIdentify(action, outcome string, start time.Time) {
	if m == nil {
		return
	}
	if action == "" {
		action = "none"
	}
	m.IdentifyTotal.WithLabelValues(action, outcome).Inc()
	m.IdentifyDuration.Observe(time.Since(start).Seconds())
}

func (m *Metrics) IncrementRetries() {
	if m == nil {
		return
	}
	m.IdentifyRetries.Inc()
}

func (m *Metrics) AddMergedLosers(count int) {
	if m == nil || count <= 0 {
		return
	}
	m.MergedLosers.Add(float64(count))
}
