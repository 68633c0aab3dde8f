// Copyright (C) 2026 l3montree GmbH
//
// This program is free software: you can redistribute it and/or modify
// it under the terms of the GNU Affero General Public License as
// published by the Free Software Foundation, either version 3 of the
// License, or (at your option) any later version.
//
// This program is distributed in the hope that it will be useful,
// but WITHOUT ANY WARRANTY; without even the implied warranty of
// MERCHANTABILITY or FITNESS FOR A PARTICULAR PURPOSE.  See the
// GNU Affero General Public License for more details.
//
// You should have received a copy of the GNU Affero General Public License
// along with this program.  If not, see <https://www.gnu.org/licenses/>.

package monitoring

import (
	"github.com/pkg/errors"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
	"github.com/prometheus/client_golang/prometheus/push"
)

// Registry holds the sync metrics. The job is short lived, so metrics are pushed
// instead of scraped.
var Registry = prometheus.NewRegistry()

var factory = promauto.With(Registry)

var RecordsUpserted = factory.NewCounterVec(prometheus.CounterOpts{
	Name: "scap_sync_records_upserted_total",
	Help: "The total number of root records upserted",
}, []string{"kind"})

var ChunksWritten = factory.NewCounterVec(prometheus.CounterOpts{
	Name: "scap_sync_chunks_total",
	Help: "The total number of chunks committed",
}, []string{"kind"})

var SyncFailures = factory.NewCounterVec(prometheus.CounterOpts{
	Name: "scap_sync_failures_total",
	Help: "The total number of failed pipelines",
}, []string{"kind"})

var SyncDuration = factory.NewHistogramVec(prometheus.HistogramOpts{
	Name:    "scap_sync_duration_seconds",
	Help:    "Duration of a pipeline run in seconds",
	Buckets: []float64{1, 5, 15, 30, 60, 120, 300, 600, 1200, 3600},
}, []string{"kind"})

var Watermark = factory.NewGaugeVec(prometheus.GaugeOpts{
	Name: "scap_sync_watermark_timestamp_seconds",
	Help: "The resolved watermark of the last run as unix timestamp",
}, []string{"kind"})

var NVDRequests = factory.NewCounterVec(prometheus.CounterOpts{
	Name: "scap_sync_nvd_requests_total",
	Help: "The total number of requests sent to the nvd api",
}, []string{"code"})

var NVDRequestDuration = factory.NewHistogramVec(prometheus.HistogramOpts{
	Name:    "scap_sync_nvd_request_duration_seconds",
	Help:    "Duration of nvd api requests in seconds",
	Buckets: prometheus.DefBuckets,
}, []string{})

// PushMetrics sends the registry to a prometheus pushgateway. A blank url is a no-op.
func PushMetrics(url string) error {
	if url == "" {
		return nil
	}
	err := push.New(url, "scap_sync").Gatherer(Registry).Push()
	return errors.Wrap(err, "could not push metrics")
}
