// Package metrics provides Prometheus observability for DAP response
// handling: request counts and latency per response kind, bytes streamed,
// XDR chunk counts, and constraint-parse failures.
package metrics

import (
	"io"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

// Metrics holds the Prometheus collectors for one DAP server instance. A
// nil *Metrics is valid everywhere its methods are called: every method
// checks for a nil receiver first, so passing nil disables metrics
// collection with zero overhead, matching this repo's ambient convention
// for optional observability.
type Metrics struct {
	requests        *prometheus.CounterVec
	requestDuration *prometheus.HistogramVec
	bytesStreamed   *prometheus.CounterVec
	chunksWritten   *prometheus.CounterVec
	constraintFails prometheus.Counter
	activeStreams   prometheus.Gauge
}

// New builds a Metrics instance registering its collectors against reg. A
// nil reg registers against the default Prometheus registry.
func New(reg prometheus.Registerer) *Metrics {
	if reg == nil {
		reg = prometheus.DefaultRegisterer
	}

	return &Metrics{
		requests: promauto.With(reg).NewCounterVec(
			prometheus.CounterOpts{
				Name: "dapserve_requests_total",
				Help: "Total number of DAP responses served by kind and outcome",
			},
			[]string{"kind", "status"}, // kind: "dds"/"das"/"dods", status: "ok"/"error"
		),
		requestDuration: promauto.With(reg).NewHistogramVec(
			prometheus.HistogramOpts{
				Name: "dapserve_request_duration_milliseconds",
				Help: "Duration of DAP response assembly in milliseconds",
				Buckets: []float64{
					1, 5, 10, 25, 50, 100, 250, 500, 1000, 5000,
				},
			},
			[]string{"kind"},
		),
		bytesStreamed: promauto.With(reg).NewCounterVec(
			prometheus.CounterOpts{
				Name: "dapserve_bytes_streamed_total",
				Help: "Total bytes streamed in DODS response bodies",
			},
			[]string{"dataset"},
		),
		chunksWritten: promauto.With(reg).NewCounterVec(
			prometheus.CounterOpts{
				Name: "dapserve_xdr_chunks_total",
				Help: "Total XDR encoder flush operations by dataset",
			},
			[]string{"dataset"},
		),
		constraintFails: promauto.With(reg).NewCounter(
			prometheus.CounterOpts{
				Name: "dapserve_constraint_parse_failures_total",
				Help: "Total constraint expressions that failed to parse",
			},
		),
		activeStreams: promauto.With(reg).NewGauge(
			prometheus.GaugeOpts{
				Name: "dapserve_active_streams",
				Help: "Current number of in-flight DODS response streams",
			},
		),
	}
}

// RecordRequest records one completed response of the given kind ("dds",
// "das", "dods") and outcome ("ok" or "error"), plus how long assembling it
// took.
func (m *Metrics) RecordRequest(kind, status string, duration time.Duration) {
	if m == nil {
		return
	}
	m.requests.WithLabelValues(kind, status).Inc()
	m.requestDuration.WithLabelValues(kind).Observe(float64(duration.Milliseconds()))
}

// RecordBytesStreamed adds n to the bytes-streamed counter for dataset.
func (m *Metrics) RecordBytesStreamed(dataset string, n int) {
	if m == nil || n <= 0 {
		return
	}
	m.bytesStreamed.WithLabelValues(dataset).Add(float64(n))
}

// RecordChunk records one encoder flush for dataset.
func (m *Metrics) RecordChunk(dataset string) {
	if m == nil {
		return
	}
	m.chunksWritten.WithLabelValues(dataset).Inc()
}

// RecordConstraintParseFailure records one constraint expression that
// failed BadConstraint/BadSlice parsing.
func (m *Metrics) RecordConstraintParseFailure() {
	if m == nil {
		return
	}
	m.constraintFails.Inc()
}

// StreamStarted increments the in-flight DODS stream gauge. Callers should
// defer StreamEnded.
func (m *Metrics) StreamStarted() {
	if m == nil {
		return
	}
	m.activeStreams.Inc()
}

// StreamEnded decrements the in-flight DODS stream gauge.
func (m *Metrics) StreamEnded() {
	if m == nil {
		return
	}
	m.activeStreams.Dec()
}

// CountingWriter wraps an io.Writer, recording every write's byte count
// into m for dataset. It lets the DODS HTTP handler observe streamed bytes
// without the C6 assembler itself depending on metrics.
type CountingWriter struct {
	W       io.Writer
	M       *Metrics
	Dataset string
}

func (c *CountingWriter) Write(p []byte) (int, error) {
	n, err := c.W.Write(p)
	if n > 0 {
		c.M.RecordBytesStreamed(c.Dataset, n)
	}
	return n, err
}
