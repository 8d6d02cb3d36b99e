package pipeline

import (
	"time"

	"github.com/prometheus/client_golang/prometheus"
)

var (
	opsTotal = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Namespace: "reviewd",
			Subsystem: "pipeline",
			Name:      "operations_total",
			Help:      "Compile and submit attempts by outcome",
		},
		[]string{"kind", "outcome"},
	)

	opDuration = prometheus.NewHistogramVec(
		prometheus.HistogramOpts{
			Namespace: "reviewd",
			Subsystem: "pipeline",
			Name:      "operation_duration_seconds",
			Help:      "Duration of compile and submit attempts in seconds",
			Buckets:   prometheus.DefBuckets,
		},
		[]string{"kind"},
	)

	pagesMerged = prometheus.NewCounter(
		prometheus.CounterOpts{
			Namespace: "reviewd",
			Subsystem: "pipeline",
			Name:      "pages_compiled_total",
			Help:      "Total pages in successfully compiled artifacts",
		},
	)
)

func init() {
	prometheus.MustRegister(opsTotal, opDuration, pagesMerged)
}

func observeOp(kind OpKind, outcome Outcome, d time.Duration) {
	opsTotal.WithLabelValues(string(kind), string(outcome)).Inc()
	opDuration.WithLabelValues(string(kind)).Observe(d.Seconds())
}

func observePages(n int) {
	if n > 0 {
		pagesMerged.Add(float64(n))
	}
}
