package metrics

import (
	"time"

	"github.com/prometheus/client_golang/prometheus"
)

const (
	ResultOK         = "ok"
	ResultValidation = "validation_error"
	ResultDecode     = "decode_error"
	ResultInternal   = "internal_error"
)

// Metrics collects upload pipeline counters. A nil *Metrics is a no-op.
type Metrics struct {
	uploads  *prometheus.CounterVec
	records  prometheus.Counter
	overlaps prometheus.Counter
	duration prometheus.Histogram
}

// New registers the pipeline metrics on reg (prometheus.DefaultRegisterer if nil).
func New(reg prometheus.Registerer, namespace string) *Metrics {
	if reg == nil {
		reg = prometheus.DefaultRegisterer
	}
	if namespace == "" {
		namespace = "pair_overlap"
	}

	m := &Metrics{
		uploads: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Subsystem: "upload",
			Name:      "processed_total",
			Help:      "Uploads processed by result.",
		}, []string{"result"}),
		records: prometheus.NewCounter(prometheus.CounterOpts{
			Namespace: namespace,
			Subsystem: "upload",
			Name:      "records_total",
			Help:      "Assignment records decoded from successful uploads.",
		}),
		overlaps: prometheus.NewCounter(prometheus.CounterOpts{
			Namespace: namespace,
			Subsystem: "upload",
			Name:      "pair_overlaps_total",
			Help:      "Employee pair overlaps emitted.",
		}),
		duration: prometheus.NewHistogram(prometheus.HistogramOpts{
			Namespace: namespace,
			Subsystem: "upload",
			Name:      "duration_seconds",
			Help:      "Time spent decoding and aggregating one upload.",
			Buckets:   []float64{0.001, 0.005, 0.01, 0.05, 0.1, 0.5, 1, 5},
		}),
	}

	reg.MustRegister(m.uploads, m.records, m.overlaps, m.duration)

	return m
}

func (m *Metrics) ObserveUpload(result string, records, overlaps int, took time.Duration) {
	if m == nil {
		return
	}

	m.uploads.WithLabelValues(result).Inc()
	m.duration.Observe(took.Seconds())

	if result == ResultOK {
		m.records.Add(float64(records))
		m.overlaps.Add(float64(overlaps))
	}
}
