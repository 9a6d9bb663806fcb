package hl7v2

import (
	"errors"
	"time"

	"github.com/prometheus/client_golang/prometheus"
)

// Metrics registers and records Prometheus collectors for codec and terser
// activity. A nil *Metrics is valid everywhere and records nothing, so
// instrumentation is strictly opt-in.
type Metrics struct {
	decodes        prometheus.Counter
	decodeErrors   *prometheus.CounterVec
	decodeDuration prometheus.Histogram
	encodes        prometheus.Counter

	lookups   *prometheus.CounterVec
	cacheHits prometheus.Counter
	cacheMiss prometheus.Counter
}

// NewMetrics creates and registers codec metrics with the provided registry.
// If registry is nil, the default Prometheus registerer is used.
func NewMetrics(registry prometheus.Registerer) *Metrics {
	if registry == nil {
		registry = prometheus.DefaultRegisterer
	}
	m := &Metrics{
		decodes: prometheus.NewCounter(prometheus.CounterOpts{
			Namespace: "hl7v2",
			Subsystem: "codec",
			Name:      "decodes_total",
			Help:      "Total messages decoded successfully",
		}),
		decodeErrors: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: "hl7v2",
			Subsystem: "codec",
			Name:      "decode_errors_total",
			Help:      "Total decode failures by kind",
		}, []string{"kind"}),
		decodeDuration: prometheus.NewHistogram(prometheus.HistogramOpts{
			Namespace: "hl7v2",
			Subsystem: "codec",
			Name:      "decode_duration_seconds",
			Help:      "Time spent decoding one message",
			// Decodes are in-memory; sub-millisecond buckets matter.
			Buckets: []float64{1e-6, 1e-5, 1e-4, 1e-3, 1e-2, 0.1},
		}),
		encodes: prometheus.NewCounter(prometheus.CounterOpts{
			Namespace: "hl7v2",
			Subsystem: "codec",
			Name:      "encodes_total",
			Help:      "Total messages encoded",
		}),
		lookups: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: "hl7v2",
			Subsystem: "terser",
			Name:      "lookups_total",
			Help:      "Total terser lookups by result",
		}, []string{"result"}),
		cacheHits: prometheus.NewCounter(prometheus.CounterOpts{
			Namespace: "hl7v2",
			Subsystem: "terser",
			Name:      "cache_hits_total",
			Help:      "Cached terser path-cache hits",
		}),
		cacheMiss: prometheus.NewCounter(prometheus.CounterOpts{
			Namespace: "hl7v2",
			Subsystem: "terser",
			Name:      "cache_misses_total",
			Help:      "Cached terser path-cache misses",
		}),
	}
	registry.MustRegister(
		m.decodes, m.decodeErrors, m.decodeDuration, m.encodes,
		m.lookups, m.cacheHits, m.cacheMiss,
	)
	return m
}

func (m *Metrics) recordDecode(d time.Duration, err error) {
	if m == nil {
		return
	}
	if err != nil {
		m.decodeErrors.WithLabelValues(decodeErrorKind(err)).Inc()
		return
	}
	m.decodes.Inc()
	m.decodeDuration.Observe(d.Seconds())
}

func (m *Metrics) recordEncode() {
	if m == nil {
		return
	}
	m.encodes.Inc()
}

func (m *Metrics) recordLookup(found bool, err error) {
	if m == nil {
		return
	}
	switch {
	case err != nil:
		m.lookups.WithLabelValues("invalid").Inc()
	case found:
		m.lookups.WithLabelValues("found").Inc()
	default:
		m.lookups.WithLabelValues("missing").Inc()
	}
}

func (m *Metrics) recordCacheHit(hit bool) {
	if m == nil {
		return
	}
	if hit {
		m.cacheHits.Inc()
	} else {
		m.cacheMiss.Inc()
	}
}

func decodeErrorKind(err error) string {
	switch {
	case errors.Is(err, ErrEmptyInput):
		return "empty_input"
	case errors.Is(err, ErrMalformedHeader):
		return "malformed_header"
	case errors.Is(err, ErrUnterminatedEscape):
		return "unterminated_escape"
	case errors.Is(err, ErrUnknownEscapeCode):
		return "unknown_escape_code"
	default:
		return "other"
	}
}
