// Package metrics exposes the Prometheus instrumentation for feature
// generation: parse counts, per-backend descriptor timings, fingerprint
// encoder timings, external tool runs, and cache effectiveness.
package metrics

import (
	"net/http"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

// FeatureMetrics holds every metric emitted by the feature pipeline.
type FeatureMetrics struct {
	MoleculesParsedTotal  *prometheus.CounterVec
	ParseFailuresTotal    *prometheus.CounterVec
	DescriptorRowsTotal   *prometheus.CounterVec
	DescriptorDuration    *prometheus.HistogramVec
	FingerprintRowsTotal  *prometheus.CounterVec
	FingerprintDuration   *prometheus.HistogramVec
	FingerprintOnBits     *prometheus.HistogramVec
	PadelRunsTotal        *prometheus.CounterVec
	PadelRunDuration      prometheus.Histogram
	CacheHitsTotal        prometheus.Counter
	CacheMissesTotal      prometheus.Counter
	MilvusInsertsTotal    *prometheus.CounterVec
	MilvusSearchDuration  prometheus.Histogram

	registry *prometheus.Registry
}

var durationBuckets = []float64{.001, .005, .01, .05, .1, .5, 1, 5, 10, 30, 60}

// NewFeatureMetrics builds and registers the metric set on a fresh registry.
func NewFeatureMetrics(namespace string) *FeatureMetrics {
	reg := prometheus.NewRegistry()
	reg.MustRegister(prometheus.NewGoCollector())

	m := &FeatureMetrics{registry: reg}

	m.MoleculesParsedTotal = prometheus.NewCounterVec(prometheus.CounterOpts{
		Namespace: namespace,
		Name:      "molecules_parsed_total",
		Help:      "Molecules successfully parsed, by input format.",
	}, []string{"format"})

	m.ParseFailuresTotal = prometheus.NewCounterVec(prometheus.CounterOpts{
		Namespace: namespace,
		Name:      "molecule_parse_failures_total",
		Help:      "Molecule parse failures, by input format.",
	}, []string{"format"})

	m.DescriptorRowsTotal = prometheus.NewCounterVec(prometheus.CounterOpts{
		Namespace: namespace,
		Name:      "descriptor_rows_total",
		Help:      "Descriptor rows computed, by backend.",
	}, []string{"backend"})

	m.DescriptorDuration = prometheus.NewHistogramVec(prometheus.HistogramOpts{
		Namespace: namespace,
		Name:      "descriptor_batch_duration_seconds",
		Help:      "Wall time of a descriptor batch, by backend.",
		Buckets:   durationBuckets,
	}, []string{"backend"})

	m.FingerprintRowsTotal = prometheus.NewCounterVec(prometheus.CounterOpts{
		Namespace: namespace,
		Name:      "fingerprint_rows_total",
		Help:      "Fingerprint rows computed, by kind.",
	}, []string{"kind"})

	m.FingerprintDuration = prometheus.NewHistogramVec(prometheus.HistogramOpts{
		Namespace: namespace,
		Name:      "fingerprint_batch_duration_seconds",
		Help:      "Wall time of a fingerprint batch, by kind.",
		Buckets:   durationBuckets,
	}, []string{"kind"})

	m.FingerprintOnBits = prometheus.NewHistogramVec(prometheus.HistogramOpts{
		Namespace: namespace,
		Name:      "fingerprint_on_bits",
		Help:      "Set-bit counts of computed fingerprints, by kind.",
		Buckets:   []float64{8, 16, 32, 64, 128, 256, 512, 1024},
	}, []string{"kind"})

	m.PadelRunsTotal = prometheus.NewCounterVec(prometheus.CounterOpts{
		Namespace: namespace,
		Name:      "padel_runs_total",
		Help:      "External PaDEL invocations, by outcome.",
	}, []string{"outcome"})

	m.PadelRunDuration = prometheus.NewHistogram(prometheus.HistogramOpts{
		Namespace: namespace,
		Name:      "padel_run_duration_seconds",
		Help:      "Wall time of an external PaDEL invocation.",
		Buckets:   []float64{1, 5, 10, 30, 60, 120, 300, 600},
	})

	m.CacheHitsTotal = prometheus.NewCounter(prometheus.CounterOpts{
		Namespace: namespace,
		Name:      "descriptor_cache_hits_total",
		Help:      "Descriptor row cache hits.",
	})

	m.CacheMissesTotal = prometheus.NewCounter(prometheus.CounterOpts{
		Namespace: namespace,
		Name:      "descriptor_cache_misses_total",
		Help:      "Descriptor row cache misses.",
	})

	m.MilvusInsertsTotal = prometheus.NewCounterVec(prometheus.CounterOpts{
		Namespace: namespace,
		Name:      "milvus_inserts_total",
		Help:      "Fingerprint vectors inserted into Milvus, by outcome.",
	}, []string{"outcome"})

	m.MilvusSearchDuration = prometheus.NewHistogram(prometheus.HistogramOpts{
		Namespace: namespace,
		Name:      "milvus_search_duration_seconds",
		Help:      "Wall time of a Milvus similarity search.",
		Buckets:   durationBuckets,
	})

	reg.MustRegister(
		m.MoleculesParsedTotal,
		m.ParseFailuresTotal,
		m.DescriptorRowsTotal,
		m.DescriptorDuration,
		m.FingerprintRowsTotal,
		m.FingerprintDuration,
		m.FingerprintOnBits,
		m.PadelRunsTotal,
		m.PadelRunDuration,
		m.CacheHitsTotal,
		m.CacheMissesTotal,
		m.MilvusInsertsTotal,
		m.MilvusSearchDuration,
	)
	return m
}

// Handler serves the registry in Prometheus exposition format.
func (m *FeatureMetrics) Handler() http.Handler {
	return promhttp.HandlerFor(m.registry, promhttp.HandlerOpts{EnableOpenMetrics: true})
}

// Registry exposes the underlying registry for additional collectors.
func (m *FeatureMetrics) Registry() *prometheus.Registry {
	return m.registry
}
