// Package metrics defines Prometheus metrics for wordgraph.
package metrics

import "github.com/prometheus/client_golang/prometheus"

// Lookup outcomes.
const (
	OutcomeMemo        = "memo"
	OutcomeCacheHit    = "cache_hit"
	OutcomeNegativeHit = "negative_hit"
	OutcomeFetched     = "fetched"
	OutcomeNotFound    = "not_found"
	OutcomeUnavailable = "unavailable"
)

var (
	LookupsTotal = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Name: "wordgraph_lookups_total",
			Help: "Dictionary lookups by outcome",
		},
		[]string{"outcome"},
	)

	UpstreamDuration = prometheus.NewHistogram(
		prometheus.HistogramOpts{
			Name:    "wordgraph_upstream_request_duration_seconds",
			Help:    "Upstream dictionary request duration in seconds",
			Buckets: prometheus.DefBuckets,
		},
	)

	BuildDuration = prometheus.NewHistogram(
		prometheus.HistogramOpts{
			Name:    "wordgraph_build_duration_seconds",
			Help:    "Graph build duration in seconds",
			Buckets: []float64{0.1, 0.5, 1, 5, 15, 60, 300, 900},
		},
	)

	NodeCount = prometheus.NewGauge(
		prometheus.GaugeOpts{
			Name: "wordgraph_nodes_total",
			Help: "Node count of the current graph",
		},
	)

	EdgeCount = prometheus.NewGauge(
		prometheus.GaugeOpts{
			Name: "wordgraph_edges_total",
			Help: "Edge count of the current graph",
		},
	)

	RequestDuration = prometheus.NewHistogramVec(
		prometheus.HistogramOpts{
			Name:    "wordgraph_http_request_duration_seconds",
			Help:    "HTTP request duration in seconds",
			Buckets: prometheus.DefBuckets,
		},
		[]string{"method", "path", "status"},
	)

	SearchErrorsTotal = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Name: "wordgraph_search_errors_total",
			Help: "Search API errors by type",
		},
		[]string{"type"},
	)

	ValidationCorrelation = prometheus.NewGauge(
		prometheus.GaugeOpts{
			Name: "wordgraph_validation_spearman",
			Help: "Spearman correlation of the last benchmark validation",
		},
	)

	ValidationPairs = prometheus.NewGaugeVec(
		prometheus.GaugeOpts{
			Name: "wordgraph_validation_pairs",
			Help: "Benchmark pairs of the last validation by status",
		},
		[]string{"status"},
	)
)

func init() {
	prometheus.MustRegister(
		LookupsTotal, UpstreamDuration,
		BuildDuration, NodeCount, EdgeCount,
		RequestDuration, SearchErrorsTotal,
		ValidationCorrelation, ValidationPairs,
	)
}

// ObserveGraph records the size of a freshly built or loaded graph.
func ObserveGraph(nodes, edges int) {
	NodeCount.Set(float64(nodes))
	EdgeCount.Set(float64(edges))
}
