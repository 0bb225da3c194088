// Package metrics exposes a run's stretch and size statistics as
// Prometheus gauges/histograms, served over promhttp the way
// mpisat-qumo's relay server does (mux.Handle("/metrics",
// promhttp.Handler())).
package metrics

import (
	"net/http"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"

	"github.com/routetree/yggtree/oracle"
)

// Registry wraps a dedicated prometheus.Registry (never the global
// DefaultRegisterer) so that sweeping many independent runs in one
// process never collides on metric registration.
type Registry struct {
	reg *prometheus.Registry

	avgStretch prometheus.Gauge
	maxStretch prometheus.Gauge
	dropped    prometheus.Gauge
	nodeCount  prometheus.Gauge
	stepCount  prometheus.Gauge

	peerSize    prometheus.Histogram
	certSize    prometheus.Histogram
	linkCert    prometheus.Histogram
	pathSize    prometheus.Histogram
}

// New constructs a Registry with every metric registered under the
// "yggtree" namespace.
func New() *Registry {
	reg := prometheus.NewRegistry()
	r := &Registry{
		reg: reg,
		avgStretch: prometheus.NewGauge(prometheus.GaugeOpts{
			Namespace: "yggtree", Subsystem: "stretch", Name: "average",
			Help: "Count-weighted mean of routed hops over oracle hops across all ordered pairs.",
		}),
		maxStretch: prometheus.NewGauge(prometheus.GaugeOpts{
			Namespace: "yggtree", Subsystem: "stretch", Name: "max",
			Help: "Largest observed routed/oracle hop ratio.",
		}),
		dropped: prometheus.NewGauge(prometheus.GaugeOpts{
			Namespace: "yggtree", Subsystem: "stretch", Name: "dropped_pairs",
			Help: "Ordered pairs that failed to route in either direction.",
		}),
		nodeCount: prometheus.NewGauge(prometheus.GaugeOpts{
			Namespace: "yggtree", Name: "nodes",
			Help: "Number of nodes in the last evaluated topology.",
		}),
		stepCount: prometheus.NewGauge(prometheus.GaugeOpts{
			Namespace: "yggtree", Name: "convergence_steps",
			Help: "Ticks elapsed before the last run converged.",
		}),
		peerSize: prometheus.NewHistogram(prometheus.HistogramOpts{
			Namespace: "yggtree", Subsystem: "size", Name: "peer_count",
			Help:    "Per-node peer count distribution.",
			Buckets: prometheus.LinearBuckets(0, 4, 10),
		}),
		certSize: prometheus.NewHistogram(prometheus.HistogramOpts{
			Namespace: "yggtree", Subsystem: "size", Name: "cert_count",
			Help:    "Per-node unique path-certificate count distribution.",
			Buckets: prometheus.ExponentialBuckets(1, 2, 12),
		}),
		linkCert: prometheus.NewHistogram(prometheus.HistogramOpts{
			Namespace: "yggtree", Subsystem: "size", Name: "min_link_cert_count",
			Help:    "Per-link minimum required certificate count distribution.",
			Buckets: prometheus.ExponentialBuckets(1, 2, 12),
		}),
		pathSize: prometheus.NewHistogram(prometheus.HistogramOpts{
			Namespace: "yggtree", Subsystem: "size", Name: "table_hop_count",
			Help:    "Per-node total routing-table hop count distribution.",
			Buckets: prometheus.ExponentialBuckets(1, 2, 14),
		}),
	}
	reg.MustRegister(
		r.avgStretch, r.maxStretch, r.dropped, r.nodeCount, r.stepCount,
		r.peerSize, r.certSize, r.linkCert, r.pathSize,
	)
	return r
}

// ObserveTrace records the outcome of one stretch evaluation.
func (r *Registry) ObserveTrace(result oracle.TraceResult, nodeCount, steps int) {
	r.avgStretch.Set(oracle.AvgStretch(result.Hist))
	r.maxStretch.Set(oracle.MaxStretch(result.Hist))
	r.dropped.Set(float64(result.Dropped))
	r.nodeCount.Set(float64(nodeCount))
	r.stepCount.Set(float64(steps))
}

// observe feeds every per-node/per-link sample from a size
// distribution into its histogram.
func observe(h prometheus.Histogram, sizes oracle.Sizes) {
	for size, count := range sizes {
		for i := 0; i < count; i++ {
			h.Observe(float64(size))
		}
	}
}

// ObserveSizes records peer/cert/link-cert/path-size distributions.
func (r *Registry) ObserveSizes(peer, cert, linkCert, path oracle.Sizes) {
	observe(r.peerSize, peer)
	observe(r.certSize, cert)
	observe(r.linkCert, linkCert)
	observe(r.pathSize, path)
}

// Handler returns the promhttp handler bound to this registry's metrics,
// suitable for mounting at "/metrics".
func (r *Registry) Handler() http.Handler {
	return promhttp.HandlerFor(r.reg, promhttp.HandlerOpts{})
}
