package metrics

import (
	"sync"

	"github.com/lilislilit/SimpleMVP/types"
	"github.com/prometheus/client_golang/prometheus"
)

// PrometheusCollector implements types.MetricsCollector backed by Prometheus.
//
// Metrics are registered lazily on first use, so constructing a collector
// that is never exercised does not pollute the registry.
type PrometheusCollector struct {
	reg       prometheus.Registerer
	namespace string
	once      sync.Once

	snapshotsPosted    prometheus.Counter
	snapshotsDelivered prometheus.Counter
	snapshotsThinned   prometheus.Counter
	staleDeliveries    prometheus.Counter
	deliveryFaults     prometheus.Counter
	redeliveries       prometheus.Counter
	drainLatency       prometheus.Histogram
	drainBatchSize     prometheus.Histogram
	queueDepth         prometheus.Histogram
	connects           *prometheus.CounterVec
	disconnects        *prometheus.CounterVec
	connectedHandles   prometheus.Gauge
	hookErrors         *prometheus.CounterVec
	expungedViews      prometheus.Counter
}

// Compile-time assertion that PrometheusCollector implements MetricsCollector.
var _ types.MetricsCollector = (*PrometheusCollector)(nil)

// NewPrometheus creates a new Prometheus-backed metrics collector.
//
// Parameters:
//   - reg: Prometheus registerer interface (uses prometheus.DefaultRegisterer if nil)
//   - namespace: Prometheus metrics namespace (defaults to "simplemvp" if empty)
//
// Returns:
//   - *PrometheusCollector: A MetricsCollector implementation using Prometheus
func NewPrometheus(reg prometheus.Registerer, namespace string) *PrometheusCollector {
	if reg == nil {
		reg = prometheus.DefaultRegisterer
	}
	if namespace == "" {
		namespace = "simplemvp"
	}

	return &PrometheusCollector{reg: reg, namespace: namespace}
}

func (p *PrometheusCollector) ensureRegistered() {
	p.once.Do(func() {
		p.snapshotsPosted = prometheus.NewCounter(prometheus.CounterOpts{
			Namespace: p.namespace,
			Subsystem: "queue",
			Name:      "snapshots_posted_total",
			Help:      "Total state snapshots posted to handle queues.",
		})

		p.queueDepth = prometheus.NewHistogram(prometheus.HistogramOpts{
			Namespace: p.namespace,
			Subsystem: "queue",
			Name:      "depth_at_drain",
			Help:      "Queue depth observed at the start of each drain pass.",
			Buckets:   []float64{0, 1, 2, 4, 8, 16, 32, 64, 128, 256, 512},
		})

		p.snapshotsThinned = prometheus.NewCounter(prometheus.CounterOpts{
			Namespace: p.namespace,
			Subsystem: "queue",
			Name:      "snapshots_thinned_total",
			Help:      "Total snapshots skipped by the adaptive thinning policy.",
		})

		p.snapshotsDelivered = prometheus.NewCounter(prometheus.CounterOpts{
			Namespace: p.namespace,
			Subsystem: "delivery",
			Name:      "snapshots_delivered_total",
			Help:      "Total snapshots forwarded to live views.",
		})

		p.staleDeliveries = prometheus.NewCounter(prometheus.CounterOpts{
			Namespace: p.namespace,
			Subsystem: "delivery",
			Name:      "stale_total",
			Help:      "Total deliveries skipped because the view was reclaimed.",
		})

		p.deliveryFaults = prometheus.NewCounter(prometheus.CounterOpts{
			Namespace: p.namespace,
			Subsystem: "delivery",
			Name:      "faults_total",
			Help:      "Total panics recovered while views handled snapshots.",
		})

		p.redeliveries = prometheus.NewCounter(prometheus.CounterOpts{
			Namespace: p.namespace,
			Subsystem: "delivery",
			Name:      "redeliveries_total",
			Help:      "Total lastDelivered snapshots re-sent on resume.",
		})

		p.drainLatency = prometheus.NewHistogram(prometheus.HistogramOpts{
			Namespace: p.namespace,
			Subsystem: "delivery",
			Name:      "drain_duration_seconds",
			Help:      "Duration of drain passes in seconds.",
			Buckets:   prometheus.ExponentialBuckets(0.0001, 2, 12), // 100µs .. ~0.4s
		})

		p.drainBatchSize = prometheus.NewHistogram(prometheus.HistogramOpts{
			Namespace: p.namespace,
			Subsystem: "delivery",
			Name:      "drain_batch_size",
			Help:      "Snapshots forwarded per drain pass.",
			Buckets:   []float64{0, 1, 2, 4, 8, 16, 32, 64},
		})

		p.connects = prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: p.namespace,
			Subsystem: "registry",
			Name:      "connects_total",
			Help:      "Total handle connects by edge (first|subsequent).",
		}, []string{"edge"})

		p.disconnects = prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: p.namespace,
			Subsystem: "registry",
			Name:      "disconnects_total",
			Help:      "Total handle disconnects by edge (last|intermediate).",
		}, []string{"edge"})

		p.connectedHandles = prometheus.NewGauge(prometheus.GaugeOpts{
			Namespace: p.namespace,
			Subsystem: "registry",
			Name:      "connected_handles",
			Help:      "Current number of connected view handles.",
		})

		p.hookErrors = prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: p.namespace,
			Subsystem: "registry",
			Name:      "hook_errors_total",
			Help:      "Total presenter hook failures by hook name.",
		}, []string{"hook"})

		p.expungedViews = prometheus.NewCounter(prometheus.CounterOpts{
			Namespace: p.namespace,
			Subsystem: "registry",
			Name:      "expunged_views_total",
			Help:      "Total views reclaimed by GC and disconnected automatically.",
		})

		p.reg.MustRegister(p.snapshotsPosted)
		p.reg.MustRegister(p.queueDepth)
		p.reg.MustRegister(p.snapshotsThinned)
		p.reg.MustRegister(p.snapshotsDelivered)
		p.reg.MustRegister(p.staleDeliveries)
		p.reg.MustRegister(p.deliveryFaults)
		p.reg.MustRegister(p.redeliveries)
		p.reg.MustRegister(p.drainLatency)
		p.reg.MustRegister(p.drainBatchSize)
		p.reg.MustRegister(p.connects)
		p.reg.MustRegister(p.disconnects)
		p.reg.MustRegister(p.connectedHandles)
		p.reg.MustRegister(p.hookErrors)
		p.reg.MustRegister(p.expungedViews)
	})
}

// QueueMetrics implementation

// RecordSnapshotPosted increments the posted snapshots counter.
func (p *PrometheusCollector) RecordSnapshotPosted() {
	p.ensureRegistered()
	p.snapshotsPosted.Inc()
}

// RecordQueueDepth observes the queue depth at drain start.
func (p *PrometheusCollector) RecordQueueDepth(depth int) {
	p.ensureRegistered()
	p.queueDepth.Observe(float64(depth))
}

// RecordSnapshotThinned adds the number of snapshots skipped by thinning.
func (p *PrometheusCollector) RecordSnapshotThinned(count int) {
	p.ensureRegistered()
	p.snapshotsThinned.Add(float64(count))
}

// DeliveryMetrics implementation

// RecordSnapshotDelivered increments the delivered snapshots counter.
func (p *PrometheusCollector) RecordSnapshotDelivered() {
	p.ensureRegistered()
	p.snapshotsDelivered.Inc()
}

// RecordStaleDelivery increments the stale delivery counter.
func (p *PrometheusCollector) RecordStaleDelivery() {
	p.ensureRegistered()
	p.staleDeliveries.Inc()
}

// RecordDeliveryFault increments the recovered delivery panic counter.
func (p *PrometheusCollector) RecordDeliveryFault() {
	p.ensureRegistered()
	p.deliveryFaults.Inc()
}

// RecordDrain observes a completed drain pass.
func (p *PrometheusCollector) RecordDrain(duration float64, delivered int) {
	p.ensureRegistered()
	p.drainLatency.Observe(duration)
	p.drainBatchSize.Observe(float64(delivered))
}

// RecordRedelivery increments the resume redelivery counter.
func (p *PrometheusCollector) RecordRedelivery() {
	p.ensureRegistered()
	p.redeliveries.Inc()
}

// RegistryMetrics implementation

// RecordConnect increments the connect counter and handle gauge.
func (p *PrometheusCollector) RecordConnect(first bool) {
	p.ensureRegistered()
	if first {
		p.connects.WithLabelValues("first").Inc()
	} else {
		p.connects.WithLabelValues("subsequent").Inc()
	}
	p.connectedHandles.Inc()
}

// RecordDisconnect increments the disconnect counter and decrements the
// handle gauge.
func (p *PrometheusCollector) RecordDisconnect(last bool) {
	p.ensureRegistered()
	if last {
		p.disconnects.WithLabelValues("last").Inc()
	} else {
		p.disconnects.WithLabelValues("intermediate").Inc()
	}
	p.connectedHandles.Dec()
}

// RecordHookError increments hook failures for the given hook.
func (p *PrometheusCollector) RecordHookError(hook string) {
	p.ensureRegistered()
	p.hookErrors.WithLabelValues(hook).Inc()
}

// RecordExpunge increments the expunged views counter.
func (p *PrometheusCollector) RecordExpunge() {
	p.ensureRegistered()
	p.expungedViews.Inc()
}
