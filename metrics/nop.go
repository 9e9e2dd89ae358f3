package metrics

import "github.com/lilislilit/SimpleMVP/types"

// NopMetrics implements a no-op metrics collector.
//
// All metrics are discarded. Useful for testing or when external metrics
// collection is used.
type NopMetrics struct{}

// Compile-time assertion that NopMetrics implements MetricsCollector.
var _ types.MetricsCollector = (*NopMetrics)(nil)

// NewNop creates a new no-op metrics collector.
//
// Returns:
//   - *NopMetrics: A new no-op metrics collector instance
func NewNop() *NopMetrics {
	return &NopMetrics{}
}

// QueueMetrics implementation

// RecordSnapshotPosted discards the metric.
func (n *NopMetrics) RecordSnapshotPosted() {}

// RecordQueueDepth discards the metric.
func (n *NopMetrics) RecordQueueDepth(_ /* depth */ int) {}

// RecordSnapshotThinned discards the metric.
func (n *NopMetrics) RecordSnapshotThinned(_ /* count */ int) {}

// DeliveryMetrics implementation

// RecordSnapshotDelivered discards the metric.
func (n *NopMetrics) RecordSnapshotDelivered() {}

// RecordStaleDelivery discards the metric.
func (n *NopMetrics) RecordStaleDelivery() {}

// RecordDeliveryFault discards the metric.
func (n *NopMetrics) RecordDeliveryFault() {}

// RecordDrain discards the metric.
func (n *NopMetrics) RecordDrain(_ /* duration */ float64, _ /* delivered */ int) {}

// RecordRedelivery discards the metric.
func (n *NopMetrics) RecordRedelivery() {}

// RegistryMetrics implementation

// RecordConnect discards the metric.
func (n *NopMetrics) RecordConnect(_ /* first */ bool) {}

// RecordDisconnect discards the metric.
func (n *NopMetrics) RecordDisconnect(_ /* last */ bool) {}

// RecordHookError discards the metric.
func (n *NopMetrics) RecordHookError(_ /* hook */ string) {}

// RecordExpunge discards the metric.
func (n *NopMetrics) RecordExpunge() {}
