package types

// MetricsCollector defines methods for recording operational metrics.
//
// Implementations must be non-blocking and safe for concurrent use; every
// method may be called from the delivery dispatcher, a presenter executor,
// or an arbitrary producer goroutine.
//
// This interface composes smaller, domain-focused interfaces for better
// modularity.
type MetricsCollector interface {
	QueueMetrics
	DeliveryMetrics
	RegistryMetrics
}

// QueueMetrics defines metrics for the per-handle state queues.
type QueueMetrics interface {
	// RecordSnapshotPosted records a snapshot entering a handle's queue.
	RecordSnapshotPosted()

	// RecordQueueDepth observes the queue length at the start of a drain
	// pass.
	RecordQueueDepth(depth int)

	// RecordSnapshotThinned records snapshots skipped by the adaptive
	// thinning policy during a drain pass.
	RecordSnapshotThinned(count int)
}

// DeliveryMetrics defines metrics for snapshot delivery to views.
type DeliveryMetrics interface {
	// RecordSnapshotDelivered records a snapshot forwarded to a live view.
	RecordSnapshotDelivered()

	// RecordStaleDelivery records a delivery that was a no-op because the
	// view had been reclaimed.
	RecordStaleDelivery()

	// RecordDeliveryFault records a panic recovered at the drain boundary
	// while a view handled a snapshot.
	RecordDeliveryFault()

	// RecordDrain records a completed drain pass.
	//
	// Parameters:
	//   - duration: Time taken in seconds
	//   - delivered: Number of snapshots forwarded to the view
	RecordDrain(duration float64, delivered int)

	// RecordRedelivery records a lastDelivered snapshot re-sent on resume.
	RecordRedelivery()
}

// RegistryMetrics defines metrics for presenter connection registries.
type RegistryMetrics interface {
	// RecordConnect records a handle connecting. first is true when the
	// presenter had no handles before this connect.
	RecordConnect(first bool)

	// RecordDisconnect records a handle disconnecting. last is true when
	// the presenter has no handles after this disconnect.
	RecordDisconnect(last bool)

	// RecordHookError records a presenter hook that returned an error or
	// panicked.
	//
	// Parameters:
	//   - hook: Hook name ("first_connected", "connected", "disconnected",
	//     "last_disconnected")
	RecordHookError(hook string)

	// RecordExpunge records a view reclaimed by the garbage collector and
	// disconnected automatically.
	RecordExpunge()
}
