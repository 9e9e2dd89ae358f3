package simplemvp

import (
	"sync"
	"sync/atomic"
	"time"

	"github.com/lilislilit/SimpleMVP/internal/queue"
	"github.com/lilislilit/SimpleMVP/internal/weakref"
	"github.com/lilislilit/SimpleMVP/types"
)

// handleSeq issues process-unique handle identifiers.
var handleSeq atomic.Uint64

// Handle binds one view instance to a presenter.
//
// It owns the view's private state queue, the delivery permission flags and
// the weak reference to the view. Snapshots posted by the presenter are
// queued and drained onto the delivery dispatcher while the view is both
// enabled (ready to render) and resumed (foregrounded); under backlog the
// queue thins the stream adaptively but never drops the final snapshot of a
// burst.
//
// The handle holds the view weakly. A view that is garbage collected
// without an explicit disconnect is detected on the next operation and
// disconnected automatically, exactly once. That detection is a safety net;
// views should still call Presenter.Disconnect in their teardown path.
//
// At most one drain runs at a time per handle; lastDelivered is advanced
// only by the draining goroutine and only to snapshots actually forwarded.
type Handle[S types.State[S], V any] struct {
	id        uint64
	presenter *Presenter[S]
	ref       *weakref.Ref[V]
	asView    func(*V) types.View[S]
	queue     *queue.Queue[S]
	delivery  types.Dispatcher
	logger    types.Logger
	metrics   types.MetricsCollector
	warnDepth int

	enabled   atomic.Bool
	resumed   atomic.Bool
	scheduled atomic.Bool

	// drainMu enforces the single-flight drain invariant across scheduled
	// drain tasks and the synchronous drains run on enable/resume.
	drainMu sync.Mutex

	lastMu  sync.Mutex
	last    S
	hasLast bool
}

// Bind creates a handle for view and connects it to p.
//
// The view is referenced weakly; the caller (typically the view itself)
// must keep a strong reference to the view for as long as it should receive
// state, and should disconnect the handle in its teardown path.
//
// Parameters:
//   - p: Presenter to connect to
//   - view: Pointer to the view instance; *V must implement View[S]
//
// Returns:
//   - *Handle[S, V]: Connected handle
//   - error: ErrPresenterRequired, ErrViewRequired, or ErrAlreadyClosed when
//     the presenter was closed
//
// Example:
//
//	view := &CounterView{}
//	h, err := simplemvp.Bind(p, view)
func Bind[S types.State[S], V any, PV interface {
	types.View[S]
	*V
}](p *Presenter[S], view PV) (*Handle[S, V], error) {
	if p == nil {
		return nil, ErrPresenterRequired
	}
	if view == nil {
		return nil, ErrViewRequired
	}
	if p.closed.Load() {
		return nil, ErrAlreadyClosed
	}

	h := &Handle[S, V]{
		id:        handleSeq.Add(1),
		presenter: p,
		ref:       weakref.New((*V)(view)),
		asView:    func(v *V) types.View[S] { return PV(v) },
		queue:     queue.New[S](p.cfg.ThinningFactor),
		delivery:  p.delivery,
		logger:    p.logger,
		metrics:   p.metrics,
		warnDepth: p.cfg.QueueWarnDepth,
	}

	p.Connect(h)

	return h, nil
}

// ID returns the handle's process-unique identifier.
func (h *Handle[S, V]) ID() uint64 {
	return h.id
}

// Post enqueues a state snapshot for delivery. It never blocks.
//
// When delivery is permitted and no drain is already scheduled or running,
// a drain task is posted onto the delivery dispatcher.
func (h *Handle[S, V]) Post(snapshot S) {
	h.queue.Push(snapshot)
	h.metrics.RecordSnapshotPosted()

	if h.warnDepth > 0 {
		if depth := h.queue.Len(); depth >= h.warnDepth {
			h.logger.Warn("state queue backlog", "handle_id", h.id, "depth", depth)
		}
	}

	if h.permitted() && h.scheduled.CompareAndSwap(false, true) {
		h.delivery.Post(h.drain)
	}

	h.expunge()
}

// SetEnabled toggles delivery readiness.
//
// A view enables itself once it can render a state (for example after
// deferred menu or layout setup finishes). Enabling while resumed drains
// the queue immediately and synchronously rather than waiting for the next
// post.
func (h *Handle[S, V]) SetEnabled(enabled bool) {
	if h.enabled.CompareAndSwap(!enabled, enabled) && enabled && h.resumed.Load() {
		h.drain()
	}

	h.expunge()
}

// OnResumed marks the view foregrounded and delivers pending state.
//
// When the queue is empty the last delivered snapshot, if any, is
// redelivered directly; this covers the common "nothing changed while
// paused" case without queue churn. Otherwise a full synchronous drain
// runs. Called by the external lifecycle observer.
func (h *Handle[S, V]) OnResumed() {
	h.resumed.Store(true)

	if h.permitted() {
		if h.queue.Empty() {
			if last, ok := h.lastDelivered(); ok {
				h.redeliver(last)
			}
		} else {
			h.logger.Debug("flushing state queue", "handle_id", h.id)
			h.drain()
		}
	}

	h.expunge()
}

// OnPaused marks the view backgrounded.
//
// In-flight drains observe the cleared flag and exit without consuming the
// queue, leaving it intact for the next resume. Called by the external
// lifecycle observer.
func (h *Handle[S, V]) OnPaused() {
	h.resumed.Store(false)
	h.expunge()
}

// Finish asks the view to terminate. No-op when the view is gone.
func (h *Handle[S, V]) Finish() {
	h.delivery.Post(func() {
		if v := h.ref.Get(); v != nil {
			h.asView(v).Finish()
		}
	})

	h.expunge()
}

// ShowMessage forwards a transient message to the view's host. No-op when
// the view is gone.
func (h *Handle[S, V]) ShowMessage(text string, duration time.Duration) {
	h.delivery.Post(func() {
		if v := h.ref.Get(); v != nil {
			h.asView(v).Host().ShowMessage(text, duration)
		}
	})

	h.expunge()
}

// StartHostAction forwards a named action to the view's host. No-op when
// the view is gone; action errors are logged, not propagated.
func (h *Handle[S, V]) StartHostAction(name string, args types.Arguments) {
	h.delivery.Post(func() {
		v := h.ref.Get()
		if v == nil {
			return
		}

		if err := h.asView(v).Host().StartAction(name, args); err != nil {
			h.logger.Error("host action error", "handle_id", h.id, "action", name, "error", err)
		}
	})

	h.expunge()
}

// View returns the bound view, or nil when it has been reclaimed.
func (h *Handle[S, V]) View() types.View[S] {
	v := h.ref.Get()
	if v == nil {
		return nil
	}

	return h.asView(v)
}

// Arguments returns the view's arguments, or an empty Arguments when the
// view has been reclaimed.
func (h *Handle[S, V]) Arguments() types.Arguments {
	v := h.ref.Get()
	if v == nil {
		return types.Arguments{}
	}

	return h.asView(v).Arguments()
}

// permitted reports whether snapshots may be delivered right now.
func (h *Handle[S, V]) permitted() bool {
	return h.enabled.Load() && h.resumed.Load()
}

// drain consumes the queue while permitted, forwarding a thinned subsample.
//
// The scheduled flag is cleared unconditionally after the pass, then the
// queue is re-checked: a post that slipped in after the pass emptied the
// queue gets a fresh drain task instead of being stranded behind a flag
// that nothing would ever clear.
func (h *Handle[S, V]) drain() {
	h.drainMu.Lock()
	defer h.drainMu.Unlock()

	start := time.Now()
	h.metrics.RecordQueueDepth(h.queue.Len())

	delivered, thinned := h.queue.Drain(h.permitted, h.deliverSnapshot)
	if thinned > 0 {
		h.metrics.RecordSnapshotThinned(thinned)
	}
	h.metrics.RecordDrain(time.Since(start).Seconds(), delivered)

	h.scheduled.Store(false)

	if !h.queue.Empty() && h.permitted() && h.scheduled.CompareAndSwap(false, true) {
		h.delivery.Post(h.drain)
	}

	h.expunge()
}

// deliverSnapshot forwards one snapshot to the view. Runs only inside a
// drain pass, under drainMu.
func (h *Handle[S, V]) deliverSnapshot(snapshot S) {
	h.setLastDelivered(snapshot)

	v := h.ref.Get()
	if v == nil {
		h.metrics.RecordStaleDelivery()

		return
	}

	if h.invokeView(v, snapshot) {
		h.metrics.RecordSnapshotDelivered()
	}
}

// redeliver re-sends the last delivered snapshot on resume.
func (h *Handle[S, V]) redeliver(snapshot S) {
	h.drainMu.Lock()
	defer h.drainMu.Unlock()

	v := h.ref.Get()
	if v == nil {
		h.metrics.RecordStaleDelivery()

		return
	}

	if h.invokeView(v, snapshot) {
		h.metrics.RecordRedelivery()
	}
}

// invokeView calls the view's state handler, containing any panic at the
// drain boundary so one faulty render neither aborts the pass nor
// disconnects the handle.
func (h *Handle[S, V]) invokeView(v *V, snapshot S) (ok bool) {
	defer func() {
		if r := recover(); r != nil {
			h.metrics.RecordDeliveryFault()
			h.logger.Error("state handling error", "handle_id", h.id, "panic", r)
		}
	}()

	h.asView(v).OnStateChanged(snapshot)

	return true
}

// setLastDelivered records the most recent snapshot handed to delivery.
func (h *Handle[S, V]) setLastDelivered(snapshot S) {
	h.lastMu.Lock()
	h.last = snapshot
	h.hasLast = true
	h.lastMu.Unlock()
}

// lastDelivered returns the most recent snapshot handed to delivery.
func (h *Handle[S, V]) lastDelivered() (S, bool) {
	h.lastMu.Lock()
	defer h.lastMu.Unlock()

	return h.last, h.hasLast
}

// expunge polls the weak reference and, on the first poll after the view
// was reclaimed, disconnects the handle from its presenter. Every
// externally-initiated operation calls this as the cleanup backstop.
func (h *Handle[S, V]) expunge() {
	if h.ref.Expunge() {
		h.metrics.RecordExpunge()
		h.logger.Debug("view reclaimed, disconnecting handle", "handle_id", h.id)
		h.presenter.Disconnect(h)
	}
}
