// Package simplemvp is a view-binding runtime that decouples long-lived
// presenters from short-lived, lifecycle-bound views.
//
// A presenter owns a mutable state value and survives view churn; views
// attach through handles that queue state snapshots and deliver them on a
// single serialized delivery loop while the view is enabled and resumed.
// Under backlog the per-handle queue thins the snapshot stream adaptively,
// always preserving the most recent value. Views are held weakly: one that
// is destroyed without an explicit disconnect is detected and detached
// automatically.
//
// # Quick Start
//
//	import simplemvp "github.com/lilislilit/SimpleMVP"
//
//	type CounterState struct {
//	    simplemvp.BaseState
//	    Count int
//	}
//
//	func (s *CounterState) Clone() *CounterState {
//	    c := *s
//	    return &c
//	}
//
//	delivery := simplemvp.NewLoop(nil)
//	p, err := simplemvp.NewPresenter(&simplemvp.Config{}, &CounterState{}, delivery)
//	if err != nil {
//	    log.Fatal(err)
//	}
//
//	view := newCounterView() // implements simplemvp.View[*CounterState]
//	h, err := simplemvp.Bind(p, view)
//	if err != nil {
//	    log.Fatal(err)
//	}
//	h.SetEnabled(true)
//	h.OnResumed()
//
//	p.Update(func(s *CounterState) {
//	    s.Count++
//	    s.MarkChanged()
//	})
//
// # Key Features
//
//   - Lossy-under-pressure delivery: a paused view accumulates a backlog
//     that is subsampled on resume, never replayed in full, and the final
//     snapshot of a burst is always delivered
//   - Ordered broadcasts: commits are serialized per presenter, so every
//     handle observes snapshots in strictly increasing order
//   - First/last edge hooks: presenters learn when their first view
//     connects and their last view disconnects, for resource lifecycle
//   - Weak view binding: garbage-collected views are detected and
//     disconnected automatically, exactly once
//   - Pluggable ambient stack: structured logging, Prometheus metrics and
//     custom dispatchers via functional options
package simplemvp
