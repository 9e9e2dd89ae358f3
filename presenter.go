package simplemvp

import (
	"context"
	"fmt"
	"sync"
	"sync/atomic"

	"github.com/lilislilit/SimpleMVP/internal/hooks"
	"github.com/lilislilit/SimpleMVP/logging"
	"github.com/lilislilit/SimpleMVP/metrics"
	"github.com/lilislilit/SimpleMVP/types"
	"github.com/puzpuzpuz/xsync/v4"
)

// presenterSeq issues process-unique, monotonically increasing presenter
// identifiers. IDs are never reused.
var presenterSeq atomic.Uint64

// Presenter owns a mutable state value and broadcasts snapshots of it to
// every connected view handle.
//
// A presenter outlives the views bound to it. Views come and go with their
// host lifecycle; the presenter keeps a registry of their handles, detects
// the first-connect and last-disconnect edges, and commits state snapshots
// to every registered handle in strictly increasing order.
//
// Thread safety:
//   - All public methods are safe for concurrent use.
//   - State is mutated only on the presenter executor, inside the commit
//     section; Update is the supported way to mutate from arbitrary
//     goroutines.
//   - Membership transitions are atomic with respect to each other: no two
//     concurrent connects observe the first-connect edge, and no two
//     concurrent disconnects observe the last-disconnect edge.
//
// Lifecycle:
//   - Create with NewPresenter.
//   - Bind views with Bind; they connect themselves.
//   - The owner discards the presenter once IsDetached reports true,
//     calling Close to stop the executor.
type Presenter[S types.State[S]] struct {
	cfg      Config
	id       uint64
	state    S
	delivery types.Dispatcher
	executor types.Dispatcher
	hooks    types.Hooks[S]
	logger   types.Logger
	metrics  types.MetricsCollector

	// ownedExecutor is non-nil when the presenter created its executor and
	// must stop it on Close.
	ownedExecutor *Loop

	// mu is the presenter-wide mutual-exclusion section: hooks and commits
	// run under it, which is what keeps snapshot broadcasts strictly
	// ordered and lets hooks mutate state safely.
	mu sync.Mutex

	// regMu serializes membership transitions so first/last edge detection
	// is atomic; the broadcast read path iterates the map lock-free.
	regMu   sync.Mutex
	handles *xsync.Map[uint64, types.ViewHandle[S]]
	size    atomic.Int64

	ctx    context.Context
	cancel context.CancelFunc
	closed atomic.Bool
}

// NewPresenter creates a new presenter owning the given state.
//
// Parameters:
//   - cfg: Configuration; missing values are filled with defaults
//   - state: Initial state value, owned by the presenter from now on
//   - delivery: Serialized dispatcher for view-bound work, typically one
//     shared Loop per process (the "main thread" analog)
//   - opts: Optional configuration (hooks, metrics, logger, executor)
//
// Returns:
//   - *Presenter[S]: Initialized presenter with a fresh unique ID
//   - error: Validation error if configuration is invalid
//
// Example:
//
//	delivery := simplemvp.NewLoop(logger)
//	p, err := simplemvp.NewPresenter(&simplemvp.Config{}, &CounterState{}, delivery)
func NewPresenter[S types.State[S]](cfg *Config, state S, delivery types.Dispatcher, opts ...Option[S]) (*Presenter[S], error) {
	if cfg == nil {
		return nil, ErrInvalidConfig
	}
	if delivery == nil {
		return nil, ErrDispatcherRequired
	}

	SetDefaults(cfg)

	if err := cfg.Validate(); err != nil {
		return nil, fmt.Errorf("invalid configuration: %w", err)
	}

	options := &presenterOptions[S]{}
	for _, opt := range opts {
		opt(options)
	}

	// Provide safe defaults for optional dependencies to avoid nil checks
	// everywhere.
	loggerInstance := options.logger
	if loggerInstance == nil {
		loggerInstance = logging.NewNop()
	}

	metricsCollector := options.metrics
	if metricsCollector == nil {
		metricsCollector = metrics.NewNop()
	}

	hooksInstance := options.hooks
	if hooksInstance == nil {
		nopHooks := hooks.NewNop[S]()
		hooksInstance = &nopHooks
	}

	p := &Presenter[S]{
		cfg:      *cfg,
		id:       presenterSeq.Add(1),
		state:    state,
		delivery: delivery,
		hooks:    *hooksInstance,
		logger:   loggerInstance,
		metrics:  metricsCollector,
		handles:  xsync.NewMap[uint64, types.ViewHandle[S]](),
	}

	if options.executor != nil {
		p.executor = options.executor
	} else {
		p.ownedExecutor = NewLoop(loggerInstance)
		p.executor = p.ownedExecutor
	}

	p.ctx, p.cancel = context.WithCancel(context.Background())

	return p, nil
}

// ID returns the presenter's process-unique identifier.
func (p *Presenter[S]) ID() uint64 {
	return p.id
}

// IsDetached reports whether the presenter has no connected handles.
//
// The external owner uses this to decide when to discard the presenter.
func (p *Presenter[S]) IsDetached() bool {
	return p.size.Load() == 0
}

// Connect registers a view handle with the presenter.
//
// Hooks run asynchronously on the presenter executor, under the commit
// section: OnFirstConnected (when this is the first handle) then
// OnConnected. After the section the current state snapshot is posted to
// the new handle regardless of hook failures, so the handle always observes
// the hooks' effects before anything committed later.
//
// Connecting an already-registered handle is a no-op. Bind calls Connect;
// calling it directly is only needed for custom handle implementations.
func (p *Presenter[S]) Connect(handle types.ViewHandle[S]) {
	if handle == nil || p.closed.Load() {
		return
	}

	p.regMu.Lock()
	if _, dup := p.handles.Load(handle.ID()); dup {
		p.regMu.Unlock()

		return
	}

	isFirst := p.size.Load() == 0
	p.handles.Store(handle.ID(), handle)
	p.size.Add(1)
	p.regMu.Unlock()

	p.metrics.RecordConnect(isFirst)
	p.logger.Debug("handle connected",
		"presenter_id", p.id,
		"handle_id", handle.ID(),
		"first", isFirst,
	)

	p.executor.Post(func() {
		p.mu.Lock()
		if isFirst {
			p.runHook("first_connected", func() error {
				if p.hooks.OnFirstConnected == nil {
					return nil
				}

				return p.hooks.OnFirstConnected(p.ctx, handle)
			})
		}
		p.runHook("connected", func() error {
			if p.hooks.OnConnected == nil {
				return nil
			}

			return p.hooks.OnConnected(p.ctx, handle)
		})

		// Snapshot inside the section so the handle observes the hooks'
		// state, post outside it so delivery never holds the lock.
		snapshot := p.state.Clone()
		p.mu.Unlock()

		handle.Post(snapshot)
	})
}

// Disconnect removes a view handle from the presenter.
//
// Disconnect is idempotent: removing a handle twice (for example once
// explicitly and once via weak-reference detection) runs the hooks at most
// once. OnDisconnected runs on the executor under the commit section,
// followed by OnLastDisconnected when no handles remain.
func (p *Presenter[S]) Disconnect(handle types.ViewHandle[S]) {
	if handle == nil {
		return
	}

	p.regMu.Lock()
	if _, loaded := p.handles.LoadAndDelete(handle.ID()); !loaded {
		p.regMu.Unlock()

		return
	}

	isLast := p.size.Add(-1) == 0
	p.regMu.Unlock()

	p.metrics.RecordDisconnect(isLast)
	p.logger.Debug("handle disconnected",
		"presenter_id", p.id,
		"handle_id", handle.ID(),
		"last", isLast,
	)

	p.executor.Post(func() {
		p.mu.Lock()
		defer p.mu.Unlock()

		p.runHook("disconnected", func() error {
			if p.hooks.OnDisconnected == nil {
				return nil
			}

			return p.hooks.OnDisconnected(p.ctx, handle)
		})

		if isLast {
			p.runHook("last_disconnected", func() error {
				if p.hooks.OnLastDisconnected == nil {
					return nil
				}

				return p.hooks.OnLastDisconnected(p.ctx)
			})
		}
	})
}

// Commit broadcasts the current state to all connected handles.
//
// The broadcast runs on the presenter executor under the commit section,
// which keeps snapshot order strictly increasing: no handle observes a
// later commit before an earlier one. Nothing is broadcast unless the state
// reports itself changed or is still in its initial, never-committed form.
// Every handle receives an independent clone.
//
// Commit never blocks the caller and is safe to call from hooks.
func (p *Presenter[S]) Commit() {
	p.executor.Post(func() {
		p.mu.Lock()
		defer p.mu.Unlock()

		p.commitLocked()
	})
}

// Update runs fn against the state on the presenter executor, inside the
// commit section, then commits.
//
// This is the supported way to mutate state from arbitrary goroutines:
//
//	p.Update(func(s *CounterState) {
//	    s.Count++
//	    s.MarkChanged()
//	})
func (p *Presenter[S]) Update(fn func(state S)) {
	if fn == nil {
		return
	}

	p.executor.Post(func() {
		p.mu.Lock()
		defer p.mu.Unlock()

		fn(p.state)
		p.commitLocked()
	})
}

// commitLocked broadcasts the state if warranted. Caller holds p.mu.
func (p *Presenter[S]) commitLocked() {
	if !p.state.Changed() && !p.state.Initial() {
		return
	}

	count := 0
	p.handles.Range(func(_ uint64, h types.ViewHandle[S]) bool {
		h.Post(p.state.Clone())
		count++

		return true
	})

	p.state.ClearChanged()

	p.logger.Debug("state committed", "presenter_id", p.id, "handles", count)
}

// Finish asks every connected view to terminate.
func (p *Presenter[S]) Finish() {
	p.handles.Range(func(_ uint64, h types.ViewHandle[S]) bool {
		h.Finish()

		return true
	})
}

// Close shuts the presenter down.
//
// It cancels the lifecycle context passed to hooks and, when the presenter
// owns its executor, stops it after draining pending hook and commit tasks.
// Safe to call once; subsequent calls return ErrAlreadyClosed.
//
// Parameters:
//   - ctx: Context bounding how long to wait for the executor drain
//
// Returns:
//   - error: ErrAlreadyClosed, or ctx.Err() on drain timeout
func (p *Presenter[S]) Close(ctx context.Context) error {
	if !p.closed.CompareAndSwap(false, true) {
		return ErrAlreadyClosed
	}

	p.cancel()

	if p.ownedExecutor != nil {
		if err := p.ownedExecutor.Stop(ctx); err != nil {
			return fmt.Errorf("executor stop failed: %w", err)
		}
	}

	p.logger.Debug("presenter closed", "presenter_id", p.id)

	return nil
}

// runHook invokes one hook, absorbing errors and panics. Caller holds p.mu.
func (p *Presenter[S]) runHook(name string, fn func() error) {
	defer func() {
		if r := recover(); r != nil {
			p.metrics.RecordHookError(name)
			p.logger.Error("hook panic", "presenter_id", p.id, "hook", name, "panic", r)
		}
	}()

	if err := fn(); err != nil {
		p.metrics.RecordHookError(name)
		p.logger.Error("hook error", "presenter_id", p.id, "hook", name, "error", err)
	}
}
