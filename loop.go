package simplemvp

import (
	"context"
	"sync"

	"github.com/lilislilit/SimpleMVP/logging"
	"github.com/lilislilit/SimpleMVP/types"
)

// Loop is a serialized execution context backed by a single goroutine.
//
// Tasks are queued without bound, so Post never blocks the caller; they run
// one at a time in submission order. A panic inside a task is recovered and
// logged, never propagated, so one faulty task cannot take the loop down.
//
// The library uses loops for both of its execution contexts: the delivery
// loop that serializes all view-bound work (the "main thread" analog, shared
// by any number of presenters and handles) and the per-presenter executor
// that serializes hooks and commits.
type Loop struct {
	logger types.Logger

	mu       sync.Mutex
	cond     *sync.Cond
	tasks    []func()
	stopping bool
	done     chan struct{}
}

// Compile-time assertion that Loop implements Dispatcher.
var _ types.Dispatcher = (*Loop)(nil)

// NewLoop creates and starts a new loop.
//
// Parameters:
//   - logger: Logger for recovered task panics; nil defaults to a nop logger
//
// Returns:
//   - *Loop: A running loop, accepting tasks immediately
func NewLoop(logger types.Logger) *Loop {
	if logger == nil {
		logger = logging.NewNop()
	}

	l := &Loop{
		logger: logger,
		done:   make(chan struct{}),
	}
	l.cond = sync.NewCond(&l.mu)

	go l.run()

	return l
}

// Post submits fn for asynchronous execution. It never blocks.
//
// Tasks posted after Stop are dropped.
func (l *Loop) Post(fn func()) {
	l.mu.Lock()
	defer l.mu.Unlock()

	if l.stopping {
		l.logger.Debug("task posted to stopped loop, dropped")
		return
	}

	l.tasks = append(l.tasks, fn)
	l.cond.Signal()
}

// Stop shuts the loop down, running all pending tasks first.
//
// Parameters:
//   - ctx: Context bounding how long to wait for the drain
//
// Returns:
//   - error: ErrLoopStopped if already stopped, or ctx.Err() on timeout
func (l *Loop) Stop(ctx context.Context) error {
	l.mu.Lock()
	if l.stopping {
		l.mu.Unlock()

		return ErrLoopStopped
	}

	l.stopping = true
	l.cond.Signal()
	l.mu.Unlock()

	select {
	case <-l.done:
		return nil
	case <-ctx.Done():
		return ctx.Err()
	}
}

// run is the loop goroutine: pop a task, run it, repeat until stopped and
// drained.
func (l *Loop) run() {
	for {
		l.mu.Lock()
		for len(l.tasks) == 0 && !l.stopping {
			l.cond.Wait()
		}

		if len(l.tasks) == 0 {
			// stopping and drained
			l.mu.Unlock()
			close(l.done)

			return
		}

		fn := l.tasks[0]
		l.tasks[0] = nil
		l.tasks = l.tasks[1:]
		l.mu.Unlock()

		l.invoke(fn)
	}
}

// invoke runs one task, containing any panic.
func (l *Loop) invoke(fn func()) {
	defer func() {
		if r := recover(); r != nil {
			l.logger.Error("loop task panic", "panic", r)
		}
	}()

	fn()
}
