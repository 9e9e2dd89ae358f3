// Package weakref provides weak ownership of view instances with reclaim
// detection.
//
// A Ref pairs a weak.Pointer with a runtime cleanup that fires when the
// referent is garbage collected. Expunge polls that notice: the first poll
// after reclamation reports true and every later poll reports false, which
// lets the caller run its cleanup (disconnecting the handle) exactly once.
// This is a safety net for views destroyed without an explicit disconnect;
// explicit disconnect in the view's teardown path remains the required
// cleanup, since garbage collection gives no timeliness guarantee.
package weakref

import (
	"runtime"
	"sync"
	"sync/atomic"
	"weak"
)

// Ref is a weak reference to a value of type T with reclaim notification.
type Ref[T any] struct {
	ptr       weak.Pointer[T]
	reclaimed atomic.Bool

	// mu makes Expunge polls mutually exclusive, so concurrent callers
	// cannot both observe the reclaim notice.
	mu       sync.Mutex
	expunged bool
}

// New creates a weak reference to v.
//
// The returned Ref does not keep v alive. Once v is garbage collected,
// Get returns nil and the next Expunge returns true.
func New[T any](v *T) *Ref[T] {
	r := &Ref[T]{ptr: weak.Make(v)}

	// The cleanup argument must not reach v; r holds only the weak pointer.
	runtime.AddCleanup(v, func(ref *Ref[T]) {
		ref.reclaimed.Store(true)
	}, r)

	return r
}

// Get returns a strong pointer to the referent, or nil when it has been
// reclaimed.
func (r *Ref[T]) Get() *T {
	return r.ptr.Value()
}

// Expunge polls the reclaim notice. It returns true exactly once, on the
// first call after the referent was reclaimed; all other calls return
// false. Safe for concurrent use.
func (r *Ref[T]) Expunge() bool {
	r.mu.Lock()
	defer r.mu.Unlock()

	if r.expunged {
		return false
	}

	if !r.reclaimed.Load() && r.ptr.Value() != nil {
		return false
	}

	r.expunged = true

	return true
}
