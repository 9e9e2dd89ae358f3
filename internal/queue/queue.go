// Package queue implements the per-handle state snapshot queue.
//
// The queue accepts concurrent, non-blocking pushes from any goroutine and
// is drained by exactly one logical drainer at a time (the handle's drain
// serialization enforces this). Under backlog, Drain thins the stream
// adaptively so a slow consumer receives a representative subsample instead
// of every stale snapshot, while the final snapshot of a burst is always
// forwarded.
package queue

import "sync"

// Queue is an unbounded FIFO of state snapshots.
type Queue[S any] struct {
	factor int

	mu    sync.Mutex
	items []S
	head  int
}

// New creates a queue with the given thinning factor.
//
// The factor controls how aggressively Drain subsamples a backlog: with a
// backlog of size items, roughly factor snapshots of the pass are forwarded
// and the rest are skipped. A factor below 1 is treated as 1.
func New[S any](factor int) *Queue[S] {
	if factor < 1 {
		factor = 1
	}

	return &Queue[S]{factor: factor}
}

// Push enqueues a snapshot. It never blocks and never fails; growth is
// bounded only by the thinning policy applied on drain.
func (q *Queue[S]) Push(s S) {
	q.mu.Lock()
	q.items = append(q.items, s)
	q.mu.Unlock()
}

// Pop removes and returns the oldest snapshot.
func (q *Queue[S]) Pop() (S, bool) {
	q.mu.Lock()
	defer q.mu.Unlock()

	if q.head >= len(q.items) {
		var zero S
		return zero, false
	}

	s := q.items[q.head]
	var zero S
	q.items[q.head] = zero // release the reference
	q.head++

	// Reclaim the consumed prefix once it dominates the backing slice.
	if q.head > 32 && q.head*2 >= len(q.items) {
		q.items = append(q.items[:0], q.items[q.head:]...)
		q.head = 0
	}

	return s, true
}

// Len returns the number of queued snapshots.
func (q *Queue[S]) Len() int {
	q.mu.Lock()
	defer q.mu.Unlock()

	return len(q.items) - q.head
}

// Empty reports whether the queue has no snapshots.
func (q *Queue[S]) Empty() bool {
	return q.Len() == 0
}

// Drain pops snapshots while permitted() holds and the queue is non-empty,
// forwarding a subsample of them to deliver.
//
// Thinning: with size being the backlog at the start of the pass and
// n = size/factor, one of every n popped snapshots is forwarded; size and n
// are recomputed after every forward so the ratio adapts to concurrent
// pushes. A pop that empties the queue is always forwarded, so the final
// snapshot of a burst is never lost. When n == 0 the backlog is small and
// every snapshot is forwarded.
//
// Drain returns the number of snapshots forwarded and skipped. It must not
// be called concurrently with itself; Push may race freely.
func (q *Queue[S]) Drain(permitted func() bool, deliver func(S)) (delivered, thinned int) {
	size := q.Len()
	n := size / q.factor
	sincePick := 0

	for permitted() {
		s, ok := q.Pop()
		if !ok {
			break
		}

		sincePick++
		if n == 0 || q.Empty() || sincePick >= n {
			deliver(s)
			delivered++

			size = q.Len()
			n = size / q.factor
			sincePick = 0
		} else {
			thinned++
		}
	}

	return delivered, thinned
}
