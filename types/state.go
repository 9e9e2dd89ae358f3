package types

// State is the constraint for presenter state types.
//
// A state value is owned by exactly one presenter and mutated only on that
// presenter's executor. Views never see the presenter's instance: every
// broadcast delivers an independent clone, so no two handles observe the
// same mutable value.
//
// Implementations typically embed BaseState for the flag bookkeeping and add
// a Clone method that copies the concrete struct:
//
//	type CounterState struct {
//	    types.BaseState
//	    Count int
//	}
//
//	func (s *CounterState) Clone() *CounterState {
//	    c := *s
//	    return &c
//	}
type State[S any] interface {
	// Clone returns an independent copy of the state, including its
	// changed/initial flags.
	Clone() S

	// Changed reports whether the state was modified since the last commit.
	Changed() bool

	// Initial reports whether the state has never been committed.
	Initial() bool

	// ClearChanged marks the state as committed and unmodified.
	ClearChanged()
}

// BaseState implements the State flag bookkeeping.
//
// The zero value is initial and unchanged, which is what a freshly
// constructed presenter state should report. Embed it by value so that
// Clone's struct copy carries the flags along.
//
// BaseState is not safe for concurrent use on its own; the presenter's
// commit section serializes all access.
type BaseState struct {
	changed   bool
	committed bool
}

// MarkChanged flags the state as modified so the next commit broadcasts it.
func (s *BaseState) MarkChanged() {
	s.changed = true
}

// Changed reports whether the state was modified since the last commit.
func (s *BaseState) Changed() bool {
	return s.changed
}

// Initial reports whether the state has never been committed.
func (s *BaseState) Initial() bool {
	return !s.committed
}

// ClearChanged marks the state as committed and unmodified.
func (s *BaseState) ClearChanged() {
	s.changed = false
	s.committed = true
}
