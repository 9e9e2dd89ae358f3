package types

import "time"

// View is the boundary the library consumes from a view collaborator.
//
// A view is a short-lived, lifecycle-bound consumer of state snapshots. All
// View methods are invoked on the delivery dispatcher, never concurrently
// with themselves for the same handle. OnStateChanged receives an
// independent snapshot clone that the view may retain.
//
// Views are bound with Bind, which keeps only a weak reference: a view that
// is garbage collected without an explicit disconnect is detected and
// detached automatically. Explicit disconnect in the view's teardown path
// remains the required cleanup; the weak detection is a safety net.
type View[S any] interface {
	// OnStateChanged renders a new state snapshot.
	OnStateChanged(state S)

	// Arguments returns the parameters the view was created with.
	Arguments() Arguments

	// Host returns the view's host environment accessor.
	Host() Host

	// Finish terminates the view.
	Finish()
}

// Host exposes host-environment actions to a presenter through a view
// handle. Calls are posted onto the delivery dispatcher and silently dropped
// when the owning view is gone.
type Host interface {
	// ShowMessage displays a transient message to the user.
	ShowMessage(text string, duration time.Duration)

	// StartAction launches a named host action (the analog of starting an
	// activity or intent). The error is logged by the caller, not
	// propagated.
	StartAction(name string, args Arguments) error
}

// ViewHandle identifies one connected view instance and is the boundary the
// presenter (and its hooks) use to reach that view.
//
// All methods are safe for concurrent use and never block the caller beyond
// brief internal critical sections. Operations targeting a reclaimed view
// are no-ops.
type ViewHandle[S any] interface {
	// ID returns the handle's process-unique identifier.
	ID() uint64

	// Post enqueues a state snapshot for delivery to the view.
	Post(snapshot S)

	// SetEnabled toggles delivery readiness. Enabling while the view is
	// resumed drains the queue immediately.
	SetEnabled(enabled bool)

	// Finish asks the view to terminate.
	Finish()

	// ShowMessage forwards a transient message to the view's host.
	ShowMessage(text string, duration time.Duration)

	// StartHostAction forwards a named action to the view's host.
	StartHostAction(name string, args Arguments)

	// View returns the bound view, or nil when it has been reclaimed.
	View() View[S]

	// Arguments returns the view's arguments, or an empty Arguments when
	// the view has been reclaimed.
	Arguments() Arguments
}
