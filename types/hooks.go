package types

import "context"

// Hooks defines callbacks for presenter lifecycle events.
//
// All hooks are optional and run on the presenter's executor, inside the
// same mutual-exclusion section as commits, so a hook may mutate the
// presenter state directly without further synchronization. Hooks receive
// the presenter's lifecycle context, which is cancelled when the presenter
// is closed.
//
// Hook errors (and panics) are logged and absorbed: they never propagate to
// callers and never prevent the snapshot that is posted to a freshly
// connected handle after OnConnected returns.
//
// Because hooks already run inside the commit section, they must not call
// the presenter's blocking Close; Commit and Update are safe, as both only
// enqueue work on the executor.
//
// Example:
//
//	hooks := &simplemvp.Hooks[*CounterState]{
//	    OnFirstConnected: func(ctx context.Context, h simplemvp.ViewHandle[*CounterState]) error {
//	        return loadInitialCount(ctx)
//	    },
//	}
type Hooks[S any] struct {
	// OnFirstConnected is called when a handle connects to a presenter that
	// previously had none. It runs before OnConnected for the same handle
	// and is the place to initialize state and acquire resources.
	OnFirstConnected func(ctx context.Context, handle ViewHandle[S]) error

	// OnConnected is called for every handle that connects.
	OnConnected func(ctx context.Context, handle ViewHandle[S]) error

	// OnDisconnected is called for every handle that disconnects.
	OnDisconnected func(ctx context.Context, handle ViewHandle[S]) error

	// OnLastDisconnected is called after OnDisconnected when the presenter
	// has no remaining handles and is about to be discarded by its owner.
	OnLastDisconnected func(ctx context.Context) error
}
