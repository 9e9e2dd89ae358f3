// Package hooks provides the default no-op presenter hooks.
package hooks

import (
	"context"

	"github.com/lilislilit/SimpleMVP/types"
)

// NewNop creates hooks with no-op callbacks.
//
// This is the default used when no custom hooks are provided, so presenter
// code can invoke hook fields without per-field nil checks on the common
// path.
//
// Returns:
//   - types.Hooks[S]: Hooks with no-op implementations
func NewNop[S any]() types.Hooks[S] {
	return types.Hooks[S]{
		OnFirstConnected: func(_ context.Context, _ types.ViewHandle[S]) error {
			return nil
		},
		OnConnected: func(_ context.Context, _ types.ViewHandle[S]) error {
			return nil
		},
		OnDisconnected: func(_ context.Context, _ types.ViewHandle[S]) error {
			return nil
		},
		OnLastDisconnected: func(_ context.Context) error {
			return nil
		},
	}
}
