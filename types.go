package simplemvp

import "github.com/lilislilit/SimpleMVP/types"

// Re-export types from the types package.
//
// This file provides a stable public API for the library's core types and
// interfaces. It uses type aliases to re-export definitions from the `types`
// subpackage, which contains the actual declarations.
//
// This pattern solves the "import cycle" problem by allowing internal
// packages to depend on `types` without depending on the root simplemvp
// package, while still providing a convenient `simplemvp.View`,
// `simplemvp.Hooks`, etc. for users.
type (
	State[S any]      = types.State[S]
	View[S any]       = types.View[S]
	ViewHandle[S any] = types.ViewHandle[S]
	Hooks[S any]      = types.Hooks[S]

	BaseState = types.BaseState
	Arguments = types.Arguments
	Host      = types.Host
)

// Re-export the ambient-capability interfaces for convenience.
type (
	Dispatcher       = types.Dispatcher
	Logger           = types.Logger
	MetricsCollector = types.MetricsCollector
)
