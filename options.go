package simplemvp

import "github.com/lilislilit/SimpleMVP/types"

// Option configures a Presenter with optional dependencies.
//
// Options are generic over the state type so that hooks can be typed; the
// compiler infers S from the NewPresenter call site.
type Option[S any] func(*presenterOptions[S])

// presenterOptions holds optional Presenter configuration.
type presenterOptions[S any] struct {
	hooks    *types.Hooks[S]
	metrics  types.MetricsCollector
	logger   types.Logger
	executor types.Dispatcher
}

// WithHooks sets lifecycle event hooks.
//
// Parameters:
//   - hooks: Hooks structure with callback functions; nil fields are skipped
//
// Returns:
//   - Option[S]: Functional option for NewPresenter
//
// Example:
//
//	hooks := &simplemvp.Hooks[*CounterState]{
//	    OnFirstConnected: func(ctx context.Context, h simplemvp.ViewHandle[*CounterState]) error {
//	        return loadInitialCount(ctx)
//	    },
//	}
//	p, err := simplemvp.NewPresenter(&cfg, state, delivery, simplemvp.WithHooks(hooks))
func WithHooks[S any](hooks *types.Hooks[S]) Option[S] {
	return func(o *presenterOptions[S]) {
		o.hooks = hooks
	}
}

// WithMetrics sets a metrics collector.
//
// Parameters:
//   - metrics: MetricsCollector implementation (e.g. metrics.NewPrometheus)
//
// Returns:
//   - Option[S]: Functional option for NewPresenter
func WithMetrics[S any](metrics types.MetricsCollector) Option[S] {
	return func(o *presenterOptions[S]) {
		o.metrics = metrics
	}
}

// WithLogger sets a logger.
//
// Parameters:
//   - logger: Logger implementation (compatible with zap.SugaredLogger)
//
// Returns:
//   - Option[S]: Functional option for NewPresenter
func WithLogger[S any](logger types.Logger) Option[S] {
	return func(o *presenterOptions[S]) {
		o.logger = logger
	}
}

// WithExecutor sets the presenter executor, the serialized context that
// runs hooks and commits.
//
// By default every presenter owns a private Loop and stops it on Close.
// Supplying an executor transfers that ownership to the caller: the
// presenter will use it but never stop it, which allows several presenters
// to share one executor as long as it serializes tasks.
//
// Parameters:
//   - executor: Dispatcher serializing all submitted tasks
//
// Returns:
//   - Option[S]: Functional option for NewPresenter
func WithExecutor[S any](executor types.Dispatcher) Option[S] {
	return func(o *presenterOptions[S]) {
		o.executor = executor
	}
}
