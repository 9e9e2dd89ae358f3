package simplemvp

import "errors"

// Sentinel errors returned by the library.
var (
	// ErrInvalidConfig is returned when the configuration is invalid.
	ErrInvalidConfig = errors.New("invalid configuration")

	// ErrDispatcherRequired is returned when the delivery dispatcher is nil.
	ErrDispatcherRequired = errors.New("delivery dispatcher is required")

	// ErrPresenterRequired is returned when Bind is called with a nil presenter.
	ErrPresenterRequired = errors.New("presenter is required")

	// ErrViewRequired is returned when Bind is called with a nil view.
	ErrViewRequired = errors.New("view is required")

	// ErrAlreadyClosed is returned when closing or binding to a presenter
	// that was already closed.
	ErrAlreadyClosed = errors.New("presenter already closed")

	// ErrLoopStopped is returned when Stop is called on a loop that was
	// already stopped.
	ErrLoopStopped = errors.New("loop already stopped")
)
