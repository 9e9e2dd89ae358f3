package types

// Dispatcher is a serialized execution context consumed by the library.
//
// Post submits fn for asynchronous execution and must not block the caller.
// Tasks posted to the same Dispatcher run one at a time, in submission
// order. The library uses two such contexts: a delivery dispatcher that
// serializes all view-bound work, and a per-presenter executor that
// serializes hooks and commits.
//
// The root package's Loop is the default implementation; any scheduler with
// the same guarantees (an UI main loop, a single-worker pool) can be
// supplied instead.
type Dispatcher interface {
	Post(fn func())
}
