// Package logging provides types.Logger implementations.
//
// Available loggers:
//   - NewSlog / NewSlogDefault: structured logging via log/slog
//   - NewNop: discards all messages
//   - NewTest: writes to a testing.T, for visible log output in test runs
package logging
