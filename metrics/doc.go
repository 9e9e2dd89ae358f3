// Package metrics provides types.MetricsCollector implementations.
//
// Available collectors:
//   - NewNop: discards all metrics (the library default)
//   - NewPrometheus: records metrics via prometheus/client_golang
package metrics
