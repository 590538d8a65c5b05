// Package pool provides the shared execution pool for background jobs: a
// buffered JobQueue consumed by a fixed number of worker goroutines. A pool
// with a single worker doubles as a serial queue whose jobs run one at a
// time in submission order.
package pool
