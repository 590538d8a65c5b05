// Package metrics exposes Prometheus instrumentation for bulk status
// updates and the task store.
package metrics
