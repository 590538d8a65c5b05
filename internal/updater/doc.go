// Package updater implements the concurrent bulk status update.
//
// An update snapshots a store, runs one completion job per task on a shared
// worker pool, waits until every job has reported (the join barrier), writes
// the completed tasks back with a single atomic publish and finally runs the
// caller's completion callback on a serial coordination queue.
//
// Jobs never touch the store or the snapshot: each completes a private copy
// of its task and hands it to the coordinating goroutine, which is the only
// writer of the snapshot. Without a deadline, a job that never reports
// stalls its update forever and the callback is never invoked.
package updater
