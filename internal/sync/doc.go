// Package sync implements the offline-first reconciliation engine.
//
// One reconciler exists per entity kind (groups, members,
// transactions), all running the same algorithm shape: read the local
// scope, fetch the full remote list, merge with last-modified-wins,
// push pending local changes, and publish the resulting projection.
//
// Two write paths exist:
//
//   - Optimistic single-entity mutations (Add/Modify/Delete): the local
//     write and projection update always complete; the remote push is
//     best effort and its failure only leaves the row's status pending.
//   - Synchronize: the batch pass that converges local and remote
//     state. Any remote failure aborts the remote work of that pass and
//     leaves local state untouched; the next pass retries.
//
// The original runtime was single-threaded cooperative; here the
// reconcilers can be driven from real concurrent goroutines (timer,
// user action), so every scope is guarded by a per-scope mutex to keep
// the exactly-one-writer-sees-the-pre-image invariant.
package sync
