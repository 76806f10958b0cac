package sync

import "github.com/sharecount/sharecount/internal/models"

// Syncable is any entity the merge planner can reconcile: it exposes a
// primary key, the modified stamp used as conflict tiebreaker, and the
// local status tag.
type Syncable interface {
	SyncKey() string
	SyncStamp() string
	SyncStatus() models.Status
}

// Plan is the outcome of merging a local snapshot with the remote list.
// It is applied in order: local upserts and purges first, then the push
// and delete batches, whose statuses are only cleared on confirmed
// success.
type Plan[T Syncable] struct {
	// Upserts are rows the remote wins: written locally as synced.
	Upserts []T

	// Pushes are local rows to send in the create/update batch. Their
	// status stays pending until the push round-trip confirms.
	Pushes []T

	// RemoteDeletes are tombstoned local rows to send in the delete
	// batch; confirmed deletes are then purged locally.
	RemoteDeletes []T

	// Purges are keys of rows to remove from the local store outright:
	// the authoritative remote list no longer contains them.
	Purges []string
}

// planMerge computes a merge plan from the local rows of one scope and
// the full remote list. Pure function, the algorithmic core of every
// reconciler.
//
// Rules, in order, for each remote row:
//   - unknown locally: remote is new, upsert as synced
//   - local tombstone: queue the remote delete regardless of content
//   - local never-synced row with the same key: an ID collision between
//     devices; the last local write wins and is pushed
//   - local pending update strictly newer than remote: keep local,
//     queue push
//   - anything else (synced, or equal/older stamp): remote overwrites
//
// Local rows absent from the remote list were deleted by the authority
// and are purged, except never-synced rows, which the remote simply has
// not seen yet and which join the push batch.
func planMerge[T Syncable](local []T, remote []T) Plan[T] {
	var plan Plan[T]

	pending := make(map[string]T, len(local))
	for _, row := range local {
		pending[row.SyncKey()] = row
	}

	for _, remoteRow := range remote {
		localRow, ok := pending[remoteRow.SyncKey()]
		if !ok {
			plan.Upserts = append(plan.Upserts, remoteRow)
			continue
		}
		delete(pending, remoteRow.SyncKey())

		switch localRow.SyncStatus() {
		case models.StatusToDelete:
			plan.RemoteDeletes = append(plan.RemoteDeletes, localRow)
		case models.StatusToCreate:
			plan.Pushes = append(plan.Pushes, localRow)
		case models.StatusToUpdate:
			if models.StampNewer(localRow.SyncStamp(), remoteRow.SyncStamp()) {
				plan.Pushes = append(plan.Pushes, localRow)
			} else {
				plan.Upserts = append(plan.Upserts, remoteRow)
			}
		default:
			plan.Upserts = append(plan.Upserts, remoteRow)
		}
	}

	for key, localRow := range pending {
		if localRow.SyncStatus() == models.StatusToCreate {
			plan.Pushes = append(plan.Pushes, localRow)
		} else {
			plan.Purges = append(plan.Purges, key)
		}
	}

	return plan
}
