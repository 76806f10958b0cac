package models

// Status marks the sync disposition of a local row.
type Status int

const (
	// StatusNothing means the row is in sync with the remote authority.
	StatusNothing Status = iota

	// StatusToCreate means the row exists only locally; the remote has
	// never seen its ID.
	StatusToCreate

	// StatusToUpdate means the row was modified locally after having
	// been synced.
	StatusToUpdate

	// StatusToDelete means the row is tombstoned, awaiting a confirmed
	// remote delete before physical removal.
	StatusToDelete
)

func (s Status) String() string {
	switch s {
	case StatusNothing:
		return "nothing"
	case StatusToCreate:
		return "to_create"
	case StatusToUpdate:
		return "to_update"
	case StatusToDelete:
		return "to_delete"
	default:
		return "unknown"
	}
}

// Pending reports whether the row still needs a remote round-trip.
func (s Status) Pending() bool {
	return s != StatusNothing
}

// NextStatus computes the status a row should carry after an optimistic
// remote push. A confirmed push settles the row. A failed push must not
// lose the pending-change marker: a row the remote has never seen stays
// TO_CREATE, anything else becomes TO_UPDATE so a future pass retries
// the mutation as an update.
func NextStatus(prev Status, pushFailed bool) Status {
	if !pushFailed {
		return StatusNothing
	}
	if prev == StatusToCreate {
		return StatusToCreate
	}
	return StatusToUpdate
}
