package models

// UserBinding records which member this device acts as within a group.
// One row per group, upsert semantics. Purely local, never synced.
type UserBinding struct {
	GroupToken string
	MemberUUID string
}
