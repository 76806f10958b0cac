package models

// Member represents a participant in a group. Members are plain
// nicknames; there are no user accounts.
type Member struct {
	// UUID is the unique member identifier, client-generated.
	UUID string `json:"uuid"`

	// GroupToken is the owning group. Not serialized: the wire scopes
	// members by the token in the URL.
	GroupToken string `json:"-"`

	// Nickname is the display name within the group.
	Nickname string `json:"nickname"`

	// ModifiedAt is a stamp in StampLayout, the conflict tiebreaker.
	ModifiedAt string `json:"modified_at"`

	// Status is the local sync disposition; never sent over the wire.
	Status Status `json:"-"`
}
