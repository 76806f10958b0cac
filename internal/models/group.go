package models

// Group represents a shared expense group. The token doubles as the
// primary key and the capability to reach the group on the remote
// authority; whoever knows the token can join.
type Group struct {
	// Token is the globally unique group identifier (UUID format).
	Token string `json:"token"`

	// Name is the display name of the group.
	Name string `json:"name"`

	// Currency is the group's base currency code (e.g. "EUR").
	Currency string `json:"currency"`

	// CreatedAt and ModifiedAt are stamps in StampLayout.
	CreatedAt  string `json:"created_at"`
	ModifiedAt string `json:"modified_at"`

	// Status is the local sync disposition; never sent over the wire.
	Status Status `json:"-"`
}
