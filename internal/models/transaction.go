package models

// Transaction represents one expense paid by a member on behalf of the
// group, with a list of Debt line items saying who owes what share.
type Transaction struct {
	// UUID is the unique transaction identifier, client-generated.
	UUID string `json:"uuid"`

	// GroupToken is the owning group. Scoped by URL on the wire.
	GroupToken string `json:"-"`

	// Description is a free-form label ("Lunch", "Taxi").
	Description string `json:"description"`

	// Amount is the full expense amount as an exact decimal string, in
	// the transaction's own currency.
	Amount string `json:"amount"`

	// Currency is the currency the expense was paid in.
	Currency string `json:"currency"`

	// ExchangeRate converts Amount into the group currency, as an exact
	// decimal string ("1" when the currencies match).
	ExchangeRate string `json:"exchange_rate"`

	// PaidBy is the UUID of the member who fronted the money.
	PaidBy string `json:"paid_by"`

	// CreatedAt and ModifiedAt are stamps in StampLayout.
	CreatedAt  string `json:"created_at"`
	ModifiedAt string `json:"modified_at"`

	// Debtors is the full debt set. It is never synchronized on its
	// own: any create or modify of the transaction rewrites the whole
	// list.
	Debtors []Debt `json:"debtors"`

	// Status is the local sync disposition; never sent over the wire.
	Status Status `json:"-"`
}

// Debt is one debtor's share of a transaction, in the transaction
// currency before exchange-rate conversion.
type Debt struct {
	MemberUUID string `json:"member_uuid"`
	Amount     string `json:"amount"`
}
