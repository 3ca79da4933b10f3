package domain

// Contact represents a counter-party of the account holder.
type Contact struct {
	ContactID string `json:"contactID"` // Primary Key (UUID)
	OwnerID   string `json:"ownerID"`   // FK -> users.user_id (Not Null)
	Name      string `json:"name"`
	// Intermediary marks a payment processor (e.g. a card acquirer) whose
	// settlement entries must be broken down via a linked split draft.
	Intermediary bool `json:"intermediary"`
	// Self marks the account holder's own contact. Entries against it are
	// self-transfers or savings-plan contributions.
	Self bool `json:"self"`
	AuditFields
}
