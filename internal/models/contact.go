package models

// Contact represents a row of the contacts table.
type Contact struct {
	ContactID    string `db:"contact_id"`
	OwnerID      string `db:"owner_id"`
	Name         string `db:"name"`
	Intermediary bool   `db:"intermediary"`
	Self         bool   `db:"self"`
	AuditFields
}
