package models

// Security represents a row of the securities table.
type Security struct {
	SecurityID string `db:"security_id"`
	OwnerID    string `db:"owner_id"`
	Name       string `db:"name"`
	ISIN       string `db:"isin"`
	AuditFields
}
