package domain

// Security is a tradable instrument held in a depot account.
type Security struct {
	SecurityID string `json:"securityID"` // Primary Key (UUID)
	OwnerID    string `json:"ownerID"`    // FK -> users.user_id (Not Null)
	Name       string `json:"name"`
	ISIN       string `json:"isin"`
	AuditFields
}
