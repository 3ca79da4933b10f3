package models

// Attachment represents a row of the attachments table.
type Attachment struct {
	AttachmentID  string `db:"attachment_id"`
	OwnerKind     string `db:"owner_kind"`
	OwnerEntityID string `db:"owner_entity_id"`
	FileName      string `db:"file_name"`
	AuditFields
}
