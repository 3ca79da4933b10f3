package domain

// AttachmentOwnerKind is the kind of entity an attachment is parented to.
type AttachmentOwnerKind string

const (
	AttachmentOwnerDraft   AttachmentOwnerKind = "DRAFT"
	AttachmentOwnerEntry   AttachmentOwnerKind = "ENTRY"
	AttachmentOwnerAccount AttachmentOwnerKind = "ACCOUNT"
	AttachmentOwnerPosting AttachmentOwnerKind = "POSTING"
)

// Attachment is a stored file (statement PDF, receipt) hanging off a draft,
// entry, account or posting. Booking re-parents attachments from the draft
// scope to the account/posting scope; storage mechanics live elsewhere.
type Attachment struct {
	AttachmentID  string              `json:"attachmentID"` // Primary Key (UUID)
	OwnerKind     AttachmentOwnerKind `json:"ownerKind"`
	OwnerEntityID string              `json:"ownerEntityID"`
	FileName      string              `json:"fileName"`
	AuditFields
}

// AttachmentMove names one re-parenting request issued by the booking engine.
type AttachmentMove struct {
	FromKind AttachmentOwnerKind `json:"fromKind"`
	FromID   string              `json:"fromID"`
	ToKind   AttachmentOwnerKind `json:"toKind"`
	ToID     string              `json:"toID"`
}
