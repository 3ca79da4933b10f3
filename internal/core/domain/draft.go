package domain

// DraftStatus indicates the lifecycle state of a reconciliation draft.
type DraftStatus string

const (
	DraftOpen      DraftStatus = "DRAFT"
	DraftCommitted DraftStatus = "COMMITTED"
	DraftExpired   DraftStatus = "EXPIRED"
)

// Draft is a mutable, pre-posting batch of statement entries awaiting
// validation and booking. Drafts that originated from one physical file upload
// share an UploadGroupID.
type Draft struct {
	DraftID       string      `json:"draftID"`       // Primary Key (UUID)
	OwnerID       string      `json:"ownerID"`       // FK -> users.user_id (Not Null)
	FileName      string      `json:"fileName"`      // Original upload filename, or a user-chosen label
	AccountID     *string     `json:"accountID"`     // Detected bank account, nil until classified
	UploadGroupID *string     `json:"uploadGroupID"` // Shared by all drafts of one physical upload
	Status        DraftStatus `json:"status"`
	Entries       []Entry     `json:"entries,omitempty"` // Often loaded separately
	AuditFields
}
