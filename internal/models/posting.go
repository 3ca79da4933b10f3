package models

import (
	"time"

	"github.com/shopspring/decimal"
)

// Posting represents a row of the postings table. OwnerID and Subject are
// denormalized from the originating entry at insert time; the entry row is
// removed in the same transaction, and self-transfer matching still needs to
// query by owner, amount and subject afterwards.
type Posting struct {
	PostingID       string           `db:"posting_id"`
	EntryID         string           `db:"entry_id"`
	OwnerID         string           `db:"owner_id"`
	Kind            string           `db:"kind"`
	AccountID       *string          `db:"account_id"`
	ContactID       *string          `db:"contact_id"`
	SavingsPlanID   *string          `db:"savings_plan_id"`
	SecurityID      *string          `db:"security_id"`
	BookingDate     time.Time        `db:"booking_date"`
	ValutaDate      time.Time        `db:"valuta_date"`
	Amount          decimal.Decimal  `db:"amount"`
	Subject         string           `db:"subject"`
	SecurityTxKind  *string          `db:"security_tx_kind"`
	Quantity        *decimal.Decimal `db:"quantity"`
	GroupID         string           `db:"group_id"`
	ParentPostingID *string          `db:"parent_posting_id"`
	LinkedPostingID *string          `db:"linked_posting_id"`
	AuditFields
}
