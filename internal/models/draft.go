package models

import (
	"time"

	"github.com/shopspring/decimal"
)

// Draft represents a row of the drafts table.
type Draft struct {
	DraftID       string  `db:"draft_id"`
	OwnerID       string  `db:"owner_id"`
	FileName      string  `db:"file_name"`
	AccountID     *string `db:"account_id"`
	UploadGroupID *string `db:"upload_group_id"`
	Status        string  `db:"status"`
	AuditFields
}

// Entry represents a row of the entries table.
type Entry struct {
	EntryID          string           `db:"entry_id"`
	DraftID          string           `db:"draft_id"`
	BookingDate      time.Time        `db:"booking_date"`
	ValutaDate       *time.Time       `db:"valuta_date"`
	Amount           decimal.Decimal  `db:"amount"`
	Subject          string           `db:"subject"`
	CounterpartyName string           `db:"counterparty_name"`
	CurrencyCode     string           `db:"currency_code"`
	Description      string           `db:"description"`
	ContactID        *string          `db:"contact_id"`
	SavingsPlanID    *string          `db:"savings_plan_id"`
	ArchiveOnBooking bool             `db:"archive_on_booking"`
	SecurityID       *string          `db:"security_id"`
	SecurityTxKind   *string          `db:"security_tx_kind"`
	Quantity         *decimal.Decimal `db:"quantity"`
	Fee              decimal.Decimal  `db:"fee"`
	Tax              decimal.Decimal  `db:"tax"`
	SplitDraftID     *string          `db:"split_draft_id"`
	CostNeutral      bool             `db:"cost_neutral"`
	Status           string           `db:"status"`
	AuditFields
}
