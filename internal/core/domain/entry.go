package domain

import (
	"time"

	"github.com/shopspring/decimal"
)

// EntryStatus indicates the review state of a draft entry.
type EntryStatus string

const (
	// EntryOpen marks an entry that still needs a manual check before booking.
	EntryOpen EntryStatus = "OPEN"
	// EntryAnnounced marks a pre-announced movement that is not yet value-effective.
	EntryAnnounced EntryStatus = "ANNOUNCED"
	// EntryAccounted marks an entry that has been checked and may be booked.
	EntryAccounted EntryStatus = "ACCOUNTED"
	// EntryAlreadyBooked marks an entry whose posting already exists elsewhere,
	// e.g. the settled counterpart of a child draft in a split group.
	EntryAlreadyBooked EntryStatus = "ALREADY_BOOKED"
)

// Entry is one line item within a Draft, eventually producing one or more
// postings. An entry may reference a counter-party contact, a savings plan, a
// security position change, and at most one split draft that breaks the entry
// down into its underlying movements.
type Entry struct {
	EntryID          string           `json:"entryID"`   // Primary Key (UUID)
	DraftID          string           `json:"draftID"`   // FK -> drafts.draft_id (Not Null)
	BookingDate      time.Time        `json:"bookingDate"`
	ValutaDate       *time.Time       `json:"valutaDate"`
	Amount           decimal.Decimal  `json:"amount"` // Signed, fixed-point
	Subject          string           `json:"subject"`
	CounterpartyName string           `json:"counterpartyName"` // Raw name from the statement, before classification
	CurrencyCode     string           `json:"currencyCode"`
	Description      string           `json:"description"`
	ContactID        *string          `json:"contactID"`
	SavingsPlanID    *string          `json:"savingsPlanID"`
	ArchiveOnBooking bool             `json:"archiveOnBooking"` // Archive the plan once its goal is reached
	SecurityID       *string          `json:"securityID"`
	SecurityTxKind   *SecurityTxKind  `json:"securityTxKind"`
	Quantity         *decimal.Decimal `json:"quantity"`
	Fee              decimal.Decimal  `json:"fee"`
	Tax              decimal.Decimal  `json:"tax"`
	SplitDraftID     *string          `json:"splitDraftID"` // Assigned at most once, never within the same upload group
	CostNeutral      bool             `json:"costNeutral"`
	Status           EntryStatus      `json:"status"`
	AuditFields
}

// HasSecurity reports whether the entry carries a security reference.
func (e *Entry) HasSecurity() bool {
	return e.SecurityID != nil
}

// InValidationScope reports whether the entry participates in validation and
// booking. Already-booked and announced entries are settled or not yet due.
func (e *Entry) InValidationScope() bool {
	return e.Status != EntryAlreadyBooked && e.Status != EntryAnnounced
}

// EntryPatch expresses a partial update of an Entry. A nil pointer leaves the
// field untouched; the corresponding Clear flag explicitly resets an optional
// field. This keeps "absent", "assign" and "clear" distinguishable without
// sentinel values.
type EntryPatch struct {
	BookingDate *time.Time
	Amount      *decimal.Decimal
	Subject     *string
	Status      *EntryStatus
	CostNeutral *bool

	ValutaDate      *time.Time
	ClearValutaDate bool

	ContactID    *string
	ClearContact bool

	SavingsPlanID    *string
	ClearSavingsPlan bool
	ArchiveOnBooking *bool

	SecurityID     *string
	ClearSecurity  bool
	SecurityTxKind *SecurityTxKind
	Quantity       *decimal.Decimal
	Fee            *decimal.Decimal
	Tax            *decimal.Decimal
}
