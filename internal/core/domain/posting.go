package domain

import (
	"time"

	"github.com/shopspring/decimal"
)

// PostingKind distinguishes the ledger legs produced by booking one entry.
type PostingKind string

const (
	PostingBank        PostingKind = "BANK"
	PostingContact     PostingKind = "CONTACT"
	PostingSavingsPlan PostingKind = "SAVINGS_PLAN"
	PostingSecurity    PostingKind = "SECURITY"
)

// SecurityTxKind classifies a security posting. Entries only carry Buy, Sell
// or Dividend; Fee and Tax legs are derived during booking.
type SecurityTxKind string

const (
	SecurityBuy      SecurityTxKind = "BUY"
	SecuritySell     SecurityTxKind = "SELL"
	SecurityDividend SecurityTxKind = "DIVIDEND"
	SecurityFee      SecurityTxKind = "FEE"
	SecurityTax      SecurityTxKind = "TAX"
)

// Posting is an immutable ledger leg created by the booking engine. All legs
// produced for one entry share a GroupID. A split child's leg references the
// corresponding zero-amount leg of its parent entry via ParentPostingID.
// LinkedPostingID pairs the two contact legs of a recognised self-transfer and
// is the only field ever mutated after creation.
type Posting struct {
	PostingID       string           `json:"postingID"` // Primary Key (UUID)
	EntryID         string           `json:"entryID"`   // Originating draft entry
	Kind            PostingKind      `json:"kind"`
	AccountID       *string          `json:"accountID"`
	ContactID       *string          `json:"contactID"`
	SavingsPlanID   *string          `json:"savingsPlanID"`
	SecurityID      *string          `json:"securityID"`
	BookingDate     time.Time        `json:"bookingDate"`
	ValutaDate      time.Time        `json:"valutaDate"`
	Amount          decimal.Decimal  `json:"amount"` // Signed
	SecurityTxKind  *SecurityTxKind  `json:"securityTxKind"`
	Quantity        *decimal.Decimal `json:"quantity"` // Signed: positive buys, negative sells
	GroupID         string           `json:"groupID"`  // Ties sibling legs of one entry together
	ParentPostingID *string          `json:"parentPostingID"`
	LinkedPostingID *string          `json:"linkedPostingID"`
	AuditFields
}
