package dto

import (
	"time"

	"github.com/kontoflow/kontoflow_backend/internal/core/domain"
	"github.com/shopspring/decimal"
)

// MovementRequest is one raw statement line as delivered by a parser client.
type MovementRequest struct {
	BookingDate      time.Time       `json:"bookingDate" binding:"required"`
	Amount           decimal.Decimal `json:"amount" binding:"required"`
	Subject          string          `json:"subject"`
	CounterpartyName string          `json:"counterpartyName"`
	ValutaDate       *time.Time      `json:"valutaDate"`
	CurrencyCode     string          `json:"currencyCode"`
	Description      string          `json:"description"`
	Announced        bool            `json:"announced"`
}

// ImportMovementsRequest asks the splitter to turn a parsed movement list into drafts.
type ImportMovementsRequest struct {
	FileName  string            `json:"fileName" binding:"required"`
	AccountID *string           `json:"accountID"`
	Movements []MovementRequest `json:"movements" binding:"required,dive"`
}

// ImportResult reports the drafts an import produced.
type ImportResult struct {
	DraftIDs []string           `json:"draftIDs"`
	Report   domain.SplitReport `json:"report"`
}

// CreateDraftRequest creates an empty draft for manual entry.
type CreateDraftRequest struct {
	FileName  string  `json:"fileName" binding:"required"`
	AccountID *string `json:"accountID"`
}

// AddEntryRequest appends one entry to an existing draft.
type AddEntryRequest struct {
	BookingDate time.Time       `json:"bookingDate" binding:"required"`
	ValutaDate  *time.Time      `json:"valutaDate"`
	Amount      decimal.Decimal `json:"amount" binding:"required"`
	Subject     string          `json:"subject"`
}

// UpdateEntryRequest is a presence-explicit patch: nil leaves a field
// untouched, the Clear flags reset an optional field.
type UpdateEntryRequest struct {
	BookingDate *time.Time       `json:"bookingDate"`
	Amount      *decimal.Decimal `json:"amount"`
	Subject     *string          `json:"subject"`
	Status      *string          `json:"status"`
	CostNeutral *bool            `json:"costNeutral"`

	ValutaDate      *time.Time `json:"valutaDate"`
	ClearValutaDate bool       `json:"clearValutaDate"`

	ContactID    *string `json:"contactID"`
	ClearContact bool    `json:"clearContact"`

	SavingsPlanID    *string `json:"savingsPlanID"`
	ClearSavingsPlan bool    `json:"clearSavingsPlan"`
	ArchiveOnBooking *bool   `json:"archiveOnBooking"`

	SecurityID     *string          `json:"securityID"`
	ClearSecurity  bool             `json:"clearSecurity"`
	SecurityTxKind *string          `json:"securityTxKind"`
	Quantity       *decimal.Decimal `json:"quantity"`
	Fee            *decimal.Decimal `json:"fee"`
	Tax            *decimal.Decimal `json:"tax"`
}

// ToEntryPatch converts the request into the domain patch struct.
func (r UpdateEntryRequest) ToEntryPatch() domain.EntryPatch {
	patch := domain.EntryPatch{
		BookingDate:      r.BookingDate,
		Amount:           r.Amount,
		Subject:          r.Subject,
		CostNeutral:      r.CostNeutral,
		ValutaDate:       r.ValutaDate,
		ClearValutaDate:  r.ClearValutaDate,
		ContactID:        r.ContactID,
		ClearContact:     r.ClearContact,
		SavingsPlanID:    r.SavingsPlanID,
		ClearSavingsPlan: r.ClearSavingsPlan,
		ArchiveOnBooking: r.ArchiveOnBooking,
		SecurityID:       r.SecurityID,
		ClearSecurity:    r.ClearSecurity,
		Quantity:         r.Quantity,
		Fee:              r.Fee,
		Tax:              r.Tax,
	}
	if r.Status != nil {
		status := domain.EntryStatus(*r.Status)
		patch.Status = &status
	}
	if r.SecurityTxKind != nil {
		kind := domain.SecurityTxKind(*r.SecurityTxKind)
		patch.SecurityTxKind = &kind
	}
	return patch
}

// AssignSplitDraftRequest links a split draft to an intermediary entry.
type AssignSplitDraftRequest struct {
	SplitDraftID string `json:"splitDraftID" binding:"required"`
}

// EntryResponse defines the data returned for a draft entry.
type EntryResponse struct {
	EntryID          string           `json:"entryID"`
	BookingDate      time.Time        `json:"bookingDate"`
	ValutaDate       *time.Time       `json:"valutaDate,omitempty"`
	Amount           decimal.Decimal  `json:"amount"`
	Subject          string           `json:"subject"`
	CounterpartyName string           `json:"counterpartyName,omitempty"`
	CurrencyCode     string           `json:"currencyCode,omitempty"`
	Description      string           `json:"description,omitempty"`
	ContactID        *string          `json:"contactID,omitempty"`
	SavingsPlanID    *string          `json:"savingsPlanID,omitempty"`
	ArchiveOnBooking bool             `json:"archiveOnBooking"`
	SecurityID       *string          `json:"securityID,omitempty"`
	SecurityTxKind   *string          `json:"securityTxKind,omitempty"`
	Quantity         *decimal.Decimal `json:"quantity,omitempty"`
	Fee              decimal.Decimal  `json:"fee"`
	Tax              decimal.Decimal  `json:"tax"`
	SplitDraftID     *string          `json:"splitDraftID,omitempty"`
	CostNeutral      bool             `json:"costNeutral"`
	Status           string           `json:"status"`
}

// DraftResponse defines the data returned for a draft.
type DraftResponse struct {
	DraftID       string          `json:"draftID"`
	FileName      string          `json:"fileName"`
	AccountID     *string         `json:"accountID,omitempty"`
	UploadGroupID *string         `json:"uploadGroupID,omitempty"`
	Status        string          `json:"status"`
	Entries       []EntryResponse `json:"entries,omitempty"`
	CreatedAt     time.Time       `json:"createdAt"`
}

// ListDraftsParams holds parameters for listing drafts.
type ListDraftsParams struct {
	Limit     int     `form:"limit"`
	NextToken *string `form:"nextToken"`
}

// ListDraftsResponse is a page of drafts plus the token for the next page.
type ListDraftsResponse struct {
	Drafts    []DraftResponse `json:"drafts"`
	NextToken *string         `json:"nextToken,omitempty"`
}

// ToEntryResponse converts a domain.Entry to EntryResponse.
func ToEntryResponse(e *domain.Entry) EntryResponse {
	resp := EntryResponse{
		EntryID:          e.EntryID,
		BookingDate:      e.BookingDate,
		ValutaDate:       e.ValutaDate,
		Amount:           e.Amount,
		Subject:          e.Subject,
		CounterpartyName: e.CounterpartyName,
		CurrencyCode:     e.CurrencyCode,
		Description:      e.Description,
		ContactID:        e.ContactID,
		SavingsPlanID:    e.SavingsPlanID,
		ArchiveOnBooking: e.ArchiveOnBooking,
		SecurityID:       e.SecurityID,
		Quantity:         e.Quantity,
		Fee:              e.Fee,
		Tax:              e.Tax,
		SplitDraftID:     e.SplitDraftID,
		CostNeutral:      e.CostNeutral,
		Status:           string(e.Status),
	}
	if e.SecurityTxKind != nil {
		kind := string(*e.SecurityTxKind)
		resp.SecurityTxKind = &kind
	}
	return resp
}

// ToDraftResponse converts a domain.Draft to DraftResponse.
func ToDraftResponse(d *domain.Draft) DraftResponse {
	resp := DraftResponse{
		DraftID:       d.DraftID,
		FileName:      d.FileName,
		AccountID:     d.AccountID,
		UploadGroupID: d.UploadGroupID,
		Status:        string(d.Status),
		CreatedAt:     d.CreatedAt,
	}
	if len(d.Entries) > 0 {
		resp.Entries = make([]EntryResponse, len(d.Entries))
		for i := range d.Entries {
			resp.Entries[i] = ToEntryResponse(&d.Entries[i])
		}
	}
	return resp
}

// ToDomainMovements converts movement requests into domain movements.
func ToDomainMovements(reqs []MovementRequest) []domain.Movement {
	movements := make([]domain.Movement, len(reqs))
	for i, r := range reqs {
		movements[i] = domain.Movement{
			BookingDate:      r.BookingDate,
			Amount:           r.Amount,
			Subject:          r.Subject,
			CounterpartyName: r.CounterpartyName,
			ValutaDate:       r.ValutaDate,
			CurrencyCode:     r.CurrencyCode,
			Description:      r.Description,
			Announced:        r.Announced,
		}
	}
	return movements
}
