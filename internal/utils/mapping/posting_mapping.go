package mapping

import (
	"github.com/kontoflow/kontoflow_backend/internal/core/domain"
	"github.com/kontoflow/kontoflow_backend/internal/models"
)

// ToModelPosting converts a domain Posting to a model Posting. OwnerID and
// Subject are denormalized columns the repository fills in from the
// originating entry; they have no domain counterpart.
func ToModelPosting(d domain.Posting) models.Posting {
	return models.Posting{
		PostingID:       d.PostingID,
		EntryID:         d.EntryID,
		Kind:            string(d.Kind),
		AccountID:       d.AccountID,
		ContactID:       d.ContactID,
		SavingsPlanID:   d.SavingsPlanID,
		SecurityID:      d.SecurityID,
		BookingDate:     d.BookingDate,
		ValutaDate:      d.ValutaDate,
		Amount:          d.Amount,
		SecurityTxKind:  securityTxKindToModel(d.SecurityTxKind),
		Quantity:        d.Quantity,
		GroupID:         d.GroupID,
		ParentPostingID: d.ParentPostingID,
		LinkedPostingID: d.LinkedPostingID,
		AuditFields:     ToModelAuditFields(d.AuditFields),
	}
}

// ToDomainPosting converts a model Posting to a domain Posting
func ToDomainPosting(m models.Posting) domain.Posting {
	return domain.Posting{
		PostingID:       m.PostingID,
		EntryID:         m.EntryID,
		Kind:            domain.PostingKind(m.Kind),
		AccountID:       m.AccountID,
		ContactID:       m.ContactID,
		SavingsPlanID:   m.SavingsPlanID,
		SecurityID:      m.SecurityID,
		BookingDate:     m.BookingDate,
		ValutaDate:      m.ValutaDate,
		Amount:          m.Amount,
		SecurityTxKind:  securityTxKindToDomain(m.SecurityTxKind),
		Quantity:        m.Quantity,
		GroupID:         m.GroupID,
		ParentPostingID: m.ParentPostingID,
		LinkedPostingID: m.LinkedPostingID,
		AuditFields:     ToDomainAuditFields(m.AuditFields),
	}
}
