package mapping

import (
	"github.com/kontoflow/kontoflow_backend/internal/core/domain"
	"github.com/kontoflow/kontoflow_backend/internal/models"
)

// ToModelDraft converts a domain Draft to a model Draft
func ToModelDraft(d domain.Draft) models.Draft {
	return models.Draft{
		DraftID:       d.DraftID,
		OwnerID:       d.OwnerID,
		FileName:      d.FileName,
		AccountID:     d.AccountID,
		UploadGroupID: d.UploadGroupID,
		Status:        string(d.Status),
		AuditFields:   ToModelAuditFields(d.AuditFields),
	}
}

// ToDomainDraft converts a model Draft to a domain Draft
func ToDomainDraft(m models.Draft) domain.Draft {
	return domain.Draft{
		DraftID:       m.DraftID,
		OwnerID:       m.OwnerID,
		FileName:      m.FileName,
		AccountID:     m.AccountID,
		UploadGroupID: m.UploadGroupID,
		Status:        domain.DraftStatus(m.Status),
		AuditFields:   ToDomainAuditFields(m.AuditFields),
	}
}

// ToModelEntry converts a domain Entry to a model Entry
func ToModelEntry(d domain.Entry) models.Entry {
	return models.Entry{
		EntryID:          d.EntryID,
		DraftID:          d.DraftID,
		BookingDate:      d.BookingDate,
		ValutaDate:       d.ValutaDate,
		Amount:           d.Amount,
		Subject:          d.Subject,
		CounterpartyName: d.CounterpartyName,
		CurrencyCode:     d.CurrencyCode,
		Description:      d.Description,
		ContactID:        d.ContactID,
		SavingsPlanID:    d.SavingsPlanID,
		ArchiveOnBooking: d.ArchiveOnBooking,
		SecurityID:       d.SecurityID,
		SecurityTxKind:   securityTxKindToModel(d.SecurityTxKind),
		Quantity:         d.Quantity,
		Fee:              d.Fee,
		Tax:              d.Tax,
		SplitDraftID:     d.SplitDraftID,
		CostNeutral:      d.CostNeutral,
		Status:           string(d.Status),
		AuditFields:      ToModelAuditFields(d.AuditFields),
	}
}

// ToDomainEntry converts a model Entry to a domain Entry
func ToDomainEntry(m models.Entry) domain.Entry {
	return domain.Entry{
		EntryID:          m.EntryID,
		DraftID:          m.DraftID,
		BookingDate:      m.BookingDate,
		ValutaDate:       m.ValutaDate,
		Amount:           m.Amount,
		Subject:          m.Subject,
		CounterpartyName: m.CounterpartyName,
		CurrencyCode:     m.CurrencyCode,
		Description:      m.Description,
		ContactID:        m.ContactID,
		SavingsPlanID:    m.SavingsPlanID,
		ArchiveOnBooking: m.ArchiveOnBooking,
		SecurityID:       m.SecurityID,
		SecurityTxKind:   securityTxKindToDomain(m.SecurityTxKind),
		Quantity:         m.Quantity,
		Fee:              m.Fee,
		Tax:              m.Tax,
		SplitDraftID:     m.SplitDraftID,
		CostNeutral:      m.CostNeutral,
		Status:           domain.EntryStatus(m.Status),
		AuditFields:      ToDomainAuditFields(m.AuditFields),
	}
}

func securityTxKindToModel(k *domain.SecurityTxKind) *string {
	if k == nil {
		return nil
	}
	s := string(*k)
	return &s
}

func securityTxKindToDomain(s *string) *domain.SecurityTxKind {
	if s == nil {
		return nil
	}
	k := domain.SecurityTxKind(*s)
	return &k
}
