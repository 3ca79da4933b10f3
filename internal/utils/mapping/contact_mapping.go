package mapping

import (
	"github.com/kontoflow/kontoflow_backend/internal/core/domain"
	"github.com/kontoflow/kontoflow_backend/internal/models"
)

// ToModelContact converts a domain Contact to a model Contact
func ToModelContact(d domain.Contact) models.Contact {
	return models.Contact{
		ContactID:    d.ContactID,
		OwnerID:      d.OwnerID,
		Name:         d.Name,
		Intermediary: d.Intermediary,
		Self:         d.Self,
		AuditFields:  ToModelAuditFields(d.AuditFields),
	}
}

// ToDomainContact converts a model Contact to a domain Contact
func ToDomainContact(m models.Contact) domain.Contact {
	return domain.Contact{
		ContactID:    m.ContactID,
		OwnerID:      m.OwnerID,
		Name:         m.Name,
		Intermediary: m.Intermediary,
		Self:         m.Self,
		AuditFields:  ToDomainAuditFields(m.AuditFields),
	}
}
