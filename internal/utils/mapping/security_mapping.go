package mapping

import (
	"github.com/kontoflow/kontoflow_backend/internal/core/domain"
	"github.com/kontoflow/kontoflow_backend/internal/models"
)

// ToModelSecurity converts a domain Security to a model Security
func ToModelSecurity(d domain.Security) models.Security {
	return models.Security{
		SecurityID:  d.SecurityID,
		OwnerID:     d.OwnerID,
		Name:        d.Name,
		ISIN:        d.ISIN,
		AuditFields: ToModelAuditFields(d.AuditFields),
	}
}

// ToDomainSecurity converts a model Security to a domain Security
func ToDomainSecurity(m models.Security) domain.Security {
	return domain.Security{
		SecurityID:  m.SecurityID,
		OwnerID:     m.OwnerID,
		Name:        m.Name,
		ISIN:        m.ISIN,
		AuditFields: ToDomainAuditFields(m.AuditFields),
	}
}
