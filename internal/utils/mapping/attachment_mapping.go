package mapping

import (
	"github.com/kontoflow/kontoflow_backend/internal/core/domain"
	"github.com/kontoflow/kontoflow_backend/internal/models"
)

// ToModelAttachment converts a domain Attachment to a model Attachment
func ToModelAttachment(d domain.Attachment) models.Attachment {
	return models.Attachment{
		AttachmentID:  d.AttachmentID,
		OwnerKind:     string(d.OwnerKind),
		OwnerEntityID: d.OwnerEntityID,
		FileName:      d.FileName,
		AuditFields:   ToModelAuditFields(d.AuditFields),
	}
}

// ToDomainAttachment converts a model Attachment to a domain Attachment
func ToDomainAttachment(m models.Attachment) domain.Attachment {
	return domain.Attachment{
		AttachmentID:  m.AttachmentID,
		OwnerKind:     domain.AttachmentOwnerKind(m.OwnerKind),
		OwnerEntityID: m.OwnerEntityID,
		FileName:      m.FileName,
		AuditFields:   ToDomainAuditFields(m.AuditFields),
	}
}
