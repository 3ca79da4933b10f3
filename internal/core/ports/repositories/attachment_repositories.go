package repositories

import (
	"context"

	"github.com/kontoflow/kontoflow_backend/internal/core/domain"
)

// AttachmentReader defines read operations for attachment metadata.
type AttachmentReader interface {
	// ListAttachmentsByOwnerEntity retrieves attachments parented to one entity.
	ListAttachmentsByOwnerEntity(ctx context.Context, kind domain.AttachmentOwnerKind, entityID string) ([]domain.Attachment, error)
}

// AttachmentWriter defines write operations for attachment metadata. Storage
// of file contents is out of scope; only parenting is managed here.
type AttachmentWriter interface {
	// SaveAttachment persists attachment metadata.
	SaveAttachment(ctx context.Context, attachment domain.Attachment) error

	// ReassignAttachments re-parents attachments per the given moves.
	ReassignAttachments(ctx context.Context, moves []domain.AttachmentMove) error
}

// AttachmentRepositoryFacade combines all attachment repository interfaces.
type AttachmentRepositoryFacade interface {
	AttachmentReader
	AttachmentWriter
}
