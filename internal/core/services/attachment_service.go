package services

import (
	"context"
	"fmt"

	"github.com/kontoflow/kontoflow_backend/internal/core/domain"
	portsrepo "github.com/kontoflow/kontoflow_backend/internal/core/ports/repositories"
	portssvc "github.com/kontoflow/kontoflow_backend/internal/core/ports/services"
)

// attachmentService re-parents attachment metadata after a booking. File
// contents live in external storage and are addressed by the metadata rows, so
// only the parent references move.
type attachmentService struct {
	attachmentRepo portsrepo.AttachmentWriter
}

// NewAttachmentService creates a new AttachmentService.
func NewAttachmentService(attachmentRepo portsrepo.AttachmentWriter) portssvc.AttachmentReassigner {
	return &attachmentService{attachmentRepo: attachmentRepo}
}

// Ensure attachmentService implements the portssvc.AttachmentReassigner interface
var _ portssvc.AttachmentReassigner = (*attachmentService)(nil)

func (s *attachmentService) Reassign(ctx context.Context, moves []domain.AttachmentMove) error {
	if len(moves) == 0 {
		return nil
	}
	if err := s.attachmentRepo.ReassignAttachments(ctx, moves); err != nil {
		return fmt.Errorf("failed to reassign attachments: %w", err)
	}
	return nil
}
