package services

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/google/uuid"

	"github.com/kontoflow/kontoflow_backend/internal/apperrors"
	"github.com/kontoflow/kontoflow_backend/internal/core/domain"
	portsrepo "github.com/kontoflow/kontoflow_backend/internal/core/ports/repositories"
	portssvc "github.com/kontoflow/kontoflow_backend/internal/core/ports/services"
	"github.com/kontoflow/kontoflow_backend/internal/dto"
)

// ErrSelfContactExists is returned when a second contact is flagged as the
// holder's own. The self flag drives savings-plan and transfer semantics, so
// there can only be one per owner.
var ErrSelfContactExists = errors.New("a self contact already exists")

type contactService struct {
	contactRepo portsrepo.ContactRepositoryFacade
}

// NewContactService creates a new ContactService.
func NewContactService(contactRepo portsrepo.ContactRepositoryFacade) portssvc.ContactSvcFacade {
	return &contactService{contactRepo: contactRepo}
}

// Ensure contactService implements the portssvc.ContactSvcFacade interface
var _ portssvc.ContactSvcFacade = (*contactService)(nil)

func (s *contactService) CreateContact(ctx context.Context, ownerID string, req dto.CreateContactRequest) (*domain.Contact, error) {
	if req.Self {
		if _, err := s.contactRepo.FindSelfContact(ctx, ownerID); err == nil {
			return nil, fmt.Errorf("%w: %w", apperrors.ErrConflict, ErrSelfContactExists)
		} else if !errors.Is(err, apperrors.ErrNotFound) {
			return nil, fmt.Errorf("failed to check for existing self contact: %w", err)
		}
	}

	now := time.Now()
	contact := domain.Contact{
		ContactID:    uuid.NewString(),
		OwnerID:      ownerID,
		Name:         req.Name,
		Intermediary: req.Intermediary,
		Self:         req.Self,
		AuditFields: domain.AuditFields{
			CreatedAt:     now,
			CreatedBy:     ownerID,
			LastUpdatedAt: now,
			LastUpdatedBy: ownerID,
		},
	}
	if err := s.contactRepo.SaveContact(ctx, contact); err != nil {
		return nil, fmt.Errorf("failed to save contact: %w", err)
	}
	return &contact, nil
}

func (s *contactService) GetContactByID(ctx context.Context, ownerID string, contactID string) (*domain.Contact, error) {
	contact, err := s.contactRepo.FindContactByID(ctx, contactID)
	if err != nil {
		return nil, fmt.Errorf("failed to load contact %s: %w", contactID, err)
	}
	if contact.OwnerID != ownerID {
		return nil, fmt.Errorf("%w: contact %s does not belong to the caller", apperrors.ErrForbidden, contactID)
	}
	return contact, nil
}

func (s *contactService) ListContacts(ctx context.Context, ownerID string) ([]domain.Contact, error) {
	contacts, err := s.contactRepo.ListContactsByOwner(ctx, ownerID)
	if err != nil {
		return nil, fmt.Errorf("failed to list contacts: %w", err)
	}
	return contacts, nil
}
