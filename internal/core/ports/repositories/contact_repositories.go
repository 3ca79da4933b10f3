package repositories

import (
	"context"

	"github.com/kontoflow/kontoflow_backend/internal/core/domain"
)

// ContactReader defines read operations for contact data.
type ContactReader interface {
	// FindContactByID retrieves a contact by its unique identifier.
	FindContactByID(ctx context.Context, contactID string) (*domain.Contact, error)

	// FindContactsByIDs retrieves multiple contacts keyed by id.
	FindContactsByIDs(ctx context.Context, contactIDs []string) (map[string]domain.Contact, error)

	// FindSelfContact retrieves the account holder's own contact.
	FindSelfContact(ctx context.Context, ownerID string) (*domain.Contact, error)

	// ListContactsByOwner retrieves all contacts of an owner.
	ListContactsByOwner(ctx context.Context, ownerID string) ([]domain.Contact, error)
}

// ContactWriter defines write operations for contact data.
type ContactWriter interface {
	// SaveContact persists a new contact.
	SaveContact(ctx context.Context, contact domain.Contact) error

	// UpdateContact persists modified contact data.
	UpdateContact(ctx context.Context, contact domain.Contact) error
}

// ContactRepositoryFacade combines all contact-related repository interfaces.
type ContactRepositoryFacade interface {
	ContactReader
	ContactWriter
}
