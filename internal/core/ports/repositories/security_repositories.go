package repositories

import (
	"context"

	"github.com/kontoflow/kontoflow_backend/internal/core/domain"
)

// SecurityReader defines read operations for security master data.
type SecurityReader interface {
	// FindSecurityByID retrieves a security by its unique identifier.
	FindSecurityByID(ctx context.Context, securityID string) (*domain.Security, error)

	// ListSecuritiesByOwner retrieves all securities of an owner.
	ListSecuritiesByOwner(ctx context.Context, ownerID string) ([]domain.Security, error)
}

// SecurityWriter defines write operations for security master data.
type SecurityWriter interface {
	// SaveSecurity persists a new security.
	SaveSecurity(ctx context.Context, security domain.Security) error
}

// SecurityRepositoryFacade combines all security-related repository interfaces.
type SecurityRepositoryFacade interface {
	SecurityReader
	SecurityWriter
}
