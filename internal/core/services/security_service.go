package services

import (
	"context"
	"fmt"
	"strings"
	"time"

	"github.com/google/uuid"

	"github.com/kontoflow/kontoflow_backend/internal/apperrors"
	"github.com/kontoflow/kontoflow_backend/internal/core/domain"
	portsrepo "github.com/kontoflow/kontoflow_backend/internal/core/ports/repositories"
	portssvc "github.com/kontoflow/kontoflow_backend/internal/core/ports/services"
	"github.com/kontoflow/kontoflow_backend/internal/dto"
)

type securityService struct {
	securityRepo portsrepo.SecurityRepositoryFacade
}

// NewSecurityService creates a new SecurityService.
func NewSecurityService(securityRepo portsrepo.SecurityRepositoryFacade) portssvc.SecuritySvcFacade {
	return &securityService{securityRepo: securityRepo}
}

// Ensure securityService implements the portssvc.SecuritySvcFacade interface
var _ portssvc.SecuritySvcFacade = (*securityService)(nil)

func (s *securityService) CreateSecurity(ctx context.Context, ownerID string, req dto.CreateSecurityRequest) (*domain.Security, error) {
	now := time.Now()
	security := domain.Security{
		SecurityID: uuid.NewString(),
		OwnerID:    ownerID,
		Name:       req.Name,
		ISIN:       strings.ToUpper(req.ISIN),
		AuditFields: domain.AuditFields{
			CreatedAt:     now,
			CreatedBy:     ownerID,
			LastUpdatedAt: now,
			LastUpdatedBy: ownerID,
		},
	}
	if err := s.securityRepo.SaveSecurity(ctx, security); err != nil {
		return nil, fmt.Errorf("failed to save security: %w", err)
	}
	return &security, nil
}

func (s *securityService) GetSecurityByID(ctx context.Context, ownerID string, securityID string) (*domain.Security, error) {
	security, err := s.securityRepo.FindSecurityByID(ctx, securityID)
	if err != nil {
		return nil, fmt.Errorf("failed to load security %s: %w", securityID, err)
	}
	if security.OwnerID != ownerID {
		return nil, fmt.Errorf("%w: security %s does not belong to the caller", apperrors.ErrForbidden, securityID)
	}
	return security, nil
}

func (s *securityService) ListSecurities(ctx context.Context, ownerID string) ([]domain.Security, error) {
	securities, err := s.securityRepo.ListSecuritiesByOwner(ctx, ownerID)
	if err != nil {
		return nil, fmt.Errorf("failed to list securities: %w", err)
	}
	return securities, nil
}
