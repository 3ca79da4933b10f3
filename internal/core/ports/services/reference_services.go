package services

import (
	"context"

	"github.com/kontoflow/kontoflow_backend/internal/core/domain"
	"github.com/kontoflow/kontoflow_backend/internal/dto"
)

// AccountSvcFacade manages bank account master data.
type AccountSvcFacade interface {
	CreateAccount(ctx context.Context, ownerID string, req dto.CreateAccountRequest) (*domain.Account, error)
	GetAccountByID(ctx context.Context, ownerID string, accountID string) (*domain.Account, error)
	ListAccounts(ctx context.Context, ownerID string) ([]domain.Account, error)
	DeactivateAccount(ctx context.Context, ownerID string, accountID string) error
}

// ContactSvcFacade manages counter-party master data.
type ContactSvcFacade interface {
	CreateContact(ctx context.Context, ownerID string, req dto.CreateContactRequest) (*domain.Contact, error)
	GetContactByID(ctx context.Context, ownerID string, contactID string) (*domain.Contact, error)
	ListContacts(ctx context.Context, ownerID string) ([]domain.Contact, error)
}

// SavingsPlanSvcFacade manages savings plan master data.
type SavingsPlanSvcFacade interface {
	CreatePlan(ctx context.Context, ownerID string, req dto.CreateSavingsPlanRequest) (*domain.SavingsPlan, error)
	GetPlanByID(ctx context.Context, ownerID string, planID string) (*domain.SavingsPlan, error)
	ListPlans(ctx context.Context, ownerID string, activeOnly bool) ([]domain.SavingsPlan, error)
	ArchivePlan(ctx context.Context, ownerID string, planID string) error
}

// SecuritySvcFacade manages security master data.
type SecuritySvcFacade interface {
	CreateSecurity(ctx context.Context, ownerID string, req dto.CreateSecurityRequest) (*domain.Security, error)
	GetSecurityByID(ctx context.Context, ownerID string, securityID string) (*domain.Security, error)
	ListSecurities(ctx context.Context, ownerID string) ([]domain.Security, error)
}
