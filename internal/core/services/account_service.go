package services

import (
	"context"
	"fmt"
	"log/slog"
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"

	"github.com/kontoflow/kontoflow_backend/internal/apperrors"
	"github.com/kontoflow/kontoflow_backend/internal/core/domain"
	portsrepo "github.com/kontoflow/kontoflow_backend/internal/core/ports/repositories"
	portssvc "github.com/kontoflow/kontoflow_backend/internal/core/ports/services"
	"github.com/kontoflow/kontoflow_backend/internal/dto"
	"github.com/kontoflow/kontoflow_backend/internal/middleware"
)

type accountService struct {
	accountRepo portsrepo.AccountRepositoryFacade
	contactRepo portsrepo.ContactReader
}

// NewAccountService creates a new AccountService.
func NewAccountService(accountRepo portsrepo.AccountRepositoryFacade, contactRepo portsrepo.ContactReader) portssvc.AccountSvcFacade {
	return &accountService{accountRepo: accountRepo, contactRepo: contactRepo}
}

// Ensure accountService implements the portssvc.AccountSvcFacade interface
var _ portssvc.AccountSvcFacade = (*accountService)(nil)

func (s *accountService) CreateAccount(ctx context.Context, ownerID string, req dto.CreateAccountRequest) (*domain.Account, error) {
	if req.BankContactID != nil {
		contact, err := s.contactRepo.FindContactByID(ctx, *req.BankContactID)
		if err != nil {
			return nil, fmt.Errorf("failed to load bank contact %s: %w", *req.BankContactID, err)
		}
		if contact.OwnerID != ownerID {
			return nil, fmt.Errorf("%w: contact %s does not belong to the caller", apperrors.ErrForbidden, *req.BankContactID)
		}
	}

	expectation := domain.SavingsPlanExpectation(req.SavingsPlanExpectation)
	if expectation == "" {
		expectation = domain.SavingsPlanNone
	}

	now := time.Now()
	account := domain.Account{
		AccountID:              uuid.NewString(),
		OwnerID:                ownerID,
		Name:                   req.Name,
		AccountType:            domain.AccountType(req.AccountType),
		CurrencyCode:           req.CurrencyCode,
		BankContactID:          req.BankContactID,
		SavingsPlanExpectation: expectation,
		Balance:                decimal.Zero,
		IsActive:               true,
		AuditFields: domain.AuditFields{
			CreatedAt:     now,
			CreatedBy:     ownerID,
			LastUpdatedAt: now,
			LastUpdatedBy: ownerID,
		},
	}
	if err := s.accountRepo.SaveAccount(ctx, account); err != nil {
		return nil, fmt.Errorf("failed to save account: %w", err)
	}
	middleware.GetLoggerFromCtx(ctx).Info("account created", slog.String("account_id", account.AccountID))
	return &account, nil
}

func (s *accountService) GetAccountByID(ctx context.Context, ownerID string, accountID string) (*domain.Account, error) {
	account, err := s.accountRepo.FindAccountByID(ctx, accountID)
	if err != nil {
		return nil, fmt.Errorf("failed to load account %s: %w", accountID, err)
	}
	if account.OwnerID != ownerID {
		return nil, fmt.Errorf("%w: account %s does not belong to the caller", apperrors.ErrForbidden, accountID)
	}
	return account, nil
}

func (s *accountService) ListAccounts(ctx context.Context, ownerID string) ([]domain.Account, error) {
	accounts, err := s.accountRepo.ListAccountsByOwner(ctx, ownerID)
	if err != nil {
		return nil, fmt.Errorf("failed to list accounts: %w", err)
	}
	return accounts, nil
}

func (s *accountService) DeactivateAccount(ctx context.Context, ownerID string, accountID string) error {
	if _, err := s.GetAccountByID(ctx, ownerID, accountID); err != nil {
		return err
	}
	if err := s.accountRepo.DeactivateAccount(ctx, accountID, ownerID, time.Now()); err != nil {
		return fmt.Errorf("failed to deactivate account %s: %w", accountID, err)
	}
	return nil
}
