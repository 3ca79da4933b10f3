package dto

import (
	"github.com/kontoflow/kontoflow_backend/internal/core/domain"
	"github.com/shopspring/decimal"
)

// CreateAccountRequest defines the payload for creating an account.
type CreateAccountRequest struct {
	Name                   string  `json:"name" binding:"required"`
	AccountType            string  `json:"accountType" binding:"required,oneof=CHECKING SAVINGS DEPOT CREDIT_CARD"`
	CurrencyCode           string  `json:"currencyCode" binding:"required,len=3"`
	BankContactID          *string `json:"bankContactID"`
	SavingsPlanExpectation string  `json:"savingsPlanExpectation" binding:"omitempty,oneof=REQUIRED OPTIONAL NONE"`
}

// AccountResponse defines the data returned for an account.
type AccountResponse struct {
	AccountID              string          `json:"accountID"`
	Name                   string          `json:"name"`
	AccountType            string          `json:"accountType"`
	CurrencyCode           string          `json:"currencyCode"`
	BankContactID          *string         `json:"bankContactID,omitempty"`
	SavingsPlanExpectation string          `json:"savingsPlanExpectation"`
	Balance                decimal.Decimal `json:"balance"`
	IsActive               bool            `json:"isActive"`
}

// ToAccountResponse converts a domain.Account to AccountResponse.
func ToAccountResponse(a *domain.Account) AccountResponse {
	return AccountResponse{
		AccountID:              a.AccountID,
		Name:                   a.Name,
		AccountType:            string(a.AccountType),
		CurrencyCode:           a.CurrencyCode,
		BankContactID:          a.BankContactID,
		SavingsPlanExpectation: string(a.SavingsPlanExpectation),
		Balance:                a.Balance,
		IsActive:               a.IsActive,
	}
}
