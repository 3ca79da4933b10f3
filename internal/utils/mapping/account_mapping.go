package mapping

import (
	"github.com/kontoflow/kontoflow_backend/internal/core/domain"
	"github.com/kontoflow/kontoflow_backend/internal/models"
)

// ToModelAccount converts a domain Account to a model Account
func ToModelAccount(d domain.Account) models.Account {
	return models.Account{
		AccountID:              d.AccountID,
		OwnerID:                d.OwnerID,
		Name:                   d.Name,
		AccountType:            string(d.AccountType),
		CurrencyCode:           d.CurrencyCode,
		BankContactID:          d.BankContactID,
		SavingsPlanExpectation: string(d.SavingsPlanExpectation),
		Balance:                d.Balance,
		IsActive:               d.IsActive,
		AuditFields:            ToModelAuditFields(d.AuditFields),
	}
}

// ToDomainAccount converts a model Account to a domain Account
func ToDomainAccount(m models.Account) domain.Account {
	return domain.Account{
		AccountID:              m.AccountID,
		OwnerID:                m.OwnerID,
		Name:                   m.Name,
		AccountType:            domain.AccountType(m.AccountType),
		CurrencyCode:           m.CurrencyCode,
		BankContactID:          m.BankContactID,
		SavingsPlanExpectation: domain.SavingsPlanExpectation(m.SavingsPlanExpectation),
		Balance:                m.Balance,
		IsActive:               m.IsActive,
		AuditFields:            ToDomainAuditFields(m.AuditFields),
	}
}
