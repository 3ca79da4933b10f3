package domain

import "github.com/shopspring/decimal"

// AccountType classifies a bank account.
type AccountType string

const (
	AccountChecking   AccountType = "CHECKING"
	AccountSavings    AccountType = "SAVINGS"
	AccountDepot      AccountType = "DEPOT"
	AccountCreditCard AccountType = "CREDIT_CARD"
)

// SavingsPlanExpectation states whether entries against the holder's own
// contact on this account are expected to carry a savings plan.
type SavingsPlanExpectation string

const (
	SavingsPlanRequired SavingsPlanExpectation = "REQUIRED"
	SavingsPlanOptional SavingsPlanExpectation = "OPTIONAL"
	SavingsPlanNone     SavingsPlanExpectation = "NONE"
)

// Account represents a bank account owned by a user. Balance is mutated only
// by the booking engine, within the same transaction as the postings it
// corresponds to.
type Account struct {
	AccountID    string      `json:"accountID"` // Primary Key (UUID)
	OwnerID      string      `json:"ownerID"`   // FK -> users.user_id (Not Null)
	Name         string      `json:"name"`
	AccountType  AccountType `json:"accountType"`
	CurrencyCode string      `json:"currencyCode"`
	// BankContactID is the contact of the bank operating this account.
	// Security entries must resolve their counter-party to it.
	BankContactID          *string                `json:"bankContactID"`
	SavingsPlanExpectation SavingsPlanExpectation `json:"savingsPlanExpectation"`
	Balance                decimal.Decimal        `json:"balance"`
	IsActive               bool                   `json:"isActive"`
	AuditFields
}

// AllowsSavingsPlans reports whether entries on this account may carry a
// savings plan reference. Savings accounts are themselves plan targets, so a
// plan assignment there would be circular.
func (a *Account) AllowsSavingsPlans() bool {
	return a.AccountType != AccountSavings
}
