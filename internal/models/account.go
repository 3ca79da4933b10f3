package models

import "github.com/shopspring/decimal"

// Account represents a row of the accounts table.
type Account struct {
	AccountID              string          `db:"account_id"`
	OwnerID                string          `db:"owner_id"`
	Name                   string          `db:"name"`
	AccountType            string          `db:"account_type"`
	CurrencyCode           string          `db:"currency_code"`
	BankContactID          *string         `db:"bank_contact_id"`
	SavingsPlanExpectation string          `db:"savings_plan_expectation"`
	Balance                decimal.Decimal `db:"balance"`
	IsActive               bool            `db:"is_active"`
	AuditFields
}
