package models

import (
	"time"

	"github.com/shopspring/decimal"
)

// SavingsPlan represents a row of the savings_plans table.
type SavingsPlan struct {
	PlanID       string           `db:"plan_id"`
	OwnerID      string           `db:"owner_id"`
	Name         string           `db:"name"`
	PlanType     string           `db:"plan_type"`
	Interval     string           `db:"interval"`
	TargetAmount *decimal.Decimal `db:"target_amount"`
	TargetDate   *time.Time       `db:"target_date"`
	Archived     bool             `db:"archived"`
	AuditFields
}
