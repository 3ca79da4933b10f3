package domain

import (
	"time"

	"github.com/shopspring/decimal"
)

// SavingsPlanType distinguishes one-off goals from recurring contributions.
type SavingsPlanType string

const (
	PlanOneTime   SavingsPlanType = "ONE_TIME"
	PlanRecurring SavingsPlanType = "RECURRING"
)

// PlanInterval is the contribution cadence of a recurring savings plan.
type PlanInterval string

const (
	IntervalMonthly      PlanInterval = "MONTHLY"
	IntervalBiMonthly    PlanInterval = "BI_MONTHLY"
	IntervalQuarterly    PlanInterval = "QUARTERLY"
	IntervalSemiAnnually PlanInterval = "SEMI_ANNUALLY"
	IntervalAnnually     PlanInterval = "ANNUALLY"
)

// Months returns the number of calendar months one interval step spans.
func (i PlanInterval) Months() int {
	switch i {
	case IntervalBiMonthly:
		return 2
	case IntervalQuarterly:
		return 3
	case IntervalSemiAnnually:
		return 6
	case IntervalAnnually:
		return 12
	default:
		return 1
	}
}

// SavingsPlan is a saving goal of the account holder. Recurring plans have
// their TargetDate advanced by the booking engine each time a contribution is
// booked; TargetAmount (if set) drives the goal-projection diagnostics.
type SavingsPlan struct {
	PlanID       string           `json:"planID"`  // Primary Key (UUID)
	OwnerID      string           `json:"ownerID"` // FK -> users.user_id (Not Null)
	Name         string           `json:"name"`
	PlanType     SavingsPlanType  `json:"planType"`
	Interval     PlanInterval     `json:"interval"`
	TargetAmount *decimal.Decimal `json:"targetAmount"`
	TargetDate   *time.Time       `json:"targetDate"`
	Archived     bool             `json:"archived"`
	AuditFields
}

// Active reports whether the plan still accepts contributions.
func (p *SavingsPlan) Active() bool {
	return !p.Archived
}
