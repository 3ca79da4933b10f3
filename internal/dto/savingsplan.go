package dto

import (
	"time"

	"github.com/kontoflow/kontoflow_backend/internal/core/domain"
	"github.com/shopspring/decimal"
)

// CreateSavingsPlanRequest defines the payload for creating a savings plan.
type CreateSavingsPlanRequest struct {
	Name         string           `json:"name" binding:"required"`
	PlanType     string           `json:"planType" binding:"required,oneof=ONE_TIME RECURRING"`
	Interval     string           `json:"interval" binding:"omitempty,oneof=MONTHLY BI_MONTHLY QUARTERLY SEMI_ANNUALLY ANNUALLY"`
	TargetAmount *decimal.Decimal `json:"targetAmount"`
	TargetDate   *time.Time       `json:"targetDate"`
}

// SavingsPlanResponse defines the data returned for a savings plan.
type SavingsPlanResponse struct {
	PlanID       string           `json:"planID"`
	Name         string           `json:"name"`
	PlanType     string           `json:"planType"`
	Interval     string           `json:"interval"`
	TargetAmount *decimal.Decimal `json:"targetAmount,omitempty"`
	TargetDate   *time.Time       `json:"targetDate,omitempty"`
	Archived     bool             `json:"archived"`
}

// ToSavingsPlanResponse converts a domain.SavingsPlan to SavingsPlanResponse.
func ToSavingsPlanResponse(p *domain.SavingsPlan) SavingsPlanResponse {
	return SavingsPlanResponse{
		PlanID:       p.PlanID,
		Name:         p.Name,
		PlanType:     string(p.PlanType),
		Interval:     string(p.Interval),
		TargetAmount: p.TargetAmount,
		TargetDate:   p.TargetDate,
		Archived:     p.Archived,
	}
}
