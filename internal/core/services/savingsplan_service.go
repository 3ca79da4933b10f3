package services

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/google/uuid"

	"github.com/kontoflow/kontoflow_backend/internal/apperrors"
	"github.com/kontoflow/kontoflow_backend/internal/core/domain"
	portsrepo "github.com/kontoflow/kontoflow_backend/internal/core/ports/repositories"
	portssvc "github.com/kontoflow/kontoflow_backend/internal/core/ports/services"
	"github.com/kontoflow/kontoflow_backend/internal/dto"
)

var (
	// ErrRecurringNeedsInterval is returned when a recurring plan is created
	// without a contribution cadence.
	ErrRecurringNeedsInterval = errors.New("recurring plan requires an interval")

	// ErrPlanAlreadyArchived is returned when archiving an archived plan.
	ErrPlanAlreadyArchived = errors.New("plan is already archived")
)

type savingsPlanService struct {
	planRepo portsrepo.SavingsPlanRepositoryFacade
}

// NewSavingsPlanService creates a new SavingsPlanService.
func NewSavingsPlanService(planRepo portsrepo.SavingsPlanRepositoryFacade) portssvc.SavingsPlanSvcFacade {
	return &savingsPlanService{planRepo: planRepo}
}

// Ensure savingsPlanService implements the portssvc.SavingsPlanSvcFacade interface
var _ portssvc.SavingsPlanSvcFacade = (*savingsPlanService)(nil)

func (s *savingsPlanService) CreatePlan(ctx context.Context, ownerID string, req dto.CreateSavingsPlanRequest) (*domain.SavingsPlan, error) {
	planType := domain.SavingsPlanType(req.PlanType)
	interval := domain.PlanInterval(req.Interval)
	if planType == domain.PlanRecurring && interval == "" {
		return nil, fmt.Errorf("%w: %w", apperrors.ErrValidation, ErrRecurringNeedsInterval)
	}

	now := time.Now()
	plan := domain.SavingsPlan{
		PlanID:       uuid.NewString(),
		OwnerID:      ownerID,
		Name:         req.Name,
		PlanType:     planType,
		Interval:     interval,
		TargetAmount: req.TargetAmount,
		TargetDate:   req.TargetDate,
		AuditFields: domain.AuditFields{
			CreatedAt:     now,
			CreatedBy:     ownerID,
			LastUpdatedAt: now,
			LastUpdatedBy: ownerID,
		},
	}
	if err := s.planRepo.SavePlan(ctx, plan); err != nil {
		return nil, fmt.Errorf("failed to save savings plan: %w", err)
	}
	return &plan, nil
}

func (s *savingsPlanService) GetPlanByID(ctx context.Context, ownerID string, planID string) (*domain.SavingsPlan, error) {
	plan, err := s.planRepo.FindPlanByID(ctx, planID)
	if err != nil {
		return nil, fmt.Errorf("failed to load savings plan %s: %w", planID, err)
	}
	if plan.OwnerID != ownerID {
		return nil, fmt.Errorf("%w: savings plan %s does not belong to the caller", apperrors.ErrForbidden, planID)
	}
	return plan, nil
}

func (s *savingsPlanService) ListPlans(ctx context.Context, ownerID string, activeOnly bool) ([]domain.SavingsPlan, error) {
	plans, err := s.planRepo.ListPlansByOwner(ctx, ownerID, activeOnly)
	if err != nil {
		return nil, fmt.Errorf("failed to list savings plans: %w", err)
	}
	return plans, nil
}

func (s *savingsPlanService) ArchivePlan(ctx context.Context, ownerID string, planID string) error {
	plan, err := s.GetPlanByID(ctx, ownerID, planID)
	if err != nil {
		return err
	}
	if plan.Archived {
		return fmt.Errorf("%w: %w", apperrors.ErrConflict, ErrPlanAlreadyArchived)
	}
	plan.Archived = true
	plan.LastUpdatedAt = time.Now()
	plan.LastUpdatedBy = ownerID
	if err := s.planRepo.UpdatePlan(ctx, *plan); err != nil {
		return fmt.Errorf("failed to archive savings plan %s: %w", planID, err)
	}
	return nil
}
