package repositories

import (
	"context"

	"github.com/kontoflow/kontoflow_backend/internal/core/domain"
)

// SavingsPlanReader defines read operations for savings plan data.
type SavingsPlanReader interface {
	// FindPlanByID retrieves a savings plan by its unique identifier.
	FindPlanByID(ctx context.Context, planID string) (*domain.SavingsPlan, error)

	// FindPlansByIDs retrieves multiple savings plans keyed by id.
	FindPlansByIDs(ctx context.Context, planIDs []string) (map[string]domain.SavingsPlan, error)

	// ListPlansByOwner retrieves savings plans of an owner, optionally only active ones.
	ListPlansByOwner(ctx context.Context, ownerID string, activeOnly bool) ([]domain.SavingsPlan, error)
}

// SavingsPlanWriter defines write operations for savings plan data. Target
// date advancement and archival caused by booking are part of a BookingCommit.
type SavingsPlanWriter interface {
	// SavePlan persists a new savings plan.
	SavePlan(ctx context.Context, plan domain.SavingsPlan) error

	// UpdatePlan persists modified plan master data.
	UpdatePlan(ctx context.Context, plan domain.SavingsPlan) error
}

// SavingsPlanRepositoryFacade combines all savings-plan repository interfaces.
type SavingsPlanRepositoryFacade interface {
	SavingsPlanReader
	SavingsPlanWriter
}
