package pgsql

import (
	"context"
	"errors"
	"fmt"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgconn"
	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/kontoflow/kontoflow_backend/internal/apperrors"
	"github.com/kontoflow/kontoflow_backend/internal/core/domain"
	portsrepo "github.com/kontoflow/kontoflow_backend/internal/core/ports/repositories"
	"github.com/kontoflow/kontoflow_backend/internal/models"
	"github.com/kontoflow/kontoflow_backend/internal/utils/mapping"
)

type PgxSavingsPlanRepository struct {
	pool *pgxpool.Pool
}

// newPgxSavingsPlanRepository creates a new repository for savings plan data.
func newPgxSavingsPlanRepository(pool *pgxpool.Pool) *PgxSavingsPlanRepository {
	return &PgxSavingsPlanRepository{pool: pool}
}

// Ensure PgxSavingsPlanRepository implements portsrepo.SavingsPlanRepositoryFacade
var _ portsrepo.SavingsPlanRepositoryFacade = (*PgxSavingsPlanRepository)(nil)

const planColumns = `plan_id, owner_id, name, plan_type, interval, target_amount, target_date, archived, created_at, created_by, last_updated_at, last_updated_by`

func scanPlan(row pgx.Row) (*models.SavingsPlan, error) {
	var m models.SavingsPlan
	err := row.Scan(
		&m.PlanID,
		&m.OwnerID,
		&m.Name,
		&m.PlanType,
		&m.Interval,
		&m.TargetAmount,
		&m.TargetDate,
		&m.Archived,
		&m.CreatedAt,
		&m.CreatedBy,
		&m.LastUpdatedAt,
		&m.LastUpdatedBy,
	)
	if err != nil {
		return nil, err
	}
	return &m, nil
}

func (r *PgxSavingsPlanRepository) SavePlan(ctx context.Context, plan domain.SavingsPlan) error {
	m := mapping.ToModelSavingsPlan(plan)
	query := `
		INSERT INTO savings_plans (` + planColumns + `)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11, $12);
	`
	_, err := r.pool.Exec(ctx, query,
		m.PlanID, m.OwnerID, m.Name, m.PlanType, m.Interval,
		m.TargetAmount, m.TargetDate, m.Archived,
		m.CreatedAt, m.CreatedBy, m.LastUpdatedAt, m.LastUpdatedBy,
	)
	if err != nil {
		var pgErr *pgconn.PgError
		if errors.As(err, &pgErr) && pgErr.Code == "23505" {
			return fmt.Errorf("%w: savings plan %s already exists", apperrors.ErrDuplicate, m.PlanID)
		}
		return fmt.Errorf("failed to save savings plan %s: %w", m.PlanID, err)
	}
	return nil
}

func (r *PgxSavingsPlanRepository) UpdatePlan(ctx context.Context, plan domain.SavingsPlan) error {
	m := mapping.ToModelSavingsPlan(plan)
	query := `
		UPDATE savings_plans
		SET name = $2, target_amount = $3, target_date = $4, archived = $5, last_updated_at = $6, last_updated_by = $7
		WHERE plan_id = $1;
	`
	cmdTag, err := r.pool.Exec(ctx, query,
		m.PlanID, m.Name, m.TargetAmount, m.TargetDate, m.Archived,
		m.LastUpdatedAt, m.LastUpdatedBy,
	)
	if err != nil {
		return fmt.Errorf("failed to update savings plan %s: %w", m.PlanID, err)
	}
	if cmdTag.RowsAffected() == 0 {
		return apperrors.ErrNotFound
	}
	return nil
}

func (r *PgxSavingsPlanRepository) FindPlanByID(ctx context.Context, planID string) (*domain.SavingsPlan, error) {
	query := `SELECT ` + planColumns + ` FROM savings_plans WHERE plan_id = $1;`
	m, err := scanPlan(r.pool.QueryRow(ctx, query, planID))
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, apperrors.ErrNotFound
		}
		return nil, fmt.Errorf("failed to find savings plan by ID %s: %w", planID, err)
	}
	plan := mapping.ToDomainSavingsPlan(*m)
	return &plan, nil
}

func (r *PgxSavingsPlanRepository) FindPlansByIDs(ctx context.Context, planIDs []string) (map[string]domain.SavingsPlan, error) {
	if len(planIDs) == 0 {
		return map[string]domain.SavingsPlan{}, nil
	}
	query := `SELECT ` + planColumns + ` FROM savings_plans WHERE plan_id = ANY($1);`
	rows, err := r.pool.Query(ctx, query, planIDs)
	if err != nil {
		return nil, fmt.Errorf("failed to query savings plans by IDs: %w", err)
	}
	defer rows.Close()

	plans := make(map[string]domain.SavingsPlan)
	for rows.Next() {
		m, err := scanPlan(rows)
		if err != nil {
			return nil, fmt.Errorf("failed to scan savings plan row during batch fetch: %w", err)
		}
		plans[m.PlanID] = mapping.ToDomainSavingsPlan(*m)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("error iterating savings plan rows during batch fetch: %w", err)
	}
	return plans, nil
}

func (r *PgxSavingsPlanRepository) ListPlansByOwner(ctx context.Context, ownerID string, activeOnly bool) ([]domain.SavingsPlan, error) {
	query := `SELECT ` + planColumns + ` FROM savings_plans WHERE owner_id = $1`
	if activeOnly {
		query += ` AND archived = FALSE`
	}
	query += ` ORDER BY name;`

	rows, err := r.pool.Query(ctx, query, ownerID)
	if err != nil {
		return nil, fmt.Errorf("failed to query savings plans for owner %s: %w", ownerID, err)
	}
	defer rows.Close()

	plans := []domain.SavingsPlan{}
	for rows.Next() {
		m, err := scanPlan(rows)
		if err != nil {
			return nil, fmt.Errorf("failed to scan savings plan row for owner %s: %w", ownerID, err)
		}
		plans = append(plans, mapping.ToDomainSavingsPlan(*m))
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("error iterating savings plan rows for owner %s: %w", ownerID, err)
	}
	return plans, nil
}

// updatePlansInTx persists savings plan mutations within the booking
// transaction.
func (r *PgxSavingsPlanRepository) updatePlansInTx(ctx context.Context, tx pgx.Tx, plans []domain.SavingsPlan) error {
	if len(plans) == 0 {
		return nil
	}
	query := `
		UPDATE savings_plans
		SET target_date = $2, archived = $3, last_updated_at = $4, last_updated_by = $5
		WHERE plan_id = $1;
	`
	batch := &pgx.Batch{}
	for _, plan := range plans {
		m := mapping.ToModelSavingsPlan(plan)
		batch.Queue(query, m.PlanID, m.TargetDate, m.Archived, m.LastUpdatedAt, m.LastUpdatedBy)
	}

	br := tx.SendBatch(ctx, batch)
	var batchErr error
	for i := 0; i < batch.Len(); i++ {
		ct, err := br.Exec()
		if err != nil {
			if batchErr == nil {
				batchErr = fmt.Errorf("failed to update savings plan %s: %w", plans[i].PlanID, err)
			}
		} else if ct.RowsAffected() == 0 && batchErr == nil {
			batchErr = fmt.Errorf("%w: savings plan %s not found during booking update", apperrors.ErrNotFound, plans[i].PlanID)
		}
	}
	if err := br.Close(); err != nil && batchErr == nil {
		batchErr = fmt.Errorf("failed to close savings plan update batch: %w", err)
	}
	return batchErr
}
