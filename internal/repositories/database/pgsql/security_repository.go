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

type PgxSecurityRepository struct {
	pool *pgxpool.Pool
}

// newPgxSecurityRepository creates a new repository for security master data.
func newPgxSecurityRepository(pool *pgxpool.Pool) portsrepo.SecurityRepositoryFacade {
	return &PgxSecurityRepository{pool: pool}
}

// Ensure PgxSecurityRepository implements portsrepo.SecurityRepositoryFacade
var _ portsrepo.SecurityRepositoryFacade = (*PgxSecurityRepository)(nil)

const securityColumns = `security_id, owner_id, name, isin, created_at, created_by, last_updated_at, last_updated_by`

func scanSecurity(row pgx.Row) (*models.Security, error) {
	var m models.Security
	err := row.Scan(
		&m.SecurityID,
		&m.OwnerID,
		&m.Name,
		&m.ISIN,
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

func (r *PgxSecurityRepository) SaveSecurity(ctx context.Context, security domain.Security) error {
	m := mapping.ToModelSecurity(security)
	query := `
		INSERT INTO securities (` + securityColumns + `)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8);
	`
	_, err := r.pool.Exec(ctx, query,
		m.SecurityID, m.OwnerID, m.Name, m.ISIN,
		m.CreatedAt, m.CreatedBy, m.LastUpdatedAt, m.LastUpdatedBy,
	)
	if err != nil {
		var pgErr *pgconn.PgError
		if errors.As(err, &pgErr) && pgErr.Code == "23505" {
			return fmt.Errorf("%w: security with ISIN %s already exists", apperrors.ErrDuplicate, m.ISIN)
		}
		return fmt.Errorf("failed to save security %s: %w", m.SecurityID, err)
	}
	return nil
}

func (r *PgxSecurityRepository) FindSecurityByID(ctx context.Context, securityID string) (*domain.Security, error) {
	query := `SELECT ` + securityColumns + ` FROM securities WHERE security_id = $1;`
	m, err := scanSecurity(r.pool.QueryRow(ctx, query, securityID))
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, apperrors.ErrNotFound
		}
		return nil, fmt.Errorf("failed to find security by ID %s: %w", securityID, err)
	}
	security := mapping.ToDomainSecurity(*m)
	return &security, nil
}

func (r *PgxSecurityRepository) ListSecuritiesByOwner(ctx context.Context, ownerID string) ([]domain.Security, error) {
	query := `SELECT ` + securityColumns + ` FROM securities WHERE owner_id = $1 ORDER BY name;`
	rows, err := r.pool.Query(ctx, query, ownerID)
	if err != nil {
		return nil, fmt.Errorf("failed to query securities for owner %s: %w", ownerID, err)
	}
	defer rows.Close()

	securities := []domain.Security{}
	for rows.Next() {
		m, err := scanSecurity(rows)
		if err != nil {
			return nil, fmt.Errorf("failed to scan security row for owner %s: %w", ownerID, err)
		}
		securities = append(securities, mapping.ToDomainSecurity(*m))
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("error iterating security rows for owner %s: %w", ownerID, err)
	}
	return securities, nil
}
