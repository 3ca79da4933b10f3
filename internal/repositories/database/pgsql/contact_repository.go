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

type PgxContactRepository struct {
	pool *pgxpool.Pool
}

// newPgxContactRepository creates a new repository for contact data.
func newPgxContactRepository(pool *pgxpool.Pool) portsrepo.ContactRepositoryFacade {
	return &PgxContactRepository{pool: pool}
}

// Ensure PgxContactRepository implements portsrepo.ContactRepositoryFacade
var _ portsrepo.ContactRepositoryFacade = (*PgxContactRepository)(nil)

const contactColumns = `contact_id, owner_id, name, intermediary, self, created_at, created_by, last_updated_at, last_updated_by`

func scanContact(row pgx.Row) (*models.Contact, error) {
	var m models.Contact
	err := row.Scan(
		&m.ContactID,
		&m.OwnerID,
		&m.Name,
		&m.Intermediary,
		&m.Self,
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

func (r *PgxContactRepository) SaveContact(ctx context.Context, contact domain.Contact) error {
	m := mapping.ToModelContact(contact)
	query := `
		INSERT INTO contacts (` + contactColumns + `)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9);
	`
	_, err := r.pool.Exec(ctx, query,
		m.ContactID, m.OwnerID, m.Name, m.Intermediary, m.Self,
		m.CreatedAt, m.CreatedBy, m.LastUpdatedAt, m.LastUpdatedBy,
	)
	if err != nil {
		var pgErr *pgconn.PgError
		if errors.As(err, &pgErr) && pgErr.Code == "23505" {
			return fmt.Errorf("%w: contact %s already exists", apperrors.ErrDuplicate, m.ContactID)
		}
		return fmt.Errorf("failed to save contact %s: %w", m.ContactID, err)
	}
	return nil
}

func (r *PgxContactRepository) UpdateContact(ctx context.Context, contact domain.Contact) error {
	m := mapping.ToModelContact(contact)
	query := `
		UPDATE contacts
		SET name = $2, intermediary = $3, self = $4, last_updated_at = $5, last_updated_by = $6
		WHERE contact_id = $1;
	`
	cmdTag, err := r.pool.Exec(ctx, query,
		m.ContactID, m.Name, m.Intermediary, m.Self, m.LastUpdatedAt, m.LastUpdatedBy,
	)
	if err != nil {
		return fmt.Errorf("failed to update contact %s: %w", m.ContactID, err)
	}
	if cmdTag.RowsAffected() == 0 {
		return apperrors.ErrNotFound
	}
	return nil
}

func (r *PgxContactRepository) FindContactByID(ctx context.Context, contactID string) (*domain.Contact, error) {
	query := `SELECT ` + contactColumns + ` FROM contacts WHERE contact_id = $1;`
	m, err := scanContact(r.pool.QueryRow(ctx, query, contactID))
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, apperrors.ErrNotFound
		}
		return nil, fmt.Errorf("failed to find contact by ID %s: %w", contactID, err)
	}
	contact := mapping.ToDomainContact(*m)
	return &contact, nil
}

func (r *PgxContactRepository) FindContactsByIDs(ctx context.Context, contactIDs []string) (map[string]domain.Contact, error) {
	if len(contactIDs) == 0 {
		return map[string]domain.Contact{}, nil
	}
	query := `SELECT ` + contactColumns + ` FROM contacts WHERE contact_id = ANY($1);`
	rows, err := r.pool.Query(ctx, query, contactIDs)
	if err != nil {
		return nil, fmt.Errorf("failed to query contacts by IDs: %w", err)
	}
	defer rows.Close()

	contacts := make(map[string]domain.Contact)
	for rows.Next() {
		m, err := scanContact(rows)
		if err != nil {
			return nil, fmt.Errorf("failed to scan contact row during batch fetch: %w", err)
		}
		contacts[m.ContactID] = mapping.ToDomainContact(*m)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("error iterating contact rows during batch fetch: %w", err)
	}
	return contacts, nil
}

func (r *PgxContactRepository) FindSelfContact(ctx context.Context, ownerID string) (*domain.Contact, error) {
	query := `SELECT ` + contactColumns + ` FROM contacts WHERE owner_id = $1 AND self = TRUE;`
	m, err := scanContact(r.pool.QueryRow(ctx, query, ownerID))
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, apperrors.ErrNotFound
		}
		return nil, fmt.Errorf("failed to find self contact for owner %s: %w", ownerID, err)
	}
	contact := mapping.ToDomainContact(*m)
	return &contact, nil
}

func (r *PgxContactRepository) ListContactsByOwner(ctx context.Context, ownerID string) ([]domain.Contact, error) {
	query := `SELECT ` + contactColumns + ` FROM contacts WHERE owner_id = $1 ORDER BY name;`
	rows, err := r.pool.Query(ctx, query, ownerID)
	if err != nil {
		return nil, fmt.Errorf("failed to query contacts for owner %s: %w", ownerID, err)
	}
	defer rows.Close()

	contacts := []domain.Contact{}
	for rows.Next() {
		m, err := scanContact(rows)
		if err != nil {
			return nil, fmt.Errorf("failed to scan contact row for owner %s: %w", ownerID, err)
		}
		contacts = append(contacts, mapping.ToDomainContact(*m))
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("error iterating contact rows for owner %s: %w", ownerID, err)
	}
	return contacts, nil
}
