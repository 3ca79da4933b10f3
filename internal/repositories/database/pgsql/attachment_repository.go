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

type PgxAttachmentRepository struct {
	BaseRepository
}

// newPgxAttachmentRepository creates a new repository for attachment metadata
func newPgxAttachmentRepository(pool *pgxpool.Pool) *PgxAttachmentRepository {
	return &PgxAttachmentRepository{BaseRepository: BaseRepository{Pool: pool}}
}

// Ensure PgxAttachmentRepository implements portsrepo.AttachmentRepositoryFacade
var _ portsrepo.AttachmentRepositoryFacade = (*PgxAttachmentRepository)(nil)

const attachmentColumns = `attachment_id, owner_kind, owner_entity_id, file_name, created_at, created_by, last_updated_at, last_updated_by`

func scanAttachment(row pgx.Row) (*models.Attachment, error) {
	var m models.Attachment
	err := row.Scan(
		&m.AttachmentID,
		&m.OwnerKind,
		&m.OwnerEntityID,
		&m.FileName,
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

func (r *PgxAttachmentRepository) ListAttachmentsByOwnerEntity(ctx context.Context, kind domain.AttachmentOwnerKind, entityID string) ([]domain.Attachment, error) {
	query := `SELECT ` + attachmentColumns + ` FROM attachments WHERE owner_kind = $1 AND owner_entity_id = $2 ORDER BY file_name;`
	rows, err := r.Pool.Query(ctx, query, string(kind), entityID)
	if err != nil {
		return nil, fmt.Errorf("failed to query attachments of %s %s: %w", kind, entityID, err)
	}
	defer rows.Close()

	attachments := []domain.Attachment{}
	for rows.Next() {
		m, err := scanAttachment(rows)
		if err != nil {
			return nil, fmt.Errorf("failed to scan attachment row: %w", err)
		}
		attachments = append(attachments, mapping.ToDomainAttachment(*m))
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("error iterating attachment rows: %w", err)
	}
	return attachments, nil
}

func (r *PgxAttachmentRepository) SaveAttachment(ctx context.Context, attachment domain.Attachment) error {
	m := mapping.ToModelAttachment(attachment)
	query := `
		INSERT INTO attachments (` + attachmentColumns + `)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8);
	`
	_, err := r.Pool.Exec(ctx, query,
		m.AttachmentID, m.OwnerKind, m.OwnerEntityID, m.FileName,
		m.CreatedAt, m.CreatedBy, m.LastUpdatedAt, m.LastUpdatedBy,
	)
	if err != nil {
		var pgErr *pgconn.PgError
		if errors.As(err, &pgErr) && pgErr.Code == "23505" {
			return fmt.Errorf("%w: attachment with ID %s already exists", apperrors.ErrDuplicate, m.AttachmentID)
		}
		return fmt.Errorf("failed to save attachment %s: %w", m.AttachmentID, err)
	}
	return nil
}

// ReassignAttachments re-parents attachments in one batch. Moves with no
// matching rows are not an error; an entity simply had nothing attached.
func (r *PgxAttachmentRepository) ReassignAttachments(ctx context.Context, moves []domain.AttachmentMove) error {
	if len(moves) == 0 {
		return nil
	}
	query := `
		UPDATE attachments
		SET owner_kind = $3, owner_entity_id = $4, last_updated_at = NOW()
		WHERE owner_kind = $1 AND owner_entity_id = $2;
	`
	batch := &pgx.Batch{}
	for _, move := range moves {
		batch.Queue(query, string(move.FromKind), move.FromID, string(move.ToKind), move.ToID)
	}
	br := r.Pool.SendBatch(ctx, batch)
	var batchErr error
	for i := 0; i < batch.Len(); i++ {
		if _, err := br.Exec(); err != nil && batchErr == nil {
			batchErr = fmt.Errorf("failed to reassign attachments of %s %s: %w", moves[i].FromKind, moves[i].FromID, err)
		}
	}
	if err := br.Close(); err != nil && batchErr == nil {
		batchErr = fmt.Errorf("failed to close attachment reassign batch: %w", err)
	}
	return batchErr
}
