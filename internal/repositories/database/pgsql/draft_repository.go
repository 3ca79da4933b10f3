package pgsql

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgconn"
	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/kontoflow/kontoflow_backend/internal/apperrors"
	"github.com/kontoflow/kontoflow_backend/internal/core/domain"
	portsrepo "github.com/kontoflow/kontoflow_backend/internal/core/ports/repositories"
	"github.com/kontoflow/kontoflow_backend/internal/models"
	"github.com/kontoflow/kontoflow_backend/internal/utils/mapping"
	"github.com/kontoflow/kontoflow_backend/internal/utils/pagination"
)

type PgxDraftRepository struct {
	BaseRepository
}

// newPgxDraftRepository creates a new repository for draft and entry data.
func newPgxDraftRepository(pool *pgxpool.Pool) *PgxDraftRepository {
	return &PgxDraftRepository{BaseRepository: BaseRepository{Pool: pool}}
}

// Ensure PgxDraftRepository implements portsrepo.DraftRepositoryFacade
var _ portsrepo.DraftRepositoryFacade = (*PgxDraftRepository)(nil)

const draftColumns = `draft_id, owner_id, file_name, account_id, upload_group_id, status, created_at, created_by, last_updated_at, last_updated_by`

const entryColumns = `entry_id, draft_id, booking_date, valuta_date, amount, subject, counterparty_name, currency_code, description, contact_id, savings_plan_id, archive_on_booking, security_id, security_tx_kind, quantity, fee, tax, split_draft_id, cost_neutral, status, created_at, created_by, last_updated_at, last_updated_by`

func scanDraft(row pgx.Row) (*models.Draft, error) {
	var m models.Draft
	err := row.Scan(
		&m.DraftID,
		&m.OwnerID,
		&m.FileName,
		&m.AccountID,
		&m.UploadGroupID,
		&m.Status,
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

func scanEntry(row pgx.Row) (*models.Entry, error) {
	var m models.Entry
	err := row.Scan(
		&m.EntryID,
		&m.DraftID,
		&m.BookingDate,
		&m.ValutaDate,
		&m.Amount,
		&m.Subject,
		&m.CounterpartyName,
		&m.CurrencyCode,
		&m.Description,
		&m.ContactID,
		&m.SavingsPlanID,
		&m.ArchiveOnBooking,
		&m.SecurityID,
		&m.SecurityTxKind,
		&m.Quantity,
		&m.Fee,
		&m.Tax,
		&m.SplitDraftID,
		&m.CostNeutral,
		&m.Status,
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

func (r *PgxDraftRepository) FindDraftByID(ctx context.Context, draftID string) (*domain.Draft, error) {
	query := `SELECT ` + draftColumns + ` FROM drafts WHERE draft_id = $1;`
	m, err := scanDraft(r.Pool.QueryRow(ctx, query, draftID))
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, apperrors.ErrNotFound
		}
		return nil, fmt.Errorf("failed to find draft by ID %s: %w", draftID, err)
	}
	draft := mapping.ToDomainDraft(*m)
	return &draft, nil
}

func (r *PgxDraftRepository) FindEntriesByDraftID(ctx context.Context, draftID string) ([]domain.Entry, error) {
	query := `
		SELECT ` + entryColumns + `
		FROM entries
		WHERE draft_id = $1
		ORDER BY booking_date, subject, entry_id;
	`
	rows, err := r.Pool.Query(ctx, query, draftID)
	if err != nil {
		return nil, fmt.Errorf("failed to query entries of draft %s: %w", draftID, err)
	}
	defer rows.Close()

	entries := []domain.Entry{}
	for rows.Next() {
		m, err := scanEntry(rows)
		if err != nil {
			return nil, fmt.Errorf("failed to scan entry row of draft %s: %w", draftID, err)
		}
		entries = append(entries, mapping.ToDomainEntry(*m))
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("error iterating entry rows of draft %s: %w", draftID, err)
	}
	return entries, nil
}

func (r *PgxDraftRepository) FindEntryByID(ctx context.Context, entryID string) (*domain.Entry, error) {
	query := `SELECT ` + entryColumns + ` FROM entries WHERE entry_id = $1;`
	m, err := scanEntry(r.Pool.QueryRow(ctx, query, entryID))
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, apperrors.ErrNotFound
		}
		return nil, fmt.Errorf("failed to find entry by ID %s: %w", entryID, err)
	}
	entry := mapping.ToDomainEntry(*m)
	return &entry, nil
}

func (r *PgxDraftRepository) FindDraftsByUploadGroup(ctx context.Context, uploadGroupID string) ([]domain.Draft, error) {
	query := `SELECT ` + draftColumns + ` FROM drafts WHERE upload_group_id = $1 ORDER BY file_name;`
	rows, err := r.Pool.Query(ctx, query, uploadGroupID)
	if err != nil {
		return nil, fmt.Errorf("failed to query drafts of upload group %s: %w", uploadGroupID, err)
	}
	defer rows.Close()

	drafts := []domain.Draft{}
	for rows.Next() {
		m, err := scanDraft(rows)
		if err != nil {
			return nil, fmt.Errorf("failed to scan draft row of upload group %s: %w", uploadGroupID, err)
		}
		drafts = append(drafts, mapping.ToDomainDraft(*m))
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("error iterating draft rows of upload group %s: %w", uploadGroupID, err)
	}
	return drafts, nil
}

func (r *PgxDraftRepository) FindParentEntryBySplitDraft(ctx context.Context, splitDraftID string) (*domain.Entry, error) {
	query := `SELECT ` + entryColumns + ` FROM entries WHERE split_draft_id = $1;`
	m, err := scanEntry(r.Pool.QueryRow(ctx, query, splitDraftID))
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, apperrors.ErrNotFound
		}
		return nil, fmt.Errorf("failed to find parent entry of split draft %s: %w", splitDraftID, err)
	}
	entry := mapping.ToDomainEntry(*m)
	return &entry, nil
}

func (r *PgxDraftRepository) ListDraftsByOwner(ctx context.Context, ownerID string, limit int, nextToken *string) ([]domain.Draft, *string, error) {
	if limit <= 0 {
		limit = 20
	}

	query := `SELECT ` + draftColumns + ` FROM drafts WHERE owner_id = $1`
	args := []interface{}{ownerID}
	if nextToken != nil {
		createdAt, draftID, err := pagination.DecodeCursor(*nextToken)
		if err != nil {
			return nil, nil, fmt.Errorf("%w: %w", apperrors.ErrValidation, err)
		}
		query += ` AND (created_at, draft_id) < ($2, $3)`
		args = append(args, createdAt, draftID)
	}
	query += fmt.Sprintf(` ORDER BY created_at DESC, draft_id DESC LIMIT %d;`, limit+1)

	rows, err := r.Pool.Query(ctx, query, args...)
	if err != nil {
		return nil, nil, fmt.Errorf("failed to query drafts for owner %s: %w", ownerID, err)
	}
	defer rows.Close()

	drafts := []domain.Draft{}
	for rows.Next() {
		m, err := scanDraft(rows)
		if err != nil {
			return nil, nil, fmt.Errorf("failed to scan draft row for owner %s: %w", ownerID, err)
		}
		drafts = append(drafts, mapping.ToDomainDraft(*m))
	}
	if err := rows.Err(); err != nil {
		return nil, nil, fmt.Errorf("error iterating draft rows for owner %s: %w", ownerID, err)
	}

	var token *string
	if len(drafts) > limit {
		drafts = drafts[:limit]
		last := drafts[len(drafts)-1]
		t := pagination.EncodeCursor(last.CreatedAt, last.DraftID)
		token = &t
	}
	return drafts, token, nil
}

func (r *PgxDraftRepository) ExistsOpenEntryWithPlan(ctx context.Context, ownerID string, planID string, excludeDraftID string) (bool, error) {
	query := `
		SELECT EXISTS (
			SELECT 1
			FROM entries e
			JOIN drafts d ON d.draft_id = e.draft_id
			WHERE d.owner_id = $1 AND d.status = $2 AND e.savings_plan_id = $3 AND e.draft_id <> $4
		);
	`
	var exists bool
	err := r.Pool.QueryRow(ctx, query, ownerID, string(domain.DraftOpen), planID, excludeDraftID).Scan(&exists)
	if err != nil {
		return false, fmt.Errorf("failed to check for open entries with plan %s: %w", planID, err)
	}
	return exists, nil
}

const insertEntryQuery = `
	INSERT INTO entries (entry_id, draft_id, booking_date, valuta_date, amount, subject, counterparty_name, currency_code, description, contact_id, savings_plan_id, archive_on_booking, security_id, security_tx_kind, quantity, fee, tax, split_draft_id, cost_neutral, status, created_at, created_by, last_updated_at, last_updated_by)
	VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11, $12, $13, $14, $15, $16, $17, $18, $19, $20, $21, $22, $23, $24);
`

func queueEntryInsert(batch *pgx.Batch, m models.Entry) {
	batch.Queue(insertEntryQuery,
		m.EntryID, m.DraftID, m.BookingDate, m.ValutaDate, m.Amount, m.Subject,
		m.CounterpartyName, m.CurrencyCode, m.Description, m.ContactID,
		m.SavingsPlanID, m.ArchiveOnBooking, m.SecurityID, m.SecurityTxKind,
		m.Quantity, m.Fee, m.Tax, m.SplitDraftID, m.CostNeutral, m.Status,
		m.CreatedAt, m.CreatedBy, m.LastUpdatedAt, m.LastUpdatedBy,
	)
}

func (r *PgxDraftRepository) SaveDraft(ctx context.Context, draft domain.Draft, entries []domain.Entry) error {
	tx, err := r.Begin(ctx)
	if err != nil {
		return err
	}
	defer r.Rollback(ctx, tx)

	m := mapping.ToModelDraft(draft)
	draftQuery := `
		INSERT INTO drafts (` + draftColumns + `)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10);
	`
	_, err = tx.Exec(ctx, draftQuery,
		m.DraftID, m.OwnerID, m.FileName, m.AccountID, m.UploadGroupID, m.Status,
		m.CreatedAt, m.CreatedBy, m.LastUpdatedAt, m.LastUpdatedBy,
	)
	if err != nil {
		var pgErr *pgconn.PgError
		if errors.As(err, &pgErr) && pgErr.Code == "23505" {
			return fmt.Errorf("%w: draft %s already exists", apperrors.ErrDuplicate, m.DraftID)
		}
		return fmt.Errorf("failed to insert draft %s: %w", m.DraftID, err)
	}

	if len(entries) > 0 {
		batch := &pgx.Batch{}
		for _, entry := range entries {
			queueEntryInsert(batch, mapping.ToModelEntry(entry))
		}
		br := tx.SendBatch(ctx, batch)
		var batchErr error
		for i := 0; i < batch.Len(); i++ {
			if _, err := br.Exec(); err != nil && batchErr == nil {
				batchErr = fmt.Errorf("failed to insert entry %s: %w", entries[i].EntryID, err)
			}
		}
		if err := br.Close(); err != nil && batchErr == nil {
			batchErr = fmt.Errorf("failed to close entry insert batch: %w", err)
		}
		if batchErr != nil {
			return batchErr
		}
	}

	return r.Commit(ctx, tx)
}

func (r *PgxDraftRepository) SaveEntry(ctx context.Context, entry domain.Entry) error {
	m := mapping.ToModelEntry(entry)
	_, err := r.Pool.Exec(ctx, insertEntryQuery,
		m.EntryID, m.DraftID, m.BookingDate, m.ValutaDate, m.Amount, m.Subject,
		m.CounterpartyName, m.CurrencyCode, m.Description, m.ContactID,
		m.SavingsPlanID, m.ArchiveOnBooking, m.SecurityID, m.SecurityTxKind,
		m.Quantity, m.Fee, m.Tax, m.SplitDraftID, m.CostNeutral, m.Status,
		m.CreatedAt, m.CreatedBy, m.LastUpdatedAt, m.LastUpdatedBy,
	)
	if err != nil {
		var pgErr *pgconn.PgError
		if errors.As(err, &pgErr) && pgErr.Code == "23505" {
			return fmt.Errorf("%w: entry %s already exists", apperrors.ErrDuplicate, m.EntryID)
		}
		return fmt.Errorf("failed to insert entry %s: %w", m.EntryID, err)
	}
	return nil
}

func (r *PgxDraftRepository) UpdateDraftStatus(ctx context.Context, draftID string, status domain.DraftStatus, updatedBy string, updatedAt time.Time) error {
	query := `
		UPDATE drafts
		SET status = $2, last_updated_at = $3, last_updated_by = $4
		WHERE draft_id = $1;
	`
	cmdTag, err := r.Pool.Exec(ctx, query, draftID, string(status), updatedAt, updatedBy)
	if err != nil {
		return fmt.Errorf("failed to update status of draft %s: %w", draftID, err)
	}
	if cmdTag.RowsAffected() == 0 {
		return apperrors.ErrNotFound
	}
	return nil
}

func (r *PgxDraftRepository) UpdateEntry(ctx context.Context, entry domain.Entry) error {
	m := mapping.ToModelEntry(entry)
	query := `
		UPDATE entries
		SET booking_date = $2, valuta_date = $3, amount = $4, subject = $5, contact_id = $6,
			savings_plan_id = $7, archive_on_booking = $8, security_id = $9, security_tx_kind = $10,
			quantity = $11, fee = $12, tax = $13, split_draft_id = $14, cost_neutral = $15,
			status = $16, last_updated_at = $17, last_updated_by = $18
		WHERE entry_id = $1;
	`
	cmdTag, err := r.Pool.Exec(ctx, query,
		m.EntryID, m.BookingDate, m.ValutaDate, m.Amount, m.Subject, m.ContactID,
		m.SavingsPlanID, m.ArchiveOnBooking, m.SecurityID, m.SecurityTxKind,
		m.Quantity, m.Fee, m.Tax, m.SplitDraftID, m.CostNeutral,
		m.Status, m.LastUpdatedAt, m.LastUpdatedBy,
	)
	if err != nil {
		return fmt.Errorf("failed to update entry %s: %w", m.EntryID, err)
	}
	if cmdTag.RowsAffected() == 0 {
		return apperrors.ErrNotFound
	}
	return nil
}

func (r *PgxDraftRepository) UpdateEntryStatuses(ctx context.Context, entryIDs []string, status domain.EntryStatus, updatedBy string, updatedAt time.Time) error {
	if len(entryIDs) == 0 {
		return nil
	}
	query := `
		UPDATE entries
		SET status = $2, last_updated_at = $3, last_updated_by = $4
		WHERE entry_id = ANY($1);
	`
	_, err := r.Pool.Exec(ctx, query, entryIDs, string(status), updatedAt, updatedBy)
	if err != nil {
		return fmt.Errorf("failed to update entry statuses: %w", err)
	}
	return nil
}

func (r *PgxDraftRepository) DeleteDraft(ctx context.Context, draftID string) error {
	tx, err := r.Begin(ctx)
	if err != nil {
		return err
	}
	defer r.Rollback(ctx, tx)

	if _, err := tx.Exec(ctx, `DELETE FROM entries WHERE draft_id = $1;`, draftID); err != nil {
		return fmt.Errorf("failed to delete entries of draft %s: %w", draftID, err)
	}
	cmdTag, err := tx.Exec(ctx, `DELETE FROM drafts WHERE draft_id = $1;`, draftID)
	if err != nil {
		return fmt.Errorf("failed to delete draft %s: %w", draftID, err)
	}
	if cmdTag.RowsAffected() == 0 {
		return apperrors.ErrNotFound
	}

	return r.Commit(ctx, tx)
}
