package pgsql

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/shopspring/decimal"

	"github.com/kontoflow/kontoflow_backend/internal/apperrors"
	"github.com/kontoflow/kontoflow_backend/internal/core/domain"
	portsrepo "github.com/kontoflow/kontoflow_backend/internal/core/ports/repositories"
	"github.com/kontoflow/kontoflow_backend/internal/models"
	"github.com/kontoflow/kontoflow_backend/internal/utils/mapping"
)

type PgxPostingRepository struct {
	BaseRepository
	accountRepo *PgxAccountRepository
	planRepo    *PgxSavingsPlanRepository
}

// newPgxPostingRepository creates a new repository for posting data. It takes
// the account and plan repositories so a booking can update balances and plan
// state inside its own transaction.
func newPgxPostingRepository(pool *pgxpool.Pool, accountRepo *PgxAccountRepository, planRepo *PgxSavingsPlanRepository) *PgxPostingRepository {
	return &PgxPostingRepository{
		BaseRepository: BaseRepository{Pool: pool},
		accountRepo:    accountRepo,
		planRepo:       planRepo,
	}
}

// Ensure PgxPostingRepository implements portsrepo.PostingRepositoryFacade
var _ portsrepo.PostingRepositoryFacade = (*PgxPostingRepository)(nil)

const postingColumns = `posting_id, entry_id, owner_id, kind, account_id, contact_id, savings_plan_id, security_id, booking_date, valuta_date, amount, subject, security_tx_kind, quantity, group_id, parent_posting_id, linked_posting_id, created_at, created_by, last_updated_at, last_updated_by`

func scanPosting(row pgx.Row) (*models.Posting, error) {
	var m models.Posting
	err := row.Scan(
		&m.PostingID,
		&m.EntryID,
		&m.OwnerID,
		&m.Kind,
		&m.AccountID,
		&m.ContactID,
		&m.SavingsPlanID,
		&m.SecurityID,
		&m.BookingDate,
		&m.ValutaDate,
		&m.Amount,
		&m.Subject,
		&m.SecurityTxKind,
		&m.Quantity,
		&m.GroupID,
		&m.ParentPostingID,
		&m.LinkedPostingID,
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

// SaveBooking persists one booking commit atomically: postings, balance
// deltas, plan updates, entry removal and draft commits all share one
// transaction. Owner and subject are denormalized onto each posting row from
// the originating entry, which still exists at insert time.
func (r *PgxPostingRepository) SaveBooking(ctx context.Context, commit portsrepo.BookingCommit) error {
	tx, err := r.Begin(ctx)
	if err != nil {
		return err
	}
	defer r.Rollback(ctx, tx)

	// 1. Insert postings, pulling owner_id and subject from the entry row.
	insertQuery := `
		INSERT INTO postings (` + postingColumns + `)
		SELECT $1, e.entry_id, d.owner_id, $3, $4, $5, $6, $7, $8, $9, $10, e.subject, $11, $12, $13, $14, NULL, $15, $16, $15, $16
		FROM entries e
		JOIN drafts d ON d.draft_id = e.draft_id
		WHERE e.entry_id = $2;
	`
	batch := &pgx.Batch{}
	for _, posting := range commit.Postings {
		m := mapping.ToModelPosting(posting)
		batch.Queue(insertQuery,
			m.PostingID, m.EntryID, m.Kind, m.AccountID, m.ContactID,
			m.SavingsPlanID, m.SecurityID, m.BookingDate, m.ValutaDate, m.Amount,
			m.SecurityTxKind, m.Quantity, m.GroupID, m.ParentPostingID,
			commit.BookedAt, commit.BookedBy,
		)
	}
	br := tx.SendBatch(ctx, batch)
	var batchErr error
	for i := 0; i < batch.Len(); i++ {
		ct, err := br.Exec()
		if err != nil {
			if batchErr == nil {
				batchErr = fmt.Errorf("failed to insert posting %s: %w", commit.Postings[i].PostingID, err)
			}
		} else if ct.RowsAffected() == 0 && batchErr == nil {
			batchErr = fmt.Errorf("%w: entry %s missing while inserting posting %s", apperrors.ErrNotFound, commit.Postings[i].EntryID, commit.Postings[i].PostingID)
		}
	}
	if err := br.Close(); err != nil && batchErr == nil {
		batchErr = fmt.Errorf("failed to close posting insert batch: %w", err)
	}
	if batchErr != nil {
		return batchErr
	}

	// 2. Lock accounts and apply balance deltas.
	accountIDs := make([]string, 0, len(commit.BalanceChanges))
	for accountID := range commit.BalanceChanges {
		accountIDs = append(accountIDs, accountID)
	}
	if _, err := r.accountRepo.lockAccountsForUpdate(ctx, tx, accountIDs); err != nil {
		return fmt.Errorf("failed to lock accounts for booking: %w", err)
	}
	if err := r.accountRepo.updateBalancesInTx(ctx, tx, commit.BalanceChanges, commit.BookedBy, commit.BookedAt); err != nil {
		return fmt.Errorf("failed to update account balances: %w", err)
	}

	// 3. Persist advanced or archived savings plans.
	if err := r.planRepo.updatePlansInTx(ctx, tx, commit.PlanUpdates); err != nil {
		return fmt.Errorf("failed to update savings plans: %w", err)
	}

	// 4. Remove the booked entries from their drafts.
	if len(commit.RemoveEntryIDs) > 0 {
		if _, err := tx.Exec(ctx, `DELETE FROM entries WHERE entry_id = ANY($1);`, commit.RemoveEntryIDs); err != nil {
			return fmt.Errorf("failed to remove booked entries: %w", err)
		}
	}

	// 5. Transition fully booked drafts to COMMITTED.
	if len(commit.CommitDraftIDs) > 0 {
		commitQuery := `
			UPDATE drafts
			SET status = $2, last_updated_at = $3, last_updated_by = $4
			WHERE draft_id = ANY($1);
		`
		if _, err := tx.Exec(ctx, commitQuery, commit.CommitDraftIDs, string(domain.DraftCommitted), commit.BookedAt, commit.BookedBy); err != nil {
			return fmt.Errorf("failed to commit drafts: %w", err)
		}
	}

	return r.Commit(ctx, tx)
}

func (r *PgxPostingRepository) FindPostingByID(ctx context.Context, postingID string) (*domain.Posting, error) {
	query := `SELECT ` + postingColumns + ` FROM postings WHERE posting_id = $1;`
	m, err := scanPosting(r.Pool.QueryRow(ctx, query, postingID))
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, apperrors.ErrNotFound
		}
		return nil, fmt.Errorf("failed to find posting by ID %s: %w", postingID, err)
	}
	posting := mapping.ToDomainPosting(*m)
	return &posting, nil
}

func (r *PgxPostingRepository) FindPostingsByGroupID(ctx context.Context, groupID string) ([]domain.Posting, error) {
	query := `SELECT ` + postingColumns + ` FROM postings WHERE group_id = $1 ORDER BY posting_id;`
	rows, err := r.Pool.Query(ctx, query, groupID)
	if err != nil {
		return nil, fmt.Errorf("failed to query postings of group %s: %w", groupID, err)
	}
	defer rows.Close()

	postings := []domain.Posting{}
	for rows.Next() {
		m, err := scanPosting(rows)
		if err != nil {
			return nil, fmt.Errorf("failed to scan posting row of group %s: %w", groupID, err)
		}
		postings = append(postings, mapping.ToDomainPosting(*m))
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("error iterating posting rows of group %s: %w", groupID, err)
	}
	return postings, nil
}

func (r *PgxPostingRepository) FindLinkCandidates(ctx context.Context, ownerID string, contactID string, amount decimal.Decimal, subject string) ([]domain.Posting, error) {
	query := `
		SELECT ` + postingColumns + `
		FROM postings
		WHERE owner_id = $1 AND kind = $2 AND contact_id = $3 AND amount = $4 AND subject = $5
			AND linked_posting_id IS NULL
		ORDER BY booking_date, created_at;
	`
	rows, err := r.Pool.Query(ctx, query, ownerID, string(domain.PostingContact), contactID, amount, subject)
	if err != nil {
		return nil, fmt.Errorf("failed to query link candidates: %w", err)
	}
	defer rows.Close()

	postings := []domain.Posting{}
	for rows.Next() {
		m, err := scanPosting(rows)
		if err != nil {
			return nil, fmt.Errorf("failed to scan link candidate row: %w", err)
		}
		postings = append(postings, mapping.ToDomainPosting(*m))
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("error iterating link candidate rows: %w", err)
	}
	return postings, nil
}

func (r *PgxPostingRepository) SumPlanPostings(ctx context.Context, planID string) (decimal.Decimal, error) {
	query := `
		SELECT COALESCE(SUM(amount), 0)
		FROM postings
		WHERE savings_plan_id = $1 AND kind = $2;
	`
	var sum decimal.Decimal
	err := r.Pool.QueryRow(ctx, query, planID, string(domain.PostingSavingsPlan)).Scan(&sum)
	if err != nil {
		return decimal.Zero, fmt.Errorf("failed to sum postings of plan %s: %w", planID, err)
	}
	return sum, nil
}

func (r *PgxPostingRepository) ExistsPlanPostingInMonth(ctx context.Context, planID string, month time.Time) (bool, error) {
	query := `
		SELECT EXISTS (
			SELECT 1
			FROM postings
			WHERE savings_plan_id = $1 AND kind = $2
				AND date_trunc('month', booking_date) = date_trunc('month', $3::timestamptz)
		);
	`
	var exists bool
	err := r.Pool.QueryRow(ctx, query, planID, string(domain.PostingSavingsPlan), month).Scan(&exists)
	if err != nil {
		return false, fmt.Errorf("failed to check plan postings of %s in month: %w", planID, err)
	}
	return exists, nil
}

// LinkPostings sets the mutual linked-posting references of a self-transfer
// pair in one statement.
func (r *PgxPostingRepository) LinkPostings(ctx context.Context, postingID string, linkedPostingID string) error {
	query := `
		UPDATE postings
		SET linked_posting_id = CASE posting_id WHEN $1 THEN $2::text WHEN $2 THEN $1::text END,
			last_updated_at = NOW()
		WHERE posting_id IN ($1, $2) AND linked_posting_id IS NULL;
	`
	cmdTag, err := r.Pool.Exec(ctx, query, postingID, linkedPostingID)
	if err != nil {
		return fmt.Errorf("failed to link postings %s and %s: %w", postingID, linkedPostingID, err)
	}
	if cmdTag.RowsAffected() != 2 {
		return fmt.Errorf("%w: postings %s and %s could not both be linked", apperrors.ErrConflict, postingID, linkedPostingID)
	}
	return nil
}
