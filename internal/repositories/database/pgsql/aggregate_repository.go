package pgsql

import (
	"context"
	"fmt"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/kontoflow/kontoflow_backend/internal/core/domain"
	portsrepo "github.com/kontoflow/kontoflow_backend/internal/core/ports/repositories"
)

// PgxAggregateRepository maintains per-account monthly totals. Rows are
// upserted as postings get booked so period reports never scan the full
// postings table.
type PgxAggregateRepository struct {
	BaseRepository
}

func newPgxAggregateRepository(pool *pgxpool.Pool) *PgxAggregateRepository {
	return &PgxAggregateRepository{BaseRepository: BaseRepository{Pool: pool}}
}

// Ensure PgxAggregateRepository implements portsrepo.AggregateWriter
var _ portsrepo.AggregateWriter = (*PgxAggregateRepository)(nil)

func (r *PgxAggregateRepository) ApplyPostings(ctx context.Context, postings []domain.Posting) error {
	query := `
		INSERT INTO period_aggregates (account_id, period, total, posting_count)
		VALUES ($1, date_trunc('month', $2::timestamptz), $3, 1)
		ON CONFLICT (account_id, period)
		DO UPDATE SET total = period_aggregates.total + EXCLUDED.total,
			posting_count = period_aggregates.posting_count + 1;
	`
	batch := &pgx.Batch{}
	queued := []string{}
	for _, posting := range postings {
		if posting.Kind != domain.PostingBank || posting.AccountID == nil {
			continue
		}
		batch.Queue(query, *posting.AccountID, posting.BookingDate, posting.Amount)
		queued = append(queued, posting.PostingID)
	}
	if batch.Len() == 0 {
		return nil
	}
	br := r.Pool.SendBatch(ctx, batch)
	var batchErr error
	for i := 0; i < batch.Len(); i++ {
		if _, err := br.Exec(); err != nil && batchErr == nil {
			batchErr = fmt.Errorf("failed to aggregate posting %s: %w", queued[i], err)
		}
	}
	if err := br.Close(); err != nil && batchErr == nil {
		batchErr = fmt.Errorf("failed to close aggregate batch: %w", err)
	}
	return batchErr
}
