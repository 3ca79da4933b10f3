package repositories

import (
	"context"
	"time"

	"github.com/kontoflow/kontoflow_backend/internal/core/domain"
	"github.com/shopspring/decimal"
)

// BookingCommit is the atomic unit a booking call persists: the created
// postings, the account balance deltas they imply, savings plans whose target
// date or archived flag changed, the booked entries to remove, and the drafts
// to transition to COMMITTED. Everything is written in one database
// transaction so balances and postings never diverge on partial failure.
type BookingCommit struct {
	Postings       []domain.Posting
	BalanceChanges map[string]decimal.Decimal
	PlanUpdates    []domain.SavingsPlan
	RemoveEntryIDs []string
	CommitDraftIDs []string
	BookedBy       string
	BookedAt       time.Time
}

// PostingReader defines read operations for posting data.
type PostingReader interface {
	// FindPostingByID retrieves a single posting.
	FindPostingByID(ctx context.Context, postingID string) (*domain.Posting, error)

	// FindPostingsByGroupID retrieves all sibling legs of one booked entry.
	FindPostingsByGroupID(ctx context.Context, groupID string) ([]domain.Posting, error)

	// FindLinkCandidates retrieves unlinked contact postings of the given
	// contact with exactly the given amount and subject, owner-scoped.
	FindLinkCandidates(ctx context.Context, ownerID string, contactID string, amount decimal.Decimal, subject string) ([]domain.Posting, error)

	// SumPlanPostings returns the posted total of a savings plan.
	SumPlanPostings(ctx context.Context, planID string) (decimal.Decimal, error)

	// ExistsPlanPostingInMonth reports whether the plan already received a
	// posting within the calendar month containing the given date.
	ExistsPlanPostingInMonth(ctx context.Context, planID string, month time.Time) (bool, error)
}

// PostingWriter defines write operations for posting data.
type PostingWriter interface {
	// SaveBooking persists a booking commit atomically.
	SaveBooking(ctx context.Context, commit BookingCommit) error

	// LinkPostings sets the mutual linked-posting references of a self-transfer pair.
	LinkPostings(ctx context.Context, postingID string, linkedPostingID string) error
}

// PostingRepositoryFacade combines all posting-related repository interfaces.
type PostingRepositoryFacade interface {
	PostingReader
	PostingWriter
}

// AggregateWriter rolls booked postings up into period aggregates. It is a
// side-effect sink; the booking engine reports every booked group to it.
type AggregateWriter interface {
	ApplyPostings(ctx context.Context, postings []domain.Posting) error
}
