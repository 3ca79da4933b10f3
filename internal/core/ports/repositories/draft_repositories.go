package repositories

import (
	"context"
	"time"

	"github.com/kontoflow/kontoflow_backend/internal/core/domain"
)

// DraftReader defines read operations for draft and entry data.
type DraftReader interface {
	// FindDraftByID retrieves a draft header by its unique identifier.
	FindDraftByID(ctx context.Context, draftID string) (*domain.Draft, error)

	// FindEntriesByDraftID retrieves all entries of a draft, ordered by booking date and subject.
	FindEntriesByDraftID(ctx context.Context, draftID string) ([]domain.Entry, error)

	// FindEntryByID retrieves a single entry.
	FindEntryByID(ctx context.Context, entryID string) (*domain.Entry, error)

	// FindDraftsByUploadGroup retrieves every draft sharing the given upload group id.
	FindDraftsByUploadGroup(ctx context.Context, uploadGroupID string) ([]domain.Draft, error)

	// FindParentEntryBySplitDraft returns the entry referencing the given draft
	// as its split target, or apperrors.ErrNotFound if none does.
	FindParentEntryBySplitDraft(ctx context.Context, splitDraftID string) (*domain.Entry, error)

	// ListDraftsByOwner retrieves a paginated list of drafts for an owner using token-based pagination.
	ListDraftsByOwner(ctx context.Context, ownerID string, limit int, nextToken *string) ([]domain.Draft, *string, error)

	// ExistsOpenEntryWithPlan reports whether any entry of an open draft other
	// than excludeDraftID references the given savings plan.
	ExistsOpenEntryWithPlan(ctx context.Context, ownerID string, planID string, excludeDraftID string) (bool, error)
}

// DraftWriter defines write operations for draft and entry data.
type DraftWriter interface {
	// SaveDraft persists a new draft together with its entries.
	SaveDraft(ctx context.Context, draft domain.Draft, entries []domain.Entry) error

	// UpdateDraftStatus transitions a draft's lifecycle status.
	UpdateDraftStatus(ctx context.Context, draftID string, status domain.DraftStatus, updatedBy string, updatedAt time.Time) error

	// UpdateEntry persists a modified entry.
	UpdateEntry(ctx context.Context, entry domain.Entry) error

	// UpdateEntryStatuses flips the status of the given entries in one statement.
	UpdateEntryStatuses(ctx context.Context, entryIDs []string, status domain.EntryStatus, updatedBy string, updatedAt time.Time) error

	// SaveEntry persists a new entry on an existing draft.
	SaveEntry(ctx context.Context, entry domain.Entry) error

	// DeleteDraft removes a draft and its entries.
	DeleteDraft(ctx context.Context, draftID string) error
}

// DraftRepositoryFacade combines all draft-related repository interfaces.
type DraftRepositoryFacade interface {
	DraftReader
	DraftWriter
}
