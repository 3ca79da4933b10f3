package services

import (
	"context"

	"github.com/kontoflow/kontoflow_backend/internal/core/domain"
	"github.com/kontoflow/kontoflow_backend/internal/dto"
)

// SplitterSvc partitions a raw movement list into bounded draft batches.
// The splitting itself is a pure function; BuildDrafts additionally persists
// the resulting drafts under one upload group.
type SplitterSvc interface {
	// SplitMovements partitions movements per the given configuration.
	SplitMovements(movements []domain.Movement, cfg domain.SplitConfig) ([]domain.MovementBatch, domain.SplitReport)

	// BuildDrafts materializes one draft per batch and persists them.
	BuildDrafts(ctx context.Context, ownerID string, fileName string, accountID *string, movements []domain.Movement, cfg domain.SplitConfig) ([]domain.Draft, domain.SplitReport, error)
}

// DraftReaderSvc exposes read access to drafts.
type DraftReaderSvc interface {
	// GetDraft retrieves a draft including its entries, owner-scoped.
	GetDraft(ctx context.Context, ownerID string, draftID string) (*domain.Draft, error)

	// ListDrafts retrieves a paginated list of the owner's drafts.
	ListDrafts(ctx context.Context, ownerID string, params dto.ListDraftsParams) (*dto.ListDraftsResponse, error)
}

// DraftWriterSvc exposes draft mutations, including the guarded assignment
// operations whose preconditions are structural contracts rather than data
// quality checks. Violations surface as wrapped apperrors values.
type DraftWriterSvc interface {
	// ImportMovements runs the batch splitter over a parsed movement list.
	ImportMovements(ctx context.Context, ownerID string, req dto.ImportMovementsRequest) (*dto.ImportResult, error)

	// CreateDraft creates an empty draft for manual entry.
	CreateDraft(ctx context.Context, ownerID string, req dto.CreateDraftRequest) (*domain.Draft, error)

	// AddEntry appends one entry to a draft.
	AddEntry(ctx context.Context, ownerID string, draftID string, req dto.AddEntryRequest) (*domain.Entry, error)

	// UpdateEntry applies a presence-explicit patch to an entry.
	UpdateEntry(ctx context.Context, ownerID string, draftID string, entryID string, patch domain.EntryPatch) (*domain.Entry, error)

	// AssignSplitDraft links a split draft to an intermediary entry.
	AssignSplitDraft(ctx context.Context, ownerID string, draftID string, entryID string, splitDraftID string) error

	// DeleteDraft removes an unbooked draft and its entries.
	DeleteDraft(ctx context.Context, ownerID string, draftID string) error
}

// DraftSvcFacade combines all draft service interfaces.
type DraftSvcFacade interface {
	DraftReaderSvc
	DraftWriterSvc
}
