package services

import (
	"context"

	"github.com/kontoflow/kontoflow_backend/internal/core/domain"
	"github.com/kontoflow/kontoflow_backend/internal/dto"
)

// BookingSvcFacade converts validated draft entries into immutable postings.
type BookingSvcFacade interface {
	// Book books a whole draft, or a single entry when entryID is set. It
	// re-runs validation first: any error aborts with no side effects, any
	// warning aborts unless forceWarnings is set.
	Book(ctx context.Context, draftID string, entryID *string, ownerID string, forceWarnings bool) (*dto.BookingResult, error)
}

// AttachmentReassigner moves attachments from draft/entry scope to
// account/posting scope once booking succeeds. Failures are logged by the
// caller and never abort a booking.
type AttachmentReassigner interface {
	Reassign(ctx context.Context, moves []domain.AttachmentMove) error
}

// PostingSink is notified of every booked posting group so period aggregates
// and similar read models can be rolled up.
type PostingSink interface {
	PostingsBooked(ctx context.Context, postings []domain.Posting) error
}
