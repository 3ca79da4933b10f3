package services

import (
	"context"

	"github.com/kontoflow/kontoflow_backend/internal/dto"
)

// ValidationSvcFacade turns a draft's entries into severity-tagged
// diagnostics. Validation never mutates monetary data; its only side effect is
// flipping entries that accumulated an error back to the OPEN status.
type ValidationSvcFacade interface {
	// Validate checks a whole draft, or a single entry when entryID is set.
	// Data-quality problems are reported as diagnostics, never as errors; the
	// returned error is reserved for infrastructure and contract failures.
	Validate(ctx context.Context, draftID string, entryID *string, ownerID string) (*dto.ValidationResult, error)
}
