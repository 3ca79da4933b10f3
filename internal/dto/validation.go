package dto

import "github.com/kontoflow/kontoflow_backend/internal/core/domain"

// ValidationResult is the outcome of validating a draft or a single entry.
// Valid is true when no message carries error severity; warnings and
// information messages do not block booking on their own.
type ValidationResult struct {
	Valid    bool                `json:"valid"`
	Messages []domain.Diagnostic `json:"messages"`
}

// Add appends a diagnostic and drops validity on error severity.
func (r *ValidationResult) Add(d domain.Diagnostic) {
	if d.IsError() {
		r.Valid = false
	}
	r.Messages = append(r.Messages, d)
}

// Merge folds another result into this one.
func (r *ValidationResult) Merge(other ValidationResult) {
	for _, m := range other.Messages {
		r.Add(m)
	}
}

// HasWarnings reports whether any message carries warning severity.
func (r *ValidationResult) HasWarnings() bool {
	for _, m := range r.Messages {
		if m.Severity == domain.SeverityWarning {
			return true
		}
	}
	return false
}

// NewValidationResult returns an empty, valid result.
func NewValidationResult() ValidationResult {
	return ValidationResult{Valid: true}
}
