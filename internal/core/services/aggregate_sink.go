package services

import (
	"context"
	"fmt"

	"github.com/kontoflow/kontoflow_backend/internal/core/domain"
	portsrepo "github.com/kontoflow/kontoflow_backend/internal/core/ports/repositories"
	portssvc "github.com/kontoflow/kontoflow_backend/internal/core/ports/services"
)

// aggregateSink forwards booked postings to the period-aggregate writer.
// Booking treats sink failures as non-fatal; the aggregates can be rebuilt
// from the posting log.
type aggregateSink struct {
	aggregateRepo portsrepo.AggregateWriter
}

// NewAggregateSink creates a new aggregate PostingSink.
func NewAggregateSink(aggregateRepo portsrepo.AggregateWriter) portssvc.PostingSink {
	return &aggregateSink{aggregateRepo: aggregateRepo}
}

// Ensure aggregateSink implements the portssvc.PostingSink interface
var _ portssvc.PostingSink = (*aggregateSink)(nil)

func (s *aggregateSink) PostingsBooked(ctx context.Context, postings []domain.Posting) error {
	if len(postings) == 0 {
		return nil
	}
	if err := s.aggregateRepo.ApplyPostings(ctx, postings); err != nil {
		return fmt.Errorf("failed to roll up postings: %w", err)
	}
	return nil
}
