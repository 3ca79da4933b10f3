package services

import (
	"context"
	"fmt"
	"log/slog"
	"sort"
	"strings"
	"time"

	"github.com/google/uuid"

	"github.com/kontoflow/kontoflow_backend/internal/core/domain"
	portsrepo "github.com/kontoflow/kontoflow_backend/internal/core/ports/repositories"
	portssvc "github.com/kontoflow/kontoflow_backend/internal/core/ports/services"
	"github.com/kontoflow/kontoflow_backend/internal/middleware"
)

// splitterService partitions raw movement lists into bounded draft batches so
// that no single draft exceeds a reviewable size.
type splitterService struct {
	draftRepo portsrepo.DraftRepositoryFacade
}

// NewSplitterService creates a new SplitterSvc.
func NewSplitterService(draftRepo portsrepo.DraftRepositoryFacade) portssvc.SplitterSvc {
	return &splitterService{draftRepo: draftRepo}
}

var _ portssvc.SplitterSvc = (*splitterService)(nil)

// movementGroup is one provisional batch during splitting. Groups produced by
// chunking an oversized month are excluded from the min-merge pass.
type movementGroup struct {
	label     string
	movements []domain.Movement
	monthPart bool
}

const monthLabelFormat = "2006-01"

// SplitMovements partitions the given movements per the configuration. The
// pass is pure: same input and config always yield the same batches.
func (s *splitterService) SplitMovements(movements []domain.Movement, cfg domain.SplitConfig) ([]domain.MovementBatch, domain.SplitReport) {
	report := domain.SplitReport{
		ConfiguredMode: cfg.Mode,
		MovementCount:  len(movements),
		MaxEntriesUsed: cfg.MaxEntriesPerDraft,
		Threshold:      cfg.MonthlySplitThreshold,
	}
	if len(movements) == 0 {
		return nil, report
	}

	sorted := make([]domain.Movement, len(movements))
	copy(sorted, movements)
	sort.SliceStable(sorted, func(i, j int) bool {
		if !sorted[i].BookingDate.Equal(sorted[j].BookingDate) {
			return sorted[i].BookingDate.Before(sorted[j].BookingDate)
		}
		return sorted[i].Subject < sorted[j].Subject
	})

	monthly := s.useMonthlySplit(cfg, len(sorted))
	report.EffectiveMonthly = monthly

	var groups []movementGroup
	if monthly {
		groups = splitByMonth(sorted, cfg.MaxEntriesPerDraft)
		if cfg.MinEntriesPerDraft > 1 {
			groups = mergeSmallGroups(groups, cfg.MinEntriesPerDraft)
		}
	} else {
		groups = chunkGroups("", sorted, cfg.MaxEntriesPerDraft, false)
	}

	batches := make([]domain.MovementBatch, len(groups))
	for i, g := range groups {
		batches[i] = domain.MovementBatch{Label: g.label, Movements: g.movements}
		if n := len(g.movements); n > report.LargestDraft {
			report.LargestDraft = n
		}
	}
	report.DraftCount = len(batches)
	return batches, report
}

func (s *splitterService) useMonthlySplit(cfg domain.SplitConfig, count int) bool {
	switch cfg.Mode {
	case domain.SplitMonthly:
		return true
	case domain.SplitFixedSize:
		return false
	default:
		return count > cfg.MonthlySplitThreshold
	}
}

// chunkGroups cuts a sorted movement run into consecutive groups of at most
// maxSize. A multi-chunk result gets "(Part i)" labels.
func chunkGroups(baseLabel string, movements []domain.Movement, maxSize int, markParts bool) []movementGroup {
	if maxSize <= 0 || len(movements) <= maxSize {
		return []movementGroup{{label: baseLabel, movements: movements}}
	}
	var groups []movementGroup
	part := 1
	for start := 0; start < len(movements); start += maxSize {
		end := start + maxSize
		if end > len(movements) {
			end = len(movements)
		}
		label := strings.TrimSpace(fmt.Sprintf("%s (Part %d)", baseLabel, part))
		groups = append(groups, movementGroup{label: label, movements: movements[start:end], monthPart: markParts})
		part++
	}
	return groups
}

// splitByMonth groups sorted movements by calendar month, chunking any month
// that exceeds maxSize exactly like fixed-size mode.
func splitByMonth(sorted []domain.Movement, maxSize int) []movementGroup {
	var groups []movementGroup
	start := 0
	for i := 1; i <= len(sorted); i++ {
		if i < len(sorted) && sameMonth(sorted[i].BookingDate, sorted[start].BookingDate) {
			continue
		}
		month := sorted[start].BookingDate.Format(monthLabelFormat)
		monthMovements := sorted[start:i]
		if maxSize > 0 && len(monthMovements) > maxSize {
			groups = append(groups, chunkGroups(month, monthMovements, maxSize, true)...)
		} else {
			groups = append(groups, movementGroup{label: month, movements: monthMovements})
		}
		start = i
	}
	return groups
}

func sameMonth(a, b time.Time) bool {
	return a.Year() == b.Year() && a.Month() == b.Month()
}

// mergeSmallGroups merges whole-month groups below the minimum size into their
// neighbours. Chunked month parts and months at or above the minimum act as
// anchors; runs of small months between, before or after them are either
// accumulated into standalone blocks or attached to an adjacent anchor.
func mergeSmallGroups(groups []movementGroup, min int) []movementGroup {
	isAnchor := func(g movementGroup) bool {
		return g.monthPart || len(g.movements) >= min
	}

	var result []movementGroup
	i := 0
	for i < len(groups) {
		if isAnchor(groups[i]) {
			result = append(result, groups[i])
			i++
			continue
		}

		// Collect the run of consecutive small groups starting at i.
		runStart := i
		for i < len(groups) && !isAnchor(groups[i]) {
			i++
		}
		run := groups[runStart:i]
		hasLeft := len(result) > 0 && isAnchor(result[len(result)-1])
		hasRight := i < len(groups)

		switch {
		case hasLeft && hasRight:
			right := groups[i]
			i++
			if len(run) == 1 {
				result = append(result, appendGroup(run[0], right))
				break
			}
			// Balance the run onto both anchors, chronologically, always
			// feeding the currently smaller side. Ties favour the left.
			left := result[len(result)-1]
			for _, g := range run {
				if len(left.movements) <= len(right.movements) {
					left = appendGroup(left, g)
				} else {
					right = appendGroup(g, right)
				}
			}
			result[len(result)-1] = left
			result = append(result, right)
		case hasRight:
			// Leading run: standalone blocks, remainder prepended to the
			// next emitted group (a block of this run or the right anchor).
			blocks, remainder := buildBlocks(run, min)
			result = append(result, blocks...)
			right := groups[i]
			i++
			if remainder != nil {
				right = appendGroup(*remainder, right)
			}
			result = append(result, right)
		default:
			// Trailing run, or a list with no anchors at all: standalone
			// blocks with the remainder attached to the preceding group.
			blocks, remainder := buildBlocks(run, min)
			result = append(result, blocks...)
			if remainder != nil {
				if len(result) > 0 {
					result[len(result)-1] = appendGroup(result[len(result)-1], *remainder)
				} else {
					result = append(result, *remainder)
				}
			}
		}
	}
	return result
}

// buildBlocks accumulates consecutive small groups into blocks of at least min
// movements. The final accumulation below min is returned as the remainder.
func buildBlocks(run []movementGroup, min int) ([]movementGroup, *movementGroup) {
	var blocks []movementGroup
	var current *movementGroup
	for _, g := range run {
		if current == nil {
			cp := g
			current = &cp
		} else {
			merged := appendGroup(*current, g)
			current = &merged
		}
		if len(current.movements) >= min {
			blocks = append(blocks, *current)
			current = nil
		}
	}
	return blocks, current
}

// appendGroup merges two groups, keeping movements ordered by booking date and
// subject and de-duplicating the concatenated label.
func appendGroup(a, b movementGroup) movementGroup {
	movements := make([]domain.Movement, 0, len(a.movements)+len(b.movements))
	movements = append(movements, a.movements...)
	movements = append(movements, b.movements...)
	sort.SliceStable(movements, func(i, j int) bool {
		if !movements[i].BookingDate.Equal(movements[j].BookingDate) {
			return movements[i].BookingDate.Before(movements[j].BookingDate)
		}
		return movements[i].Subject < movements[j].Subject
	})
	return movementGroup{
		label:     mergeLabels(a.label, b.label),
		movements: movements,
		monthPart: a.monthPart || b.monthPart,
	}
}

// mergeLabels concatenates labels with "+", dropping duplicates and blanks.
func mergeLabels(labels ...string) string {
	seen := make(map[string]struct{}, len(labels))
	var parts []string
	for _, label := range labels {
		for _, piece := range strings.Split(label, "+") {
			piece = strings.TrimSpace(piece)
			if piece == "" {
				continue
			}
			if _, ok := seen[piece]; ok {
				continue
			}
			seen[piece] = struct{}{}
			parts = append(parts, piece)
		}
	}
	return strings.Join(parts, "+")
}

// BuildDrafts runs the splitter and persists one draft per batch, all sharing
// a fresh upload group id. Cancellation is honoured between batches; a batch
// already persisted stays persisted.
func (s *splitterService) BuildDrafts(ctx context.Context, ownerID string, fileName string, accountID *string, movements []domain.Movement, cfg domain.SplitConfig) ([]domain.Draft, domain.SplitReport, error) {
	logger := middleware.GetLoggerFromCtx(ctx)

	batches, report := s.SplitMovements(movements, cfg)
	uploadGroupID := uuid.NewString()
	now := time.Now().UTC()

	drafts := make([]domain.Draft, 0, len(batches))
	for _, batch := range batches {
		if err := ctx.Err(); err != nil {
			return drafts, report, err
		}

		name := fileName
		if batch.Label != "" {
			name = fileName + " " + batch.Label
		}
		groupID := uploadGroupID
		draft := domain.Draft{
			DraftID:       uuid.NewString(),
			OwnerID:       ownerID,
			FileName:      name,
			AccountID:     accountID,
			UploadGroupID: &groupID,
			Status:        domain.DraftOpen,
			AuditFields: domain.AuditFields{
				CreatedAt:     now,
				CreatedBy:     ownerID,
				LastUpdatedAt: now,
				LastUpdatedBy: ownerID,
			},
		}

		entries := make([]domain.Entry, len(batch.Movements))
		for i, m := range batch.Movements {
			status := domain.EntryOpen
			if m.Announced {
				status = domain.EntryAnnounced
			}
			entries[i] = domain.Entry{
				EntryID:          uuid.NewString(),
				DraftID:          draft.DraftID,
				BookingDate:      m.BookingDate,
				ValutaDate:       m.ValutaDate,
				Amount:           m.Amount,
				Subject:          m.Subject,
				CounterpartyName: m.CounterpartyName,
				CurrencyCode:     m.CurrencyCode,
				Description:      m.Description,
				Status:           status,
				AuditFields: domain.AuditFields{
					CreatedAt:     now,
					CreatedBy:     ownerID,
					LastUpdatedAt: now,
					LastUpdatedBy: ownerID,
				},
			}
		}

		if err := s.draftRepo.SaveDraft(ctx, draft, entries); err != nil {
			logger.Error("Failed to save draft from import", slog.String("error", err.Error()), slog.String("draft_id", draft.DraftID))
			return drafts, report, fmt.Errorf("failed to save draft %s: %w", draft.DraftID, err)
		}
		draft.Entries = entries
		drafts = append(drafts, draft)
	}

	logger.Info("Import split into drafts",
		slog.String("configured_mode", string(report.ConfiguredMode)),
		slog.Bool("effective_monthly", report.EffectiveMonthly),
		slog.Int("draft_count", report.DraftCount),
		slog.Int("movement_count", report.MovementCount),
		slog.Int("max_entries_used", report.MaxEntriesUsed),
		slog.Int("largest_draft", report.LargestDraft),
		slog.Int("threshold", report.Threshold),
	)
	return drafts, report, nil
}
