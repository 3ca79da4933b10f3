package services

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"time"

	"github.com/kontoflow/kontoflow_backend/internal/apperrors"
	"github.com/kontoflow/kontoflow_backend/internal/core/domain"
	portsrepo "github.com/kontoflow/kontoflow_backend/internal/core/ports/repositories"
	portssvc "github.com/kontoflow/kontoflow_backend/internal/core/ports/services"
	"github.com/kontoflow/kontoflow_backend/internal/dto"
	"github.com/kontoflow/kontoflow_backend/internal/middleware"
	"github.com/kontoflow/kontoflow_backend/internal/utils/schedule"
	"github.com/shopspring/decimal"
)

// splitPrefix marks diagnostics that were raised inside a linked split group
// rather than on the draft being validated directly.
const splitPrefix = "[Split] "

// validationService turns a draft's entries into severity-tagged diagnostics.
// It never mutates monetary data; its only side effect is flipping entries
// that accumulated an error back to OPEN.
type validationService struct {
	draftRepo   portsrepo.DraftRepositoryFacade
	accountRepo portsrepo.AccountReader
	contactRepo portsrepo.ContactReader
	planRepo    portsrepo.SavingsPlanReader
	postingRepo portsrepo.PostingReader
}

// NewValidationService creates a new ValidationService.
func NewValidationService(
	draftRepo portsrepo.DraftRepositoryFacade,
	accountRepo portsrepo.AccountReader,
	contactRepo portsrepo.ContactReader,
	planRepo portsrepo.SavingsPlanReader,
	postingRepo portsrepo.PostingReader,
) portssvc.ValidationSvcFacade {
	return &validationService{
		draftRepo:   draftRepo,
		accountRepo: accountRepo,
		contactRepo: contactRepo,
		planRepo:    planRepo,
		postingRepo: postingRepo,
	}
}

// Ensure validationService implements the portssvc.ValidationSvcFacade interface
var _ portssvc.ValidationSvcFacade = (*validationService)(nil)

// validationPass carries the mutable state of one Validate call: the result
// under construction, the drafts already visited during split-group recursion,
// and the review status of every entry seen so far (for the OPEN flip).
type validationPass struct {
	svc         *validationService
	ownerID     string
	result      *dto.ValidationResult
	visited     map[string]bool
	entryStatus map[string]domain.EntryStatus
}

func (p *validationPass) add(prefix string, d domain.Diagnostic) {
	d.Text = prefix + d.Text
	p.result.Add(d)
}

func (s *validationService) Validate(ctx context.Context, draftID string, entryID *string, ownerID string) (*dto.ValidationResult, error) {
	logger := middleware.GetLoggerFromCtx(ctx)

	draft, err := s.draftRepo.FindDraftByID(ctx, draftID)
	if err != nil {
		return nil, fmt.Errorf("failed to load draft %s: %w", draftID, err)
	}
	if draft.OwnerID != ownerID {
		return nil, fmt.Errorf("%w: draft %s does not belong to the caller", apperrors.ErrForbidden, draftID)
	}

	entries, err := s.draftRepo.FindEntriesByDraftID(ctx, draftID)
	if err != nil {
		return nil, fmt.Errorf("failed to load entries of draft %s: %w", draftID, err)
	}
	if entryID != nil {
		found := false
		for i := range entries {
			if entries[i].EntryID == *entryID {
				entries = entries[i : i+1]
				found = true
				break
			}
		}
		if !found {
			return nil, fmt.Errorf("%w: entry %s not found on draft %s", apperrors.ErrNotFound, *entryID, draftID)
		}
	}
	scoped := inScopeEntries(entries)

	result := dto.NewValidationResult()
	pass := &validationPass{
		svc:         s,
		ownerID:     ownerID,
		result:      &result,
		visited:     map[string]bool{draftID: true},
		entryStatus: make(map[string]domain.EntryStatus, len(entries)),
	}
	for i := range entries {
		pass.entryStatus[entries[i].EntryID] = entries[i].Status
	}

	var account *domain.Account
	if draft.AccountID == nil {
		result.Add(domain.NewDiagnostic(domain.CodeNoAccount, draftID, nil))
	} else {
		account, err = s.accountRepo.FindAccountByID(ctx, *draft.AccountID)
		if err != nil && !errors.Is(err, apperrors.ErrNotFound) {
			return nil, fmt.Errorf("failed to load account %s: %w", *draft.AccountID, err)
		}
	}

	if err := pass.detectSplitCycles(ctx, draft, scoped, map[string]bool{draftID: true}); err != nil {
		return nil, err
	}

	for i := range scoped {
		if err := ctx.Err(); err != nil {
			return nil, err
		}
		if err := pass.checkEntry(ctx, draft, &scoped[i], account, ""); err != nil {
			return nil, err
		}
	}

	if entryID == nil {
		if err := pass.projectPlanGoals(ctx, draft, scoped); err != nil {
			return nil, err
		}
		if err := pass.remindDuePlans(ctx, draft, scoped); err != nil {
			return nil, err
		}
	}

	if err := pass.flipErroredEntries(ctx); err != nil {
		return nil, err
	}

	logger.Debug("draft validated",
		slog.String("draft_id", draftID),
		slog.Bool("valid", result.Valid),
		slog.Int("message_count", len(result.Messages)),
	)
	return &result, nil
}

// inScopeEntries drops entries that do not participate in validation:
// already-booked ones are settled elsewhere, announced ones are not yet due.
func inScopeEntries(entries []domain.Entry) []domain.Entry {
	scoped := make([]domain.Entry, 0, len(entries))
	for i := range entries {
		if entries[i].InValidationScope() {
			scoped = append(scoped, entries[i])
		}
	}
	return scoped
}

// detectSplitCycles walks the Draft -> split draft graph depth-first with a
// recursion stack. A draft re-entering the active stack means the split links
// form a cycle that would make booking recurse forever.
func (p *validationPass) detectSplitCycles(ctx context.Context, draft *domain.Draft, entries []domain.Entry, stack map[string]bool) error {
	for i := range entries {
		e := &entries[i]
		if e.SplitDraftID == nil || !e.InValidationScope() {
			continue
		}
		childID := *e.SplitDraftID
		if stack[childID] {
			p.result.Add(domain.NewDiagnostic(domain.CodeSplitCycleDetected, draft.DraftID, &e.EntryID, childID))
			continue
		}
		child, err := p.svc.draftRepo.FindDraftByID(ctx, childID)
		if err != nil {
			if errors.Is(err, apperrors.ErrNotFound) {
				continue
			}
			return fmt.Errorf("failed to load split draft %s: %w", childID, err)
		}
		childEntries, err := p.svc.draftRepo.FindEntriesByDraftID(ctx, childID)
		if err != nil {
			return fmt.Errorf("failed to load entries of split draft %s: %w", childID, err)
		}
		stack[childID] = true
		if err := p.detectSplitCycles(ctx, child, childEntries, stack); err != nil {
			return err
		}
		delete(stack, childID)
	}
	return nil
}

// checkEntry runs the per-entry rules. prefix is empty for the draft under
// validation and splitPrefix for entries reached through a split group.
func (p *validationPass) checkEntry(ctx context.Context, draft *domain.Draft, entry *domain.Entry, account *domain.Account, prefix string) error {
	if entry.ContactID == nil {
		p.add(prefix, domain.NewDiagnostic(domain.CodeEntryNoContact, draft.DraftID, &entry.EntryID, entry.Subject))
		return nil
	}
	if entry.Status == domain.EntryOpen {
		p.add(prefix, domain.NewDiagnostic(domain.CodeEntryNeedsCheck, draft.DraftID, &entry.EntryID, entry.Subject))
		return nil
	}

	contact, err := p.svc.contactRepo.FindContactByID(ctx, *entry.ContactID)
	if err != nil {
		return fmt.Errorf("failed to load contact %s: %w", *entry.ContactID, err)
	}

	if contact.Intermediary {
		if entry.SplitDraftID == nil {
			p.add(prefix, domain.NewDiagnostic(domain.CodeIntermediaryNoSplit, draft.DraftID, &entry.EntryID, contact.Name))
		} else if err := p.checkSplitGroup(ctx, draft, entry, account); err != nil {
			return err
		}
	}

	if contact.Self {
		p.checkSelfEntry(draft, entry, account, prefix)
	}

	if entry.HasSecurity() {
		p.checkSecurityEntry(draft, entry, account, prefix)
	}
	return nil
}

// checkSplitGroup validates the split group behind an intermediary entry: the
// linked draft plus every draft sharing its upload group, excluding the
// parent. The group must carry no detected account, its entry amounts must sum
// to the parent entry's amount, and every group entry is checked recursively.
func (p *validationPass) checkSplitGroup(ctx context.Context, parentDraft *domain.Draft, parentEntry *domain.Entry, account *domain.Account) error {
	child, err := p.svc.draftRepo.FindDraftByID(ctx, *parentEntry.SplitDraftID)
	if err != nil {
		return fmt.Errorf("failed to load split draft %s: %w", *parentEntry.SplitDraftID, err)
	}

	group := []domain.Draft{*child}
	if child.UploadGroupID != nil {
		group, err = p.svc.draftRepo.FindDraftsByUploadGroup(ctx, *child.UploadGroupID)
		if err != nil {
			return fmt.Errorf("failed to load upload group %s: %w", *child.UploadGroupID, err)
		}
	}

	sum := decimal.Zero
	for i := range group {
		d := &group[i]
		if d.DraftID == parentDraft.DraftID || p.visited[d.DraftID] {
			continue
		}
		p.visited[d.DraftID] = true

		if d.AccountID != nil {
			p.result.Add(domain.NewDiagnostic(domain.CodeSplitDraftHasAccount, d.DraftID, nil, d.FileName))
		}

		entries, err := p.svc.draftRepo.FindEntriesByDraftID(ctx, d.DraftID)
		if err != nil {
			return fmt.Errorf("failed to load entries of split draft %s: %w", d.DraftID, err)
		}
		for j := range entries {
			e := &entries[j]
			p.entryStatus[e.EntryID] = e.Status
			if e.Status != domain.EntryAlreadyBooked {
				sum = sum.Add(e.Amount)
			}
			if !e.InValidationScope() {
				continue
			}
			if err := p.checkEntry(ctx, d, e, account, splitPrefix); err != nil {
				return err
			}
		}
	}

	if !sum.Equal(parentEntry.Amount) {
		p.result.Add(domain.NewDiagnostic(domain.CodeSplitAmountMismatch, parentDraft.DraftID, &parentEntry.EntryID,
			sum.String(), parentEntry.Amount.String()))
	}
	return nil
}

// checkSelfEntry applies the savings-plan rules for entries against the
// holder's own contact. How loudly a missing plan is reported depends on the
// detected account's expectation.
func (p *validationPass) checkSelfEntry(draft *domain.Draft, entry *domain.Entry, account *domain.Account, prefix string) {
	if entry.SavingsPlanID == nil {
		severity := domain.SeverityWarning
		if account != nil {
			switch account.SavingsPlanExpectation {
			case domain.SavingsPlanRequired:
				severity = domain.SeverityError
			case domain.SavingsPlanOptional:
				severity = domain.SeverityWarning
			case domain.SavingsPlanNone:
				return
			}
		}
		p.add(prefix, domain.NewDiagnosticWithSeverity(domain.CodeSavingsPlanMissingForSelf, severity,
			draft.DraftID, &entry.EntryID, entry.Subject))
		return
	}
	if account != nil && account.AccountType == domain.AccountSavings {
		p.add(prefix, domain.NewDiagnostic(domain.CodeSavingsPlanInvalidAccount, draft.DraftID, &entry.EntryID, account.Name))
	}
}

// checkSecurityEntry applies the structural rules for security-linked entries.
func (p *validationPass) checkSecurityEntry(draft *domain.Draft, entry *domain.Entry, account *domain.Account, prefix string) {
	bankContactMatches := account != nil && account.BankContactID != nil &&
		entry.ContactID != nil && *entry.ContactID == *account.BankContactID
	if !bankContactMatches {
		p.add(prefix, domain.NewDiagnostic(domain.CodeSecurityInvalidContact, draft.DraftID, &entry.EntryID, entry.Subject))
	}

	if entry.SecurityTxKind == nil {
		p.add(prefix, domain.NewDiagnostic(domain.CodeSecurityMissingTxType, draft.DraftID, &entry.EntryID, entry.Subject))
	} else if *entry.SecurityTxKind == domain.SecurityDividend {
		if entry.Quantity != nil {
			p.add(prefix, domain.NewDiagnostic(domain.CodeSecurityQuantityDividend, draft.DraftID, &entry.EntryID, entry.Subject))
		}
	} else if entry.Quantity == nil || !entry.Quantity.IsPositive() {
		p.add(prefix, domain.NewDiagnostic(domain.CodeSecurityMissingQuantity, draft.DraftID, &entry.EntryID, entry.Subject))
	}

	if entry.Fee.Abs().Add(entry.Tax.Abs()).GreaterThan(entry.Amount.Abs()) {
		p.add(prefix, domain.NewDiagnostic(domain.CodeSecurityFeeTaxExceeds, draft.DraftID, &entry.EntryID, entry.Subject))
	}
}

// projectPlanGoals compares, per savings plan referenced by the draft, the
// already-posted total plus the planned contributions against the plan's
// target amount. Runs only for whole-draft validation.
func (p *validationPass) projectPlanGoals(ctx context.Context, draft *domain.Draft, entries []domain.Entry) error {
	planned := make(map[string]decimal.Decimal)
	archiveRequested := make(map[string]bool)
	for i := range entries {
		e := &entries[i]
		if e.SavingsPlanID == nil {
			continue
		}
		// The plan leg is booked with the negated entry amount, so an
		// outflow of -50 contributes +50 to the plan.
		planned[*e.SavingsPlanID] = planned[*e.SavingsPlanID].Add(e.Amount.Neg())
		if e.ArchiveOnBooking {
			archiveRequested[*e.SavingsPlanID] = true
		}
	}
	if len(planned) == 0 {
		return nil
	}

	planIDs := make([]string, 0, len(planned))
	for id := range planned {
		planIDs = append(planIDs, id)
	}
	plans, err := p.svc.planRepo.FindPlansByIDs(ctx, planIDs)
	if err != nil {
		return fmt.Errorf("failed to load savings plans: %w", err)
	}

	for _, planID := range planIDs {
		plan, ok := plans[planID]
		if !ok || plan.TargetAmount == nil {
			continue
		}
		posted, err := p.svc.postingRepo.SumPlanPostings(ctx, planID)
		if err != nil {
			return fmt.Errorf("failed to sum postings of plan %s: %w", planID, err)
		}
		projected := posted.Add(planned[planID])
		target := *plan.TargetAmount

		switch {
		case projected.Equal(target):
			p.result.Add(domain.NewDiagnostic(domain.CodeSavingsPlanGoalReached, draft.DraftID, nil, plan.Name))
		case projected.GreaterThan(target):
			p.result.Add(domain.NewDiagnostic(domain.CodeSavingsPlanGoalExceeds, draft.DraftID, nil,
				plan.Name, projected.Sub(target).String()))
		}
		if archiveRequested[planID] && !projected.Equal(target) {
			p.result.Add(domain.NewDiagnostic(domain.CodeSavingsPlanArchiveMism, draft.DraftID, nil, plan.Name))
		}
	}
	return nil
}

// remindDuePlans emits an information message for every active plan whose
// weekend-adjusted target date has passed relative to the latest entry in the
// draft, that has not been funded this calendar month and is not already
// covered by this or another open draft. Runs only for whole-draft validation.
func (p *validationPass) remindDuePlans(ctx context.Context, draft *domain.Draft, entries []domain.Entry) error {
	var latest time.Time
	referenced := make(map[string]bool)
	for i := range entries {
		if entries[i].BookingDate.After(latest) {
			latest = entries[i].BookingDate
		}
		if entries[i].SavingsPlanID != nil {
			referenced[*entries[i].SavingsPlanID] = true
		}
	}
	if latest.IsZero() {
		return nil
	}

	plans, err := p.svc.planRepo.ListPlansByOwner(ctx, p.ownerID, true)
	if err != nil {
		return fmt.Errorf("failed to list savings plans: %w", err)
	}
	for i := range plans {
		plan := &plans[i]
		if plan.TargetAmount == nil || plan.TargetDate == nil || referenced[plan.PlanID] {
			continue
		}
		due := schedule.AdjustForWeekend(*plan.TargetDate)
		if due.After(latest) {
			continue
		}
		funded, err := p.svc.postingRepo.ExistsPlanPostingInMonth(ctx, plan.PlanID, latest)
		if err != nil {
			return fmt.Errorf("failed to check fundings of plan %s: %w", plan.PlanID, err)
		}
		if funded {
			continue
		}
		open, err := p.svc.draftRepo.ExistsOpenEntryWithPlan(ctx, p.ownerID, plan.PlanID, draft.DraftID)
		if err != nil {
			return fmt.Errorf("failed to check open drafts for plan %s: %w", plan.PlanID, err)
		}
		if open {
			continue
		}
		p.result.Add(domain.NewDiagnostic(domain.CodeSavingsPlanDue, draft.DraftID, nil, plan.Name))
	}
	return nil
}

// flipErroredEntries forces every entry that accumulated an error back to
// OPEN, so it shows up as "needs check" again.
func (p *validationPass) flipErroredEntries(ctx context.Context) error {
	flip := make([]string, 0)
	seen := make(map[string]bool)
	for _, m := range p.result.Messages {
		if !m.IsError() || m.EntryID == nil || seen[*m.EntryID] {
			continue
		}
		seen[*m.EntryID] = true
		if status, ok := p.entryStatus[*m.EntryID]; ok && status != domain.EntryOpen {
			flip = append(flip, *m.EntryID)
		}
	}
	if len(flip) == 0 {
		return nil
	}
	if err := p.svc.draftRepo.UpdateEntryStatuses(ctx, flip, domain.EntryOpen, p.ownerID, time.Now()); err != nil {
		return fmt.Errorf("failed to flag entries for re-check: %w", err)
	}
	return nil
}
