package services

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"time"

	"github.com/google/uuid"

	"github.com/kontoflow/kontoflow_backend/internal/apperrors"
	"github.com/kontoflow/kontoflow_backend/internal/core/domain"
	portsrepo "github.com/kontoflow/kontoflow_backend/internal/core/ports/repositories"
	portssvc "github.com/kontoflow/kontoflow_backend/internal/core/ports/services"
	"github.com/kontoflow/kontoflow_backend/internal/dto"
	"github.com/kontoflow/kontoflow_backend/internal/middleware"
	"github.com/kontoflow/kontoflow_backend/internal/utils/schedule"
	"github.com/shopspring/decimal"
)

var (
	ErrSplitTargetBooking = errors.New("draft is referenced as a split target and cannot be booked directly")
	ErrNoAccountForDraft  = errors.New("draft has no detected account")
)

// bookingService converts validated draft entries into immutable postings:
// plain bank/contact leg pairs, savings-plan contributions with recurring
// target advancement, security fee/tax decomposition, split fan-out over
// intermediary entries, and best-effort self-transfer linking.
type bookingService struct {
	draftRepo     portsrepo.DraftRepositoryFacade
	postingRepo   portsrepo.PostingRepositoryFacade
	accountRepo   portsrepo.AccountReader
	contactRepo   portsrepo.ContactReader
	planRepo      portsrepo.SavingsPlanReader
	validationSvc portssvc.ValidationSvcFacade
	attachments   portssvc.AttachmentReassigner
	sink          portssvc.PostingSink
}

// NewBookingService creates a new BookingService.
func NewBookingService(
	draftRepo portsrepo.DraftRepositoryFacade,
	postingRepo portsrepo.PostingRepositoryFacade,
	accountRepo portsrepo.AccountReader,
	contactRepo portsrepo.ContactReader,
	planRepo portsrepo.SavingsPlanReader,
	validationSvc portssvc.ValidationSvcFacade,
	attachments portssvc.AttachmentReassigner,
	sink portssvc.PostingSink,
) portssvc.BookingSvcFacade {
	return &bookingService{
		draftRepo:     draftRepo,
		postingRepo:   postingRepo,
		accountRepo:   accountRepo,
		contactRepo:   contactRepo,
		planRepo:      planRepo,
		validationSvc: validationSvc,
		attachments:   attachments,
		sink:          sink,
	}
}

// Ensure bookingService implements the portssvc.BookingSvcFacade interface
var _ portssvc.BookingSvcFacade = (*bookingService)(nil)

// parentLegs carries the zero-amount legs of a split parent entry into the
// recursive booking of its children, together with the parent's valuta date.
type parentLegs struct {
	bankPostingID    string
	contactPostingID string
	valutaOverride   *time.Time
}

// selfLinkJob is one freshly created contact leg against the holder's own
// contact, to be matched against its counterpart after the commit.
type selfLinkJob struct {
	posting   domain.Posting
	subject   string
	accountID string
}

// bookingRun is the mutable state of one Book call. It accumulates the
// BookingCommit that is persisted atomically at the end, plus the best-effort
// work to do after the commit succeeded.
type bookingRun struct {
	svc     *bookingService
	ownerID string
	now     time.Time

	commit  portsrepo.BookingCommit
	visited map[string]bool

	plans         map[string]*domain.SavingsPlan
	planOrder     []string
	dirtyPlans    map[string]bool
	advancedPlans map[string]bool
	planned       map[string]decimal.Decimal
	archivePlans  map[string]bool

	moves     []domain.AttachmentMove
	selfLinks []selfLinkJob
}

func (s *bookingService) Book(ctx context.Context, draftID string, entryID *string, ownerID string, forceWarnings bool) (*dto.BookingResult, error) {
	logger := middleware.GetLoggerFromCtx(ctx)

	validation, err := s.validationSvc.Validate(ctx, draftID, entryID, ownerID)
	if err != nil {
		return nil, fmt.Errorf("validation before booking failed: %w", err)
	}
	result := &dto.BookingResult{Validation: *validation}
	if !validation.Valid {
		return result, nil
	}
	if validation.HasWarnings() && !forceWarnings {
		return result, nil
	}

	if _, err := s.draftRepo.FindParentEntryBySplitDraft(ctx, draftID); err == nil {
		return nil, fmt.Errorf("%w: %w", apperrors.ErrConflict, ErrSplitTargetBooking)
	} else if !errors.Is(err, apperrors.ErrNotFound) {
		return nil, fmt.Errorf("failed to check split references of draft %s: %w", draftID, err)
	}

	draft, err := s.draftRepo.FindDraftByID(ctx, draftID)
	if err != nil {
		return nil, fmt.Errorf("failed to load draft %s: %w", draftID, err)
	}
	if draft.AccountID == nil {
		return nil, fmt.Errorf("%w: %w", apperrors.ErrConflict, ErrNoAccountForDraft)
	}
	account, err := s.accountRepo.FindAccountByID(ctx, *draft.AccountID)
	if err != nil {
		return nil, fmt.Errorf("failed to load account %s: %w", *draft.AccountID, err)
	}

	allEntries, err := s.draftRepo.FindEntriesByDraftID(ctx, draftID)
	if err != nil {
		return nil, fmt.Errorf("failed to load entries of draft %s: %w", draftID, err)
	}
	toBook := make([]domain.Entry, 0, len(allEntries))
	for i := range allEntries {
		e := &allEntries[i]
		if !e.InValidationScope() {
			continue
		}
		if entryID == nil || e.EntryID == *entryID {
			toBook = append(toBook, *e)
		}
	}
	if entryID != nil && len(toBook) == 0 {
		return nil, fmt.Errorf("%w: entry %s not found on draft %s", apperrors.ErrNotFound, *entryID, draftID)
	}

	run := &bookingRun{
		svc:     s,
		ownerID: ownerID,
		now:     time.Now(),
		commit: portsrepo.BookingCommit{
			BalanceChanges: make(map[string]decimal.Decimal),
			BookedBy:       ownerID,
		},
		visited:       map[string]bool{draftID: true},
		plans:         make(map[string]*domain.SavingsPlan),
		dirtyPlans:    make(map[string]bool),
		advancedPlans: make(map[string]bool),
		planned:       make(map[string]decimal.Decimal),
		archivePlans:  make(map[string]bool),
	}
	run.commit.BookedAt = run.now

	for i := range toBook {
		if err := ctx.Err(); err != nil {
			return nil, err
		}
		if err := run.bookEntry(ctx, draft, &toBook[i], account, nil); err != nil {
			return nil, err
		}
	}

	removed := make(map[string]bool, len(run.commit.RemoveEntryIDs))
	for _, id := range run.commit.RemoveEntryIDs {
		removed[id] = true
	}
	remaining := 0
	for i := range allEntries {
		if !removed[allEntries[i].EntryID] {
			remaining++
		}
	}

	draftCommitted := entryID == nil || remaining == 0
	if draftCommitted {
		run.commit.CommitDraftIDs = append(run.commit.CommitDraftIDs, draftID)
		run.moves = append(run.moves, domain.AttachmentMove{
			FromKind: domain.AttachmentOwnerDraft, FromID: draftID,
			ToKind: domain.AttachmentOwnerAccount, ToID: account.AccountID,
		})
	}

	if entryID == nil {
		if err := run.archiveCompletedPlans(ctx, draftID, result); err != nil {
			return nil, err
		}
	}
	for _, planID := range run.planOrder {
		if run.dirtyPlans[planID] {
			run.commit.PlanUpdates = append(run.commit.PlanUpdates, *run.plans[planID])
		}
	}

	if err := s.postingRepo.SaveBooking(ctx, run.commit); err != nil {
		return nil, fmt.Errorf("failed to persist booking of draft %s: %w", draftID, err)
	}

	run.linkSelfTransfers(ctx, logger)
	if len(run.moves) > 0 && s.attachments != nil {
		if err := s.attachments.Reassign(ctx, run.moves); err != nil {
			logger.Warn("attachment reassignment after booking failed", slog.String("draft_id", draftID), slog.String("error", err.Error()))
		}
	}
	if len(run.commit.Postings) > 0 && s.sink != nil {
		if err := s.sink.PostingsBooked(ctx, run.commit.Postings); err != nil {
			logger.Warn("aggregate rollup after booking failed", slog.String("draft_id", draftID), slog.String("error", err.Error()))
		}
	}

	result.Booked = true
	result.DraftCommitted = draftCommitted
	result.PostingsCreated = len(run.commit.Postings)
	result.RemainingEntries = remaining
	logger.Info("draft booked",
		slog.String("draft_id", draftID),
		slog.Int("postings_created", result.PostingsCreated),
		slog.Bool("draft_committed", draftCommitted),
		slog.Int("remaining_entries", remaining),
	)
	return result, nil
}

// bookEntry creates the posting group of one entry. parent is nil for entries
// of the draft being booked and set for entries reached through split fan-out.
func (r *bookingRun) bookEntry(ctx context.Context, draft *domain.Draft, entry *domain.Entry, account *domain.Account, parent *parentLegs) error {
	if entry.ContactID == nil {
		return fmt.Errorf("%w: entry %s has no contact despite passing validation", apperrors.ErrInternal, entry.EntryID)
	}
	contact, err := r.svc.contactRepo.FindContactByID(ctx, *entry.ContactID)
	if err != nil {
		return fmt.Errorf("failed to load contact %s: %w", *entry.ContactID, err)
	}

	valuta := entry.BookingDate
	if entry.ValutaDate != nil {
		valuta = *entry.ValutaDate
	}
	if parent != nil && parent.valutaOverride != nil {
		valuta = *parent.valutaOverride
	}

	isSplitParent := contact.Intermediary && entry.SplitDraftID != nil
	amount := entry.Amount
	if isSplitParent {
		// The parent entry settles through its children; its own legs only
		// anchor the hierarchy and the audit trail.
		amount = decimal.Zero
	}

	groupID := uuid.NewString()
	bank := r.newPosting(entry, domain.PostingBank, groupID, amount, valuta)
	bank.AccountID = &account.AccountID
	if parent != nil {
		bank.ParentPostingID = &parent.bankPostingID
	}

	contactLeg := r.newPosting(entry, domain.PostingContact, groupID, amount, valuta)
	contactLeg.ContactID = entry.ContactID
	if parent != nil {
		contactLeg.ParentPostingID = &parent.contactPostingID
	}

	r.commit.Postings = append(r.commit.Postings, bank, contactLeg)
	if !amount.IsZero() {
		r.commit.BalanceChanges[account.AccountID] = r.commit.BalanceChanges[account.AccountID].Add(amount)
	}

	if contact.Self && entry.SavingsPlanID != nil {
		if err := r.bookPlanLeg(ctx, entry, groupID, valuta, contactLeg.ParentPostingID); err != nil {
			return err
		}
	}

	if entry.HasSecurity() {
		r.bookSecurityLegs(entry, groupID, valuta)
	}

	if contact.Self && entry.SavingsPlanID == nil {
		r.selfLinks = append(r.selfLinks, selfLinkJob{posting: contactLeg, subject: entry.Subject, accountID: account.AccountID})
	}

	r.commit.RemoveEntryIDs = append(r.commit.RemoveEntryIDs, entry.EntryID)
	r.moves = append(r.moves, domain.AttachmentMove{
		FromKind: domain.AttachmentOwnerEntry, FromID: entry.EntryID,
		ToKind: domain.AttachmentOwnerPosting, ToID: bank.PostingID,
	})

	if isSplitParent {
		return r.bookSplitChildren(ctx, draft, entry, account, bank.PostingID, contactLeg.PostingID)
	}
	return nil
}

// bookSplitChildren books every draft of the split group behind an
// intermediary entry. Children keep their own booking dates but inherit the
// parent entry's valuta date, and their legs reference the parent's
// zero-amount legs kind for kind.
func (r *bookingRun) bookSplitChildren(ctx context.Context, parentDraft *domain.Draft, parentEntry *domain.Entry, account *domain.Account, bankPostingID, contactPostingID string) error {
	child, err := r.svc.draftRepo.FindDraftByID(ctx, *parentEntry.SplitDraftID)
	if err != nil {
		return fmt.Errorf("failed to load split draft %s: %w", *parentEntry.SplitDraftID, err)
	}
	group := []domain.Draft{*child}
	if child.UploadGroupID != nil {
		group, err = r.svc.draftRepo.FindDraftsByUploadGroup(ctx, *child.UploadGroupID)
		if err != nil {
			return fmt.Errorf("failed to load upload group %s: %w", *child.UploadGroupID, err)
		}
	}

	legs := &parentLegs{
		bankPostingID:    bankPostingID,
		contactPostingID: contactPostingID,
		valutaOverride:   parentEntry.ValutaDate,
	}

	for i := range group {
		d := group[i]
		if d.DraftID == parentDraft.DraftID || r.visited[d.DraftID] {
			continue
		}
		r.visited[d.DraftID] = true

		entries, err := r.svc.draftRepo.FindEntriesByDraftID(ctx, d.DraftID)
		if err != nil {
			return fmt.Errorf("failed to load entries of split draft %s: %w", d.DraftID, err)
		}
		for j := range entries {
			if err := ctx.Err(); err != nil {
				return err
			}
			if !entries[j].InValidationScope() {
				continue
			}
			if err := r.bookEntry(ctx, &d, &entries[j], account, legs); err != nil {
				return err
			}
		}

		r.commit.CommitDraftIDs = append(r.commit.CommitDraftIDs, d.DraftID)
		r.moves = append(r.moves, domain.AttachmentMove{
			FromKind: domain.AttachmentOwnerDraft, FromID: d.DraftID,
			ToKind: domain.AttachmentOwnerAccount, ToID: account.AccountID,
		})
	}
	return nil
}

// bookPlanLeg creates the savings-plan leg (negated amount, so an outflow
// becomes a positive contribution) and advances a recurring plan's target
// date. Each plan is advanced at most once per booking pass.
func (r *bookingRun) bookPlanLeg(ctx context.Context, entry *domain.Entry, groupID string, valuta time.Time, parentRef *string) error {
	planID := *entry.SavingsPlanID
	plan, err := r.loadPlan(ctx, planID)
	if err != nil {
		return err
	}

	leg := r.newPosting(entry, domain.PostingSavingsPlan, groupID, entry.Amount.Neg(), valuta)
	leg.SavingsPlanID = &planID
	leg.ParentPostingID = parentRef
	r.commit.Postings = append(r.commit.Postings, leg)

	r.planned[planID] = r.planned[planID].Add(entry.Amount.Neg())
	if entry.ArchiveOnBooking {
		r.archivePlans[planID] = true
	}

	if plan.PlanType == domain.PlanRecurring && plan.TargetDate != nil && !r.advancedPlans[planID] {
		advanced := schedule.NextTargetDate(*plan.TargetDate, plan.Interval, entry.BookingDate)
		plan.TargetDate = &advanced
		plan.LastUpdatedAt = r.now
		plan.LastUpdatedBy = r.ownerID
		r.advancedPlans[planID] = true
		r.dirtyPlans[planID] = true
	}
	return nil
}

// bookSecurityLegs decomposes a security entry into its main leg and optional
// fee and tax legs. The legs sum back to the entry amount exactly.
func (r *bookingRun) bookSecurityLegs(entry *domain.Entry, groupID string, valuta time.Time) {
	kind := *entry.SecurityTxKind
	factor := decimal.NewFromInt(1)
	if kind == domain.SecuritySell || kind == domain.SecurityDividend {
		factor = decimal.NewFromInt(-1)
	}
	fee := entry.Fee.Abs()
	tax := entry.Tax.Abs()

	main := r.newPosting(entry, domain.PostingSecurity, groupID,
		entry.Amount.Sub(factor.Mul(fee)).Sub(factor.Mul(tax)), valuta)
	main.SecurityID = entry.SecurityID
	main.SecurityTxKind = &kind
	if kind != domain.SecurityDividend && entry.Quantity != nil {
		quantity := entry.Quantity.Abs()
		if kind == domain.SecuritySell {
			quantity = quantity.Neg()
		}
		main.Quantity = &quantity
	}
	r.commit.Postings = append(r.commit.Postings, main)

	if !fee.IsZero() {
		feeKind := domain.SecurityFee
		leg := r.newPosting(entry, domain.PostingSecurity, groupID, factor.Mul(fee), valuta)
		leg.SecurityID = entry.SecurityID
		leg.SecurityTxKind = &feeKind
		r.commit.Postings = append(r.commit.Postings, leg)
	}
	if !tax.IsZero() {
		taxKind := domain.SecurityTax
		leg := r.newPosting(entry, domain.PostingSecurity, groupID, factor.Mul(tax), valuta)
		leg.SecurityID = entry.SecurityID
		leg.SecurityTxKind = &taxKind
		r.commit.Postings = append(r.commit.Postings, leg)
	}
}

// archiveCompletedPlans archives every plan flagged archive-on-booking whose
// posted total, including this run's contributions, exactly reaches its
// target, and appends an information message for each.
func (r *bookingRun) archiveCompletedPlans(ctx context.Context, draftID string, result *dto.BookingResult) error {
	for _, planID := range r.planOrder {
		if !r.archivePlans[planID] {
			continue
		}
		plan := r.plans[planID]
		if plan.TargetAmount == nil {
			continue
		}
		posted, err := r.svc.postingRepo.SumPlanPostings(ctx, planID)
		if err != nil {
			return fmt.Errorf("failed to sum postings of plan %s: %w", planID, err)
		}
		if posted.Add(r.planned[planID]).Equal(*plan.TargetAmount) {
			plan.Archived = true
			plan.LastUpdatedAt = r.now
			plan.LastUpdatedBy = r.ownerID
			r.dirtyPlans[planID] = true
			result.Validation.Add(domain.NewDiagnostic(domain.CodeSavingsPlanArchived, draftID, nil, plan.Name))
		}
	}
	return nil
}

// linkSelfTransfers pairs each new self contact leg with its counterpart on
// another account: same contact, negated amount, same subject, no existing
// link, closest booking date (ties go to the earliest created candidate).
// Linking is best-effort; failures are logged and never undo the booking.
func (r *bookingRun) linkSelfTransfers(ctx context.Context, logger *slog.Logger) {
	for _, job := range r.selfLinks {
		if err := r.linkSelfTransfer(ctx, job); err != nil {
			logger.Warn("self-transfer linking failed",
				slog.String("posting_id", job.posting.PostingID),
				slog.String("error", err.Error()),
			)
		}
	}
}

func (r *bookingRun) linkSelfTransfer(ctx context.Context, job selfLinkJob) error {
	candidates, err := r.svc.postingRepo.FindLinkCandidates(ctx, r.ownerID, *job.posting.ContactID, job.posting.Amount.Neg(), job.subject)
	if err != nil {
		return fmt.Errorf("failed to search link candidates: %w", err)
	}

	var best *domain.Posting
	var bestDiff time.Duration
	for i := range candidates {
		c := &candidates[i]
		if c.EntryID == job.posting.EntryID || c.PostingID == job.posting.PostingID {
			continue
		}
		if c.LinkedPostingID != nil || c.SavingsPlanID != nil {
			continue
		}
		diff := job.posting.BookingDate.Sub(c.BookingDate)
		if diff < 0 {
			diff = -diff
		}
		switch {
		case best == nil, diff < bestDiff:
			best, bestDiff = c, diff
		case diff == bestDiff && c.CreatedAt.Before(best.CreatedAt):
			// Equidistant candidates: the earliest created one wins.
			best = c
		}
	}
	if best == nil {
		return nil
	}

	siblings, err := r.svc.postingRepo.FindPostingsByGroupID(ctx, best.GroupID)
	if err != nil {
		return fmt.Errorf("failed to load postings of group %s: %w", best.GroupID, err)
	}
	for i := range siblings {
		sib := &siblings[i]
		if sib.Kind == domain.PostingBank && sib.AccountID != nil && *sib.AccountID == job.accountID {
			// Both sides on the same account is a plain reversal, not a
			// transfer between two accounts.
			return nil
		}
		if sib.Kind == domain.PostingSavingsPlan {
			return nil
		}
	}

	if err := r.svc.postingRepo.LinkPostings(ctx, job.posting.PostingID, best.PostingID); err != nil {
		return fmt.Errorf("failed to link postings: %w", err)
	}
	return nil
}

func (r *bookingRun) loadPlan(ctx context.Context, planID string) (*domain.SavingsPlan, error) {
	if plan, ok := r.plans[planID]; ok {
		return plan, nil
	}
	plan, err := r.svc.planRepo.FindPlanByID(ctx, planID)
	if err != nil {
		return nil, fmt.Errorf("failed to load savings plan %s: %w", planID, err)
	}
	r.plans[planID] = plan
	r.planOrder = append(r.planOrder, planID)
	return plan, nil
}

func (r *bookingRun) newPosting(entry *domain.Entry, kind domain.PostingKind, groupID string, amount decimal.Decimal, valuta time.Time) domain.Posting {
	return domain.Posting{
		PostingID:   uuid.NewString(),
		EntryID:     entry.EntryID,
		Kind:        kind,
		BookingDate: entry.BookingDate,
		ValutaDate:  valuta,
		Amount:      amount,
		GroupID:     groupID,
		AuditFields: domain.AuditFields{
			CreatedAt:     r.now,
			CreatedBy:     r.ownerID,
			LastUpdatedAt: r.now,
			LastUpdatedBy: r.ownerID,
		},
	}
}
